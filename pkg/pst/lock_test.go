package pst

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeReadLock_NonFileReaderIsNeverLocked(t *testing.T) {
	assert.False(t, probeReadLock(bytes.NewReader([]byte("not a real file"))))
}
