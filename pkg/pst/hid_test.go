package pst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHIDFields(t *testing.T) {
	// blockIndex=3, index=5, type=0 (NIDTypeHID)
	value := uint32(3)<<16 | uint32(5)<<5
	h := HID{Value: value}
	assert.Equal(t, NIDTypeHID, h.Type())
	assert.Equal(t, uint32(5), h.Index())
	assert.Equal(t, uint32(3), h.BlockIndex())
	assert.False(t, h.Zero())
	assert.True(t, (HID{}).Zero())
}

func TestDecodeHIDFromBytes(t *testing.T) {
	raw := []byte{0x21, 0x00, 0x02, 0x00} // index=1, type=1 (NIDTypeInternal), blockIndex=2
	h := DecodeHID(raw)
	assert.Equal(t, NIDTypeInternal, h.Type())
	assert.Equal(t, uint32(1), h.Index())
	assert.Equal(t, uint32(2), h.BlockIndex())
}
