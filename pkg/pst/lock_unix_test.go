// +build linux darwin

package pst

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProbeReadLock_DetectsExclusiveFlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.pst")
	require.NoError(t, os.WriteFile(path, []byte("pst bytes"), 0o644))

	holder, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	defer holder.Close()
	require.NoError(t, syscall.Flock(int(holder.Fd()), syscall.LOCK_EX|syscall.LOCK_NB))
	defer syscall.Flock(int(holder.Fd()), syscall.LOCK_UN)

	target, err := os.Open(path)
	require.NoError(t, err)
	defer target.Close()

	require.True(t, probeReadLock(target))
}

func TestProbeReadLock_UnlockedFileIsNotLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unlocked.pst")
	require.NoError(t, os.WriteFile(path, []byte("pst bytes"), 0o644))

	target, err := os.Open(path)
	require.NoError(t, err)
	defer target.Close()

	require.False(t, probeReadLock(target))
}
