// +build linux darwin

package pst

import (
	"os"
	"syscall"
)

// fileIsExclusivelyLocked probes for a hostile lock the way `readpst`
// and similar tools do: take a non-blocking shared flock on a second
// fd over the same file and see whether the kernel refuses it. A live
// Unicode PST that Outlook has open carries an exclusive lock, so the
// probe fails with EWOULDBLOCK; anything else (no lock, or only other
// shared locks) succeeds and is released immediately.
func fileIsExclusivelyLocked(f *os.File) bool {
	probe, err := os.Open(f.Name())
	if err != nil {
		return false
	}
	defer probe.Close()

	err = syscall.Flock(int(probe.Fd()), syscall.LOCK_SH|syscall.LOCK_NB)
	if err == nil {
		syscall.Flock(int(probe.Fd()), syscall.LOCK_UN)
		return false
	}
	return err == syscall.EWOULDBLOCK
}
