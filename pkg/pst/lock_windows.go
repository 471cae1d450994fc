// +build windows

package pst

import (
	"os"

	"golang.org/x/sys/windows"
)

// fileIsExclusivelyLocked is the Windows counterpart of the unix flock
// probe: attempt a non-blocking shared LockFileEx on a second handle
// over the same file. Outlook holds a live Unicode PST under
// LOCKFILE_EXCLUSIVE_LOCK, so the probe fails with
// ERROR_LOCK_VIOLATION; anything else succeeds and is released at once.
func fileIsExclusivelyLocked(f *os.File) bool {
	probe, err := os.Open(f.Name())
	if err != nil {
		return false
	}
	defer probe.Close()

	handle := windows.Handle(probe.Fd())
	var overlapped windows.Overlapped
	err = windows.LockFileEx(handle, windows.LOCKFILE_FAIL_IMMEDIATELY, 0, 1, 0, &overlapped)
	if err == nil {
		windows.UnlockFileEx(handle, 0, 1, 0, &overlapped)
		return false
	}
	return err == windows.ERROR_LOCK_VIOLATION
}
