package pst

import (
	"io"
	"os"
)

// probeReadLock reports whether r, when it is backed by a real file on
// disk, is currently held under an exclusive lock by another process
// (the owning mail client, on platforms where opening a live PST takes
// one). Readers that aren't an *os.File — in-memory test buffers, for
// instance — are never contended and always report unlocked.
func probeReadLock(r io.ReadSeeker) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return fileIsExclusivelyLocked(f)
}
