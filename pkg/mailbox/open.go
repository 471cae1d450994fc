package mailbox

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OpenFile opens path as a mail container, selecting the CFB or PST
// reader by extension (".msg" vs ".pst") and falling back to trying
// PST then CFB for anything else, matching a mixed file tree where
// extensions aren't trustworthy.
func OpenFile(path string) (Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".msg":
		return OpenCFB(f)
	case ".pst", ".ost":
		return OpenPST(f)
	}

	c, err := OpenPST(f)
	if err != nil {
		return nil, err
	}
	if c.Valid() {
		return c, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return OpenCFB(f)
}
