package pst

import (
	"io"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// ErrLocked is returned by Open when a Unicode PST parses but is held
// under an exclusive lock by its owning mail client, per spec.md's
// read-lock requirement for PST versions >= 23.
var ErrLocked = mailprop.Lockedf("pst: open", "file is locked by another process")

// PST is an opened Personal Storage Table file: its header, the node
// and block database it addresses, and the messaging layer (message
// store properties, name-to-id map) rooted in that database. Valid
// reports whether the file parsed as a PST container at all; an
// invalid file is not a fatal error, the caller should simply skip it.
type PST struct {
	r         io.ReadSeeker
	Header    *Header
	NBD       *NBD
	LTP       *LTP
	Messaging *Messaging
	Valid     bool
}

// Open parses the PST container from r. If the file doesn't carry a
// valid PST signature/version, Valid is false and every other field is
// zero; this is not returned as an error, matching the sibling CFB
// reader's "skip invalid file" behavior for mixed file trees.
func Open(r io.ReadSeeker) (*PST, error) {
	header, err := ParseHeader(r)
	if err != nil {
		if mailprop.IsInvalidContainer(err) {
			return &PST{r: r, Valid: false}, nil
		}
		return nil, err
	}

	if header.IsUnicode && probeReadLock(r) {
		return nil, ErrLocked
	}

	nbd, err := OpenNBD(r, header.IsAnsi, header.BCryptMethod,
		int64(header.Root.BREFNBT.Ib), int64(header.Root.BREFBBT.Ib))
	if err != nil {
		return nil, err
	}

	ltp := NewLTP(nbd)
	messaging, err := OpenMessaging(ltp)
	if err != nil {
		return nil, err
	}

	return &PST{r: r, Header: header, NBD: nbd, LTP: ltp, Messaging: messaging, Valid: true}, nil
}

// RootFolder decodes the mailbox's top-level folder, the root of the
// whole folder tree (not itself shown to the end user; its immediate
// sub-folders are the visible top-level folders, e.g. "Top of Outlook
// data file").
func (p *PST) RootFolder() (*Folder, error) {
	return OpenFolder(NewNID(NIDRootFolder), p.LTP, "", p.Messaging)
}

// OpenFolder decodes the folder named by nid as a child of parentPath.
func (p *PST) OpenFolder(nid NID, parentPath string) (*Folder, error) {
	return OpenFolder(nid, p.LTP, parentPath, p.Messaging)
}

// OpenMessage decodes the message named by nid.
func (p *PST) OpenMessage(nid NID) (*Message, error) {
	return OpenMessage(nid, p.LTP)
}
