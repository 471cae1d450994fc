package pst

import (
	"fmt"
	"path/filepath"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// Attachment is a fully decoded attachment, reached on demand from a
// Message's sub-node rather than loaded eagerly with its parent.
type Attachment struct {
	pc *PC

	DisplayName        string
	AttachMethod       int32
	AttachmentSize     int32
	AttachFilename     string
	AttachLongFilename string
	Filename           string
	AttachMimeTag      string
	AttachExtension    string
	BinaryData         []byte
}

// OpenAttachment decodes the attachment rooted at the given sub-node
// entry, a child of the owning message's own HN.
func OpenAttachment(ltp *LTP, entry SLEntry) (*Attachment, error) {
	pc, err := ltp.GetPCBySLEntry(entry)
	if err != nil {
		return nil, err
	}
	a := &Attachment{pc: pc}

	dn, dnOK := pc.Properties[mailprop.PidTagDisplayName]
	a.DisplayName = asString(dn, dnOK)
	if am, ok := pc.Properties[mailprop.PidTagAttachMethod]; ok {
		a.AttachMethod = asInt32(am, ok)
	}
	if sz, ok := pc.Properties[mailprop.PidTagAttachmentSize]; ok {
		a.AttachmentSize = asInt32(sz, ok)
	}
	if fn, ok := pc.Properties[mailprop.PidTagAttachFilename]; ok {
		a.AttachFilename = asString(fn, ok)
	}
	if lfn, ok := pc.Properties[mailprop.PidTagAttachLongFilename]; ok {
		a.AttachLongFilename = asString(lfn, ok)
	}
	switch {
	case a.AttachLongFilename != "":
		a.Filename = filepath.Base(a.AttachLongFilename)
	case a.AttachFilename != "":
		a.Filename = filepath.Base(a.AttachFilename)
	default:
		a.Filename = fmt.Sprintf("[NoFilename_Method%d]", a.AttachMethod)
	}
	if mt, ok := pc.Properties[mailprop.PidTagAttachMimeTag]; ok {
		a.AttachMimeTag = asString(mt, ok)
	}
	if ext, ok := pc.Properties[mailprop.PidTagAttachExtension]; ok {
		a.AttachExtension = asString(ext, ok)
	}

	if a.AttachMethod == mailprop.AttachMethodByValue {
		if bin, ok := pc.Properties[mailprop.PidTagAttachDataBinary]; ok {
			a.BinaryData = asBinary(bin, ok)
		}
	} else if bin, ok := pc.Properties[mailprop.PidTagAttachDataObject]; ok {
		a.BinaryData = asBinary(bin, ok)
	}

	return a, nil
}
