package cfb

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// Recipient is one decoded entry from a message's numbered
// __recip_version1.0_#NNNNNNNN storage.
type Recipient struct {
	RecipientType int32
	DisplayName   string
	ObjectType    int32
	AddressType   string
	EmailAddress  string
	DisplayType   int32
}

func newRecipient(ps *PropertyStream) Recipient {
	return Recipient{
		RecipientType: asInt32(ps.Get(mailprop.PidTagRecipientType)),
		DisplayName:   asString(ps.Get(mailprop.PidTagDisplayName)),
		ObjectType:    asInt32(ps.Get(mailprop.PidTagObjectType)),
		AddressType:   asString(ps.Get(mailprop.PidTagAddressType)),
		EmailAddress:  asString(ps.Get(mailprop.PidTagEmailAddress)),
		DisplayType:   asInt32(ps.Get(mailprop.PidTagDisplayType)),
	}
}

// Attachment is one decoded entry from a message's numbered
// __attach_version1.0_#NNNNNNNN storage.
type Attachment struct {
	DisplayName       string
	AttachMethod      int32
	AttachmentSize    int32
	AttachFilename    string
	AttachLongFilename string
	Filename          string
	BinaryData        []byte
	AttachMimeTag     string
	AttachExtension   string
}

func newAttachment(ps *PropertyStream) Attachment {
	a := Attachment{
		DisplayName:        asString(ps.Get(mailprop.PidTagDisplayName)),
		AttachMethod:       asInt32(ps.Get(mailprop.PidTagAttachMethod)),
		AttachFilename:     asString(ps.Get(mailprop.PidTagAttachFilename)),
		AttachLongFilename: asString(ps.Get(mailprop.PidTagAttachLongFilename)),
		AttachExtension:    asString(ps.Get(mailprop.PidTagAttachExtension)),
		AttachMimeTag:      asString(ps.Get(mailprop.PidTagAttachMimeTag)),
		AttachmentSize:     asInt32(ps.Get(mailprop.PidTagAttachmentSize)),
	}
	if dataEntry := ps.Get(mailprop.PidTagAttachDataBinary); dataEntry != nil {
		a.BinaryData = dataEntry.Value.Binary
	}
	if a.AttachLongFilename != "" {
		a.Filename = a.AttachLongFilename
	} else {
		a.Filename = a.AttachFilename
	}
	if a.Filename != "" {
		a.Filename = filepath.Base(a.Filename)
	} else {
		a.Filename = fmt.Sprintf("[NoFilename_Method%d]", a.AttachMethod)
	}
	return a
}

// Message is the top-level facade over a .msg file: the root storage's
// properties plus its numbered recipient and attachment storages.
type Message struct {
	cfb *MSCFB

	prop_stream *PropertyStream

	Subject                string
	MessageFlags           int32
	Body                   string
	DisplayTo              string
	ClientSubmitTime       *mailprop.FileTime
	SentRepresentingName   string
	SenderName             string
	SenderSmtpAddress      string
	MessageDeliveryTime    *mailprop.FileTime
	MessageStatus          int32
	MessageSize            int32
	TransportMessageHeaders string

	Recipients  []Recipient
	Attachments []Attachment
}

// MSCFB is the opened CFB container backing a .msg file: the header,
// FAT/MiniFAT allocation tables, and directory tree. Valid reports
// whether the file parsed as a CFB container at all; an invalid file
// is not a fatal error, the caller should simply skip it.
type MSCFB struct {
	r       io.ReadSeeker
	Header  *Header
	FAT     *FAT
	MiniFAT *MiniFAT
	Tree    *Tree
	Valid   bool
}

// Open parses the CFB container from r. If the file doesn't carry a
// valid CFB signature/version, Valid is false and every other field is
// zero; this is not returned as an error, matching the source's
// "skip invalid msg file" behavior.
func Open(r io.ReadSeeker) (*MSCFB, error) {
	header, err := ParseHeader(r)
	if err != nil {
		if mailprop.IsInvalidContainer(err) {
			return &MSCFB{r: r, Valid: false}, nil
		}
		return nil, err
	}

	fat, err := BuildFAT(r, header)
	if err != nil {
		return nil, err
	}
	minifat, err := BuildMiniFAT(fat, header)
	if err != nil {
		return nil, err
	}
	tree, err := BuildTree(fat, minifat, header)
	if err != nil {
		return nil, err
	}
	tree.fat, tree.minifat = fat, minifat

	if err := minifat.LoadMiniStream(fat, tree.Root.StartingSectorLocation, tree.Root.StreamSize); err != nil {
		return nil, err
	}

	return &MSCFB{r: r, Header: header, FAT: fat, MiniFAT: minifat, Tree: tree, Valid: true}, nil
}

// OpenMessage decodes the message facade atop an open MSCFB container.
func OpenMessage(c *MSCFB) (*Message, error) {
	root := c.Tree.Root
	ps, err := ParsePropertyStream(root, TopLevelHeaderSize)
	if err != nil {
		return nil, err
	}

	m := &Message{cfb: c, prop_stream: ps}
	m.Subject = mailprop.StripSubjectPrefix(asString(ps.Get(mailprop.PidTagSubjectW)))
	m.MessageFlags = asInt32(ps.Get(mailprop.PidTagMessageFlags))
	m.Body = asString(ps.Get(mailprop.PidTagBody))
	m.DisplayTo = asString(ps.Get(mailprop.PidTagDisplayToW))
	m.SentRepresentingName = asString(ps.Get(mailprop.PidTagSentRepresentingNameW))
	m.SenderName = asString(ps.Get(mailprop.PidTagSenderName))
	m.SenderSmtpAddress = asString(ps.Get(mailprop.PidTagSenderSmtpAddress))
	m.MessageStatus = asInt32(ps.Get(mailprop.PidTagMessageStatus))
	m.MessageSize = asInt32(ps.Get(mailprop.PidTagMessageSize))
	m.TransportMessageHeaders = asString(ps.Get(mailprop.PidTagTransportMessageHeaders))
	if e := ps.Get(mailprop.PidTagClientSubmitTime); e != nil {
		t := e.Value.Time
		m.ClientSubmitTime = &t
	}
	if e := ps.Get(mailprop.PidTagMessageDeliveryTime); e != nil {
		t := e.Value.Time
		m.MessageDeliveryTime = &t
	}

	if err := m.loadRecipients(root); err != nil {
		return nil, err
	}
	if err := m.loadAttachments(root); err != nil {
		return nil, err
	}
	return m, nil
}

// loadRecipients enumerates __recip_version1.0_#NNNNNNNN storages,
// stopping at the first missing index.
func (m *Message) loadRecipients(root *DirectoryEntry) error {
	for i := 0; ; i++ {
		name := fmt.Sprintf("__recip_version1.0_#%08X", i)
		entry, ok := root.Children[name]
		if !ok {
			break
		}
		ps, err := ParsePropertyStream(entry, RecipOrAttachHeaderSize)
		if err != nil {
			return err
		}
		m.Recipients = append(m.Recipients, newRecipient(ps))
	}
	return nil
}

// loadAttachments enumerates __attach_version1.0_#NNNNNNNN storages,
// stopping at the first missing index.
func (m *Message) loadAttachments(root *DirectoryEntry) error {
	for i := 0; ; i++ {
		name := fmt.Sprintf("__attach_version1.0_#%08X", i)
		entry, ok := root.Children[name]
		if !ok {
			break
		}
		ps, err := ParsePropertyStream(entry, RecipOrAttachHeaderSize)
		if err != nil {
			return err
		}
		m.Attachments = append(m.Attachments, newAttachment(ps))
	}
	return nil
}

func asString(e *PropertyEntry) string {
	if e == nil {
		return ""
	}
	switch e.Value.Type {
	case mailprop.PtypString:
		return e.Value.Str
	case mailprop.PtypString8:
		return string(e.Value.Str8)
	default:
		return ""
	}
}

func asInt32(e *PropertyEntry) int32 {
	if e == nil {
		return 0
	}
	switch e.Value.Type {
	case mailprop.PtypInteger16:
		return int32(e.Value.Int16)
	case mailprop.PtypInteger32, mailprop.PtypObject:
		return e.Value.Int32
	case mailprop.PtypInteger64:
		return int32(e.Value.Int64)
	case mailprop.PtypBoolean:
		if e.Value.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}
