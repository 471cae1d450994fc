package mailbox

import (
	"io"

	"github.com/panhunt/mailcore/pkg/cfb"
	"github.com/panhunt/mailcore/pkg/mailprop"
)

// cfbContainer adapts a single .msg file to Container: its one message
// sits in a synthetic, unnamed root folder with no sub-folders.
type cfbContainer struct {
	r io.ReadSeeker
	c *cfb.MSCFB
	m *cfb.Message
}

// OpenCFB opens r as a .msg file.
func OpenCFB(r io.ReadSeeker) (Container, error) {
	c, err := cfb.Open(r)
	if err != nil {
		return nil, err
	}
	if !c.Valid {
		return &cfbContainer{r: r, c: c}, nil
	}
	m, err := cfb.OpenMessage(c)
	if err != nil {
		return nil, err
	}
	return &cfbContainer{r: r, c: c, m: m}, nil
}

func (cc *cfbContainer) Valid() bool { return cc.c.Valid }

func (cc *cfbContainer) Status() string {
	if !cc.c.Valid {
		return "invalid CFB container"
	}
	return "valid CFB container (1 message)"
}

func (cc *cfbContainer) RootFolder() (Folder, error) {
	return &cfbFolder{cc: cc}, nil
}

func (cc *cfbContainer) Close() error {
	if closer, ok := cc.r.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type cfbFolder struct {
	cc *cfbContainer
}

func (f *cfbFolder) Name() string         { return "" }
func (f *cfbFolder) Path() string         { return "" }
func (f *cfbFolder) ContentCount() int32 {
	if f.cc.m == nil {
		return 0
	}
	return 1
}
func (f *cfbFolder) Subfolders() ([]Folder, error) { return nil, nil }

func (f *cfbFolder) Messages() ([]Message, error) {
	if f.cc.m == nil {
		return nil, nil
	}
	return []Message{&cfbMessage{m: f.cc.m}}, nil
}

type cfbMessage struct {
	m *cfb.Message
}

func (m *cfbMessage) Subject() string                       { return m.m.Subject }
func (m *cfbMessage) Body() string                          { return m.m.Body }
func (m *cfbMessage) SenderName() string                    { return m.m.SenderName }
func (m *cfbMessage) SenderSmtpAddress() string              { return m.m.SenderSmtpAddress }
func (m *cfbMessage) SentRepresentingName() string           { return m.m.SentRepresentingName }
func (m *cfbMessage) DisplayTo() string                      { return m.m.DisplayTo }
func (m *cfbMessage) ClientSubmitTime() *mailprop.FileTime    { return m.m.ClientSubmitTime }
func (m *cfbMessage) HasAttachments() bool                    { return len(m.m.Attachments) > 0 }

func (m *cfbMessage) Recipients() ([]Recipient, error) {
	out := make([]Recipient, 0, len(m.m.Recipients))
	for i := range m.m.Recipients {
		out = append(out, &cfbRecipient{r: &m.m.Recipients[i]})
	}
	return out, nil
}

func (m *cfbMessage) Attachments() ([]Attachment, error) {
	out := make([]Attachment, 0, len(m.m.Attachments))
	for i := range m.m.Attachments {
		out = append(out, &cfbAttachment{a: &m.m.Attachments[i]})
	}
	return out, nil
}

type cfbRecipient struct{ r *cfb.Recipient }

func (r *cfbRecipient) DisplayName() string   { return r.r.DisplayName }
func (r *cfbRecipient) EmailAddress() string  { return r.r.EmailAddress }
func (r *cfbRecipient) RecipientType() int32  { return r.r.RecipientType }

type cfbAttachment struct{ a *cfb.Attachment }

func (a *cfbAttachment) Filename() string      { return a.a.Filename }
func (a *cfbAttachment) AttachMethod() int32   { return a.a.AttachMethod }
func (a *cfbAttachment) BinaryData() ([]byte, error) {
	return a.a.BinaryData, nil
}
