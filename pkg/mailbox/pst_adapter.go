package mailbox

import (
	"io"

	"github.com/panhunt/mailcore/pkg/mailprop"
	"github.com/panhunt/mailcore/pkg/pst"
)

// pstContainer adapts an opened PST mailbox database to Container.
type pstContainer struct {
	r io.ReadSeeker
	p *pst.PST
}

// OpenPST opens r as a PST mailbox database.
func OpenPST(r io.ReadSeeker) (Container, error) {
	p, err := pst.Open(r)
	if err != nil {
		return nil, err
	}
	return &pstContainer{r: r, p: p}, nil
}

func (pc *pstContainer) Valid() bool { return pc.p.Valid }

func (pc *pstContainer) Status() string {
	if !pc.p.Valid {
		return "invalid PST container"
	}
	return "valid PST container"
}

func (pc *pstContainer) RootFolder() (Folder, error) {
	f, err := pc.p.RootFolder()
	if err != nil {
		return nil, err
	}
	return &pstFolder{p: pc.p, f: f}, nil
}

func (pc *pstContainer) Close() error {
	if closer, ok := pc.r.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type pstFolder struct {
	p *pst.PST
	f *pst.Folder
}

func (f *pstFolder) Name() string        { return f.f.DisplayName }
func (f *pstFolder) Path() string        { return f.f.Path }
func (f *pstFolder) ContentCount() int32 { return f.f.ContentCount }

func (f *pstFolder) Subfolders() ([]Folder, error) {
	out := make([]Folder, 0, len(f.f.SubFolders))
	for _, sub := range f.f.SubFolders {
		child, err := f.p.OpenFolder(sub.Nid, sub.ParentPath)
		if err != nil {
			return nil, err
		}
		out = append(out, &pstFolder{p: f.p, f: child})
	}
	return out, nil
}

func (f *pstFolder) Messages() ([]Message, error) {
	out := make([]Message, 0, len(f.f.SubMessages))
	for _, sub := range f.f.SubMessages {
		m, err := f.p.OpenMessage(sub.Nid)
		if err != nil {
			return nil, err
		}
		out = append(out, &pstMessage{p: f.p, m: m})
	}
	return out, nil
}

type pstMessage struct {
	p *pst.PST
	m *pst.Message
}

func (m *pstMessage) Subject() string                    { return m.m.Subject }
func (m *pstMessage) Body() string                       { return m.m.Body }
func (m *pstMessage) SenderName() string                 { return m.m.SenderName }
func (m *pstMessage) SenderSmtpAddress() string           { return m.m.SenderSmtpAddress }
func (m *pstMessage) SentRepresentingName() string        { return m.m.SentRepresentingName }
func (m *pstMessage) DisplayTo() string                   { return m.m.DisplayTo }
func (m *pstMessage) ClientSubmitTime() *mailprop.FileTime { return m.m.ClientSubmitTime }
func (m *pstMessage) HasAttachments() bool                 { return m.m.HasAttachments }

func (m *pstMessage) Recipients() ([]Recipient, error) {
	out := make([]Recipient, 0, len(m.m.SubRecipients))
	for i := range m.m.SubRecipients {
		out = append(out, &pstRecipient{r: &m.m.SubRecipients[i]})
	}
	return out, nil
}

func (m *pstMessage) Attachments() ([]Attachment, error) {
	out := make([]Attachment, 0, len(m.m.SubAttachments))
	for i := range m.m.SubAttachments {
		out = append(out, &pstAttachment{m: m.m, sub: m.m.SubAttachments[i]})
	}
	return out, nil
}

type pstRecipient struct{ r *pst.SubRecipient }

func (r *pstRecipient) DisplayName() string  { return r.r.DisplayName }
func (r *pstRecipient) EmailAddress() string { return r.r.EmailAddress }
func (r *pstRecipient) RecipientType() int32 { return r.r.RecipientType }

// pstAttachment resolves its binary data lazily, only when BinaryData
// is actually called: opening every attachment's PC up front would mean
// decoding heap-on-node structures a caller that only lists filenames
// never needed.
type pstAttachment struct {
	m   *pst.Message
	sub pst.SubAttachment
}

func (a *pstAttachment) Filename() string { return a.sub.Filename }

func (a *pstAttachment) AttachMethod() int32 {
	full, err := a.m.GetAttachment(a.sub)
	if err != nil {
		return 0
	}
	return full.AttachMethod
}

func (a *pstAttachment) BinaryData() ([]byte, error) {
	full, err := a.m.GetAttachment(a.sub)
	if err != nil {
		return nil, err
	}
	return full.BinaryData, nil
}
