package pst

import (
	"github.com/panhunt/mailcore/pkg/mailprop"
)

// SubAttachment is one row of a message's attachment table: enough to
// list and label an attachment without decoding its binary data.
type SubAttachment struct {
	Nid                NID
	AttachmentSize     int32
	AttachFilename     string
	AttachLongFilename string
	Filename           string
}

// SubRecipient is one row of a message's recipient table.
type SubRecipient struct {
	RecipientType int32
	DisplayName   string
	ObjectType    int32
	AddressType   string
	EmailAddress  string
	DisplayType   int32
	EntryId       []byte
}

// Message is a fully decoded message, either a normal top-level message
// reached by its own NBT nid, or an embedded message reached through a
// parent message's attachment sub-node.
type Message struct {
	ltp *LTP
	pc  *PC

	MessageClass              string
	HasAttachments            bool
	Read                      bool
	MessageSize               int32
	MessageStatus             int32
	TransportMessageHeaders   string
	MessageDeliveryTime       *mailprop.FileTime
	Body                      string
	Subject                   string
	DisplayTo                 string
	SenderSmtpAddress         string
	SentRepresentingName      string
	SenderName                string
	ClientSubmitTime          *mailprop.FileTime

	SubAttachments []SubAttachment
	SubRecipients  []SubRecipient

	attachmentEntries map[uint32]SLEntry
}

// OpenMessage decodes the normal top-level message named by nid.
func OpenMessage(nid NID, ltp *LTP) (*Message, error) {
	if nid.Type() != NIDTypeNormalMessage {
		return nil, mailprop.Corruptf("pst: message", "invalid message NID type %#x", nid.Type())
	}
	pc, err := ltp.GetPCByNID(nid)
	if err != nil {
		return nil, err
	}
	hn, err := ltp.openHN(nid)
	if err != nil {
		return nil, err
	}
	return buildMessage(ltp, pc, hn)
}

// OpenEmbeddedMessage decodes an embedded message reached through a
// parent message's attachment sub-node, using a heap-on-node rooted at
// the sub-node's own block chain instead of an NBT entry.
func OpenEmbeddedMessage(ltp *LTP, entry SLEntry) (*Message, error) {
	pc, err := ltp.GetPCBySLEntry(entry)
	if err != nil {
		return nil, err
	}
	hn, err := ltp.openHNFromSLEntry(entry)
	if err != nil {
		return nil, err
	}
	return buildMessage(ltp, pc, hn)
}

func buildMessage(ltp *LTP, pc *PC, hn *HN) (*Message, error) {
	m := &Message{ltp: ltp, pc: pc}

	if v, ok := pc.Properties[mailprop.PidTagMessageClassW]; ok {
		m.MessageClass = asString(v, ok)
	}
	if v, ok := pc.Properties[mailprop.PidTagMessageFlags]; ok {
		flags := asInt32(v, ok)
		m.HasAttachments = flags&mailprop.MessageFlagHasAttach != 0
		m.Read = flags&mailprop.MessageFlagRead != 0
	}
	if v, ok := pc.Properties[mailprop.PidTagMessageSize]; ok {
		m.MessageSize = asInt32(v, ok)
	}
	if v, ok := pc.Properties[mailprop.PidTagMessageStatus]; ok {
		m.MessageStatus = asInt32(v, ok)
	}
	if v, ok := pc.Properties[mailprop.PidTagTransportMessageHeaders]; ok {
		m.TransportMessageHeaders = asString(v, ok)
	}
	if v, ok := pc.Properties[mailprop.PidTagMessageDeliveryTime]; ok {
		m.MessageDeliveryTime = asTime(v, ok)
	}
	if v, ok := pc.Properties[mailprop.PidTagBody]; ok {
		m.Body = asString(v, ok)
	}
	if v, ok := pc.Properties[mailprop.PidTagSubjectW]; ok {
		m.Subject = mailprop.StripSubjectPrefix(asString(v, ok))
	}
	if v, ok := pc.Properties[mailprop.PidTagDisplayToW]; ok {
		m.DisplayTo = asString(v, ok)
	}
	if v, ok := pc.Properties[mailprop.PidTagSenderSmtpAddress]; ok {
		m.SenderSmtpAddress = asString(v, ok)
	}
	if v, ok := pc.Properties[mailprop.PidTagSentRepresentingNameW]; ok {
		m.SentRepresentingName = asString(v, ok)
	}
	if v, ok := pc.Properties[mailprop.PidTagSenderName]; ok {
		m.SenderName = asString(v, ok)
	}
	if v, ok := pc.Properties[mailprop.PidTagClientSubmitTime]; ok {
		m.ClientSubmitTime = asTime(v, ok)
	}

	var attachmentTableEntry, recipientTableEntry *SLEntry
	m.attachmentEntries = map[uint32]SLEntry{}
	for nidValue, entry := range hn.Subnodes {
		subNID := NID{Value: nidValue}
		switch subNID.Type() {
		case NIDTypeAttachmentTable:
			e := entry
			attachmentTableEntry = &e
		case NIDTypeRecipientTable:
			e := entry
			recipientTableEntry = &e
		case NIDTypeAttachment:
			m.attachmentEntries[nidValue] = entry
		}
	}

	if attachmentTableEntry != nil {
		tc, err := ltp.GetTCBySLEntry(*attachmentTableEntry)
		if err != nil {
			return nil, err
		}
		for i := 0; i < tc.Len(); i++ {
			nid := NID{Value: tc.RowID(i)}
			sz, _ := tc.Value(i, mailprop.PidTagAttachmentSize)
			fn, _ := tc.Value(i, mailprop.PidTagAttachFilename)
			lfn, _ := tc.Value(i, mailprop.PidTagAttachLongFilename)
			sa := SubAttachment{
				Nid:                nid,
				AttachmentSize:     asInt32(sz, true),
				AttachFilename:     asString(fn, true),
				AttachLongFilename: asString(lfn, true),
			}
			switch {
			case sa.AttachLongFilename != "":
				sa.Filename = sa.AttachLongFilename
			case sa.AttachFilename != "":
				sa.Filename = sa.AttachFilename
			default:
				sa.Filename = "[None]"
			}
			m.SubAttachments = append(m.SubAttachments, sa)
		}
	}

	if recipientTableEntry != nil {
		tc, err := ltp.GetTCBySLEntry(*recipientTableEntry)
		if err != nil {
			return nil, err
		}
		for i := 0; i < tc.Len(); i++ {
			rt, _ := tc.Value(i, mailprop.PidTagRecipientType)
			dn, _ := tc.Value(i, mailprop.PidTagDisplayName)
			ot, _ := tc.Value(i, mailprop.PidTagObjectType)
			at, _ := tc.Value(i, mailprop.PidTagAddressType)
			ea, _ := tc.Value(i, mailprop.PidTagEmailAddress)
			dt, _ := tc.Value(i, mailprop.PidTagDisplayType)
			eid, _ := tc.Value(i, mailprop.PidTagEntryID)
			m.SubRecipients = append(m.SubRecipients, SubRecipient{
				RecipientType: asInt32(rt, true),
				DisplayName:   asString(dn, true),
				ObjectType:    asInt32(ot, true),
				AddressType:   asString(at, true),
				EmailAddress:  asString(ea, true),
				DisplayType:   asInt32(dt, true),
				EntryId:       asBinary(eid, true),
			})
		}
	}

	return m, nil
}

// GetAttachment decodes the full attachment backing sub.
func (m *Message) GetAttachment(sub SubAttachment) (*Attachment, error) {
	entry, ok := m.attachmentEntries[sub.Nid.Value]
	if !ok {
		return nil, mailprop.Corruptf("pst: message", "attachment nid %#x has no sub-node", sub.Nid.Value)
	}
	return OpenAttachment(m.ltp, entry)
}

// GetEmbeddedMessage decodes sub as an embedded message, valid only
// when its backing attachment's AttachMethod is AttachMethodEmbeddedMessage.
func (m *Message) GetEmbeddedMessage(sub SubAttachment) (*Message, error) {
	entry, ok := m.attachmentEntries[sub.Nid.Value]
	if !ok {
		return nil, mailprop.Corruptf("pst: message", "attachment nid %#x has no sub-node", sub.Nid.Value)
	}
	return OpenEmbeddedMessage(m.ltp, entry)
}
