package mailprop

// Well-known property identifiers needed by folder/message/attachment
// composition in both pkg/cfb and pkg/pst. Values are the fixed
// MS-OXPROPS identifiers; the three Nameid* values are the PST
// name-to-id map's own internal property ids (MS-PST 2.4.7.1), not
// MS-OXPROPS.
const (
	PidTagDisplayName              PropertyId = 0x3001
	PidTagSubjectW                 PropertyId = 0x0037
	PidTagContentCount             PropertyId = 0x3602
	PidTagContainerClass           PropertyId = 0x3613
	PidTagSubfolders               PropertyId = 0x360A
	PidTagSentRepresentingNameW    PropertyId = 0x0042
	PidTagClientSubmitTime         PropertyId = 0x0039
	PidTagMessageClassW            PropertyId = 0x001A
	PidTagMessageFlags             PropertyId = 0x0E07
	PidTagMessageSize              PropertyId = 0x0E08
	PidTagMessageStatus            PropertyId = 0x0E17
	PidTagTransportMessageHeaders  PropertyId = 0x007D
	PidTagMessageDeliveryTime      PropertyId = 0x0E06
	PidTagBody                     PropertyId = 0x1000
	PidTagDisplayToW               PropertyId = 0x0E04
	PidTagSenderSmtpAddress        PropertyId = 0x5D01
	PidTagSenderName               PropertyId = 0x0C1A
	PidTagRecipientType            PropertyId = 0x0C15
	PidTagAddressType              PropertyId = 0x3002
	PidTagEmailAddress             PropertyId = 0x3003
	PidTagObjectType                PropertyId = 0x0FFE
	PidTagEntryID                  PropertyId = 0x0FFF
	PidTagDisplayType              PropertyId = 0x3900
	PidTagAttachmentSize           PropertyId = 0x0E20
	PidTagAttachFilename           PropertyId = 0x3704
	PidTagAttachLongFilename       PropertyId = 0x3707
	PidTagAttachMethod             PropertyId = 0x3705
	PidTagAttachDataBinary         PropertyId = 0x3701
	PidTagAttachDataObject         PropertyId = 0x3701
	PidTagAttachMimeTag            PropertyId = 0x370E
	PidTagAttachExtension          PropertyId = 0x3703
	PidTagRecordKey                PropertyId = 0x0FF9
	PidTagPstPassword              PropertyId = 0x67FF
	PidTagIpmSubTreeEntryId        PropertyId = 0x35E0
	PidTagIpmWastebasketEntryId    PropertyId = 0x35E3
	PidTagFinderEntryId            PropertyId = 0x35E7

	PidTagNameidStreamGuid   PropertyId = 0x0002
	PidTagNameidStreamEntry  PropertyId = 0x0003
	PidTagNameidStreamString PropertyId = 0x0004
)

// EntryID-bearing property ids: properties whose raw binary value is
// re-typed as an EntryID rather than left as opaque binary.
var EntryIDProperties = map[PropertyId]bool{
	PidTagEntryID:               true,
	PidTagFinderEntryId:         true,
	PidTagIpmSubTreeEntryId:     true,
	PidTagIpmWastebasketEntryId: true,
}

// Attachment method values (PidTagAttachMethod).
const (
	AttachMethodByValue         = 0x01
	AttachMethodEmbeddedMessage = 0x05
	AttachMethodStorage         = 0x06
)

// Message flag bits (PidTagMessageFlags).
const (
	MessageFlagRead         = 0x0001
	MessageFlagUnmodified   = 0x0002
	MessageFlagUnsent       = 0x0008
	MessageFlagHasAttach    = 0x0010
	MessageFlagFromMe       = 0x0020
	MessageFlagFAI          = 0x0040
	MessageFlagNotifyRead   = 0x0100
	MessageFlagNotifyUnread = 0x0200
	MessageFlagInternet     = 0x2000
)

// StripSubjectPrefix removes the MAPI subject-prefix compression marker
// (0x01 followed by the prefix length byte) that precedes a reply/
// forward prefix in PidTagSubject values.
func StripSubjectPrefix(subject string) string {
	r := []rune(subject)
	if len(r) >= 2 && r[0] == 0x01 {
		return string(r[2:])
	}
	return subject
}
