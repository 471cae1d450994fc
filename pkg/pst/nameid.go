package pst

import (
	"encoding/binary"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// Well-known property set GUIDs used by wGuid 1 and 2; wGuid >= 3 index
// into the name-to-id map's own GUID stream instead.
var (
	guidPSMapi           = mailprop.GUID{0x28, 0x03, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}
	guidPSPublicStrings  = mailprop.GUID{0x29, 0x03, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}
)

// NamedProperty is one entry of the name-to-id map: a named property
// (N==1, guid+name identify it) or a numeric named property (N==0, guid
// + dwPropertyID identify it), both resolved to their runtime NPID (the
// property id this name is mapped to in this PST, 0x8000 + index).
type NamedProperty struct {
	DwPropertyID uint32
	N            bool
	WGuid        uint16
	Guid         mailprop.GUID
	NPID         mailprop.PropertyId
	Name         string // set only when N
}

func decodeNamedProperty(b []byte) NamedProperty {
	dwPropertyID := binary.LittleEndian.Uint32(b[0:4])
	guidWord := binary.LittleEndian.Uint16(b[4:6])
	wPropIdx := binary.LittleEndian.Uint16(b[6:8])
	return NamedProperty{
		DwPropertyID: dwPropertyID,
		N:            guidWord&0x01 != 0,
		WGuid:        guidWord >> 1,
		NPID:         mailprop.PropertyId(wPropIdx + 0x8000),
	}
}

// decodeNameToIDMap resolves each NAMEID record's name (if N) and GUID
// against the name-to-id map's string and GUID streams.
func decodeNameToIDMap(entryStream, stringStream, guidStream []byte) []NamedProperty {
	var out []NamedProperty
	for i := 0; i+8 <= len(entryStream); i += 8 {
		np := decodeNamedProperty(entryStream[i : i+8])
		if np.N && int(np.DwPropertyID)+4 <= len(stringStream) {
			nameLen := int(binary.LittleEndian.Uint32(stringStream[np.DwPropertyID : np.DwPropertyID+4]))
			start := int(np.DwPropertyID) + 4
			end := start + nameLen
			if end <= len(stringStream) {
				np.Name = mailprop.DecodeUTF16LE(stringStream[start:end])
			}
		}
		switch np.WGuid {
		case 0:
			// no GUID (numeric named property, see MS-OXPROPS for its meaning).
		case 1:
			np.Guid = guidPSMapi
		case 2:
			np.Guid = guidPSPublicStrings
		default:
			start := 16 * int(np.WGuid-3)
			end := start + 16
			if end <= len(guidStream) {
				copy(np.Guid[:], guidStream[start:end])
			}
		}
		out = append(out, np)
	}
	return out
}

// Messaging is the messaging layer: the message store's own properties
// (root/deleted-items entry ids, the store's record key used to mint
// folder/message EntryIDs, an optional password hash) plus the resolved
// name-to-id map.
type Messaging struct {
	ltp *LTP

	StoreRecordKey     [16]byte
	PasswordCRC32Hash  *uint32
	RootEntryID        *mailprop.EntryID
	DeletedItemsEntryID *mailprop.EntryID

	NamedProperties []NamedProperty
}

// OpenMessaging decodes the message store PC (NID 0x21) and the
// name-to-id map PC (NID 0x61).
func OpenMessaging(ltp *LTP) (*Messaging, error) {
	m := &Messaging{ltp: ltp}

	store, err := ltp.GetPCByNID(NewNID(NIDMessageStore))
	if err != nil {
		return nil, err
	}
	if srk, ok := store.Properties[mailprop.PidTagRecordKey]; ok {
		copy(m.StoreRecordKey[:], srk.Binary)
	}
	if passwd, ok := store.Properties[mailprop.PidTagPstPassword]; ok {
		hash := uint32(passwd.Int32)
		m.PasswordCRC32Hash = &hash
	}
	if riv, ok := store.Properties[mailprop.PidTagIpmSubTreeEntryId]; ok && riv.EntryID != nil {
		m.RootEntryID = riv.EntryID
	}
	if div, ok := store.Properties[mailprop.PidTagIpmWastebasketEntryId]; ok && div.EntryID != nil {
		m.DeletedItemsEntryID = div.EntryID
	}

	nameMap, err := ltp.GetPCByNID(NewNID(NIDNameToIDMap))
	if err != nil {
		return nil, err
	}
	entryStream := nameMap.Properties[mailprop.PidTagNameidStreamEntry].Binary
	if len(entryStream) > 0 {
		stringStream := nameMap.Properties[mailprop.PidTagNameidStreamString].Binary
		guidStream := nameMap.Properties[mailprop.PidTagNameidStreamGuid].Binary
		m.NamedProperties = decodeNameToIDMap(entryStream, stringStream, guidStream)
	}
	return m, nil
}

// GetFolder decodes the folder named by entryID's NID.
func (m *Messaging) GetFolder(entryID mailprop.EntryID, parentPath string) (*Folder, error) {
	return OpenFolder(NewNID(entryID.NID), m.ltp, parentPath, m)
}
