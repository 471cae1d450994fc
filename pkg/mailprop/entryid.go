package mailprop

import "encoding/binary"

// EntryID is the 24-byte identifier MAPI uses to address a folder,
// message, or sub-tree: 4 flag bytes, a 16-byte store uid, and a 4-byte
// node id. PidTagEntryID and the folder/sub-tree EntryID properties all
// re-type their raw binary value as this shape rather than leaving it
// opaque.
type EntryID struct {
	Flags   [4]byte
	StoreUID [16]byte
	NID     uint32
}

// DecodeEntryID parses a 24-byte EntryID payload. Payloads longer than
// 24 bytes are not a valid EntryID; the source silently leaves the
// struct half-built in that case; here that's surfaced as ok=false so
// callers can skip re-typing instead of decoding a property.
func DecodeEntryID(payload []byte) (EntryID, bool) {
	var e EntryID
	if len(payload) > 24 || len(payload) < 24 {
		return e, false
	}
	copy(e.Flags[:], payload[0:4])
	copy(e.StoreUID[:], payload[4:20])
	e.NID = binary.LittleEndian.Uint32(payload[20:24])
	return e, true
}

// Encode serializes the EntryID back to its 24-byte wire form.
func (e EntryID) Encode() []byte {
	out := make([]byte, 24)
	copy(out[0:4], e.Flags[:])
	copy(out[4:20], e.StoreUID[:])
	binary.LittleEndian.PutUint32(out[20:24], e.NID)
	return out
}

// NewEntryID synthesizes an EntryID for a node owned by storeUID, the
// form PST uses to mint EntryIDs for folders and messages it only
// otherwise addresses by NID: 4 zero flag bytes, the store's record
// key, and the node's NID.
func NewEntryID(storeUID [16]byte, nid uint32) EntryID {
	return EntryID{StoreUID: storeUID, NID: nid}
}
