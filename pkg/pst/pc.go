package pst

import "github.com/panhunt/mailcore/pkg/mailprop"

// PC is a Property Context: a heap-on-node whose BTH maps property ids
// to values, the PST analogue of a CFB top-level or __substg1.0
// property stream.
type PC struct {
	hn         *HN
	Properties map[mailprop.PropertyId]mailprop.Value
}

// OpenPC decodes the Property Context rooted at hn's user root BTH.
func OpenPC(hn *HN) (*PC, error) {
	if hn.ClientSig != HNClientTypePC {
		return nil, mailprop.Corruptf("pst: pc", "invalid HN client signature %#x, want PC", hn.ClientSig)
	}
	bth, err := OpenBTH(hn, hn.UserRoot)
	if err != nil {
		return nil, err
	}
	if bth.CbKey != 2 {
		return nil, mailprop.Corruptf("pst: pc", "invalid PC BTH key size %d", bth.CbKey)
	}
	if bth.CbEnt != 6 {
		return nil, mailprop.Corruptf("pst: pc", "invalid PC BTH entry size %d", bth.CbEnt)
	}

	pc := &PC{hn: hn, Properties: map[mailprop.PropertyId]mailprop.Value{}}
	for _, rec := range bth.Records {
		propID, value, err := decodePCRecord(hn, rec)
		if err != nil {
			return nil, err
		}
		pc.Properties[propID] = value
	}
	return pc, nil
}

func decodePCRecord(hn *HN, rec BTHRecord) (mailprop.PropertyId, mailprop.Value, error) {
	if len(rec.Key) != 2 || len(rec.Data) != 6 {
		return 0, mailprop.Value{}, mailprop.Corruptf("pst: pc", "malformed PC BTH record")
	}
	propID := mailprop.PropertyId(uint16(rec.Key[0]) | uint16(rec.Key[1])<<8)
	wPropType := uint16(rec.Data[0]) | uint16(rec.Data[1])<<8
	dwValueHnid := rec.Data[2:6]

	ptype := mailprop.PType(wPropType)
	desc := mailprop.Descriptor(mailprop.PropertyType(ptype))

	payload, err := resolveCellPayload(hn, desc, dwValueHnid)
	if err != nil {
		return 0, mailprop.Value{}, err
	}
	value := decodeValue(ptype, payload)

	if mailprop.EntryIDProperties[propID] {
		if eid, ok := mailprop.DecodeEntryID(value.Binary); ok {
			value.EntryID = &eid
		}
	}
	return propID, value, nil
}

// resolveCellPayload follows a PC cell's 4-byte dwValueHnid to its
// underlying bytes. PC inlines fixed types up to 4 bytes, the widest
// value that fits in dwValueHnid itself; wider fixed types and all
// variable/multi types resolve through an HID or sub-node.
func resolveCellPayload(hn *HN, desc mailprop.TypeDescriptor, raw []byte) ([]byte, error) {
	return resolveHeapValue(hn, desc, raw, 4)
}

// resolveHeapValue is the shared PC/TC cell resolver: raw is either the
// value itself (when it fits inline within inlineMax bytes) or a 4-byte
// HID/NID naming where the real bytes live.
func resolveHeapValue(hn *HN, desc mailprop.TypeDescriptor, raw []byte, inlineMax int) ([]byte, error) {
	if !desc.IsVariable && !desc.IsMulti {
		if desc.ByteCount > 0 && desc.ByteCount <= inlineMax {
			if len(raw) >= desc.ByteCount {
				return raw[:desc.ByteCount], nil
			}
			return raw, nil
		}
		hid := DecodeHID(raw)
		return hn.GetHIDData(hid)
	}

	nid := DecodeNID(raw)
	if nid.Type() == NIDTypeHID {
		hid := DecodeHID(raw)
		return hn.GetHIDData(hid)
	}

	entry, ok := hn.Subnodes[nid.Value]
	if !ok {
		return nil, mailprop.Corruptf("pst: pc", "value sub-node %#x not found", nid.Value)
	}
	blocks, err := hn.NBD.FetchAllBlockData(entry.BidData)
	if err != nil {
		return nil, err
	}
	var joined []byte
	for _, b := range blocks {
		joined = append(joined, b...)
	}
	return joined, nil
}
