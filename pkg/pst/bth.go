package pst

import "github.com/panhunt/mailcore/pkg/mailprop"

// BTHRecord is one leaf record of a b-tree-on-heap: a fixed-width key
// plus its fixed-width entry bytes.
type BTHRecord struct {
	Key  []byte
	Data []byte
}

type bthIntermediate struct {
	key          []byte
	hidNextLevel HID
	level        int
}

// BTH is a decoded b-tree-on-heap: a compact, fixed-record-size index
// structure laid out across HID-addressed heap allocations, used for
// property and row indexes in PC and TC structures.
type BTH struct {
	CbKey      byte
	CbEnt      byte
	BIdxLevels byte
	HidRoot    HID

	Records []BTHRecord
}

// OpenBTH decodes the BTH header at bthHid and its full leaf record set.
func OpenBTH(hn *HN, bthHid HID) (*BTH, error) {
	header, err := hn.GetHIDData(bthHid)
	if err != nil {
		return nil, err
	}
	if len(header) < 8 {
		return nil, mailprop.Corruptf("pst: bth", "BTH header too short")
	}
	bType := header[0]
	if bType != HNClientTypeBTH {
		return nil, mailprop.Corruptf("pst: bth", "invalid BTH type %#x", bType)
	}
	b := &BTH{
		CbKey:      header[1],
		CbEnt:      header[2],
		BIdxLevels: header[3],
		HidRoot:    DecodeHID(header[4:8]),
	}
	if b.HidRoot.Index() == 0 {
		return b, nil
	}

	payload, err := hn.GetHIDData(b.HidRoot)
	if err != nil {
		return nil, err
	}
	records, intermediates, err := b.decodeLevel(payload, int(b.BIdxLevels))
	if err != nil {
		return nil, err
	}
	if b.BIdxLevels == 0 {
		b.Records = records
		return b, nil
	}

	stack := intermediates
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]

		payload, err := hn.GetHIDData(cur.hidNextLevel)
		if err != nil {
			return nil, err
		}
		childLevel := cur.level - 1
		recs, ims, err := b.decodeLevel(payload, childLevel)
		if err != nil {
			return nil, err
		}
		if childLevel == 0 {
			b.Records = append(b.Records, recs...)
		} else {
			stack = append(stack, ims...)
		}
	}
	return b, nil
}

func (b *BTH) decodeLevel(payload []byte, level int) ([]BTHRecord, []bthIntermediate, error) {
	if level == 0 {
		recordSize := int(b.CbKey) + int(b.CbEnt)
		if recordSize == 0 {
			return nil, nil, mailprop.Corruptf("pst: bth", "zero-size BTH leaf record")
		}
		var records []BTHRecord
		for off := 0; off+recordSize <= len(payload); off += recordSize {
			records = append(records, BTHRecord{
				Key:  payload[off : off+int(b.CbKey)],
				Data: payload[off+int(b.CbKey) : off+recordSize],
			})
		}
		return records, nil, nil
	}

	recordSize := int(b.CbKey) + 4
	if recordSize == 0 {
		return nil, nil, mailprop.Corruptf("pst: bth", "zero-size BTH intermediate record")
	}
	var intermediates []bthIntermediate
	for off := 0; off+recordSize <= len(payload); off += recordSize {
		key := payload[off : off+int(b.CbKey)]
		hid := DecodeHID(payload[off+int(b.CbKey) : off+recordSize])
		intermediates = append(intermediates, bthIntermediate{key: key, hidNextLevel: hid, level: level})
	}
	return nil, intermediates, nil
}
