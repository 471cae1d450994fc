package pst

import (
	"encoding/binary"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// Page trailer ptype values.
const (
	PageTypeBBT   = 0x80
	PageTypeNBT   = 0x81
	PageTypeFMap  = 0x82
	PageTypePMap  = 0x83
	PageTypeAMap  = 0x84
	PageTypeFPMap = 0x85
	PageTypeDL    = 0x86
)

const PageSize = 512

// BTEntry is an intermediate b-tree page entry: a key plus the BREF of
// the next-level page.
type BTEntry struct {
	Key  uint64
	Bref BREF
}

// NBTEntry is a leaf entry in the node b-tree: a node id plus its data
// and optional sub-node block references.
type NBTEntry struct {
	Nid       NID
	BidData   BID
	BidSub    BID
	NidParent NID
}

// BBTEntry is a leaf entry in the block b-tree: a block reference plus
// its on-disk size and reference count.
type BBTEntry struct {
	Bref BREF
	Cb   uint16
	CRef uint16
}

// Page is a decoded 512-byte NBT or BBT page: either cLevel==0 leaf
// entries (BBTEntry/NBTEntry) or cLevel>0 intermediate entries
// (BTEntry) pointing at the next level down.
type Page struct {
	Ptype  byte
	CLevel byte

	BTEntries  []BTEntry
	NBTEntries []NBTEntry
	BBTEntries []BBTEntry
}

// DecodePage parses one fixed 512-byte page, dispatching entry shape by
// trailer ptype/cLevel and the ANSI/Unicode entry-size difference.
func DecodePage(payload []byte, isAnsi bool) (*Page, error) {
	if len(payload) != PageSize {
		return nil, mailprop.Corruptf("pst: page", "invalid page size %d", len(payload))
	}

	var ptype, ptypeRepeat byte
	if isAnsi {
		ptype = payload[500]
		ptypeRepeat = payload[501]
	} else {
		ptype = payload[496]
		ptypeRepeat = payload[497]
	}
	if ptype < PageTypeBBT || ptype > PageTypeDL {
		return nil, mailprop.Corruptf("pst: page", "invalid page type %#x", ptype)
	}
	if ptype != ptypeRepeat {
		return nil, mailprop.Corruptf("pst: page", "page type %#x != repeat %#x", ptype, ptypeRepeat)
	}

	p := &Page{Ptype: ptype}
	if ptype != PageTypeBBT && ptype != PageTypeNBT {
		return p, nil
	}

	var cEnt, cbEnt, cLevel byte
	var entrySize int
	if isAnsi {
		// cEnt/cEntMax/cbEnt/cLevel sit in the 4 bytes right before the
		// 12-byte ptype trailer, i.e. payload[496:500].
		cEnt = payload[496]
		cbEnt = payload[498]
		cLevel = payload[499]
		entrySize = 12
	} else {
		// ...right before the 16-byte ptype trailer, payload[488:492].
		cEnt = payload[488]
		cbEnt = payload[490]
		cLevel = payload[491]
		entrySize = 24
	}
	p.CLevel = cLevel

	if cLevel == 0 {
		if ptype == PageTypeNBT {
			entrySize += entrySize / 3
		}
	}

	for i := 0; i < int(cEnt); i++ {
		raw := payload[i*int(cbEnt) : i*int(cbEnt)+entrySize]
		switch {
		case cLevel > 0:
			p.BTEntries = append(p.BTEntries, decodeBTEntry(raw, isAnsi))
		case ptype == PageTypeBBT:
			p.BBTEntries = append(p.BBTEntries, decodeBBTEntry(raw, isAnsi))
		default: // PageTypeNBT
			p.NBTEntries = append(p.NBTEntries, decodeNBTEntry(raw, isAnsi))
		}
	}
	return p, nil
}

func decodeBTEntry(raw []byte, isAnsi bool) BTEntry {
	if isAnsi {
		return BTEntry{Key: uint64(binary.LittleEndian.Uint32(raw[:4])), Bref: DecodeBREF(raw[4:])}
	}
	return BTEntry{Key: binary.LittleEndian.Uint64(raw[:8]), Bref: DecodeBREF(raw[8:])}
}

func decodeBBTEntry(raw []byte, isAnsi bool) BBTEntry {
	var bref BREF
	var tail []byte
	if isAnsi {
		bref = DecodeBREF(raw[:8])
		tail = raw[8:12]
	} else {
		bref = DecodeBREF(raw[:16])
		tail = raw[16:20]
	}
	return BBTEntry{Bref: bref, Cb: binary.LittleEndian.Uint16(tail[0:2]), CRef: binary.LittleEndian.Uint16(tail[2:4])}
}

func decodeNBTEntry(raw []byte, isAnsi bool) NBTEntry {
	if isAnsi {
		return NBTEntry{
			Nid:       DecodeNID(raw[0:4]),
			BidData:   DecodeBID(raw[4:8]),
			BidSub:    DecodeBID(raw[8:12]),
			NidParent: DecodeNID(raw[12:16]),
		}
	}
	return NBTEntry{
		Nid:       DecodeNID(raw[0:4]),
		BidData:   DecodeBID(raw[8:16]),
		BidSub:    DecodeBID(raw[16:24]),
		NidParent: DecodeNID(raw[24:28]),
	}
}

// SLEntry is a sub-node list leaf entry: a sub-node id plus its data and
// optional nested sub-node block references.
type SLEntry struct {
	Nid     NID
	BidData BID
	BidSub  BID
}

// SIEntry is a sub-node list intermediate entry, pointing at a block of
// further SLEntry/SIEntry records.
type SIEntry struct {
	Nid NID
	Bid BID
}

func decodeSLEntry(raw []byte, isAnsi bool) SLEntry {
	if isAnsi {
		return SLEntry{Nid: DecodeNID(raw[0:4]), BidData: DecodeBID(raw[4:8]), BidSub: DecodeBID(raw[8:12])}
	}
	// Unicode SLENTRY is nid(4)+padding(4)+bidData(8)+bidSub(8); the
	// ANSI layout above has no such padding, per the source's note that
	// [MS-PST] is wrong about this for ANSI SLBLOCK/SIBLOCK.
	return SLEntry{Nid: DecodeNID(raw[0:4]), BidData: DecodeBID(raw[8:16]), BidSub: DecodeBID(raw[16:24])}
}

func decodeSIEntry(raw []byte, isAnsi bool) SIEntry {
	if isAnsi {
		return SIEntry{Nid: DecodeNID(raw[0:4]), Bid: DecodeBID(raw[4:8])}
	}
	return SIEntry{Nid: DecodeNID(raw[0:4]), Bid: DecodeBID(raw[8:16])}
}
