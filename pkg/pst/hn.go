package pst

import (
	"encoding/binary"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// HN client-signature values (what kind of structure sits at hidUserRoot).
const (
	HNClientTypeTC  = 0x7C
	HNClientTypeBTH = 0xB5
	HNClientTypePC  = 0xBC
)

const hnSignature = 0xEC

// HNPageMap is the allocation map for one HN data block: rgibAlloc holds
// cAlloc+1 offsets into the block, so allocation i spans
// rgibAlloc[i-1]:rgibAlloc[i].
type HNPageMap struct {
	CAlloc    uint16
	CFree     uint16
	RgibAlloc []uint16
}

func decodeHNPageMap(payload []byte) HNPageMap {
	m := HNPageMap{
		CAlloc: binary.LittleEndian.Uint16(payload[0:2]),
		CFree:  binary.LittleEndian.Uint16(payload[2:4]),
	}
	for i := 0; i < int(m.CAlloc)+1; i++ {
		m.RgibAlloc = append(m.RgibAlloc, binary.LittleEndian.Uint16(payload[4+i*2:6+i*2]))
	}
	return m
}

// HN is a heap-on-node: a node's data blocks reinterpreted as a small
// heap of variable-length allocations addressed by HID, used to store
// BTH/PC/TC structures larger than fit in a single property record.
type HN struct {
	NBD        *NBD
	ClientSig  byte
	UserRoot   HID
	pageMaps   []HNPageMap
	dataBlocks [][]byte
	Subnodes   map[uint32]SLEntry
}

// OpenHN reads and parses the heap-on-node rooted at bidData, resolving
// its sub-node list (if any) via bidSub.
func OpenHN(nbd *NBD, bidData, bidSub BID) (*HN, error) {
	blocks, err := nbd.FetchAllBlockData(bidData)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, mailprop.Corruptf("pst: hn", "heap-on-node has no data blocks")
	}

	hn := &HN{NBD: nbd, dataBlocks: blocks}
	for i, section := range blocks {
		var ibHnpm uint16
		if i == 0 {
			if len(section) < 12 {
				return nil, mailprop.Corruptf("pst: hn", "HNHDR block too short")
			}
			ibHnpm = binary.LittleEndian.Uint16(section[0:2])
			bSig := section[2]
			if bSig != hnSignature {
				return nil, mailprop.Corruptf("pst: hn", "invalid HN signature %#x", bSig)
			}
			hn.ClientSig = section[3]
			hn.UserRoot = DecodeHID(section[4:8])
		} else {
			if len(section) < 2 {
				return nil, mailprop.Corruptf("pst: hn", "HNPAGEHDR block too short")
			}
			ibHnpm = binary.LittleEndian.Uint16(section[0:2])
		}
		if int(ibHnpm) > len(section) {
			return nil, mailprop.Corruptf("pst: hn", "HNPAGEMAP offset %d beyond block of %d bytes", ibHnpm, len(section))
		}
		hn.pageMaps = append(hn.pageMaps, decodeHNPageMap(section[ibHnpm:]))
	}

	if !bidSub.Zero() {
		subnodes, err := nbd.FetchSubnodes(bidSub)
		if err != nil {
			return nil, err
		}
		hn.Subnodes = subnodes
	}
	return hn, nil
}

// GetHIDData returns the allocation addressed by hid.
func (hn *HN) GetHIDData(hid HID) ([]byte, error) {
	blockIndex := int(hid.BlockIndex())
	if blockIndex >= len(hn.pageMaps) {
		return nil, mailprop.Corruptf("pst: hn", "HID block index %d out of range (%d blocks)", blockIndex, len(hn.pageMaps))
	}
	pm := hn.pageMaps[blockIndex]
	idx := hid.Index()
	if idx == 0 || int(idx) >= len(pm.RgibAlloc) {
		return nil, mailprop.Corruptf("pst: hn", "HID index %d out of range", idx)
	}
	start, end := pm.RgibAlloc[idx-1], pm.RgibAlloc[idx]
	block := hn.dataBlocks[blockIndex]
	if int(end) > len(block) || start > end {
		return nil, mailprop.Corruptf("pst: hn", "HID allocation [%d:%d] out of range for block of %d bytes", start, end, len(block))
	}
	return block[start:end], nil
}
