package pst

import "github.com/panhunt/mailcore/pkg/mailprop"

// LTP is the lists-tables-properties layer: the thin convenience
// wrapper that resolves a node id to its NBT entry, loads the
// heap-on-node rooted there, and interprets it as a PC or TC.
type LTP struct {
	nbd *NBD
}

// NewLTP wraps an opened NBD for PC/TC resolution.
func NewLTP(nbd *NBD) *LTP {
	return &LTP{nbd: nbd}
}

func (l *LTP) openHN(nid NID) (*HN, error) {
	entry, ok := l.nbd.NBTEntries[nid.Value]
	if !ok {
		return nil, mailprop.Corruptf("pst: ltp", "nid %#x not found in NBT", nid.Value)
	}
	return OpenHN(l.nbd, entry.BidData, entry.BidSub)
}

func (l *LTP) openHNFromSLEntry(e SLEntry) (*HN, error) {
	return OpenHN(l.nbd, e.BidData, e.BidSub)
}

// GetPCByNID decodes the Property Context rooted at nid's NBT entry.
func (l *LTP) GetPCByNID(nid NID) (*PC, error) {
	hn, err := l.openHN(nid)
	if err != nil {
		return nil, err
	}
	return OpenPC(hn)
}

// GetPCBySLEntry decodes the Property Context rooted at a sub-node's
// own block chain (used for a message's attachment/recipient rows'
// underlying per-row PC, addressed only by SLEntry, not by NBT nid).
func (l *LTP) GetPCBySLEntry(e SLEntry) (*PC, error) {
	hn, err := l.openHNFromSLEntry(e)
	if err != nil {
		return nil, err
	}
	return OpenPC(hn)
}

// GetTCByNID decodes the Table Context rooted at nid's NBT entry.
func (l *LTP) GetTCByNID(nid NID) (*TC, error) {
	hn, err := l.openHN(nid)
	if err != nil {
		return nil, err
	}
	return OpenTC(hn)
}

// GetTCBySLEntry decodes the Table Context rooted at a sub-node's own
// block chain (a message's attachment/recipient tables, addressed only
// by SLEntry).
func (l *LTP) GetTCBySLEntry(e SLEntry) (*TC, error) {
	hn, err := l.openHNFromSLEntry(e)
	if err != nil {
		return nil, err
	}
	return OpenTC(hn)
}
