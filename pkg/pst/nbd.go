package pst

import (
	"io"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// NBD is the node/block database layer: the flattened node b-tree (NBT,
// nid -> NBTEntry) and block b-tree (BBT, bid -> BBTEntry), read once at
// open time, plus the page/block fetch primitives everything above it
// is built on.
type NBD struct {
	r      io.ReadSeeker
	isAnsi bool
	crypt  CryptMethod

	NBTEntries map[uint32]NBTEntry
	BBTEntries map[uint64]BBTEntry
}

// OpenNBD walks both b-trees to leaves and indexes them by node/block id.
func OpenNBD(r io.ReadSeeker, isAnsi bool, crypt CryptMethod, nbtRoot, bbtRoot int64) (*NBD, error) {
	n := &NBD{r: r, isAnsi: isAnsi, crypt: crypt, NBTEntries: map[uint32]NBTEntry{}, BBTEntries: map[uint64]BBTEntry{}}
	if err := n.collectNBT(nbtRoot); err != nil {
		return nil, err
	}
	if err := n.collectBBT(bbtRoot); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *NBD) FetchPage(offset int64) (*Page, error) {
	if _, err := n.r.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, PageSize)
	if _, err := io.ReadFull(n.r, buf); err != nil {
		return nil, mailprop.Wrapf("pst: nbd", err, "short read of page at %#x", offset)
	}
	return DecodePage(buf, n.isAnsi)
}

func (n *NBD) collectNBT(offset int64) error {
	page, err := n.FetchPage(offset)
	if err != nil {
		return err
	}
	for _, e := range page.BTEntries {
		if err := n.collectNBT(e.Bref.Ib); err != nil {
			return err
		}
	}
	for _, e := range page.NBTEntries {
		if _, dup := n.NBTEntries[e.Nid.Value]; dup {
			return mailprop.Corruptf("pst: nbd", "duplicate NBT leaf key %#x", e.Nid.Value)
		}
		n.NBTEntries[e.Nid.Value] = e
	}
	return nil
}

func (n *NBD) collectBBT(offset int64) error {
	page, err := n.FetchPage(offset)
	if err != nil {
		return err
	}
	for _, e := range page.BTEntries {
		if err := n.collectBBT(e.Bref.Ib); err != nil {
			return err
		}
	}
	for _, e := range page.BBTEntries {
		if _, dup := n.BBTEntries[e.Bref.Bid.Value]; dup {
			return mailprop.Corruptf("pst: nbd", "duplicate BBT leaf key %#x", e.Bref.Bid.Value)
		}
		n.BBTEntries[e.Bref.Bid.Value] = e
	}
	return nil
}

// FetchBlock reads and decodes the block named by bid, sized and
// positioned per its BBT entry.
func (n *NBD) FetchBlock(bid BID) (*Block, error) {
	bbtEntry, ok := n.BBTEntries[bid.Value]
	if !ok {
		return nil, mailprop.Corruptf("pst: nbd", "invalid BBT entry for bid %d", bid.Value)
	}

	trailerSize := 12
	if !n.isAnsi {
		trailerSize = 16
	}
	dataSize := int(bbtEntry.Cb)
	blockSize := dataSize + trailerSize
	if rem := blockSize % 64; rem != 0 {
		blockSize += 64 - rem
	}

	if _, err := n.r.Seek(bbtEntry.Bref.Ib, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, blockSize)
	if _, err := io.ReadFull(n.r, buf); err != nil {
		return nil, mailprop.Wrapf("pst: nbd", err, "short read of block at %#x", bbtEntry.Bref.Ib)
	}
	return DecodeBlock(buf, n.isAnsi, bid, dataSize, n.crypt)
}

// FetchAllBlockData resolves bid to its list of data-block payloads,
// descending through XBLOCK/XXBLOCK indirection as needed.
func (n *NBD) FetchAllBlockData(bid BID) ([][]byte, error) {
	block, err := n.FetchBlock(bid)
	if err != nil {
		return nil, err
	}
	switch block.BlockType {
	case BlockTypeData:
		return [][]byte{block.DataBlock}, nil
	case BlockTypeXBlock:
		var out [][]byte
		for _, xbid := range block.RgBid {
			xblock, err := n.FetchBlock(xbid)
			if err != nil {
				return nil, err
			}
			if xblock.BlockType != BlockTypeData {
				return nil, mailprop.Corruptf("pst: nbd", "expected data block, got type %d", xblock.BlockType)
			}
			out = append(out, xblock.DataBlock)
		}
		return out, nil
	case BlockTypeXXBlock:
		var out [][]byte
		for _, xxbid := range block.RgBid {
			xxblock, err := n.FetchBlock(xxbid)
			if err != nil {
				return nil, err
			}
			if xxblock.BlockType != BlockTypeXBlock {
				return nil, mailprop.Corruptf("pst: nbd", "expected XBLOCK, got type %d", xxblock.BlockType)
			}
			sub, err := n.FetchAllBlockData(xxbid)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	default:
		return nil, mailprop.Corruptf("pst: nbd", "invalid block type (not data/XBLOCK/XXBLOCK): %d", block.BlockType)
	}
}

// FetchSubnodes flattens a sub-node list (SLBLOCK, or SIBLOCK pointing
// at further SLBLOCKs) into one nid-keyed map.
func (n *NBD) FetchSubnodes(bid BID) (map[uint32]SLEntry, error) {
	subnodes := map[uint32]SLEntry{}
	block, err := n.FetchBlock(bid)
	if err != nil {
		return nil, err
	}
	switch block.BlockType {
	case BlockTypeSLBlock:
		for _, e := range block.SLEntries {
			if _, dup := subnodes[e.Nid.Value]; dup {
				return nil, mailprop.Corruptf("pst: nbd", "duplicate subnode %#x", e.Nid.Value)
			}
			subnodes[e.Nid.Value] = e
		}
	case BlockTypeSIBlock:
		for _, e := range block.SIEntries {
			nested, err := n.FetchSubnodes(e.Bid)
			if err != nil {
				return nil, err
			}
			for k, v := range nested {
				subnodes[k] = v
			}
		}
	default:
		return nil, mailprop.Corruptf("pst: nbd", "invalid block type (not SLBLOCK/SIBLOCK): %d", block.BlockType)
	}
	return subnodes, nil
}
