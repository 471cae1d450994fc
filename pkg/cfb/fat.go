package cfb

import (
	"encoding/binary"
	"io"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// FAT is the assembled Full Allocation Table: a flat slice of
// next-sector pointers, one per sector in the file, built by walking
// the header's DIFAT entries until FREESECT.
type FAT struct {
	r       io.ReadSeeker
	h       *Header
	entries []uint32
}

// BuildFAT reads every DIFAT-referenced sector and concatenates its
// 32-bit next-pointers into one chain-indexable slice.
func BuildFAT(r io.ReadSeeker, h *Header) (*FAT, error) {
	f := &FAT{r: r, h: h}
	for _, sector := range h.DIFAT {
		if sector == FREESECT {
			break
		}
		b, err := readSector(r, h, sector)
		if err != nil {
			return nil, err
		}
		for i := 0; i+4 <= len(b); i += 4 {
			f.entries = append(f.entries, binary.LittleEndian.Uint32(b[i:i+4]))
		}
	}
	return f, nil
}

func readSector(r io.ReadSeeker, h *Header, sector uint32) ([]byte, error) {
	if _, err := r.Seek(h.SectorOffset(sector), io.SeekStart); err != nil {
		return nil, err
	}
	b := make([]byte, h.SectorSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, mailprop.Wrapf("cfb: fat", err, "short read of sector %d", sector)
	}
	return b, nil
}

// Next returns the allocation-table entry for sector n.
func (f *FAT) Next(n uint32) uint32 {
	return f.entries[n]
}

// GetStream follows the FAT chain starting at sector, concatenating
// sector bytes, and truncates to size. The accumulated bytes must be
// within one sector's worth of size; a larger discrepancy is
// corruption.
func (f *FAT) GetStream(sector uint32, size uint64) ([]byte, error) {
	var out []byte
	for sector != ENDOFCHAIN {
		b, err := readSector(f.r, f.h, sector)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
		if int(sector) >= len(f.entries) {
			return nil, mailprop.Corruptf("cfb: fat", "sector %d outside FAT chain", sector)
		}
		sector = f.entries[sector]
	}
	lo := uint64(len(out))
	if uint64(len(out)) > uint64(f.h.SectorSize) {
		lo = uint64(len(out)) - uint64(f.h.SectorSize)
	} else {
		lo = 0
	}
	if size > uint64(len(out)) || size < lo {
		return nil, mailprop.Corruptf("cfb: fat", "stream size %d does not match chained sector count (%d bytes)", size, len(out))
	}
	return out[:size], nil
}
