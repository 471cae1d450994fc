package cfb

import (
	"encoding/binary"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// MiniFATSectorSize is the fixed sector size of the mini-stream,
// independent of the container's regular sector size.
const MiniFATSectorSize = 64

// MiniFAT is the secondary allocation table for streams smaller than
// the header's MiniStreamCutoffSize. It is the same shape as FAT but
// walked from the header's FirstMiniFATSectorLocation, and its backing
// mini-stream bytes live inside the regular FAT as the root directory
// entry's stream.
type MiniFAT struct {
	entries        []uint32
	miniStreamData []byte
}

// BuildMiniFAT reads the MiniFAT sector chain out of the regular FAT.
func BuildMiniFAT(fat *FAT, h *Header) (*MiniFAT, error) {
	mf := &MiniFAT{}
	sector := h.FirstMiniFATSectorLocation
	for i := uint32(0); i < h.MiniFATSectorCount; i++ {
		b, err := readSector(fat.r, h, sector)
		if err != nil {
			return nil, err
		}
		for j := 0; j+4 <= len(b); j += 4 {
			mf.entries = append(mf.entries, binary.LittleEndian.Uint32(b[j:j+4]))
		}
		sector = fat.Next(sector)
	}
	return mf, nil
}

// LoadMiniStream pulls the mini-stream bytes out of the regular FAT
// using the root directory entry's starting sector and size. It must
// be called once the root directory entry has been decoded and before
// any mini-stream resident data is read.
func (mf *MiniFAT) LoadMiniStream(fat *FAT, startSector uint32, size uint64) error {
	if startSector == ENDOFCHAIN {
		return nil
	}
	b, err := fat.GetStream(startSector, size)
	if err != nil {
		return err
	}
	mf.miniStreamData = b
	return nil
}

// GetStream follows the mini-sector chain starting at sector,
// concatenating 64-byte mini-sectors out of the mini-stream, and
// truncates to size.
func (mf *MiniFAT) GetStream(sector uint32, size uint64) ([]byte, error) {
	var out []byte
	for sector != ENDOFCHAIN {
		start := int(sector) * MiniFATSectorSize
		end := start + MiniFATSectorSize
		if end > len(mf.miniStreamData) {
			return nil, mailprop.Corruptf("cfb: minifat", "mini sector %d outside mini-stream", sector)
		}
		out = append(out, mf.miniStreamData[start:end]...)
		if int(sector) >= len(mf.entries) {
			return nil, mailprop.Corruptf("cfb: minifat", "mini sector %d outside MiniFAT chain", sector)
		}
		sector = mf.entries[sector]
	}
	lo := uint64(0)
	if uint64(len(out)) > MiniFATSectorSize {
		lo = uint64(len(out)) - MiniFATSectorSize
	}
	if size > uint64(len(out)) || size < lo {
		return nil, mailprop.Corruptf("cfb: minifat", "mini stream size %d does not match chained sector count (%d bytes)", size, len(out))
	}
	return out[:size], nil
}
