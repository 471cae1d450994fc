// Package cfb decodes the Compound File Binary container used by
// single-message .msg files: sector-addressed FAT/MiniFAT allocation
// chains, a flat directory tree, and the per-storage property stream
// that exposes a message's, recipient's, or attachment's properties.
package cfb

import (
	"encoding/binary"
	"io"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

var signature = [8]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Allocation-table sentinel values shared by FAT and MiniFAT chains.
const (
	DIFSECT    uint32 = 0xFFFFFFFC
	FATSECT    uint32 = 0xFFFFFFFD
	ENDOFCHAIN uint32 = 0xFFFFFFFE
	FREESECT   uint32 = 0xFFFFFFFF
)

// Header is the 512-byte CFB file header.
type Header struct {
	MinorVersion  uint16
	MajorVersion  uint16
	ByteOrder     uint16
	SectorShift   uint16
	MiniSectorShift uint16

	DirectorySectorCount         uint32
	FATSectorCount               uint32
	FirstDirectorySectorLocation uint32
	TransactionSignatureNumber   uint32

	MiniStreamCutoffSize         uint32
	FirstMiniFATSectorLocation   uint32
	MiniFATSectorCount           uint32
	FirstDIFATSectorLocation     uint32
	DIFATSectorCount             uint32

	DIFAT [109]uint32

	SectorSize int
}

// ParseHeader reads and validates the CFB header at the start of r.
// A bad magic or unsupported major version returns a KindInvalidContainer
// mailprop.Error, which callers treat as "skip this file", not fatal.
// A DIFAT chain longer than the 109 header-embedded entries returns a
// KindCorruption error: that extension mechanism is a documented
// limitation of this decoder.
func ParseHeader(r io.ReadSeeker) (*Header, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return nil, mailprop.Invalidf("cfb: header", "short read for signature")
	}
	if sig != signature {
		return nil, mailprop.Invalidf("cfb: header", "bad magic signature")
	}

	var clsid [16]byte
	if _, err := io.ReadFull(r, clsid[:]); err != nil {
		return nil, mailprop.Invalidf("cfb: header", "short read for clsid")
	}

	h := &Header{}
	var buf [10]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, mailprop.Invalidf("cfb: header", "short read for version fields")
	}
	h.MinorVersion = binary.LittleEndian.Uint16(buf[0:2])
	h.MajorVersion = binary.LittleEndian.Uint16(buf[2:4])
	h.ByteOrder = binary.LittleEndian.Uint16(buf[4:6])
	h.SectorShift = binary.LittleEndian.Uint16(buf[6:8])
	h.MiniSectorShift = binary.LittleEndian.Uint16(buf[8:10])

	if h.MajorVersion != 3 && h.MajorVersion != 4 {
		return nil, mailprop.Invalidf("cfb: header", "unsupported major version %d", h.MajorVersion)
	}
	if h.MajorVersion == 3 {
		h.SectorSize = 512
	} else {
		h.SectorSize = 4096
	}

	// 6 reserved bytes.
	var reserved [6]byte
	if _, err := io.ReadFull(r, reserved[:]); err != nil {
		return nil, mailprop.Invalidf("cfb: header", "short read for reserved bytes")
	}

	var u32x4 [16]byte
	if _, err := io.ReadFull(r, u32x4[:]); err != nil {
		return nil, mailprop.Invalidf("cfb: header", "short read for directory fields")
	}
	h.DirectorySectorCount = binary.LittleEndian.Uint32(u32x4[0:4])
	h.FATSectorCount = binary.LittleEndian.Uint32(u32x4[4:8])
	h.FirstDirectorySectorLocation = binary.LittleEndian.Uint32(u32x4[8:12])
	h.TransactionSignatureNumber = binary.LittleEndian.Uint32(u32x4[12:16])

	var u32x5 [20]byte
	if _, err := io.ReadFull(r, u32x5[:]); err != nil {
		return nil, mailprop.Invalidf("cfb: header", "short read for minifat fields")
	}
	h.MiniStreamCutoffSize = binary.LittleEndian.Uint32(u32x5[0:4])
	h.FirstMiniFATSectorLocation = binary.LittleEndian.Uint32(u32x5[4:8])
	h.MiniFATSectorCount = binary.LittleEndian.Uint32(u32x5[8:12])
	h.FirstDIFATSectorLocation = binary.LittleEndian.Uint32(u32x5[12:16])
	h.DIFATSectorCount = binary.LittleEndian.Uint32(u32x5[16:20])

	difatBytes := make([]byte, 109*4)
	if _, err := io.ReadFull(r, difatBytes); err != nil {
		return nil, mailprop.Invalidf("cfb: header", "short read for embedded DIFAT")
	}
	for i := 0; i < 109; i++ {
		h.DIFAT[i] = binary.LittleEndian.Uint32(difatBytes[i*4 : i*4+4])
	}

	if h.FirstDIFATSectorLocation != ENDOFCHAIN {
		return nil, mailprop.Corruptf("cfb: header", "more than 109 DIFAT entries not supported")
	}

	return h, nil
}

// SectorOffset returns the absolute byte offset of sector n: the
// header occupies sector -1, so sector 0 begins one SectorSize in.
func (h *Header) SectorOffset(n uint32) int64 {
	return int64(n+1) * int64(h.SectorSize)
}
