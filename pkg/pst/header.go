package pst

import (
	"encoding/binary"
	"io"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// Root is the NDB "root" structure embedded in the file header: the
// file's logical end-of-file offset and the BREFs of the NBT/BBT roots.
type Root struct {
	IbFileEof   uint64
	BREFNBT     BREF
	BREFBBT     BREF
	FAMapValid  byte
}

func parseRootANSI(b []byte) (Root, error) {
	if len(b) != 40 {
		return Root{}, mailprop.Corruptf("pst: header", "invalid ANSI root size %d", len(b))
	}
	// payload[4:-3] in the source is bytes [4:37]: IIII (16) + 8s + 8s (16) + B (1) = 33 bytes.
	body := b[4:37]
	return Root{
		IbFileEof: uint64(binary.LittleEndian.Uint32(body[0:4])),
		BREFNBT:   DecodeBREF(body[16:24]),
		BREFBBT:   DecodeBREF(body[24:32]),
		FAMapValid: body[32],
	}, nil
}

func parseRootUnicode(b []byte) (Root, error) {
	if len(b) != 72 {
		return Root{}, mailprop.Corruptf("pst: header", "invalid Unicode root size %d", len(b))
	}
	// payload[4:-3] is bytes [4:69]: QQQQ (32) + 16s + 16s (32) + B (1) = 65 bytes.
	body := b[4:69]
	return Root{
		IbFileEof:  binary.LittleEndian.Uint64(body[0:8]),
		BREFNBT:    DecodeBREF(body[32:48]),
		BREFBBT:    DecodeBREF(body[48:64]),
		FAMapValid: body[64],
	}, nil
}

// Header is the 512-or-larger byte file header: format version, crypt
// method, and the NDB root pointing at the NBT/BBT b-trees.
type Header struct {
	WVer         uint16
	WVerClient   uint16
	IsAnsi       bool
	IsUnicode    bool
	BCryptMethod CryptMethod
	Root         Root
}

// ParseHeader reads and validates the PST file header. A bad
// magic/version is returned as a KindInvalidContainer error, which Open
// turns into a non-fatal invalid container (mirroring CFB's Open):
// mixed file trees commonly contain files that are not PSTs at all.
func ParseHeader(r io.ReadSeeker) (*Header, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	// dwMagic(4) + dwCRCPartial(4) + wMagicClient(2) + wVer(2) + wVerClient(2) + bPlatformCreate(1) + bPlatformAccess(1) + dwReserved1(4) + dwReserved2(4)
	fixed := make([]byte, 24)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, mailprop.Invalidf("pst: header", "short file: %v", err)
	}

	dwMagic := fixed[0:4]
	wMagicClient := fixed[8:10]
	if string(dwMagic) != "!BDN" || string(wMagicClient) != "SM" {
		return nil, mailprop.Invalidf("pst: header", "not a PST file (bad magic)")
	}

	h := &Header{
		WVer:       binary.LittleEndian.Uint16(fixed[10:12]),
		WVerClient: binary.LittleEndian.Uint16(fixed[12:14]),
	}
	h.IsAnsi = h.WVer == 14 || h.WVer == 15
	h.IsUnicode = h.WVer == 23
	if !h.IsAnsi && !h.IsUnicode {
		return nil, mailprop.Invalidf("pst: header", "unsupported PST format version %d", h.WVer)
	}

	if h.IsAnsi {
		// bidNextB(4) + bidNextP(4) + dwUnique(4) + rgnid(128)
		if _, err := r.Seek(int64(4+4+4+128), io.SeekCurrent); err != nil {
			return nil, err
		}
		rootBytes := make([]byte, 40)
		if _, err := io.ReadFull(r, rootBytes); err != nil {
			return nil, mailprop.Wrapf("pst: header", err, "short read of ANSI root")
		}
		root, err := parseRootANSI(rootBytes)
		if err != nil {
			return nil, err
		}
		h.Root = root

		// rgbFM(128) + rgbFP(128)
		if _, err := r.Seek(int64(128+128), io.SeekCurrent); err != nil {
			return nil, err
		}
		sentinelCrypt := make([]byte, 2)
		if _, err := io.ReadFull(r, sentinelCrypt); err != nil {
			return nil, mailprop.Wrapf("pst: header", err, "short read of sentinel/crypt method")
		}
		h.BCryptMethod = decodeCryptMethod(sentinelCrypt[1])
		return h, nil
	}

	// Unicode: bidUnused(8) + bidNextP(8) + dwUnique(4) + rgnid(128) + qwUnused(8)
	if _, err := r.Seek(int64(8+8+4+128+8), io.SeekCurrent); err != nil {
		return nil, err
	}
	rootBytes := make([]byte, 72)
	if _, err := io.ReadFull(r, rootBytes); err != nil {
		return nil, mailprop.Wrapf("pst: header", err, "short read of Unicode root")
	}
	root, err := parseRootUnicode(rootBytes)
	if err != nil {
		return nil, err
	}
	h.Root = root

	// dwAlign(4) + rgbFM(128) + rgbFP(128)
	if _, err := r.Seek(int64(4+128+128), io.SeekCurrent); err != nil {
		return nil, err
	}
	sentinelCrypt := make([]byte, 2)
	if _, err := io.ReadFull(r, sentinelCrypt); err != nil {
		return nil, mailprop.Wrapf("pst: header", err, "short read of sentinel/crypt method")
	}
	h.BCryptMethod = decodeCryptMethod(sentinelCrypt[1])
	return h, nil
}

// decodeCryptMethod maps the on-disk bCryptMethod byte (0 or 1) to a
// CryptMethod, treating any other value as unsupported rather than
// failing the header parse outright.
func decodeCryptMethod(b byte) CryptMethod {
	switch b {
	case 0:
		return CryptUnencoded
	case 1:
		return CryptNDBPermute
	default:
		return CryptUnsupported
	}
}
