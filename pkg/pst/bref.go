package pst

import "encoding/binary"

// BREF pairs a BID with the absolute file offset (ib) of the page or
// block it names. ANSI encodes it in 8 bytes (4+4), Unicode in 16 (8+8).
type BREF struct {
	Bid BID
	Ib  int64
}

// DecodeBREF decodes a BREF from an 8-byte (ANSI) or 16-byte (Unicode) field.
func DecodeBREF(b []byte) BREF {
	if len(b) == 8 {
		return BREF{Bid: DecodeBID(b[:4]), Ib: int64(binary.LittleEndian.Uint32(b[4:8]))}
	}
	return BREF{Bid: DecodeBID(b[:8]), Ib: int64(binary.LittleEndian.Uint64(b[8:16]))}
}
