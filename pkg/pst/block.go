package pst

import (
	"encoding/binary"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// CryptMethod is the data block obfuscation scheme named in the header.
type CryptMethod int

const (
	CryptUnsupported    CryptMethod = -1
	CryptUnencoded      CryptMethod = 0
	CryptNDBPermute     CryptMethod = 1
)

// permuteTable is the fixed NDB_CRYPT_PERMUTE substitution table from
// [MS-PST] 5.1: decrypting a data block replaces each byte value b with
// permuteTable[b].
var permuteTable = [256]byte{
	71, 241, 180, 230, 11, 106, 114, 72, 133, 78, 158, 235, 226, 248, 148, 83, 224, 187, 160, 2, 232, 90, 9, 171, 219, 227, 186, 198, 124, 195, 16, 221,
	57, 5, 150, 48, 245, 55, 96, 130, 140, 201, 19, 74, 107, 29, 243, 251, 143, 38, 151, 202, 145, 23, 1, 196, 50, 45, 110, 49, 149, 255, 217, 35,
	209, 0, 94, 121, 220, 68, 59, 26, 40, 197, 97, 87, 32, 144, 61, 131, 185, 67, 190, 103, 210, 70, 66, 118, 192, 109, 91, 126, 178, 15, 22, 41,
	60, 169, 3, 84, 13, 218, 93, 223, 246, 183, 199, 98, 205, 141, 6, 211, 105, 92, 134, 214, 20, 247, 165, 102, 117, 172, 177, 233, 69, 33, 112, 12,
	135, 159, 116, 164, 34, 76, 111, 191, 31, 86, 170, 46, 179, 120, 51, 80, 176, 163, 146, 188, 207, 25, 28, 167, 99, 203, 30, 77, 62, 75, 27, 155,
	79, 231, 240, 238, 173, 58, 181, 89, 4, 234, 64, 85, 37, 81, 229, 122, 137, 56, 104, 82, 123, 252, 39, 174, 215, 189, 250, 7, 244, 204, 142, 95,
	239, 53, 156, 132, 43, 21, 213, 119, 52, 73, 182, 18, 10, 127, 113, 136, 253, 157, 24, 65, 125, 147, 216, 88, 44, 206, 254, 36, 175, 222, 184, 54,
	200, 161, 128, 166, 153, 152, 168, 47, 14, 129, 101, 115, 228, 194, 162, 138, 212, 225, 17, 208, 8, 139, 42, 242, 237, 154, 100, 63, 193, 108, 249, 236,
}

// inversePermuteTable undoes permuteTable: encryptPermute(decryptPermute(p))
// == p for every p. Derived from permuteTable itself at init time rather
// than transcribed a second time, so it is bit-exact by construction.
var inversePermuteTable [256]byte

func init() {
	for plain, cipher := range permuteTable {
		inversePermuteTable[cipher] = byte(plain)
	}
}

func decryptPermute(payload []byte) []byte {
	out := make([]byte, len(payload))
	for i, b := range payload {
		out[i] = permuteTable[b]
	}
	return out
}

// encryptPermute re-applies NDB_CRYPT_PERMUTE in the obfuscating
// direction, the inverse of decryptPermute.
func encryptPermute(payload []byte) []byte {
	out := make([]byte, len(payload))
	for i, b := range payload {
		out[i] = inversePermuteTable[b]
	}
	return out
}

// Block kinds recorded in Block.BlockType by DecodeBlock. These are this
// package's own values, not the on-disk btype byte (which is 1 for
// XBLOCK/XXBLOCK and 2 for SLBLOCK/SIBLOCK); BlockTypeData marks a
// non-internal data block.
const (
	BlockTypeData    = 0
	BlockTypeXBlock  = 1
	BlockTypeXXBlock = 2
	BlockTypeSLBlock = 3
	BlockTypeSIBlock = 4
)

// Block is one decoded data or internal (XBLOCK/XXBLOCK/SLBLOCK/SIBLOCK)
// block. Internal blocks carry further block references instead of
// message data; data blocks carry the (possibly obfuscated) payload.
type Block struct {
	Bid       BID
	BlockType int

	DataBlock []byte    // BlockTypeData
	RgBid     []BID     // BlockTypeXBlock / BlockTypeXXBlock
	SLEntries []SLEntry // BlockTypeSLBlock
	SIEntries []SIEntry // BlockTypeSIBlock
}

// DecodeBlock parses a block already read in full (data plus its
// trailer), validating it against the BBT's recorded bid and size.
func DecodeBlock(payload []byte, isAnsi bool, expectBid BID, dataSize int, crypt CryptMethod) (*Block, error) {
	var cb uint16
	var bidBytes []byte
	var bidSize, slEntrySize, siEntrySize, slSiOffset int
	if isAnsi {
		cb = binary.LittleEndian.Uint16(payload[len(payload)-12 : len(payload)-10])
		bidBytes = payload[len(payload)-8 : len(payload)-4]
		bidSize, slEntrySize, siEntrySize, slSiOffset = 4, 12, 8, 4
	} else {
		cb = binary.LittleEndian.Uint16(payload[len(payload)-16 : len(payload)-14])
		bidBytes = payload[len(payload)-8:]
		bidSize, slEntrySize, siEntrySize, slSiOffset = 8, 24, 16, 8
	}

	bid := DecodeBID(bidBytes)
	if bid.Value != expectBid.Value {
		return nil, mailprop.Corruptf("pst: block", "block bid %d != expected %d", bid.Value, expectBid.Value)
	}
	if int(cb) != dataSize {
		return nil, mailprop.Corruptf("pst: block", "BBT data size %d != block size %d", dataSize, cb)
	}

	b := &Block{Bid: bid}

	if !bid.IsInternal {
		b.BlockType = BlockTypeData
		switch crypt {
		case CryptNDBPermute:
			b.DataBlock = decryptPermute(payload[:dataSize])
		case CryptUnencoded:
			b.DataBlock = append([]byte(nil), payload[:dataSize]...)
		default:
			return nil, mailprop.Invalidf("pst: block", "unsupported encryption method %d", crypt)
		}
		return b, nil
	}

	btype := payload[0]
	cLevel := payload[1]
	cEnt := binary.LittleEndian.Uint16(payload[2:4])

	switch btype {
	case 1: // XBLOCK, XXBLOCK
		switch cLevel {
		case 1:
			b.BlockType = BlockTypeXBlock
		case 2:
			b.BlockType = BlockTypeXXBlock
		default:
			return nil, mailprop.Corruptf("pst: block", "invalid block level %d", cLevel)
		}
		for i := 0; i < int(cEnt); i++ {
			start := 8 + i*bidSize
			b.RgBid = append(b.RgBid, DecodeBID(payload[start:start+bidSize]))
		}
	case 2: // SLBLOCK, SIBLOCK
		switch cLevel {
		case 0:
			b.BlockType = BlockTypeSLBlock
			for i := 0; i < int(cEnt); i++ {
				start := slSiOffset + i*slEntrySize
				b.SLEntries = append(b.SLEntries, decodeSLEntry(payload[start:start+slEntrySize], isAnsi))
			}
		case 1:
			b.BlockType = BlockTypeSIBlock
			for i := 0; i < int(cEnt); i++ {
				start := slSiOffset + i*siEntrySize
				b.SIEntries = append(b.SIEntries, decodeSIEntry(payload[start:start+siEntrySize], isAnsi))
			}
		default:
			return nil, mailprop.Corruptf("pst: block", "invalid block level %d", cLevel)
		}
	default:
		return nil, mailprop.Corruptf("pst: block", "invalid block type %d", btype)
	}
	return b, nil
}
