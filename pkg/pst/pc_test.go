package pst

import (
	"testing"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// buildPCHeap assembles a minimal single-block heap-on-node holding one
// BTH-rooted PC: a BTH header allocation followed by its two leaf
// records, both inline fixed-width values (int32 and bool), addressed
// without ever touching the NBD (no sub-node, no HID indirection).
func buildPCHeap(t *testing.T) *HN {
	t.Helper()

	// alloc[1] (index 1): BTH header. alloc[2] (index 2): leaf records.
	bthHeader := []byte{HNClientTypeBTH, 2, 6, 0, 0x40, 0x00, 0x00, 0x00} // hidRoot -> blockIndex 0, index 2
	rec1 := []byte{0x01, 0x30, 0x03, 0x00, 0x2A, 0x00, 0x00, 0x00}        // PidTagDisplayName, Int32=42
	rec2 := []byte{0x07, 0x0E, 0x0B, 0x00, 0x01, 0x00, 0x00, 0x00}        // PidTagMessageFlags, Bool=true

	block := append(append([]byte{}, bthHeader...), append(rec1, rec2...)...)

	hn := &HN{
		ClientSig: HNClientTypePC,
		UserRoot:  HID{Value: 1 << 5}, // blockIndex 0, index 1
		pageMaps: []HNPageMap{
			{CAlloc: 2, CFree: 0, RgibAlloc: []uint16{0, 8, 24}},
		},
		dataBlocks: [][]byte{block},
	}
	return hn
}

func TestOpenPCInlineValues(t *testing.T) {
	hn := buildPCHeap(t)
	pc, err := OpenPC(hn)
	if err != nil {
		t.Fatalf("OpenPC: %v", err)
	}

	dn, ok := pc.Properties[mailprop.PidTagDisplayName]
	if !ok {
		t.Fatalf("PidTagDisplayName missing")
	}
	if dn.Type != mailprop.PtypInteger32 || dn.Int32 != 42 {
		t.Fatalf("PidTagDisplayName = %+v, want Int32=42", dn)
	}

	flags, ok := pc.Properties[mailprop.PidTagMessageFlags]
	if !ok {
		t.Fatalf("PidTagMessageFlags missing")
	}
	if flags.Type != mailprop.PtypBoolean || !flags.Bool {
		t.Fatalf("PidTagMessageFlags = %+v, want Bool=true", flags)
	}
}

func TestOpenPCRejectsWrongClientSig(t *testing.T) {
	hn := buildPCHeap(t)
	hn.ClientSig = HNClientTypeTC
	if _, err := OpenPC(hn); err == nil {
		t.Fatalf("expected error for mismatched client signature")
	}
}
