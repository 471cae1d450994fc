package mailprop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEntryID_StrictLength(t *testing.T) {
	valid := make([]byte, 24)
	valid[0] = 0xAB
	valid[20] = 0x01

	cases := []struct {
		name    string
		payload []byte
		wantOK  bool
	}{
		{"exact 24 bytes", valid, true},
		{"too short", valid[:23], false},
		{"too long", append(append([]byte{}, valid...), 0x00), false},
		{"empty", nil, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, ok := DecodeEntryID(c.payload)
			assert.Equal(t, c.wantOK, ok)
		})
	}
}

func TestEntryID_EncodeDecodeRoundTrip(t *testing.T) {
	var storeUID [16]byte
	for i := range storeUID {
		storeUID[i] = byte(i + 1)
	}
	want := NewEntryID(storeUID, 0x12345678)

	encoded := want.Encode()
	assert.Len(t, encoded, 24)

	got, ok := DecodeEntryID(encoded)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
