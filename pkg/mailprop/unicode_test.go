package mailprop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeUTF16LE(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", nil, ""},
		{"ascii", []byte{'H', 0, 'i', 0}, "Hi"},
		{"non-ascii BMP", []byte{0xE9, 0x00}, "é"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, DecodeUTF16LE(c.in))
		})
	}
}

func TestDecodeUTF16LE_OddLengthDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		DecodeUTF16LE([]byte{'H', 0, 'i'})
	})
}

func TestDecodeUTF16LE_UnpairedSurrogateDoesNotPanic(t *testing.T) {
	// A high surrogate with no following low surrogate.
	assert.NotPanics(t, func() {
		DecodeUTF16LE([]byte{0x00, 0xD8})
	})
}
