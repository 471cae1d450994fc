package mailprop

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf16leDecoder decodes UTF-16LE without a byte-order mark, replacing
// malformed sequences rather than failing. String property values on
// both the CFB and PST side are UTF-16LE and must never abort decoding
// on an odd length or an unpaired surrogate; they decode best-effort.
var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// DecodeUTF16LE decodes a UTF-16LE byte string into a Go string,
// replacing malformed code units (an unpaired surrogate, a trailing odd
// byte) with U+FFFD instead of returning an error.
func DecodeUTF16LE(b []byte) string {
	out, _, err := transform.Bytes(utf16leDecoder, b)
	if err != nil {
		// best-effort: fall back to decoding whatever transform.Bytes
		// managed before it gave up.
		return string(out)
	}
	return string(out)
}
