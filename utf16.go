package dfalex

import "unicode/utf16"

// FromString converts a Go string into the 16-bit Char sequence the scan
// and replace engines operate on: one uint16 per UTF-16 code unit,
// surrogate pairs included verbatim and not combined, matching spec.md
// §9's "preserve the 16-bit domain, no surrogate-pair handling" note.
//
// unicode/utf16 is stdlib, used deliberately here: this is the module's
// one text-encoding boundary (Go strings are UTF-8, the engine's domain is
// 16-bit code units) and no library in the retrieved corpus offers a UTF-16
// codec; encoding/* in the corpus targets JSON/binary framing, not text
// transcoding.
func FromString(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// ToString converts a Char sequence back into a Go string. Unpaired
// surrogates are passed through utf16.Decode's own replacement-character
// handling.
func ToString(chars []uint16) string {
	return string(utf16.Decode(chars))
}
