package metadata

import (
	"strings"
	"unicode/utf8"
)

// lossyString converts raw to a string, replacing each ill-formed UTF-8
// sequence with one U+FFFD. A sequence is the maximal prefix of a
// well-formed encoding, so a truncated multi-byte character becomes a single
// replacement and each stray byte becomes its own.
func lossyString(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	var sb strings.Builder
	sb.Grow(len(raw) + 8)
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r != utf8.RuneError || size > 1 {
			sb.Write(raw[:size])
			raw = raw[size:]
			continue
		}
		sb.WriteRune(utf8.RuneError)
		raw = raw[invalidSequenceLen(raw):]
	}
	return sb.String()
}

// invalidSequenceLen returns how many bytes at the start of b form one
// ill-formed sequence. b must not start with a valid encoding.
func invalidSequenceLen(b []byte) int {
	lo, hi := byte(0x80), byte(0xBF)
	var need int
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		need = 1
	case c == 0xE0:
		need, lo = 2, 0xA0
	case c == 0xED:
		need, hi = 2, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		need = 2
	case c == 0xF0:
		need, lo = 3, 0x90
	case c == 0xF4:
		need, hi = 3, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		need = 3
	default:
		return 1
	}

	n := 1
	for n <= need && n < len(b) && b[n] >= lo && b[n] <= hi {
		lo, hi = 0x80, 0xBF
		n++
	}
	return n
}
