package runtime

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Script strings are sequences of UTF-16 code units. They are stored as Go
// strings in WTF-8: valid pairs are encoded as one 4-byte rune and lone
// surrogates as 3-byte sequences, so every code unit sequence round-trips.

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// decodeWTF8 decodes one code point at s[i:], accepting encoded surrogates.
func decodeWTF8(s string, i int) (rune, int) {
	if i+2 < len(s) && s[i] == 0xED && s[i+1] >= 0xA0 && s[i+1] <= 0xBF {
		c2, c3 := s[i+1], s[i+2]
		if c3&0xC0 == 0x80 {
			return rune(0xD000) | rune(c2&0x3F)<<6 | rune(c3&0x3F), 3
		}
	}
	return utf8.DecodeRuneInString(s[i:])
}

// StringUnits returns the UTF-16 code units of s.
func StringUnits(s string) []uint16 {
	units := make([]uint16, 0, len(s))
	for i := 0; i < len(s); {
		r, n := decodeWTF8(s, i)
		i += n
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			units = append(units, uint16(hi), uint16(lo))
			continue
		}
		units = append(units, uint16(r))
	}
	return units
}

// StringFromUnits is the inverse of StringUnits.
func StringFromUnits(units []uint16) string {
	var b strings.Builder
	b.Grow(len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u < utf8.RuneSelf:
			b.WriteByte(byte(u))
		case u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF:
			b.WriteRune(utf16.DecodeRune(rune(u), rune(units[i+1])))
			i++
		case u >= 0xD800 && u <= 0xDFFF:
			writeSurrogate(&b, u)
		default:
			b.WriteRune(rune(u))
		}
	}
	return b.String()
}

func writeSurrogate(b *strings.Builder, u uint16) {
	b.WriteByte(byte(0xE0 | (u >> 12)))
	b.WriteByte(byte(0x80 | ((u >> 6) & 0x3F)))
	b.WriteByte(byte(0x80 | (u & 0x3F)))
}

// StringLength is the length of s in UTF-16 code units.
func StringLength(s string) int {
	if isASCII(s) {
		return len(s)
	}
	n := 0
	for i := 0; i < len(s); {
		r, size := decodeWTF8(s, i)
		i += size
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// CodeUnitAt returns the code unit at index i, or false when out of range.
func CodeUnitAt(s string, i int) (uint16, bool) {
	if i < 0 {
		return 0, false
	}
	if isASCII(s) {
		if i >= len(s) {
			return 0, false
		}
		return uint16(s[i]), true
	}
	units := StringUnits(s)
	if i >= len(units) {
		return 0, false
	}
	return units[i], true
}

// Substring returns code units [start, end) of s. Bounds are clamped.
func Substring(s string, start, end int) string {
	if isASCII(s) {
		start, end = clampRange(start, end, len(s))
		return s[start:end]
	}
	units := StringUnits(s)
	start, end = clampRange(start, end, len(units))
	return StringFromUnits(units[start:end])
}

func clampRange(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

// StringIndexOf finds sub in s at or after from, in code units; -1 if absent.
func StringIndexOf(s, sub string, from int) int {
	if isASCII(s) && isASCII(sub) {
		if from < 0 {
			from = 0
		}
		if from > len(s) {
			return -1
		}
		i := strings.Index(s[from:], sub)
		if i < 0 {
			return -1
		}
		return i + from
	}
	hay, needle := StringUnits(s), StringUnits(sub)
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needle) <= len(hay); i++ {
		if unitsEqual(hay[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

// StringLastIndexOf finds the last sub in s starting at or before from.
func StringLastIndexOf(s, sub string, from int) int {
	hay, needle := StringUnits(s), StringUnits(sub)
	if from > len(hay)-len(needle) {
		from = len(hay) - len(needle)
	}
	for i := from; i >= 0; i-- {
		if unitsEqual(hay[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func unitsEqual(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CompareStrings orders strings by code unit values, as the relational
// operators require.
func CompareStrings(a, b string) int {
	if isASCII(a) && isASCII(b) {
		return strings.Compare(a, b)
	}
	ua, ub := StringUnits(a), StringUnits(b)
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ua) < len(ub):
		return -1
	case len(ua) > len(ub):
		return 1
	}
	return 0
}

// IsWhiteSpace reports whether r is WhiteSpace or a LineTerminator.
func IsWhiteSpace(r rune) bool {
	switch r {
	case '\t', '\v', '\f', ' ', 0xA0, 0xFEFF, '\n', '\r', 0x2028, 0x2029:
		return true
	}
	return r > 0x7F && isSpaceSeparator(r)
}

func isSpaceSeparator(r rune) bool {
	switch {
	case r == 0x1680, r == 0x180E, r >= 0x2000 && r <= 0x200A, r == 0x202F, r == 0x205F, r == 0x3000:
		return true
	}
	return false
}

// TrimWhiteSpace strips leading and trailing WhiteSpace and line terminators.
func TrimWhiteSpace(s string) string {
	return strings.TrimFunc(s, IsWhiteSpace)
}
