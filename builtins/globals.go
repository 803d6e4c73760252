package builtins

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/example/es5go/runtime"
)

func (r *registry) registerGlobalFunctions(global *runtime.Object) {
	setConstant(global, "NaN", runtime.NaN)
	setConstant(global, "Infinity", runtime.PosInf)
	setConstant(global, "undefined", runtime.Undefined)

	r.setMethod(global, "parseInt", 2, globalParseInt)
	r.setMethod(global, "parseFloat", 1, globalParseFloat)
	r.setMethod(global, "isNaN", 1, globalIsNaN)
	r.setMethod(global, "isFinite", 1, globalIsFinite)
	r.setMethod(global, "encodeURI", 1, uriEncoder(uriReserved+uriUnescaped+"#"))
	r.setMethod(global, "encodeURIComponent", 1, uriEncoder(uriUnescaped))
	r.setMethod(global, "decodeURI", 1, uriDecoder(uriReserved+"#"))
	r.setMethod(global, "decodeURIComponent", 1, uriDecoder(""))
	r.setMethod(global, "escape", 1, globalEscape)
	r.setMethod(global, "unescape", 1, globalUnescape)
	r.setMethod(global, "print", 0, r.printLine)
}

func globalParseInt(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	input, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	radix, err := runtime.ToInt32(argAt(args, 1))
	if err != nil {
		return runtime.Undefined, err
	}
	s := strings.TrimLeftFunc(input, runtime.IsWhiteSpace)
	sign := 1.0
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	stripPrefix := true
	switch {
	case radix == 0:
		radix = 10
	case radix < 2 || radix > 36:
		return runtime.NaN, nil
	case radix != 16:
		stripPrefix = false
	}
	if stripPrefix && len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s, radix = s[2:], 16
	}
	n, ok := runtime.ParseIntPrefix(s, int(radix))
	if !ok {
		return runtime.NaN, nil
	}
	return runtime.Num(sign * n), nil
}

func globalParseFloat(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	input, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	s := strings.TrimLeftFunc(input, runtime.IsWhiteSpace)
	prefix := decimalPrefix(s)
	if prefix == "" {
		return runtime.NaN, nil
	}
	unsigned := strings.TrimLeft(prefix, "+-")
	if unsigned == "Infinity" {
		if prefix[0] == '-' {
			return runtime.NegInf, nil
		}
		return runtime.PosInf, nil
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return runtime.NaN, nil
		}
	}
	return runtime.Num(f), nil
}

// decimalPrefix returns the longest prefix of s that is a
// StrDecimalLiteral, or "".
func decimalPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		return s[:i+len("Infinity")]
	}
	digits := func() int {
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		return i - start
	}
	n := digits()
	if i < len(s) && s[i] == '.' {
		i++
		n += digits()
		if n == 0 {
			return ""
		}
	}
	if n == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if digits() > 0 {
			end = i
		}
	}
	return s[:end]
}

func globalIsNaN(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	n, err := toNumberArg(args, 0)
	return runtime.Bool(math.IsNaN(n)), err
}

func globalIsFinite(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	n, err := toNumberArg(args, 0)
	return runtime.Bool(!math.IsNaN(n) && !math.IsInf(n, 0)), err
}

const (
	uriReserved  = ";/?:@&=+$,"
	uriUnescaped = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"
	upperHex     = "0123456789ABCDEF"
)

func uriMalformed() error { return runtime.NewURIError("URI malformed") }

// uriEncoder percent-encodes the UTF-8 form of every code point outside
// keep. Unpaired surrogates are a URIError.
func uriEncoder(keep string) runtime.NativeFunc {
	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s, err := toStringArg(args, 0)
		if err != nil {
			return runtime.Undefined, err
		}
		units := runtime.StringUnits(s)
		var b strings.Builder
		var buf [utf8.UTFMax]byte
		for k := 0; k < len(units); k++ {
			u := units[k]
			if u < 0x80 && strings.IndexByte(keep, byte(u)) >= 0 {
				b.WriteByte(byte(u))
				continue
			}
			cp := rune(u)
			switch {
			case u >= 0xDC00 && u <= 0xDFFF:
				return runtime.Undefined, uriMalformed()
			case u >= 0xD800 && u <= 0xDBFF:
				k++
				if k == len(units) || units[k] < 0xDC00 || units[k] > 0xDFFF {
					return runtime.Undefined, uriMalformed()
				}
				cp = (rune(u)-0xD800)*0x400 + rune(units[k]) - 0xDC00 + 0x10000
			}
			n := utf8.EncodeRune(buf[:], cp)
			for _, c := range buf[:n] {
				b.WriteByte('%')
				b.WriteByte(upperHex[c>>4])
				b.WriteByte(upperHex[c&0xF])
			}
		}
		return runtime.Str(b.String()), nil
	}
}

// uriDecoder reverses percent-encoding. Escapes that decode to a character
// in reserved are left as written.
func uriDecoder(reserved string) runtime.NativeFunc {
	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		s, err := toStringArg(args, 0)
		if err != nil {
			return runtime.Undefined, err
		}
		units := runtime.StringUnits(s)
		out := make([]uint16, 0, len(units))
		hexByte := func(k int) (byte, bool) {
			if k+2 >= len(units) || units[k] != '%' {
				return 0, false
			}
			hi, lo := hexValue(units[k+1]), hexValue(units[k+2])
			if hi < 0 || lo < 0 {
				return 0, false
			}
			return byte(hi<<4 | lo), true
		}
		for k := 0; k < len(units); k++ {
			if units[k] != '%' {
				out = append(out, units[k])
				continue
			}
			start := k
			first, ok := hexByte(k)
			if !ok {
				return runtime.Undefined, uriMalformed()
			}
			k += 2
			if first < 0x80 {
				if strings.IndexByte(reserved, first) >= 0 {
					out = append(out, units[start:k+1]...)
				} else {
					out = append(out, uint16(first))
				}
				continue
			}
			n := leadingOnes(first)
			if n < 2 || n > 4 {
				return runtime.Undefined, uriMalformed()
			}
			seq := []byte{first}
			for j := 1; j < n; j++ {
				c, ok := hexByte(k + 1)
				if !ok || c&0xC0 != 0x80 {
					return runtime.Undefined, uriMalformed()
				}
				seq = append(seq, c)
				k += 3
			}
			cp, size := utf8.DecodeRune(seq)
			if size != n {
				return runtime.Undefined, uriMalformed()
			}
			out = appendCodePoint(out, cp)
		}
		return runtime.Str(runtime.StringFromUnits(out)), nil
	}
}

func leadingOnes(c byte) int {
	n := 0
	for c&0x80 != 0 {
		n++
		c <<= 1
	}
	return n
}

func appendCodePoint(units []uint16, cp rune) []uint16 {
	if cp < 0x10000 {
		return append(units, uint16(cp))
	}
	cp -= 0x10000
	return append(units, uint16(0xD800+cp>>10), uint16(0xDC00+cp&0x3FF))
}

func hexValue(u uint16) int {
	switch {
	case u >= '0' && u <= '9':
		return int(u - '0')
	case u >= 'a' && u <= 'f':
		return int(u-'a') + 10
	case u >= 'A' && u <= 'F':
		return int(u-'A') + 10
	}
	return -1
}

const escapeUnescaped = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789@*_+-./"

func globalEscape(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	var b strings.Builder
	for _, u := range runtime.StringUnits(s) {
		switch {
		case u < 0x80 && strings.IndexByte(escapeUnescaped, byte(u)) >= 0:
			b.WriteByte(byte(u))
		case u < 0x100:
			b.WriteByte('%')
			b.WriteByte(upperHex[u>>4])
			b.WriteByte(upperHex[u&0xF])
		default:
			b.WriteString("%u")
			for shift := 12; shift >= 0; shift -= 4 {
				b.WriteByte(upperHex[(u>>shift)&0xF])
			}
		}
	}
	return runtime.Str(b.String()), nil
}

func globalUnescape(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	units := runtime.StringUnits(s)
	out := make([]uint16, 0, len(units))
	hexRun := func(from, n int) (uint16, bool) {
		if from+n > len(units) {
			return 0, false
		}
		var v uint16
		for _, u := range units[from : from+n] {
			d := hexValue(u)
			if d < 0 {
				return 0, false
			}
			v = v<<4 | uint16(d)
		}
		return v, true
	}
	for k := 0; k < len(units); k++ {
		u := units[k]
		if u == '%' {
			if k+1 < len(units) && units[k+1] == 'u' {
				if v, ok := hexRun(k+2, 4); ok {
					out = append(out, v)
					k += 5
					continue
				}
			} else if v, ok := hexRun(k+1, 2); ok {
				out = append(out, v)
				k += 2
				continue
			}
		}
		out = append(out, u)
	}
	return runtime.Str(runtime.StringFromUnits(out)), nil
}
