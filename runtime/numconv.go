package runtime

import (
	"math"
	"strconv"
	"strings"
)

// NumberToString converts a number to its canonical string form.
func NumberToString(m float64) string {
	switch {
	case math.IsNaN(m):
		return "NaN"
	case m == 0:
		return "0"
	case math.IsInf(m, 1):
		return "Infinity"
	case math.IsInf(m, -1):
		return "-Infinity"
	case m < 0:
		return "-" + NumberToString(-m)
	}
	if m == math.Trunc(m) && m < 1e21 {
		return strconv.FormatFloat(m, 'f', -1, 64)
	}

	// Shortest digits that round-trip, as d.ddddde±x.
	digits, n := shortestDigits(m)
	k := len(digits)
	switch {
	case k <= n && n <= 21:
		return digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return "0." + strings.Repeat("0", -n) + digits
	}
	exp := n - 1
	sign := "+"
	if exp < 0 {
		sign = "-"
		exp = -exp
	}
	if k == 1 {
		return digits + "e" + sign + strconv.Itoa(exp)
	}
	return digits[:1] + "." + digits[1:] + "e" + sign + strconv.Itoa(exp)
}

// shortestDigits returns the significant digits of m > 0 and the decimal
// exponent n such that m = 0.digits × 10^n.
func shortestDigits(m float64) (string, int) {
	s := strconv.FormatFloat(m, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exp)
	digits := strings.Replace(mant, ".", "", 1)
	digits = strings.TrimRight(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return digits, e + 1
}

// StringToNumber applies the StringNumericLiteral grammar. Malformed input
// yields NaN.
func StringToNumber(s string) float64 {
	s = TrimWhiteSpace(s)
	if s == "" {
		return 0
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return parseHexDigits(s[2:])
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if !isDecimalLiteral(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

func parseHexDigits(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	var f float64
	for i := 0; i < len(s); i++ {
		d := hexDigit(s[i])
		if d < 0 {
			return math.NaN()
		}
		f = f*16 + float64(d)
	}
	return f
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// isDecimalLiteral matches [+-]? (digits [. digits?] | . digits) ([eE][+-]? digits)?
func isDecimalLiteral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := 0
	for i < len(s) && isDecimalDigit(s[i]) {
		i++
		intDigits++
	}
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDecimalDigit(s[i]) {
			i++
			fracDigits++
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(s) && isDecimalDigit(s[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDecimalDigit(c byte) bool { return c >= '0' && c <= '9' }

const radixDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

// NumberToStringRadix formats m in the given radix (2..36). Radix 10 uses
// NumberToString.
func NumberToStringRadix(m float64, radix int) string {
	if radix == 10 || math.IsNaN(m) || math.IsInf(m, 0) || m == 0 {
		return NumberToString(m)
	}
	neg := m < 0
	if neg {
		m = -m
	}
	ip := math.Floor(m)
	fp := m - ip

	var intPart []byte
	if ip == 0 {
		intPart = []byte{'0'}
	}
	for ip >= 1 {
		d := math.Mod(ip, float64(radix))
		intPart = append(intPart, radixDigits[int(d)])
		ip = math.Floor(ip / float64(radix))
	}
	for i, j := 0, len(intPart)-1; i < j; i, j = i+1, j-1 {
		intPart[i], intPart[j] = intPart[j], intPart[i]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.Write(intPart)
	if fp > 0 {
		b.WriteByte('.')
		// 52 fractional digits exhaust a double in radix 2; stop earlier
		// once the remainder is below the precision of m.
		delta := math.Max(math.Nextafter(m, math.Inf(1))-m, math.SmallestNonzeroFloat64) / 2
		for i := 0; i < 52 && fp >= delta; i++ {
			fp *= float64(radix)
			delta *= float64(radix)
			d := int(fp)
			b.WriteByte(radixDigits[d])
			fp -= float64(d)
		}
	}
	return b.String()
}

// ParseIntPrefix parses the longest prefix of s (already trimmed, sign
// removed) made of digits in radix. It reports false when no digit matched.
func ParseIntPrefix(s string, radix int) (float64, bool) {
	var f float64
	n := 0
	for ; n < len(s); n++ {
		d := digitValue(s[n])
		if d < 0 || d >= radix {
			break
		}
		f = f*float64(radix) + float64(d)
	}
	if n == 0 {
		return math.NaN(), false
	}
	if radix == 10 && n > 15 {
		// Exact decimal rounding for long digit strings.
		if g, err := strconv.ParseFloat(s[:n], 64); err == nil {
			f = g
		}
	}
	return f, true
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}
