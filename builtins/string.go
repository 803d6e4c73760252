package builtins

import (
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/example/es5go/runtime"
)

func (r *registry) createStringConstructor() *runtime.Object {
	proto := r.realm.StringPrototype

	r.setMethod(proto, "toString", 0, stringToString)
	r.setMethod(proto, "valueOf", 0, stringValueOf)
	r.setMethod(proto, "charAt", 1, stringCharAt)
	r.setMethod(proto, "charCodeAt", 1, stringCharCodeAt)
	r.setMethod(proto, "concat", 1, stringConcat)
	r.setMethod(proto, "indexOf", 1, stringIndexOf)
	r.setMethod(proto, "lastIndexOf", 1, stringLastIndexOf)
	r.setMethod(proto, "localeCompare", 1, r.stringLocaleCompare)
	r.setMethod(proto, "match", 1, r.stringMatch)
	r.setMethod(proto, "replace", 2, r.stringReplace)
	r.setMethod(proto, "search", 1, r.stringSearch)
	r.setMethod(proto, "slice", 2, stringSlice)
	r.setMethod(proto, "split", 2, r.stringSplit)
	r.setMethod(proto, "substring", 2, stringSubstring)
	r.setMethod(proto, "substr", 2, stringSubstr)
	r.setMethod(proto, "toLowerCase", 0, r.stringCaseMapper("toLowerCase", false, false))
	r.setMethod(proto, "toLocaleLowerCase", 0, r.stringCaseMapper("toLocaleLowerCase", false, true))
	r.setMethod(proto, "toUpperCase", 0, r.stringCaseMapper("toUpperCase", true, false))
	r.setMethod(proto, "toLocaleUpperCase", 0, r.stringCaseMapper("toLocaleUpperCase", true, true))
	r.setMethod(proto, "trim", 0, stringTrim)

	ctor := r.newFuncObject("String", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.EmptyString, nil
		}
		s, err := runtime.ToString(args[0])
		return runtime.Str(s), err
	})
	ctor.Constructor = func(args []runtime.Value) (runtime.Value, error) {
		s := ""
		if len(args) > 0 {
			var err error
			if s, err = runtime.ToString(args[0]); err != nil {
				return runtime.Undefined, err
			}
		}
		return runtime.ObjectValue(r.realm.NewStringObject(s)), nil
	}
	linkConstructor(ctor, proto)
	r.setMethod(ctor, "fromCharCode", 1, stringFromCharCode)
	return ctor
}

func stringFromCharCode(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	units := make([]uint16, len(args))
	for i, a := range args {
		u, err := runtime.ToUint16(a)
		if err != nil {
			return runtime.Undefined, err
		}
		units[i] = u
	}
	return runtime.Str(runtime.StringFromUnits(units)), nil
}

// thisStringValue unwraps a string primitive or String object.
func thisStringValue(this runtime.Value, method string) (runtime.Value, error) {
	if this.IsString() {
		return this, nil
	}
	if isClass(this, runtime.ClassString) {
		return this.AsObject().Primitive, nil
	}
	return runtime.Undefined, runtime.NewTypeError("String.prototype.%s requires that 'this' be a String", method)
}

func stringToString(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	return thisStringValue(this, "toString")
}

func stringValueOf(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	return thisStringValue(this, "valueOf")
}

func stringCharAt(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.charAt")
	if err != nil {
		return runtime.Undefined, err
	}
	pos, err := toIntegerArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	if pos < 0 || pos >= float64(runtime.StringLength(s)) {
		return runtime.EmptyString, nil
	}
	u, _ := runtime.CodeUnitAt(s, int(pos))
	return runtime.Str(runtime.StringFromUnits([]uint16{u})), nil
}

func stringCharCodeAt(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.charCodeAt")
	if err != nil {
		return runtime.Undefined, err
	}
	pos, err := toIntegerArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	if pos < 0 || pos >= float64(runtime.StringLength(s)) {
		return runtime.NaN, nil
	}
	u, _ := runtime.CodeUnitAt(s, int(pos))
	return runtime.Num(float64(u)), nil
}

func stringConcat(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.concat")
	if err != nil {
		return runtime.Undefined, err
	}
	var b strings.Builder
	b.WriteString(s)
	for _, a := range args {
		as, err := runtime.ToString(a)
		if err != nil {
			return runtime.Undefined, err
		}
		b.WriteString(as)
	}
	return runtime.Str(b.String()), nil
}

func stringIndexOf(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.indexOf")
	if err != nil {
		return runtime.Undefined, err
	}
	search, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	pos, err := toIntegerArg(args, 1)
	if err != nil {
		return runtime.Undefined, err
	}
	start := int(relativeIndex(math.Max(pos, 0), int64(runtime.StringLength(s))))
	return runtime.Num(float64(runtime.StringIndexOf(s, search, start))), nil
}

func stringLastIndexOf(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.lastIndexOf")
	if err != nil {
		return runtime.Undefined, err
	}
	search, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	pos, err := toNumberArg(args, 1)
	if err != nil {
		return runtime.Undefined, err
	}
	n := runtime.StringLength(s)
	start := n
	if !math.IsNaN(pos) {
		start = int(relativeIndex(math.Max(runtime.IntegerOf(pos), 0), int64(n)))
	}
	return runtime.Num(float64(runtime.StringLastIndexOf(s, search, start))), nil
}

func (r *registry) stringLocaleCompare(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.localeCompare")
	if err != nil {
		return runtime.Undefined, err
	}
	that, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Num(float64(r.collator.CompareString(s, that))), nil
}

func stringSlice(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.slice")
	if err != nil {
		return runtime.Undefined, err
	}
	n := int64(runtime.StringLength(s))
	start, err := toIntegerArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	end := float64(n)
	if e := argAt(args, 1); !e.IsUndefined() {
		if end, err = runtime.ToInteger(e); err != nil {
			return runtime.Undefined, err
		}
	}
	from, to := relativeIndex(start, n), relativeIndex(end, n)
	return runtime.Str(runtime.Substring(s, int(from), int(to))), nil
}

func stringSubstring(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.substring")
	if err != nil {
		return runtime.Undefined, err
	}
	n := float64(runtime.StringLength(s))
	start, err := toIntegerArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	end := n
	if e := argAt(args, 1); !e.IsUndefined() {
		if end, err = runtime.ToInteger(e); err != nil {
			return runtime.Undefined, err
		}
	}
	start, end = math.Min(math.Max(start, 0), n), math.Min(math.Max(end, 0), n)
	if start > end {
		start, end = end, start
	}
	return runtime.Str(runtime.Substring(s, int(start), int(end))), nil
}

func stringSubstr(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.substr")
	if err != nil {
		return runtime.Undefined, err
	}
	n := int64(runtime.StringLength(s))
	start, err := toIntegerArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	length := math.Inf(1)
	if l := argAt(args, 1); !l.IsUndefined() {
		if length, err = runtime.ToInteger(l); err != nil {
			return runtime.Undefined, err
		}
	}
	from := relativeIndex(start, n)
	count := math.Min(math.Max(length, 0), float64(n-from))
	if count <= 0 {
		return runtime.EmptyString, nil
	}
	return runtime.Str(runtime.Substring(s, int(from), int(from)+int(count))), nil
}

// stringCaseMapper builds the four case conversion methods. The locale
// variants map with the registry locale; the others use root rules.
func (r *registry) stringCaseMapper(method string, upper, locale bool) runtime.NativeFunc {
	return func(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
		s, err := thisString(this, "String.prototype."+method)
		if err != nil {
			return runtime.Undefined, err
		}
		tag := r.locale
		if !locale {
			tag = rootLocale
		}
		var c cases.Caser
		if upper {
			c = cases.Upper(tag)
		} else {
			c = cases.Lower(tag)
		}
		return runtime.Str(c.String(s)), nil
	}
}

func stringTrim(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.trim")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Str(runtime.TrimWhiteSpace(s)), nil
}

// toRegExp returns v when it is a RegExp and otherwise compiles
// ToString(v) as a pattern.
func (r *registry) toRegExp(v runtime.Value) (*runtime.Object, *regexpData, error) {
	if d := regexpOf(v); d != nil {
		return v.AsObject(), d, nil
	}
	re, err := r.regexpConstruct([]runtime.Value{v})
	if err != nil {
		return nil, nil, err
	}
	return re.AsObject(), regexpOf(re), nil
}

// allMatches collects successive matches of a global regexp, stepping past
// empty matches. lastIndex is left at zero.
func (r *registry) allMatches(obj *runtime.Object, d *regexpData, s string) ([]*regexpMatch, error) {
	if err := obj.Put("lastIndex", runtime.Zero, true); err != nil {
		return nil, err
	}
	input := unitRunes(s)
	var matches []*regexpMatch
	for pos := 0; pos <= len(input); {
		m, err := d.matchAt(input, pos)
		if err != nil {
			return nil, runtime.NewError(runtime.ErrError, "regular expression match failed: %v", err)
		}
		if m == nil {
			break
		}
		matches = append(matches, m)
		pos = m.end
		if m.end == m.start {
			pos++
		}
	}
	return matches, nil
}

func (r *registry) stringMatch(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.match")
	if err != nil {
		return runtime.Undefined, err
	}
	obj, d, err := r.toRegExp(argAt(args, 0))
	if err != nil {
		return runtime.Undefined, err
	}
	if !d.global {
		return r.regexpExec(runtime.ObjectValue(obj), []runtime.Value{runtime.Str(s)})
	}
	matches, err := r.allMatches(obj, d, s)
	if err != nil {
		return runtime.Undefined, err
	}
	if len(matches) == 0 {
		return runtime.Null, nil
	}
	found := make([]string, len(matches))
	for i, m := range matches {
		found[i] = m.matched()
	}
	return runtime.ObjectValue(r.newStringArray(found)), nil
}

func (r *registry) stringSearch(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.search")
	if err != nil {
		return runtime.Undefined, err
	}
	_, d, err := r.toRegExp(argAt(args, 0))
	if err != nil {
		return runtime.Undefined, err
	}
	m, err := d.matchAt(unitRunes(s), 0)
	if err != nil {
		return runtime.Undefined, runtime.NewError(runtime.ErrError, "regular expression match failed: %v", err)
	}
	if m == nil {
		return runtime.Num(-1), nil
	}
	return runtime.Num(float64(m.start)), nil
}

func (r *registry) stringReplace(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.replace")
	if err != nil {
		return runtime.Undefined, err
	}
	searchValue, replaceValue := argAt(args, 0), argAt(args, 1)

	var matches []*regexpMatch
	if d := regexpOf(searchValue); d != nil {
		if d.global {
			matches, err = r.allMatches(searchValue.AsObject(), d, s)
		} else {
			var m *regexpMatch
			if m, err = d.matchAt(unitRunes(s), 0); err != nil {
				err = runtime.NewError(runtime.ErrError, "regular expression match failed: %v", err)
			} else if m != nil {
				matches = append(matches, m)
			}
		}
		if err != nil {
			return runtime.Undefined, err
		}
	} else {
		search, err := runtime.ToString(searchValue)
		if err != nil {
			return runtime.Undefined, err
		}
		if i := runtime.StringIndexOf(s, search, 0); i >= 0 {
			end := i + runtime.StringLength(search)
			matches = append(matches, &regexpMatch{start: i, end: end, captures: []*string{&search}})
		}
	}

	var replacer func(m *regexpMatch) (string, error)
	if fn := replaceValue; fn.IsCallable() {
		replacer = func(m *regexpMatch) (string, error) {
			callArgs := make([]runtime.Value, 0, len(m.captures)+2)
			for _, c := range m.captures {
				if c == nil {
					callArgs = append(callArgs, runtime.Undefined)
				} else {
					callArgs = append(callArgs, runtime.Str(*c))
				}
			}
			callArgs = append(callArgs, runtime.Num(float64(m.start)), runtime.Str(s))
			v, err := fn.AsObject().Call(runtime.Undefined, callArgs)
			if err != nil {
				return "", err
			}
			return runtime.ToString(v)
		}
	} else {
		template, err := runtime.ToString(replaceValue)
		if err != nil {
			return runtime.Undefined, err
		}
		replacer = func(m *regexpMatch) (string, error) {
			return expandReplacement(template, s, m), nil
		}
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		rep, err := replacer(m)
		if err != nil {
			return runtime.Undefined, err
		}
		b.WriteString(runtime.Substring(s, last, m.start))
		b.WriteString(rep)
		last = m.end
	}
	b.WriteString(runtime.Substring(s, last, runtime.StringLength(s)))
	return runtime.Str(b.String()), nil
}

// expandReplacement substitutes $$, $&, $`, $' and $n / $nn in template.
// A $ sequence naming no capture is copied literally.
func expandReplacement(template, s string, m *regexpMatch) string {
	if !strings.Contains(template, "$") {
		return template
	}
	groups := len(m.captures) - 1
	capture := func(n int) string {
		if c := m.captures[n]; c != nil {
			return *c
		}
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '$' || i+1 == len(template) {
			b.WriteByte(c)
			continue
		}
		switch next := template[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(m.matched())
			i++
		case next == '`':
			b.WriteString(runtime.Substring(s, 0, m.start))
			i++
		case next == '\'':
			b.WriteString(runtime.Substring(s, m.end, runtime.StringLength(s)))
			i++
		case isDigit(next):
			n := int(next - '0')
			if i+2 < len(template) && isDigit(template[i+2]) {
				if nn := n*10 + int(template[i+2]-'0'); nn >= 1 && nn <= groups {
					b.WriteString(capture(nn))
					i += 2
					continue
				}
			}
			if n >= 1 && n <= groups {
				b.WriteString(capture(n))
				i++
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (r *registry) stringSplit(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, err := thisString(this, "String.prototype.split")
	if err != nil {
		return runtime.Undefined, err
	}
	separator := argAt(args, 0)
	limit := uint32(math.MaxUint32)
	if l := argAt(args, 1); !l.IsUndefined() {
		if limit, err = runtime.ToUint32(l); err != nil {
			return runtime.Undefined, err
		}
	}
	d := regexpOf(separator)
	var sep string
	if d == nil && !separator.IsUndefined() {
		if sep, err = runtime.ToString(separator); err != nil {
			return runtime.Undefined, err
		}
	}
	if limit == 0 {
		return runtime.ObjectValue(r.realm.NewArray(nil)), nil
	}
	if separator.IsUndefined() {
		return runtime.ObjectValue(r.newStringArray([]string{s})), nil
	}

	var parts []runtime.Value
	if d != nil {
		parts, err = splitRegExp(s, d, limit)
		if err != nil {
			return runtime.Undefined, err
		}
	} else {
		parts = splitString(s, sep, limit)
	}
	return runtime.ObjectValue(r.realm.NewArray(parts)), nil
}

func splitString(s, sep string, limit uint32) []runtime.Value {
	units := runtime.StringUnits(s)
	sepLen := runtime.StringLength(sep)
	if len(units) == 0 {
		if sepLen == 0 {
			return nil
		}
		return []runtime.Value{runtime.Str(s)}
	}
	var parts []runtime.Value
	if sepLen == 0 {
		for _, u := range units {
			if uint32(len(parts)) == limit {
				break
			}
			parts = append(parts, runtime.Str(runtime.StringFromUnits([]uint16{u})))
		}
		return parts
	}
	p := 0
	for {
		q := runtime.StringIndexOf(s, sep, p)
		if q < 0 {
			break
		}
		parts = append(parts, runtime.Str(runtime.StringFromUnits(units[p:q])))
		if uint32(len(parts)) == limit {
			return parts
		}
		p = q + sepLen
	}
	return append(parts, runtime.Str(runtime.StringFromUnits(units[p:])))
}

// splitRegExp walks the string the way SplitMatch does: an empty match at
// the end of the previous piece never splits, and captures are spliced
// into the result.
func splitRegExp(s string, d *regexpData, limit uint32) ([]runtime.Value, error) {
	input := unitRunes(s)
	size := len(input)
	if size == 0 {
		m, err := d.matchAt(input, 0)
		if err != nil {
			return nil, runtime.NewError(runtime.ErrError, "regular expression match failed: %v", err)
		}
		if m != nil && m.start == 0 {
			return nil, nil
		}
		return []runtime.Value{runtime.Str(s)}, nil
	}
	var parts []runtime.Value
	p := 0
	for q := 0; q < size; {
		m, err := d.matchAt(input, q)
		if err != nil {
			return nil, runtime.NewError(runtime.ErrError, "regular expression match failed: %v", err)
		}
		if m == nil || m.start >= size {
			break
		}
		if m.end == p {
			q = m.start + 1
			continue
		}
		parts = append(parts, runtime.Str(runesString(input[p:m.start])))
		if uint32(len(parts)) == limit {
			return parts, nil
		}
		for _, c := range m.captures[1:] {
			v := runtime.Undefined
			if c != nil {
				v = runtime.Str(*c)
			}
			parts = append(parts, v)
			if uint32(len(parts)) == limit {
				return parts, nil
			}
		}
		p = m.end
		q = p
		if m.end == m.start {
			q++
		}
	}
	return append(parts, runtime.Str(runesString(input[p:]))), nil
}
