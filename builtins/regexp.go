package builtins

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/example/es5go/runtime"
)

// regexpData is the internal state of a RegExp object.
type regexpData struct {
	re         *regexp2.Regexp
	source     string
	global     bool
	ignoreCase bool
	multiline  bool
}

func (d *regexpData) flags() string {
	var b strings.Builder
	if d.global {
		b.WriteByte('g')
	}
	if d.ignoreCase {
		b.WriteByte('i')
	}
	if d.multiline {
		b.WriteByte('m')
	}
	return b.String()
}

func (r *registry) createRegExpConstructor() *runtime.Object {
	proto := r.realm.RegExpPrototype

	r.setMethod(proto, "exec", 1, r.regexpExec)
	r.setMethod(proto, "test", 1, r.regexpTest)
	r.setMethod(proto, "toString", 0, regexpToString)

	ctor := r.newFuncObject("RegExp", 2, r.regexpConstructorCall)
	ctor.Constructor = func(args []runtime.Value) (runtime.Value, error) {
		return r.regexpConstruct(args)
	}
	linkConstructor(ctor, proto)

	r.realm.NewRegExp = r.newRegExp
	return ctor
}

// regexpConstructorCall returns a RegExp argument unchanged when no flags
// are given.
func (r *registry) regexpConstructorCall(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if pattern := argAt(args, 0); isClass(pattern, runtime.ClassRegExp) && argAt(args, 1).IsUndefined() {
		return pattern, nil
	}
	return r.regexpConstruct(args)
}

func (r *registry) regexpConstruct(args []runtime.Value) (runtime.Value, error) {
	pattern, flags := argAt(args, 0), argAt(args, 1)
	var source, flagText string
	if d := regexpOf(pattern); d != nil {
		if !flags.IsUndefined() {
			return runtime.Undefined, runtime.NewTypeError("cannot supply flags when constructing one RegExp from another")
		}
		source, flagText = d.source, d.flags()
	} else {
		var err error
		if !pattern.IsUndefined() {
			if source, err = runtime.ToString(pattern); err != nil {
				return runtime.Undefined, err
			}
		}
		if !flags.IsUndefined() {
			if flagText, err = runtime.ToString(flags); err != nil {
				return runtime.Undefined, err
			}
		}
	}
	obj, err := r.newRegExp(source, flagText)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(obj), nil
}

// newRegExp compiles pattern with ECMAScript syntax and builds the RegExp
// object. Bad flags or a bad pattern are a SyntaxError.
func (r *registry) newRegExp(pattern, flags string) (*runtime.Object, error) {
	d := &regexpData{source: pattern}
	if d.source == "" {
		d.source = "(?:)"
	}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for _, f := range flags {
		var seen *bool
		switch f {
		case 'g':
			seen = &d.global
		case 'i':
			seen = &d.ignoreCase
			opts |= regexp2.IgnoreCase
		case 'm':
			seen = &d.multiline
			opts |= regexp2.Multiline
		}
		if seen == nil || *seen {
			return nil, runtime.NewSyntaxError("invalid regular expression flags %q", flags)
		}
		*seen = true
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, runtime.NewSyntaxError("invalid regular expression: /%s/: %v", pattern, err)
	}
	d.re = re

	obj := runtime.NewObject(r.realm.RegExpPrototype)
	obj.Class = runtime.ClassRegExp
	obj.Internal = d
	setConstant(obj, "source", runtime.Str(d.source))
	setConstant(obj, "global", runtime.Bool(d.global))
	setConstant(obj, "ignoreCase", runtime.Bool(d.ignoreCase))
	setConstant(obj, "multiline", runtime.Bool(d.multiline))
	setDataProp(obj, "lastIndex", runtime.Zero, true, false, false)
	return obj, nil
}

func regexpOf(v runtime.Value) *regexpData {
	if !isClass(v, runtime.ClassRegExp) {
		return nil
	}
	d, _ := v.AsObject().Internal.(*regexpData)
	return d
}

func thisRegExp(this runtime.Value, method string) (*runtime.Object, *regexpData, error) {
	d := regexpOf(this)
	if d == nil {
		return nil, nil, runtime.NewTypeError("RegExp.prototype.%s called on incompatible receiver %s", method, this)
	}
	return this.AsObject(), d, nil
}

// unitRunes spreads s into one rune per UTF-16 code unit, so match
// positions are code unit indices.
func unitRunes(s string) []rune {
	units := runtime.StringUnits(s)
	rs := make([]rune, len(units))
	for i, u := range units {
		rs[i] = rune(u)
	}
	return rs
}

func runesString(rs []rune) string {
	units := make([]uint16, len(rs))
	for i, r := range rs {
		units[i] = uint16(r)
	}
	return runtime.StringFromUnits(units)
}

// regexpMatch is one successful match: the start and end of the whole
// match plus each capture, nil when the group did not participate.
type regexpMatch struct {
	start, end int
	captures   []*string
}

func (m *regexpMatch) matched() string { return *m.captures[0] }

// matchAt finds the first match at or after position from.
func (d *regexpData) matchAt(input []rune, from int) (*regexpMatch, error) {
	m, err := d.re.FindRunesMatchStartingAt(input, from)
	if err != nil || m == nil {
		return nil, err
	}
	groups := m.Groups()
	res := &regexpMatch{start: m.Index, end: m.Index + m.Length, captures: make([]*string, len(groups))}
	for i, g := range groups {
		if len(g.Captures) == 0 {
			continue
		}
		s := runesString(g.Runes())
		res.captures[i] = &s
	}
	return res, nil
}

// exec runs the matcher honouring and updating lastIndex.
func (r *registry) exec(obj *runtime.Object, d *regexpData, s string) (*regexpMatch, error) {
	input := unitRunes(s)
	i := 0.0
	if d.global {
		v, err := obj.Get("lastIndex")
		if err != nil {
			return nil, err
		}
		if i, err = runtime.ToInteger(v); err != nil {
			return nil, err
		}
	}
	if i < 0 || i > float64(len(input)) {
		return nil, obj.Put("lastIndex", runtime.Zero, true)
	}
	m, err := d.matchAt(input, int(i))
	if err != nil {
		return nil, runtime.NewError(runtime.ErrError, "regular expression match failed: %v", err)
	}
	if m == nil {
		return nil, obj.Put("lastIndex", runtime.Zero, true)
	}
	if d.global {
		if err := obj.Put("lastIndex", runtime.Num(float64(m.end)), true); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// matchArray builds the exec result: captures with index and input.
func (r *registry) matchArray(m *regexpMatch, input string) *runtime.Object {
	vals := make([]runtime.Value, len(m.captures))
	for i, c := range m.captures {
		if c != nil {
			vals[i] = runtime.Str(*c)
		}
	}
	arr := r.realm.NewArray(vals)
	arr.Set("index", runtime.Num(float64(m.start)))
	arr.Set("input", runtime.Str(input))
	return arr
}

func (r *registry) regexpExec(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, d, err := thisRegExp(this, "exec")
	if err != nil {
		return runtime.Undefined, err
	}
	s, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	m, err := r.exec(obj, d, s)
	if err != nil || m == nil {
		return runtime.Null, err
	}
	return runtime.ObjectValue(r.matchArray(m, s)), nil
}

func (r *registry) regexpTest(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, d, err := thisRegExp(this, "test")
	if err != nil {
		return runtime.Undefined, err
	}
	s, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	m, err := r.exec(obj, d, s)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Bool(m != nil), nil
}

func regexpToString(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	_, d, err := thisRegExp(this, "toString")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Str("/" + d.source + "/" + d.flags()), nil
}
