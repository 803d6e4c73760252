package builtins

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/example/es5go/runtime"
)

// maxJSONDepth bounds the nesting JSON.stringify and the reviver walk
// descend into. It matches the nesting limit of encoding/json, which
// JSON.parse inherits.
const maxJSONDepth = 10000

func (r *registry) createJSONObject() *runtime.Object {
	j := runtime.NewObject(r.realm.ObjectPrototype)
	j.Class = runtime.ClassJSON

	r.setMethod(j, "parse", 2, r.jsonParse)
	r.setMethod(j, "stringify", 3, r.jsonStringify)
	return j
}

// jsonParse reads text token by token so that object members keep their
// source order.
func (r *registry) jsonParse(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	text, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	result, err := r.decodeJSON(dec, text)
	if err != nil {
		return runtime.Undefined, jsonSyntaxError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return runtime.Undefined, runtime.NewSyntaxError("JSON.parse: unexpected data after JSON value")
	}

	reviver := argAt(args, 1)
	if !reviver.IsCallable() {
		return result, nil
	}
	root := r.realm.NewObject()
	root.Set("", result)
	return r.jsonWalk(reviver.AsObject(), root, "", 0)
}

func jsonSyntaxError(err error) error {
	var jsErr *runtime.Error
	if errors.As(err, &jsErr) {
		return err
	}
	if errors.Is(err, io.EOF) {
		return runtime.NewSyntaxError("JSON.parse: unexpected end of input")
	}
	return runtime.NewSyntaxError("JSON.parse: %v", err)
}

// decodeJSON reads one value. The decoder validates the grammar, but
// string tokens are re-read from text by jsonString since the decoder
// replaces lone surrogates.
func (r *registry) decodeJSON(dec *json.Decoder, text string) (runtime.Value, error) {
	start := dec.InputOffset()
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return runtime.Undefined, io.ErrUnexpectedEOF
		}
		return runtime.Undefined, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := r.realm.NewObject()
			for dec.More() {
				keyStart := dec.InputOffset()
				if _, err := dec.Token(); err != nil {
					return runtime.Undefined, err
				}
				key := jsonString(text, keyStart, dec.InputOffset())
				v, err := r.decodeJSON(dec, text)
				if err != nil {
					return runtime.Undefined, err
				}
				if _, err := obj.DefineOwnProperty(key, runtime.DataDescriptor(v, true, true, true), false); err != nil {
					return runtime.Undefined, err
				}
			}
			if _, err := dec.Token(); err != nil {
				return runtime.Undefined, err
			}
			return runtime.ObjectValue(obj), nil
		case '[':
			var vals []runtime.Value
			for dec.More() {
				v, err := r.decodeJSON(dec, text)
				if err != nil {
					return runtime.Undefined, err
				}
				vals = append(vals, v)
			}
			if _, err := dec.Token(); err != nil {
				return runtime.Undefined, err
			}
			return runtime.ObjectValue(r.realm.NewArray(vals)), nil
		}
		return runtime.Undefined, runtime.NewSyntaxError("JSON.parse: unexpected %q", t.String())
	case string:
		return runtime.Str(jsonString(text, start, dec.InputOffset())), nil
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return runtime.Undefined, err
		}
		return runtime.Num(f), nil
	case bool:
		return runtime.Bool(t), nil
	case nil:
		return runtime.Null, nil
	}
	return runtime.Undefined, runtime.NewSyntaxError("JSON.parse: unexpected token")
}

// jsonString returns the contents of the string token that the decoder
// read between offsets from and to. Only whitespace and the ',' and ':'
// separators precede the opening quote.
func jsonString(text string, from, to int64) string {
	raw := text[from:to]
	raw = raw[strings.IndexByte(raw, '"')+1 : len(raw)-1]
	if strings.IndexByte(raw, '\\') < 0 {
		return raw
	}
	var units []uint16
	for {
		i := strings.IndexByte(raw, '\\')
		if i < 0 {
			units = append(units, runtime.StringUnits(raw)...)
			break
		}
		units = append(units, runtime.StringUnits(raw[:i])...)
		switch c := raw[i+1]; c {
		case 'u':
			u, _ := strconv.ParseUint(raw[i+2:i+6], 16, 16)
			units = append(units, uint16(u))
			raw = raw[i+6:]
			continue
		case 'b':
			units = append(units, '\b')
		case 'f':
			units = append(units, '\f')
		case 'n':
			units = append(units, '\n')
		case 'r':
			units = append(units, '\r')
		case 't':
			units = append(units, '\t')
		default:
			units = append(units, uint16(c))
		}
		raw = raw[i+2:]
	}
	return runtime.StringFromUnits(units)
}

// jsonWalk applies the reviver bottom-up. A reviver result of undefined
// deletes the member.
func (r *registry) jsonWalk(reviver, holder *runtime.Object, name string, depth int) (runtime.Value, error) {
	val, err := holder.Get(name)
	if err != nil {
		return runtime.Undefined, err
	}
	if val.IsObject() {
		if depth >= maxJSONDepth {
			return runtime.Undefined, runtime.NewRangeError("JSON.parse: reviver nesting exceeds %d levels", maxJSONDepth)
		}
		obj := val.AsObject()
		var keys []string
		if obj.Class == runtime.ClassArray {
			n, err := lengthOf(obj)
			if err != nil {
				return runtime.Undefined, err
			}
			for i := int64(0); i < n; i++ {
				keys = append(keys, indexKey(i))
			}
		} else {
			keys = obj.PropertyNames(runtime.EnumerableOnly)
		}
		for _, key := range keys {
			v, err := r.jsonWalk(reviver, obj, key, depth+1)
			if err != nil {
				return runtime.Undefined, err
			}
			if v.IsUndefined() {
				_, err = obj.Delete(key, false)
			} else {
				_, err = obj.DefineOwnProperty(key, runtime.DataDescriptor(v, true, true, true), false)
			}
			if err != nil {
				return runtime.Undefined, err
			}
		}
	}
	return reviver.Call(runtime.ObjectValue(holder), []runtime.Value{runtime.Str(name), val})
}

// jsonStringifier holds the state of one JSON.stringify call.
type jsonStringifier struct {
	replacer     *runtime.Object
	propertyList []string
	gap          string
	indent       string
	stack        []*runtime.Object
}

func (r *registry) jsonStringify(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s := &jsonStringifier{}
	if rep := argAt(args, 1); rep.IsCallable() {
		s.replacer = rep.AsObject()
	} else if isClass(rep, runtime.ClassArray) {
		list, err := jsonPropertyList(rep.AsObject())
		if err != nil {
			return runtime.Undefined, err
		}
		s.propertyList = list
	}

	space := argAt(args, 2)
	if space.IsObject() {
		var err error
		switch space.AsObject().Class {
		case runtime.ClassNumber:
			var n float64
			n, err = runtime.ToNumber(space)
			space = runtime.Num(n)
		case runtime.ClassString:
			var str string
			str, err = runtime.ToString(space)
			space = runtime.Str(str)
		}
		if err != nil {
			return runtime.Undefined, err
		}
	}
	switch {
	case space.IsNumber():
		if n := math.Min(10, runtime.IntegerOf(space.AsNumber())); n >= 1 {
			s.gap = strings.Repeat(" ", int(n))
		}
	case space.IsString():
		s.gap = runtime.Substring(space.AsString(), 0, 10)
	}

	wrapper := r.realm.NewObject()
	wrapper.Set("", argAt(args, 0))
	out, ok, err := s.str("", wrapper)
	if err != nil || !ok {
		return runtime.Undefined, err
	}
	return runtime.Str(out), nil
}

// jsonPropertyList collects the string and number members of a replacer
// array, without duplicates.
func jsonPropertyList(arr *runtime.Object) ([]string, error) {
	n, err := lengthOf(arr)
	if err != nil {
		return nil, err
	}
	list := []string{}
	for i := int64(0); i < n; i++ {
		v, err := arr.Get(indexKey(i))
		if err != nil {
			return nil, err
		}
		var item string
		switch {
		case v.IsString(), v.IsNumber(), isClass(v, runtime.ClassString), isClass(v, runtime.ClassNumber):
			if item, err = runtime.ToString(v); err != nil {
				return nil, err
			}
		default:
			continue
		}
		if !slices.Contains(list, item) {
			list = append(list, item)
		}
	}
	return list, nil
}

// str serializes holder[key]. ok is false when the value has no JSON
// form (undefined, functions).
func (s *jsonStringifier) str(key string, holder *runtime.Object) (string, bool, error) {
	val, err := holder.Get(key)
	if err != nil {
		return "", false, err
	}
	if val.IsObject() {
		toJSON, err := val.AsObject().Get("toJSON")
		if err != nil {
			return "", false, err
		}
		if toJSON.IsCallable() {
			if val, err = toJSON.AsObject().Call(val, []runtime.Value{runtime.Str(key)}); err != nil {
				return "", false, err
			}
		}
	}
	if s.replacer != nil {
		if val, err = s.replacer.Call(runtime.ObjectValue(holder), []runtime.Value{runtime.Str(key), val}); err != nil {
			return "", false, err
		}
	}
	if val.IsObject() {
		switch obj := val.AsObject(); obj.Class {
		case runtime.ClassNumber:
			n, err := runtime.ToNumber(val)
			if err != nil {
				return "", false, err
			}
			val = runtime.Num(n)
		case runtime.ClassString:
			str, err := runtime.ToString(val)
			if err != nil {
				return "", false, err
			}
			val = runtime.Str(str)
		case runtime.ClassBoolean:
			val = obj.Primitive
		}
	}

	switch val.Kind() {
	case runtime.KindNull:
		return "null", true, nil
	case runtime.KindBoolean:
		if val.AsBool() {
			return "true", true, nil
		}
		return "false", true, nil
	case runtime.KindString:
		return jsonQuote(val.AsString()), true, nil
	case runtime.KindNumber:
		n := val.AsNumber()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "null", true, nil
		}
		return runtime.NumberToString(n), true, nil
	case runtime.KindObject:
		if val.IsCallable() {
			return "", false, nil
		}
		obj := val.AsObject()
		if obj.Class == runtime.ClassArray {
			out, err := s.array(obj)
			return out, err == nil, err
		}
		out, err := s.object(obj)
		return out, err == nil, err
	}
	return "", false, nil
}

func (s *jsonStringifier) enter(obj *runtime.Object) (string, error) {
	if slices.Contains(s.stack, obj) {
		return "", runtime.NewTypeError("JSON.stringify cannot serialize cyclic structures")
	}
	if len(s.stack) >= maxJSONDepth {
		return "", runtime.NewRangeError("JSON.stringify: nesting exceeds %d levels", maxJSONDepth)
	}
	s.stack = append(s.stack, obj)
	stepback := s.indent
	s.indent += s.gap
	return stepback, nil
}

func (s *jsonStringifier) leave(stepback string) {
	s.stack = s.stack[:len(s.stack)-1]
	s.indent = stepback
}

func (s *jsonStringifier) object(obj *runtime.Object) (string, error) {
	stepback, err := s.enter(obj)
	if err != nil {
		return "", err
	}
	defer s.leave(stepback)

	keys := s.propertyList
	if keys == nil {
		keys = obj.PropertyNames(runtime.EnumerableOnly)
	}
	var members []string
	for _, key := range keys {
		v, ok, err := s.str(key, obj)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		member := jsonQuote(key) + ":"
		if s.gap != "" {
			member += " "
		}
		members = append(members, member+v)
	}
	return s.join('{', '}', members, stepback), nil
}

func (s *jsonStringifier) array(obj *runtime.Object) (string, error) {
	stepback, err := s.enter(obj)
	if err != nil {
		return "", err
	}
	defer s.leave(stepback)

	n, err := lengthOf(obj)
	if err != nil {
		return "", err
	}
	elems := make([]string, 0, n)
	for i := int64(0); i < n; i++ {
		v, ok, err := s.str(indexKey(i), obj)
		if err != nil {
			return "", err
		}
		if !ok {
			v = "null"
		}
		elems = append(elems, v)
	}
	return s.join('[', ']', elems, stepback), nil
}

func (s *jsonStringifier) join(lb, rb byte, parts []string, stepback string) string {
	if len(parts) == 0 {
		return string([]byte{lb, rb})
	}
	if s.gap == "" {
		return string(lb) + strings.Join(parts, ",") + string(rb)
	}
	sep := ",\n" + s.indent
	return string(lb) + "\n" + s.indent + strings.Join(parts, sep) + "\n" + stepback + string(rb)
}

// jsonQuote escapes quotes, backslashes and control characters only;
// everything else is written through.
func jsonQuote(str string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(str); i++ {
		c := str[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte("0123456789abcdef"[c>>4])
				b.WriteByte("0123456789abcdef"[c&0xF])
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
