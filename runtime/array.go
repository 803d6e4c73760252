package runtime

import "strconv"

// NewArrayObject allocates an array holding values at indices 0..n-1.
func NewArrayObject(proto *Object, values []Value) *Object {
	a := NewObject(proto)
	a.Class = ClassArray
	for i, v := range values {
		a.DefineProperty(strconv.Itoa(i), &Property{Value: v, Writable: true, Enumerable: true, Configurable: true})
	}
	a.DefineProperty("length", &Property{Value: Num(float64(len(values))), Writable: true})
	return a
}

func (o *Object) arrayLength() uint32 {
	p := o.props["length"]
	if p == nil {
		return 0
	}
	return uint32(p.Value.AsNumber())
}

// defineArrayOwnProperty keeps "length" consistent with the index
// properties.
func (o *Object) defineArrayOwnProperty(key string, desc PropertyDescriptor, throw bool) (bool, error) {
	lengthProp := o.props["length"]
	if lengthProp == nil {
		return o.defineOrdinaryOwnProperty(key, desc, throw)
	}
	oldLen := o.arrayLength()

	if key == "length" {
		if !desc.HasValue {
			return o.defineOrdinaryOwnProperty("length", desc, throw)
		}
		newLen, err := ToUint32(desc.Value)
		if err != nil {
			return false, err
		}
		n, err := ToNumber(desc.Value)
		if err != nil {
			return false, err
		}
		if float64(newLen) != n {
			return false, NewRangeError("invalid array length")
		}
		desc.Value = Num(float64(newLen))
		if newLen >= oldLen {
			return o.defineOrdinaryOwnProperty("length", desc, throw)
		}
		if !lengthProp.Writable {
			return typeErrorResult(throw, "cannot assign to read only property \"length\"")
		}
		newWritable := !desc.Writable.IsSet() || desc.Writable.Bool()
		if !newWritable {
			// Defer making length read-only until the deletes are done.
			desc.Writable = FlagTrue
		}
		if ok, err := o.defineOrdinaryOwnProperty("length", desc, throw); !ok || err != nil {
			return ok, err
		}
		var doomed []uint32
		for _, k := range o.keys {
			if idx, ok := ArrayIndex(k); ok && idx >= newLen {
				doomed = append(doomed, idx)
			}
		}
		sortIndicesDescending(doomed)
		for _, idx := range doomed {
			k := strconv.FormatUint(uint64(idx), 10)
			if p := o.props[k]; p != nil && !p.Configurable {
				lengthProp.Value = Num(float64(idx) + 1)
				if !newWritable {
					lengthProp.Writable = false
				}
				return typeErrorResult(throw, "cannot delete array element %d", idx)
			}
			o.removeKey(k)
		}
		if !newWritable {
			lengthProp.Writable = false
		}
		return true, nil
	}

	if idx, ok := ArrayIndex(key); ok {
		if idx >= oldLen && !lengthProp.Writable {
			return typeErrorResult(throw, "cannot add index %d to array with read only length", idx)
		}
		if ok, err := o.defineOrdinaryOwnProperty(key, desc, false); !ok || err != nil {
			if err != nil {
				return false, err
			}
			return typeErrorResult(throw, "cannot redefine property: %s", key)
		}
		if idx >= oldLen {
			lengthProp.Value = Num(float64(idx) + 1)
		}
		return true, nil
	}
	return o.defineOrdinaryOwnProperty(key, desc, throw)
}
