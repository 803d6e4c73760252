package runtime

// Reference is a resolved name binding: a property of an object or
// primitive, a binding in an environment record, or an unresolvable name
// (Base undefined).
type Reference struct {
	Base   Value
	Name   string
	Strict bool
}

func (r *Reference) IsUnresolvable() bool { return r.Base.IsUndefined() }

// IsPropertyReference reports whether the base is an object or primitive.
func (r *Reference) IsPropertyReference() bool {
	return r.Base.IsObject() || r.HasPrimitiveBase()
}

func (r *Reference) HasPrimitiveBase() bool {
	switch r.Base.Kind() {
	case KindBoolean, KindString, KindNumber:
		return true
	}
	return false
}

// GetIdentifierReference walks env outward looking for name.
func GetIdentifierReference(env Environment, name string, strict bool) *Reference {
	for e := env; e != nil; e = e.Outer() {
		if e.HasBinding(name) {
			return &Reference{Base: EnvironmentValue(e), Name: name, Strict: strict}
		}
	}
	return &Reference{Base: Undefined, Name: name, Strict: strict}
}

// GetValue dereferences v. Non-reference values are returned unchanged.
func (r *Realm) GetValue(v Value) (Value, error) {
	if !v.IsReference() {
		return v, nil
	}
	ref := v.AsReference()
	switch {
	case ref.IsUnresolvable():
		return Undefined, NewReferenceError("%q not defined", ref.Name)
	case ref.Base.IsEnvironment():
		return ref.Base.AsEnvironment().GetBindingValue(ref.Name, ref.Strict)
	case ref.Base.IsObject():
		return ref.Base.AsObject().Get(ref.Name)
	}
	return r.getPrimitiveProperty(ref.Base, ref.Name)
}

func (r *Realm) getPrimitiveProperty(base Value, name string) (Value, error) {
	if base.IsString() {
		s := base.AsString()
		if name == "length" {
			return Num(float64(StringLength(s))), nil
		}
		if idx, ok := ArrayIndex(name); ok {
			if u, ok := CodeUnitAt(s, int(idx)); ok {
				return Str(StringFromUnits([]uint16{u})), nil
			}
		}
	}
	o, err := r.ToObject(base)
	if err != nil {
		return Undefined, err
	}
	return o.GetWithReceiver(name, base)
}

// PutValue stores v through ref.
func (r *Realm) PutValue(ref *Reference, v Value) error {
	switch {
	case ref.IsUnresolvable():
		if ref.Strict {
			return NewReferenceError("putting to unresolvable reference not allowed in strict reference")
		}
		return r.Global.Put(ref.Name, v, false)
	case ref.Base.IsEnvironment():
		return ref.Base.AsEnvironment().SetMutableBinding(ref.Name, v, ref.Strict)
	case ref.Base.IsObject():
		return ref.Base.AsObject().Put(ref.Name, v, ref.Strict)
	}
	return r.putPrimitiveProperty(ref, v)
}

// putPrimitiveProperty can only reach an inherited setter; every other
// write is dropped, or rejected in strict code.
func (r *Realm) putPrimitiveProperty(ref *Reference, v Value) error {
	o, err := r.ToObject(ref.Base)
	if err != nil {
		return err
	}
	if !o.CanPut(ref.Name) {
		_, err := typeErrorResult(ref.Strict, "cannot assign to read only property %q", ref.Name)
		return err
	}
	if own, ok := o.GetOwnProperty(ref.Name); ok && !own.IsAccessor {
		_, err := typeErrorResult(ref.Strict, "cannot assign to property %q of primitive", ref.Name)
		return err
	}
	if p, ok := o.GetProperty(ref.Name); ok && p.IsAccessor {
		_, err := p.Setter.Call(ref.Base, []Value{v})
		return err
	}
	_, err = typeErrorResult(ref.Strict, "cannot create property %q on primitive", ref.Name)
	return err
}
