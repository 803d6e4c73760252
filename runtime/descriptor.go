package runtime

// Flag is a tri-state attribute used while merging partial descriptors.
type Flag int8

const (
	FlagUnset Flag = iota
	FlagFalse
	FlagTrue
)

func FlagOf(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

func (f Flag) IsSet() bool { return f != FlagUnset }
func (f Flag) Bool() bool  { return f == FlagTrue }

// PropertyDescriptor is a possibly partial property description, as
// produced by ToPropertyDescriptor or by engine code defining properties.
type PropertyDescriptor struct {
	Value    Value
	HasValue bool

	// Get and Set are undefined or callable objects; they are meaningful
	// only when HasGet / HasSet is true.
	Get, Set       Value
	HasGet, HasSet bool

	Writable, Enumerable, Configurable Flag
}

func (d PropertyDescriptor) IsAccessor() bool { return d.HasGet || d.HasSet }
func (d PropertyDescriptor) IsData() bool     { return d.HasValue || d.Writable.IsSet() }
func (d PropertyDescriptor) IsGeneric() bool  { return !d.IsAccessor() && !d.IsData() }

// DataDescriptor returns a complete data descriptor.
func DataDescriptor(v Value, writable, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Value:        v,
		HasValue:     true,
		Writable:     FlagOf(writable),
		Enumerable:   FlagOf(enumerable),
		Configurable: FlagOf(configurable),
	}
}

// AccessorDescriptor returns a complete accessor descriptor. A nil getter
// or setter is stored as undefined.
func AccessorDescriptor(get, set *Object, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Get:          objectOrUndefined(get),
		Set:          objectOrUndefined(set),
		HasGet:       true,
		HasSet:       true,
		Enumerable:   FlagOf(enumerable),
		Configurable: FlagOf(configurable),
	}
}

func objectOrUndefined(o *Object) Value {
	if o == nil {
		return Undefined
	}
	return ObjectValue(o)
}

// Property is a resolved own property. Exactly one of the data fields
// (Value, Writable) or accessor fields (Getter, Setter) is meaningful,
// selected by IsAccessor.
type Property struct {
	Value          Value
	Getter, Setter *Object
	IsAccessor     bool
	Writable       bool
	Enumerable     bool
	Configurable   bool
}

// Descriptor returns the fully populated descriptor for p.
func (p *Property) Descriptor() PropertyDescriptor {
	if p.IsAccessor {
		return AccessorDescriptor(p.Getter, p.Setter, p.Enumerable, p.Configurable)
	}
	return DataDescriptor(p.Value, p.Writable, p.Enumerable, p.Configurable)
}

func sameObject(a Value, b *Object) bool {
	if a.IsUndefined() {
		return b == nil
	}
	return a.IsObject() && a.AsObject() == b
}
