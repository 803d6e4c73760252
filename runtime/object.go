package runtime

import (
	"sort"
	"strconv"
)

// Class is the [[Class]] of an object.
type Class uint8

const (
	ClassObject Class = iota
	ClassFunction
	ClassArray
	ClassString
	ClassNumber
	ClassBoolean
	ClassDate
	ClassRegExp
	ClassError
	ClassArguments
	ClassMath
	ClassJSON
	ClassGlobal
)

var classNames = [...]string{
	ClassObject:    "Object",
	ClassFunction:  "Function",
	ClassArray:     "Array",
	ClassString:    "String",
	ClassNumber:    "Number",
	ClassBoolean:   "Boolean",
	ClassDate:      "Date",
	ClassRegExp:    "RegExp",
	ClassError:     "Error",
	ClassArguments: "Arguments",
	ClassMath:      "Math",
	ClassJSON:      "JSON",
	ClassGlobal:    "global",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "Object"
}

// NativeFunc is the [[Call]] calling convention shared by built-ins and
// script functions. Arguments never contain references.
type NativeFunc func(this Value, args []Value) (Value, error)

// ConstructFunc is the [[Construct]] calling convention.
type ConstructFunc func(args []Value) (Value, error)

// Object is an ordinary object plus the internal slots of the few exotic
// kinds ES5 has (arrays, string wrappers, mapped arguments).
type Object struct {
	Class Class

	proto      *Object
	extensible bool
	props      map[string]*Property
	keys       []string // insertion order of props

	Callable    NativeFunc
	Constructor ConstructFunc
	// BoundTarget is set on functions created by Function.prototype.bind;
	// [[HasInstance]] forwards to it.
	BoundTarget *Object
	// calls is the realm call stack charged by Call and Construct.
	calls *CallStack

	// Primitive is [[PrimitiveValue]] of Boolean, Number, String and Date
	// objects.
	Primitive Value
	// Internal holds host data such as compiled code or a regexp.
	Internal any

	argMap map[string]argBinding
}

// NewObject allocates an extensible ordinary object.
func NewObject(proto *Object) *Object {
	return &Object{
		Class:      ClassObject,
		proto:      proto,
		extensible: true,
		props:      make(map[string]*Property),
	}
}

func (o *Object) Prototype() *Object { return o.proto }

// SetPrototype replaces the prototype link. It refuses to create a cycle.
func (o *Object) SetPrototype(p *Object) bool {
	for q := p; q != nil; q = q.proto {
		if q == o {
			return false
		}
	}
	o.proto = p
	return true
}

func (o *Object) Extensible() bool   { return o.extensible }
func (o *Object) PreventExtensions() { o.extensible = false }
func (o *Object) IsCallable() bool   { return o.Callable != nil }

// DefineProperty installs p as an own property without any checks. It is
// meant for building intrinsics; script-visible definitions go through
// DefineOwnProperty.
func (o *Object) DefineProperty(key string, p *Property) {
	if _, ok := o.props[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.props[key] = p
}

// Set installs a writable, enumerable, configurable data property without
// any checks.
func (o *Object) Set(key string, v Value) {
	o.DefineProperty(key, &Property{Value: v, Writable: true, Enumerable: true, Configurable: true})
}

func (o *Object) removeKey(key string) {
	delete(o.props, key)
	for i := len(o.keys) - 1; i >= 0; i-- {
		if o.keys[i] == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			return
		}
	}
}

// dataValue reads an own-or-inherited data property without running
// accessors.
func (o *Object) dataValue(key string) (Value, bool) {
	for q := o; q != nil; q = q.proto {
		if p, ok := q.props[key]; ok {
			if p.IsAccessor {
				return Undefined, false
			}
			return p.Value, true
		}
	}
	return Undefined, false
}

// GetOwnProperty returns a snapshot of the own property named key.
func (o *Object) GetOwnProperty(key string) (Property, bool) {
	if p, ok := o.props[key]; ok {
		prop := *p
		if b, mapped := o.argMap[key]; mapped {
			prop.Value = b.get()
		}
		return prop, true
	}
	if o.Class == ClassString && o.Primitive.IsString() {
		if idx, ok := ArrayIndex(key); ok {
			if u, ok := CodeUnitAt(o.Primitive.AsString(), int(idx)); ok {
				return Property{Value: Str(StringFromUnits([]uint16{u})), Enumerable: true}, true
			}
		}
	}
	return Property{}, false
}

// GetProperty finds key on o or its prototype chain.
func (o *Object) GetProperty(key string) (Property, bool) {
	for q := o; q != nil; q = q.proto {
		if p, ok := q.GetOwnProperty(key); ok {
			return p, true
		}
	}
	return Property{}, false
}

// Get is [[Get]].
func (o *Object) Get(key string) (Value, error) {
	return o.GetWithReceiver(key, ObjectValue(o))
}

// GetWithReceiver looks key up on o but runs a getter with this = receiver.
// It serves property reads on primitive bases.
func (o *Object) GetWithReceiver(key string, receiver Value) (Value, error) {
	p, ok := o.GetProperty(key)
	if !ok {
		return Undefined, nil
	}
	if !p.IsAccessor {
		return p.Value, nil
	}
	if p.Getter == nil {
		return Undefined, nil
	}
	return p.Getter.Call(receiver, nil)
}

// CanPut is [[CanPut]].
func (o *Object) CanPut(key string) bool {
	if p, ok := o.GetOwnProperty(key); ok {
		if p.IsAccessor {
			return p.Setter != nil
		}
		return p.Writable
	}
	if o.proto == nil {
		return o.extensible
	}
	inherited, ok := o.proto.GetProperty(key)
	if !ok {
		return o.extensible
	}
	if inherited.IsAccessor {
		return inherited.Setter != nil
	}
	if !o.extensible {
		return false
	}
	return inherited.Writable
}

// Put is [[Put]]. When the write is refused it reports a TypeError if throw
// is set and does nothing otherwise.
func (o *Object) Put(key string, v Value, throw bool) error {
	if !o.CanPut(key) {
		_, err := typeErrorResult(throw, "cannot assign to read only property %q", key)
		return err
	}
	if own, ok := o.GetOwnProperty(key); ok && !own.IsAccessor {
		_, err := o.DefineOwnProperty(key, PropertyDescriptor{Value: v, HasValue: true}, throw)
		return err
	}
	if p, ok := o.GetProperty(key); ok && p.IsAccessor {
		_, err := p.Setter.Call(ObjectValue(o), []Value{v})
		return err
	}
	_, err := o.DefineOwnProperty(key, DataDescriptor(v, true, true, true), throw)
	return err
}

// HasProperty is [[HasProperty]].
func (o *Object) HasProperty(key string) bool {
	_, ok := o.GetProperty(key)
	return ok
}

func (o *Object) HasOwnProperty(key string) bool {
	_, ok := o.GetOwnProperty(key)
	return ok
}

// Delete is [[Delete]].
func (o *Object) Delete(key string, throw bool) (bool, error) {
	p, ok := o.GetOwnProperty(key)
	if !ok {
		return true, nil
	}
	if !p.Configurable {
		return typeErrorResult(throw, "cannot delete property %q", key)
	}
	o.removeKey(key)
	delete(o.argMap, key)
	return true, nil
}

// DefineOwnProperty is [[DefineOwnProperty]].
func (o *Object) DefineOwnProperty(key string, desc PropertyDescriptor, throw bool) (bool, error) {
	switch {
	case o.Class == ClassArray:
		return o.defineArrayOwnProperty(key, desc, throw)
	case o.argMap != nil:
		return o.defineArgumentsOwnProperty(key, desc, throw)
	}
	return o.defineOrdinaryOwnProperty(key, desc, throw)
}

func (o *Object) defineOrdinaryOwnProperty(key string, desc PropertyDescriptor, throw bool) (bool, error) {
	current, exists := o.GetOwnProperty(key)
	if !exists {
		if !o.extensible {
			return typeErrorResult(throw, "cannot define property %q, object is not extensible", key)
		}
		p := &Property{
			Enumerable:   desc.Enumerable.Bool(),
			Configurable: desc.Configurable.Bool(),
		}
		if desc.IsAccessor() {
			p.IsAccessor = true
			p.Getter = callableOrNil(desc.Get)
			p.Setter = callableOrNil(desc.Set)
		} else {
			p.Value = desc.Value
			p.Writable = desc.Writable.Bool()
		}
		o.DefineProperty(key, p)
		return true, nil
	}

	if _, own := o.props[key]; !own {
		// String index properties are read-only and non-configurable.
		if desc.Configurable.Bool() || (desc.Enumerable.IsSet() && !desc.Enumerable.Bool()) ||
			desc.IsAccessor() || desc.Writable.Bool() ||
			(desc.HasValue && !SameValue(desc.Value, current.Value)) {
			return typeErrorResult(throw, "cannot redefine property: %s", key)
		}
		return true, nil
	}

	if descriptorIsNoop(desc, &current) {
		return true, nil
	}

	if !current.Configurable {
		if desc.Configurable.Bool() {
			return typeErrorResult(throw, "cannot redefine property: %s", key)
		}
		if desc.Enumerable.IsSet() && desc.Enumerable.Bool() != current.Enumerable {
			return typeErrorResult(throw, "cannot redefine property: %s", key)
		}
	}

	next := current
	switch {
	case desc.IsGeneric():
		// Only attributes change.
	case desc.IsData() != !current.IsAccessor:
		if !current.Configurable {
			return typeErrorResult(throw, "cannot redefine property: %s", key)
		}
		// Convert, keeping configurable and enumerable.
		if current.IsAccessor {
			next = Property{Enumerable: current.Enumerable, Configurable: current.Configurable}
		} else {
			next = Property{IsAccessor: true, Enumerable: current.Enumerable, Configurable: current.Configurable}
		}
	case !current.IsAccessor:
		if !current.Configurable && !current.Writable {
			if desc.Writable.Bool() {
				return typeErrorResult(throw, "cannot redefine property: %s", key)
			}
			if desc.HasValue && !SameValue(desc.Value, current.Value) {
				return typeErrorResult(throw, "cannot redefine property: %s", key)
			}
		}
	default:
		if !current.Configurable {
			if desc.HasSet && !sameObject(desc.Set, current.Setter) {
				return typeErrorResult(throw, "cannot redefine property: %s", key)
			}
			if desc.HasGet && !sameObject(desc.Get, current.Getter) {
				return typeErrorResult(throw, "cannot redefine property: %s", key)
			}
		}
	}

	if desc.HasValue {
		next.Value = desc.Value
	}
	if desc.Writable.IsSet() {
		next.Writable = desc.Writable.Bool()
	}
	if desc.HasGet {
		next.Getter = callableOrNil(desc.Get)
	}
	if desc.HasSet {
		next.Setter = callableOrNil(desc.Set)
	}
	if desc.Enumerable.IsSet() {
		next.Enumerable = desc.Enumerable.Bool()
	}
	if desc.Configurable.IsSet() {
		next.Configurable = desc.Configurable.Bool()
	}
	*o.props[key] = next
	return true, nil
}

// descriptorIsNoop reports whether every field present in desc already
// holds the same value in current.
func descriptorIsNoop(desc PropertyDescriptor, current *Property) bool {
	if desc.HasValue && (current.IsAccessor || !SameValue(desc.Value, current.Value)) {
		return false
	}
	if desc.Writable.IsSet() && (current.IsAccessor || desc.Writable.Bool() != current.Writable) {
		return false
	}
	if desc.HasGet && (!current.IsAccessor || !sameObject(desc.Get, current.Getter)) {
		return false
	}
	if desc.HasSet && (!current.IsAccessor || !sameObject(desc.Set, current.Setter)) {
		return false
	}
	if desc.Enumerable.IsSet() && desc.Enumerable.Bool() != current.Enumerable {
		return false
	}
	if desc.Configurable.IsSet() && desc.Configurable.Bool() != current.Configurable {
		return false
	}
	return true
}

func callableOrNil(v Value) *Object {
	if v.IsObject() {
		return v.AsObject()
	}
	return nil
}

// OwnKeys lists own property names in insertion order. String wrapper
// indices come first.
func (o *Object) OwnKeys() []string {
	var keys []string
	if o.Class == ClassString && o.Primitive.IsString() {
		n := StringLength(o.Primitive.AsString())
		keys = make([]string, 0, n+len(o.keys))
		for i := 0; i < n; i++ {
			keys = append(keys, strconv.Itoa(i))
		}
	}
	return append(keys, o.keys...)
}

// PropertyFilter selects names for PropertyNames.
type PropertyFilter uint8

const (
	// EnumerableOnly skips non-enumerable properties.
	EnumerableOnly PropertyFilter = 1 << iota
	// IncludePrototypes walks the prototype chain; shadowed names are
	// reported once.
	IncludePrototypes
)

// PropertyNames returns property names in enumeration order: own names in
// insertion order, then each prototype's. Array indices are not reordered.
func (o *Object) PropertyNames(filter PropertyFilter) []string {
	var names []string
	seen := make(map[string]bool)
	for q := o; q != nil; q = q.proto {
		for _, key := range q.OwnKeys() {
			if seen[key] {
				continue
			}
			seen[key] = true
			p, ok := q.GetOwnProperty(key)
			if !ok {
				continue
			}
			if filter&EnumerableOnly != 0 && !p.Enumerable {
				continue
			}
			names = append(names, key)
		}
		if filter&IncludePrototypes == 0 {
			break
		}
	}
	return names
}

// Hint selects the conversion order of DefaultValue.
type Hint uint8

const (
	HintNone Hint = iota
	HintNumber
	HintString
)

// DefaultValue is [[DefaultValue]].
func (o *Object) DefaultValue(hint Hint) (Value, error) {
	if hint == HintNone {
		hint = HintNumber
		if o.Class == ClassDate {
			hint = HintString
		}
	}
	order := [2]string{"valueOf", "toString"}
	if hint == HintString {
		order = [2]string{"toString", "valueOf"}
	}
	for _, name := range order {
		fn, err := o.Get(name)
		if err != nil {
			return Undefined, err
		}
		if !fn.IsCallable() {
			continue
		}
		v, err := fn.AsObject().Call(ObjectValue(o), nil)
		if err != nil {
			return Undefined, err
		}
		if v.IsPrimitive() {
			return v, nil
		}
	}
	return Undefined, NewTypeError("cannot convert object to primitive value")
}

// Call is [[Call]].
func (o *Object) Call(this Value, args []Value) (Value, error) {
	if o.Callable == nil {
		return Undefined, NewTypeError("not callable object")
	}
	if o.calls != nil {
		if err := o.calls.Enter(); err != nil {
			return Undefined, err
		}
		defer o.calls.Exit()
	}
	return o.Callable(this, args)
}

// Construct is [[Construct]]. It fails with a TypeError when o is not a
// constructor.
func (o *Object) Construct(args []Value) (Value, error) {
	if o.Constructor == nil {
		return Undefined, NewTypeError("not a constructor")
	}
	if o.calls != nil {
		if err := o.calls.Enter(); err != nil {
			return Undefined, err
		}
		defer o.calls.Exit()
	}
	return o.Constructor(args)
}

// HasInstance is [[HasInstance]] for function objects.
func (o *Object) HasInstance(v Value) (bool, error) {
	for o.BoundTarget != nil {
		o = o.BoundTarget
	}
	if !v.IsObject() {
		return false, nil
	}
	protoVal, err := o.Get("prototype")
	if err != nil {
		return false, err
	}
	if !protoVal.IsObject() {
		return false, NewTypeError("function has non-object prototype in instanceof check")
	}
	proto := protoVal.AsObject()
	for q := v.AsObject().proto; q != nil; q = q.proto {
		if q == proto {
			return true, nil
		}
	}
	return false, nil
}

// IsFrozen reports the Object.isFrozen test.
func (o *Object) IsFrozen() bool {
	if o.extensible {
		return false
	}
	for _, key := range o.OwnKeys() {
		p, _ := o.GetOwnProperty(key)
		if p.Configurable || (!p.IsAccessor && p.Writable) {
			return false
		}
	}
	return true
}

// IsSealed reports the Object.isSealed test.
func (o *Object) IsSealed() bool {
	if o.extensible {
		return false
	}
	for _, key := range o.OwnKeys() {
		if p, _ := o.GetOwnProperty(key); p.Configurable {
			return false
		}
	}
	return true
}

// ArrayIndex reports whether key is a canonical array index.
func ArrayIndex(key string) (uint32, bool) {
	if key == "" || len(key) > 10 || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 64)
	if err != nil || n >= 1<<32-1 {
		return 0, false
	}
	return uint32(n), true
}

func sortIndicesDescending(idx []uint32) {
	sort.Slice(idx, func(i, j int) bool { return idx[i] > idx[j] })
}
