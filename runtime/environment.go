package runtime

import "fmt"

// Environment is an environment record linked to its lexically enclosing
// record. The chain ends at the global environment, whose Outer is nil.
type Environment interface {
	HasBinding(name string) bool
	CreateMutableBinding(name string, deletable bool) error
	SetMutableBinding(name string, v Value, strict bool) error
	GetBindingValue(name string, strict bool) (Value, error)
	DeleteBinding(name string) (bool, error)
	ImplicitThisValue() Value
	Outer() Environment
}

type binding struct {
	value       Value
	mutable     bool
	deletable   bool
	initialized bool
}

// DeclarativeEnv stores bindings directly. Function activations, catch
// clauses and named function expressions use it.
type DeclarativeEnv struct {
	outer    Environment
	bindings map[string]*binding
}

func NewDeclarativeEnv(outer Environment) *DeclarativeEnv {
	return &DeclarativeEnv{outer: outer, bindings: make(map[string]*binding)}
}

func (e *DeclarativeEnv) Outer() Environment { return e.outer }

func (e *DeclarativeEnv) HasBinding(name string) bool {
	_, ok := e.bindings[name]
	return ok
}

func (e *DeclarativeEnv) CreateMutableBinding(name string, deletable bool) error {
	if _, ok := e.bindings[name]; ok {
		panic(fmt.Sprintf("runtime: duplicate binding %q", name))
	}
	e.bindings[name] = &binding{value: Undefined, mutable: true, deletable: deletable, initialized: true}
	return nil
}

// CreateImmutableBinding creates an uninitialized immutable binding.
func (e *DeclarativeEnv) CreateImmutableBinding(name string) {
	if _, ok := e.bindings[name]; ok {
		panic(fmt.Sprintf("runtime: duplicate binding %q", name))
	}
	e.bindings[name] = &binding{value: Undefined}
}

// InitializeImmutableBinding sets the value of an immutable binding once.
func (e *DeclarativeEnv) InitializeImmutableBinding(name string, v Value) {
	b, ok := e.bindings[name]
	if !ok || b.mutable || b.initialized {
		panic(fmt.Sprintf("runtime: bad initialization of immutable binding %q", name))
	}
	b.value = v
	b.initialized = true
}

func (e *DeclarativeEnv) SetMutableBinding(name string, v Value, strict bool) error {
	b, ok := e.bindings[name]
	if !ok {
		panic(fmt.Sprintf("runtime: set of missing binding %q", name))
	}
	if b.mutable {
		b.value = v
		b.initialized = true
		return nil
	}
	if strict {
		return NewTypeError("assignment to immutable binding %q", name)
	}
	return nil
}

func (e *DeclarativeEnv) GetBindingValue(name string, strict bool) (Value, error) {
	b, ok := e.bindings[name]
	if !ok {
		panic(fmt.Sprintf("runtime: get of missing binding %q", name))
	}
	if !b.initialized {
		// Binding instantiation always initializes immutable bindings
		// before any code can observe them.
		panic(fmt.Sprintf("runtime: read of uninitialized immutable binding %q", name))
	}
	return b.value, nil
}

func (e *DeclarativeEnv) DeleteBinding(name string) (bool, error) {
	b, ok := e.bindings[name]
	if !ok {
		return true, nil
	}
	if !b.deletable {
		return false, nil
	}
	delete(e.bindings, name)
	return true, nil
}

func (e *DeclarativeEnv) ImplicitThisValue() Value { return Undefined }

// ObjectEnv binds names to the properties of an object. The global
// environment and with statements use it, both with provideThis set.
type ObjectEnv struct {
	obj         *Object
	outer       Environment
	provideThis bool
}

func NewObjectEnv(obj *Object, outer Environment, provideThis bool) *ObjectEnv {
	return &ObjectEnv{obj: obj, outer: outer, provideThis: provideThis}
}

func (e *ObjectEnv) Object() *Object             { return e.obj }
func (e *ObjectEnv) Outer() Environment          { return e.outer }
func (e *ObjectEnv) ProvidesThis() bool          { return e.provideThis }
func (e *ObjectEnv) HasBinding(name string) bool { return e.obj.HasProperty(name) }

func (e *ObjectEnv) CreateMutableBinding(name string, deletable bool) error {
	_, err := e.obj.DefineOwnProperty(name, DataDescriptor(Undefined, true, true, deletable), true)
	return err
}

func (e *ObjectEnv) SetMutableBinding(name string, v Value, strict bool) error {
	return e.obj.Put(name, v, strict)
}

func (e *ObjectEnv) GetBindingValue(name string, strict bool) (Value, error) {
	if !e.obj.HasProperty(name) {
		if strict {
			return Undefined, NewReferenceError("%q not defined", name)
		}
		return Undefined, nil
	}
	return e.obj.Get(name)
}

func (e *ObjectEnv) DeleteBinding(name string) (bool, error) {
	return e.obj.Delete(name, false)
}

func (e *ObjectEnv) ImplicitThisValue() Value {
	if e.provideThis {
		return ObjectValue(e.obj)
	}
	return Undefined
}

// NewGlobalEnv returns the outermost environment, backed by the global
// object.
func NewGlobalEnv(global *Object) *ObjectEnv {
	return NewObjectEnv(global, nil, true)
}
