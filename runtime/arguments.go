package runtime

import "strconv"

// argBinding ties an arguments index to a formal parameter binding.
type argBinding struct {
	env  *DeclarativeEnv
	name string
}

func (b argBinding) get() Value {
	v, _ := b.env.GetBindingValue(b.name, false)
	return v
}

// set writes through to the parameter as strict code would, so a binding
// that cannot be assigned is reported rather than ignored.
func (b argBinding) set(v Value) error {
	return b.env.SetMutableBinding(b.name, v, true)
}

// ArgumentsConfig describes the activation an arguments object is created for.
type ArgumentsConfig struct {
	Callee *Object
	Args   []Value
	// Params are the formal parameter names in declaration order.
	Params []string
	Env    *DeclarativeEnv
	Strict bool
}

// NewArgumentsObject creates the arguments object of a function
// activation. In non-strict code indices below len(Params) alias the
// parameter bindings; with duplicate names the last parameter wins.
func (r *Realm) NewArgumentsObject(cfg ArgumentsConfig) *Object {
	o := NewObject(r.ObjectPrototype)
	o.Class = ClassArguments
	o.DefineProperty("length", &Property{Value: Num(float64(len(cfg.Args))), Writable: true, Configurable: true})
	for i, v := range cfg.Args {
		o.DefineProperty(strconv.Itoa(i), &Property{Value: v, Writable: true, Enumerable: true, Configurable: true})
	}

	if cfg.Strict {
		thrower := r.ThrowTypeError
		o.DefineProperty("caller", &Property{IsAccessor: true, Getter: thrower, Setter: thrower})
		o.DefineProperty("callee", &Property{IsAccessor: true, Getter: thrower, Setter: thrower})
		return o
	}

	mapped := make(map[string]bool)
	for i := len(cfg.Params) - 1; i >= 0; i-- {
		if i >= len(cfg.Args) {
			continue
		}
		name := cfg.Params[i]
		if mapped[name] {
			continue
		}
		mapped[name] = true
		if o.argMap == nil {
			o.argMap = make(map[string]argBinding)
		}
		o.argMap[strconv.Itoa(i)] = argBinding{env: cfg.Env, name: name}
	}
	o.DefineProperty("callee", &Property{Value: ObjectValue(cfg.Callee), Writable: true, Configurable: true})
	return o
}

func (o *Object) defineArgumentsOwnProperty(key string, desc PropertyDescriptor, throw bool) (bool, error) {
	b, isMapped := o.argMap[key]
	ok, err := o.defineOrdinaryOwnProperty(key, desc, false)
	if err != nil {
		return false, err
	}
	if !ok {
		return typeErrorResult(throw, "cannot redefine property: %s", key)
	}
	if isMapped {
		if desc.IsAccessor() {
			delete(o.argMap, key)
		} else {
			if desc.HasValue {
				if err := b.set(desc.Value); err != nil {
					return false, err
				}
			}
			if desc.Writable.IsSet() && !desc.Writable.Bool() {
				delete(o.argMap, key)
			}
		}
	}
	return true, nil
}
