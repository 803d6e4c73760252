package builtins

import (
	"math"
	"slices"
	"strings"

	"github.com/example/es5go/runtime"
)

func (r *registry) createArrayConstructor() *runtime.Object {
	proto := r.realm.ArrayPrototype

	r.setMethod(proto, "toString", 0, r.arrayToString)
	r.setMethod(proto, "toLocaleString", 0, r.arrayToLocaleString)
	r.setMethod(proto, "join", 1, r.arrayJoin)
	r.setMethod(proto, "push", 1, r.arrayPush)
	r.setMethod(proto, "pop", 0, r.arrayPop)
	r.setMethod(proto, "shift", 0, r.arrayShift)
	r.setMethod(proto, "unshift", 1, r.arrayUnshift)
	r.setMethod(proto, "slice", 2, r.arraySlice)
	r.setMethod(proto, "splice", 2, r.arraySplice)
	r.setMethod(proto, "concat", 1, r.arrayConcat)
	r.setMethod(proto, "reverse", 0, r.arrayReverse)
	r.setMethod(proto, "sort", 1, r.arraySort)
	r.setMethod(proto, "indexOf", 1, r.arrayIndexOf)
	r.setMethod(proto, "lastIndexOf", 1, r.arrayLastIndexOf)
	r.setMethod(proto, "every", 1, r.arrayEvery)
	r.setMethod(proto, "some", 1, r.arraySome)
	r.setMethod(proto, "forEach", 1, r.arrayForEach)
	r.setMethod(proto, "map", 1, r.arrayMap)
	r.setMethod(proto, "filter", 1, r.arrayFilter)
	r.setMethod(proto, "reduce", 1, r.arrayReduce)
	r.setMethod(proto, "reduceRight", 1, r.arrayReduceRight)

	ctor := r.newFuncObject("Array", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return r.arrayConstruct(args)
	})
	ctor.Constructor = r.arrayConstruct
	r.setMethod(ctor, "isArray", 1, arrayIsArray)

	linkConstructor(ctor, proto)
	return ctor
}

// arrayConstruct treats a single numeric argument as the length.
func (r *registry) arrayConstruct(args []runtime.Value) (runtime.Value, error) {
	if len(args) == 1 && args[0].IsNumber() {
		n := args[0].AsNumber()
		if n < 0 || n != math.Trunc(n) || n > math.MaxUint32 {
			return runtime.Undefined, runtime.NewRangeError("invalid array length")
		}
		arr := r.realm.NewArray(nil)
		if err := arr.Put("length", args[0], true); err != nil {
			return runtime.Undefined, err
		}
		return runtime.ObjectValue(arr), nil
	}
	return runtime.ObjectValue(r.realm.NewArray(append([]runtime.Value(nil), args...))), nil
}

func arrayIsArray(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Bool(isClass(argAt(args, 0), runtime.ClassArray)), nil
}

// arrayLike is the this object of an Array.prototype method together with
// its length, read once on entry.
func (r *registry) arrayLike(this runtime.Value, method string) (*runtime.Object, int64, error) {
	obj, err := r.thisObject(this, "Array.prototype."+method)
	if err != nil {
		return nil, 0, err
	}
	n, err := lengthOf(obj)
	if err != nil {
		return nil, 0, err
	}
	return obj, n, nil
}

func setLength(obj *runtime.Object, n int64) error {
	return obj.Put("length", runtime.Num(float64(n)), true)
}

// move copies element from to index to, deleting the target when the
// source is a hole.
func move(obj *runtime.Object, from, to int64) error {
	fromKey, toKey := indexKey(from), indexKey(to)
	if !obj.HasProperty(fromKey) {
		_, err := obj.Delete(toKey, true)
		return err
	}
	v, err := obj.Get(fromKey)
	if err != nil {
		return err
	}
	return obj.Put(toKey, v, true)
}

func (r *registry) arrayToString(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	obj, err := r.thisObject(this, "Array.prototype.toString")
	if err != nil {
		return runtime.Undefined, err
	}
	join, err := obj.Get("join")
	if err != nil {
		return runtime.Undefined, err
	}
	if !join.IsCallable() {
		return objectProtoToString(runtime.ObjectValue(obj), nil)
	}
	return join.AsObject().Call(runtime.ObjectValue(obj), nil)
}

func (r *registry) arrayToLocaleString(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "toLocaleString")
	if err != nil {
		return runtime.Undefined, err
	}
	if r.joining[obj] {
		return runtime.EmptyString, nil
	}
	r.joining[obj] = true
	defer delete(r.joining, obj)
	parts := make([]string, n)
	for i := range parts {
		v, err := obj.Get(indexKey(int64(i)))
		if err != nil {
			return runtime.Undefined, err
		}
		if v.IsNullish() {
			continue
		}
		elem, err := r.realm.ToObject(v)
		if err != nil {
			return runtime.Undefined, err
		}
		fn, err := elem.Get("toLocaleString")
		if err != nil {
			return runtime.Undefined, err
		}
		toLocale, err := callableArg(fn, "toLocaleString")
		if err != nil {
			return runtime.Undefined, err
		}
		s, err := toLocale.Call(runtime.ObjectValue(elem), nil)
		if err != nil {
			return runtime.Undefined, err
		}
		if parts[i], err = runtime.ToString(s); err != nil {
			return runtime.Undefined, err
		}
	}
	return runtime.Str(strings.Join(parts, ",")), nil
}

func (r *registry) arrayJoin(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "join")
	if err != nil {
		return runtime.Undefined, err
	}
	if r.joining[obj] {
		return runtime.EmptyString, nil
	}
	r.joining[obj] = true
	defer delete(r.joining, obj)
	sep := ","
	if s := argAt(args, 0); !s.IsUndefined() {
		if sep, err = runtime.ToString(s); err != nil {
			return runtime.Undefined, err
		}
	}
	var b strings.Builder
	for i := int64(0); i < n; i++ {
		if i > 0 {
			b.WriteString(sep)
		}
		v, err := obj.Get(indexKey(i))
		if err != nil {
			return runtime.Undefined, err
		}
		if v.IsNullish() {
			continue
		}
		s, err := runtime.ToString(v)
		if err != nil {
			return runtime.Undefined, err
		}
		b.WriteString(s)
	}
	return runtime.Str(b.String()), nil
}

func (r *registry) arrayPush(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "push")
	if err != nil {
		return runtime.Undefined, err
	}
	for _, v := range args {
		if err := obj.Put(indexKey(n), v, true); err != nil {
			return runtime.Undefined, err
		}
		n++
	}
	if err := setLength(obj, n); err != nil {
		return runtime.Undefined, err
	}
	return runtime.Num(float64(n)), nil
}

func (r *registry) arrayPop(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "pop")
	if err != nil {
		return runtime.Undefined, err
	}
	if n == 0 {
		return runtime.Undefined, setLength(obj, 0)
	}
	key := indexKey(n - 1)
	v, err := obj.Get(key)
	if err != nil {
		return runtime.Undefined, err
	}
	if _, err := obj.Delete(key, true); err != nil {
		return runtime.Undefined, err
	}
	return v, setLength(obj, n-1)
}

func (r *registry) arrayShift(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "shift")
	if err != nil {
		return runtime.Undefined, err
	}
	if n == 0 {
		return runtime.Undefined, setLength(obj, 0)
	}
	first, err := obj.Get("0")
	if err != nil {
		return runtime.Undefined, err
	}
	for k := int64(1); k < n; k++ {
		if err := move(obj, k, k-1); err != nil {
			return runtime.Undefined, err
		}
	}
	if _, err := obj.Delete(indexKey(n-1), true); err != nil {
		return runtime.Undefined, err
	}
	return first, setLength(obj, n-1)
}

func (r *registry) arrayUnshift(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "unshift")
	if err != nil {
		return runtime.Undefined, err
	}
	argc := int64(len(args))
	for k := n; k > 0; k-- {
		if err := move(obj, k-1, k+argc-1); err != nil {
			return runtime.Undefined, err
		}
	}
	for j, v := range args {
		if err := obj.Put(indexKey(int64(j)), v, true); err != nil {
			return runtime.Undefined, err
		}
	}
	if err := setLength(obj, n+argc); err != nil {
		return runtime.Undefined, err
	}
	return runtime.Num(float64(n + argc)), nil
}

func (r *registry) arraySlice(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "slice")
	if err != nil {
		return runtime.Undefined, err
	}
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
	k, final := relativeIndex(start, n), relativeIndex(end, n)

	result := r.realm.NewArray(nil)
	var idx int64
	for ; k < final; k, idx = k+1, idx+1 {
		key := indexKey(k)
		if !obj.HasProperty(key) {
			continue
		}
		v, err := obj.Get(key)
		if err != nil {
			return runtime.Undefined, err
		}
		result.DefineOwnProperty(indexKey(idx), runtime.DataDescriptor(v, true, true, true), false)
	}
	if err := setLength(result, idx); err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(result), nil
}

func (r *registry) arraySplice(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "splice")
	if err != nil {
		return runtime.Undefined, err
	}
	relStart, err := toIntegerArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	start := relativeIndex(relStart, n)
	var deleteCount int64
	switch {
	case len(args) == 0:
	case len(args) == 1:
		deleteCount = n - start
	default:
		dc, err := runtime.ToInteger(args[1])
		if err != nil {
			return runtime.Undefined, err
		}
		deleteCount = int64(math.Min(math.Max(dc, 0), float64(n-start)))
	}
	var items []runtime.Value
	if len(args) > 2 {
		items = args[2:]
	}

	removed := r.realm.NewArray(nil)
	for k := int64(0); k < deleteCount; k++ {
		key := indexKey(start + k)
		if !obj.HasProperty(key) {
			continue
		}
		v, err := obj.Get(key)
		if err != nil {
			return runtime.Undefined, err
		}
		removed.DefineOwnProperty(indexKey(k), runtime.DataDescriptor(v, true, true, true), false)
	}
	if err := setLength(removed, deleteCount); err != nil {
		return runtime.Undefined, err
	}

	itemCount := int64(len(items))
	switch {
	case itemCount < deleteCount:
		for k := start; k < n-deleteCount; k++ {
			if err := move(obj, k+deleteCount, k+itemCount); err != nil {
				return runtime.Undefined, err
			}
		}
		for k := n; k > n-deleteCount+itemCount; k-- {
			if _, err := obj.Delete(indexKey(k-1), true); err != nil {
				return runtime.Undefined, err
			}
		}
	case itemCount > deleteCount:
		for k := n - deleteCount; k > start; k-- {
			if err := move(obj, k+deleteCount-1, k+itemCount-1); err != nil {
				return runtime.Undefined, err
			}
		}
	}
	for i, v := range items {
		if err := obj.Put(indexKey(start+int64(i)), v, true); err != nil {
			return runtime.Undefined, err
		}
	}
	if err := setLength(obj, n-deleteCount+itemCount); err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(removed), nil
}

func (r *registry) arrayConcat(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, err := r.thisObject(this, "Array.prototype.concat")
	if err != nil {
		return runtime.Undefined, err
	}
	result := r.realm.NewArray(nil)
	var n int64
	items := append([]runtime.Value{runtime.ObjectValue(obj)}, args...)
	for _, item := range items {
		if !isClass(item, runtime.ClassArray) {
			result.DefineOwnProperty(indexKey(n), runtime.DataDescriptor(item, true, true, true), false)
			n++
			continue
		}
		src := item.AsObject()
		length, err := lengthOf(src)
		if err != nil {
			return runtime.Undefined, err
		}
		for k := int64(0); k < length; k, n = k+1, n+1 {
			key := indexKey(k)
			if !src.HasProperty(key) {
				continue
			}
			v, err := src.Get(key)
			if err != nil {
				return runtime.Undefined, err
			}
			result.DefineOwnProperty(indexKey(n), runtime.DataDescriptor(v, true, true, true), false)
		}
	}
	if err := setLength(result, n); err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(result), nil
}

func (r *registry) arrayReverse(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "reverse")
	if err != nil {
		return runtime.Undefined, err
	}
	for lower := int64(0); lower < n/2; lower++ {
		upper := n - lower - 1
		lowerKey, upperKey := indexKey(lower), indexKey(upper)
		lowerExists, upperExists := obj.HasProperty(lowerKey), obj.HasProperty(upperKey)
		lowerVal, err := obj.Get(lowerKey)
		if err != nil {
			return runtime.Undefined, err
		}
		upperVal, err := obj.Get(upperKey)
		if err != nil {
			return runtime.Undefined, err
		}
		if err := swapSlot(obj, lowerKey, upperVal, upperExists); err != nil {
			return runtime.Undefined, err
		}
		if err := swapSlot(obj, upperKey, lowerVal, lowerExists); err != nil {
			return runtime.Undefined, err
		}
	}
	return runtime.ObjectValue(obj), nil
}

func swapSlot(obj *runtime.Object, key string, v runtime.Value, exists bool) error {
	if exists {
		return obj.Put(key, v, true)
	}
	_, err := obj.Delete(key, true)
	return err
}

// arraySort sorts stably. Holes sort after undefined, which sorts after
// every other value; the comparator only sees defined values.
func (r *registry) arraySort(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "sort")
	if err != nil {
		return runtime.Undefined, err
	}
	comparefn := argAt(args, 0)
	if !comparefn.IsUndefined() && !comparefn.IsCallable() {
		return runtime.Undefined, runtime.NewTypeError("the comparison function must be either a function or undefined")
	}

	var values []runtime.Value
	var undefineds int64
	for k := int64(0); k < n; k++ {
		key := indexKey(k)
		if !obj.HasProperty(key) {
			continue
		}
		v, err := obj.Get(key)
		if err != nil {
			return runtime.Undefined, err
		}
		if v.IsUndefined() {
			undefineds++
			continue
		}
		values = append(values, v)
	}

	var sortErr error
	slices.SortStableFunc(values, func(x, y runtime.Value) int {
		if sortErr != nil {
			return 0
		}
		c, err := compareForSort(comparefn, x, y)
		if err != nil {
			sortErr = err
		}
		return c
	})
	if sortErr != nil {
		return runtime.Undefined, sortErr
	}

	var k int64
	for _, v := range values {
		if err := obj.Put(indexKey(k), v, true); err != nil {
			return runtime.Undefined, err
		}
		k++
	}
	for ; undefineds > 0; undefineds-- {
		if err := obj.Put(indexKey(k), runtime.Undefined, true); err != nil {
			return runtime.Undefined, err
		}
		k++
	}
	for ; k < n; k++ {
		if _, err := obj.Delete(indexKey(k), true); err != nil {
			return runtime.Undefined, err
		}
	}
	return runtime.ObjectValue(obj), nil
}

func compareForSort(comparefn, x, y runtime.Value) (int, error) {
	if comparefn.IsUndefined() {
		xs, err := runtime.ToString(x)
		if err != nil {
			return 0, err
		}
		ys, err := runtime.ToString(y)
		if err != nil {
			return 0, err
		}
		return runtime.CompareStrings(xs, ys), nil
	}
	v, err := comparefn.AsObject().Call(runtime.Undefined, []runtime.Value{x, y})
	if err != nil {
		return 0, err
	}
	f, err := runtime.ToNumber(v)
	switch {
	case err != nil:
		return 0, err
	case f < 0:
		return -1, nil
	case f > 0:
		return 1, nil
	}
	return 0, nil
}

func (r *registry) arrayIndexOf(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "indexOf")
	if err != nil {
		return runtime.Undefined, err
	}
	if n == 0 {
		return runtime.Num(-1), nil
	}
	from, err := toIntegerArg(args, 1)
	if err != nil {
		return runtime.Undefined, err
	}
	if from >= float64(n) {
		return runtime.Num(-1), nil
	}
	target := argAt(args, 0)
	for k := relativeIndex(from, n); k < n; k++ {
		key := indexKey(k)
		if !obj.HasProperty(key) {
			continue
		}
		v, err := obj.Get(key)
		if err != nil {
			return runtime.Undefined, err
		}
		if runtime.StrictEqual(target, v) {
			return runtime.Num(float64(k)), nil
		}
	}
	return runtime.Num(-1), nil
}

func (r *registry) arrayLastIndexOf(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "lastIndexOf")
	if err != nil {
		return runtime.Undefined, err
	}
	if n == 0 {
		return runtime.Num(-1), nil
	}
	from := float64(n - 1)
	if len(args) > 1 {
		if from, err = runtime.ToInteger(args[1]); err != nil {
			return runtime.Undefined, err
		}
	}
	var k int64
	if from >= 0 {
		k = int64(math.Min(from, float64(n-1)))
	} else {
		k = n + int64(from)
	}
	target := argAt(args, 0)
	for ; k >= 0; k-- {
		key := indexKey(k)
		if !obj.HasProperty(key) {
			continue
		}
		v, err := obj.Get(key)
		if err != nil {
			return runtime.Undefined, err
		}
		if runtime.StrictEqual(target, v) {
			return runtime.Num(float64(k)), nil
		}
	}
	return runtime.Num(-1), nil
}

// iterate calls fn with each present element below the initial length and
// the callback's result for it, in index order, until fn asks to stop.
func iterate(obj *runtime.Object, n int64, args []runtime.Value, method string,
	fn func(k int64, v, result runtime.Value) (stop bool, err error)) error {
	callback, err := callableArg(argAt(args, 0), "Array.prototype."+method+" callback")
	if err != nil {
		return err
	}
	thisArg := argAt(args, 1)
	for k := int64(0); k < n; k++ {
		key := indexKey(k)
		if !obj.HasProperty(key) {
			continue
		}
		v, err := obj.Get(key)
		if err != nil {
			return err
		}
		result, err := callback.Call(thisArg, []runtime.Value{v, runtime.Num(float64(k)), runtime.ObjectValue(obj)})
		if err != nil {
			return err
		}
		stop, err := fn(k, v, result)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

func (r *registry) arrayEvery(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "every")
	if err != nil {
		return runtime.Undefined, err
	}
	all := true
	err = iterate(obj, n, args, "every", func(_ int64, _, result runtime.Value) (bool, error) {
		all = runtime.ToBoolean(result)
		return !all, nil
	})
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Bool(all), nil
}

func (r *registry) arraySome(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "some")
	if err != nil {
		return runtime.Undefined, err
	}
	found := false
	err = iterate(obj, n, args, "some", func(_ int64, _, result runtime.Value) (bool, error) {
		found = runtime.ToBoolean(result)
		return found, nil
	})
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Bool(found), nil
}

func (r *registry) arrayForEach(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "forEach")
	if err != nil {
		return runtime.Undefined, err
	}
	err = iterate(obj, n, args, "forEach", func(int64, runtime.Value, runtime.Value) (bool, error) {
		return false, nil
	})
	return runtime.Undefined, err
}

func (r *registry) arrayMap(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "map")
	if err != nil {
		return runtime.Undefined, err
	}
	result := r.realm.NewArray(nil)
	if err := setLength(result, n); err != nil {
		return runtime.Undefined, err
	}
	err = iterate(obj, n, args, "map", func(k int64, _, mapped runtime.Value) (bool, error) {
		_, err := result.DefineOwnProperty(indexKey(k), runtime.DataDescriptor(mapped, true, true, true), true)
		return false, err
	})
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(result), nil
}

func (r *registry) arrayFilter(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, "filter")
	if err != nil {
		return runtime.Undefined, err
	}
	var kept []runtime.Value
	err = iterate(obj, n, args, "filter", func(_ int64, v, result runtime.Value) (bool, error) {
		if runtime.ToBoolean(result) {
			kept = append(kept, v)
		}
		return false, nil
	})
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(r.realm.NewArray(kept)), nil
}

func (r *registry) arrayReduce(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return r.reduce(this, args, "reduce", false)
}

func (r *registry) arrayReduceRight(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return r.reduce(this, args, "reduceRight", true)
}

func (r *registry) reduce(this runtime.Value, args []runtime.Value, method string, fromRight bool) (runtime.Value, error) {
	obj, n, err := r.arrayLike(this, method)
	if err != nil {
		return runtime.Undefined, err
	}
	callback, err := callableArg(argAt(args, 0), "Array.prototype."+method+" callback")
	if err != nil {
		return runtime.Undefined, err
	}

	k, step := int64(0), int64(1)
	if fromRight {
		k, step = n-1, -1
	}
	inRange := func(k int64) bool { return k >= 0 && k < n }

	var acc runtime.Value
	if len(args) >= 2 {
		acc = args[1]
	} else {
		found := false
		for ; inRange(k) && !found; k += step {
			key := indexKey(k)
			if obj.HasProperty(key) {
				if acc, err = obj.Get(key); err != nil {
					return runtime.Undefined, err
				}
				found = true
			}
		}
		if !found {
			return runtime.Undefined, runtime.NewTypeError("reduce of empty array with no initial value")
		}
	}

	for ; inRange(k); k += step {
		key := indexKey(k)
		if !obj.HasProperty(key) {
			continue
		}
		v, err := obj.Get(key)
		if err != nil {
			return runtime.Undefined, err
		}
		acc, err = callback.Call(runtime.Undefined, []runtime.Value{acc, v, runtime.Num(float64(k)), runtime.ObjectValue(obj)})
		if err != nil {
			return runtime.Undefined, err
		}
	}
	return acc, nil
}
