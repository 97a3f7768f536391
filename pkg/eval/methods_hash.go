package eval

import (
	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/builtin"
	"github.com/xvandervort/graphoid/pkg/value"
)

var hashMethodNames = unionOf(setOf(
	"len", "length", "keys", "values", "has_key?", "get", "set", "set!",
	"delete", "delete!", "merge", "diff", "each", "map", "filter",
	"to_json", "to_yaml", "clone",
), ruleBehaviorMethodNames)

// callHashMethod implements this design's collection-operations
// contract for the Hash variant, mirroring callListMethod's pure-vs-`!`
// convention.
func (e *Evaluator) callHashMethod(recv value.Value, name string, args []value.Value, p gerr.Position) (value.Value, error) {
	h := recv.Hash
	switch name {
	case "len", "length":
		return value.Num(float64(h.Len())), nil
	case "keys":
		keys := h.Keys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			out[i] = value.Str(k)
		}
		return value.FromList(value.NewList(out)), nil
	case "values":
		keys := h.Keys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			v, _ := h.Get(k)
			out[i] = v
		}
		return value.FromList(value.NewList(out)), nil
	case "has_key?":
		k, err := argString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		_, ok := h.Get(k)
		return value.Bool(ok), nil
	case "get":
		k, err := argString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		v, ok := h.Get(k)
		if !ok {
			if len(args) > 1 {
				return args[1], nil
			}
			return value.None(), nil
		}
		return v, nil
	case "set":
		k, err := argString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		if err := argCount(args, 2, name, p); err != nil {
			return value.Value{}, err
		}
		out := h.Clone()
		if _, err := out.Set(k, args[1]); err != nil {
			return value.Value{}, err
		}
		return value.FromHash(out), nil
	case "set!":
		k, err := argString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		if err := argCount(args, 2, name, p); err != nil {
			return value.Value{}, err
		}
		if _, err := h.Set(k, args[1]); err != nil {
			return value.Value{}, err
		}
		return recv, nil
	case "delete":
		k, err := argString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		out := h.Clone()
		if err := out.Delete(k); err != nil {
			return value.Value{}, err
		}
		return value.FromHash(out), nil
	case "delete!":
		k, err := argString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		return recv, h.Delete(k)
	case "merge":
		if len(args) == 0 || args[0].Kind != value.KindHash {
			return value.Value{}, gerr.New(gerr.TypeError, p, "merge() requires a hash argument")
		}
		return value.FromHash(h.Merge(args[0].Hash)), nil
	case "diff":
		if len(args) == 0 || args[0].Kind != value.KindHash {
			return value.Value{}, gerr.New(gerr.TypeError, p, "diff() requires a hash argument")
		}
		return value.FromHash(builtin.HashDiff(h, args[0].Hash)), nil
	case "each":
		return e.hashEach(h, args, p)
	case "map":
		return e.hashMap(h, args, p)
	case "filter":
		return e.hashFilter(h, args, p)
	case "to_json":
		s, err := builtin.ToJSON(recv)
		if err != nil {
			return value.Value{}, gerr.Wrap(gerr.RuntimeError, p, err, "to_json")
		}
		return value.Str(s), nil
	case "to_yaml":
		s, err := builtin.ToYAML(recv)
		if err != nil {
			return value.Value{}, gerr.Wrap(gerr.RuntimeError, p, err, "to_yaml")
		}
		return value.Str(s), nil
	case "clone":
		return value.FromHash(h.Clone()), nil
	default:
		if v, ok, err := e.dispatchRuleOrBehavior(h.Underlying(), name, args, p); ok {
			return v, err
		}
		return value.Value{}, gerr.New(gerr.NameError, p, "hash has no method %q", name)
	}
}

// pairCallable turns a map/filter/each argument into a Go func taking
// the (key, value) pair as a two-element list, the shape a Function
// Value receives it in (this design doesn't name a hash-specific
// calling convention, so this follows the list registry's unary-value
// idiom, wrapping key/value into one argument).
func (e *Evaluator) pairCallable(arg value.Value, p gerr.Position) (func(k string, v value.Value) (value.Value, error), error) {
	if arg.Kind != value.KindFunction {
		return nil, gerr.New(gerr.TypeError, p, "expected a function, got %s", value.TypeName(arg))
	}
	fn := arg
	return func(k string, v value.Value) (value.Value, error) {
		return e.Call(fn, []value.Value{value.Str(k), v})
	}, nil
}

func (e *Evaluator) hashEach(h *value.Hash, args []value.Value, p gerr.Position) (value.Value, error) {
	if len(args) == 0 {
		return value.Value{}, gerr.New(gerr.TypeError, p, "each() requires a function")
	}
	f, err := e.pairCallable(args[0], p)
	if err != nil {
		return value.Value{}, err
	}
	for _, k := range h.Keys() {
		v, _ := h.Get(k)
		if _, err := f(k, v); err != nil {
			return value.Value{}, err
		}
	}
	return value.None(), nil
}

func (e *Evaluator) hashMap(h *value.Hash, args []value.Value, p gerr.Position) (value.Value, error) {
	if len(args) == 0 {
		return value.Value{}, gerr.New(gerr.TypeError, p, "map() requires a function")
	}
	f, err := e.pairCallable(args[0], p)
	if err != nil {
		return value.Value{}, err
	}
	out := value.NewHash(nil)
	for _, k := range h.Keys() {
		v, _ := h.Get(k)
		r, err := f(k, v)
		if err != nil {
			return value.Value{}, err
		}
		if _, err := out.Set(k, r); err != nil {
			return value.Value{}, err
		}
	}
	return value.FromHash(out), nil
}

func (e *Evaluator) hashFilter(h *value.Hash, args []value.Value, p gerr.Position) (value.Value, error) {
	if len(args) == 0 {
		return value.Value{}, gerr.New(gerr.TypeError, p, "filter() requires a function")
	}
	f, err := e.pairCallable(args[0], p)
	if err != nil {
		return value.Value{}, err
	}
	out := value.NewHash(nil)
	for _, k := range h.Keys() {
		v, _ := h.Get(k)
		r, err := f(k, v)
		if err != nil {
			return value.Value{}, err
		}
		if r.Truthy() {
			if _, err := out.Set(k, v); err != nil {
				return value.Value{}, err
			}
		}
	}
	return value.FromHash(out), nil
}
