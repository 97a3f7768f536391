package eval

import (
	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/builtin"
	"github.com/xvandervort/graphoid/pkg/value"
)

var listMethodNames = unionOf(setOf(
	"append", "append!", "len", "length", "at", "first", "last", "slice",
	"map", "filter", "reduce", "each", "remove", "remove!", "insert", "insert!",
	"reverse", "reverse!", "sort", "sort!", "index_of", "contains?", "join",
	"to_json", "to_yaml", "clone",
), ruleBehaviorMethodNames)

// callListMethod implements this design's collection-operations
// contract for the List variant: pure methods return a new value,
// `!`-suffixed methods mutate in place.
func (e *Evaluator) callListMethod(recv value.Value, name string, args []value.Value, p gerr.Position) (value.Value, error) {
	l := recv.List
	switch name {
	// append mutates the receiver and returns it; the `!` spelling is an
	// alias. Unlike the other pure/`!` pairs, a handle appended through
	// must show the new element afterwards (the same persistence contract
	// graph methods keep for self).
	case "append", "append!":
		if err := argCount(args, 1, name, p); err != nil {
			return value.Value{}, err
		}
		if err := l.AppendInPlace(args[0]); err != nil {
			return value.Value{}, err
		}
		return recv, nil
	case "len", "length":
		return value.Num(float64(l.Len())), nil
	case "at":
		i, err := argNumber(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		return l.At(int(i))
	case "first":
		if l.Len() == 0 {
			return value.None(), nil
		}
		return l.At(0)
	case "last":
		if l.Len() == 0 {
			return value.None(), nil
		}
		return l.At(l.Len() - 1)
	case "slice":
		from, to := 0, l.Len()
		if len(args) > 0 {
			from = int(args[0].Num)
		}
		if len(args) > 1 {
			to = int(args[1].Num)
		}
		return value.FromList(l.Slice(from, to)), nil
	case "map":
		return e.listMap(l, args, p)
	case "filter":
		return e.listFilter(l, args, p)
	case "reduce":
		return e.listReduce(l, args, p)
	case "each":
		return e.listEach(l, args, p)
	case "remove":
		i, err := argNumber(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		out := l.Clone()
		if err := out.RemoveAt(int(i)); err != nil {
			return value.Value{}, err
		}
		return value.FromList(out), nil
	case "remove!":
		i, err := argNumber(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		return recv, l.RemoveAt(int(i))
	case "insert":
		if err := argCount(args, 2, name, p); err != nil {
			return value.Value{}, err
		}
		i, err := argNumber(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		out := l.Clone()
		if err := out.InsertAt(int(i), args[1]); err != nil {
			return value.Value{}, err
		}
		return value.FromList(out), nil
	case "insert!":
		if err := argCount(args, 2, name, p); err != nil {
			return value.Value{}, err
		}
		i, err := argNumber(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		return recv, l.InsertAt(int(i), args[1])
	case "reverse":
		elems := l.Elements()
		out := make([]value.Value, len(elems))
		for i, v := range elems {
			out[len(elems)-1-i] = v
		}
		return value.FromList(value.NewList(out)), nil
	case "reverse!":
		elems := l.Elements()
		out := make([]value.Value, len(elems))
		for i, v := range elems {
			out[len(elems)-1-i] = v
		}
		return recv, l.ReorderInPlace(out)
	case "sort":
		return e.listSort(l, args, p)
	case "sort!":
		sorted, err := e.listSort(l, args, p)
		if err != nil {
			return value.Value{}, err
		}
		return recv, l.ReorderInPlace(sorted.List.Elements())
	case "index_of":
		if err := argCount(args, 1, name, p); err != nil {
			return value.Value{}, err
		}
		for i, v := range l.Elements() {
			if value.Equals(v, args[0]) {
				return value.Num(float64(i)), nil
			}
		}
		return value.None(), nil
	case "contains?":
		if err := argCount(args, 1, name, p); err != nil {
			return value.Value{}, err
		}
		for _, v := range l.Elements() {
			if value.Equals(v, args[0]) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case "join":
		sep := ""
		if len(args) > 0 {
			sep = args[0].Str
		}
		strs := make([]string, l.Len())
		for i, v := range l.Elements() {
			strs[i] = value.Display(v)
		}
		return value.Str(builtin.Join(strs, sep)), nil
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
		return value.FromList(l.Clone()), nil
	case "add_behavior":
		return e.listAddBehavior(l, args, p)
	case "add_rule":
		v, err := e.graphAddRule(l.Underlying(), args, p)
		// A Clean-policy install may have removed violating nodes behind
		// the handle's back.
		l.Compact()
		return v, err
	default:
		if v, ok, err := e.dispatchRuleOrBehavior(l.Underlying(), name, args, p); ok {
			return v, err
		}
		return value.Value{}, gerr.New(gerr.NameError, p, "list has no method %q", name)
	}
}

// listAddBehavior installs a behavior onto a list the same way
// graphAddBehavior does, with one addition: when the behavior being
// installed is `:ordering(cmp)`/`:maintain_order`, the list's existing
// elements are stably re-sorted by cmp as part of installation, per
// this design's ordering-behavior contract — graphAddBehavior alone
// only wires the comparator for future inserts, since a plain *Graph
// has no "next"-chain concept of its own to resort.
func (e *Evaluator) listAddBehavior(l *value.List, args []value.Value, p gerr.Position) (value.Value, error) {
	spec, retro, orderCmp, err := e.resolveBehavior(args, p)
	if err != nil {
		return value.Value{}, err
	}
	g := l.Underlying()
	if err := g.AddBehavior(&value.BehaviorInstance{Spec: spec, Retro: retro}); err != nil {
		return value.Value{}, err
	}
	if orderCmp != nil {
		g.OrderCmp = orderCmp
		if err := l.StableReorder(orderCmp); err != nil {
			return value.Value{}, err
		}
	}
	return value.None(), nil
}

func argCount(args []value.Value, n int, name string, p gerr.Position) error {
	if len(args) < n {
		return gerr.New(gerr.TypeError, p, "%s requires %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

// resolveUnaryCallable turns a map/filter/reduce/each argument — a
// Function value or a named-transform symbol/string
// — into a plain Go func.
func (e *Evaluator) resolveUnaryCallable(arg value.Value, p gerr.Position) (func(value.Value) (value.Value, error), error) {
	switch arg.Kind {
	case value.KindFunction:
		fn := arg
		return func(v value.Value) (value.Value, error) { return e.Call(fn, []value.Value{v}) }, nil
	case value.KindSymbol, value.KindString:
		t, ok := builtin.NamedTransform(arg.Str)
		if !ok {
			return nil, gerr.New(gerr.RuntimeError, p, "unknown named transform %q", arg.Str)
		}
		return t, nil
	default:
		return nil, gerr.New(gerr.TypeError, p, "expected a function or named transform, got %s", value.TypeName(arg))
	}
}

func (e *Evaluator) listMap(l *value.List, args []value.Value, p gerr.Position) (value.Value, error) {
	if err := argCount(args, 1, "map", p); err != nil {
		return value.Value{}, err
	}
	f, err := e.resolveUnaryCallable(args[0], p)
	if err != nil {
		return value.Value{}, err
	}
	elems := l.Elements()
	out := make([]value.Value, len(elems))
	for i, v := range elems {
		r, err := f(v)
		if err != nil {
			return value.Value{}, err
		}
		out[i] = r
	}
	return value.FromList(value.NewList(out)), nil
}

func (e *Evaluator) listFilter(l *value.List, args []value.Value, p gerr.Position) (value.Value, error) {
	if err := argCount(args, 1, "filter", p); err != nil {
		return value.Value{}, err
	}
	f, err := e.resolveUnaryCallable(args[0], p)
	if err != nil {
		return value.Value{}, err
	}
	var out []value.Value
	for _, v := range l.Elements() {
		r, err := f(v)
		if err != nil {
			return value.Value{}, err
		}
		if r.Truthy() {
			out = append(out, v)
		}
	}
	return value.FromList(value.NewList(out)), nil
}

func (e *Evaluator) listEach(l *value.List, args []value.Value, p gerr.Position) (value.Value, error) {
	if err := argCount(args, 1, "each", p); err != nil {
		return value.Value{}, err
	}
	f, err := e.resolveUnaryCallable(args[0], p)
	if err != nil {
		return value.Value{}, err
	}
	for _, v := range l.Elements() {
		if _, err := f(v); err != nil {
			return value.Value{}, err
		}
	}
	return value.None(), nil
}

// listReduce implements `reduce(fn, init)`; fn is called as
// fn(accumulator, element) when it's a real Function, or applied
// element-wise (ignoring the accumulator) when it names a registry
// transform — the registry only holds unary transforms.
func (e *Evaluator) listReduce(l *value.List, args []value.Value, p gerr.Position) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, gerr.New(gerr.TypeError, p, "reduce requires a function and an initial value")
	}
	acc := value.None()
	if len(args) > 1 {
		acc = args[1]
	}
	if args[0].Kind == value.KindFunction {
		fn := args[0]
		for _, v := range l.Elements() {
			r, err := e.Call(fn, []value.Value{acc, v})
			if err != nil {
				return value.Value{}, err
			}
			acc = r
		}
		return acc, nil
	}
	f, err := e.resolveUnaryCallable(args[0], p)
	if err != nil {
		return value.Value{}, err
	}
	for _, v := range l.Elements() {
		r, err := f(v)
		if err != nil {
			return value.Value{}, err
		}
		acc = r
	}
	return acc, nil
}

func (e *Evaluator) listSort(l *value.List, args []value.Value, p gerr.Position) (value.Value, error) {
	elems := append([]value.Value(nil), l.Elements()...)
	if len(args) == 0 {
		sortByLess(elems, value.Less)
		return value.FromList(value.NewList(elems)), nil
	}
	fn := args[0]
	var sortErr error
	sortByLess(elems, func(a, b value.Value) bool {
		if sortErr != nil {
			return false
		}
		r, err := e.Call(fn, []value.Value{a, b})
		if err != nil {
			sortErr = err
			return false
		}
		return r.Truthy()
	})
	if sortErr != nil {
		return value.Value{}, sortErr
	}
	return value.FromList(value.NewList(elems)), nil
}

func sortByLess(elems []value.Value, less func(a, b value.Value) bool) {
	for i := 1; i < len(elems); i++ {
		for j := i; j > 0 && less(elems[j], elems[j-1]); j-- {
			elems[j], elems[j-1] = elems[j-1], elems[j]
		}
	}
}
