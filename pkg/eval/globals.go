package eval

import (
	"fmt"
	"os"

	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/builtin"
	"github.com/xvandervort/graphoid/pkg/persist"
	"github.com/xvandervort/graphoid/pkg/value"
)

// registerGlobals binds the native functions this design's Built-ins row
// calls for (plus SPEC_FULL.md's supplemented conversions) into the
// evaluator's global scope. Every built-in here is a plain
// *value.Function of FnKind FnNative, the same shape a user-defined
// function value takes, so `responds_to?`-style introspection and
// higher-order passing (`list.each(print)`) work uniformly.
func registerGlobals(e *Evaluator) {
	define := func(name string, arity int, fn value.NativeFunc) {
		e.Global.Define(name, value.FromFunc(&value.Function{
			Kind: value.FnNative, Name: name, Native: fn, Arity: arity,
		}))
	}

	define("print", -1, nativePrint(e))
	define("len", 1, nativeLen)
	define("length", 1, nativeLen)
	define("type_of", 1, nativeTypeOf)
	define("range", 2, nativeRange)
	define("errors", 0, nativeErrors(e))

	define("to_json", 1, nativeToJSON)
	define("from_json", 1, nativeFromJSON)
	define("to_yaml", 1, nativeToYAML)
	define("from_yaml", 1, nativeFromYAML)

	define("secure_hash", 1, nativeSecureHash)

	define("upper", 1, nativeStringFn(builtin.Upper))
	define("lower", 1, nativeStringFn(builtin.Lower))
	define("trim", 1, nativeStringFn(builtin.Trim))
	define("join", 2, nativeJoin)

	define("save_graph", 2, nativeSaveGraph)
	define("load_graph", 1, nativeLoadGraph)

	define("read_file", 1, nativeReadFile)
	define("write_file", 2, nativeWriteFile)
}

// nativeReadFile reads a UTF-8 text file into a string.
func nativeReadFile(c value.Caller, args []value.Value) (value.Value, error) {
	path, err := argStringGlobal(args, 0, "read_file")
	if err != nil {
		return value.Value{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, gerr.Wrap(gerr.RuntimeError, gerr.Position{}, err, "read_file")
	}
	return value.Str(string(data)), nil
}

// nativeWriteFile writes a string to a file, replacing any existing
// contents.
func nativeWriteFile(c value.Caller, args []value.Value) (value.Value, error) {
	path, err := argStringGlobal(args, 0, "write_file")
	if err != nil {
		return value.Value{}, err
	}
	if len(args) < 2 {
		return value.Value{}, gerr.New(gerr.TypeError, gerr.Position{}, "write_file() requires (path, text)")
	}
	if err := os.WriteFile(path, []byte(value.Display(args[1])), 0o644); err != nil {
		return value.Value{}, gerr.Wrap(gerr.RuntimeError, gerr.Position{}, err, "write_file")
	}
	return value.Bool(true), nil
}

// nativeSaveGraph persists a Graph's data layer to an embedded Badger
// store at the given path.
func nativeSaveGraph(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind != value.KindGraph {
		return value.Value{}, gerr.New(gerr.TypeError, gerr.Position{}, "save_graph() requires (graph, path)")
	}
	path, err := argStringGlobal(args, 1, "save_graph")
	if err != nil {
		return value.Value{}, err
	}
	if err := persist.Save(args[0].Graph, path); err != nil {
		return value.Value{}, gerr.Wrap(gerr.RuntimeError, gerr.Position{}, err, "save_graph")
	}
	return value.Bool(true), nil
}

// nativeLoadGraph rebuilds a Graph's data layer from an embedded
// Badger store previously written by save_graph.
func nativeLoadGraph(c value.Caller, args []value.Value) (value.Value, error) {
	path, err := argStringGlobal(args, 0, "load_graph")
	if err != nil {
		return value.Value{}, err
	}
	g, err := persist.Load(path)
	if err != nil {
		return value.Value{}, gerr.Wrap(gerr.RuntimeError, gerr.Position{}, err, "load_graph")
	}
	return value.FromGraph(g), nil
}

// nativePrint writes Display(v) for every argument, space-separated,
// followed by a newline, to the evaluator's configured output stream
//. Returns none.
func nativePrint(e *Evaluator) value.NativeFunc {
	return func(c value.Caller, args []value.Value) (value.Value, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(e.Out, " ")
			}
			fmt.Fprint(e.Out, value.Display(a))
		}
		fmt.Fprintln(e.Out)
		return value.None(), nil
	}
}

// nativeRange builds the explicit numeric-iteration list: range(a, b)
// is [a, a+1, ..., b-1]. There is deliberately no `..` operator in the
// language; this built-in is the sanctioned replacement.
func nativeRange(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind != value.KindNumber || args[1].Kind != value.KindNumber {
		return value.Value{}, gerr.New(gerr.TypeError, gerr.Position{}, "range() requires (start, end) numbers")
	}
	start, end := int(args[0].Num), int(args[1].Num)
	var elems []value.Value
	for i := start; i < end; i++ {
		elems = append(elems, value.Num(float64(i)))
	}
	return value.FromList(value.NewList(elems)), nil
}

// nativeErrors exposes the error list a `configure { error_mode:
// :collect }` block accumulates, as a list of {message} hashes.
// Outside a collect block the list is empty.
func nativeErrors(e *Evaluator) value.NativeFunc {
	return func(c value.Caller, args []value.Value) (value.Value, error) {
		collected := e.curConfig().collected
		out := make([]value.Value, len(collected))
		for i, ce := range collected {
			h := value.NewHash(nil)
			_, _ = h.Set("message", value.Str(ce.message))
			out[i] = value.FromHash(h)
		}
		return value.FromList(value.NewList(out)), nil
	}
}

// nativeLen is the polymorphic length built-in over List, Hash, and
// String (this design's collection size query, generalized to a
// free function alongside the method forms).
func nativeLen(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, gerr.New(gerr.RuntimeError, gerr.Position{}, "len() takes exactly one argument")
	}
	switch v := args[0]; v.Kind {
	case value.KindList:
		return value.Num(float64(len(v.List.Elements()))), nil
	case value.KindHash:
		return value.Num(float64(len(v.Hash.Keys()))), nil
	case value.KindString:
		return value.Num(float64(len([]rune(v.Str)))), nil
	default:
		return value.Value{}, gerr.New(gerr.TypeError, gerr.Position{}, "len() does not support %s", v.Kind)
	}
}

// nativeTypeOf returns the Kind name of a value as a Symbol, used by
// user code for runtime type dispatch (this design's Kind column is
// otherwise invisible to source programs).
func nativeTypeOf(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, gerr.New(gerr.RuntimeError, gerr.Position{}, "type_of() takes exactly one argument")
	}
	return value.Value{Kind: value.KindSymbol, Str: args[0].Kind.String()}, nil
}

func nativeToJSON(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, gerr.New(gerr.RuntimeError, gerr.Position{}, "to_json() takes exactly one argument")
	}
	s, err := builtin.ToJSON(args[0])
	if err != nil {
		return value.Value{}, gerr.Wrap(gerr.RuntimeError, gerr.Position{}, err, "to_json")
	}
	return value.Str(s), nil
}

func nativeFromJSON(c value.Caller, args []value.Value) (value.Value, error) {
	s, err := argStringGlobal(args, 0, "from_json")
	if err != nil {
		return value.Value{}, err
	}
	v, err := builtin.FromJSON(s)
	if err != nil {
		return value.Value{}, gerr.Wrap(gerr.RuntimeError, gerr.Position{}, err, "from_json")
	}
	return v, nil
}

func nativeToYAML(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, gerr.New(gerr.RuntimeError, gerr.Position{}, "to_yaml() takes exactly one argument")
	}
	s, err := builtin.ToYAML(args[0])
	if err != nil {
		return value.Value{}, gerr.Wrap(gerr.RuntimeError, gerr.Position{}, err, "to_yaml")
	}
	return value.Str(s), nil
}

func nativeFromYAML(c value.Caller, args []value.Value) (value.Value, error) {
	s, err := argStringGlobal(args, 0, "from_yaml")
	if err != nil {
		return value.Value{}, err
	}
	v, err := builtin.FromYAML(s)
	if err != nil {
		return value.Value{}, gerr.Wrap(gerr.RuntimeError, gerr.Position{}, err, "from_yaml")
	}
	return v, nil
}

// nativeSecureHash wraps builtin.SecureHash (blake2b over a value's
// canonical Display form) for use as a stable dedup/cache key.
func nativeSecureHash(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, gerr.New(gerr.RuntimeError, gerr.Position{}, "secure_hash() takes exactly one argument")
	}
	h, err := builtin.SecureHash(args[0])
	if err != nil {
		return value.Value{}, gerr.Wrap(gerr.RuntimeError, gerr.Position{}, err, "secure_hash")
	}
	return value.Str(h), nil
}

// nativeStringFn adapts a string->string helper (upper/lower/trim) into
// a free-function built-in alongside its method form.
func nativeStringFn(f func(string) string) value.NativeFunc {
	return func(c value.Caller, args []value.Value) (value.Value, error) {
		s, err := argStringGlobal(args, 0, "string function")
		if err != nil {
			return value.Value{}, err
		}
		return value.Str(f(s)), nil
	}
}

// nativeJoin implements `join(list, sep)`, the free-function mirror of
// the list method the same name would shadow on a receiver.
func nativeJoin(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind != value.KindList {
		return value.Value{}, gerr.New(gerr.TypeError, gerr.Position{}, "join() requires (list, separator)")
	}
	sep, err := argStringGlobal(args, 1, "join")
	if err != nil {
		return value.Value{}, err
	}
	elems := args[0].List.Elements()
	parts := make([]string, len(elems))
	for i, el := range elems {
		parts[i] = value.Display(el)
	}
	return value.Str(builtin.Join(parts, sep)), nil
}

func argStringGlobal(args []value.Value, i int, who string) (string, error) {
	if i >= len(args) || args[i].Kind != value.KindString {
		return "", gerr.New(gerr.TypeError, gerr.Position{}, "%s expects a string argument at position %d", who, i)
	}
	return args[i].Str, nil
}
