// Package value implements Graphoid's runtime data model:
// the tagged-union Value type and the Graph it shares with the List and
// Hash handle variants.
//
// Value and Graph live in one package rather than Graph living
// alongside the evaluator's other "core" packages because they are
// mutually recursive: a Graph's NodeRecord carries a Value, and the
// Graph/List/Hash Value variants carry a *Graph. Splitting them across
// packages would require an import cycle.
package value

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Kind discriminates the Value tagged union.
type Kind int

const (
	KindNone Kind = iota
	KindNumber
	KindBoolean
	KindString
	KindSymbol
	KindFunction
	KindList
	KindHash
	KindGraph
	KindPatternNode
	KindPatternEdge
	KindPatternPath
	KindMatchResults
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindFunction:
		return "function"
	case KindList:
		return "list"
	case KindHash:
		return "hash"
	case KindGraph:
		return "graph"
	case KindPatternNode:
		return "pattern_node"
	case KindPatternEdge:
		return "pattern_edge"
	case KindPatternPath:
		return "pattern_path"
	case KindMatchResults:
		return "pattern_match_results"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// Value is the tagged union every Graphoid expression evaluates to.
// Exactly one payload field is meaningful for a given Kind; the rest
// are zero. Collections (List, Hash, Graph) carry their payload by
// pointer so assignment copies the handle, not the data (this design
// §3.1's "shared" ownership column).
type Value struct {
	Kind Kind

	Num  float64
	Bool bool
	Str  string // also holds Symbol's interned name

	Fn      *Function
	List    *List
	Hash    *Hash
	Graph   *Graph
	PNode   *PatternNode
	PEdge   *PatternEdge
	PPath   *PatternPath
	Results *MatchResults
	Mod     *Module
}

func None() Value               { return Value{Kind: KindNone} }
func Num(n float64) Value       { return Value{Kind: KindNumber, Num: n} }
func Bool(b bool) Value         { return Value{Kind: KindBoolean, Bool: b} }
func Str(s string) Value        { return Value{Kind: KindString, Str: s} }
func Sym(name string) Value     { return Value{Kind: KindSymbol, Str: name} }
func FromFunc(fn *Function) Value { return Value{Kind: KindFunction, Fn: fn} }
func FromList(l *List) Value    { return Value{Kind: KindList, List: l} }
func FromHash(h *Hash) Value    { return Value{Kind: KindHash, Hash: h} }
func FromGraph(g *Graph) Value  { return Value{Kind: KindGraph, Graph: g} }
func FromModule(m *Module) Value { return Value{Kind: KindModule, Mod: m} }

// IsNone reports whether v is the None value.
func (v Value) IsNone() bool { return v.Kind == KindNone }

// Truthy implements this design: falsy values are none, false, 0,
// empty string, empty list, empty hash; everything else is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNone:
		return false
	case KindBoolean:
		return v.Bool
	case KindNumber:
		return v.Num != 0
	case KindString:
		return v.Str != ""
	case KindList:
		return v.List.Len() != 0
	case KindHash:
		return v.Hash.Len() != 0
	default:
		return true
	}
}

// Equals implements structural equality. NaN is
// never equal to anything, including itself.
func Equals(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindNumber:
		if math.IsNaN(a.Num) || math.IsNaN(b.Num) {
			return false
		}
		return a.Num == b.Num
	case KindBoolean:
		return a.Bool == b.Bool
	case KindString, KindSymbol:
		return a.Str == b.Str
	case KindList:
		return listEquals(a.List, b.List)
	case KindHash:
		return hashEquals(a.Hash, b.Hash)
	case KindGraph:
		return a.Graph == b.Graph
	case KindFunction:
		return a.Fn == b.Fn
	case KindModule:
		return a.Mod == b.Mod
	default:
		return false
	}
}

func listEquals(a, b *List) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		av, _ := a.At(i)
		bv, _ := b.At(i)
		if !Equals(av, bv) {
			return false
		}
	}
	return true
}

func hashEquals(a, b *Hash) bool {
	ak, bk := a.Keys(), b.Keys()
	if len(ak) != len(bk) {
		return false
	}
	for _, k := range ak {
		av, ok := a.Get(k)
		if !ok {
			return false
		}
		bv, ok := b.Get(k)
		if !ok || !Equals(av, bv) {
			return false
		}
	}
	return true
}

// Less provides the default ordering used by sort-ish builtins and by
// the "None is ordered below every other value" invariant (this design
// §3.1). It is a total order only within comparable kinds; mixed-kind
// comparisons fall back to ordering by Kind.
func Less(a, b Value) bool {
	if a.Kind == KindNone && b.Kind != KindNone {
		return true
	}
	if b.Kind == KindNone {
		return false
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	switch a.Kind {
	case KindNumber:
		return a.Num < b.Num
	case KindString, KindSymbol:
		return a.Str < b.Str
	case KindBoolean:
		return !a.Bool && b.Bool
	default:
		return false
	}
}

// Display renders v in canonical form (this design's "display form is
// canonical"): the form `print` emits and round-trips through `to_json`
// for scalar kinds.
func Display(v Value) string {
	switch v.Kind {
	case KindNone:
		return "none"
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.Num)
	case KindString:
		return v.Str
	case KindSymbol:
		return ":" + v.Str
	case KindFunction:
		return fmt.Sprintf("<function %s>", v.Fn.Name)
	case KindList:
		parts := make([]string, v.List.Len())
		for i := range parts {
			e, _ := v.List.At(i)
			parts[i] = reprFor(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindHash:
		keys := v.Hash.Keys()
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			val, _ := v.Hash.Get(k)
			parts[i] = fmt.Sprintf("%s: %s", k, reprFor(val))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindGraph:
		return fmt.Sprintf("<graph type=%s nodes=%d>", v.Graph.Type, len(v.Graph.Nodes))
	case KindPatternNode:
		return fmt.Sprintf("<pattern_node %s>", v.PNode.Var)
	case KindPatternEdge:
		return "<pattern_edge>"
	case KindPatternPath:
		return "<pattern_path>"
	case KindMatchResults:
		return fmt.Sprintf("<pattern_match_results count=%d>", len(v.Results.Bindings))
	case KindModule:
		return fmt.Sprintf("<module %s>", v.Mod.Name)
	default:
		return "<?>"
	}
}

// reprFor is Display but quotes strings, matching how nested elements
// of a list/hash literal are normally shown back to the user.
func reprFor(v Value) string {
	if v.Kind == KindString {
		return fmt.Sprintf("%q", v.Str)
	}
	return Display(v)
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return fmt.Sprintf("%d", int64(n))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", n), "0"), ".")
}

// TypeName returns the type name used for graph pattern "type"
// constraints and Hash/List key type errors.
func TypeName(v Value) string { return v.Kind.String() }
