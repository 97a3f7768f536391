package eval

import (
	"math"
	"strings"

	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/token"
	"github.com/xvandervort/graphoid/pkg/value"
)

// evalBinary implements this design's arithmetic and operator
// table. Numeric results are coerced through the active configure
// frame (integer/unsigned/32bit/precision); comparisons and the
// string/list/hash overloads of +/* are untouched by configuration.
func (e *Evaluator) evalBinary(op token.Kind, l, r value.Value, p gerr.Position) (value.Value, error) {
	switch op {
	case token.PLUS:
		return e.evalPlus(l, r, p)
	case token.STAR:
		return e.evalStar(l, r, p)
	case token.MINUS, token.SLASH, token.SLASH2, token.PERCENT, token.STAR2:
		return e.evalNumericOnly(op, l, r, p)
	case token.DOTPLUS, token.DOTMINUS, token.DOTSTAR, token.DOTSLASH:
		return e.evalElementWise(op, l, r, p)
	case token.EQ:
		return value.Bool(value.Equals(l, r)), nil
	case token.NEQ:
		return value.Bool(!value.Equals(l, r)), nil
	case token.LT:
		return value.Bool(value.Less(l, r)), nil
	case token.LTE:
		return value.Bool(!value.Less(r, l)), nil
	case token.GT:
		return value.Bool(value.Less(r, l)), nil
	case token.GTE:
		return value.Bool(!value.Less(l, r)), nil
	case token.IN:
		return evalIn(l, r, p)
	default:
		return value.Value{}, gerr.New(gerr.RuntimeError, p, "unsupported operator %s", op)
	}
}

func (e *Evaluator) evalPlus(l, r value.Value, p gerr.Position) (value.Value, error) {
	switch {
	case l.Kind == value.KindNumber && r.Kind == value.KindNumber:
		return value.Num(applyNumericConfig(e.curConfig(), l.Num+r.Num)), nil
	case l.Kind == value.KindString && r.Kind == value.KindString:
		return value.Str(l.Str + r.Str), nil
	case l.Kind == value.KindList && r.Kind == value.KindList:
		out := append(append([]value.Value(nil), l.List.Elements()...), r.List.Elements()...)
		return value.FromList(value.NewList(out)), nil
	case l.Kind == value.KindHash && r.Kind == value.KindHash:
		return value.FromHash(l.Hash.Merge(r.Hash)), nil
	default:
		return value.Value{}, gerr.New(gerr.TypeError, p, "cannot add %s and %s", value.TypeName(l), value.TypeName(r))
	}
}

func (e *Evaluator) evalStar(l, r value.Value, p gerr.Position) (value.Value, error) {
	switch {
	case l.Kind == value.KindNumber && r.Kind == value.KindNumber:
		return value.Num(applyNumericConfig(e.curConfig(), l.Num*r.Num)), nil
	case l.Kind == value.KindString && r.Kind == value.KindNumber:
		return value.Str(repeatString(l.Str, int(r.Num))), nil
	case l.Kind == value.KindList && r.Kind == value.KindNumber:
		elems := l.List.Elements()
		out := make([]value.Value, 0, len(elems)*int(r.Num))
		for i := 0; i < int(r.Num); i++ {
			out = append(out, elems...)
		}
		return value.FromList(value.NewList(out)), nil
	default:
		return value.Value{}, gerr.New(gerr.TypeError, p, "cannot multiply %s and %s", value.TypeName(l), value.TypeName(r))
	}
}

func repeatString(s string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func (e *Evaluator) evalNumericOnly(op token.Kind, l, r value.Value, p gerr.Position) (value.Value, error) {
	if l.Kind != value.KindNumber || r.Kind != value.KindNumber {
		return value.Value{}, gerr.New(gerr.TypeError, p, "%s requires two numbers, got %s and %s", op, value.TypeName(l), value.TypeName(r))
	}
	var n float64
	switch op {
	case token.MINUS:
		n = l.Num - r.Num
	case token.STAR2:
		n = math.Pow(l.Num, r.Num)
	case token.SLASH:
		if r.Num == 0 {
			return value.Value{}, gerr.New(gerr.RuntimeError, p, "division by zero")
		}
		n = l.Num / r.Num
	case token.SLASH2:
		if r.Num == 0 {
			return value.Value{}, gerr.New(gerr.RuntimeError, p, "division by zero")
		}
		n = math.Floor(l.Num / r.Num)
	case token.PERCENT:
		if r.Num == 0 {
			return value.Value{}, gerr.New(gerr.RuntimeError, p, "division by zero")
		}
		n = math.Mod(l.Num, r.Num)
	}
	return value.Num(applyNumericConfig(e.curConfig(), n)), nil
}

// evalElementWise implements `.+`/`.-`/`.*`/`./` over two lists
//: pairwise application, truncating to the shorter
// length when lengths differ.
func (e *Evaluator) evalElementWise(op token.Kind, l, r value.Value, p gerr.Position) (value.Value, error) {
	if l.Kind != value.KindList || r.Kind != value.KindList {
		return value.Value{}, gerr.New(gerr.TypeError, p, "%s requires two lists, got %s and %s", op, value.TypeName(l), value.TypeName(r))
	}
	le, re := l.List.Elements(), r.List.Elements()
	n := len(le)
	if len(re) < n {
		n = len(re)
	}
	scalarOp := map[token.Kind]token.Kind{
		token.DOTPLUS:  token.PLUS,
		token.DOTMINUS: token.MINUS,
		token.DOTSTAR:  token.STAR,
		token.DOTSLASH: token.SLASH,
	}[op]
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		v, err := e.evalBinary(scalarOp, le[i], re[i], p)
		if err != nil {
			return value.Value{}, err
		}
		out[i] = v
	}
	return value.FromList(value.NewList(out)), nil
}

// evalIn implements the `in` comparison: element membership in a
// list, key presence in a hash, substring containment in a string, or
// data-node-id presence in a graph.
func evalIn(l, r value.Value, p gerr.Position) (value.Value, error) {
	switch r.Kind {
	case value.KindList:
		for _, v := range r.List.Elements() {
			if value.Equals(v, l) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.KindHash:
		if l.Kind != value.KindString && l.Kind != value.KindSymbol {
			return value.Bool(false), nil
		}
		_, ok := r.Hash.Get(l.Str)
		return value.Bool(ok), nil
	case value.KindString:
		if l.Kind != value.KindString {
			return value.Value{}, gerr.New(gerr.TypeError, p, "`in` on a string requires a string operand, got %s", value.TypeName(l))
		}
		return value.Bool(strings.Contains(r.Str, l.Str)), nil
	case value.KindGraph:
		if l.Kind != value.KindString {
			return value.Bool(false), nil
		}
		return value.Bool(r.Graph.HasDataField(l.Str)), nil
	default:
		return value.Value{}, gerr.New(gerr.TypeError, p, "`in` requires a collection on the right, got %s", value.TypeName(r))
	}
}

// evalUnary implements `-x` and `not x`.
func (e *Evaluator) evalUnary(op token.Kind, operand value.Value, p gerr.Position) (value.Value, error) {
	switch op {
	case token.MINUS:
		if operand.Kind != value.KindNumber {
			return value.Value{}, gerr.New(gerr.TypeError, p, "unary - requires a number, got %s", value.TypeName(operand))
		}
		return value.Num(applyNumericConfig(e.curConfig(), -operand.Num)), nil
	case token.NOT, token.BANG:
		return value.Bool(!operand.Truthy()), nil
	default:
		return value.Value{}, gerr.New(gerr.RuntimeError, p, "unsupported unary operator %s", op)
	}
}
