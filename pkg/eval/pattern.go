package eval

import (
	"github.com/xvandervort/graphoid/pkg/ast"
	"github.com/xvandervort/graphoid/pkg/value"
)

// matchValue implements this design's value-pattern matcher. On
// success it returns the bindings introduced by variable/rest
// sub-patterns; repeated variable names must bind structurally equal
// values (checked against any prior binding in the same pattern).
func (e *Evaluator) matchValue(pat ast.Pattern, v value.Value, bindings map[string]value.Value) (bool, error) {
	switch p := pat.(type) {
	case *ast.LiteralPattern:
		lit, err := e.evalExpr(p.Value, e.Global, nil)
		if err != nil {
			return false, err
		}
		return value.Equals(lit, v), nil
	case *ast.WildcardPattern:
		return true, nil
	case *ast.VariablePattern:
		if prior, ok := bindings[p.Name]; ok {
			return value.Equals(prior, v), nil
		}
		bindings[p.Name] = v
		return true, nil
	case *ast.ListPattern:
		return e.matchListPattern(p, v, bindings)
	default:
		return false, nil
	}
}

func (e *Evaluator) matchListPattern(p *ast.ListPattern, v value.Value, bindings map[string]value.Value) (bool, error) {
	if v.Kind != value.KindList {
		return false, nil
	}
	elems := v.List.Elements()
	if p.Rest == "" {
		if len(elems) != len(p.Elements) {
			return false, nil
		}
	} else if len(elems) < len(p.Elements) {
		return false, nil
	}
	for i, sub := range p.Elements {
		ok, err := e.matchValue(sub, elems[i], bindings)
		if err != nil || !ok {
			return false, err
		}
	}
	if p.Rest != "" && p.Rest != "_" {
		rest := value.NewList(append([]value.Value(nil), elems[len(p.Elements):]...))
		if prior, ok := bindings[p.Rest]; ok {
			if !value.Equals(prior, value.FromList(rest)) {
				return false, nil
			}
		} else {
			bindings[p.Rest] = value.FromList(rest)
		}
	}
	return true, nil
}

// matchClauses walks a pattern-matching function/lambda/match
// expression's clauses in declared order (this design point 3,
// §4.4.7), returning the first clause whose pattern matches arg along
// with the bindings it introduced, or ok=false if none match.
func (e *Evaluator) matchClauses(clauses []*ast.FunctionClause, arg value.Value) (*ast.FunctionClause, map[string]value.Value, bool, error) {
	for _, c := range clauses {
		bindings := map[string]value.Value{}
		ok, err := e.matchValue(c.Pattern, arg, bindings)
		if err != nil {
			return nil, nil, false, err
		}
		if ok {
			return c, bindings, true, nil
		}
	}
	return nil, nil, false, nil
}
