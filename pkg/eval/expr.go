package eval

import (
	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/ast"
	"github.com/xvandervort/graphoid/pkg/environment"
	"github.com/xvandervort/graphoid/pkg/token"
	"github.com/xvandervort/graphoid/pkg/value"
)

// evalExpr is the evaluator's central dispatch: every
// expression node eventually bottoms out here. frame is the currently
// executing method's call frame, or nil outside a method body.
func (e *Evaluator) evalExpr(expr ast.Expression, env *environment.Scope, frame *callFrame) (value.Value, error) {
	switch x := expr.(type) {
	case *ast.NumberLiteral:
		return value.Num(x.Value), nil
	case *ast.StringLiteral:
		return value.Str(x.Value), nil
	case *ast.BoolLiteral:
		return value.Bool(x.Value), nil
	case *ast.NoneLiteral:
		return value.None(), nil
	case *ast.SymbolLiteral:
		return value.Sym(x.Name), nil
	case *ast.Identifier:
		return e.lookupIdent(x, env, frame)

	case *ast.BinaryExpr:
		return e.evalBinaryExpr(x, env, frame)
	case *ast.UnaryExpr:
		operand, err := e.evalExpr(x.Operand, env, frame)
		if err != nil {
			return value.Value{}, err
		}
		return e.evalUnary(x.Op, operand, pos(x))

	case *ast.IndexExpr:
		return e.evalIndex(x, env, frame)
	case *ast.SliceExpr:
		return e.evalSlice(x, env, frame)
	case *ast.MemberExpr:
		return e.evalMember(x, env, frame)

	case *ast.CallExpr:
		return e.evalCall(x, env, frame)
	case *ast.MethodCallExpr:
		return e.evalMethodCall(x, env, frame)
	case *ast.SuperCallExpr:
		return e.evalSuperCall(x, env, frame)
	case *ast.RespondsToExpr:
		return e.evalRespondsTo(x, env, frame)

	case *ast.LambdaExpr:
		return value.FromFunc(e.buildLambda(x, env)), nil
	case *ast.MatchExpr:
		return e.evalMatch(x, env, frame)

	case *ast.ListLiteral:
		elems, err := e.evalArgs(x.Elements, env, frame)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromList(value.NewList(elems)), nil

	case *ast.HashLiteral:
		return e.evalHashLiteral(x, env, frame)

	case *ast.GraphLiteral:
		return e.evalGraphLiteral(x, env, frame)

	case *ast.WithRulesetExpr:
		return e.evalWithRuleset(x, env, frame)

	case *ast.PatternConstructorExpr:
		return e.evalPatternConstructor(x, env, frame)

	default:
		return value.Value{}, gerr.New(gerr.RuntimeError, pos(expr), "unsupported expression %T", expr)
	}
}

// lookupIdent implements this design's implicit-self read
// precedence: inside a method, a bare name that names self's data
// field reads through self before falling back to the lexical scope.
func (e *Evaluator) lookupIdent(x *ast.Identifier, env *environment.Scope, frame *callFrame) (value.Value, error) {
	if frame != nil && x.Name == "self" {
		return frame.self, nil
	}
	if frame != nil && frame.self.Kind == value.KindGraph && frame.self.Graph.HasDataField(x.Name) {
		return frame.self.Graph.Nodes[x.Name].Value, nil
	}
	if v, ok := env.Get(x.Name); ok {
		return v, nil
	}
	return value.Value{}, gerr.New(gerr.NameError, pos(x), "undefined name %q", x.Name)
}

func (e *Evaluator) evalBinaryExpr(x *ast.BinaryExpr, env *environment.Scope, frame *callFrame) (value.Value, error) {
	if x.Op == token.AND || x.Op == token.OR {
		l, err := e.evalExpr(x.Left, env, frame)
		if err != nil {
			return value.Value{}, err
		}
		if x.Op == token.AND && !l.Truthy() {
			return l, nil
		}
		if x.Op == token.OR && l.Truthy() {
			return l, nil
		}
		return e.evalExpr(x.Right, env, frame)
	}
	l, err := e.evalExpr(x.Left, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	r, err := e.evalExpr(x.Right, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	return e.evalBinary(x.Op, l, r, pos(x))
}

// evalIndex implements this design's collection-indexing contract:
// a List requires an integer index, an out-of-range or non-integer
// index raises an error rather than returning none; a Hash indexes by
// key, and a missing key is likewise an error, not a silent none.
func (e *Evaluator) evalIndex(x *ast.IndexExpr, env *environment.Scope, frame *callFrame) (value.Value, error) {
	recv, err := e.evalExpr(x.Receiver, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	idx, err := e.evalExpr(x.Index, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	p := pos(x)
	switch recv.Kind {
	case value.KindList:
		if idx.Kind != value.KindNumber || idx.Num != float64(int(idx.Num)) {
			return value.Value{}, gerr.New(gerr.TypeError, p, "list index must be an integer, got %s", value.Display(idx))
		}
		return recv.List.At(int(idx.Num))
	case value.KindHash:
		key := hashKeyString(idx)
		v, ok := recv.Hash.Get(key)
		if !ok {
			return value.Value{}, gerr.New(gerr.RuntimeError, p, "hash has no key %q", key)
		}
		return v, nil
	default:
		return value.Value{}, gerr.New(gerr.TypeError, p, "cannot index a %s", value.TypeName(recv))
	}
}

func hashKeyString(v value.Value) string {
	if v.Kind == value.KindString || v.Kind == value.KindSymbol {
		return v.Str
	}
	return value.Display(v)
}

func (e *Evaluator) evalSlice(x *ast.SliceExpr, env *environment.Scope, frame *callFrame) (value.Value, error) {
	recv, err := e.evalExpr(x.Receiver, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	if recv.Kind != value.KindList {
		return value.Value{}, gerr.New(gerr.TypeError, pos(x), "cannot slice a %s", value.TypeName(recv))
	}
	from := 0
	if x.From != nil {
		v, err := e.evalExpr(x.From, env, frame)
		if err != nil {
			return value.Value{}, err
		}
		from = int(v.Num)
	}
	to := recv.List.Len()
	if x.To != nil {
		v, err := e.evalExpr(x.To, env, frame)
		if err != nil {
			return value.Value{}, err
		}
		to = int(v.Num)
	}
	return value.FromList(recv.List.Slice(from, to)), nil
}

// evalMember implements `receiver.name` as a graph data-field read or
// a hash key read; method calls
// always go through MethodCallExpr instead.
func (e *Evaluator) evalMember(x *ast.MemberExpr, env *environment.Scope, frame *callFrame) (value.Value, error) {
	recv, err := e.evalExpr(x.Receiver, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	switch recv.Kind {
	case value.KindGraph:
		if !recv.Graph.HasDataField(x.Name) {
			return value.Value{}, gerr.New(gerr.NameError, pos(x), "graph has no field %q", x.Name)
		}
		return recv.Graph.Nodes[x.Name].Value, nil
	case value.KindHash:
		v, ok := recv.Hash.Get(x.Name)
		if !ok {
			return value.Value{}, gerr.New(gerr.RuntimeError, pos(x), "hash has no key %q", x.Name)
		}
		return v, nil
	case value.KindModule:
		v, ok := recv.Mod.Get(x.Name)
		if !ok {
			return value.Value{}, gerr.New(gerr.NameError, pos(x), "module %q has no export %q", recv.Mod.Name, x.Name)
		}
		return v, nil
	default:
		return value.Value{}, gerr.New(gerr.TypeError, pos(x), "cannot access field %q on a %s", x.Name, value.TypeName(recv))
	}
}

func (e *Evaluator) evalCall(x *ast.CallExpr, env *environment.Scope, frame *callFrame) (value.Value, error) {
	callee, err := e.evalExpr(x.Callee, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	if callee.Kind != value.KindFunction {
		return value.Value{}, gerr.New(gerr.TypeError, pos(x), "cannot call a %s", value.TypeName(callee))
	}
	args, err := e.evalArgs(x.Args, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	return e.invoke(callee.Fn, args, nil)
}

// evalMethodCall implements this design's method-dispatch contract:
// a graph receiver checks its `__methods__` branch first, then the
// built-in table for its Kind; every other receiver Kind goes directly
// to its own built-in table.
func (e *Evaluator) evalMethodCall(x *ast.MethodCallExpr, env *environment.Scope, frame *callFrame) (value.Value, error) {
	recv, err := e.evalExpr(x.Receiver, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	args, err := e.evalArgs(x.Args, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	p := pos(x)
	switch recv.Kind {
	case value.KindGraph:
		return e.callGraphMethod(recv, x.Name, args, p)
	case value.KindList:
		return e.callListMethod(recv, x.Name, args, p)
	case value.KindHash:
		return e.callHashMethod(recv, x.Name, args, p)
	case value.KindString:
		return e.callStringMethod(recv, x.Name, args, p)
	case value.KindMatchResults:
		return e.callMatchResultsMethod(recv, x.Name, args, p)
	case value.KindNumber:
		return e.callNumberMethod(recv, x.Name, args, p)
	case value.KindModule:
		return e.callModuleMethod(recv, x.Name, args, p)
	default:
		return value.Value{}, gerr.New(gerr.NameError, p, "%s has no method %q", value.TypeName(recv), x.Name)
	}
}

// evalRespondsTo implements `receiver.responds_to?(name)` (this design
// §4.4.6) by name lookup alone — it never invokes the method, since
// probing a mutating builtin or a user method to see if the call
// *would* succeed could itself mutate the receiver.
func (e *Evaluator) evalRespondsTo(x *ast.RespondsToExpr, env *environment.Scope, frame *callFrame) (value.Value, error) {
	recv, err := e.evalExpr(x.Receiver, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	nameVal, err := e.evalExpr(x.Name, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	name := nameVal.Str
	if recv.Kind == value.KindGraph {
		if _, ok := recv.Graph.Method(name); ok {
			return value.Bool(true), nil
		}
	}
	return value.Bool(builtinMethodNames(recv.Kind)[name]), nil
}

func (e *Evaluator) evalMatch(x *ast.MatchExpr, env *environment.Scope, frame *callFrame) (value.Value, error) {
	subject, err := e.evalExpr(x.Subject, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	clause, bindings, ok, err := e.matchClauses(x.Clauses, subject)
	if err != nil {
		return value.Value{}, err
	}
	if !ok {
		return value.None(), nil
	}
	matchEnv := env.Child()
	for name, v := range bindings {
		matchEnv.Define(name, v)
	}
	return e.evalExpr(clause.Body, matchEnv, frame)
}

func (e *Evaluator) evalHashLiteral(x *ast.HashLiteral, env *environment.Scope, frame *callFrame) (value.Value, error) {
	h := value.NewHash(nil)
	for _, entry := range x.Entries {
		k, err := e.evalExpr(entry.Key, env, frame)
		if err != nil {
			return value.Value{}, err
		}
		v, err := e.evalExpr(entry.Value, env, frame)
		if err != nil {
			return value.Value{}, err
		}
		if _, err := h.Set(hashKeyString(k), v); err != nil {
			return value.Value{}, err
		}
	}
	return value.FromHash(h), nil
}

func (e *Evaluator) evalGraphLiteral(x *ast.GraphLiteral, env *environment.Scope, frame *callFrame) (value.Value, error) {
	graphType := x.GraphType
	if graphType == "" {
		graphType = "directed"
	}
	g := value.NewGraph(graphType)
	for _, n := range x.Nodes {
		idVal, err := e.evalExpr(n.ID, env, frame)
		if err != nil {
			return value.Value{}, err
		}
		v := value.None()
		if n.Value != nil {
			v, err = e.evalExpr(n.Value, env, frame)
			if err != nil {
				return value.Value{}, err
			}
		}
		if _, err := g.AddNode(hashKeyString(idVal), v); err != nil {
			return value.Value{}, err
		}
	}
	for _, ed := range x.Edges {
		fromVal, err := e.evalExpr(ed.From, env, frame)
		if err != nil {
			return value.Value{}, err
		}
		toVal, err := e.evalExpr(ed.To, env, frame)
		if err != nil {
			return value.Value{}, err
		}
		edgeType := ""
		if ed.EdgeType != nil {
			etVal, err := e.evalExpr(ed.EdgeType, env, frame)
			if err != nil {
				return value.Value{}, err
			}
			edgeType = hashKeyString(etVal)
		}
		var weight *float64
		if ed.Weight != nil {
			wVal, err := e.evalExpr(ed.Weight, env, frame)
			if err != nil {
				return value.Value{}, err
			}
			w := wVal.Num
			weight = &w
		}
		var props map[string]value.Value
		if ed.Props != nil {
			pVal, err := e.evalExpr(ed.Props, env, frame)
			if err != nil {
				return value.Value{}, err
			}
			if pVal.Kind == value.KindHash {
				props = map[string]value.Value{}
				for _, k := range pVal.Hash.Keys() {
					v, _ := pVal.Hash.Get(k)
					props[k] = v
				}
			}
		}
		if err := g.AddEdge(hashKeyString(fromVal), hashKeyString(toVal), edgeType, weight, props); err != nil {
			return value.Value{}, err
		}
	}
	result := value.FromGraph(g)
	if x.Ruleset != "" {
		if err := applyRuleset(g, x.Ruleset); err != nil {
			return value.Value{}, err
		}
	}
	return result, nil
}

func (e *Evaluator) evalWithRuleset(x *ast.WithRulesetExpr, env *environment.Scope, frame *callFrame) (value.Value, error) {
	target, err := e.evalExpr(x.Target, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	if target.Kind != value.KindGraph {
		return value.Value{}, gerr.New(gerr.TypeError, pos(x), "with_ruleset requires a graph, got %s", value.TypeName(target))
	}
	if err := applyRuleset(target.Graph, x.Ruleset); err != nil {
		return value.Value{}, err
	}
	return target, nil
}

// evalPatternConstructor builds the value produced by the built-in
// `node(...)`, `edge(...)`, `path(...)` constructors;
// min=1, max unbounded, direction="outgoing" are the documented
// defaults when the corresponding keyword argument is omitted.
func (e *Evaluator) evalPatternConstructor(x *ast.PatternConstructorExpr, env *environment.Scope, frame *callFrame) (value.Value, error) {
	get := func(key string) (value.Value, bool, error) {
		expr, ok := x.Args[key]
		if !ok {
			return value.Value{}, false, nil
		}
		v, err := e.evalExpr(expr, env, frame)
		if err != nil {
			return value.Value{}, false, err
		}
		return v, true, nil
	}
	switch x.Kind {
	case "node":
		typ := ""
		if v, ok, err := get("type"); err != nil {
			return value.Value{}, err
		} else if ok {
			typ = hashKeyString(v)
		}
		return value.Value{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: x.Var, Type: typ}}, nil
	case "edge":
		edgeType := ""
		if v, ok, err := get("type"); err != nil {
			return value.Value{}, err
		} else if ok {
			edgeType = hashKeyString(v)
		}
		direction := "outgoing"
		if v, ok, err := get("direction"); err != nil {
			return value.Value{}, err
		} else if ok {
			direction = hashKeyString(v)
		}
		return value.Value{Kind: value.KindPatternEdge, PEdge: &value.PatternEdge{EdgeType: edgeType, Direction: direction}}, nil
	case "path":
		edgeType := ""
		if v, ok, err := get("type"); err != nil {
			return value.Value{}, err
		} else if ok {
			edgeType = hashKeyString(v)
		}
		min := 1
		if v, ok, err := get("min"); err != nil {
			return value.Value{}, err
		} else if ok {
			min = int(v.Num)
		}
		max := -1
		if v, ok, err := get("max"); err != nil {
			return value.Value{}, err
		} else if ok {
			max = int(v.Num)
		}
		direction := "outgoing"
		if v, ok, err := get("direction"); err != nil {
			return value.Value{}, err
		} else if ok {
			direction = hashKeyString(v)
		}
		return value.Value{Kind: value.KindPatternPath, PPath: &value.PatternPath{EdgeType: edgeType, Min: min, Max: max, Direction: direction}}, nil
	default:
		return value.Value{}, gerr.New(gerr.RuntimeError, pos(x), "unknown pattern constructor %q", x.Kind)
	}
}
