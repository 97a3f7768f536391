package eval

import (
	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/ast"
	"github.com/xvandervort/graphoid/pkg/environment"
	"github.com/xvandervort/graphoid/pkg/value"
)

// buildFunction turns a parsed FunctionDecl into a runtime Function
// Value, capturing env as its closure. definingClass
// is "" for a plain top-level function.
func (e *Evaluator) buildFunction(decl *ast.FunctionDecl, env *environment.Scope, definingClass string) *value.Function {
	fn := &value.Function{
		Name:          decl.Name,
		Params:        decl.Params,
		Env:           env,
		Private:       decl.Private,
		DefiningClass: definingClass,
	}
	if decl.Clauses != nil {
		fn.Kind = value.FnPattern
		fn.Clauses = decl.Clauses
	} else {
		fn.Kind = value.FnUser
		fn.Body = decl.Body
	}
	return fn
}

// buildLambda turns a parsed LambdaExpr into a runtime Function Value.
func (e *Evaluator) buildLambda(lit *ast.LambdaExpr, env *environment.Scope) *value.Function {
	fn := &value.Function{Params: lit.Params, Env: env}
	switch {
	case lit.Clauses != nil:
		fn.Kind = value.FnPattern
		fn.Clauses = lit.Clauses
	default:
		fn.Kind = value.FnLambda
		fn.Expr = lit.Body
	}
	return fn
}

func fnScope(fn *value.Function) *environment.Scope {
	if fn.Env == nil {
		return environment.New()
	}
	return fn.Env.(*environment.Scope)
}

// Call implements value.Caller and behavior.CustomCaller: invoking a
// Function value from outside a method-dispatch context (native
// callbacks like list.map, a plain `f(args)` call). No self is bound.
func (e *Evaluator) Call(fnVal value.Value, args []value.Value) (value.Value, error) {
	if fnVal.Kind != value.KindFunction {
		return value.Value{}, gerr.New(gerr.TypeError, gerr.Position{}, "cannot call a %s", value.TypeName(fnVal))
	}
	return e.invoke(fnVal.Fn, args, nil)
}

// invoke dispatches on fn.Kind. frame, when non-nil,
// is pushed for the duration of a user-function body so implicit self
// and super resolve against it.
func (e *Evaluator) invoke(fn *value.Function, args []value.Value, frame *callFrame) (value.Value, error) {
	if fn.Kind != value.FnNative {
		if e.MaxDepth > 0 && e.depth >= e.MaxDepth {
			return value.Value{}, gerr.New(gerr.RuntimeError, gerr.Position{}, "maximum call depth %d exceeded", e.MaxDepth)
		}
		e.depth++
		defer func() { e.depth-- }()
	}
	switch fn.Kind {
	case value.FnNative:
		return fn.Native(e, args)
	case value.FnUser:
		return e.invokeUser(fn, args, frame)
	case value.FnLambda:
		return e.invokeLambda(fn, args, frame)
	case value.FnPattern:
		return e.invokePattern(fn, args, frame)
	default:
		return value.Value{}, gerr.New(gerr.RuntimeError, gerr.Position{}, "unknown function kind")
	}
}

func (e *Evaluator) invokeUser(fn *value.Function, args []value.Value, frame *callFrame) (value.Value, error) {
	callEnv := fnScope(fn).Child()
	bindParams(callEnv, fn.Params, args)
	if frame != nil {
		e.pushFrame(frame)
		defer e.popFrame()
	}
	_, sig, err := e.execBlock(fn.Body, callEnv, frame)
	if err != nil {
		return value.Value{}, err
	}
	if sig.kind == sigReturn {
		return sig.value, nil
	}
	// this design point 2: falls through to none without an
	// explicit return, regardless of the body's last expression.
	return value.None(), nil
}

func (e *Evaluator) invokeLambda(fn *value.Function, args []value.Value, frame *callFrame) (value.Value, error) {
	callEnv := fnScope(fn).Child()
	bindParams(callEnv, fn.Params, args)
	if frame != nil {
		e.pushFrame(frame)
		defer e.popFrame()
	}
	return e.evalExpr(fn.Expr, callEnv, frame)
}

// invokePattern implements this design point 3 for both pattern
// functions and multi-clause lambdas: the match subject is the sole
// argument, or the argument list as-a-value when there is more than
// one (so list patterns with rest can destructure a multi-arg call).
func (e *Evaluator) invokePattern(fn *value.Function, args []value.Value, frame *callFrame) (value.Value, error) {
	var subject value.Value
	if len(args) == 1 {
		subject = args[0]
	} else {
		subject = value.FromList(value.NewList(args))
	}
	clause, bindings, ok, err := e.matchClauses(fn.Clauses, subject)
	if err != nil {
		return value.Value{}, err
	}
	if !ok {
		return value.None(), nil
	}
	callEnv := fnScope(fn).Child()
	for name, v := range bindings {
		callEnv.Define(name, v)
	}
	if frame != nil {
		e.pushFrame(frame)
		defer e.popFrame()
	}
	return e.evalExpr(clause.Body, callEnv, frame)
}

func bindParams(env *environment.Scope, params []string, args []value.Value) {
	for i, p := range params {
		if i < len(args) {
			env.Define(p, args[i])
		} else {
			env.Define(p, value.None())
		}
	}
}

// callMethod invokes fn with self bound to selfVal,
// checking method-constraint rules against the before/after snapshot
// once the call completes. Mutation persistence (§4.4.5's "re-bind the
// variable on return") needs no extra step here: selfVal.Graph is a
// pointer shared with every other binding of the same graph, so the
// in-place mutation is already visible everywhere.
func (e *Evaluator) callMethod(selfVal value.Value, fn *value.Function, args []value.Value, methodName string) (value.Value, error) {
	g := selfVal.Graph
	var beforeNodes, beforeEdges int
	if g != nil {
		beforeNodes, beforeEdges = len(g.Nodes), g.CountEdges()
	}
	result, err := e.invoke(fn, args, &callFrame{self: selfVal, fn: fn})
	if err != nil {
		return value.Value{}, err
	}
	if g != nil {
		if cerr := g.CheckMethodConstraints(methodName, beforeNodes, beforeEdges); cerr != nil {
			return value.Value{}, cerr
		}
	}
	return result, nil
}

// evalGraphDecl registers a `graph Name [from Parent] { ... }`
// declaration: Template starts as a clone of the
// parent's (fields and methods both inherited, then overridden by this
// class's own), and is bound in env under Name so `Name.new()` and
// `Name.static_method()` both resolve against it.
func (e *Evaluator) evalGraphDecl(decl *ast.GraphDecl, env *environment.Scope) error {
	var template *value.Graph
	if decl.Parent != "" {
		parent, ok := e.Classes[decl.Parent]
		if !ok {
			return gerr.New(gerr.NameError, pos(decl), "unknown parent graph %q", decl.Parent)
		}
		template = parent.Template.Clone()
	} else {
		template = value.NewGraph("directed")
	}

	for _, f := range decl.Fields {
		v, err := e.evalExpr(f.Init, env, nil)
		if err != nil {
			return err
		}
		if template.HasDataField(f.Name) {
			if err := template.SetNodeValue(f.Name, v); err != nil {
				return err
			}
		} else if _, err := template.AddNode(f.Name, v); err != nil {
			return err
		}
	}

	for _, inc := range decl.Includes {
		mixinVal, err := e.evalExpr(inc, env, nil)
		if err != nil {
			return err
		}
		if mixinVal.Kind != value.KindGraph {
			return gerr.New(gerr.TypeError, pos(decl), "include() requires a graph, got %s", value.TypeName(mixinVal))
		}
		for _, name := range mixinVal.Graph.MethodNames() {
			if fn, ok := mixinVal.Graph.Method(name); ok {
				template.SetMethod(name, fn)
			}
		}
	}

	ownMethods := map[string]*value.Function{}
	for _, m := range decl.Methods {
		fn := e.buildFunction(m, env, decl.Name)
		ownMethods[m.Name] = fn
		template.SetMethod(m.Name, value.FromFunc(fn))
	}

	info := &ClassInfo{Name: decl.Name, Parent: decl.Parent, OwnMethods: ownMethods, Template: template}
	e.Classes[decl.Name] = info
	env.Define(decl.Name, value.FromGraph(template))
	return nil
}

// evalSuperCall resolves `super.method(args)` to the
// first ancestor of the currently-executing method's defining class
// that owns Name, invoked with self still bound to the current frame's
// self.
func (e *Evaluator) evalSuperCall(call *ast.SuperCallExpr, env *environment.Scope, frame *callFrame) (value.Value, error) {
	if frame == nil || frame.fn.DefiningClass == "" {
		return value.Value{}, gerr.New(gerr.RuntimeError, pos(call), "super called outside a method")
	}
	args, err := e.evalArgs(call.Args, env, frame)
	if err != nil {
		return value.Value{}, err
	}
	cls, ok := e.Classes[frame.fn.DefiningClass]
	if !ok {
		return value.Value{}, gerr.New(gerr.RuntimeError, pos(call), "unknown defining class %q", frame.fn.DefiningClass)
	}
	for parentName := cls.Parent; parentName != ""; {
		parent, ok := e.Classes[parentName]
		if !ok {
			break
		}
		if fn, ok := parent.OwnMethods[call.Name]; ok {
			return e.callMethod(frame.self, fn, args, call.Name)
		}
		parentName = parent.Parent
	}
	return value.Value{}, gerr.New(gerr.NameError, pos(call), "no ancestor defines method %q", call.Name)
}

func (e *Evaluator) evalArgs(exprs []ast.Expression, env *environment.Scope, frame *callFrame) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, a := range exprs {
		v, err := e.evalExpr(a, env, frame)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
