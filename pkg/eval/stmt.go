package eval

import (
	"errors"

	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/ast"
	"github.com/xvandervort/graphoid/pkg/environment"
	"github.com/xvandervort/graphoid/pkg/value"
)

// execStmt evaluates one statement, returning its value (meaningful
// only for expression statements; the REPL prints this), an unwind
// signal, and an error. frame is nil outside a method body.
func (e *Evaluator) execStmt(stmt ast.Statement, env *environment.Scope, frame *callFrame) (value.Value, signal, error) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		v, err := e.evalExpr(s.Value, env, frame)
		if err != nil {
			return value.Value{}, noSignal, err
		}
		e.assignName(env, frame, s.Name, v)
		return v, noSignal, nil

	case *ast.ExprStatement:
		v, err := e.evalExpr(s.Expr, env, frame)
		return v, noSignal, err

	case *ast.FunctionDecl:
		fn := e.buildFunction(s, env, "")
		env.Define(s.Name, value.FromFunc(fn))
		return value.None(), noSignal, nil

	case *ast.GraphDecl:
		return value.None(), noSignal, e.evalGraphDecl(s, env)

	case *ast.ModuleDecl:
		return value.None(), noSignal, nil

	case *ast.ImportStatement:
		return e.execImport(s, env)

	case *ast.LoadStatement:
		return e.execLoad(s, env)

	case *ast.IfStatement:
		cond, err := e.evalExpr(s.Cond, env, frame)
		if err != nil {
			return value.Value{}, noSignal, err
		}
		if cond.Truthy() {
			return e.execBlock(s.Then, env, frame)
		}
		return e.execBlock(s.Else, env, frame)

	case *ast.WhileStatement:
		return e.execWhile(s, env, frame)

	case *ast.ForStatement:
		return e.execFor(s, env, frame)

	case *ast.ReturnStatement:
		if s.Value == nil {
			return value.None(), returnSignal(value.None()), nil
		}
		v, err := e.evalExpr(s.Value, env, frame)
		if err != nil {
			return value.Value{}, noSignal, err
		}
		return v, returnSignal(v), nil

	case *ast.BreakStatement:
		return value.None(), breakSignal, nil

	case *ast.ContinueStatement:
		return value.None(), continueSignal, nil

	case *ast.TryStatement:
		return e.execTry(s, env, frame)

	case *ast.ConfigureStatement:
		return e.execConfigure(s, env, frame)

	default:
		return value.Value{}, noSignal, gerr.New(gerr.RuntimeError, pos(stmt), "unsupported statement %T", stmt)
	}
}

// execBlock runs stmts in order against env and pushes no child scope
// of its own: if/while/try bodies share the enclosing scope, while a
// for-loop body, a catch handler, a match clause and a function call
// each run in a child scope their caller creates.
func (e *Evaluator) execBlock(stmts []ast.Statement, env *environment.Scope, frame *callFrame) (value.Value, signal, error) {
	last := value.None()
	for _, stmt := range stmts {
		v, sig, err := e.execStmt(stmt, env, frame)
		if err != nil {
			if handled, rv := e.handleCollectOrLenient(err); handled {
				last = rv
				continue
			}
			return value.Value{}, noSignal, err
		}
		if sig.kind != sigNone {
			return sig.value, sig, nil
		}
		last = v
	}
	return last, noSignal, nil
}

// handleCollectOrLenient implements the `:lenient`/`:collect` error
// modes of this design/§7: under either mode a failing statement's
// error is swallowed (and, for collect, recorded) instead of
// unwinding. This holds in every block run under that mode, try
// bodies included, so such an error does not reach a catch handler.
func (e *Evaluator) handleCollectOrLenient(err error) (bool, value.Value) {
	mode := e.curConfig().errorMode
	switch mode {
	case "lenient":
		return true, value.None()
	case "collect":
		c := e.curConfig()
		c.collected = append(c.collected, collectedError{message: err.Error()})
		return true, value.None()
	default:
		return false, value.Value{}
	}
}

func (e *Evaluator) execWhile(s *ast.WhileStatement, env *environment.Scope, frame *callFrame) (value.Value, signal, error) {
	for {
		cond, err := e.evalExpr(s.Cond, env, frame)
		if err != nil {
			return value.Value{}, noSignal, err
		}
		if !cond.Truthy() {
			return value.None(), noSignal, nil
		}
		_, sig, err := e.execBlock(s.Body, env, frame)
		if err != nil {
			return value.Value{}, noSignal, err
		}
		switch sig.kind {
		case sigBreak:
			return value.None(), noSignal, nil
		case sigReturn:
			return sig.value, sig, nil
		}
	}
}

func (e *Evaluator) execFor(s *ast.ForStatement, env *environment.Scope, frame *callFrame) (value.Value, signal, error) {
	iterable, err := e.evalExpr(s.Iterable, env, frame)
	if err != nil {
		return value.Value{}, noSignal, err
	}
	items, err := iterationItems(iterable)
	if err != nil {
		return value.Value{}, noSignal, err
	}
	loopEnv := env.Child()
	for _, item := range items {
		loopEnv.Define(s.Var, item)
		_, sig, err := e.execBlock(s.Body, loopEnv, frame)
		if err != nil {
			return value.Value{}, noSignal, err
		}
		switch sig.kind {
		case sigBreak:
			return value.None(), noSignal, nil
		case sigReturn:
			return sig.value, sig, nil
		}
	}
	return value.None(), noSignal, nil
}

// iterationItems enumerates a `for x in iterable` source: a list's
// elements, a hash's keys (as strings), or a graph's data-node ids (as
// strings) — this design leaves non-list iteration unspecified; this
// follows the "data layer only" convention used throughout §3.2/§4.6.
func iterationItems(v value.Value) ([]value.Value, error) {
	switch v.Kind {
	case value.KindList:
		return v.List.Elements(), nil
	case value.KindHash:
		keys := v.Hash.Keys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			out[i] = value.Str(k)
		}
		return out, nil
	case value.KindGraph:
		ids := v.Graph.DataNodeIDs(false)
		out := make([]value.Value, len(ids))
		for i, id := range ids {
			out[i] = value.Str(id)
		}
		return out, nil
	default:
		return nil, gerr.New(gerr.TypeError, gerr.Position{}, "cannot iterate a %s", value.TypeName(v))
	}
}

func (e *Evaluator) execTry(s *ast.TryStatement, env *environment.Scope, frame *callFrame) (value.Value, signal, error) {
	v, sig, err := e.execBlock(s.Body, env, frame)
	if err == nil {
		return v, sig, nil
	}
	errVal := errorToValue(err)
	catchEnv := env.Child()
	catchEnv.Define(s.CatchName, errVal)
	return e.execBlock(s.Handler, catchEnv, frame)
}

// errorToValue converts a Go error into the Graphoid-visible error value
// `catch` binds: a Hash carrying :kind, :message, and :pos (this design
// §7's "errors are values"). The kind and position come from the first
// *gerr.Error in err's wrap chain; any other error is a RuntimeError at
// an unknown position.
func errorToValue(err error) value.Value {
	h := value.NewHash(nil)
	var ge *gerr.Error
	if errors.As(err, &ge) {
		msg := ge.Message
		if err != error(ge) {
			msg = err.Error()
		}
		_, _ = h.Set("kind", value.Sym(string(ge.Kind)))
		_, _ = h.Set("message", value.Str(msg))
		_, _ = h.Set("pos", value.Str(ge.Pos.String()))
	} else {
		_, _ = h.Set("kind", value.Sym("RuntimeError"))
		_, _ = h.Set("message", value.Str(err.Error()))
		_, _ = h.Set("pos", value.Str("?:?"))
	}
	return value.FromHash(h)
}

func (e *Evaluator) execConfigure(s *ast.ConfigureStatement, env *environment.Scope, frame *callFrame) (value.Value, signal, error) {
	cf := e.curConfig().child()
	for _, d := range s.Directives {
		if err := e.applyDirective(cf, d, env, frame); err != nil {
			return value.Value{}, noSignal, err
		}
	}
	if s.Body == nil {
		// File/scope-prelude form: stays in effect for the remainder of
		// the enclosing RunIn call, which trims the stack back on return.
		e.pushConfig(cf)
		return value.None(), noSignal, nil
	}
	e.pushConfig(cf)
	defer e.popConfig()
	return e.execBlock(s.Body, env, frame)
}

func (e *Evaluator) applyDirective(cf *configFrame, d ast.ConfigDirective, env *environment.Scope, frame *callFrame) error {
	switch d.Key {
	case "integer":
		cf.integer = true
	case "unsigned":
		cf.unsigned = true
	case "32bit":
		cf.bits = 32
	case "precision":
		if d.Value == nil {
			return nil
		}
		v, err := e.evalExpr(d.Value, env, frame)
		if err != nil {
			return err
		}
		cf.precision = int(v.Num)
	case "error_mode":
		if d.Value == nil {
			return nil
		}
		v, err := e.evalExpr(d.Value, env, frame)
		if err != nil {
			return err
		}
		cf.errorMode = v.Str
	}
	return nil
}

// assignName implements this design's implicit-self precedence for
// writes: inside a method, a bare name that is already a data field of
// self is written through self (graph mutation), never shadowed into
// the local environment; otherwise it follows ordinary scope-chain
// assignment.
func (e *Evaluator) assignName(env *environment.Scope, frame *callFrame, name string, v value.Value) {
	if frame != nil && frame.self.Kind == value.KindGraph && frame.self.Graph.HasDataField(name) {
		_ = frame.self.Graph.SetNodeValue(name, v)
		return
	}
	env.Assign(name, v)
}
