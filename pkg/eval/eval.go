// Package eval implements Graphoid's tree-walking evaluator (this design
// §4.4): statement execution, expression evaluation, function and
// method dispatch (including mutation persistence and the class
// system of §4.4.6), value and graph pattern matching, and the error/
// try-catch model. It is the largest single component (this design
// gives it 25% of the system) and is the seam every other runtime
// package (pkg/value, pkg/environment, pkg/rule, pkg/behavior,
// pkg/graph, pkg/builtin) is built to be driven through.
package eval

import (
	"io"
	"os"

	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/ast"
	"github.com/xvandervort/graphoid/pkg/environment"
	"github.com/xvandervort/graphoid/pkg/value"
)

// ClassInfo is one `graph Name [from Parent] { ... }` declaration
//. Template is the merged prototype (parent's fields
// and methods, cloned, then overridden by this class's own) that
// `.new()` clones to produce an instance; OwnMethods is kept
// separately so `super.method(...)` can resolve to a parent's
// original definition even after a child overrides it.
type ClassInfo struct {
	Name       string
	Parent     string
	OwnMethods map[string]*value.Function
	Template   *value.Graph
}

// ModuleLoader is the seam pkg/module implements; kept
// as an interface here so pkg/eval never imports pkg/module (which
// itself must run a fresh Evaluator per loaded file).
type ModuleLoader interface {
	Import(fromDir, path string) (value.Value, error)
	Load(fromDir, path string) (map[string]value.Value, error)
}

// callFrame tracks the currently-executing method invocation so that
// implicit-self field resolution and `super` dispatch
// (§4.4.6) know what they're running inside.
type callFrame struct {
	self value.Value // KindNone if this is a plain function/lambda call
	fn   *value.Function
}

// Evaluator holds everything mutable across one program run: the
// global scope, the declared class table, the module loader seam, the
// `configure{}` directive stack (this design: "never put them in
// process-wide globals"), and the call-frame stack used for implicit
// self and super.
type Evaluator struct {
	Global  *environment.Scope
	Classes map[string]*ClassInfo
	Loader  ModuleLoader
	Out     io.Writer

	ModuleDir string // directory of the file currently being evaluated, for relative import resolution

	// MaxDepth caps user-function recursion depth so a runaway
	// recursion surfaces as a catchable error before the host stack
	// overflows.
	MaxDepth int

	configStack []*configFrame
	callStack   []*callFrame
	depth       int
}

// New builds an Evaluator with a fresh global scope and the built-in
// natives registered (pkg/builtin's print/len/json/yaml/string/hash
// functions, grounded on this design's Built-ins row).
func New() *Evaluator {
	e := &Evaluator{
		Global:      environment.New(),
		Classes:     map[string]*ClassInfo{},
		Out:         os.Stdout,
		MaxDepth:    1000,
		configStack: []*configFrame{defaultConfigFrame()},
	}
	registerGlobals(e)
	return e
}

// Run evaluates every top-level statement of prog against the global
// scope and returns the last expression-statement's value (the REPL's
// "print result" contract, this design), or an error on the first
// uncaught failure.
func (e *Evaluator) Run(prog *ast.Program) (value.Value, error) {
	return e.RunIn(prog, e.Global)
}

// RunIn evaluates prog's statements against a caller-supplied scope —
// used by the module loader to run a loaded file against that file's
// own root scope (this design's "module-level scope of each loaded
// module is its own root scope").
func (e *Evaluator) RunIn(prog *ast.Program, env *environment.Scope) (value.Value, error) {
	configBase := len(e.configStack)
	defer func() { e.configStack = e.configStack[:configBase] }()
	last := value.None()
	for _, stmt := range prog.Statements {
		v, sig, err := e.execStmt(stmt, env, nil)
		if err != nil {
			return value.Value{}, err
		}
		if sig.kind == sigReturn {
			return sig.value, nil
		}
		if sig.kind != sigNone {
			return value.Value{}, gerr.New(gerr.RuntimeError, pos(stmt), "break/continue outside a loop")
		}
		last = v
	}
	return last, nil
}

func (e *Evaluator) curFrame() *callFrame {
	if len(e.callStack) == 0 {
		return nil
	}
	return e.callStack[len(e.callStack)-1]
}

func (e *Evaluator) pushFrame(f *callFrame) { e.callStack = append(e.callStack, f) }
func (e *Evaluator) popFrame()              { e.callStack = e.callStack[:len(e.callStack)-1] }

func pos(n ast.Node) gerr.Position {
	p := n.Pos()
	return gerr.Position{Line: p.Line, Column: p.Column}
}
