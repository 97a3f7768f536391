package value

import "github.com/xvandervort/graphoid/pkg/ast"

// FnKind distinguishes the four Function payload shapes.
type FnKind int

const (
	FnNative FnKind = iota
	FnUser
	FnPattern
	FnLambda
)

// Caller lets a native function invoke a Graphoid Function Value
// (e.g. `list.map(some_lambda)`) without pkg/value depending on the
// evaluator package; pkg/eval implements Caller and passes itself to
// every native call.
type Caller interface {
	Call(fn Value, args []Value) (Value, error)
}

// NativeFunc is the Go implementation behind a built-in Function.
type NativeFunc func(c Caller, args []Value) (Value, error)

// Function is the payload of a Function Value: a user-defined
// function (params + body + captured environment), a native builtin,
// a pattern-matching function (ordered clauses), or an anonymous
// lambda.
type Function struct {
	Kind FnKind
	Name string // "" for lambdas

	Params []string
	Body   []ast.Statement   // FnUser
	Expr   ast.Expression    // FnLambda single-expression body
	Clauses []*ast.FunctionClause // FnPattern, or a multi-clause FnLambda

	// Env holds *environment.Scope, the environment captured at
	// definition time. It is typed `any` rather than a concrete
	// *environment.Scope to avoid an import cycle: a Scope stores
	// Values, and a Function Value captures a Scope.
	Env any

	Native NativeFunc
	Arity  int // -1 = native checks its own arity

	IsStatic bool // true if the body never references `self`
	Private  bool

	// DefiningClass names the graph-class a method was
	// declared on, empty for plain functions/lambdas. The evaluator uses
	// it to resolve `super.method(...)` to the right parent class.
	DefiningClass string
}
