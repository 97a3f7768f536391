package eval

import (
	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/ast"
	"github.com/xvandervort/graphoid/pkg/environment"
	"github.com/xvandervort/graphoid/pkg/value"
)

// execImport implements `import "path" [as alias]`: it
// hands resolution and execution to the Loader seam (pkg/module, kept
// behind the ModuleLoader interface so this package never imports the
// loader directly) and binds the resulting Module Value under alias,
// or the module's own declared name if no alias was given.
func (e *Evaluator) execImport(s *ast.ImportStatement, env *environment.Scope) (value.Value, signal, error) {
	if e.Loader == nil {
		return value.Value{}, noSignal, gerr.New(gerr.ModuleNotFound, pos(s), "import %q: no module loader configured", s.Path)
	}
	mod, err := e.Loader.Import(e.ModuleDir, s.Path)
	if err != nil {
		return value.Value{}, noSignal, err
	}
	name := s.Alias
	if name == "" {
		name = mod.Mod.Name
	}
	env.Define(name, mod)
	return value.None(), noSignal, nil
}

// execLoad implements `load "path"`: resolve and execute
// the file, then merge every exported top-level binding directly into
// the current scope (no module namespace wrapper).
func (e *Evaluator) execLoad(s *ast.LoadStatement, env *environment.Scope) (value.Value, signal, error) {
	if e.Loader == nil {
		return value.Value{}, noSignal, gerr.New(gerr.ModuleNotFound, pos(s), "load %q: no module loader configured", s.Path)
	}
	bindings, err := e.Loader.Load(e.ModuleDir, s.Path)
	if err != nil {
		return value.Value{}, noSignal, err
	}
	for name, v := range bindings {
		env.Define(name, v)
	}
	return value.None(), noSignal, nil
}
