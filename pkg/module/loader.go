// Package module implements Graphoid's module loader:
// resolution of `import`/`load` paths across relative, project-root,
// and standard-library search locations, canonical-path caching,
// cycle detection, and running a loaded file against its own fresh
// root scope. It sits behind pkg/eval's ModuleLoader interface rather
// than being imported by pkg/eval directly, because a Loader must run
// a fresh *eval.Evaluator per loaded file (pkg/eval must not import
// the package that imports it).
package module

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/internal/rtlog"
	"github.com/xvandervort/graphoid/pkg/ast"
	"github.com/xvandervort/graphoid/pkg/environment"
	"github.com/xvandervort/graphoid/pkg/eval"
	"github.com/xvandervort/graphoid/pkg/parser"
	"github.com/xvandervort/graphoid/pkg/value"
)

const (
	fileExt = ".gr"
	modFile = "mod.gr"
)

// Loader resolves, caches, and executes Graphoid source files on
// behalf of `import`/`load` statements. One Loader is shared by every
// Evaluator spawned while running a program, so the cache and cycle
// stack are process-wide for that run (this design's "the loader
// keeps a map from canonical resolved path to module Value").
type Loader struct {
	// ProjectRoot is the directory containing the nearest ancestor
	// graphoid.toml, or "" if none was found.
	ProjectRoot string
	// StdlibDir is the embedded/installed standard-library directory,
	// or "" to disable stdlib resolution.
	StdlibDir string

	cache   map[string]value.Value
	loading []string
}

// New builds a Loader rooted at projectRoot (may be "") and resolving
// against stdlibDir (may be "").
func New(projectRoot, stdlibDir string) *Loader {
	return &Loader{
		ProjectRoot: projectRoot,
		StdlibDir:   stdlibDir,
		cache:       map[string]value.Value{},
	}
}

// Import implements eval.ModuleLoader: resolve path relative to
// fromDir, run it (if not already cached), and return its Module
// Value.
func (l *Loader) Import(fromDir, path string) (value.Value, error) {
	resolved, err := l.resolve(fromDir, path)
	if err != nil {
		return value.Value{}, err
	}
	if v, ok := l.cache[resolved]; ok {
		return v, nil
	}
	if err := l.enterLoading(resolved); err != nil {
		return value.Value{}, err
	}
	defer l.exitLoading()

	prog, dir, err := l.parseFile(resolved)
	if err != nil {
		return value.Value{}, err
	}

	sub := eval.New()
	sub.Loader = l
	sub.ModuleDir = dir
	if _, err := sub.RunIn(prog, sub.Global); err != nil {
		return value.Value{}, err
	}

	name := moduleName(prog, resolved)
	mod := value.NewModule(name, resolved, exportNamespace(sub.Global))
	v := value.FromModule(mod)
	l.cache[resolved] = v
	rtlog.Debug("imported %s as %q (%d exports)", resolved, name, len(mod.Namespace))
	return v, nil
}

// Load implements eval.ModuleLoader: resolve path relative to fromDir,
// run it, and return every exported top-level binding for the caller
// to merge directly into its own scope (this design's `load`, "no
// module namespace"). Unlike Import, the bindings are not cached —
// each `load` re-executes the file, matching its "merge" semantics.
func (l *Loader) Load(fromDir, path string) (map[string]value.Value, error) {
	resolved, err := l.resolve(fromDir, path)
	if err != nil {
		return nil, err
	}
	if err := l.enterLoading(resolved); err != nil {
		return nil, err
	}
	defer l.exitLoading()

	prog, dir, err := l.parseFile(resolved)
	if err != nil {
		return nil, err
	}

	sub := eval.New()
	sub.Loader = l
	sub.ModuleDir = dir
	if _, err := sub.RunIn(prog, sub.Global); err != nil {
		return nil, err
	}
	rtlog.Debug("loaded %s (%d bindings)", resolved, len(sub.Global.Names()))
	return exportNamespace(sub.Global), nil
}

func (l *Loader) parseFile(resolved string) (*ast.Program, string, error) {
	src, err := os.ReadFile(resolved)
	if err != nil {
		return nil, "", gerr.New(gerr.ModuleNotFound, gerr.Position{}, "reading %s: %v", resolved, err)
	}
	prog, err := parser.Parse(string(src))
	if err != nil {
		return nil, "", err
	}
	return prog, filepath.Dir(resolved), nil
}

func (l *Loader) enterLoading(resolved string) error {
	for _, p := range l.loading {
		if p == resolved {
			chain := append(append([]string{}, l.loading...), resolved)
			return gerr.New(gerr.CircularImport, gerr.Position{}, "circular import: %s", strings.Join(chain, " -> "))
		}
	}
	l.loading = append(l.loading, resolved)
	return nil
}

func (l *Loader) exitLoading() {
	l.loading = l.loading[:len(l.loading)-1]
}

// resolve applies this design's priority order: relative path,
// project src/ then lib/, then the embedded stdlib directory.
func (l *Loader) resolve(fromDir, path string) (string, error) {
	var candidates []string
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") {
		candidates = append(candidates, filepath.Join(fromDir, path))
	} else {
		if l.ProjectRoot != "" {
			candidates = append(candidates,
				filepath.Join(l.ProjectRoot, "src", path),
				filepath.Join(l.ProjectRoot, "lib", path),
			)
		}
		if l.StdlibDir != "" {
			candidates = append(candidates, filepath.Join(l.StdlibDir, path))
		}
	}
	for _, c := range candidates {
		if found, ok := resolveCandidate(c); ok {
			abs, err := filepath.Abs(found)
			if err != nil {
				return "", gerr.New(gerr.RuntimeError, gerr.Position{}, "resolving %q: %v", path, err)
			}
			return abs, nil
		}
	}
	return "", gerr.New(gerr.ModuleNotFound, gerr.Position{}, "module %q not found (searched: %s)", path, strings.Join(candidates, ", "))
}

// resolveCandidate checks base as a file (with and without the .gr
// extension) and, if base is a directory, for a mod.gr file inside it
// (this design: "a directory with a mod.gr file is a module whose
// namespace is the directory name").
func resolveCandidate(base string) (string, bool) {
	if info, err := os.Stat(base); err == nil {
		if info.IsDir() {
			modPath := filepath.Join(base, modFile)
			if _, err := os.Stat(modPath); err == nil {
				return modPath, true
			}
			return "", false
		}
		return base, true
	}
	withExt := base + fileExt
	if info, err := os.Stat(withExt); err == nil && !info.IsDir() {
		return withExt, true
	}
	return "", false
}

// moduleName determines the bound name for an `import` with no
// explicit `as alias`: the file's own `module <name>` declaration if
// present, otherwise the file stem (or, for a mod.gr, its containing
// directory's name).
func moduleName(prog *ast.Program, resolved string) string {
	for _, stmt := range prog.Statements {
		if decl, ok := stmt.(*ast.ModuleDecl); ok {
			if decl.Alias != "" {
				return decl.Alias
			}
			return decl.Name
		}
	}
	if filepath.Base(resolved) == modFile {
		return filepath.Base(filepath.Dir(resolved))
	}
	stem := filepath.Base(resolved)
	return strings.TrimSuffix(stem, filepath.Ext(stem))
}

// exportNamespace reads every top-level binding out of a finished
// module's root scope, excluding functions explicitly marked `priv`
// (this design's "non-internal top-level binding"; the module loader
// has no other notion of top-level privacy to draw on, so it reuses
// the same Private flag a graph's own method table already respects).
func exportNamespace(global *environment.Scope) map[string]value.Value {
	out := map[string]value.Value{}
	for _, name := range global.Names() {
		v, _ := global.Get(name)
		if v.Kind == value.KindFunction && v.Fn != nil {
			// Native built-ins are registered into every root scope; they
			// are runtime furniture, not the module's own surface.
			if v.Fn.Private || v.Fn.Kind == value.FnNative {
				continue
			}
		}
		out[name] = v
	}
	return out
}
