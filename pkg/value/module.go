package value

// Module is the value produced by `import "path"`: a
// namespace exposing the loaded file's non-private top-level bindings,
// plus the bookkeeping (Name, Path) a Module value exposes directly.
type Module struct {
	Name      string
	Path      string
	Namespace map[string]Value
}

// NewModule builds a Module from a resolved path and its exported
// bindings.
func NewModule(name, path string, namespace map[string]Value) *Module {
	return &Module{Name: name, Path: path, Namespace: namespace}
}

// Get looks up an exported name.
func (m *Module) Get(name string) (Value, bool) {
	v, ok := m.Namespace[name]
	return v, ok
}

// Exports returns every exported name (the keys of its namespace,
// this design).
func (m *Module) Exports() []string {
	out := make([]string, 0, len(m.Namespace))
	for k := range m.Namespace {
		out = append(out, k)
	}
	return out
}
