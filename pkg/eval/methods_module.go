package eval

import (
	"sort"

	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/value"
)

var moduleMethodNames = setOf("name", "path", "exports")

// callModuleMethod implements the Module value's documented surface
//: `name`, `path`, and `exports()`. Plain field-style
// reads (`m.x`) go through evalMember instead; these are the callable
// forms.
func (e *Evaluator) callModuleMethod(recv value.Value, name string, args []value.Value, p gerr.Position) (value.Value, error) {
	m := recv.Mod
	switch name {
	case "name":
		return value.Str(m.Name), nil
	case "path":
		return value.Str(m.Path), nil
	case "exports":
		names := m.Exports()
		sort.Strings(names)
		out := make([]value.Value, len(names))
		for i, n := range names {
			out[i] = value.Str(n)
		}
		return value.FromList(value.NewList(out)), nil
	default:
		return value.Value{}, gerr.New(gerr.NameError, p, "module has no method %q", name)
	}
}
