package eval

import (
	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/value"
)

var matchResultsMethodNames = setOf(
	"where", "return_vars", "return_properties", "len", "length",
)

// callMatchResultsMethod implements this design's PatternMatchResults
// projections: `where`, `return_vars`, `return_properties`.
func (e *Evaluator) callMatchResultsMethod(recv value.Value, name string, args []value.Value, p gerr.Position) (value.Value, error) {
	r := recv.Results
	switch name {
	case "len", "length":
		return value.Num(float64(len(r.Bindings))), nil
	case "where":
		if len(args) == 0 || args[0].Kind != value.KindFunction {
			return value.Value{}, gerr.New(gerr.TypeError, p, "where() requires a function")
		}
		pred := args[0]
		filtered, err := r.Where(func(binding map[string]value.Value) (bool, error) {
			h := value.NewHash(binding)
			v, err := e.Call(pred, []value.Value{value.FromHash(h)})
			if err != nil {
				return false, err
			}
			return v.Truthy(), nil
		})
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindMatchResults, Results: filtered}, nil
	case "return_vars":
		names, err := stringListArg(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromList(r.ReturnVars(names)), nil
	case "return_properties":
		paths, err := stringListArg(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromList(r.ReturnProperties(paths)), nil
	default:
		return value.Value{}, gerr.New(gerr.NameError, p, "pattern_match_results has no method %q", name)
	}
}

// stringListArg reads a List-of-String argument (the `["a", "b"]` form
// return_vars/return_properties take, this design) into a []string.
func stringListArg(args []value.Value, i int, p gerr.Position) ([]string, error) {
	if i >= len(args) || args[i].Kind != value.KindList {
		return nil, gerr.New(gerr.TypeError, p, "expected a list of strings at position %d", i)
	}
	elems := args[i].List.Elements()
	out := make([]string, len(elems))
	for j, e := range elems {
		if e.Kind != value.KindString && e.Kind != value.KindSymbol {
			return nil, gerr.New(gerr.TypeError, p, "expected a string at list position %d", j)
		}
		out[j] = e.Str
	}
	return out, nil
}
