package eval

import (
	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/builtin"
	"github.com/xvandervort/graphoid/pkg/value"
)

var stringMethodNames = setOf(
	"len", "length", "upper", "lower", "trim", "split", "contains?",
	"starts_with?", "ends_with?", "to_json", "to_yaml",
)

// callStringMethod implements the string built-ins of SPEC_FULL.md's
// supplemented features (grounded on apoc/text, pkg/builtin/text.go).
func (e *Evaluator) callStringMethod(recv value.Value, name string, args []value.Value, p gerr.Position) (value.Value, error) {
	s := recv.Str
	switch name {
	case "len", "length":
		return value.Num(float64(len([]rune(s)))), nil
	case "upper":
		return value.Str(builtin.Upper(s)), nil
	case "lower":
		return value.Str(builtin.Lower(s)), nil
	case "trim":
		return value.Str(builtin.Trim(s)), nil
	case "split":
		sep := ""
		if len(args) > 0 && args[0].Kind == value.KindString {
			sep = args[0].Str
		}
		parts := builtin.Split(s, sep)
		out := make([]value.Value, len(parts))
		for i, part := range parts {
			out[i] = value.Str(part)
		}
		return value.FromList(value.NewList(out)), nil
	case "contains?":
		sub, err := argString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(builtin.Contains(s, sub)), nil
	case "starts_with?":
		prefix, err := argString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(builtin.StartsWith(s, prefix)), nil
	case "ends_with?":
		suffix, err := argString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(builtin.EndsWith(s, suffix)), nil
	case "to_json":
		j, err := builtin.ToJSON(recv)
		if err != nil {
			return value.Value{}, gerr.Wrap(gerr.RuntimeError, p, err, "to_json")
		}
		return value.Str(j), nil
	case "to_yaml":
		y, err := builtin.ToYAML(recv)
		if err != nil {
			return value.Value{}, gerr.Wrap(gerr.RuntimeError, p, err, "to_yaml")
		}
		return value.Str(y), nil
	default:
		return value.Value{}, gerr.New(gerr.NameError, p, "string has no method %q", name)
	}
}
