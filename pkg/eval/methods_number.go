package eval

import (
	"math"

	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/value"
)

var numberMethodNames = setOf(
	"abs", "round", "floor", "ceil", "to_s",
)

// callNumberMethod implements a small set of numeric convenience
// methods (this design specifies operators; these method forms are
// the receiver-call equivalents a tree-walking evaluator naturally
// offers alongside them).
func (e *Evaluator) callNumberMethod(recv value.Value, name string, args []value.Value, p gerr.Position) (value.Value, error) {
	n := recv.Num
	switch name {
	case "abs":
		return value.Num(math.Abs(n)), nil
	case "round":
		return value.Num(math.Round(n)), nil
	case "floor":
		return value.Num(math.Floor(n)), nil
	case "ceil":
		return value.Num(math.Ceil(n)), nil
	case "to_s":
		return value.Str(value.Display(recv)), nil
	default:
		return value.Value{}, gerr.New(gerr.NameError, p, "number has no method %q", name)
	}
}
