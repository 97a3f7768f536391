// Package behavior is Graphoid's behavior engine catalog (this design
// §4.7): the built-in BehaviorSpecs installed via `add_behavior(...)`.
// Behaviors transform a value before rules see it; the
// BehaviorInstance/BehaviorSpec machinery itself lives in pkg/value
// alongside Graph for the same mutual-recursion reason documented
// there. This package is the catalog, mirroring pkg/rule's split.
package behavior

import (
	"fmt"
	"math"
	"strings"

	"github.com/xvandervort/graphoid/pkg/value"
)

// Spec looks up a parameterless built-in behavior by name, or nil if
// name is unknown or requires Params (use the *WithParams constructors
// below for those).
func Spec(name string) *value.BehaviorSpec {
	switch name {
	case "none_to_zero":
		return noneToZeroSpec
	case "none_to_empty":
		return noneToEmptySpec
	case "positive":
		return positiveSpec
	case "negate_if_negative":
		return negateIfNegativeSpec
	case "round_to_int":
		return roundToIntSpec
	case "uppercase":
		return uppercaseSpec
	case "lowercase":
		return lowercaseSpec
	case "maintain_order":
		return nil // installed via InstallOrdering, it needs a comparator
	case "no_frozen", "copy_elements", "shallow_freeze_only":
		return inertSpec(name)
	default:
		return nil
	}
}

var noneToZeroSpec = &value.BehaviorSpec{
	Name: "none_to_zero",
	Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
		if v.IsNone() {
			return value.Num(0), nil
		}
		return v, nil
	},
}

var noneToEmptySpec = &value.BehaviorSpec{
	Name: "none_to_empty",
	Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
		if v.IsNone() {
			return value.Str(""), nil
		}
		return v, nil
	},
}

var positiveSpec = &value.BehaviorSpec{
	Name: "positive",
	Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
		if v.Kind == value.KindNumber {
			return value.Num(math.Abs(v.Num)), nil
		}
		return v, nil
	},
}

// negateIfNegativeSpec is the :negate_if_negative behavior: flips a
// negative number to its positive counterpart on insertion (non-number
// values pass through untouched). Unlike :positive (which takes the
// absolute value the same way), this is named for the case where a
// rule installed alongside it (e.g. :positive) must see the
// transformed, non-negative value rather than the original.
var negateIfNegativeSpec = &value.BehaviorSpec{
	Name: "negate_if_negative",
	Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
		if v.Kind == value.KindNumber && v.Num < 0 {
			return value.Num(-v.Num), nil
		}
		return v, nil
	},
}

var roundToIntSpec = &value.BehaviorSpec{
	Name: "round_to_int",
	Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
		if v.Kind == value.KindNumber {
			return value.Num(math.Round(v.Num)), nil
		}
		return v, nil
	},
}

var uppercaseSpec = &value.BehaviorSpec{
	Name: "uppercase",
	Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
		if v.Kind == value.KindString {
			return value.Str(strings.ToUpper(v.Str)), nil
		}
		return v, nil
	},
}

var lowercaseSpec = &value.BehaviorSpec{
	Name: "lowercase",
	Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
		if v.Kind == value.KindString {
			return value.Str(strings.ToLower(v.Str)), nil
		}
		return v, nil
	},
}

// inertSpec covers freeze-related behaviors this design says must be
// recognized (so add_behavior(:no_frozen) never errors) but which have
// no runtime effect since Graphoid has no freeze/copy-on-write model.
func inertSpec(name string) *value.BehaviorSpec {
	return &value.BehaviorSpec{
		Name: name,
		Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
			return v, nil
		},
	}
}

// ValidateRange builds the :validate_range(min, max) behavior: values
// outside [min, max] are rejected outright (the Transform returns an
// error, which AddNode/AddBehavior surfaces as the add failing).
func ValidateRange(min, max float64) *value.BehaviorSpec {
	return &value.BehaviorSpec{
		Name: "validate_range",
		Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
			if v.Kind != value.KindNumber {
				return v, nil
			}
			if v.Num < min || v.Num > max {
				return value.Value{}, fmt.Errorf("value %v outside validate_range(%v, %v)", v.Num, min, max)
			}
			return v, nil
		},
	}
}

// Mapping builds the generic mapping behavior: looks v up in table by
// its Display form, substituting the mapped value; when no entry
// matches it returns fallback if one was given (hasFallback), else v
// itself.
func Mapping(table *value.Hash, fallback value.Value, hasFallback bool) *value.BehaviorSpec {
	return &value.BehaviorSpec{
		Name: "mapping",
		Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
			if mapped, ok := table.Get(value.Display(v)); ok {
				return mapped, nil
			}
			if hasFallback {
				return fallback, nil
			}
			return v, nil
		},
	}
}

// CustomCaller lets the Function behavior (and the Evaluator generally)
// invoke a user/lambda Function value without pkg/behavior depending on
// pkg/eval, mirroring value.Caller.
type CustomCaller interface {
	Call(fn value.Value, args []value.Value) (value.Value, error)
}

// Custom builds the custom-function behavior: `add_behavior(fn)` runs
// fn(v) and uses its result as the transformed value.
func Custom(caller CustomCaller, fn value.Value) *value.BehaviorSpec {
	return &value.BehaviorSpec{
		Name: "custom",
		Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
			return caller.Call(fn, []value.Value{v})
		},
	}
}

// Conditional builds the conditional behavior: runs transform(v) if
// predicate(v) is truthy, else fallback(v) if provided, else v as-is.
func Conditional(caller CustomCaller, predicate, transform value.Value, fallback *value.Value) *value.BehaviorSpec {
	return &value.BehaviorSpec{
		Name: "conditional",
		Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
			cond, err := caller.Call(predicate, []value.Value{v})
			if err != nil {
				return value.Value{}, err
			}
			if cond.Truthy() {
				return caller.Call(transform, []value.Value{v})
			}
			if fallback != nil {
				return caller.Call(*fallback, []value.Value{v})
			}
			return v, nil
		},
	}
}

// orderingPassThrough is the :ordering(cmp)/:maintain_order behavior.
// It does not itself reposition anything — it is a pass-through
// Transform — because the actual sorted-insertion logic lives in
// value.List.AppendInPlace, driven by Graph.OrderCmp; see
// InstallOrdering.
var orderingPassThrough = &value.BehaviorSpec{
	Name: "ordering",
	Transform: func(_ *value.Graph, v value.Value, _ map[string]value.Value) (value.Value, error) {
		return v, nil
	},
}

// InstallOrdering wraps a user comparator Function (this design's
// `:ordering(cmp)`) into a less-than closure and returns it together
// with the pass-through behavior spec to register. It touches no
// graph: the caller assigns the closure to Graph.OrderCmp, which
// switches List.AppendInPlace to sorted insertion.
func InstallOrdering(caller CustomCaller, cmp value.Value) (*value.BehaviorSpec, func(a, b value.Value) (bool, error)) {
	less := func(a, b value.Value) (bool, error) {
		result, err := caller.Call(cmp, []value.Value{a, b})
		if err != nil {
			return false, err
		}
		return result.Truthy(), nil
	}
	return orderingPassThrough, less
}

// MaintainOrder builds the default :maintain_order comparator (natural
// ascending order via value.Less).
func MaintainOrder() (*value.BehaviorSpec, func(a, b value.Value) (bool, error)) {
	return orderingPassThrough, func(a, b value.Value) (bool, error) { return value.Less(a, b), nil }
}
