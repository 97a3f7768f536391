// Package builtin implements Graphoid's native function registry: the
// free functions and named transforms that pkg/eval wires into the
// global scope and the collection method table. One file per
// builtin-function family, each a Value-level transform.
package builtin

import (
	"fmt"

	"github.com/xvandervort/graphoid/pkg/value"
)

// NamedTransform looks up one of the registry entries `map`/`filter`/
// `reduce`/`each` accept by name instead of a lambda.
// Grounded on apoc/coll's collection-helper functions, reimplemented as
// Graphoid value transforms.
func NamedTransform(name string) (func(value.Value) (value.Value, error), bool) {
	fn, ok := namedTransforms[name]
	return fn, ok
}

var namedTransforms = map[string]func(value.Value) (value.Value, error){
	"double": numericTransform(func(n float64) float64 { return n * 2 }),
	"square": numericTransform(func(n float64) float64 { return n * n }),
	"even":   predicateTransform(func(n float64) bool { return int64(n)%2 == 0 }),
	"odd":    predicateTransform(func(n float64) bool { return int64(n)%2 != 0 }),
	"positive": predicateTransform(func(n float64) bool { return n > 0 }),
	"negative": predicateTransform(func(n float64) bool { return n < 0 }),
	"negate":    numericTransform(func(n float64) float64 { return -n }),
	"increment": numericTransform(func(n float64) float64 { return n + 1 }),
	"decrement": numericTransform(func(n float64) float64 { return n - 1 }),
	"truthy": func(v value.Value) (value.Value, error) {
		return value.Bool(v.Truthy()), nil
	},
}

func numericTransform(f func(float64) float64) func(value.Value) (value.Value, error) {
	return func(v value.Value) (value.Value, error) {
		if v.Kind != value.KindNumber {
			return value.Value{}, fmt.Errorf("named transform requires a number, got %s", value.TypeName(v))
		}
		return value.Num(f(v.Num)), nil
	}
}

func predicateTransform(f func(float64) bool) func(value.Value) (value.Value, error) {
	return func(v value.Value) (value.Value, error) {
		if v.Kind != value.KindNumber {
			return value.Value{}, fmt.Errorf("named transform requires a number, got %s", value.TypeName(v))
		}
		return value.Bool(f(v.Num)), nil
	}
}
