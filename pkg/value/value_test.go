package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected bool
	}{
		{"none", None(), false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero", Num(0), false},
		{"nonzero", Num(1), true},
		{"negative number", Num(-1), true},
		{"empty string", Str(""), false},
		{"nonempty string", Str("x"), true},
		{"empty list", FromList(NewList(nil)), false},
		{"nonempty list", FromList(NewList([]Value{Num(1)})), true},
		{"empty hash", FromHash(NewHash(nil)), false},
		{"nonempty hash", FromHash(NewHash(map[string]Value{"a": Num(1)})), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.v.Truthy())
		})
	}
}

func TestEquals(t *testing.T) {
	assert.True(t, Equals(Num(1), Num(1)))
	assert.False(t, Equals(Num(1), Num(2)))
	assert.False(t, Equals(Num(math.NaN()), Num(math.NaN())), "NaN never equals itself")
	assert.True(t, Equals(Str("a"), Str("a")))
	assert.False(t, Equals(Num(1), Str("1")), "different kinds never equal")
	assert.True(t, Equals(None(), None()))

	l1 := FromList(NewList([]Value{Num(1), Num(2)}))
	l2 := FromList(NewList([]Value{Num(1), Num(2)}))
	l3 := FromList(NewList([]Value{Num(1), Num(3)}))
	assert.True(t, Equals(l1, l2))
	assert.False(t, Equals(l1, l3))

	h1 := FromHash(NewHash(map[string]Value{"a": Num(1)}))
	h2 := FromHash(NewHash(map[string]Value{"a": Num(1)}))
	h3 := FromHash(NewHash(map[string]Value{"a": Num(2)}))
	assert.True(t, Equals(h1, h2))
	assert.False(t, Equals(h1, h3))
}

func TestLess_NoneOrderedBelowEverything(t *testing.T) {
	assert.True(t, Less(None(), Num(-1e9)))
	assert.False(t, Less(Num(1), None()))
	assert.True(t, Less(Num(1), Num(2)))
	assert.True(t, Less(Str("a"), Str("b")))
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected string
	}{
		{"none", None(), "none"},
		{"true", Bool(true), "true"},
		{"integer-valued float", Num(3), "3"},
		{"fractional", Num(3.5), "3.5"},
		{"string", Str("hi"), "hi"},
		{"symbol", Sym("foo"), ":foo"},
		{"list", FromList(NewList([]Value{Num(1), Str("a")})), `[1, "a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Display(tt.v))
		})
	}
}

func TestFormatNumber_SpecialValues(t *testing.T) {
	assert.Equal(t, "NaN", formatNumber(math.NaN()))
	assert.Equal(t, "Infinity", formatNumber(math.Inf(1)))
	assert.Equal(t, "-Infinity", formatNumber(math.Inf(-1)))
}
