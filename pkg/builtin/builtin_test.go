package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvandervort/graphoid/pkg/value"
)

func TestNamedTransform_Double(t *testing.T) {
	fn, ok := NamedTransform("double")
	require.True(t, ok)
	v, err := fn(value.Num(3))
	require.NoError(t, err)
	assert.Equal(t, 6.0, v.Num)
}

func TestNamedTransform_Unknown(t *testing.T) {
	_, ok := NamedTransform("frobnicate")
	assert.False(t, ok)
}

func TestNamedTransform_EvenOdd(t *testing.T) {
	even, ok := NamedTransform("even")
	require.True(t, ok)
	v, err := even(value.Num(4))
	require.NoError(t, err)
	assert.True(t, v.Bool)

	odd, ok := NamedTransform("odd")
	require.True(t, ok)
	v2, err := odd(value.Num(4))
	require.NoError(t, err)
	assert.False(t, v2.Bool)
}

func TestNamedTransform_RejectsNonNumber(t *testing.T) {
	fn, ok := NamedTransform("square")
	require.True(t, ok)
	_, err := fn(value.Str("x"))
	assert.Error(t, err)
}

func TestToJSON_FromJSON_RoundTrip(t *testing.T) {
	h := value.NewHash(map[string]value.Value{"a": value.Num(1), "b": value.Str("x")})
	s, err := ToJSON(value.FromHash(h))
	require.NoError(t, err)

	back, err := FromJSON(s)
	require.NoError(t, err)
	require.Equal(t, value.KindHash, back.Kind)

	av, ok := back.Hash.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, av.Num)
	bv, ok := back.Hash.Get("b")
	require.True(t, ok)
	assert.Equal(t, "x", bv.Str)
}

func TestToYAML_FromYAML_RoundTrip(t *testing.T) {
	l := value.NewList([]value.Value{value.Num(1), value.Num(2), value.Num(3)})
	s, err := ToYAML(value.FromList(l))
	require.NoError(t, err)

	back, err := FromYAML(s)
	require.NoError(t, err)
	require.Equal(t, value.KindList, back.Kind)
	assert.Equal(t, 3, back.List.Len())
}

func TestHashDiff_ReportsOnlyChangedAndMissingKeys(t *testing.T) {
	a := value.NewHash(map[string]value.Value{"x": value.Num(1), "y": value.Num(2), "z": value.Num(9)})
	b := value.NewHash(map[string]value.Value{"x": value.Num(1), "y": value.Num(3), "w": value.Num(7)})
	d := HashDiff(a, b)

	changedV, ok := d.Get("changed")
	require.True(t, ok)
	yPair, ok := changedV.Hash.Get("y")
	require.True(t, ok, "y changed from 2 to 3 and must be reported")
	_, xInChanged := changedV.Hash.Get("x")
	assert.False(t, xInChanged, "identical keys must not appear in changed")
	newV, _ := yPair.Hash.Get("new")
	assert.Equal(t, 3.0, newV.Num)

	onlyFirst, ok := d.Get("only_in_first")
	require.True(t, ok)
	_, zOnlyA := onlyFirst.Hash.Get("z")
	assert.True(t, zOnlyA)

	onlySecond, ok := d.Get("only_in_second")
	require.True(t, ok)
	_, wOnlyB := onlySecond.Hash.Get("w")
	assert.True(t, wOnlyB)
}

func TestSecureHash_StableForEqualValues(t *testing.T) {
	h1, err := SecureHash(value.Str("hello"))
	require.NoError(t, err)
	h2, err := SecureHash(value.Str("hello"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := SecureHash(value.Str("world"))
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "HI", Upper("hi"))
	assert.Equal(t, "hi", Lower("HI"))
	assert.Equal(t, "hi", Trim("  hi  "))
	assert.Equal(t, []string{"a", "b", "c"}, Split("a,b,c", ","))
	assert.Equal(t, "a,b,c", Join([]string{"a", "b", "c"}, ","))
	assert.True(t, Contains("hello", "ell"))
	assert.True(t, StartsWith("hello", "he"))
	assert.True(t, EndsWith("hello", "lo"))
}
