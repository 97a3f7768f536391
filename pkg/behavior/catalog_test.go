package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvandervort/graphoid/pkg/value"
)

func installClean(t *testing.T, g *value.Graph, name string) {
	t.Helper()
	spec := Spec(name)
	require.NotNil(t, spec, "behavior %q must be a known built-in", name)
	require.NoError(t, g.AddBehavior(&value.BehaviorInstance{Spec: spec, Retro: value.RetroClean}))
}

func TestPositive_TransformsNegativeToAbsoluteValue(t *testing.T) {
	g := value.NewGraph("directed")
	installClean(t, g, "positive")
	v, err := g.AddNode("a", value.Num(-5))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Num)
}

func TestNoneToZero_ReplacesNoneOnInsertion(t *testing.T) {
	g := value.NewGraph("directed")
	installClean(t, g, "none_to_zero")
	v, err := g.AddNode("a", value.None())
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Num)
}

func TestNoneToZero_IdempotentWhenAppliedTwice(t *testing.T) {
	// Applying none_to_zero twice is the same as applying it once.
	g := value.NewGraph("directed")
	installClean(t, g, "none_to_zero")
	installClean(t, g, "none_to_zero")
	v, err := g.AddNode("a", value.None())
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Num)
}

func TestNegateIfNegative_FlipsNegativeNumbers(t *testing.T) {
	g := value.NewGraph("directed")
	installClean(t, g, "negate_if_negative")
	v, err := g.AddNode("a", value.Num(-5))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Num)

	v, err = g.AddNode("b", value.Num(5))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Num, "non-negative values pass through unchanged")
}

func TestUppercase_TransformsStrings(t *testing.T) {
	g := value.NewGraph("directed")
	installClean(t, g, "uppercase")
	v, err := g.AddNode("a", value.Str("hi"))
	require.NoError(t, err)
	assert.Equal(t, "HI", v.Str)
}

func TestRetroClean_TransformsExistingElements(t *testing.T) {
	g := value.NewGraph("directed")
	_, err := g.AddNode("a", value.Num(-3))
	require.NoError(t, err)
	installClean(t, g, "positive")
	assert.Equal(t, 3.0, g.Nodes["a"].Value.Num)
}

func TestRetroWarn_LeavesExistingDataUntouched(t *testing.T) {
	g := value.NewGraph("directed")
	_, err := g.AddNode("a", value.Num(-3))
	require.NoError(t, err)
	spec := Spec("positive")
	require.NoError(t, g.AddBehavior(&value.BehaviorInstance{Spec: spec, Retro: value.RetroWarn}))
	assert.Equal(t, -3.0, g.Nodes["a"].Value.Num)
}

func TestRetroEnforce_RejectsInstallationWhenExistingDataWouldChange(t *testing.T) {
	g := value.NewGraph("directed")
	_, err := g.AddNode("a", value.Num(-3))
	require.NoError(t, err)
	spec := Spec("positive")
	err = g.AddBehavior(&value.BehaviorInstance{Spec: spec, Retro: value.RetroEnforce})
	assert.Error(t, err)
}

func TestRetroEnforce_AcceptsInstallationWhenNothingWouldChange(t *testing.T) {
	g := value.NewGraph("directed")
	_, err := g.AddNode("a", value.Num(3))
	require.NoError(t, err)
	spec := Spec("positive")
	err = g.AddBehavior(&value.BehaviorInstance{Spec: spec, Retro: value.RetroEnforce})
	assert.NoError(t, err)
}

func TestBehaviorOrder_AppliedInInstallationOrder(t *testing.T) {
	// none_to_zero after positive is observably different from the
	// reverse order.
	g := value.NewGraph("directed")
	installClean(t, g, "positive")
	installClean(t, g, "none_to_zero")
	v, err := g.AddNode("a", value.None())
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Num, "positive leaves none untouched, then none_to_zero turns it into 0")
}

func TestValidateRange_RejectsOutOfBounds(t *testing.T) {
	g := value.NewGraph("directed")
	spec := ValidateRange(0, 10)
	require.NoError(t, g.AddBehavior(&value.BehaviorInstance{Spec: spec, Retro: value.RetroIgnore}))
	_, err := g.AddNode("a", value.Num(20))
	assert.Error(t, err)
}

func TestInertFreezeBehaviors_RegisterWithoutError(t *testing.T) {
	// Freeze-related behaviors are recognized by the parser but inert
	// until freeze() exists; registration must not error.
	for _, name := range []string{"no_frozen", "copy_elements", "shallow_freeze_only"} {
		g := value.NewGraph("directed")
		spec := Spec(name)
		require.NotNil(t, spec, "behavior %q must be registrable", name)
		assert.NoError(t, g.AddBehavior(&value.BehaviorInstance{Spec: spec, Retro: value.RetroIgnore}))
	}
}
