package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xvandervort/graphoid/pkg/value"
)

func TestScope_DefineAndGet(t *testing.T) {
	s := New()
	s.Define("x", value.Num(1))
	v, ok := s.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v.Num)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestScope_ChildShadowsParent(t *testing.T) {
	parent := New()
	parent.Define("x", value.Num(1))
	child := parent.Child()
	child.Define("x", value.Num(2))

	v, _ := child.Get("x")
	assert.Equal(t, 2.0, v.Num, "child binding shadows parent")

	pv, _ := parent.Get("x")
	assert.Equal(t, 1.0, pv.Num, "defining in child must not mutate parent")
}

func TestScope_ChildInheritsParentBindings(t *testing.T) {
	parent := New()
	parent.Define("y", value.Str("hi"))
	child := parent.Child()

	v, ok := child.Get("y")
	assert.True(t, ok)
	assert.Equal(t, "hi", v.Str)
}

func TestScope_AssignUpdatesOwningScope(t *testing.T) {
	parent := New()
	parent.Define("x", value.Num(1))
	child := parent.Child()

	child.Assign("x", value.Num(99))

	v, _ := parent.Get("x")
	assert.Equal(t, 99.0, v.Num, "assign to a name bound in an outer scope updates that scope")
	_, ok := child.Get("x")
	assert.True(t, ok)
}

func TestScope_AssignToUnboundNameDefinesLocally(t *testing.T) {
	parent := New()
	child := parent.Child()

	child.Assign("z", value.Num(5))

	_, ok := parent.Get("z")
	assert.False(t, ok, "an unbound name must be defined in the current scope, not the parent")
	v, ok := child.Get("z")
	assert.True(t, ok)
	assert.Equal(t, 5.0, v.Num)
}

func TestScope_Names_OnlyDirectBindings(t *testing.T) {
	parent := New()
	parent.Define("a", value.Num(1))
	child := parent.Child()
	child.Define("b", value.Num(2))

	names := child.Names()
	assert.ElementsMatch(t, []string{"b"}, names)
}

func TestScope_Parent(t *testing.T) {
	root := New()
	assert.Nil(t, root.Parent())
	child := root.Child()
	assert.Equal(t, root, child.Parent())
}
