package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tristendillon/capnp-stubgen/core/errors"
)

func TestRootScopeInvariant(t *testing.T) {
	root := NewRoot(1)
	assert.True(t, root.IsRoot())
	assert.Empty(t, root.Name)
	assert.Equal(t, 0, root.Indent())

	_, err := NewChild("", 2, root, root)
	assert.Error(t, err, "only the root may be unnamed")

	_, err = NewChild("Orphan", 2, nil, root)
	assert.Error(t, err)
}

func TestTraceAndIndent(t *testing.T) {
	root := NewRoot(1)
	outer, err := NewChild("Outer", 2, root, root)
	require.NoError(t, err)
	inner, err := NewChild("Inner", 3, outer, outer)
	require.NoError(t, err)

	assert.Equal(t, "Outer.Inner", inner.String())
	assert.Equal(t, "Outer_Inner", inner.TraceString("_"))
	assert.Equal(t, "", root.TraceString("_"))
	assert.Equal(t, 8, inner.Indent())
	assert.Equal(t, root, inner.Root())

	parents := inner.Parents()
	require.Len(t, parents, 2)
	assert.Equal(t, root, parents[0])
	assert.Equal(t, outer, parents[1])
}

func TestAddIndentsLines(t *testing.T) {
	root := NewRoot(1)
	child, err := NewChild("Thing", 2, root, root)
	require.NoError(t, err)

	root.Add("class Thing:")
	child.Add("x: int")
	child.Add("")

	assert.Equal(t, []string{"class Thing:"}, root.Lines)
	assert.Equal(t, []string{"    x: int", ""}, child.Lines)
}

func TestScopedName(t *testing.T) {
	root := NewRoot(1)
	outer, err := NewChild("Outer", 2, root, root)
	require.NoError(t, err)

	atRoot := &DeclaredType{Name: "Thing", Scope: root}
	nested := &DeclaredType{Name: "Thing", Scope: outer}

	assert.Equal(t, "Thing", atRoot.ScopedName())
	assert.Equal(t, "Outer.Thing", nested.ScopedName())
}

func TestTypeRegistryLookup(t *testing.T) {
	registry := NewTypeRegistry()

	assert.False(t, registry.Known(42))
	_, err := registry.Lookup(42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTypeIdentity))

	declared := registry.Register(42, &DeclaredType{Name: "Thing"})
	assert.True(t, registry.Known(42))

	found, err := registry.Lookup(42)
	require.NoError(t, err)
	assert.Same(t, declared, found)
}
