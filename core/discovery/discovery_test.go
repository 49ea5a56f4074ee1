package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# fixture\n"), 0o644))
	return path
}

func TestResolveIncludesAndExcludes(t *testing.T) {
	root := t.TempDir()
	topLevel := writeFile(t, root, "a.capnp")
	nested := writeFile(t, root, "sub", "b.capnp")
	excluded := writeFile(t, root, "vendor", "c.capnp")

	set, err := Resolve(Options{
		Root:      root,
		Paths:     []string{"**/*.capnp"},
		Excludes:  []string{"vendor/**/*.capnp", "vendor/*.capnp"},
		Recursive: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{topLevel, nested}, set.Schemas)
	assert.NotContains(t, set.Schemas, excluded)
	assert.Empty(t, set.Cleanup)
}

func TestResolveNonRecursiveDegradesDoubleStar(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.capnp")
	nested := writeFile(t, root, "sub", "b.capnp")

	set, err := Resolve(Options{
		Root:      root,
		Paths:     []string{"**/*.capnp"},
		Recursive: false,
	})
	require.NoError(t, err)

	// With recursion disabled, "**" collapses to a single level.
	assert.Equal(t, []string{nested}, set.Schemas)
}

func TestResolveCleanupAndRemove(t *testing.T) {
	root := t.TempDir()
	schema := writeFile(t, root, "a.capnp")
	stalePyi := writeFile(t, root, "a_capnp.pyi")
	stalePy := writeFile(t, root, "sub", "b_capnp.py")

	set, err := Resolve(Options{
		Root:      root,
		Paths:     []string{"**/*.capnp"},
		Clean:     []string{"**/*_capnp.pyi", "**/*_capnp.py"},
		Recursive: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{schema}, set.Schemas)
	assert.Equal(t, []string{stalePyi, stalePy}, set.Cleanup)

	require.NoError(t, set.RemoveCleanup())
	_, err = os.Stat(stalePyi)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(stalePy)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(schema)
	assert.NoError(t, err, "cleanup must not touch schema sources")
}

func TestResolveAbsolutePattern(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()
	target := writeFile(t, elsewhere, "x.capnp")

	set, err := Resolve(Options{
		Root:      root,
		Paths:     []string{filepath.Join(elsewhere, "*.capnp")},
		Recursive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{target}, set.Schemas)
}

func TestResolveInvalidPattern(t *testing.T) {
	_, err := Resolve(Options{
		Root:      t.TempDir(),
		Paths:     []string{"[unclosed"},
		Recursive: true,
	})
	assert.Error(t, err)
}
