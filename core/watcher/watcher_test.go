package watcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldExcludePath(t *testing.T) {
	root := t.TempDir()
	w, err := NewSchemaWatcher(root, []string{"vendor", "build/generated"}, func() error { return nil })
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, w.shouldExcludePath(filepath.Join(root, "vendor")))
	assert.True(t, w.shouldExcludePath(filepath.Join(root, "vendor", "dep.capnp")))
	assert.True(t, w.shouldExcludePath(filepath.Join(root, "build", "generated", "x.capnp")))

	assert.False(t, w.shouldExcludePath(filepath.Join(root, "schemas", "a.capnp")))
	assert.False(t, w.shouldExcludePath(filepath.Join(root, "vendored", "a.capnp")),
		"prefix matching must respect path boundaries")
}

func TestCloseStopsPendingDebounce(t *testing.T) {
	root := t.TempDir()
	ran := make(chan struct{}, 1)

	w, err := NewSchemaWatcher(root, nil, func() error {
		ran <- struct{}{}
		return nil
	})
	require.NoError(t, err)

	w.debounceRegenerate()
	require.NoError(t, w.Close())

	select {
	case <-ran:
		t.Fatal("regenerate ran after the watcher was closed")
	default:
	}
}
