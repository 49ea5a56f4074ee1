package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommandParserRequiresCommand(t *testing.T) {
	_, err := NewCommandParser(nil)
	assert.Error(t, err)

	_, err = NewCommandParser([]string{"capnp-graph"})
	assert.NoError(t, err)
}

func TestLoadDecodesCommandOutput(t *testing.T) {
	// cat prints its argument's contents, so a file holding its own graph
	// document stands in for the real parser command.
	graph := `{
		"rootId": 1,
		"nodes": [{
			"id": 1,
			"kind": "file",
			"displayName": "simple.capnp",
			"displayNamePrefixLength": 0,
			"scopeId": 0
		}]
	}`

	path := filepath.Join(t.TempDir(), "simple.capnp")
	require.NoError(t, os.WriteFile(path, []byte(graph), 0o644))

	p, err := NewCommandParser([]string{"cat"})
	require.NoError(t, err)

	module, err := p.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, module.Path)
	assert.Equal(t, "simple.capnp", module.DisplayName())
}

func TestLoadReportsCommandFailure(t *testing.T) {
	p, err := NewCommandParser([]string{"false"})
	require.NoError(t, err)

	_, err = p.Load("whatever.capnp")
	assert.Error(t, err)
}

func TestLoadReportsBadGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.capnp")
	require.NoError(t, os.WriteFile(path, []byte("not a graph"), 0o644))

	p, err := NewCommandParser([]string{"cat"})
	require.NoError(t, err)

	_, err = p.Load(path)
	assert.Error(t, err)
}
