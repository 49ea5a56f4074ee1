package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tristendillon/capnp-stubgen/core/config"
	"github.com/tristendillon/capnp-stubgen/core/schema"
)

// graphParser serves pre-built module graphs keyed by schema path, standing
// in for the external parser command.
type graphParser struct {
	graphs map[string]string
}

func (p *graphParser) Load(path string) (*schema.Module, error) {
	return schema.DecodeModule([]byte(p.graphs[filepath.Base(path)]), path)
}

const personGraph = `{
	"rootId": 1,
	"nodes": [
		{
			"id": 1,
			"kind": "file",
			"displayName": "person.capnp",
			"displayNamePrefixLength": 0,
			"scopeId": 0,
			"nestedNodes": [{"name": "Person", "id": 2}]
		},
		{
			"id": 2,
			"kind": "struct",
			"displayName": "person.capnp:Person",
			"displayNamePrefixLength": 13,
			"scopeId": 1,
			"fields": [
				{"name": "name", "slot": {"type": {"kind": "text"}}},
				{"name": "age", "slot": {"type": {"kind": "uint8"}}}
			]
		}
	]
}`

func writeSchema(t *testing.T, root, name string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# schema fixture\n"), 0o644))
	return path
}

func TestRunWritesBothSurfaces(t *testing.T) {
	root := t.TempDir()
	writeSchema(t, root, "person.capnp")

	cfg := config.Default()
	runner := NewWithParser(cfg, root, &graphParser{graphs: map[string]string{
		"person.capnp": personGraph,
	}})

	require.NoError(t, runner.Run())

	pyi, err := os.ReadFile(filepath.Join(root, "person_capnp.pyi"))
	require.NoError(t, err)
	assert.Contains(t, string(pyi), "class Person:")
	assert.Contains(t, string(pyi), "name: str")
	assert.Contains(t, string(pyi), "age: int")
	assert.Contains(t, string(pyi), "from __future__ import annotations")

	py, err := os.ReadFile(filepath.Join(root, "person_capnp.py"))
	require.NoError(t, err)
	assert.Contains(t, string(py), "module = capnp.load(module_file)")
	assert.Contains(t, string(py), "Person = module.Person")
	assert.Contains(t, string(py), "PersonBuilder = Person")
}

func TestRunHonorsOutputDirectory(t *testing.T) {
	root := t.TempDir()
	writeSchema(t, root, "person.capnp")

	cfg := config.Default()
	cfg.Output = "stubs"
	runner := NewWithParser(cfg, root, &graphParser{graphs: map[string]string{
		"person.capnp": personGraph,
	}})

	require.NoError(t, runner.Run())

	_, err := os.Stat(filepath.Join(root, "stubs", "person_capnp.pyi"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "stubs", "person_capnp.py"))
	assert.NoError(t, err)
}

func TestRunCleansStaleOutputs(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "gone_capnp.pyi")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	cfg := config.Default()
	cfg.Clean = []string{"**/*_capnp.pyi"}
	runner := NewWithParser(cfg, root, &graphParser{})

	require.NoError(t, runner.Run())

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestRunWithNoMatchesIsNotAnError(t *testing.T) {
	cfg := config.Default()
	runner := NewWithParser(cfg, t.TempDir(), &graphParser{})
	assert.NoError(t, runner.Run())
}

func TestRunExcludesSchemas(t *testing.T) {
	root := t.TempDir()
	writeSchema(t, root, "person.capnp")
	writeSchema(t, root, filepath.Join("vendor", "skip.capnp"))

	cfg := config.Default()
	cfg.Excludes = []string{"vendor/**/*.capnp", "vendor/*.capnp"}
	runner := NewWithParser(cfg, root, &graphParser{graphs: map[string]string{
		"person.capnp": personGraph,
	}})

	require.NoError(t, runner.Run())

	_, err := os.Stat(filepath.Join(root, "vendor", "skip_capnp.pyi"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "person_capnp.pyi"))
	assert.NoError(t, err)
}

func TestNewRejectsEmptyParserCommand(t *testing.T) {
	cfg := config.Default()
	cfg.Parser.Command = nil

	_, err := New(cfg, t.TempDir())
	assert.Error(t, err)
}
