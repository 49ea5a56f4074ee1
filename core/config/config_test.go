package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"**/*.capnp"}, cfg.Paths)
	assert.True(t, cfg.Recursive)
	assert.Equal(t, []string{"capnp-graph"}, cfg.Parser.Command)
	assert.Empty(t, cfg.Output)
	assert.Empty(t, cfg.Excludes)
}

func TestLoadFromMissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `paths:
  - "schemas/**/*.capnp"
excludes:
  - "schemas/vendor/**"
clean:
  - "**/*_capnp.pyi"
output: stubs
recursive: false
parser:
  command: ["capnp-graph", "--strict"]
format:
  command: ["black"]
  import_sorter: ["isort"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"schemas/**/*.capnp"}, cfg.Paths)
	assert.Equal(t, []string{"schemas/vendor/**"}, cfg.Excludes)
	assert.Equal(t, []string{"**/*_capnp.pyi"}, cfg.Clean)
	assert.Equal(t, "stubs", cfg.Output)
	assert.False(t, cfg.Recursive)
	assert.Equal(t, []string{"capnp-graph", "--strict"}, cfg.Parser.Command)
	assert.Equal(t, []string{"black"}, cfg.Format.Command)
	assert.Equal(t, []string{"isort"}, cfg.Format.ImportSorter)
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("output: out\n"), 0o644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, []string{"**/*.capnp"}, cfg.Paths, "unset keys keep their defaults")
	assert.Equal(t, []string{"capnp-graph"}, cfg.Parser.Command)
}

func TestLoadFromInvalidYaml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(":\n\t- broken"), 0o644))

	_, err := LoadFrom(dir)
	assert.Error(t, err)
}
