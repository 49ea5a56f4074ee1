package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchGenericsCommentsArtifactLines(t *testing.T) {
	raw := "class TestMap:\n" +
		"    textMap: Map[str, str] | Map[str, str]Builder | Map[str, str]Reader\n" +
		"    plain: int\n"

	patched, count := PatchGenerics(raw)

	assert.Equal(t, 1, count)
	assert.Contains(t, patched, "#     textMap: Map[str, str]")
	assert.Contains(t, patched, "    plain: int")
	assert.Contains(t, patched, "class TestMap:")
}

func TestPatchGenericsBuilderArtifact(t *testing.T) {
	raw := "value: Box[int]Builder\nother: Box[int]\n"

	patched, count := PatchGenerics(raw)

	assert.Equal(t, 1, count)
	assert.Contains(t, patched, "# value: Box[int]Builder")
	assert.Contains(t, patched, "\nother: Box[int]\n")
}

func TestPatchGenericsLeavesCleanTextAlone(t *testing.T) {
	raw := "class Point:\n    x: float\n    reader: PointReader\n"

	patched, count := PatchGenerics(raw)

	assert.Equal(t, 0, count)
	assert.Equal(t, raw, patched)
}

func TestApplyIsBestEffort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pyi")
	require.NoError(t, os.WriteFile(path, []byte("x: int\n"), 0o644))

	// A missing binary must not panic or alter the file.
	Apply([]string{"definitely-not-a-real-formatter"}, path)
	Apply(nil, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x: int\n", string(data))
}
