package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeUnit(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRegistryRoutesByExtension(t *testing.T) {
	reg := NewRegistry()
	path := writeUnit(t, "unit.go", "package x\n\nvar Flag bool\n")

	facts, err := reg.Analyze(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Flag"}, facts)
}

func TestRegistryUnknownExtension(t *testing.T) {
	reg := NewRegistry()
	path := writeUnit(t, "unit.zig", "var x = 1;")

	_, err := reg.Analyze(context.Background(), path)
	assert.ErrorIs(t, err, ErrNoAnalyzer)
}

func TestRegistrySizeCap(t *testing.T) {
	reg := NewRegistry(WithMaxFileSize(16))
	path := writeUnit(t, "big.go", "package big\n\nvar padding = \"xxxxxxxxxxxxxxxx\"\n")

	_, err := reg.Analyze(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cap")
}

func TestRegistryMissingUnit(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Analyze(context.Background(), filepath.Join(t.TempDir(), "gone.c"))
	assert.Error(t, err)
}

func TestRegistryLanguages(t *testing.T) {
	reg := NewRegistry()
	langs := reg.Languages()
	require.Len(t, langs, 7)

	var names []string
	for _, l := range langs {
		names = append(names, l.Name())
	}
	assert.Equal(t, []string{"c", "cpp", "go", "javascript", "python", "rust", "typescript"}, names)

	assert.True(t, reg.Supports("x/y.CPP"))
	assert.False(t, reg.Supports("x/notes.txt"))
}
