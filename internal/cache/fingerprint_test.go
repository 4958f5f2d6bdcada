package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintStableForSameContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.c")
	b := filepath.Join(dir, "b.c")
	require.NoError(t, os.WriteFile(a, []byte("int x;\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("int y;\n"), 0644))

	first, err := Fingerprint(context.Background(), []string{a, b}, 2)
	require.NoError(t, err)
	second, err := Fingerprint(context.Background(), []string{a, b}, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
	assert.NotEqual(t, first[a], first[b])
}

func TestFingerprintChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(a, []byte("int x;\n"), 0644))

	before, err := Fingerprint(context.Background(), []string{a}, 0)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(a, []byte("int y;\n"), 0644))

	after, err := Fingerprint(context.Background(), []string{a}, 0)
	require.NoError(t, err)
	assert.NotEqual(t, before[a], after[a])
}

func TestFingerprintSkipsUnreadableUnits(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(a, []byte("int x;\n"), 0644))
	missing := filepath.Join(dir, "gone.c")

	prints, err := Fingerprint(context.Background(), []string{a, missing}, 4)
	require.NoError(t, err)
	assert.Contains(t, prints, a)
	assert.NotContains(t, prints, missing)
}

func TestFingerprintEmptyUnitList(t *testing.T) {
	prints, err := Fingerprint(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, prints)
}
