package cache

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declscan/internal/report"
)

type countingAnalyzer struct {
	mu    sync.Mutex
	calls map[string]int
	facts map[string][]string
}

func (c *countingAnalyzer) Analyze(_ context.Context, unit string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[unit]++
	facts, ok := c.facts[unit]
	if !ok {
		return nil, errors.New("unknown unit")
	}
	return append([]string(nil), facts...), nil
}

func (c *countingAnalyzer) callCount(unit string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[unit]
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAnalyzerPrimesFromStore(t *testing.T) {
	store := newTestStore(t)

	units := []string{"/src/a.c", "/src/b.c"}
	prints := Fingerprints{"/src/a.c": "print-a", "/src/b.c": "print-b"}
	next := &countingAnalyzer{
		calls: map[string]int{},
		facts: map[string][]string{
			"/src/a.c": {"alpha"},
			"/src/b.c": {"beta", "Gamma"},
		},
	}

	// First run: everything misses and is delegated.
	first := NewAnalyzer(next, store, prints, units)
	assert.Equal(t, 0, first.Hits())

	var records []report.Record
	for _, unit := range units {
		facts, err := first.Analyze(context.Background(), unit)
		require.NoError(t, err)
		records = append(records, report.NewRecord(unit, facts))
	}
	require.NoError(t, StoreOutcome(store, prints, records))

	// Second run: both units are primed and the inner analyzer idles.
	second := NewAnalyzer(next, store, prints, units)
	assert.Equal(t, 2, second.Hits())

	facts, err := second.Analyze(context.Background(), "/src/b.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "Gamma"}, facts)
	assert.Equal(t, 1, next.callCount("/src/b.c"))
}

func TestAnalyzerMissesOnChangedContent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Put("/src/a.c", "old-print", []string{"alpha"}))

	next := &countingAnalyzer{
		calls: map[string]int{},
		facts: map[string][]string{"/src/a.c": {"alpha2"}},
	}
	a := NewAnalyzer(next, store, Fingerprints{"/src/a.c": "new-print"}, []string{"/src/a.c"})
	assert.Equal(t, 0, a.Hits())

	facts, err := a.Analyze(context.Background(), "/src/a.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha2"}, facts)
	assert.Equal(t, 1, next.callCount("/src/a.c"))
}

func TestAnalyzerSkipsUnfingerprintedUnits(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Put("/src/a.c", "print-a", []string{"alpha"}))

	next := &countingAnalyzer{
		calls: map[string]int{},
		facts: map[string][]string{"/src/a.c": {"alpha"}},
	}

	// No fingerprint for the unit, so the stored entry cannot be trusted.
	a := NewAnalyzer(next, store, Fingerprints{}, []string{"/src/a.c"})
	assert.Equal(t, 0, a.Hits())
}

func TestAnalyzeReturnsCopyOfCachedFacts(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Put("/src/a.c", "p", []string{"alpha", "Beta"}))

	next := &countingAnalyzer{calls: map[string]int{}, facts: map[string][]string{}}
	a := NewAnalyzer(next, store, Fingerprints{"/src/a.c": "p"}, []string{"/src/a.c"})
	require.Equal(t, 1, a.Hits())

	got, err := a.Analyze(context.Background(), "/src/a.c")
	require.NoError(t, err)
	got[0] = "mutated"

	again, err := a.Analyze(context.Background(), "/src/a.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "Beta"}, again)
}

func TestStoreOutcomeSkipsUnfingerprintedRecords(t *testing.T) {
	store := newTestStore(t)

	records := []report.Record{
		report.NewRecord("/src/a.c", []string{"alpha"}),
		report.NewRecord("/src/gone.c", []string{"ghost"}),
	}
	require.NoError(t, StoreOutcome(store, Fingerprints{"/src/a.c": "p"}, records))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
