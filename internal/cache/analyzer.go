package cache

import (
	"context"
	"errors"

	"declscan/internal/logging"
	"declscan/internal/report"
)

// Capability is the analysis surface the cache wraps. It mirrors the
// pipeline's analyzer contract without importing it.
type Capability interface {
	Analyze(ctx context.Context, unit string) ([]string, error)
}

// Analyzer serves cached facts for units whose content has not changed
// and delegates everything else. The hit map is built before workers
// spawn and never mutated afterwards, so concurrent lookups need no
// locking.
type Analyzer struct {
	next Capability
	hits map[string][]string
}

// NewAnalyzer primes a hit map from the store for every unit whose
// fingerprint matches a stored entry. Store errors degrade to misses.
func NewAnalyzer(next Capability, store *Store, prints Fingerprints, units []string) *Analyzer {
	hits := make(map[string][]string)
	for _, unit := range units {
		print, ok := prints[unit]
		if !ok {
			continue
		}
		facts, err := store.Get(unit, print)
		if errors.Is(err, ErrMiss) {
			continue
		}
		if err != nil {
			logging.CacheWarn("cache lookup failed for %s: %v", unit, err)
			continue
		}
		hits[unit] = facts
	}
	logging.CacheDebug("cache primed: %d of %d units hit", len(hits), len(units))
	return &Analyzer{next: next, hits: hits}
}

// Analyze returns the cached facts when the unit was primed, otherwise
// delegates to the wrapped analyzer. Hits are copied because callers
// re-sort fact slices in place.
func (a *Analyzer) Analyze(ctx context.Context, unit string) ([]string, error) {
	if facts, ok := a.hits[unit]; ok {
		return append([]string(nil), facts...), nil
	}
	return a.next.Analyze(ctx, unit)
}

// Hits reports how many units were primed from the store.
func (a *Analyzer) Hits() int {
	return len(a.hits)
}

// StoreOutcome refreshes the store from a completed run's records.
// Units with no fingerprint (unreadable at prepass time) are skipped.
func StoreOutcome(store *Store, prints Fingerprints, records []report.Record) error {
	stored := 0
	for _, rec := range records {
		print, ok := prints[rec.Unit]
		if !ok {
			continue
		}
		if err := store.Put(rec.Unit, print, rec.Facts); err != nil {
			return err
		}
		stored++
	}
	logging.CacheDebug("cache refreshed: %d units stored", stored)
	return nil
}
