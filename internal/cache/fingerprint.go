package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"

	"golang.org/x/sync/errgroup"

	"declscan/internal/logging"
)

// Fingerprints maps unit paths to content digests.
type Fingerprints map[string]string

// Fingerprint hashes every unit before the run starts, so lookups and
// the post-run refresh agree on exactly what was analyzed. Unreadable
// units get no entry and are left for the analyzer to report.
func Fingerprint(ctx context.Context, units []string, limit int) (Fingerprints, error) {
	sums := make([]string, len(units))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, unit := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(unit)
			if err != nil {
				logging.CacheWarn("fingerprint skipped for %s: %v", unit, err)
				return nil
			}
			sum := sha256.Sum256(content)
			sums[i] = hex.EncodeToString(sum[:])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prints := make(Fingerprints, len(units))
	for i, unit := range units {
		if sums[i] != "" {
			prints[unit] = sums[i]
		}
	}
	return prints, nil
}
