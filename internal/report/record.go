// Package report holds the output side of a scan: per-unit records, fact
// normalization, and the final merged report.
package report

import (
	"path/filepath"
	"sort"
	"strings"
)

// Record pairs one translation unit with its normalized facts. Unit keeps the
// path as it appeared on the unit list (cache keys need it); Name is what the
// report line shows.
type Record struct {
	Unit  string   `json:"unit"`
	Name  string   `json:"name"`
	Facts []string `json:"facts,omitempty"`
}

// NewRecord builds the record for a unit, normalizing facts in place.
func NewRecord(unit string, facts []string) Record {
	NormalizeFacts(facts)
	return Record{Unit: unit, Name: DisplayName(unit), Facts: facts}
}

// DisplayName is the unit's final path element.
func DisplayName(unit string) string {
	return filepath.Base(unit)
}

// Render produces the unit's report line: display name, then each fact,
// space separated. A unit without facts renders as just its name.
func (r Record) Render() string {
	if len(r.Facts) == 0 {
		return r.Name
	}
	return r.Name + " " + strings.Join(r.Facts, " ")
}

// NormalizeFacts orders facts case-insensitively: bytes are compared under
// ASCII folding, and when one fact is a folded prefix of another the shorter
// one sorts first. The sort is stable so fully equal keys keep their order.
func NormalizeFacts(facts []string) {
	sort.SliceStable(facts, func(i, j int) bool {
		return factLess(facts[i], facts[j])
	})
}

func factLess(a, b string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ca, cb := foldByte(a[i]), foldByte(b[i])
		if ca != cb {
			return ca < cb
		}
	}
	return len(a) < len(b)
}

func foldByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
