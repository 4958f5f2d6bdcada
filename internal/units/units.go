// Package units builds the ordered unit list a scan partitions: explicit
// files, walked directories, and compilation database entries. Order is
// deterministic because the partitioner's input order decides shard layout.
package units

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Matcher decides which walked files become units. The analysis registry
// satisfies it.
type Matcher interface {
	Supports(path string) bool
}

// Collect expands paths into an ordered, deduplicated unit list. File
// arguments are taken as given whether or not the matcher knows them, so an
// unsupported explicit unit fails per-unit during the run instead of
// silently vanishing. Directories are walked in lexical order and contribute
// only files the matcher supports; dot directories below the root are
// skipped.
func Collect(paths []string, m Matcher) ([]string, error) {
	var units []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			units = append(units, p)
		}
	}

	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !fi.IsDir() {
			add(path)
			continue
		}
		walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, werr error) error {
			if werr != nil {
				return werr
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && p != path {
					return filepath.SkipDir
				}
				return nil
			}
			if m == nil || m.Supports(p) {
				add(p)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", path, walkErr)
		}
	}
	return units, nil
}

// Merge concatenates unit lists preserving first-occurrence order across
// them.
func Merge(lists ...[]string) []string {
	var units []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, u := range list {
			if !seen[u] {
				seen[u] = true
				units = append(units, u)
			}
		}
	}
	return units
}
