// Package analysis implements fact extraction for the scan pipeline: a
// registry of per-language analyzers keyed by file extension, each reporting
// the names of mutable file-scope variable declarations.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"declscan/internal/logging"
)

// DefaultMaxFileSize caps how large a unit the registry will read. Oversized
// units fail per-unit instead of ballooning memory.
const DefaultMaxFileSize = 10 << 20

// ErrNoAnalyzer is returned when no language claims a unit's extension.
var ErrNoAnalyzer = errors.New("no analyzer registered for extension")

// Language extracts facts from source content in one language. Extract
// returns fact names in source order; callers normalize the order.
type Language interface {
	Name() string
	Extensions() []string
	Extract(ctx context.Context, path string, content []byte) ([]string, error)
}

// Registry routes units to language analyzers by file extension. It is
// immutable after construction and safe for concurrent use.
type Registry struct {
	byExt       map[string]Language
	languages   []Language
	maxFileSize int64
}

// Option adjusts registry construction.
type Option func(*Registry)

// WithMaxFileSize overrides the per-unit size cap.
func WithMaxFileSize(n int64) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxFileSize = n
		}
	}
}

// NewRegistry wires the built-in language suite.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byExt:       make(map[string]Language),
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, lang := range []Language{
		NewCAnalyzer(),
		NewCPPAnalyzer(),
		NewGoAnalyzer(),
		NewPythonAnalyzer(),
		NewRustAnalyzer(),
		NewJavaScriptAnalyzer(),
		NewTypeScriptAnalyzer(),
	} {
		r.register(lang)
	}
	return r
}

func (r *Registry) register(lang Language) {
	r.languages = append(r.languages, lang)
	for _, ext := range lang.Extensions() {
		r.byExt[strings.ToLower(ext)] = lang
	}
}

// Languages lists the registered analyzers sorted by name.
func (r *Registry) Languages() []Language {
	out := append([]Language(nil), r.languages...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Supports reports whether some analyzer claims the path's extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Analyze reads one unit from disk and extracts its facts.
func (r *Registry) Analyze(ctx context.Context, unit string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(unit))
	lang, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoAnalyzer, ext)
	}

	fi, err := os.Stat(unit)
	if err != nil {
		return nil, fmt.Errorf("stat unit: %w", err)
	}
	if fi.Size() > r.maxFileSize {
		return nil, fmt.Errorf("unit %s is %d bytes, over the %d byte cap", unit, fi.Size(), r.maxFileSize)
	}
	content, err := os.ReadFile(unit)
	if err != nil {
		return nil, fmt.Errorf("read unit: %w", err)
	}

	start := time.Now()
	facts, err := lang.Extract(ctx, unit, content)
	if err != nil {
		return nil, err
	}
	logging.AnalysisDebug("%s: %s yielded %d facts in %v", lang.Name(), filepath.Base(unit), len(facts), time.Since(start))
	return facts, nil
}

// parseTree parses content with a fresh parser. tree-sitter parsers are not
// safe for concurrent use, so every extraction gets its own; grammars are
// shared statics and cheap to attach.
func parseTree(ctx context.Context, lang *sitter.Language, content []byte) (*sitter.Tree, error) {
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return p.ParseCtx(ctx, nil, content)
}
