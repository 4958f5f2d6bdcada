package pipeline

import (
	"context"

	"declscan/internal/logging"
	"declscan/internal/report"
)

// Analyzer is the capability a worker invokes once per unit. Implementations
// must be safe for concurrent use; the registry and the cache wrapper both
// are.
type Analyzer interface {
	Analyze(ctx context.Context, unit string) ([]string, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, unit string) ([]string, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, unit string) ([]string, error) {
	return f(ctx, unit)
}

// worker processes one shard sequentially against its private sink. Workers
// share nothing mutable: shard slice, sink and counters are all owned by the
// one goroutine running them.
type worker struct {
	shard    int
	units    []string
	sink     Sink
	analyzer Analyzer
	failed   int
}

// run analyzes every unit in shard order. A per-unit analysis error is
// logged and counted and the loop moves on; sink errors and cancellation
// abort the shard. The sink is finalized on every path so partial results
// still reach the merger.
func (w *worker) run(ctx context.Context) (err error) {
	defer func() {
		if ferr := w.sink.Finalize(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	for _, unit := range w.units {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		facts, aerr := w.analyzer.Analyze(ctx, unit)
		if aerr != nil {
			w.failed++
			logging.PipelineWarn("shard %d: unit %s failed: %v", w.shard, unit, aerr)
			continue
		}

		if serr := w.sink.Append(report.NewRecord(unit, facts)); serr != nil {
			return serr
		}
	}
	return nil
}
