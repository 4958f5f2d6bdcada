package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"declscan/internal/logging"
	"declscan/internal/report"
)

// ErrNoWorkers rejects pools configured without at least one worker.
var ErrNoWorkers = errors.New("worker count must be at least 1")

// ShardError records which shard a fatal worker error came from.
type ShardError struct {
	Shard int
	Err   error
}

func (e ShardError) Error() string { return fmt.Sprintf("shard %d: %v", e.Shard, e.Err) }

func (e ShardError) Unwrap() error { return e.Err }

// Outcome is everything a run produced. The report may be partial when
// UnitsFailed or ShardErrors is non-zero; callers decide the exit status.
type Outcome struct {
	Report      *report.Report
	UnitsTotal  int
	UnitsFailed int
	ShardErrors []ShardError
	Elapsed     time.Duration
}

// Failed reports whether anything in the run went wrong.
func (o *Outcome) Failed() bool {
	return o.UnitsFailed > 0 || len(o.ShardErrors) > 0
}

// Pool fans a unit list over isolated workers and merges their sinks once
// every worker has joined.
type Pool struct {
	analyzer Analyzer
	sinks    SinkFactory
	workers  int
}

// New validates the pool configuration; anything wrong here surfaces before
// a single worker spawns.
func New(analyzer Analyzer, sinks SinkFactory, workers int) (*Pool, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoWorkers, workers)
	}
	if analyzer == nil {
		return nil, errors.New("pool requires an analyzer")
	}
	if sinks == nil {
		sinks = MemorySinks()
	}
	return &Pool{analyzer: analyzer, sinks: sinks, workers: workers}, nil
}

// task is the handle spawn returns; joinAll collects it at the barrier. Its
// fields are written only by the task's own goroutine until done closes.
type task struct {
	worker *worker
	done   chan struct{}
	err    error
}

func (p *Pool) spawn(ctx context.Context, shard int, units []string, sink Sink) *task {
	t := &task{
		worker: &worker{shard: shard, units: units, sink: sink, analyzer: p.analyzer},
		done:   make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		t.err = t.worker.run(ctx)
	}()
	return t
}

// joinAll blocks until every task finishes. A worker that already failed
// never short-circuits the barrier: merging must not start while any sink is
// live.
func joinAll(tasks []*task) {
	for _, t := range tasks {
		<-t.done
	}
}

// Run executes the full pipeline over units.
func (p *Pool) Run(ctx context.Context, units []string) (*Outcome, error) {
	start := time.Now()

	shards, err := Partition(units, p.workers)
	if err != nil {
		return nil, err
	}

	sinks := make([]Sink, len(shards))
	for i := range shards {
		sink, serr := p.sinks(i)
		if serr != nil {
			return nil, fmt.Errorf("create sink for shard %d: %w", i, serr)
		}
		sinks[i] = sink
	}

	logging.PipelineDebug("spawning %d workers over %d units", p.workers, len(units))
	tasks := make([]*task, len(shards))
	for i, shard := range shards {
		tasks[i] = p.spawn(ctx, i, shard, sinks[i])
	}
	joinAll(tasks)

	outcome := &Outcome{UnitsTotal: len(units)}
	for i, t := range tasks {
		outcome.UnitsFailed += t.worker.failed
		if t.err != nil {
			outcome.ShardErrors = append(outcome.ShardErrors, ShardError{Shard: i, Err: t.err})
			logging.PipelineError("shard %d aborted: %v", i, t.err)
		}
	}

	rep, err := MergeSinks(sinks)
	if err != nil {
		return nil, err
	}
	outcome.Report = rep
	outcome.Elapsed = time.Since(start)

	logging.PipelineInfo("scan done: %d units, %d records, %d unit failures, %d shard errors in %v",
		outcome.UnitsTotal, len(rep.Records), outcome.UnitsFailed, len(outcome.ShardErrors), outcome.Elapsed)
	return outcome, nil
}
