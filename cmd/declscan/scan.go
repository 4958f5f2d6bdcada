package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"declscan/internal/analysis"
	"declscan/internal/cache"
	"declscan/internal/config"
	"declscan/internal/logging"
	"declscan/internal/pipeline"
	"declscan/internal/report"
	"declscan/internal/units"
)

var scanOpts struct {
	compdb     string
	output     string
	workers    int
	workersSet bool
	timeout    string
	noCache    bool
	failFast   bool
}

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Scan source trees and report mutable file-scope variables",
	Long: `Collects units from the given paths (or the workspace when none are
given), analyzes them in parallel, and writes one line per unit:

  <filename> <variable names, case-insensitive order>

Lines are sorted byte-wise, so the same inputs always produce the same
report. Any per-unit failure or shard abort still yields the partial
report but exits non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scanOpts.workersSet = cmd.Flags().Changed("workers")
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runScan(ctx, args)
	},
}

// runScan is one full scan pass: collect, analyze, write, judge.
func runScan(ctx context.Context, paths []string) error {
	out, err := executeScan(ctx, paths)
	if err != nil {
		return err
	}

	if err := writeReport(out.Report, scanOpts.output); err != nil {
		return err
	}

	if out.Failed() {
		return fmt.Errorf("scan finished with %d unit failure(s) and %d shard error(s)",
			out.UnitsFailed, len(out.ShardErrors))
	}
	return nil
}

func executeScan(ctx context.Context, paths []string) (*pipeline.Outcome, error) {
	registry := analysis.NewRegistry(analysis.WithMaxFileSize(cfg.Scan.MaxFileSize))

	scanUnits, err := buildUnits(paths, registry)
	if err != nil {
		return nil, err
	}

	workers := cfg.Scan.Workers
	if scanOpts.workersSet {
		workers = scanOpts.workers
	}

	timeout := cfg.GetScanTimeout()
	if scanOpts.timeout != "" {
		timeout, err = config.ParseTimeout(scanOpts.timeout)
		if err != nil {
			return nil, err
		}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var analyzer pipeline.Analyzer = registry

	// Cache trouble degrades to a cold scan, never a failed one.
	var store *cache.Store
	var prints cache.Fingerprints
	if cfg.Cache.Enabled && !scanOpts.noCache {
		store, err = cache.Open(cachePath())
		if err != nil {
			logging.CacheWarn("cache unavailable, scanning cold: %v", err)
			store = nil
		} else {
			defer store.Close()
			prints, err = cache.Fingerprint(ctx, scanUnits, workers)
			if err != nil {
				return nil, err
			}
			analyzer = cache.NewAnalyzer(registry, store, prints, scanUnits)
		}
	}

	// Fail-fast cancels the shared context on the first bad unit, so the
	// remaining workers abort at their next unit boundary.
	if scanOpts.failFast {
		fctx, cancel := context.WithCancel(ctx)
		defer cancel()
		ctx = fctx

		inner := analyzer
		analyzer = pipeline.AnalyzerFunc(func(ctx context.Context, unit string) ([]string, error) {
			facts, err := inner.Analyze(ctx, unit)
			if err != nil {
				cancel()
			}
			return facts, err
		})
	}

	var sinks pipeline.SinkFactory
	if cfg.Scan.Sink == "file" {
		sinks = pipeline.FileSinks(resolvePath(cfg.Workspace, cfg.Scan.WorkDir))
	}

	pool, err := pipeline.New(analyzer, sinks, workers)
	if err != nil {
		return nil, err
	}

	out, err := pool.Run(ctx, scanUnits)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := cache.StoreOutcome(store, prints, out.Report.Records); err != nil {
			logging.CacheWarn("cache refresh failed: %v", err)
		}
	}

	return out, nil
}

// buildUnits gathers the unit list from the compilation database and the
// path arguments, first occurrence winning on overlap.
func buildUnits(paths []string, registry *analysis.Registry) ([]string, error) {
	var fromDB []string
	if scanOpts.compdb != "" {
		var err error
		fromDB, err = units.FromCompileCommands(scanOpts.compdb)
		if err != nil {
			return nil, err
		}
	}

	roots := paths
	if len(roots) == 0 && scanOpts.compdb == "" {
		roots = []string{cfg.Workspace}
	}

	var walked []string
	if len(roots) > 0 {
		var err error
		walked, err = units.Collect(roots, registry)
		if err != nil {
			return nil, err
		}
	}

	all := units.Merge(fromDB, walked)
	logging.PipelineDebug("collected %d unit(s)", len(all))
	return all, nil
}

func writeReport(rep *report.Report, path string) error {
	if path == "" || path == "-" {
		_, err := rep.WriteTo(os.Stdout)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if _, err := rep.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}

	logging.PipelineInfo("report written to %s (%d records)", path, len(rep.Records))
	return nil
}

func init() {
	scanCmd.Flags().StringVar(&scanOpts.compdb, "compdb", "", "compile_commands.json listing units to scan")
	scanCmd.Flags().StringVarP(&scanOpts.output, "output", "o", "", "Report file (default: stdout)")
	scanCmd.Flags().IntVar(&scanOpts.workers, "workers", 0, "Worker count override")
	scanCmd.Flags().StringVar(&scanOpts.timeout, "timeout", "", "Scan timeout override, e.g. 90s (0 disables)")
	scanCmd.Flags().BoolVar(&scanOpts.noCache, "no-cache", false, "Bypass the result cache")
	scanCmd.Flags().BoolVar(&scanOpts.failFast, "fail-fast", false, "Abort the scan on the first unit failure")

	rootCmd.AddCommand(scanCmd)
}
