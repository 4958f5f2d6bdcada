package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"declscan/internal/logging"
	"declscan/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Rescan whenever watched sources change",
	Long: `Runs a scan immediately, then keeps watching the given paths (or the
workspace) and rescans after changes settle. Each pass rewrites the
same report file, so --output is required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if scanOpts.output == "" || scanOpts.output == "-" {
			return errors.New("watch requires --output pointing at a report file")
		}
		scanOpts.workersSet = cmd.Flags().Changed("workers")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		roots := args
		if len(roots) == 0 {
			roots = []string{cfg.Workspace}
		}

		rerun := func(ctx context.Context) {
			if ctx.Err() != nil {
				return
			}
			if err := runScan(ctx, args); err != nil {
				logging.PipelineWarn("scan pass failed: %v", err)
			}
		}

		w, err := watch.New(roots, []string{scanOpts.output}, rerun)
		if err != nil {
			return err
		}
		defer w.Stop()

		w.Start(ctx)
		<-ctx.Done()
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&scanOpts.compdb, "compdb", "", "compile_commands.json listing units to scan")
	watchCmd.Flags().StringVarP(&scanOpts.output, "output", "o", "", "Report file rewritten on every pass (required)")
	watchCmd.Flags().IntVar(&scanOpts.workers, "workers", 0, "Worker count override")
	watchCmd.Flags().StringVar(&scanOpts.timeout, "timeout", "", "Per-pass timeout override, e.g. 90s (0 disables)")
	watchCmd.Flags().BoolVar(&scanOpts.noCache, "no-cache", false, "Bypass the result cache")
	watchCmd.Flags().BoolVar(&scanOpts.failFast, "fail-fast", false, "Abort a pass on the first unit failure")
	watchCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(watchCmd)
}
