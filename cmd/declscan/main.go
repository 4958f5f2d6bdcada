package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"declscan/internal/config"
	"declscan/internal/logging"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	workspace string

	// Loaded configuration, available to every subcommand after the
	// persistent pre-run.
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "declscan",
	Short: "declscan - parallel scanner for mutable file-scope variables",
	Long: `declscan finds file-scope variable declarations that remain mutable
and renders one report line per source file.

Units are split into contiguous shards, analyzed by isolated workers
with tree-sitter grammars, and merged into a byte-stable report once
every worker has joined. Unchanged files are served from a content
fingerprint cache.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath())
		if err != nil {
			return err
		}
		if workspace != "" {
			cfg.Workspace = workspace
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level, perr := zapcore.ParseLevel(cfg.Logging.Level)
		if perr != nil {
			level = zapcore.InfoLevel
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		return logging.Configure(level, resolvePath(cfg.Workspace, cfg.Logging.Dir))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// configPath resolves the --config flag or the workspace default.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if workspace != "" {
		return filepath.Join(workspace, config.DefaultConfigFile)
	}
	return config.DefaultConfigFile
}

// resolvePath anchors a relative config path at the workspace root.
func resolvePath(workspace, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workspace, path)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: <workspace>/"+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
