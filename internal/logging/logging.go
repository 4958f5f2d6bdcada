// Package logging provides category loggers for the scanner subsystems,
// backed by one shared zap logger. The zero state is a nop logger so library
// code can log unconditionally; the CLI installs the real one at startup.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem log stream.
type Category string

const (
	CategoryPipeline Category = "pipeline"
	CategoryAnalysis Category = "analysis"
	CategoryCache    Category = "cache"
	CategoryWatch    Category = "watch"
	CategoryCLI      Category = "cli"
)

var (
	mu   sync.RWMutex
	root = zap.NewNop().Sugar()
)

// SetLogger installs the process-wide logger.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	root = l.Sugar()
}

// Configure builds a console logger at the given level on stderr and installs
// it. When dir is non-empty, a debug-level JSON core also appends to
// declscan.log there, so verbose history survives quiet console levels.
func Configure(level zapcore.Level, dir string) error {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(dir, "declscan.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(f),
			zapcore.DebugLevel,
		)
		core = zapcore.NewTee(core, fileCore)
	}

	SetLogger(zap.New(core))
	return nil
}

// Get returns the sugared logger for a category.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(string(category))
}

// Sync flushes buffered entries. Called once on CLI shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}

func PipelineDebug(format string, args ...interface{}) { Get(CategoryPipeline).Debugf(format, args...) }
func PipelineInfo(format string, args ...interface{})  { Get(CategoryPipeline).Infof(format, args...) }
func PipelineWarn(format string, args ...interface{})  { Get(CategoryPipeline).Warnf(format, args...) }
func PipelineError(format string, args ...interface{}) { Get(CategoryPipeline).Errorf(format, args...) }

func AnalysisDebug(format string, args ...interface{}) { Get(CategoryAnalysis).Debugf(format, args...) }

func CacheDebug(format string, args ...interface{}) { Get(CategoryCache).Debugf(format, args...) }
func CacheWarn(format string, args ...interface{})  { Get(CategoryCache).Warnf(format, args...) }

func WatchDebug(format string, args ...interface{}) { Get(CategoryWatch).Debugf(format, args...) }
func WatchInfo(format string, args ...interface{})  { Get(CategoryWatch).Infof(format, args...) }
func WatchWarn(format string, args ...interface{})  { Get(CategoryWatch).Warnf(format, args...) }
