// Package watch re-triggers scans when files under the watched roots
// change, batching rapid saves behind a debounce window.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"declscan/internal/logging"
)

const (
	debounceWindow = 500 * time.Millisecond
	tickInterval   = 100 * time.Millisecond
)

// Rerun is invoked once at startup and again whenever the watched
// paths settle after a burst of changes.
type Rerun func(ctx context.Context)

// Stats tracks watcher activity.
type Stats struct {
	Events int
	Reruns int
}

// Watcher owns the fsnotify handle, the debounce state, and the loop
// goroutine spawned by Start.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	roots   []string
	ignored map[string]bool
	rerun   Rerun
	pending map[string]time.Time
	watched map[string]bool
	stats   Stats
	started bool

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New prepares a watcher over the given roots. Directories are walked
// recursively; plain files are watched through their parent directory.
// Events on ignored paths never trigger a rerun, which keeps a report
// written inside the watched tree from re-triggering its own scan.
func New(roots []string, ignore []string, rerun Rerun) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		roots:   roots,
		ignored: make(map[string]bool, len(ignore)),
		rerun:   rerun,
		pending: make(map[string]time.Time),
		watched: make(map[string]bool),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	for _, path := range ignore {
		w.ignored[filepath.Clean(path)] = true
	}

	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

// Start runs the initial scan synchronously, then watches until the
// context ends or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	logging.WatchInfo("watching %d root(s)", len(w.roots))

	w.rerun(ctx)
	w.mu.Lock()
	w.stats.Reruns++
	w.started = true
	w.mu.Unlock()

	go w.run(ctx)
}

// Stop halts the event loop and releases the underlying watcher. Safe
// to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.fsw.Close()

		w.mu.Lock()
		started := w.started
		w.mu.Unlock()
		if started {
			<-w.doneCh
		}

		stats := w.Stats()
		logging.WatchInfo("watcher stopped after %d event(s) and %d rerun(s)", stats.Events, stats.Reruns)
	})
}

// Stats reports watcher activity so far.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) addRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.addDir(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.addDir(path)
	})
}

func (w *Watcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = true
	logging.WatchDebug("watching %s", dir)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.WatchDebug("context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.WatchWarn("watch error: %v", err)

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// handleEvent records a changed path for the next quiet-period rerun.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Clean(event.Name)
	if w.ignored[name] || strings.HasPrefix(filepath.Base(name), ".") {
		return
	}

	switch {
	case event.Op&fsnotify.Create != 0:
		// New directories join the watch set so nested changes are seen.
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if err := w.addRecursive(name); err != nil {
				logging.WatchWarn("failed to watch new directory %s: %v", name, err)
			}
		}
	case event.Op&fsnotify.Write != 0:
	case event.Op&fsnotify.Remove != 0:
	case event.Op&fsnotify.Rename != 0:
	default:
		return // chmod and friends
	}

	logging.WatchDebug("%s for %s", event.Op, name)

	w.mu.Lock()
	w.stats.Events++
	w.pending[name] = time.Now()
	w.mu.Unlock()
}

// flush reruns the scan once every pending path has settled past the
// debounce window.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	now := time.Now()
	for _, at := range w.pending {
		if now.Sub(at) < debounceWindow {
			w.mu.Unlock()
			return
		}
	}
	changed := len(w.pending)
	w.pending = make(map[string]time.Time)
	w.stats.Reruns++
	w.mu.Unlock()

	logging.WatchInfo("%d path(s) settled, rescanning", changed)
	w.rerun(ctx)
}
