// Package watch re-runs a callback when component sources change.
package watch

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces editor write+rename bursts into one rebuild
const defaultDebounce = 300 * time.Millisecond

// defaultIgnores are never watched
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// Config holds watcher configuration
type Config struct {
	BaseDir  string        // Directory watched recursively
	Patterns []string      // ["**/*.js"] - empty matches everything
	Ignore   []string      // Merged with defaultIgnores
	Debounce time.Duration // Quiet period before OnChange fires (default: 300ms)
	Logger   *log.Logger   // nil disables logging

	// OnChange receives the sorted, deduplicated changed paths relative to BaseDir
	OnChange func(ctx context.Context, changed []string) error
}

// Watcher fires a debounced callback when matching files change
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	ignores  []string
	debounce time.Duration
	baseDir  string
	logger   *log.Logger
}

// New validates patterns and registers every non-ignored directory under BaseDir.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	for _, p := range append(slices.Clone(cfg.Patterns), cfg.Ignore...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("watch: invalid pattern %q", p)
		}
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		debounce: debounce,
		baseDir:  absBase,
		logger:   logger,
	}

	if err := w.addDirectories(); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// Run processes events until ctx is cancelled. Callbacks never overlap: events
// arriving during a callback are batched into the next one.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running sync.Mutex
	)

	fire := func() {
		running.Lock()
		defer running.Unlock()

		if ctx.Err() != nil {
			return
		}

		mu.Lock()
		changed := slices.Collect(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}
		sort.Strings(changed)

		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.logger.Error("rebuild failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: event channel closed")
			}

			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				rel = evt.Name
			}

			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name, rel)
			}

			if !w.Matches(rel) {
				continue
			}

			mu.Lock()
			pending[filepath.ToSlash(rel)] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: error channel closed")
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// Matches reports whether a path relative to BaseDir should trigger a rebuild.
func (w *Watcher) Matches(rel string) bool {
	if w.isIgnored(rel) {
		return false
	}
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	return matchAny(w.cfg.Patterns, rel)
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

// addDirectories registers BaseDir and every non-ignored directory below it.
func (w *Watcher) addDirectories() error {
	err := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(w.baseDir, path)
		if err != nil {
			return nil
		}
		if rel != "." && (w.isIgnored(rel) || w.isIgnored(rel+"/")) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk directory tree: %w", err)
	}
	return nil
}

// maybeAddDir extends the watch to directories created after startup.
func (w *Watcher) maybeAddDir(path, rel string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("cannot watch new directory", "path", path, "err", err)
	}
}

// matchAny matches rel, normalized to forward slashes, against doublestar patterns.
func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, normalized); err == nil && ok {
			return true
		}
	}
	return false
}
