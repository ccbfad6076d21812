// Package watch implements the polling file watcher behind continuous
// rebuild mode.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Options configures a watcher.
type Options struct {
	// Paths are the directories to scan.
	Paths []string
	// Ignored directory names are skipped entirely.
	Ignored []string
	// PollInterval is how often the tree is scanned.
	PollInterval time.Duration
	// AggregateTimeout is how long a change set must stay quiet before
	// the callback fires.
	AggregateTimeout time.Duration
}

// Watcher scans the source tree on a fixed interval and fires a
// callback once a burst of changes has settled.
type Watcher struct {
	opts       Options
	timestamps map[string]time.Time
}

// New creates a watcher. Zero intervals default to one second.
func New(opts Options) *Watcher {
	if opts.PollInterval == 0 {
		opts.PollInterval = time.Second
	}
	if opts.AggregateTimeout == 0 {
		opts.AggregateTimeout = time.Second
	}

	return &Watcher{
		opts:       opts,
		timestamps: make(map[string]time.Time),
	}
}

// Run blocks, invoking onChange after each settled burst of changes,
// until the context is cancelled. The initial scan establishes a
// baseline and never fires the callback.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	w.scan()

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	var pending bool
	var lastChange time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if w.scan() {
				pending = true
				lastChange = time.Now()
				continue
			}
			if pending && time.Since(lastChange) >= w.opts.AggregateTimeout {
				pending = false
				onChange()
			}
		}
	}
}

// scan walks the watched paths and reports whether anything changed
// since the previous scan.
func (w *Watcher) scan() bool {
	seen := make(map[string]bool, len(w.timestamps))
	changed := false

	for _, root := range w.opts.Paths {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr
			}
			if d.IsDir() {
				if w.ignored(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil //nolint:nilerr
			}

			seen[path] = true
			if prev, ok := w.timestamps[path]; !ok || !prev.Equal(info.ModTime()) {
				w.timestamps[path] = info.ModTime()
				changed = true
				log.Debug().Str("file", path).Msg("Change detected")
			}
			return nil
		})
		if err != nil {
			log.Debug().Err(err).Str("path", root).Msg("Watch scan failed")
		}
	}

	for path := range w.timestamps {
		if !seen[path] {
			delete(w.timestamps, path)
			changed = true
			log.Debug().Str("file", path).Msg("Removal detected")
		}
	}

	return changed
}

func (w *Watcher) ignored(name string) bool {
	for _, ig := range w.opts.Ignored {
		if name == ig {
			return true
		}
	}
	return false
}
