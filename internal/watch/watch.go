// Package watch re-runs work when watched source files change.
package watch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it counts as changed.
const DefaultDebounce = 120 * time.Millisecond

type Options struct {
	Debounce time.Duration
	// OnError receives watcher errors and errors returned by the callback.
	// Watching continues after both.
	OnError func(error)
}

// Watcher tracks a fixed set of files by content hash.
type Watcher struct {
	paths  map[string]struct{}
	hashes map[string][sha256.Size]byte
	opts   Options
}

// New records the current content of paths. Missing files are allowed and
// count as changed once they appear.
func New(paths []string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	w := &Watcher{
		paths:  make(map[string]struct{}, len(paths)),
		hashes: make(map[string][sha256.Size]byte, len(paths)),
		opts:   opts,
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		w.paths[abs] = struct{}{}
		if sum, ok, err := hashFile(abs); err != nil {
			return nil, err
		} else if ok {
			w.hashes[abs] = sum
		}
	}
	return w, nil
}

func hashFile(path string) ([sha256.Size]byte, bool, error) {
	// #nosec G304 -- watched paths come from the command line
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return [sha256.Size]byte{}, false, nil
		}
		return [sha256.Size]byte{}, false, fmt.Errorf("read %s: %w", path, err)
	}
	return sha256.Sum256(raw), true, nil
}

// Changed re-hashes the candidates and returns, sorted, those whose content
// differs from the last recorded state. Editors that touch a file without
// changing it do not trigger a run.
func (w *Watcher) Changed(candidates []string) []string {
	var out []string
	for _, p := range candidates {
		if _, ok := w.paths[p]; !ok {
			continue
		}
		sum, ok, err := hashFile(p)
		if err != nil {
			w.report(err)
			continue
		}
		if !ok {
			continue
		}
		if prev, seen := w.hashes[p]; seen && prev == sum {
			continue
		}
		w.hashes[p] = sum
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) report(err error) {
	if w.opts.OnError != nil {
		w.opts.OnError(err)
	}
}

// Run blocks until ctx is done, calling onChange with the files whose
// content changed. Directories are watched rather than files so editors
// that save by rename are seen.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		_ = fw.Close()
	}()

	dirs := make(map[string]struct{})
	for p := range w.paths {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch directory %s: %w", dir, err)
		}
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.opts.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Chmod) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if _, ok := w.paths[name]; ok {
				pending[name] = time.Now()
			}
		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.report(fmt.Errorf("file watcher: %w", watchErr))
		case now := <-ticker.C:
			var quiet []string
			for p, at := range pending {
				if now.Sub(at) >= w.opts.Debounce {
					quiet = append(quiet, p)
					delete(pending, p)
				}
			}
			if len(quiet) == 0 {
				continue
			}
			changed := w.Changed(quiet)
			if len(changed) == 0 {
				continue
			}
			if err := onChange(ctx, changed); err != nil {
				w.report(err)
			}
		}
	}
}
