// Package watch re-runs a callback when input files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce absorbs the burst of events editors emit per save.
const DefaultDebounce = 250 * time.Millisecond

// Files calls fn after any of paths is written, created or renamed,
// coalescing events that arrive within debounce. It watches the parent
// directories so editors that replace files atomically are still seen.
// Files blocks until ctx is cancelled. Calls to fn never overlap.
func Files(ctx context.Context, paths []string, debounce time.Duration, log zerolog.Logger, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	wanted := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		wanted[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
		run   sync.Mutex
	)
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			if ctx.Err() != nil {
				return
			}
			run.Lock()
			defer run.Unlock()
			fn()
		})
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
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(ev.Name)
			if wanted[name] && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				log.Debug().Str("file", name).Str("op", ev.Op.String()).Msg("input changed")
				trigger()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}
