package command

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of file events for the same descriptor
// (editors fire several writes per save).
const watchDebounce = 250 * time.Millisecond

// Watch reloads commands whose descriptor files change on disk. New
// descriptor files are loaded fresh. Blocks until ctx is cancelled;
// run in a goroutine.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return err
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn().Err(err).Msg("descriptor watcher error")
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".yaml") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending[ev.Name] = time.Now()
		case <-ticker.C:
			for path, seen := range pending {
				if time.Since(seen) < watchDebounce {
					continue
				}
				delete(pending, path)
				r.reloadFromFile(ctx, path)
			}
		}
	}
}

func (r *Registry) reloadFromFile(ctx context.Context, path string) {
	name := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	if _, ok := r.Get(name); ok {
		if _, err := r.Reload(ctx, name); err != nil {
			r.log.Error().Err(err).Str("command", name).Msg("descriptor changed but reload failed, keeping old version")
		}
		return
	}

	if _, err := r.Load(ctx, path); err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("new descriptor failed to load")
	}
}
