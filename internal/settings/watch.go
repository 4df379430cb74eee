package settings

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the several events editors emit per save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a settings file. It watches the parent directory
// rather than the file, because editors save by renaming a temp file over it
// (and so do we).
type Watcher struct {
	path     string
	debounce time.Duration
	log      *zap.Logger
}

// NewWatcher watches path. Debounce defaults to DefaultDebounce if <= 0.
func NewWatcher(path string, debounce time.Duration, log *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{path: path, debounce: debounce, log: log}
}

// Changes emits once per debounced burst of writes to the settings file.
// The channel closes when ctx is cancelled or the watcher fails.
func (w *Watcher) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)

		dir := filepath.Dir(w.path)
		name := filepath.Base(w.path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			w.log.Warn("settings watch: unable to ensure directory", zap.String("dir", dir), zap.Error(err))
			return
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			w.log.Warn("settings watch: new watcher", zap.Error(err))
			return
		}
		defer watcher.Close()

		if err := watcher.Add(dir); err != nil {
			w.log.Warn("settings watch: add", zap.String("dir", dir), zap.Error(err))
			return
		}

		var (
			timer   *time.Timer
			pending bool
		)
		trigger := func() {
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true
		}
		fired := func() <-chan time.Time {
			if timer == nil {
				return nil
			}
			return timer.C
		}

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					trigger()
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("settings watch: watcher error", zap.Error(err))

			case <-fired():
				if pending {
					pending = false
					// coalesce if the receiver is slow
					select {
					case out <- struct{}{}:
					default:
					}
				}
			}
		}
	}()

	return out
}
