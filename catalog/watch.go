package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events editors emit on save.
const reloadDebounce = 150 * time.Millisecond

// Watch reloads path into store whenever the file changes, until ctx is done.
// The parent directory is watched so atomic renames by editors are seen.
// A file that fails to parse leaves the previous catalog in place.
func Watch(ctx context.Context, path string, store *Store, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return err
	}

	reload := func() {
		c, err := Load(abs)
		if err != nil {
			logger.Warn("catalog reload failed, keeping previous catalog",
				slog.String("path", abs),
				slog.String("error", err.Error()))
			return
		}
		store.Replace(c)
		logger.Info("catalog reloaded",
			slog.String("path", abs),
			slog.Int("products", len(c.products)))
	}

	go func() {
		defer fsw.Close()
		var (
			mu    sync.Mutex
			timer *time.Timer
		)
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
				return
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				mu.Lock()
				if timer == nil {
					timer = time.AfterFunc(reloadDebounce, reload)
				} else {
					timer.Reset(reloadDebounce)
				}
				mu.Unlock()
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("catalog watcher error", slog.String("error", err.Error()))
			}
		}
	}()

	logger.Info("catalog watcher started", slog.String("path", abs))
	return nil
}
