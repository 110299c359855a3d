package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"catalog-dashboard/utils"
)

// CatalogWatcher invalidates cached snapshots when the CSV changes on disk.
// It watches the parent directory so editors that replace the file by
// rename are still seen.
type CatalogWatcher struct {
	path     string
	cache    *CatalogCache
	logger   *utils.Logger
	watcher  *fsnotify.Watcher
	onChange func(path string)
}

// NewCatalogWatcher starts watching the directory containing path.
// onChange may be nil.
func NewCatalogWatcher(path string, cache *CatalogCache, onChange func(string), logger *utils.Logger) (*CatalogWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &CatalogWatcher{
		path:     path,
		cache:    cache,
		logger:   logger,
		watcher:  w,
		onChange: onChange,
	}, nil
}

// Run processes file events until ctx is cancelled or the watcher is closed
func (w *CatalogWatcher) Run(ctx context.Context) {
	abs, _ := filepath.Abs(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			w.logger.Info("Data file changed (%s), dropping cached snapshots", event.Op)
			w.cache.Invalidate(w.path)
			if w.onChange != nil {
				w.onChange(w.path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error: %v", err)
		}
	}
}

// Close stops watching
func (w *CatalogWatcher) Close() error {
	return w.watcher.Close()
}
