package filewatch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Reloader re-reads its backing file.
type Reloader interface {
	Reload() error
}

// FileWatcher reloads a store whenever its file is written or replaced. The parent
// directory is watched because atomic rewrites swap the file out by rename.
type FileWatcher struct {
	path    string
	target  Reloader
	watcher *fsnotify.Watcher
	log     zerolog.Logger
}

func NewFileWatcher(path string, target Reloader, log zerolog.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{path: abs, target: target, watcher: w, log: log}, nil
}

// Watch blocks until ctx is done or the watcher is closed.
func (fw *FileWatcher) Watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.HandleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Error().Err(err).Msg("file watcher error")
		}
	}
}

// HandleEvent reloads the target when event touches the watched file. It reports
// whether a reload happened.
func (fw *FileWatcher) HandleEvent(event fsnotify.Event) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != fw.path {
		return false
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}

	fw.log.Debug().Str("file", name).Str("op", event.Op.String()).Msg("db file changed")
	if err := fw.target.Reload(); err != nil {
		fw.log.Error().Err(err).Str("file", name).Msg("reloading db file")
		return false
	}
	return true
}

func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
