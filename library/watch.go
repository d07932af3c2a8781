package library

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the library index when another process rewrites it and
// delivers the fresh entries on Updates.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	updates chan []IndexEntry
	done    chan struct{}
}

// Watch starts watching the store's index file for external changes.
func (s *Store) Watch() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the root rather than the index file itself: editors and
	// atomic writers replace files, which drops a file-level watch.
	if err := fw.Add(s.root); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		store:   s,
		watcher: fw,
		updates: make(chan []IndexEntry, 1),
		done:    make(chan struct{}),
	}

	go w.run()
	return w, nil
}

// Updates delivers the library entries after each external index rewrite.
// Slow receivers only see the latest state.
func (w *Watcher) Updates() <-chan []IndexEntry { return w.updates }

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != indexFile {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			entries, err := w.store.List()
			if err != nil {
				log.Debug("failed to reload library index", "error", err)
				continue
			}

			// Drop the stale pending update, if any.
			select {
			case <-w.updates:
			default:
			}
			w.updates <- entries
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Debug("library watcher error", "error", err)
		}
	}
}
