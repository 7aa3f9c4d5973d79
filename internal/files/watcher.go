package files

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watcher coalesces filesystem events on the audio directory into simple
// change signals. Consumers rescan the directory on each signal rather than
// interpreting individual events.
type Watcher struct {
	fw      *fsnotify.Watcher
	changes chan struct{}
}

// Watch starts watching dir for file additions, removals and renames.
func Watch(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{fw: fw, changes: make(chan struct{}, 1)}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.changes)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			// Coalesce: a pending signal already covers this event.
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Changes delivers one signal per batch of directory changes. The channel
// is closed when the watcher shuts down.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and closes the Changes channel.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
