package config

import (
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a settings file whenever it changes on disk and hands the
// fresh settings to a callback. Parse or validation failures keep the
// previous settings; the change is simply dropped.
type Watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching the settings file. The callback runs on the
// watcher's goroutine; callers that feed the settings into a scene must
// marshal the update onto their own edit thread.
func Watch(path string, onChange func(Settings)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{fw: fw, done: make(chan struct{})}
	go w.run(path, onChange)
	return w, nil
}

func (w *Watcher) run(path string, onChange func(Settings)) {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s, err := Load(path)
			if err != nil {
				continue
			}
			onChange(s)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
