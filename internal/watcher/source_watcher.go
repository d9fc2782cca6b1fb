// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"context"
	"expvar"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	errorCount = expvar.NewInt("source_watcher_errors_total")
)

// SourceWatcher implements a Watcher for real filesystems, backed by fsnotify.
// Files are watched through their parent directory, so that editors which
// replace a file on save do not lose the watch.
type SourceWatcher struct {
	watcher *fsnotify.Watcher

	watchedMu sync.RWMutex // protects `watched'
	watched   map[string][]Processor

	eventsDone chan struct{} // Closed when the events handler is done.

	closeOnce sync.Once
}

// NewSourceWatcher returns a new SourceWatcher, or returns an error.
func NewSourceWatcher() (*SourceWatcher, error) {
	f, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	w := &SourceWatcher{
		watcher:    f,
		watched:    make(map[string][]Processor),
		eventsDone: make(chan struct{}),
	}
	go w.runEvents()
	return w, nil
}

// sendEvent delivers e to the observers of its path, or failing that of its directory.
func (w *SourceWatcher) sendEvent(e Event) {
	w.watchedMu.RLock()
	ps, ok := w.watched[e.Pathname]
	if !ok {
		ps, ok = w.watched[filepath.Dir(e.Pathname)]
	}
	w.watchedMu.RUnlock()
	if !ok {
		glog.V(2).Infof("No watch for path %q", e.Pathname)
		return
	}
	for _, p := range ps {
		p.ProcessFileEvent(context.TODO(), e)
	}
}

func (w *SourceWatcher) runEvents() {
	defer close(w.eventsDone)

	// Suck out errors and dump them to the error log.
	go func() {
		for err := range w.watcher.Errors {
			errorCount.Add(1)
			glog.Errorf("fsnotify error: %s\n", err)
		}
	}()

	for e := range w.watcher.Events {
		glog.V(2).Infof("watcher event %v", e)
		switch {
		case e.Op&fsnotify.Create == fsnotify.Create:
			w.sendEvent(Event{Create, e.Name})
		case e.Op&fsnotify.Write == fsnotify.Write:
			w.sendEvent(Event{Update, e.Name})
		case e.Op&fsnotify.Remove == fsnotify.Remove,
			e.Op&fsnotify.Rename == fsnotify.Rename:
			// Rename is only issued on the original file path; the new name receives a Create event
			w.sendEvent(Event{Delete, e.Name})
		default:
			glog.V(2).Infof("ignoring %v", e)
		}
	}
	glog.Infof("Shutting down source watcher.")
}

// Close shuts down the SourceWatcher.  It is safe to call this from multiple clients.
func (w *SourceWatcher) Close() (err error) {
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
		<-w.eventsDone
	})
	return
}

// Observe adds a file or directory to the list of watched items.  Events on
// the path, or on any file directly inside a watched directory, are sent to
// processor.
func (w *SourceWatcher) Observe(path string, processor Processor) error {
	absPath, err := w.addWatch(path)
	if err != nil {
		return err
	}
	w.watchedMu.Lock()
	defer w.watchedMu.Unlock()
	for _, p := range w.watched[absPath] {
		if p == processor {
			return nil
		}
	}
	w.watched[absPath] = append(w.watched[absPath], processor)
	glog.V(1).Infof("watching %s", absPath)
	return nil
}

func (w *SourceWatcher) addWatch(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to lookup absolutepath of %q", path)
	}
	fi, err := os.Stat(absPath)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to stat %q", absPath)
	}
	dir := absPath
	if !fi.IsDir() {
		dir = filepath.Dir(absPath)
	}
	glog.V(2).Infof("Adding a watch on resolved path %q", dir)
	if err := w.watcher.Add(dir); err != nil {
		return "", errors.Wrapf(err, "Failed to create a new watch on %q", dir)
	}
	return absPath, nil
}

// IsWatching indicates if the path is being watched. It includes both
// filenames and directories.
func (w *SourceWatcher) IsWatching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		glog.V(2).Infof("Couldn't resolve path %q: %s", absPath, err)
		return false
	}
	w.watchedMu.RLock()
	_, ok := w.watched[absPath]
	w.watchedMu.RUnlock()
	return ok
}
