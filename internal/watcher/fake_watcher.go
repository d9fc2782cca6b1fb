// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/golang/glog"
)

// FakeWatcher implements an in-memory Watcher.
type FakeWatcher struct {
	watchesMu sync.RWMutex
	watches   map[string]map[Processor]struct{}
	isClosed  bool
}

// NewFakeWatcher returns a fake Watcher for use in tests.
func NewFakeWatcher() *FakeWatcher {
	return &FakeWatcher{
		watches: make(map[string]map[Processor]struct{})}
}

// Observe registers p for events on name.
func (w *FakeWatcher) Observe(name string, p Processor) error {
	w.watchesMu.Lock()
	defer w.watchesMu.Unlock()
	_, ok := w.watches[name]
	if !ok {
		w.watches[name] = make(map[Processor]struct{})
	}
	w.watches[name][p] = struct{}{}
	return nil
}

// Close closes down the FakeWatcher
func (w *FakeWatcher) Close() error {
	w.watchesMu.Lock()
	defer w.watchesMu.Unlock()
	w.isClosed = true
	return nil
}

// IsWatching reports whether name has been observed.
func (w *FakeWatcher) IsWatching(name string) bool {
	w.watchesMu.RLock()
	defer w.watchesMu.RUnlock()
	_, ok := w.watches[name]
	return ok
}

// SendEvent delivers e synchronously to the observers of its path, or of its directory.
func (w *FakeWatcher) SendEvent(e Event) {
	w.watchesMu.RLock()
	watches, ok := w.watches[e.Pathname]
	if !ok {
		watches, ok = w.watches[filepath.Dir(e.Pathname)]
	}
	closed := w.isClosed
	w.watchesMu.RUnlock()
	if closed {
		glog.Infof("watcher closed, dropping %v", e)
		return
	}
	if !ok {
		glog.Infof("Didn't find %s in watched list", e.Pathname)
		return
	}
	for p := range watches {
		p.ProcessFileEvent(context.Background(), e)
	}
}

// InjectCreate lets a test inject a fake creation event.
func (w *FakeWatcher) InjectCreate(name string) {
	w.SendEvent(Event{Create, name})
}

// InjectUpdate lets a test inject a fake update event.
func (w *FakeWatcher) InjectUpdate(name string) {
	w.SendEvent(Event{Update, name})
}

// InjectDelete lets a test inject a fake deletion event.
func (w *FakeWatcher) InjectDelete(name string) {
	w.SendEvent(Event{Delete, name})
}
