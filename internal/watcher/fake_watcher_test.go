// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"context"
	"sync"
	"testing"

	"github.com/hackvm/jackc/internal/testutil"
)

type stubProcessor struct {
	mu     sync.Mutex
	Events []Event
}

func (s *stubProcessor) ProcessFileEvent(ctx context.Context, e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, e)
}

func (s *stubProcessor) received() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.Events...)
}

func TestFakeWatcher(t *testing.T) {
	w := NewFakeWatcher()
	defer w.Close()

	s := &stubProcessor{}
	testutil.FatalIfErr(t, w.Observe("/src", s))
	if !w.IsWatching("/src") {
		t.Errorf("Not watching /src, w contains: %+#v", w.watches)
	}

	w.InjectCreate("/src/Main.jack")
	w.InjectUpdate("/src/Main.jack")
	w.InjectDelete("/src/Main.jack")
	w.InjectUpdate("/other/Main.jack")

	expected := []Event{
		{Create, "/src/Main.jack"},
		{Update, "/src/Main.jack"},
		{Delete, "/src/Main.jack"},
	}
	testutil.ExpectNoDiff(t, expected, s.received())
}

func TestFakeWatcherFile(t *testing.T) {
	w := NewFakeWatcher()
	s := &stubProcessor{}
	testutil.FatalIfErr(t, w.Observe("/src/Main.jack", s))

	w.InjectUpdate("/src/Main.jack")
	w.InjectUpdate("/src/Other.jack")
	testutil.FatalIfErr(t, w.Close())
	w.InjectUpdate("/src/Main.jack")

	testutil.ExpectNoDiff(t, []Event{{Update, "/src/Main.jack"}}, s.received())
}

func TestOpTypeString(t *testing.T) {
	for op, want := range map[OpType]string{Create: "Create", Update: "Update", Delete: "Delete", OpType(0): "Unknown"} {
		if op.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(op), op.String(), want)
		}
	}
}
