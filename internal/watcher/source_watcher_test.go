// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/hackvm/jackc/internal/testutil"
)

func TestSourceWatcherObserveNotFound(t *testing.T) {
	workdir := testutil.TestTempDir(t)

	w, err := NewSourceWatcher()
	testutil.FatalIfErr(t, err)
	defer func() {
		testutil.FatalIfErr(t, w.Close())
	}()
	s := &stubProcessor{}
	if err := w.Observe(filepath.Join(workdir, "Missing.jack"), s); err == nil {
		t.Errorf("did not receive an error for nonexistent file")
	}
}

func TestSourceWatcherNewFile(t *testing.T) {
	testutil.SkipIfShort(t)
	workdir := testutil.TestTempDir(t)

	w, err := NewSourceWatcher()
	testutil.FatalIfErr(t, err)
	defer func() {
		testutil.FatalIfErr(t, w.Close())
	}()

	s := &stubProcessor{}
	testutil.FatalIfErr(t, w.Observe(workdir, s))
	if !w.IsWatching(workdir) {
		t.Fatalf("not watching %s", workdir)
	}
	name := filepath.Join(workdir, "Main.jack")
	f := testutil.TestOpenFile(t, name)
	testutil.FatalIfErr(t, f.Close())

	ok, err := testutil.DoOrTimeout(func() (bool, error) {
		for _, e := range s.received() {
			if e.Op == Create && e.Pathname == name {
				return true, nil
			}
		}
		return false, nil
	}, 5*time.Second, 10*time.Millisecond)
	testutil.FatalIfErr(t, err)
	if !ok {
		t.Errorf("no create event for %s, got %v", name, s.received())
	}
}
