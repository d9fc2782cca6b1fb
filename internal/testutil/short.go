// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import "testing"

// SkipIfShort skips tests that touch the real filesystem watcher or wait on
// timers when run with -short.
func SkipIfShort(tb testing.TB) {
	tb.Helper()
	if !testing.Short() {
		return
	}
	tb.Skip("skipping slow test in -short mode")
}
