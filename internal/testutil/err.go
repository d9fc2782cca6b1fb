// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import "testing"

// FatalIfErr stops the test if err is not nil, reporting err.
func FatalIfErr(tb testing.TB, err error) {
	tb.Helper()
	if err == nil {
		return
	}
	tb.Fatal(err)
}
