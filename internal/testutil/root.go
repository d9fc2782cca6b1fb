// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"os/user"
	"testing"
)

// SkipIfRoot skips tests that rely on file permissions being enforced.
func SkipIfRoot(tb testing.TB) {
	tb.Helper()
	u, err := user.Current()
	if err != nil {
		tb.Skipf("can't determine the current user: %s", err)
	}
	if u.Uid == "0" {
		tb.Skip("file permissions are not enforced for root")
	}
}
