// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package testutil holds helpers shared by the tests of the compiler and its
// drivers.  The go-cmp package is reimported here so tests need not import
// it directly.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Diff(a, b interface{}, opts ...cmp.Option) string {
	return cmp.Diff(a, b, opts...)
}

// ExpectNoDiff tests to see if the two interfaces have no diff.
// If there is no diff, the return value is true.
// If there is a diff, it is logged to tb and an error is flagged, and the return value is false.
func ExpectNoDiff(tb testing.TB, a, b interface{}, opts ...cmp.Option) bool {
	tb.Helper()
	if diff := Diff(a, b, opts...); diff != "" {
		tb.Errorf("Unexpected diff, -want +got:\n%s", diff)
		tb.Logf("expected:\n%#v", a)
		tb.Logf("received:\n%#v", b)
		return false
	}
	return true
}
