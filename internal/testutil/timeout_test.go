// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestDoOrTimeout(t *testing.T) {
	SkipIfShort(t)

	failure := errors.New("failed")
	for _, tc := range []struct {
		name     string
		deadline time.Duration
		do       func() func() (bool, error)
		ok       bool
		err      error
	}{
		{"never ready", 10 * time.Millisecond, func() func() (bool, error) {
			return func() (bool, error) { return false, nil }
		}, false, nil},
		{"ready after a few tries", 100 * time.Millisecond, func() func() (bool, error) {
			i := 5
			return func() (bool, error) {
				i--
				return i <= 0, nil
			}
		}, true, nil},
		{"ready at once", 10 * time.Millisecond, func() func() (bool, error) {
			return func() (bool, error) { return true, nil }
		}, true, nil},
		{"error stops", 100 * time.Millisecond, func() func() (bool, error) {
			return func() (bool, error) { return false, failure }
		}, false, failure},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ok, err := DoOrTimeout(tc.do(), tc.deadline, time.Millisecond)
			if ok != tc.ok || err != tc.err {
				t.Errorf("want %v, %v; got %v, %v", tc.ok, tc.err, ok, err)
			}
		})
	}
}
