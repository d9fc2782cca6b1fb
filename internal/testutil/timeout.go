// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"time"

	"github.com/golang/glog"
)

// DoOrTimeout calls do every interval until it returns true or an error, or
// until deadline passes.  It returns false and no error on timeout.
func DoOrTimeout(do func() (bool, error), deadline, interval time.Duration) (bool, error) {
	timeout := time.NewTimer(deadline)
	defer timeout.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for attempt := 1; ; attempt++ {
		select {
		case <-timeout.C:
			glog.V(2).Infof("gave up after %d attempts", attempt-1)
			return false, nil
		case <-ticker.C:
			ok, err := do()
			glog.V(2).Infof("attempt %d: ok %v, err %v", attempt, ok, err)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
}
