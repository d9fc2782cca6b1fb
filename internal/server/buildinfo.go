// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package server

import (
	"fmt"
	"runtime"
)

// BuildInfo records the compile-time information for use when reporting the jackc version.
type BuildInfo struct {
	Branch   string
	Version  string
	Revision string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf(
		"jackc version %s git revision %s go version %s go arch %s go os %s",
		b.Version,
		b.Revision,
		runtime.Version(),
		runtime.GOARCH,
		runtime.GOOS,
	)
}
