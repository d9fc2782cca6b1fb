// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package loader

import (
	"os"

	"github.com/hackvm/jackc/internal/compiler"
	"github.com/hackvm/jackc/internal/watcher"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a new Loader.
type Option func(*Loader) error

// ErrorsAbort makes CompileAll return an error when any file fails to compile.
func ErrorsAbort() Option {
	return func(l *Loader) error {
		l.errorsAbort = true
		return nil
	}
}

// OutputDir sets the directory the VM files are written to.  The directory must exist.
func OutputDir(dir string) Option {
	return func(l *Loader) error {
		if dir == "" {
			return nil
		}
		s, err := os.Stat(dir)
		if err != nil {
			return errors.Wrapf(err, "failed to stat output directory %q", dir)
		}
		if !s.IsDir() {
			return errors.Errorf("output path %q is not a directory", dir)
		}
		l.outputDir = dir
		return nil
	}
}

// Watch instructs the Loader to observe the compiled paths with w, and to
// recompile each source file as it changes.
func Watch(w watcher.Watcher) Option {
	return func(l *Loader) error {
		l.w = w
		return nil
	}
}

// CompilerOptions passes options through to the compiler.
func CompilerOptions(options ...compiler.Option) Option {
	return func(l *Loader) error {
		l.cOpts = append(l.cOpts, options...)
		return nil
	}
}

// PrometheusRegisterer passes in a registry for setting up exported metrics.
func PrometheusRegisterer(reg prometheus.Registerer) Option {
	return func(l *Loader) error {
		l.reg = reg
		return l.reg.Register(compiler.CompileDurations)
	}
}
