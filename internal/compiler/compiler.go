// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package compiler turns one Jack class into virtual machine code.
package compiler

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/hackvm/jackc/internal/compiler/code"
	"github.com/hackvm/jackc/internal/compiler/codegen"
	"github.com/hackvm/jackc/internal/compiler/parser"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opencensus.io/trace"
)

// CompileDurations records the time taken to compile each class.
var CompileDurations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "jackc",
	Subsystem: "compiler",
	Name:      "compile_duration_seconds",
	Help:      "Class compilation time distribution in seconds.",
	Buckets:   prometheus.ExponentialBuckets(0.0001, 2.0, 12),
}, []string{"class"})

// Compiler compiles Jack classes.  A Compiler holds no per-class state and
// may be used from several goroutines at once.
type Compiler struct {
	dumpTokens    bool // Log the token stream of each class.
	dumpVM        bool // Log the VM code of each class.
	maxIntLiteral int  // Largest integer constant accepted by the lexer.
}

// New creates a new Compiler.
func New(options ...Option) (*Compiler, error) {
	c := &Compiler{maxIntLiteral: parser.DefaultMaxIntLiteral}
	if err := c.SetOption(options...); err != nil {
		return nil, err
	}
	return c, nil
}

// SetOption takes one or more option functions and applies them in order to Compiler.
func (c *Compiler) SetOption(options ...Option) error {
	for _, option := range options {
		if err := option(c); err != nil {
			return err
		}
	}
	return nil
}

// Compile compiles the class read from input, and writes its VM code to
// output.  Errors in the source are returned as an errors.ErrorList whose
// positions carry the base name of name.  Nothing is written to output
// unless compilation succeeds.
func (c *Compiler) Compile(ctx context.Context, name string, input io.Reader, output io.Writer) error {
	_, span := trace.StartSpan(ctx, "compiler.Compile")
	defer span.End()
	name = filepath.Base(name)
	span.AddAttributes(trace.StringAttribute("file", name))
	start := time.Now()
	defer func() {
		CompileDurations.WithLabelValues(strings.TrimSuffix(name, filepath.Ext(name))).Observe(time.Since(start).Seconds())
	}()

	src, err := ioutil.ReadAll(input)
	if err != nil {
		return errors.Wrapf(err, "failed to read %q", name)
	}
	if c.dumpTokens {
		var b strings.Builder
		if err := parser.WriteTokensXML(&b, c.tokenizer(name, src)); err != nil {
			span.SetStatus(trace.Status{Code: trace.StatusCodeInvalidArgument, Message: err.Error()})
			return err
		}
		glog.Infof("%s tokens:\n%s", name, b.String())
	}

	var buf bytes.Buffer
	w := code.NewWriter(&buf)
	if err := codegen.CodeGen(c.tokenizer(name, src), w); err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeInvalidArgument, Message: err.Error()})
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "failed to emit code for %q", name)
	}
	span.AddAttributes(trace.Int64Attribute("instructions", int64(w.Count())))
	if c.dumpVM {
		glog.Infof("%s VM code:\n%s", name, buf.String())
	}
	glog.V(1).Infof("compiled %s to %d instructions", name, w.Count())
	if _, err := buf.WriteTo(output); err != nil {
		return errors.Wrapf(err, "failed to write code for %q", name)
	}
	return nil
}

func (c *Compiler) tokenizer(name string, src []byte) *parser.Tokenizer {
	return parser.NewTokenizer(name, bytes.NewReader(src), parser.MaxIntLiteral(c.maxIntLiteral))
}
