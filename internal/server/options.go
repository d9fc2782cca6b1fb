// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package server

import (
	"fmt"
	"net"

	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/hackvm/jackc/internal/loader"
	"go.opencensus.io/trace"
)

// Option configures server.Server
type Option interface {
	apply(*Server) error
}

// SourcePaths sets the files and directories of sources the Server compiles and watches.
func SourcePaths(paths ...string) Option {
	return sourcePaths(paths)
}

type sourcePaths []string

func (opt sourcePaths) apply(m *Server) error {
	m.sourcePaths = append(m.sourcePaths, opt...)
	return nil
}

// LoaderOptions passes options through to the Server's loader.
func LoaderOptions(options ...loader.Option) Option {
	return loaderOptions(options)
}

type loaderOptions []loader.Option

func (opt loaderOptions) apply(m *Server) error {
	m.lOpts = append(m.lOpts, opt...)
	return nil
}

// BindAddress sets the HTTP server address in Server.
func BindAddress(address, port string) Option {
	return &bindAddress{address, port}
}

type bindAddress struct {
	address, port string
}

func (opt bindAddress) apply(m *Server) error {
	if m.listener != nil {
		return fmt.Errorf("HTTP server bind address already supplied")
	}
	m.bindAddress = net.JoinHostPort(opt.address, opt.port)
	var err error
	m.listener, err = net.Listen("tcp", m.bindAddress)
	return err
}

// SetBuildInfo sets the program build information in the Server.
type SetBuildInfo BuildInfo

func (opt SetBuildInfo) apply(m *Server) error {
	m.buildInfo = BuildInfo(opt)
	return nil
}

type niladicOption struct {
	applyfunc func(m *Server) error
}

func (n *niladicOption) apply(m *Server) error {
	return n.applyfunc(m)
}

// HTTPDebugEndpoints enables the /debug/pprof and /debug/vars endpoints.
var HTTPDebugEndpoints = &niladicOption{
	func(m *Server) error {
		m.httpDebugEndpoints = true
		return nil
	}}

// JaegerReporter creates a new jaeger reporter that sends to the given Jaeger endpoint address.
type JaegerReporter string

func (opt JaegerReporter) apply(m *Server) error {
	je, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: string(opt),
		Process: jaeger.Process{
			ServiceName: "jackc",
		},
	})
	if err != nil {
		return err
	}
	trace.RegisterExporter(je)
	return nil
}
