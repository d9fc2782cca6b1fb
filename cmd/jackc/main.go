// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Command jackc compiles Jack classes into virtual machine code.  Each
// Foo.jack file named on the command line, or found directly inside a
// directory named there, is compiled to Foo.vm.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/hackvm/jackc/internal/compiler"
	"github.com/hackvm/jackc/internal/loader"
	"github.com/hackvm/jackc/internal/server"
	"github.com/hackvm/jackc/internal/watcher"
	"go.opencensus.io/trace"
)

var (
	outputDir = flag.String("output_dir", "", "Directory to write .vm files to.  By default each is written beside its source.")
	watch     = flag.Bool("watch", false, "Keep running, and recompile each source file when it changes.")
	port      = flag.String("port", "", "HTTP port to serve status on in -watch mode.  If empty, no HTTP server is started.")
	address   = flag.String("address", "", "Host or IP address on which to bind HTTP listener")

	version = flag.Bool("version", false, "Print jackc version information.")

	// Compiler behaviour flags.
	dumpTokens    = flag.Bool("dump_tokens", false, "Dump the tokens of each class in XML form (to INFO log).")
	dumpVM        = flag.Bool("dump_vm", false, "Dump the VM code of each class (to INFO log).")
	maxIntLiteral = flag.Int("max_int_literal", 32767, "The largest integer constant accepted in source.")

	// Debugging flags.
	httpDebugEndpoints = flag.Bool("http_debugging_endpoint", true, "Enable debugging endpoints (/debug/*).")

	// Tracing.
	jaegerEndpoint    = flag.String("jaeger_endpoint", "", "If set, collector endpoint URL of jaeger thrift service")
	traceSamplePeriod = flag.Int("trace_sample_period", 0, "Sample period for traces.  If non-zero, every nth trace will be sampled.")
)

var (
	// Branch as well as Version and Revision identifies where in the git
	// history the build came from, as supplied by the linker when compiled
	// with `make'.  The defaults here indicate that the user did not use
	// `make' as instructed.
	Branch   = "invalid:-use-make-to-build"
	Version  = "invalid:-use-make-to-build"
	Revision = "invalid:-use-make-to-build"
)

func main() {
	buildInfo := server.BuildInfo{
		Branch:   Branch,
		Version:  Version,
		Revision: Revision,
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", buildInfo.String())
		fmt.Fprintf(os.Stderr, "\nUsage: %s [flags] <file.jack | directory>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *version {
		fmt.Println(buildInfo.String())
		os.Exit(0)
	}
	glog.Info(buildInfo.String())
	glog.Infof("Commandline: %q", os.Args)
	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		glog.Exitf("jackc requires one or more source files or directories to compile.")
	}
	if *port != "" && !*watch {
		glog.Exitf("-port is only used with -watch.")
	}

	if *traceSamplePeriod > 0 {
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(1 / float64(*traceSamplePeriod))})
	}

	cOpts := []compiler.Option{
		compiler.MaxIntLiteral(*maxIntLiteral),
	}
	if *dumpTokens {
		cOpts = append(cOpts, compiler.DumpTokens())
	}
	if *dumpVM {
		cOpts = append(cOpts, compiler.DumpVM())
	}
	lOpts := []loader.Option{
		loader.OutputDir(*outputDir),
		loader.CompilerOptions(cOpts...),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !*watch {
		if *jaegerEndpoint != "" {
			glog.Warning("-jaeger_endpoint is only used with -watch")
		}
		l, err := loader.New(append(lOpts, loader.ErrorsAbort())...)
		if err != nil {
			glog.Exit(err)
		}
		if err := l.CompileAll(ctx, paths); err != nil {
			fmt.Fprintln(os.Stderr, err)
			cancel()
			os.Exit(1) //nolint:gocritic // false positive
		}
		return
	}

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigint
		glog.Infof("Received %+v, exiting...", sig)
		cancel()
	}()

	w, err := watcher.NewSourceWatcher()
	if err != nil {
		glog.Exit(err)
	}
	opts := []server.Option{
		server.SourcePaths(paths...),
		server.LoaderOptions(lOpts...),
		server.SetBuildInfo(buildInfo),
	}
	if *port != "" {
		opts = append(opts, server.BindAddress(*address, *port))
	}
	if *httpDebugEndpoints {
		opts = append(opts, server.HTTPDebugEndpoints)
	}
	if *jaegerEndpoint != "" {
		opts = append(opts, server.JaegerReporter(*jaegerEndpoint))
	}
	m, err := server.New(ctx, w, opts...)
	if err != nil {
		glog.Error(err)
		cancel()
		os.Exit(1) //nolint:gocritic // false positive
	}
	if err := m.Run(); err != nil {
		glog.Error(err)
		cancel()
		os.Exit(1) //nolint:gocritic // false positive
	}
}
