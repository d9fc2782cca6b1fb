// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package server runs the compiler in watch mode, recompiling sources as
// they change, and optionally serves its status over HTTP.
package server

import (
	"context"
	"expvar"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/hackvm/jackc/internal/loader"
	"github.com/hackvm/jackc/internal/watcher"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"go.opencensus.io/zpages"
)

// Server contains the state of a watching compiler.
type Server struct {
	ctx    context.Context
	cancel context.CancelFunc
	w      watcher.Watcher

	l *loader.Loader // l compiles the sources and recompiles them on change

	reg *prometheus.Registry

	h        *http.Server
	listener net.Listener

	webquit   chan struct{} // Channel to signal shutdown from web UI
	closeQuit chan struct{} // Channel to signal shutdown from code
	closeOnce sync.Once     // Ensure shutdown happens only once

	bindAddress string          // address to bind HTTP server
	buildInfo   BuildInfo       // go build information
	sourcePaths []string        // files and directories of sources to compile
	lOpts       []loader.Option // options passed through to the loader

	httpDebugEndpoints bool // if set, serve /debug/pprof and /debug/vars
}

// initLoader constructs a new loader and performs the initial compile of the source paths.
func (m *Server) initLoader() error {
	opts := []loader.Option{
		loader.PrometheusRegisterer(m.reg),
		loader.Watch(m.w),
	}
	opts = append(opts, m.lOpts...)
	var err error
	m.l, err = loader.New(opts...)
	if err != nil {
		return err
	}
	if len(m.sourcePaths) == 0 {
		return errors.New("no source paths to watch")
	}
	return m.l.CompileAll(m.ctx, m.sourcePaths)
}

// New creates a Server from the supplied Options.  The sources are compiled
// once before New returns, and recompiled as w reports changes to them.
func New(ctx context.Context, w watcher.Watcher, options ...Option) (*Server, error) {
	m := &Server{
		w:         w,
		webquit:   make(chan struct{}),
		closeQuit: make(chan struct{}),
		h:         &http.Server{},
		reg:       prometheus.NewRegistry(),
	}
	m.ctx, m.cancel = context.WithCancel(ctx)

	expvarDescs := map[string]*prometheus.Desc{
		// internal/loader/loader.go
		"prog_loads_total":       prometheus.NewDesc("prog_loads_total", "number of successful compiles by source filename", []string{"prog"}, nil),
		"prog_load_errors_total": prometheus.NewDesc("prog_load_errors_total", "number of failed compiles by source filename", []string{"prog"}, nil),
		"prog_cache_hits_total":  prometheus.NewDesc("prog_cache_hits_total", "number of compiles skipped for unchanged sources by source filename", []string{"prog"}, nil),
		// internal/watcher/source_watcher.go
		"source_watcher_errors_total": prometheus.NewDesc("source_watcher_errors_total", "number of errors reported by the filesystem watcher", nil, nil),
	}
	m.reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	// Prefix all expvar metrics with 'jackc_'
	prometheus.WrapRegistererWithPrefix("jackc_", m.reg).MustRegister(
		prometheus.NewExpvarCollector(expvarDescs))
	if err := m.SetOption(options...); err != nil {
		if m.listener != nil {
			m.listener.Close()
		}
		return nil, err
	}

	// Create jackc_build_info metric.
	version.Branch = m.buildInfo.Branch
	version.Version = m.buildInfo.Version
	version.Revision = m.buildInfo.Revision
	m.reg.MustRegister(version.NewCollector("jackc"))

	if err := m.initLoader(); err != nil {
		if m.listener != nil {
			m.listener.Close()
		}
		return nil, err
	}
	return m, nil
}

// SetOption takes one or more option functions and applies them in order to Server.
func (m *Server) SetOption(options ...Option) error {
	for _, option := range options {
		if err := option.apply(m); err != nil {
			return err
		}
	}
	return nil
}

// Serve begins the webserver and awaits a shutdown instruction.
func (m *Server) Serve() error {
	if m.listener == nil {
		return errors.Errorf("No bind address provided.")
	}
	mux := http.NewServeMux()
	mux.Handle("/", m)
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/quitquitquit", m.quitHandler)
	if m.httpDebugEndpoints {
		mux.Handle("/debug/vars", expvar.Handler())
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	zpages.Handle(mux, "/")
	m.h.Handler = mux

	errc := make(chan error, 1)
	go func() {
		glog.Infof("Listening on %s", m.listener.Addr())
		err := m.h.Serve(m.listener)
		if err == http.ErrServerClosed {
			err = nil
		}
		errc <- err
	}()
	m.WaitForShutdown()
	return <-errc
}

// quitHandler shuts the server down on a POST request.
func (m *Server) quitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Add("Allow", http.MethodPost)
		http.Error(w, "Use POST to quit", http.StatusMethodNotAllowed)
		return
	}
	glog.Info("Received quit request over HTTP")
	w.WriteHeader(http.StatusOK)
	select {
	case <-m.webquit:
	default:
		close(m.webquit)
	}
}

// WaitForShutdown handles shutdown requests from the system or the UI.
func (m *Server) WaitForShutdown() {
	n := make(chan os.Signal, 1)
	signal.Notify(n, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(n)
	select {
	case <-m.ctx.Done():
		glog.Info("External shutdown, exiting...")
	case <-n:
		glog.Info("Received SIGTERM, exiting...")
	case <-m.webquit:
		glog.Info("Received Quit from HTTP, exiting...")
	case <-m.closeQuit:
		glog.Info("Received quit internally, exiting...")
	}
	if err := m.Close(false); err != nil {
		glog.Warning(err)
	}
}

// Close handles the graceful shutdown of this server, ensuring that it
// only occurs once.  If fast is true, then the http server is shutdown without
// waiting.
func (m *Server) Close(fast bool) error {
	var err error
	m.closeOnce.Do(func() {
		glog.Info("Shutdown requested.")
		close(m.closeQuit)
		m.cancel()
		if m.w != nil {
			if err = m.w.Close(); err != nil {
				glog.Infof("watcher close failed: %s", err)
			}
		}
		if m.h != nil && m.h.Handler != nil {
			glog.Info("Shutting down http server")
			if fast {
				m.h.Close()
			} else {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := m.h.Shutdown(ctx); err != nil {
					glog.Error(err)
				}
				cancel()
			}
		} else if m.listener != nil {
			m.listener.Close()
		}
		glog.Info("END OF LINE")
	})
	return err
}

// Run watches the sources until shutdown, serving HTTP if a bind address was given.
func (m *Server) Run() error {
	if m.listener == nil {
		glog.Info("No HTTP port given, watching sources only")
		m.WaitForShutdown()
		return nil
	}
	return m.Serve()
}

// Addr returns the address the HTTP server is listening on.
func (m *Server) Addr() string {
	if m.listener == nil {
		return "none"
	}
	return m.listener.Addr().String()
}
