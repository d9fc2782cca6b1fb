// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package loader compiles Jack source files found at a set of paths into VM
// files, and optionally recompiles them as they change.
package loader

import (
	"bytes"
	"context"
	"crypto/sha256"
	"expvar"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/golang/groupcache/lru"
	"github.com/hackvm/jackc/internal/compiler"
	"github.com/hackvm/jackc/internal/watcher"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ProgLoads counts the number of successful compiles of each source file.
	ProgLoads = expvar.NewMap("prog_loads_total")
	// ProgLoadErrors counts the number of failed compiles of each source file.
	ProgLoadErrors = expvar.NewMap("prog_load_errors_total")
	// ProgCacheHits counts the number of compiles skipped because the source was unchanged.
	ProgCacheHits = expvar.NewMap("prog_cache_hits_total")
)

const (
	fileExt   = ".jack"
	outputExt = ".vm"

	cacheSize = 64
)

// Loader compiles each Jack source file into a VM file of the same base
// name.  Files are compiled independently and concurrently.
type Loader struct {
	reg prometheus.Registerer // place to register metrics

	cOpts []compiler.Option // options for constructing `c`
	c     *compiler.Compiler

	outputDir   string          // Directory for VM files; empty means beside each source.
	errorsAbort bool            // Compile errors are returned from CompileAll.
	w           watcher.Watcher // Source of change events when watching.

	cacheMu sync.Mutex // guards cache
	cache   *lru.Cache // sha256 of source to generated VM code

	programErrorMu sync.RWMutex     // guards access to programErrors
	programErrors  map[string]error // errors from the last compile attempt of each source path
}

// New creates a new Loader.
func New(options ...Option) (*Loader, error) {
	l := &Loader{
		cache:         lru.New(cacheSize),
		programErrors: make(map[string]error),
	}
	if err := l.SetOption(options...); err != nil {
		return nil, err
	}
	var err error
	if l.c, err = compiler.New(l.cOpts...); err != nil {
		return nil, err
	}
	return l, nil
}

// SetOption takes one or more option functions and applies them in order to Loader.
func (l *Loader) SetOption(options ...Option) error {
	for _, option := range options {
		if err := option(l); err != nil {
			return err
		}
	}
	return nil
}

// Sources returns the Jack source files named by paths.  A directory names
// the source files directly inside it; subdirectories are not searched.
func Sources(paths []string) ([]string, error) {
	var sources []string
	for _, p := range paths {
		s, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %q", p)
		}
		if !s.IsDir() {
			if isSource(p) {
				sources = append(sources, p)
			}
			continue
		}
		dirents, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to list sources in %q", p)
		}
		for _, dirent := range dirents {
			if dirent.IsDir() {
				continue
			}
			name := filepath.Join(p, dirent.Name())
			if isSource(name) {
				sources = append(sources, name)
			}
		}
	}
	return sources, nil
}

func isSource(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		glog.V(2).Infof("Skipping %s because it is a hidden file.", path)
		return false
	}
	if filepath.Ext(name) != fileExt {
		glog.V(2).Infof("Skipping %s due to file extension.", path)
		return false
	}
	return true
}

// CompileAll compiles every source file named by paths, and if watching,
// starts observing the paths for changes.  Compile errors are logged and
// kept for the status page; they are returned only if the loader was
// created with ErrorsAbort.
func (l *Loader) CompileAll(ctx context.Context, paths []string) error {
	sources, err := Sources(paths)
	if err != nil {
		return err
	}
	glog.Infof("compiling %d source files", len(sources))
	errs := make([]error, len(sources))
	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			errs[i] = l.CompileFile(ctx, source)
		}(i, source)
	}
	wg.Wait()

	var failed []string
	for _, err := range errs {
		if err != nil {
			glog.Warning(err)
			failed = append(failed, err.Error())
		}
	}

	if l.w != nil {
		for _, p := range paths {
			if err := l.w.Observe(p, l); err != nil {
				return err
			}
		}
	}

	if len(failed) > 0 && l.errorsAbort {
		return errors.Errorf("%d of %d files failed to compile:\n%s", len(failed), len(sources), strings.Join(failed, "\n"))
	}
	return nil
}

// OutputPath returns the VM file written for the source file at path.
func (l *Loader) OutputPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), fileExt) + outputExt
	if l.outputDir != "" {
		return filepath.Join(l.outputDir, name)
	}
	return filepath.Join(filepath.Dir(path), name)
}

// absPath returns the absolute form of path, under which its compile result
// is recorded.  The watcher reports absolute paths.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		glog.V(2).Infof("Couldn't resolve path %q: %s", path, err)
		return filepath.Clean(path)
	}
	return abs
}

// CompileFile compiles the source file at path, replacing its VM file if
// compilation succeeds.  A failed compile leaves any existing VM file alone.
func (l *Loader) CompileFile(ctx context.Context, path string) error {
	path = absPath(path)
	name := filepath.Base(path)
	src, err := ioutil.ReadFile(filepath.Clean(path))
	if err != nil {
		ProgLoadErrors.Add(name, 1)
		err = errors.Wrapf(err, "Failed to read source %q", path)
		l.setError(path, err)
		return err
	}
	contentHash := sha256.Sum256(src)

	l.cacheMu.Lock()
	cached, ok := l.cache.Get(contentHash)
	l.cacheMu.Unlock()

	var out []byte
	if ok {
		glog.V(1).Infof("contents match, not recompiling %q", path)
		ProgCacheHits.Add(name, 1)
		out = cached.([]byte)
	} else {
		var buf bytes.Buffer
		if err := l.c.Compile(ctx, path, bytes.NewReader(src), &buf); err != nil {
			ProgLoadErrors.Add(name, 1)
			l.setError(path, err)
			return err
		}
		out = buf.Bytes()
		l.cacheMu.Lock()
		l.cache.Add(contentHash, out)
		l.cacheMu.Unlock()
	}

	outPath := l.OutputPath(path)
	if err := writeFile(outPath, out); err != nil {
		ProgLoadErrors.Add(name, 1)
		l.setError(path, err)
		return err
	}
	ProgLoads.Add(name, 1)
	l.setError(path, nil)
	glog.Infof("Compiled %s to %s", path, outPath)
	return nil
}

// writeFile replaces the file at path with data, through a temporary file in
// the same directory so that readers never see a partial file.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := ioutil.TempFile(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "Failed to create output in %q", dir)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return errors.Wrapf(err, "Failed to write %q", f.Name())
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return errors.Wrapf(err, "Failed to close %q", f.Name())
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		os.Remove(f.Name())
		return errors.Wrapf(err, "Failed to chmod %q", f.Name())
	}
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return errors.Wrapf(err, "Failed to rename output to %q", path)
	}
	return nil
}

func (l *Loader) setError(path string, err error) {
	l.programErrorMu.Lock()
	defer l.programErrorMu.Unlock()
	l.programErrors[path] = err
}

// ProcessFileEvent recompiles a source file when it is created or changed,
// and forgets it when it is removed.
func (l *Loader) ProcessFileEvent(ctx context.Context, e watcher.Event) {
	if !isSource(e.Pathname) {
		return
	}
	switch e.Op {
	case watcher.Create, watcher.Update:
		glog.V(1).Infof("%s %s, recompiling", e.Op, e.Pathname)
		if err := l.CompileFile(ctx, e.Pathname); err != nil {
			glog.Warning(err)
		}
	case watcher.Delete:
		glog.Infof("Source %s removed", e.Pathname)
		l.programErrorMu.Lock()
		delete(l.programErrors, absPath(e.Pathname))
		l.programErrorMu.Unlock()
	}
}

// Errors returns the result of the last compile of each source file, by
// absolute path in path order.
func (l *Loader) Errors() (paths []string, errs []error) {
	l.programErrorMu.RLock()
	defer l.programErrorMu.RUnlock()
	for p := range l.programErrors {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		errs = append(errs, l.programErrors[p])
	}
	return paths, errs
}
