// Package preview rebuilds a site whenever its input directory changes.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/qmldoc/internal/pipeline"
)

// DefaultDebounce is how long the input must stay quiet before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Builder runs one build of inputDir into outputDir.
type Builder interface {
	Run(ctx context.Context, inputDir, outputDir string) (*pipeline.Report, error)
	Documents() []pipeline.JobSnapshot
}

// Session owns one input/output directory pair. It records the outcome of
// every build and serializes rebuilds: requests made while a build runs
// collapse into a single pending rebuild.
type Session struct {
	builder   Builder
	inputDir  string
	outputDir string
	log       *slog.Logger

	Debounce time.Duration

	rebuildReq chan struct{}

	timerMu sync.Mutex
	timer   *time.Timer

	mu        sync.RWMutex
	report    *pipeline.Report
	lastError error
	builds    int
}

func New(b Builder, inputDir, outputDir string, log *slog.Logger) *Session {
	return &Session{
		builder:    b,
		inputDir:   inputDir,
		outputDir:  outputDir,
		log:        log,
		Debounce:   DefaultDebounce,
		rebuildReq: make(chan struct{}, 1),
	}
}

// Build runs one build now and records its outcome.
func (s *Session) Build(ctx context.Context) error {
	report, err := s.builder.Run(ctx, s.inputDir, s.outputDir)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds++
	s.lastError = err
	if report != nil && err == nil {
		s.report = report
	}
	return err
}

// LastReport returns the report of the last build that completed without a
// fatal error.
func (s *Session) LastReport() *pipeline.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// LastError returns the fatal error of the most recent build, if any.
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Builds returns how many builds have run.
func (s *Session) Builds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builds
}

func (s *Session) Documents() []pipeline.JobSnapshot {
	return s.builder.Documents()
}

// RequestRebuild schedules a rebuild once no further request arrives for
// the debounce interval.
func (s *Session) RequestRebuild(reason string) {
	s.log.Debug("rebuild requested", "reason", reason)

	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.Debounce, func() {
		select {
		case s.rebuildReq <- struct{}{}:
		default:
		}
	})
}

// runRebuilds performs queued rebuilds until ctx is done. The request channel
// holds at most one pending rebuild.
func (s *Session) runRebuilds(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.rebuildReq:
			s.log.Info("change detected; rebuilding site")
			if err := s.Build(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn("rebuild failed", "error", err)
			}
		}
	}
}

// Run builds the site, then serves it with handler on addr while watching the
// input directory, until ctx is done.
func (s *Session) Run(ctx context.Context, addr string, handler http.Handler) error {
	if st, err := os.Stat(s.inputDir); err != nil || !st.IsDir() {
		return fmt.Errorf("input dir not found or not a directory: %s", s.inputDir)
	}

	if err := s.Build(ctx); err != nil {
		s.log.Error("initial build failed", "error", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()
	if err := s.addDirsRecursive(watcher, s.inputDir); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		s.log.Info("preview server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	rebuildCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.runRebuilds(rebuildCtx)

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(httpServer)
		case err, ok := <-serveErr:
			if ok && err != nil {
				return fmt.Errorf("preview server: %w", err)
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleFileEvent(watcher, ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", "error", err)
		}
	}
}

func (s *Session) shutdown(httpServer *http.Server) error {
	s.log.Info("shutting down preview server")

	s.timerMu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timerMu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown preview server: %w", err)
	}
	return nil
}

func (s *Session) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if s.shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = s.addDirsRecursive(watcher, ev.Name)
		}
	}
	s.log.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
	s.RequestRebuild(ev.Name)
}

// addDirsRecursive watches root and every directory below it except the
// output directory.
func (s *Session) addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if s.insideOutput(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			s.log.Warn("watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

// shouldIgnoreEvent reports whether a change to path cannot affect the site.
func (s *Session) shouldIgnoreEvent(path string) bool {
	if s.insideOutput(path) {
		return true
	}
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}

func (s *Session) insideOutput(path string) bool {
	out, err := filepath.Abs(s.outputDir)
	if err != nil {
		return false
	}
	p, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(out, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
