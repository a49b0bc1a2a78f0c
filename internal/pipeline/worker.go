package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/qmldoc/internal/doctree"
	"github.com/dgallion1/qmldoc/internal/metrics"
	"github.com/dgallion1/qmldoc/internal/model"
	"github.com/dgallion1/qmldoc/internal/parser"
	"github.com/dgallion1/qmldoc/internal/render"
)

// Renderer executes a named page template.
type Renderer interface {
	Render(name string, data any) ([]byte, error)
}

// Worker converts a single document job into a page.
type Worker struct {
	builder  *model.Builder
	renderer Renderer
	rec      metrics.Recorder
	log      *slog.Logger
	outDir   string
}

func NewWorker(builder *model.Builder, renderer Renderer, rec metrics.Recorder, log *slog.Logger, outDir string) *Worker {
	return &Worker{
		builder:  builder,
		renderer: renderer,
		rec:      rec,
		log:      log,
		outDir:   outDir,
	}
}

// Process runs parse, build, render and write for a job. Failures are
// recorded on the job and never returned.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("file", job.File)
	start := time.Now()
	defer func() { w.rec.ObserveDocumentDuration(time.Since(start)) }()

	if err := ctx.Err(); err != nil {
		w.fail(log, job, err)
		return
	}

	job.SetStatus(StatusParsing)
	root, err := parseFile(job.path)
	if err != nil {
		w.fail(log, job, err)
		return
	}

	job.SetStatus(StatusBuilding)
	doc, err := w.builder.BuildDocument(root)
	if err != nil {
		w.fail(log, job, fmt.Errorf("build: %w", err))
		return
	}

	job.SetStatus(StatusRendering)
	page, err := w.renderer.Render(render.TemplateDocument, doc)
	if err != nil {
		w.fail(log, job, fmt.Errorf("render: %w", err))
		return
	}

	job.SetStatus(StatusWriting)
	hash := ContentHashHex(page)
	job.SetContentHash(hash)
	changed, err := writePage(filepath.Join(w.outDir, job.Page), page, hash)
	if err != nil {
		w.fail(log, job, err)
		return
	}

	if changed {
		job.SetStatus(StatusWritten)
		w.rec.IncDocument(metrics.ResultWritten)
		log.Info("page written", "page", job.Page)
	} else {
		job.SetStatus(StatusUnchanged)
		w.rec.IncDocument(metrics.ResultUnchanged)
		log.Debug("page unchanged", "page", job.Page)
	}
}

// fail records err on the job. A page left by an earlier build is removed so
// the site never serves a document the report lists as failed; cancellation
// leaves existing pages alone.
func (w *Worker) fail(log *slog.Logger, job *Job, err error) {
	log.Error("document failed", "error", err)
	job.Fail(err)
	w.rec.IncDocument(metrics.ResultFailed)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	if rmErr := removePage(filepath.Join(w.outDir, job.Page)); rmErr != nil {
		log.Warn("stale page not removed", "page", job.Page, "error", rmErr)
	}
}

// removePage deletes target if it exists.
func removePage(target string) error {
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove page: %w", err)
	}
	return nil
}

// parseFile reads and parses one XML input file.
func parseFile(path string) (*doctree.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	root, err := parser.ParseXML(f)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return root, nil
}

// writePage replaces target with data unless it already holds content with
// the same hash. The data is written to a temp file in the same directory and
// renamed over target, so a failed write never leaves a partial page.
func writePage(target string, data []byte, hash string) (bool, error) {
	existing, err := os.ReadFile(target)
	switch {
	case err == nil:
		if ContentHashHex(existing) == hash {
			return false, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("read page: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+"-*.tmp")
	if err != nil {
		return false, fmt.Errorf("write page: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := bytes.NewReader(data).WriteTo(tmp); err != nil {
		tmp.Close()
		return false, fmt.Errorf("write page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("write page: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, fmt.Errorf("write page: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return false, fmt.Errorf("write page: %w", err)
	}
	return true, nil
}
