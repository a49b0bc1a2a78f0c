// Package pipeline converts an input directory of DITA documents into a site.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/qmldoc/internal/assets"
	"github.com/dgallion1/qmldoc/internal/config"
	"github.com/dgallion1/qmldoc/internal/metrics"
	"github.com/dgallion1/qmldoc/internal/model"
	"github.com/dgallion1/qmldoc/internal/parser"
	"github.com/dgallion1/qmldoc/internal/render"
	"github.com/dgallion1/qmldoc/internal/rewrite"
)

// Driver runs builds. A Driver runs one build at a time; concurrent calls to
// Run are serialized.
type Driver struct {
	cfg        config.Config
	exts       parser.Extensions
	builder    *model.Builder
	renderer   Renderer
	stylesheet assets.Stylesheet
	rec        metrics.Recorder
	log        *slog.Logger
	jobs       *JobStore

	runMu sync.Mutex

	mu   sync.Mutex
	last *Report
}

// NewDriver wires a driver. The highlighter doubles as the stylesheet source
// when it implements assets.Stylesheet. A nil recorder records nothing.
func NewDriver(cfg config.Config, h rewrite.Highlighter, r Renderer, rec metrics.Recorder, log *slog.Logger) *Driver {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	rw := rewrite.New(h)
	rw.Links = rewrite.Links{Source: cfg.DocumentExt, Page: cfg.PageExt}

	d := &Driver{
		cfg:      cfg,
		exts:     parser.Extensions{Document: cfg.DocumentExt, Index: cfg.IndexExt},
		builder:  model.NewBuilder(rw, cfg.Author),
		renderer: r,
		rec:      rec,
		log:      log,
		jobs:     NewJobStore(),
	}
	if ss, ok := h.(assets.Stylesheet); ok {
		d.stylesheet = ss
	}
	return d
}

// Run builds the site for inputDir into outputDir. Per-document failures are
// collected in the report; the returned error is reserved for fatal failures
// (output directory, assets, input listing, index) and cancellation.
func (d *Driver) Run(ctx context.Context, inputDir, outputDir string) (*Report, error) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	report := newReport()
	log := d.log.With("build_id", report.ID, "input", inputDir, "output", outputDir)
	defer func() {
		report.Duration = time.Since(report.StartedAt)
		d.rec.ObserveBuildDuration(report.Duration)
	}()

	docs, indexFile, err := d.prepare(report, inputDir, outputDir)
	if err != nil {
		d.rec.IncBuildOutcome("failed")
		return report, err
	}

	if indexFile != "" {
		if err := d.buildIndex(inputDir, outputDir, indexFile); err != nil {
			d.rec.IncBuildOutcome("failed")
			return report, fmt.Errorf("index %s: %w", indexFile, err)
		}
		report.Index = d.cfg.IndexPage
		log.Info("index written", "file", indexFile, "page", d.cfg.IndexPage)
	}

	d.jobs.Reset()
	for _, job := range docs {
		d.jobs.Put(job)
	}
	d.dispatch(ctx, docs, outputDir)

	for _, job := range docs {
		snap := job.Snapshot()
		switch snap.Status {
		case StatusWritten:
			report.Written = append(report.Written, snap.Page)
		case StatusUnchanged:
			report.Written = append(report.Written, snap.Page)
			report.Unchanged = append(report.Unchanged, snap.Page)
		default:
			report.Failed = append(report.Failed, Failure{File: snap.File, Error: snap.Error})
		}
	}
	report.sort()
	d.rec.IncBuildOutcome(report.Outcome())

	d.mu.Lock()
	d.last = report
	d.mu.Unlock()

	log.Info("build complete",
		"written", len(report.Written),
		"unchanged", len(report.Unchanged),
		"failed", len(report.Failed),
		"skipped", len(report.Skipped),
	)
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("build interrupted: %w", err)
	}
	return report, nil
}

// prepare creates the output directory, installs assets and classifies the
// input entries. Directories are not inputs and are not reported.
func (d *Driver) prepare(report *Report, inputDir, outputDir string) ([]*Job, string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create output dir: %w", err)
	}
	opts := assets.Options{
		ResourceDir: d.cfg.ResourceDir,
		ImagesDir:   d.cfg.ImagesDir,
		Stylesheet:  d.stylesheet,
	}
	if err := assets.Install(opts, inputDir, outputDir); err != nil {
		return nil, "", fmt.Errorf("install assets: %w", err)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, "", fmt.Errorf("list input: %w", err)
	}

	var docs []*Job
	var indexFile string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch d.exts.ForFile(name) {
		case parser.KindDocument:
			page := strings.TrimSuffix(name, filepath.Ext(name)) + d.cfg.PageExt
			docs = append(docs, newJob(name, filepath.Join(inputDir, name), page))
		case parser.KindIndex:
			if indexFile != "" {
				d.log.Warn("extra index file ignored", "file", name, "index", indexFile)
				report.Skipped = append(report.Skipped, name)
				continue
			}
			indexFile = name
		default:
			if name != d.cfg.OverviewMD {
				report.Skipped = append(report.Skipped, name)
			}
		}
	}
	if indexFile != "" {
		docs = d.dropIndexCollisions(report, docs)
	}
	return docs, indexFile, nil
}

// dropIndexCollisions skips documents whose page would overwrite the index page.
func (d *Driver) dropIndexCollisions(report *Report, docs []*Job) []*Job {
	kept := docs[:0]
	for _, job := range docs {
		if strings.EqualFold(job.Page, d.cfg.IndexPage) {
			d.log.Warn("document skipped; page collides with index", "file", job.File, "page", job.Page)
			report.Skipped = append(report.Skipped, job.File)
			continue
		}
		kept = append(kept, job)
	}
	return kept
}

func (d *Driver) buildIndex(inputDir, outputDir, indexFile string) error {
	root, err := parseFile(filepath.Join(inputDir, indexFile))
	if err != nil {
		return err
	}
	idx, err := d.builder.BuildIndex(root)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	overview, err := d.overview(inputDir)
	if err != nil {
		return err
	}
	idx.WithOverview(overview)

	page, err := d.renderer.Render(render.TemplateIndex, idx)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = writePage(filepath.Join(outputDir, d.cfg.IndexPage), page, ContentHashHex(page))
	return err
}

// overview renders the optional markdown introduction shown on the index page.
func (d *Driver) overview(inputDir string) (string, error) {
	if d.cfg.OverviewMD == "" {
		return "", nil
	}
	f, err := os.Open(filepath.Join(inputDir, d.cfg.OverviewMD))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open overview: %w", err)
	}
	defer f.Close()
	html, err := parser.RenderMarkdown(f)
	if err != nil {
		return "", fmt.Errorf("overview: %w", err)
	}
	return html, nil
}

// dispatch feeds jobs to a bounded pool of workers and waits for them. Once
// ctx is done no further jobs are dispatched; those left are failed with the
// context error.
func (d *Driver) dispatch(ctx context.Context, docs []*Job, outputDir string) {
	workers := max(d.cfg.WorkerCount, 1)
	workers = min(workers, max(len(docs), 1))
	d.rec.SetWorkers(workers)

	queue := make(chan *Job)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := NewWorker(d.builder, d.renderer, d.rec, d.log, outputDir)
			for job := range queue {
				w.Process(ctx, job)
			}
		}()
	}

	next := 0
send:
	for ; next < len(docs); next++ {
		select {
		case <-ctx.Done():
			break send
		case queue <- docs[next]:
		}
	}
	close(queue)
	wg.Wait()

	for _, job := range docs[next:] {
		job.Fail(ctx.Err())
		d.rec.IncDocument(metrics.ResultFailed)
	}
}

// LastReport returns the report of the most recent completed build, or nil.
func (d *Driver) LastReport() *Report {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Documents returns the jobs of the most recent build.
func (d *Driver) Documents() []JobSnapshot {
	return d.jobs.Snapshots()
}
