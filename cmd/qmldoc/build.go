package main

import (
	"context"
	"fmt"

	"github.com/dgallion1/qmldoc/internal/highlight"
	"github.com/dgallion1/qmldoc/internal/metrics"
	"github.com/dgallion1/qmldoc/internal/pipeline"
	"github.com/dgallion1/qmldoc/internal/render"
)

// BuildCmd converts input into a site under output.
type BuildCmd struct {
	Input  string `arg:"" type:"existingdir" help:"Directory holding the .dita documents and the .index file."`
	Output string `arg:"" type:"path" help:"Directory to write the site to."`
}

// documentsFailed reports a build that completed with per-document failures.
type documentsFailed struct {
	n   int
	err error
}

func (e *documentsFailed) Error() string { return e.err.Error() }
func (e *documentsFailed) Unwrap() error { return e.err }

func (c *BuildCmd) Run(rt *runtime, ctx context.Context) error {
	driver, err := newDriver(rt, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	report, err := driver.Run(ctx, c.Input, c.Output)
	if err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		return &documentsFailed{n: len(report.Failed), err: err}
	}
	return nil
}

// newDriver wires the highlighter, templates and recorder into a driver.
func newDriver(rt *runtime, rec metrics.Recorder) (*pipeline.Driver, error) {
	h, err := highlight.New(rt.cfg.HighlightStyle, rt.cfg.HighlightCacheSize)
	if err != nil {
		return nil, err
	}
	tpl, err := render.New(rt.cfg.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return pipeline.NewDriver(rt.cfg, h, tpl, rec, rt.log), nil
}
