package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/dgallion1/qmldoc/internal/api"
	"github.com/dgallion1/qmldoc/internal/metrics"
	"github.com/dgallion1/qmldoc/internal/preview"
)

// PreviewCmd serves a site and rebuilds it whenever the input changes.
type PreviewCmd struct {
	Input  string `arg:"" type:"existingdir" help:"Directory holding the .dita documents and the .index file."`
	Output string `arg:"" optional:"" type:"path" help:"Directory to write the site to (defaults to a temporary directory)."`
	Port   string `help:"Port to serve on. Overrides QMLDOC_PREVIEW_PORT."`
}

func (c *PreviewCmd) Run(rt *runtime, ctx context.Context) error {
	out := c.Output
	if out == "" {
		tmp, err := os.MkdirTemp("", "qmldoc-preview-*")
		if err != nil {
			return fmt.Errorf("create temp output: %w", err)
		}
		defer func() {
			if err := os.RemoveAll(tmp); err != nil {
				rt.log.Warn("failed to remove temp output", "dir", tmp, "error", err)
			}
		}()
		out = tmp
		rt.log.Info("using temporary output directory", "output", out)
	}

	rec := metrics.NewPrometheusRecorder(nil)
	driver, err := newDriver(rt, rec)
	if err != nil {
		return err
	}

	session := preview.New(driver, c.Input, out, rt.log)
	srv := api.NewServer(session, session, rec.Handler(), out, rt.log)

	port := c.Port
	if port == "" {
		port = rt.cfg.PreviewPort
	}
	return session.Run(ctx, net.JoinHostPort("localhost", port), srv)
}
