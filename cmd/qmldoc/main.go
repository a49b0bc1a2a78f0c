package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/dgallion1/qmldoc/internal/config"
)

// CLI is the command line. Build is the default command, so
// `qmldoc <input> <output>` converts a directory.
type CLI struct {
	Config  string `short:"c" type:"path" help:"YAML configuration file overlaying QMLDOC_* environment settings."`
	Verbose bool   `short:"v" help:"Enable debug logging."`

	Build   BuildCmd   `cmd:"" default:"withargs" help:"Convert a directory of DITA documents into an HTML site."`
	Preview PreviewCmd `cmd:"" help:"Build a site, serve it and rebuild when the input changes."`
}

// runtime is shared by every command.
type runtime struct {
	cfg config.Config
	log *slog.Logger
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("qmldoc"),
		kong.Description("Generate static HTML documentation from DITA QML type references."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	// A .env file is optional.
	_ = godotenv.Load()

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "qmldoc:", err)
		cancel()
		os.Exit(1)
	}
	log := newLogger(cfg.LogFormat, cli.Verbose)
	slog.SetDefault(log)

	if err := kctx.Run(&runtime{cfg: cfg, log: log}); err != nil {
		var failed *documentsFailed
		if errors.As(err, &failed) {
			log.Error("build finished with failures", "failed", failed.n)
		} else {
			log.Error("qmldoc failed", "error", err)
		}
		cancel()
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	cfg := config.Load()
	if path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
