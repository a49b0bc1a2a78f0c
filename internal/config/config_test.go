package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "Papyros", cfg.Author)
	assert.Equal(t, ".dita", cfg.DocumentExt)
	assert.Equal(t, ".index", cfg.IndexExt)
	assert.Equal(t, ".html", cfg.PageExt)
	assert.Equal(t, "index.html", cfg.IndexPage)
	assert.Equal(t, "images", cfg.ImagesDir)
	assert.Equal(t, "friendly", cfg.HighlightStyle)
	assert.Equal(t, 512, cfg.HighlightCacheSize)
	assert.Equal(t, 1, cfg.WorkerCount)
	assert.Equal(t, "8090", cfg.PreviewPort)
	assert.Empty(t, cfg.TemplateDir)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QMLDOC_AUTHOR", "Liri")
	t.Setenv("QMLDOC_WORKERS", "4")
	t.Setenv("QMLDOC_HIGHLIGHT_CACHE", "not-a-number")
	t.Setenv("QMLDOC_LOG_FORMAT", "json")

	cfg := Load()
	assert.Equal(t, "Liri", cfg.Author)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 512, cfg.HighlightCacheSize)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadClampsWorkers(t *testing.T) {
	t.Setenv("QMLDOC_WORKERS", "0")
	assert.Equal(t, 1, Load().WorkerCount)
}

func TestLoadFileOverlay(t *testing.T) {
	t.Setenv("QMLDOC_AUTHOR", "FromEnv")
	path := filepath.Join(t.TempDir(), "qmldoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\nhighlight_style: monokai\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.Equal(t, "monokai", cfg.HighlightStyle)
	assert.Equal(t, "FromEnv", cfg.Author)
	assert.Equal(t, ".dita", cfg.DocumentExt)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2"), 0o644))
	_, err = LoadFile(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"document ext without dot", func(c *Config) { c.DocumentExt = "dita" }},
		{"empty page ext", func(c *Config) { c.PageExt = "" }},
		{"same document and index ext", func(c *Config) { c.IndexExt = ".DITA" }},
		{"index page with dir", func(c *Config) { c.IndexPage = "a/index.html" }},
		{"port not numeric", func(c *Config) { c.PreviewPort = "http" }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
