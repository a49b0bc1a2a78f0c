package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Site
	Author string `yaml:"author"`

	// Input and output naming
	DocumentExt string `yaml:"document_ext"`
	IndexExt    string `yaml:"index_ext"`
	PageExt     string `yaml:"page_ext"`
	IndexPage   string `yaml:"index_page"`
	OverviewMD  string `yaml:"overview_md"`
	ImagesDir   string `yaml:"images_dir"`

	// Theme; empty means built-in
	TemplateDir string `yaml:"template_dir"`
	ResourceDir string `yaml:"resource_dir"`

	// Highlighting
	HighlightStyle     string `yaml:"highlight_style"`
	HighlightCacheSize int    `yaml:"highlight_cache"`

	// Worker pool
	WorkerCount int `yaml:"workers"`

	// Preview
	PreviewPort string `yaml:"preview_port"`

	// Logging
	LogFormat string `yaml:"log_format"`
}

func Load() Config {
	cfg := Config{
		Author: envOr("QMLDOC_AUTHOR", "Papyros"),

		DocumentExt: envOr("QMLDOC_DOCUMENT_EXT", ".dita"),
		IndexExt:    envOr("QMLDOC_INDEX_EXT", ".index"),
		PageExt:     envOr("QMLDOC_PAGE_EXT", ".html"),
		IndexPage:   envOr("QMLDOC_INDEX_PAGE", "index.html"),
		OverviewMD:  envOr("QMLDOC_OVERVIEW", "index.md"),
		ImagesDir:   envOr("QMLDOC_IMAGES_DIR", "images"),

		TemplateDir: os.Getenv("QMLDOC_TEMPLATE_DIR"),
		ResourceDir: os.Getenv("QMLDOC_RESOURCE_DIR"),

		HighlightStyle:     envOr("QMLDOC_HIGHLIGHT_STYLE", "friendly"),
		HighlightCacheSize: envInt("QMLDOC_HIGHLIGHT_CACHE", 512),

		WorkerCount: envInt("QMLDOC_WORKERS", 1),

		PreviewPort: envOr("QMLDOC_PREVIEW_PORT", "8090"),

		LogFormat: envOr("QMLDOC_LOG_FORMAT", "text"),
	}
	cfg.applyDefaults()
	return cfg
}

// LoadFile overlays the YAML file at path on top of the environment settings.
// Keys absent from the file keep their environment or default value.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 1
	}
	if c.HighlightCacheSize < 0 {
		c.HighlightCacheSize = 0
	}
	if c.Author == "" {
		c.Author = "Papyros"
	}
	if c.IndexPage == "" {
		c.IndexPage = "index.html"
	}
}

func (c Config) Validate() error {
	for name, ext := range map[string]string{
		"document_ext": c.DocumentExt,
		"index_ext":    c.IndexExt,
		"page_ext":     c.PageExt,
	} {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%s must be an extension like .ext, got %q", name, ext)
		}
	}
	if strings.EqualFold(c.DocumentExt, c.IndexExt) {
		return fmt.Errorf("document_ext and index_ext must differ")
	}
	if strings.ContainsAny(c.IndexPage, `/\`) {
		return fmt.Errorf("index_page must be a file name, got %q", c.IndexPage)
	}
	if _, err := strconv.Atoi(c.PreviewPort); err != nil {
		return fmt.Errorf("preview_port must be numeric, got %q", c.PreviewPort)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
