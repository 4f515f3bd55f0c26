package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/internal/logging/console"
	"github.com/goliatone/go-newsroom/internal/logging/gologger"
)

var (
	ErrContentDirRequired         = errors.New("newsroom config: content directory is required")
	ErrGeneratorOutputDirRequired = errors.New("newsroom config: generator output directory is required when generator is enabled")
	ErrGeneratorOutputDirInvalid  = errors.New("newsroom config: generator output directory must be a relative path below the content root")
	ErrGeneratorWorkersInvalid    = errors.New("newsroom config: generator workers must be zero or positive")
	ErrSiteBaseURLInvalid         = errors.New("newsroom config: site base url must be absolute")
	ErrSiteTimezoneInvalid        = errors.New("newsroom config: site timezone is invalid")
	ErrPreviewPortInvalid         = errors.New("newsroom config: preview port is out of range")
	ErrLoggingProviderRequired    = errors.New("newsroom config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown     = errors.New("newsroom config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("newsroom config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("newsroom config: logging format is invalid")
)

// Config aggregates site identity, content locations and build behaviour.
type Config struct {
	Site      SiteConfig      `mapstructure:"site"`
	Content   ContentConfig   `mapstructure:"content"`
	Markdown  MarkdownConfig  `mapstructure:"markdown"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Search    SearchConfig    `mapstructure:"search"`
	Preview   PreviewConfig   `mapstructure:"preview"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Features  Features        `mapstructure:"features"`
}

// SiteConfig describes the public identity of the site.
type SiteConfig struct {
	Name         string `mapstructure:"name"`
	BaseURL      string `mapstructure:"base_url"`
	Locale       string `mapstructure:"locale"`
	Language     string `mapstructure:"language"`
	Direction    string `mapstructure:"direction"`
	Timezone     string `mapstructure:"timezone"`
	Description  string `mapstructure:"description"`
	DefaultImage string `mapstructure:"default_image"`
}

// ContentConfig points at the directories holding posts and JSON site data.
// Relative paths resolve against Root.
type ContentConfig struct {
	Root         string `mapstructure:"root"`
	PostsDir     string `mapstructure:"posts_dir"`
	PinsDir      string `mapstructure:"pins_dir"`
	BackstageDir string `mapstructure:"backstage_dir"`
	DataDir      string `mapstructure:"data_dir"`
	PublicDir    string `mapstructure:"public_dir"`
	ThemeDir     string `mapstructure:"theme_dir"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Pattern       string   `mapstructure:"pattern"`
	Recursive     bool     `mapstructure:"recursive"`
	Extensions    []string `mapstructure:"extensions"`
	Sanitize      bool     `mapstructure:"sanitize"`
	HardWraps     bool     `mapstructure:"hard_wraps"`
	ShiftHeadings bool     `mapstructure:"shift_headings"`
	ImageFigures  bool     `mapstructure:"image_figures"`
	WordsPerMin   int      `mapstructure:"words_per_min"`
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	OutputDir       string `mapstructure:"output_dir"`
	CleanBuild      bool   `mapstructure:"clean_build"`
	Incremental     bool   `mapstructure:"incremental"`
	CopyAssets      bool   `mapstructure:"copy_assets"`
	GenerateSitemap bool   `mapstructure:"generate_sitemap"`
	GenerateRobots  bool   `mapstructure:"generate_robots"`
	GenerateFeeds   bool   `mapstructure:"generate_feeds"`
	GenerateSearch  bool   `mapstructure:"generate_search"`
	Workers         int    `mapstructure:"workers"`
}

// SearchConfig tunes the client-side search index.
type SearchConfig struct {
	IndexFile string `mapstructure:"index_file"`
	Limit     int    `mapstructure:"limit"`
}

// PreviewConfig configures the local preview server.
type PreviewConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// MetricsConfig toggles Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Features toggles optional behaviour.
type Features struct {
	Logger bool `mapstructure:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns the defaults for the BeiruTalk site.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Name:         "BeiruTalk",
			BaseURL:      "https://beirutalk.com",
			Locale:       "ar_LB",
			Language:     "ar",
			Direction:    "rtl",
			Timezone:     "Asia/Beirut",
			Description:  "أخبار لبنان والعالم",
			DefaultImage: "/assets/beirutalk-logo.png",
		},
		Content: ContentConfig{
			Root:         ".",
			PostsDir:     "content/posts",
			PinsDir:      "content/pins",
			BackstageDir: "content/backstage",
			DataDir:      "content/data",
			PublicDir:    "public",
		},
		Markdown: MarkdownConfig{
			Pattern:       "*.md",
			Recursive:     false,
			Extensions:    []string{"gfm", "typographer"},
			Sanitize:      false,
			ShiftHeadings: true,
			ImageFigures:  true,
			WordsPerMin:   220,
		},
		Generator: GeneratorConfig{
			Enabled:         true,
			OutputDir:       "dist",
			CleanBuild:      true,
			Incremental:     false,
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeeds:   true,
			GenerateSearch:  true,
			Workers:         0,
		},
		Search: SearchConfig{
			IndexFile: "search-index.json",
			Limit:     50,
		},
		Preview: PreviewConfig{
			Host:     "127.0.0.1",
			Port:     1313,
			Watch:    true,
			Debounce: 300 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.PostsDir) == "" || strings.TrimSpace(cfg.Content.DataDir) == "" {
		return ErrContentDirRequired
	}
	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		if cfg.Generator.Enabled {
			return ErrGeneratorOutputDirRequired
		}
	} else if _, err := CleanOutputDir(cfg.Generator.OutputDir); err != nil {
		return err
	}
	if cfg.Generator.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrGeneratorWorkersInvalid, cfg.Generator.Workers)
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			return fmt.Errorf("%w: %s", ErrSiteBaseURLInvalid, base)
		}
	}
	if tz := strings.TrimSpace(cfg.Site.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("%w: %s", ErrSiteTimezoneInvalid, tz)
		}
	}
	if cfg.Preview.Port < 0 || cfg.Preview.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrPreviewPortInvalid, cfg.Preview.Port)
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" {
			if _, ok := logging.ParseLevel(level); !ok {
				return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
			}
		}
		if format := strings.TrimSpace(cfg.Logging.Format); !supportsFormat(provider, format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// CleanOutputDir returns dir as a clean slash separated path relative to the
// content root. The root itself, absolute paths and paths leaving the root
// are rejected: clean builds remove the whole output directory.
func CleanOutputDir(dir string) (string, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(dir), `\`, "/")
	if raw == "" {
		return "", ErrGeneratorOutputDirRequired
	}
	if strings.HasPrefix(raw, "/") || (len(raw) > 1 && raw[1] == ':') {
		return "", fmt.Errorf("%w: %s", ErrGeneratorOutputDirInvalid, dir)
	}
	cleaned := path.Clean(raw)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %s", ErrGeneratorOutputDirInvalid, dir)
	}
	return cleaned, nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func supportsFormat(provider, format string) bool {
	if provider == "gologger" {
		return gologger.SupportsFormat(format)
	}
	switch strings.ToLower(format) {
	case "", console.FormatText, console.FormatJSON:
		return true
	default:
		return false
	}
}
