package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-newsroom"
)

const (
	configName = "newsroom"
	envPrefix  = "NEWSROOM"
)

// LoadConfig layers defaults, an optional newsroom.yaml and NEWSROOM_*
// environment variables. An explicit cfgFile must exist; the default file
// is searched in root and the working directory and may be absent.
func LoadConfig(cfgFile, root string) (newsroom.Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		if root != "" {
			v.AddConfigPath(root)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, newsroom.DefaultConfig())
	if root != "" {
		v.Set("content.root", root)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return newsroom.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := newsroom.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return newsroom.Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return newsroom.Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg newsroom.Config) {
	v.SetDefault("site.name", cfg.Site.Name)
	v.SetDefault("site.base_url", cfg.Site.BaseURL)
	v.SetDefault("site.locale", cfg.Site.Locale)
	v.SetDefault("site.language", cfg.Site.Language)
	v.SetDefault("site.direction", cfg.Site.Direction)
	v.SetDefault("site.timezone", cfg.Site.Timezone)
	v.SetDefault("site.description", cfg.Site.Description)
	v.SetDefault("site.default_image", cfg.Site.DefaultImage)

	v.SetDefault("content.root", cfg.Content.Root)
	v.SetDefault("content.posts_dir", cfg.Content.PostsDir)
	v.SetDefault("content.pins_dir", cfg.Content.PinsDir)
	v.SetDefault("content.backstage_dir", cfg.Content.BackstageDir)
	v.SetDefault("content.data_dir", cfg.Content.DataDir)
	v.SetDefault("content.public_dir", cfg.Content.PublicDir)
	v.SetDefault("content.theme_dir", cfg.Content.ThemeDir)

	v.SetDefault("markdown.pattern", cfg.Markdown.Pattern)
	v.SetDefault("markdown.recursive", cfg.Markdown.Recursive)
	v.SetDefault("markdown.extensions", cfg.Markdown.Extensions)
	v.SetDefault("markdown.sanitize", cfg.Markdown.Sanitize)
	v.SetDefault("markdown.hard_wraps", cfg.Markdown.HardWraps)
	v.SetDefault("markdown.shift_headings", cfg.Markdown.ShiftHeadings)
	v.SetDefault("markdown.image_figures", cfg.Markdown.ImageFigures)
	v.SetDefault("markdown.words_per_min", cfg.Markdown.WordsPerMin)

	v.SetDefault("generator.enabled", cfg.Generator.Enabled)
	v.SetDefault("generator.output_dir", cfg.Generator.OutputDir)
	v.SetDefault("generator.clean_build", cfg.Generator.CleanBuild)
	v.SetDefault("generator.incremental", cfg.Generator.Incremental)
	v.SetDefault("generator.copy_assets", cfg.Generator.CopyAssets)
	v.SetDefault("generator.generate_sitemap", cfg.Generator.GenerateSitemap)
	v.SetDefault("generator.generate_robots", cfg.Generator.GenerateRobots)
	v.SetDefault("generator.generate_feeds", cfg.Generator.GenerateFeeds)
	v.SetDefault("generator.generate_search", cfg.Generator.GenerateSearch)
	v.SetDefault("generator.workers", cfg.Generator.Workers)

	v.SetDefault("search.index_file", cfg.Search.IndexFile)
	v.SetDefault("search.limit", cfg.Search.Limit)

	v.SetDefault("preview.host", cfg.Preview.Host)
	v.SetDefault("preview.port", cfg.Preview.Port)
	v.SetDefault("preview.watch", cfg.Preview.Watch)
	v.SetDefault("preview.debounce", cfg.Preview.Debounce)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.path", cfg.Metrics.Path)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)

	v.SetDefault("features.logger", cfg.Features.Logger)
}
