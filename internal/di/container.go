package di

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	sitecmd "github.com/goliatone/go-newsroom/internal/commands/site"
	"github.com/goliatone/go-newsroom/internal/content"
	"github.com/goliatone/go-newsroom/internal/generator"
	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/internal/logging/console"
	"github.com/goliatone/go-newsroom/internal/logging/gologger"
	"github.com/goliatone/go-newsroom/internal/metrics"
	"github.com/goliatone/go-newsroom/internal/pagedata"
	"github.com/goliatone/go-newsroom/internal/preview"
	"github.com/goliatone/go-newsroom/internal/routes"
	"github.com/goliatone/go-newsroom/internal/runtimeconfig"
	"github.com/goliatone/go-newsroom/internal/storage"
	"github.com/goliatone/go-newsroom/internal/templates"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Container wires the loader, renderer, generator and command handlers
// from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	location       *time.Location

	contentFS fs.FS
	themeFS   fs.FS
	publicFS  fs.FS

	storage    interfaces.StorageProvider
	recorder   metrics.Recorder
	prometheus *metrics.Prometheus
	registry   sitecmd.CommandRegistry

	router       *routes.Router
	renderer     *templates.Renderer
	loader       *pagedata.Loader
	generatorSvc generator.Service
	siteCommands *sitecmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider chosen from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithStorage overrides the filesystem output provider.
func WithStorage(sp interfaces.StorageProvider) Option {
	return func(c *Container) {
		c.storage = sp
	}
}

// WithContentFS reads posts and data from fsys instead of the content root.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.contentFS = fsys
	}
}

// WithThemeFS overrides the theme directory.
func WithThemeFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.themeFS = fsys
	}
}

// WithPublicFS overrides the directory of files copied verbatim to the output.
func WithPublicFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.publicFS = fsys
	}
}

// WithMetrics overrides the metrics recorder.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(c *Container) {
		c.recorder = recorder
	}
}

// WithCommandRegistry registers the site command handlers with reg.
func WithCommandRegistry(reg sitecmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	location, err := loadLocation(cfg.Site.Timezone)
	if err != nil {
		return nil, err
	}
	if cfg.Generator.OutputDir != "" {
		// storage, generator and preview all address this one relative path
		if cfg.Generator.OutputDir, err = runtimeconfig.CleanOutputDir(cfg.Generator.OutputDir); err != nil {
			return nil, err
		}
	}

	c := &Container{
		Config:   cfg,
		location: location,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureSources()
	c.configureStorage()
	c.configureMetrics()

	if err := c.configureRendering(); err != nil {
		return nil, err
	}
	c.configureLoader()
	c.configureGenerator()

	if err := c.configureCommands(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrSiteTimezoneInvalid, name)
	}
	return loc, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		c.loggerProvider = console.NewProvider(console.Options{Writer: os.Stderr})
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure go-logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		c.loggerProvider = console.NewProvider(console.Options{
			Writer: os.Stderr,
			Level:  c.Config.Logging.Level,
			Format: c.Config.Logging.Format,
			Focus:  c.Config.Logging.Focus,
		})
	}
	return nil
}

func (c *Container) configureSources() {
	root := c.Config.Content.Root
	if c.contentFS == nil {
		c.contentFS = os.DirFS(root)
	}
	if c.themeFS == nil {
		if dir := strings.TrimSpace(c.Config.Content.ThemeDir); dir != "" {
			c.themeFS = os.DirFS(filepath.Join(root, dir))
		}
	}
	if c.publicFS == nil {
		if dir := strings.TrimSpace(c.Config.Content.PublicDir); dir != "" {
			if info, err := os.Stat(filepath.Join(root, dir)); err == nil && info.IsDir() {
				c.publicFS = os.DirFS(filepath.Join(root, dir))
			}
		}
	}
}

func (c *Container) configureStorage() {
	if c.storage != nil {
		return
	}
	c.storage = storage.NewFilesystem(c.OutputPath(), c.Config.Generator.OutputDir)
}

func (c *Container) configureMetrics() {
	if c.recorder != nil {
		return
	}
	if !c.Config.Metrics.Enabled {
		c.recorder = metrics.Noop{}
		return
	}
	c.prometheus = metrics.NewPrometheus(prom.NewRegistry())
	c.recorder = c.prometheus
}

func (c *Container) configureRendering() error {
	router, err := routes.New(c.Config.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("di: configure router: %w", err)
	}
	c.router = router

	renderer, err := templates.New(templates.Config{
		Theme:        c.themeFS,
		Router:       router,
		Location:     c.location,
		DefaultImage: c.Config.Site.DefaultImage,
		Logger:       logging.ModuleLogger(c.loggerProvider, "newsroom.templates"),
	})
	if err != nil {
		return fmt.Errorf("di: configure templates: %w", err)
	}
	c.renderer = renderer
	return nil
}

func (c *Container) configureLoader() {
	md := c.Config.Markdown
	c.loader = pagedata.NewLoader(c.contentFS, pagedata.LoaderConfig{
		Info:    c.SiteInfo(),
		DataDir: c.Config.Content.DataDir,
		Content: content.LoaderConfig{
			Dirs: map[content.Collection]string{
				content.CollectionPosts:     c.Config.Content.PostsDir,
				content.CollectionPins:      c.Config.Content.PinsDir,
				content.CollectionBackstage: c.Config.Content.BackstageDir,
			},
			Pattern:        md.Pattern,
			Recursive:      md.Recursive,
			Location:       c.location,
			WordsPerMinute: md.WordsPerMin,
			Parser: interfaces.ParseOptions{
				Extensions:    md.Extensions,
				Sanitize:      md.Sanitize,
				HardWraps:     md.HardWraps,
				ShiftHeadings: md.ShiftHeadings,
				ImageFigures:  md.ImageFigures,
			},
			Logger: logging.ContentLogger(c.loggerProvider),
		},
		Logger: logging.SiteDataLogger(c.loggerProvider),
	})
}

func (c *Container) configureGenerator() {
	if !c.Config.Generator.Enabled {
		c.generatorSvc = generator.NewDisabledService()
		return
	}
	gen := c.Config.Generator
	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:       gen.OutputDir,
		CleanBuild:      gen.CleanBuild,
		Incremental:     gen.Incremental,
		CopyAssets:      gen.CopyAssets,
		GenerateSitemap: gen.GenerateSitemap,
		GenerateRobots:  gen.GenerateRobots,
		GenerateFeeds:   gen.GenerateFeeds,
		GenerateSearch:  gen.GenerateSearch,
		Workers:         gen.Workers,
		SearchIndexFile: c.Config.Search.IndexFile,
	}, generator.Dependencies{
		Loader:   c.loader,
		Router:   c.router,
		Renderer: c.renderer,
		Storage:  c.storage,
		Assets:   c.renderer,
		Public:   c.publicFS,
		Metrics:  c.recorder,
		Logger:   logging.GeneratorLogger(c.loggerProvider),
	})
}

func (c *Container) configureCommands() error {
	gates := sitecmd.FeatureGates{
		GeneratorEnabled: func() bool { return c.Config.Generator.Enabled },
	}
	set, err := sitecmd.RegisterSiteCommands(c.registry, c.generatorSvc, c.loggerProvider, gates)
	if err != nil {
		return fmt.Errorf("di: register site commands: %w", err)
	}
	c.siteCommands = set
	return nil
}

// SiteInfo returns the site identity handed to page builders.
func (c *Container) SiteInfo() pagedata.SiteInfo {
	site := c.Config.Site
	return pagedata.SiteInfo{
		Name:         site.Name,
		BaseURL:      site.BaseURL,
		Language:     site.Language,
		Direction:    site.Direction,
		Description:  site.Description,
		DefaultImage: site.DefaultImage,
		Location:     c.location,
	}
}

// OutputPath is the directory the filesystem provider writes to.
func (c *Container) OutputPath() string {
	return filepath.Join(c.Config.Content.Root, filepath.FromSlash(c.Config.Generator.OutputDir))
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Location is the site timezone.
func (c *Container) Location() *time.Location {
	return c.location
}

// StorageProvider exposes the artifact storage.
func (c *Container) StorageProvider() interfaces.StorageProvider {
	return c.storage
}

// Router exposes the URL router.
func (c *Container) Router() *routes.Router {
	return c.router
}

// TemplateRenderer exposes the theme renderer.
func (c *Container) TemplateRenderer() *templates.Renderer {
	return c.renderer
}

// Loader exposes the site loader.
func (c *Container) Loader() *pagedata.Loader {
	return c.loader
}

// GeneratorService exposes the static site generator.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// SiteCommands exposes the site command handlers.
func (c *Container) SiteCommands() *sitecmd.HandlerSet {
	return c.siteCommands
}

// Metrics exposes the metrics recorder.
func (c *Container) Metrics() metrics.Recorder {
	return c.recorder
}

// MetricsHandler serves the Prometheus registry. It is nil when metrics are
// disabled or a custom recorder was supplied.
func (c *Container) MetricsHandler() http.Handler {
	if c.prometheus == nil {
		return nil
	}
	return c.prometheus.Handler()
}

// PreviewServer returns a preview server over the output directory that
// rebuilds the site when content changes.
func (c *Container) PreviewServer() (*preview.Server, error) {
	if !c.Config.Generator.Enabled {
		return nil, errors.New("di: preview requires the generator")
	}
	root := c.Config.Content.Root
	var watch []string
	if c.Config.Preview.Watch {
		for _, dir := range []string{
			c.Config.Content.PostsDir,
			c.Config.Content.PinsDir,
			c.Config.Content.BackstageDir,
			c.Config.Content.DataDir,
			c.Config.Content.ThemeDir,
			c.Config.Content.PublicDir,
		} {
			if strings.TrimSpace(dir) != "" {
				watch = append(watch, filepath.Join(root, dir))
			}
		}
	}

	deps := preview.Dependencies{
		Site:    os.DirFS(c.OutputPath()),
		Metrics: c.MetricsHandler(),
		Logger:  logging.PreviewLogger(c.loggerProvider),
	}
	if len(watch) > 0 {
		deps.Rebuild = func(ctx context.Context) error {
			_, err := c.generatorSvc.Build(ctx, generator.BuildOptions{})
			return err
		}
	}

	return preview.New(preview.Config{
		Host:        c.Config.Preview.Host,
		Port:        c.Config.Preview.Port,
		WatchDirs:   watch,
		Debounce:    c.Config.Preview.Debounce,
		MetricsPath: c.Config.Metrics.Path,
	}, deps)
}
