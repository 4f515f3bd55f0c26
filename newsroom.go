// Package newsroom builds the BeiruTalk static news site: Markdown posts and
// JSON site data are loaded, every public route is pre-rendered with the RTL
// theme and the result is written with a sitemap, feed and search index.
package newsroom

import (
	"context"
	"net/http"

	sitecmd "github.com/goliatone/go-newsroom/internal/commands/site"
	"github.com/goliatone/go-newsroom/internal/di"
	"github.com/goliatone/go-newsroom/internal/generator"
	"github.com/goliatone/go-newsroom/internal/preview"
	"github.com/goliatone/go-newsroom/internal/routes"
	"github.com/goliatone/go-newsroom/internal/search"
)

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// BuildOptions exports the per-build overrides.
type BuildOptions = generator.BuildOptions

// BuildResult exports the build summary.
type BuildResult = generator.BuildResult

// Route exports a renderable site route.
type Route = routes.Route

// SearchResult exports a scored search hit.
type SearchResult = search.Result

// SiteCommands exports the go-command handlers for build, page and clean.
type SiteCommands = sitecmd.HandlerSet

// Module represents the top level newsroom runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a newsroom module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Generator returns the configured generator service.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Commands returns the site command handlers.
func (m *Module) Commands() *SiteCommands {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.SiteCommands()
}

// SubscribeCommands attaches the site handlers to the go-command dispatcher.
// Call the returned func to detach them.
func (m *Module) SubscribeCommands() func() {
	set := m.Commands()
	if set == nil {
		return func() {}
	}
	return set.Subscribe()
}

// Build renders the whole site.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	return m.Generator().Build(ctx, opts)
}

// Clean removes the generated output.
func (m *Module) Clean(ctx context.Context) error {
	return m.Generator().Clean(ctx)
}

// Routes lists every route the current content produces.
func (m *Module) Routes(ctx context.Context) ([]Route, error) {
	return m.Generator().Routes(ctx)
}

// Search loads the site and returns the news posts matching query, best
// first. A blank query returns an empty list without touching the content.
// limit <= 0 falls back to the configured search limit.
func (m *Module) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if search.Normalize(query) == "" {
		return []SearchResult{}, nil
	}
	if limit <= 0 {
		limit = m.container.Config.Search.Limit
	}

	site, _, err := m.container.Loader().Load(ctx)
	if err != nil {
		return nil, err
	}
	index := search.BuildIndex(site.Posts, m.container.Router().PostHref)
	return search.Search(index.Items, query, limit), nil
}

// Preview returns a local server over the output directory.
func (m *Module) Preview() (*preview.Server, error) {
	return m.container.PreviewServer()
}

// MetricsHandler serves Prometheus metrics; nil when metrics are disabled.
func (m *Module) MetricsHandler() http.Handler {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MetricsHandler()
}
