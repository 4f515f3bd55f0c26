package generator

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-newsroom/internal/metrics"
	"github.com/goliatone/go-newsroom/internal/pagedata"
	"github.com/goliatone/go-newsroom/internal/routes"
	"github.com/goliatone/go-newsroom/internal/sitedata"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// BuildContext aggregates the loaded site and the routes a build renders.
type BuildContext struct {
	GeneratedAt time.Time
	Site        *pagedata.Site
	Builder     *pagedata.Builder
	// Routes lists every route of the site; Targets the ones being rendered.
	Routes      []routes.Route
	Targets     []routes.Route
	Filtered    bool
	Diagnostics []interfaces.Diagnostic
	Options     BuildOptions
}

func (c *BuildContext) routeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(c.Routes))
	for _, route := range c.Routes {
		ids[route.ID()] = struct{}{}
	}
	return ids
}

func (s *service) loadContext(ctx context.Context, opts BuildOptions) (*BuildContext, error) {
	if s.deps.Loader == nil {
		return nil, errLoaderRequired
	}
	if s.deps.Router == nil {
		return nil, errRouterRequired
	}

	stopLoad := metrics.Timer(s.deps.Metrics, metrics.StageLoad)
	site, diags, err := s.deps.Loader.Load(ctx)
	stopLoad()
	if err != nil {
		return nil, err
	}

	stopRoutes := metrics.Timer(s.deps.Metrics, metrics.StageRoutes)
	all, routeDiags := s.deps.Router.Enumerate(routeInputs(site))
	stopRoutes()
	diags = append(diags, routeDiags...)

	builder := pagedata.NewBuilder(site, s.deps.Router,
		pagedata.WithLogger(s.deps.Logger),
		pagedata.WithSearchIndex("/"+strings.TrimLeft(s.cfg.SearchIndexFile, "/")),
	)

	buildCtx := &BuildContext{
		GeneratedAt: s.now(),
		Site:        site,
		Builder:     builder,
		Routes:      all,
		Targets:     all,
		Diagnostics: diags,
		Options:     opts,
	}
	if len(opts.Routes) > 0 {
		buildCtx.Filtered = true
		buildCtx.Targets = filterRoutes(all, opts.Routes)
	}
	return buildCtx, nil
}

func routeInputs(site *pagedata.Site) routes.Inputs {
	in := routes.Inputs{Posts: site.Posts, Pins: site.Pins}
	if site.Data == nil {
		return in
	}
	for _, category := range site.Data.Categories {
		in.Categories = append(in.Categories, category.Slug)
	}
	in.Tags = taxonomySlugs(site.Data.Tags)
	in.Authors = taxonomySlugs(site.Data.Authors)
	return in
}

func taxonomySlugs(items []sitedata.TaxonomyItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Slug)
	}
	return out
}

// filterRoutes keeps the routes whose id, path or link is listed in wanted.
func filterRoutes(all []routes.Route, wanted []string) []routes.Route {
	keys := make(map[string]struct{}, len(wanted))
	for _, value := range wanted {
		if value = strings.TrimSpace(value); value != "" {
			keys[value] = struct{}{}
		}
	}
	var out []routes.Route
	for _, route := range all {
		for _, candidate := range []string{route.ID(), route.Path, route.Href} {
			if _, ok := keys[candidate]; ok {
				out = append(out, route)
				break
			}
		}
	}
	return out
}
