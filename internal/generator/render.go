package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/internal/metrics"
	"github.com/goliatone/go-newsroom/internal/pagedata"
	"github.com/goliatone/go-newsroom/internal/routes"
)

// RenderedPage captures the rendered HTML output for a route.
type RenderedPage struct {
	RouteID      string
	Name         string
	Path         string
	Output       string
	Template     string
	HTML         string
	Checksum     string
	LastModified time.Time
	Duration     time.Duration
	// Skipped is set when an incremental build found the output unchanged.
	Skipped bool
}

// RenderDiagnostic records rendering timing and errors for individual routes.
type RenderDiagnostic struct {
	Route    string
	Template string
	Duration time.Duration
	Missing  bool
	Err      error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
	missing    bool
}

// renderRoutes renders every target with a bounded pool of workers. Page
// failures are reported per outcome; only cancellation stops the pool.
func (s *service) renderRoutes(ctx context.Context, buildCtx *BuildContext) ([]renderOutcome, error) {
	targets := buildCtx.Targets
	outcomes := make([]renderOutcome, len(targets))
	if len(targets) == 0 {
		return outcomes, nil
	}

	stop := metrics.Timer(s.deps.Metrics, metrics.StageRender)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.effectiveWorkerCount(len(targets)))
	for i, route := range targets {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				outcomes[i] = renderOutcome{
					diagnostic: RenderDiagnostic{Route: route.ID(), Err: err},
					err:        err,
				}
				return err
			}
			outcomes[i] = s.renderRoute(groupCtx, buildCtx, route)
			return nil
		})
	}
	return outcomes, group.Wait()
}

func (s *service) renderRoute(ctx context.Context, buildCtx *BuildContext, route routes.Route) renderOutcome {
	logger := logging.WithRoute(s.deps.Logger.WithContext(ctx), route.Path)
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{Route: route.ID()},
	}

	page, err := buildCtx.Builder.Page(route)
	if errors.Is(err, pagedata.ErrNotFound) {
		logger.Warn("generator.page.not_found", "route_id", route.ID())
		outcome.missing = true
		outcome.diagnostic.Missing = true
		outcome.diagnostic.Err = err
		return outcome
	}
	if err != nil {
		wrapped := fmt.Errorf("generator: page data for %s: %w", route.ID(), err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}
	outcome.diagnostic.Template = page.Template

	start := time.Now()
	html, err := s.deps.Renderer.RenderTemplate(page.Template, page)
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("generator: render template %q for %s: %w", page.Template, route.ID(), err)
		logger.Error("generator.page.failed", "template", page.Template, "error", err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}
	logger.Debug("generator.page.rendered", "template", page.Template, "duration", duration)

	outcome.page = RenderedPage{
		RouteID:      route.ID(),
		Name:         route.Name,
		Path:         route.Path,
		Template:     page.Template,
		HTML:         html,
		Checksum:     computeHashFromString(html),
		LastModified: lastModified(page, buildCtx.GeneratedAt),
		Duration:     duration,
	}
	return outcome
}

// lastModified dates a page by the newest post it shows.
func lastModified(page pagedata.Page, fallback time.Time) time.Time {
	var candidate time.Time
	switch data := page.Data.(type) {
	case pagedata.ArticlePage:
		candidate = data.Post.Date
	case pagedata.PinPage:
		candidate = data.Post.Date
	case pagedata.ArchivePage:
		if len(data.Posts) > 0 {
			candidate = data.Posts[0].Date
		}
	case pagedata.HomePage:
		if len(data.Latest) > 0 {
			candidate = data.Latest[0].Date
		}
	}
	if candidate.IsZero() {
		return fallback
	}
	return candidate
}
