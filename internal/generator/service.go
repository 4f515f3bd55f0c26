package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/internal/metrics"
	"github.com/goliatone/go-newsroom/internal/pagedata"
	"github.com/goliatone/go-newsroom/internal/routes"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")
	// ErrRouteNotFound is returned by BuildPage for a route the site does not have.
	ErrRouteNotFound = errors.New("generator: route not found")
	// ErrOutputDirUnsafe is returned by Clean when no output directory is set.
	ErrOutputDirUnsafe  = errors.New("generator: refusing to clean without an output directory")
	errRendererRequired = errors.New("generator: template renderer is required")
	errLoaderRequired   = errors.New("generator: site loader is required")
	errRouterRequired   = errors.New("generator: router is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	BuildPage(ctx context.Context, route string) error
	Clean(ctx context.Context) error
	Routes(ctx context.Context) ([]routes.Route, error)
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	CleanBuild      bool
	Incremental     bool
	CopyAssets      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	GenerateSearch  bool
	Workers         int
	SearchIndexFile string
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	// Routes limits rendering to the listed route ids or paths.
	Routes []string
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt    int
	PagesSkipped  int
	PagesMissing  int
	AssetsBuilt   int
	AssetsSkipped int
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []interfaces.Diagnostic
	Pages         []RenderDiagnostic
	Errors        []error
	DryRun        bool
}

// SiteLoader reads the site sources for one build.
type SiteLoader interface {
	Load(ctx context.Context) (*pagedata.Site, []interfaces.Diagnostic, error)
}

// Dependencies lists the services required by the generator.
type Dependencies struct {
	Loader   SiteLoader
	Router   *routes.Router
	Renderer interfaces.TemplateRenderer
	Storage  interfaces.StorageProvider
	Assets   AssetSource
	// Public holds files copied verbatim to the output root.
	Public  fs.FS
	Metrics metrics.Recorder
	Logger  interfaces.Logger
	Hooks   Hooks
}

// Hooks run around build steps. A hook error fails the step it wraps.
type Hooks struct {
	BeforeBuild func(context.Context, BuildOptions) error
	AfterBuild  func(context.Context, BuildOptions, *BuildResult) error
	AfterPage   func(context.Context, RenderedPage) error
	BeforeClean func(context.Context, string) error
	AfterClean  func(context.Context, string) error
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Noop{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	if strings.TrimSpace(cfg.SearchIndexFile) == "" {
		cfg.SearchIndexFile = "search-index.json"
	}
	return &service{
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg  Config
	deps Dependencies
	now  func() time.Time

	// mu serialises builds sharing one output directory.
	mu sync.Mutex
}

type disabledService struct{}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result, err := s.build(ctx, opts)
	elapsed := time.Since(start)
	if result != nil {
		result.Duration = elapsed
	}
	s.deps.Metrics.ObserveBuildDuration(elapsed)
	s.deps.Metrics.IncBuildOutcome(buildOutcome(result, err))

	logger := s.deps.Logger.WithContext(ctx)
	if err != nil {
		logger.Error("generator.build.failed", "error", err, "duration", elapsed)
	} else {
		logger.Info("generator.build.completed",
			"pages", result.PagesBuilt,
			"skipped", result.PagesSkipped,
			"assets", result.AssetsBuilt,
			"diagnostics", len(result.Diagnostics),
			"dry_run", opts.DryRun,
			"duration", elapsed,
		)
	}
	return result, err
}

func (s *service) build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if hook := s.deps.Hooks.BeforeBuild; hook != nil {
		if err := hook(ctx, opts); err != nil {
			return nil, fmt.Errorf("generator: before build hook: %w", err)
		}
	}

	buildCtx, err := s.loadContext(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, diag := range buildCtx.Diagnostics {
		s.deps.Logger.Warn("generator.diagnostic", "source", diag.Source, "message", diag.Message, "error", diag.Err)
	}

	result := &BuildResult{
		DryRun:      opts.DryRun,
		Diagnostics: append([]interfaces.Diagnostic(nil), buildCtx.Diagnostics...),
		Pages:       make([]RenderDiagnostic, 0, len(buildCtx.Targets)),
	}

	var errorsSlice []error
	writer := newArtifactWriter(s.deps.Storage)
	if opts.DryRun {
		writer = noopWriter{}
	}

	if s.cfg.CleanBuild && !s.cfg.Incremental && !opts.DryRun && !buildCtx.Filtered {
		if err := s.removeOutput(ctx, writer); err != nil {
			return nil, err
		}
	}

	manifest := newBuildManifest()
	if s.cfg.Incremental && !opts.DryRun {
		loaded, err := s.loadManifest(ctx)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		} else {
			manifest = loaded
		}
	}

	outcomes, renderErr := s.renderRoutes(ctx, buildCtx)
	if renderErr != nil {
		errorsSlice = append(errorsSlice, renderErr)
	}

	rendered := make([]RenderedPage, 0, len(outcomes))
	for _, outcome := range outcomes {
		result.Pages = append(result.Pages, outcome.diagnostic)
		switch {
		case outcome.missing:
			result.PagesMissing++
			s.deps.Metrics.IncPageResult(metrics.PageMissing)
		case outcome.err != nil:
			errorsSlice = append(errorsSlice, outcome.err)
			s.deps.Metrics.IncPageResult(metrics.PageFailed)
		default:
			rendered = append(rendered, outcome.page)
		}
	}
	if err := ctx.Err(); err != nil {
		if renderErr == nil {
			errorsSlice = append(errorsSlice, err)
		}
		result.Errors = errorsSlice
		return result, errors.Join(errorsSlice...)
	}

	stopWrite := metrics.Timer(s.deps.Metrics, metrics.StageWrite)
	written, err := s.persistPages(ctx, writer, manifest, rendered)
	stopWrite()
	if err != nil {
		errorsSlice = append(errorsSlice, err)
	}
	for _, page := range written {
		if page.Skipped {
			result.PagesSkipped++
			s.deps.Metrics.IncPageResult(metrics.PageSkipped)
			continue
		}
		result.PagesBuilt++
		s.deps.Metrics.IncPageResult(metrics.PageRendered)
		if hook := s.deps.Hooks.AfterPage; hook != nil {
			if err := hook(ctx, page); err != nil {
				errorsSlice = append(errorsSlice, fmt.Errorf("generator: after page hook: %w", err))
			}
		}
	}
	result.Rendered = written

	if s.cfg.CopyAssets {
		stopAssets := metrics.Timer(s.deps.Metrics, metrics.StageAssets)
		summary, err := s.copyAssets(ctx, writer, manifest)
		stopAssets()
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		}
		result.AssetsBuilt += summary.Built
		result.AssetsSkipped += summary.Skipped
	}

	if err := s.writeSiteArtifacts(ctx, writer, buildCtx, written); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	if !opts.DryRun && len(errorsSlice) == 0 {
		stopManifest := metrics.Timer(s.deps.Metrics, metrics.StageManifest)
		manifest.GeneratedAt = buildCtx.GeneratedAt
		for _, page := range written {
			manifest.setPage(manifestPage{
				Route:        page.RouteID,
				Path:         page.Path,
				Output:       page.Output,
				Template:     page.Template,
				Checksum:     page.Checksum,
				LastModified: page.LastModified,
				RenderedAt:   buildCtx.GeneratedAt,
			})
		}
		if !buildCtx.Filtered {
			manifest.prunePages(buildCtx.routeIDs())
		}
		if err := s.persistManifest(ctx, writer, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
		stopManifest()
	}

	if hook := s.deps.Hooks.AfterBuild; hook != nil {
		if err := hook(ctx, opts, result); err != nil {
			errorsSlice = append(errorsSlice, fmt.Errorf("generator: after build hook: %w", err))
		}
	}

	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		return result, errors.Join(errorsSlice...)
	}
	return result, nil
}

// writeSiteArtifacts emits the files derived from the whole site rather than
// from a single route.
func (s *service) writeSiteArtifacts(ctx context.Context, writer artifactWriter, buildCtx *BuildContext, pages []RenderedPage) error {
	var errs []error
	if s.cfg.GenerateSitemap {
		stop := metrics.Timer(s.deps.Metrics, metrics.StageSitemap)
		if err := s.writeSitemap(ctx, writer, buildCtx, pages); err != nil {
			errs = append(errs, err)
		}
		stop()
	}
	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer); err != nil {
			errs = append(errs, err)
		}
	}
	if s.cfg.GenerateFeeds {
		stop := metrics.Timer(s.deps.Metrics, metrics.StageFeed)
		if err := s.writeFeed(ctx, writer, buildCtx); err != nil {
			errs = append(errs, err)
		}
		stop()
	}
	if s.cfg.GenerateSearch {
		stop := metrics.Timer(s.deps.Metrics, metrics.StageSearch)
		if err := s.writeSearchIndex(ctx, writer, buildCtx); err != nil {
			errs = append(errs, err)
		}
		stop()
	}
	return errors.Join(errs...)
}

// BuildPage renders and writes a single route, addressed by id
// ("article:my-post") or by path ("/news/my-post").
func (s *service) BuildPage(ctx context.Context, route string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Renderer == nil {
		return errRendererRequired
	}
	route = strings.TrimSpace(route)
	if route == "" {
		return fmt.Errorf("%w: empty route", ErrRouteNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	buildCtx, err := s.loadContext(ctx, BuildOptions{Routes: []string{route}})
	if err != nil {
		return err
	}
	if len(buildCtx.Targets) == 0 {
		return fmt.Errorf("%w: %s", ErrRouteNotFound, route)
	}

	outcomes, err := s.renderRoutes(ctx, buildCtx)
	if err != nil {
		return err
	}
	var rendered []RenderedPage
	for _, outcome := range outcomes {
		if outcome.missing {
			return fmt.Errorf("%w: %s", ErrRouteNotFound, route)
		}
		if outcome.err != nil {
			return outcome.err
		}
		rendered = append(rendered, outcome.page)
	}

	writer := newArtifactWriter(s.deps.Storage)
	manifest := newBuildManifest()
	if s.cfg.Incremental {
		if loaded, err := s.loadManifest(ctx); err == nil {
			manifest = loaded
		}
	}
	written, err := s.persistPages(ctx, writer, manifest, rendered)
	if err != nil {
		return err
	}
	for _, page := range written {
		if hook := s.deps.Hooks.AfterPage; hook != nil && !page.Skipped {
			if err := hook(ctx, page); err != nil {
				return fmt.Errorf("generator: after page hook: %w", err)
			}
		}
	}
	s.deps.Logger.Info("generator.page.built", "route", route, "pages", len(written))
	return nil
}

// Clean removes the output directory.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.outputDir()
	if hook := s.deps.Hooks.BeforeClean; hook != nil {
		if err := hook(ctx, target); err != nil {
			return fmt.Errorf("generator: before clean hook: %w", err)
		}
	}
	if err := s.removeOutput(ctx, newArtifactWriter(s.deps.Storage)); err != nil {
		return err
	}
	if hook := s.deps.Hooks.AfterClean; hook != nil {
		if err := hook(ctx, target); err != nil {
			return fmt.Errorf("generator: after clean hook: %w", err)
		}
	}
	s.deps.Logger.Info("generator.clean.completed", "output", target)
	return nil
}

// Routes loads the site and lists every route a build would render.
func (s *service) Routes(ctx context.Context) ([]routes.Route, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	buildCtx, err := s.loadContext(ctx, BuildOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]routes.Route, 0, len(buildCtx.Targets))
	out = append(out, buildCtx.Targets...)
	return out, nil
}

// persistPages writes rendered pages to route/index.html. The not-found page
// is also written to 404.html at the output root. Pages whose checksum and
// output match the manifest are skipped on incremental builds.
func (s *service) persistPages(
	ctx context.Context,
	writer artifactWriter,
	manifest *buildManifest,
	pages []RenderedPage,
) ([]RenderedPage, error) {
	if len(pages) == 0 {
		return nil, nil
	}
	baseDir := s.outputDir()
	dirCache := map[string]struct{}{}
	if baseDir != "" {
		dirCache[baseDir] = struct{}{}
		if err := writer.EnsureDir(ctx, baseDir); err != nil {
			return nil, err
		}
	}

	written := make([]RenderedPage, 0, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		page.Output = joinOutputPath(baseDir, buildOutputPath(page.Path))
		if s.cfg.Incremental && manifest.shouldSkipPage(page.RouteID, page.Checksum, page.Output) {
			page.Skipped = true
			written = append(written, page)
			continue
		}

		outputs := []string{page.Output}
		if page.RouteID == notFoundRouteID {
			outputs = append(outputs, joinOutputPath(baseDir, notFoundFile))
		}
		for _, output := range outputs {
			if err := ensureDir(ctx, writer, dirCache, path.Dir(output)); err != nil {
				return written, err
			}
			req := writeFileRequest{
				Path:        output,
				Content:     strings.NewReader(page.HTML),
				Size:        int64(len(page.HTML)),
				Category:    categoryPage,
				ContentType: "text/html; charset=utf-8",
				Checksum:    page.Checksum,
				Metadata: map[string]string{
					"route":    page.RouteID,
					"template": page.Template,
				},
			}
			if err := writer.WriteFile(ctx, req); err != nil {
				return written, err
			}
		}
		written = append(written, page)
	}
	return written, nil
}

func (s *service) removeOutput(ctx context.Context, writer artifactWriter) error {
	target := s.outputDir()
	if target == "" {
		return ErrOutputDirUnsafe
	}
	if err := writer.Remove(ctx, target); err != nil {
		return fmt.Errorf("generator: clean %s: %w", target, err)
	}
	return nil
}

// outputDir is the cleaned relative output directory; "" means the storage
// root, which Clean refuses to remove.
func (s *service) outputDir() string {
	dir := strings.Trim(path.Clean("/"+strings.TrimSpace(s.cfg.OutputDir)), "/")
	if dir == "." {
		return ""
	}
	return dir
}

func (s *service) effectiveWorkerCount(routeCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if routeCount > 0 && workers > routeCount {
		return routeCount
	}
	return workers
}

func buildOutcome(result *BuildResult, err error) metrics.BuildOutcome {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	case err != nil:
		return metrics.OutcomeFailed
	case result != nil && (len(result.Diagnostics) > 0 || result.PagesMissing > 0):
		return metrics.OutcomeWarning
	default:
		return metrics.OutcomeSuccess
	}
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(strings.Trim(base, "/"), rel)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) BuildPage(context.Context, string) error {
	return ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}

func (disabledService) Routes(context.Context) ([]routes.Route, error) {
	return nil, ErrServiceDisabled
}
