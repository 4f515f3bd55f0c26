// Package preview serves a built site locally and rebuilds it when the
// content changes.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

const (
	defaultDebounce = 300 * time.Millisecond
	notFoundFile    = "404.html"
	shutdownTimeout = 5 * time.Second
)

// Config describes the preview server.
type Config struct {
	Host string
	Port int
	// WatchDirs are rebuilt on change; empty disables watching.
	WatchDirs   []string
	Debounce    time.Duration
	MetricsPath string
}

// Dependencies lists the collaborators of the preview server.
type Dependencies struct {
	// Site holds the generated output.
	Site    fs.FS
	Rebuild func(context.Context) error
	Metrics http.Handler
	Logger  interfaces.Logger
}

// Server serves the output directory with clean URLs.
type Server struct {
	cfg     Config
	deps    Dependencies
	echo    *echo.Echo
	rebuild *Rebuilder
}

// New builds a preview server. The echo instance is ready to serve once New returns.
func New(cfg Config, deps Dependencies) (*Server, error) {
	if deps.Site == nil {
		return nil, errors.New("preview: site filesystem is required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if strings.TrimSpace(cfg.MetricsPath) == "" {
		cfg.MetricsPath = "/metrics"
	}

	s := &Server{cfg: cfg, deps: deps}
	if deps.Rebuild != nil {
		s.rebuild = NewRebuilder(deps.Rebuild, cfg.Debounce, deps.Logger)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.requestLogger)
	if deps.Metrics != nil {
		e.GET(cfg.MetricsPath, echo.WrapHandler(deps.Metrics))
	}
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/*", s.serveSite)
	e.HEAD("/*", s.serveSite)
	s.echo = e
	return s, nil
}

// Handler exposes the HTTP handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Rebuilder returns the debounced rebuild loop, nil when no rebuild func was given.
func (s *Server) Rebuilder() *Rebuilder {
	return s.rebuild
}

// Address is the host:port the server listens on.
func (s *Server) Address() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Run serves until ctx is cancelled, watching WatchDirs when a rebuild func
// is configured.
func (s *Server) Run(ctx context.Context) error {
	if s.rebuild != nil && len(s.cfg.WatchDirs) > 0 {
		watcher, err := Watch(ctx, s.cfg.WatchDirs, s.rebuild.Trigger, s.deps.Logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("preview.server.listening", "address", s.Address())
		errCh <- s.echo.Start(s.Address())
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview: shutdown: %w", err)
	}
	s.deps.Logger.Info("preview.server.stopped")
	return nil
}

// serveSite maps /news/x to news/x/index.html and answers unknown paths with
// 404.html. The decoded request path is used so Arabic slugs resolve to
// their on-disk directories.
func (s *Server) serveSite(c echo.Context) error {
	req := c.Request()
	name := strings.TrimPrefix(path.Clean("/"+req.URL.Path), "/")
	for _, candidate := range candidates(name) {
		info, err := fs.Stat(s.deps.Site, candidate)
		if err != nil || info.IsDir() {
			continue
		}
		http.ServeFileFS(c.Response(), req, s.deps.Site, candidate)
		return nil
	}

	body, err := fs.ReadFile(s.deps.Site, notFoundFile)
	if err != nil {
		return echo.ErrNotFound
	}
	return c.HTMLBlob(http.StatusNotFound, body)
}

func candidates(name string) []string {
	if name == "" || name == "." {
		return []string{"index.html"}
	}
	if path.Ext(name) != "" {
		return []string{name, path.Join(name, "index.html")}
	}
	return []string{path.Join(name, "index.html"), name + ".html", name}
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.deps.Logger.Debug("preview.request",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", c.Response().Status,
			"duration", time.Since(start),
		)
		return nil
	}
}
