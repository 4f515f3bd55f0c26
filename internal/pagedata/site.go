package pagedata

import (
	"context"
	"io/fs"
	"time"

	"github.com/goliatone/go-newsroom/internal/content"
	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/internal/sitedata"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// SiteInfo is the public identity of the site.
type SiteInfo struct {
	Name         string
	BaseURL      string
	Language     string
	Direction    string
	Description  string
	DefaultImage string
	Location     *time.Location
}

// Site is everything loaded from the content directory for one build.
type Site struct {
	Info      SiteInfo
	Posts     content.Posts
	Pins      content.Posts
	Backstage content.Posts
	Data      *sitedata.Data
	LoadedAt  time.Time
}

// AllPosts returns every post of every collection.
func (s *Site) AllPosts() content.Posts {
	out := make(content.Posts, 0, len(s.Posts)+len(s.Pins)+len(s.Backstage))
	out = append(out, s.Posts...)
	out = append(out, s.Pins...)
	return append(out, s.Backstage...)
}

// LoaderConfig locates the site sources inside a filesystem.
type LoaderConfig struct {
	Info    SiteInfo
	DataDir string
	Content content.LoaderConfig
	Logger  interfaces.Logger
}

// Loader reads posts and JSON data into a Site.
type Loader struct {
	fsys   fs.FS
	cfg    LoaderConfig
	logger interfaces.Logger
	now    func() time.Time
}

// NewLoader builds a site loader over fsys.
func NewLoader(fsys fs.FS, cfg LoaderConfig) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if cfg.Content.Logger == nil {
		cfg.Content.Logger = logger
	}
	if cfg.Content.Location == nil {
		cfg.Content.Location = cfg.Info.Location
	}
	return &Loader{fsys: fsys, cfg: cfg, logger: logger, now: time.Now}
}

// Load reads the whole site. Only filesystem level failures and
// cancellation return errors; bad content is reported as diagnostics.
func (l *Loader) Load(ctx context.Context) (*Site, []interfaces.Diagnostic, error) {
	store := sitedata.NewStore(l.fsys, l.cfg.DataDir, sitedata.WithLogger(l.logger))
	data, diags, err := store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	loader, err := content.NewLoader(l.fsys, l.cfg.Content)
	if err != nil {
		return nil, nil, err
	}

	site := &Site{Info: l.cfg.Info, Data: data, LoadedAt: l.now()}
	targets := map[content.Collection]*content.Posts{
		content.CollectionPosts:     &site.Posts,
		content.CollectionPins:      &site.Pins,
		content.CollectionBackstage: &site.Backstage,
	}
	for _, collection := range content.Collections() {
		posts, collectionDiags, err := loader.Load(ctx, collection, data.Categories)
		if err != nil {
			return nil, nil, err
		}
		*targets[collection] = posts
		diags = append(diags, collectionDiags...)
	}
	return site, diags, nil
}
