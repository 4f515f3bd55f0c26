package content

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/internal/markdown"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// LoaderConfig describes where each collection lives and how bodies render.
type LoaderConfig struct {
	// Dirs maps collections to directories inside the loader filesystem.
	Dirs           map[Collection]string
	Pattern        string
	Recursive      bool
	Location       *time.Location
	WordsPerMinute int
	Parser         interfaces.ParseOptions
	Logger         interfaces.Logger
}

// DefaultDirs returns the conventional collection directories.
func DefaultDirs() map[Collection]string {
	return map[Collection]string{
		CollectionPosts:     "content/posts",
		CollectionPins:      "content/pins",
		CollectionBackstage: "content/backstage",
	}
}

// Loader reads post collections from a filesystem.
type Loader struct {
	cfg      LoaderConfig
	markdown *markdown.Service
	logger   interfaces.Logger
}

// NewLoader builds a Loader reading from fsys.
func NewLoader(fsys fs.FS, cfg LoaderConfig) (*Loader, error) {
	if cfg.Dirs == nil {
		cfg.Dirs = DefaultDirs()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = DefaultWordsPerMinute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	svc, err := markdown.NewService(markdown.Config{
		FS:        fsys,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
		Parser:    cfg.Parser,
		Logger:    logger,
	}, nil)
	if err != nil {
		return nil, err
	}

	return &Loader{cfg: cfg, markdown: svc, logger: logger}, nil
}

// Load reads every post of collection, newest first. A missing directory
// yields an empty list. Files that fail to parse are dropped and reported as
// diagnostics.
func (l *Loader) Load(ctx context.Context, collection Collection, categories []Category) (Posts, []interfaces.Diagnostic, error) {
	dir, ok := l.cfg.Dirs[collection]
	if !ok {
		return nil, nil, fmt.Errorf("content: unknown collection %q", collection)
	}

	docs, issues, err := l.markdown.Collect(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("content: load %s: %w", collection, err)
	}

	var diagnostics []interfaces.Diagnostic
	for _, issue := range issues {
		logging.WithSourceContext(l.logger, issue.Path, string(collection)).Warn("content.post.skipped", "error", issue.Err)
		diagnostics = append(diagnostics, interfaces.Diagnostic{
			Source:  issue.Path,
			Message: "post skipped",
			Err:     issue.Err,
		})
	}

	posts := make(Posts, 0, len(docs))
	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		post := FromDocument(doc, collection, l.cfg.Location, l.cfg.WordsPerMinute)
		ReconcileCategory(&post, categories)

		if first, dup := seen[post.Slug]; dup {
			diagnostics = append(diagnostics, interfaces.Diagnostic{
				Source:  post.SourcePath,
				Message: fmt.Sprintf("slug %q already used by %s", post.Slug, first),
			})
		} else {
			seen[post.Slug] = post.SourcePath
		}
		if !IsValidSlug(post.Slug) {
			l.logger.Debug("content.post.slug_not_canonical", "slug", post.Slug, "suggested", SuggestSlug(post.Slug), "source_path", post.SourcePath)
		}
		if post.RawDate != "" && post.Date.IsZero() {
			diagnostics = append(diagnostics, interfaces.Diagnostic{
				Source:  post.SourcePath,
				Message: fmt.Sprintf("unparsable date %q", post.RawDate),
			})
		}
		posts = append(posts, post)
	}

	l.logger.Debug("content.collection.loaded", "collection", string(collection), "posts", len(posts), "skipped", len(issues))
	return SortByDate(posts), diagnostics, nil
}
