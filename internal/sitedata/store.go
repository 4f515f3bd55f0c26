package sitedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-newsroom/internal/content"
	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/internal/validation"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

const (
	fileAds         = "ads.json"
	fileMenus       = "menus.json"
	fileContact     = "siteContact.json"
	fileHomepage    = "homepage.json"
	fileHead        = "head.json"
	fileEditorPicks = "editor_picks.json"

	dirCategories = "categories"
	dirAuthors    = "authors"
	dirTags       = "tags"
)

// Store reads the JSON data directory. Every reader falls back to a default
// value; problems are reported as diagnostics, never as errors.
type Store struct {
	fsys   fs.FS
	dir    string
	logger interfaces.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore reads files from dir inside fsys.
func NewStore(fsys fs.FS, dir string, opts ...Option) *Store {
	store := &Store{
		fsys:   fsys,
		dir:    path.Clean(strings.TrimPrefix(dir, "/")),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Load reads every data file.
func (s *Store) Load(ctx context.Context) (*Data, []interfaces.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var diags diagnostics
	data := &Data{}

	data.Ads = readJSON(s, &diags, fileAds, schemaAds, AdsConfig{Slots: []AdSlot{}})
	data.Menus = NormalizeMenus(readJSON(s, &diags, fileMenus, schemaMenus, DefaultMenus()))
	data.Contact = readJSON(s, &diags, fileContact, schemaContact, SiteContact{})
	data.Homepage = readJSON(s, &diags, fileHomepage, schemaHomepage, HomeConfig{})
	if data.Homepage.Blocks == nil {
		data.Homepage.Blocks = []HomeBlock{}
	}
	data.Head = NormalizeHead(readJSON(s, &diags, fileHead, schemaHead, HeadConfig{}))
	data.EditorPicks = readJSON(s, &diags, fileEditorPicks, schemaEditorPicks, EditorPicksFile{})

	for _, item := range readDir[content.Category](s, &diags, dirCategories, schemaCategory) {
		item.Slug = strings.TrimSpace(item.Slug)
		item.Title = strings.TrimSpace(item.Title)
		if item.Slug == "" || item.Title == "" {
			continue
		}
		data.Categories = append(data.Categories, item)
	}
	data.Authors = keepWithSlug(readDir[TaxonomyItem](s, &diags, dirAuthors, schemaTaxonomy))
	data.Tags = keepWithSlug(readDir[TaxonomyItem](s, &diags, dirTags, schemaTaxonomy))

	s.logger.Debug("sitedata.loaded",
		"categories", len(data.Categories),
		"authors", len(data.Authors),
		"tags", len(data.Tags),
		"diagnostics", len(diags),
	)
	return data, diags, nil
}

type diagnostics []interfaces.Diagnostic

func (d *diagnostics) add(source, message string, err error) {
	*d = append(*d, interfaces.Diagnostic{Source: source, Message: message, Err: err})
}

func (s *Store) path(parts ...string) string {
	return path.Join(append([]string{s.dir}, parts...)...)
}

// readJSON decodes file into T, returning fallback when the file is absent,
// unreadable or not valid JSON. Schema violations are reported but the
// decoded value is still used.
func readJSON[T any](s *Store, diags *diagnostics, file, schema string, fallback T) T {
	value, ok := decodeFile[T](s, diags, s.path(file), schema)
	if !ok {
		return fallback
	}
	return value
}

func decodeFile[T any](s *Store, diags *diagnostics, name, schema string) (T, bool) {
	var zero T
	raw, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("sitedata.file.missing", "source_path", name)
			return zero, false
		}
		s.warn(diags, name, "unreadable, using default", err)
		return zero, false
	}

	if !json.Valid(raw) {
		s.warn(diags, name, "invalid json, using default", nil)
		return zero, false
	}
	for _, issue := range validation.Issues(schemaFor(schema).ValidateJSON(raw)) {
		s.warn(diags, name, "schema "+issue.String(), nil)
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		s.warn(diags, name, "unexpected shape, using default", err)
		return zero, false
	}
	return value, true
}

// readDir decodes every *.json file of dir sorted by name. Bad entries are
// skipped.
func readDir[T any](s *Store, diags *diagnostics, dir, schema string) []T {
	root := s.path(dir)
	entries, err := fs.ReadDir(s.fsys, root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.warn(diags, root, "unreadable directory", err)
		}
		return []T{}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	out := make([]T, 0, len(names))
	for _, name := range names {
		if value, ok := decodeFile[T](s, diags, path.Join(root, name), schema); ok {
			out = append(out, value)
		}
	}
	return out
}

func keepWithSlug(items []TaxonomyItem) []TaxonomyItem {
	out := make([]TaxonomyItem, 0, len(items))
	for _, item := range items {
		if item.Slug != "" {
			out = append(out, item)
		}
	}
	return out
}

func (s *Store) warn(diags *diagnostics, source, message string, err error) {
	diags.add(source, message, err)
	args := []any{"source_path", source, "reason", message}
	if err != nil {
		args = append(args, "error", fmt.Sprint(err))
	}
	s.logger.Warn("sitedata.fallback", args...)
}
