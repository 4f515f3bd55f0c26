// Package templates renders page data with html/template and the embedded
// RTL theme. A theme directory can override any embedded file.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/internal/routes"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

//go:embed theme
var embedded embed.FS

const (
	layoutsDir  = "layouts"
	partialsDir = "partials"
	pagesDir    = "pages"
	assetsDir   = "assets"

	entryTemplate = "base"
)

var ErrTemplateNotFound = errors.New("templates: template not found")

// Config configures a Renderer.
type Config struct {
	// Theme overrides embedded theme files by relative path. Optional.
	Theme        fs.FS
	Router       *routes.Router
	Location     *time.Location
	DefaultImage string
	Logger       interfaces.Logger
	// Now is used by the footer year; defaults to time.Now.
	Now func() time.Time
}

// Renderer implements interfaces.TemplateRenderer. Each page template is
// parsed into its own set together with the layouts and partials so every
// page can define "content".
type Renderer struct {
	cfg    Config
	theme  fs.FS
	logger interfaces.Logger

	once  sync.Once
	pages map[string]*template.Template
	err   error
}

var _ interfaces.TemplateRenderer = (*Renderer)(nil)

// New returns a renderer; templates are parsed on first use.
func New(cfg Config) (*Renderer, error) {
	if cfg.Router == nil {
		return nil, errors.New("templates: router is required")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	base, err := fs.Sub(embedded, "theme")
	if err != nil {
		return nil, fmt.Errorf("templates: embedded theme: %w", err)
	}
	return &Renderer{cfg: cfg, theme: overlay{upper: cfg.Theme, lower: base}, logger: logger}, nil
}

// Assets exposes the theme assets directory, overrides included.
func (r *Renderer) Assets() fs.FS {
	sub, err := fs.Sub(r.theme, assetsDir)
	if err != nil {
		return emptyFS{}
	}
	return sub
}

// AssetFiles lists every theme asset. Paths keep the "assets/" prefix, which
// is also where the layout links them from.
func (r *Renderer) AssetFiles() ([]string, error) {
	return listFiles(r.theme, assetsDir)
}

// ReadAsset returns the content of an asset listed by AssetFiles.
func (r *Renderer) ReadAsset(name string) ([]byte, error) {
	return fs.ReadFile(r.theme, name)
}

// Templates lists the page templates available for rendering.
func (r *Renderer) Templates() ([]string, error) {
	pages, err := r.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (r *Renderer) load() (map[string]*template.Template, error) {
	r.once.Do(func() {
		r.pages, r.err = r.parse()
	})
	return r.pages, r.err
}

func (r *Renderer) parse() (map[string]*template.Template, error) {
	shared, err := listFiles(r.theme, layoutsDir, partialsDir)
	if err != nil {
		return nil, err
	}
	root := template.New(entryTemplate).Funcs(r.funcs())
	for _, name := range shared {
		if err := parseFile(root, r.theme, name); err != nil {
			return nil, err
		}
	}
	if root.Lookup(entryTemplate) == nil {
		return nil, fmt.Errorf("%w: layout %q", ErrTemplateNotFound, entryTemplate)
	}

	pageFiles, err := listFiles(r.theme, pagesDir)
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		set, err := root.Clone()
		if err != nil {
			return nil, fmt.Errorf("templates: clone layout: %w", err)
		}
		if err := parseFile(set, r.theme, name); err != nil {
			return nil, err
		}
		key := strings.TrimSuffix(path.Base(name), path.Ext(name))
		pages[key] = set
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no page templates", ErrTemplateNotFound)
	}
	r.logger.Debug("templates.parsed", "pages", len(pages), "shared", len(shared))
	return pages, nil
}

func parseFile(set *template.Template, fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("templates: read %s: %w", name, err)
	}
	if _, err := set.New(name).Parse(string(data)); err != nil {
		return fmt.Errorf("templates: parse %s: %w", name, err)
	}
	return nil
}

// RenderTemplate renders the page template name with data. The output is
// written to out[0] when given, otherwise returned.
func (r *Renderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	pages, err := r.load()
	if err != nil {
		return "", err
	}
	set, ok := pages[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return execute(out, func(w io.Writer) error {
		return set.ExecuteTemplate(w, entryTemplate, data)
	})
}

// RenderString renders an inline template with the theme funcs.
func (r *Renderer) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tpl, err := template.New("inline").Funcs(r.funcs()).Parse(content)
	if err != nil {
		return "", err
	}
	return execute(out, func(w io.Writer) error {
		return tpl.Execute(w, data)
	})
}

func execute(out []io.Writer, run func(io.Writer) error) (string, error) {
	if len(out) > 0 && out[0] != nil {
		return "", run(out[0])
	}
	var buffer bytes.Buffer
	if err := run(&buffer); err != nil {
		return "", err
	}
	return buffer.String(), nil
}

func listFiles(fsys fs.FS, dirs ...string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		err := fs.WalkDir(fsys, dir, func(name string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() {
				files = append(files, name)
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("templates: list %s: %w", dir, err)
		}
	}
	slices.Sort(files)
	return files, nil
}
