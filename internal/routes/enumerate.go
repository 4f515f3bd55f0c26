package routes

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-newsroom/internal/content"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// Route is one page the generator renders.
type Route struct {
	Name   string
	Params map[string]string
	// Key is the slug, tag or page name the route is addressed by.
	Key string
	// Path is the unescaped site-relative path, used for output files.
	Path string
	// Href is the escaped link.
	Href string
}

// ID identifies the route in manifests and logs.
func (r Route) ID() string {
	if r.Key == "" {
		return r.Name
	}
	return r.Name + ":" + r.Key
}

// Inputs carries the slugs routes are generated for. Known slugs come from
// the taxonomy files; slugs used by posts are added to them.
type Inputs struct {
	Posts      content.Posts
	Pins       content.Posts
	Categories []string
	Tags       []string
	Authors    []string
}

// Enumerate lists every static route. Dynamic routes are emitted once per
// existing slug; slugs that cannot form a safe path are reported and skipped.
func (r *Router) Enumerate(in Inputs) ([]Route, []interfaces.Diagnostic) {
	var (
		out   []Route
		diags []interfaces.Diagnostic
	)

	add := func(name, param, key string) {
		params := map[string]string{}
		if param != "" {
			if !safeSegment(key) {
				diags = append(diags, interfaces.Diagnostic{
					Source:  name,
					Message: fmt.Sprintf("skipping route for unsafe slug %q", key),
				})
				return
			}
			params[param] = key
		}
		route, err := r.Resolve(name, params)
		if err != nil {
			diags = append(diags, interfaces.Diagnostic{Source: name, Message: "route not built", Err: err})
			return
		}
		route.Key = key
		out = append(out, route)
	}

	for _, name := range []string{Home, NewsIndex, Latest, Search, Videos} {
		add(name, "", "")
	}
	for _, page := range StaticPages {
		add(Static, "page", page)
	}

	for _, slug := range uniqueExact(in.Posts.Slugs()) {
		add(Article, "slug", slug)
	}
	for _, slug := range uniqueExact(in.Pins.Slugs()) {
		add(Pin, "slug", slug)
	}

	categories := append([]string{}, in.Categories...)
	for _, category := range in.Posts.UsedCategories() {
		categories = append(categories, category.Slug)
	}
	for _, slug := range uniqueExact(categories) {
		add(Category, "slug", slug)
	}

	for _, tag := range uniqueFolded(append(append([]string{}, in.Tags...), in.Posts.UsedTags()...)) {
		add(Tag, "tag", tag)
	}
	for _, author := range uniqueFolded(append(append([]string{}, in.Authors...), in.Posts.UsedAuthors()...)) {
		add(Author, "slug", author)
	}

	return out, diags
}

// Resolve builds a Route value for name and params.
func (r *Router) Resolve(name string, params map[string]string) (Route, error) {
	rawPath, err := r.sitePath(name, params)
	if err != nil {
		return Route{}, err
	}
	href := (&url.URL{Path: rawPath}).EscapedPath()
	return Route{Name: name, Params: params, Path: rawPath, Href: href}, nil
}

func safeSegment(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "." || trimmed == ".." {
		return false
	}
	return !strings.ContainsAny(trimmed, `/\?#`)
}

func uniqueExact(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func uniqueFolded(values []string) []string {
	folded := make([]string, 0, len(values))
	for _, value := range values {
		folded = append(folded, strings.ToLower(strings.TrimSpace(value)))
	}
	return uniqueExact(folded)
}
