package routes

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-newsroom/internal/content"
)

// GroupSite is the urlkit group holding every public route.
const GroupSite = "site"

// Route names.
const (
	Home      = "home"
	NewsIndex = "news_index"
	Article   = "article"
	Category  = "category"
	Tag       = "tag"
	Author    = "author"
	Pin       = "pin"
	Latest    = "latest"
	Search    = "search"
	Videos    = "videos"
	Static    = "static"
)

// StaticPages lists the pages rendered from the static route.
var StaticPages = []string{"about", "contact", "privacy", "terms", NotFoundPage}

// NotFoundPage is the static page served for unknown URLs.
const NotFoundPage = "404"

var ErrUnknownRoute = errors.New("routes: unknown route")

// DefaultPaths returns the path template of every route.
func DefaultPaths() map[string]string {
	return map[string]string{
		Home:      "/",
		NewsIndex: "/news",
		Article:   "/news/:slug",
		Category:  "/category/:slug",
		Tag:       "/tag/:tag",
		Author:    "/author/:slug",
		Pin:       "/pin/:slug",
		Latest:    "/latest",
		Search:    "/search",
		Videos:    "/videos",
		Static:    "/:page",
	}
}

// Router builds public URLs through a go-urlkit route manager.
type Router struct {
	manager *urlkit.RouteManager
	group   *urlkit.Group
	base    *url.URL
}

// New configures the route manager for baseURL.
func New(baseURL string) (*Router, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("routes: parse base url: %w", err)
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    GroupSite,
				BaseURL: base.String(),
				Paths:   DefaultPaths(),
			},
		},
	})

	group, err := lookupGroup(manager, GroupSite)
	if err != nil {
		return nil, err
	}
	return &Router{manager: manager, group: group, base: base}, nil
}

// BaseURL returns the configured site origin without a trailing slash.
func (r *Router) BaseURL() string {
	return r.base.String()
}

// URL builds the absolute URL of a route.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	href, err := r.Href(name, params)
	if err != nil {
		return "", err
	}
	return r.Absolute(href), nil
}

// Href builds the site-relative, escaped link of a route.
func (r *Router) Href(name string, params map[string]string) (string, error) {
	rawPath, err := r.sitePath(name, params)
	if err != nil {
		return "", err
	}
	return (&url.URL{Path: rawPath}).EscapedPath(), nil
}

// sitePath returns the unescaped site-relative path of a route. urlkit escapes
// params and then escapes the assembled URL again, so the parsed path still
// carries one level of escaping.
func (r *Router) sitePath(name string, params map[string]string) (string, error) {
	builder, err := r.safeBuilder(name)
	if err != nil {
		return "", err
	}
	for key, value := range params {
		builder.WithParam(key, value)
	}
	built, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("routes: build %s: %w", name, err)
	}
	parsed, err := url.Parse(built)
	if err != nil {
		return "", fmt.Errorf("routes: parse %s: %w", built, err)
	}
	rawPath := parsed.Path
	if decoded, err := url.PathUnescape(rawPath); err == nil {
		rawPath = decoded
	}
	if basePath := strings.TrimRight(r.base.Path, "/"); basePath != "" {
		rawPath = strings.TrimPrefix(rawPath, basePath)
	}
	if !strings.HasPrefix(rawPath, "/") {
		rawPath = "/" + rawPath
	}
	return rawPath, nil
}

// PostHref links a post to its article or pin page.
func (r *Router) PostHref(post content.Post) string {
	name := Article
	if post.Collection == content.CollectionPins {
		name = Pin
	}
	return r.MustHref(name, map[string]string{"slug": post.Slug})
}

// MustHref is Href for templates; failures render as "#".
func (r *Router) MustHref(name string, params map[string]string) string {
	href, err := r.Href(name, params)
	if err != nil {
		return "#"
	}
	return href
}

// Absolute turns a site-relative link into an absolute URL. Absolute
// inputs are returned unchanged.
func (r *Router) Absolute(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return r.base.String() + "/" + strings.TrimPrefix(href, "/")
}

func (r *Router) safeBuilder(route string) (builder *urlkit.Builder, err error) {
	if _, ok := DefaultPaths()[route]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routes: urlkit builder panic: %v", rec)
		}
	}()
	builder = r.group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routes: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}
