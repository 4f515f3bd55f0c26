package routes

import (
	"strings"
	"testing"

	"github.com/goliatone/go-newsroom/internal/content"
)

func newRouter(t *testing.T) *Router {
	t.Helper()
	router, err := New("https://beirutalk.com/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return router
}

func TestHrefAndURL(t *testing.T) {
	router := newRouter(t)

	href, err := router.Href(Article, map[string]string{"slug": "port-blast"})
	if err != nil {
		t.Fatalf("Href: %v", err)
	}
	if href != "/news/port-blast" {
		t.Fatalf("unexpected href %q", href)
	}

	abs, err := router.URL(Category, map[string]string{"slug": "lebanon"})
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if abs != "https://beirutalk.com/category/lebanon" {
		t.Fatalf("unexpected url %q", abs)
	}

	if home := router.MustHref(Home, nil); home != "/" {
		t.Fatalf("unexpected home href %q", home)
	}
	if _, err := router.Href("nope", nil); err == nil {
		t.Fatalf("expected error for unknown route")
	}
	if got := router.MustHref("nope", nil); got != "#" {
		t.Fatalf("expected # for unknown route, got %q", got)
	}
}

func TestPostHrefUsesCollection(t *testing.T) {
	router := newRouter(t)
	if got := router.PostHref(content.Post{Slug: "a", Collection: content.CollectionPins}); got != "/pin/a" {
		t.Fatalf("unexpected pin href %q", got)
	}
	if got := router.PostHref(content.Post{Slug: "a", Collection: content.CollectionPosts}); got != "/news/a" {
		t.Fatalf("unexpected article href %q", got)
	}
}

func TestAbsolute(t *testing.T) {
	router := newRouter(t)
	if got := router.Absolute("/assets/a.jpg"); got != "https://beirutalk.com/assets/a.jpg" {
		t.Fatalf("unexpected absolute %q", got)
	}
	if got := router.Absolute("https://cdn.example.com/a.jpg"); got != "https://cdn.example.com/a.jpg" {
		t.Fatalf("absolute input must be kept, got %q", got)
	}
}

func TestEnumerateEveryDynamicRouteHasSlug(t *testing.T) {
	router := newRouter(t)
	posts := content.Posts{
		{Slug: "a", CategorySlug: "lebanon", Category: "لبنان", Tags: []string{"Beirut"}, Author: "rami"},
		{Slug: "b", CategorySlug: "world", Category: "العالم", Tags: []string{"beirut", "الحرب"}},
		{Slug: "../escape"},
	}
	pins := content.Posts{{Slug: "pinned"}}

	routes, diags := router.Enumerate(Inputs{
		Posts:      posts,
		Pins:       pins,
		Categories: []string{"lebanon", "economy"},
		Tags:       []string{"port"},
		Authors:    []string{"Rami"},
	})

	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic for the unsafe slug, got %v", diags)
	}

	byName := map[string][]string{}
	for _, route := range routes {
		byName[route.Name] = append(byName[route.Name], route.Key)
	}

	check := func(name, want string) {
		t.Helper()
		if got := strings.Join(byName[name], ","); got != want {
			t.Fatalf("%s routes: got %s, want %s", name, got, want)
		}
	}
	check(Article, "a,b")
	check(Pin, "pinned")
	check(Category, "lebanon,economy,world")
	check(Tag, "port,beirut,الحرب")
	check(Author, "rami")
	check(Static, "about,contact,privacy,terms,404")
	check(Home, "")

	slugs := map[string]bool{}
	for _, p := range posts {
		slugs[p.Slug] = true
	}
	for _, route := range routes {
		if route.Name == Article && !slugs[route.Key] {
			t.Fatalf("article route %s has no post", route.Key)
		}
		if !strings.HasPrefix(route.Path, "/") {
			t.Fatalf("route path must be site-relative: %q", route.Path)
		}
	}
}

func TestResolveKeepsUnescapedPath(t *testing.T) {
	router := newRouter(t)
	route, err := router.Resolve(Tag, map[string]string{"tag": "الحرب"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if route.Path != "/tag/الحرب" {
		t.Fatalf("unexpected path %q", route.Path)
	}
	if route.Href != "/tag/%D8%A7%D9%84%D8%AD%D8%B1%D8%A8" {
		t.Fatalf("expected singly escaped href, got %q", route.Href)
	}

	abs, err := router.URL(Tag, map[string]string{"tag": "الحرب"})
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if abs != "https://beirutalk.com/tag/%D8%A7%D9%84%D8%AD%D8%B1%D8%A8" {
		t.Fatalf("unexpected url %q", abs)
	}
	if href := router.PostHref(content.Post{Slug: "بيروت", Collection: content.CollectionPosts}); href != "/news/%D8%A8%D9%8A%D8%B1%D9%88%D8%AA" {
		t.Fatalf("unexpected article href %q", href)
	}
}
