package generator

import (
	"path"
	"strings"

	"github.com/goliatone/go-newsroom/internal/routes"
)

const notFoundFile = "404.html"

var notFoundRouteID = routes.Route{Name: routes.Static, Key: routes.NotFoundPage}.ID()

// buildOutputPath maps a route path to the index.html that serves it.
// Segments are cleaned so a route can never address a file outside the
// output directory.
func buildOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), "/")
	if clean == "" {
		return "index.html"
	}
	clean = strings.TrimPrefix(path.Clean("/"+clean), "/")
	if clean == "" {
		return "index.html"
	}
	return path.Join(clean, "index.html")
}

// OutputPath reports the file a route path is written to.
func OutputPath(route string) string {
	return buildOutputPath(route)
}
