package generator

import (
	"context"
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

type sitemapEntry struct {
	Location string
	LastMod  time.Time
}

// sitemapEntries lists every route except the not-found page. Routes that
// were not rendered in this run are dated by the build.
func (s *service) sitemapEntries(buildCtx *BuildContext, pages []RenderedPage) []sitemapEntry {
	lastMod := make(map[string]time.Time, len(pages))
	for _, page := range pages {
		lastMod[page.RouteID] = page.LastModified
	}

	entries := make([]sitemapEntry, 0, len(buildCtx.Routes))
	seen := map[string]struct{}{}
	for _, route := range buildCtx.Routes {
		if route.ID() == notFoundRouteID {
			continue
		}
		location := s.deps.Router.Absolute(route.Href)
		if _, ok := seen[location]; ok {
			continue
		}
		seen[location] = struct{}{}
		modified, ok := lastMod[route.ID()]
		if !ok || modified.IsZero() {
			modified = buildCtx.GeneratedAt
		}
		entries = append(entries, sitemapEntry{Location: location, LastMod: modified})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Location < entries[j].Location
	})
	return entries
}

func buildSitemap(entries []sitemapEntry) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", escapeXML(entry.Location)))
		if !entry.LastMod.IsZero() {
			builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", entry.LastMod.UTC().Format(time.RFC3339)))
		}
		builder.WriteString("  </url>\n")
	}
	builder.WriteString(`</urlset>` + "\n")
	return builder.String()
}

func buildRobots(baseURL string, includeSitemap bool) string {
	var builder strings.Builder
	builder.WriteString("User-agent: *\n")
	builder.WriteString("Allow: /\n")
	if includeSitemap {
		base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if base == "" {
			base = "http://localhost"
		}
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf("Sitemap: %s/sitemap.xml\n", base))
	}
	return builder.String()
}

func (s *service) writeSitemap(ctx context.Context, writer artifactWriter, buildCtx *BuildContext, pages []RenderedPage) error {
	content := buildSitemap(s.sitemapEntries(buildCtx, pages))
	return s.writeText(ctx, writer, "sitemap.xml", content, categorySitemap, "application/xml", buildCtx.GeneratedAt)
}

func (s *service) writeRobots(ctx context.Context, writer artifactWriter) error {
	content := buildRobots(s.deps.Router.BaseURL(), s.cfg.GenerateSitemap)
	return s.writeText(ctx, writer, "robots.txt", content, categoryRobots, "text/plain; charset=utf-8", s.now())
}

// writeText writes a generated text artifact at the output root.
func (s *service) writeText(
	ctx context.Context,
	writer artifactWriter,
	name, content string,
	category writeCategory,
	contentType string,
	generatedAt time.Time,
) error {
	fullPath := joinOutputPath(s.outputDir(), name)
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    category,
		ContentType: contentType,
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
	})
}

func escapeXML(value string) string {
	var builder strings.Builder
	if err := xml.EscapeText(&builder, []byte(value)); err != nil {
		return ""
	}
	return builder.String()
}
