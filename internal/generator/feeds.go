package generator

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-newsroom/internal/content"
)

const (
	maxFeedItems      = 100
	feedSummaryLength = 280
	feedFileName      = "feed.xml"
)

type feedItem struct {
	Title       string
	Summary     string
	Category    string
	Link        string
	GUID        string
	PublishedAt time.Time
}

type feedDocument struct {
	Title       string
	Link        string
	Description string
	Language    string
	Items       []feedItem
}

// buildFeedDocument collects the newest news posts. Pins and backstage posts
// are left out of the feed.
func (s *service) buildFeedDocument(buildCtx *BuildContext) feedDocument {
	info := buildCtx.Site.Info
	doc := feedDocument{
		Title:       strings.TrimSpace(info.Name),
		Link:        s.deps.Router.BaseURL(),
		Description: strings.TrimSpace(info.Description),
		Language:    strings.TrimSpace(info.Language),
	}
	if doc.Title == "" {
		doc.Title = doc.Link
	}

	for _, post := range content.SortByDate(buildCtx.Site.Posts).Limit(maxFeedItems) {
		publishedAt := post.Date
		if publishedAt.IsZero() {
			publishedAt = post.ModTime
		}
		doc.Items = append(doc.Items, feedItem{
			Title:       normalizeWhitespace(post.Title),
			Summary:     feedSummary(post),
			Category:    strings.TrimSpace(post.Category),
			Link:        s.deps.Router.Absolute(s.deps.Router.PostHref(post)),
			GUID:        post.ID.String(),
			PublishedAt: publishedAt,
		})
	}
	return doc
}

func (s *service) writeFeed(ctx context.Context, writer artifactWriter, buildCtx *BuildContext) error {
	doc := s.buildFeedDocument(buildCtx)
	rss := buildRSSFeed(doc, buildCtx.GeneratedAt)
	return s.writeText(ctx, writer, feedFileName, rss, categoryFeed, "application/rss+xml", buildCtx.GeneratedAt)
}

func buildRSSFeed(doc feedDocument, generatedAt time.Time) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(doc.Title)))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(doc.Link)))
	builder.WriteString(fmt.Sprintf(`    <atom:link href="%s/%s" rel="self" type="application/rss+xml" />`+"\n", escapeXML(doc.Link), feedFileName))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(doc.Description)))
	if doc.Language != "" {
		builder.WriteString(fmt.Sprintf("    <language>%s</language>\n", escapeXML(doc.Language)))
	}
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))
	for _, item := range doc.Items {
		pub := item.PublishedAt
		if pub.IsZero() {
			pub = generatedAt
		}
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf(`      <guid isPermaLink="false">%s</guid>`+"\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z)))
		if item.Category != "" {
			builder.WriteString(fmt.Sprintf("      <category>%s</category>\n", escapeXML(item.Category)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String()
}

// feedSummary prefers the post description and falls back to the start of
// the body text.
func feedSummary(post content.Post) string {
	if summary := normalizeWhitespace(post.Description); summary != "" {
		return summary
	}
	text := normalizeWhitespace(post.PlainText)
	if utf8.RuneCountInString(text) <= feedSummaryLength {
		return text
	}
	runes := []rune(text)
	cut := strings.TrimSpace(string(runes[:feedSummaryLength]))
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

func normalizeWhitespace(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	return strings.Join(strings.Fields(input), " ")
}
