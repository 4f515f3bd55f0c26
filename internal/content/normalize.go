package content

import (
	"strings"
	"time"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-newsroom/internal/identity"
	"github.com/goliatone/go-newsroom/internal/markdown"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// FromDocument converts a rendered Markdown document into a Post.
func FromDocument(doc *interfaces.Document, collection Collection, loc *time.Location, wordsPerMinute int) Post {
	fm := doc.FrontMatter

	slug := strings.TrimSpace(fm.Slug)
	if slug == "" {
		slug = SlugFromFilename(doc.FilePath)
	}

	date, _ := ParseDate(fm.Date, loc)
	plain := markdown.PlainText(doc.BodyHTML)

	post := Post{
		ID:              identity.PostUUID(string(collection), slug),
		Collection:      collection,
		Slug:            slug,
		Title:           strings.TrimSpace(fm.Title),
		Date:            date,
		RawDate:         fm.Date,
		Description:     strings.TrimSpace(fm.Description),
		Category:        strings.TrimSpace(fm.Category),
		CategorySlug:    strings.TrimSpace(fm.CategorySlug),
		Author:          strings.TrimSpace(fm.Author),
		FeaturedImage:   strings.TrimSpace(fm.FeaturedImage),
		Breaking:        fm.Breaking,
		BreakingText:    strings.TrimSpace(fm.BreakingText),
		Hero:            fm.Hero,
		Tags:            cleanTags(fm.Tags),
		EditorPick:      fm.EditorPick,
		EditorPickOrder: fm.EditorPickOrder,
		MostRead:        fm.MostRead,
		MostReadOrder:   fm.MostReadOrder,
		Type:            normalizeType(fm.Type),
		YouTube:         strings.TrimSpace(fm.YouTube),
		Custom:          fm.Custom,
		Body:            string(doc.Body),
		HTML:            string(doc.BodyHTML),
		PlainText:       plain,
		ReadMinutes:     ReadMinutes(plain, wordsPerMinute),
		SourcePath:      doc.FilePath,
		Fingerprint:     Fingerprint(fm.Raw, doc.Body),
		ModTime:         doc.LastModified,
	}
	return post
}

// ReconcileCategory fills the category slug from the display name when only
// the name is set, and swaps the display name for the taxonomy title when it
// is missing or just repeats the slug.
func ReconcileCategory(post *Post, categories []Category) {
	if post.CategorySlug == "" && post.Category != "" {
		post.CategorySlug = post.Category
	}
	if post.CategorySlug == "" {
		return
	}
	for _, category := range categories {
		if category.Slug != post.CategorySlug {
			continue
		}
		if post.Category == "" || post.Category == post.CategorySlug {
			post.Category = category.Title
		}
		return
	}
}

// Fingerprint hashes the front-matter fields and body so unchanged sources
// can be detected across builds.
func Fingerprint(fields map[string]any, body []byte) string {
	frontmatter := ""
	if len(fields) > 0 {
		if serialized, err := yaml.Marshal(fields); err == nil {
			frontmatter = strings.TrimSuffix(string(serialized), "\n")
		}
	}
	return mdfp.CalculateFingerprintFromParts(frontmatter, string(body))
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeType(value string) string {
	if foldKey(value) == TypeTV {
		return TypeTV
	}
	return TypeArticle
}
