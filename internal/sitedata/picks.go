package sitedata

import (
	"strings"

	"github.com/goliatone/go-newsroom/internal/content"
)

const editorPicksLimit = 5

// ResolveEditorPicks prefers posts flagged as editor picks, then the slugs
// listed in editor_picks.json, then the newest posts.
func ResolveEditorPicks(posts content.Posts, file EditorPicksFile) []EditorPick {
	if flagged := posts.EditorPicks(editorPicksLimit); len(flagged) > 0 {
		return toPicks(flagged)
	}

	var picks []EditorPick
	for _, ref := range file.Picks {
		slug := strings.TrimSpace(ref.Slug)
		if slug == "" {
			continue
		}
		title := strings.TrimSpace(ref.Title)
		if post, ok := posts.BySlug(slug); ok && post.Title != "" {
			title = post.Title
		}
		if title == "" {
			title = slug
		}
		picks = append(picks, EditorPick{Slug: slug, Title: title})
	}
	if len(picks) > 0 {
		return picks
	}

	return toPicks(posts.Limit(editorPicksLimit))
}

func toPicks(posts content.Posts) []EditorPick {
	out := make([]EditorPick, 0, len(posts))
	for _, post := range posts {
		out = append(out, EditorPick{Slug: post.Slug, Title: post.Title})
	}
	return out
}

// TaxonomyMap indexes items by slug; the first entry for a slug wins.
func TaxonomyMap(items []TaxonomyItem) map[string]TaxonomyItem {
	out := make(map[string]TaxonomyItem, len(items))
	for _, item := range items {
		if item.Slug == "" {
			continue
		}
		if _, ok := out[item.Slug]; !ok {
			out[item.Slug] = item
		}
	}
	return out
}

// FindTaxonomy looks an item up by slug ignoring case and surrounding space.
func FindTaxonomy(items []TaxonomyItem, slug string) (TaxonomyItem, bool) {
	want := strings.ToLower(strings.TrimSpace(slug))
	for _, item := range items {
		if strings.ToLower(strings.TrimSpace(item.Slug)) == want {
			return item, true
		}
	}
	return TaxonomyItem{}, false
}

// CategoryTitle returns the title of the category with slug, or the slug.
func CategoryTitle(categories []content.Category, slug string) string {
	for _, category := range categories {
		if category.Slug == slug {
			return category.Title
		}
	}
	return slug
}
