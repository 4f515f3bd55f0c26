package search

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Item is one searchable post.
type Item struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags"`
	Date        time.Time `json:"date,omitzero"`
	Image       string    `json:"image,omitempty"`
	Href        string    `json:"href"`
	// Text is the normalised haystack matched against queries.
	Text string `json:"text"`
}

// Result pairs an item with its score.
type Result struct {
	Item  Item
	Score int
}

// Score rates how well the normalised text matches the normalised query.
// The whole query earns twice its length, each query term found earns its
// own length.
func Score(text, query string) int {
	if query == "" {
		return 0
	}
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return 0
	}

	score := 0
	if strings.Contains(text, query) {
		score += 2 * utf8.RuneCountInString(query)
	}
	for _, term := range terms {
		if strings.Contains(text, term) {
			score += utf8.RuneCountInString(term)
		}
	}
	return score
}

// Search returns the items matching query, best first. An empty query, or
// one that normalises to nothing, returns an empty list. limit <= 0 keeps
// every match.
func Search(items []Item, query string, limit int) []Result {
	normalized := Normalize(query)
	results := []Result{}
	if normalized == "" {
		return results
	}

	for _, item := range items {
		if score := Score(item.Text, normalized); score > 0 {
			results = append(results, Result{Item: item, Score: score})
		}
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return b.Item.Date.Compare(a.Item.Date)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
