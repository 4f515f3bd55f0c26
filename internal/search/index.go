package search

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-newsroom/internal/content"
)

// Index is the document written for the client-side search page.
type Index struct {
	Items []Item `json:"items"`
}

// Linker builds the public URL of a post.
type Linker func(content.Post) string

// BuildIndex converts posts into search items, keeping their order.
func BuildIndex(posts content.Posts, link Linker) Index {
	items := make([]Item, 0, len(posts))
	for _, post := range posts {
		items = append(items, NewItem(post, link))
	}
	return Index{Items: items}
}

// NewItem builds the search item for a post.
func NewItem(post content.Post, link Linker) Item {
	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	href := "/news/" + post.Slug
	if link != nil {
		href = link(post)
	}
	return Item{
		ID:          post.ID.String(),
		Slug:        post.Slug,
		Title:       post.Title,
		Description: post.Description,
		Category:    post.Category,
		Tags:        tags,
		Date:        post.Date,
		Image:       content.ResolveImage(post, ""),
		Href:        href,
		Text:        Normalize(strings.Join([]string{post.Title, post.Description, post.Category, strings.Join(tags, " ")}, " ")),
	}
}

// Marshal encodes the index as JSON without escaping HTML characters.
func (i Index) Marshal() ([]byte, error) {
	var b strings.Builder
	encoder := json.NewEncoder(&b)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(i); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
