package content

import (
	"time"

	"github.com/google/uuid"
)

// Collection names a directory of Markdown posts.
type Collection string

const (
	CollectionPosts     Collection = "posts"
	CollectionPins      Collection = "pins"
	CollectionBackstage Collection = "backstage"
)

// Collections lists every collection in load order.
func Collections() []Collection {
	return []Collection{CollectionPosts, CollectionPins, CollectionBackstage}
}

const (
	TypeArticle = "article"
	TypeTV      = "tv"

	// EditorialCategory is the category slug reserved for the editor's column.
	EditorialCategory = "editorial"
)

// Post is a Markdown file with its front-matter resolved into typed fields.
type Post struct {
	ID         uuid.UUID
	Collection Collection

	Slug            string
	Title           string
	Date            time.Time
	RawDate         string
	Description     string
	Category        string
	CategorySlug    string
	Author          string
	FeaturedImage   string
	Breaking        bool
	BreakingText    string
	Hero            bool
	Tags            []string
	EditorPick      bool
	EditorPickOrder *int
	MostRead        bool
	MostReadOrder   *int
	Type            string
	YouTube         string
	Custom          map[string]any

	Body        string
	HTML        string
	PlainText   string
	ReadMinutes int

	SourcePath  string
	Fingerprint string
	ModTime     time.Time
}

// IsTV reports whether the post is a video post.
func (p Post) IsTV() bool {
	return p.Type == TypeTV
}

// HasTag reports whether the post carries tag, compared case-insensitively.
func (p Post) HasTag(tag string) bool {
	want := foldKey(tag)
	if want == "" {
		return false
	}
	for _, candidate := range p.Tags {
		if foldKey(candidate) == want {
			return true
		}
	}
	return false
}

// Category is an entry of the categories taxonomy.
type Category struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Posts is an ordered list of posts. Selector methods never modify the
// receiver and always return a fresh slice.
type Posts []Post
