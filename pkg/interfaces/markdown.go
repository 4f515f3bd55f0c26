package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
	// ShiftHeadings demotes every heading one level so the page template owns h1.
	ShiftHeadings bool
	// ImageFigures renders paragraphs holding a single image as <figure>.
	ImageFigures bool
}

// MarkdownService exposes the file workflows used to turn content directories
// into documents.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// Document represents a Markdown file with parsed metadata and content.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content.
	Checksum []byte
}

// FrontMatter models the article metadata block at the top of a post file.
// Unknown keys land in Custom so templates can still reach them.
type FrontMatter struct {
	Title           string         `yaml:"title" json:"title"`
	Slug            string         `yaml:"slug" json:"slug"`
	Date            string         `yaml:"date" json:"date"`
	Description     string         `yaml:"description" json:"description"`
	Category        string         `yaml:"category" json:"category"`
	CategorySlug    string         `yaml:"category_slug" json:"category_slug"`
	Author          string         `yaml:"author" json:"author"`
	FeaturedImage   string         `yaml:"featured_image" json:"featured_image"`
	Breaking        bool           `yaml:"breaking" json:"breaking"`
	BreakingText    string         `yaml:"breaking_text" json:"breaking_text"`
	Hero            bool           `yaml:"hero" json:"hero"`
	Tags            []string       `yaml:"tags" json:"tags"`
	EditorPick      bool           `yaml:"editor_pick" json:"editor_pick"`
	EditorPickOrder *int           `yaml:"editor_pick_order" json:"editor_pick_order"`
	MostRead        bool           `yaml:"most_read" json:"most_read"`
	MostReadOrder   *int           `yaml:"most_read_order" json:"most_read_order"`
	Type            string         `yaml:"type" json:"type"`
	YouTube         string         `yaml:"youtube" json:"youtube"`
	Custom          map[string]any `yaml:",inline" json:"custom"`
	Raw             map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}
