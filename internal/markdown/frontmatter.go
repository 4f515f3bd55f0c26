package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured frontmatter, the Markdown
// body without delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. BodyHTML is left empty so callers can
// render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

// frontMatterEnvelope keeps loosely typed fields (date, orders, flags) as
// any so a single odd value does not reject the whole post.
type frontMatterEnvelope struct {
	Title           string         `yaml:"title"`
	Slug            any            `yaml:"slug"`
	Date            any            `yaml:"date"`
	Description     string         `yaml:"description"`
	Category        string         `yaml:"category"`
	CategorySlug    string         `yaml:"category_slug"`
	Author          string         `yaml:"author"`
	FeaturedImage   string         `yaml:"featured_image"`
	Breaking        any            `yaml:"breaking"`
	BreakingText    string         `yaml:"breaking_text"`
	Hero            any            `yaml:"hero"`
	Tags            any            `yaml:"tags"`
	EditorPick      any            `yaml:"editor_pick"`
	EditorPickOrder any            `yaml:"editor_pick_order"`
	MostRead        any            `yaml:"most_read"`
	MostReadOrder   any            `yaml:"most_read_order"`
	Type            string         `yaml:"type"`
	YouTube         string         `yaml:"youtube"`
	Custom          map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	fm := interfaces.FrontMatter{
		Title:           env.Title,
		Slug:            asString(env.Slug),
		Date:            asDateString(env.Date),
		Description:     env.Description,
		Category:        env.Category,
		CategorySlug:    env.CategorySlug,
		Author:          env.Author,
		FeaturedImage:   env.FeaturedImage,
		Breaking:        asBool(env.Breaking),
		BreakingText:    env.BreakingText,
		Hero:            asBool(env.Hero),
		Tags:            asStrings(env.Tags),
		EditorPick:      asBool(env.EditorPick),
		EditorPickOrder: asInt(env.EditorPickOrder),
		MostRead:        asBool(env.MostRead),
		MostReadOrder:   asInt(env.MostReadOrder),
		Type:            env.Type,
		YouTube:         env.YouTube,
		Custom:          cloneMap(env.Custom),
	}

	raw := cloneMap(env.Custom)
	raw["title"] = fm.Title
	raw["slug"] = fm.Slug
	raw["date"] = fm.Date
	raw["description"] = fm.Description
	raw["category"] = fm.Category
	raw["category_slug"] = fm.CategorySlug
	raw["author"] = fm.Author
	raw["tags"] = append([]string(nil), fm.Tags...)
	raw["type"] = fm.Type
	fm.Raw = raw

	return fm
}

func cloneMap(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
