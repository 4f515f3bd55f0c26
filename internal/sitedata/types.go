package sitedata

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-newsroom/internal/content"
)

// Data aggregates every JSON configuration file of the site.
type Data struct {
	Ads         AdsConfig
	Menus       MenusConfig
	Contact     SiteContact
	Homepage    HomeConfig
	Head        HeadConfig
	EditorPicks EditorPicksFile
	Categories  []content.Category
	Authors     []TaxonomyItem
	Tags        []TaxonomyItem
}

// AdsConfig is the content of ads.json.
type AdsConfig struct {
	Adsense AdsenseAccount `json:"adsense"`
	Slots   []AdSlot       `json:"slots"`
}

type AdsenseAccount struct {
	Enabled bool   `json:"enabled"`
	Client  string `json:"client,omitempty"`
}

const (
	AdTypeCustom  = "custom"
	AdTypeAdsense = "adsense"
)

type AdSlot struct {
	ID      string       `json:"id"`
	Enabled bool         `json:"enabled"`
	Label   string       `json:"label,omitempty"`
	Type    string       `json:"type"`
	Custom  *CustomAd    `json:"custom,omitempty"`
	Adsense *AdsenseSlot `json:"adsense,omitempty"`
}

type CustomAd struct {
	Image        string `json:"image,omitempty"`
	Href         string `json:"href,omitempty"`
	Alt          string `json:"alt,omitempty"`
	OpenInNewTab *bool  `json:"openInNewTab,omitempty"`
	Width        *int   `json:"width,omitempty"`
	Height       *int   `json:"height,omitempty"`
}

type AdsenseSlot struct {
	Slot       string `json:"slot,omitempty"`
	Format     string `json:"format,omitempty"`
	Responsive bool   `json:"responsive,omitempty"`
}

// MenusConfig is the content of menus.json.
type MenusConfig struct {
	Header         []MenuLink `json:"header"`
	FooterSections []MenuLink `json:"footerSections"`
}

const (
	MenuTypeHome     = "home"
	MenuTypeCategory = "category"
	MenuTypeCustom   = "custom"
)

type MenuLink struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Href    string `json:"href,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// SiteContact is the content of siteContact.json.
type SiteContact struct {
	Email    string  `json:"email"`
	WhatsApp string  `json:"whatsapp"`
	Socials  Socials `json:"socials"`
}

type Socials struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	X         string `json:"x,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// Links returns the configured social links in display order.
func (s Socials) Links() []SocialLink {
	candidates := []SocialLink{
		{Network: "facebook", URL: s.Facebook},
		{Network: "instagram", URL: s.Instagram},
		{Network: "x", URL: s.X},
		{Network: "youtube", URL: s.YouTube},
		{Network: "tiktok", URL: s.TikTok},
		{Network: "linkedin", URL: s.LinkedIn},
	}
	out := make([]SocialLink, 0, len(candidates))
	for _, link := range candidates {
		if strings.TrimSpace(link.URL) != "" {
			out = append(out, link)
		}
	}
	return out
}

type SocialLink struct {
	Network string
	URL     string
}

// HomeConfig is the content of homepage.json.
type HomeConfig struct {
	Blocks []HomeBlock `json:"blocks"`
}

const (
	BlockCategorySpotlight = "categorySpotlight"
	BlockThreeCards        = "threeCards"
	BlockHorizontal        = "horizontal"
	BlockTextList          = "textList"
	BlockVideoStrip        = "videoStrip"

	defaultBlockLimit = 4
)

type HomeBlock struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Limit *int   `json:"limit,omitempty"`
	Href  string `json:"href,omitempty"`
}

// EffectiveLimit returns the configured limit, defaulting to four.
func (b HomeBlock) EffectiveLimit() int {
	if b.Limit == nil {
		return defaultBlockLimit
	}
	return max(0, *b.Limit)
}

// Link returns the "see more" target of the block.
func (b HomeBlock) Link() string {
	if href := strings.TrimSpace(b.Href); href != "" {
		return href
	}
	if b.Type == BlockVideoStrip {
		return "/videos"
	}
	if slug := strings.TrimSpace(b.Slug); slug != "" {
		return "/category/" + slug
	}
	return "/"
}

// HeadConfig is the content of head.json.
type HeadConfig struct {
	Enabled       bool               `json:"enabled"`
	Meta          []HeadMetaTag      `json:"meta"`
	Scripts       []HeadScript       `json:"scripts"`
	InlineScripts []HeadInlineScript `json:"inlineScripts"`
}

type HeadMetaTag struct {
	Enabled *bool  `json:"enabled,omitempty"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type HeadScript struct {
	Enabled     *bool  `json:"enabled,omitempty"`
	ID          string `json:"id"`
	Src         string `json:"src"`
	Strategy    string `json:"strategy,omitempty"`
	CrossOrigin string `json:"crossOrigin,omitempty"`
}

type HeadInlineScript struct {
	Enabled  *bool  `json:"enabled,omitempty"`
	ID       string `json:"id"`
	Code     string `json:"code"`
	Strategy string `json:"strategy,omitempty"`
}

// EditorPicksFile is the content of editor_picks.json.
type EditorPicksFile struct {
	Picks []EditorPickRef `json:"picks"`
}

type EditorPickRef struct {
	Slug  string `json:"slug"`
	Title string `json:"title,omitempty"`
}

// EditorPick is a resolved editor pick link.
type EditorPick struct {
	Slug  string
	Title string
}

// TaxonomyItem is an author or tag entry. Unknown keys are kept in Extra.
type TaxonomyItem struct {
	Slug        string         `json:"slug"`
	DisplayName string         `json:"display_name"`
	Extra       map[string]any `json:"-"`
}

// Label returns the display name, falling back to the slug.
func (t TaxonomyItem) Label() string {
	if name := strings.TrimSpace(t.DisplayName); name != "" {
		return name
	}
	return t.Slug
}

func (t *TaxonomyItem) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	slug, _ := fields["slug"].(string)
	name, _ := fields["display_name"].(string)
	delete(fields, "slug")
	delete(fields, "display_name")
	t.Slug = strings.TrimSpace(slug)
	t.DisplayName = strings.TrimSpace(name)
	t.Extra = fields
	return nil
}
