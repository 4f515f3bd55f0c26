package sitedata

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-newsroom/internal/content"
)

func file(data string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(data)}
}

func loadData(t *testing.T, fsys fstest.MapFS) (*Data, []string) {
	t.Helper()
	data, diags, err := NewStore(fsys, "content/data").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	messages := make([]string, 0, len(diags))
	for _, d := range diags {
		messages = append(messages, d.String())
	}
	return data, messages
}

func TestLoadMissingDirectoryUsesDefaults(t *testing.T) {
	data, diags := loadData(t, fstest.MapFS{})
	if len(diags) != 0 {
		t.Fatalf("missing files must not produce diagnostics: %v", diags)
	}
	if len(data.Menus.Header) != 7 || data.Menus.Header[1].Href != "/category/lebanon" {
		t.Fatalf("expected default header menu, got %#v", data.Menus.Header)
	}
	if data.Ads.Adsense.Enabled || len(data.Ads.Slots) != 0 {
		t.Fatalf("expected empty ads config")
	}
	if data.Homepage.Blocks == nil || len(data.Homepage.Blocks) != 0 {
		t.Fatalf("expected empty non-nil blocks")
	}
	if data.Head.Enabled {
		t.Fatalf("expected disabled head config")
	}
}

func TestLoadMalformedFilesFallBack(t *testing.T) {
	data, diags := loadData(t, fstest.MapFS{
		"content/data/ads.json":         file(`{"slots": [`),
		"content/data/siteContact.json": file(`[1, 2]`),
	})
	if len(data.Ads.Slots) != 0 {
		t.Fatalf("expected default ads")
	}
	if data.Contact.Email != "" {
		t.Fatalf("expected default contact")
	}
	if len(diags) < 2 {
		t.Fatalf("expected diagnostics for both files, got %v", diags)
	}
}

func TestMenusNormalization(t *testing.T) {
	data, _ := loadData(t, fstest.MapFS{
		"content/data/menus.json": file(`{
			"header": [
				{"type": "home", "label": "الرئيسية"},
				{"type": "category", "label": " لبنان ", "slug": "lebanon"},
				{"type": "custom", "label": "hidden", "href": "/x", "enabled": false},
				{"type": "custom", "label": "  ", "href": "/y"},
				{"type": "custom", "label": "TV", "href": "/videos"}
			]
		}`),
	})

	header := data.Menus.Header
	if len(header) != 3 {
		t.Fatalf("expected 3 header links, got %#v", header)
	}
	if header[0].Href != "/" || header[1].Href != "/category/lebanon" || header[1].Label != "لبنان" {
		t.Fatalf("unexpected hrefs %#v", header)
	}
	for _, link := range header {
		if link.Enabled == nil || !*link.Enabled {
			t.Fatalf("expected enabled default on %#v", link)
		}
	}
	if len(data.Menus.FooterSections) != 5 {
		t.Fatalf("missing footer must fall back to defaults, got %d", len(data.Menus.FooterSections))
	}
}

func TestResolveSlot(t *testing.T) {
	data, _ := loadData(t, fstest.MapFS{
		"content/data/ads.json": file(`{
			"adsense": {"enabled": false, "client": "ca-pub-1"},
			"slots": [
				{"id": "top", "enabled": true, "type": "custom", "custom": {"image": "/ads/top.jpg"}},
				{"id": "side", "enabled": true, "type": "custom", "custom": {"image": "/ads/s.jpg", "openInNewTab": false, "width": 300}},
				{"id": "noimg", "enabled": true, "type": "custom", "custom": {}},
				{"id": "off", "enabled": false, "type": "custom", "custom": {"image": "/x.jpg"}},
				{"id": "gads", "enabled": true, "type": "adsense", "adsense": {"slot": "123"}}
			]
		}`),
	})

	top, ok := data.Ads.ResolveSlot("top")
	if !ok || top.Href != "#" || top.Alt != "Ad" || !top.NewTab || top.Width != 900 || top.Height != 500 {
		t.Fatalf("unexpected top slot %#v %v", top, ok)
	}
	side, ok := data.Ads.ResolveSlot("side")
	if !ok || side.NewTab || side.Width != 300 || side.Height != 500 {
		t.Fatalf("unexpected side slot %#v", side)
	}
	for _, id := range []string{"noimg", "off", "gads", "missing"} {
		if _, ok := data.Ads.ResolveSlot(id); ok {
			t.Fatalf("slot %s should not render", id)
		}
	}

	data.Ads.Adsense.Enabled = true
	gads, ok := data.Ads.ResolveSlot("gads")
	if !ok || gads.AdsenseClient != "ca-pub-1" || gads.AdsenseSlot != "123" {
		t.Fatalf("unexpected adsense slot %#v", gads)
	}
}

func TestHeadNormalization(t *testing.T) {
	data, _ := loadData(t, fstest.MapFS{
		"content/data/head.json": file(`{
			"enabled": true,
			"meta": [{"name": "verify", "content": "x"}, {"name": "off", "content": "y", "enabled": false}],
			"scripts": [
				{"id": "ga", "src": "/ga.js"},
				{"id": "ga", "src": "/ga-dup.js"},
				{"id": "", "src": "/anon.js"}
			],
			"inlineScripts": [{"id": "ga", "code": "init()"}, {"id": "empty", "code": ""}]
		}`),
	})
	head := data.Head
	if len(head.Meta) != 1 || head.Meta[0].Name != "verify" {
		t.Fatalf("unexpected meta %#v", head.Meta)
	}
	if len(head.Scripts) != 1 || head.Scripts[0].Src != "/ga.js" {
		t.Fatalf("expected first script to win, got %#v", head.Scripts)
	}
	if len(head.InlineScripts) != 1 {
		t.Fatalf("unexpected inline scripts %#v", head.InlineScripts)
	}

	if got := NormalizeHead(HeadConfig{Meta: []HeadMetaTag{{Name: "x"}}}); len(got.Meta) != 0 {
		t.Fatalf("disabled head must be empty")
	}
}

func TestHomeBlocks(t *testing.T) {
	data, _ := loadData(t, fstest.MapFS{
		"content/data/homepage.json": file(`{"blocks": [
			{"type": "threeCards", "title": "لبنان", "slug": "lebanon"},
			{"type": "videoStrip", "title": "TV", "limit": 8},
			{"type": "textList", "title": "x", "slug": "world", "href": "/custom"},
			{"type": "horizontal", "title": "none", "limit": 0}
		]}`),
	})
	blocks := data.Homepage.Blocks
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}
	if blocks[0].EffectiveLimit() != 4 || blocks[1].EffectiveLimit() != 8 || blocks[3].EffectiveLimit() != 0 {
		t.Fatalf("unexpected limits")
	}
	links := []string{blocks[0].Link(), blocks[1].Link(), blocks[2].Link(), blocks[3].Link()}
	if strings.Join(links, " ") != "/category/lebanon /videos /custom /" {
		t.Fatalf("unexpected links %v", links)
	}
}

func TestTaxonomyDirectories(t *testing.T) {
	data, diags := loadData(t, fstest.MapFS{
		"content/data/categories/b.json":   file(`{"slug": "world", "title": "العالم"}`),
		"content/data/categories/a.json":   file(`{"slug": "lebanon", "title": "لبنان"}`),
		"content/data/categories/bad.json": file(`{"slug": "no-title"}`),
		"content/data/categories/x.txt":    file(`ignored`),
		"content/data/authors/rami.json":   file(`{"slug": "rami", "display_name": "رامي", "bio": "صحافي"}`),
		"content/data/authors/broken.json": file(`{`),
		"content/data/tags/beirut.json":    file(`{"slug": "beirut"}`),
	})

	if len(data.Categories) != 2 || data.Categories[0].Slug != "lebanon" {
		t.Fatalf("expected sorted valid categories, got %#v", data.Categories)
	}
	if len(data.Authors) != 1 || data.Authors[0].Label() != "رامي" || data.Authors[0].Extra["bio"] != "صحافي" {
		t.Fatalf("unexpected authors %#v", data.Authors)
	}
	if len(data.Tags) != 1 || data.Tags[0].Label() != "beirut" {
		t.Fatalf("unexpected tags %#v", data.Tags)
	}
	if len(diags) < 2 {
		t.Fatalf("expected diagnostics for bad category and broken author, got %v", diags)
	}
	if _, ok := FindTaxonomy(data.Authors, " RAMI "); !ok {
		t.Fatalf("expected case-insensitive taxonomy lookup")
	}
	if CategoryTitle(data.Categories, "world") != "العالم" || CategoryTitle(data.Categories, "x") != "x" {
		t.Fatalf("unexpected category titles")
	}
}

func TestResolveEditorPicks(t *testing.T) {
	order := 1
	posts := content.Posts{
		{Slug: "a", Title: "A"},
		{Slug: "b", Title: "B"},
	}

	picks := ResolveEditorPicks(posts, EditorPicksFile{Picks: []EditorPickRef{{Slug: "b"}, {Slug: "gone", Title: "Gone"}, {Slug: " "}}})
	if len(picks) != 2 || picks[0].Title != "B" || picks[1].Title != "Gone" {
		t.Fatalf("unexpected json picks %#v", picks)
	}

	if picks := ResolveEditorPicks(posts, EditorPicksFile{}); len(picks) != 2 || picks[0].Slug != "a" {
		t.Fatalf("expected newest posts fallback, got %#v", picks)
	}

	posts[1].EditorPick = true
	posts[1].EditorPickOrder = &order
	if picks := ResolveEditorPicks(posts, EditorPicksFile{Picks: []EditorPickRef{{Slug: "a"}}}); len(picks) != 1 || picks[0].Slug != "b" {
		t.Fatalf("expected flagged picks to win, got %#v", picks)
	}
}

func TestSocialLinks(t *testing.T) {
	links := Socials{Facebook: "https://fb.com/x", X: " "}.Links()
	if len(links) != 1 || links[0].Network != "facebook" {
		t.Fatalf("unexpected links %#v", links)
	}
}
