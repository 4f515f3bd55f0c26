package pagedata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-newsroom/internal/content"
	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/internal/routes"
	"github.com/goliatone/go-newsroom/internal/sitedata"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// ErrNotFound reports a route whose slug matches no content.
var ErrNotFound = errors.New("pagedata: page not found")

const (
	sidebarLimit       = 6
	heroLimit          = 6
	editorialLimit     = 10
	homeLatestLimit    = 5
	articleLatestLimit = 6
	articleBreaking    = 8
	relatedLimit       = 6
	archiveLimit       = 24
	tickerLimit        = 8
)

var staticTitles = map[string]string{
	"about":              "من نحن",
	"contact":            "تواصل معنا",
	"privacy":            "سياسة الخصوصية",
	"terms":              "الشروط والأحكام",
	routes.NotFoundPage: "الصفحة غير موجودة",
}

// Option customises a Builder.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSearchIndex sets the site-relative URL of the search index.
func WithSearchIndex(href string) Option {
	return func(b *Builder) {
		if href = strings.TrimSpace(href); href != "" {
			b.searchIndex = "/" + strings.TrimPrefix(href, "/")
		}
	}
}

// Builder turns routes into page data for one loaded site.
type Builder struct {
	site        *Site
	data        *sitedata.Data
	router      *routes.Router
	logger      interfaces.Logger
	searchIndex string

	authors map[string]sitedata.TaxonomyItem
	tags    map[string]sitedata.TaxonomyItem
	sidebar Sidebar
	layout  Layout
}

// NewBuilder prepares the shared sidebar and layout for site.
func NewBuilder(site *Site, router *routes.Router, opts ...Option) *Builder {
	data := site.Data
	if data == nil {
		data = &sitedata.Data{}
	}
	b := &Builder{
		site:        site,
		data:        data,
		router:      router,
		logger:      logging.NoOp(),
		searchIndex: "/search-index.json",
		authors:     sitedata.TaxonomyMap(data.Authors),
		tags:        sitedata.TaxonomyMap(data.Tags),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	categories := data.Categories
	if len(categories) == 0 {
		categories = site.Posts.UsedCategories()
	}
	b.sidebar = Sidebar{
		Breaking:   site.Posts.Breaking(sidebarLimit),
		MostRead:   site.Posts.MostRead(sidebarLimit),
		Pins:       site.Pins.Limit(sidebarLimit),
		Backstage:  site.Backstage.Limit(sidebarLimit),
		Categories: categories,
		Contact:    data.Contact,
	}
	b.layout = Layout{
		Site:        site.Info,
		Description: site.Info.Description,
		Image:       site.Info.DefaultImage,
		Menus:       sitedata.NormalizeMenus(data.Menus),
		Head:        sitedata.NormalizeHead(data.Head),
		Contact:     data.Contact,
		Ads:         data.Ads,
		Breaking:    site.Posts.Breaking(tickerLimit),
	}
	return b
}

// Sidebar returns the sidebar shared by listing pages.
func (b *Builder) Sidebar() Sidebar {
	return b.sidebar
}

// Page builds the page data of route.
func (b *Builder) Page(route routes.Route) (Page, error) {
	var (
		page Page
		err  error
	)
	switch route.Name {
	case routes.Home:
		page = b.home()
	case routes.Article:
		page, err = b.article(route.Key)
	case routes.Pin:
		page, err = b.pin(route.Key)
	case routes.Category:
		page, err = b.category(route.Key)
	case routes.Tag:
		page, err = b.tag(route.Key)
	case routes.Author:
		page, err = b.author(route.Key)
	case routes.Latest:
		page = b.archive("آخر الأخبار", "أرشيف", b.site.Posts.Limit(archiveLimit))
		page.Layout.Description = "آخر الأخبار العاجلة والمحدثة من لبنان والعالم مع تغطية لحظية على BeiruTalk."
	case routes.NewsIndex:
		page = b.archive("كل الأخبار", "الأرشيف", b.site.Posts.Limit(0))
		page.Layout.Description = "آخر الأخبار والتقارير المحلية من بيروت ولبنان مع تحديثات مستمرة."
	case routes.Videos:
		page = b.archive("BeiruTalk TV", "فيديو", b.site.Posts.TV())
		page.Layout.Description = "حلقات BeiruTalk TV وروابط الفيديوهات الرسمية."
	case routes.Search:
		page = b.newPage(TemplateSearch, "البحث في الأخبار")
		page.Data = SearchPage{IndexURL: b.searchIndex}
	case routes.Static:
		page, err = b.static(route.Key)
	default:
		return Page{}, fmt.Errorf("%w: %s", routes.ErrUnknownRoute, route.Name)
	}
	if err != nil {
		b.logger.Debug("pagedata.page.not_found", "route", route.ID())
		return Page{}, err
	}

	page.Route = route
	if route.Href != "" {
		page.Layout.Canonical = b.router.Absolute(route.Href)
	}
	return page, nil
}

func (b *Builder) newPage(template, title string) Page {
	layout := b.layout
	layout.Title = title
	return Page{Template: template, Layout: layout, Sidebar: b.sidebar}
}

func (b *Builder) home() Page {
	posts := b.site.Posts
	page := b.newPage(TemplateHome, "الرئيسية")

	var sections []HomeSection
	for _, block := range b.data.Homepage.Blocks {
		if !knownBlock(block.Type) {
			continue
		}
		sections = append(sections, HomeSection{
			Type:  block.Type,
			Title: block.Title,
			Href:  block.Link(),
			Posts: blockPosts(posts, block),
		})
	}

	page.Data = HomePage{
		Hero:        posts.Hero(heroLimit),
		Editorial:   posts.Editorial(editorialLimit),
		Latest:      posts.Limit(homeLatestLimit),
		Sections:    sections,
		EditorPicks: sitedata.ResolveEditorPicks(posts, b.data.EditorPicks),
	}
	return page
}

func knownBlock(kind string) bool {
	switch kind {
	case sitedata.BlockCategorySpotlight, sitedata.BlockThreeCards, sitedata.BlockHorizontal,
		sitedata.BlockTextList, sitedata.BlockVideoStrip:
		return true
	}
	return false
}

func blockPosts(posts content.Posts, block sitedata.HomeBlock) content.Posts {
	limit := block.EffectiveLimit()
	if limit == 0 {
		return content.Posts{}
	}
	if block.Type == sitedata.BlockVideoStrip {
		return posts.TV().Limit(limit)
	}
	slug := strings.TrimSpace(block.Slug)
	if slug == "" {
		return content.Posts{}
	}
	return posts.ByCategory(slug, limit)
}

func (b *Builder) article(slug string) (Page, error) {
	posts := b.site.Posts
	post, ok := posts.BySlug(slug)
	if !ok {
		return Page{}, fmt.Errorf("%w: article %q", ErrNotFound, slug)
	}

	page := b.postPage(TemplateArticle, post)
	data := ArticlePage{
		Post:        post,
		Latest:      posts.Limit(articleLatestLimit).Filter(func(p content.Post) bool { return p.Slug != post.Slug }),
		Breaking:    posts.Breaking(articleBreaking),
		Related:     posts.Related(post, relatedLimit),
		ReadMinutes: post.ReadMinutes,
		ShareURL:    page.Layout.Canonical,
	}
	if author := strings.TrimSpace(post.Author); author != "" {
		label := author
		if item, ok := b.authors[author]; ok {
			label = item.Label()
		}
		data.Author = Link{Label: label, Href: b.router.MustHref(routes.Author, map[string]string{"slug": strings.ToLower(author)})}
	}
	for _, tag := range post.Tags {
		label := tag
		if item, ok := b.tags[tag]; ok {
			label = item.Label()
		}
		data.Tags = append(data.Tags, Link{Label: label, Href: b.router.MustHref(routes.Tag, map[string]string{"tag": strings.ToLower(tag)})})
	}
	if post.IsTV() {
		data.Embed = content.YouTubeEmbed(post.YouTube)
	}
	page.Layout.Breaking = data.Breaking
	page.Data = data
	return page, nil
}

func (b *Builder) pin(slug string) (Page, error) {
	pins := b.site.Pins
	post, ok := pins.BySlugFold(slug)
	if !ok {
		return Page{}, fmt.Errorf("%w: pin %q", ErrNotFound, slug)
	}

	page := b.postPage(TemplatePin, post)
	page.Data = PinPage{
		Post:        post,
		Latest:      pins.Filter(func(p content.Post) bool { return p.Slug != post.Slug }).Limit(sidebarLimit),
		MostRead:    pins.Limit(sidebarLimit),
		ReadMinutes: post.ReadMinutes,
		ShareURL:    page.Layout.Canonical,
	}
	return page, nil
}

func (b *Builder) postPage(template string, post content.Post) Page {
	page := b.newPage(template, post.Title)
	if post.Description != "" {
		page.Layout.Description = post.Description
	}
	page.Layout.Image = content.ResolveImage(post, b.site.Info.DefaultImage)
	page.Layout.Canonical = b.router.Absolute(b.router.PostHref(post))
	return page
}

func (b *Builder) category(slug string) (Page, error) {
	posts := b.site.Posts.ByCategory(slug, archiveLimit)
	if len(posts) == 0 && !knownCategory(b.data.Categories, slug) {
		return Page{}, fmt.Errorf("%w: category %q", ErrNotFound, slug)
	}
	categories := b.data.Categories
	if len(categories) == 0 {
		categories = b.site.Posts.UsedCategories()
	}
	return b.archive(sitedata.CategoryTitle(categories, slug), "أرشيف القسم", posts), nil
}

func knownCategory(categories []content.Category, slug string) bool {
	for _, category := range categories {
		if category.Slug == slug {
			return true
		}
	}
	return false
}

func (b *Builder) tag(key string) (Page, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	posts := b.site.Posts.ByTag(key)
	item, known := sitedata.FindTaxonomy(b.data.Tags, key)
	if !known && len(posts) == 0 {
		return Page{}, fmt.Errorf("%w: tag %q", ErrNotFound, key)
	}
	title := key
	if known {
		title = item.Label()
	}
	return b.archive(title, "أرشيف الوسم", posts), nil
}

func (b *Builder) author(key string) (Page, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	posts := b.site.Posts.ByAuthor(key)
	item, known := sitedata.FindTaxonomy(b.data.Authors, key)
	if !known && len(posts) == 0 {
		return Page{}, fmt.Errorf("%w: author %q", ErrNotFound, key)
	}
	title := key
	if known {
		title = item.Label()
	} else if len(posts) > 0 {
		title = posts[0].Author
	}
	return b.archive(title, "أرشيف الكاتب", posts), nil
}

func (b *Builder) archive(title, kicker string, posts content.Posts) Page {
	page := b.newPage(TemplateArchive, title)
	page.Data = ArchivePage{Kicker: kicker, Title: title, Posts: posts}
	return page
}

func (b *Builder) static(name string) (Page, error) {
	title, ok := staticTitles[name]
	if !ok {
		return Page{}, fmt.Errorf("%w: page %q", ErrNotFound, name)
	}
	page := b.newPage(TemplateStatic, title)
	page.Data = StaticPage{
		Name:    name,
		Title:   title,
		Contact: b.data.Contact,
		Socials: b.data.Contact.Socials.Links(),
	}
	return page, nil
}
