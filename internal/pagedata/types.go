package pagedata

import (
	"github.com/goliatone/go-newsroom/internal/content"
	"github.com/goliatone/go-newsroom/internal/routes"
	"github.com/goliatone/go-newsroom/internal/search"
	"github.com/goliatone/go-newsroom/internal/sitedata"
)

// Template names.
const (
	TemplateHome    = "home"
	TemplateArticle = "article"
	TemplatePin     = "pin"
	TemplateArchive = "archive"
	TemplateSearch  = "search"
	TemplateStatic  = "static"
)

// Page is everything a template needs to render one route.
type Page struct {
	Template string
	Route    routes.Route
	Layout   Layout
	Sidebar  Sidebar
	Data     any
}

// Layout carries the shared chrome of every page.
type Layout struct {
	Site        SiteInfo
	Title       string
	Description string
	Canonical   string
	Image       string
	Menus       sitedata.MenusConfig
	Head        sitedata.HeadConfig
	Contact     sitedata.SiteContact
	Ads         sitedata.AdsConfig
	// Breaking feeds the ticker in the header.
	Breaking content.Posts
}

type Sidebar struct {
	Breaking   content.Posts
	MostRead   content.Posts
	Pins       content.Posts
	Backstage  content.Posts
	Categories []content.Category
	Contact    sitedata.SiteContact
}

type HomePage struct {
	Hero        content.Posts
	Editorial   content.Posts
	Latest      content.Posts
	Sections    []HomeSection
	EditorPicks []sitedata.EditorPick
}

// HomeSection is a homepage block resolved to its posts.
type HomeSection struct {
	Type  string
	Title string
	Href  string
	Posts content.Posts
}

type ArticlePage struct {
	Post        content.Post
	Latest      content.Posts
	Breaking    content.Posts
	Related     content.Posts
	Author      Link
	Tags        []Link
	ReadMinutes int
	Embed       string
	ShareURL    string
}

// Link is a labelled site-relative link.
type Link struct {
	Label string
	Href  string
}

type PinPage struct {
	Post        content.Post
	Latest      content.Posts
	MostRead    content.Posts
	ReadMinutes int
	ShareURL    string
}

// ArchivePage lists posts of a category, tag, author or listing route.
type ArchivePage struct {
	Kicker string
	Title  string
	Posts  content.Posts
}

// SearchPage holds no results at build time; the browser queries IndexURL.
type SearchPage struct {
	IndexURL string
	Query    string
	Results  []search.Result
}

type StaticPage struct {
	Name    string
	Title   string
	Contact sitedata.SiteContact
	Socials []sitedata.SocialLink
}
