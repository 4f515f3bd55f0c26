package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/goliatone/go-newsroom/internal/content"
	"github.com/goliatone/go-newsroom/internal/metrics"
	"github.com/goliatone/go-newsroom/internal/pagedata"
	"github.com/goliatone/go-newsroom/internal/routes"
	"github.com/goliatone/go-newsroom/internal/search"
	"github.com/goliatone/go-newsroom/internal/sitedata"
	"github.com/goliatone/go-newsroom/internal/storage"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// fixtureRouteCount is five fixed pages, five static pages, two articles,
// one pin, two categories, one tag and one author.
const fixtureRouteCount = 17

func TestBuildWritesEveryArtifact(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	store := &recordingStorage{}
	renderer := &recordingRenderer{}

	svc := fixtures.service(Dependencies{Renderer: renderer, Storage: store})
	result, err := svc.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if result.PagesBuilt != fixtureRouteCount {
		t.Fatalf("expected %d pages built, got %d", fixtureRouteCount, result.PagesBuilt)
	}
	if len(result.Rendered) != fixtureRouteCount || len(result.Pages) != fixtureRouteCount {
		t.Fatalf("expected %d rendered pages, got %d/%d", fixtureRouteCount, len(result.Rendered), len(result.Pages))
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if result.AssetsBuilt != 2 {
		t.Fatalf("expected theme and public assets copied, got %d", result.AssetsBuilt)
	}
	renderer.assertCalls(t, fixtureRouteCount)

	for _, name := range []string{
		"dist/index.html",
		"dist/news/index.html",
		"dist/news/port-blast/index.html",
		"dist/news/tv-report/index.html",
		"dist/pin/pin-one/index.html",
		"dist/category/lebanon/index.html",
		"dist/tag/beirut/index.html",
		"dist/author/rami/index.html",
		"dist/latest/index.html",
		"dist/videos/index.html",
		"dist/search/index.html",
		"dist/about/index.html",
		"dist/404/index.html",
		"dist/404.html",
		"dist/sitemap.xml",
		"dist/robots.txt",
		"dist/feed.xml",
		"dist/search-index.json",
		"dist/assets/css/site.css",
		"dist/favicon.ico",
		"dist/.generator-manifest.json",
	} {
		if _, ok := store.File(name); !ok {
			t.Fatalf("expected %s to be written, have %v", name, store.Names())
		}
	}

	article, _ := store.File("dist/news/port-blast/index.html")
	if string(article) != `<html data-route="article:port-blast" data-template="article"></html>` {
		t.Fatalf("unexpected article output %q", article)
	}
	notFound, _ := store.File("dist/404.html")
	if !strings.Contains(string(notFound), `data-route="static:404"`) {
		t.Fatalf("expected 404.html to hold the not-found page, got %q", notFound)
	}

	for _, page := range result.Rendered {
		if page.Output == "" || page.Checksum == "" {
			t.Fatalf("expected output and checksum for %s", page.RouteID)
		}
	}
}

func TestBuildWritesSitemapAndRobots(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	store := &recordingStorage{}

	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: store})
	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	sitemap, _ := store.File("dist/sitemap.xml")
	body := string(sitemap)
	if got := strings.Count(body, "<url>"); got != fixtureRouteCount-1 {
		t.Fatalf("expected %d sitemap entries, got %d", fixtureRouteCount-1, got)
	}
	if !strings.Contains(body, "<loc>https://beirutalk.test/news/port-blast</loc>") {
		t.Fatalf("expected article location in sitemap:\n%s", body)
	}
	if !strings.Contains(body, "<lastmod>2024-08-04T15:07:00Z</lastmod>") {
		t.Fatalf("expected article date as lastmod:\n%s", body)
	}
	if strings.Contains(body, "/404") {
		t.Fatalf("not-found page must not be listed:\n%s", body)
	}

	robots, _ := store.File("dist/robots.txt")
	if !strings.Contains(string(robots), "Sitemap: https://beirutalk.test/sitemap.xml") {
		t.Fatalf("unexpected robots.txt %q", robots)
	}
}

func TestBuildFeedIsValidRSS(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	store := &recordingStorage{}

	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: store})
	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	raw, ok := store.File("dist/feed.xml")
	if !ok {
		t.Fatalf("feed.xml not written")
	}
	feed, err := gofeed.NewParser().ParseString(string(raw))
	if err != nil {
		t.Fatalf("parse feed: %v", err)
	}
	if feed.FeedType != "rss" || feed.Title != "BeiruTalk" || feed.Language != "ar" {
		t.Fatalf("unexpected channel %s %q %q", feed.FeedType, feed.Title, feed.Language)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected news posts only, got %d items", len(feed.Items))
	}

	first := feed.Items[0]
	if first.GUID != fixtures.site.Posts[0].ID.String() {
		t.Fatalf("expected post id as guid, got %q", first.GUID)
	}
	if first.Link != "https://beirutalk.test/news/port-blast" {
		t.Fatalf("unexpected link %q", first.Link)
	}
	if first.Title != "انفجار المرفأ" || first.Description != "ملخص الخبر" {
		t.Fatalf("unexpected item %q %q", first.Title, first.Description)
	}
	if first.PublishedParsed == nil || !first.PublishedParsed.Equal(fixtures.site.Posts[0].Date) {
		t.Fatalf("unexpected pubDate %v", first.PublishedParsed)
	}
	if len(first.Categories) != 1 || first.Categories[0] != "لبنان" {
		t.Fatalf("unexpected categories %v", first.Categories)
	}
}

func TestFeedKeepsNewestHundredPosts(t *testing.T) {
	fixtures := newBuildFixtures(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := make(content.Posts, 0, 120)
	for i := range 120 {
		posts = append(posts, content.Post{
			ID:         uuid.New(),
			Collection: content.CollectionPosts,
			Slug:       fmt.Sprintf("post-%03d", i),
			Title:      fmt.Sprintf("Post %d", i),
			Date:       base.Add(time.Duration(i) * time.Hour),
		})
	}
	fixtures.site.Posts = posts

	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}}).(*service)
	doc := svc.buildFeedDocument(&BuildContext{Site: fixtures.site})
	if len(doc.Items) != maxFeedItems {
		t.Fatalf("expected %d items, got %d", maxFeedItems, len(doc.Items))
	}
	if doc.Items[0].Title != "Post 119" || doc.Items[maxFeedItems-1].Title != "Post 20" {
		t.Fatalf("unexpected window %q .. %q", doc.Items[0].Title, doc.Items[maxFeedItems-1].Title)
	}
}

func TestFeedSummaryFallsBackToBodyText(t *testing.T) {
	long := strings.Repeat("كلمة ", 100)
	summary := feedSummary(content.Post{PlainText: long})
	if !strings.HasSuffix(summary, "…") {
		t.Fatalf("expected truncated summary, got %q", summary)
	}
	if strings.Contains(summary, "  ") || strings.HasSuffix(strings.TrimSuffix(summary, "…"), " ") {
		t.Fatalf("expected whitespace to be normalised, got %q", summary)
	}
	if got := feedSummary(content.Post{Description: "  a\n b  ", PlainText: long}); got != "a b" {
		t.Fatalf("expected description, got %q", got)
	}
}

func TestBuildWritesSearchIndex(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	store := &recordingStorage{}

	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: store})
	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	raw, _ := store.File("dist/search-index.json")
	var index search.Index
	if err := json.Unmarshal(raw, &index); err != nil {
		t.Fatalf("decode index: %v", err)
	}
	if len(index.Items) != 2 {
		t.Fatalf("expected two searchable posts, got %d", len(index.Items))
	}
	if index.Items[0].Href != "/news/port-blast" || index.Items[0].ID != fixtures.site.Posts[0].ID.String() {
		t.Fatalf("unexpected first item %#v", index.Items[0])
	}
	if results := search.Search(index.Items, "المرفا", 10); len(results) != 1 {
		t.Fatalf("expected index text to be searchable, got %d results", len(results))
	}
}

func TestBuildDryRunSkipsWrites(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	fixtures.config.CleanBuild = true
	store := &recordingStorage{}

	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: store})
	result, err := svc.Build(ctx, BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !result.DryRun || len(result.Rendered) != fixtureRouteCount {
		t.Fatalf("expected rendered pages in dry run result, got %d", len(result.Rendered))
	}
	if result.Rendered[0].HTML == "" {
		t.Fatalf("expected rendered html in dry run result")
	}
	if calls := store.ExecCalls(); len(calls) != 0 {
		t.Fatalf("expected no storage writes during dry run, got %d", len(calls))
	}
}

func TestBuildCleansOutputFirst(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	fixtures.config.CleanBuild = true
	store := &recordingStorage{}

	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: store})
	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	calls := store.ExecCalls()
	if len(calls) == 0 || calls[0].Query != storage.OpRemove || calls[0].Args[0] != "dist" {
		t.Fatalf("expected output removal before writes, got %#v", calls[:min(1, len(calls))])
	}
}

func TestIncrementalBuildSkipsUnchangedPages(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	fixtures.config.Incremental = true
	fixtures.config.CleanBuild = true
	store := &recordingStorage{}

	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: store})
	first, err := svc.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	if first.PagesBuilt != fixtureRouteCount || first.PagesSkipped != 0 {
		t.Fatalf("unexpected first build %d/%d", first.PagesBuilt, first.PagesSkipped)
	}

	manifestData, ok := store.File("dist/" + manifestFileName)
	if !ok {
		t.Fatalf("expected manifest after first build")
	}
	manifest, err := parseManifest(manifestData)
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if len(manifest.Pages) != fixtureRouteCount || len(manifest.Assets) != 2 {
		t.Fatalf("unexpected manifest %d pages %d assets", len(manifest.Pages), len(manifest.Assets))
	}

	second, err := svc.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if second.PagesBuilt != 0 || second.PagesSkipped != fixtureRouteCount {
		t.Fatalf("expected every page skipped, got built=%d skipped=%d", second.PagesBuilt, second.PagesSkipped)
	}
	if second.AssetsBuilt != 0 || second.AssetsSkipped != 2 {
		t.Fatalf("expected assets skipped, got built=%d skipped=%d", second.AssetsBuilt, second.AssetsSkipped)
	}
	for _, call := range store.ExecCalls() {
		if call.Query == storage.OpRemove {
			t.Fatalf("incremental builds must not clean the output")
		}
	}
}

func TestBuildFiltersRoutes(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	store := &recordingStorage{}
	renderer := &recordingRenderer{}

	svc := fixtures.service(Dependencies{Renderer: renderer, Storage: store})
	result, err := svc.Build(ctx, BuildOptions{Routes: []string{"home", "/news/tv-report"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 2 {
		t.Fatalf("expected two pages, got %d", result.PagesBuilt)
	}
	renderer.assertCalls(t, 2)
	if _, ok := store.File("dist/news/port-blast/index.html"); ok {
		t.Fatalf("unexpected page outside the filter")
	}
	sitemap, _ := store.File("dist/sitemap.xml")
	if got := strings.Count(string(sitemap), "<url>"); got != fixtureRouteCount-1 {
		t.Fatalf("sitemap must still list every route, got %d", got)
	}
}

func TestBuildPageWritesSingleRoute(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	store := &recordingStorage{}

	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: store})
	if err := svc.BuildPage(ctx, "/news/port-blast"); err != nil {
		t.Fatalf("build page: %v", err)
	}
	if names := store.Names(); len(names) != 1 || names[0] != "dist/news/port-blast/index.html" {
		t.Fatalf("expected a single page write, got %v", names)
	}

	if err := svc.BuildPage(ctx, "pin:pin-one"); err != nil {
		t.Fatalf("build page by id: %v", err)
	}
	if _, ok := store.File("dist/pin/pin-one/index.html"); !ok {
		t.Fatalf("expected pin page")
	}

	if err := svc.BuildPage(ctx, "article:missing"); !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestCleanRemovesOutputDirectory(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	store := &recordingStorage{}

	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: store})
	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := svc.Clean(ctx); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if names := store.Names(); len(names) != 0 {
		t.Fatalf("expected empty output after clean, got %v", names)
	}
}

func TestCleanRefusesStorageRoot(t *testing.T) {
	for _, dir := range []string{"", ".", "/", " ./ "} {
		fixtures := newBuildFixtures(t)
		fixtures.config.OutputDir = dir
		store := &recordingStorage{}

		svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: store})
		if err := svc.Clean(context.Background()); !errors.Is(err, ErrOutputDirUnsafe) {
			t.Fatalf("output %q: expected ErrOutputDirUnsafe, got %v", dir, err)
		}
		for _, call := range store.ExecCalls() {
			if call.Query == storage.OpRemove {
				t.Fatalf("output %q: expected no remove call, got %v", dir, call.Args)
			}
		}
	}
}

func TestRoutesListsEveryRoute(t *testing.T) {
	fixtures := newBuildFixtures(t)
	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}})

	list, err := svc.Routes(context.Background())
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	if len(list) != fixtureRouteCount {
		t.Fatalf("expected %d routes, got %d", fixtureRouteCount, len(list))
	}
	ids := map[string]bool{}
	for _, route := range list {
		ids[route.ID()] = true
	}
	for _, want := range []string{"home", "article:port-blast", "pin:pin-one", "tag:beirut", "author:rami", "static:404"} {
		if !ids[want] {
			t.Fatalf("missing route %s in %v", want, ids)
		}
	}
}

func TestBuildReportsRenderFailures(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	store := &recordingStorage{}
	renderer := &failingRenderer{failOn: pagedata.TemplatePin}

	svc := fixtures.service(Dependencies{Renderer: renderer, Storage: store})
	result, err := svc.Build(ctx, BuildOptions{})
	if err == nil {
		t.Fatalf("expected build error")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Error(), "pin:pin-one") {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
	if result.PagesBuilt != fixtureRouteCount-1 {
		t.Fatalf("expected other pages to be written, got %d", result.PagesBuilt)
	}
	if _, ok := store.File("dist/" + manifestFileName); ok {
		t.Fatalf("manifest must not be persisted for a failed build")
	}
}

func TestBuildHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fixtures := newBuildFixtures(t)

	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: &recordingStorage{}})
	if _, err := svc.Build(ctx, BuildOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBuildLimitsConcurrentRenders(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)
	fixtures.config.Workers = 2
	renderer := &concurrentRenderer{delay: 5 * time.Millisecond}

	svc := fixtures.service(Dependencies{Renderer: renderer, Storage: &recordingStorage{}})
	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if peak := renderer.maxConcurrent.Load(); peak < 1 || peak > 2 {
		t.Fatalf("expected at most 2 concurrent renders, got %d", peak)
	}
	renderer.assertCalls(t, fixtureRouteCount)
}

func TestGeneratorHooksInvoked(t *testing.T) {
	ctx := context.Background()
	fixtures := newBuildFixtures(t)

	type recorder struct {
		mu          sync.Mutex
		beforeBuild int
		afterBuild  int
		afterPage   int
		beforeClean int
		afterClean  int
	}
	rec := &recorder{}
	count := func(field *int) {
		rec.mu.Lock()
		*field++
		rec.mu.Unlock()
	}
	hooks := Hooks{
		BeforeBuild: func(context.Context, BuildOptions) error { count(&rec.beforeBuild); return nil },
		AfterBuild:  func(context.Context, BuildOptions, *BuildResult) error { count(&rec.afterBuild); return nil },
		AfterPage:   func(context.Context, RenderedPage) error { count(&rec.afterPage); return nil },
		BeforeClean: func(context.Context, string) error { count(&rec.beforeClean); return nil },
		AfterClean:  func(context.Context, string) error { count(&rec.afterClean); return nil },
	}

	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: &recordingStorage{}, Hooks: hooks})
	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := svc.Clean(ctx); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if err := svc.BuildPage(ctx, "home"); err != nil {
		t.Fatalf("build page: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.beforeBuild != 1 || rec.afterBuild != 1 {
		t.Fatalf("expected build hooks once, got %d/%d", rec.beforeBuild, rec.afterBuild)
	}
	if rec.afterPage != fixtureRouteCount+1 {
		t.Fatalf("expected afterPage per written page, got %d", rec.afterPage)
	}
	if rec.beforeClean != 1 || rec.afterClean != 1 {
		t.Fatalf("expected clean hooks to run once, got %d/%d", rec.beforeClean, rec.afterClean)
	}
}

func TestBeforeBuildHookAbortsBuild(t *testing.T) {
	fixtures := newBuildFixtures(t)
	boom := errors.New("boom")
	store := &recordingStorage{}
	svc := fixtures.service(Dependencies{
		Renderer: &recordingRenderer{},
		Storage:  store,
		Hooks:    Hooks{BeforeBuild: func(context.Context, BuildOptions) error { return boom }},
	})
	if _, err := svc.Build(context.Background(), BuildOptions{}); !errors.Is(err, boom) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if len(store.ExecCalls()) != 0 {
		t.Fatalf("expected no writes after aborted build")
	}
}

func TestBuildRecordsMetrics(t *testing.T) {
	fixtures := newBuildFixtures(t)
	recorder := &recordingMetrics{}
	svc := fixtures.service(Dependencies{Renderer: &recordingRenderer{}, Storage: &recordingStorage{}, Metrics: recorder})
	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if recorder.pages[metrics.PageRendered] != fixtureRouteCount {
		t.Fatalf("expected %d rendered pages recorded, got %d", fixtureRouteCount, recorder.pages[metrics.PageRendered])
	}
	if len(recorder.outcomes) != 1 || recorder.outcomes[0] != metrics.OutcomeSuccess {
		t.Fatalf("unexpected outcomes %v", recorder.outcomes)
	}
	for _, stage := range []string{metrics.StageLoad, metrics.StageRoutes, metrics.StageRender, metrics.StageWrite, metrics.StageAssets, metrics.StageSitemap, metrics.StageFeed, metrics.StageSearch, metrics.StageManifest} {
		if _, ok := recorder.stages[stage]; !ok {
			t.Fatalf("expected stage %s to be timed, got %v", stage, recorder.stages)
		}
	}
}

func TestBuildRequiresCollaborators(t *testing.T) {
	if _, err := NewService(Config{}, Dependencies{}).Build(context.Background(), BuildOptions{}); !errors.Is(err, errRendererRequired) {
		t.Fatalf("expected renderer error, got %v", err)
	}
	svc := NewService(Config{}, Dependencies{Renderer: &recordingRenderer{}})
	if _, err := svc.Build(context.Background(), BuildOptions{}); !errors.Is(err, errLoaderRequired) {
		t.Fatalf("expected loader error, got %v", err)
	}
}

func TestDisabledServiceFailsEveryOperation(t *testing.T) {
	svc := NewDisabledService()
	ctx := context.Background()
	if _, err := svc.Build(ctx, BuildOptions{}); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("Build: %v", err)
	}
	if err := svc.BuildPage(ctx, "home"); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("BuildPage: %v", err)
	}
	if err := svc.Clean(ctx); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("Clean: %v", err)
	}
	if _, err := svc.Routes(ctx); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("Routes: %v", err)
	}
}

func TestBuildOutputPath(t *testing.T) {
	cases := map[string]string{
		"":                 "index.html",
		"/":                "index.html",
		"/news/port-blast": "news/port-blast/index.html",
		"/tag/بيروت":       "tag/بيروت/index.html",
		"/../../etc":       "etc/index.html",
		"/404":             "404/index.html",
	}
	for route, want := range cases {
		if got := buildOutputPath(route); got != want {
			t.Fatalf("buildOutputPath(%q) = %q, want %q", route, got, want)
		}
	}
}

func TestManifestRoundTripKeepsEntries(t *testing.T) {
	manifest := newBuildManifest()
	manifest.setPage(manifestPage{Route: "home", Output: "dist/index.html", Checksum: "abc"})
	manifest.setPage(manifestPage{Route: ""})
	manifest.setAsset(manifestAsset{Source: "assets/a.css", Output: "dist/assets/a.css", Checksum: "def"})

	data, err := manifest.marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := parseManifest(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.shouldSkipPage("home", "abc", "dist/index.html") {
		t.Fatalf("expected unchanged page to be skipped")
	}
	if parsed.shouldSkipPage("home", "changed", "dist/index.html") {
		t.Fatalf("expected changed page to be rebuilt")
	}
	if !parsed.shouldSkipAsset("dist/assets/a.css", "def") {
		t.Fatalf("expected unchanged asset to be skipped")
	}
	parsed.prunePages(map[string]struct{}{"other": {}})
	if len(parsed.Pages) != 0 {
		t.Fatalf("expected pruned pages, got %d", len(parsed.Pages))
	}
	if _, err := parseManifest([]byte("{broken")); err == nil {
		t.Fatalf("expected parse error")
	}
}

type buildFixtures struct {
	config Config
	router *routes.Router
	site   *pagedata.Site
	now    time.Time
}

func newBuildFixtures(tb testing.TB) *buildFixtures {
	tb.Helper()
	router, err := routes.New("https://beirutalk.test")
	if err != nil {
		tb.Fatalf("routes.New: %v", err)
	}
	now := time.Date(2024, 8, 10, 9, 0, 0, 0, time.UTC)
	site := &pagedata.Site{
		Info: pagedata.SiteInfo{Name: "BeiruTalk", BaseURL: "https://beirutalk.test", Language: "ar", Direction: "rtl", Description: "أخبار لبنان"},
		Posts: content.Posts{
			{
				ID:           uuid.New(),
				Collection:   content.CollectionPosts,
				Slug:         "port-blast",
				Title:        "انفجار المرفأ",
				Description:  "ملخص الخبر",
				Date:         time.Date(2024, 8, 4, 18, 7, 0, 0, time.FixedZone("EEST", 3*3600)),
				Category:     "لبنان",
				CategorySlug: "lebanon",
				Author:       "rami",
				Tags:         []string{"Beirut"},
			},
			{
				ID:           uuid.New(),
				Collection:   content.CollectionPosts,
				Slug:         "tv-report",
				Title:        "تقرير مصور",
				Date:         time.Date(2024, 8, 3, 12, 0, 0, 0, time.UTC),
				Category:     "العالم",
				CategorySlug: "world",
				Type:         content.TypeTV,
				YouTube:      "https://youtu.be/dQw4w9WgXcQ",
				PlainText:    "نص التقرير",
			},
		},
		Pins: content.Posts{
			{ID: uuid.New(), Collection: content.CollectionPins, Slug: "pin-one", Title: "دبوس", Date: time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)},
		},
		Data: &sitedata.Data{
			Categories: []content.Category{{Slug: "lebanon", Title: "لبنان"}, {Slug: "world", Title: "العالم"}},
		},
		LoadedAt: now,
	}
	return &buildFixtures{
		config: Config{
			OutputDir:       "dist",
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeeds:   true,
			GenerateSearch:  true,
			Workers:         4,
		},
		router: router,
		site:   site,
		now:    now,
	}
}

// service wires deps with the fixture loader, router and assets unless the
// caller supplied them.
func (f *buildFixtures) service(deps Dependencies) Service {
	if deps.Loader == nil {
		deps.Loader = staticLoader{site: f.site}
	}
	if deps.Router == nil {
		deps.Router = f.router
	}
	if deps.Assets == nil {
		deps.Assets = stubAssets{"assets/css/site.css": []byte("body{}")}
	}
	if deps.Public == nil {
		deps.Public = fstest.MapFS{
			"favicon.ico": {Data: []byte("ico")},
			".DS_Store":   {Data: []byte("junk")},
		}
	}
	svc := NewService(f.config, deps).(*service)
	svc.now = func() time.Time { return f.now }
	return svc
}

type staticLoader struct {
	site *pagedata.Site
}

func (l staticLoader) Load(ctx context.Context) (*pagedata.Site, []interfaces.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return l.site, nil, nil
}

type stubAssets map[string][]byte

func (s stubAssets) AssetFiles() ([]string, error) {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names, nil
}

func (s stubAssets) ReadAsset(name string) ([]byte, error) {
	data, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("asset %s not found", name)
	}
	return data, nil
}

type storageCall struct {
	Query string
	Args  []any
}

type recordingStorage struct {
	mu    sync.Mutex
	execs []storageCall
	files map[string][]byte
}

func (s *recordingStorage) Exec(_ context.Context, query string, args ...any) (interfaces.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if query == storage.OpWrite && len(args) >= 2 {
		if target, ok := args[0].(string); ok {
			if reader, ok := args[1].(io.Reader); ok && reader != nil {
				data, err := io.ReadAll(reader)
				if err == nil {
					if s.files == nil {
						s.files = map[string][]byte{}
					}
					s.files[target] = append([]byte(nil), data...)
				}
			}
		}
	}
	if query == storage.OpRemove && len(args) >= 1 {
		if target, ok := args[0].(string); ok {
			for path := range s.files {
				if path == target || strings.HasPrefix(path, strings.TrimRight(target, "/")+"/") {
					delete(s.files, path)
				}
			}
		}
	}
	copied := append([]any(nil), args...)
	s.execs = append(s.execs, storageCall{
		Query: query,
		Args:  copied,
	})
	return noopResult{}, nil
}

func (s *recordingStorage) Query(_ context.Context, query string, args ...any) (interfaces.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if query == storage.OpRead && len(args) > 0 {
		if target, ok := args[0].(string); ok {
			if data, ok := s.files[target]; ok {
				return &bufferedRows{
					data: [][]byte{append([]byte(nil), data...)},
				}, nil
			}
		}
	}
	return &bufferedRows{}, nil
}

func (s *recordingStorage) Transaction(ctx context.Context, fn func(interfaces.Transaction) error) error {
	return fn(&recordingTx{recordingStorage: s})
}

// ExecCalls returns the write side calls in order.
func (s *recordingStorage) ExecCalls() []storageCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storageCall(nil), s.execs...)
}

func (s *recordingStorage) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

func (s *recordingStorage) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	return names
}

type recordingTx struct {
	*recordingStorage
}

func (recordingTx) Commit() error   { return nil }
func (recordingTx) Rollback() error { return nil }

type noopResult struct{}

func (noopResult) RowsAffected() (int64, error) { return 0, nil }
func (noopResult) LastInsertId() (int64, error) { return 0, nil }

type bufferedRows struct {
	data  [][]byte
	index int
}

func (r *bufferedRows) Next() bool {
	return r.index < len(r.data)
}

func (r *bufferedRows) Scan(dest ...any) error {
	if r.index >= len(r.data) {
		return io.EOF
	}
	if len(dest) == 0 {
		return nil
	}
	target, ok := dest[0].(*[]byte)
	if !ok {
		return fmt.Errorf("unsupported scan target %T", dest[0])
	}
	*target = append((*target)[:0], r.data[r.index]...)
	r.index++
	return nil
}

func (r *bufferedRows) Close() error { return nil }

type recordingRenderer struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	page, ok := data.(pagedata.Page)
	if !ok {
		return "", fmt.Errorf("unexpected render data type %T", data)
	}
	r.mu.Lock()
	r.calls = append(r.calls, page.Route.ID())
	r.mu.Unlock()
	return fmt.Sprintf(`<html data-route="%s" data-template="%s"></html>`, page.Route.ID(), name), nil
}

func (r *recordingRenderer) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	return templateContent, nil
}

func (r *recordingRenderer) assertCalls(t *testing.T, expected int) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) != expected {
		t.Fatalf("expected %d render calls, got %d", expected, len(r.calls))
	}
}

type failingRenderer struct {
	recordingRenderer
	failOn string
}

func (r *failingRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if name == r.failOn {
		return "", errors.New("template exploded")
	}
	return r.recordingRenderer.RenderTemplate(name, data, out...)
}

type concurrentRenderer struct {
	recordingRenderer
	delay         time.Duration
	current       atomic.Int32
	maxConcurrent atomic.Int32
}

func (r *concurrentRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	cur := r.current.Add(1)
	for {
		peak := r.maxConcurrent.Load()
		if cur <= peak || r.maxConcurrent.CompareAndSwap(peak, cur) {
			break
		}
	}
	time.Sleep(r.delay)
	r.current.Add(-1)
	return r.recordingRenderer.RenderTemplate(name, data, out...)
}

type recordingMetrics struct {
	mu       sync.Mutex
	stages   map[string]time.Duration
	pages    map[metrics.PageResult]int
	outcomes []metrics.BuildOutcome
}

func (m *recordingMetrics) ObserveStageDuration(stage string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stages == nil {
		m.stages = map[string]time.Duration{}
	}
	m.stages[stage] += d
}

func (m *recordingMetrics) ObserveBuildDuration(time.Duration) {}

func (m *recordingMetrics) IncPageResult(result metrics.PageResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pages == nil {
		m.pages = map[metrics.PageResult]int{}
	}
	m.pages[result]++
}

func (m *recordingMetrics) IncBuildOutcome(outcome metrics.BuildOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}
