package preview

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-newsroom/internal/metrics"
)

func testSite() fstest.MapFS {
	return fstest.MapFS{
		"index.html":                 {Data: []byte("<h1>home</h1>")},
		"news/port-blast/index.html": {Data: []byte("<h1>article</h1>")},
		"404.html":                   {Data: []byte("<h1>missing</h1>")},
		"assets/css/site.css":        {Data: []byte("body{}")},
		"search-index.json":          {Data: []byte(`{"items":[]}`)},
	}
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServerServesCleanURLs(t *testing.T) {
	srv, err := New(Config{}, Dependencies{Site: testSite()})
	require.NoError(t, err)

	cases := map[string]string{
		"/":                    "<h1>home</h1>",
		"/news/port-blast":     "<h1>article</h1>",
		"/news/port-blast/":    "<h1>article</h1>",
		"/assets/css/site.css": "body{}",
	}
	for target, body := range cases {
		rec := get(t, srv.Handler(), target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, body, rec.Body.String(), target)
	}

	rec := get(t, srv.Handler(), "/search-index.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestServerServesArabicSlugs(t *testing.T) {
	site := testSite()
	site["tag/بيروت/index.html"] = &fstest.MapFile{Data: []byte("<h1>بيروت</h1>")}
	srv, err := New(Config{}, Dependencies{Site: site})
	require.NoError(t, err)

	rec := get(t, srv.Handler(), "/tag/%D8%A8%D9%8A%D8%B1%D9%88%D8%AA")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>بيروت</h1>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/news/port-blast", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestServerFallsBackToNotFoundPage(t *testing.T) {
	srv, err := New(Config{}, Dependencies{Site: testSite()})
	require.NoError(t, err)

	rec := get(t, srv.Handler(), "/news/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "<h1>missing</h1>", rec.Body.String())

	rec = get(t, srv.Handler(), "/../../etc/passwd")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerWithoutNotFoundPage(t *testing.T) {
	srv, err := New(Config{}, Dependencies{Site: fstest.MapFS{}})
	require.NoError(t, err)

	rec := get(t, srv.Handler(), "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerExposesMetrics(t *testing.T) {
	recorder := metrics.NewPrometheus(prometheus.NewRegistry())
	recorder.IncBuildOutcome(metrics.OutcomeSuccess)

	srv, err := New(Config{}, Dependencies{Site: testSite(), Metrics: recorder.Handler()})
	require.NoError(t, err)

	rec := get(t, srv.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `newsroom_build_outcomes_total{outcome="success"} 1`)

	rec = get(t, srv.Handler(), "/healthz")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNewRequiresSite(t *testing.T) {
	_, err := New(Config{}, Dependencies{})
	assert.Error(t, err)
}

func TestAddress(t *testing.T) {
	srv, err := New(Config{Host: "127.0.0.1", Port: 1313}, Dependencies{Site: testSite()})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1313", srv.Address())
	assert.Nil(t, srv.Rebuilder())
}
