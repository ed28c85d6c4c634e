package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/sitesnap"
	snaphttp "github.com/fwojciec/sitesnap/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve_FromRobotsTxt(t *testing.T) {
	t.Parallel()

	robotsTxt := `User-agent: *
Disallow: /private/
Sitemap: {{BASE}}/sitemap.xml
sitemap: {{BASE}}/sitemap-news.xml
`

	srv := newTestServer(t, map[string]string{
		"/robots.txt": robotsTxt,
	})
	defer srv.Close()

	r := snaphttp.NewResolver(srv.Client())
	refs, err := r.Resolve(context.Background(), srv.URL)

	require.NoError(t, err)
	// Directives are collected in document order, case-insensitively.
	assert.Equal(t, []string{srv.URL + "/sitemap.xml", srv.URL + "/sitemap-news.xml"}, refs)
}

func TestResolver_Resolve_FallbackToSitemapXML(t *testing.T) {
	t.Parallel()

	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/page1</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	r := snaphttp.NewResolver(srv.Client())
	refs, err := r.Resolve(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/sitemap.xml"}, refs)
}

func TestResolver_Resolve_RobotsWithoutDirectivesFallsBack(t *testing.T) {
	t.Parallel()

	robotsTxt := `User-agent: *
Disallow: /admin/
`

	srv := newTestServer(t, map[string]string{
		"/robots.txt":  robotsTxt,
		"/sitemap.xml": `<urlset></urlset>`,
	})
	defer srv.Close()

	r := snaphttp.NewResolver(srv.Client())
	refs, err := r.Resolve(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/sitemap.xml"}, refs)
}

func TestResolver_Resolve_NothingDiscoverable(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{})
	defer srv.Close()

	r := snaphttp.NewResolver(srv.Client())
	refs, err := r.Resolve(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}

func TestResolver_Resolve_TransportFailureYieldsEmpty(t *testing.T) {
	t.Parallel()

	// A closed server simulates an unreachable host for both robots.txt
	// and the /sitemap.xml probe.
	srv := newTestServer(t, map[string]string{})
	base := srv.URL
	srv.Close()

	r := snaphttp.NewResolver(nil)
	refs, err := r.Resolve(context.Background(), base)

	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestResolver_Resolve_InvalidSiteURL(t *testing.T) {
	t.Parallel()

	r := snaphttp.NewResolver(nil)
	_, err := r.Resolve(context.Background(), "not-a-url")

	require.Error(t, err)
	assert.Equal(t, sitesnap.EINVALID, sitesnap.ErrorCode(err))
}

func TestResolver_Resolve_SiteURLWithPathUsesOrigin(t *testing.T) {
	t.Parallel()

	robotsTxt := `Sitemap: {{BASE}}/sitemap.xml`

	srv := newTestServer(t, map[string]string{
		"/robots.txt": robotsTxt,
	})
	defer srv.Close()

	r := snaphttp.NewResolver(srv.Client())
	refs, err := r.Resolve(context.Background(), srv.URL+"/blog/post")

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/sitemap.xml"}, refs)
}

func TestResolver_Resolve_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/robots.txt": `Sitemap: {{BASE}}/sitemap.xml`,
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	r := snaphttp.NewResolver(srv.Client())
	_, err := r.Resolve(ctx, srv.URL)

	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

// newTestServer serves the given path→body map, substituting {{BASE}} in
// bodies with the server's own URL.
func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		body = strings.ReplaceAll(body, "{{BASE}}", srv.URL)

		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))

	return srv
}
