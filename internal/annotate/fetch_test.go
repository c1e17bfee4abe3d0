package annotate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func servePage(t *testing.T, status int, html string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, html)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestFetcher_PrefersArticleAndDropsScripts(t *testing.T) {
	url := servePage(t, http.StatusOK, `<html><head><style>p{}</style></head><body>
		<nav>Menu</nav>
		<article><h1>Title</h1><p>The   resilient
		team</p><script>var x = 1;</script></article>
		<footer>Copyright</footer></body></html>`)

	text, err := NewFetcher(0, 0).Text(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "Title The resilient team", text)
}

func TestFetcher_FallsBackToBody(t *testing.T) {
	url := servePage(t, http.StatusOK, `<html><body><div>Plain body text</div></body></html>`)

	text, err := NewFetcher(0, 0).Text(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "Plain body text", text)
}

func TestFetcher_Truncates(t *testing.T) {
	url := servePage(t, http.StatusOK, "<html><body><p>"+strings.Repeat("ä", 50)+"</p></body></html>")

	text, err := NewFetcher(0, 10).Text(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, 10, len([]rune(text)))
}

func TestFetcher_Errors(t *testing.T) {
	notFound := servePage(t, http.StatusNotFound, "<html></html>")
	_, err := NewFetcher(0, 0).Text(context.Background(), notFound)
	assert.Error(t, err)

	empty := servePage(t, http.StatusOK, "<html><body><script>x</script></body></html>")
	_, err = NewFetcher(0, 0).Text(context.Background(), empty)
	assert.Error(t, err)
}
