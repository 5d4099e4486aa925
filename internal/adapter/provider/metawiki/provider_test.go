package metawiki

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/provider/wikimedia"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProvider(t *testing.T, suffix string, h http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := wikimedia.NewClient(wikimedia.Options{}, nil, newTestLogger())
	return NewProviderWithURL(client, srv.URL, suffix, newTestLogger())
}

func TestProvider_FetchListPage(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, "", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "parse", q.Get("action"))
		assert.Equal(t, "User:Alice/WikiNaturalist", q.Get("page"))
		assert.Equal(t, "wikitext", q.Get("prop"))
		w.Write([]byte(`{"parse": {"title": "User:Alice/WikiNaturalist", "wikitext": {"*": "== Garden ==\n* Pica pica"}}}`))
	})

	page, err := p.FetchListPage(context.Background(), "Alice")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "User:Alice/WikiNaturalist", page.Title)
	assert.Equal(t, "== Garden ==\n* Pica pica", page.Wikitext)
}

func TestProvider_FetchListPage_CustomSuffix(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, "Lists", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "User:Bob/Lists", r.URL.Query().Get("page"))
		w.Write([]byte(`{"parse": {"title": "User:Bob/Lists", "wikitext": {"*": ""}}}`))
	})

	page, err := p.FetchListPage(context.Background(), "Bob")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Empty(t, page.Wikitext)
}

func TestProvider_FetchListPage_MissingTitle(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"code": "missingtitle", "info": "The page you specified doesn't exist."}}`))
	})

	page, err := p.FetchListPage(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestProvider_FetchListPage_ServerError(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	page, err := p.FetchListPage(context.Background(), "Alice")
	assert.Error(t, err)
	assert.Nil(t, page)
}
