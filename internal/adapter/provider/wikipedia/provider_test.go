package wikipedia

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/provider/wikimedia"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProvider(t *testing.T, h http.HandlerFunc) (*Provider, string) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := wikimedia.NewClient(wikimedia.Options{}, nil, newTestLogger())
	return NewProviderWithURL(client, srv.URL+"/%s", newTestLogger()), srv.URL
}

const magpieHTML = `<!DOCTYPE html>
<html><body>
<div class="mw-parser-output">
<header>
  <h1>Eurasian magpie</h1>
  <p id="pcs-edit-section-title-description">Species of <span class="noexcerpt">hidden </span>bird</p>
</header>
<section data-mw-section-id="0">
  <p class="mw-empty-elt"></p>
  <table class="infobox"><tr><td>
    Kingdom: Animalia Class: Aves
  </td></tr></table>
  <p>The <b>Eurasian magpie</b> is a resident <a href="./Breeding">breeding</a> bird.<sup>[1]</sup> It is in the <a href="https://example.org/crow">crow</a> family.</p>
  <p>Second paragraph.</p>
</section>
<section data-mw-section-id="1"><p>Later section.</p></section>
</div>
</body></html>`

func TestParseArticle(t *testing.T) {
	t.Parallel()

	doc, err := html.Parse(strings.NewReader(magpieHTML))
	require.NoError(t, err)

	got := parseArticle(doc, "https://en.wikipedia.org/wiki/")

	assert.Equal(t, "Species of bird", got.MediumDescription)
	assert.Equal(t, "Kingdom: Animalia Class: Aves", got.Infobox)
	assert.Equal(t,
		`The <b>Eurasian magpie</b> is a resident <a href="https://en.wikipedia.org/wiki/Breeding">breeding</a> bird.<sup>[1]</sup> It is in the <a href="https://example.org/crow">crow</a> family.`,
		got.IntroParagraph)
	assert.Equal(t, "The Eurasian magpie is a resident breeding bird.[1] It is in the crow family.", got.IntroText)
	assert.Equal(t, "The Eurasian magpie is a resident breeding bird.", got.ShortDescription)
}

func TestParseArticle_NoIntro(t *testing.T) {
	t.Parallel()

	doc, err := html.Parse(strings.NewReader(`<html><body><p id="pcs-edit-section-title-description">Genus of plants</p></body></html>`))
	require.NoError(t, err)

	got := parseArticle(doc, "https://en.wikipedia.org/wiki/")
	assert.Equal(t, "Genus of plants", got.MediumDescription)
	assert.Empty(t, got.IntroParagraph)
	assert.Empty(t, got.Infobox)
	assert.Empty(t, got.ShortDescription)
}

func TestParseArticle_ParagraphOutsideParserOutput(t *testing.T) {
	t.Parallel()

	doc, err := html.Parse(strings.NewReader(`<html><body>
<section data-mw-section-id="0"><p>Not inside the parser output.</p></section>
</body></html>`))
	require.NoError(t, err)

	got := parseArticle(doc, "https://en.wikipedia.org/wiki/")
	assert.Empty(t, got.IntroParagraph)
}

func TestFirstSentence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"One. Two.", "One."},
		{"No terminator", "No terminator"},
		{"Ends here.", "Ends here."},
		{"  Spaced \n  out!  More", "Spaced out!"},
		{"Version 1.5 is fine. Next", "Version 1.5 is fine."},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, firstSentence(tt.in), "input %q", tt.in)
	}
}

func TestProvider_FetchArticle(t *testing.T) {
	t.Parallel()

	p, base := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fr/api/rest_v1/page/mobile-html/Pica pica", r.URL.Path)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(magpieHTML))
	})

	got, err := p.FetchArticle(context.Background(), "Pica pica", "fr")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Contains(t, got.IntroParagraph, `href="`+base+`/fr/wiki/Breeding"`)
	assert.Equal(t, "Species of bird", got.MediumDescription)
}

func TestProvider_FetchArticle_NotFound(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	got, err := p.FetchArticle(context.Background(), "Nonexistus", "en")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProvider_FetchArticle_ServerError(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	got, err := p.FetchArticle(context.Background(), "Pica pica", "en")
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestProvider_LookupEntityID(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/en/w/api.php", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "pageprops", q.Get("prop"))
		assert.Equal(t, "wikibase_item", q.Get("ppprop"))
		assert.Equal(t, "1", q.Get("redirects"))
		assert.Equal(t, "Canis familiaris", q.Get("titles"))
		w.Write([]byte(`{"query": {"pages": [
			{"pageid": 4269567, "title": "Dog", "pageprops": {"wikibase_item": "Q144"}}
		]}}`))
	})

	id, err := p.LookupEntityID(context.Background(), "Canis familiaris", "en")
	require.NoError(t, err)
	assert.Equal(t, "Q144", id)
}

func TestProvider_LookupEntityID_Missing(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"pages": [{"title": "Nonexistus", "missing": true}]}}`))
	})

	id, err := p.LookupEntityID(context.Background(), "Nonexistus", "en")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestProvider_LookupEntityID_NoPageProps(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"pages": [{"pageid": 12, "title": "Stub"}]}}`))
	})

	id, err := p.LookupEntityID(context.Background(), "Stub", "en")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestProvider_LookupEntityID_TransportError(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := p.LookupEntityID(context.Background(), "Pica pica", "en")
	assert.Error(t, err)
}
