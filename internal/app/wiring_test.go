package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wikinaturalist-backend/internal/config"
	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
	"github.com/heartmarshall/wikinaturalist-backend/internal/service/classify"
	"github.com/heartmarshall/wikinaturalist-backend/internal/transport/middleware"
	"github.com/heartmarshall/wikinaturalist-backend/internal/transport/rest"
)

// fakeWikimedia serves one known taxon ("Pica pica" -> Q25382 -> Q5113) and
// 404s every article.
func fakeWikimedia(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/en/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("titles") == "Pica pica" {
			fmt.Fprint(w, `{"query":{"pages":[{"pageid":1,"title":"Pica pica","pageprops":{"wikibase_item":"Q25382"}}]}}`)
			return
		}
		fmt.Fprint(w, `{"query":{"pages":[{"title":"x","missing":true}]}}`)
	})
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") == "Q25382" {
			fmt.Fprint(w, `{"entities":{"Q25382":{"id":"Q25382","claims":{"P171":[{"mainsnak":{"datavalue":{"type":"wikibase-entityid","value":{"id":"Q5113"}}}}]}}}}`)
			return
		}
		fmt.Fprint(w, `{"entities":{}}`)
	})
	mux.HandleFunc("/", http.NotFound)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	srv := fakeWikimedia(t)
	logger := slog.New(slog.DiscardHandler)

	stack := NewStack(
		config.WikimediaConfig{
			WikidataURL:       srv.URL + "/w/api.php",
			WikipediaURL:      srv.URL + "/%s",
			MetaWikiURL:       srv.URL + "/meta/api.php",
			UserAgent:         "wiring-test",
			RequestTimeout:    5 * time.Second,
			RequestsPerSecond: 1000,
			Burst:             100,
		},
		config.ClassifierConfig{
			TextFallback: true,
			MaxNodes:     50,
			Concurrency:  4,
			MaxBatch:     10,
			CacheSize:    100,
			CacheTTL:     time.Minute,
		},
		config.CollectionsConfig{},
		nil,
		logger,
	)

	langs := rest.NewLanguages([]string{"en", "fr"})
	router := rest.NewRouter(rest.Handlers{
		Groups:   rest.NewGroupsHandler(stack.Registry),
		Classify: rest.NewClassifyHandler(stack.Classify, langs, logger),
	})
	return middleware.Chain(middleware.RequestID, middleware.Recovery(logger))(router)
}

func TestWiring_ClassifyThroughGraph(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classify?name=Pica+pica", nil)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var got classify.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Pica pica", got.Name)
	assert.Equal(t, domain.GroupBird, got.GroupID)
	assert.Equal(t, domain.SourceGraph, got.Source)
}

func TestWiring_BatchPreservesOrder(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	body := strings.NewReader(`{"names":["Nothing here","Pica pica"],"lang":"en"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify/batch", body)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Lang    string            `json:"lang"`
		Results []classify.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Results, 2)
	assert.Equal(t, "en", got.Lang)
	assert.Equal(t, domain.GroupUnknown, got.Results[0].GroupID)
	assert.Equal(t, domain.GroupBird, got.Results[1].GroupID)
}

func TestWiring_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classify?name=Pica+pica&lang=xx", nil)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWiring_Groups(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups", nil)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"bird"`)
}
