package app

import (
	"log/slog"

	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/cache"
	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/provider/metawiki"
	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/provider/wikidata"
	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/provider/wikimedia"
	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/provider/wikipedia"
	"github.com/heartmarshall/wikinaturalist-backend/internal/config"
	"github.com/heartmarshall/wikinaturalist-backend/internal/metrics"
	"github.com/heartmarshall/wikinaturalist-backend/internal/service/classify"
	"github.com/heartmarshall/wikinaturalist-backend/internal/service/resolver"
	"github.com/heartmarshall/wikinaturalist-backend/internal/service/textclass"
	"github.com/heartmarshall/wikinaturalist-backend/internal/taxonomy"
)

// Stack holds the storage-independent components: Wikimedia adapters and the
// classifiers built on them.
type Stack struct {
	Registry  *taxonomy.Registry
	Client    *wikimedia.Client
	Wikidata  *wikidata.Provider
	Wikipedia *wikipedia.Provider
	MetaWiki  *metawiki.Provider
	Claims    cache.ClaimsFetcher
	Resolver  *resolver.Service
	Text      *textclass.Service
	Classify  *classify.Service
}

// NewStack wires the adapters and classifiers from configuration. m may be nil.
func NewStack(
	wm config.WikimediaConfig,
	cl config.ClassifierConfig,
	coll config.CollectionsConfig,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Stack {
	registry := taxonomy.Default()

	client := wikimedia.NewClient(wikimedia.Options{
		UserAgent:         wm.UserAgent,
		Timeout:           wm.RequestTimeout,
		MaxRetries:        wm.MaxRetries,
		RetryDelay:        wm.RetryDelay,
		RequestsPerSecond: wm.RequestsPerSecond,
		Burst:             wm.Burst,
	}, m, logger)

	wd := wikidata.NewProviderWithURL(client, wm.WikidataURL, logger)
	wp := wikipedia.NewProviderWithURL(client, wm.WikipediaURL, logger)
	mw := metawiki.NewProviderWithURL(client, wm.MetaWikiURL, coll.PageSuffix, logger)

	var claims cache.ClaimsFetcher = wd
	if cl.CacheEnabled() {
		claims = cache.NewClaims(wd, cl.CacheSize, cl.CacheTTL, m)
	}

	res := resolver.NewService(logger, registry, wp, claims, cl.MaxNodes, m)
	text := textclass.NewService(logger, registry, wp)
	cls := classify.NewService(logger, registry, res, text, classify.Options{
		TextFallback: cl.TextFallback,
		Concurrency:  cl.Concurrency,
		MaxBatch:     cl.MaxBatch,
	}, m)

	return &Stack{
		Registry:  registry,
		Client:    client,
		Wikidata:  wd,
		Wikipedia: wp,
		MetaWiki:  mw,
		Claims:    claims,
		Resolver:  res,
		Text:      text,
		Classify:  cls,
	}
}
