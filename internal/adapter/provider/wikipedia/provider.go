// Package wikipedia looks up Wikidata ids for article titles and extracts
// article text from the Wikipedia mobile-html endpoint.
package wikipedia

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/net/html"

	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/provider/wikimedia"
	"github.com/heartmarshall/wikinaturalist-backend/internal/provider"
)

// defaultSiteURL is formatted with the language code.
const (
	defaultSiteURL = "https://%s.wikipedia.org"
	providerName   = "wikipedia"
)

// Getter is the HTTP capability the provider needs.
type Getter interface {
	Get(ctx context.Context, provider, rawURL string) ([]byte, error)
	GetJSON(ctx context.Context, provider, rawURL string, dst any) error
}

// Provider reads from language editions of Wikipedia.
type Provider struct {
	client  Getter
	siteURL string
	log     *slog.Logger
}

// NewProvider creates a Provider for the public Wikipedia sites.
func NewProvider(client Getter, logger *slog.Logger) *Provider {
	return NewProviderWithURL(client, defaultSiteURL, logger)
}

// NewProviderWithURL creates a Provider with a custom site URL pattern
// containing one %s for the language (for testing).
func NewProviderWithURL(client Getter, siteURL string, logger *slog.Logger) *Provider {
	return &Provider{
		client:  client,
		siteURL: siteURL,
		log:     logger.With("adapter", providerName),
	}
}

type pagePropsResponse struct {
	Query struct {
		Pages []struct {
			PageID    int  `json:"pageid"`
			Missing   bool `json:"missing"`
			Invalid   bool `json:"invalid"`
			PageProps struct {
				WikibaseItem string `json:"wikibase_item"`
			} `json:"pageprops"`
		} `json:"pages"`
	} `json:"query"`
}

// LookupEntityID resolves an article title (following redirects) to its
// Wikidata id. Returns "" and no error when the page does not exist or has
// no linked item.
func (p *Provider) LookupEntityID(ctx context.Context, name, language string) (string, error) {
	q := url.Values{
		"action":        {"query"},
		"prop":          {"pageprops"},
		"ppprop":        {"wikibase_item"},
		"titles":        {name},
		"redirects":     {"1"},
		"format":        {"json"},
		"formatversion": {"2"},
	}
	reqURL := p.site(language) + "/w/api.php?" + q.Encode()

	var resp pagePropsResponse
	if err := p.client.GetJSON(ctx, providerName, reqURL, &resp); err != nil {
		if errors.Is(err, wikimedia.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("wikipedia: lookup %q: %w", name, err)
	}

	for _, page := range resp.Query.Pages {
		if page.Missing || page.Invalid || page.PageID <= 0 {
			continue
		}
		return page.PageProps.WikibaseItem, nil
	}
	return "", nil
}

// FetchArticle fetches and parses the mobile-html rendering of an article.
// Returns nil, nil if the article does not exist (HTTP 404).
func (p *Provider) FetchArticle(ctx context.Context, name, language string) (*provider.ArticleText, error) {
	site := p.site(language)
	reqURL := site + "/api/rest_v1/page/mobile-html/" + url.PathEscape(name)

	body, err := p.client.Get(ctx, providerName, reqURL)
	if err != nil {
		if errors.Is(err, wikimedia.ErrNotFound) {
			return nil, nil
		}
		p.log.WarnContext(ctx, "wikipedia article fetch failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("wikipedia: fetch article %q: %w", name, err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("wikipedia: parse html: %w", err)
	}

	article := parseArticle(doc, site+"/wiki/")

	p.log.DebugContext(ctx, "wikipedia article",
		slog.String("name", name),
		slog.String("language", language),
		slog.Int("intro_len", len(article.IntroParagraph)),
		slog.Int("infobox_len", len(article.Infobox)),
	)
	return article, nil
}

func (p *Provider) site(language string) string {
	return fmt.Sprintf(p.siteURL, language)
}
