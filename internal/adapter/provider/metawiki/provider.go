// Package metawiki reads user list pages from Meta-Wiki.
package metawiki

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/provider/wikimedia"
	"github.com/heartmarshall/wikinaturalist-backend/internal/provider"
)

const (
	defaultAPIURL     = "https://meta.wikimedia.org/w/api.php"
	defaultPageSuffix = "WikiNaturalist"
	providerName      = "metawiki"
)

// Getter is the HTTP capability the provider needs.
type Getter interface {
	GetJSON(ctx context.Context, provider, rawURL string, dst any) error
}

// Provider fetches page wikitext from Meta-Wiki.
type Provider struct {
	client     Getter
	apiURL     string
	pageSuffix string
	log        *slog.Logger
}

// NewProvider creates a Provider for the public Meta-Wiki API. pageSuffix is
// the subpage under User:{name}/; empty selects the default.
func NewProvider(client Getter, pageSuffix string, logger *slog.Logger) *Provider {
	return NewProviderWithURL(client, defaultAPIURL, pageSuffix, logger)
}

// NewProviderWithURL creates a Provider with a custom API URL (for testing).
func NewProviderWithURL(client Getter, apiURL, pageSuffix string, logger *slog.Logger) *Provider {
	if pageSuffix == "" {
		pageSuffix = defaultPageSuffix
	}
	return &Provider{
		client:     client,
		apiURL:     apiURL,
		pageSuffix: pageSuffix,
		log:        logger.With("adapter", providerName),
	}
}

type parseResponse struct {
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
	Parse *struct {
		Title    string `json:"title"`
		Wikitext *struct {
			Content string `json:"*"`
		} `json:"wikitext"`
	} `json:"parse"`
}

// PageTitle returns the list page title for a username.
func (p *Provider) PageTitle(username string) string {
	return "User:" + username + "/" + p.pageSuffix
}

// FetchListPage returns the wikitext of the user's list page.
// Returns nil, nil if the page does not exist.
func (p *Provider) FetchListPage(ctx context.Context, username string) (*provider.ListPage, error) {
	title := p.PageTitle(username)
	q := url.Values{
		"action": {"parse"},
		"page":   {title},
		"prop":   {"wikitext"},
		"format": {"json"},
	}

	var resp parseResponse
	if err := p.client.GetJSON(ctx, providerName, p.apiURL+"?"+q.Encode(), &resp); err != nil {
		if errors.Is(err, wikimedia.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("metawiki: fetch %q: %w", title, err)
	}

	if resp.Error != nil || resp.Parse == nil || resp.Parse.Wikitext == nil {
		if resp.Error != nil {
			p.log.DebugContext(ctx, "metawiki page unavailable",
				slog.String("title", title),
				slog.String("code", resp.Error.Code),
			)
		}
		return nil, nil
	}

	return &provider.ListPage{Title: title, Wikitext: resp.Parse.Wikitext.Content}, nil
}
