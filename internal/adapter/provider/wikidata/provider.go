// Package wikidata reads entity claims and search results from the Wikidata API.
package wikidata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/provider/wikimedia"
	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
	"github.com/heartmarshall/wikinaturalist-backend/internal/provider"
)

const (
	defaultAPIURL     = "https://www.wikidata.org/w/api.php"
	defaultCommonsURL = "https://commons.wikimedia.org/wiki/Special:FilePath/"
	thumbnailWidth    = "400"
	providerName      = "wikidata"
)

// Properties read from entity claims.
const (
	propParentTaxon  = "P171"
	propInstanceOf   = "P31"
	propSubclassOf   = "P279"
	propCommonNameOf = "P1176"
	propTaxonName    = "P225"
	propImage        = "P18"
	propRangeMap     = "P181"
	propCommonName   = "P1843"
)

// Getter is the HTTP capability the provider needs.
type Getter interface {
	GetJSON(ctx context.Context, provider, rawURL string, dst any) error
}

// Provider fetches entities from Wikidata.
type Provider struct {
	client     Getter
	apiURL     string
	commonsURL string
	log        *slog.Logger
}

// NewProvider creates a Provider for the public Wikidata API.
func NewProvider(client Getter, logger *slog.Logger) *Provider {
	return NewProviderWithURL(client, defaultAPIURL, logger)
}

// NewProviderWithURL creates a Provider with a custom API URL (for testing).
func NewProviderWithURL(client Getter, apiURL string, logger *slog.Logger) *Provider {
	return &Provider{
		client:     client,
		apiURL:     apiURL,
		commonsURL: defaultCommonsURL,
		log:        logger.With("adapter", providerName),
	}
}

// FetchClaims returns the traversal edges of an entity. A missing entity
// yields an empty GraphEntity and no error.
func (p *Provider) FetchClaims(ctx context.Context, id string) (domain.GraphEntity, error) {
	q := url.Values{
		"action": {"wbgetentities"},
		"ids":    {id},
		"props":  {"claims"},
		"format": {"json"},
	}

	entity, found, err := p.getEntity(ctx, id, q)
	if err != nil {
		return domain.GraphEntity{}, err
	}
	if !found {
		return domain.GraphEntity{ID: id}, nil
	}

	out := domain.GraphEntity{
		ID:             id,
		RelatedNameIDs: entity.entityIDs(propCommonNameOf),
	}
	if parents := entity.entityIDs(propParentTaxon); len(parents) > 0 {
		out.ParentID = parents[0]
	}
	out.ConceptualIDs = append(entity.entityIDs(propInstanceOf), entity.entityIDs(propSubclassOf)...)

	p.log.DebugContext(ctx, "wikidata claims",
		slog.String("id", id),
		slog.String("parent", out.ParentID),
		slog.Int("conceptual", len(out.ConceptualIDs)),
		slog.Int("related", len(out.RelatedNameIDs)),
	)
	return out, nil
}

// SearchEntity returns the top search hit for name, or nil if nothing matched.
func (p *Provider) SearchEntity(ctx context.Context, name, language string) (*provider.SearchHit, error) {
	q := url.Values{
		"action":   {"wbsearchentities"},
		"search":   {name},
		"language": {language},
		"format":   {"json"},
	}

	var resp searchResponse
	if err := p.client.GetJSON(ctx, providerName, p.apiURL+"?"+q.Encode(), &resp); err != nil {
		if errors.Is(err, wikimedia.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("wikidata: search %q: %w", name, err)
	}
	if len(resp.Search) == 0 || resp.Search[0].ID == "" {
		return nil, nil
	}

	hit := &provider.SearchHit{ID: resp.Search[0].ID}
	if d := resp.Search[0].Description; d != "" {
		hit.Description = &d
	}
	return hit, nil
}

// FetchDetails returns descriptive claims of an entity, or nil if it is missing.
func (p *Provider) FetchDetails(ctx context.Context, id, language string) (*provider.EntityDetails, error) {
	q := url.Values{
		"action":    {"wbgetentities"},
		"ids":       {id},
		"props":     {"claims|labels"},
		"languages": {language},
		"format":    {"json"},
	}

	entity, found, err := p.getEntity(ctx, id, q)
	if err != nil || !found {
		return nil, err
	}

	details := &provider.EntityDetails{ID: id}
	if v, ok := entity.firstString(propTaxonName); ok {
		details.TaxonName = &v
	}
	if v, ok := entity.monolingual(propCommonName, language); ok {
		details.CommonName = &v
	}
	if v, ok := entity.firstString(propImage); ok {
		u := p.CommonsImageURL(v)
		details.Image = &u
	}
	if v, ok := entity.firstString(propRangeMap); ok {
		u := p.CommonsImageURL(v)
		details.RangeMap = &u
	}
	return details, nil
}

// CommonsImageURL converts a Commons file name to a 400px thumbnail URL.
func (p *Provider) CommonsImageURL(filename string) string {
	normalized := strings.ReplaceAll(filename, " ", "_")
	return p.commonsURL + url.PathEscape(normalized) + "?width=" + thumbnailWidth
}

func (p *Provider) getEntity(ctx context.Context, id string, q url.Values) (apiEntity, bool, error) {
	var resp entitiesResponse
	if err := p.client.GetJSON(ctx, providerName, p.apiURL+"?"+q.Encode(), &resp); err != nil {
		if errors.Is(err, wikimedia.ErrNotFound) {
			return apiEntity{}, false, nil
		}
		return apiEntity{}, false, fmt.Errorf("wikidata: get entity %s: %w", id, err)
	}

	entity, ok := resp.Entities[id]
	if !ok || entity.Missing != nil {
		return apiEntity{}, false, nil
	}
	return entity, true, nil
}
