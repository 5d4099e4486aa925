package organism

import (
	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
	"github.com/heartmarshall/wikinaturalist-backend/internal/provider"
)

func applyEntity(card *domain.Organism, hit *provider.SearchHit, details *provider.EntityDetails) {
	if hit == nil {
		return
	}
	id := hit.ID
	card.EntityID = &id
	card.ShortDescription = hit.Description

	if details == nil {
		return
	}
	if details.TaxonName != nil && *details.TaxonName != "" {
		card.TaxonName = *details.TaxonName
	}
	card.CommonName = details.CommonName
	card.ImageURL = details.Image
	card.RangeMapURL = details.RangeMap
}

// applyArticle fills the encyclopedia fields. The entity search description
// takes precedence for the short description.
func applyArticle(card *domain.Organism, article *provider.ArticleText) {
	if article == nil {
		return
	}
	if card.ShortDescription == nil {
		card.ShortDescription = nonEmpty(article.ShortDescription)
	}
	card.MediumDescription = nonEmpty(article.MediumDescription)
	card.LongDescription = nonEmpty(article.IntroParagraph)
	card.Infobox = nonEmpty(article.Infobox)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
