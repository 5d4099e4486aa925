package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organism is an enriched card for one organism name in one language.
type Organism struct {
	ID             uuid.UUID
	Name           string
	NameNormalized string
	Language       string

	EntityID          *string
	TaxonName         string
	CommonName        *string
	ImageURL          *string
	RangeMapURL       *string
	ShortDescription  *string
	MediumDescription *string
	LongDescription   *string
	Infobox           *string

	GroupID     string
	GroupSource ClassificationSource
	FetchedAt   time.Time
}
