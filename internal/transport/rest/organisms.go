package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
	"github.com/heartmarshall/wikinaturalist-backend/internal/taxonomy"
)

type organismService interface {
	GetOrFetch(ctx context.Context, name, lang string) (*domain.Organism, error)
	Refresh(ctx context.Context, name, lang string) (*domain.Organism, error)
}

// OrganismHandler serves organism cards.
type OrganismHandler struct {
	svc      organismService
	registry *taxonomy.Registry
	langs    Languages
	log      *slog.Logger
}

// NewOrganismHandler creates an OrganismHandler.
func NewOrganismHandler(svc organismService, registry *taxonomy.Registry, langs Languages, logger *slog.Logger) *OrganismHandler {
	return &OrganismHandler{svc: svc, registry: registry, langs: langs, log: logger.With("handler", "organism")}
}

type organismGroup struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Color           string `json:"color"`
	BackgroundColor string `json:"backgroundColor"`
	Icon            string `json:"icon"`
	Source          string `json:"source"`
}

type organismResponse struct {
	Name              string        `json:"name"`
	Language          string        `json:"lang"`
	EntityID          *string       `json:"wikidataId"`
	TaxonName         string        `json:"taxonName"`
	CommonName        *string       `json:"commonName"`
	Image             *string       `json:"image"`
	RangeMap          *string       `json:"rangeMap"`
	ShortDescription  *string       `json:"shortDescription"`
	MediumDescription *string       `json:"mediumDescription"`
	LongDescription   *string       `json:"longDescription"`
	Infobox           *string       `json:"infobox"`
	Group             organismGroup `json:"group"`
	FetchedAt         time.Time     `json:"fetchedAt"`
}

// Get handles GET /api/v1/organisms?name=&lang=[&refresh=true].
func (h *OrganismHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	lang, err := h.langs.FromRequest(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	refresh, _ := strconv.ParseBool(q.Get("refresh"))

	get := h.svc.GetOrFetch
	if refresh {
		get = h.svc.Refresh
	}
	o, err := get(r.Context(), name, lang)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(o))
}

func (h *OrganismHandler) toResponse(o *domain.Organism) organismResponse {
	g := h.registry.Lookup(o.GroupID)
	return organismResponse{
		Name:              o.Name,
		Language:          o.Language,
		EntityID:          o.EntityID,
		TaxonName:         o.TaxonName,
		CommonName:        o.CommonName,
		Image:             o.ImageURL,
		RangeMap:          o.RangeMapURL,
		ShortDescription:  o.ShortDescription,
		MediumDescription: o.MediumDescription,
		LongDescription:   o.LongDescription,
		Infobox:           o.Infobox,
		Group: organismGroup{
			ID:              g.ID,
			Label:           g.Label,
			Color:           g.DisplayColor,
			BackgroundColor: g.BackgroundColor(),
			Icon:            g.Icon,
			Source:          o.GroupSource.String(),
		},
		FetchedAt: o.FetchedAt,
	}
}
