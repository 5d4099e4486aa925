package rest

import (
	"net/http"

	"github.com/heartmarshall/wikinaturalist-backend/internal/taxonomy"
)

type groupResponse struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	ExternalID      string `json:"externalId,omitempty"`
	Color           string `json:"color"`
	BackgroundColor string `json:"backgroundColor"`
	Icon            string `json:"icon"`
	Explainer       string `json:"explainer"`
}

// GroupsHandler lists the classification groups.
type GroupsHandler struct {
	body []groupResponse
}

// NewGroupsHandler creates a GroupsHandler. The registry is immutable so the
// response is built once.
func NewGroupsHandler(registry *taxonomy.Registry) *GroupsHandler {
	groups := registry.Groups()
	body := make([]groupResponse, len(groups))
	for i, g := range groups {
		body[i] = groupResponse{
			ID:              g.ID,
			Label:           g.Label,
			ExternalID:      g.ExternalID,
			Color:           g.DisplayColor,
			BackgroundColor: g.BackgroundColor(),
			Icon:            g.Icon,
			Explainer:       g.Explainer,
		}
	}
	return &GroupsHandler{body: body}
}

// List handles GET /api/v1/groups.
func (h *GroupsHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.body)
}
