package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
	"github.com/heartmarshall/wikinaturalist-backend/internal/service/collection"
)

type collectionService interface {
	ForOwner(ctx context.Context, username string) collection.Lists
	Parse(raw string) []domain.Collection
	Sync(ctx context.Context, username string) ([]domain.StoredCollection, error)
	List(ctx context.Context, username string) ([]domain.StoredCollection, error)
}

// maxParseBody bounds the raw markup accepted by Parse.
const maxParseBody = 1 << 20

// CollectionHandler serves collection lists.
type CollectionHandler struct {
	svc collectionService
	log *slog.Logger
}

// NewCollectionHandler creates a CollectionHandler.
func NewCollectionHandler(svc collectionService, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{svc: svc, log: logger.With("handler", "collection")}
}

type storedCollectionResponse struct {
	ID        string    `json:"id"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	domain.Collection
}

type storedResponse struct {
	Owner       string                     `json:"owner"`
	Collections []storedCollectionResponse `json:"collections"`
}

// ForOwner handles GET /api/v1/collections?user=.
func (h *CollectionHandler) ForOwner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ForOwner(r.Context(), r.URL.Query().Get("user")))
}

// Parse handles POST /api/v1/collections/parse with raw markup as the body.
func (h *CollectionHandler) Parse(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxParseBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body too large")
		return
	}

	collections := h.svc.Parse(string(raw))
	if collections == nil {
		collections = []domain.Collection{}
	}
	writeJSON(w, http.StatusOK, collections)
}

// Sync handles POST /api/v1/collections/sync?user=.
func (h *CollectionHandler) Sync(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	stored, err := h.svc.Sync(r.Context(), user)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStoredResponse(stored, user))
}

// Stored handles GET /api/v1/collections/stored?user=.
func (h *CollectionHandler) Stored(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	stored, err := h.svc.List(r.Context(), user)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStoredResponse(stored, user))
}

func (h *CollectionHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, collection.ErrMissingUsername), errors.Is(err, collection.ErrAnonymousUser):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, collection.ErrListNotFound):
		writeError(w, http.StatusNotFound, "list page not found")
	default:
		handleError(h.log, w, r, err)
	}
}

func toStoredResponse(stored []domain.StoredCollection, requested string) storedResponse {
	resp := storedResponse{Owner: requested, Collections: make([]storedCollectionResponse, len(stored))}
	for i, s := range stored {
		resp.Owner = s.Owner
		resp.Collections[i] = storedCollectionResponse{
			ID:         s.ID.String(),
			Position:   s.Position,
			CreatedAt:  s.CreatedAt,
			Collection: s.Collection,
		}
	}
	return resp
}
