package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/wikinaturalist-backend/internal/service/classify"
)

type classifyService interface {
	Classify(ctx context.Context, name, language string) classify.Result
	ClassifyBatch(ctx context.Context, names []string, language string) ([]classify.Result, error)
}

// maxBatchBody bounds the batch request body.
const maxBatchBody = 1 << 20

// ClassifyHandler serves classification endpoints.
type ClassifyHandler struct {
	svc   classifyService
	langs Languages
	log   *slog.Logger
}

// NewClassifyHandler creates a ClassifyHandler.
func NewClassifyHandler(svc classifyService, langs Languages, logger *slog.Logger) *ClassifyHandler {
	return &ClassifyHandler{svc: svc, langs: langs, log: logger.With("handler", "classify")}
}

type batchRequest struct {
	Names []string `json:"names"`
	Lang  string   `json:"lang"`
}

type batchResponse struct {
	Lang    string            `json:"lang"`
	Results []classify.Result `json:"results"`
}

// Classify handles GET /api/v1/classify?name=&lang=.
func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	lang, err := h.langs.FromRequest(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.svc.Classify(r.Context(), name, lang))
}

// Batch handles POST /api/v1/classify/batch.
func (h *ClassifyHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang, err := h.langs.Parse(req.Lang)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	names := make([]string, 0, len(req.Names))
	for _, n := range req.Names {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}

	results, err := h.svc.ClassifyBatch(r.Context(), names, lang)
	if err != nil {
		if errors.Is(err, classify.ErrBatchTooLarge) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if r.Context().Err() != nil {
			writeError(w, http.StatusServiceUnavailable, "request cancelled")
			return
		}
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, batchResponse{Lang: lang, Results: results})
}
