// Package rest implements the JSON HTTP API.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleError maps service errors to responses. Unknown errors are logged
// and hidden behind a 500.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "conflict")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Languages validates the lang query parameter against the supported set.
type Languages struct {
	allowed  []string
	fallback string
}

// NewLanguages creates a validator. The first allowed language is the default.
func NewLanguages(allowed []string) Languages {
	l := Languages{allowed: allowed}
	if len(allowed) > 0 {
		l.fallback = allowed[0]
	}
	return l
}

// FromRequest returns the requested language, the default when absent, or a
// validation error for unsupported values.
func (l Languages) FromRequest(r *http.Request) (string, error) {
	return l.Parse(r.URL.Query().Get("lang"))
}

// Parse validates a raw language code.
func (l Languages) Parse(raw string) (string, error) {
	lang := strings.ToLower(strings.TrimSpace(raw))
	if lang == "" {
		return l.fallback, nil
	}
	if !slices.Contains(l.allowed, lang) {
		return "", domain.NewValidationError("lang", "must be one of "+strings.Join(l.allowed, ", "))
	}
	return lang, nil
}
