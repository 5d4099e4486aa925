package rest

import "net/http"

// Handlers groups every handler mounted by NewRouter.
type Handlers struct {
	Health      *HealthHandler
	Groups      *GroupsHandler
	Classify    *ClassifyHandler
	Organisms   *OrganismHandler
	Collections *CollectionHandler
	Metrics     http.Handler
}

// NewRouter mounts the API on a new mux. Nil handlers are skipped.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	if h.Health != nil {
		mux.HandleFunc("GET /live", h.Health.Live)
		mux.HandleFunc("GET /ready", h.Health.Ready)
		mux.HandleFunc("GET /health", h.Health.Health)
	}
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}
	if h.Groups != nil {
		mux.HandleFunc("GET /api/v1/groups", h.Groups.List)
	}
	if h.Classify != nil {
		mux.HandleFunc("GET /api/v1/classify", h.Classify.Classify)
		mux.HandleFunc("POST /api/v1/classify/batch", h.Classify.Batch)
	}
	if h.Organisms != nil {
		mux.HandleFunc("GET /api/v1/organisms", h.Organisms.Get)
	}
	if h.Collections != nil {
		mux.HandleFunc("GET /api/v1/collections", h.Collections.ForOwner)
		mux.HandleFunc("POST /api/v1/collections/parse", h.Collections.Parse)
		mux.HandleFunc("POST /api/v1/collections/sync", h.Collections.Sync)
		mux.HandleFunc("GET /api/v1/collections/stored", h.Collections.Stored)
	}

	return mux
}
