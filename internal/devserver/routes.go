package devserver

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	// the health probe stays open so clients can check reachability
	// without a token
	router.Get("/api/health", h.health)

	router.Group(func(r chi.Router) {
		if h.signKey != "" {
			r.Use(h.auth)
		}

		r.Get("/api/objects", h.listObjects)
		r.Put("/api/objects/*", h.putObject)
		r.Get("/api/objects/*", h.getObject)
		r.Head("/api/objects/*", h.statObject)

		r.Get("/api/pointer", h.getPointer)
		r.Put("/api/pointer", h.setPointer)
	})

	return router
}
