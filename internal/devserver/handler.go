// Package devserver implements a minimal remote store server for
// development and testing.
//
// It serves the blob-and-pointer API the sync engine's HTTP adapter
// speaks: opaque snapshot objects under /api/objects and a single
// latest-snapshot pointer with compare-and-set semantics under
// /api/pointer. Objects live in memory only; the server is a stand-in
// for a real storage backend, not a durable deployment target.
package devserver

import (
	"github.com/MKhiriev/go-study-sync/internal/config"
	"github.com/MKhiriev/go-study-sync/internal/logger"
)

// Handler bundles the route handlers of the dev remote store.
//
// All routes share one [MemStore] and, when a sign key is configured,
// one JWT verification middleware.
type Handler struct {
	store   *MemStore
	signKey string
	logger  *logger.Logger
}

// NewHandler returns a [Handler] backed by store. When cfg.SignKey is
// non-empty every /api route except the health probe requires a valid
// HS256 bearer token signed with it.
func NewHandler(store *MemStore, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Debug().Msg("dev server handler created")

	return &Handler{store: store, signKey: cfg.SignKey, logger: logger}
}
