package devserver

import (
	"encoding/json"
	"net/http"
)

// pointerDocument is the wire form of the latest-pointer resource.
type pointerDocument struct {
	SnapshotID string `json:"snapshot_id"`
}

// getPointer handles GET /api/pointer. When no snapshot has been
// published yet the snapshot id is the empty string.
func (h *Handler) getPointer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(pointerDocument{SnapshotID: h.store.Pointer()}); err != nil {
		h.logger.Err(err).Msg("encoding pointer")
	}
}

// setPointer handles PUT /api/pointer. The If-Match header carries the
// pointer value the client last observed; the update is applied only if
// the pointer still holds that value, otherwise the server answers
// HTTP 412 Precondition Failed and the client must re-read and merge.
func (h *Handler) setPointer(w http.ResponseWriter, r *http.Request) {
	var doc pointerDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expected := r.Header.Get("If-Match")
	if !h.store.CompareAndSwapPointer(expected, doc.SnapshotID) {
		h.logger.Debug().
			Str("expected", expected).
			Str("current", h.store.Pointer()).
			Msg("pointer precondition failed")
		http.Error(w, "pointer has changed", http.StatusPreconditionFailed)
		return
	}

	h.logger.Debug().Str("snapshot_id", doc.SnapshotID).Msg("pointer advanced")
	w.WriteHeader(http.StatusNoContent)
}

// health handles GET /api/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
