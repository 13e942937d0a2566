package devserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// putObject handles PUT /api/objects/{key}. The body is stored as an
// opaque blob; an existing object under the same key is overwritten.
func (h *Handler) putObject(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.Error(w, "missing object key", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Err(err).Str("key", key).Msg("reading object body")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.store.Put(key, data)
	h.logger.Debug().Str("key", key).Int("size", len(data)).Msg("object stored")

	w.WriteHeader(http.StatusNoContent)
}

// getObject handles GET /api/objects/{key}.
func (h *Handler) getObject(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	data, modified, ok := h.store.Get(key)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Last-Modified", modified.Format(http.TimeFormat))

	if _, err := w.Write(data); err != nil {
		h.logger.Err(err).Str("key", key).Msg("writing object body")
	}
}

// statObject handles HEAD /api/objects/{key}. It reports object
// metadata through the Content-Length and Last-Modified headers without
// sending the payload.
func (h *Handler) statObject(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	info, ok := h.store.Stat(key)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Last-Modified", info.Modified.Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
}

// listObjects handles GET /api/objects?prefix=. It answers with a JSON
// array of object metadata sorted by key; no matches yield an empty
// array, not null.
func (h *Handler) listObjects(w http.ResponseWriter, r *http.Request) {
	infos := h.store.List(r.URL.Query().Get("prefix"))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(infos); err != nil {
		h.logger.Err(err).Msg("encoding object listing")
	}
}
