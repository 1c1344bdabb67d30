package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/facereg/internal/photostore"
)

// PhotosHandler streams stored registration photos.
type PhotosHandler struct {
	photos photostore.Store
	log    *bolt.Logger
}

// NewPhotosHandler creates a new photos handler
func NewPhotosHandler(photos photostore.Store, log *bolt.Logger) *PhotosHandler {
	return &PhotosHandler{photos: photos, log: log}
}

// Get streams the photo stored under {ref}.
func (h *PhotosHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	rc, err := h.photos.Open(r.Context(), ref)
	switch {
	case errors.Is(err, photostore.ErrInvalidRef):
		respondError(w, http.StatusBadRequest, "invalid photo reference")
		return
	case errors.Is(err, photostore.ErrNotFound):
		respondError(w, http.StatusNotFound, "photo not found")
		return
	case err != nil:
		h.log.Error().Err(err).Str("ref", sanitizeForLog(ref)).Msg("failed to open photo")
		respondError(w, http.StatusInternalServerError, "failed to open photo")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", photostore.ContentTypeFor(ref))
	// refs are never reused
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, rc)
}
