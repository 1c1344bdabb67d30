package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/facereg/internal/database"
)

// IdentitiesHandler exposes read-only access to registered identities.
type IdentitiesHandler struct {
	store database.IdentityReader
	log   *bolt.Logger
}

// NewIdentitiesHandler creates a new identities handler
func NewIdentitiesHandler(store database.IdentityReader, log *bolt.Logger) *IdentitiesHandler {
	return &IdentitiesHandler{store: store, log: log}
}

// IdentityResponse is an identity without its descriptor.
type IdentityResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	PhotoPath string    `json:"photo_path"`
	PhotoURL  string    `json:"photo_url"`
	CreatedAt time.Time `json:"created_at"`
}

// IdentityListResponse wraps a list of identities.
type IdentityListResponse struct {
	Success    bool               `json:"success"`
	Count      int                `json:"count"`
	Identities []IdentityResponse `json:"identities"`
}

func toIdentityResponse(identity database.Identity) IdentityResponse {
	return IdentityResponse{
		ID:        identity.ID,
		Name:      identity.Name,
		Dimension: identity.Dim,
		PhotoPath: identity.PhotoPath,
		PhotoURL:  "/api/v1/photos/" + url.PathEscape(identity.PhotoPath),
		CreatedAt: identity.CreatedAt,
	}
}

// List returns all identities, or those matching ?name= when given.
func (h *IdentitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		identities []database.Identity
		err        error
	)
	if name := r.URL.Query().Get("name"); name != "" {
		identities, err = h.store.FindByName(r.Context(), name)
	} else {
		identities, err = h.store.ListAll(r.Context())
	}
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list identities")
		respondError(w, http.StatusInternalServerError, "failed to list identities")
		return
	}

	response := IdentityListResponse{
		Success:    true,
		Count:      len(identities),
		Identities: make([]IdentityResponse, 0, len(identities)),
	}
	for _, identity := range identities {
		response.Identities = append(response.Identities, toIdentityResponse(identity))
	}
	respondJSON(w, http.StatusOK, response)
}

// Get returns a single identity by ID.
func (h *IdentitiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid identity id")
		return
	}

	identity, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Int("id", int(id)).Msg("failed to get identity")
		respondError(w, http.StatusInternalServerError, "failed to get identity")
		return
	}
	if identity == nil {
		respondError(w, http.StatusNotFound, "identity not found")
		return
	}

	respondJSON(w, http.StatusOK, toIdentityResponse(*identity))
}
