package handlers

import (
	"net/http"

	"github.com/kozaktomas/facereg/internal/config"
	"github.com/kozaktomas/facereg/internal/database"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
	store  database.IdentityReader
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config, store database.IdentityReader) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
		store:  store,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Threshold        float64 `json:"threshold"`
	Dimension        int     `json:"dimension"`
	RejectDuplicates bool    `json:"reject_duplicates"`
	DatabaseDriver   string  `json:"database_driver"`
	PhotoBackend     string  `json:"photo_backend"`
	MaxPhotoBytes    int     `json:"max_photo_bytes"`
	Identities       int     `json:"identities"`
}

// Get returns the matching parameters the client needs
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to count identities")
		return
	}

	respondJSON(w, http.StatusOK, ConfigResponse{
		Threshold:        h.config.Matching.Threshold,
		Dimension:        h.config.Matching.Dimension,
		RejectDuplicates: h.config.Matching.RejectDuplicates,
		DatabaseDriver:   h.config.Database.Driver,
		PhotoBackend:     h.config.Photos.Backend,
		MaxPhotoBytes:    h.config.Photos.MaxBytes,
		Identities:       count,
	})
}
