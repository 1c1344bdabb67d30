package handlers

import (
	"net/http"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/kozaktomas/facereg/internal/facematch"
	"github.com/kozaktomas/facereg/internal/workflow"
)

// FacesHandler serves the check, recognize and register endpoints.
type FacesHandler struct {
	registration *workflow.Registration
	recognition  *workflow.Recognition
	log          *bolt.Logger
	maxBodyBytes int64
}

// NewFacesHandler creates a new faces handler
func NewFacesHandler(registration *workflow.Registration, recognition *workflow.Recognition, log *bolt.Logger, maxBodyBytes int64) *FacesHandler {
	return &FacesHandler{
		registration: registration,
		recognition:  recognition,
		log:          log,
		maxBodyBytes: maxBodyBytes,
	}
}

// DescriptorRequest carries a face descriptor from the browser.
type DescriptorRequest struct {
	Descriptor []float32 `json:"descriptor"`
}

// CheckResponse answers whether a face is already registered.
type CheckResponse struct {
	Success  bool     `json:"success"`
	Exists   bool     `json:"exists"`
	User     *UserRef `json:"user,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// RecognizeResponse carries the best match for a face, if any.
type RecognizeResponse struct {
	Success  bool     `json:"success"`
	Match    bool     `json:"match"`
	User     *UserRef `json:"user,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// RegisterRequest is a new identity.
type RegisterRequest struct {
	Name       string    `json:"name"`
	Descriptor []float32 `json:"descriptor"`
	Photo      string    `json:"photo"`
}

// RegisterResponse describes the created identity.
type RegisterResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	ID        int64  `json:"id,omitempty"`
	PhotoPath string `json:"photo_path,omitempty"`
}

const (
	msgDescriptorMissing = "descriptor is required"
	msgNotRegistered     = "face is not registered"
	msgNotRecognized     = "face not recognized"
	msgRegistered        = "registration successful"
)

func matchFields(match *facematch.Match) (*UserRef, *float64) {
	distance := match.Distance
	return &UserRef{ID: match.Identity.ID, Name: match.Identity.Name}, &distance
}

// Check reports whether the posted descriptor is already registered.
func (h *FacesHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req DescriptorRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondDecodeError(w, err)
		return
	}
	if req.Descriptor == nil {
		respondError(w, http.StatusBadRequest, msgDescriptorMissing)
		return
	}

	match, err := h.registration.CheckDuplicate(r.Context(), req.Descriptor)
	if err != nil {
		respondWorkflowError(w, h.log, "check", err)
		return
	}

	if match == nil {
		respondJSON(w, http.StatusOK, CheckResponse{Success: true, Exists: false, Message: msgNotRegistered})
		return
	}
	user, distance := matchFields(match)
	respondJSON(w, http.StatusOK, CheckResponse{Success: true, Exists: true, User: user, Distance: distance})
}

// Recognize identifies the posted descriptor.
func (h *FacesHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	var req DescriptorRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondDecodeError(w, err)
		return
	}
	if req.Descriptor == nil {
		respondError(w, http.StatusBadRequest, msgDescriptorMissing)
		return
	}

	match, err := h.recognition.Recognize(r.Context(), req.Descriptor)
	if err != nil {
		respondWorkflowError(w, h.log, "recognize", err)
		return
	}

	if match == nil {
		respondJSON(w, http.StatusOK, RecognizeResponse{Success: true, Match: false, Message: msgNotRecognized})
		return
	}
	user, distance := matchFields(match)
	respondJSON(w, http.StatusOK, RecognizeResponse{Success: true, Match: true, User: user, Distance: distance})
}

// Register stores a new identity with its photo.
func (h *FacesHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	result, err := h.registration.Register(r.Context(), workflow.RegisterRequest{
		Name:       req.Name,
		Descriptor: req.Descriptor,
		Photo:      req.Photo,
	})
	if err != nil {
		h.log.Debug().Str("name", sanitizeForLog(req.Name)).Err(err).Msg("registration failed")
		respondWorkflowError(w, h.log, "register", err)
		return
	}

	respondJSON(w, http.StatusCreated, RegisterResponse{
		Success:   true,
		Message:   msgRegistered,
		ID:        result.ID,
		PhotoPath: result.PhotoPath,
	})
}
