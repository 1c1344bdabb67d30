package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/kozaktomas/facereg/internal/workflow"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// FailureResponse is the body of every unsuccessful API call.
type FailureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UserRef identifies a matched identity on the wire.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends a failure response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, FailureResponse{Success: false, Message: message})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// respondDecodeError maps a decodeJSON failure to 413 or 400.
func respondDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	respondError(w, http.StatusBadRequest, errInvalidRequestBody)
}

// statusForError maps workflow errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, workflow.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWorkflowError logs server-side failures and sends the failure body.
// Client errors carry their own message; internal details are not exposed.
func respondWorkflowError(w http.ResponseWriter, log *bolt.Logger, op string, err error) {
	status := statusForError(err)
	message := err.Error()

	switch {
	case errors.Is(err, workflow.ErrStorage):
		message = "failed to store photo"
	case errors.Is(err, workflow.ErrPersistence):
		message = "failed to access identity store"
	}
	if status >= http.StatusInternalServerError {
		log.Error().Str("op", op).Err(err).Msg("request failed")
	}
	respondError(w, status, message)
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
