// Package photostore persists the registration photo that accompanies each
// identity. Stores hand out opaque refs which the identity row keeps as its
// photo path.
package photostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/kozaktomas/facereg/internal/config"
)

var (
	// ErrNotFound is returned by Open when no photo exists under the ref.
	ErrNotFound = errors.New("photo not found")
	// ErrInvalidRef is returned for refs that are empty or escape the store.
	ErrInvalidRef = errors.New("invalid photo reference")
)

// Store is a photo sink.
type Store interface {
	// Save stores data and returns the ref it was stored under.
	Save(ctx context.Context, data []byte, contentType string) (string, error)
	// Open returns a reader for a stored photo or ErrNotFound.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	// Delete removes the photo. Deleting a missing ref is not an error.
	Delete(ctx context.Context, ref string) error
	// Exists reports whether a photo is stored under ref.
	Exists(ctx context.Context, ref string) (bool, error)
}

// Backend names accepted by New.
const (
	BackendLocal  = "local"
	BackendMinIO  = "minio"
	BackendMemory = "memory"
)

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg *config.PhotosConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendLocal, "":
		return NewLocal(cfg.Dir)
	case BackendMinIO:
		return NewMinIO(ctx, cfg.MinIO)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown photo backend %q (available: local, minio, memory)", cfg.Backend)
	}
}

// newRef generates a collision-free photo name with the given extension.
func newRef(contentType string) string {
	return "face_" + uuid.NewString() + ExtensionFor(contentType)
}

// validateRef accepts flat names only: no separators, no parent references.
func validateRef(ref string) error {
	if ref == "" || ref == "." || ref == ".." ||
		strings.ContainsAny(ref, `/\`) || strings.Contains(ref, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return nil
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// ExtensionFor returns the file extension for an image content type,
// ".jpg" when unknown.
func ExtensionFor(contentType string) string {
	if ext, ok := extensions[strings.ToLower(contentType)]; ok {
		return ext
	}
	return ".jpg"
}

// ContentTypeFor guesses the content type of a stored photo from its ref.
func ContentTypeFor(ref string) string {
	lower := strings.ToLower(ref)
	for contentType, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return contentType
		}
	}
	if strings.HasSuffix(lower, ".jpeg") {
		return "image/jpeg"
	}
	return "application/octet-stream"
}
