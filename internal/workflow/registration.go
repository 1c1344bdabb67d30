package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/kozaktomas/facereg/internal/config"
	"github.com/kozaktomas/facereg/internal/database"
	"github.com/kozaktomas/facereg/internal/facematch"
	"github.com/kozaktomas/facereg/internal/photostore"
)

// MaxNameLength matches the width of the name column in every backend.
const MaxNameLength = 255

// RegisterRequest is a new identity as submitted by the client.
type RegisterRequest struct {
	Name       string
	Descriptor []float32
	Photo      string // data URL or bare base64
}

// RegisterResult describes a stored identity.
type RegisterResult struct {
	ID        int64
	PhotoPath string
}

// Registration stores new identities together with their photo.
type Registration struct {
	store   database.IdentityWriter
	photos  photostore.Store
	matcher *facematch.Matcher
	log     *bolt.Logger

	dimension        int
	maxPhotoBytes    int
	rejectDuplicates bool

	// serialises check-then-insert when rejectDuplicates is set; this only
	// covers registrations handled by this process
	mu sync.Mutex
}

// NewRegistration creates the registration workflow.
func NewRegistration(store database.IdentityWriter, photos photostore.Store, cfg *config.Config, log *bolt.Logger) *Registration {
	return &Registration{
		store:            store,
		photos:           photos,
		matcher:          facematch.NewMatcher(cfg.Matching.Threshold),
		log:              log,
		dimension:        cfg.Matching.Dimension,
		maxPhotoBytes:    cfg.Photos.MaxBytes,
		rejectDuplicates: cfg.Matching.RejectDuplicates,
	}
}

// Register validates the request, stores the photo and appends the
// identity. If the insert fails the stored photo is deleted again.
func (r *Registration) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidInput("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, invalidInput("name is longer than %d characters", MaxNameLength)
	}
	if err := validateDescriptor(req.Descriptor, r.dimension); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Photo) == "" {
		return nil, invalidInput("photo is required")
	}

	photo, err := photostore.DecodeDataURL(req.Photo)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if r.maxPhotoBytes > 0 && len(photo.Data) > r.maxPhotoBytes {
		return nil, invalidInput("photo is %d bytes, limit is %d", len(photo.Data), r.maxPhotoBytes)
	}

	if r.rejectDuplicates {
		r.mu.Lock()
		defer r.mu.Unlock()

		match, err := r.findDuplicate(ctx, req.Descriptor)
		if err != nil {
			return nil, err
		}
		if match != nil {
			r.log.Info().
				Str("name", name).
				Int("existing_id", int(match.Identity.ID)).
				Str("distance", fmt.Sprintf("%.4f", match.Distance)).
				Msg("registration rejected, face already registered")
			return nil, &DuplicateError{Match: match}
		}
	}

	ref, err := r.photos.Save(ctx, photo.Data, photo.ContentType)
	if err != nil {
		r.log.Error().Err(err).Str("name", name).Msg("failed to store photo")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	id, err := r.store.Insert(ctx, name, req.Descriptor, ref)
	if err != nil {
		r.log.Error().Err(err).Str("name", name).Str("photo", ref).Msg("failed to insert identity, removing photo")
		if derr := r.photos.Delete(context.WithoutCancel(ctx), ref); derr != nil {
			r.log.Warn().Err(derr).Str("photo", ref).Msg("failed to remove orphaned photo")
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	r.log.Info().
		Int("id", int(id)).
		Str("name", name).
		Str("photo", ref).
		Msg("identity registered")

	return &RegisterResult{ID: id, PhotoPath: ref}, nil
}

// CheckDuplicate reports the first registered identity within the
// threshold of descriptor, or nil. Clients call this before Register.
func (r *Registration) CheckDuplicate(ctx context.Context, descriptor []float32) (*facematch.Match, error) {
	if err := validateDescriptor(descriptor, r.dimension); err != nil {
		return nil, err
	}

	match, err := r.findDuplicate(ctx, descriptor)
	if err != nil {
		return nil, err
	}

	if match != nil {
		r.log.Debug().
			Int("id", int(match.Identity.ID)).
			Str("distance", fmt.Sprintf("%.4f", match.Distance)).
			Msg("duplicate face found")
	}
	return match, nil
}

func (r *Registration) findDuplicate(ctx context.Context, descriptor []float32) (*facematch.Match, error) {
	candidates, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	match, err := r.matcher.FindDuplicate(descriptor, candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return match, nil
}
