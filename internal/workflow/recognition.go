package workflow

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/kozaktomas/facereg/internal/config"
	"github.com/kozaktomas/facereg/internal/database"
	"github.com/kozaktomas/facereg/internal/facematch"
)

// Recognition identifies a face against every registered identity.
type Recognition struct {
	store     database.IdentityReader
	matcher   *facematch.Matcher
	dimension int
	log       *bolt.Logger
}

// NewRecognition creates the recognition workflow.
func NewRecognition(store database.IdentityReader, cfg *config.MatchingConfig, log *bolt.Logger) *Recognition {
	return &Recognition{
		store:     store,
		matcher:   facematch.NewMatcher(cfg.Threshold),
		dimension: cfg.Dimension,
		log:       log,
	}
}

// Recognize returns the nearest identity within the threshold, or nil when
// the face is unknown. A stored descriptor of a different dimension fails
// the whole request with ErrPersistence.
func (r *Recognition) Recognize(ctx context.Context, descriptor []float32) (*facematch.Match, error) {
	if err := validateDescriptor(descriptor, r.dimension); err != nil {
		return nil, err
	}

	candidates, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	match, err := r.matcher.FindBestMatch(descriptor, candidates)
	if err != nil {
		r.log.Error().Err(err).Msg("stored descriptor does not match the configured dimension")
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if match == nil {
		r.log.Debug().Int("candidates", len(candidates)).Msg("face not recognized")
		return nil, nil
	}

	r.log.Info().
		Int("id", int(match.Identity.ID)).
		Str("name", match.Identity.Name).
		Str("distance", fmt.Sprintf("%.4f", match.Distance)).
		Msg("face recognized")
	return match, nil
}

// Threshold returns the distance below which faces match.
func (r *Recognition) Threshold() float64 {
	return r.matcher.Threshold()
}
