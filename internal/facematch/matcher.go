package facematch

import (
	"fmt"

	"github.com/kozaktomas/facereg/internal/database"
)

// Matcher scans candidates linearly; there is no index.
type Matcher struct {
	threshold float64
}

// NewMatcher creates a matcher accepting distances strictly below threshold.
func NewMatcher(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

// Threshold returns the configured match threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// FindDuplicate returns the first candidate, in slice order, whose distance
// to query is below the threshold. A later, closer candidate is ignored.
// Returns nil when nothing qualifies.
func (m *Matcher) FindDuplicate(query []float32, candidates []database.Identity) (*Match, error) {
	for i := range candidates {
		d, err := Distance(query, candidates[i].Embedding)
		if err != nil {
			return nil, fmt.Errorf("identity %d: %w", candidates[i].ID, err)
		}
		if d < m.threshold {
			return &Match{Identity: candidates[i], Distance: d}, nil
		}
	}
	return nil, nil
}

// FindBestMatch returns the candidate nearest to query if its distance is
// below the threshold. Equal distances keep the earlier candidate.
// Returns nil when nothing qualifies.
func (m *Matcher) FindBestMatch(query []float32, candidates []database.Identity) (*Match, error) {
	best := -1
	var bestDistance float64

	for i := range candidates {
		d, err := Distance(query, candidates[i].Embedding)
		if err != nil {
			return nil, fmt.Errorf("identity %d: %w", candidates[i].ID, err)
		}
		if best == -1 || d < bestDistance {
			best = i
			bestDistance = d
		}
	}

	if best == -1 || bestDistance >= m.threshold {
		return nil, nil
	}
	return &Match{Identity: candidates[best], Distance: bestDistance}, nil
}
