// Package matcher maps free-text location descriptions to canonical facility
// records using a weighted composite similarity score. Matching is
// deterministic: the same inputs always produce the same result, and exact
// score ties resolve to the earliest candidate in the caller-supplied order.
package matcher

import (
	"strings"
	"sync"

	"github.com/swimto/poolsync/pkg/errors"
	"github.com/swimto/poolsync/pkg/facilities"
)

// DefaultThreshold is the minimum composite score for a match.
const DefaultThreshold = 0.6

// Location carries the optional evidence accompanying a location name.
type Location struct {
	Address    string
	PostalCode string
}

// Match is a successful facility match.
type Match struct {
	FacilityID string  `json:"facility_id"`
	Confidence float64 `json:"confidence"` // Composite score clamped to [0, 1]
}

// Weights are the named sub-score weights of the composite. They
// intentionally sum to more than 1.0: postal-code agreement is strong
// enough evidence to carry a weak name match over the threshold on its own.
// The raw composite is used for thresholding and ranking; only the reported
// confidence is clamped.
type Weights struct {
	Name      float64 // Token-set Jaccard similarity of the names
	Substring float64 // Bonus when one normalized name contains the other
	Address   float64 // Bonus when one address contains the other
	Postal    float64 // Bonus for exact postal-code equality
}

// DefaultWeights returns the tuned production weights.
func DefaultWeights() Weights {
	return Weights{Name: 0.5, Substring: 0.3, Address: 0.15, Postal: 0.4}
}

// Matcher scores locations against a candidate facility list, memoizing
// results until Reset. Safe for concurrent use.
type Matcher struct {
	weights   Weights
	threshold float64

	mu    sync.Mutex
	cache map[string]*Match
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithWeights overrides the composite weights.
func WithWeights(w Weights) Option {
	return func(m *Matcher) error {
		if w.Name < 0 || w.Substring < 0 || w.Address < 0 || w.Postal < 0 {
			return &errors.ValidationError{
				Field:   "weights",
				Message: "weights cannot be negative",
			}
		}
		m.weights = w
		return nil
	}
}

// WithThreshold overrides the minimum score for a match.
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) error {
		if threshold < 0 || threshold > 1 {
			return &errors.ValidationError{
				Field:   "threshold",
				Value:   threshold,
				Message: "threshold must be in [0, 1]",
			}
		}
		m.threshold = threshold
		return nil
	}
}

// New creates a Matcher with options.
func New(opts ...Option) (*Matcher, error) {
	m := &Matcher{
		weights:   DefaultWeights(),
		threshold: DefaultThreshold,
		cache:     make(map[string]*Match),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Reset discards the memoization cache. Callers that reuse one Matcher
// across runs must Reset between them so a changed candidate list cannot
// serve stale results.
func (m *Matcher) Reset() {
	m.mu.Lock()
	m.cache = make(map[string]*Match)
	m.mu.Unlock()
}

// Match scores the location against every candidate, in order, and returns
// the best candidate when its score meets the threshold, or nil when no
// candidate qualifies. Match never fails: unmatched is a result, not an
// error. Results are memoized per (name, location) within the Matcher's run.
func (m *Matcher) Match(name string, loc Location, candidates facilities.Facilities) *Match {
	normName := normalizeName(name)
	if normName == "" {
		return nil
	}

	cacheKey := normName + "|" + normalizeName(loc.Address) + "|" + normalizePostal(loc.PostalCode)
	m.mu.Lock()
	cached, ok := m.cache[cacheKey]
	m.mu.Unlock()
	if ok {
		return cached
	}

	result := m.score(normName, loc, candidates)
	m.mu.Lock()
	m.cache[cacheKey] = result
	m.mu.Unlock()
	return result
}

func (m *Matcher) score(normName string, loc Location, candidates facilities.Facilities) *Match {
	locTokens := tokenSet(normName)
	locAddress := normalizeName(loc.Address)
	locPostal := normalizePostal(loc.PostalCode)

	var best *Match
	bestScore := 0.0

	for _, fac := range candidates {
		facName := normalizeName(fac.Name)

		// Exact normalized name is a direct hit.
		if facName == normName {
			return &Match{FacilityID: fac.ID, Confidence: 1.0}
		}

		score := jaccard(locTokens, tokenSet(facName)) * m.weights.Name

		if contains(normName, facName) || contains(facName, normName) {
			score += m.weights.Substring
		}

		if facAddress := normalizeName(fac.Address); locAddress != "" && facAddress != "" {
			if contains(locAddress, facAddress) || contains(facAddress, locAddress) {
				score += m.weights.Address
			}
		}

		if facPostal := normalizePostal(fac.PostalCode); locPostal != "" && locPostal == facPostal {
			score += m.weights.Postal
		}

		// Strictly greater: the earliest candidate wins exact ties.
		if score > bestScore {
			bestScore = score
			best = &Match{FacilityID: fac.ID, Confidence: clamp(score)}
		}
	}

	if best == nil || bestScore < m.threshold {
		return nil
	}
	return best
}

func contains(haystack, needle string) bool {
	return needle != "" && strings.Contains(haystack, needle)
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
