// Package sessions defines the canonical output unit of the pipeline: a
// dated, timed, classified swim session tied (when matching succeeds) to a
// canonical facility, plus the deterministic content hash the storage
// collaborator uses for deduplication.
package sessions

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/swimto/poolsync/pkg/programs"
)

// Session is one bookable time slot at a facility on a concrete date.
type Session struct {
	FacilityID      string             `json:"facility_id,omitempty"` // Empty when no facility matched
	FacilityName    string             `json:"facility_name,omitempty"`
	CourseName      string             `json:"course_name,omitempty"`
	SwimType        SwimType           `json:"swim_type"`
	Date            Date               `json:"date"`
	Start           programs.TimeOfDay `json:"start_time"`
	End             programs.TimeOfDay `json:"end_time"`
	Notes           string             `json:"notes,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	Source          string             `json:"source,omitempty"`
	MatchConfidence float64            `json:"match_confidence,omitempty"`
	ContentHash     string             `json:"content_hash"`
}

// Matched reports whether the session is tied to a canonical facility.
// Unmatched sessions are still emitted so they surface in reporting.
func (s *Session) Matched() bool { return s.FacilityID != "" }

// Duration returns the session length in minutes.
func (s *Session) Duration() int {
	if s.End <= s.Start {
		return 0
	}
	return int(s.End - s.Start)
}

// Overlaps reports whether two sessions' [start, end) intervals overlap.
// Touching endpoints (one ends exactly when the other starts) do not overlap.
func (s *Session) Overlaps(other *Session) bool {
	return s.Start < other.End && other.Start < s.End
}

// Hash computes the deduplication digest: a pure function of exactly
// (facility_id, date, start_time, swim_type). Two sessions with the same hash
// are the same booking slot; the storage collaborator enforces uniqueness.
func Hash(facilityID string, date Date, start programs.TimeOfDay, swimType SwimType) string {
	content := fmt.Sprintf("%s:%s:%s:%s", facilityID, date, start, swimType)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ComputeHash fills the session's ContentHash from its identity fields.
func (s *Session) ComputeHash() {
	s.ContentHash = Hash(s.FacilityID, s.Date, s.Start, s.SwimType)
}
