// Package programs defines the raw drop-in program listings the pipeline
// ingests, and the parsing helpers that turn free-text schedule descriptions
// into structured weekly slots. Records are produced by source collaborators
// (tabular exports, JSON feeds, scraped pages) and are immutable once built.
package programs

import "time"

// RawProgramRecord is a source-native drop-in program listing. Field values
// arrive as-is from the upstream feed; the pipeline never mutates a record
// after ingestion.
type RawProgramRecord struct {
	Title    string       `json:"title"`               // Free-text course title, e.g. "Adult Lane Swim"
	Category string       `json:"category,omitempty"`  // Free-text category/age description
	CourseID string       `json:"course_id,omitempty"` // Upstream course identifier, if any
	Location LocationRef  `json:"location"`            // Free-text location reference
	Slots    []WeeklySlot `json:"slots"`               // Weekly recurring time slots
	AgeMin   int          `json:"age_min,omitempty"`   // Minimum age in years, 0 when unstated
	AgeMax   int          `json:"age_max,omitempty"`   // Maximum age in years, 0 when unstated
	Source   string       `json:"source"`              // Producing collaborator, e.g. "tabular-export"
}

// LocationRef is the free-text location reference carried on a listing.
// Only Name is guaranteed; address and postal code improve match confidence
// when present.
type LocationRef struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// WeeklySlot is one recurring weekly time slot on a listing.
type WeeklySlot struct {
	Day   time.Weekday `json:"day"`
	Start TimeOfDay    `json:"start"`
	End   TimeOfDay    `json:"end"`
}

// Valid reports whether the slot is structurally usable: both times set and
// start strictly before end.
func (s WeeklySlot) Valid() bool {
	return !s.Start.IsZero() && !s.End.IsZero() && s.Start < s.End
}

// Duration returns the slot length in minutes. Zero for invalid slots.
func (s WeeklySlot) Duration() int {
	if !s.Valid() {
		return 0
	}
	return int(s.End - s.Start)
}

// Field returns the first non-empty value among candidates. Upstream exports
// disagree on header naming, so decoders probe several spellings per field.
func Field(record map[string]string, names ...string) string {
	for _, name := range names {
		if v := record[name]; v != "" {
			return v
		}
	}
	return ""
}
