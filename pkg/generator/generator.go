// Package generator expands weekly program schedules into dated swim
// sessions over a configurable horizon.
package generator

import (
	"fmt"
	"time"

	"github.com/swimto/poolsync/pkg/classifier"
	"github.com/swimto/poolsync/pkg/matcher"
	"github.com/swimto/poolsync/pkg/programs"
	"github.com/swimto/poolsync/pkg/sessions"
)

// DefaultWeeks is the number of future weeks covered when no override
// is given.
const DefaultWeeks = 4

// Generator turns a classified, matched program record into concrete
// sessions. The zero value is not usable; construct with New.
type Generator struct {
	start  sessions.Date
	weeks  int
	source string
}

// Option configures a Generator.
type Option func(*Generator) error

// WithStart pins the first day of the generation window. Defaults to
// today in local time.
func WithStart(d sessions.Date) Option {
	return func(g *Generator) error {
		if d.IsZero() {
			return fmt.Errorf("generator: start date is unset")
		}
		g.start = d
		return nil
	}
}

// WithWeeks sets how many weeks ahead to generate.
func WithWeeks(weeks int) Option {
	return func(g *Generator) error {
		if weeks < 1 {
			return fmt.Errorf("generator: weeks must be positive, got %d", weeks)
		}
		g.weeks = weeks
		return nil
	}
}

// WithSource stamps generated sessions with a source identifier,
// overriding the record's own.
func WithSource(source string) Option {
	return func(g *Generator) error {
		g.source = source
		return nil
	}
}

// New builds a Generator.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		start: sessions.DateOf(time.Now()),
		weeks: DefaultWeeks,
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Generate expands the record's weekly slots across the window. Slots
// with a zero or inverted time range are skipped and counted, never
// fatal; a record with no usable slots yields an empty slice. An
// unmatched facility (nil match) still produces sessions so the
// pipeline can report them.
func (g *Generator) Generate(rec programs.RawProgramRecord, act classifier.Activity, match *matcher.Match) ([]sessions.Session, int) {
	var out []sessions.Session
	skipped := 0

	facilityID := ""
	confidence := 0.0
	if match != nil {
		facilityID = match.FacilityID
		confidence = match.Confidence
	}

	notes := buildNotes(rec)

	for _, slot := range rec.Slots {
		if !slot.Valid() {
			skipped++
			continue
		}
		// Days until the first occurrence of slot.Day on or after start.
		offset := (int(slot.Day) - int(g.start.Weekday()) + 7) % 7
		for w := 0; w < g.weeks; w++ {
			date := g.start.AddDays(offset + 7*w)
			s := sessions.Session{
				FacilityID:      facilityID,
				FacilityName:    rec.Location.Name,
				CourseName:      rec.Title,
				SwimType:        act.SwimType,
				Date:            date,
				Start:           slot.Start,
				End:             slot.End,
				Notes:           notes,
				Tags:            act.Tags,
				Source:          g.sourceFor(rec),
				MatchConfidence: confidence,
			}
			s.ComputeHash()
			out = append(out, s)
		}
	}
	return out, skipped
}

func (g *Generator) sourceFor(rec programs.RawProgramRecord) string {
	if g.source != "" {
		return g.source
	}
	return rec.Source
}

func buildNotes(rec programs.RawProgramRecord) string {
	switch {
	case rec.AgeMin > 0 && rec.AgeMax > 0:
		return fmt.Sprintf("Ages %d-%d", rec.AgeMin, rec.AgeMax)
	case rec.AgeMin > 0:
		return fmt.Sprintf("Ages %d+", rec.AgeMin)
	case rec.AgeMax > 0:
		return fmt.Sprintf("Ages %d and under", rec.AgeMax)
	case rec.Category != "":
		return rec.Category
	}
	return ""
}
