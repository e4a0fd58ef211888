package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swimto/poolsync/pkg/classifier"
	"github.com/swimto/poolsync/pkg/matcher"
	"github.com/swimto/poolsync/pkg/programs"
	"github.com/swimto/poolsync/pkg/sessions"
)

func mustTime(t *testing.T, s string) programs.TimeOfDay {
	t.Helper()
	tod, err := programs.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func laneRecord(t *testing.T) programs.RawProgramRecord {
	t.Helper()
	return programs.RawProgramRecord{
		Title: "Adult Lane Swim",
		Location: programs.LocationRef{
			Name: "High Park Pool",
		},
		Slots: []programs.WeeklySlot{
			{Day: time.Wednesday, Start: mustTime(t, "18:00"), End: mustTime(t, "20:00")},
		},
		Source: "city-api",
	}
}

func TestGenerateWindow(t *testing.T) {
	// 2025-11-03 is a Monday.
	g, err := New(WithStart(sessions.MustDate("2025-11-03")), WithWeeks(4))
	require.NoError(t, err)

	act := classifier.Activity{SwimType: sessions.LaneSwim, Confidence: 1.0}
	match := &matcher.Match{FacilityID: "FAC001", Confidence: 0.9}

	got, skipped := g.Generate(laneRecord(t), act, match)
	require.Len(t, got, 4)
	assert.Zero(t, skipped)

	// Wednesdays only, one per week, all inside the window.
	last := sessions.MustDate("2025-11-03").AddDays(4 * 7)
	for i, s := range got {
		assert.Equal(t, time.Wednesday, s.Date.Weekday())
		assert.True(t, s.Date.Before(last), "session %d past window end", i)
		assert.Equal(t, "FAC001", s.FacilityID)
		assert.Equal(t, sessions.LaneSwim, s.SwimType)
		assert.NotEmpty(t, s.ContentHash)
	}
	assert.Equal(t, sessions.MustDate("2025-11-05"), got[0].Date)
	assert.Equal(t, sessions.MustDate("2025-11-26"), got[3].Date)
}

func TestGenerateStartDayIncluded(t *testing.T) {
	// Start on the slot's own weekday: first occurrence is the start
	// date itself, not a week later.
	g, err := New(WithStart(sessions.MustDate("2025-11-05")), WithWeeks(2))
	require.NoError(t, err)

	got, _ := g.Generate(laneRecord(t), classifier.Activity{SwimType: sessions.LaneSwim}, nil)
	require.Len(t, got, 2)
	assert.Equal(t, sessions.MustDate("2025-11-05"), got[0].Date)
	assert.Equal(t, sessions.MustDate("2025-11-12"), got[1].Date)
}

func TestGenerateSkipsInvalidSlots(t *testing.T) {
	rec := laneRecord(t)
	rec.Slots = append(rec.Slots,
		programs.WeeklySlot{Day: time.Friday}, // no times
		programs.WeeklySlot{Day: time.Friday, Start: mustTime(t, "20:00"), End: mustTime(t, "18:00")},   // inverted
		programs.WeeklySlot{Day: time.Saturday, Start: mustTime(t, "09:00"), End: mustTime(t, "09:00")}, // zero length
	)

	g, err := New(WithStart(sessions.MustDate("2025-11-03")), WithWeeks(1))
	require.NoError(t, err)

	got, skipped := g.Generate(rec, classifier.Activity{SwimType: sessions.LaneSwim}, nil)
	assert.Len(t, got, 1)
	assert.Equal(t, 3, skipped)
}

func TestGenerateUnmatchedFacility(t *testing.T) {
	g, err := New(WithStart(sessions.MustDate("2025-11-03")), WithWeeks(1))
	require.NoError(t, err)

	got, _ := g.Generate(laneRecord(t), classifier.Activity{SwimType: sessions.Recreational}, nil)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].FacilityID)
	assert.False(t, got[0].Matched())
	assert.Zero(t, got[0].MatchConfidence)
	assert.Equal(t, "High Park Pool", got[0].FacilityName)
}

func TestGenerateNotes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*programs.RawProgramRecord)
		want   string
	}{
		{"age range", func(r *programs.RawProgramRecord) { r.AgeMin, r.AgeMax = 19, 54 }, "Ages 19-54"},
		{"min only", func(r *programs.RawProgramRecord) { r.AgeMin = 60 }, "Ages 60+"},
		{"max only", func(r *programs.RawProgramRecord) { r.AgeMax = 12 }, "Ages 12 and under"},
		{"category fallback", func(r *programs.RawProgramRecord) { r.Category = "Swimming" }, "Swimming"},
		{"nothing", func(r *programs.RawProgramRecord) {}, ""},
	}

	g, err := New(WithStart(sessions.MustDate("2025-11-03")), WithWeeks(1))
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := laneRecord(t)
			tt.mutate(&rec)
			got, _ := g.Generate(rec, classifier.Activity{SwimType: sessions.LaneSwim}, nil)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Notes)
		})
	}
}

func TestGenerateSourceOverride(t *testing.T) {
	g, err := New(
		WithStart(sessions.MustDate("2025-11-03")),
		WithWeeks(1),
		WithSource("bulk-import"),
	)
	require.NoError(t, err)

	got, _ := g.Generate(laneRecord(t), classifier.Activity{SwimType: sessions.LaneSwim}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "bulk-import", got[0].Source)
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(WithWeeks(0))
	assert.Error(t, err)

	_, err = New(WithStart(sessions.Date{}))
	assert.Error(t, err)
}
