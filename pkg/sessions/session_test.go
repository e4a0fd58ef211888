package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/swimto/poolsync/pkg/programs"
)

func TestHashStability(t *testing.T) {
	date := MustDate("2025-11-05")
	start := programs.NewTimeOfDay(18, 0)

	first := Hash("FAC001", date, start, LaneSwim)
	second := Hash("FAC001", date, start, LaneSwim)

	assert.Equal(t, first, second, "same inputs must produce the same hash")
	assert.Len(t, first, 64)
}

func TestHashChangesWithEachField(t *testing.T) {
	date := MustDate("2025-11-05")
	start := programs.NewTimeOfDay(18, 0)
	base := Hash("FAC001", date, start, LaneSwim)

	assert.NotEqual(t, base, Hash("FAC002", date, start, LaneSwim), "facility change")
	assert.NotEqual(t, base, Hash("FAC001", date.AddDays(1), start, LaneSwim), "date change")
	assert.NotEqual(t, base, Hash("FAC001", date, programs.NewTimeOfDay(18, 5), LaneSwim), "start change")
	assert.NotEqual(t, base, Hash("FAC001", date, start, Recreational), "type change")
}

func TestComputeHash(t *testing.T) {
	s := Session{
		FacilityID: "FAC001",
		SwimType:   LaneSwim,
		Date:       MustDate("2025-11-05"),
		Start:      programs.NewTimeOfDay(18, 0),
		End:        programs.NewTimeOfDay(20, 0),
	}
	s.ComputeHash()

	assert.Equal(t, Hash("FAC001", s.Date, s.Start, LaneSwim), s.ContentHash)
}

func TestOverlapsHalfOpen(t *testing.T) {
	a := Session{Start: programs.NewTimeOfDay(18, 0), End: programs.NewTimeOfDay(19, 0)}
	b := Session{Start: programs.NewTimeOfDay(19, 0), End: programs.NewTimeOfDay(20, 0)}
	c := Session{Start: programs.NewTimeOfDay(18, 30), End: programs.NewTimeOfDay(19, 30)}

	assert.False(t, a.Overlaps(&b), "touching endpoints do not conflict")
	assert.False(t, b.Overlaps(&a))
	assert.True(t, a.Overlaps(&c))
	assert.True(t, c.Overlaps(&b))
}

func TestSwimTypeValid(t *testing.T) {
	for _, st := range SwimTypes() {
		assert.True(t, st.Valid(), st)
	}
	assert.False(t, SwimType("WATER_POLO").Valid())
	assert.False(t, SwimType("").Valid())
}

func TestSwimTypePriorityOrdering(t *testing.T) {
	assert.Greater(t, LaneSwim.Priority(), Recreational.Priority(),
		"lane swim must outrank recreational")
	assert.Greater(t, LaneSwim.Priority(), AdultSwim.Priority())
	assert.Zero(t, SwimType("UNKNOWN").Priority())
}

func TestDateArithmetic(t *testing.T) {
	d := MustDate("2025-11-05")

	assert.Equal(t, time.Wednesday, d.Weekday())
	assert.Equal(t, "2025-11-12", d.AddDays(7).String())
	assert.Equal(t, 7, d.DaysUntil(d.AddDays(7)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
}

func TestDateParseRejectsGarbage(t *testing.T) {
	_, err := ParseDate("2025-13-45")
	assert.Error(t, err)
	_, err = ParseDate("tomorrow")
	assert.Error(t, err)
}
