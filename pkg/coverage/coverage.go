// Package coverage summarizes when and where swim sessions are
// available across a schedule.
package coverage

import (
	"fmt"
	"sort"
	"time"

	"github.com/swimto/poolsync/pkg/sessions"
)

// Operating window used for gap detection. Hours outside it are not
// expected to have programming.
const (
	OpenHour  = 6
	CloseHour = 22
)

// PeakTime is an hour of day ranked by how many sessions run during it.
type PeakTime struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Gap flags a span of the operating window with little or no coverage.
type Gap struct {
	Kind    string `json:"kind"` // "hour" or "day"
	Hour    int    `json:"hour,omitempty"`
	Day     string `json:"day,omitempty"`
	Message string `json:"message"`
}

// Summary is the coverage picture for one set of sessions. ByDay is
// indexed by time.Weekday (Sunday first), ByHour by hour of day.
type Summary struct {
	Total           int           `json:"total_sessions"`
	FacilitiesCount int           `json:"facilities_count"`
	ByDay           [7]int        `json:"by_day"`
	ByHour          [24]int       `json:"by_hour"`
	PeakTimes       []PeakTime    `json:"peak_times,omitempty"`
	Gaps            []Gap         `json:"gaps,omitempty"`
	EarliestDate    sessions.Date `json:"earliest_date,omitzero"`
	LatestDate      sessions.Date `json:"latest_date,omitzero"`
}

// Analyze builds a coverage summary. A session counts toward every hour
// its time range touches, so an 18:00 to 20:30 session increments hours
// 18, 19, and 20.
func Analyze(list []sessions.Session) Summary {
	s := Summary{Total: len(list)}

	facilities := make(map[string]struct{})
	for _, sess := range list {
		if sess.Matched() {
			facilities[sess.FacilityID] = struct{}{}
		}
		if !sess.Date.IsZero() {
			s.ByDay[sess.Date.Weekday()]++
			if s.EarliestDate.IsZero() || sess.Date.Before(s.EarliestDate) {
				s.EarliestDate = sess.Date
			}
			if s.LatestDate.IsZero() || sess.Date.After(s.LatestDate) {
				s.LatestDate = sess.Date
			}
		}
		for _, h := range touchedHours(sess) {
			s.ByHour[h]++
		}
	}
	s.FacilitiesCount = len(facilities)
	s.PeakTimes = peakTimes(s.ByHour)
	s.Gaps = findGaps(s)
	return s
}

// touchedHours returns each hour of day the session runs during, using
// the half-open range [Start, End).
func touchedHours(s sessions.Session) []int {
	if s.Start.IsZero() || s.End.IsZero() || s.Start >= s.End {
		return nil
	}
	first := s.Start.Hour()
	last := s.End.Hour()
	if s.End.Minute() == 0 {
		last--
	}
	var hours []int
	for h := first; h <= last && h < 24; h++ {
		hours = append(hours, h)
	}
	return hours
}

// peakTimes returns the five busiest hours, most sessions first,
// earlier hour winning ties.
func peakTimes(byHour [24]int) []PeakTime {
	var peaks []PeakTime
	for h, count := range byHour {
		if count > 0 {
			peaks = append(peaks, PeakTime{Hour: h, Count: count})
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool {
		if peaks[i].Count != peaks[j].Count {
			return peaks[i].Count > peaks[j].Count
		}
		return peaks[i].Hour < peaks[j].Hour
	})
	if len(peaks) > 5 {
		peaks = peaks[:5]
	}
	return peaks
}

func findGaps(s Summary) []Gap {
	var gaps []Gap
	for h := OpenHour; h < CloseHour; h++ {
		if s.ByHour[h] == 0 {
			gaps = append(gaps, Gap{
				Kind:    "hour",
				Hour:    h,
				Message: fmt.Sprintf("no sessions between %02d:00 and %02d:00", h, h+1),
			})
		}
	}

	// A day well below the average of the covered days signals thin
	// scheduling rather than an intentional closure.
	total, covered := 0, 0
	for _, count := range s.ByDay {
		total += count
		if count > 0 {
			covered++
		}
	}
	if covered > 1 {
		avg := float64(total) / float64(covered)
		for d := time.Sunday; d <= time.Saturday; d++ {
			count := s.ByDay[d]
			if count > 0 && float64(count) < avg/2 {
				gaps = append(gaps, Gap{
					Kind:    "day",
					Day:     d.String(),
					Message: fmt.Sprintf("%s has %d sessions, well below the daily average of %.1f", d, count, avg),
				})
			}
		}
	}
	return gaps
}
