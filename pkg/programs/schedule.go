package programs

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// weekdayTokens maps the day spellings seen in upstream schedule text to
// weekdays. Longer spellings are listed alongside their abbreviations; token
// containment is checked against the lower-cased text.
var weekdayTokens = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// timeRangePattern matches ranges like "10:00 AM - 11:30 AM", "6:00AM-7:30AM",
// and "18:00 to 20:00". The end time may omit its AM/PM marker, in which case
// it inherits the start's.
var timeRangePattern = regexp.MustCompile(`(?i)(\d{1,2}(?::\d{2})?\s*(?:AM|PM)?)\s*(?:-|–|to)\s*(\d{1,2}(?::\d{2})?\s*(?:AM|PM)?)`)

var meridiemPattern = regexp.MustCompile(`(?i)(AM|PM)`)

// ParseWeekdays extracts the set of weekdays named in schedule text, sorted
// Sunday-first. Unknown text yields an empty slice, never an error.
func ParseWeekdays(text string) []time.Weekday {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	seen := make(map[time.Weekday]bool)
	for token, day := range weekdayTokens {
		if strings.Contains(lower, token) {
			seen[day] = true
		}
	}

	days := make([]time.Weekday, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// ParseTimeRanges extracts (start, end) clock-time pairs from schedule text.
// Ranges whose end does not come after their start are dropped. A range end
// without an AM/PM marker inherits the marker from its start, matching how
// the upstream feeds abbreviate ("6:00-7:30AM").
func ParseTimeRanges(text string) [][2]TimeOfDay {
	if text == "" {
		return nil
	}

	var ranges [][2]TimeOfDay
	for _, m := range timeRangePattern.FindAllStringSubmatch(text, -1) {
		startStr, endStr := m[1], m[2]

		if !meridiemPattern.MatchString(endStr) {
			if mer := meridiemPattern.FindString(startStr); mer != "" {
				endStr += " " + mer
			}
		} else if !meridiemPattern.MatchString(startStr) {
			// "6:00-7:30AM" style: the start inherits from the end instead.
			if mer := meridiemPattern.FindString(endStr); mer != "" {
				startStr += " " + mer
			}
		}

		start, err := ParseTimeOfDay(startStr)
		if err != nil {
			continue
		}
		end, err := ParseTimeOfDay(endStr)
		if err != nil {
			continue
		}

		if end <= start {
			continue
		}
		ranges = append(ranges, [2]TimeOfDay{start, end})
	}

	return ranges
}

// ParseSchedule expands free-text schedule descriptions ("Mon/Wed 6:00AM -
// 7:30AM") into weekly slots: the cross product of the named weekdays and the
// parsed time ranges. Text with no recognizable days or times yields nil.
func ParseSchedule(text string) []WeeklySlot {
	days := ParseWeekdays(text)
	ranges := ParseTimeRanges(text)
	if len(days) == 0 || len(ranges) == 0 {
		return nil
	}

	slots := make([]WeeklySlot, 0, len(days)*len(ranges))
	for _, day := range days {
		for _, r := range ranges {
			slots = append(slots, WeeklySlot{Day: day, Start: r[0], End: r[1]})
		}
	}
	return slots
}
