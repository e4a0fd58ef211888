package programs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/swimto/poolsync/pkg/errors"
)

// TimeOfDay is a clock time expressed as minutes since midnight. The zero
// value means "unset"; midnight itself never appears in drop-in listings, so
// the ambiguity is acceptable and validation treats 0 as missing.
type TimeOfDay int

// timeOfDayPattern matches "6", "6:30", "06:30" with an optional AM/PM suffix.
var timeOfDayPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?::(\d{2}))?\s*(AM|PM)?\s*$`)

// NewTimeOfDay builds a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses clock-time strings as they appear in schedule feeds.
// Accepted shapes: "10:00 AM", "10:00AM", "22:00", "10AM", "10 am".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.NewParseError("schedule", "", fmt.Sprintf("unparseable time %q", s), nil)
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch strings.ToUpper(m[3]) {
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, errors.NewParseError("schedule", "", fmt.Sprintf("invalid 12-hour time %q", s), nil)
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, errors.NewParseError("schedule", "", fmt.Sprintf("invalid 12-hour time %q", s), nil)
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour > 23 {
			return 0, errors.NewParseError("schedule", "", fmt.Sprintf("invalid 24-hour time %q", s), nil)
		}
	}

	if minute > 59 {
		return 0, errors.NewParseError("schedule", "", fmt.Sprintf("invalid minutes in %q", s), nil)
	}

	return NewTimeOfDay(hour, minute), nil
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component (0-59).
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// IsZero reports whether the time is unset.
func (t TimeOfDay) IsZero() bool { return t == 0 }

// String formats the time as 24-hour "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalJSON encodes the time as an "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes an "HH:MM" (or feed-style 12-hour) string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
