package draw

import (
	"strings"
	"time"
)

// inputLayouts are the accepted textual forms of an instant, most specific first.
// The first two match what an HTML datetime-local control submits.
var inputLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"2006-01-02",
}

// ValidateInstant rejects the zero time, which stands in for "not a date".
func ValidateInstant(t time.Time) error {
	if t.IsZero() {
		return invalid("date must be a valid date")
	}
	return nil
}

// ParseInstant parses s as a wall-clock instant in loc. Nothing is clamped:
// "31-02-2022" fails instead of rolling into March.
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, invalid("date must be a valid date")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range inputLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		// A wall time inside a DST gap is moved by ParseInLocation.
		wall, _ := time.Parse(layout, s)
		if !sameWallClock(t, wall) {
			return time.Time{}, invalid("date must be a valid date")
		}
		return t, nil
	}
	return time.Time{}, invalid("date must be a valid date")
}

func sameWallClock(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute() && a.Second() == b.Second()
}

// NextWeekday returns midnight of the first date strictly after from that
// falls on target, between one and seven days ahead.
func NextWeekday(target time.Weekday, from time.Time) (time.Time, error) {
	if target < time.Sunday || target > time.Saturday {
		return time.Time{}, invalid("the day of the week must be between 0 and 6")
	}
	if err := ValidateInstant(from); err != nil {
		return time.Time{}, err
	}
	y, m, d := from.Date()
	return time.Date(y, m, d+daysUntil(from.Weekday(), target), 0, 0, 0, 0, from.Location()), nil
}

// daysUntil is ((7 - day + target) % 7) || 7.
func daysUntil(day, target time.Weekday) int {
	n := (7 - int(day) + int(target)) % 7
	if n == 0 {
		return 7
	}
	return n
}
