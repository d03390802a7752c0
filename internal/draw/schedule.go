// Package draw resolves the next lottery draw for an arbitrary instant.
package draw

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DrawHour is the hour of day at which every draw takes place.
const DrawHour = 20

// Schedule is a weekly draw calendar: a set of weekdays and one draw hour.
// The zero value is not usable; obtain one from DefaultSchedule.
type Schedule struct {
	days [7]bool
	hour int
}

// DefaultSchedule returns the Wednesday and Saturday 20:00 draw calendar.
func DefaultSchedule() Schedule {
	s, _ := NewSchedule(DrawHour, time.Wednesday, time.Saturday)
	return s
}

// NewSchedule builds a schedule drawing at hour on each of days.
func NewSchedule(hour int, days ...time.Weekday) (Schedule, error) {
	if hour < 0 || hour > 23 {
		return Schedule{}, invalid(fmt.Sprintf("draw hour %d out of range 0..23", hour))
	}
	if len(days) == 0 {
		return Schedule{}, invalid("schedule needs at least one draw day")
	}
	s := Schedule{hour: hour}
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return Schedule{}, invalid("the day of the week must be between 0 and 6")
		}
		s.days[d] = true
	}
	return s, nil
}

// Hour returns the draw hour.
func (s Schedule) Hour() int { return s.hour }

// Days returns the draw weekdays in Sunday-first order.
func (s Schedule) Days() []time.Weekday {
	var out []time.Weekday
	for d, ok := range s.days {
		if ok {
			out = append(out, time.Weekday(d))
		}
	}
	return out
}

// IsDrawDay reports whether a draw takes place on day.
func (s Schedule) IsDrawDay(day time.Weekday) bool {
	return day >= time.Sunday && day <= time.Saturday && s.days[day]
}

// IsDrawTime reports whether t is exactly a draw instant.
func (s Schedule) IsDrawTime(t time.Time) bool {
	return !t.IsZero() && s.IsDrawDay(t.Weekday()) && t.Equal(s.at(t))
}

// NextDraw returns the next draw at or after input. A draw day before the
// draw hour resolves to the same day. Otherwise see nextDrawDay; the result
// is never input itself.
func (s Schedule) NextDraw(input time.Time) (time.Time, error) {
	if err := ValidateInstant(input); err != nil {
		return time.Time{}, err
	}
	day := input.Weekday()
	if s.IsDrawDay(day) && input.Hour() < s.hour {
		return s.at(input), nil
	}

	next, err := NextWeekday(s.nextDrawDay(day), input)
	if err != nil {
		return time.Time{}, err
	}
	return s.at(next), nil
}

// nextDrawDay picks the target weekday once today's draw is out of reach.
// A day between two draw days of the same (Sunday-first) week targets the
// later one. A draw day whose draw has passed, or a day after the last draw
// of the week, targets the first draw weekday. With Wednesday and Saturday:
// Thursday and Friday go to Saturday, everything else to Wednesday.
func (s Schedule) nextDrawDay(day time.Weekday) time.Weekday {
	first := time.Weekday(-1)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if !s.days[d] {
			continue
		}
		if first < 0 {
			first = d
		}
		if d > day && !s.days[day] {
			return d
		}
	}
	return first
}

// at moves t to the draw hour of its own date.
func (s Schedule) at(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, s.hour, 0, 0, 0, t.Location())
}

// CronSpec renders the schedule as a six-field (seconds first) cron expression.
func (s Schedule) CronSpec() string {
	days := s.Days()
	fields := make([]string, len(days))
	for i, d := range days {
		fields[i] = strconv.Itoa(int(d))
	}
	return fmt.Sprintf("0 0 %d * * %s", s.hour, strings.Join(fields, ","))
}

func (s Schedule) String() string {
	names := make([]string, 0, 2)
	for _, d := range s.Days() {
		names = append(names, d.String())
	}
	return fmt.Sprintf("%s at %02d:00", strings.Join(names, " and "), s.hour)
}
