package draw

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(y int, m time.Month, d, h, min, sec int) time.Time {
	return time.Date(y, m, d, h, min, sec, 0, time.UTC)
}

func TestNextDraw_Scenarios(t *testing.T) {
	s := DefaultSchedule()
	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{"friday evening goes to saturday", time.Date(2022, 8, 5, 19, 30, 15, 1_000_000, time.UTC), at(2022, 8, 6, 20, 0, 0)},
		{"saturday at draw hour goes to wednesday", at(2022, 8, 6, 20, 0, 0), at(2022, 8, 10, 20, 0, 0)},
		{"wednesday noon is same day", at(2022, 8, 3, 12, 0, 0), at(2022, 8, 3, 20, 0, 0)},
		{"monday goes to wednesday", at(2022, 2, 21, 12, 0, 0), at(2022, 2, 23, 20, 0, 0)},
		{"thursday goes to saturday", at(2015, 1, 1, 12, 0, 0), at(2015, 1, 3, 20, 0, 0)},
		{"wednesday at draw hour goes to next wednesday", at(2022, 8, 3, 20, 0, 0), at(2022, 8, 10, 20, 0, 0)},
		{"wednesday late goes to next wednesday", at(2022, 8, 3, 23, 59, 59), at(2022, 8, 10, 20, 0, 0)},
		{"saturday late goes to wednesday", at(2022, 8, 6, 23, 0, 0), at(2022, 8, 10, 20, 0, 0)},
		{"friday just before midnight goes to saturday", at(2022, 8, 5, 23, 59, 59), at(2022, 8, 6, 20, 0, 0)},
		{"saturday just before draw", at(2022, 8, 6, 19, 59, 59), at(2022, 8, 6, 20, 0, 0)},
		{"sunday goes to wednesday", at(2022, 8, 7, 9, 0, 0), at(2022, 8, 10, 20, 0, 0)},
		{"tuesday across month end", at(2022, 5, 31, 21, 0, 0), at(2022, 6, 1, 20, 0, 0)},
		{"friday across year end", at(2021, 12, 31, 22, 0, 0), at(2022, 1, 1, 20, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.NextDraw(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "NextDraw(%s) = %s, want %s", tt.input, got, tt.want)
		})
	}
}

func TestNextDraw_Properties(t *testing.T) {
	s := DefaultSchedule()
	start := at(2023, 12, 25, 0, 0, 0)
	for i := 0; i < 24*7*3*4; i++ {
		input := start.Add(time.Duration(i) * 15 * time.Minute)
		got, err := s.NextDraw(input)
		require.NoError(t, err)

		wd := got.Weekday()
		require.True(t, wd == time.Wednesday || wd == time.Saturday, "draw on %s for %s", wd, input)
		require.Equal(t, 20, got.Hour())
		require.Zero(t, got.Minute())
		require.Zero(t, got.Second())
		require.Zero(t, got.Nanosecond())
		require.True(t, got.After(input), "draw %s not after %s", got, input)
		require.LessOrEqual(t, got.Sub(input), 7*24*time.Hour)
		require.True(t, s.IsDrawTime(got))
	}
}

func TestNextDraw_DrawInstantIsNotAFixedPoint(t *testing.T) {
	s := DefaultSchedule()
	d := at(2022, 8, 6, 20, 0, 0)
	next, err := s.NextDraw(d)
	require.NoError(t, err)
	assert.True(t, next.After(d))
	again, err := s.NextDraw(next)
	require.NoError(t, err)
	assert.True(t, again.After(next))
}

func TestNextDraw_KeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Lisbon")
	require.NoError(t, err)

	// Saturday before the end of summer time; the next Wednesday is in winter time.
	input := time.Date(2022, 10, 29, 21, 0, 0, 0, loc)
	got, err := DefaultSchedule().NextDraw(input)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 11, 2, 20, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestNextDraw_InvalidInput(t *testing.T) {
	_, err := DefaultSchedule().NextDraw(time.Time{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var ie *InvalidInputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "date must be a valid date", ie.Reason)
}

func TestNextWeekday(t *testing.T) {
	friday := at(2022, 8, 5, 0, 0, 0)

	got, err := NextWeekday(time.Friday, friday)
	require.NoError(t, err)
	assert.Equal(t, at(2022, 8, 12, 0, 0, 0), got)

	got, err = NextWeekday(time.Saturday, at(2022, 8, 5, 23, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, at(2022, 8, 6, 0, 0, 0), got)

	got, err = NextWeekday(time.Thursday, friday)
	require.NoError(t, err)
	assert.Equal(t, at(2022, 8, 11, 0, 0, 0), got)
}

func TestNextWeekday_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		target time.Weekday
		from   time.Time
		reason string
	}{
		{"negative weekday", -1, at(2022, 8, 5, 0, 0, 0), "the day of the week must be between 0 and 6"},
		{"weekday seven", 7, at(2022, 8, 5, 0, 0, 0), "the day of the week must be between 0 and 6"},
		{"zero time", time.Monday, time.Time{}, "date must be a valid date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NextWeekday(tt.target, tt.from)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.EqualError(t, err, tt.reason)
		})
	}
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2022-08-05T19:30", at(2022, 8, 5, 19, 30, 0)},
		{"2022-08-05T19:30:15", at(2022, 8, 5, 19, 30, 15)},
		{" 2022-08-05 19:30 ", at(2022, 8, 5, 19, 30, 0)},
		{"05-08-2022 19:30", at(2022, 8, 5, 19, 30, 0)},
		{"05-08-2022", at(2022, 8, 5, 0, 0, 0)},
		{"2022-08-05", at(2022, 8, 5, 0, 0, 0)},
	}
	for _, tt := range tests {
		got, err := ParseInstant(tt.in, time.UTC)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "invalid date", "31-02-2022", "2022-13-01T10:00", "2022-08-05T25:00"} {
		_, err := ParseInstant(bad, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestParseInstant_RejectsDSTGap(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Lisbon")
	require.NoError(t, err)

	// Clocks jump from 01:00 to 02:00 on 2022-03-27 in Lisbon.
	_, err = ParseInstant("2022-03-27T01:30", loc)
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := ParseInstant("2022-03-27T02:30", loc)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestNewSchedule(t *testing.T) {
	_, err := NewSchedule(24, time.Monday)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSchedule(20)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSchedule(20, time.Weekday(9))
	assert.ErrorIs(t, err, ErrInvalidInput)

	s, err := NewSchedule(9, time.Monday)
	require.NoError(t, err)
	got, err := s.NextDraw(at(2022, 8, 1, 9, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, at(2022, 8, 8, 9, 0, 0), got)
}

func TestSchedule_Describe(t *testing.T) {
	s := DefaultSchedule()
	assert.Equal(t, []time.Weekday{time.Wednesday, time.Saturday}, s.Days())
	assert.Equal(t, 20, s.Hour())
	assert.Equal(t, "0 0 20 * * 3,6", s.CronSpec())
	assert.Equal(t, "Wednesday and Saturday at 20:00", s.String())
	assert.True(t, s.IsDrawTime(at(2022, 8, 3, 20, 0, 0)))
	assert.False(t, s.IsDrawTime(at(2022, 8, 3, 20, 0, 1)))
	assert.False(t, s.IsDrawTime(at(2022, 8, 4, 20, 0, 0)))
}
