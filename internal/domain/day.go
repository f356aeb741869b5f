package domain

import (
	"fmt"
	"time"
)

// Day is a naive calendar day with no time-of-day or timezone component.
// All arithmetic happens on a UTC-midnight instant so that enumerating a
// range never skips or repeats a day across DST boundaries.
type Day struct {
	t time.Time
}

// NewDay constructs a Day from calendar components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates an arbitrary instant to its calendar day.
// The instant's own location decides which day it falls on.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day in local time.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a "YYYY-MM-DD" string.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// String returns the canonical "YYYY-MM-DD" form.
func (d Day) String() string {
	return d.t.Format("2006-01-02")
}

// Year returns the calendar year.
func (d Day) Year() int { return d.t.Year() }

// Month returns the calendar month.
func (d Day) Month() time.Month { return d.t.Month() }

// DayOfMonth returns the day of the month (1-31).
func (d Day) DayOfMonth() int { return d.t.Day() }

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// AddDays returns the day n calendar days later (or earlier for negative n).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly before other.
func (d Day) Before(other Day) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d Day) After(other Day) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same calendar day.
func (d Day) Equal(other Day) bool { return d.t.Equal(other.t) }

// DaysBetween returns the signed number of days from a to b.
// DaysBetween(a, a) == 0; DaysBetween(a, a.AddDays(1)) == 1.
func DaysBetween(a, b Day) int {
	return int(b.t.Sub(a.t) / (24 * time.Hour))
}

// StartOfWeek returns the Monday of d's week. Weeks run Monday-Sunday,
// so a Sunday maps six days back.
func (d Day) StartOfWeek() Day {
	offset := (int(d.t.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// ShortLabel returns the compact axis label, e.g. "2 Jan".
// With withYear it appends a two-digit year suffix: "2 Jan '24".
func (d Day) ShortLabel(withYear bool) string {
	if withYear {
		return fmt.Sprintf("%d %s '%02d", d.t.Day(), d.t.Format("Jan"), d.t.Year()%100)
	}
	return fmt.Sprintf("%d %s", d.t.Day(), d.t.Format("Jan"))
}

// FullLabel returns the long display label, e.g. "2 January 2024".
func (d Day) FullLabel() string {
	return fmt.Sprintf("%d %s %d", d.t.Day(), d.t.Format("January"), d.t.Year())
}

// MonthShortLabel returns the monthly-bucket axis label, e.g. "Jan '24".
func (d Day) MonthShortLabel() string {
	return fmt.Sprintf("%s '%02d", d.t.Format("Jan"), d.t.Year()%100)
}

// MonthFullLabel returns the long monthly label, e.g. "January 2024".
func (d Day) MonthFullLabel() string {
	return fmt.Sprintf("%s %d", d.t.Format("January"), d.t.Year())
}

// MarshalJSON encodes the day as its canonical string form.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" JSON string.
func (d *Day) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid day %s", s)
	}
	parsed, err := ParseDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
