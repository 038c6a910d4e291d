// Package dates provides a calendar-date value type for coverage intervals
// and claim dates. Comparisons are by day only; there is no time-of-day
// component.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const layout = "2006-01-02"

// Date is a calendar date in UTC, normalized to midnight. Optional dates are
// modeled as *Date so that JSON null round-trips.
type Date struct {
	t time.Time
}

// New builds a Date from year, month, and day.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a timestamp to its calendar date in UTC.
func FromTime(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return New(y, m, d)
}

// Today returns the current calendar date in UTC.
func Today() Date {
	return FromTime(time.Now())
}

// Parse parses a strict YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse parses a YYYY-MM-DD string and panics on failure. Test helper.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return d.t.Format(layout)
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return FromTime(d.t.AddDate(0, 0, n))
}

// AddYears returns the date n years later.
func (d Date) AddYears(n int) Date {
	return FromTime(d.t.AddDate(n, 0, 0))
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
