package model

import (
	"fmt"
	"time"
)

// DayLayout is the wire format for calendar days.
const DayLayout = "2006-01-02"

// Day is a calendar date in YYYY-MM-DD form. The ISO layout makes
// lexicographic comparison agree with chronological order.
type Day string

// NewDay truncates t to its calendar day in t's location.
func NewDay(t time.Time) Day {
	return Day(t.Format(DayLayout))
}

// ParseDay validates s as a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(DayLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return Day(s), nil
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return NewDay(d.Time().AddDate(0, 0, 1))
}

// Before reports whether d precedes o.
func (d Day) Before(o Day) bool { return d < o }

// After reports whether d follows o.
func (d Day) After(o Day) bool { return d > o }

// Days enumerates [from, to] inclusive in ascending order. An inverted
// range yields nil.
func Days(from, to Day) []Day {
	if from.After(to) {
		return nil
	}
	var out []Day
	for d := from; !d.After(to); d = d.Next() {
		out = append(out, d)
	}
	return out
}
