package domain

import (
	"fmt"
	"time"
)

const isoDateLayout = "2006-01-02"

// Date is a calendar day without time of day. The zero value is the
// invalid date.
type Date struct {
	t     time.Time
	valid bool
}

// NewDate builds a date, normalizing out of range values the way
// time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), valid: true}
}

// DateOf truncates t to the calendar day it falls on in its own location
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses an ISO YYYY-MM-DD date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("while parsing date %q: %w", s, err)
	}
	return Date{t: t, valid: true}, nil
}

func (d Date) Valid() bool {
	return d.valid
}

func (d Date) Year() int {
	return d.t.Year()
}

func (d Date) Month() time.Month {
	return d.t.Month()
}

func (d Date) Day() int {
	return d.t.Day()
}

// Time returns midnight UTC of the day
func (d Date) Time() time.Time {
	return d.t
}

// AddMonths moves the date by n calendar months, clamping the day to the
// last day of the target month.
func (d Date) AddMonths(n int) Date {
	if !d.Valid() {
		return d
	}
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}

// DayNumber counts days since the Unix epoch
func (d Date) DayNumber() int64 {
	return d.t.Unix() / 86400
}

func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

func (d Date) After(o Date) bool {
	return d.t.After(o.t)
}

func (d Date) Equal(o Date) bool {
	return d.valid == o.valid && d.t.Equal(o.t)
}

// Format renders the date with a time layout, or "" for the invalid date
func (d Date) Format(layout string) string {
	if !d.Valid() {
		return ""
	}
	return d.t.Format(layout)
}

func (d Date) String() string {
	return d.Format(isoDateLayout)
}

// DateSource tells where a candidate date came from
type DateSource string

const (
	SourceNone     DateSource = "none"
	SourceMetadata DateSource = "metadata"
	SourceFilename DateSource = "filename"
	SourceModified DateSource = "modified"
	SourceUser     DateSource = "user"
)

// CandidateDate is the date proposed for the label of the loaded image
type CandidateDate struct {
	Date
	Source DateSource
}
