package datelabel

import (
	"github.com/lewtec/photolabel/internal/domain"
)

// MonthsBetween counts the whole calendar months separating a and b. The
// count is anchored on the date with the later day of month, so 31 January
// and 28 February are one month apart. Always non-negative.
func MonthsBetween(a, b domain.Date) int {
	n := signedMonths(a, b)
	if n < 0 {
		return -n
	}
	return n
}

func signedMonths(a, b domain.Date) int {
	if a.Day() < b.Day() {
		return -signedMonths(b, a)
	}
	whole := (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	anchor := a.AddMonths(whole)
	switch {
	case b.Before(anchor):
		// partial month towards a
		if whole > 0 {
			return whole - 1
		}
	case b.After(anchor):
		// partial month away from a
		if whole < 0 {
			return whole + 1
		}
	}
	return whole
}

// DaysBetween counts the calendar days separating a and b, always
// non-negative.
func DaysBetween(a, b domain.Date) int {
	n := a.DayNumber() - b.DayNumber()
	if n < 0 {
		n = -n
	}
	return int(n)
}
