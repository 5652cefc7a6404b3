package datelabel

import (
	"strconv"
	"strings"

	"github.com/lewtec/photolabel/internal/domain"
)

// BaseLayout is the day-first layout of the label
const BaseLayout = "02-01-2006"

const suffixSeparator = " - "

// Format builds the label for a candidate date. An invalid candidate gives
// "". A valid comparison date appends the distance between both dates in
// the largest non-empty unit tier.
func Format(candidate, comparison domain.Date, p Pluralizer) string {
	if !candidate.Valid() {
		return ""
	}
	if p == nil {
		p = English
	}
	label := candidate.Format(BaseLayout)
	if suffix := Suffix(candidate, comparison, p); suffix != "" {
		label += suffixSeparator + suffix
	}
	return label
}

// Suffix renders the relative distance between two dates, or "" when the
// comparison date is invalid.
func Suffix(candidate, comparison domain.Date, p Pluralizer) string {
	if !candidate.Valid() || !comparison.Valid() {
		return ""
	}
	if months := MonthsBetween(candidate, comparison); months != 0 {
		return MonthsToText(months, p)
	}
	days := DaysBetween(candidate, comparison)
	return quantity(days, KeyDay, p)
}

// MonthsToText splits a month count into years and remaining months,
// leaving out whichever part is zero.
func MonthsToText(months int, p Pluralizer) string {
	years, rest := months/12, months%12
	var parts []string
	if years > 0 {
		parts = append(parts, quantity(years, KeyYear, p))
	}
	if rest > 0 {
		parts = append(parts, quantity(rest, KeyMonth, p))
	}
	return strings.Join(parts, " ")
}

func quantity(n int, key string, p Pluralizer) string {
	return strconv.Itoa(n) + " " + p.Pluralize(key, n)
}
