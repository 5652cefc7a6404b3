package datelabel

// Unit message keys
const (
	KeyYear  = "year"
	KeyMonth = "month"
	KeyDay   = "day"
)

// Pluralizer returns the unit word for key that agrees with count in the
// locale it was built for.
type Pluralizer interface {
	Pluralize(key string, count int) string
}

// PluralizerFunc adapts a function to the Pluralizer interface
type PluralizerFunc func(key string, count int) string

func (f PluralizerFunc) Pluralize(key string, count int) string {
	return f(key, count)
}

var englishUnits = map[string][2]string{
	KeyYear:  {"YEAR", "YEARS"},
	KeyMonth: {"MONTH", "MONTHS"},
	KeyDay:   {"DAY", "DAYS"},
}

// English is the built-in fallback used when no localized form exists
var English Pluralizer = PluralizerFunc(EnglishUnit)

// EnglishUnit returns the English singular or plural of a unit key. Unknown
// keys come back upper-cased as given.
func EnglishUnit(key string, count int) string {
	forms, ok := englishUnits[key]
	if !ok {
		return key
	}
	if count == 1 {
		return forms[0]
	}
	return forms[1]
}

// DefaultForms returns the English one/other forms of a unit key
func DefaultForms(key string) (one, other string, ok bool) {
	forms, ok := englishUnits[key]
	return forms[0], forms[1], ok
}
