package label

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"path"
	"sort"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/lewtec/photolabel/internal/datelabel"
)

//go:embed locales/*.json
var localesFS embed.FS

// DefaultLocale is used when no preference or configuration names one
const DefaultLocale = "en"

var bundle *i18n.Bundle

type localizerKey struct{}

func init() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := fs.Glob(localesFS, "locales/*.json")
	if err != nil {
		panic(err)
	}
	for _, file := range files {
		data, err := localesFS.ReadFile(file)
		if err != nil {
			panic(err)
		}
		// the file name carries the language tag, e.g. pt-BR.json
		if _, err := bundle.ParseMessageFileBytes(data, path.Base(file)); err != nil {
			panic(err)
		}
	}
}

// Locales lists the languages that have embedded translations
func Locales() []string {
	tags := bundle.LanguageTags()
	locales := make([]string, 0, len(tags))
	for _, tag := range tags {
		locales = append(locales, tag.String())
	}
	sort.Strings(locales)
	return locales
}

// Localizer translates messages for one language, falling back to English
type Localizer struct {
	lang string
	l    *i18n.Localizer
}

var _ datelabel.Pluralizer = (*Localizer)(nil)

func NewLocalizer(lang string) *Localizer {
	if lang == "" {
		lang = DefaultLocale
	}
	return &Localizer{
		lang: lang,
		l:    i18n.NewLocalizer(bundle, lang, DefaultLocale),
	}
}

// Lang is the language the localizer was requested for
func (l *Localizer) Lang() string {
	return l.lang
}

// Localize translates key, returning fallback when no translation exists
func (l *Localizer) Localize(key, fallback string) string {
	return l.LocalizeWithData(key, fallback, nil)
}

// LocalizeWithData translates a message that interpolates template data
func (l *Localizer) LocalizeWithData(key, fallback string, data map[string]any) string {
	msg, err := l.l.Localize(&i18n.LocalizeConfig{
		MessageID:      key,
		TemplateData:   data,
		DefaultMessage: &i18n.Message{ID: key, Other: fallback},
	})
	if err != nil {
		return fallback
	}
	return msg
}

// Pluralize returns the unit word for key agreeing with count
func (l *Localizer) Pluralize(key string, count int) string {
	one, other, ok := datelabel.DefaultForms(key)
	if !ok {
		one, other = key, key
	}
	msg, err := l.l.Localize(&i18n.LocalizeConfig{
		MessageID:      key,
		PluralCount:    count,
		DefaultMessage: &i18n.Message{ID: key, One: one, Other: other},
	})
	if err != nil || msg == "" {
		return datelabel.EnglishUnit(key, count)
	}
	return msg
}

// WithLocalizer adds a localizer to the context
func WithLocalizer(ctx context.Context, l *Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, l)
}

// LocalizerFromContext retrieves the localizer from context, or an English
// one when none was set
func LocalizerFromContext(ctx context.Context) *Localizer {
	if ctx != nil {
		if l, ok := ctx.Value(localizerKey{}).(*Localizer); ok {
			return l
		}
	}
	return NewLocalizer(DefaultLocale)
}
