package label

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/lewtec/photolabel/internal/domain"
	"github.com/lewtec/photolabel/internal/render"
)

// DefaultNamespace prefixes every key written to the preference store
const DefaultNamespace = "photolabel_"

// Preference keys
const (
	PrefFillColor   = "fillColor"
	PrefStrokeColor = "strokeColor"
	PrefOutline     = "outline"
	PrefCompareDate = "compareDate"
	PrefFont        = "font"
	PrefLang        = "lang"
)

var ErrUnknownPreference = errors.New("unknown preference")

var preferenceDefaults = map[string]string{
	PrefFillColor:   domain.DefaultFillColor,
	PrefStrokeColor: domain.DefaultStrokeColor,
	PrefOutline:     "true",
	PrefCompareDate: "",
	PrefFont:        domain.DefaultFontFamily,
	PrefLang:        DefaultLocale,
}

// PreferenceKeys lists the known preference keys in a stable order
func PreferenceKeys() []string {
	keys := make([]string, 0, len(preferenceDefaults))
	for k := range preferenceDefaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PreferenceDefault returns the value a key has when nothing was stored
func PreferenceDefault(key string) (string, bool) {
	v, ok := preferenceDefaults[key]
	return v, ok
}

// Preferences reads and writes the user's label settings on top of a
// domain.PreferenceStore.
type Preferences struct {
	store     domain.PreferenceStore
	namespace string
	defaults  map[string]string
	log       zerolog.Logger
}

func NewPreferences(store domain.PreferenceStore, namespace string, log zerolog.Logger) *Preferences {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	defaults := make(map[string]string, len(preferenceDefaults))
	for k, v := range preferenceDefaults {
		defaults[k] = v
	}
	return &Preferences{store: store, namespace: namespace, defaults: defaults, log: log}
}

// SetDefault overrides the default of a known key, e.g. from configuration
func (p *Preferences) SetDefault(key, value string) error {
	if _, ok := p.defaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreference, key)
	}
	p.defaults[key] = value
	return nil
}

// Get returns the stored value, or the default when the key is unset or
// stored empty.
func (p *Preferences) Get(ctx context.Context, key string) (string, error) {
	def, ok := p.defaults[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPreference, key)
	}
	value, found, err := p.store.Get(ctx, p.namespace+key)
	if err != nil {
		return "", err
	}
	if !found || value == "" {
		return def, nil
	}
	return value, nil
}

// Set validates and stores a value
func (p *Preferences) Set(ctx context.Context, key, value string) error {
	if _, ok := p.defaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreference, key)
	}
	if err := validatePreference(key, value); err != nil {
		return err
	}
	if err := p.store.Set(ctx, p.namespace+key, value); err != nil {
		return err
	}
	p.log.Debug().Str("key", key).Str("value", value).Msg("preferences: saved")
	return nil
}

// Reset removes a stored value so the default applies again
func (p *Preferences) Reset(ctx context.Context, key string) error {
	if _, ok := p.defaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreference, key)
	}
	return p.store.Delete(ctx, p.namespace+key)
}

// All returns the effective value of every known key
func (p *Preferences) All(ctx context.Context) (map[string]string, error) {
	all := make(map[string]string, len(p.defaults))
	for key := range p.defaults {
		v, err := p.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		all[key] = v
	}
	return all, nil
}

func (p *Preferences) Style(ctx context.Context) (domain.StyleConfig, error) {
	var style domain.StyleConfig
	var err error
	if style.FillColor, err = p.Get(ctx, PrefFillColor); err != nil {
		return style, err
	}
	if style.StrokeColor, err = p.Get(ctx, PrefStrokeColor); err != nil {
		return style, err
	}
	if style.FontFamily, err = p.Get(ctx, PrefFont); err != nil {
		return style, err
	}
	outline, err := p.Get(ctx, PrefOutline)
	if err != nil {
		return style, err
	}
	style.Outline = outline == "true"
	return style, nil
}

func (p *Preferences) SetStyle(ctx context.Context, style domain.StyleConfig) error {
	values := [][2]string{
		{PrefFillColor, style.FillColor},
		{PrefStrokeColor, style.StrokeColor},
		{PrefOutline, strconv.FormatBool(style.Outline)},
		{PrefFont, style.FontFamily},
	}
	for _, kv := range values {
		if err := validatePreference(kv[0], kv[1]); err != nil {
			return err
		}
	}
	for _, kv := range values {
		if err := p.Set(ctx, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// Comparison returns the stored comparison date, invalid when unset
func (p *Preferences) Comparison(ctx context.Context) (domain.Date, error) {
	v, err := p.Get(ctx, PrefCompareDate)
	if err != nil || v == "" {
		return domain.Date{}, err
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		p.log.Warn().Err(err).Msg("preferences: ignoring malformed comparison date")
		return domain.Date{}, nil
	}
	return d, nil
}

// SetComparison stores d, or clears the comparison when d is invalid
func (p *Preferences) SetComparison(ctx context.Context, d domain.Date) error {
	return p.Set(ctx, PrefCompareDate, d.String())
}

func (p *Preferences) Locale(ctx context.Context) (string, error) {
	return p.Get(ctx, PrefLang)
}

func (p *Preferences) SetLocale(ctx context.Context, lang string) error {
	return p.Set(ctx, PrefLang, lang)
}

var ErrInvalidPreference = errors.New("invalid preference value")

func validatePreference(key, value string) error {
	switch key {
	case PrefFillColor, PrefStrokeColor:
		if _, err := render.ParseHexColor(value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidPreference, key, err)
		}
	case PrefOutline:
		if value != "true" && value != "false" {
			return fmt.Errorf("%w: %s must be true or false, got %q", ErrInvalidPreference, key, value)
		}
	case PrefCompareDate:
		if value == "" {
			return nil
		}
		if _, err := domain.ParseDate(value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidPreference, key, err)
		}
	case PrefFont, PrefLang:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidPreference, key)
		}
	}
	return nil
}
