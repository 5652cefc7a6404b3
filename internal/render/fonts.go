package render

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FallbackFamily is used for any family the library does not know
const FallbackFamily = "sans-serif"

var builtinFamilies = map[string][]byte{
	"sans-serif": goregular.TTF,
	"serif":      gomedium.TTF,
	"monospace":  gomono.TTF,
	"cursive":    goitalic.TTF,
	"fantasy":    gosmallcaps.TTF,
}

// FontLibrary maps family names to parsed fonts. Lookups ignore case.
type FontLibrary struct {
	mu    sync.RWMutex
	fonts map[string]*opentype.Font
	names map[string]string
	log   zerolog.Logger
}

func NewFontLibrary(log zerolog.Logger) *FontLibrary {
	l := &FontLibrary{
		fonts: make(map[string]*opentype.Font),
		names: make(map[string]string),
		log:   log,
	}
	for family, data := range builtinFamilies {
		f, err := opentype.Parse(data)
		if err != nil {
			log.Error().Err(err).Str("family", family).Msg("fonts: failed to parse bundled font")
			continue
		}
		l.Register(family, f)
	}
	return l
}

func (l *FontLibrary) Register(family string, f *opentype.Font) {
	key := strings.ToLower(strings.TrimSpace(family))
	if key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fonts[key] = f
	l.names[key] = family
}

// LoadFS registers every .ttf and .otf file found directly under dir, both
// by file base name and by the family name stored in the font.
func (l *FontLibrary) LoadFS(fsys fs.FS, dir string) (int, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("while listing fonts in %s: %w", dir, err)
	}
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(entry.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return loaded, fmt.Errorf("while reading font %s: %w", entry.Name(), err)
		}
		f, err := opentype.Parse(data)
		if err != nil {
			l.log.Warn().Err(err).Str("file", entry.Name()).Msg("fonts: skipping unparseable font")
			continue
		}
		l.Register(strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())), f)
		if family, err := f.Name(nil, sfnt.NameIDFamily); err == nil && family != "" {
			l.Register(family, f)
		}
		loaded++
	}
	l.log.Debug().Int("count", loaded).Str("dir", dir).Msg("fonts: loaded directory")
	return loaded, nil
}

// Resolve returns the font registered for family and the name it was
// registered under, falling back to sans-serif.
func (l *FontLibrary) Resolve(family string) (*opentype.Font, string) {
	key := strings.ToLower(strings.TrimSpace(family))
	l.mu.RLock()
	defer l.mu.RUnlock()
	if f, ok := l.fonts[key]; ok {
		return f, l.names[key]
	}
	l.log.Debug().Str("family", family).Str("fallback", FallbackFamily).Msg("fonts: unknown family")
	return l.fonts[FallbackFamily], FallbackFamily
}

// Has reports whether family resolves without falling back
func (l *FontLibrary) Has(family string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.fonts[strings.ToLower(strings.TrimSpace(family))]
	return ok
}

func (l *FontLibrary) Families() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	families := make([]string, 0, len(l.names))
	for _, name := range l.names {
		families = append(families, name)
	}
	sort.Strings(families)
	return families
}
