package label

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/lewtec/photolabel/internal/artifact"
	"github.com/lewtec/photolabel/internal/export"
	"github.com/lewtec/photolabel/internal/metadata"
	"github.com/lewtec/photolabel/internal/render"
	"github.com/lewtec/photolabel/internal/repository"
)

// App wires the configured collaborators shared by every session
type App struct {
	Config      *Config
	Database    *sql.DB
	Preferences *Preferences
	Fonts       *render.FontLibrary
	Artifacts   *artifact.Store
	Extractor   *metadata.Extractor
	Renderer    *render.Renderer
	Encoder     export.Encoder
	Log         zerolog.Logger
}

// OpenApp opens the preference database, runs its migrations and loads
// the configured fonts.
func OpenApp(cfg *Config, log zerolog.Logger) (*App, error) {
	if cfg.Preferences.Database != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Preferences.Database), 0o755); err != nil {
			return nil, fmt.Errorf("while creating preferences directory: %w", err)
		}
	}
	db, err := repository.Open(cfg.Preferences.Database)
	if err != nil {
		return nil, err
	}

	encoder, err := export.NewEncoder(cfg.Render.Quality)
	if err != nil {
		db.Close()
		return nil, err
	}

	prefs := NewPreferences(repository.NewPreferenceRepository(db), cfg.Preferences.Namespace, log)
	if cfg.Locale.Default != "" {
		if err := prefs.SetDefault(PrefLang, cfg.Locale.Default); err != nil {
			db.Close()
			return nil, err
		}
	}

	fonts := render.NewFontLibrary(log)
	if cfg.Render.FontsDir != "" {
		if _, err := fonts.LoadFS(os.DirFS(cfg.Render.FontsDir), "."); err != nil {
			log.Warn().Err(err).Str("dir", cfg.Render.FontsDir).Msg("app: fonts directory not loaded")
		}
	}

	return &App{
		Config:      cfg,
		Database:    db,
		Preferences: prefs,
		Fonts:       fonts,
		Artifacts:   artifact.NewStore(),
		Extractor: metadata.NewExtractor(
			metadata.NewExifReader(log),
			log,
			metadata.WithFilenamePrefix(cfg.Extract.FilenamePrefix),
		),
		Renderer: render.NewRenderer(fonts, log),
		Encoder:  encoder,
		Log:      log,
	}, nil
}

func (a *App) NewSession(ctx context.Context) (*Session, error) {
	return NewSession(ctx, SessionOptions{
		Preferences:  a.Preferences,
		Extractor:    a.Extractor,
		Renderer:     a.Renderer,
		Encoder:      a.Encoder,
		Artifacts:    a.Artifacts,
		OutputPrefix: a.Config.Output.Prefix,
		Logger:       a.Log,
	})
}

func (a *App) Close() error {
	return a.Database.Close()
}
