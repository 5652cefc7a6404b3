package label

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/util"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lewtec/photolabel/internal/artifact"
	"github.com/lewtec/photolabel/internal/datelabel"
	"github.com/lewtec/photolabel/internal/domain"
	"github.com/lewtec/photolabel/internal/export"
	"github.com/lewtec/photolabel/internal/media/sniffer"
	"github.com/lewtec/photolabel/internal/metadata"
	"github.com/lewtec/photolabel/internal/render"
)

var (
	// ErrNoImage is returned by operations that need a loaded image
	ErrNoImage = errors.New("no image loaded")

	// ErrNoArtifact is returned when there is nothing to download
	ErrNoArtifact = errors.New("no rendered artifact")
)

// Session holds one loaded photo and the choices made about its label.
// Its methods are safe to call from several goroutines but run one at a
// time.
type Session struct {
	mu sync.Mutex

	prefs     *Preferences
	extractor *metadata.Extractor
	renderer  *render.Renderer
	encoder   export.Encoder
	artifacts *artifact.Store
	prefix    string
	log       zerolog.Logger

	source     *domain.ImageSource
	bitmap     image.Image
	record     domain.MetadataRecord
	candidate  domain.CandidateDate
	comparison domain.Date
	style      domain.StyleConfig
	localizer  *Localizer
	current    *artifact.Artifact
}

type SessionOptions struct {
	Preferences  *Preferences
	Extractor    *metadata.Extractor
	Renderer     *render.Renderer
	Encoder      export.Encoder
	Artifacts    *artifact.Store
	OutputPrefix string
	Logger       zerolog.Logger
}

// NewSession reads the stored style, comparison date and locale once, as
// a session starts from the last saved choices.
func NewSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if opts.Preferences == nil || opts.Extractor == nil || opts.Renderer == nil || opts.Artifacts == nil {
		return nil, fmt.Errorf("session: missing collaborator")
	}
	if opts.Encoder.Quality == 0 {
		opts.Encoder.Quality = export.DefaultQuality
	}
	style, err := opts.Preferences.Style(ctx)
	if err != nil {
		return nil, fmt.Errorf("while reading style preferences: %w", err)
	}
	comparison, err := opts.Preferences.Comparison(ctx)
	if err != nil {
		return nil, fmt.Errorf("while reading comparison date: %w", err)
	}
	lang, err := opts.Preferences.Locale(ctx)
	if err != nil {
		return nil, fmt.Errorf("while reading locale: %w", err)
	}
	return &Session{
		prefs:      opts.Preferences,
		extractor:  opts.Extractor,
		renderer:   opts.Renderer,
		encoder:    opts.Encoder,
		artifacts:  opts.Artifacts,
		prefix:     opts.OutputPrefix,
		log:        opts.Logger,
		comparison: comparison,
		style:      style,
		localizer:  NewLocalizer(lang),
	}, nil
}

// Load replaces the current photo. Sources that are not images are
// ignored and reported as not accepted. Metadata extraction and decoding
// run concurrently, and once both finish the label is rendered. When
// decoding fails the session keeps its previous state.
func (s *Session) Load(ctx context.Context, src domain.ImageSource) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mediaType := sniffer.Resolve(src.MediaType, src.Filename, src.Data)
	if !sniffer.IsImage(mediaType) {
		s.log.Debug().Str("file", src.Filename).Str("media_type", mediaType).Msg("session: ignoring non image")
		return false, nil
	}
	src.MediaType = mediaType

	var (
		record    domain.MetadataRecord
		candidate domain.CandidateDate
		bitmap    image.Image
		format    string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		record, candidate = s.extractor.Extract(src)
		return nil
	})
	g.Go(func() error {
		var err error
		bitmap, format, err = DecodeImage(gctx, src.Data)
		return err
	})
	if err := g.Wait(); err != nil {
		return true, fmt.Errorf("while loading %s: %w", src.Filename, err)
	}

	s.releaseCurrent()
	s.source = &src
	s.bitmap = Orient(bitmap, record)
	s.record = record
	s.candidate = candidate

	s.log.Info().
		Str("file", src.Filename).
		Str("format", format).
		Str("date", candidate.String()).
		Str("source", string(candidate.Source)).
		Msg("session: image loaded")

	if _, err := s.render(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// Source returns the loaded file, or nil
func (s *Session) Source() *domain.ImageSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Bounds returns the size of the decoded photo
func (s *Session) Bounds() (image.Rectangle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bitmap == nil {
		return image.Rectangle{}, ErrNoImage
	}
	return s.bitmap.Bounds(), nil
}

func (s *Session) Metadata() domain.MetadataRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

func (s *Session) Candidate() domain.CandidateDate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidate
}

// SetCandidate overrides the extracted date and renders again
func (s *Session) SetCandidate(ctx context.Context, d domain.Date) (*artifact.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bitmap == nil {
		return nil, ErrNoImage
	}
	s.candidate = domain.CandidateDate{Date: d, Source: domain.SourceUser}
	if !d.Valid() {
		s.candidate.Source = domain.SourceNone
	}
	return s.render(ctx)
}

func (s *Session) Comparison() domain.Date {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comparison
}

// SetComparison stores the comparison date. An invalid date clears it.
func (s *Session) SetComparison(ctx context.Context, d domain.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.prefs.SetComparison(ctx, d); err != nil {
		return err
	}
	s.comparison = d
	return nil
}

func (s *Session) Style() domain.StyleConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

func (s *Session) SetStyle(ctx context.Context, style domain.StyleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.prefs.SetStyle(ctx, style); err != nil {
		return err
	}
	s.style = style
	return nil
}

func (s *Session) Locale() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localizer.Lang()
}

func (s *Session) Localizer() *Localizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localizer
}

func (s *Session) SetLocale(ctx context.Context, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.prefs.SetLocale(ctx, lang); err != nil {
		return err
	}
	s.localizer = NewLocalizer(lang)
	return nil
}

// Label is the text that the next render burns into the photo
func (s *Session) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label()
}

func (s *Session) label() string {
	return datelabel.Format(s.candidate.Date, s.comparison, s.localizer)
}

// Render composites the current label and replaces the exposed artifact
func (s *Session) Render(ctx context.Context) (*artifact.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(ctx)
}

func (s *Session) render(ctx context.Context) (*artifact.Artifact, error) {
	if s.bitmap == nil {
		return nil, ErrNoImage
	}
	s.releaseCurrent()

	label := s.label()
	out, err := s.renderer.Render(ctx, s.bitmap, label, s.style)
	if err != nil {
		return nil, fmt.Errorf("while compositing label: %w", err)
	}
	blob, err := s.encoder.Encode(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("while encoding artifact: %w", err)
	}
	a := s.artifacts.Create(label, out, blob, export.MediaType)
	s.current = a
	s.log.Debug().
		Str("artifact", a.ID.String()).
		Str("label", label).
		Str("digest", a.Digest).
		Int("bytes", len(blob)).
		Msg("session: artifact ready")
	return a, nil
}

func (s *Session) releaseCurrent() {
	if s.current == nil {
		return
	}
	if err := s.artifacts.Release(s.current.ID); err != nil {
		s.log.Warn().Err(err).Msg("session: releasing artifact")
	}
	s.current = nil
}

// Current returns the exposed artifact, or nil
func (s *Session) Current() *artifact.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OutputName is the file name the artifact is saved under
func (s *Session) OutputName() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return "", ErrNoImage
	}
	return s.prefix + s.source.Filename, nil
}

// Download writes the current artifact into dir of fs and returns the
// written path.
func (s *Session) Download(fs billy.Filesystem, dir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.source == nil {
		return "", ErrNoArtifact
	}
	if dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("while creating %s: %w", dir, err)
		}
	}
	name := fs.Join(dir, s.prefix+s.source.Filename)
	if err := util.WriteFile(fs, name, s.current.Blob, 0o644); err != nil {
		return "", fmt.Errorf("while writing %s: %w", name, err)
	}
	s.log.Info().Str("path", name).Str("digest", s.current.Digest).Msg("session: artifact downloaded")
	return name, nil
}

// Close releases the exposed artifact
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseCurrent()
	return nil
}
