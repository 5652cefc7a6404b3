package label

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewtec/photolabel/internal/artifact"
	"github.com/lewtec/photolabel/internal/domain"
	"github.com/lewtec/photolabel/internal/export"
	"github.com/lewtec/photolabel/internal/metadata"
	"github.com/lewtec/photolabel/internal/render"
	"github.com/lewtec/photolabel/internal/repository"
)

type sessionFixture struct {
	session   *Session
	prefs     *Preferences
	store     *repository.MemoryPreferenceStore
	artifacts *artifact.Store
}

func newFixture(t *testing.T, seed map[string]string) *sessionFixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryPreferenceStore()
	for k, v := range seed {
		require.NoError(t, store.Set(ctx, DefaultNamespace+k, v))
	}
	prefs := NewPreferences(store, DefaultNamespace, zerolog.Nop())
	artifacts := artifact.NewStore()
	s, err := NewSession(ctx, SessionOptions{
		Preferences:  prefs,
		Extractor:    metadata.NewExtractor(metadata.NewExifReader(zerolog.Nop()), zerolog.Nop(), metadata.WithLocation(time.UTC)),
		Renderer:     render.NewRenderer(render.NewFontLibrary(zerolog.Nop()), zerolog.Nop()),
		Encoder:      export.Encoder{Quality: export.DefaultQuality},
		Artifacts:    artifacts,
		OutputPrefix: DefaultOutputPrefix,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return &sessionFixture{session: s, prefs: prefs, store: store, artifacts: artifacts}
}

func photo(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 60, G: 120, B: 180, A: 255})
		}
	}
	return img
}

func plainJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, photo(w, h), nil))
	return buf.Bytes()
}

func TestSessionLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("non images are ignored", func(t *testing.T) {
		f := newFixture(t, nil)
		accepted, err := f.session.Load(ctx, domain.ImageSource{Filename: "notes.txt", MediaType: "text/plain", Data: []byte("hi")})
		require.NoError(t, err)
		assert.False(t, accepted)
		assert.Nil(t, f.session.Source())
		assert.Nil(t, f.session.Current())
		assert.Zero(t, f.artifacts.Live())
	})

	t.Run("metadata date is labeled and rendered", func(t *testing.T) {
		f := newFixture(t, nil)
		data := metadata.JPEGWithCaptureDate(t, photo(200, 100), "2020:02:29 08:30:00")
		accepted, err := f.session.Load(ctx, domain.ImageSource{Filename: "img-20230704_test.jpg", Data: data})
		require.NoError(t, err)
		assert.True(t, accepted)

		assert.Equal(t, domain.SourceMetadata, f.session.Candidate().Source)
		assert.Equal(t, "29-02-2020", f.session.Label())
		assert.Equal(t, "2020:02:29 08:30:00", f.session.Metadata()[metadata.CaptureDateField])

		a := f.session.Current()
		require.NotNil(t, a)
		assert.Equal(t, "29-02-2020", a.Label)
		assert.Equal(t, export.MediaType, a.MediaType)
		assert.Equal(t, 1, f.artifacts.Live())

		decoded, err := jpeg.Decode(bytes.NewReader(a.Blob))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 200, 100), decoded.Bounds())
	})

	t.Run("filename fallback", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Load(ctx, domain.ImageSource{Filename: "img-20230704_test.jpg", MediaType: "image/jpeg", Data: plainJPEG(t, 50, 50)})
		require.NoError(t, err)
		assert.Equal(t, domain.NewDate(2023, time.July, 4), f.session.Candidate().Date)
		assert.Equal(t, "04-07-2023", f.session.Label())
	})

	t.Run("no date gives an empty label", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Load(ctx, domain.ImageSource{Filename: "photo.jpg", Data: plainJPEG(t, 50, 50)})
		require.NoError(t, err)
		assert.False(t, f.session.Candidate().Valid())
		assert.Equal(t, "", f.session.Label())
		require.NotNil(t, f.session.Current())
	})

	t.Run("decode failure keeps previous state", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Load(ctx, domain.ImageSource{Filename: "img-20230704.jpg", Data: plainJPEG(t, 40, 40)})
		require.NoError(t, err)
		before := f.session.Current()

		accepted, err := f.session.Load(ctx, domain.ImageSource{Filename: "broken.jpg", MediaType: "image/jpeg", Data: []byte("garbage")})
		assert.True(t, accepted)
		assert.Error(t, err)
		assert.Equal(t, "img-20230704.jpg", f.session.Source().Filename)
		assert.Same(t, before, f.session.Current())
		assert.Equal(t, 1, f.artifacts.Live())
	})

	t.Run("render failure exposes no artifact", func(t *testing.T) {
		f := newFixture(t, map[string]string{PrefFillColor: "not-a-color"})
		_, err := f.session.Load(ctx, domain.ImageSource{Filename: "img-20230704.jpg", Data: plainJPEG(t, 40, 40)})
		assert.ErrorIs(t, err, render.ErrInvalidColor)
		assert.Nil(t, f.session.Current())
		assert.Zero(t, f.artifacts.Live())
	})
}

func TestSessionRender(t *testing.T) {
	ctx := context.Background()

	t.Run("encode failure exposes no artifact", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Load(ctx, domain.ImageSource{Filename: "img-20230704.jpg", Data: plainJPEG(t, 40, 40)})
		require.NoError(t, err)
		require.NotNil(t, f.session.Current())

		f.session.encoder = export.Encoder{Quality: 2}
		a, err := f.session.Render(ctx)
		assert.ErrorIs(t, err, export.ErrInvalidQuality)
		assert.Nil(t, a)
		assert.Nil(t, f.session.Current())
		assert.Zero(t, f.artifacts.Live())

		_, err = f.session.Download(memfs.New(), "")
		assert.ErrorIs(t, err, ErrNoArtifact)
	})

	t.Run("one live artifact after many renders", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Load(ctx, domain.ImageSource{Filename: "img-20230704.jpg", Data: plainJPEG(t, 80, 60)})
		require.NoError(t, err)
		var last *artifact.Artifact
		for i := 0; i < 5; i++ {
			last, err = f.session.Render(ctx)
			require.NoError(t, err)
		}
		assert.Equal(t, 1, f.artifacts.Live())
		assert.Same(t, last, f.session.Current())
	})

	t.Run("render without image", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Render(ctx)
		assert.ErrorIs(t, err, ErrNoImage)
		_, err = f.session.SetCandidate(ctx, domain.NewDate(2020, time.January, 1))
		assert.ErrorIs(t, err, ErrNoImage)
	})

	t.Run("candidate override renders", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Load(ctx, domain.ImageSource{Filename: "img-20230704.jpg", Data: plainJPEG(t, 80, 60)})
		require.NoError(t, err)
		first := f.session.Current()

		a, err := f.session.SetCandidate(ctx, domain.NewDate(2024, time.January, 15))
		require.NoError(t, err)
		assert.Equal(t, "15-01-2024", a.Label)
		assert.Equal(t, domain.SourceUser, f.session.Candidate().Source)
		assert.NotEqual(t, first.ID, a.ID)
		_, ok := f.artifacts.Get(first.ID)
		assert.False(t, ok)
	})

	t.Run("comparison and locale shape the label", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Load(ctx, domain.ImageSource{Filename: "img-20240115.jpg", Data: plainJPEG(t, 80, 60)})
		require.NoError(t, err)

		require.NoError(t, f.session.SetComparison(ctx, domain.NewDate(2023, time.January, 15)))
		assert.Equal(t, "15-01-2024 - 1 YEAR", f.session.Label())
		// preference changes alone do not render
		assert.Equal(t, "15-01-2024", f.session.Current().Label)

		a, err := f.session.Render(ctx)
		require.NoError(t, err)
		assert.Equal(t, "15-01-2024 - 1 YEAR", a.Label)

		require.NoError(t, f.session.SetLocale(ctx, "id"))
		assert.Equal(t, "15-01-2024 - 1 TAHUN", f.session.Label())

		require.NoError(t, f.session.SetComparison(ctx, domain.NewDate(2024, time.January, 10)))
		assert.Equal(t, "15-01-2024 - 5 HARI", f.session.Label())
	})

	t.Run("identical state renders identical blobs", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Load(ctx, domain.ImageSource{Filename: "img-20240115.jpg", Data: plainJPEG(t, 120, 90)})
		require.NoError(t, err)
		a, err := f.session.Render(ctx)
		require.NoError(t, err)
		blobA := a.Blob
		b, err := f.session.Render(ctx)
		require.NoError(t, err)
		assert.Equal(t, blobA, b.Blob)
		assert.Equal(t, a.Digest, b.Digest)
	})

	t.Run("close releases", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Load(ctx, domain.ImageSource{Filename: "img-20240115.jpg", Data: plainJPEG(t, 40, 40)})
		require.NoError(t, err)
		require.NoError(t, f.session.Close())
		assert.Zero(t, f.artifacts.Live())
		assert.Nil(t, f.session.Current())
	})
}

func TestSessionPreferences(t *testing.T) {
	ctx := context.Background()

	t.Run("changes persist for the next session", func(t *testing.T) {
		f := newFixture(t, nil)
		style := domain.StyleConfig{FillColor: "#ff0000", StrokeColor: "#00ff00", Outline: false, FontFamily: "monospace"}
		require.NoError(t, f.session.SetStyle(ctx, style))
		require.NoError(t, f.session.SetComparison(ctx, domain.NewDate(2020, time.May, 5)))
		require.NoError(t, f.session.SetLocale(ctx, "pt-BR"))

		next, err := NewSession(ctx, SessionOptions{
			Preferences: f.prefs,
			Extractor:   metadata.NewExtractor(nil, zerolog.Nop()),
			Renderer:    render.NewRenderer(render.NewFontLibrary(zerolog.Nop()), zerolog.Nop()),
			Artifacts:   artifact.NewStore(),
			Logger:      zerolog.Nop(),
		})
		require.NoError(t, err)
		assert.Equal(t, style, next.Style())
		assert.Equal(t, domain.NewDate(2020, time.May, 5), next.Comparison())
		assert.Equal(t, "pt-BR", next.Locale())
	})

	t.Run("invalid style is rejected", func(t *testing.T) {
		f := newFixture(t, nil)
		err := f.session.SetStyle(ctx, domain.StyleConfig{FillColor: "white", StrokeColor: "#000", Outline: true, FontFamily: "serif"})
		assert.ErrorIs(t, err, ErrInvalidPreference)
		assert.Equal(t, domain.DefaultStyle(), f.session.Style())
	})

	t.Run("missing collaborators", func(t *testing.T) {
		_, err := NewSession(ctx, SessionOptions{})
		assert.Error(t, err)
	})
}

func TestSessionDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the labeled file", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Load(ctx, domain.ImageSource{Filename: "img-20230704_test.jpg", Data: plainJPEG(t, 64, 64)})
		require.NoError(t, err)

		fs := memfs.New()
		path, err := f.session.Download(fs, "out")
		require.NoError(t, err)
		assert.Equal(t, fs.Join("out", "[LABELED] img-20230704_test.jpg"), path)

		data, err := util.ReadFile(fs, path)
		require.NoError(t, err)
		assert.Equal(t, f.session.Current().Blob, data)

		name, err := f.session.OutputName()
		require.NoError(t, err)
		assert.Equal(t, "[LABELED] img-20230704_test.jpg", name)
	})

	t.Run("nothing to download", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.session.Download(memfs.New(), "")
		assert.ErrorIs(t, err, ErrNoArtifact)
		_, err = f.session.OutputName()
		assert.ErrorIs(t, err, ErrNoImage)
	})
}
