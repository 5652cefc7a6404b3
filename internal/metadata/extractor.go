package metadata

import (
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lewtec/photolabel/internal/domain"
)

const (
	// DefaultFilenamePrefix is the token that precedes a YYYYMMDD date in
	// camera file names such as IMG-20230704-WA0001.jpg
	DefaultFilenamePrefix = "img-"

	// CaptureDateField holds the moment the shutter fired
	CaptureDateField = "DateTimeOriginal"
)

// Extractor proposes a capture date for an image, trying embedded
// metadata, then the file name, then the modification time.
type Extractor struct {
	reader   Reader
	pattern  *regexp.Regexp
	location *time.Location
	log      zerolog.Logger
}

type Option func(*Extractor)

// WithFilenamePrefix replaces the literal token expected before the
// eight date digits of a file name.
func WithFilenamePrefix(prefix string) Option {
	return func(e *Extractor) {
		e.pattern = filenamePattern(prefix)
	}
}

// WithLocation sets the zone used to turn modification times into days
func WithLocation(loc *time.Location) Option {
	return func(e *Extractor) {
		e.location = loc
	}
}

func NewExtractor(reader Reader, log zerolog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		reader:   reader,
		pattern:  filenamePattern(DefaultFilenamePrefix),
		location: time.Local,
		log:      log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func filenamePattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(prefix) + `(\d{8})`)
}

// Extract never fails. Sources that are missing or unparseable are
// skipped, and when nothing yields a date the candidate is invalid.
func (e *Extractor) Extract(src domain.ImageSource) (domain.MetadataRecord, domain.CandidateDate) {
	record := domain.MetadataRecord{}
	if e.reader != nil {
		r, err := e.reader.Read(src.Data)
		if err != nil {
			e.log.Debug().Err(err).Str("file", src.Filename).Msg("metadata: no usable metadata")
		}
		if r != nil {
			record = r
		}
	}

	if d, ok := dateFromRecord(record); ok {
		return record, domain.CandidateDate{Date: d, Source: domain.SourceMetadata}
	}
	if d, ok := e.dateFromFilename(src.Filename); ok {
		return record, domain.CandidateDate{Date: d, Source: domain.SourceFilename}
	}
	if !src.LastModified.IsZero() {
		d := domain.DateOf(src.LastModified.In(e.location))
		return record, domain.CandidateDate{Date: d, Source: domain.SourceModified}
	}
	e.log.Debug().Str("file", src.Filename).Msg("metadata: no date found")
	return record, domain.CandidateDate{Source: domain.SourceNone}
}

// dateFromRecord keeps the date part of "YYYY:MM:DD HH:MM:SS"
func dateFromRecord(record domain.MetadataRecord) (domain.Date, bool) {
	raw, ok := record.String(CaptureDateField)
	if !ok {
		return domain.Date{}, false
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return domain.Date{}, false
	}
	d, err := domain.ParseDate(strings.ReplaceAll(fields[0], ":", "-"))
	if err != nil {
		return domain.Date{}, false
	}
	return d, true
}

func (e *Extractor) dateFromFilename(name string) (domain.Date, bool) {
	m := e.pattern.FindStringSubmatch(name)
	if m == nil {
		return domain.Date{}, false
	}
	t, err := time.Parse("20060102", m[1])
	if err != nil {
		e.log.Debug().Str("file", name).Str("digits", m[1]).Msg("metadata: file name digits are not a date")
		return domain.Date{}, false
	}
	return domain.DateOf(t), true
}
