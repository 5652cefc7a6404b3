package metadata

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/lewtec/photolabel/internal/domain"
)

func init() {
	exif.RegisterParsers(mknote.All...)
}

// ErrNoMetadata is returned by readers when the data carries no embedded
// metadata block.
var ErrNoMetadata = errors.New("no embedded metadata")

// Reader parses the embedded metadata of an encoded image
type Reader interface {
	Read(data []byte) (domain.MetadataRecord, error)
}

type exifWalkerFunc func(exif.FieldName, *tiff.Tag) error

func (w exifWalkerFunc) Walk(name exif.FieldName, tag *tiff.Tag) error {
	return w(name, tag)
}

// ExifReader reads every EXIF field, maker notes included, into a flat
// record keyed by field name.
type ExifReader struct {
	log zerolog.Logger
}

func NewExifReader(log zerolog.Logger) *ExifReader {
	return &ExifReader{log: log}
}

var _ Reader = (*ExifReader)(nil)

func (r *ExifReader) Read(data []byte) (domain.MetadataRecord, error) {
	ex, err := exif.Decode(bytes.NewReader(data))
	if ex == nil || (err != nil && exif.IsCriticalError(err)) {
		if err == nil {
			err = ErrNoMetadata
		}
		return nil, fmt.Errorf("while decoding exif: %w", err)
	}
	if err != nil {
		r.log.Debug().Err(err).Msg("metadata: non critical exif error")
	}

	record := make(domain.MetadataRecord)
	err = ex.Walk(exifWalkerFunc(func(name exif.FieldName, tag *tiff.Tag) error {
		key := string(name)
		switch tag.Format() {
		case tiff.IntVal:
			values := make([]int, 0, tag.Count)
			for i := range int(tag.Count) {
				v, err := tag.Int(i)
				if err != nil {
					r.log.Debug().Err(err).Str("field", key).Int("index", i).Msg("metadata: bad int value")
					break
				}
				values = append(values, v)
			}
			record[key] = collapse(values)

		case tiff.FloatVal:
			values := make([]float64, 0, tag.Count)
			for i := range int(tag.Count) {
				v, err := tag.Float(i)
				if err != nil {
					r.log.Debug().Err(err).Str("field", key).Int("index", i).Msg("metadata: bad float value")
					break
				}
				values = append(values, v)
			}
			record[key] = collapse(values)

		case tiff.RatVal:
			values := make([]string, 0, tag.Count)
			for i := range int(tag.Count) {
				v, err := tag.Rat(i)
				if err != nil {
					r.log.Debug().Err(err).Str("field", key).Int("index", i).Msg("metadata: bad rational value")
					break
				}
				values = append(values, v.RatString())
			}
			record[key] = collapse(values)

		case tiff.StringVal:
			v, err := tag.StringVal()
			if err != nil {
				r.log.Debug().Err(err).Str("field", key).Msg("metadata: bad string value")
				return nil
			}
			record[key] = v

		default:
			r.log.Trace().Str("field", key).Int("length", len(tag.Val)).Msg("metadata: skipping opaque field")
		}
		return nil
	}))
	if err != nil {
		return record, fmt.Errorf("while walking exif fields: %w", err)
	}
	return record, nil
}

func collapse[T any](values []T) any {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return values[0]
	default:
		return values
	}
}
