package domain

import (
	"time"
)

// ImageSource is a raw file handed to the labeler. It is never modified
// after load.
type ImageSource struct {
	Filename     string
	MediaType    string
	LastModified time.Time
	Data         []byte
}

// MetadataRecord maps embedded tag names to their values
type MetadataRecord map[string]any

// String returns the value of a text tag
func (r MetadataRecord) String(name string) (string, bool) {
	v, ok := r[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the value of an integer tag
func (r MetadataRecord) Int(name string) (int, bool) {
	v, ok := r[name]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}
