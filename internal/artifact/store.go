package artifact

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrReleased is returned when a handle is unknown or already released
var ErrReleased = errors.New("artifact already released")

// Artifact is a rendered bitmap with its encoded blob. It lives until its
// handle is released.
type Artifact struct {
	ID        uuid.UUID
	Label     string
	Image     image.Image
	Blob      []byte
	MediaType string
	Digest    string
	CreatedAt time.Time
}

// Store owns the live artifacts of the process
type Store struct {
	mu   sync.RWMutex
	live map[uuid.UUID]*Artifact
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		live: make(map[uuid.UUID]*Artifact),
		now:  time.Now,
	}
}

// Create registers a new artifact under a fresh handle
func (s *Store) Create(label string, img image.Image, blob []byte, mediaType string) *Artifact {
	a := &Artifact{
		ID:        uuid.New(),
		Label:     label,
		Image:     img,
		Blob:      blob,
		MediaType: mediaType,
		Digest:    HashBytes(blob),
		CreatedAt: s.now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[a.ID] = a
	return a
}

// Get returns a live artifact
func (s *Store) Get(id uuid.UUID) (*Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.live[id]
	return a, ok
}

// Release drops an artifact. Each handle can be released once.
func (s *Store) Release(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live[id]; !ok {
		return fmt.Errorf("%w: %s", ErrReleased, id)
	}
	delete(s.live, id)
	return nil
}

// Live counts the artifacts not yet released
func (s *Store) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live)
}
