package artifact

import (
	"image"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("create and get", func(t *testing.T) {
		s := NewStore()
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		a := s.Create("04-07-2023", img, []byte("blob"), "image/jpeg")
		assert.NotEqual(t, uuid.Nil, a.ID)
		assert.Equal(t, HashBytes([]byte("blob")), a.Digest)
		assert.False(t, a.CreatedAt.IsZero())

		got, ok := s.Get(a.ID)
		require.True(t, ok)
		assert.Same(t, a, got)
		assert.Equal(t, 1, s.Live())
	})

	t.Run("release exactly once", func(t *testing.T) {
		s := NewStore()
		a := s.Create("", nil, nil, "image/jpeg")
		require.NoError(t, s.Release(a.ID))
		assert.ErrorIs(t, s.Release(a.ID), ErrReleased)
		_, ok := s.Get(a.ID)
		assert.False(t, ok)
		assert.Zero(t, s.Live())
	})

	t.Run("unknown handle", func(t *testing.T) {
		assert.ErrorIs(t, NewStore().Release(uuid.New()), ErrReleased)
	})

	t.Run("handles are unique", func(t *testing.T) {
		s := NewStore()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Create("x", nil, nil, "image/jpeg")
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, s.Live())
	})
}

func TestHashBytes(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashBytes(nil))
}
