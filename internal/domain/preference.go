package domain

import (
	"context"
)

// PreferenceStore defines the interface for persisted key-value preferences
type PreferenceStore interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value, replacing any previous one
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// List returns every stored key with its value
	List(ctx context.Context) (map[string]string, error)
}
