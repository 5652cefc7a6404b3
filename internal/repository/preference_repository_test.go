package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lewtec/photolabel/internal/domain"
)

func testPreferenceStore(t *testing.T, store domain.PreferenceStore) {
	ctx := context.Background()

	t.Run("missing key is not found", func(t *testing.T) {
		value, found, err := store.Get(ctx, "photolabel_font")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if found {
			t.Errorf("found = true for missing key, value %q", value)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := store.Set(ctx, "photolabel_font", "Orbitron"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		value, found, err := store.Get(ctx, "photolabel_font")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !found || value != "Orbitron" {
			t.Errorf("Get() = %q, %v, want %q, true", value, found, "Orbitron")
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		if err := store.Set(ctx, "photolabel_font", "Digital-7"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		value, _, err := store.Get(ctx, "photolabel_font")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if value != "Digital-7" {
			t.Errorf("Get() = %q, want %q", value, "Digital-7")
		}
	})

	t.Run("empty values are stored", func(t *testing.T) {
		if err := store.Set(ctx, "photolabel_compareDate", ""); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		value, found, err := store.Get(ctx, "photolabel_compareDate")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !found || value != "" {
			t.Errorf("Get() = %q, %v, want empty and found", value, found)
		}
	})

	t.Run("list", func(t *testing.T) {
		prefs, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(prefs) != 2 {
			t.Errorf("List() returned %d entries, want 2: %v", len(prefs), prefs)
		}
		if prefs["photolabel_font"] != "Digital-7" {
			t.Errorf("List()[font] = %q, want %q", prefs["photolabel_font"], "Digital-7")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, "photolabel_font"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, found, _ := store.Get(ctx, "photolabel_font"); found {
			t.Error("key still present after Delete()")
		}
		if err := store.Delete(ctx, "photolabel_font"); err != nil {
			t.Errorf("Delete() of missing key error = %v", err)
		}
	})
}

func TestPreferenceRepository(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	testPreferenceStore(t, NewPreferenceRepository(db))
}

func TestMemoryPreferenceStore(t *testing.T) {
	testPreferenceStore(t, NewMemoryPreferenceStore())
}

func TestPreferenceRepository_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := NewPreferenceRepository(db).Set(ctx, "photolabel_lang", "id"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	CleanupTestDB(t, db)

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer CleanupTestDB(t, db)

	value, found, err := NewPreferenceRepository(db).Get(ctx, "photolabel_lang")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != "id" {
		t.Errorf("Get() = %q, %v, want %q, true", value, found, "id")
	}
}

func TestSchemaVersion(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	version, dirty, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("SchemaVersion() = %d, %v, want 1, false", version, dirty)
	}

	// running again is a no-op
	if err := Migrate(db); err != nil {
		t.Errorf("second Migrate() error = %v", err)
	}
	MustExec(t, db, "INSERT INTO preferences (key, value) VALUES (?, ?)", "photolabel_outline", "false")
}
