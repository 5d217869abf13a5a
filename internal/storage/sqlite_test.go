package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func createTestSQLiteBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	backend, err := NewSQLiteBackend(SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("NewSQLiteBackend() error = %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	return backend
}

func TestDefaultSQLiteConfig(t *testing.T) {
	if cfg := DefaultSQLiteConfig(); cfg.Path != "./data/leitstand.db" {
		t.Errorf("Path = %v, want ./data/leitstand.db", cfg.Path)
	}
}

func TestSQLiteBackend_CRUD(t *testing.T) {
	b := createTestSQLiteBackend(t)
	ctx := context.Background()

	if _, ok, err := b.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	if err := b.Set(ctx, "app:language", "en"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := b.Set(ctx, "app:language", "de"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	v, ok, err := b.Get(ctx, "app:language")
	if err != nil || !ok || v != "de" {
		t.Errorf("Get() = %q, %v, %v", v, ok, err)
	}

	if err := b.Delete(ctx, "app:language"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := b.Get(ctx, "app:language"); ok {
		t.Error("key still present after Delete")
	}
}

func TestSQLiteBackend_Keys(t *testing.T) {
	b := createTestSQLiteBackend(t)
	ctx := context.Background()

	for _, k := range []string{"b:x", "a:2", "a:1", "ab:1"} {
		if err := b.Set(ctx, k, "v"); err != nil {
			t.Fatalf("Set(%q) error = %v", k, err)
		}
	}

	got, err := b.Keys(ctx, "a:")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a:1", "a:2"}) {
		t.Errorf("Keys(a:) = %v", got)
	}

	all, _ := b.Keys(ctx, "")
	if len(all) != 4 {
		t.Errorf("Keys('') = %v", all)
	}
}

func TestSQLiteBackend_ClosedFails(t *testing.T) {
	b := createTestSQLiteBackend(t)
	b.Close()

	if err := b.Set(context.Background(), "k", "v"); err == nil {
		t.Error("Set() on a closed database should fail")
	}
}
