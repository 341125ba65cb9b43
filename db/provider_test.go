package db

import (
	"path/filepath"
	"testing"
)

func runProviderTests(t *testing.T, provider DatabaseProvider) {
	t.Helper()

	key := []byte("account_state:0x1")
	value := []byte(`{"id":"0x1"}`)

	// Missing key reads as nil without error
	got, err := provider.Get(key)
	if err != nil {
		t.Fatalf("get on empty provider: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing key, got %q", got)
	}
	has, err := provider.Has(key)
	if err != nil {
		t.Fatalf("has on empty provider: %v", err)
	}
	if has {
		t.Fatal("expected missing key")
	}

	if err := provider.Put(key, value); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err = provider.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(value) {
		t.Fatalf("expected %q, got %q", value, got)
	}
	has, err = provider.Has(key)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if !has {
		t.Fatal("expected key to exist")
	}

	// Overwrite replaces the stored value
	if err := provider.Put(key, []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = provider.Get(key)
	if string(got) != "v2" {
		t.Fatalf("expected overwrite to win, got %q", got)
	}

	if err := provider.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = provider.Get(key)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %q", got)
	}

	// Deleting a missing key is a no-op
	if err := provider.Delete([]byte("never-written")); err != nil {
		t.Fatalf("delete missing key: %v", err)
	}
}

func TestMemoryProvider(t *testing.T) {
	provider := NewMemoryProvider()
	defer provider.Close()
	runProviderTests(t, provider)
}

func TestMemoryProviderCopiesValues(t *testing.T) {
	provider := NewMemoryProvider()
	defer provider.Close()

	value := []byte("original")
	if err := provider.Put([]byte("k"), value); err != nil {
		t.Fatalf("put: %v", err)
	}
	value[0] = 'X'

	got, err := provider.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "original" {
		t.Fatalf("caller mutation leaked into the store: %q", got)
	}
}

func TestBoltProvider(t *testing.T) {
	provider, err := NewBoltProvider(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	defer provider.Close()
	runProviderTests(t, provider)
}

func TestBoltProviderPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	provider, err := NewBoltProvider(path)
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	if err := provider.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := provider.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Double close is tolerated
	if err := provider.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	reopened, err := NewBoltProvider(path)
	if err != nil {
		t.Fatalf("reopen bolt: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("expected value to survive reopen, got %q", got)
	}
}
