package kv

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Load(ctx, "templates"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on empty store err = %v, want ErrNotFound", err)
	}

	payload := []byte(`[{"id":"tpl-1"}]`)
	if err := store.Save(ctx, "templates", payload); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "templates")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("payload = %s", got)
	}

	// returned slice must not alias the stored one
	got[0] = 'X'
	again, _ := store.Load(ctx, "templates")
	if string(again) != string(payload) {
		t.Error("Load returned aliased payload")
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, err := store.Load(ctx, "submissions"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load before Save err = %v, want ErrNotFound", err)
	}

	payload := []byte(`[{"id":"sub-1","formId":"tpl-1"}]`)
	if err := store.Save(ctx, "submissions", payload); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "submissions")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("payload = %s", got)
	}

	// overwrite wins whole
	if err := store.Save(ctx, "submissions", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	got, _ = store.Load(ctx, "submissions")
	if string(got) != "[]" {
		t.Errorf("payload after overwrite = %s", got)
	}
}

func TestFileStoreRejectsBadCollectionNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"", "../escape", "a/b", "dotted.name"} {
		if err := store.Save(context.Background(), name, []byte("{}")); err == nil {
			t.Errorf("collection name %q accepted", name)
		}
	}
}
