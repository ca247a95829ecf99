package checkpoint

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	cursor := time.Unix(1748779200, 0).UTC()

	if err := store.Save(ctx, "problems", cursor); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "problems")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Equal(cursor) {
		t.Errorf("cursor = %v; want %v", got, cursor)
	}
}

func TestMemoryStoreMissingKey(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	_, err := store.Load(context.Background(), "never-saved")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("load missing key = %v; want ErrNotFound", err)
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	first := time.Unix(1000, 0).UTC()
	second := time.Unix(2000, 0).UTC()

	store.Save(ctx, "events", first)
	store.Save(ctx, "events", second)

	got, err := store.Load(ctx, "events")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Equal(second) {
		t.Errorf("cursor = %v; want later save %v", got, second)
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	store := NewMemoryStore()
	store.Close()

	if err := store.Save(context.Background(), "k", time.Now()); err == nil {
		t.Error("save after close must fail")
	}
	if _, err := store.Load(context.Background(), "k"); err == nil {
		t.Error("load after close must fail")
	}
}

func TestNewStoreBackendSelection(t *testing.T) {
	store, err := NewStore(Config{Backend: "memory"})
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("backend = %T; want *MemoryStore", store)
	}
	store.Close()

	if _, err := NewStore(Config{Backend: "etcd"}); err == nil {
		t.Error("unknown backend must fail")
	}
}
