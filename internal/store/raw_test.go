package store

import (
	"context"
	"fmt"
	"testing"
)

func TestGetRaw_Missing(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.GetRaw(ctx, "smissing")
	if err != ErrNotFound {
		t.Errorf("GetRaw() = %v, want ErrNotFound", err)
	}
}

func TestPutRaw_GetRaw_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	if err := s.PutRaw(ctx, "shello", `"world"`); err != nil {
		t.Fatalf("PutRaw() failed: %v", err)
	}

	got, err := s.GetRaw(ctx, "shello")
	if err != nil {
		t.Fatalf("GetRaw() failed: %v", err)
	}
	if got != `"world"` {
		t.Errorf("GetRaw() = %q, want %q", got, `"world"`)
	}
}

func TestPutRaw_Upsert(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	if err := s.PutRaw(ctx, "sk", "1"); err != nil {
		t.Fatalf("first PutRaw() failed: %v", err)
	}
	if err := s.PutRaw(ctx, "sk", "2"); err != nil {
		t.Fatalf("second PutRaw() failed: %v", err)
	}

	got, err := s.GetRaw(ctx, "sk")
	if err != nil {
		t.Fatalf("GetRaw() failed: %v", err)
	}
	if got != "2" {
		t.Errorf("GetRaw() = %q, want %q", got, "2")
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d after upsert, want 1", n)
	}
}

func TestDeleteRaw_Present(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	if err := s.PutRaw(ctx, "sk", "1"); err != nil {
		t.Fatalf("PutRaw() failed: %v", err)
	}
	if err := s.DeleteRaw(ctx, "sk"); err != nil {
		t.Fatalf("DeleteRaw() failed: %v", err)
	}

	if _, err := s.GetRaw(ctx, "sk"); err != ErrNotFound {
		t.Errorf("GetRaw() after delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteRaw_AbsentIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	if err := s.DeleteRaw(ctx, "smissing"); err != nil {
		t.Errorf("DeleteRaw() of absent key should be a no-op, got %v", err)
	}
}

func TestHas(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	ok, err := s.Has(ctx, "sk")
	if err != nil {
		t.Fatalf("Has() failed: %v", err)
	}
	if ok {
		t.Error("Has() = true for absent key")
	}

	if err := s.PutRaw(ctx, "sk", "1"); err != nil {
		t.Fatalf("PutRaw() failed: %v", err)
	}

	ok, err = s.Has(ctx, "sk")
	if err != nil {
		t.Fatalf("Has() failed: %v", err)
	}
	if !ok {
		t.Error("Has() = false for present key")
	}
}

func TestKeys_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	want := []string{"sc", "sa", "sb"}
	for _, k := range want {
		if err := s.PutRaw(ctx, k, "0"); err != nil {
			t.Fatalf("PutRaw(%q) failed: %v", k, err)
		}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if len(keys) != len(want) {
		t.Fatalf("Keys() returned %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestKeys_UpsertKeepsPosition(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	for _, k := range []string{"sa", "sb", "sc"} {
		if err := s.PutRaw(ctx, k, "0"); err != nil {
			t.Fatalf("PutRaw(%q) failed: %v", k, err)
		}
	}
	// Overwriting the first key must not move it to the end.
	if err := s.PutRaw(ctx, "sa", "1"); err != nil {
		t.Fatalf("PutRaw() failed: %v", err)
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if keys[0] != "sa" {
		t.Errorf("Keys()[0] = %q after upsert, want %q", keys[0], "sa")
	}
}

func TestKeys_EmptyNotNil(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if keys == nil {
		t.Error("Keys() returned nil, want empty slice")
	}
	if len(keys) != 0 {
		t.Errorf("Keys() returned %d keys, want 0", len(keys))
	}
}

func TestItems(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	if err := s.PutRaw(ctx, "sa", "1"); err != nil {
		t.Fatalf("PutRaw() failed: %v", err)
	}
	if err := s.PutRaw(ctx, "sb", "2"); err != nil {
		t.Fatalf("PutRaw() failed: %v", err)
	}

	items, err := s.Items(ctx)
	if err != nil {
		t.Fatalf("Items() failed: %v", err)
	}
	want := []Item{{Key: "sa", Value: "1"}, {Key: "sb", Value: "2"}}
	if len(items) != len(want) {
		t.Fatalf("Items() returned %d items, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("Items()[%d] = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestCount_ConsistentWithKeys(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	for i := 0; i < 10; i++ {
		if err := s.PutRaw(ctx, fmt.Sprintf("i%d", i), "0"); err != nil {
			t.Fatalf("PutRaw() failed: %v", err)
		}
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if n != int64(len(keys)) {
		t.Errorf("Count() = %d, len(Keys()) = %d", n, len(keys))
	}
}
