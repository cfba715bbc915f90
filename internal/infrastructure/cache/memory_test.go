package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_JSONRoundTripAndExpiry(t *testing.T) {
	m := NewMemory()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	type payload struct{ Name string }
	if err := m.SetJSON(ctx, "k", payload{Name: "Ana"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	ok, err := m.GetJSON(ctx, "k", &got)
	if err != nil || !ok || got.Name != "Ana" {
		t.Fatalf("unexpected get: ok=%v err=%v got=%+v", ok, err, got)
	}

	now = now.Add(time.Minute)
	ok, err = m.GetJSON(ctx, "k", &got)
	if err != nil || ok {
		t.Fatalf("expected expired key, ok=%v err=%v", ok, err)
	}
}

func TestMemory_SetIfNotExists(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ok, err := m.SetIfNotExists(ctx, "lock", "a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first set should win: ok=%v err=%v", ok, err)
	}
	ok, _ = m.SetIfNotExists(ctx, "lock", "b", time.Minute)
	if ok {
		t.Fatalf("second set should lose")
	}
	_ = m.Delete(ctx, "lock")
	ok, _ = m.SetIfNotExists(ctx, "lock", "c", time.Minute)
	if !ok {
		t.Fatalf("set after delete should win")
	}
}

func TestMemory_DeleteIfEquals(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.SetIfNotExists(ctx, "lock", "owner-a", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ok, _ := m.DeleteIfEquals(ctx, "lock", "owner-b"); ok {
		t.Fatalf("a different owner must not delete the key")
	}
	if ok, _ := m.DeleteIfEquals(ctx, "lock", "owner-a"); !ok {
		t.Fatalf("the owner should delete the key")
	}
	if ok, _ := m.SetIfNotExists(ctx, "lock", "owner-b", time.Minute); !ok {
		t.Fatalf("key should be free after the owner released it")
	}
}

func TestMemory_SweepDropsUnreadExpiredEntries(t *testing.T) {
	m := NewMemory()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := m.SetJSON(ctx, k, k, time.Second); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	if m.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", m.Len())
	}

	now = now.Add(sweepInterval)
	if err := m.SetJSON(ctx, "d", "d", time.Hour); err != nil {
		t.Fatalf("set d: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected expired entries to be swept, %d left", m.Len())
	}
}

func TestRedis_NilIsUnavailable(t *testing.T) {
	var r *Redis
	if _, err := r.GetJSON(context.Background(), "k", &struct{}{}); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := r.Ping(context.Background()); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestLimiterStorage_NilFailsOpen(t *testing.T) {
	if NewLimiterStorage(nil, "rl:", nil) != nil {
		t.Fatalf("expected nil storage for nil client")
	}
	var s *LimiterStorage
	if b, err := s.Get("k"); b != nil || err != nil {
		t.Fatalf("nil storage must read as empty, got %v %v", b, err)
	}
	if err := s.Set("k", []byte("v"), time.Second); err != nil {
		t.Fatalf("nil storage must accept writes, got %v", err)
	}
}
