package store_test

import (
	"testing"
	"time"

	"github.com/krisalay/coalescing-cache/policy"
	"github.com/krisalay/coalescing-cache/store"
)

func testTable() *policy.Table {
	return policy.NewTable(map[string]time.Duration{
		"alchemy_price": 5 * time.Minute,
		"token_info":    time.Hour,
	}, time.Minute)
}

func TestPutAndGet(t *testing.T) {
	s := store.NewTTLStore()

	s.Put("alchemy_price:ETH", "alchemy_price", "v1")

	ent, ok := s.Get("alchemy_price:ETH")
	if !ok {
		t.Fatal("expected entry")
	}
	if ent.Value != "v1" || ent.Category != "alchemy_price" {
		t.Fatalf("unexpected entry: %+v", ent)
	}
	if ent.StoredAt.IsZero() {
		t.Fatal("expected StoredAt to be set")
	}
}

func TestGetMissIsNotAnError(t *testing.T) {
	s := store.NewTTLStore()

	if _, ok := s.Get("absent"); ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestPutOverwritesAndResetsAge(t *testing.T) {
	s := store.NewTTLStore()

	s.Put("k", "token_info", "v1")
	first, _ := s.Get("k")

	time.Sleep(5 * time.Millisecond)
	s.Put("k", "token_info", "v2")

	ent, _ := s.Get("k")
	if ent.Value != "v2" {
		t.Fatalf("expected v2, got %v", ent.Value)
	}
	if !ent.StoredAt.After(first.StoredAt) {
		t.Fatal("expected StoredAt to move forward on overwrite")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", s.Len())
	}
}

func TestSweepExpiredHonorsCategories(t *testing.T) {
	s := store.NewTTLStore()
	table := testTable()

	s.Put("alchemy_price:ETH", "alchemy_price", "v") // 5m
	s.Put("alchemy_price:BTC", "alchemy_price", "v") // 5m
	s.Put("token_info:USDC", "token_info", "v")      // 1h

	removed := s.SweepExpired(time.Now().Add(10*time.Minute), table)
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, ok := s.Get("token_info:USDC"); !ok {
		t.Fatal("expected token_info entry to survive the sweep")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 entry left, got %d", s.Len())
	}

	// Nothing left to remove at the same instant.
	if removed := s.SweepExpired(time.Now().Add(10*time.Minute), table); removed != 0 {
		t.Fatalf("expected idempotent sweep, removed %d", removed)
	}
}

func TestStatsGroupsByKeyPrefix(t *testing.T) {
	s := store.NewTTLStore()
	table := testTable()

	s.Put("alchemy_price:ETH", "alchemy_price", "v")
	s.Put("alchemy_price:BTC", "alchemy_price", "v")
	s.Put("token_info:USDC", "token_info", "v")
	s.Put("unrelated:key", "mystery", "v")

	stats := s.Stats(time.Now(), table)
	if got := stats["alchemy_price"].Count; got != 2 {
		t.Fatalf("expected alchemy_price count 2, got %d", got)
	}
	if got := stats["token_info"].Count; got != 1 {
		t.Fatalf("expected token_info count 1, got %d", got)
	}

	// Keys that match no category prefix land in the "other" bucket,
	// regardless of the category they were stored under.
	if got := stats[policy.Other].Count; got != 1 {
		t.Fatalf("expected other count 1, got %d", got)
	}
}

func TestStatsAverageAge(t *testing.T) {
	s := store.NewTTLStore()
	table := testTable()

	s.Put("alchemy_price:ETH", "alchemy_price", "v")

	// Viewed one minute later, the single entry averages ~60s.
	stats := s.Stats(time.Now().Add(time.Minute), table)
	avg := stats["alchemy_price"].AverageAgeSeconds
	if avg < 59.0 || avg > 61.0 {
		t.Fatalf("expected ~60s average age, got %.2f", avg)
	}
}

func TestClear(t *testing.T) {
	s := store.NewTTLStore()

	s.Put("a", "x", 1)
	s.Put("b", "x", 2)

	if removed := s.Clear(); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
	if _, ok := s.Get("a"); ok {
		t.Fatal("expected miss after clear")
	}
}
