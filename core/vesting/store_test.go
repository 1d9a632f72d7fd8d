package vesting

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/kilianp07/vesting/core/model"
)

func TestMemoryStoreCreateGet(t *testing.T) {
	store := NewMemoryStore()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := testSchedule(start)

	if err := store.Create(s); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := store.Get("alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalAmount.Cmp(s.TotalAmount) != 0 || !got.StartTime.Equal(start) {
		t.Fatalf("unexpected schedule %+v", got)
	}

	// Stored state must not alias the caller's or the returned copy's amounts.
	got.ReleasedAmount.SetInt64(999)
	again, _ := store.Get("alice")
	if again.ReleasedAmount.Sign() != 0 {
		t.Fatalf("caller mutated stored schedule through returned copy")
	}
}

func TestMemoryStoreDuplicate(t *testing.T) {
	store := NewMemoryStore()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := store.Create(testSchedule(start)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(testSchedule(start)); !errors.Is(err, ErrDuplicateSchedule) {
		t.Fatalf("expected ErrDuplicateSchedule, got %v", err)
	}

	// A revoked schedule still blocks re-creation.
	if err := store.Mutate("alice", func(sc *model.Schedule) error {
		sc.Revoked = true
		return nil
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if err := store.Create(testSchedule(start)); !errors.Is(err, ErrDuplicateSchedule) {
		t.Fatalf("expected ErrDuplicateSchedule after revoke, got %v", err)
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get("nobody"); !errors.Is(err, ErrNoSchedule) {
		t.Fatalf("expected ErrNoSchedule, got %v", err)
	}
	err := store.Mutate("nobody", func(*model.Schedule) error { return nil })
	if !errors.Is(err, ErrNoSchedule) {
		t.Fatalf("expected ErrNoSchedule, got %v", err)
	}
}

func TestMemoryStoreMutate(t *testing.T) {
	store := NewMemoryStore()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := store.Create(testSchedule(start)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Mutate("alice", func(sc *model.Schedule) error {
		sc.ReleasedAmount.Add(sc.ReleasedAmount, big.NewInt(250_000))
		return nil
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	got, _ := store.Get("alice")
	if got.ReleasedAmount.Cmp(big.NewInt(250_000)) != 0 {
		t.Fatalf("mutation not persisted: %s", got.ReleasedAmount)
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	store := NewMemoryStore()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := store.Create(testSchedule(start)); err != nil {
		t.Fatalf("create: %v", err)
	}
	store.Remove("alice")
	if _, err := store.Get("alice"); !errors.Is(err, ErrNoSchedule) {
		t.Fatalf("expected ErrNoSchedule after remove, got %v", err)
	}
	if err := store.Create(testSchedule(start)); err != nil {
		t.Fatalf("create after remove: %v", err)
	}
}
