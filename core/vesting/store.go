package vesting

import (
	"fmt"
	"sync"

	"github.com/kilianp07/vesting/core/model"
)

// ScheduleStore keeps one schedule per beneficiary. Creation fails for a key
// that ever held a schedule, revoked or not; schedules are never deleted and
// stay queryable for historical accounting. Remove exists solely so a failed
// creation can be unwound before it becomes visible.
type ScheduleStore interface {
	Create(s *model.Schedule) error
	Get(beneficiary string) (*model.Schedule, error)
	Mutate(beneficiary string, fn func(*model.Schedule) error) error
	Remove(beneficiary string)
}

// MemoryStore is the in-memory ScheduleStore.
type MemoryStore struct {
	mu        sync.RWMutex
	schedules map[string]*model.Schedule
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{schedules: make(map[string]*model.Schedule)}
}

// Create stores a copy of the schedule. It fails with ErrDuplicateSchedule if
// the beneficiary already has one, regardless of its revoked state.
func (m *MemoryStore) Create(s *model.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[s.Beneficiary]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSchedule, s.Beneficiary)
	}
	m.schedules[s.Beneficiary] = s.Clone()
	return nil
}

// Get returns a copy of the beneficiary's schedule or ErrNoSchedule.
func (m *MemoryStore) Get(beneficiary string) (*model.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.schedules[beneficiary]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSchedule, beneficiary)
	}
	return s.Clone(), nil
}

// Mutate applies fn to the stored schedule. fn must only touch the mutable
// fields and must not fail after mutating.
func (m *MemoryStore) Mutate(beneficiary string, fn func(*model.Schedule) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[beneficiary]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSchedule, beneficiary)
	}
	return fn(s)
}

// Remove discards the beneficiary's schedule. Only used to unwind a creation
// whose external transfer failed.
func (m *MemoryStore) Remove(beneficiary string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.schedules, beneficiary)
}
