// Package history persists vesting event records so past operations can be
// queried for auditing.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/vesting/core/events"
)

// Query defines filters for retrieving records. Zero fields match everything.
type Query struct {
	Start       time.Time
	End         time.Time
	Beneficiary string
	Kind        events.Kind
}

func (q Query) matches(evt events.Event) bool {
	if !q.Start.IsZero() && evt.OccurredAt.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && evt.OccurredAt.After(q.End) {
		return false
	}
	if q.Beneficiary != "" && evt.Beneficiary != q.Beneficiary {
		return false
	}
	if q.Kind != "" && evt.Kind != q.Kind {
		return false
	}
	return true
}

// Store persists event records and supports querying.
type Store interface {
	Append(ctx context.Context, evt events.Event) error
	Query(ctx context.Context, q Query) ([]events.Event, error)
	Close() error
}

// Emitter adapts a Store to the events.Emitter collaborator so every
// operation is recorded as it happens.
type Emitter struct {
	store Store
}

// NewEmitter wraps the store.
func NewEmitter(store Store) *Emitter {
	return &Emitter{store: store}
}

// Emit appends the event to the store.
func (e *Emitter) Emit(evt events.Event) error {
	if err := e.store.Append(context.Background(), evt); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
