// Package events defines the records emitted after every state-changing
// vesting operation.
//
// Available kinds:
//   - Vested: a schedule was created and funded
//   - Released: locked tokens became withdrawable
//   - Withdrawn: tokens were paid out to the beneficiary
//   - Revoked: the still-locked remainder was returned to the administrator
package events

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the operation an event reports.
type Kind string

const (
	KindVested    Kind = "Vested"
	KindReleased  Kind = "Released"
	KindWithdrawn Kind = "Withdrawn"
	KindRevoked   Kind = "Revoked"
)

// Event is one vesting operation record.
type Event struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Beneficiary string    `json:"beneficiary"`
	Amount      *big.Int  `json:"amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// New builds an event with a fresh unique ID.
func New(kind Kind, beneficiary string, amount *big.Int, at time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Kind:        kind,
		Beneficiary: beneficiary,
		Amount:      new(big.Int).Set(amount),
		OccurredAt:  at,
	}
}

// Emitter receives vesting events for observability purposes.
type Emitter interface {
	Emit(evt Event) error
}

// NopEmitter implements Emitter with a no-op.
type NopEmitter struct{}

func (NopEmitter) Emit(Event) error { return nil }
