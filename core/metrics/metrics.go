package metrics

import (
	"math/big"
	"time"
)

// OperationRecord represents one vesting operation to be recorded.
type OperationRecord struct {
	Op          string
	Beneficiary string
	Amount      *big.Int
	HeldTokens  *big.Int
	Time        time.Time
}

// Sink records vesting operations for observability purposes.
type Sink interface {
	RecordOperation(recs []OperationRecord) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordOperation([]OperationRecord) error { return nil }
