package model

import (
	"math/big"
	"time"
)

// Schedule holds the vesting plan of a single beneficiary. The allocation and
// timing fields are fixed when the schedule is created; only ReleasedAmount,
// WithdrawnAmount and Revoked change afterwards, and all three are monotonic.
type Schedule struct {
	Beneficiary string
	TotalAmount *big.Int
	StartTime   time.Time
	// CliffTime is the earliest instant at which CliffAmount unlocks.
	// It is never before StartTime.
	CliffTime   time.Time
	CliffAmount *big.Int
	// Duration spans from StartTime to full unlock.
	Duration time.Duration
	// Interval is the granularity of linear release after the cliff. Only
	// whole elapsed intervals are credited.
	Interval  time.Duration
	Revocable bool

	ReleasedAmount  *big.Int
	WithdrawnAmount *big.Int
	Revoked         bool
}

// End returns the instant at which the schedule is fully unlocked.
func (s *Schedule) End() time.Time { return s.StartTime.Add(s.Duration) }

// Withdrawable returns the released but not yet withdrawn amount.
func (s *Schedule) Withdrawable() *big.Int {
	return new(big.Int).Sub(s.ReleasedAmount, s.WithdrawnAmount)
}

// Clone returns a deep copy so callers can never alias the stored amounts.
func (s *Schedule) Clone() *Schedule {
	c := *s
	c.TotalAmount = new(big.Int).Set(s.TotalAmount)
	c.CliffAmount = new(big.Int).Set(s.CliffAmount)
	c.ReleasedAmount = new(big.Int).Set(s.ReleasedAmount)
	c.WithdrawnAmount = new(big.Int).Set(s.WithdrawnAmount)
	return &c
}
