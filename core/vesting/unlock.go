package vesting

import (
	"math/big"
	"time"

	"github.com/kilianp07/vesting/core/model"
)

// UnlockedAt returns the cumulative amount of s.TotalAmount that has unlocked
// at time t. It is pure and independent of what has already been released or
// withdrawn; callers subtract the released amount to obtain the newly
// releasable delta.
//
// Before the cliff nothing is unlocked. Between the cliff and the end of the
// schedule the cliff amount plus a linear share of the remainder is unlocked,
// counted in whole Interval units only. From s.End() on the full allocation
// is unlocked.
func UnlockedAt(s *model.Schedule, t time.Time) *big.Int {
	if t.Before(s.CliffTime) {
		return big.NewInt(0)
	}
	if !t.Before(s.End()) {
		return new(big.Int).Set(s.TotalAmount)
	}

	spanSec := int64(s.End().Sub(s.CliffTime) / time.Second)
	if spanSec <= 0 || s.Interval <= 0 {
		return new(big.Int).Set(s.CliffAmount)
	}

	// Credit whole intervals only: no partial-interval credit.
	steps := t.Sub(s.CliffTime) / s.Interval
	creditedSec := int64(time.Duration(steps) * s.Interval / time.Second)

	linear := new(big.Int).Sub(s.TotalAmount, s.CliffAmount)
	linear.Mul(linear, big.NewInt(creditedSec))
	linear.Div(linear, big.NewInt(spanSec))

	unlocked := new(big.Int).Add(s.CliffAmount, linear)
	if unlocked.Cmp(s.TotalAmount) > 0 {
		unlocked.Set(s.TotalAmount)
	}
	return unlocked
}
