package vesting

import "errors"

var (
	ErrInvalidInput                 = errors.New("InvalidInput")
	ErrDuplicateSchedule            = errors.New("DuplicateSchedule")
	ErrNoSchedule                   = errors.New("NoSchedule")
	ErrInsufficientBalance          = errors.New("InsufficientBalance")
	ErrInsufficientVestedBalance    = errors.New("InsufficientVestedBalance")
	ErrInsufficientReleasedBalance  = errors.New("InsufficientReleasedBalance")
	ErrInsufficientWithdrawnBalance = errors.New("InsufficientWithdrawnBalance")
	ErrVestingNotRevocable          = errors.New("VestingNotRevocable")
	ErrVestingAlreadyRevoked        = errors.New("VestingAlreadyRevoked")
	ErrUnauthorized                 = errors.New("Unauthorized")
	// ErrConservation reports a ledger delta that would break the invariant
	// withdrawn <= released <= total or make the held total negative.
	ErrConservation = errors.New("ConservationViolation")
)
