package vesting

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/kilianp07/vesting/core/model"
)

// Ledger maintains the per-beneficiary aggregate totals and the contract-wide
// held total. Every Apply method validates its delta against the conservation
// invariant before touching state; a delta that would break the invariant is
// rejected, never clamped, and leaves the ledger untouched.
//
// The Ledger is not safe for concurrent use on its own. The Service serializes
// all access behind its operation lock.
type Ledger struct {
	accounts map[string]*model.Accounts
	held     *big.Int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[string]*model.Accounts),
		held:     big.NewInt(0),
	}
}

// Accounts returns a copy of the aggregates for the beneficiary, zeroed if the
// beneficiary is unknown.
func (l *Ledger) Accounts(beneficiary string) model.Accounts {
	if acc, ok := l.accounts[beneficiary]; ok {
		return acc.Clone()
	}
	return model.ZeroAccounts()
}

// AllAccounts returns a copy of every beneficiary's aggregates.
func (l *Ledger) AllAccounts() map[string]model.Accounts {
	out := make(map[string]model.Accounts, len(l.accounts))
	for b, acc := range l.accounts {
		out[b] = acc.Clone()
	}
	return out
}

// Beneficiaries returns the known beneficiary keys in sorted order.
func (l *Ledger) Beneficiaries() []string {
	keys := make([]string, 0, len(l.accounts))
	for b := range l.accounts {
		keys = append(keys, b)
	}
	sort.Strings(keys)
	return keys
}

// HeldTokens returns a copy of the contract-wide held total.
func (l *Ledger) HeldTokens() *big.Int { return new(big.Int).Set(l.held) }

// ApplyVest records a newly created schedule: the full allocation becomes
// claimable and joins the pooled holdings.
func (l *Ledger) ApplyVest(beneficiary string, amount *big.Int) (model.Accounts, error) {
	if err := validAmount(amount); err != nil {
		return model.Accounts{}, err
	}
	acc := l.account(beneficiary)
	acc.Vested.Add(acc.Vested, amount)
	l.held.Add(l.held, amount)
	return acc.Clone(), nil
}

// ApplyRelease moves the amount from locked to released within the ledger. The
// held total is unchanged: the tokens stay pooled until withdrawn.
func (l *Ledger) ApplyRelease(beneficiary string, amount *big.Int) (model.Accounts, error) {
	if err := validAmount(amount); err != nil {
		return model.Accounts{}, err
	}
	acc := l.account(beneficiary)
	acc.Released.Add(acc.Released, amount)
	return acc.Clone(), nil
}

// ApplyWithdraw records an external payout of previously released tokens.
func (l *Ledger) ApplyWithdraw(beneficiary string, amount *big.Int) (model.Accounts, error) {
	if err := validAmount(amount); err != nil {
		return model.Accounts{}, err
	}
	acc := l.account(beneficiary)
	withdrawn := new(big.Int).Add(acc.Withdrawn, amount)
	if withdrawn.Cmp(acc.Released) > 0 {
		return model.Accounts{}, fmt.Errorf("%w: withdraw %s exceeds released %s for %s",
			ErrConservation, withdrawn, acc.Released, beneficiary)
	}
	if amount.Cmp(acc.Vested) > 0 || amount.Cmp(l.held) > 0 {
		return model.Accounts{}, fmt.Errorf("%w: withdraw %s exceeds outstanding claim for %s",
			ErrConservation, amount, beneficiary)
	}
	acc.Withdrawn.Set(withdrawn)
	acc.Vested.Sub(acc.Vested, amount)
	l.held.Sub(l.held, amount)
	return acc.Clone(), nil
}

// ApplyRevoke cancels the still-locked remainder of a schedule and removes it
/// from the pooled holdings. A zero amount is allowed: revoking a fully
// released schedule moves nothing.
func (l *Ledger) ApplyRevoke(beneficiary string, amount *big.Int) (model.Accounts, error) {
	if amount == nil || amount.Sign() < 0 {
		return model.Accounts{}, fmt.Errorf("%w: nil or negative amount", ErrInvalidInput)
	}
	acc := l.account(beneficiary)
	if amount.Cmp(acc.Vested) > 0 || amount.Cmp(l.held) > 0 {
		return model.Accounts{}, fmt.Errorf("%w: revoke %s exceeds outstanding claim for %s",
			ErrConservation, amount, beneficiary)
	}
	acc.Revoked.Add(acc.Revoked, amount)
	acc.Vested.Sub(acc.Vested, amount)
	l.held.Sub(l.held, amount)
	return acc.Clone(), nil
}

// Snapshot captures the state needed to undo a single beneficiary's mutation.
type Snapshot struct {
	beneficiary string
	accounts    *model.Accounts
	held        *big.Int
}

// Snapshot returns a restore point for the beneficiary and the held total.
func (l *Ledger) Snapshot(beneficiary string) Snapshot {
	snap := Snapshot{beneficiary: beneficiary, held: new(big.Int).Set(l.held)}
	if acc, ok := l.accounts[beneficiary]; ok {
		c := acc.Clone()
		snap.accounts = &c
	}
	return snap
}

// Restore rolls the beneficiary's aggregates and the held total back to the
// snapshot. Used when the external transfer of an operation fails so that the
// whole operation commits or nothing does.
func (l *Ledger) Restore(snap Snapshot) {
	l.held.Set(snap.held)
	if snap.accounts == nil {
		delete(l.accounts, snap.beneficiary)
		return
	}
	acc := snap.accounts.Clone()
	l.accounts[snap.beneficiary] = &acc
}

func (l *Ledger) account(beneficiary string) *model.Accounts {
	acc, ok := l.accounts[beneficiary]
	if !ok {
		zero := model.ZeroAccounts()
		acc = &zero
		l.accounts[beneficiary] = acc
	}
	return acc
}

func validAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	return nil
}
