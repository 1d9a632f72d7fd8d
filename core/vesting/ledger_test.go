package vesting

import (
	"errors"
	"math/big"
	"testing"
)

func TestLedgerVestReleaseWithdraw(t *testing.T) {
	l := NewLedger()

	if _, err := l.ApplyVest("alice", big.NewInt(1000)); err != nil {
		t.Fatalf("vest: %v", err)
	}
	if got := l.HeldTokens(); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("held = %s, want 1000", got)
	}

	if _, err := l.ApplyRelease("alice", big.NewInt(400)); err != nil {
		t.Fatalf("release: %v", err)
	}
	// Release keeps the tokens pooled.
	if got := l.HeldTokens(); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("held after release = %s, want 1000", got)
	}

	acc, err := l.ApplyWithdraw("alice", big.NewInt(300))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if acc.Withdrawn.Cmp(big.NewInt(300)) != 0 || acc.Vested.Cmp(big.NewInt(700)) != 0 {
		t.Fatalf("unexpected aggregates %+v", acc)
	}
	if got := l.HeldTokens(); got.Cmp(big.NewInt(700)) != 0 {
		t.Fatalf("held after withdraw = %s, want 700", got)
	}
}

func TestLedgerRejectsWithdrawBeyondReleased(t *testing.T) {
	l := NewLedger()
	if _, err := l.ApplyVest("alice", big.NewInt(1000)); err != nil {
		t.Fatalf("vest: %v", err)
	}
	if _, err := l.ApplyRelease("alice", big.NewInt(100)); err != nil {
		t.Fatalf("release: %v", err)
	}

	if _, err := l.ApplyWithdraw("alice", big.NewInt(101)); !errors.Is(err, ErrConservation) {
		t.Fatalf("expected ErrConservation, got %v", err)
	}
	// The rejected delta must leave nothing behind.
	acc := l.Accounts("alice")
	if acc.Withdrawn.Sign() != 0 || acc.Vested.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("rejected withdraw mutated state: %+v", acc)
	}
	if got := l.HeldTokens(); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("rejected withdraw changed held: %s", got)
	}
}

func TestLedgerRejectsRevokeBeyondClaim(t *testing.T) {
	l := NewLedger()
	if _, err := l.ApplyVest("alice", big.NewInt(500)); err != nil {
		t.Fatalf("vest: %v", err)
	}
	if _, err := l.ApplyRevoke("alice", big.NewInt(501)); !errors.Is(err, ErrConservation) {
		t.Fatalf("expected ErrConservation, got %v", err)
	}
	if acc := l.Accounts("alice"); acc.Revoked.Sign() != 0 || acc.Vested.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("rejected revoke mutated state: %+v", acc)
	}
}

func TestLedgerRevokeZeroAllowed(t *testing.T) {
	l := NewLedger()
	if _, err := l.ApplyVest("alice", big.NewInt(500)); err != nil {
		t.Fatalf("vest: %v", err)
	}
	acc, err := l.ApplyRevoke("alice", big.NewInt(0))
	if err != nil {
		t.Fatalf("zero revoke: %v", err)
	}
	if acc.Vested.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("zero revoke changed vested: %s", acc.Vested)
	}
}

func TestLedgerRejectsInvalidAmounts(t *testing.T) {
	l := NewLedger()
	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		if _, err := l.ApplyVest("alice", amount); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("vest(%v): expected ErrInvalidInput, got %v", amount, err)
		}
		if _, err := l.ApplyRelease("alice", amount); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("release(%v): expected ErrInvalidInput, got %v", amount, err)
		}
		if _, err := l.ApplyWithdraw("alice", amount); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("withdraw(%v): expected ErrInvalidInput, got %v", amount, err)
		}
	}
}

func TestLedgerSnapshotRestore(t *testing.T) {
	l := NewLedger()
	if _, err := l.ApplyVest("alice", big.NewInt(1000)); err != nil {
		t.Fatalf("vest: %v", err)
	}

	snap := l.Snapshot("alice")
	if _, err := l.ApplyRelease("alice", big.NewInt(400)); err != nil {
		t.Fatalf("release: %v", err)
	}
	l.Restore(snap)

	acc := l.Accounts("alice")
	if acc.Released.Sign() != 0 || acc.Vested.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("restore did not roll back: %+v", acc)
	}
}

func TestLedgerRestoreRemovesFreshAccount(t *testing.T) {
	l := NewLedger()
	snap := l.Snapshot("alice")
	if _, err := l.ApplyVest("alice", big.NewInt(1000)); err != nil {
		t.Fatalf("vest: %v", err)
	}
	l.Restore(snap)

	if got := l.Beneficiaries(); len(got) != 0 {
		t.Fatalf("expected no beneficiaries after restore, got %v", got)
	}
	if got := l.HeldTokens(); got.Sign() != 0 {
		t.Fatalf("expected zero held after restore, got %s", got)
	}
}

func TestLedgerAccountsAreCopies(t *testing.T) {
	l := NewLedger()
	if _, err := l.ApplyVest("alice", big.NewInt(1000)); err != nil {
		t.Fatalf("vest: %v", err)
	}
	acc := l.Accounts("alice")
	acc.Vested.SetInt64(0)
	if got := l.Accounts("alice"); got.Vested.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("caller mutated ledger state through returned copy")
	}
	held := l.HeldTokens()
	held.SetInt64(0)
	if got := l.HeldTokens(); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("caller mutated held total through returned copy")
	}
}
