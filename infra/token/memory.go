// Package token provides an in-memory fungible token ledger standing in for
// the external token contract. Each holder has a balance; the pooled vesting
// holdings are a holder like any other.
package token

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
)

// ErrInsufficientFunds is returned when a transfer exceeds the payer's balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Ledger is an in-memory implementation of token.Transferor.
type Ledger struct {
	mu       sync.Mutex
	pool     string
	balances map[string]*big.Int
}

// NewLedger creates a ledger whose pooled holdings live under the pool holder.
func NewLedger(pool string) *Ledger {
	return &Ledger{pool: pool, balances: make(map[string]*big.Int)}
}

// Mint credits the holder out of thin air. Used to seed the administrator's
// balance at startup and in tests.
func (l *Ledger) Mint(holder string, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.balance(holder)
	b.Add(b, amount)
}

// TransferIn moves the amount from the holder into the pooled holdings.
func (l *Ledger) TransferIn(from string, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move(from, l.pool, amount)
}

// TransferOut moves the amount from the pooled holdings to the holder.
func (l *Ledger) TransferOut(to string, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move(l.pool, to, amount)
}

// BalanceOf reports the holder's balance.
func (l *Ledger) BalanceOf(holder string) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.balance(holder)), nil
}

func (l *Ledger) move(from, to string, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("transfer amount must be positive")
	}
	src := l.balance(from)
	if src.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientFunds, from, src, amount)
	}
	src.Sub(src, amount)
	dst := l.balance(to)
	dst.Add(dst, amount)
	return nil
}

func (l *Ledger) balance(holder string) *big.Int {
	b, ok := l.balances[holder]
	if !ok {
		b = big.NewInt(0)
		l.balances[holder] = b
	}
	return b
}
