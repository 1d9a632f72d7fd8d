package token

import (
	"errors"
	"math/big"
	"sync"
	"testing"
)

func TestTransferRoundTrip(t *testing.T) {
	l := NewLedger("pool")
	l.Mint("alice", big.NewInt(1_000))

	if err := l.TransferIn("alice", big.NewInt(600)); err != nil {
		t.Fatalf("transfer in: %v", err)
	}
	if err := l.TransferOut("bob", big.NewInt(200)); err != nil {
		t.Fatalf("transfer out: %v", err)
	}

	check := func(holder string, want int64) {
		t.Helper()
		b, err := l.BalanceOf(holder)
		if err != nil {
			t.Fatalf("balance of %s: %v", holder, err)
		}
		if b.Cmp(big.NewInt(want)) != 0 {
			t.Fatalf("balance of %s = %s, want %d", holder, b, want)
		}
	}
	check("alice", 400)
	check("pool", 400)
	check("bob", 200)
}

func TestTransferInsufficientFunds(t *testing.T) {
	l := NewLedger("pool")
	l.Mint("alice", big.NewInt(100))

	if err := l.TransferIn("alice", big.NewInt(200)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if err := l.TransferOut("alice", big.NewInt(1)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds from empty pool, got %v", err)
	}
	// Nothing moved.
	if b, _ := l.BalanceOf("alice"); b.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("alice balance = %s, want 100", b)
	}
}

func TestTransferInvalidAmount(t *testing.T) {
	l := NewLedger("pool")
	l.Mint("alice", big.NewInt(100))

	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		if err := l.TransferIn("alice", amount); err == nil {
			t.Fatalf("expected error for amount %v", amount)
		}
	}
}

func TestBalanceOfReturnsCopy(t *testing.T) {
	l := NewLedger("pool")
	l.Mint("alice", big.NewInt(100))

	b, _ := l.BalanceOf("alice")
	b.SetInt64(0)
	if b2, _ := l.BalanceOf("alice"); b2.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("internal balance mutated through returned value")
	}
}

func TestConcurrentTransfers(t *testing.T) {
	l := NewLedger("pool")
	l.Mint("alice", big.NewInt(1_000))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = l.TransferIn("alice", big.NewInt(1))
			}
		}()
	}
	wg.Wait()

	if b, _ := l.BalanceOf("pool"); b.Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("pool balance = %s, want 1000", b)
	}
	if b, _ := l.BalanceOf("alice"); b.Sign() != 0 {
		t.Fatalf("alice balance = %s, want 0", b)
	}
}
