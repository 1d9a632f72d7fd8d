package eventbus

import (
	"math/big"
	"testing"
	"time"

	"github.com/kilianp07/vesting/core/events"
)

func TestBusEmitSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	evt := events.New(events.KindVested, "alice", big.NewInt(100), time.Now())
	if err := bus.Emit(evt); err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := <-ch
	if got.Kind != events.KindVested || got.Beneficiary != "alice" {
		t.Fatalf("unexpected event %+v", got)
	}
	if got.Amount.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected amount 100 got %s", got.Amount)
	}
	bus.Unsubscribe(ch)
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
