package vesting

import (
	"math/big"
	"testing"
	"time"

	"github.com/kilianp07/vesting/core/model"
)

const day = 24 * time.Hour

func testSchedule(start time.Time) *model.Schedule {
	return &model.Schedule{
		Beneficiary:     "alice",
		TotalAmount:     big.NewInt(1_000_000),
		StartTime:       start,
		CliffTime:       start.Add(30 * day),
		CliffAmount:     big.NewInt(250_000),
		Duration:        180 * day,
		Interval:        30 * day,
		ReleasedAmount:  big.NewInt(0),
		WithdrawnAmount: big.NewInt(0),
	}
}

func TestUnlockedAtSchedule(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := testSchedule(start)

	tests := []struct {
		name string
		at   time.Time
		want int64
	}{
		{"before cliff", start.Add(29 * day), 0},
		{"just before cliff", s.CliffTime.Add(-time.Second), 0},
		{"at cliff", start.Add(30 * day), 250_000},
		{"partial interval not credited", start.Add(45 * day), 250_000},
		{"one interval past cliff", start.Add(60 * day), 400_000},
		{"two intervals past cliff", start.Add(90 * day), 550_000},
		{"four whole intervals credited", start.Add(179 * day), 850_000},
		{"at end", start.Add(180 * day), 1_000_000},
		{"after end", start.Add(500 * day), 1_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnlockedAt(s, tt.at)
			if got.Cmp(big.NewInt(tt.want)) != 0 {
				t.Fatalf("UnlockedAt(%s) = %s, want %d", tt.at, got, tt.want)
			}
		})
	}
}

func TestUnlockedAtMonotonic(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := testSchedule(start)

	prev := big.NewInt(-1)
	for d := 0; d <= 200; d++ {
		at := start.Add(time.Duration(d) * day)
		got := UnlockedAt(s, at)
		if got.Cmp(prev) < 0 {
			t.Fatalf("unlock decreased at day %d: %s < %s", d, got, prev)
		}
		if got.Cmp(s.TotalAmount) > 0 {
			t.Fatalf("unlock exceeds total at day %d: %s", d, got)
		}
		prev = got
	}
}

func TestUnlockedAtZeroCliffAmount(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := testSchedule(start)
	s.CliffAmount = big.NewInt(0)

	if got := UnlockedAt(s, s.CliffTime); got.Sign() != 0 {
		t.Fatalf("expected 0 at cliff, got %s", got)
	}
	// One interval of the 150d post-cliff span: 1,000,000 * 30/150.
	if got := UnlockedAt(s, start.Add(60*day)); got.Cmp(big.NewInt(200_000)) != 0 {
		t.Fatalf("expected 200000, got %s", got)
	}
}

func TestUnlockedAtIntervalLargerThanSpan(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := testSchedule(start)
	s.Interval = 200 * day

	// No whole interval fits before the end: only the cliff amount unlocks
	// until the schedule completes.
	if got := UnlockedAt(s, start.Add(100*day)); got.Cmp(s.CliffAmount) != 0 {
		t.Fatalf("expected cliff amount, got %s", got)
	}
	if got := UnlockedAt(s, s.End()); got.Cmp(s.TotalAmount) != 0 {
		t.Fatalf("expected full vest at end, got %s", got)
	}
}

func TestUnlockedAtImmediateCliff(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := testSchedule(start)
	s.CliffTime = start
	s.CliffAmount = big.NewInt(100_000)

	if got := UnlockedAt(s, start); got.Cmp(big.NewInt(100_000)) != 0 {
		t.Fatalf("expected cliff amount at start, got %s", got)
	}
	// 90d of the 180d span credited in whole 30d intervals: 900,000 * 90/180.
	if got := UnlockedAt(s, start.Add(90*day)); got.Cmp(big.NewInt(550_000)) != 0 {
		t.Fatalf("expected 550000, got %s", got)
	}
}

func TestUnlockedAtIsPure(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := testSchedule(start)
	at := start.Add(60 * day)

	before := s.Clone()
	_ = UnlockedAt(s, at)
	if s.TotalAmount.Cmp(before.TotalAmount) != 0 || s.CliffAmount.Cmp(before.CliffAmount) != 0 {
		t.Fatalf("UnlockedAt mutated the schedule")
	}
	a, b := UnlockedAt(s, at), UnlockedAt(s, at)
	if a.Cmp(b) != 0 {
		t.Fatalf("UnlockedAt is not deterministic: %s vs %s", a, b)
	}
}
