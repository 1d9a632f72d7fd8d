package vesting

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/kilianp07/vesting/core/auth"
	"github.com/kilianp07/vesting/core/events"
	"github.com/kilianp07/vesting/core/logger"
	"github.com/kilianp07/vesting/core/metrics"
	"github.com/kilianp07/vesting/core/model"
	"github.com/kilianp07/vesting/core/token"
)

// DefaultPoolAccount names the pooled holdings when no account is configured.
const DefaultPoolAccount = "vesting-pool"

// Grant carries the parameters of a new schedule. StartTime is always the
// service clock's now; a zero CliffTime means the cliff coincides with the
// start.
type Grant struct {
	Beneficiary string
	TotalAmount *big.Int
	CliffTime   time.Time
	CliffAmount *big.Int
	Duration    time.Duration
	Interval    time.Duration
	Revocable   bool
}

// Service orchestrates the four state-changing vesting operations and the
// read-only queries. Each operation runs under a single scoped lock: reads,
// validation, ledger mutation and the external transfer commit as one unit or
// not at all. The transfer is always requested last so a failed transfer rolls
// the whole operation back.
type Service struct {
	mu      sync.Mutex
	store   ScheduleStore
	ledger  *Ledger
	token   token.Transferor
	auth    auth.Authorizer
	emitter events.Emitter
	sink    metrics.Sink
	clock   model.Clock
	pool    string
	log     logger.Logger
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// NewService creates a new service. emitter, sink, clock and log may be nil;
// no-op implementations and the wall clock are used. pool names the holder of
// the pooled token balance and defaults to DefaultPoolAccount.
func NewService(store ScheduleStore, ledger *Ledger, transferor token.Transferor, authorizer auth.Authorizer,
	emitter events.Emitter, sink metrics.Sink, clock model.Clock, pool string, log logger.Logger) (*Service, error) {
	if store == nil || ledger == nil || transferor == nil || authorizer == nil {
		return nil, fmt.Errorf("vesting: nil parameter provided to NewService")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if clock == nil {
		clock = model.WallClock{}
	}
	if pool == "" {
		pool = DefaultPoolAccount
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Service{
		store:   store,
		ledger:  ledger,
		token:   transferor,
		auth:    authorizer,
		emitter: emitter,
		sink:    sink,
		clock:   clock,
		pool:    pool,
		log:     log,
	}, nil
}

// Vest creates and funds a schedule for g.Beneficiary. Only an administrator
// may call it. The allocation is transferred from the caller into the pooled
// holdings after the ledger has been updated; a failed transfer undoes both
// the ledger entry and the schedule.
func (s *Service) Vest(caller string, g Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsAdministrator(caller) {
		return fmt.Errorf("%w: %s may not create schedules", ErrUnauthorized, caller)
	}
	now := s.clock.Now()
	sched, err := newSchedule(g, now)
	if err != nil {
		return err
	}
	if sched.Interval > sched.End().Sub(sched.CliffTime) {
		s.log.Warnf("schedule for %s has no whole release interval before full vest", g.Beneficiary)
	}
	funds, err := s.token.BalanceOf(caller)
	if err != nil {
		return fmt.Errorf("grantor balance: %w", err)
	}
	if funds.Cmp(g.TotalAmount) < 0 {
		return fmt.Errorf("%w: %s holds %s, allocation needs %s", ErrInsufficientBalance, caller, funds, g.TotalAmount)
	}

	if err := s.store.Create(sched); err != nil {
		return err
	}
	snap := s.ledger.Snapshot(g.Beneficiary)
	if _, err := s.ledger.ApplyVest(g.Beneficiary, g.TotalAmount); err != nil {
		s.store.Remove(g.Beneficiary)
		return err
	}
	if err := s.token.TransferIn(caller, g.TotalAmount); err != nil {
		s.ledger.Restore(snap)
		s.store.Remove(g.Beneficiary)
		return fmt.Errorf("transfer in: %w", err)
	}

	s.log.Infof("vested %s to %s over %s", g.TotalAmount, g.Beneficiary, g.Duration)
	s.report(events.KindVested, g.Beneficiary, g.TotalAmount, now)
	return nil
}

// Release moves the caller's newly unlocked tokens from locked to released
// within the ledger and returns the released delta. No external transfer
// occurs; the delta becomes eligible for a subsequent Withdraw. The delta is
// clamped to the pooled balance.
func (s *Service) Release(caller string) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, err := s.store.Get(caller)
	if err != nil {
		return nil, err
	}
	if sched.Revoked {
		return nil, fmt.Errorf("%w: %s", ErrVestingAlreadyRevoked, caller)
	}

	now := s.clock.Now()
	delta := new(big.Int).Sub(UnlockedAt(sched, now), sched.ReleasedAmount)
	pooled, err := s.token.BalanceOf(s.pool)
	if err != nil {
		return nil, fmt.Errorf("pooled balance: %w", err)
	}
	if delta.Cmp(pooled) > 0 {
		delta.Set(pooled)
	}
	if delta.Sign() <= 0 || pooled.Sign() == 0 {
		return nil, fmt.Errorf("%w: nothing newly unlocked for %s", ErrInsufficientReleasedBalance, caller)
	}

	snap := s.ledger.Snapshot(caller)
	if _, err := s.ledger.ApplyRelease(caller, delta); err != nil {
		return nil, err
	}
	if err := s.store.Mutate(caller, func(sc *model.Schedule) error {
		sc.ReleasedAmount.Add(sc.ReleasedAmount, delta)
		return nil
	}); err != nil {
		s.ledger.Restore(snap)
		return nil, err
	}

	s.log.Infof("released %s for %s", delta, caller)
	s.report(events.KindReleased, caller, delta, now)
	return new(big.Int).Set(delta), nil
}

// Withdraw transfers previously released tokens to the caller's external
// balance. The ceiling is the released but not yet withdrawn amount; the
// pooled balance must cover the request. A revoked schedule keeps its
// released-but-unwithdrawn claim withdrawable.
func (s *Service) Withdraw(caller string, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	sched, err := s.store.Get(caller)
	if err != nil {
		return err
	}
	if amount.Cmp(sched.Withdrawable()) > 0 {
		return fmt.Errorf("%w: %s exceeds withdrawable %s for %s",
			ErrInsufficientWithdrawnBalance, amount, sched.Withdrawable(), caller)
	}
	pooled, err := s.token.BalanceOf(s.pool)
	if err != nil {
		return fmt.Errorf("pooled balance: %w", err)
	}
	if pooled.Cmp(amount) < 0 {
		return fmt.Errorf("%w: pooled balance %s below %s", ErrInsufficientVestedBalance, pooled, amount)
	}

	snap := s.ledger.Snapshot(caller)
	if _, err := s.ledger.ApplyWithdraw(caller, amount); err != nil {
		return err
	}
	if err := s.store.Mutate(caller, func(sc *model.Schedule) error {
		sc.WithdrawnAmount.Add(sc.WithdrawnAmount, amount)
		return nil
	}); err != nil {
		s.ledger.Restore(snap)
		return err
	}
	if err := s.token.TransferOut(caller, amount); err != nil {
		s.ledger.Restore(snap)
		s.undoMutate(caller, func(sc *model.Schedule) {
			sc.WithdrawnAmount.Sub(sc.WithdrawnAmount, amount)
		})
		return fmt.Errorf("transfer out: %w", err)
	}

	now := s.clock.Now()
	s.log.Infof("withdrawn %s by %s", amount, caller)
	s.report(events.KindWithdrawn, caller, amount, now)
	return nil
}

// Revoke terminates the revocable schedule of who and returns the still-locked
// remainder, which is transferred back to the administrator caller. Released
// but not yet withdrawn tokens are preserved for the beneficiary; only the
// locked remainder is swept.
func (s *Service) Revoke(caller, who string) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsAdministrator(caller) {
		return nil, fmt.Errorf("%w: %s may not revoke schedules", ErrUnauthorized, caller)
	}
	sched, err := s.store.Get(who)
	if err != nil {
		return nil, err
	}
	if !sched.Revocable {
		return nil, fmt.Errorf("%w: %s", ErrVestingNotRevocable, who)
	}
	if sched.Revoked {
		return nil, fmt.Errorf("%w: %s", ErrVestingAlreadyRevoked, who)
	}

	remaining := new(big.Int).Sub(sched.TotalAmount, sched.ReleasedAmount)
	snap := s.ledger.Snapshot(who)
	if _, err := s.ledger.ApplyRevoke(who, remaining); err != nil {
		return nil, err
	}
	if err := s.store.Mutate(who, func(sc *model.Schedule) error {
		sc.Revoked = true
		return nil
	}); err != nil {
		s.ledger.Restore(snap)
		return nil, err
	}
	if remaining.Sign() > 0 {
		if err := s.token.TransferOut(caller, remaining); err != nil {
			s.ledger.Restore(snap)
			s.undoMutate(who, func(sc *model.Schedule) { sc.Revoked = false })
			return nil, fmt.Errorf("transfer out: %w", err)
		}
	}

	now := s.clock.Now()
	s.log.Infof("revoked schedule of %s, swept %s", who, remaining)
	s.report(events.KindRevoked, who, remaining, now)
	return remaining, nil
}

// VestedAmount returns the cumulative amount unlocked for the beneficiary at
// the current time.
func (s *Service) VestedAmount(beneficiary string) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sched, err := s.store.Get(beneficiary)
	if err != nil {
		return nil, err
	}
	return UnlockedAt(sched, s.clock.Now()), nil
}

// VestedBalance returns the beneficiary's claimable balance at the current
// time. See VestedBalanceAt.
func (s *Service) VestedBalance(beneficiary string) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sched, err := s.store.Get(beneficiary)
	if err != nil {
		return nil, err
	}
	return claimableAt(sched, s.clock.Now()), nil
}

// VestedBalanceAt returns the claimable balance at an arbitrary historical or
// future timestamp: the amount unlocked by then minus what has already been
// withdrawn. Once a schedule is revoked the unlock curve is frozen at the
// released amount.
func (s *Service) VestedBalanceAt(beneficiary string, t time.Time) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sched, err := s.store.Get(beneficiary)
	if err != nil {
		return nil, err
	}
	return claimableAt(sched, t), nil
}

// Accounts returns the beneficiary's aggregate totals for auditing.
func (s *Service) Accounts(beneficiary string) model.Accounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Accounts(beneficiary)
}

// AllAccounts returns every beneficiary's aggregate totals.
func (s *Service) AllAccounts() map[string]model.Accounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.AllAccounts()
}

// Schedule returns a copy of the beneficiary's schedule.
func (s *Service) Schedule(beneficiary string) (*model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(beneficiary)
}

// HeldTokens returns the contract-wide held total.
func (s *Service) HeldTokens() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.HeldTokens()
}

func claimableAt(sched *model.Schedule, t time.Time) *big.Int {
	unlocked := UnlockedAt(sched, t)
	if sched.Revoked && unlocked.Cmp(sched.ReleasedAmount) > 0 {
		unlocked = new(big.Int).Set(sched.ReleasedAmount)
	}
	claimable := unlocked.Sub(unlocked, sched.WithdrawnAmount)
	if claimable.Sign() < 0 {
		claimable.SetInt64(0)
	}
	return claimable
}

func newSchedule(g Grant, now time.Time) (*model.Schedule, error) {
	if g.Beneficiary == "" {
		return nil, fmt.Errorf("%w: empty beneficiary", ErrInvalidInput)
	}
	if g.TotalAmount == nil || g.TotalAmount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive", ErrInvalidInput)
	}
	if g.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if g.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidInput)
	}
	cliffAmount := g.CliffAmount
	if cliffAmount == nil {
		cliffAmount = big.NewInt(0)
	}
	if cliffAmount.Sign() < 0 || cliffAmount.Cmp(g.TotalAmount) > 0 {
		return nil, fmt.Errorf("%w: cliff amount outside [0, total]", ErrInvalidInput)
	}
	cliff := g.CliffTime
	if cliff.IsZero() {
		cliff = now
	}
	if cliff.Before(now) {
		return nil, fmt.Errorf("%w: cliff time before start time", ErrInvalidInput)
	}
	return &model.Schedule{
		Beneficiary:     g.Beneficiary,
		TotalAmount:     new(big.Int).Set(g.TotalAmount),
		StartTime:       now,
		CliffTime:       cliff,
		CliffAmount:     new(big.Int).Set(cliffAmount),
		Duration:        g.Duration,
		Interval:        g.Interval,
		Revocable:       g.Revocable,
		ReleasedAmount:  big.NewInt(0),
		WithdrawnAmount: big.NewInt(0),
	}, nil
}

// undoMutate reverts a schedule mutation during rollback. A missing schedule
// at this point means the store broke its own contract.
func (s *Service) undoMutate(beneficiary string, fn func(*model.Schedule)) {
	if err := s.store.Mutate(beneficiary, func(sc *model.Schedule) error {
		fn(sc)
		return nil
	}); err != nil && !errors.Is(err, ErrNoSchedule) {
		s.log.Errorf("rollback of %s failed: %v", beneficiary, err)
	}
}

func (s *Service) report(kind events.Kind, beneficiary string, amount *big.Int, at time.Time) {
	if err := s.emitter.Emit(events.New(kind, beneficiary, amount, at)); err != nil {
		s.log.Errorf("event emit error: %v", err)
	}
	rec := metrics.OperationRecord{
		Op:          string(kind),
		Beneficiary: beneficiary,
		Amount:      new(big.Int).Set(amount),
		HeldTokens:  s.ledger.HeldTokens(),
		Time:        at,
	}
	if err := s.sink.RecordOperation([]metrics.OperationRecord{rec}); err != nil {
		s.log.Errorf("metrics error: %v", err)
	}
}
