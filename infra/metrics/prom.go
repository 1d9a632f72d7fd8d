package metrics

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/vesting/core/metrics"
)

// PromSink records vesting operations in Prometheus metrics.
type PromSink struct {
	ops    *prometheus.CounterVec
	tokens *prometheus.CounterVec
	held   prometheus.Gauge
}

// NewPromSink registers vesting metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vesting_operations_total",
		Help: "Total number of vesting operations",
	}, []string{"operation"})
	tokens := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vesting_tokens_total",
		Help: "Total token amount moved per operation",
	}, []string{"operation"})
	held := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vesting_held_tokens",
		Help: "Contract-wide pooled balance backing outstanding claims",
	})

	if err := reg.Register(ops); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			ops = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(tokens); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			tokens = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(held); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			held = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{ops: ops, tokens: tokens, held: held}, nil
}

// RecordOperation increments the counters for each record and updates the
// held-tokens gauge.
func (s *PromSink) RecordOperation(recs []coremetrics.OperationRecord) error {
	for _, r := range recs {
		s.ops.WithLabelValues(r.Op).Inc()
		s.tokens.WithLabelValues(r.Op).Add(approx(r.Amount))
		s.held.Set(approx(r.HeldTokens))
	}
	return nil
}

// approx converts a big.Int amount to float64 for metric purposes. Amounts
// beyond float precision lose low-order digits here; the ledger stays exact.
func approx(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
