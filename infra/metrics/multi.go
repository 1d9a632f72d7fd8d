package metrics

import coremetrics "github.com/kilianp07/vesting/core/metrics"

// MultiSink fans operation records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordOperation forwards the records to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordOperation(recs []coremetrics.OperationRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordOperation(recs); err != nil {
			return err
		}
	}
	return nil
}
