package events

import "errors"

// MultiEmitter fans an event out to several emitters.
type MultiEmitter struct {
	emitters []Emitter
}

// NewMultiEmitter creates a MultiEmitter from the given emitters.
func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	return &MultiEmitter{emitters: emitters}
}

// Emit delivers the event to every emitter and joins their errors.
func (m *MultiEmitter) Emit(evt Event) error {
	var errs []error
	for _, e := range m.emitters {
		if err := e.Emit(evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
