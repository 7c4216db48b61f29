package sink

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/echocat/slf4g"
)

// Facade forwards everything to all configured sinks.
type Facade struct {
	sinks []Sink
	lock  sync.RWMutex
}

// Initialize creates the sinks of the given types. Sinks which are set in
// predefined are used instead of new instances of the same type.
func (this *Facade) Initialize(types Types, predefined ...Sink) error {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.sinks != nil {
		return nil
	}

	var result []Sink
	for _, t := range types {
		s := this.instanceOf(t, predefined)
		if s == nil {
			return fmt.Errorf("unsupported sink type: %v", t)
		}
		if err := s.Initialize(); err != nil {
			for _, v := range result {
				_ = v.Dispose()
			}
			return fmt.Errorf("cannot initialize sink %v: %w", t, err)
		}
		result = append(result, s)
	}
	this.sinks = result
	return nil
}

func (this *Facade) instanceOf(t Type, predefined []Sink) Sink {
	for _, v := range predefined {
		if v.GetType() == t {
			return v
		}
	}
	switch t {
	case TypeConsole:
		return &Console{}
	case TypeTray:
		return &Tray{}
	default:
		return nil
	}
}

func (this *Facade) Print(text string) error {
	this.lock.RLock()
	defer this.lock.RUnlock()

	var errs []error
	for _, s := range this.sinks {
		if err := s.Print(text); err != nil {
			errs = append(errs, fmt.Errorf("cannot print to sink %v: %w", s.GetType(), err))
		}
	}
	return errors.Join(errs...)
}

func (this *Facade) Ensure(state State, reason string) {
	this.lock.RLock()
	defer this.lock.RUnlock()

	for _, s := range this.sinks {
		if err := s.Ensure(state, reason); err != nil {
			log.WithError(err).
				With("sink", s.GetType()).
				Warn("Cannot ensure state of sink.")
		}
	}
}

func (this *Facade) Types() (result Types) {
	this.lock.RLock()
	defer this.lock.RUnlock()
	for _, s := range this.sinks {
		result = append(result, s.GetType())
	}
	return
}

func (this *Facade) Dispose() (rErr error) {
	this.lock.Lock()
	defer this.lock.Unlock()

	defer func() {
		this.sinks = nil
	}()

	for _, s := range this.sinks {
		if err := s.Dispose(); err != nil && rErr == nil {
			rErr = err
		}
	}
	return
}
