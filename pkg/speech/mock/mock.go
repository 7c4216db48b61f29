// Package mock provides a scriptable speech.Voice for tests.
package mock

import (
	"sync"

	"github.com/blaubaer/focus-reader/pkg/speech"
)

// Voice records every utterance. Each utterance stays running for Polls
// status requests; a negative value keeps it running until Finish or
// PurgeAndStop is called.
type Voice struct {
	Polls    int
	SpeakErr func(text string) error
	// StatusErr is consulted on every status request; a returned error is
	// reported instead of the status.
	StatusErr func() error
	// OnSpeak is invoked after an utterance was started.
	OnSpeak func(text string)

	mutex     sync.Mutex
	spoken    []string
	purges    int
	running   bool
	remaining int
}

func (this *Voice) Speak(text string) error {
	if v := this.SpeakErr; v != nil {
		if err := v(text); err != nil {
			return err
		}
	}

	this.mutex.Lock()
	this.spoken = append(this.spoken, text)
	this.running = true
	this.remaining = this.Polls
	this.mutex.Unlock()

	if v := this.OnSpeak; v != nil {
		v(text)
	}
	return nil
}

func (this *Voice) PurgeAndStop() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.purges++
	this.running = false
	return nil
}

func (this *Voice) Status() (speech.Status, error) {
	if v := this.StatusErr; v != nil {
		if err := v(); err != nil {
			return 0, err
		}
	}

	this.mutex.Lock()
	defer this.mutex.Unlock()

	if !this.running {
		return speech.StatusDone, nil
	}
	if this.Polls >= 0 {
		if this.remaining <= 0 {
			this.running = false
			return speech.StatusDone, nil
		}
		this.remaining--
	}
	return speech.StatusRunning, nil
}

// Finish completes the current utterance.
func (this *Voice) Finish() {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.running = false
}

func (this *Voice) Spoken() []string {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	result := make([]string, len(this.spoken))
	copy(result, this.spoken)
	return result
}

func (this *Voice) Purges() int {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.purges
}

func (this *Voice) Running() bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.running
}
