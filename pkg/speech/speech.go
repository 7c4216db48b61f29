package speech

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedPlatform = errors.New("speech is not supported on this platform")

// Voice speaks at most one utterance at a time. Speak purges whatever is
// spoken at the moment and returns once the utterance was started.
type Voice interface {
	Speak(text string) error
	PurgeAndStop() error
	Status() (Status, error)
}

type Status uint8

const (
	StatusDone    = Status(0)
	StatusRunning = Status(1)
)

func (this *Status) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "done":
		*this = StatusDone
		return nil
	case "running":
		*this = StatusRunning
		return nil
	default:
		return fmt.Errorf("illegal-speech-status: %s", plain)
	}
}

func (this Status) String() string {
	switch this {
	case StatusDone:
		return "done"
	case StatusRunning:
		return "running"
	default:
		return fmt.Sprintf("illegal-speech-status-%d", this)
	}
}
