package pipeline

import (
	"fmt"
	"strings"
)

type State uint8

const (
	StateIdle     = State(0)
	StateSpeaking = State(1)
)

func (this *State) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "idle":
		*this = StateIdle
		return nil
	case "speaking":
		*this = StateSpeaking
		return nil
	default:
		return fmt.Errorf("illegal-player-state: %s", plain)
	}
}

func (this State) String() string {
	switch this {
	case StateIdle:
		return "idle"
	case StateSpeaking:
		return "speaking"
	default:
		return fmt.Sprintf("illegal-player-state-%d", this)
	}
}
