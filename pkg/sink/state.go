package sink

import (
	"fmt"
	"strings"
)

type State uint8

const (
	StateActive = State(0)
	StatePaused = State(1)
)

func (this *State) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "active", "on":
		*this = StateActive
		return nil
	case "paused", "off":
		*this = StatePaused
		return nil
	default:
		return fmt.Errorf("illegal-sink-state: %s", plain)
	}
}

func (this State) String() string {
	switch this {
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	default:
		return fmt.Sprintf("illegal-sink-state-%d", this)
	}
}
