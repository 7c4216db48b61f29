package audio

import (
	"context"
	"time"

	log "github.com/echocat/slf4g"
)

type DeviceFinder interface {
	FindDevices() (Devices, error)
}

// Guard watches the capture devices and reports whenever somebody starts or
// stops using a microphone.
type Guard struct {
	Finder   DeviceFinder
	Interval time.Duration

	// Relevant decides whether a session counts. If nil, every session
	// counts.
	Relevant func(context.Context, Session) bool

	// OnChange is called with the new state whenever it changes and once
	// for the very first check.
	OnChange func(active bool, holders Sessions)
}

func (this *Guard) Run(ctx context.Context) error {
	var last *bool
	first := true
	for {
		if first {
			first = false
		} else {
			select {
			case <-ctx.Done():
				log.Debug("Microphone check interrupted.")
				return nil
			case <-time.After(this.Interval):
			}
		}

		holders, err := this.Check(ctx)
		if err != nil {
			log.WithError(err).
				Warn("Cannot check usage of microphones.")
			continue
		}

		active := holders.HasContent()
		if last != nil && *last == active {
			continue
		}
		last = &active
		log.With("active", active).
			With("holders", holders).
			Debug("Microphone usage changed.")
		if v := this.OnChange; v != nil {
			v(active, holders)
		}
	}
}

// Check returns all relevant active capture sessions.
func (this *Guard) Check(ctx context.Context) (result Sessions, _ error) {
	devices, err := this.Finder.FindDevices()
	if err != nil {
		return nil, err
	}
	for _, session := range devices.Sessions() {
		if v := this.Relevant; v == nil || v(ctx, session) {
			result = append(result, session)
		}
	}
	return result, nil
}
