package pointer

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/focus-reader/pkg/screen"
)

var ErrUnsupportedPlatform = errors.New("pointer tracking is not supported on this platform")

type Locator interface {
	Position() (screen.Point, error)
}

// Tracker samples the position of the pointer and reports it once the
// pointer rests at a new position for the settle duration. Each report runs
// in its own goroutine; the context of the previous report is canceled as
// soon as the next one starts.
type Tracker struct {
	Locator   Locator
	OnSettled func(context.Context, screen.Point)

	conf Configuration
}

func NewTracker(locator Locator, conf Configuration, onSettled func(context.Context, screen.Point)) *Tracker {
	return &Tracker{
		Locator:   locator,
		OnSettled: onSettled,
		conf:      conf,
	}
}

// Run blocks until ctx is done and all reports have returned.
func (this *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(this.conf.PollInterval)
	defer ticker.Stop()

	var reports sync.WaitGroup
	defer reports.Wait()
	cancelReport := context.CancelFunc(func() {})
	defer func() { cancelReport() }()

	var (
		last       screen.Point
		hasLast    bool
		reported   screen.Point
		isReported bool
		movedAt    time.Time
		failures   int
	)

	for {
		select {
		case <-ctx.Done():
			log.Debug("Pointer tracking interrupted.")
			return nil
		case <-ticker.C:
		}

		p, err := this.Locator.Position()
		if err != nil {
			if failures++; failures == 1 {
				log.WithError(err).
					Warn("Cannot get position of pointer.")
			}
			continue
		}
		failures = 0

		now := time.Now()
		if !hasLast || !p.Equal(last) {
			last, hasLast, movedAt = p, true, now
			continue
		}
		if isReported && p.Equal(reported) {
			continue
		}
		if now.Sub(movedAt) < this.conf.SettleDuration {
			continue
		}

		reported, isReported = p, true
		log.With("point", p).
			Trace("Pointer settled.")
		if v := this.OnSettled; v != nil {
			cancelReport()
			var reportCtx context.Context
			reportCtx, cancelReport = context.WithCancel(ctx)
			reports.Add(1)
			go func(p screen.Point) {
				defer reports.Done()
				v(reportCtx, p)
			}(p)
		}
	}
}
