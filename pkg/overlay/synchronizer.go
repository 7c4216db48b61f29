package overlay

import (
	"sync"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/focus-reader/pkg/screen"
)

// Synchronizer keeps track of the single region which is drawn at the
// moment. Hiding a region other than the drawn one does nothing, so a late
// hide can never erase a newer highlight.
type Synchronizer struct {
	surface Surface

	drawn   screen.Region
	isDrawn bool
	mutex   sync.Mutex
}

func NewSynchronizer(surface Surface) *Synchronizer {
	if surface == nil {
		surface = Noop{}
	}
	return &Synchronizer{surface: surface}
}

func (this *Synchronizer) Show(region screen.Region) bool {
	return this.ShowIf(region, nil)
}

// ShowIf draws the region only if guard still holds while the surface is
// exclusively owned.
func (this *Synchronizer) ShowIf(region screen.Region, guard func() bool) bool {
	if region.IsDegenerate() {
		return false
	}

	this.mutex.Lock()
	defer this.mutex.Unlock()

	if guard != nil && !guard() {
		return false
	}
	if this.isDrawn {
		if this.drawn == region {
			return true
		}
		this.invalidate(this.drawn)
	}

	if err := this.surface.DrawRect(region); err != nil {
		log.WithError(err).
			With("region", region).
			Warn("Cannot draw highlight.")
		return false
	}
	this.drawn = region
	this.isDrawn = true
	return true
}

func (this *Synchronizer) Hide(region screen.Region) bool {
	return this.HideIf(region, nil)
}

// HideIf clears the region only if it is the drawn one and guard still holds
// while the surface is exclusively owned.
func (this *Synchronizer) HideIf(region screen.Region, guard func() bool) bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if !this.isDrawn || this.drawn != region {
		return false
	}
	if guard != nil && !guard() {
		return false
	}
	this.invalidate(this.drawn)
	return true
}

// Clear hides whatever is drawn at the moment.
func (this *Synchronizer) Clear() {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.isDrawn {
		this.invalidate(this.drawn)
	}
}

func (this *Synchronizer) Drawn() (screen.Region, bool) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.drawn, this.isDrawn
}

func (this *Synchronizer) invalidate(region screen.Region) {
	if err := this.surface.InvalidateRect(region); err != nil {
		log.WithError(err).
			With("region", region).
			Warn("Cannot clear highlight.")
	}
	this.drawn = screen.Region{}
	this.isDrawn = false
}
