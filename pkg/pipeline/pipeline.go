package pipeline

import (
	"context"

	"github.com/blaubaer/focus-reader/pkg/accessibility"
	"github.com/blaubaer/focus-reader/pkg/overlay"
	"github.com/blaubaer/focus-reader/pkg/screen"
	"github.com/blaubaer/focus-reader/pkg/speech"
)

// Pipeline wires everything which is needed to turn focus candidates into
// spoken and highlighted announcements.
type Pipeline struct {
	Controller *Controller
	Collector  *Collector
	Player     *Player
	Overlay    *overlay.Synchronizer
	Dispatcher *Dispatcher
}

func New(tree accessibility.Tree, voice speech.Voice, surface overlay.Surface, conf Configuration, printer Printer) *Pipeline {
	controller := NewController()
	synchronizer := overlay.NewSynchronizer(surface)
	collector := NewCollector(tree, controller, conf.Traversal)
	player := NewPlayer(controller, voice, synchronizer, conf.PollInterval)
	return &Pipeline{
		Controller: controller,
		Collector:  collector,
		Player:     player,
		Overlay:    synchronizer,
		Dispatcher: NewDispatcher(tree, controller, collector, player, printer, conf.SettleDelay),
	}
}

func (this *Pipeline) OnFocusCandidate(ctx context.Context, candidate Candidate) error {
	return this.Dispatcher.OnFocusCandidate(ctx, candidate)
}

func (this *Pipeline) PointerAt(ctx context.Context, p screen.Point) error {
	return this.OnFocusCandidate(ctx, PointerCandidate(p))
}

func (this *Pipeline) Navigate(ctx context.Context, n Navigation) error {
	return this.OnFocusCandidate(ctx, NavigationCandidate(n))
}

func (this *Pipeline) Pause(reason PauseReason) {
	this.Dispatcher.Pause(reason)
}

func (this *Pipeline) Resume(reason PauseReason) {
	this.Dispatcher.Resume(reason)
}

func (this *Pipeline) Reset() {
	this.Dispatcher.Reset()
}

// Close stops every announcement and releases the current element.
func (this *Pipeline) Close() {
	this.Dispatcher.Reset()
	this.Controller.Close()
	this.Player.ClearQueue()
	this.Overlay.Clear()
}
