package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/focus-reader/pkg/accessibility"
)

// Printer receives the combined text of each announcement.
type Printer interface {
	Print(text string) error
}

// Filter decides if an element should be announced at all.
type Filter func(accessibility.Tree, accessibility.Element) bool

// Dispatcher turns focus candidates into announcements. It tracks the
// element which was announced last and ignores candidates resolving to the
// very same element.
type Dispatcher struct {
	tree        accessibility.Tree
	controller  *Controller
	collector   *Collector
	player      *Player
	printer     Printer
	settleDelay time.Duration

	// Filter is consulted (if set) for every new element before it is read.
	Filter Filter

	// current and paused are guarded by currentMutex. Generations are
	// advanced only while it is held.
	current      accessibility.Element
	paused       PauseReasons
	currentMutex sync.RWMutex
}

func NewDispatcher(tree accessibility.Tree, controller *Controller, collector *Collector, player *Player, printer Printer, settleDelay time.Duration) *Dispatcher {
	return &Dispatcher{
		tree:        tree,
		controller:  controller,
		collector:   collector,
		player:      player,
		printer:     printer,
		settleDelay: settleDelay,
	}
}

// OnFocusCandidate resolves the candidate to an element and announces it if
// it differs from the element announced last. A candidate whose ctx is done
// before its element became the current one is dropped. It returns after
// the items were handed to the player, not after they were spoken.
func (this *Dispatcher) OnFocusCandidate(ctx context.Context, candidate Candidate) error {
	if this.Paused() {
		return nil
	}

	element, force, err := this.resolve(candidate)
	if err != nil {
		return err
	}
	if element == nil {
		log.With("candidate", candidate).
			Trace("No element found for candidate.")
		return nil
	}
	defer element.Release()

	token, changed := this.replaceCurrent(ctx, element, force)
	if !changed {
		return nil
	}
	this.controller.supersede(token.Generation())

	// From here on only a newer generation stops the announcement.
	err = this.announce(context.WithoutCancel(ctx), token, candidate, element)
	if errors.Is(err, ErrSuperseded) {
		log.With("generation", token.Generation()).
			Debug("Announcement was superseded before it was enqueued.")
		return nil
	}
	return err
}

func (this *Dispatcher) resolve(candidate Candidate) (element accessibility.Element, force bool, err error) {
	if candidate.Source == SourcePointer {
		if element, err = this.tree.ElementFromPoint(candidate.Point); err != nil {
			return nil, false, fmt.Errorf("cannot resolve element at %v: %w", candidate.Point, err)
		}
		return element, false, nil
	}

	current := this.Current()
	if current == nil {
		return nil, false, nil
	}
	defer current.Release()

	switch candidate.Navigation {
	case NavigationParent:
		element, err = this.tree.Parent(current)
	case NavigationFirstChild:
		element, err = this.tree.FirstChild(current)
	case NavigationNextSibling:
		element, err = this.tree.NextSibling(current)
	case NavigationPreviousSibling:
		element, err = this.tree.PreviousSibling(current)
	case NavigationRedo:
		current.AddRef()
		return current, true, nil
	default:
		return nil, false, fmt.Errorf("illegal navigation: %v", candidate.Navigation)
	}
	if err != nil {
		return nil, false, fmt.Errorf("cannot navigate to %v: %w", candidate.Navigation, err)
	}
	return element, false, nil
}

// replaceCurrent makes element the current one and starts a new generation
// if it differs from the current one (or force is set). Nothing changes
// while paused or if ctx is already done. The supersede hooks of the new
// generation are not yet called.
func (this *Dispatcher) replaceCurrent(ctx context.Context, element accessibility.Element, force bool) (Token, bool) {
	if !force {
		this.currentMutex.RLock()
		different := IsDifferent(this.tree, this.current, element)
		this.currentMutex.RUnlock()
		if !different {
			return Token{}, false
		}
	}

	this.currentMutex.Lock()
	defer this.currentMutex.Unlock()
	if this.paused != 0 || ctx.Err() != nil {
		return Token{}, false
	}
	if !force && !IsDifferent(this.tree, this.current, element) {
		return Token{}, false
	}
	element.AddRef()
	if v := this.current; v != nil {
		v.Release()
	}
	this.current = element
	return this.controller.advance(), true
}

func (this *Dispatcher) announce(ctx context.Context, token Token, candidate Candidate, element accessibility.Element) error {
	l := log.With("generation", token.Generation()).
		With("candidate", candidate)

	if v := this.Filter; v != nil && !v(this.tree, element) {
		l.Debug("Element is filtered out.")
		return nil
	}

	if err := token.Sleep(ctx, this.settleDelay); err != nil {
		return err
	}

	items, err := this.collector.Collect(token, element)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		l.Debug("Element has nothing to read.")
		return nil
	}
	if err := token.Err(); err != nil {
		return err
	}

	if v := this.printer; v != nil {
		if err := v.Print(items.Text()); err != nil {
			l.WithError(err).
				Warn("Cannot print announcement.")
		}
	}

	if accepted := this.player.Enqueue(token, items...); accepted == 0 {
		return ErrSuperseded
	}
	l.With("items", len(items)).
		Debug("Announcement enqueued.")
	return nil
}

// Current returns a new reference to the element announced last. The
// caller has to release it.
func (this *Dispatcher) Current() accessibility.Element {
	this.currentMutex.RLock()
	defer this.currentMutex.RUnlock()
	if v := this.current; v != nil {
		v.AddRef()
		return v
	}
	return nil
}

// Reset forgets the current element and stops every announcement.
func (this *Dispatcher) Reset() {
	this.currentMutex.Lock()
	old := this.current
	this.current = nil
	token := this.controller.advance()
	this.currentMutex.Unlock()

	this.controller.supersede(token.Generation())
	if old != nil {
		old.Release()
	}
}

// Pause stops every announcement and ignores all candidates until the same
// reason is resumed.
func (this *Dispatcher) Pause(reason PauseReason) {
	this.currentMutex.Lock()
	was := this.paused
	this.paused = was.With(reason)
	var token Token
	if was == 0 {
		token = this.controller.advance()
	}
	now := this.paused
	this.currentMutex.Unlock()

	if was == 0 {
		log.With("reason", reason.String()).
			With("pausedBy", now.String()).
			Info("Paused.")
		this.controller.supersede(token.Generation())
	}
}

func (this *Dispatcher) Resume(reason PauseReason) {
	this.currentMutex.Lock()
	was := this.paused
	this.paused = was.Without(reason)
	now := this.paused
	this.currentMutex.Unlock()

	if was != 0 && now == 0 {
		log.With("reason", reason.String()).
			Info("Resumed.")
	}
}

func (this *Dispatcher) Paused() bool {
	return this.PausedBy() != 0
}

func (this *Dispatcher) PausedBy() PauseReasons {
	this.currentMutex.RLock()
	defer this.currentMutex.RUnlock()
	return this.paused
}

type PauseReason uint8

const (
	PauseReasonUser       = PauseReason(1 << 0)
	PauseReasonMicrophone = PauseReason(1 << 1)
)

func (this *PauseReason) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "user":
		*this = PauseReasonUser
		return nil
	case "microphone", "mic":
		*this = PauseReasonMicrophone
		return nil
	default:
		return fmt.Errorf("illegal-pause-reason: %s", plain)
	}
}

func (this PauseReason) String() string {
	switch this {
	case PauseReasonUser:
		return "user"
	case PauseReasonMicrophone:
		return "microphone"
	default:
		return fmt.Sprintf("illegal-pause-reason-%d", this)
	}
}

// PauseReasons is a set of PauseReason.
type PauseReasons uint8

func (this PauseReasons) With(r PauseReason) PauseReasons {
	return this | PauseReasons(r)
}

func (this PauseReasons) Without(r PauseReason) PauseReasons {
	return this &^ PauseReasons(r)
}

func (this PauseReasons) Has(r PauseReason) bool {
	return this&PauseReasons(r) != 0
}

func (this PauseReasons) String() string {
	var result []string
	for _, r := range []PauseReason{PauseReasonUser, PauseReasonMicrophone} {
		if this.Has(r) {
			result = append(result, r.String())
		}
	}
	if len(result) == 0 {
		return "none"
	}
	return strings.Join(result, ",")
}
