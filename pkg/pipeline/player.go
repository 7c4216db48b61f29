package pipeline

import (
	"sync"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/focus-reader/pkg/overlay"
	"github.com/blaubaer/focus-reader/pkg/speech"
)

// Player speaks the queued items one after another and highlights the
// region of the item which is spoken at the moment. There is at most one
// playback loop at any time.
type Player struct {
	controller   *Controller
	voice        speech.Voice
	overlay      *overlay.Synchronizer
	pollInterval time.Duration

	// OnItem is called (if set) right before an item is spoken.
	OnItem func(Item)

	queue   []*queued
	active  *queued
	state   State
	running bool
	mutex   sync.Mutex

	// uttering is the generation of the utterance the voice might still
	// speak, zero if there is none.
	uttering   Generation
	voiceMutex sync.Mutex
}

type queued struct {
	Item
	token Token
}

func NewPlayer(controller *Controller, voice speech.Voice, synchronizer *overlay.Synchronizer, pollInterval time.Duration) *Player {
	if pollInterval <= 0 {
		pollInterval = 100 * time.Millisecond
	}
	result := &Player{
		controller:   controller,
		voice:        voice,
		overlay:      synchronizer,
		pollInterval: pollInterval,
	}
	controller.OnSupersede(result.Supersede)
	return result
}

// Enqueue appends all items of the token's generation to the queue and
// starts the playback loop if there is none. Items of another or a no longer
// current generation are rejected. It returns how many items were accepted.
func (this *Player) Enqueue(token Token, items ...Item) int {
	this.mutex.Lock()
	accepted := 0
	for _, item := range items {
		if item.Text == "" || item.Generation != token.Generation() || !this.controller.IsCurrent(item.Generation) {
			continue
		}
		this.queue = append(this.queue, &queued{Item: item, token: token})
		accepted++
	}
	start := accepted > 0 && !this.running
	if start {
		this.running = true
	}
	this.mutex.Unlock()

	if accepted < len(items) {
		log.With("generation", token.Generation()).
			With("rejected", len(items)-accepted).
			Debug("Items of an old generation were rejected.")
	}
	if start {
		go this.drain()
	}
	return accepted
}

// Supersede drops everything older than the given generation: queued items,
// the utterance and the highlight.
func (this *Player) Supersede(g Generation) {
	this.mutex.Lock()
	kept := this.queue[:0]
	for _, v := range this.queue {
		if v.Generation >= g {
			kept = append(kept, v)
		}
	}
	for i := len(kept); i < len(this.queue); i++ {
		this.queue[i] = nil
	}
	this.queue = kept
	active := this.active
	this.mutex.Unlock()

	this.stopSpeech(g)
	if active != nil && active.Generation < g {
		this.overlay.HideIf(active.Region, func() bool {
			return this.isActive(active)
		})
	}
}

// ClearQueue removes all items which are not yet spoken.
func (this *Player) ClearQueue() {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	for i := range this.queue {
		this.queue[i] = nil
	}
	this.queue = this.queue[:0]
}

func (this *Player) State() State {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.state
}

func (this *Player) Pending() int {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return len(this.queue)
}

// Busy reports whether the playback loop runs at the moment.
func (this *Player) Busy() bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.running
}

func (this *Player) drain() {
	for {
		q, ok := this.next()
		if !ok {
			return
		}
		this.play(q)
		this.finish(q)
	}
}

func (this *Player) next() (*queued, bool) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	for len(this.queue) > 0 {
		q := this.queue[0]
		this.queue[0] = nil
		this.queue = this.queue[1:]
		if this.controller.IsCurrent(q.Generation) {
			this.active = q
			this.state = StateSpeaking
			return q, true
		}
	}

	this.active = nil
	this.state = StateIdle
	this.running = false
	return nil, false
}

func (this *Player) finish(q *queued) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	if this.active == q {
		this.active = nil
		this.state = StateIdle
	}
}

func (this *Player) isActive(q *queued) bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.active == q
}

func (this *Player) play(q *queued) {
	l := log.With("generation", q.Generation)
	isCurrent := func() bool {
		return this.controller.IsCurrent(q.Generation)
	}

	this.overlay.ShowIf(q.Region, isCurrent)
	defer this.overlay.Hide(q.Region)

	if v := this.OnItem; v != nil && isCurrent() {
		v(q.Item)
	}

	started, err := this.speak(q)
	if err != nil {
		l.WithError(err).
			With("text", q.Text).
			Warn("Cannot speak text; continue with the next one.")
		return
	}
	if !started {
		return
	}

	if completed := this.await(q); !completed {
		this.stopSpeech(q.Generation + 1)
		l.Debug("Speech was interrupted by a newer focus.")
	}
}

func (this *Player) speak(q *queued) (bool, error) {
	this.voiceMutex.Lock()
	defer this.voiceMutex.Unlock()

	if !this.controller.IsCurrent(q.Generation) {
		return false, nil
	}
	if err := this.voice.Speak(q.Text); err != nil {
		return false, err
	}
	this.uttering = q.Generation
	return true, nil
}

// await blocks until the utterance of q is done or its generation is
// superseded. It returns false in the latter case.
func (this *Player) await(q *queued) bool {
	ticker := time.NewTicker(this.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.token.Done():
			return false
		case <-ticker.C:
		}

		status, err := this.status()
		if err != nil {
			log.WithError(err).
				With("generation", q.Generation).
				Warn("Cannot get status of speech; treat text as spoken.")
			this.stopSpeech(q.Generation + 1)
			return true
		}
		if status == speech.StatusDone {
			this.voiceMutex.Lock()
			if this.uttering == q.Generation {
				this.uttering = 0
			}
			this.voiceMutex.Unlock()
			return true
		}
	}
}

func (this *Player) status() (speech.Status, error) {
	this.voiceMutex.Lock()
	defer this.voiceMutex.Unlock()
	return this.voice.Status()
}

// stopSpeech purges the voice if it might still speak an utterance older
// than the given generation.
func (this *Player) stopSpeech(before Generation) {
	this.voiceMutex.Lock()
	defer this.voiceMutex.Unlock()

	if this.uttering == 0 || this.uttering >= before {
		return
	}
	this.uttering = 0
	if err := this.voice.PurgeAndStop(); err != nil {
		log.WithError(err).
			Warn("Cannot stop speech.")
	}
}
