package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/echocat/slf4g"
)

// ErrSuperseded is returned by work which was abandoned because a newer
// generation started.
var ErrSuperseded = errors.New("superseded by a newer focus")

// Token is handed to all work done on behalf of one generation. It is done
// as soon as the generation is no longer the current one.
type Token struct {
	generation Generation
	ctx        context.Context
}

func (this Token) Generation() Generation {
	return this.generation
}

func (this Token) Done() <-chan struct{} {
	if this.ctx == nil {
		return closedChannel
	}
	return this.ctx.Done()
}

// Err returns ErrSuperseded once the token is done.
func (this Token) Err() error {
	select {
	case <-this.Done():
		return ErrSuperseded
	default:
		return nil
	}
}

// Sleep waits for the given duration. It returns earlier with ErrSuperseded
// if the token is done and with the error of ctx if ctx is done.
func (this Token) Sleep(ctx context.Context, d time.Duration) error {
	if err := this.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-this.Done():
		return ErrSuperseded
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var closedChannel = func() chan struct{} {
	result := make(chan struct{})
	close(result)
	return result
}()

// Controller hands out generations. Starting a new generation cancels the
// token of the previous one and informs all supersede hooks.
type Controller struct {
	current atomic.Uint64
	cancel  context.CancelFunc
	hooks   []func(Generation)
	mutex   sync.Mutex
}

func NewController() *Controller {
	return &Controller{}
}

// OnSupersede registers a hook which is called with the new generation
// every time a generation starts. Hooks might be called late and
// concurrently, so they have to ignore everything not older than the given
// generation.
func (this *Controller) OnSupersede(hook func(Generation)) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.hooks = append(this.hooks, hook)
}

// Begin starts a new generation and returns its token.
func (this *Controller) Begin() Token {
	result := this.advance()
	this.supersede(result.generation)
	return result
}

// advance starts a new generation without calling the hooks. The caller
// has to call supersede with the new generation afterwards.
func (this *Controller) advance() Token {
	ctx, cancel := context.WithCancel(context.Background())

	this.mutex.Lock()
	defer this.mutex.Unlock()

	generation := Generation(this.current.Add(1))
	if v := this.cancel; v != nil {
		v()
	}
	this.cancel = cancel

	return Token{generation: generation, ctx: ctx}
}

func (this *Controller) supersede(g Generation) {
	this.mutex.Lock()
	hooks := this.hooks
	this.mutex.Unlock()

	log.With("generation", g).
		Trace("Generation started.")

	for _, hook := range hooks {
		hook(g)
	}
}

func (this *Controller) Current() Generation {
	return Generation(this.current.Load())
}

func (this *Controller) IsCurrent(g Generation) bool {
	return g != 0 && this.Current() == g
}

// Close cancels the outstanding token without handing out a new one.
func (this *Controller) Close() {
	this.mutex.Lock()
	generation := Generation(this.current.Add(1))
	if v := this.cancel; v != nil {
		v()
	}
	this.cancel = nil
	this.mutex.Unlock()

	this.supersede(generation)
}
