package process

import (
	"context"
	"fmt"
	"sync"
	"time"

	ps "github.com/shirou/gopsutil/process"
)

// Lookup resolves the executable name of a process.
type Lookup func(ctx context.Context, pid uint32) (string, error)

// Resolver resolves process names and remembers them for a while, because
// the same few processes are asked for over and over again.
type Resolver struct {
	Lookup Lookup
	TTL    time.Duration

	cache map[uint32]cached
	mutex sync.Mutex
	now   func() time.Time
}

type cached struct {
	name    string
	expires time.Time
}

func NewResolver(ttl time.Duration) *Resolver {
	return &Resolver{
		Lookup: LookupName,
		TTL:    ttl,
	}
}

func (this *Resolver) Name(ctx context.Context, pid uint32) (string, error) {
	now := this.clock()

	this.mutex.Lock()
	if v, ok := this.cache[pid]; ok && now.Before(v.expires) {
		this.mutex.Unlock()
		return v.name, nil
	}
	this.mutex.Unlock()

	lookup := this.Lookup
	if lookup == nil {
		lookup = LookupName
	}
	name, err := lookup(ctx, pid)
	if err != nil {
		return "", err
	}

	this.mutex.Lock()
	defer this.mutex.Unlock()
	if this.cache == nil {
		this.cache = map[uint32]cached{}
	}
	this.cache[pid] = cached{name, now.Add(this.TTL)}
	return name, nil
}

// Forget drops all remembered names.
func (this *Resolver) Forget() {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.cache = nil
}

func (this *Resolver) clock() time.Time {
	if v := this.now; v != nil {
		return v()
	}
	return time.Now()
}

// LookupName asks the operating system for the name of the process.
func LookupName(ctx context.Context, pid uint32) (string, error) {
	p, err := ps.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return "", fmt.Errorf("cannot find process %d: %w", pid, err)
	}
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot get name of process %d: %w", pid, err)
	}
	return name, nil
}
