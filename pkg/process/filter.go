package process

import (
	"context"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/focus-reader/pkg/common"
)

// Filter selects processes by their names.
type Filter struct {
	Resolver  *Resolver
	Selection common.Selection
}

// Selects reports whether the process is selected. If the selection is
// empty, no name is resolved at all. Processes which name cannot be
// resolved are selected.
func (this *Filter) Selects(ctx context.Context, pid uint32) bool {
	if this.Selection.IsZero() {
		return true
	}
	name, err := this.Resolver.Name(ctx, pid)
	if err != nil {
		log.WithError(err).
			With("pid", pid).
			Debug("Cannot resolve process name; select it anyway.")
		return true
	}
	return this.Selection.Selects(name)
}
