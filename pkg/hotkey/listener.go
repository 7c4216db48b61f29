package hotkey

import (
	"context"
	"errors"

	"github.com/blaubaer/focus-reader/pkg/pipeline"
)

var ErrUnsupportedPlatform = errors.New("hotkeys are not supported on this platform")

// Listener registers the configured hotkeys system wide and reports each
// press as navigation.
type Listener struct {
	Bindings     []Binding
	OnNavigation func(context.Context, pipeline.Navigation)
}

func NewListener(conf Configuration, onNavigation func(context.Context, pipeline.Navigation)) *Listener {
	return &Listener{
		Bindings:     conf.Bindings(),
		OnNavigation: onNavigation,
	}
}

func (this *Listener) fire(ctx context.Context, id int) {
	if id < 0 || id >= len(this.Bindings) {
		return
	}
	if v := this.OnNavigation; v != nil {
		v(ctx, this.Bindings[id].Navigation)
	}
}
