package overlay

import (
	"errors"

	"github.com/blaubaer/focus-reader/pkg/screen"
)

var ErrUnsupportedPlatform = errors.New("overlay is not supported on this platform")

// Surface draws highlight rectangles on the screen. It is not expected to be
// safe for concurrent use.
type Surface interface {
	DrawRect(screen.Region) error
	InvalidateRect(screen.Region) error
}

// Noop is used if highlighting is disabled.
type Noop struct{}

func (Noop) DrawRect(screen.Region) error       { return nil }
func (Noop) InvalidateRect(screen.Region) error { return nil }
