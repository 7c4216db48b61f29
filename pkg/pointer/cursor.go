//go:build !windows

package pointer

import (
	"github.com/blaubaer/focus-reader/pkg/screen"
)

type Cursor struct{}

func (this Cursor) Position() (screen.Point, error) {
	return screen.Point{}, ErrUnsupportedPlatform
}
