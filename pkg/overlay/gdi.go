//go:build !windows

package overlay

import "github.com/blaubaer/focus-reader/pkg/screen"

type Gdi struct{}

func NewGdi(Configuration) (*Gdi, error) {
	return nil, ErrUnsupportedPlatform
}

func (this *Gdi) DrawRect(screen.Region) error       { return ErrUnsupportedPlatform }
func (this *Gdi) InvalidateRect(screen.Region) error { return ErrUnsupportedPlatform }
