//go:build !windows

package sink

import "errors"

var ErrUnsupportedPlatform = errors.New("tray is not supported on this platform")

type Tray struct{}

func (this *Tray) Initialize() error {
	return ErrUnsupportedPlatform
}

func (this *Tray) Dispose() error {
	return nil
}

func (this *Tray) Print(string) error {
	return nil
}

func (this *Tray) Ensure(State, string) error {
	return nil
}

func (this *Tray) GetType() Type {
	return TypeTray
}
