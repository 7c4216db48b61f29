//go:build windows

package sink

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/blaubaer/focus-reader/pkg/tray"
)

// Tray shows the state as icon and the last announcement as tooltip of the
// tray icon. It only works while systray.Run is active.
type Tray struct {
	iconActive []byte
	iconPaused []byte
	state      State
	mutex      sync.Mutex
}

func (this *Tray) Initialize() error {
	var err error
	if this.iconActive, err = tray.Icon(tray.ColorActive); err != nil {
		return fmt.Errorf("cannot create active icon: %w", err)
	}
	if this.iconPaused, err = tray.Icon(tray.ColorPaused); err != nil {
		return fmt.Errorf("cannot create paused icon: %w", err)
	}
	return nil
}

func (this *Tray) Dispose() error {
	return nil
}

func (this *Tray) Print(text string) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	if this.state == StateActive {
		systray.SetTooltip(Tooltip(text))
	}
	return nil
}

func (this *Tray) Ensure(state State, reason string) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.state = state
	if state == StatePaused {
		systray.SetIcon(this.iconPaused)
		if reason != "" {
			systray.SetTooltip(fmt.Sprintf("Focus reader is paused (%s)", reason))
		} else {
			systray.SetTooltip("Focus reader is paused")
		}
		return nil
	}
	systray.SetIcon(this.iconActive)
	systray.SetTooltip("Focus reader is active")
	return nil
}

func (this *Tray) GetType() Type {
	return TypeTray
}
