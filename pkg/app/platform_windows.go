//go:build windows

package app

import (
	"fmt"

	"github.com/go-ole/go-ole"
)

func (this *App) initializePlatform() error {
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		return fmt.Errorf("cannot initialize COM: %w", err)
	}
	this.disposables = append(this.disposables, func() error {
		ole.CoUninitialize()
		return nil
	})
	return nil
}
