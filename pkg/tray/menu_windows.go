//go:build windows

package tray

import (
	"context"
	"sync/atomic"

	log "github.com/echocat/slf4g"
	"github.com/getlantern/systray"
)

// Run shows the tray icon and executes body while the icon is present. The
// icon disappears once body returns; "Exit" cancels the context of body.
func (this *Menu) Run(ctx context.Context, icon []byte, body func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var started atomic.Bool
	done := make(chan error, 1)

	systray.Run(func() {
		systray.SetIcon(icon)
		systray.SetTitle(this.Title)
		systray.SetTooltip(this.Title)

		var pauseMi, consoleMi *systray.MenuItem
		if this.TogglePause != nil {
			title, tooltip := pauseTitle(false)
			pauseMi = systray.AddMenuItem(title, tooltip)
		}
		if this.ShowConsole != nil {
			title, tooltip := consoleTitle(false)
			consoleMi = systray.AddMenuItem(title, tooltip)
		}
		systray.AddSeparator()
		quitMi := systray.AddMenuItem("Exit", "Exit the "+this.Title)

		go this.handle(ctx, cancel, pauseMi, consoleMi, quitMi)

		started.Store(true)
		go func() {
			defer systray.Quit()
			done <- body(ctx)
		}()
	}, nil)

	cancel()
	if !started.Load() {
		return nil
	}
	return <-done
}

func (this *Menu) handle(ctx context.Context, cancel context.CancelFunc, pauseMi, consoleMi, quitMi *systray.MenuItem) {
	var consoleCloser atomic.Pointer[context.CancelFunc]

	for {
		select {
		case <-ctx.Done():
			return
		case <-clicked(pauseMi):
			title, tooltip := pauseTitle(this.TogglePause())
			pauseMi.SetTitle(title)
			pauseMi.SetTooltip(tooltip)
		case <-clicked(consoleMi):
			for {
				if cl := consoleCloser.Load(); cl != nil {
					(*cl)()
					break
				}
				shCtx, shCancel := context.WithCancel(ctx)
				if !consoleCloser.CompareAndSwap(nil, &shCancel) {
					shCancel()
					continue
				}
				title, tooltip := consoleTitle(true)
				consoleMi.SetTitle(title)
				consoleMi.SetTooltip(tooltip)
				go func() {
					defer func() {
						shCancel()
						consoleCloser.Store(nil)
						title, tooltip := consoleTitle(false)
						consoleMi.SetTitle(title)
						consoleMi.SetTooltip(tooltip)
					}()
					this.ShowConsole(shCtx)
				}()
				break
			}
		case <-quitMi.ClickedCh:
			log.Info("Exit clicked. Going down...")
			cancel()
			return
		}
	}
}

func clicked(mi *systray.MenuItem) <-chan struct{} {
	if mi == nil {
		return nil
	}
	return mi.ClickedCh
}
