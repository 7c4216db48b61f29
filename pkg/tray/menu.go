package tray

import (
	"context"
	"errors"
)

var ErrUnsupportedPlatform = errors.New("tray is not supported on this platform")

// Menu is the context menu of the tray icon.
type Menu struct {
	Title string

	// TogglePause is called if "Pause"/"Resume" was clicked. It returns
	// whether reading is paused afterward.
	TogglePause func() (paused bool)

	// ShowConsole blocks while the console is shown. It has to return once
	// the given context is done. If nil, there is no console entry.
	ShowConsole func(ctx context.Context)
}

func pauseTitle(paused bool) (title, tooltip string) {
	if paused {
		return "Resume", "Continue reading out the focused elements."
	}
	return "Pause", "Stop reading out the focused elements."
}

func consoleTitle(shown bool) (title, tooltip string) {
	if shown {
		return "Hide Console", "Hide the currently opened console."
	}
	return "Show Console", "Shows the console with more information."
}
