package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPauseTitle(t *testing.T) {
	title, _ := pauseTitle(false)
	assert.Equal(t, "Pause", title)
	title, _ = pauseTitle(true)
	assert.Equal(t, "Resume", title)
}

func TestConsoleTitle(t *testing.T) {
	title, _ := consoleTitle(false)
	assert.Equal(t, "Show Console", title)
	title, _ = consoleTitle(true)
	assert.Equal(t, "Hide Console", title)
}
