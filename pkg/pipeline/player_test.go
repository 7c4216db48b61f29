package pipeline

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/focus-reader/pkg/overlay"
	omock "github.com/blaubaer/focus-reader/pkg/overlay/mock"
	"github.com/blaubaer/focus-reader/pkg/screen"
	smock "github.com/blaubaer/focus-reader/pkg/speech/mock"
)

const (
	eventually = 2 * time.Second
	tick       = 5 * time.Millisecond
)

type playerFixture struct {
	controller *Controller
	voice      *smock.Voice
	surface    *omock.Surface
	player     *Player
}

func newPlayerFixture(polls int) *playerFixture {
	result := &playerFixture{
		controller: NewController(),
		voice:      &smock.Voice{Polls: polls},
		surface:    &omock.Surface{},
	}
	result.player = NewPlayer(result.controller, result.voice, overlay.NewSynchronizer(result.surface), time.Millisecond)
	return result
}

func (this *playerFixture) items(token Token, texts ...string) Items {
	result := make(Items, len(texts))
	for i, text := range texts {
		result[i] = Item{Text: text, Region: region(int32(i)), Generation: token.Generation()}
	}
	return result
}

func (this *playerFixture) idle() bool {
	return !this.player.Busy() && this.player.State() == StateIdle
}

func TestPlayer_Enqueue_fifo(t *testing.T) {
	f := newPlayerFixture(2)
	token := f.controller.Begin()

	assert.Equal(t, 3, f.player.Enqueue(token, f.items(token, "a", "b", "c")...))

	require.Eventually(t, f.idle, eventually, tick)
	assert.Equal(t, []string{"a", "b", "c"}, f.voice.Spoken())
	assert.Equal(t, []screen.Region{region(0), region(1), region(2)}, f.surface.Drawn())
	assert.Equal(t, 0, f.surface.Visible())
	assert.Equal(t, 1, f.surface.MaxVisible())
	assert.Equal(t, 0, f.voice.Purges())
}

func TestPlayer_Enqueue_onlyOneActive(t *testing.T) {
	f := newPlayerFixture(1)
	var speaking, maxSpeaking atomic.Int32
	f.voice.OnSpeak = func(string) {
		if n := speaking.Add(1); n > maxSpeaking.Load() {
			maxSpeaking.Store(n)
		}
		assert.Equal(t, StateSpeaking, f.player.State())
		speaking.Add(-1)
	}
	token := f.controller.Begin()

	for _, text := range []string{"a", "b", "c", "d"} {
		f.player.Enqueue(token, f.items(token, text)...)
	}

	require.Eventually(t, f.idle, eventually, tick)
	assert.Equal(t, []string{"a", "b", "c", "d"}, f.voice.Spoken())
	assert.Equal(t, int32(1), maxSpeaking.Load())
	assert.Equal(t, 1, f.surface.MaxVisible())
}

func TestPlayer_Enqueue_staleRejected(t *testing.T) {
	f := newPlayerFixture(0)
	old := f.controller.Begin()
	current := f.controller.Begin()

	assert.Equal(t, 0, f.player.Enqueue(old, f.items(old, "a")...))
	assert.Equal(t, 0, f.player.Enqueue(current, f.items(old, "b")...))
	assert.Equal(t, 0, f.player.Enqueue(current, Item{Generation: current.Generation()}))

	assert.False(t, f.player.Busy())
	assert.Empty(t, f.voice.Spoken())
	assert.Empty(t, f.surface.Operations())
}

func TestPlayer_Supersede_midSpeech(t *testing.T) {
	f := newPlayerFixture(-1)
	token := f.controller.Begin()
	f.player.Enqueue(token, f.items(token, "one", "two", "three")...)
	require.Eventually(t, func() bool {
		return len(f.voice.Spoken()) == 1
	}, eventually, tick)
	assert.Equal(t, StateSpeaking, f.player.State())
	assert.Equal(t, 1, f.surface.Visible())

	f.controller.Begin()

	require.Eventually(t, f.idle, eventually, tick)
	assert.Equal(t, []string{"one"}, f.voice.Spoken())
	assert.GreaterOrEqual(t, f.voice.Purges(), 1)
	assert.False(t, f.voice.Running())
	assert.Equal(t, 0, f.player.Pending())
	assert.Equal(t, 0, f.surface.Visible())
}

func TestPlayer_Supersede_keepsNewerItems(t *testing.T) {
	f := newPlayerFixture(-1)
	old := f.controller.Begin()
	f.player.Enqueue(old, f.items(old, "old")...)
	require.Eventually(t, func() bool {
		return len(f.voice.Spoken()) == 1
	}, eventually, tick)

	current := f.controller.Begin()
	f.player.Enqueue(current, f.items(current, "new")...)
	f.player.Supersede(old.Generation())

	require.Eventually(t, func() bool {
		return len(f.voice.Spoken()) == 2
	}, eventually, tick)
	purges := f.voice.Purges()
	f.player.Supersede(current.Generation())
	assert.Equal(t, purges, f.voice.Purges())

	f.voice.Finish()
	require.Eventually(t, f.idle, eventually, tick)
	assert.Equal(t, []string{"old", "new"}, f.voice.Spoken())
}

func TestPlayer_speakFails(t *testing.T) {
	f := newPlayerFixture(1)
	f.voice.SpeakErr = func(text string) error {
		if text == "b" {
			return errors.New("expected")
		}
		return nil
	}
	token := f.controller.Begin()

	f.player.Enqueue(token, f.items(token, "a", "b", "c")...)

	require.Eventually(t, f.idle, eventually, tick)
	assert.Equal(t, []string{"a", "c"}, f.voice.Spoken())
	assert.Equal(t, 0, f.surface.Visible())
}

func TestPlayer_statusFails(t *testing.T) {
	f := newPlayerFixture(1)
	var failed atomic.Bool
	f.voice.StatusErr = func() error {
		if failed.CompareAndSwap(false, true) {
			return errors.New("expected")
		}
		return nil
	}
	token := f.controller.Begin()

	f.player.Enqueue(token, f.items(token, "a", "b")...)

	require.Eventually(t, f.idle, eventually, tick)
	assert.Equal(t, []string{"a", "b"}, f.voice.Spoken())
	assert.Equal(t, []screen.Region{region(0), region(1)}, f.surface.Drawn())
	assert.Equal(t, 1, f.voice.Purges())
	assert.False(t, f.voice.Running())
	assert.Equal(t, 0, f.surface.Visible())
}

func TestPlayer_OnItem(t *testing.T) {
	f := newPlayerFixture(0)
	var observed []string
	f.player.OnItem = func(item Item) {
		observed = append(observed, item.Text)
	}
	token := f.controller.Begin()

	f.player.Enqueue(token, f.items(token, "a", "b")...)

	require.Eventually(t, f.idle, eventually, tick)
	assert.Equal(t, []string{"a", "b"}, observed)
}

func TestPlayer_ClearQueue(t *testing.T) {
	f := newPlayerFixture(-1)
	token := f.controller.Begin()
	f.player.Enqueue(token, f.items(token, "a", "b", "c")...)
	require.Eventually(t, func() bool {
		return len(f.voice.Spoken()) == 1
	}, eventually, tick)

	f.player.ClearQueue()
	assert.Equal(t, 0, f.player.Pending())
	f.voice.Finish()

	require.Eventually(t, f.idle, eventually, tick)
	assert.Equal(t, []string{"a"}, f.voice.Spoken())
}

func TestPlayer_Supersede_beforePlaying(t *testing.T) {
	f := newPlayerFixture(-1)
	first := f.controller.Begin()
	f.player.Enqueue(first, f.items(first, "blocking")...)
	require.Eventually(t, func() bool {
		return len(f.voice.Spoken()) == 1
	}, eventually, tick)

	// Nothing of the second generation has started playing yet.
	second := f.controller.Begin()
	f.player.Enqueue(second, f.items(second, "never", "ever")...)
	third := f.controller.Begin()
	f.player.Enqueue(third, f.items(third, "last")...)

	require.Eventually(t, func() bool {
		return len(f.voice.Spoken()) == 2
	}, eventually, tick)
	f.voice.Finish()
	require.Eventually(t, f.idle, eventually, tick)

	assert.Equal(t, []string{"blocking", "last"}, f.voice.Spoken())
	assert.Equal(t, []screen.Region{region(0), region(0)}, f.surface.Drawn())
}
