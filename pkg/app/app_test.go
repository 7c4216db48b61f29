package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amock "github.com/blaubaer/focus-reader/pkg/accessibility/mock"
	"github.com/blaubaer/focus-reader/pkg/audio"
	omock "github.com/blaubaer/focus-reader/pkg/overlay/mock"
	"github.com/blaubaer/focus-reader/pkg/pipeline"
	"github.com/blaubaer/focus-reader/pkg/process"
	"github.com/blaubaer/focus-reader/pkg/screen"
	"github.com/blaubaer/focus-reader/pkg/sink"
	smock "github.com/blaubaer/focus-reader/pkg/speech/mock"
)

const (
	eventually = 2 * time.Second
	tick       = 5 * time.Millisecond
)

const testConfiguration = `
preventAutoSave: true
settleDelay: 0s
speech:
  pollInterval: 1ms
pointer:
  enabled: true
  pollInterval: 2ms
  settleDuration: 10ms
hotkeys:
  enabled: false
outputs: [console]
`

type syncBuffer struct {
	buf   strings.Builder
	mutex sync.Mutex
}

func (this *syncBuffer) Write(p []byte) (int, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.buf.Write(p)
}

func (this *syncBuffer) String() string {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.buf.String()
}

type fixedLocator struct {
	point screen.Point
}

func (this fixedLocator) Position() (screen.Point, error) {
	return this.point, nil
}

type fixedFinder struct {
	devices audio.Devices
}

func (this fixedFinder) FindDevices() (audio.Devices, error) {
	return this.devices, nil
}

type appFixture struct {
	*App
	tree  *amock.Tree
	voice *smock.Voice
	out   *syncBuffer
}

func newAppFixture(t *testing.T, configuration string) *appFixture {
	fn := filepath.Join(t.TempDir(), "configuration.yml")
	require.NoError(t, os.WriteFile(fn, []byte(configuration), 0600))

	hello := amock.NewNode("Hello", screen.Region{Left: 1, Top: 1, Right: 10, Bottom: 10})
	hello.ProcessID = 42
	result := &appFixture{
		tree:  amock.NewTree(amock.NewNode("Window", screen.Region{Right: 100, Bottom: 100}, hello)),
		voice: &smock.Voice{},
		out:   &syncBuffer{},
	}
	result.tree.Place(screen.Point{X: 5, Y: 5}, hello)

	resolver := process.NewResolver(time.Minute)
	resolver.Lookup = func(_ context.Context, pid uint32) (string, error) {
		if pid == 42 {
			return "notepad.exe", nil
		}
		return "recorder.exe", nil
	}

	result.App = &App{
		ConfigurationFile: fn,
		Sinks:             []sink.Sink{&sink.Console{Writer: result.out}},
		Tree:              result.tree,
		Voice:             result.voice,
		Surface:           &omock.Surface{},
		Locator:           fixedLocator{screen.Point{X: 5, Y: 5}},
		Resolver:          resolver,
	}
	return result
}

func (this *appFixture) run(t *testing.T) (stop func()) {
	require.NoError(t, this.Initialize())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- this.Run(ctx)
	}()
	return func() {
		cancel()
		assert.NoError(t, <-done)
		assert.NoError(t, this.Dispose())
		assert.Equal(t, int64(0), this.tree.Outstanding())
	}
}

func TestApp_Run_readsElementUnderPointer(t *testing.T) {
	f := newAppFixture(t, testConfiguration)
	stop := f.run(t)

	require.Eventually(t, func() bool {
		return len(f.voice.Spoken()) > 0
	}, eventually, tick)
	stop()

	assert.Equal(t, []string{"Hello"}, f.voice.Spoken())
	assert.Equal(t, "· active\n» Hello\n", f.out.String())
}

func TestApp_Run_excludedProcess(t *testing.T) {
	f := newAppFixture(t, testConfiguration+"processes:\n  excluded: ^notepad\\.exe$\n")
	stop := f.run(t)

	time.Sleep(100 * time.Millisecond)
	stop()

	assert.Empty(t, f.voice.Spoken())
}

func TestApp_Run_pausesWhileMicrophoneActive(t *testing.T) {
	conf := strings.Replace(testConfiguration, "  pollInterval: 1ms\n", "  pollInterval: 1ms\n  pauseWhileMicrophoneActive: true\n", 1)
	f := newAppFixture(t, strings.Replace(conf, "  enabled: true\n", "  enabled: false\n", 1))
	f.Devices = fixedFinder{audio.Devices{{Name: "Headset", Sessions: audio.Sessions{{HolderPid: 7}}}}}
	stop := f.run(t)

	require.Eventually(t, func() bool {
		return f.Pipeline.Dispatcher.PausedBy().Has(pipeline.PauseReasonMicrophone)
	}, eventually, tick)
	require.NoError(t, f.PointerAt(context.Background(), screen.Point{X: 5, Y: 5}))
	stop()

	assert.Empty(t, f.voice.Spoken())
	assert.Contains(t, f.out.String(), "· paused (microphone)\n")
}

func TestApp_TogglePause(t *testing.T) {
	f := newAppFixture(t, strings.Replace(testConfiguration, "  enabled: true\n", "  enabled: false\n", 1))
	stop := f.run(t)
	defer stop()

	assert.True(t, f.TogglePause())
	assert.Equal(t, "user", f.Status().PausedBy.String())
	assert.False(t, f.TogglePause())
	assert.Equal(t, "none", f.Status().PausedBy.String())

	require.NoError(t, f.PointerAt(context.Background(), screen.Point{X: 5, Y: 5}))
	require.Eventually(t, func() bool {
		return len(f.voice.Spoken()) > 0
	}, eventually, tick)
}

func TestApp_Initialize_savesConfiguration(t *testing.T) {
	f := newAppFixture(t, testConfiguration)
	fn := filepath.Join(t.TempDir(), "new", "configuration.yml")
	f.ConfigurationFile = fn
	require.NoError(t, f.Initialize())
	defer func() { assert.NoError(t, f.Dispose()) }()

	content, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(content), "preventAutoSave: false")
	assert.Contains(t, string(content), "refreshInterval: 10m0s")
}

func TestApp_refresh(t *testing.T) {
	f := newAppFixture(t, testConfiguration)
	require.NoError(t, f.Initialize())
	defer func() { assert.NoError(t, f.Dispose()) }()

	require.NoError(t, f.PointerAt(context.Background(), screen.Point{X: 5, Y: 5}))
	require.Eventually(t, func() bool {
		return len(f.voice.Spoken()) == 1 && f.Status().State == pipeline.StateIdle
	}, eventually, tick)

	f.refresh()
	assert.Nil(t, f.Pipeline.Dispatcher.Current())

	require.NoError(t, f.PointerAt(context.Background(), screen.Point{X: 5, Y: 5}))
	require.Eventually(t, func() bool {
		return len(f.voice.Spoken()) == 2
	}, eventually, tick)
}
