package audio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedFinder struct {
	results []Devices
	err     error
	calls   int
	mutex   sync.Mutex
}

func (this *scriptedFinder) FindDevices() (Devices, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	i := min(this.calls, len(this.results)-1)
	this.calls++
	if this.err != nil && this.calls == 2 {
		return nil, this.err
	}
	return this.results[i], nil
}

var (
	idleDevices   = Devices{{Name: "Headset", Sessions: Sessions{}}}
	activeDevices = Devices{
		{Name: "Headset", Index: 0, Sessions: Sessions{{HolderPid: 100}}},
		{Name: "Webcam", Index: 1, Sessions: Sessions{{HolderPid: 200}}},
	}
)

func TestGuard_Check(t *testing.T) {
	instance := &Guard{
		Finder: &scriptedFinder{results: []Devices{activeDevices}},
		Relevant: func(_ context.Context, s Session) bool {
			return s.HolderPid != 200
		},
	}

	actual, err := instance.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Sessions{{HolderPid: 100}}, actual)
}

func TestGuard_Run(t *testing.T) {
	finder := &scriptedFinder{
		results: []Devices{idleDevices, idleDevices, activeDevices, activeDevices, idleDevices},
		err:     errors.New("expected"),
	}
	var changes []bool
	var mutex sync.Mutex
	instance := &Guard{
		Finder:   finder,
		Interval: time.Millisecond,
		OnChange: func(active bool, _ Sessions) {
			mutex.Lock()
			defer mutex.Unlock()
			changes = append(changes, active)
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- instance.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		mutex.Lock()
		defer mutex.Unlock()
		return len(changes) == 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []bool{false, true, false}, changes)
}

func TestDevices_Sessions(t *testing.T) {
	var actual []string
	for d, s := range activeDevices.Sessions() {
		actual = append(actual, d.Name+"/"+s.String())
	}
	assert.Equal(t, []string{"Headset/pid:100", "Webcam/pid:200"}, actual)
}
