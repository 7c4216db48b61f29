package sink

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct {
	Console
	initErr  error
	printErr error
	disposed bool
}

func (this *failingSink) Initialize() error { return this.initErr }
func (this *failingSink) Dispose() error {
	this.disposed = true
	return nil
}
func (this *failingSink) Print(string) error { return this.printErr }
func (this *failingSink) GetType() Type      { return TypeTray }

func TestFacade_Print(t *testing.T) {
	var buf bytes.Buffer
	var instance Facade
	require.NoError(t, instance.Initialize(Types{TypeConsole}, &Console{Writer: &buf}))

	require.NoError(t, instance.Print("Submit"))
	instance.Ensure(StatePaused, "microphone")
	instance.Ensure(StateActive, "")

	assert.Equal(t, "» Submit\n· paused (microphone)\n· active\n", buf.String())
	assert.Equal(t, Types{TypeConsole}, instance.Types())
	require.NoError(t, instance.Dispose())
	assert.Empty(t, instance.Types())
}

func TestFacade_Print_failing(t *testing.T) {
	var buf bytes.Buffer
	failing := &failingSink{printErr: errors.New("expected")}
	var instance Facade
	require.NoError(t, instance.Initialize(Types{TypeConsole, TypeTray}, &Console{Writer: &buf}, failing))

	err := instance.Print("Submit")

	assert.ErrorIs(t, err, failing.printErr)
	assert.Equal(t, "» Submit\n", buf.String())
}

func TestFacade_Initialize_failing(t *testing.T) {
	first := &failingSink{}
	var instance Facade
	err := instance.Initialize(Types{TypeTray}, &failingSink{initErr: errors.New("expected")})
	assert.Error(t, err)
	assert.Empty(t, instance.Types())

	require.NoError(t, instance.Initialize(Types{TypeTray}, first))
	assert.Equal(t, Types{TypeTray}, instance.Types())
}

func TestTypes_Set(t *testing.T) {
	var actual Types
	require.NoError(t, actual.Set("tray, console,tray"))
	assert.Equal(t, Types{TypeTray, TypeConsole}, actual)
	assert.Equal(t, "tray,console", actual.String())

	require.NoError(t, actual.Set(""))
	assert.Empty(t, actual)

	assert.Error(t, actual.Set("hue"))
}

func TestTooltip(t *testing.T) {
	assert.Equal(t, "short", Tooltip("short"))

	long := Tooltip(string(bytes.Repeat([]byte("ä"), 200)))
	assert.Equal(t, 120, len([]rune(long)))
	assert.Equal(t, "…", string([]rune(long)[119:]))
}

func TestTypes_Without(t *testing.T) {
	given := Types{TypeConsole, TypeTray}

	assert.Equal(t, Types{TypeConsole}, given.Without(TypeTray))
	assert.Equal(t, given, given.Without())
	assert.Empty(t, given.Without(TypeTray, TypeConsole))
}
