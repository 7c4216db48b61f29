package console

import (
	"errors"
	"os"
)

var ErrUnsupportedPlatform = errors.New("dedicated console is not supported on this platform")

// DedicatedConsole is an own console window of a process which does
// usually not have one (like the tray application).
type DedicatedConsole struct {
	Stdin  *os.File
	Stdout *os.File

	// OnClose is called if the user closes the console window or presses
	// Ctrl+C inside of it. If it returns false the event is passed to the
	// next handler.
	OnClose func() bool

	modes []restorableMode
}

type restorableMode struct {
	handle uintptr
	mode   uint32
}

func (this *DedicatedConsole) Read(p []byte) (n int, err error) {
	return this.Stdin.Read(p)
}

func (this *DedicatedConsole) Write(p []byte) (n int, err error) {
	return this.Stdout.Write(p)
}

// Shell creates a navigation shell which uses this console for in- and
// output.
func (this *DedicatedConsole) Shell(target Target) *Shell {
	return &Shell{
		Target: target,
		Stdin:  this.Stdin,
		Stdout: this.Stdout,
	}
}

func (this *DedicatedConsole) onClose() bool {
	if v := this.OnClose; v != nil {
		return v()
	}
	return false
}
