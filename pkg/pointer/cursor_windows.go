//go:build windows

package pointer

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/blaubaer/focus-reader/pkg/screen"
)

var (
	dllUser32        = windows.NewLazySystemDLL("user32.dll")
	procGetCursorPos = dllUser32.NewProc("GetCursorPos")
)

// Cursor locates the mouse cursor.
type Cursor struct{}

func (this Cursor) Position() (screen.Point, error) {
	var result screen.Point
	if r0, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&result))); r0 == 0 {
		return screen.Point{}, fmt.Errorf("cannot get cursor position: %w", err)
	}
	return result, nil
}
