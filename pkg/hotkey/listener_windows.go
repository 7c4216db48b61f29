//go:build windows

package hotkey

import (
	"context"
	"fmt"
	"runtime"
	"unsafe"

	log "github.com/echocat/slf4g"
	"golang.org/x/sys/windows"
)

const (
	modNoRepeat = 0x4000

	wmHotkey = 0x0312
	wmQuit   = 0x0012
)

var (
	dllUser32              = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey     = dllUser32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = dllUser32.NewProc("UnregisterHotKey")
	procGetMessage         = dllUser32.NewProc("GetMessageW")
	procPostThreadMessageW = dllUser32.NewProc("PostThreadMessageW")
)

type msg struct {
	hwnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	ptX      int32
	ptY      int32
	lPrivate uint32
}

// Run blocks until ctx is done. Hotkeys are bound to the thread which
// registered them, so the whole message loop runs on one locked OS thread.
func (this *Listener) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	threadId := windows.GetCurrentThreadId()

	var registered []int
	defer func() {
		for _, id := range registered {
			_, _, _ = procUnregisterHotKey.Call(0, uintptr(id))
		}
	}()
	for id, b := range this.Bindings {
		if r0, _, err := procRegisterHotKey.Call(0, uintptr(id), uintptr(uint32(b.Chord.Modifiers)|modNoRepeat), uintptr(b.Chord.Key)); r0 == 0 {
			log.WithError(err).
				With("hotkey", b.Chord).
				With("navigation", b.Navigation).
				Warn("Cannot register hotkey; it is probably used by another program.")
			continue
		}
		registered = append(registered, id)
		log.With("hotkey", b.Chord).
			With("navigation", b.Navigation).
			Debug("Hotkey registered.")
	}

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			_, _, _ = procPostThreadMessageW.Call(uintptr(threadId), wmQuit, 0, 0)
		case <-stopped:
		}
	}()

	var m msg
	for {
		r0, _, err := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r0) {
		case 0:
			log.Debug("Hotkey listening interrupted.")
			return nil
		case -1:
			return fmt.Errorf("cannot receive hotkey messages: %w", err)
		}
		if m.message == wmHotkey {
			go this.fire(ctx, int(m.wParam))
		}
	}
}
