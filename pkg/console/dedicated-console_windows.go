//go:build windows

package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	ErrAllocationFailed = errors.New("allocation failed")

	dllKernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procAllocConsole          = dllKernel32.NewProc("AllocConsole")
	procSetConsoleTitle       = dllKernel32.NewProc("SetConsoleTitleW")
	procFreeConsole           = dllKernel32.NewProc("FreeConsole")
	procSetConsoleCtrlHandler = dllKernel32.NewProc("SetConsoleCtrlHandler")
	procExitThread            = dllKernel32.NewProc("ExitThread")
)

func NewDedicatedConsole(title string) (_ *DedicatedConsole, rErr error) {
	if r0, _, err := procAllocConsole.Call(); r0 == 0 {
		return nil, fmt.Errorf("%w: %v", ErrAllocationFailed, err)
	}
	result := &DedicatedConsole{}
	defer func() {
		if rErr != nil {
			_ = result.Close()
		}
	}()

	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return nil, fmt.Errorf("cannot allocate title: %w", err)
	}
	if r0, _, err := procSetConsoleTitle.Call(uintptr(unsafe.Pointer(titlePtr))); r0 == 0 {
		return nil, fmt.Errorf("cannot set console title: %w", err)
	}

	hIn, err := result.configure(windows.STD_INPUT_HANDLE, windows.ENABLE_VIRTUAL_TERMINAL_INPUT|
		windows.ENABLE_PROCESSED_INPUT|
		windows.ENABLE_EXTENDED_FLAGS)
	if err != nil {
		return nil, fmt.Errorf("cannot configure stdin: %w", err)
	}
	hOut, err := result.configure(windows.STD_OUTPUT_HANDLE, windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING|
		windows.ENABLE_WRAP_AT_EOL_OUTPUT|
		windows.ENABLE_PROCESSED_OUTPUT)
	if err != nil {
		return nil, fmt.Errorf("cannot configure stdout: %w", err)
	}

	result.Stdin = os.NewFile(uintptr(hIn), "/dev/stdin")
	result.Stdout = os.NewFile(uintptr(hOut), "/dev/stdout")

	if err := setConsoleCtrlHandler(result.onClose); err != nil {
		return nil, err
	}

	return result, nil
}

// configure sets the given mode on the standard handle and remembers the
// previous one to restore it on Close.
func (this *DedicatedConsole) configure(which uint32, mode uint32) (windows.Handle, error) {
	handle, err := windows.GetStdHandle(which)
	if err != nil {
		return 0, fmt.Errorf("cannot get handle: %w", err)
	}

	var previous uint32
	if err := windows.GetConsoleMode(handle, &previous); err != nil {
		// Redirected, nothing to configure.
		return handle, nil
	}
	if err := windows.SetConsoleMode(handle, mode); err != nil {
		return 0, fmt.Errorf("cannot set console mode: %w", err)
	}
	this.modes = append(this.modes, restorableMode{uintptr(handle), previous})
	return handle, nil
}

func (this *DedicatedConsole) Close() (rErr error) {
	c := func(what io.Closer) {
		if what == nil {
			return
		}
		if err := what.Close(); err != nil && rErr == nil {
			rErr = err
		}
	}

	_ = setConsoleCtrlHandler(nil)
	for _, m := range this.modes {
		_ = windows.SetConsoleMode(windows.Handle(m.handle), m.mode)
	}
	this.modes = nil

	if this.Stdin != nil {
		c(this.Stdin)
	}
	if this.Stdout != nil {
		c(this.Stdout)
	}

	if r0, _, err := procFreeConsole.Call(); r0 == 0 && rErr == nil {
		rErr = fmt.Errorf("cannot free console: %w", err)
	}
	return rErr
}

func setConsoleCtrlHandler(h func() bool) error {
	var r0 uintptr
	var err error
	if h == nil {
		r0, _, err = procSetConsoleCtrlHandler.Call(0, 0)
	} else {
		r0, _, err = procSetConsoleCtrlHandler.Call(syscall.NewCallback(func(event uint32) uintptr {
			switch event {
			case windows.CTRL_C_EVENT, windows.CTRL_BREAK_EVENT:
				if h() {
					return 1
				}
				return 0
			case windows.CTRL_CLOSE_EVENT:
				h()
				// Returning would terminate the whole process.
				_, _, _ = procExitThread.Call(0)
				return 1
			}
			return 0
		}), 1)
	}
	if r0 == 0 {
		return fmt.Errorf("cannot set console ctrl handler: %w", err)
	}
	return nil
}
