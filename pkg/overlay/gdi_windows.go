//go:build windows

package overlay

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/blaubaer/focus-reader/pkg/screen"
)

var (
	dllUser32 = windows.NewLazySystemDLL("user32.dll")
	dllGdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procGetDC          = dllUser32.NewProc("GetDC")
	procReleaseDC      = dllUser32.NewProc("ReleaseDC")
	procInvalidateRect = dllUser32.NewProc("InvalidateRect")

	procCreatePen      = dllGdi32.NewProc("CreatePen")
	procSelectObject   = dllGdi32.NewProc("SelectObject")
	procGetStockObject = dllGdi32.NewProc("GetStockObject")
	procRectangle      = dllGdi32.NewProc("Rectangle")
	procDeleteObject   = dllGdi32.NewProc("DeleteObject")
)

const (
	psSolid     = 0
	hollowBrush = 5
)

// Gdi draws hollow rectangles directly on the screen device context.
type Gdi struct {
	conf Configuration
}

func NewGdi(conf Configuration) (*Gdi, error) {
	if err := procRectangle.Find(); err != nil {
		return nil, fmt.Errorf("cannot load gdi32: %w", err)
	}
	return &Gdi{conf: conf}, nil
}

func (this *Gdi) DrawRect(region screen.Region) error {
	hdc, _, err := procGetDC.Call(0)
	if hdc == 0 {
		return fmt.Errorf("cannot get screen device context: %w", err)
	}
	defer func() { _, _, _ = procReleaseDC.Call(0, hdc) }()

	pen, _, err := procCreatePen.Call(psSolid, uintptr(this.conf.Thickness), uintptr(this.conf.Color.ColorRef()))
	if pen == 0 {
		return fmt.Errorf("cannot create pen: %w", err)
	}
	defer func() { _, _, _ = procDeleteObject.Call(pen) }()

	oldPen, _, _ := procSelectObject.Call(hdc, pen)
	defer func() { _, _, _ = procSelectObject.Call(hdc, oldPen) }()

	brush, _, _ := procGetStockObject.Call(hollowBrush)
	oldBrush, _, _ := procSelectObject.Call(hdc, brush)
	defer func() { _, _, _ = procSelectObject.Call(hdc, oldBrush) }()

	if r0, _, err := procRectangle.Call(hdc,
		uintptr(region.Left), uintptr(region.Top), uintptr(region.Right), uintptr(region.Bottom),
	); r0 == 0 {
		return fmt.Errorf("cannot draw rectangle %v: %w", region, err)
	}
	return nil
}

func (this *Gdi) InvalidateRect(region screen.Region) error {
	if r0, _, err := procInvalidateRect.Call(0, uintptr(unsafe.Pointer(&region)), 1); r0 == 0 {
		return fmt.Errorf("cannot invalidate rectangle %v: %w", region, err)
	}
	return nil
}
