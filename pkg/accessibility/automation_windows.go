//go:build windows

package accessibility

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"

	"github.com/blaubaer/focus-reader/pkg/common"
	"github.com/blaubaer/focus-reader/pkg/screen"
)

var (
	clsidCUIAutomation          = ole.NewGUID("{FF48DBA4-60EF-4201-AA87-54103EEF594E}")
	iidIUIAutomation            = ole.NewGUID("{30CBE57D-D9D0-452A-AB13-7AC5AC4825EE}")
	iidIUIAutomationTextPattern = ole.NewGUID("{32EBA289-3583-42C9-9C59-3B6D9A1E9B6A}")
)

const (
	uiaTextPatternId = 10014

	uiaErrElementNotAvailable = 0x80040201
	uiaErrNotSupported        = 0x80040204
)

// vtable slots, IUnknown occupies 0-2
const (
	automationCompareElements      = 3
	automationElementFromPoint     = 7
	automationGetControlViewWalker = 14

	walkerGetParentElement          = 3
	walkerGetFirstChildElement      = 4
	walkerGetNextSiblingElement     = 6
	walkerGetPreviousSiblingElement = 7

	elementGetCurrentPatternAs         = 14
	elementGetCurrentProcessId         = 20
	elementGetCurrentName              = 23
	elementGetCurrentBoundingRectangle = 43

	textPatternGetDocumentRange = 7

	textRangeGetBoundingRectangles = 10
	textRangeGetText               = 12
)

// Automation is the Tree backed by Windows UI Automation. COM has to be
// initialized (multithreaded apartment) before it is used.
type Automation struct {
	automation *ole.IUnknown
	walker     *ole.IUnknown
	mutex      sync.RWMutex
}

func NewAutomation() (*Automation, error) {
	var result Automation
	if err := result.Reinitialize(); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reinitialize drops the current automation instance and creates a new one.
// Elements obtained before stay valid until they are released.
func (this *Automation) Reinitialize() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.dispose()

	automation, err := ole.CreateInstance(clsidCUIAutomation, iidIUIAutomation)
	if err != nil {
		return fmt.Errorf("cannot create UI automation instance: %w", err)
	}

	var walker *ole.IUnknown
	if err := comCall(automation, automationGetControlViewWalker, uintptr(unsafe.Pointer(&walker))); err != nil {
		automation.Release()
		return fmt.Errorf("cannot get control view walker: %w", err)
	}

	this.automation = automation
	this.walker = walker
	return nil
}

func (this *Automation) Dispose() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.dispose()
	return nil
}

func (this *Automation) dispose() {
	if v := this.walker; v != nil {
		v.Release()
		this.walker = nil
	}
	if v := this.automation; v != nil {
		v.Release()
		this.automation = nil
	}
}

func (this *Automation) ElementFromPoint(p screen.Point) (Element, error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if this.automation == nil {
		return nil, fmt.Errorf("not initialized")
	}

	var result *ole.IUnknown
	args := append(pointArgs(p), uintptr(unsafe.Pointer(&result)))
	if err := comCall(this.automation, automationElementFromPoint, args...); err != nil {
		return nil, fmt.Errorf("cannot resolve element at %v: %w", p, err)
	}
	return wrap(result), nil
}

func (this *Automation) Compare(a, b Element) (bool, error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if this.automation == nil {
		return false, fmt.Errorf("not initialized")
	}

	var same int32
	if err := comCall(this.automation, automationCompareElements, unknownOf(a), unknownOf(b), uintptr(unsafe.Pointer(&same))); err != nil {
		return false, fmt.Errorf("cannot compare elements: %w", err)
	}
	return same != 0, nil
}

func (this *Automation) Parent(e Element) (Element, error) {
	return this.walk(e, walkerGetParentElement, "parent")
}

func (this *Automation) FirstChild(e Element) (Element, error) {
	return this.walk(e, walkerGetFirstChildElement, "first child")
}

func (this *Automation) NextSibling(e Element) (Element, error) {
	return this.walk(e, walkerGetNextSiblingElement, "next sibling")
}

func (this *Automation) PreviousSibling(e Element) (Element, error) {
	return this.walk(e, walkerGetPreviousSiblingElement, "previous sibling")
}

func (this *Automation) walk(e Element, slot int, what string) (Element, error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if this.walker == nil {
		return nil, fmt.Errorf("not initialized")
	}

	var result *ole.IUnknown
	if err := comCall(this.walker, slot, unknownOf(e), uintptr(unsafe.Pointer(&result))); err != nil {
		return nil, fmt.Errorf("cannot get %s element: %w", what, err)
	}
	return wrap(result), nil
}

func (this *Automation) BoundingRegion(e Element) (screen.Region, error) {
	var rect screen.Region
	if err := comCall(unknown(e), elementGetCurrentBoundingRectangle, uintptr(unsafe.Pointer(&rect))); err != nil {
		return screen.Region{}, fmt.Errorf("cannot get bounding rectangle: %w", err)
	}
	return rect, nil
}

func (this *Automation) Name(e Element) (string, error) {
	var bstr *uint16
	if err := comCall(unknown(e), elementGetCurrentName, uintptr(unsafe.Pointer(&bstr))); err != nil {
		return "", fmt.Errorf("cannot get name: %w", err)
	}
	return takeBstr(bstr), nil
}

func (this *Automation) ProcessID(e Element) (uint32, error) {
	var pid int32
	if err := comCall(unknown(e), elementGetCurrentProcessId, uintptr(unsafe.Pointer(&pid))); err != nil {
		return 0, fmt.Errorf("cannot get process id: %w", err)
	}
	return uint32(pid), nil
}

func (this *Automation) Text(e Element) (string, screen.Regions, error) {
	var pattern *ole.IUnknown
	if err := comCall(unknown(e), elementGetCurrentPatternAs, uiaTextPatternId, uintptr(unsafe.Pointer(iidIUIAutomationTextPattern)), uintptr(unsafe.Pointer(&pattern))); err != nil {
		if isCode(err, uiaErrNotSupported) {
			return "", nil, ErrNotSupported
		}
		return "", nil, fmt.Errorf("cannot get text pattern: %w", err)
	}
	if pattern == nil {
		return "", nil, ErrNotSupported
	}
	defer pattern.Release()

	var textRange *ole.IUnknown
	if err := comCall(pattern, textPatternGetDocumentRange, uintptr(unsafe.Pointer(&textRange))); err != nil {
		return "", nil, fmt.Errorf("cannot get document range: %w", err)
	}
	if textRange == nil {
		return "", nil, ErrNotSupported
	}
	defer textRange.Release()

	var bstr *uint16
	maxLength := -1
	if err := comCall(textRange, textRangeGetText, uintptr(maxLength), uintptr(unsafe.Pointer(&bstr))); err != nil {
		if isCode(err, uiaErrElementNotAvailable) {
			return "", nil, fmt.Errorf("element not available: %w", err)
		}
		return "", nil, fmt.Errorf("cannot get text of document range: %w", err)
	}
	text := takeBstr(bstr)

	var rects *ole.SafeArray
	if err := comCall(textRange, textRangeGetBoundingRectangles, uintptr(unsafe.Pointer(&rects))); err != nil || rects == nil {
		// Text without geometry is still worth to be read.
		return text, nil, nil
	}
	conv := ole.SafeArrayConversion{Array: rects}
	defer conv.Release()

	return text, regionsOf(conv.ToValueArray()), nil
}

// regionsOf converts the flat [left, top, width, height, ...] double array of
// UI automation into regions.
func regionsOf(values []any) (result screen.Regions) {
	for i := 0; i+3 < len(values); i += 4 {
		var quad [4]float64
		for j := range quad {
			v, ok := values[i+j].(float64)
			if !ok {
				return result
			}
			quad[j] = v
		}
		result = append(result, screen.Region{
			Left:   int32(quad[0]),
			Top:    int32(quad[1]),
			Right:  int32(quad[0] + quad[2]),
			Bottom: int32(quad[1] + quad[3]),
		})
	}
	return
}

type element struct {
	unknown *ole.IUnknown
}

func wrap(v *ole.IUnknown) Element {
	if v == nil {
		return nil
	}
	return &element{v}
}

func (this *element) AddRef() {
	this.unknown.AddRef()
}

func (this *element) Release() {
	this.unknown.Release()
}

func unknown(e Element) *ole.IUnknown {
	if v, ok := e.(*element); ok && v != nil {
		return v.unknown
	}
	return nil
}

func unknownOf(e Element) uintptr {
	return uintptr(unsafe.Pointer(unknown(e)))
}

func comCall(obj *ole.IUnknown, slot int, args ...uintptr) error {
	if obj == nil {
		return fmt.Errorf("nil COM object")
	}
	vtbl := uintptr(unsafe.Pointer(obj.RawVTable))
	method := *(*uintptr)(unsafe.Pointer(vtbl + uintptr(slot)*unsafe.Sizeof(uintptr(0))))
	hr, _, _ := syscall.SyscallN(method, append([]uintptr{uintptr(unsafe.Pointer(obj))}, args...)...)
	if hr != 0 {
		return ole.NewError(hr)
	}
	return nil
}

// pointArgs passes a POINT by value: packed into one register on 64 bit,
// as two arguments on 32 bit.
func pointArgs(p screen.Point) []uintptr {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return []uintptr{uintptr(uint32(p.X)) | uintptr(uint32(p.Y))<<32}
	}
	return []uintptr{uintptr(p.X), uintptr(p.Y)}
}

func takeBstr(v *uint16) string {
	if v == nil {
		return ""
	}
	defer func() { _ = ole.SysFreeString((*int16)(unsafe.Pointer(v))) }()
	return ole.BstrToString(v)
}

func isCode(err error, code uintptr) bool {
	oErr, ok := common.AsError[*ole.OleError](err)
	return ok && oErr.Code() == code
}
