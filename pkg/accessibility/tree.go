package accessibility

import (
	"errors"

	"github.com/blaubaer/focus-reader/pkg/screen"
)

var (
	ErrNotSupported        = errors.New("not supported by element")
	ErrUnsupportedPlatform = errors.New("accessibility tree is not supported on this platform")
)

// Element is an opaque, reference counted handle of a node inside the
// accessibility tree. Every Element returned by a Tree has to be released
// exactly once by the receiver.
type Element interface {
	AddRef()
	Release()
}

// Tree is the accessibility provider. Navigation methods return (nil, nil) if
// there is no such relative.
type Tree interface {
	ElementFromPoint(screen.Point) (Element, error)
	Compare(a, b Element) (bool, error)

	Parent(Element) (Element, error)
	FirstChild(Element) (Element, error)
	NextSibling(Element) (Element, error)
	PreviousSibling(Element) (Element, error)

	BoundingRegion(Element) (screen.Region, error)
	// Text returns the content of the document text range of the element and
	// the bounding rectangles of its sub ranges. ErrNotSupported is returned
	// if the element does not expose text.
	Text(Element) (string, screen.Regions, error)
	Name(Element) (string, error)
	ProcessID(Element) (uint32, error)
}

func Release(es ...Element) {
	for _, e := range es {
		if e != nil {
			e.Release()
		}
	}
}
