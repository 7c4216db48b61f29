//go:build !windows

package accessibility

import "github.com/blaubaer/focus-reader/pkg/screen"

type Automation struct{}

func NewAutomation() (*Automation, error) {
	return nil, ErrUnsupportedPlatform
}

func (this *Automation) Reinitialize() error { return ErrUnsupportedPlatform }
func (this *Automation) Dispose() error      { return nil }

func (this *Automation) ElementFromPoint(screen.Point) (Element, error) {
	return nil, ErrUnsupportedPlatform
}

func (this *Automation) Compare(Element, Element) (bool, error) {
	return false, ErrUnsupportedPlatform
}

func (this *Automation) Parent(Element) (Element, error) { return nil, ErrUnsupportedPlatform }

func (this *Automation) FirstChild(Element) (Element, error) { return nil, ErrUnsupportedPlatform }

func (this *Automation) NextSibling(Element) (Element, error) { return nil, ErrUnsupportedPlatform }

func (this *Automation) PreviousSibling(Element) (Element, error) {
	return nil, ErrUnsupportedPlatform
}

func (this *Automation) BoundingRegion(Element) (screen.Region, error) {
	return screen.Region{}, ErrUnsupportedPlatform
}

func (this *Automation) Text(Element) (string, screen.Regions, error) {
	return "", nil, ErrUnsupportedPlatform
}

func (this *Automation) Name(Element) (string, error) { return "", ErrUnsupportedPlatform }

func (this *Automation) ProcessID(Element) (uint32, error) { return 0, ErrUnsupportedPlatform }
