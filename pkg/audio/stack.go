//go:build !windows

package audio

import "errors"

var ErrUnsupportedPlatform = errors.New("audio devices are not supported on this platform")

type Stack struct{}

func (this *Stack) Initialize() error {
	return nil
}

func (this *Stack) Dispose() error {
	return nil
}

func (this *Stack) FindDevices() (Devices, error) {
	return nil, ErrUnsupportedPlatform
}
