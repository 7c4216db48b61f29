//go:build !windows

package hotkey

import "context"

func (this *Listener) Run(context.Context) error {
	return ErrUnsupportedPlatform
}
