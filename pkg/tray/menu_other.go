//go:build !windows

package tray

import "context"

func (this *Menu) Run(context.Context, []byte, func(context.Context) error) error {
	return ErrUnsupportedPlatform
}
