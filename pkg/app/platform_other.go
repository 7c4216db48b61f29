//go:build !windows

package app

func (this *App) initializePlatform() error {
	return nil
}
