//go:build !windows

package console

func NewDedicatedConsole(string) (*DedicatedConsole, error) {
	return nil, ErrUnsupportedPlatform
}

func (this *DedicatedConsole) Close() error {
	return nil
}
