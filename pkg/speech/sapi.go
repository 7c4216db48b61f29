//go:build !windows

package speech

type Sapi struct{}

func NewSapi(Configuration) (*Sapi, error) {
	return nil, ErrUnsupportedPlatform
}

func (this *Sapi) Speak(string) error      { return ErrUnsupportedPlatform }
func (this *Sapi) PurgeAndStop() error     { return ErrUnsupportedPlatform }
func (this *Sapi) Status() (Status, error) { return StatusDone, ErrUnsupportedPlatform }
func (this *Sapi) Reinitialize() error     { return ErrUnsupportedPlatform }
func (this *Sapi) Dispose() error          { return nil }
