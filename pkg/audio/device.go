package audio

import (
	"fmt"
	"iter"
)

type Device struct {
	Name     string   `json:"name"`
	Index    uint32   `json:"index"`
	Sessions Sessions `json:"sessions,omitempty"`
}

func (this Device) String() string {
	return fmt.Sprintf("[%d] %s", this.Index, this.Name)
}

type Devices []Device

func (this Devices) IsZero() bool {
	return len(this) <= 0
}

func (this Devices) HasContent() bool {
	return !this.IsZero()
}

// Sessions iterates over all sessions of all devices.
func (this Devices) Sessions() iter.Seq2[Device, Session] {
	return func(yield func(Device, Session) bool) {
		for _, d := range this {
			for _, s := range d.Sessions {
				if !yield(d, s) {
					return
				}
			}
		}
	}
}
