package audio

import "fmt"

// Session is an active capture session of a device.
type Session struct {
	HolderPid uint32 `json:"pid,omitempty"`
}

func (this Session) String() string {
	return fmt.Sprintf("pid:%d", this.HolderPid)
}

type Sessions []Session

func (this Sessions) IsZero() bool {
	return len(this) <= 0
}

func (this Sessions) HasContent() bool {
	return !this.IsZero()
}
