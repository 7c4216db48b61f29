//go:build windows

package speech

import (
	"fmt"
	"sync"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// SpeechVoiceSpeakFlags and SpeechRunState of the SAPI automation interface.
const (
	svsfAsync            = 1
	svsfPurgeBeforeSpeak = 2

	srseDone = 1
)

// Sapi speaks through the SAPI SpVoice automation object. COM has to be
// initialized before it is used.
type Sapi struct {
	conf  Configuration
	voice *ole.IDispatch
	mutex sync.Mutex
}

func NewSapi(conf Configuration) (*Sapi, error) {
	result := Sapi{conf: conf}
	if err := result.Reinitialize(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (this *Sapi) Reinitialize() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.dispose()

	unknown, err := oleutil.CreateObject("SAPI.SpVoice")
	if err != nil {
		return fmt.Errorf("cannot create SAPI voice: %w", err)
	}
	defer unknown.Release()

	voice, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("cannot get dispatch of SAPI voice: %w", err)
	}

	if _, err := oleutil.PutProperty(voice, "Volume", int32(this.conf.Volume)); err != nil {
		voice.Release()
		return fmt.Errorf("cannot set volume of SAPI voice: %w", err)
	}
	if _, err := oleutil.PutProperty(voice, "Rate", int32(this.conf.Rate)); err != nil {
		voice.Release()
		return fmt.Errorf("cannot set rate of SAPI voice: %w", err)
	}

	this.voice = voice
	return nil
}

func (this *Sapi) Dispose() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.dispose()
	return nil
}

func (this *Sapi) dispose() {
	if v := this.voice; v != nil {
		v.Release()
		this.voice = nil
	}
}

func (this *Sapi) Speak(text string) error {
	return this.speak(text, svsfAsync|svsfPurgeBeforeSpeak)
}

func (this *Sapi) PurgeAndStop() error {
	return this.speak("", svsfAsync|svsfPurgeBeforeSpeak)
}

func (this *Sapi) speak(text string, flags int32) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.voice == nil {
		return fmt.Errorf("not initialized")
	}
	result, err := oleutil.CallMethod(this.voice, "Speak", text, flags)
	if err != nil {
		return fmt.Errorf("cannot speak %q: %w", text, err)
	}
	_ = result.Clear()
	return nil
}

func (this *Sapi) Status() (Status, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.voice == nil {
		return StatusDone, fmt.Errorf("not initialized")
	}

	sv, err := oleutil.GetProperty(this.voice, "Status")
	if err != nil {
		return StatusDone, fmt.Errorf("cannot get status of SAPI voice: %w", err)
	}
	defer func() { _ = sv.Clear() }()

	status := sv.ToIDispatch()
	if status == nil {
		return StatusDone, fmt.Errorf("SAPI voice returned no status")
	}

	rs, err := oleutil.GetProperty(status, "RunningState")
	if err != nil {
		return StatusDone, fmt.Errorf("cannot get running state of SAPI voice: %w", err)
	}
	defer func() { _ = rs.Clear() }()

	if v, ok := rs.Value().(int32); ok && v == srseDone {
		return StatusDone, nil
	}
	return StatusRunning, nil
}
