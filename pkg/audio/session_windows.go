//go:build windows

package audio

import (
	"fmt"
	"unsafe"

	"github.com/moutend/go-wca/pkg/wca"
)

const audioSessionStateActive = 1

func (this Device) activeSessionsOf(sessionManager *wca.IAudioSessionManager2) (result Sessions, _ error) {
	var enumerator *wca.IAudioSessionEnumerator
	if err := sessionManager.GetSessionEnumerator(&enumerator); err != nil {
		return nil, fmt.Errorf("cannot get audio sessions of device %v: %w", this, err)
	}
	defer enumerator.Release()

	var count int
	if err := enumerator.GetCount(&count); err != nil {
		return nil, fmt.Errorf("cannot get count of audio sessions of device %v: %w", this, err)
	}

	for i := 0; i < count; i++ {
		session, ok, err := this.introspectSessionOf(enumerator, i)
		if err != nil {
			return nil, err
		}
		if ok {
			result = append(result, session)
		}
	}
	return
}

func (this Device) introspectSessionOf(sessions *wca.IAudioSessionEnumerator, sessionIndex int) (Session, bool, error) {
	var sessionControl *wca.IAudioSessionControl
	if err := sessions.GetSession(sessionIndex, &sessionControl); err != nil {
		return Session{}, false, fmt.Errorf("cannot get audio session %d of device %v: %w", sessionIndex, this, err)
	}
	defer sessionControl.Release()

	var state uint32
	if err := sessionControl.GetState(&state); err != nil {
		return Session{}, false, fmt.Errorf("cannot get state of audio session %d of device %v: %w", sessionIndex, this, err)
	}
	if state != audioSessionStateActive {
		return Session{}, false, nil
	}

	dispatch, err := sessionControl.QueryInterface(wca.IID_IAudioSessionControl2)
	if err != nil {
		return Session{}, false, fmt.Errorf("cannot get audio session control %d of device %v: %w", sessionIndex, this, err)
	}
	sessionControl2 := (*wca.IAudioSessionControl2)(unsafe.Pointer(dispatch))
	defer sessionControl2.Release()

	// IsSystemSoundsSession reports S_FALSE (as error) for regular sessions.
	if err := sessionControl2.IsSystemSoundsSession(); err == nil {
		return Session{}, false, nil
	}

	var pid uint32
	if err := sessionControl2.GetProcessId(&pid); err != nil {
		return Session{}, false, fmt.Errorf("cannot get process of audio session %d of device %v: %w", sessionIndex, this, err)
	}
	return Session{HolderPid: pid}, true, nil
}
