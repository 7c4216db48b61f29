//go:build windows

package audio

import (
	"fmt"
	"sync"

	"github.com/moutend/go-wca/pkg/wca"
)

// Stack finds the active capture sessions of all capture devices. COM has
// to be initialized (multithreaded apartment) before it is used.
type Stack struct {
	initialized bool
	mutex       sync.RWMutex
}

func (this *Stack) Initialize() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.initialized = true
	return nil
}

func (this *Stack) Dispose() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.initialized = false
	return nil
}

func (this *Stack) FindDevices() (Devices, error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if !this.initialized {
		return nil, fmt.Errorf("not initialized")
	}

	var de *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &de); err != nil {
		return nil, fmt.Errorf("cannot ceate IMMDeviceEnumerator instance: %w", err)
	}
	defer de.Release()

	return this.introspectDevicesOf(de)
}

func (this *Stack) introspectDevicesOf(enumerator *wca.IMMDeviceEnumerator) (result Devices, _ error) {
	var collection *wca.IMMDeviceCollection
	if err := enumerator.EnumAudioEndpoints(wca.ECapture, wca.DEVICE_STATE_ACTIVE, &collection); err != nil {
		return nil, fmt.Errorf("cannot query capture devices: %w", err)
	}
	defer collection.Release()

	var count uint32
	if err := collection.GetCount(&count); err != nil {
		return nil, fmt.Errorf("cannot get count of capture devices: %w", err)
	}

	for i := uint32(0); i < count; i++ {
		device, err := this.introspectDeviceOf(collection, i)
		if err != nil {
			return nil, err
		}
		result = append(result, device)
	}

	return
}

func (this *Stack) introspectDeviceOf(collection *wca.IMMDeviceCollection, deviceIndex uint32) (Device, error) {
	var device *wca.IMMDevice
	if err := collection.Item(deviceIndex, &device); err != nil {
		return Device{}, fmt.Errorf("cannot get capture device %d: %w", deviceIndex, err)
	}
	defer device.Release()

	var propertyStore *wca.IPropertyStore
	if err := device.OpenPropertyStore(wca.STGM_READ, &propertyStore); err != nil {
		return Device{}, fmt.Errorf("cannot get properties of capture device %d: %w", deviceIndex, err)
	}
	defer propertyStore.Release()

	var name wca.PROPVARIANT
	if err := propertyStore.GetValue(&wca.PKEY_Device_FriendlyName, &name); err != nil {
		return Device{}, fmt.Errorf("cannot get name of capture device %d: %w", deviceIndex, err)
	}

	var sessionManager *wca.IAudioSessionManager2
	if err := device.Activate(wca.IID_IAudioSessionManager2, wca.CLSCTX_ALL, nil, &sessionManager); err != nil {
		return Device{}, fmt.Errorf("cannot get session manager of capture device %d: %w", deviceIndex, err)
	}
	defer sessionManager.Release()

	result := Device{
		Name:  name.String(),
		Index: deviceIndex,
	}
	sessions, err := result.activeSessionsOf(sessionManager)
	if err != nil {
		return Device{}, err
	}
	result.Sessions = sessions
	return result, nil
}
