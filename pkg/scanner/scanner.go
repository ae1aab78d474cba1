// Package scanner discovers peripherals and connects them into a
// device.Pool.
//
// Base keeps the directory of discovered devices and expires entries that
// stop advertising. The platform radio is behind a Backend; HostBackend uses
// a host HCI stack and NativeBackend the platform stack.
package scanner

import (
	"context"
	"errors"
	"time"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/connection/bluetooth"
	"github.com/brilliantsole/bs-go/pkg/device"
)

const (
	// ExpirationTimeout drops a device that has not advertised for this long.
	ExpirationTimeout = 5 * time.Second

	// ExpirationCheckInterval is how often the directory is swept.
	ExpirationCheckInterval = time.Second
)

var (
	ErrNotAvailable     = errors.New("scanner not available")
	ErrAlreadyScanning  = errors.New("already scanning")
	ErrNotScanning      = errors.New("not scanning")
	ErrUnknownDevice    = errors.New("no discovered device with that id")
	ErrNoScannerBackend = errors.New("no scanner backend")
)

// DiscoveredDevice is one advertising peripheral. The JSON form is the relay
// discoveredDevice payload.
type DiscoveredDevice struct {
	BluetoothID string            `json:"bluetoothId"`
	Name        string            `json:"name"`
	DeviceType  device.DeviceType `json:"deviceType,omitempty"`
	RSSI        int               `json:"rssi"`
}

// Scanner is the discovery surface the relay server drives.
type Scanner interface {
	IsAvailable() bool
	IsScanning() bool
	StartScan(ctx context.Context) error
	StopScan() error

	// DiscoveredDevices is ordered by first sighting.
	DiscoveredDevices() []DiscoveredDevice
	ConnectToDevice(ctx context.Context, id string) (*device.Device, error)

	OnIsAvailable(fn func(bool)) (unsubscribe func())
	OnIsScanning(fn func(bool)) (unsubscribe func())
	OnDiscoveredDevice(fn func(DiscoveredDevice)) (unsubscribe func())
	OnExpiredDiscoveredDevice(fn func(DiscoveredDevice)) (unsubscribe func())
}

// Advertisement is what a backend reports per received advertisement.
type Advertisement struct {
	ID   string
	Name string
	RSSI int

	// ServiceData is keyed by normalized UUID.
	ServiceData map[string][]byte
}

// Backend is the platform radio beneath Base.
type Backend interface {
	Type() connection.Type
	Available() bool

	// StartScan begins scanning in the background. found is called for
	// every advertisement, done once when the scan ends.
	StartScan(found func(Advertisement), done func(error)) error
	StopScan() error

	// NewManager returns a manager for a peripheral seen by this backend.
	NewManager(id string) (connection.Manager, error)
}

// ParseDeviceType reads the device type from the advertised service data.
func ParseDeviceType(serviceData map[string][]byte) (device.DeviceType, bool) {
	key, _ := bluetooth.NormalizeUUID(bluetooth.ServiceDataDeviceType)
	data := serviceData[key]
	if len(data) == 0 {
		return "", false
	}
	t, err := device.ParseDeviceType(data[0])
	if err != nil {
		return "", false
	}
	return t, true
}

// NormalizeServiceData rekeys raw service data by normalized UUID.
func NormalizeServiceData(raw map[string][]byte) map[string][]byte {
	out := make(map[string][]byte, len(raw))
	for uuid, data := range raw {
		if key, ok := bluetooth.NormalizeUUID(uuid); ok {
			out[key] = data
		}
	}
	return out
}
