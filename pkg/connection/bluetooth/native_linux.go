//go:build linux

package bluetooth

import (
	"errors"

	"github.com/godbus/dbus/v5"
	tinyble "tinygo.org/x/bluetooth"
)

// writeNative uses the only write BlueZ exposes through tinygo. BlueZ picks
// a write request or a write command from the characteristic properties.
func writeNative(c tinyble.DeviceCharacteristic, data []byte, _ bool) error {
	_, err := c.WriteWithoutResponse(data)
	return err
}

// linkLost reports the BlueZ errors of a device whose link is gone. BlueZ
// never calls the adapter connect handler on disconnect, so these errors are
// the only link-loss signal on linux.
func linkLost(err error) bool {
	var name string
	var ptr *dbus.Error
	var val dbus.Error
	switch {
	case errors.As(err, &ptr):
		name = ptr.Name
	case errors.As(err, &val):
		name = val.Name
	default:
		return false
	}
	switch name {
	case "org.bluez.Error.NotConnected", "org.freedesktop.DBus.Error.UnknownObject":
		return true
	}
	return false
}
