//go:build !linux

package bluetooth

import tinyble "tinygo.org/x/bluetooth"

func writeNative(c tinyble.DeviceCharacteristic, data []byte, withoutResponse bool) error {
	var err error
	if withoutResponse {
		_, err = c.WriteWithoutResponse(data)
	} else {
		_, err = c.Write(data)
	}
	return err
}

// linkLost is false everywhere but linux; the adapter connect handler
// reports link loss.
func linkLost(error) bool { return false }
