package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brilliantsole/bs-go/pkg/scanner"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

// ErrUnknownDevice is returned for a deviceMessage whose id is not relayed.
var ErrUnknownDevice = errors.New("unknown relay device")

// RelayError reports a message the relay dropped. The socket stays open.
type RelayError struct {
	Op       string
	DeviceID string
	Err      error
}

func (e *RelayError) Error() string {
	if e.DeviceID != "" {
		return fmt.Sprintf("relay %s %s: %v", e.Op, e.DeviceID, e.Err)
	}
	return fmt.Sprintf("relay %s: %v", e.Op, e.Err)
}

func (e *RelayError) Unwrap() error { return e.Err }

func boolByte(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func parseBool(data []byte) (bool, error) {
	if len(data) < 1 {
		return false, wire.ErrTruncatedMessage
	}
	return data[0] != 0, nil
}

func stringPayload(s string) ([]byte, error) {
	return wire.AppendString(nil, s)
}

func parseStringPayload(data []byte) (string, error) {
	s, _, err := wire.ReadString(data)
	return s, err
}

func discoveredDeviceMessage(d scanner.DiscoveredDevice) (wire.Message, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return wire.Message{}, err
	}
	data, err := wire.AppendString(nil, string(b))
	if err != nil {
		return wire.Message{}, fmt.Errorf("discovered device %s: %w", d.BluetoothID, err)
	}
	return wire.Message{Type: wire.ServerDiscoveredDevice, Data: data}, nil
}

func parseDiscoveredDevice(data []byte) (scanner.DiscoveredDevice, error) {
	s, err := parseStringPayload(data)
	if err != nil {
		return scanner.DiscoveredDevice{}, err
	}
	var d scanner.DiscoveredDevice
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		return scanner.DiscoveredDevice{}, fmt.Errorf("discovered device: %w", err)
	}
	return d, nil
}

func connectedDevicesMessage(ids []string) (wire.Message, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return wire.Message{}, err
	}
	data, err := wire.AppendString(nil, string(b))
	if err != nil {
		return wire.Message{}, fmt.Errorf("connected devices: %w", err)
	}
	return wire.Message{Type: wire.ServerConnectedDevices, Data: data}, nil
}

// parseConnectedDevices accepts an empty payload as no devices.
func parseConnectedDevices(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	s, err := parseStringPayload(data)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, fmt.Errorf("connected devices: %w", err)
	}
	return ids, nil
}

// deviceMessage nests msgs, encoded against table, under id.
func deviceMessage(table *wire.Table, id string, msgs ...wire.Message) (wire.Message, error) {
	data, err := wire.AppendString(nil, id)
	if err != nil {
		return wire.Message{}, err
	}
	data, err = wire.AppendMessages(data, table, msgs...)
	if err != nil {
		return wire.Message{}, err
	}
	return wire.Message{Type: wire.ServerDeviceMessage, Data: data}, nil
}

func parseDeviceMessage(data []byte) (id string, inner []byte, err error) {
	return wire.ReadString(data)
}
