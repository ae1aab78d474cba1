package connection

import "fmt"

// Status is the connection lifecycle state shared by every transport.
type Status uint8

const (
	StatusNotConnected Status = iota
	StatusConnecting
	StatusConnected
	StatusDisconnecting
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusNotConnected:
		return "notConnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusDisconnecting:
		return "disconnecting"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// ParseStatus is the inverse of String.
func ParseStatus(name string) (Status, error) {
	for s := StatusNotConnected; s <= StatusDisconnecting; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown connection status %q", name)
}

// Type identifies the transport behind a Manager.
type Type uint8

const (
	// TypeNative is the platform bluetooth stack.
	TypeNative Type = iota
	// TypeHost is a host-process HCI stack.
	TypeHost
	// TypeRelay is a device reached through a relay server.
	TypeRelay
)

// String returns the transport name.
func (t Type) String() string {
	switch t {
	case TypeNative:
		return "native"
	case TypeHost:
		return "host"
	case TypeRelay:
		return "relay"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}
