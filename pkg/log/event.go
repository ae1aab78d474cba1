package log

import "time"

// MaxFrameCapture is the number of raw bytes a FrameEvent keeps.
const MaxFrameCapture = 512

// Event is one captured protocol event. CBOR uses integer keys.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the link or socket (UUID).
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// DeviceID is the bluetooth id of the device, when known.
	DeviceID string `cbor:"3,keyasint,omitempty"`

	Direction Direction `cbor:"4,keyasint"`
	Layer     Layer     `cbor:"5,keyasint"`
	Category  Category  `cbor:"6,keyasint"`

	// RemoteAddr is the peer address for relay sockets.
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Exactly one payload is set.
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEvent       `cbor:"13,keyasint,omitempty"`
}

// Direction indicates message flow relative to this process.
type Direction uint8

const (
	DirectionIn  Direction = 0
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates where the event was captured.
type Layer uint8

const (
	// LayerTransport is raw characteristic or socket bytes.
	LayerTransport Layer = 0
	// LayerWire is decoded TLV messages.
	LayerWire Layer = 1
	// LayerDevice is device state (information, telemetry, configuration).
	LayerDevice Layer = 2
	// LayerRelay is the relay server and client.
	LayerRelay Layer = 3
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerDevice:
		return "DEVICE"
	case LayerRelay:
		return "RELAY"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event.
type Category uint8

const (
	CategoryMessage Category = 0
	CategoryState   Category = 1
	CategoryError   Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw bytes at the transport layer.
type FrameEvent struct {
	// Size is the full frame size in bytes.
	Size int `cbor:"1,keyasint"`

	// Channel names the characteristic or socket the bytes crossed.
	Channel string `cbor:"2,keyasint,omitempty"`

	// Data holds at most MaxFrameCapture bytes.
	Data []byte `cbor:"3,keyasint,omitempty"`

	Truncated bool `cbor:"4,keyasint,omitempty"`
}

// NewFrameEvent copies up to MaxFrameCapture bytes of data.
func NewFrameEvent(channel string, data []byte) *FrameEvent {
	f := &FrameEvent{Size: len(data), Channel: channel}
	if len(data) > MaxFrameCapture {
		f.Truncated = true
		data = data[:MaxFrameCapture]
	}
	f.Data = append([]byte(nil), data...)
	return f
}

// MessageEvent captures one decoded TLV message.
type MessageEvent struct {
	// Table is the message type table the message was resolved in.
	Table string `cbor:"1,keyasint"`

	// Type is the message type name.
	Type string `cbor:"2,keyasint"`

	// Size is the payload size in bytes.
	Size int `cbor:"3,keyasint"`

	Payload []byte `cbor:"4,keyasint,omitempty"`
}

// StateChangeEvent captures lifecycle transitions.
type StateChangeEvent struct {
	Entity   StateEntity `cbor:"1,keyasint"`
	OldState string      `cbor:"2,keyasint,omitempty"`
	NewState string      `cbor:"3,keyasint"`
	Reason   string      `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what changed state.
type StateEntity uint8

const (
	StateEntityConnection StateEntity = 0
	StateEntityDevice     StateEntity = 1
	StateEntityScanner    StateEntity = 2
	StateEntitySocket     StateEntity = 3
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityDevice:
		return "DEVICE"
	case StateEntityScanner:
		return "SCANNER"
	case StateEntitySocket:
		return "SOCKET"
	default:
		return "UNKNOWN"
	}
}

// ErrorEvent captures an error at any layer.
type ErrorEvent struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`

	// Context describes the operation that failed.
	Context string `cbor:"3,keyasint,omitempty"`
}
