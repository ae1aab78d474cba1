package wire

import (
	"errors"
	"fmt"
)

// Encoding errors.
var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrPayloadTooLarge    = errors.New("payload too large")
	ErrUnsupportedData    = errors.New("unsupported data value")
)

// Decoding errors. Both are terminal for the rest of the buffer being decoded
// but never for the connection that carried it.
var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrTruncatedMessage   = errors.New("truncated message")
)

// ProtocolErrorKind classifies a decode failure.
type ProtocolErrorKind uint8

const (
	UnknownMessageType ProtocolErrorKind = iota
	TruncatedMessage
)

// String returns the kind name.
func (k ProtocolErrorKind) String() string {
	switch k {
	case UnknownMessageType:
		return "UnknownMessageType"
	case TruncatedMessage:
		return "TruncatedMessage"
	default:
		return "Unknown"
	}
}

// ProtocolError reports where and why a buffer stopped decoding.
type ProtocolError struct {
	Kind   ProtocolErrorKind
	Table  string
	Offset int // byte offset of the message header that failed
	Type   int // raw type byte, valid for UnknownMessageType
}

func (e *ProtocolError) Error() string {
	switch e.Kind {
	case UnknownMessageType:
		return fmt.Sprintf("%s: type %d not in %s at offset %d", e.Kind, e.Type, e.Table, e.Offset)
	default:
		return fmt.Sprintf("%s: %s at offset %d", e.Kind, e.Table, e.Offset)
	}
}

// Unwrap maps the kind onto its sentinel so errors.Is works.
func (e *ProtocolError) Unwrap() error {
	switch e.Kind {
	case UnknownMessageType:
		return ErrUnknownMessageType
	default:
		return ErrTruncatedMessage
	}
}
