package wire

import (
	"encoding/binary"
	"fmt"
)

// MaxPayloadSize is the largest payload a u16 length field can describe.
const MaxPayloadSize = 0xFFFF

// HeaderSize is the size of the type byte plus the u16 length.
const HeaderSize = 3

// Message is one logical message. Data may be nil for a bare request.
type Message struct {
	Type string
	Data []byte
}

// Callback receives each decoded message. payload aliases the decoded buffer
// and must be copied if retained past the call. last is true for the final
// message of the buffer. Returning an error stops decoding.
type Callback func(typ string, payload []byte, last bool) error

// ScanFunc is the table-free form of Callback.
type ScanFunc func(index int, payload []byte, last bool) error

type decodeOptions struct {
	lengthSize int
}

// DecodeOption configures Decode and Scan.
type DecodeOption func(*decodeOptions)

func newDecodeOptions(opts []DecodeOption) decodeOptions {
	o := decodeOptions{lengthSize: 2}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithUint8Length selects the reduced sub-message variant whose length field
// is a single byte.
func WithUint8Length() DecodeOption {
	return func(o *decodeOptions) { o.lengthSize = 1 }
}

// Encode resolves each message type in table and writes the messages
// back to back. The result is deterministic and unpadded.
func Encode(table *Table, msgs ...Message) ([]byte, error) {
	size := 0
	for _, m := range msgs {
		size += HeaderSize + len(m.Data)
	}
	return AppendMessages(make([]byte, 0, size), table, msgs...)
}

// AppendMessages is Encode writing into dst.
func AppendMessages(dst []byte, table *Table, msgs ...Message) ([]byte, error) {
	for _, m := range msgs {
		idx, ok := table.Index(m.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %q not in %s", ErrInvalidMessageType, m.Type, table.Name())
		}
		if len(m.Data) > MaxPayloadSize {
			return nil, fmt.Errorf("%w: %s is %d bytes", ErrPayloadTooLarge, m.Type, len(m.Data))
		}
		dst = append(dst, byte(idx))
		dst = binary.LittleEndian.AppendUint16(dst, uint16(len(m.Data)))
		dst = append(dst, m.Data...)
	}
	return dst, nil
}

// Scan walks buf message by message without resolving names. table is used
// only to label errors and may be nil.
func Scan(table *Table, buf []byte, fn ScanFunc, opts ...DecodeOption) error {
	o := newDecodeOptions(opts)
	tableName := "<untyped>"
	if table != nil {
		tableName = table.Name()
	}

	offset := 0
	for offset < len(buf) {
		if len(buf)-offset < 1+o.lengthSize {
			return &ProtocolError{Kind: TruncatedMessage, Table: tableName, Offset: offset}
		}
		typ := int(buf[offset])

		var length int
		if o.lengthSize == 1 {
			length = int(buf[offset+1])
		} else {
			length = int(binary.LittleEndian.Uint16(buf[offset+1:]))
		}

		start := offset + 1 + o.lengthSize
		end := start + length
		if end > len(buf) {
			return &ProtocolError{Kind: TruncatedMessage, Table: tableName, Offset: offset}
		}

		if err := fn(typ, buf[start:end:end], end == len(buf)); err != nil {
			return err
		}
		offset = end
	}
	return nil
}

// Decode walks buf and delivers each message by name. An out-of-range type
// or a truncated message ends decoding with a *ProtocolError; messages
// already delivered are not retracted.
func Decode(table *Table, buf []byte, fn Callback, opts ...DecodeOption) error {
	o := newDecodeOptions(opts)
	offset := 0
	return Scan(table, buf, func(index int, payload []byte, last bool) error {
		header := offset
		offset += 1 + o.lengthSize + len(payload)
		name, ok := table.TypeName(index)
		if !ok {
			return &ProtocolError{Kind: UnknownMessageType, Table: table.Name(), Offset: header, Type: index}
		}
		if err := fn(name, payload, last); err != nil {
			return fmt.Errorf("handling %s: %w", name, err)
		}
		return nil
	}, opts...)
}

// DecodeAll collects every decodable message. On error it returns the
// messages decoded before the failure together with the error.
func DecodeAll(table *Table, buf []byte, opts ...DecodeOption) ([]Message, error) {
	var msgs []Message
	err := Decode(table, buf, func(typ string, payload []byte, _ bool) error {
		msgs = append(msgs, Message{Type: typ, Data: append([]byte(nil), payload...)})
		return nil
	}, opts...)
	return msgs, err
}
