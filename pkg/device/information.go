package device

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/brilliantsole/bs-go/pkg/wire"
)

// Name length bounds. MaxNameLength is exclusive.
const (
	MinNameLength = 2
	MaxNameLength = 30
)

var (
	ErrInvalidName       = errors.New("invalid device name")
	ErrInvalidDeviceType = errors.New("invalid device type")
	ErrMalformedMessage  = errors.New("malformed message")
)

// DeviceType identifies the hardware variant.
type DeviceType string

const (
	LeftInsole  DeviceType = "leftInsole"
	RightInsole DeviceType = "rightInsole"
)

// DeviceTypes is ordered by wire value.
var DeviceTypes = []DeviceType{LeftInsole, RightInsole}

// Index returns the wire value of t.
func (t DeviceType) Index() (int, bool) {
	for i, dt := range DeviceTypes {
		if dt == t {
			return i, true
		}
	}
	return 0, false
}

// ParseDeviceType maps a wire value to its DeviceType.
func ParseDeviceType(b byte) (DeviceType, error) {
	if int(b) >= len(DeviceTypes) {
		return "", fmt.Errorf("%w: %d", ErrInvalidDeviceType, b)
	}
	return DeviceTypes[b], nil
}

func (t DeviceType) IsInsole() bool {
	return t == LeftInsole || t == RightInsole
}

// InsoleSide returns "left", "right" or "".
func (t DeviceType) InsoleSide() string {
	switch t {
	case LeftInsole:
		return "left"
	case RightInsole:
		return "right"
	}
	return ""
}

// ValidateName checks the length bounds in characters.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n >= MaxNameLength {
		return fmt.Errorf("%w: %q is %d characters, want [%d, %d)", ErrInvalidName, name, n, MinNameLength, MaxNameLength)
	}
	return nil
}

// Information is what the device reports about itself through the tx/rx
// tunnel.
type Information struct {
	IsCharging     bool
	BatteryCurrent float32
	ID             string
	Name           string
	Type           DeviceType
	MTU            int

	// CurrentTime is the device clock. Zero until the device reports a
	// non-zero time.
	CurrentTime time.Time
}

// IsCurrentTimeSet reports whether the device clock has been set.
func (i Information) IsCurrentTimeSet() bool {
	return !i.CurrentTime.IsZero()
}

// apply updates i from one information message and reports whether anything
// changed.
func (i *Information) apply(typ string, data []byte) (bool, error) {
	need := func(n int) error {
		if len(data) < n {
			return fmt.Errorf("%w: %s has %d bytes, want %d", ErrMalformedMessage, typ, len(data), n)
		}
		return nil
	}
	prev := *i

	switch typ {
	case wire.MsgIsCharging:
		if err := need(1); err != nil {
			return false, err
		}
		i.IsCharging = data[0] != 0
	case wire.MsgGetBatteryCurrent:
		if err := need(4); err != nil {
			return false, err
		}
		i.BatteryCurrent = math.Float32frombits(binary.LittleEndian.Uint32(data))
	case wire.MsgGetId:
		i.ID = string(data)
	case wire.MsgGetName, wire.MsgSetName:
		i.Name = string(data)
	case wire.MsgGetType, wire.MsgSetType:
		if err := need(1); err != nil {
			return false, err
		}
		t, err := ParseDeviceType(data[0])
		if err != nil {
			return false, err
		}
		i.Type = t
	case wire.MsgGetMtu:
		if err := need(2); err != nil {
			return false, err
		}
		i.MTU = int(binary.LittleEndian.Uint16(data))
	case wire.MsgGetCurrentTime, wire.MsgSetCurrentTime:
		if err := need(8); err != nil {
			return false, err
		}
		ms := binary.LittleEndian.Uint64(data)
		if ms == 0 {
			i.CurrentTime = time.Time{}
		} else {
			i.CurrentTime = time.UnixMilli(int64(ms))
		}
	default:
		return false, fmt.Errorf("not an information message: %s", typ)
	}
	return *i != prev, nil
}

// EncodeCurrentTime is the setCurrentTime payload for t.
func EncodeCurrentTime(t time.Time) []byte {
	return binary.LittleEndian.AppendUint64(nil, uint64(t.UnixMilli()))
}

// PnpID is the Bluetooth PnP ID characteristic.
type PnpID struct {
	Source         string // "Bluetooth" or "USB"
	VendorID       uint16
	ProductID      uint16
	ProductVersion uint16
}

// ParsePnpID decodes [u8 source][u16 vendor][u16 product][u16 version].
// The vendor is only meaningful for Bluetooth SIG sources.
func ParsePnpID(data []byte) (PnpID, error) {
	if len(data) < 7 {
		return PnpID{}, fmt.Errorf("%w: pnpId has %d bytes, want 7", ErrMalformedMessage, len(data))
	}
	id := PnpID{
		Source:         "USB",
		ProductID:      binary.LittleEndian.Uint16(data[3:]),
		ProductVersion: binary.LittleEndian.Uint16(data[5:]),
	}
	if data[0] == 1 {
		id.Source = "Bluetooth"
		id.VendorID = binary.LittleEndian.Uint16(data[1:])
	}
	return id, nil
}

// DeviceInformation is the standard device information service.
type DeviceInformation struct {
	ManufacturerName string
	ModelNumber      string
	SoftwareRevision string
	HardwareRevision string
	FirmwareRevision string
	SerialNumber     string
	PnpID            *PnpID
}

// apply updates d from one device information message.
func (d *DeviceInformation) apply(typ string, data []byte) error {
	switch typ {
	case wire.MsgManufacturerName:
		d.ManufacturerName = string(data)
	case wire.MsgModelNumber:
		d.ModelNumber = string(data)
	case wire.MsgSoftwareRevision:
		d.SoftwareRevision = string(data)
	case wire.MsgHardwareRevision:
		d.HardwareRevision = string(data)
	case wire.MsgFirmwareRevision:
		d.FirmwareRevision = string(data)
	case wire.MsgSerialNumber:
		d.SerialNumber = string(data)
	case wire.MsgPnpId:
		id, err := ParsePnpID(data)
		if err != nil {
			return err
		}
		d.PnpID = &id
	default:
		return fmt.Errorf("not a device information message: %s", typ)
	}
	return nil
}
