package bluetooth

import (
	"strings"

	"github.com/brilliantsole/bs-go/pkg/wire"
)

// Service names.
const (
	ServiceMain              = "main"
	ServiceDeviceInformation = "deviceInformation"
	ServiceBattery           = "battery"
	ServiceSmp               = "smp"
)

// ServiceDataDeviceType is the short service-data UUID whose first byte
// carries the advertised device type.
const ServiceDataDeviceType = "0000"

const sigBaseSuffix = "-0000-1000-8000-00805f9b34fb"

// Properties are the GATT properties a binding relies on.
type Properties struct {
	Read                 bool
	Write                bool
	WriteWithoutResponse bool
	Notify               bool
}

// Binding maps a characteristic to the message type it carries.
type Binding struct {
	// Name is the message type name, also the characteristic name.
	Name               string
	Service            string
	ServiceUUID        string
	CharacteristicUUID string
	Properties         Properties
}

// Required reports whether the binding's service must be present.
func (b Binding) Required() bool {
	return b.Service == ServiceMain
}

func vendorUUID(short string) string {
	return "ea6da725-" + short + "-4f9b-893d-c3913e33b39f"
}

func sigUUID(short string) string {
	return "0000" + short + sigBaseSuffix
}

var services = map[string]string{
	ServiceMain:              vendorUUID("0000"),
	ServiceDeviceInformation: sigUUID("180a"),
	ServiceBattery:           sigUUID("180f"),
	ServiceSmp:               "8d53dc1d-1db7-4cd3-868b-8a527460aa84",
}

var readable = Properties{Read: true}

// Bindings is the static characteristic table.
var Bindings = []Binding{
	info(wire.MsgManufacturerName, "2a29"),
	info(wire.MsgModelNumber, "2a24"),
	info(wire.MsgHardwareRevision, "2a27"),
	info(wire.MsgFirmwareRevision, "2a26"),
	info(wire.MsgSoftwareRevision, "2a28"),
	info(wire.MsgPnpId, "2a50"),
	info(wire.MsgSerialNumber, "2a25"),
	{
		Name:               wire.MsgBatteryLevel,
		Service:            ServiceBattery,
		ServiceUUID:        services[ServiceBattery],
		CharacteristicUUID: sigUUID("2a19"),
		Properties:         Properties{Read: true, Notify: true},
	},
	{
		Name:               wire.MsgRx,
		Service:            ServiceMain,
		ServiceUUID:        services[ServiceMain],
		CharacteristicUUID: vendorUUID("1000"),
		Properties:         Properties{Notify: true},
	},
	{
		Name:               wire.MsgTx,
		Service:            ServiceMain,
		ServiceUUID:        services[ServiceMain],
		CharacteristicUUID: vendorUUID("1001"),
		Properties:         Properties{Write: true},
	},
	{
		Name:               wire.MsgSmp,
		Service:            ServiceSmp,
		ServiceUUID:        services[ServiceSmp],
		CharacteristicUUID: "da2e7828-fbce-4e01-ae9e-261174997c48",
		Properties:         Properties{Notify: true, WriteWithoutResponse: true},
	},
}

func info(name, short string) Binding {
	return Binding{
		Name:               name,
		Service:            ServiceDeviceInformation,
		ServiceUUID:        services[ServiceDeviceInformation],
		CharacteristicUUID: sigUUID(short),
		Properties:         readable,
	}
}

var (
	bindingsByName = make(map[string]Binding, len(Bindings))
	bindingsByUUID = make(map[string]Binding, len(Bindings))
	serviceByUUID  = make(map[string]string, len(services))
)

func init() {
	for _, b := range Bindings {
		bindingsByName[b.Name] = b
		bindingsByUUID[b.CharacteristicUUID] = b
	}
	for name, uuid := range services {
		serviceByUUID[uuid] = name
	}
}

// NormalizeUUID returns the lowercase dashed 128-bit form of uuid. It
// accepts the dashed form, the 32-digit dashless form, and 4 or 8 digit
// short forms of the SIG base UUID. ok is false for anything else.
func NormalizeUUID(uuid string) (string, bool) {
	u := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(uuid, "0x"), "0X"))
	switch len(u) {
	case 4:
		u = "0000" + u + sigBaseSuffix
	case 8:
		u = u + sigBaseSuffix
	case 32:
		u = u[0:8] + "-" + u[8:12] + "-" + u[12:16] + "-" + u[16:20] + "-" + u[20:32]
	case 36:
	default:
		return "", false
	}
	for i, c := range u {
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return "", false
			}
		default:
			if !isHex(c) {
				return "", false
			}
		}
	}
	return u, true
}

func isHex(c rune) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f')
}

// ServiceName resolves a service UUID in any accepted form.
func ServiceName(uuid string) (string, bool) {
	u, ok := NormalizeUUID(uuid)
	if !ok {
		return "", false
	}
	name, ok := serviceByUUID[u]
	return name, ok
}

// ServiceUUID returns the full UUID of a named service.
func ServiceUUID(name string) (string, bool) {
	u, ok := services[name]
	return u, ok
}

// ServiceUUIDs returns every service UUID, main first.
func ServiceUUIDs() []string {
	return []string{
		services[ServiceMain],
		services[ServiceDeviceInformation],
		services[ServiceBattery],
		services[ServiceSmp],
	}
}

// CharacteristicName resolves a characteristic UUID in any accepted form.
func CharacteristicName(uuid string) (string, bool) {
	b, ok := LookupCharacteristic(uuid)
	return b.Name, ok
}

// LookupCharacteristic returns the binding for a characteristic UUID.
func LookupCharacteristic(uuid string) (Binding, bool) {
	u, ok := NormalizeUUID(uuid)
	if !ok {
		return Binding{}, false
	}
	b, ok := bindingsByUUID[u]
	return b, ok
}

// LookupBinding returns the binding with the given name.
func LookupBinding(name string) (Binding, bool) {
	b, ok := bindingsByName[name]
	return b, ok
}

// CharacteristicForMessageType names the characteristic that carries typ:
// its own dedicated characteristic if it has one, otherwise tx.
func CharacteristicForMessageType(typ string) string {
	if _, ok := bindingsByName[typ]; ok {
		return typ
	}
	return wire.MsgTx
}
