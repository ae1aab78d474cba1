package device

import (
	"errors"
	"testing"

	"github.com/brilliantsole/bs-go/pkg/wire"
)

func TestInformationApply(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		data    []byte
		check   func(Information) bool
		wantErr error
	}{
		{"charging", wire.MsgIsCharging, []byte{1}, func(i Information) bool { return i.IsCharging }, nil},
		{"mtu", wire.MsgGetMtu, []byte{0x17, 0x01}, func(i Information) bool { return i.MTU == 279 }, nil},
		{"set name echo", wire.MsgSetName, []byte("Sole"), func(i Information) bool { return i.Name == "Sole" }, nil},
		{"right insole", wire.MsgGetType, []byte{1}, func(i Information) bool { return i.Type == RightInsole }, nil},
		{"unknown type", wire.MsgGetType, []byte{9}, nil, ErrInvalidDeviceType},
		{"short mtu", wire.MsgGetMtu, []byte{1}, nil, ErrMalformedMessage},
		{"zero time", wire.MsgGetCurrentTime, make([]byte, 8), func(i Information) bool { return !i.IsCurrentTimeSet() }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var info Information
			_, err := info.apply(tt.typ, tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			if !tt.check(info) {
				t.Errorf("unexpected information %+v", info)
			}
		})
	}
}

func TestInformationApplyReportsChange(t *testing.T) {
	var info Information
	if changed, _ := info.apply(wire.MsgGetName, []byte("A1")); !changed {
		t.Error("first name should be a change")
	}
	if changed, _ := info.apply(wire.MsgGetName, []byte("A1")); changed {
		t.Error("same name should not be a change")
	}
}

func TestParsePnpID(t *testing.T) {
	usb, err := ParsePnpID([]byte{2, 0xFF, 0xFF, 3, 0, 4, 0})
	if err != nil {
		t.Fatal(err)
	}
	if usb != (PnpID{Source: "USB", ProductID: 3, ProductVersion: 4}) {
		t.Errorf("usb = %+v", usb)
	}
	if _, err := ParsePnpID([]byte{1, 2}); !errors.Is(err, ErrMalformedMessage) {
		t.Errorf("short: err = %v", err)
	}
}

func TestDeviceTypeIndex(t *testing.T) {
	if i, ok := RightInsole.Index(); !ok || i != 1 {
		t.Errorf("RightInsole.Index() = %d, %v", i, ok)
	}
	if _, ok := DeviceType("glove").Index(); ok {
		t.Error("unknown type has an index")
	}
	if !LeftInsole.IsInsole() || LeftInsole.InsoleSide() != "left" {
		t.Error("LeftInsole is a left insole")
	}
}
