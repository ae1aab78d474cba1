//go:build linux

package bluetooth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func TestLinkLost(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not connected", &dbus.Error{Name: "org.bluez.Error.NotConnected"}, true},
		{"object removed", dbus.Error{Name: "org.freedesktop.DBus.Error.UnknownObject"}, true},
		{"wrapped", fmt.Errorf("write tx: %w", &dbus.Error{Name: "org.bluez.Error.NotConnected"}), true},
		{"other bluez error", &dbus.Error{Name: "org.bluez.Error.InProgress"}, false},
		{"plain error", errors.New("timeout"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, linkLost(tt.err))
		})
	}
}

func TestCharacteristicErrorMarksLinkLost(t *testing.T) {
	p := connectedNativePeripheral()
	c := &nativeCharacteristic{peripheral: p}

	err := c.checkLink(&dbus.Error{Name: "org.bluez.Error.NotConnected"})
	assert.Error(t, err)
	assert.False(t, p.Connected())
}
