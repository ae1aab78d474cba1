//go:build linux

package main

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

func openHCI(index int) (ble.Device, error) {
	return linux.NewDevice(ble.OptDeviceID(index))
}
