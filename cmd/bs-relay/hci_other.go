//go:build !linux

package main

import (
	"errors"

	"github.com/go-ble/ble"
)

var errNoHCI = errors.New("the host backend needs a linux HCI socket; use -scanner native")

func openHCI(int) (ble.Device, error) {
	return nil, errNoHCI
}
