package main

import (
	"fmt"
	"log/slog"

	"github.com/go-ble/ble"
	tinyble "tinygo.org/x/bluetooth"

	"github.com/brilliantsole/bs-go/pkg/config"
	"github.com/brilliantsole/bs-go/pkg/connection/bluetooth"
	"github.com/brilliantsole/bs-go/pkg/device"
	"github.com/brilliantsole/bs-go/pkg/log"
	"github.com/brilliantsole/bs-go/pkg/scanner"
)

// newScanner opens the radio for backend. A nil Scanner with no error means
// scanning is disabled. The returned func releases the radio.
func newScanner(backend string, pool *device.Pool, logger *slog.Logger, protocolLogger log.Logger) (scanner.Scanner, func(), error) {
	opts := bluetooth.Options{Logger: logger, ProtocolLogger: protocolLogger}
	scfg := scanner.Config{
		Pool:         pool,
		DeviceConfig: device.Config{Logger: logger, ReconnectOnDisconnection: true},
		Logger:       logger,
	}

	switch backend {
	case config.ScannerHost:
		dev, err := openHCI(*hciIndex)
		if err != nil {
			return nil, nil, fmt.Errorf("opening hci%d: %w", *hciIndex, err)
		}
		ble.SetDefaultDevice(dev)
		logger.Info("host bluetooth stack ready", "hci", *hciIndex)
		return scanner.New(scanner.NewHostBackend(opts), scfg), func() { _ = dev.Stop() }, nil

	case config.ScannerNative:
		adapter := tinyble.DefaultAdapter
		if err := adapter.Enable(); err != nil {
			return nil, nil, fmt.Errorf("enabling bluetooth adapter: %w", err)
		}
		logger.Info("platform bluetooth stack ready")
		return scanner.New(scanner.NewNativeBackend(adapter, opts), scfg), nil, nil

	case config.ScannerNone:
		logger.Info("scanning disabled")
		return nil, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown scanner backend %q", backend)
}
