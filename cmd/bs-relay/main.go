// Command bs-relay serves locally connected BrilliantSole devices to
// websocket clients.
//
// The relay scans with the host HCI stack or the platform bluetooth stack,
// pools every device a client connects, and mirrors the pool to every
// socket. Sensor readings can additionally be published to MQTT and
// InfluxDB, and connected devices are remembered in SQLite.
//
// Usage:
//
//	bs-relay [flags]
//
// Flags:
//
//	-config string        Configuration file path
//	-listen string        Listen address (default ":8080")
//	-path string          Websocket path (default "/ws")
//	-scanner string       Scanner backend: host, native, none (default "host")
//	-hci int              HCI device index for the host backend
//	-no-discovery         Do not advertise the relay over mDNS
//	-db string            SQLite database of known devices
//	-list-known           Print the known devices and exit
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-log-format string    Log format: text, json (default "text")
//	-protocol-log string  Write a protocol capture file
//
// Examples:
//
//	# Relay on the default port with the first HCI adapter
//	bs-relay
//
//	# Publish readings to a local broker
//	bs-relay -config /etc/brilliantsole/relay.yaml
//
//	# Capture all traffic for bs-log
//	bs-relay -log-level debug -protocol-log relay.bslog
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var (
	configFile  = flag.String("config", "", "Configuration file path")
	listen      = flag.String("listen", "", "Listen address (overrides server.listen)")
	path        = flag.String("path", "", "Websocket path (overrides server.path)")
	backend     = flag.String("scanner", "", "Scanner backend: host, native, none")
	hciIndex    = flag.Int("hci", 0, "HCI device index for the host backend")
	noDiscovery = flag.Bool("no-discovery", false, "Do not advertise the relay over mDNS")
	dbPath      = flag.String("db", "", "SQLite database of known devices")
	listKnown   = flag.Bool("list-known", false, "Print the known devices and exit")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat   = flag.String("log-format", "", "Log format: text, json")
	protocolLog = flag.String("protocol-log", "", "Write a protocol capture file")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.Logging.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if *listKnown {
		if err := printKnown(os.Stdout, cfg.Database.Path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := newRelay(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start relay", "error", err)
		os.Exit(1)
	}

	if err := r.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("relay stopped", "error", err)
		r.shutdown()
		os.Exit(1)
	}
	r.shutdown()
	logger.Info("goodbye")
}
