// Command bs-client is an interactive shell for a bs-relay server.
//
// Without -url the client browses mDNS for a relay, optionally matching
// -instance.
//
// Usage:
//
//	bs-client [flags]
//
// Flags:
//
//	-url string           Relay websocket URL, for example ws://pi.local:8080/ws
//	-instance string      Relay instance name to look for over mDNS
//	-timeout duration     How long to browse for a relay (default 10s)
//	-reconnect            Redial after the relay drops the connection (default true)
//	-log-level string     Log level: debug, info, warn, error (default "warn")
//	-protocol-log string  Write a protocol capture file
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brilliantsole/bs-go/cmd/bs-client/interactive"
	"github.com/brilliantsole/bs-go/pkg/config"
	"github.com/brilliantsole/bs-go/pkg/device"
	"github.com/brilliantsole/bs-go/pkg/discovery"
	"github.com/brilliantsole/bs-go/pkg/log"
	"github.com/brilliantsole/bs-go/pkg/relay"
)

var (
	relayURL    = flag.String("url", "", "Relay websocket URL")
	instance    = flag.String("instance", "", "Relay instance name to look for over mDNS")
	timeout     = flag.Duration("timeout", discovery.BrowseTimeout, "How long to browse for a relay")
	reconnect   = flag.Bool("reconnect", true, "Redial after the relay drops the connection")
	logLevel    = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	protocolLog = flag.String("protocol-log", "", "Write a protocol capture file")
)

func main() {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	url, err := resolveURL(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var protocolLogger log.Logger
	if *protocolLog != "" {
		fl, err := log.NewFileLogger(*protocolLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening protocol log: %v\n", err)
			os.Exit(1)
		}
		defer fl.Close()
		protocolLogger = fl
	}

	// The shell owns the terminal; build it before anything logs.
	shell, err := interactive.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.LoggingConfig{Level: *logLevel, Format: "text"}.NewLogger(shell.Stderr())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client := relay.NewClient(relay.ClientConfig{
		URL:                      url,
		ReconnectOnDisconnection: *reconnect,
		DeviceConfig:             device.Config{Logger: logger},
		Logger:                   logger,
		ProtocolLogger:           protocolLogger,
	})
	defer client.Close()

	fmt.Fprintf(shell.Stdout(), "Connecting to %s\n", url)
	dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
	err = client.Connect(dialCtx)
	dialCancel()
	if err != nil {
		fmt.Fprintf(shell.Stderr(), "Error: %v\n", err)
		shell.Close()
		os.Exit(1)
	}

	shell.Attach(client)
	shell.Run(ctx, cancel)
	slog.Debug("shell exited")
}

func resolveURL(ctx context.Context) (string, error) {
	if *relayURL != "" {
		return *relayURL, nil
	}
	fmt.Fprintf(os.Stderr, "Browsing for %s ...\n", discovery.ServiceType)

	findCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()
	svc, err := discovery.NewMDNSBrowser(discovery.BrowserConfig{}).Find(findCtx, *instance)
	if err != nil {
		return "", fmt.Errorf("no relay found (use -url): %w", err)
	}
	fmt.Fprintf(os.Stderr, "Found %q at %s\n", svc.InstanceName, svc.URL())
	return svc.URL(), nil
}
