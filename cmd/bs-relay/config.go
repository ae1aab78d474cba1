package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/brilliantsole/bs-go/pkg/config"
	"github.com/brilliantsole/bs-go/pkg/persistence"
)

// loadConfig reads the config file, if any, and applies the flags on top.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *path != "" {
		cfg.Server.Path = *path
	}
	if *backend != "" {
		cfg.Scanner.Backend = *backend
	}
	if *noDiscovery {
		cfg.Discovery.Enabled = false
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}
	if *protocolLog != "" {
		cfg.Logging.ProtocolLog = *protocolLog
	}
}

func printKnown(w io.Writer, path string) error {
	if path == "" {
		return fmt.Errorf("no database configured (use -db or database.path)")
	}
	store, err := persistence.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	known, err := store.List()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCONNECTION\tSERIAL\tFIRMWARE\tLAST CONNECTED")
	for _, k := range known {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", k.BluetoothID, k.Name, k.Type,
			k.ConnectionType, k.SerialNumber, k.FirmwareRevision, k.LastConnected.Format(time.RFC3339))
	}
	return tw.Flush()
}
