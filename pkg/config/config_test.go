package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bs-relay.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Server.Listen != ":8080" || cfg.Server.Path != "/ws" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.MQTT.Enabled() || cfg.InfluxDB.Enabled() {
		t.Error("sinks must be disabled by default")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: "127.0.0.1:9000"
  clear_sensor_configurations_when_no_clients: true
scanner:
  backend: none
mqtt:
  broker: "tcp://broker:1883"
  qos: 1
influxdb:
  url: "http://influx:8086"
  bucket: "soles"
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Listen != "127.0.0.1:9000" {
		t.Errorf("Server.Listen = %q", cfg.Server.Listen)
	}
	if cfg.Server.Path != "/ws" {
		t.Errorf("Server.Path = %q, want default", cfg.Server.Path)
	}
	if !cfg.Server.ClearSensorConfigurationsWhenNoClients {
		t.Error("ClearSensorConfigurationsWhenNoClients not loaded")
	}
	if cfg.Scanner.Backend != ScannerNone {
		t.Errorf("Scanner.Backend = %q", cfg.Scanner.Backend)
	}
	if cfg.MQTT.ClientID != "bs-relay" {
		t.Errorf("MQTT.ClientID = %q, want default", cfg.MQTT.ClientID)
	}
	if !cfg.MQTT.Enabled() || !cfg.InfluxDB.Enabled() {
		t.Error("sinks should be enabled")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvInfluxDBToken, "secret")
	cfg, err := Load(writeConfig(t, "influxdb:\n  token: file\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InfluxDB.Token != "secret" {
		t.Errorf("Token = %q", cfg.InfluxDB.Token)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/nonexistent/bs-relay.yaml"); err == nil {
		t.Error("missing file: expected error")
	}
	if _, err := Load(writeConfig(t, "server: [broken")); err == nil {
		t.Error("invalid yaml: expected error")
	}
	_, err := Load(writeConfig(t, "scanner:\n  backend: usb\n"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad backend: err = %v, want ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"empty listen", func(c *Config) { c.Server.Listen = "" }, "server.listen"},
		{"relative path", func(c *Config) { c.Server.Path = "ws" }, "server.path"},
		{"unknown backend", func(c *Config) { c.Scanner.Backend = "usb" }, "scanner.backend"},
		{"discovery without instance", func(c *Config) { c.Discovery.Instance = "" }, "discovery.instance"},
		{"qos", func(c *Config) { c.MQTT.QoS = 3 }, "mqtt.qos"},
		{"mqtt without client id", func(c *Config) {
			c.MQTT.Broker = "tcp://x:1883"
			c.MQTT.ClientID = ""
		}, "mqtt.client_id"},
		{"influx without bucket", func(c *Config) { c.InfluxDB.URL = "http://x" }, "influxdb.bucket"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if got := err.Error(); !strings.Contains(got, tt.field) {
				t.Errorf("error %q does not name %s", got, tt.field)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "device", "AA:BB")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record passed a warn logger: %s", out)
	}
	if !strings.Contains(out, `"device":"AA:BB"`) {
		t.Errorf("output = %s", out)
	}

	if _, err := (LoggingConfig{Level: "info", Format: "xml"}).NewLogger(&buf); err == nil {
		t.Error("expected error for unknown format")
	}
}
