// Package config loads the relay server configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Scanner backends.
const (
	ScannerHost   = "host"
	ScannerNative = "native"
	ScannerNone   = "none"
)

// Environment variables that override secrets in the file.
const (
	EnvMQTTPassword  = "BS_MQTT_PASSWORD"
	EnvInfluxDBToken = "BS_INFLUXDB_TOKEN"
)

// Config is the root of a bs-relay configuration file.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Scanner   ScannerConfig   `yaml:"scanner"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`

	// ClearSensorConfigurationsWhenNoClients disables every sensor of every
	// connected device once the last websocket client leaves.
	ClearSensorConfigurationsWhenNoClients bool `yaml:"clear_sensor_configurations_when_no_clients"`
}

type ScannerConfig struct {
	Backend string `yaml:"backend"`
}

// DiscoveryConfig controls the mDNS advertisement of the relay.
type DiscoveryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Instance string `yaml:"instance"`
}

// MQTTConfig enables the MQTT telemetry sink when Broker is set.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         int    `yaml:"qos"`
}

// Enabled reports whether a broker is configured.
func (c MQTTConfig) Enabled() bool { return c.Broker != "" }

// InfluxDBConfig enables the InfluxDB telemetry sink when URL is set.
type InfluxDBConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

func (c InfluxDBConfig) Enabled() bool { return c.URL != "" }

// DatabaseConfig locates the known-device database. An empty path disables
// persistence.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// ProtocolLog, when set, is the capture file every frame is written to.
	ProtocolLog string `yaml:"protocol_log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: ":8080",
			Path:   "/ws",
		},
		Scanner: ScannerConfig{Backend: ScannerHost},
		Discovery: DiscoveryConfig{
			Enabled:  true,
			Instance: "BrilliantSole Relay",
		},
		MQTT: MQTTConfig{
			ClientID:    "bs-relay",
			TopicPrefix: "brilliantsole",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvMQTTPassword); v != "" {
		c.MQTT.Password = v
	}
	if v := os.Getenv(EnvInfluxDBToken); v != "" {
		c.InfluxDB.Token = v
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
	}

	if c.Server.Listen == "" {
		return invalid("server.listen", "is required")
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return invalid("server.path", "must start with /, got %q", c.Server.Path)
	}
	switch c.Scanner.Backend {
	case ScannerHost, ScannerNative, ScannerNone:
	default:
		return invalid("scanner.backend", "must be host, native or none, got %q", c.Scanner.Backend)
	}
	if c.Discovery.Enabled && c.Discovery.Instance == "" {
		return invalid("discovery.instance", "is required when discovery is enabled")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return invalid("mqtt.qos", "must be 0, 1 or 2, got %d", c.MQTT.QoS)
	}
	if c.MQTT.Enabled() && c.MQTT.ClientID == "" {
		return invalid("mqtt.client_id", "is required when mqtt.broker is set")
	}
	if c.InfluxDB.Enabled() && c.InfluxDB.Bucket == "" {
		return invalid("influxdb.bucket", "is required when influxdb.url is set")
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level", "%v", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return invalid("logging.format", "must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}

// NewLogger builds a text or JSON slog logger writing to w.
func (c LoggingConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
}
