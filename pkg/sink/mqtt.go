package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/brilliantsole/bs-go/pkg/telemetry"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
	defaultKeepAlive      = 60 * time.Second

	// disconnectQuiesce is in milliseconds.
	disconnectQuiesce = 250

	// DefaultTopicPrefix roots every published topic.
	DefaultTopicPrefix = "brilliantsole"
)

// MQTTConfig configures an MQTT sink.
type MQTTConfig struct {
	// Broker is a full URL such as tcp://localhost:1883.
	Broker   string
	ClientID string
	Username string
	Password string

	TopicPrefix string
	QoS         byte

	Logger *slog.Logger
}

// publisher is the part of pahomqtt.Client a sink needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
}

// MQTT publishes each reading as JSON on
// <prefix>/<device>/sensor/<sensorType>.
type MQTT struct {
	cfg    MQTTConfig
	logger *slog.Logger
	client publisher
	close  func()

	mu     sync.Mutex
	closed bool
}

var _ Sink = (*MQTT)(nil)

// DialMQTT connects to the broker. Auto-reconnect is enabled; readings
// published while the link is down are dropped by paho.
func DialMQTT(cfg MQTTConfig) (*MQTT, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt: broker is required")
	}
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	s := newMQTT(nil, cfg)
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		s.logger.Warn("mqtt connection lost", "broker", cfg.Broker, "error", err)
	})

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("mqtt: connect to %s: timeout after %v", cfg.Broker, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", cfg.Broker, err)
	}
	s.client = client
	s.close = func() { client.Disconnect(disconnectQuiesce) }
	s.logger.Info("mqtt sink connected", "broker", cfg.Broker, "prefix", s.cfg.TopicPrefix)
	return s, nil
}

func newMQTT(client publisher, cfg MQTTConfig) *MQTT {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.QoS > 2 {
		cfg.QoS = 2
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MQTT{cfg: cfg, logger: logger, client: client, close: func() {}}
}

// Topic returns the topic readings of sensorType from deviceID go to. MQTT
// wildcard and separator characters in the device id are replaced.
func Topic(prefix, deviceID, sensorType string) string {
	id := strings.NewReplacer("/", "_", "+", "_", "#", "_", ":", "").Replace(deviceID)
	return strings.TrimSuffix(prefix, "/") + "/" + id + "/sensor/" + sensorType
}

type mqttPayload struct {
	Timestamp int64          `json:"timestamp"`
	Sensor    string         `json:"sensorType"`
	Fields    map[string]any `json:"fields"`
}

// Payload encodes r as published.
func Payload(r telemetry.Reading) ([]byte, error) {
	return json.Marshal(mqttPayload{
		Timestamp: r.Timestamp.UnixMilli(),
		Sensor:    r.SensorType,
		Fields:    Fields(r),
	})
}

// Write publishes r without waiting for the broker. Publish failures are
// logged.
func (s *MQTT) Write(deviceID string, r telemetry.Reading) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	payload, err := Payload(r)
	if err != nil {
		return fmt.Errorf("mqtt: encoding %s: %w", r.SensorType, err)
	}
	topic := Topic(s.cfg.TopicPrefix, deviceID, r.SensorType)
	token := s.client.Publish(topic, s.cfg.QoS, false, payload)
	go func() {
		if !token.WaitTimeout(defaultPublishTimeout) {
			s.logger.Debug("mqtt publish timed out", "topic", topic)
			return
		}
		if err := token.Error(); err != nil {
			s.logger.Debug("mqtt publish failed", "topic", topic, "error", err)
		}
	}()
	return nil
}

// Close disconnects from the broker.
func (s *MQTT) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	s.close()
	return nil
}
