package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/event"
	"github.com/brilliantsole/bs-go/pkg/telemetry"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

// ErrNoConnectionManager is returned by operations that need a manager
// before one is attached.
var ErrNoConnectionManager = errors.New("no connection manager")

// RequiredInformation is requested on every connect. A device is not
// considered connected until each type has been received.
var RequiredInformation = []string{
	wire.MsgIsCharging,
	wire.MsgGetBatteryCurrent,
	wire.MsgGetId,
	wire.MsgGetMtu,

	wire.MsgGetName,
	wire.MsgGetType,
	wire.MsgGetCurrentTime,
	wire.MsgGetSensorConfiguration,
	wire.MsgGetSensorScalars,
	wire.MsgGetPressurePositions,

	wire.MsgMaxFileLength,
	wire.MsgGetFileLength,
	wire.MsgGetFileChecksum,
	wire.MsgGetFileTransferType,
	wire.MsgFileTransferStatus,

	wire.MsgGetTfliteName,
	wire.MsgGetTfliteTask,
	wire.MsgGetTfliteSampleRate,
	wire.MsgGetTfliteSensorTypes,
	wire.MsgTfliteIsReady,
	wire.MsgGetTfliteCaptureDelay,
	wire.MsgGetTfliteThreshold,
	wire.MsgGetTfliteInferencingEnabled,
}

// Config configures a Device.
type Config struct {
	Logger *slog.Logger

	// ReconnectOnDisconnection retries Reconnect every ReconnectInterval
	// while the link is down and the manager can reconnect.
	ReconnectOnDisconnection bool
	ReconnectInterval        time.Duration

	// Now is the clock used for setCurrentTime and telemetry timestamps.
	Now func() time.Time
}

// Device is one peripheral as seen by the application. It owns at most one
// connection.Manager and turns its raw messages into typed state.
type Device struct {
	logger  *slog.Logger
	now     func() time.Time
	decoder *telemetry.Decoder

	mu           sync.Mutex
	manager      connection.Manager
	unsubscribe  []func()
	latest       map[string][]byte
	info         Information
	deviceInfo   DeviceInformation
	batteryLevel int
	sensorConfig telemetry.SensorConfiguration

	isConnected bool
	lastStatus  connection.Status

	reconnectEnabled   bool
	reconnectSuspended bool
	reconnectInterval  time.Duration
	reconnector        *connection.Reconnector

	statusEvents       event.Dispatcher[connection.Status]
	isConnectedEvents  event.Dispatcher[bool]
	messageEvents      event.Dispatcher[wire.Message]
	informationEvents  event.Dispatcher[Information]
	deviceInfoEvents   event.Dispatcher[DeviceInformation]
	batteryEvents      event.Dispatcher[int]
	sensorConfigEvents event.Dispatcher[telemetry.SensorConfiguration]
}

// New creates a Device without a manager.
func New(cfg Config) *Device {
	d := &Device{
		logger:            cfg.Logger,
		now:               cfg.Now,
		latest:            make(map[string][]byte),
		batteryLevel:      -1,
		reconnectInterval: cfg.ReconnectInterval,
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.reconnectInterval <= 0 {
		d.reconnectInterval = connection.DeviceReconnectInterval
	}
	d.decoder = telemetry.NewDecoder(telemetry.Config{Logger: d.logger, Now: d.now})
	if cfg.ReconnectOnDisconnection {
		d.SetReconnectOnDisconnection(true)
	}
	return d
}

// NewWithManager is New followed by SetConnectionManager.
func NewWithManager(m connection.Manager, cfg Config) *Device {
	d := New(cfg)
	d.SetConnectionManager(m)
	return d
}

// SetConnectionManager replaces the manager. Subscriptions to the previous
// manager are removed before the new one is attached.
func (d *Device) SetConnectionManager(m connection.Manager) {
	d.mu.Lock()
	if d.manager == m {
		d.mu.Unlock()
		return
	}
	old := d.unsubscribe
	d.unsubscribe = nil
	d.manager = m
	d.mu.Unlock()

	for _, unsubscribe := range old {
		unsubscribe()
	}
	if m == nil {
		return
	}

	unsubStatus := m.OnStatus(d.onStatus)
	unsubMessage := m.OnMessage(d.onMessage)

	d.mu.Lock()
	d.unsubscribe = []func(){unsubStatus, unsubMessage}
	d.mu.Unlock()
}

// ConnectionManager returns the current manager, or nil.
func (d *Device) ConnectionManager() connection.Manager {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.manager
}

func (d *Device) requireManager() (connection.Manager, error) {
	m := d.ConnectionManager()
	if m == nil {
		return nil, ErrNoConnectionManager
	}
	return m, nil
}

// BluetoothID identifies the device across transports.
func (d *Device) BluetoothID() string {
	if m := d.ConnectionManager(); m != nil {
		return m.BluetoothID()
	}
	return ""
}

// ConnectionType returns the transport of the current manager.
func (d *Device) ConnectionType() (connection.Type, bool) {
	if m := d.ConnectionManager(); m != nil {
		return m.Type(), true
	}
	return 0, false
}

// Connect clears cached state and connects the manager.
func (d *Device) Connect(ctx context.Context) error {
	m, err := d.requireManager()
	if err != nil {
		return err
	}
	d.clear()
	return m.Connect(ctx)
}

// Reconnect clears cached state, resets the telemetry scalars and reconnects
// the known peripheral.
func (d *Device) Reconnect(ctx context.Context) error {
	m, err := d.requireManager()
	if err != nil {
		return err
	}
	d.clear()
	return m.Reconnect(ctx)
}

// CanReconnect reports whether Reconnect may succeed without a new scan.
func (d *Device) CanReconnect() bool {
	m := d.ConnectionManager()
	return m != nil && m.CanReconnect()
}

// Disconnect tears the link down. An automatic reconnect is suspended until
// the device is connected again.
func (d *Device) Disconnect(ctx context.Context) error {
	m, err := d.requireManager()
	if err != nil {
		return err
	}
	d.mu.Lock()
	if d.reconnectEnabled {
		d.reconnectSuspended = true
	}
	d.mu.Unlock()
	return m.Disconnect(ctx)
}

// Close stops the reconnect loop and detaches the manager.
func (d *Device) Close() {
	d.mu.Lock()
	r := d.reconnector
	d.reconnector = nil
	d.reconnectEnabled = false
	d.mu.Unlock()
	if r != nil {
		r.Stop()
	}
	d.SetConnectionManager(nil)
}

// SetReconnectOnDisconnection toggles the automatic reconnect loop.
func (d *Device) SetReconnectOnDisconnection(enabled bool) {
	d.mu.Lock()
	d.reconnectEnabled = enabled
	d.reconnectSuspended = false
	if enabled && d.reconnector == nil {
		d.reconnector = connection.NewReconnector(connection.ReconnectorConfig{
			Connect:     d.Reconnect,
			ShouldRetry: d.shouldReconnect,
			Backoff:     connection.NewFixedBackoff(d.reconnectInterval),
			Logger:      d.logger,
		})
		d.reconnector.Start()
	}
	d.mu.Unlock()
}

// ReconnectOnDisconnection reports whether the reconnect loop is enabled.
func (d *Device) ReconnectOnDisconnection() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reconnectEnabled
}

func (d *Device) shouldReconnect() bool {
	d.mu.Lock()
	enabled := d.reconnectEnabled && !d.reconnectSuspended
	m := d.manager
	d.mu.Unlock()
	return enabled && m != nil && m.Status() == connection.StatusNotConnected && m.CanReconnect()
}

// IsConnected holds once the link is up, every required information message
// has arrived and the device clock is set.
func (d *Device) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isConnected
}

// ConnectionStatus is the manager's status, except that a connected link
// reads as connecting until IsConnected holds.
func (d *Device) ConnectionStatus() connection.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connectionStatusLocked()
}

func (d *Device) connectionStatusLocked() connection.Status {
	if d.manager == nil {
		return connection.StatusNotConnected
	}
	s := d.manager.Status()
	if s == connection.StatusConnected && !d.isConnected {
		return connection.StatusConnecting
	}
	return s
}

func (d *Device) clear() {
	d.mu.Lock()
	clear(d.latest)
	d.info.CurrentTime = time.Time{}
	d.deviceInfo = DeviceInformation{}
	d.mu.Unlock()
	d.decoder.Reset()
}

func (d *Device) hasRequiredInformationLocked() bool {
	for _, typ := range RequiredInformation {
		if _, ok := d.latest[typ]; !ok {
			return false
		}
	}
	return true
}

// checkConnection recomputes IsConnected and dispatches whatever changed.
func (d *Device) checkConnection() {
	d.mu.Lock()
	m := d.manager
	d.isConnected = m != nil && m.IsConnected() && d.hasRequiredInformationLocked() && d.info.IsCurrentTimeSet()
	isConnected := d.isConnected
	status := d.connectionStatusLocked()
	statusChanged := status != d.lastStatus
	d.lastStatus = status
	if isConnected {
		d.reconnectSuspended = false
	}
	d.mu.Unlock()

	if statusChanged {
		d.statusEvents.Dispatch(status)
	}
	// isConnected is reported together with the settled states only.
	if statusChanged && (status == connection.StatusConnected || status == connection.StatusNotConnected) {
		d.isConnectedEvents.Dispatch(isConnected)
	}
}

func (d *Device) onStatus(s connection.Status) {
	d.logger.Debug("connection status", "device", d.BluetoothID(), "status", s)

	d.checkConnection()

	switch s {
	case connection.StatusNotConnected:
		d.mu.Lock()
		r := d.reconnector
		d.mu.Unlock()
		if r != nil && d.shouldReconnect() {
			d.logger.Info("scheduling reconnect", "device", d.BluetoothID(), "interval", d.reconnectInterval)
			r.Trigger()
		}
	case connection.StatusConnected:
		if !d.IsConnected() {
			d.requestRequiredInformation()
		}
	}
}

func (d *Device) requestRequiredInformation() {
	msgs := make([]wire.Message, len(RequiredInformation))
	for i, typ := range RequiredInformation {
		msgs[i] = wire.Message{Type: typ}
	}
	if err := d.SendTxMessages(context.Background(), msgs, true); err != nil {
		d.logger.Warn("requesting required information", "device", d.BluetoothID(), "error", err)
	}
}

func (d *Device) onMessage(typ string, data []byte) {
	data = slices.Clone(data)
	if err := d.parseMessage(typ, data); err != nil {
		d.logger.Warn("parsing message", "device", d.BluetoothID(), "type", typ, "error", err)
	}

	d.mu.Lock()
	d.latest[typ] = data
	recheck := !d.isConnected && d.hasRequiredInformationLocked()
	d.mu.Unlock()

	d.messageEvents.Dispatch(wire.Message{Type: typ, Data: data})

	if recheck {
		d.checkConnection()
	}
}

func (d *Device) parseMessage(typ string, data []byte) error {
	switch {
	case typ == wire.MsgBatteryLevel:
		if len(data) < 1 {
			return fmt.Errorf("%w: empty batteryLevel", ErrMalformedMessage)
		}
		level := int(data[0])
		d.mu.Lock()
		d.batteryLevel = level
		d.mu.Unlock()
		d.batteryEvents.Dispatch(level)

	case wire.DeviceInformationMessageTypes.Contains(typ):
		d.mu.Lock()
		err := d.deviceInfo.apply(typ, data)
		info := d.deviceInfo
		d.mu.Unlock()
		if err != nil {
			return err
		}
		d.deviceInfoEvents.Dispatch(info)

	case wire.InformationMessageTypes.Contains(typ):
		return d.parseInformation(typ, data)

	case wire.SensorConfigurationMessageTypes.Contains(typ):
		cfg, err := telemetry.ParseSensorConfiguration(data)
		if err != nil {
			return err
		}
		d.mu.Lock()
		d.sensorConfig = cfg
		d.mu.Unlock()
		d.sensorConfigEvents.Dispatch(cfg)

	case telemetry.Handles(typ):
		return d.decoder.ParseMessage(typ, data)
	}
	// File transfer, tflite and smp payloads are only cached.
	return nil
}

func (d *Device) parseInformation(typ string, data []byte) error {
	d.mu.Lock()
	changed, err := d.info.apply(typ, data)
	info := d.info
	m := d.manager
	d.mu.Unlock()
	if err != nil {
		return err
	}

	switch typ {
	case wire.MsgGetMtu:
		if m != nil {
			m.SetMTU(info.MTU)
		}
	case wire.MsgGetCurrentTime, wire.MsgSetCurrentTime:
		if !info.IsCurrentTimeSet() {
			now := d.now()
			d.logger.Debug("setting device clock", "device", d.BluetoothID(), "time", now)
			msg := wire.Message{Type: wire.MsgSetCurrentTime, Data: EncodeCurrentTime(now)}
			if err := d.SendTxMessages(context.Background(), []wire.Message{msg}, true); err != nil {
				return fmt.Errorf("setting current time: %w", err)
			}
		}
	}

	if changed {
		d.informationEvents.Dispatch(info)
	}
	return nil
}

// SendTxMessages forwards to the manager.
func (d *Device) SendTxMessages(ctx context.Context, msgs []wire.Message, sendImmediately bool) error {
	m, err := d.requireManager()
	if err != nil {
		return err
	}
	return m.SendTxMessages(ctx, msgs, sendImmediately)
}

// SendTxData writes an encoded TxRx blob through the manager.
func (d *Device) SendTxData(ctx context.Context, data []byte) error {
	m, err := d.requireManager()
	if err != nil {
		return err
	}
	return m.SendTxData(ctx, data)
}

// SendSmpMessage forwards to the manager.
func (d *Device) SendSmpMessage(ctx context.Context, data []byte) error {
	m, err := d.requireManager()
	if err != nil {
		return err
	}
	return m.SendSmpMessage(ctx, data)
}

// request sends msg and waits until one of replies arrives.
func (d *Device) request(ctx context.Context, msg wire.Message, replies ...string) (wire.Message, error) {
	return event.Wait(ctx, &d.messageEvents, func(m wire.Message) bool {
		return slices.Contains(replies, m.Type)
	}, func() error {
		return d.SendTxMessages(ctx, []wire.Message{msg}, true)
	})
}

// SetName renames the device and waits for the echo.
func (d *Device) SetName(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := d.request(ctx, wire.Message{Type: wire.MsgSetName, Data: []byte(name)}, wire.MsgGetName, wire.MsgSetName)
	return err
}

// SetType changes the device type and waits for the echo.
func (d *Device) SetType(ctx context.Context, t DeviceType) error {
	idx, ok := t.Index()
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDeviceType, t)
	}
	_, err := d.request(ctx, wire.Message{Type: wire.MsgSetType, Data: []byte{byte(idx)}}, wire.MsgGetType, wire.MsgSetType)
	return err
}

// SetSensorConfiguration applies cfg and waits until the device echoes the
// resulting configuration. A redundant request sends nothing.
func (d *Device) SetSensorConfiguration(ctx context.Context, cfg telemetry.SensorConfiguration, clearRest bool) error {
	if clearRest {
		merged := telemetry.ZeroSensorConfiguration()
		for k, v := range cfg {
			merged[k] = v
		}
		cfg = merged
	}

	current := d.SensorConfiguration()
	if current != nil && telemetry.IsRedundant(current, cfg) {
		d.logger.Debug("redundant sensor configuration", "device", d.BluetoothID())
		return nil
	}
	data, err := telemetry.EncodeSensorConfiguration(cfg, false, current)
	if err != nil {
		return err
	}
	_, err = d.request(ctx, wire.Message{Type: wire.MsgSetSensorConfiguration, Data: data},
		wire.MsgGetSensorConfiguration, wire.MsgSetSensorConfiguration)
	return err
}

// ClearSensorConfiguration disables every sensor.
func (d *Device) ClearSensorConfiguration(ctx context.Context) error {
	return d.SetSensorConfiguration(ctx, telemetry.ZeroSensorConfiguration(), false)
}

// TriggerVibration sends an already encoded vibration payload.
func (d *Device) TriggerVibration(ctx context.Context, payload []byte) error {
	return d.SendTxMessages(ctx, []wire.Message{{Type: wire.MsgTriggerVibration, Data: payload}}, true)
}

// ResetPressureRange restarts pressure normalization.
func (d *Device) ResetPressureRange() {
	d.decoder.ResetPressureRange()
}

// ApplyAdvertisement seeds name and type from a scan result before the
// device reports them itself.
func (d *Device) ApplyAdvertisement(name string, t DeviceType) {
	d.mu.Lock()
	if name != "" {
		d.info.Name = name
	}
	if t != "" {
		d.info.Type = t
	}
	d.mu.Unlock()
}

// Telemetry returns the decoder fed by this device's sensor messages.
func (d *Device) Telemetry() *telemetry.Decoder {
	return d.decoder
}

func (d *Device) Information() Information {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.info
}

func (d *Device) DeviceInformation() DeviceInformation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deviceInfo
}

// BatteryLevel returns the last reported level, or -1.
func (d *Device) BatteryLevel() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.batteryLevel
}

// SensorConfiguration returns the last configuration the device reported,
// or nil.
func (d *Device) SensorConfiguration() telemetry.SensorConfiguration {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sensorConfig == nil {
		return nil
	}
	out := make(telemetry.SensorConfiguration, len(d.sensorConfig))
	for k, v := range d.sensorConfig {
		out[k] = v
	}
	return out
}

// LatestMessage returns the last payload received for typ.
func (d *Device) LatestMessage(typ string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.latest[typ]
	return data, ok
}

// LatestMessages returns the cache ordered by ConnectionMessageTypes.
func (d *Device) LatestMessages() []wire.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []wire.Message
	for _, typ := range wire.ConnectionMessageTypes.Names() {
		if data, ok := d.latest[typ]; ok {
			out = append(out, wire.Message{Type: typ, Data: data})
		}
	}
	return out
}

func (d *Device) OnConnectionStatus(fn func(connection.Status)) func() {
	return d.statusEvents.Subscribe(fn)
}

func (d *Device) OnIsConnected(fn func(bool)) func() {
	return d.isConnectedEvents.Subscribe(fn)
}

// OnConnectionMessage receives every message after it has been parsed.
// Data must not be modified.
func (d *Device) OnConnectionMessage(fn func(wire.Message)) func() {
	return d.messageEvents.Subscribe(fn)
}

func (d *Device) OnInformation(fn func(Information)) func() {
	return d.informationEvents.Subscribe(fn)
}

func (d *Device) OnDeviceInformation(fn func(DeviceInformation)) func() {
	return d.deviceInfoEvents.Subscribe(fn)
}

func (d *Device) OnBatteryLevel(fn func(int)) func() {
	return d.batteryEvents.Subscribe(fn)
}

func (d *Device) OnSensorConfiguration(fn func(telemetry.SensorConfiguration)) func() {
	return d.sensorConfigEvents.Subscribe(fn)
}
