package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/device"
	"github.com/brilliantsole/bs-go/pkg/event"
	"github.com/brilliantsole/bs-go/pkg/log"
	"github.com/brilliantsole/bs-go/pkg/scanner"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

const (
	// DefaultReconnectInterval is the delay before the client redials.
	DefaultReconnectInterval = 3 * time.Second

	// DefaultRequestTimeout bounds how long a relayed connect or disconnect
	// waits for the server to report the device state.
	DefaultRequestTimeout = 30 * time.Second
)

// ErrClientNotConnected is returned when the socket is not open.
var ErrClientNotConnected = errors.New("relay client not connected")

// ClientConfig configures a Client.
type ClientConfig struct {
	// URL of the server websocket, for example ws://host:8080/ws.
	URL    string
	Header http.Header

	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer

	// ReconnectOnDisconnection redials after an unexpected close.
	ReconnectOnDisconnection bool
	ReconnectInterval        time.Duration

	// RequestTimeout defaults to DefaultRequestTimeout.
	RequestTimeout time.Duration

	// DeviceConfig is used for every relayed device.
	DeviceConfig device.Config

	// Pool, when set, receives every relayed device.
	Pool *device.Pool

	MaxMessageSize int64

	Logger         *slog.Logger
	ProtocolLogger log.Logger
}

// link is one open socket.
type link struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Client mirrors a relay server. It implements scanner.Scanner so a relayed
// device directory can be driven like a local one.
type Client struct {
	cfg    ClientConfig
	logger *slog.Logger
	dialer *websocket.Dialer

	mu                  sync.Mutex
	status              connection.Status
	link                *link
	explicitClose       bool
	isScanningAvailable bool
	isScanning          bool
	discovered          map[string]scanner.DiscoveredDevice
	discoveredOrder     []string
	devices             map[string]*device.Device
	managers            map[string]*ClientManager
	reconnector         *connection.Reconnector

	statusEvents     event.Dispatcher[connection.Status]
	availableEvents  event.Dispatcher[bool]
	scanningEvents   event.Dispatcher[bool]
	discoveredEvents event.Dispatcher[scanner.DiscoveredDevice]
	expiredEvents    event.Dispatcher[scanner.DiscoveredDevice]
}

var _ scanner.Scanner = (*Client)(nil)

// NewClient returns a disconnected client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = DefaultReconnectInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = DefaultMaxMessageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	c := &Client{
		cfg:        cfg,
		logger:     logger,
		dialer:     dialer,
		discovered: make(map[string]scanner.DiscoveredDevice),
		devices:    make(map[string]*device.Device),
		managers:   make(map[string]*ClientManager),
	}
	if cfg.ReconnectOnDisconnection {
		c.reconnector = connection.NewReconnector(connection.ReconnectorConfig{
			Connect:     c.dial,
			ShouldRetry: c.shouldReconnect,
			Backoff:     connection.NewFixedBackoff(cfg.ReconnectInterval),
			Logger:      logger,
		})
		c.reconnector.Start()
	}
	return c
}

// Connect dials the server and requests the initial state.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.status != connection.StatusNotConnected {
		status := c.status
		c.mu.Unlock()
		return &connection.StateError{Op: "connect", Status: status, Err: connection.ErrAlreadyConnected}
	}
	c.explicitClose = false
	c.mu.Unlock()
	return c.dial(ctx)
}

func (c *Client) dial(ctx context.Context) error {
	if !c.compareAndSetStatus(connection.StatusNotConnected, connection.StatusConnecting) {
		return &connection.StateError{Op: "connect", Status: c.ConnectionStatus(), Err: connection.ErrAlreadyConnecting}
	}

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, c.cfg.Header)
	if err != nil {
		c.setStatus(connection.StatusNotConnected)
		return &connection.TransportError{Op: "dial " + c.cfg.URL, Err: err}
	}
	conn.SetReadLimit(c.cfg.MaxMessageSize)

	l := &link{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
	c.mu.Lock()
	c.link = l
	c.mu.Unlock()

	go c.writePump(l)
	go c.readPump(l)

	c.logger.Info("relay connected", "url", c.cfg.URL)
	c.setStatus(connection.StatusConnected)
	return c.send(ctx,
		wire.Message{Type: wire.ServerIsScanningAvailable},
		wire.Message{Type: wire.ServerDiscoveredDevices},
		wire.Message{Type: wire.ServerConnectedDevices},
	)
}

func (c *Client) shouldReconnect() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.explicitClose && c.status == connection.StatusNotConnected
}

// Disconnect closes the socket without scheduling a reconnect.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	l := c.link
	if l == nil || c.status != connection.StatusConnected {
		status := c.status
		c.mu.Unlock()
		return &connection.StateError{Op: "disconnect", Status: status, Err: connection.ErrNotConnected}
	}
	c.explicitClose = true
	c.mu.Unlock()

	c.setStatus(connection.StatusDisconnecting)
	_ = l.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return l.conn.Close()
}

// Close disconnects and stops the reconnect loop.
func (c *Client) Close() error {
	if c.reconnector != nil {
		c.reconnector.Stop()
	}
	c.mu.Lock()
	c.explicitClose = true
	l := c.link
	c.mu.Unlock()
	if l != nil {
		return l.conn.Close()
	}
	return nil
}

func (c *Client) IsConnected() bool {
	return c.ConnectionStatus() == connection.StatusConnected
}

func (c *Client) ConnectionStatus() connection.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Client) setStatus(s connection.Status) {
	c.mu.Lock()
	old := c.status
	c.status = s
	c.mu.Unlock()
	if old != s {
		c.statusEvents.Dispatch(s)
	}
}

func (c *Client) compareAndSetStatus(from, to connection.Status) bool {
	c.mu.Lock()
	if c.status != from {
		c.mu.Unlock()
		return false
	}
	c.status = to
	c.mu.Unlock()
	c.statusEvents.Dispatch(to)
	return true
}

// send queues msgs for the current socket.
func (c *Client) send(ctx context.Context, msgs ...wire.Message) error {
	frame, err := wire.Encode(wire.ServerMessageTypes, msgs...)
	if err != nil {
		return err
	}
	c.mu.Lock()
	l := c.link
	c.mu.Unlock()
	if l == nil {
		return ErrClientNotConnected
	}
	select {
	case l.send <- frame:
		return nil
	case <-l.done:
		return ErrClientNotConnected
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) writePump(l *link) {
	for {
		select {
		case <-l.done:
			return
		case frame := <-l.send:
			if err := l.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				c.logger.Debug("relay write failed", "error", err)
				_ = l.conn.Close()
				return
			}
			c.emit(l, log.DirectionOut, frame)
		}
	}
}

func (c *Client) readPump(l *link) {
	defer c.onClose(l)
	for {
		_, frame, err := l.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("relay read error", "error", err)
			} else {
				c.logger.Debug("relay closed", "error", err)
			}
			return
		}
		c.emit(l, log.DirectionIn, frame)
		c.handle(frame)
	}
}

// onClose marks every relayed device notConnected and schedules a redial.
func (c *Client) onClose(l *link) {
	close(l.done)
	_ = l.conn.Close()

	c.mu.Lock()
	if c.link == l {
		c.link = nil
	}
	managers := make([]*ClientManager, 0, len(c.managers))
	for _, m := range c.managers {
		managers = append(managers, m)
	}
	wasAvailable, wasScanning := c.isScanningAvailable, c.isScanning
	c.isScanningAvailable, c.isScanning = false, false
	c.mu.Unlock()

	for _, m := range managers {
		m.setConnected(false)
	}
	if wasScanning {
		c.scanningEvents.Dispatch(false)
	}
	if wasAvailable {
		c.availableEvents.Dispatch(false)
	}
	c.setStatus(connection.StatusNotConnected)
	c.logger.Info("relay disconnected", "url", c.cfg.URL)

	if c.reconnector != nil && c.shouldReconnect() {
		c.reconnector.Trigger()
	}
}

func (c *Client) handle(frame []byte) {
	err := wire.Decode(wire.ServerMessageTypes, frame, func(typ string, data []byte, _ bool) error {
		if err := c.apply(typ, data); err != nil {
			c.logger.Warn("dropping server message", "type", typ, "error", err)
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("malformed server frame", "error", err)
	}
}

func (c *Client) apply(typ string, data []byte) error {
	switch typ {
	case wire.ServerIsScanningAvailable:
		v, err := parseBool(data)
		if err != nil {
			return err
		}
		c.setFlag(&c.isScanningAvailable, v, &c.availableEvents)
		if v {
			return c.send(context.Background(), wire.Message{Type: wire.ServerIsScanning})
		}
	case wire.ServerIsScanning:
		v, err := parseBool(data)
		if err != nil {
			return err
		}
		c.setFlag(&c.isScanning, v, &c.scanningEvents)
	case wire.ServerDiscoveredDevice:
		d, err := parseDiscoveredDevice(data)
		if err != nil {
			return err
		}
		c.mu.Lock()
		if _, ok := c.discovered[d.BluetoothID]; !ok {
			c.discoveredOrder = append(c.discoveredOrder, d.BluetoothID)
		}
		c.discovered[d.BluetoothID] = d
		c.mu.Unlock()
		c.discoveredEvents.Dispatch(d)
	case wire.ServerExpiredDiscoveredDevice:
		id, err := parseStringPayload(data)
		if err != nil {
			return err
		}
		c.mu.Lock()
		d, ok := c.discovered[id]
		delete(c.discovered, id)
		c.discoveredOrder = slices.DeleteFunc(c.discoveredOrder, func(x string) bool { return x == id })
		c.mu.Unlock()
		if !ok {
			c.logger.Debug("expired device was never discovered", "device", id)
			return nil
		}
		c.expiredEvents.Dispatch(d)
	case wire.ServerConnectedDevices:
		ids, err := parseConnectedDevices(data)
		if err != nil {
			return err
		}
		for _, id := range ids {
			c.GetOrCreateDevice(id)
			if m := c.manager(id); m != nil {
				m.setConnected(true)
			}
		}
	case wire.ServerDeviceMessage:
		id, inner, err := parseDeviceMessage(data)
		if err != nil {
			return err
		}
		m := c.manager(id)
		if m == nil {
			return &RelayError{Op: typ, DeviceID: id, Err: ErrUnknownDevice}
		}
		m.onDeviceMessage(inner)
	default:
		return fmt.Errorf("unexpected %s from server", typ)
	}
	return nil
}

func (c *Client) setFlag(flag *bool, v bool, events *event.Dispatcher[bool]) {
	c.mu.Lock()
	changed := *flag != v
	*flag = v
	c.mu.Unlock()
	if changed {
		events.Dispatch(v)
	}
}

func (c *Client) manager(id string) *ClientManager {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.managers[id]
}

// GetOrCreateDevice returns the relayed device for id, creating it on first
// use or after the pool closed the previous one.
func (c *Client) GetOrCreateDevice(id string) *device.Device {
	c.mu.Lock()
	if d, ok := c.devices[id]; ok && d.ConnectionManager() != nil {
		c.mu.Unlock()
		return d
	}
	m := newClientManager(c, id)
	d := device.NewWithManager(m, c.cfg.DeviceConfig)
	c.devices[id] = d
	c.managers[id] = m
	c.mu.Unlock()

	if c.cfg.Pool != nil {
		c.cfg.Pool.Add(d)
	}
	return d
}

// Device returns a relayed device created earlier.
func (c *Client) Device(id string) (*device.Device, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.devices[id]
	return d, ok
}

// Devices returns every relayed device.
func (c *Client) Devices() []*device.Device {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*device.Device, 0, len(c.devices))
	for _, d := range c.devices {
		out = append(out, d)
	}
	return out
}

func (c *Client) IsAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isScanningAvailable
}

func (c *Client) IsScanning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isScanning
}

// StartScan asks the server to scan.
func (c *Client) StartScan(ctx context.Context) error {
	c.mu.Lock()
	available, scanning := c.isScanningAvailable, c.isScanning
	c.mu.Unlock()
	switch {
	case !available:
		return scanner.ErrNotAvailable
	case scanning:
		return scanner.ErrAlreadyScanning
	}
	return c.send(ctx, wire.Message{Type: wire.ServerStartScan})
}

// StopScan asks the server to stop scanning.
func (c *Client) StopScan() error {
	if !c.IsScanning() {
		return scanner.ErrNotScanning
	}
	return c.send(context.Background(), wire.Message{Type: wire.ServerStopScan})
}

// DiscoveredDevices is ordered by first report from the server.
func (c *Client) DiscoveredDevices() []scanner.DiscoveredDevice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]scanner.DiscoveredDevice, 0, len(c.discoveredOrder))
	for _, id := range c.discoveredOrder {
		out = append(out, c.discovered[id])
	}
	return out
}

// RequestDiscoveredDevices asks the server for its directory again.
func (c *Client) RequestDiscoveredDevices(ctx context.Context) error {
	return c.send(ctx, wire.Message{Type: wire.ServerDiscoveredDevices})
}

// ConnectToDevice asks the server to connect id and returns the relayed
// device. The device reports connected once the server does.
func (c *Client) ConnectToDevice(ctx context.Context, id string) (*device.Device, error) {
	if !c.IsConnected() {
		return nil, ErrClientNotConnected
	}
	d := c.GetOrCreateDevice(id)
	return d, d.Connect(ctx)
}

// DisconnectFromDevice asks the server to disconnect id.
func (c *Client) DisconnectFromDevice(ctx context.Context, id string) error {
	d, ok := c.Device(id)
	if !ok {
		return &RelayError{Op: "disconnect", DeviceID: id, Err: ErrUnknownDevice}
	}
	return d.Disconnect(ctx)
}

func (c *Client) OnConnectionStatus(fn func(connection.Status)) func() {
	return c.statusEvents.Subscribe(fn)
}

func (c *Client) OnIsAvailable(fn func(bool)) func() {
	return c.availableEvents.Subscribe(fn)
}

func (c *Client) OnIsScanning(fn func(bool)) func() {
	return c.scanningEvents.Subscribe(fn)
}

func (c *Client) OnDiscoveredDevice(fn func(scanner.DiscoveredDevice)) func() {
	return c.discoveredEvents.Subscribe(fn)
}

func (c *Client) OnExpiredDiscoveredDevice(fn func(scanner.DiscoveredDevice)) func() {
	return c.expiredEvents.Subscribe(fn)
}

func (c *Client) emit(l *link, dir log.Direction, frame []byte) {
	log.Emit(c.cfg.ProtocolLogger, log.Event{
		ConnectionID: l.id,
		RemoteAddr:   c.cfg.URL,
		Direction:    dir,
		Layer:        log.LayerRelay,
		Category:     log.CategoryMessage,
		Frame:        log.NewFrameEvent("websocket", frame),
	})
}
