package bluetooth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/log"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

var (
	// ErrMissingCharacteristic is returned when a required characteristic
	// was not discovered, or a write targets one that is absent.
	ErrMissingCharacteristic = errors.New("missing characteristic")

	// ErrConnectAborted is returned by Connect when Disconnect won the race.
	ErrConnectAborted = errors.New("connect aborted")
)

// Peripheral is one remote GATT server as seen by a platform stack.
type Peripheral interface {
	ID() string
	Connect(ctx context.Context) error
	Discover(ctx context.Context) ([]Characteristic, error)
	Disconnect() error

	// CanReconnect reports whether Connect may be called again without a
	// new scan.
	CanReconnect() bool
}

// Characteristic is one discovered GATT characteristic.
type Characteristic interface {
	ServiceUUID() string
	UUID() string
	Read() ([]byte, error)
	Write(data []byte, withoutResponse bool) error
	Subscribe(fn func([]byte)) error
	Unsubscribe() error
}

// LinkReporter is implemented by peripherals that can tell whether the
// link is still up. Manager polls it from the connection watchdog.
type LinkReporter interface {
	Connected() bool
}

// MTUReporter is implemented by peripherals that negotiate an MTU.
type MTUReporter interface {
	MTU() int
}

// Options configures a Manager.
type Options struct {
	Type connection.Type

	// ManualDispatchAfterRead dispatches the initial value of every read
	// binding, including those that also notify.
	ManualDispatchAfterRead bool

	// ReadBackAfterWrite reads a readable, non-notifying characteristic
	// after each write and dispatches the value.
	ReadBackAfterWrite bool

	// MTU, when non-zero, is applied on connect.
	MTU int

	Logger         *slog.Logger
	ProtocolLogger log.Logger
}

// Manager is a connection.Manager over a GATT peripheral.
type Manager struct {
	connection.Base

	peripheral Peripheral
	opts       Options

	mu              sync.Mutex
	characteristics map[string]Characteristic
	connectedBefore bool
}

var _ connection.Manager = (*Manager)(nil)

// NewManager creates a manager for p.
func NewManager(p Peripheral, opts Options) *Manager {
	m := &Manager{peripheral: p, opts: opts}
	cfg := connection.BaseConfig{
		Type:           opts.Type,
		BluetoothID:    p.ID(),
		TxWriter:       m.writeTx,
		Logger:         opts.Logger,
		ProtocolLogger: opts.ProtocolLogger,
	}
	if lr, ok := p.(LinkReporter); ok {
		cfg.LinkChecker = lr.Connected
	}
	m.Init(cfg)

	// A link dropped by the watchdog still has subscriptions to release.
	m.OnStatus(func(s connection.Status) {
		if s == connection.StatusNotConnected {
			m.detach()
		}
	})
	return m
}

// Peripheral returns the underlying peripheral.
func (m *Manager) Peripheral() Peripheral {
	return m.peripheral
}

// CanReconnect is true when the manager is idle, has connected before, and
// the peripheral is still reachable.
func (m *Manager) CanReconnect() bool {
	m.mu.Lock()
	before := m.connectedBefore
	m.mu.Unlock()
	return before && m.Status() == connection.StatusNotConnected && m.peripheral.CanReconnect()
}

// Connect runs the full connect sequence.
func (m *Manager) Connect(ctx context.Context) error {
	if err := m.BeginConnect(); err != nil {
		return err
	}
	return m.establish(ctx, "connect")
}

// Reconnect reruns the connect sequence on the known peripheral.
func (m *Manager) Reconnect(ctx context.Context) error {
	if err := m.BeginReconnect(m.CanReconnect()); err != nil {
		return err
	}
	return m.establish(ctx, "reconnect")
}

func (m *Manager) establish(ctx context.Context, op string) error {
	logger := m.Logger().With("device", m.BluetoothID())

	if err := m.peripheral.Connect(ctx); err != nil {
		return m.abort(op, fmt.Errorf("connecting: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return m.abort(op, err)
	}

	discovered, err := m.peripheral.Discover(ctx)
	if err != nil {
		return m.abort(op, fmt.Errorf("discovering: %w", err))
	}

	found := make(map[string]Characteristic, len(discovered))
	for _, c := range discovered {
		b, ok := LookupCharacteristic(c.UUID())
		if !ok {
			logger.Debug("ignoring characteristic", "uuid", c.UUID(), "service", c.ServiceUUID())
			continue
		}
		found[b.Name] = c
	}
	for _, b := range Bindings {
		if b.Required() && found[b.Name] == nil {
			return m.abort(op, fmt.Errorf("%w: %s", ErrMissingCharacteristic, b.Name))
		}
	}

	m.mu.Lock()
	m.characteristics = found
	m.mu.Unlock()

	if mr, ok := m.peripheral.(MTUReporter); ok && mr.MTU() > 0 {
		m.SetMTU(mr.MTU())
	}
	if m.opts.MTU > 0 {
		m.SetMTU(m.opts.MTU)
	}

	// Initial reads prime the device's cached values before notifications
	// start.
	for _, b := range Bindings {
		c := found[b.Name]
		if c == nil || !b.Properties.Read {
			continue
		}
		data, err := c.Read()
		if err != nil {
			return m.abort(op, fmt.Errorf("reading %s: %w", b.Name, err))
		}
		if m.opts.ManualDispatchAfterRead || !b.Properties.Notify {
			m.dispatch(b.Name, data)
		}
	}

	for _, b := range Bindings {
		c := found[b.Name]
		if c == nil || !b.Properties.Notify {
			continue
		}
		if err := c.Subscribe(m.notificationHandler(b.Name)); err != nil {
			return m.abort(op, fmt.Errorf("subscribing to %s: %w", b.Name, err))
		}
	}

	if err := ctx.Err(); err != nil {
		return m.abort(op, err)
	}
	if !m.CompareAndSetStatus(connection.StatusConnecting, connection.StatusConnected) {
		m.detach()
		_ = m.peripheral.Disconnect()
		return &connection.StateError{Op: op, Status: m.Status(), Err: ErrConnectAborted}
	}

	m.mu.Lock()
	m.connectedBefore = true
	m.mu.Unlock()
	logger.Info("connected", "characteristics", len(found))
	return nil
}

// abort undoes a partial connect. The status ends at notConnected.
func (m *Manager) abort(op string, cause error) error {
	m.detach()
	if err := m.peripheral.Disconnect(); err != nil {
		m.Logger().Debug("disconnect after failed connect", "device", m.BluetoothID(), "error", err)
	}
	return m.Fail(op, cause)
}

func (m *Manager) detach() {
	m.mu.Lock()
	chars := m.characteristics
	m.characteristics = nil
	m.mu.Unlock()

	for _, b := range Bindings {
		c := chars[b.Name]
		if c == nil || !b.Properties.Notify {
			continue
		}
		if err := c.Unsubscribe(); err != nil {
			m.Logger().Debug("unsubscribe failed", "device", m.BluetoothID(), "characteristic", b.Name, "error", err)
		}
	}
}

// Disconnect tears the link down. It may also be called while connecting.
func (m *Manager) Disconnect(ctx context.Context) error {
	if err := m.BeginDisconnect(); err != nil {
		return err
	}
	m.detach()
	err := m.peripheral.Disconnect()
	m.SetStatus(connection.StatusNotConnected)
	if err != nil {
		return &connection.TransportError{Op: "disconnect", Err: err}
	}
	return nil
}

// SendSmpMessage writes data to the smp characteristic without response.
func (m *Manager) SendSmpMessage(ctx context.Context, data []byte) error {
	return m.write(wire.MsgSmp, data, true)
}

func (m *Manager) writeTx(ctx context.Context, data []byte) error {
	return m.write(wire.MsgTx, data, false)
}

func (m *Manager) write(name string, data []byte, withoutResponse bool) error {
	c := m.characteristic(name)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrMissingCharacteristic, name)
	}
	if err := c.Write(data, withoutResponse); err != nil {
		return &connection.TransportError{Op: "write " + name, Err: err}
	}

	b, _ := LookupBinding(name)
	if m.opts.ReadBackAfterWrite && b.Properties.Read && !b.Properties.Notify {
		value, err := c.Read()
		if err != nil {
			return &connection.TransportError{Op: "read back " + name, Err: err}
		}
		m.dispatch(name, value)
	}
	return nil
}

func (m *Manager) characteristic(name string) Characteristic {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.characteristics[name]
}

func (m *Manager) notificationHandler(name string) func([]byte) {
	return func(data []byte) {
		// Backends may reuse the notification buffer.
		m.dispatch(name, append([]byte(nil), data...))
	}
}

func (m *Manager) dispatch(name string, data []byte) {
	switch name {
	case wire.MsgRx:
		// Errors are logged by ParseRx; a bad chunk never drops the link.
		_ = m.ParseRx(data)
	default:
		m.DispatchMessage(name, data)
	}
}
