package relay

import (
	"context"
	"sync"
	"time"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

// ClientManager is a connection.Manager for a device relayed by a Server.
// Its status follows the server's isConnected reports. A request the server
// never answers falls back to notConnected after the client's RequestTimeout.
type ClientManager struct {
	connection.Base

	client *Client

	mu         sync.Mutex
	pending    *time.Timer
	pendingGen uint64
}

var _ connection.Manager = (*ClientManager)(nil)

func newClientManager(c *Client, id string) *ClientManager {
	m := &ClientManager{client: c}
	m.Init(connection.BaseConfig{
		Type:           connection.TypeRelay,
		BluetoothID:    id,
		TxWriter:       m.writeTx,
		Logger:         c.logger,
		ProtocolLogger: c.cfg.ProtocolLogger,
	})
	return m
}

// CanReconnect is true while idle and the socket is open.
func (m *ClientManager) CanReconnect() bool {
	return m.Status() == connection.StatusNotConnected && m.client.IsConnected()
}

// Connect asks the server to connect the device. The status stays
// connecting until the server reports isConnected.
func (m *ClientManager) Connect(ctx context.Context) error {
	if err := m.BeginConnect(); err != nil {
		return err
	}
	return m.requestConnect(ctx, "connect")
}

func (m *ClientManager) Reconnect(ctx context.Context) error {
	if err := m.BeginReconnect(m.CanReconnect()); err != nil {
		return err
	}
	return m.requestConnect(ctx, "reconnect")
}

func (m *ClientManager) requestConnect(ctx context.Context, op string) error {
	data, err := stringPayload(m.BluetoothID())
	if err != nil {
		return m.Fail(op, err)
	}
	if err := m.client.send(ctx, wire.Message{Type: wire.ServerConnectToDevice, Data: data}); err != nil {
		return m.Fail(op, err)
	}
	m.awaitReport(op, connection.StatusConnecting)
	return nil
}

// Disconnect asks the server to disconnect the device.
func (m *ClientManager) Disconnect(ctx context.Context) error {
	if err := m.BeginDisconnect(); err != nil {
		return err
	}
	data, err := stringPayload(m.BluetoothID())
	if err == nil {
		err = m.client.send(ctx, wire.Message{Type: wire.ServerDisconnectFromDevice, Data: data})
	}
	if err != nil {
		m.SetStatus(connection.StatusNotConnected)
		return &connection.TransportError{Op: "disconnect", Err: err}
	}
	m.awaitReport("disconnect", connection.StatusDisconnecting)
	return nil
}

// awaitReport arms the request timeout. Only the latest request's timer may
// change the status.
func (m *ClientManager) awaitReport(op string, from connection.Status) {
	timeout := m.client.cfg.RequestTimeout

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		m.pending.Stop()
	}
	m.pendingGen++
	gen := m.pendingGen
	m.pending = time.AfterFunc(timeout, func() {
		m.mu.Lock()
		current := gen == m.pendingGen
		if current {
			m.pending = nil
		}
		m.mu.Unlock()
		if current && m.CompareAndSetStatus(from, connection.StatusNotConnected) {
			m.Logger().Warn("relay server did not report device state", "device", m.BluetoothID(), "op", op, "timeout", timeout)
		}
	})
}

func (m *ClientManager) clearPending() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
	m.pendingGen++
}

func (m *ClientManager) SendSmpMessage(ctx context.Context, data []byte) error {
	return m.sendDevice(ctx, wire.Message{Type: wire.MsgSmp, Data: data})
}

func (m *ClientManager) writeTx(ctx context.Context, data []byte) error {
	return m.sendDevice(ctx, wire.Message{Type: wire.MsgTx, Data: data})
}

func (m *ClientManager) sendDevice(ctx context.Context, msgs ...wire.Message) error {
	msg, err := deviceMessage(wire.ConnectionMessageTypes, m.BluetoothID(), msgs...)
	if err != nil {
		return err
	}
	return m.client.send(ctx, msg)
}

// setConnected applies a server isConnected report. On connect the cached
// device information and battery level are requested.
func (m *ClientManager) setConnected(connected bool) {
	m.clearPending()
	if !connected {
		m.SetStatus(connection.StatusNotConnected)
		return
	}
	if m.Status() == connection.StatusConnected {
		return
	}
	m.SetStatus(connection.StatusConnected)

	names := append(wire.DeviceInformationMessageTypes.Names(), wire.MsgBatteryLevel)
	requests := make([]wire.Message, len(names))
	for i, name := range names {
		requests[i] = wire.Message{Type: name}
	}
	if err := m.sendDevice(context.Background(), requests...); err != nil {
		m.Logger().Warn("requesting device information", "device", m.BluetoothID(), "error", err)
	}
}

// onDeviceMessage handles one nested blob from the server.
func (m *ClientManager) onDeviceMessage(inner []byte) {
	err := wire.Decode(wire.DeviceEventTypes, inner, func(typ string, data []byte, _ bool) error {
		switch typ {
		case wire.EventIsConnected:
			connected, err := parseBool(data)
			if err != nil {
				return err
			}
			m.setConnected(connected)
		case wire.EventConnectionStatus:
			if len(data) < 1 {
				return wire.ErrTruncatedMessage
			}
			if s := connection.Status(data[0]); s <= connection.StatusDisconnecting {
				m.SetStatus(s)
			}
		case wire.MsgRx:
			_ = m.ParseRx(data)
		default:
			m.DispatchMessage(typ, data)
		}
		return nil
	})
	if err != nil {
		m.Logger().Warn("malformed device message", "device", m.BluetoothID(), "error", err)
	}
}
