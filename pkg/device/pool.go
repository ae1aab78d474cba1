package device

import (
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/event"
)

// Pool tracks devices shared by a scanner and a relay server. A tracked
// device is available while it is connected or can reconnect, and connected
// while Device.IsConnected holds. Devices the pool drops on its own, because
// they were replaced or can no longer reconnect, are closed.
type Pool struct {
	logger *slog.Logger

	mu        sync.Mutex
	available []*Device
	connected []*Device
	tracked   map[*Device]func()

	connectedEvents   event.Dispatcher[[]*Device]
	availableEvents   event.Dispatcher[[]*Device]
	isConnectedEvents event.Dispatcher[*Device]
}

// NewPool creates an empty pool. A nil logger disables logging.
func NewPool(logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pool{
		logger:  logger,
		tracked: make(map[*Device]func()),
	}
}

// Add starts tracking d. A device already tracked under the same bluetooth
// id is replaced.
func (p *Pool) Add(d *Device) {
	p.mu.Lock()
	if _, ok := p.tracked[d]; ok {
		p.mu.Unlock()
		return
	}
	var replaced *Device
	if id := d.BluetoothID(); id != "" {
		for _, existing := range p.available {
			if existing.BluetoothID() == id {
				replaced = existing
				break
			}
		}
	}
	p.mu.Unlock()

	if replaced != nil {
		p.drop(replaced)
	}

	unsubConnected := d.OnIsConnected(func(bool) { p.onIsConnected(d) })
	unsubStatus := d.OnConnectionStatus(func(s connection.Status) { p.onStatus(d, s) })

	p.mu.Lock()
	p.tracked[d] = func() {
		unsubConnected()
		unsubStatus()
	}
	p.available = append(p.available, d)
	available := slices.Clone(p.available)
	p.mu.Unlock()

	p.logger.Debug("device added to pool", "device", d.BluetoothID())
	p.availableEvents.Dispatch(available)

	if d.IsConnected() {
		p.onIsConnected(d)
	}
}

// Remove stops tracking d. The caller keeps ownership of d.
func (p *Pool) Remove(d *Device) {
	p.mu.Lock()
	unsubscribe, ok := p.tracked[d]
	if !ok {
		p.mu.Unlock()
		return
	}
	delete(p.tracked, d)
	p.available = slices.DeleteFunc(p.available, func(x *Device) bool { return x == d })
	wasConnected := slices.Contains(p.connected, d)
	p.connected = slices.DeleteFunc(p.connected, func(x *Device) bool { return x == d })
	available := slices.Clone(p.available)
	connected := slices.Clone(p.connected)
	p.mu.Unlock()

	unsubscribe()
	p.logger.Debug("device removed from pool", "device", d.BluetoothID())
	p.availableEvents.Dispatch(available)
	if wasConnected {
		p.isConnectedEvents.Dispatch(d)
		p.connectedEvents.Dispatch(connected)
	}
}

func (p *Pool) onIsConnected(d *Device) {
	isConnected := d.IsConnected()

	p.mu.Lock()
	if _, ok := p.tracked[d]; !ok {
		p.mu.Unlock()
		return
	}
	has := slices.Contains(p.connected, d)
	switch {
	case isConnected && !has:
		p.connected = append(p.connected, d)
	case !isConnected && has:
		p.connected = slices.DeleteFunc(p.connected, func(x *Device) bool { return x == d })
	default:
		p.mu.Unlock()
		return
	}
	connected := slices.Clone(p.connected)
	p.mu.Unlock()

	p.logger.Info("device connection changed", "device", d.BluetoothID(), "connected", isConnected)
	p.isConnectedEvents.Dispatch(d)
	p.connectedEvents.Dispatch(connected)
}

func (p *Pool) onStatus(d *Device, s connection.Status) {
	if s == connection.StatusNotConnected && !d.CanReconnect() {
		p.drop(d)
	}
}

// drop removes d and closes it. Close waits for d's reconnect loop, which
// may be the caller, so it runs on its own goroutine.
func (p *Pool) drop(d *Device) {
	p.Remove(d)
	go d.Close()
}

// Get returns the tracked device with the given bluetooth id.
func (p *Pool) Get(id string) (*Device, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range p.available {
		if d.BluetoothID() == id {
			return d, true
		}
	}
	return nil, false
}

// Connected returns the connected device with the given bluetooth id.
func (p *Pool) Connected(id string) (*Device, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range p.connected {
		if d.BluetoothID() == id {
			return d, true
		}
	}
	return nil, false
}

// ConnectedDevices returns the connected devices in connection order.
func (p *Pool) ConnectedDevices() []*Device {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.connected)
}

// AvailableDevices returns every tracked device in insertion order.
func (p *Pool) AvailableDevices() []*Device {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.available)
}

// ConnectedIDs returns the bluetooth ids of the connected devices.
func (p *Pool) ConnectedIDs() []string {
	devices := p.ConnectedDevices()
	ids := make([]string, len(devices))
	for i, d := range devices {
		ids[i] = d.BluetoothID()
	}
	return ids
}

// OnConnectedDevices receives the connected list after every change.
func (p *Pool) OnConnectedDevices(fn func([]*Device)) func() {
	return p.connectedEvents.Subscribe(fn)
}

// OnAvailableDevices receives the available list after every change.
func (p *Pool) OnAvailableDevices(fn func([]*Device)) func() {
	return p.availableEvents.Subscribe(fn)
}

// OnDeviceIsConnected receives a device whenever it joins or leaves the
// connected list. It runs before the OnConnectedDevices handlers.
func (p *Pool) OnDeviceIsConnected(fn func(*Device)) func() {
	return p.isConnectedEvents.Subscribe(fn)
}
