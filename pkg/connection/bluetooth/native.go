package bluetooth

import (
	"context"
	"sync"
	"time"

	tinyble "tinygo.org/x/bluetooth"

	"github.com/brilliantsole/bs-go/pkg/connection"
)

// maxReadSize bounds a single native characteristic read.
const maxReadSize = 512

// NativePeripheral adapts a tinygo bluetooth address to Peripheral.
type NativePeripheral struct {
	adapter *tinyble.Adapter
	address tinyble.Address

	mu        sync.Mutex
	device    tinyble.Device
	connected bool
}

var (
	_ Peripheral   = (*NativePeripheral)(nil)
	_ LinkReporter = (*NativePeripheral)(nil)
)

// NewNativePeripheral returns a peripheral for address on adapter.
func NewNativePeripheral(adapter *tinyble.Adapter, address tinyble.Address) *NativePeripheral {
	return &NativePeripheral{adapter: adapter, address: address}
}

// NewNativeManager returns a Manager over the native stack. The native
// stack needs both read quirks enabled.
func NewNativeManager(p *NativePeripheral, opts Options) *Manager {
	opts.Type = connection.TypeNative
	opts.ManualDispatchAfterRead = true
	opts.ReadBackAfterWrite = true
	return NewManager(p, opts)
}

// ID returns the platform address string.
func (p *NativePeripheral) ID() string {
	return p.address.String()
}

// Address returns the platform address.
func (p *NativePeripheral) Address() tinyble.Address {
	return p.address
}

// Connect dials the address. The platform call is not cancellable, so a
// cancelled ctx returns early and a late success is disconnected.
func (p *NativePeripheral) Connect(ctx context.Context) error {
	params := tinyble.ConnectionParams{}
	if deadline, ok := ctx.Deadline(); ok {
		params.ConnectionTimeout = tinyble.NewDuration(time.Until(deadline))
	}

	type result struct {
		device tinyble.Device
		err    error
	}
	done := make(chan result, 1)
	go func() {
		d, err := p.adapter.Connect(p.address, params)
		done <- result{d, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-done; r.err == nil {
				_ = r.device.Disconnect()
			}
		}()
		return ctx.Err()
	case r := <-done:
		if r.err != nil {
			return r.err
		}
		p.mu.Lock()
		p.device = r.device
		p.connected = true
		p.mu.Unlock()
		return nil
	}
}

// Discover lists every characteristic of every service.
func (p *NativePeripheral) Discover(ctx context.Context) ([]Characteristic, error) {
	p.mu.Lock()
	device := p.device
	p.mu.Unlock()

	services, err := device.DiscoverServices(nil)
	if err != nil {
		return nil, err
	}
	var out []Characteristic
	for _, svc := range services {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chars, err := svc.DiscoverCharacteristics(nil)
		if err != nil {
			return nil, err
		}
		for _, c := range chars {
			out = append(out, &nativeCharacteristic{peripheral: p, service: svc.UUID().String(), char: c})
		}
	}
	return out, nil
}

// Disconnect closes the link if one is open.
func (p *NativePeripheral) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return nil
	}
	p.connected = false
	return p.device.Disconnect()
}

// CanReconnect is true once the address is known; the platform keeps the
// handle across links.
func (p *NativePeripheral) CanReconnect() bool {
	return p.adapter != nil
}

// Connected reports the last known link state.
func (p *NativePeripheral) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// MarkDisconnected records a link loss reported by the adapter. The
// manager's watchdog then moves the connection to notConnected.
func (p *NativePeripheral) MarkDisconnected() {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()
}

// ConnectNotifier is the part of *tinyble.Adapter that reports link changes.
type ConnectNotifier interface {
	SetConnectHandler(func(device tinyble.Device, connected bool))
}

// NativeLinks routes adapter link-loss events to the peripherals created on
// that adapter. The adapter holds a single connect handler, so one NativeLinks
// serves every peripheral.
type NativeLinks struct {
	mu          sync.Mutex
	peripherals map[string]*NativePeripheral
}

// NewNativeLinks installs the connect handler on adapter.
func NewNativeLinks(adapter ConnectNotifier) *NativeLinks {
	l := &NativeLinks{peripherals: make(map[string]*NativePeripheral)}
	adapter.SetConnectHandler(l.handle)
	return l
}

// Track routes events for p's address to p, replacing any earlier
// peripheral at that address.
func (l *NativeLinks) Track(p *NativePeripheral) {
	l.mu.Lock()
	l.peripherals[p.ID()] = p
	l.mu.Unlock()
}

func (l *NativeLinks) handle(device tinyble.Device, connected bool) {
	if connected {
		return
	}
	l.mu.Lock()
	p := l.peripherals[device.Address.String()]
	l.mu.Unlock()
	if p != nil {
		p.MarkDisconnected()
	}
}

type nativeCharacteristic struct {
	peripheral *NativePeripheral
	service    string
	char       tinyble.DeviceCharacteristic
}

func (c *nativeCharacteristic) ServiceUUID() string { return c.service }
func (c *nativeCharacteristic) UUID() string        { return c.char.UUID().String() }

func (c *nativeCharacteristic) Read() ([]byte, error) {
	buf := make([]byte, maxReadSize)
	n, err := c.char.Read(buf)
	if err != nil {
		return nil, c.checkLink(err)
	}
	return buf[:n], nil
}

func (c *nativeCharacteristic) Write(data []byte, withoutResponse bool) error {
	if err := writeNative(c.char, data, withoutResponse); err != nil {
		return c.checkLink(err)
	}
	return nil
}

func (c *nativeCharacteristic) checkLink(err error) error {
	if linkLost(err) {
		c.peripheral.MarkDisconnected()
	}
	return err
}

func (c *nativeCharacteristic) Subscribe(fn func([]byte)) error {
	return c.char.EnableNotifications(fn)
}

func (c *nativeCharacteristic) Unsubscribe() error {
	return c.char.EnableNotifications(nil)
}
