package bluetooth

import (
	"context"
	"sync"

	"github.com/go-ble/ble"

	"github.com/brilliantsole/bs-go/pkg/connection"
)

// Dialer opens a GATT client. ble.Dial is the default.
type Dialer func(ctx context.Context, addr ble.Addr) (ble.Client, error)

// HostPeripheral adapts a go-ble client to Peripheral. The HCI device
// must be installed with ble.SetDefaultDevice before the default dialer
// is used.
type HostPeripheral struct {
	addr ble.Addr
	dial Dialer

	mu          sync.Mutex
	client      ble.Client
	connectable bool
	mtu         int
}

var (
	_ Peripheral   = (*HostPeripheral)(nil)
	_ LinkReporter = (*HostPeripheral)(nil)
	_ MTUReporter  = (*HostPeripheral)(nil)
)

// NewHostPeripheral returns a peripheral for addr. A nil dialer uses
// ble.Dial.
func NewHostPeripheral(addr string, dial Dialer) *HostPeripheral {
	if dial == nil {
		dial = ble.Dial
	}
	return &HostPeripheral{addr: ble.NewAddr(addr), dial: dial, connectable: true}
}

// NewHostManager returns a Manager over the host stack.
func NewHostManager(p *HostPeripheral, opts Options) *Manager {
	opts.Type = connection.TypeHost
	return NewManager(p, opts)
}

// ID returns the address string.
func (p *HostPeripheral) ID() string {
	return p.addr.String()
}

// SetConnectable records the connectable flag of the latest advertisement.
func (p *HostPeripheral) SetConnectable(connectable bool) {
	p.mu.Lock()
	p.connectable = connectable
	p.mu.Unlock()
}

// Connect dials the peripheral and negotiates the MTU. A client left from
// an earlier link is cancelled.
func (p *HostPeripheral) Connect(ctx context.Context) error {
	client, err := p.dial(ctx, p.addr)
	if err != nil {
		return err
	}
	mtu, err := client.ExchangeMTU(ble.MaxMTU)
	if err != nil {
		mtu = 0
	}
	p.mu.Lock()
	old := p.client
	p.client = client
	p.mtu = mtu
	p.mu.Unlock()
	if old != nil && old != client {
		_ = old.CancelConnection()
	}
	return nil
}

// MTU returns the negotiated MTU of the current link, or 0.
func (p *HostPeripheral) MTU() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mtu
}

// Discover walks the remote profile.
func (p *HostPeripheral) Discover(ctx context.Context) ([]Characteristic, error) {
	client := p.currentClient()
	if client == nil {
		return nil, connection.ErrNotConnected
	}
	profile, err := client.DiscoverProfile(true)
	if err != nil {
		return nil, err
	}
	var out []Characteristic
	for _, svc := range profile.Services {
		for _, c := range svc.Characteristics {
			out = append(out, &hostCharacteristic{client: client, service: svc.UUID.String(), char: c})
		}
	}
	return out, nil
}

// Disconnect cancels the connection.
func (p *HostPeripheral) Disconnect() error {
	p.mu.Lock()
	client := p.client
	p.client = nil
	p.mtu = 0
	p.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.CancelConnection()
}

// CanReconnect reports the latest advertisement's connectable flag.
func (p *HostPeripheral) CanReconnect() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connectable
}

// Connected is false once the client reports a disconnect.
func (p *HostPeripheral) Connected() bool {
	client := p.currentClient()
	if client == nil {
		return false
	}
	select {
	case <-client.Disconnected():
		return false
	default:
		return true
	}
}

func (p *HostPeripheral) currentClient() ble.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client
}

type hostCharacteristic struct {
	client  ble.Client
	service string
	char    *ble.Characteristic
}

func (c *hostCharacteristic) ServiceUUID() string { return c.service }
func (c *hostCharacteristic) UUID() string        { return c.char.UUID.String() }

func (c *hostCharacteristic) Read() ([]byte, error) {
	return c.client.ReadCharacteristic(c.char)
}

func (c *hostCharacteristic) Write(data []byte, withoutResponse bool) error {
	return c.client.WriteCharacteristic(c.char, data, withoutResponse)
}

func (c *hostCharacteristic) Subscribe(fn func([]byte)) error {
	return c.client.Subscribe(c.char, false, func(req []byte) { fn(req) })
}

func (c *hostCharacteristic) Unsubscribe() error {
	return c.client.Unsubscribe(c.char, false)
}
