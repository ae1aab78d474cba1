package scanner

import (
	"fmt"
	"sync"

	tinyble "tinygo.org/x/bluetooth"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/connection/bluetooth"
)

// NativeBackend scans through the platform stack.
type NativeBackend struct {
	adapter *tinyble.Adapter
	links   *bluetooth.NativeLinks
	opts    bluetooth.Options

	mu        sync.Mutex
	scanning  bool
	addresses map[string]tinyble.Address
}

var _ Backend = (*NativeBackend)(nil)

// NewNativeBackend returns a backend over adapter. The adapter must be
// enabled. The backend takes over the adapter's connect handler.
func NewNativeBackend(adapter *tinyble.Adapter, opts bluetooth.Options) *NativeBackend {
	n := &NativeBackend{adapter: adapter, opts: opts, addresses: make(map[string]tinyble.Address)}
	if adapter != nil {
		n.links = bluetooth.NewNativeLinks(adapter)
	}
	return n
}

func (n *NativeBackend) Type() connection.Type { return connection.TypeNative }

func (n *NativeBackend) Available() bool {
	return n.adapter != nil
}

// StartScan runs the blocking adapter scan on its own goroutine.
func (n *NativeBackend) StartScan(found func(Advertisement), done func(error)) error {
	if n.adapter == nil {
		return ErrNoScannerBackend
	}
	n.mu.Lock()
	if n.scanning {
		n.mu.Unlock()
		return ErrAlreadyScanning
	}
	n.scanning = true
	n.mu.Unlock()

	go func() {
		err := n.adapter.Scan(func(_ *tinyble.Adapter, r tinyble.ScanResult) {
			adv, ok := nativeAdvertisement(r)
			if !ok {
				return
			}
			n.mu.Lock()
			n.addresses[adv.ID] = r.Address
			n.mu.Unlock()
			found(adv)
		})
		n.mu.Lock()
		n.scanning = false
		n.mu.Unlock()
		done(err)
	}()
	return nil
}

func (n *NativeBackend) StopScan() error {
	n.mu.Lock()
	scanning := n.scanning
	n.mu.Unlock()
	if !scanning {
		return ErrNotScanning
	}
	return n.adapter.StopScan()
}

func (n *NativeBackend) NewManager(id string) (connection.Manager, error) {
	n.mu.Lock()
	addr, ok := n.addresses[id]
	n.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, id)
	}
	p := bluetooth.NewNativePeripheral(n.adapter, addr)
	n.links.Track(p)
	return bluetooth.NewNativeManager(p, n.opts), nil
}

func nativeAdvertisement(r tinyble.ScanResult) (Advertisement, bool) {
	raw := make(map[string][]byte)
	for _, sd := range r.ServiceData() {
		raw[sd.UUID.String()] = sd.Data
	}
	data := NormalizeServiceData(raw)

	main, _ := bluetooth.ServiceUUID(bluetooth.ServiceMain)
	mainUUID, err := tinyble.ParseUUID(main)
	relevant := err == nil && r.HasServiceUUID(mainUUID)
	if _, ok := ParseDeviceType(data); ok {
		relevant = true
	}
	if !relevant {
		return Advertisement{}, false
	}
	return Advertisement{
		ID:          r.Address.String(),
		Name:        r.LocalName(),
		RSSI:        int(r.RSSI),
		ServiceData: data,
	}, true
}
