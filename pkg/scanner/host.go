package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-ble/ble"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/connection/bluetooth"
)

// HostScanFunc matches ble.Scan.
type HostScanFunc func(ctx context.Context, allowDup bool, h ble.AdvHandler, f ble.AdvFilter) error

// HostBackend scans through the host HCI stack. The HCI device must be
// installed with ble.SetDefaultDevice unless Scan and Dial are overridden.
type HostBackend struct {
	Scan HostScanFunc
	Dial bluetooth.Dialer

	// Options is passed to every manager created by NewManager.
	Options bluetooth.Options

	mu          sync.Mutex
	cancel      context.CancelFunc
	connectable map[string]bool
	peripherals map[string]*bluetooth.HostPeripheral
}

var _ Backend = (*HostBackend)(nil)

// NewHostBackend returns a backend over ble.Scan and ble.Dial.
func NewHostBackend(opts bluetooth.Options) *HostBackend {
	return &HostBackend{Scan: ble.Scan, Options: opts}
}

func (h *HostBackend) Type() connection.Type { return connection.TypeHost }

// Available is true once a scan function is installed.
func (h *HostBackend) Available() bool {
	return h.Scan != nil
}

func (h *HostBackend) StartScan(found func(Advertisement), done func(error)) error {
	if h.Scan == nil {
		return ErrNoScannerBackend
	}
	h.mu.Lock()
	if h.cancel != nil {
		h.mu.Unlock()
		return ErrAlreadyScanning
	}
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.mu.Unlock()

	handler := func(a ble.Advertisement) {
		adv := hostAdvertisement(a)
		h.mu.Lock()
		if h.connectable == nil {
			h.connectable = make(map[string]bool)
		}
		h.connectable[adv.ID] = a.Connectable()
		if p := h.peripherals[adv.ID]; p != nil {
			p.SetConnectable(a.Connectable())
		}
		h.mu.Unlock()
		found(adv)
	}

	go func() {
		err := h.Scan(ctx, true, handler, isBrilliantSole)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		h.mu.Lock()
		h.cancel = nil
		h.mu.Unlock()
		cancel()
		done(err)
	}()
	return nil
}

func (h *HostBackend) StopScan() error {
	h.mu.Lock()
	cancel := h.cancel
	h.mu.Unlock()
	if cancel == nil {
		return ErrNotScanning
	}
	cancel()
	return nil
}

// NewManager returns a host manager for a previously seen address. The
// peripheral is kept so later advertisements update its connectable flag.
func (h *HostBackend) NewManager(id string) (connection.Manager, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	connectable, seen := h.connectable[id]
	if !seen {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, id)
	}
	p := bluetooth.NewHostPeripheral(id, h.Dial)
	p.SetConnectable(connectable)
	if h.peripherals == nil {
		h.peripherals = make(map[string]*bluetooth.HostPeripheral)
	}
	h.peripherals[id] = p
	return bluetooth.NewHostManager(p, h.Options), nil
}

func hostAdvertisement(a ble.Advertisement) Advertisement {
	raw := make(map[string][]byte, len(a.ServiceData()))
	for _, sd := range a.ServiceData() {
		raw[sd.UUID.String()] = sd.Data
	}
	return Advertisement{
		ID:          a.Addr().String(),
		Name:        a.LocalName(),
		RSSI:        a.RSSI(),
		ServiceData: NormalizeServiceData(raw),
	}
}

// isBrilliantSole accepts advertisements carrying the main service or the
// device type service data.
func isBrilliantSole(a ble.Advertisement) bool {
	main, _ := bluetooth.ServiceUUID(bluetooth.ServiceMain)
	for _, u := range a.Services() {
		if n, ok := bluetooth.NormalizeUUID(u.String()); ok && n == main {
			return true
		}
	}
	typeKey, _ := bluetooth.NormalizeUUID(bluetooth.ServiceDataDeviceType)
	for _, sd := range a.ServiceData() {
		if n, ok := bluetooth.NormalizeUUID(sd.UUID.String()); ok && n == typeKey {
			return true
		}
	}
	return false
}
