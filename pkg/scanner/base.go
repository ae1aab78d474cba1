package scanner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/brilliantsole/bs-go/pkg/device"
	"github.com/brilliantsole/bs-go/pkg/event"
)

// Config configures a Base.
type Config struct {
	// Pool receives every device this scanner connects. Required for
	// ConnectToDevice.
	Pool *device.Pool

	// DeviceConfig is used for devices created by ConnectToDevice.
	DeviceConfig device.Config

	ExpirationTimeout       time.Duration
	ExpirationCheckInterval time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

type entry struct {
	device    DiscoveredDevice
	firstSeen time.Time
	lastSeen  time.Time
}

// Base implements Scanner over a Backend.
type Base struct {
	backend Backend
	cfg     Config
	logger  *slog.Logger

	mu        sync.Mutex
	available bool
	scanning  bool
	entries   map[string]*entry
	stopSweep chan struct{}
	sweepDone chan struct{}

	availableEvents  event.Dispatcher[bool]
	scanningEvents   event.Dispatcher[bool]
	discoveredEvents event.Dispatcher[DiscoveredDevice]
	expiredEvents    event.Dispatcher[DiscoveredDevice]
}

var _ Scanner = (*Base)(nil)

// New creates a scanner over backend.
func New(backend Backend, cfg Config) *Base {
	if cfg.ExpirationTimeout <= 0 {
		cfg.ExpirationTimeout = ExpirationTimeout
	}
	if cfg.ExpirationCheckInterval <= 0 {
		cfg.ExpirationCheckInterval = ExpirationCheckInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Base{
		backend:   backend,
		cfg:       cfg,
		logger:    logger,
		available: backend != nil && backend.Available(),
		entries:   make(map[string]*entry),
	}
}

func (b *Base) IsAvailable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available
}

// SetAvailable records a change in radio availability. Scanning stops when
// the radio goes away.
func (b *Base) SetAvailable(available bool) {
	b.mu.Lock()
	changed := b.available != available
	b.available = available
	scanning := b.scanning
	b.mu.Unlock()

	if !changed {
		return
	}
	b.logger.Info("scanner availability changed", "available", available)
	b.availableEvents.Dispatch(available)
	if !available && scanning {
		_ = b.StopScan()
	}
}

func (b *Base) IsScanning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scanning
}

// StartScan clears the directory and starts the backend scan.
func (b *Base) StartScan(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	switch {
	case !b.available:
		b.mu.Unlock()
		return ErrNotAvailable
	case b.scanning:
		b.mu.Unlock()
		return ErrAlreadyScanning
	}
	b.scanning = true
	clear(b.entries)
	b.stopSweep = make(chan struct{})
	b.sweepDone = make(chan struct{})
	stop, done := b.stopSweep, b.sweepDone
	b.mu.Unlock()

	if err := b.backend.StartScan(b.onAdvertisement, b.onScanDone); err != nil {
		b.mu.Lock()
		b.scanning = false
		b.mu.Unlock()
		close(stop)
		return fmt.Errorf("starting scan: %w", err)
	}

	go b.sweep(stop, done)
	b.logger.Info("scan started")
	b.scanningEvents.Dispatch(true)
	return nil
}

// StopScan stops the backend scan.
func (b *Base) StopScan() error {
	if !b.endScan() {
		return ErrNotScanning
	}
	err := b.backend.StopScan()
	b.logger.Info("scan stopped")
	b.scanningEvents.Dispatch(false)
	if err != nil {
		return fmt.Errorf("stopping scan: %w", err)
	}
	return nil
}

// endScan flips scanning off and stops the sweep. It reports whether a scan
// was running.
func (b *Base) endScan() bool {
	b.mu.Lock()
	if !b.scanning {
		b.mu.Unlock()
		return false
	}
	b.scanning = false
	stop, done := b.stopSweep, b.sweepDone
	b.stopSweep, b.sweepDone = nil, nil
	b.mu.Unlock()

	close(stop)
	<-done
	return true
}

func (b *Base) onScanDone(err error) {
	if !b.endScan() {
		return
	}
	if err != nil {
		b.logger.Warn("scan ended", "error", err)
	}
	b.scanningEvents.Dispatch(false)
}

func (b *Base) onAdvertisement(adv Advertisement) {
	if adv.ID == "" {
		return
	}
	d := DiscoveredDevice{BluetoothID: adv.ID, Name: adv.Name, RSSI: adv.RSSI}
	if t, ok := ParseDeviceType(adv.ServiceData); ok {
		d.DeviceType = t
	}
	now := b.cfg.Now()

	b.mu.Lock()
	if !b.scanning {
		b.mu.Unlock()
		return
	}
	e, ok := b.entries[adv.ID]
	if !ok {
		e = &entry{firstSeen: now}
		b.entries[adv.ID] = e
	}
	// Scan responses often omit the name.
	if d.Name == "" {
		d.Name = e.device.Name
	}
	if d.DeviceType == "" {
		d.DeviceType = e.device.DeviceType
	}
	e.device = d
	e.lastSeen = now
	b.mu.Unlock()

	b.discoveredEvents.Dispatch(d)
}

func (b *Base) sweep(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(b.cfg.ExpirationCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.expire()
		}
	}
}

// expire removes entries that have not advertised within the timeout.
func (b *Base) expire() {
	now := b.cfg.Now()
	var expired []DiscoveredDevice

	b.mu.Lock()
	for id, e := range b.entries {
		if now.Sub(e.lastSeen) > b.cfg.ExpirationTimeout {
			expired = append(expired, e.device)
			delete(b.entries, id)
		}
	}
	b.mu.Unlock()

	for _, d := range expired {
		b.logger.Debug("discovered device expired", "device", d.BluetoothID)
		b.expiredEvents.Dispatch(d)
	}
}

// DiscoveredDevices returns the directory ordered by first sighting.
func (b *Base) DiscoveredDevices() []DiscoveredDevice {
	b.mu.Lock()
	entries := make([]*entry, 0, len(b.entries))
	for _, e := range b.entries {
		entries = append(entries, e)
	}
	b.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].firstSeen.Before(entries[j].firstSeen)
	})
	out := make([]DiscoveredDevice, len(entries))
	for i, e := range entries {
		out[i] = e.device
	}
	return out
}

// DiscoveredDevice returns one directory entry.
func (b *Base) DiscoveredDevice(id string) (DiscoveredDevice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	if !ok {
		return DiscoveredDevice{}, false
	}
	return e.device, true
}

// ConnectToDevice reconnects a pooled device with the same id and type, or
// creates and connects a new one.
func (b *Base) ConnectToDevice(ctx context.Context, id string) (*device.Device, error) {
	if !b.IsAvailable() {
		return nil, ErrNotAvailable
	}
	if b.cfg.Pool == nil {
		return nil, fmt.Errorf("connecting %s: no device pool", id)
	}

	if d, ok := b.cfg.Pool.Get(id); ok {
		if t, ok := d.ConnectionType(); ok && t == b.backend.Type() && d.CanReconnect() {
			b.logger.Info("reconnecting known device", "device", id)
			return d, d.Reconnect(ctx)
		}
	}

	discovered, ok := b.DiscoveredDevice(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, id)
	}
	m, err := b.backend.NewManager(id)
	if err != nil {
		return nil, fmt.Errorf("connecting %s: %w", id, err)
	}

	d := device.NewWithManager(m, b.cfg.DeviceConfig)
	d.ApplyAdvertisement(discovered.Name, discovered.DeviceType)
	b.cfg.Pool.Add(d)

	b.logger.Info("connecting device", "device", id, "name", discovered.Name)
	if err := d.Connect(ctx); err != nil {
		return d, err
	}
	return d, nil
}

func (b *Base) OnIsAvailable(fn func(bool)) func() {
	return b.availableEvents.Subscribe(fn)
}

func (b *Base) OnIsScanning(fn func(bool)) func() {
	return b.scanningEvents.Subscribe(fn)
}

func (b *Base) OnDiscoveredDevice(fn func(DiscoveredDevice)) func() {
	return b.discoveredEvents.Subscribe(fn)
}

func (b *Base) OnExpiredDiscoveredDevice(fn func(DiscoveredDevice)) func() {
	return b.expiredEvents.Subscribe(fn)
}
