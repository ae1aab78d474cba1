package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brilliantsole/bs-go/pkg/device"
)

// ErrNotFound is returned by Get for an unknown device.
var ErrNotFound = errors.New("device not known")

// KnownDevice is one row of the directory.
type KnownDevice struct {
	BluetoothID      string
	Name             string
	Type             device.DeviceType
	ConnectionType   string
	SerialNumber     string
	FirmwareRevision string

	FirstSeen     time.Time
	LastConnected time.Time
}

// Store provides SQLite persistence for known devices.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the database at path. Use ":memory:" for an
// in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS known_devices (
		bluetooth_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		device_type TEXT NOT NULL DEFAULT '',
		connection_type TEXT NOT NULL DEFAULT '',
		serial_number TEXT NOT NULL DEFAULT '',
		firmware_revision TEXT NOT NULL DEFAULT '',
		first_seen DATETIME NOT NULL,
		last_connected DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_known_devices_last_connected ON known_devices(last_connected);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Remember inserts or updates k. FirstSeen of an existing row is kept.
func (s *Store) Remember(k KnownDevice) error {
	if k.BluetoothID == "" {
		return fmt.Errorf("remember: empty bluetooth id")
	}
	if k.FirstSeen.IsZero() {
		k.FirstSeen = k.LastConnected
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO known_devices (bluetooth_id, name, device_type, connection_type,
			serial_number, firmware_revision, first_seen, last_connected)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bluetooth_id) DO UPDATE SET
			name = excluded.name,
			device_type = excluded.device_type,
			connection_type = excluded.connection_type,
			serial_number = excluded.serial_number,
			firmware_revision = excluded.firmware_revision,
			last_connected = excluded.last_connected
	`, k.BluetoothID, k.Name, string(k.Type), k.ConnectionType,
		k.SerialNumber, k.FirmwareRevision, k.FirstSeen.UTC(), k.LastConnected.UTC())
	return err
}

// Get retrieves a device by bluetooth id.
func (s *Store) Get(id string) (KnownDevice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k, err := scanKnown(s.db.QueryRow(`
		SELECT bluetooth_id, name, device_type, connection_type, serial_number,
		       firmware_revision, first_seen, last_connected
		FROM known_devices WHERE bluetooth_id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return KnownDevice{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return k, err
}

// List returns every known device, most recently connected first.
func (s *Store) List() ([]KnownDevice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT bluetooth_id, name, device_type, connection_type, serial_number,
		       firmware_revision, first_seen, last_connected
		FROM known_devices
		ORDER BY last_connected DESC, bluetooth_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []KnownDevice
	for rows.Next() {
		k, err := scanKnown(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// Forget deletes a device. Forgetting an unknown device is not an error.
func (s *Store) Forget(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM known_devices WHERE bluetooth_id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanKnown(row scanner) (KnownDevice, error) {
	var k KnownDevice
	var typ string
	if err := row.Scan(&k.BluetoothID, &k.Name, &typ, &k.ConnectionType, &k.SerialNumber,
		&k.FirmwareRevision, &k.FirstSeen, &k.LastConnected); err != nil {
		return KnownDevice{}, err
	}
	k.Type = device.DeviceType(typ)
	return k, nil
}

// FromDevice snapshots d as a directory row connected at now.
func FromDevice(d *device.Device, now time.Time) KnownDevice {
	info := d.Information()
	di := d.DeviceInformation()
	k := KnownDevice{
		BluetoothID:      d.BluetoothID(),
		Name:             info.Name,
		Type:             info.Type,
		SerialNumber:     di.SerialNumber,
		FirmwareRevision: di.FirmwareRevision,
		LastConnected:    now,
	}
	if t, ok := d.ConnectionType(); ok {
		k.ConnectionType = t.String()
	}
	return k
}

// Track remembers every pool device when it becomes connected. The returned
// func stops tracking.
func (s *Store) Track(pool *device.Pool, now func() time.Time, logger *slog.Logger) func() {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return pool.OnDeviceIsConnected(func(d *device.Device) {
		if !d.IsConnected() {
			return
		}
		if err := s.Remember(FromDevice(d, now())); err != nil {
			logger.Warn("failed to remember device", "device", d.BluetoothID(), "error", err)
		}
	})
}
