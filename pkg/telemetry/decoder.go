package telemetry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/brilliantsole/bs-go/pkg/event"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

// scalarEntrySize is [u8 sensor type][f32LE scalar].
const scalarEntrySize = 5

// Config configures a Decoder.
type Config struct {
	Logger *slog.Logger

	// Now returns the local clock used to widen 16-bit device timestamps.
	// Defaults to time.Now.
	Now func() time.Time
}

// Decoder turns sensor messages from one device into Readings. It is safe
// for concurrent use, but callers should feed it in arrival order.
type Decoder struct {
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	scalars  map[string]float64
	pressure *pressureState

	readings event.Bus[string, Reading]
}

// NewDecoder creates a Decoder with no scalars.
func NewDecoder(cfg Config) *Decoder {
	d := &Decoder{
		logger:   cfg.Logger,
		now:      cfg.Now,
		scalars:  make(map[string]float64),
		pressure: newPressureState(),
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// OnReading subscribes fn to readings of sensorType. Subscribing to
// wire.MsgSensorData receives every reading.
func (d *Decoder) OnReading(sensorType string, fn func(Reading)) (unsubscribe func()) {
	return d.readings.Subscribe(sensorType, fn)
}

// Handles reports whether typ is a message ParseMessage understands.
func Handles(typ string) bool {
	return wire.SensorDataMessageTypes.Contains(typ)
}

// ParseMessage consumes one getSensorScalars, getPressurePositions or
// sensorData payload. Entries that cannot be decoded are skipped and returned
// joined; every decodable sibling is still applied.
func (d *Decoder) ParseMessage(typ string, data []byte) error {
	switch typ {
	case wire.MsgGetSensorScalars:
		return d.parseScalars(data)
	case wire.MsgGetPressurePositions:
		return d.parsePositions(data)
	case wire.MsgSensorData:
		return d.parseSensorData(data)
	default:
		return fmt.Errorf("telemetry: unhandled message type %q", typ)
	}
}

func (d *Decoder) parseScalars(data []byte) error {
	var errs []error
	parsed := make(map[string]float64)
	for off := 0; off < len(data); off += scalarEntrySize {
		if off+scalarEntrySize > len(data) {
			errs = append(errs, fmt.Errorf("%w: %d trailing scalar bytes", ErrTruncatedData, len(data)-off))
			break
		}
		idx := int(data[off])
		name, ok := wire.SensorTypes.TypeName(idx)
		if !ok {
			d.logger.Warn("unknown sensor type in scalars", "index", idx)
			errs = append(errs, &DataError{Kind: UnknownSensorType, Index: idx, Size: scalarEntrySize - 1})
			continue
		}
		parsed[name] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off+1:])))
	}

	d.mu.Lock()
	for name, s := range parsed {
		d.scalars[name] = s
	}
	d.mu.Unlock()
	d.logger.Debug("sensor scalars", "count", len(parsed))
	return errors.Join(errs...)
}

func (d *Decoder) parsePositions(data []byte) error {
	positions, err := parsePositions(data)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.pressure.setPositions(positions)
	d.mu.Unlock()
	d.logger.Debug("pressure positions", "count", len(positions))
	return nil
}

func (d *Decoder) parseSensorData(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("%w: sensorData without timestamp", ErrTruncatedData)
	}
	ts := d.timestamp(binary.LittleEndian.Uint16(data))

	var errs []error
	var readings []Reading
	err := wire.Scan(wire.SensorTypes, data[2:], func(idx int, payload []byte, _ bool) error {
		name, ok := wire.SensorTypes.TypeName(idx)
		if !ok {
			errs = append(errs, &DataError{Kind: UnknownSensorType, Index: idx, Size: len(payload)})
			return nil
		}
		value, err := d.decode(name, payload)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		readings = append(readings, Reading{SensorType: name, Timestamp: ts, Value: value})
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}

	// Dispatch outside the lock taken by decode.
	for _, r := range readings {
		d.readings.Dispatch(r.SensorType, r)
		d.readings.Dispatch(wire.MsgSensorData, r)
	}

	if joined := errors.Join(errs...); joined != nil {
		d.logger.Warn("skipped sensor data", "error", joined)
		return joined
	}
	return nil
}

// timestamp widens a 16-bit millisecond counter using the local clock.
func (d *Decoder) timestamp(low uint16) time.Time {
	now := d.now().UnixMilli()
	return time.UnixMilli(now&^0xFFFF + int64(low))
}

func (d *Decoder) decode(name string, data []byte) (any, error) {
	kind := sensorKinds[name]

	d.mu.Lock()
	defer d.mu.Unlock()

	scalar, ok := d.scalars[name]
	if kind.needsScalar() && !ok {
		return nil, &DataError{Kind: MissingScalar, SensorType: name, Size: len(data)}
	}
	short := func(want int) error {
		if len(data) < want {
			return &DataError{Kind: TruncatedData, SensorType: name, Size: len(data)}
		}
		return nil
	}
	i16 := func(i int) float64 {
		return float64(int16(binary.LittleEndian.Uint16(data[2*i:]))) * scalar
	}

	switch kind {
	case kindVector3:
		if err := short(6); err != nil {
			return nil, err
		}
		return Vector3{X: i16(0), Y: i16(1), Z: i16(2)}, nil
	case kindQuaternion:
		if err := short(8); err != nil {
			return nil, err
		}
		return Quaternion{X: i16(0), Y: i16(1), Z: i16(2), W: i16(3)}, nil
	case kindEuler:
		if err := short(6); err != nil {
			return nil, err
		}
		return Euler{Heading: -i16(0), Pitch: -i16(1), Roll: i16(2)}, nil
	case kindActivity:
		if err := short(1); err != nil {
			return nil, err
		}
		return parseActivity(data[0]), nil
	case kindStepCounter:
		if err := short(4); err != nil {
			return nil, err
		}
		return StepCounter(binary.LittleEndian.Uint32(data)), nil
	case kindStepDetector:
		return StepDetector{}, nil
	case kindDeviceOrientation:
		if err := short(1); err != nil {
			return nil, err
		}
		return parseDeviceOrientation(data[0]), nil
	case kindPressure:
		return d.pressure.parse(data, scalar)
	case kindBarometer:
		if err := short(4); err != nil {
			return nil, err
		}
		p := float64(binary.LittleEndian.Uint32(data)) * scalar
		return Barometer{Pressure: p, Altitude: Altitude(p)}, nil
	}
	return nil, fmt.Errorf("telemetry: no decoder for %s", name)
}

// Scalars returns a copy of the scalars received so far.
func (d *Decoder) Scalars() map[string]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]float64, len(d.scalars))
	for k, v := range d.scalars {
		out[k] = v
	}
	return out
}

// PressurePositions returns the sensor positions from the last
// getPressurePositions message.
func (d *Decoder) PressurePositions() []Vector2 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Vector2(nil), d.pressure.positions...)
}

// Reset forgets scalars and pressure calibration. Call it before the device
// is reconnected.
func (d *Decoder) Reset() {
	d.mu.Lock()
	clear(d.scalars)
	d.pressure.reset()
	d.mu.Unlock()
}

// ResetPressureRange restarts the per-sensor and center of pressure ranges.
func (d *Decoder) ResetPressureRange() {
	d.mu.Lock()
	d.pressure.reset()
	d.mu.Unlock()
}
