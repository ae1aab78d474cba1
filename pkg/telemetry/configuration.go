package telemetry

import (
	"encoding/binary"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/brilliantsole/bs-go/pkg/wire"
)

const (
	// SensorRateStep is the granularity of a sensor rate in ms.
	SensorRateStep = 5

	// MaxSensorRate is the exclusive upper bound of a sensor rate.
	MaxSensorRate = 1<<16 - 1

	configurationEntrySize = 3
)

// SensorConfiguration maps a sensor type to its sampling interval in ms.
// A zero interval disables the sensor.
type SensorConfiguration map[string]uint16

// ParseSensorConfiguration reads [u8 sensor type][u16LE rate] entries.
// Unknown sensor types are skipped.
func ParseSensorConfiguration(data []byte) (SensorConfiguration, error) {
	if len(data)%configurationEntrySize != 0 {
		return nil, fmt.Errorf("%w: %d bytes of sensor configuration", ErrTruncatedData, len(data))
	}
	cfg := make(SensorConfiguration)
	for off := 0; off < len(data); off += configurationEntrySize {
		name, ok := wire.SensorTypes.TypeName(int(data[off]))
		if !ok {
			continue
		}
		cfg[name] = binary.LittleEndian.Uint16(data[off+1:])
	}
	return cfg, nil
}

// ValidateRate checks that rate is a multiple of SensorRateStep below
// MaxSensorRate.
func ValidateRate(rate int) error {
	if rate < 0 || rate >= MaxSensorRate {
		return fmt.Errorf("%w: %d out of range [0, %d)", ErrInvalidRate, rate, MaxSensorRate)
	}
	if rate%SensorRateStep != 0 {
		return fmt.Errorf("%w: %d is not a multiple of %d", ErrInvalidRate, rate, SensorRateStep)
	}
	return nil
}

// EncodeSensorConfiguration validates cfg and encodes it in SensorTypes
// order. With clearRest, every sensor type cfg does not name is set to 0.
// available, when non-nil, restricts cfg to the sensors the device reported;
// others are dropped.
func EncodeSensorConfiguration(cfg SensorConfiguration, clearRest bool, available SensorConfiguration) ([]byte, error) {
	if clearRest {
		merged := ZeroSensorConfiguration()
		maps.Copy(merged, cfg)
		cfg = merged
	}

	out := make([]byte, 0, len(cfg)*configurationEntrySize)
	for _, name := range sortedSensorTypes(cfg) {
		idx, ok := wire.SensorTypes.Index(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSensorType, name)
		}
		if available != nil {
			if _, ok := available[name]; !ok {
				continue
			}
		}
		rate := cfg[name]
		if err := ValidateRate(int(rate)); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, byte(idx))
		out = binary.LittleEndian.AppendUint16(out, rate)
	}
	return out, nil
}

// IsRedundant reports whether applying requested to current would change
// nothing.
func IsRedundant(current, requested SensorConfiguration) bool {
	for name, rate := range requested {
		have, ok := current[name]
		if !ok || have != rate {
			return false
		}
	}
	return true
}

// ZeroSensorConfiguration returns a configuration disabling every sensor.
func ZeroSensorConfiguration() SensorConfiguration {
	cfg := make(SensorConfiguration, wire.SensorTypes.Len())
	for _, name := range wire.SensorTypes.Names() {
		cfg[name] = 0
	}
	return cfg
}

// sortedSensorTypes orders the keys of cfg by wire index, unknown names last.
func sortedSensorTypes(cfg SensorConfiguration) []string {
	names := slices.Collect(maps.Keys(cfg))
	slices.SortFunc(names, func(a, b string) int {
		ia, oka := wire.SensorTypes.Index(a)
		ib, okb := wire.SensorTypes.Index(b)
		switch {
		case !oka && !okb:
			return strings.Compare(a, b)
		case !oka:
			return 1
		case !okb:
			return -1
		}
		return ia - ib
	})
	return names
}
