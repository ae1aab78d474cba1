package telemetry

import (
	"errors"
	"fmt"
)

var (
	ErrMissingScalar     = errors.New("missing scalar")
	ErrUnknownSensorType = errors.New("unknown sensor type")
	ErrTruncatedData     = errors.New("truncated sensor data")
	ErrInvalidRate       = errors.New("invalid sensor rate")
)

// DataErrorKind classifies a DataError.
type DataErrorKind uint8

const (
	MissingScalar DataErrorKind = iota + 1
	UnknownSensorType
	TruncatedData
)

func (k DataErrorKind) String() string {
	switch k {
	case MissingScalar:
		return "MissingScalar"
	case UnknownSensorType:
		return "UnknownSensorType"
	case TruncatedData:
		return "TruncatedData"
	default:
		return fmt.Sprintf("DataErrorKind(%d)", k)
	}
}

// DataError reports one sensor entry that could not be decoded. Its siblings
// in the same message are unaffected.
type DataError struct {
	Kind       DataErrorKind
	SensorType string // empty for UnknownSensorType
	Index      int
	Size       int
}

func (e *DataError) Error() string {
	switch e.Kind {
	case MissingScalar:
		return fmt.Sprintf("telemetry: no scalar for %s", e.SensorType)
	case UnknownSensorType:
		return fmt.Sprintf("telemetry: unknown sensor type index %d (%d bytes skipped)", e.Index, e.Size)
	default:
		return fmt.Sprintf("telemetry: %s: %d bytes for %s", e.Kind, e.Size, e.SensorType)
	}
}

func (e *DataError) Unwrap() error {
	switch e.Kind {
	case MissingScalar:
		return ErrMissingScalar
	case UnknownSensorType:
		return ErrUnknownSensorType
	case TruncatedData:
		return ErrTruncatedData
	}
	return nil
}
