package telemetry

import (
	"time"

	"github.com/brilliantsole/bs-go/pkg/wire"
)

// Reading is one decoded sensor sample.
type Reading struct {
	SensorType string
	Timestamp  time.Time

	// Value is one of Vector3, Quaternion, Euler, Activity, StepCounter,
	// StepDetector, DeviceOrientation, Pressure or Barometer.
	Value any
}

type Vector3 struct {
	X, Y, Z float64
}

type Quaternion struct {
	X, Y, Z, W float64
}

// Euler angles in degrees. Heading and pitch are already sign corrected.
type Euler struct {
	Heading, Pitch, Roll float64
}

// Activity is the device's activity classifier bitfield.
type Activity struct {
	Still   bool
	Walking bool
	Running bool
	Bicycle bool
	Vehicle bool
	Tilting bool
}

func parseActivity(b byte) Activity {
	bit := func(i uint) bool { return b&(1<<i) != 0 }
	return Activity{
		Still:   bit(0),
		Walking: bit(1),
		Running: bit(2),
		Bicycle: bit(3),
		Vehicle: bit(4),
		Tilting: bit(5),
	}
}

type StepCounter uint32

type StepDetector struct{}

type DeviceOrientation string

const (
	PortraitUpright    DeviceOrientation = "portraitUpright"
	LandscapeLeft      DeviceOrientation = "landscapeLeft"
	PortraitUpsideDown DeviceOrientation = "portraitUpsideDown"
	LandscapeRight     DeviceOrientation = "landscapeRight"
	OrientationUnknown DeviceOrientation = "unknown"
)

var deviceOrientations = []DeviceOrientation{
	PortraitUpright, LandscapeLeft, PortraitUpsideDown, LandscapeRight, OrientationUnknown,
}

func parseDeviceOrientation(b byte) DeviceOrientation {
	if int(b) < len(deviceOrientations) {
		return deviceOrientations[b]
	}
	return OrientationUnknown
}

// Vector2 is a position or center of pressure in the unit square.
type Vector2 struct {
	X, Y float64
}

// PressureSensor is one cell of a pressure reading.
type PressureSensor struct {
	Position   Vector2
	Raw        uint16
	Scaled     float64
	Normalized float64
	Weighted   float64
}

// Pressure is a full pressure reading. Center and NormalizedCenter are nil
// when no load is registered.
type Pressure struct {
	Sensors          []PressureSensor
	ScaledSum        float64
	NormalizedSum    float64
	Center           *Vector2
	NormalizedCenter *Vector2
}

type Barometer struct {
	Pressure float64 // Pa
	Altitude float64 // m
}

type sensorKind uint8

const (
	kindVector3 sensorKind = iota
	kindQuaternion
	kindEuler
	kindActivity
	kindStepCounter
	kindStepDetector
	kindDeviceOrientation
	kindPressure
	kindBarometer
)

var sensorKinds = map[string]sensorKind{
	wire.SensorAcceleration:       kindVector3,
	wire.SensorGravity:            kindVector3,
	wire.SensorLinearAcceleration: kindVector3,
	wire.SensorGyroscope:          kindVector3,
	wire.SensorMagnetometer:       kindVector3,
	wire.SensorGameRotation:       kindQuaternion,
	wire.SensorRotation:           kindQuaternion,
	wire.SensorOrientation:        kindEuler,
	wire.SensorActivity:           kindActivity,
	wire.SensorStepCounter:        kindStepCounter,
	wire.SensorStepDetector:       kindStepDetector,
	wire.SensorDeviceOrientation:  kindDeviceOrientation,
	wire.SensorPressure:           kindPressure,
	wire.SensorBarometer:          kindBarometer,
}

func (k sensorKind) needsScalar() bool {
	switch k {
	case kindVector3, kindQuaternion, kindEuler, kindPressure, kindBarometer:
		return true
	}
	return false
}

// NeedsScalar reports whether readings of sensorType are scaled.
func NeedsScalar(sensorType string) bool {
	k, ok := sensorKinds[sensorType]
	return ok && k.needsScalar()
}
