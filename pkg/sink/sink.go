// Package sink forwards decoded telemetry from relay server devices to
// external systems.
package sink

import (
	"errors"
	"fmt"

	"github.com/brilliantsole/bs-go/pkg/telemetry"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("sink closed")

// Sink receives every sensor reading of every pooled device. Write must not
// block the caller for long; it runs on the device's message path.
type Sink interface {
	Write(deviceID string, r telemetry.Reading) error
	Close() error
}

// Fields flattens a reading value into scalar fields. Unknown values yield
// an empty map.
func Fields(r telemetry.Reading) map[string]any {
	f := make(map[string]any)
	switch v := r.Value.(type) {
	case telemetry.Vector3:
		f["x"], f["y"], f["z"] = v.X, v.Y, v.Z
	case telemetry.Quaternion:
		f["x"], f["y"], f["z"], f["w"] = v.X, v.Y, v.Z, v.W
	case telemetry.Euler:
		f["heading"], f["pitch"], f["roll"] = v.Heading, v.Pitch, v.Roll
	case telemetry.Activity:
		f["still"] = v.Still
		f["walking"] = v.Walking
		f["running"] = v.Running
		f["bicycle"] = v.Bicycle
		f["vehicle"] = v.Vehicle
		f["tilting"] = v.Tilting
	case telemetry.StepCounter:
		f["steps"] = int64(v)
	case telemetry.StepDetector:
		f["step"] = true
	case telemetry.DeviceOrientation:
		f["orientation"] = string(v)
	case telemetry.Pressure:
		f["scaled_sum"] = v.ScaledSum
		f["normalized_sum"] = v.NormalizedSum
		if v.Center != nil {
			f["center_x"], f["center_y"] = v.Center.X, v.Center.Y
		}
		if v.NormalizedCenter != nil {
			f["normalized_center_x"], f["normalized_center_y"] = v.NormalizedCenter.X, v.NormalizedCenter.Y
		}
		for i, s := range v.Sensors {
			f[fmt.Sprintf("sensor_%02d", i)] = s.Normalized
		}
	case telemetry.Barometer:
		f["pressure"], f["altitude"] = v.Pressure, v.Altitude
	}
	return f
}
