package telemetry

import "math"

// Standard atmosphere constants for the barometric formula.
const (
	seaLevelPressure    = 101325.0  // Pa
	seaLevelTemperature = 288.15    // K
	lapseRate           = 0.0065    // K/m
	gasConstant         = 8.3144598 // J/(mol·K)
	gravity             = 9.80665   // m/s²
	molarMass           = 0.0289644 // kg/mol
)

// Altitude converts a pressure in Pa to metres above sea level.
func Altitude(pressure float64) float64 {
	exponent := (gasConstant * lapseRate) / (gravity * molarMass)
	return (seaLevelTemperature / lapseRate) * (1 - math.Pow(pressure/seaLevelPressure, exponent))
}
