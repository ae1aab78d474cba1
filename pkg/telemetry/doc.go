// Package telemetry decodes sensor messages from a device into typed
// readings.
//
// A Decoder is fed the payloads of getSensorScalars, getPressurePositions
// and sensorData in arrival order. Readings are dispatched under their sensor
// type and again under sensorData. A reading whose sensor type needs a scalar
// is never decoded before the device has reported that scalar.
package telemetry
