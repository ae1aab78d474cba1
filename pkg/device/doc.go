// Package device turns the messages of one connection.Manager into device
// state: information, battery, sensor configuration and telemetry.
//
// A Device is connected once its link is up, every message in
// RequiredInformation has been received and the device clock is set. Until
// then ConnectionStatus reports connecting.
//
// Pool is the set of devices shared between a scanner and a relay server.
package device
