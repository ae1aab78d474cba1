// Package relay shares devices over a websocket.
//
// A Server owns the real devices through a scanner.Scanner and a
// device.Pool and broadcasts their events to every socket. A Client mirrors
// those devices: each one is a device.Device over a ClientManager, so
// application code sees the same API whether the peripheral is local or
// relayed.
//
// Frames are TLV messages over wire.ServerMessageTypes. A deviceMessage
// carries a length-prefixed bluetooth id followed by a nested TLV blob: over
// wire.DeviceEventTypes from the server, over wire.ConnectionMessageTypes
// from the client.
package relay
