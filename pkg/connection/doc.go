// Package connection defines the transport-independent link to a device.
//
// A Manager moves through four statuses:
//
//	notConnected -> connecting -> connected -> disconnecting -> notConnected
//
// Base enforces one transition at a time. A second Connect while connecting
// is rejected with a *StateError rather than queued, and the status is left
// unchanged. Subscribers are always notified after the status has changed
// and never with a lock held.
//
// Messages whose type has no dedicated channel go through the tx tunnel.
// Base queues them, encodes them against wire.TxRxMessageTypes, and packs
// them into chunks that fit the negotiated MTU. Replies arrive on the rx
// tunnel and are split again by ParseRx.
//
// Backoff and Reconnector implement retry loops. The device and relay
// reconnect loops use NewFixedBackoff with DeviceReconnectInterval and
// RelayReconnectInterval.
package connection
