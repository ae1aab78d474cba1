package connection

import (
	"context"

	"github.com/brilliantsole/bs-go/pkg/wire"
)

// Manager is one logical link to a device, independent of transport.
type Manager interface {
	Type() Type
	BluetoothID() string
	Status() Status
	IsConnected() bool
	CanReconnect() bool

	// MTU is the negotiated tx chunk budget plus the 3-byte ATT header.
	// Zero means unknown.
	MTU() int
	SetMTU(mtu int)

	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Reconnect(ctx context.Context) error

	SendSmpMessage(ctx context.Context, data []byte) error

	// SendTxMessages queues msgs and, when sendImmediately is set, flushes
	// the queue through the tx tunnel.
	SendTxMessages(ctx context.Context, msgs []wire.Message, sendImmediately bool) error

	// SendTxData writes an already encoded TxRx blob to the tx tunnel.
	SendTxData(ctx context.Context, data []byte) error

	OnStatus(fn func(Status)) (unsubscribe func())
	OnMessage(fn func(typ string, data []byte)) (unsubscribe func())
}
