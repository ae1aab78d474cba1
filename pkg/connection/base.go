package connection

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brilliantsole/bs-go/pkg/event"
	"github.com/brilliantsole/bs-go/pkg/log"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

// WatchdogInterval is how often a connected link is checked.
const WatchdogInterval = 5 * time.Second

// ATTHeaderSize is subtracted from the MTU to get the tx chunk budget.
const ATTHeaderSize = 3

// TxWriter writes one tx chunk to the transport.
type TxWriter func(ctx context.Context, data []byte) error

// LinkChecker reports whether the underlying link is still up.
type LinkChecker func() bool

// BaseConfig configures a Base.
type BaseConfig struct {
	Type        Type
	BluetoothID string

	// TxWriter receives encoded TxRx chunks. Required for SendTxMessages.
	TxWriter TxWriter

	// LinkChecker is polled every WatchdogInterval while connected.
	// Nil disables the watchdog.
	LinkChecker      LinkChecker
	WatchdogInterval time.Duration

	// Logger for operational messages. Nil disables.
	Logger *slog.Logger

	// ProtocolLogger receives capture events. Nil disables.
	ProtocolLogger log.Logger
}

// Base carries the state every Manager shares: the status guard, event
// dispatch and tx batching. Implementations embed it and call Init.
type Base struct {
	typ      Type
	connID   string
	txWriter TxWriter
	checker  LinkChecker
	interval time.Duration
	logger   *slog.Logger
	protoLog log.Logger

	mu           sync.Mutex
	status       Status
	bluetoothID  string
	mtu          int
	pending      []wire.Message
	watchdogStop chan struct{}

	// sendMu orders flushes so chunks reach the writer in send order.
	sendMu sync.Mutex

	statusEvents  event.Dispatcher[Status]
	messageEvents event.Dispatcher[wire.Message]
}

// Init must be called before the Base is used.
func (b *Base) Init(cfg BaseConfig) {
	b.typ = cfg.Type
	b.bluetoothID = cfg.BluetoothID
	b.txWriter = cfg.TxWriter
	b.checker = cfg.LinkChecker
	b.interval = cfg.WatchdogInterval
	if b.interval <= 0 {
		b.interval = WatchdogInterval
	}
	b.logger = cfg.Logger
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b.protoLog = cfg.ProtocolLogger
	b.connID = uuid.NewString()
}

// Type returns the transport type.
func (b *Base) Type() Type { return b.typ }

// ConnectionID is a per-manager UUID used in capture events.
func (b *Base) ConnectionID() string { return b.connID }

// Logger returns the operational logger (never nil after Init).
func (b *Base) Logger() *slog.Logger { return b.logger }

// ProtocolLogger returns the capture logger, possibly nil.
func (b *Base) ProtocolLogger() log.Logger { return b.protoLog }

// BluetoothID returns the device id this manager is bound to.
func (b *Base) BluetoothID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bluetoothID
}

// SetBluetoothID sets the device id, for transports that learn it late.
func (b *Base) SetBluetoothID(id string) {
	b.mu.Lock()
	b.bluetoothID = id
	b.mu.Unlock()
}

// Status returns the current status.
func (b *Base) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// IsConnected reports whether the status is connected.
func (b *Base) IsConnected() bool {
	return b.Status() == StatusConnected
}

// MTU returns the negotiated MTU, or 0 when unknown.
func (b *Base) MTU() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mtu
}

// SetMTU records the negotiated MTU. Values at or below the ATT header
// size are treated as unknown.
func (b *Base) SetMTU(mtu int) {
	if mtu <= ATTHeaderSize {
		mtu = 0
	}
	b.mu.Lock()
	b.mtu = mtu
	b.mu.Unlock()
	b.logger.Debug("mtu updated", "device", b.BluetoothID(), "mtu", mtu)
}

// OnStatus subscribes to status changes.
func (b *Base) OnStatus(fn func(Status)) func() {
	return b.statusEvents.Subscribe(fn)
}

// OnMessage subscribes to received messages.
func (b *Base) OnMessage(fn func(typ string, data []byte)) func() {
	return b.messageEvents.Subscribe(func(m wire.Message) {
		fn(m.Type, m.Data)
	})
}

// BeginConnect moves notConnected to connecting, or rejects.
func (b *Base) BeginConnect() error {
	return b.begin("connect", true)
}

// BeginReconnect is BeginConnect that also requires canReconnect.
func (b *Base) BeginReconnect(canReconnect bool) error {
	if !canReconnect {
		return &StateError{Op: "reconnect", Status: b.Status(), Err: ErrCannotReconnect}
	}
	return b.begin("reconnect", true)
}

// BeginDisconnect moves connecting or connected to disconnecting, or
// rejects. Disconnect during connecting is how callers abort a connect.
func (b *Base) BeginDisconnect() error {
	return b.begin("disconnect", false)
}

func (b *Base) begin(op string, connecting bool) error {
	b.mu.Lock()
	old := b.status
	var reject error
	switch {
	case connecting && old == StatusConnected:
		reject = ErrAlreadyConnected
	case connecting && old == StatusConnecting:
		reject = ErrAlreadyConnecting
	case old == StatusDisconnecting:
		reject = ErrAlreadyDisconnecting
	case !connecting && old == StatusNotConnected:
		reject = ErrNotConnected
	}
	if reject != nil {
		b.mu.Unlock()
		return &StateError{Op: op, Status: old, Err: reject}
	}

	next := StatusDisconnecting
	if connecting {
		next = StatusConnecting
	}
	b.status = next
	b.mu.Unlock()

	b.afterTransition(old, next)
	return nil
}

// SetStatus moves to s and notifies subscribers after the mutation.
// Setting the current status again is a no-op.
func (b *Base) SetStatus(s Status) {
	b.setStatus(nil, s)
}

// CompareAndSetStatus moves to next only if the status is still from.
// Connect sequences use it so a concurrent Disconnect wins.
func (b *Base) CompareAndSetStatus(from, next Status) bool {
	return b.setStatus(&from, next)
}

func (b *Base) setStatus(from *Status, s Status) bool {
	b.mu.Lock()
	old := b.status
	if from != nil && old != *from {
		b.mu.Unlock()
		return false
	}
	if old == s {
		id := b.bluetoothID
		b.mu.Unlock()
		b.logger.Debug("redundant connection status", "device", id, "status", s)
		return true
	}
	b.status = s
	if s == StatusNotConnected {
		b.mtu = 0
		b.pending = nil
	}
	b.mu.Unlock()

	b.afterTransition(old, s)
	return true
}

// Fail rolls the status back to notConnected and wraps err.
func (b *Base) Fail(op string, err error) error {
	b.SetStatus(StatusNotConnected)
	log.Emit(b.protoLog, log.Event{
		ConnectionID: b.connID,
		DeviceID:     b.BluetoothID(),
		Layer:        log.LayerTransport,
		Category:     log.CategoryError,
		Error:        &log.ErrorEvent{Layer: log.LayerTransport, Message: err.Error(), Context: op},
	})
	return &TransportError{Op: op, Err: err}
}

func (b *Base) afterTransition(old, next Status) {
	id := b.BluetoothID()
	b.logger.Debug("connection status", "device", id, "from", old, "to", next)
	log.Emit(b.protoLog, log.Event{
		ConnectionID: b.connID,
		DeviceID:     id,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: old.String(),
			NewState: next.String(),
		},
	})

	if next == StatusConnected {
		b.startWatchdog()
	} else {
		b.stopWatchdog()
	}
	b.statusEvents.Dispatch(next)
}

func (b *Base) startWatchdog() {
	if b.checker == nil {
		return
	}
	b.mu.Lock()
	if b.watchdogStop != nil {
		b.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	b.watchdogStop = stop
	b.mu.Unlock()

	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if b.Status() != StatusConnected {
					continue
				}
				if !b.checker() {
					b.logger.Warn("link lost", "device", b.BluetoothID())
					b.SetStatus(StatusNotConnected)
					return
				}
			}
		}
	}()
}

func (b *Base) stopWatchdog() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.watchdogStop != nil {
		close(b.watchdogStop)
		b.watchdogStop = nil
	}
}

// SendTxMessages queues msgs and flushes the queue when sendImmediately is
// set. Messages are encoded against TxRxMessageTypes and packed greedily
// into chunks of at most MTU-3 bytes.
func (b *Base) SendTxMessages(ctx context.Context, msgs []wire.Message, sendImmediately bool) error {
	for _, m := range msgs {
		if !wire.TxRxMessageTypes.Contains(m.Type) {
			return fmt.Errorf("%w: %q is not a tx message", wire.ErrInvalidMessageType, m.Type)
		}
	}

	b.mu.Lock()
	b.pending = append(b.pending, msgs...)
	b.mu.Unlock()
	if !sendImmediately {
		return nil
	}

	b.sendMu.Lock()
	defer b.sendMu.Unlock()

	b.mu.Lock()
	queue := b.pending
	b.pending = nil
	status := b.status
	mtu := b.mtu
	b.mu.Unlock()

	if len(queue) == 0 {
		return nil
	}
	if status != StatusConnected {
		return &StateError{Op: "send", Status: status, Err: ErrNotConnected}
	}

	chunks, err := PackTxMessages(queue, mtu)
	if err != nil {
		return err
	}
	for _, chunk := range chunks {
		if err := b.writeTx(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

// SendTxData writes an already encoded TxRx blob as-is.
func (b *Base) SendTxData(ctx context.Context, data []byte) error {
	if status := b.Status(); status != StatusConnected {
		return &StateError{Op: "send", Status: status, Err: ErrNotConnected}
	}
	b.sendMu.Lock()
	defer b.sendMu.Unlock()
	return b.writeTx(ctx, data)
}

func (b *Base) writeTx(ctx context.Context, chunk []byte) error {
	if b.txWriter == nil {
		return fmt.Errorf("send: %w: no tx writer", ErrNotConnected)
	}
	log.Emit(b.protoLog, log.Event{
		ConnectionID: b.connID,
		DeviceID:     b.BluetoothID(),
		Direction:    log.DirectionOut,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Frame:        log.NewFrameEvent(wire.MsgTx, chunk),
	})
	if err := b.txWriter(ctx, chunk); err != nil {
		return fmt.Errorf("writing tx: %w", err)
	}
	return nil
}

// PackTxMessages encodes msgs against TxRxMessageTypes. With mtu 0 the
// result is a single chunk. Otherwise each chunk holds whole messages and
// at most mtu-3 bytes; a message larger than that is sent alone.
func PackTxMessages(msgs []wire.Message, mtu int) ([][]byte, error) {
	if mtu <= ATTHeaderSize {
		data, err := wire.Encode(wire.TxRxMessageTypes, msgs...)
		if err != nil {
			return nil, err
		}
		return [][]byte{data}, nil
	}

	budget := mtu - ATTHeaderSize
	var chunks [][]byte
	var chunk []byte
	for _, m := range msgs {
		enc, err := wire.Encode(wire.TxRxMessageTypes, m)
		if err != nil {
			return nil, err
		}
		if len(chunk) > 0 && len(chunk)+len(enc) > budget {
			chunks = append(chunks, chunk)
			chunk = nil
		}
		chunk = append(chunk, enc...)
	}
	if len(chunk) > 0 {
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// ParseRx decodes an rx tunnel payload and dispatches each message.
// Messages before a malformed one are still delivered.
func (b *Base) ParseRx(data []byte) error {
	log.Emit(b.protoLog, log.Event{
		ConnectionID: b.connID,
		DeviceID:     b.BluetoothID(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Frame:        log.NewFrameEvent(wire.MsgRx, data),
	})
	err := wire.Decode(wire.TxRxMessageTypes, data, func(typ string, payload []byte, _ bool) error {
		b.DispatchMessage(typ, payload)
		return nil
	})
	if err != nil {
		b.logger.Warn("malformed rx payload", "device", b.BluetoothID(), "error", err)
	}
	return err
}

// DispatchMessage delivers one received message to subscribers.
func (b *Base) DispatchMessage(typ string, data []byte) {
	log.Emit(b.protoLog, log.Event{
		ConnectionID: b.connID,
		DeviceID:     b.BluetoothID(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message:      &log.MessageEvent{Table: wire.ConnectionMessageTypes.Name(), Type: typ, Size: len(data)},
	})
	b.messageEvents.Dispatch(wire.Message{Type: typ, Data: data})
}
