package device

import (
	"context"
	"sync"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

// fakeManager is a connection.Manager whose link always succeeds. Sent tx
// messages are recorded; onSend may answer them.
type fakeManager struct {
	connection.Base

	mu           sync.Mutex
	sent         []wire.Message
	smp          [][]byte
	canReconnect bool
	reconnects   int
	onSend       func(wire.Message)
}

var _ connection.Manager = (*fakeManager)(nil)

func newFakeManager(id string) *fakeManager {
	f := &fakeManager{}
	f.Init(connection.BaseConfig{Type: connection.TypeRelay, BluetoothID: id, TxWriter: f.write})
	return f
}

func (f *fakeManager) write(_ context.Context, data []byte) error {
	msgs, err := wire.DecodeAll(wire.TxRxMessageTypes, data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.sent = append(f.sent, msgs...)
	onSend := f.onSend
	f.mu.Unlock()
	if onSend != nil {
		for _, m := range msgs {
			onSend(m)
		}
	}
	return nil
}

func (f *fakeManager) sentTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, len(f.sent))
	for i, m := range f.sent {
		types[i] = m.Type
	}
	return types
}

func (f *fakeManager) lastSent() wire.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return wire.Message{}
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeManager) resetSent() {
	f.mu.Lock()
	f.sent = nil
	f.mu.Unlock()
}

func (f *fakeManager) setCanReconnect(v bool) {
	f.mu.Lock()
	f.canReconnect = v
	f.mu.Unlock()
}

func (f *fakeManager) reconnectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reconnects
}

func (f *fakeManager) CanReconnect() bool {
	f.mu.Lock()
	can := f.canReconnect
	f.mu.Unlock()
	return can && f.Status() == connection.StatusNotConnected
}

func (f *fakeManager) Connect(ctx context.Context) error {
	if err := f.BeginConnect(); err != nil {
		return err
	}
	f.SetStatus(connection.StatusConnected)
	return nil
}

func (f *fakeManager) Reconnect(ctx context.Context) error {
	if err := f.BeginReconnect(f.CanReconnect()); err != nil {
		return err
	}
	f.mu.Lock()
	f.reconnects++
	f.mu.Unlock()
	f.SetStatus(connection.StatusConnected)
	return nil
}

func (f *fakeManager) Disconnect(ctx context.Context) error {
	if err := f.BeginDisconnect(); err != nil {
		return err
	}
	f.SetStatus(connection.StatusNotConnected)
	return nil
}

func (f *fakeManager) SendSmpMessage(_ context.Context, data []byte) error {
	f.mu.Lock()
	f.smp = append(f.smp, data)
	f.mu.Unlock()
	return nil
}
