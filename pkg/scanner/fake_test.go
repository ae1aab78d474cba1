package scanner

import (
	"context"
	"sync"

	"github.com/brilliantsole/bs-go/pkg/connection"
)

type fakeBackend struct {
	mu        sync.Mutex
	available bool
	found     func(Advertisement)
	done      func(error)
	starts    int
	managers  map[string]*fakeManager
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{available: true, managers: make(map[string]*fakeManager)}
}

func (f *fakeBackend) Type() connection.Type { return connection.TypeHost }

func (f *fakeBackend) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeBackend) StartScan(found func(Advertisement), done func(error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.found, f.done = found, done
	f.starts++
	return nil
}

func (f *fakeBackend) StopScan() error {
	return nil
}

func (f *fakeBackend) NewManager(id string) (connection.Manager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := newFakeManager(id)
	f.managers[id] = m
	return m, nil
}

func (f *fakeBackend) advertise(adv Advertisement) {
	f.mu.Lock()
	found := f.found
	f.mu.Unlock()
	found(adv)
}

func (f *fakeBackend) end(err error) {
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()
	done(err)
}

func (f *fakeBackend) manager(id string) *fakeManager {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.managers[id]
}

// fakeManager connects instantly and drops tx data.
type fakeManager struct {
	connection.Base

	mu         sync.Mutex
	reconnects int
}

func newFakeManager(id string) *fakeManager {
	f := &fakeManager{}
	f.Init(connection.BaseConfig{
		Type:        connection.TypeHost,
		BluetoothID: id,
		TxWriter:    func(context.Context, []byte) error { return nil },
	})
	return f
}

func (f *fakeManager) CanReconnect() bool {
	return f.Status() == connection.StatusNotConnected
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

func (f *fakeManager) SendSmpMessage(context.Context, []byte) error { return nil }

func (f *fakeManager) reconnectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reconnects
}
