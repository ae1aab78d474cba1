package relay

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/device"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

var testNow = time.UnixMilli(1_700_000_000_000)

// peripheral is a connection.Manager standing in for a real device. Every
// tx request is answered from answers, and set requests are echoed.
type peripheral struct {
	connection.Base

	mu      sync.Mutex
	answers map[string][]byte
	sent    []string
	smp     [][]byte
}

func newPeripheral(id string) *peripheral {
	p := &peripheral{answers: make(map[string][]byte, len(device.RequiredInformation))}
	for _, typ := range device.RequiredInformation {
		p.answers[typ] = []byte{0}
	}
	p.answers[wire.MsgGetId] = []byte("abc123")
	p.answers[wire.MsgGetMtu] = []byte{247, 0}
	p.answers[wire.MsgGetName] = []byte("Left")
	p.answers[wire.MsgGetCurrentTime] = device.EncodeCurrentTime(testNow)
	p.answers[wire.MsgGetSensorConfiguration] = []byte{0, 20, 0}
	p.answers[wire.MsgGetSensorScalars] = nil
	p.answers[wire.MsgGetPressurePositions] = nil
	p.answers[wire.MsgGetBatteryCurrent] = []byte{0, 0, 0, 0}

	p.Init(connection.BaseConfig{Type: connection.TypeHost, BluetoothID: id, TxWriter: p.write})
	return p
}

func (p *peripheral) write(_ context.Context, data []byte) error {
	msgs, err := wire.DecodeAll(wire.TxRxMessageTypes, data)
	if err != nil {
		return err
	}
	p.mu.Lock()
	replies := make([]wire.Message, 0, len(msgs))
	for _, m := range msgs {
		p.sent = append(p.sent, m.Type)
		if len(m.Data) > 0 {
			replies = append(replies, m)
			continue
		}
		reply, ok := p.answers[m.Type]
		if !ok {
			continue
		}
		replies = append(replies, wire.Message{Type: m.Type, Data: reply})
	}
	p.mu.Unlock()

	// The writer runs under the send lock; answer from elsewhere.
	go func() {
		for _, r := range replies {
			p.DispatchMessage(r.Type, r.Data)
		}
	}()
	return nil
}

func (p *peripheral) sentTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.sent)
}

func (p *peripheral) smpPayloads() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.smp)
}

func (p *peripheral) CanReconnect() bool {
	return p.Status() == connection.StatusNotConnected
}

func (p *peripheral) Connect(context.Context) error {
	if err := p.BeginConnect(); err != nil {
		return err
	}
	p.SetStatus(connection.StatusConnected)
	return nil
}

func (p *peripheral) Reconnect(ctx context.Context) error {
	if err := p.BeginReconnect(p.CanReconnect()); err != nil {
		return err
	}
	p.SetStatus(connection.StatusConnected)
	return nil
}

func (p *peripheral) Disconnect(context.Context) error {
	if err := p.BeginDisconnect(); err != nil {
		return err
	}
	p.SetStatus(connection.StatusNotConnected)
	return nil
}

func (p *peripheral) SendSmpMessage(_ context.Context, data []byte) error {
	p.mu.Lock()
	p.smp = append(p.smp, slices.Clone(data))
	p.mu.Unlock()
	return nil
}
