package connection

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brilliantsole/bs-go/pkg/wire"
)

type chunkRecorder struct {
	mu     sync.Mutex
	chunks [][]byte
}

func (r *chunkRecorder) write(_ context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, append([]byte(nil), data...))
	return nil
}

func newTestBase(w TxWriter) *Base {
	b := &Base{}
	b.Init(BaseConfig{Type: TypeHost, BluetoothID: "dev-1", TxWriter: w})
	return b
}

func TestStatusGuard(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		op      func(b *Base) error
		wantErr error
		want    Status
	}{
		{"connect from notConnected", StatusNotConnected, (*Base).BeginConnect, nil, StatusConnecting},
		{"connect from connecting", StatusConnecting, (*Base).BeginConnect, ErrAlreadyConnecting, StatusConnecting},
		{"connect from connected", StatusConnected, (*Base).BeginConnect, ErrAlreadyConnected, StatusConnected},
		{"connect from disconnecting", StatusDisconnecting, (*Base).BeginConnect, ErrAlreadyDisconnecting, StatusDisconnecting},
		{"disconnect from notConnected", StatusNotConnected, (*Base).BeginDisconnect, ErrNotConnected, StatusNotConnected},
		{"disconnect from connecting", StatusConnecting, (*Base).BeginDisconnect, nil, StatusDisconnecting},
		{"disconnect from connected", StatusConnected, (*Base).BeginDisconnect, nil, StatusDisconnecting},
		{"disconnect from disconnecting", StatusDisconnecting, (*Base).BeginDisconnect, ErrAlreadyDisconnecting, StatusDisconnecting},
		{"reconnect not allowed", StatusNotConnected, func(b *Base) error { return b.BeginReconnect(false) }, ErrCannotReconnect, StatusNotConnected},
		{"reconnect allowed", StatusNotConnected, func(b *Base) error { return b.BeginReconnect(true) }, nil, StatusConnecting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBase(nil)
			b.status = tt.from

			var events []Status
			b.OnStatus(func(s Status) { events = append(events, s) })

			err := tt.op(b)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(events) != 1 || events[0] != tt.want {
					t.Errorf("events = %v, want [%v]", events, tt.want)
				}
			} else {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("err = %v does not match ErrInvalidTransition", err)
				}
				var serr *StateError
				if !errors.As(err, &serr) || serr.Status != tt.from {
					t.Errorf("StateError = %+v", serr)
				}
				if len(events) != 0 {
					t.Errorf("rejected transition dispatched %v", events)
				}
			}
			if got := b.Status(); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConcurrentConnectAdmitsOne(t *testing.T) {
	b := newTestBase(nil)
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.BeginConnect() == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if admitted != 1 {
		t.Errorf("admitted %d connects, want 1", admitted)
	}
}

func TestSetStatusDispatchesAfterMutation(t *testing.T) {
	b := newTestBase(nil)
	var observed []Status
	b.OnStatus(func(s Status) {
		// The getter must already report the dispatched status.
		observed = append(observed, b.Status())
		if b.Status() != s {
			t.Errorf("Status() = %v during dispatch of %v", b.Status(), s)
		}
	})

	b.SetStatus(StatusConnecting)
	b.SetStatus(StatusConnected)
	b.SetStatus(StatusConnected)
	b.SetStatus(StatusNotConnected)

	want := []Status{StatusConnecting, StatusConnected, StatusNotConnected}
	if len(observed) != len(want) {
		t.Fatalf("observed %v, want %v", observed, want)
	}
	for i := range want {
		if observed[i] != want[i] {
			t.Errorf("observed[%d] = %v, want %v", i, observed[i], want[i])
		}
	}
}

func TestNotConnectedClearsMTU(t *testing.T) {
	b := newTestBase(nil)
	b.SetStatus(StatusConnected)
	b.SetMTU(23)
	if b.MTU() != 23 {
		t.Fatalf("MTU() = %d", b.MTU())
	}
	b.SetStatus(StatusNotConnected)
	if b.MTU() != 0 {
		t.Errorf("MTU() = %d after disconnect, want 0", b.MTU())
	}
}

func TestCompareAndSetStatus(t *testing.T) {
	b := newTestBase(nil)
	if err := b.BeginConnect(); err != nil {
		t.Fatal(err)
	}
	if err := b.BeginDisconnect(); err != nil {
		t.Fatal(err)
	}
	if b.CompareAndSetStatus(StatusConnecting, StatusConnected) {
		t.Error("connect completion must lose to a concurrent disconnect")
	}
	if b.Status() != StatusDisconnecting {
		t.Errorf("Status() = %v", b.Status())
	}
}

func TestFailRollsBack(t *testing.T) {
	b := newTestBase(nil)
	_ = b.BeginConnect()
	cause := errors.New("radio off")
	err := b.Fail("connect", cause)

	var terr *TransportError
	if !errors.As(err, &terr) || terr.Op != "connect" {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("TransportError must unwrap to the cause")
	}
	if b.Status() != StatusNotConnected {
		t.Errorf("Status() = %v, want notConnected", b.Status())
	}
}

func TestSendTxMessagesBatching(t *testing.T) {
	rec := &chunkRecorder{}
	b := newTestBase(rec.write)
	b.SetStatus(StatusConnected)
	b.SetMTU(13) // 10-byte chunks

	ctx := context.Background()
	msgs := []wire.Message{
		{Type: wire.MsgGetName},                           // 3 bytes
		{Type: wire.MsgGetType},                           // 3 bytes
		{Type: wire.MsgSetName, Data: []byte("ab")},       // 5 bytes
		{Type: wire.MsgTriggerVibration, Data: []byte{1}}, // 4 bytes
	}
	if err := b.SendTxMessages(ctx, msgs[:2], false); err != nil {
		t.Fatal(err)
	}
	if len(rec.chunks) != 0 {
		t.Fatal("queued messages must not be written")
	}
	if err := b.SendTxMessages(ctx, msgs[2:], true); err != nil {
		t.Fatal(err)
	}

	if len(rec.chunks) != 2 {
		t.Fatalf("wrote %d chunks, want 2", len(rec.chunks))
	}
	for i, c := range rec.chunks {
		if len(c) > 10 {
			t.Errorf("chunk %d is %d bytes, budget 10", i, len(c))
		}
	}

	var got []wire.Message
	for _, c := range rec.chunks {
		ms, err := wire.DecodeAll(wire.TxRxMessageTypes, c)
		if err != nil {
			t.Fatalf("chunk does not decode: %v", err)
		}
		got = append(got, ms...)
	}
	if len(got) != len(msgs) {
		t.Fatalf("decoded %d messages, want %d", len(got), len(msgs))
	}
	for i := range msgs {
		if got[i].Type != msgs[i].Type || !bytes.Equal(got[i].Data, msgs[i].Data) {
			t.Errorf("message %d = %+v, want %+v", i, got[i], msgs[i])
		}
	}
}

func TestSendTxMessagesUnknownMTU(t *testing.T) {
	rec := &chunkRecorder{}
	b := newTestBase(rec.write)
	b.SetStatus(StatusConnected)

	err := b.SendTxMessages(context.Background(), []wire.Message{
		{Type: wire.MsgGetName}, {Type: wire.MsgGetMtu}, {Type: wire.MsgGetId},
	}, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 14, 0, 0, 15, 0, 0}
	if len(rec.chunks) != 1 || !bytes.Equal(rec.chunks[0], want) {
		t.Errorf("chunks = % x, want one chunk % x", rec.chunks, want)
	}
}

func TestSendTxMessagesRejects(t *testing.T) {
	rec := &chunkRecorder{}
	b := newTestBase(rec.write)

	err := b.SendTxMessages(context.Background(), []wire.Message{{Type: wire.MsgGetName}}, true)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}

	b.SetStatus(StatusConnected)
	err = b.SendTxMessages(context.Background(), []wire.Message{{Type: wire.MsgBatteryLevel}}, true)
	if !errors.Is(err, wire.ErrInvalidMessageType) {
		t.Errorf("err = %v, want ErrInvalidMessageType", err)
	}
}

func TestParseRxDispatchesEach(t *testing.T) {
	b := newTestBase(nil)
	var types []string
	b.OnMessage(func(typ string, _ []byte) { types = append(types, typ) })

	data, _ := wire.Encode(wire.TxRxMessageTypes,
		wire.Message{Type: wire.MsgGetName, Data: []byte("x")},
		wire.Message{Type: wire.MsgIsCharging, Data: []byte{1}},
	)
	data = append(data, 0xEE, 0, 0)

	err := b.ParseRx(data)
	if !errors.Is(err, wire.ErrUnknownMessageType) {
		t.Errorf("err = %v, want ErrUnknownMessageType", err)
	}
	if len(types) != 2 || types[0] != wire.MsgGetName || types[1] != wire.MsgIsCharging {
		t.Errorf("dispatched %v", types)
	}
}

func TestWatchdogForcesNotConnected(t *testing.T) {
	b := &Base{}
	alive := true
	var mu sync.Mutex
	b.Init(BaseConfig{
		LinkChecker: func() bool {
			mu.Lock()
			defer mu.Unlock()
			return alive
		},
		WatchdogInterval: 10 * time.Millisecond,
	})

	lost := make(chan struct{})
	b.OnStatus(func(s Status) {
		if s == StatusNotConnected {
			close(lost)
		}
	})
	b.SetStatus(StatusConnected)

	mu.Lock()
	alive = false
	mu.Unlock()

	select {
	case <-lost:
	case <-time.After(time.Second):
		t.Fatal("watchdog did not detect link loss")
	}
}

func TestStatusStrings(t *testing.T) {
	for _, s := range []Status{StatusNotConnected, StatusConnecting, StatusConnected, StatusDisconnecting} {
		got, err := ParseStatus(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStatus(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseStatus("bogus"); err == nil {
		t.Error("ParseStatus accepted bogus")
	}
}
