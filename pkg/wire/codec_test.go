package wire

import (
	"bytes"
	"errors"
	"testing"
)

var testTable = NewTable("test", "alpha", "beta", "gamma")

func TestEncodeBatteryLevelVector(t *testing.T) {
	data, err := Encode(ConnectionMessageTypes, Message{Type: MsgBatteryLevel, Data: []byte{82}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{0x07, 0x01, 0x00, 0x52}
	if !bytes.Equal(data, want) {
		t.Fatalf("Encode = % x, want % x", data, want)
	}

	msgs, err := DecodeAll(ConnectionMessageTypes, data)
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Type != MsgBatteryLevel || !bytes.Equal(msgs[0].Data, []byte{0x52}) {
		t.Errorf("DecodeAll = %+v", msgs)
	}
}

func TestRoundTrip(t *testing.T) {
	large := bytes.Repeat([]byte{0xAB}, MaxPayloadSize)

	tests := []struct {
		name string
		msgs []Message
	}{
		{"single", []Message{{Type: "alpha", Data: []byte{1, 2, 3}}}},
		{"empty payload", []Message{{Type: "beta"}}},
		{"several in order", []Message{
			{Type: "gamma", Data: []byte{9}},
			{Type: "alpha", Data: []byte{}},
			{Type: "gamma", Data: []byte{1, 1}},
		}},
		{"max payload", []Message{{Type: "beta", Data: large}, {Type: "alpha", Data: []byte{7}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(testTable, tt.msgs...)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := DecodeAll(testTable, data)
			if err != nil {
				t.Fatalf("DecodeAll failed: %v", err)
			}
			if len(got) != len(tt.msgs) {
				t.Fatalf("decoded %d messages, want %d", len(got), len(tt.msgs))
			}
			for i := range got {
				if got[i].Type != tt.msgs[i].Type {
					t.Errorf("msg %d type = %s, want %s", i, got[i].Type, tt.msgs[i].Type)
				}
				if !bytes.Equal(got[i].Data, tt.msgs[i].Data) {
					t.Errorf("msg %d data mismatch", i)
				}
			}
		})
	}
}

func TestDecodeConcatenatedBuffers(t *testing.T) {
	a, err := Encode(testTable, Message{Type: "alpha", Data: []byte{1}}, Message{Type: "beta", Data: []byte{2, 2}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encode(testTable, Message{Type: "gamma", Data: []byte{3, 3, 3}})
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeAll(testTable, append(append([]byte(nil), a...), b...))
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}
	wantTypes := []string{"alpha", "beta", "gamma"}
	wantData := [][]byte{{1}, {2, 2}, {3, 3, 3}}
	if len(got) != 3 {
		t.Fatalf("decoded %d messages, want 3", len(got))
	}
	for i := range got {
		if got[i].Type != wantTypes[i] || !bytes.Equal(got[i].Data, wantData[i]) {
			t.Errorf("msg %d = %+v", i, got[i])
		}
	}
}

func TestEncodeInvalidType(t *testing.T) {
	_, err := Encode(testTable, Message{Type: "delta"})
	if !errors.Is(err, ErrInvalidMessageType) {
		t.Errorf("err = %v, want ErrInvalidMessageType", err)
	}
}

func TestEncodePayloadTooLarge(t *testing.T) {
	_, err := Encode(testTable, Message{Type: "alpha", Data: make([]byte, MaxPayloadSize+1)})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("err = %v, want ErrPayloadTooLarge", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, _ := Encode(testTable, Message{Type: "alpha", Data: []byte{1, 2}})

	tests := []struct {
		name      string
		buf       []byte
		wantErr   error
		wantKind  ProtocolErrorKind
		delivered int
		offset    int
	}{
		{"unknown type", append(append([]byte(nil), valid...), 9, 0, 0), ErrUnknownMessageType, UnknownMessageType, 1, 5},
		{"short header", append(append([]byte(nil), valid...), 0, 1), ErrTruncatedMessage, TruncatedMessage, 1, 5},
		{"short payload", append(append([]byte(nil), valid...), 1, 4, 0, 1), ErrTruncatedMessage, TruncatedMessage, 1, 5},
		{"truncated first", []byte{0, 9, 0, 1, 2}, ErrTruncatedMessage, TruncatedMessage, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delivered := 0
			err := Decode(testTable, tt.buf, func(string, []byte, bool) error {
				delivered++
				return nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			var perr *ProtocolError
			if !errors.As(err, &perr) {
				t.Fatalf("err is %T, want *ProtocolError", err)
			}
			if perr.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", perr.Kind, tt.wantKind)
			}
			if perr.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", perr.Offset, tt.offset)
			}
			if delivered != tt.delivered {
				t.Errorf("delivered %d messages before the error, want %d", delivered, tt.delivered)
			}
		})
	}
}

func TestDecodeLastFlag(t *testing.T) {
	data, _ := Encode(testTable, Message{Type: "alpha"}, Message{Type: "beta"}, Message{Type: "gamma"})
	var lasts []bool
	err := Decode(testTable, data, func(_ string, _ []byte, last bool) error {
		lasts = append(lasts, last)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(lasts) != 3 || lasts[0] || lasts[1] || !lasts[2] {
		t.Errorf("last flags = %v, want [false false true]", lasts)
	}
}

func TestDecodeUint8Length(t *testing.T) {
	buf := []byte{2, 2, 0xAA, 0xBB, 0, 0}
	msgs, err := DecodeAll(testTable, buf, WithUint8Length())
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("decoded %d messages, want 2", len(msgs))
	}
	if msgs[0].Type != "gamma" || !bytes.Equal(msgs[0].Data, []byte{0xAA, 0xBB}) {
		t.Errorf("msg 0 = %+v", msgs[0])
	}
	if msgs[1].Type != "alpha" || len(msgs[1].Data) != 0 {
		t.Errorf("msg 1 = %+v", msgs[1])
	}

	_, err = DecodeAll(NewTable("one", "only"), []byte{0, 0, 5, 0}, WithUint8Length())
	var perr *ProtocolError
	if !errors.As(err, &perr) || perr.Kind != UnknownMessageType || perr.Offset != 2 {
		t.Errorf("err = %v, want UnknownMessageType at offset 2", err)
	}
}

func TestDecodeCallbackErrorStops(t *testing.T) {
	data, _ := Encode(testTable, Message{Type: "alpha"}, Message{Type: "beta"})
	stop := errors.New("stop")
	calls := 0
	err := Decode(testTable, data, func(string, []byte, bool) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("err = %v, want wrapped stop", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestScanReportsUnknownIndices(t *testing.T) {
	buf := []byte{200, 1, 0, 7, 1, 0, 0}
	var indices []int
	err := Scan(nil, buf, func(index int, _ []byte, _ bool) error {
		indices = append(indices, index)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(indices) != 2 || indices[0] != 200 || indices[1] != 1 {
		t.Errorf("indices = %v, want [200 1]", indices)
	}
}
