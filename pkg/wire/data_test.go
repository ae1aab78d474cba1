package wire

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestAppendData(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   []byte
	}{
		{"int", []any{82}, []byte{82}},
		{"float floors", []any{3.9}, []byte{3}},
		{"negative float floors", []any{-0.5}, []byte{0xFF}},
		{"uint16 truncates", []any{uint16(0x1234)}, []byte{0x34}},
		{"bools", []any{true, false}, []byte{1, 0}},
		{"string", []any{"hi"}, []byte{2, 'h', 'i'}},
		{"bytes verbatim", []any{[]byte{9, 8, 7}}, []byte{9, 8, 7}},
		{"nested", []any{[]any{1, []any{2, "a"}}, 3}, []byte{1, 2, 1, 'a', 3}},
		{"int slice", []any{[]int{4, 5}}, []byte{4, 5}},
		{"nil contributes nothing", []any{nil, 1}, []byte{1}},
		{"map as json", []any{map[string]int{"a": 1}}, append([]byte{7}, `{"a":1}`...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Data(tt.values...)
			if err != nil {
				t.Fatalf("Data failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Data = % x, want % x", got, tt.want)
			}
		})
	}
}

func TestAppendDataErrors(t *testing.T) {
	if _, err := Data(make(chan int)); !errors.Is(err, ErrUnsupportedData) {
		t.Errorf("chan: err = %v, want ErrUnsupportedData", err)
	}
	if _, err := Data(strings.Repeat("x", MaxStringSize+1)); !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("long string: err = %v, want ErrPayloadTooLarge", err)
	}
}

func TestReadString(t *testing.T) {
	buf, err := AppendString(nil, "device-1")
	if err != nil {
		t.Fatal(err)
	}
	buf = append(buf, 0xAA)

	s, rest, err := ReadString(buf)
	if err != nil {
		t.Fatalf("ReadString failed: %v", err)
	}
	if s != "device-1" {
		t.Errorf("s = %q", s)
	}
	if !bytes.Equal(rest, []byte{0xAA}) {
		t.Errorf("rest = % x", rest)
	}

	if _, _, err := ReadString([]byte{5, 'a'}); !errors.Is(err, ErrTruncatedMessage) {
		t.Errorf("short: err = %v, want ErrTruncatedMessage", err)
	}
	if _, _, err := ReadString(nil); !errors.Is(err, ErrTruncatedMessage) {
		t.Errorf("empty: err = %v, want ErrTruncatedMessage", err)
	}
}
