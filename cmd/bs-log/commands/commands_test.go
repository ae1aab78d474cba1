package commands

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brilliantsole/bs-go/pkg/log"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

var ts = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

func sampleEvents(t *testing.T) []log.Event {
	t.Helper()
	rx, err := wire.Encode(wire.TxRxMessageTypes, wire.Message{Type: wire.MsgGetName, Data: []byte("Left")})
	if err != nil {
		t.Fatal(err)
	}
	return []log.Event{
		{
			Timestamp:    ts,
			ConnectionID: "abc12345-6789-0123-4567-890abcdef012",
			DeviceID:     "AA:BB",
			Direction:    log.DirectionIn,
			Layer:        log.LayerTransport,
			Category:     log.CategoryMessage,
			Frame:        log.NewFrameEvent(wire.MsgRx, rx),
		},
		{
			Timestamp:    ts.Add(time.Millisecond),
			ConnectionID: "abc12345-6789-0123-4567-890abcdef012",
			DeviceID:     "AA:BB",
			Direction:    log.DirectionIn,
			Layer:        log.LayerWire,
			Category:     log.CategoryMessage,
			Message:      &log.MessageEvent{Table: "ConnectionMessageTypes", Type: wire.MsgGetName, Size: 4},
		},
		{
			Timestamp:    ts.Add(2 * time.Second),
			ConnectionID: "ffff0000-socket",
			Direction:    log.DirectionOut,
			Layer:        log.LayerRelay,
			Category:     log.CategoryError,
			RemoteAddr:   "10.0.0.2:5000",
			Error:        &log.ErrorEvent{Layer: log.LayerRelay, Message: "unknown device", Context: "deviceMessage"},
		},
	}
}

func writeCapture(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.bslog")
	l, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range events {
		l.Log(e)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatFrameEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents(t)[0], true)
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.123456Z",
		"[conn:abc12345]",
		"IN ",
		"TRANSPORT",
		"Frame(rx)",
		"device=AA:BB",
		"getName [4] 4c656674",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestFormatFrameWithoutDecode(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents(t)[0], false)
	if strings.Contains(buf.String(), "getName") {
		t.Errorf("frame decoded without -decode:\n%s", buf.String())
	}
}

func TestFormatErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents(t)[2], false)
	output := buf.String()
	for _, want := range []string{"RELAY Error", "Message: unknown device", "Context: deviceMessage", "Remote: 10.0.0.2:5000"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("Relay"); err != nil || l != log.LayerRelay {
		t.Errorf("ParseLayerFlag = %v, %v", l, err)
	}
	if _, err := ParseLayerFlag("service"); err == nil {
		t.Error("expected error for unknown layer")
	}
	if d, err := ParseDirectionFlag("OUT"); err != nil || d != log.DirectionOut {
		t.Errorf("ParseDirectionFlag = %v, %v", d, err)
	}
	if c, err := ParseCategoryFlag("state"); err != nil || c != log.CategoryState {
		t.Errorf("ParseCategoryFlag = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("control"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestRunViewFilters(t *testing.T) {
	path := writeCapture(t, sampleEvents(t))
	layer := log.LayerWire

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Layer: &layer}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "WIRE getName") {
		t.Errorf("missing wire event:\n%s", output)
	}
	if strings.Contains(output, "TRANSPORT") || strings.Contains(output, "RELAY") {
		t.Errorf("filter leaked other layers:\n%s", output)
	}
}

func TestRunExportCSV(t *testing.T) {
	path := writeCapture(t, sampleEvents(t))
	out := filepath.Join(t.TempDir(), "out.csv")
	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header plus 3", len(rows))
	}
	if rows[1][7] != "frame:rx" || rows[2][7] != wire.MsgGetName || rows[3][7] != "error" {
		t.Errorf("types = %q %q %q", rows[1][7], rows[2][7], rows[3][7])
	}
	if rows[3][6] != "10.0.0.2:5000" {
		t.Errorf("remote = %q", rows[3][6])
	}
}

func TestRunExportJSONL(t *testing.T) {
	path := writeCapture(t, sampleEvents(t))
	out := filepath.Join(t.TempDir(), "out.jsonl")
	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 3 {
		t.Errorf("lines = %d, want 3", n)
	}
	if err := RunExport(path, "xml", ""); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunFilter(t *testing.T) {
	path := writeCapture(t, sampleEvents(t))
	out := filepath.Join(t.TempDir(), "filtered.bslog")

	n, err := RunFilter(path, FilterOptions{Output: out, DeviceID: "AA:BB"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("filtered %d events, want 2", n)
	}

	n, err = RunFilter(path, FilterOptions{Output: filepath.Join(t.TempDir(), "m.bslog"), MessageType: wire.MsgGetName})
	if err != nil || n != 1 {
		t.Errorf("message filter = %d, %v", n, err)
	}

	if _, err := RunFilter(path, FilterOptions{Output: out, TimeStart: "yesterday"}); err == nil {
		t.Error("expected error for bad time")
	}
}

func TestCollectStats(t *testing.T) {
	path := writeCapture(t, sampleEvents(t))
	stats, err := Collect(path)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if stats.TotalEvents != 3 || stats.Errors != 1 {
		t.Errorf("total = %d, errors = %d", stats.TotalEvents, stats.Errors)
	}
	if len(stats.Connections) != 2 {
		t.Errorf("connections = %d", len(stats.Connections))
	}
	if stats.MessageTypes[wire.MsgGetName] != 1 {
		t.Errorf("message types = %v", stats.MessageTypes)
	}
	conn := stats.Connections["abc12345-6789-0123-4567-890abcdef012"]
	if conn == nil || conn.DeviceID != "AA:BB" || conn.Bytes == 0 {
		t.Errorf("conn = %+v", conn)
	}

	var buf bytes.Buffer
	printStats(&buf, stats)
	if !strings.Contains(buf.String(), "Total Events: 3") {
		t.Errorf("stats output:\n%s", buf.String())
	}
}
