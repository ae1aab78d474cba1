package discovery

import (
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/enbility/zeroconf/v3"
)

func TestRelayTXTRoundTrip(t *testing.T) {
	txt := EncodeRelayTXT(&RelayInfo{Instance: "relay", Scanner: "host"})
	path, version, scanner, err := DecodeRelayTXT(StringsToTXTRecords(TXTRecordsToStrings(txt)))
	if err != nil {
		t.Fatalf("DecodeRelayTXT failed: %v", err)
	}
	if path != DefaultPath {
		t.Errorf("path = %q, want %q", path, DefaultPath)
	}
	if version != ProtocolVersion {
		t.Errorf("version = %d", version)
	}
	if scanner != "host" {
		t.Errorf("scanner = %q", scanner)
	}
}

func TestEncodeRelayTXTOmitsEmptyScanner(t *testing.T) {
	txt := EncodeRelayTXT(&RelayInfo{Path: "/relay"})
	if _, ok := txt[TXTKeyScanner]; ok {
		t.Error("scanner key should be absent")
	}
	if txt[TXTKeyPath] != "/relay" {
		t.Errorf("path = %q", txt[TXTKeyPath])
	}
}

func TestDecodeRelayTXTErrors(t *testing.T) {
	tests := []struct {
		name string
		txt  TXTRecordMap
		want error
	}{
		{"missing path", TXTRecordMap{TXTKeyVersion: "1"}, ErrMissingRequired},
		{"relative path", TXTRecordMap{TXTKeyPath: "ws", TXTKeyVersion: "1"}, ErrInvalidTXTRecord},
		{"missing version", TXTRecordMap{TXTKeyPath: "/ws"}, ErrMissingRequired},
		{"bad version", TXTRecordMap{TXTKeyPath: "/ws", TXTKeyVersion: "x"}, ErrInvalidTXTRecord},
		{"zero version", TXTRecordMap{TXTKeyPath: "/ws", TXTKeyVersion: "0"}, ErrInvalidTXTRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := DecodeRelayTXT(tt.txt); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStringsToTXTRecords(t *testing.T) {
	txt := StringsToTXTRecords([]string{"a=1", "b=x=y", "flag", ""})
	if txt["a"] != "1" || txt["b"] != "x=y" {
		t.Errorf("txt = %v", txt)
	}
	if v, ok := txt["flag"]; !ok || v != "" {
		t.Error("flag should be present and empty")
	}
	if len(txt) != 3 {
		t.Errorf("len = %d, want 3", len(txt))
	}
	if got := TXTRecordsToStrings(TXTRecordMap{"b": "2", "a": "1"}); strings.Join(got, ",") != "a=1,b=2" {
		t.Errorf("TXTRecordsToStrings = %v", got)
	}
}

func TestValidateInstanceName(t *testing.T) {
	if err := ValidateInstanceName("BrilliantSole Relay"); err != nil {
		t.Errorf("valid name: %v", err)
	}
	if err := ValidateInstanceName(""); !errors.Is(err, ErrMissingRequired) {
		t.Errorf("empty: %v", err)
	}
	if err := ValidateInstanceName(strings.Repeat("x", MaxInstanceNameLen+1)); !errors.Is(err, ErrInstanceNameTooLong) {
		t.Errorf("long: %v", err)
	}
}

func entry(instance string, txt []string, ips ...string) *zeroconf.ServiceEntry {
	e := zeroconf.NewServiceEntry(instance, ServiceType, Domain)
	e.HostName = "relay.local."
	e.Port = 8080
	e.Text = txt
	for _, ip := range ips {
		parsed := net.ParseIP(ip)
		if parsed.To4() != nil {
			e.AddrIPv4 = append(e.AddrIPv4, parsed)
		} else {
			e.AddrIPv6 = append(e.AddrIPv6, parsed)
		}
	}
	return e
}

func TestEntryToRelay(t *testing.T) {
	svc := entryToRelay(entry("relay", []string{"path=/ws", "v=1", "scanner=native"}, "192.168.1.5", "fe80::1"))
	if svc == nil {
		t.Fatal("entryToRelay returned nil")
	}
	if svc.InstanceName != "relay" || svc.Port != 8080 || svc.Scanner != "native" {
		t.Errorf("svc = %+v", svc)
	}
	if len(svc.Addresses) != 2 || svc.Addresses[0] != "192.168.1.5" {
		t.Errorf("addresses = %v", svc.Addresses)
	}
	if got := svc.URL(); got != "ws://192.168.1.5:8080/ws" {
		t.Errorf("URL = %q", got)
	}

	if entryToRelay(entry("other", []string{"v=1"})) != nil {
		t.Error("entry without path should be ignored")
	}
}

func TestRelayServiceURLFallsBackToHost(t *testing.T) {
	svc := &RelayService{Host: "relay.local.", Port: 9000, Path: "/ws"}
	if got := svc.URL(); got != "ws://relay.local.:9000/ws" {
		t.Errorf("URL = %q", got)
	}
	svc.Addresses = []string{"fe80::1"}
	if got := svc.URL(); got != "ws://[fe80::1]:9000/ws" {
		t.Errorf("URL = %q", got)
	}
}

func TestMergeAndRemoveAddresses(t *testing.T) {
	addrs := mergeAddresses([]string{"10.0.0.1"}, []string{"10.0.0.1", "10.0.0.2"})
	if strings.Join(addrs, ",") != "10.0.0.1,10.0.0.2" {
		t.Errorf("merge = %v", addrs)
	}
	addrs = removeAddresses(addrs, entry("relay", nil, "10.0.0.1"))
	if strings.Join(addrs, ",") != "10.0.0.2" {
		t.Errorf("remove = %v", addrs)
	}
}

func TestAdvertiserRejectsBadInstance(t *testing.T) {
	a := NewMDNSAdvertiser(AdvertiserConfig{})
	if err := a.Advertise(&RelayInfo{}); !errors.Is(err, ErrMissingRequired) {
		t.Errorf("Advertise = %v", err)
	}
	if err := a.Update(&RelayInfo{Instance: "x"}); !errors.Is(err, ErrNotAdvertising) {
		t.Errorf("Update = %v", err)
	}
	a.Stop()
}
