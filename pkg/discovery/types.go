package discovery

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"time"
)

const (
	// ServiceType is the DNS-SD service type of a relay server.
	ServiceType = "_brilliantsole._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	DefaultPort = 8080
	DefaultPath = "/ws"

	// ProtocolVersion is advertised in the v TXT key. It changes when the
	// server message tables change incompatibly.
	ProtocolVersion = 1

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// BrowseTimeout bounds Find when the context has no deadline.
	BrowseTimeout = 10 * time.Second

	// DefaultTTL is the record TTL used by Advertiser.
	DefaultTTL = 120 * time.Second
)

// TXT record keys.
const (
	TXTKeyPath    = "path"
	TXTKeyVersion = "v"
	TXTKeyScanner = "scanner"
)

var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record")
	ErrMissingRequired     = errors.New("missing required field")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotFound            = errors.New("service not found")
	ErrNotAdvertising      = errors.New("not advertising")
)

// RelayInfo is what a relay server advertises.
type RelayInfo struct {
	Instance string
	Port     int
	Path     string

	// Scanner is the scanner backend name; empty when the server cannot scan.
	Scanner string
}

// RelayService is one relay found on the network. Addresses from every
// interface it answered on are merged.
type RelayService struct {
	InstanceName string
	Host         string
	Port         int
	Addresses    []string
	Path         string
	Version      int
	Scanner      string
}

// URL returns the websocket URL for the first known address, or the host
// name when no address was resolved.
func (s *RelayService) URL() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(host, strconv.Itoa(s.Port)),
		Path:   s.Path,
	}
	return u.String()
}
