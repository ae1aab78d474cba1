package discovery

import (
	"net"
	"time"
)

// Advertiser announces a relay server.
type Advertiser interface {
	// Advertise registers info, replacing any previous advertisement.
	Advertise(info *RelayInfo) error

	// Update replaces the TXT records of the running advertisement.
	Update(info *RelayInfo) error

	// Stop withdraws the advertisement. It is a no-op when idle.
	Stop()
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL. Zero means DefaultTTL.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{TTL: DefaultTTL}
}

// interfaces resolves name, returning nil for all interfaces.
func interfaces(name string) []net.Interface {
	if name == "" {
		return nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}
