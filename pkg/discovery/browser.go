package discovery

import "context"

// Browser finds relay servers.
type Browser interface {
	// Browse reports each relay once, when it is first seen. The channel
	// closes when ctx ends.
	Browse(ctx context.Context) (<-chan *RelayService, error)

	// Find returns the first relay whose instance name matches, or any
	// relay when instance is empty.
	Find(ctx context.Context, instance string) (*RelayService, error)
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string
}
