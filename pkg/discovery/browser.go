package discovery

import (
	"context"
	"net"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// BrowserConfig configures browse behavior.
type BrowserConfig struct {
	// BrowseTimeout bounds one-shot lookups such as FindBySpace when the
	// caller's context has no deadline.
	// Default: 10 seconds.
	BrowseTimeout time.Duration

	// Interface specifies which network interface to browse on.
	// Empty string means all interfaces.
	Interface string
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		BrowseTimeout: BrowseTimeout,
		Interface:     "",
	}
}

// Browser discovers register agents via mDNS.
type Browser struct {
	config BrowserConfig
}

// NewBrowser creates a new mDNS browser.
func NewBrowser(config BrowserConfig) *Browser {
	return &Browser{config: config}
}

// Browse searches for register agents until the context ends.
// Agents are aggregated by instance name: each instance is emitted once,
// and addresses seen on further interfaces are merged into the emitted
// entry. The channel is closed when browsing stops.
func (b *Browser) Browse(ctx context.Context) (<-chan *AgentService, error) {
	out := make(chan *AgentService)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := b.clientOptions()

	// Process entries with aggregation
	go func() {
		defer close(out)

		agents := make(map[string]*AgentService)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToAgent(entry)
				if svc == nil {
					continue
				}

				existing, found := agents[svc.InstanceName]
				if found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
				} else {
					agents[svc.InstanceName] = svc
					select {
					case out <- svc:
					case <-ctx.Done():
						return
					}
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				// Drop addresses that came from this interface
				if existing, found := agents[entry.Instance]; found {
					existing.Addresses = pruneAddresses(existing.Addresses, entry)
					if len(existing.Addresses) == 0 {
						delete(agents, entry.Instance)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// Start browsing in background
	go func() {
		_ = zeroconf.Browse(ctx, ServiceTypeAgent, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// FindBySpace returns the first agent serving the named space.
// Without a context deadline the configured BrowseTimeout applies.
func (b *Browser) FindBySpace(ctx context.Context, space string) (*AgentService, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	results, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case svc, ok := <-results:
			if !ok {
				return nil, ErrNotFound
			}
			if svc.SpaceName == space {
				return svc, nil
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// FindAll collects every agent visible until the context ends.
// Finding no agents is not an error.
func (b *Browser) FindAll(ctx context.Context) ([]*AgentService, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	results, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	var agents []*AgentService
	for {
		select {
		case svc, ok := <-results:
			if !ok {
				return agents, nil
			}
			agents = append(agents, svc)
		case <-ctx.Done():
			return agents, nil
		}
	}
}

// withTimeout applies the configured browse timeout when the caller's
// context has no deadline.
func (b *Browser) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}

	timeout := b.config.BrowseTimeout
	if timeout <= 0 {
		timeout = BrowseTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// clientOptions returns zeroconf client options based on config.
func (b *Browser) clientOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	// Select specific interface if configured
	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// ServiceEntry holds raw mDNS entry data before TXT decoding.
// Browser implementations and tests convert through it.
type ServiceEntry struct {
	Instance string
	Service  string
	Domain   string
	Host     string
	Port     uint16
	Text     []string
	Addrs    []string
}

// ToAgentService decodes the entry's TXT records into an AgentService.
func (e *ServiceEntry) ToAgentService() (*AgentService, error) {
	info, err := DecodeAgentTXT(StringsToTXTRecords(e.Text))
	if err != nil {
		return nil, err
	}

	return &AgentService{
		InstanceName: e.Instance,
		Host:         e.Host,
		Port:         e.Port,
		Addresses:    e.Addrs,
		SpaceName:    info.SpaceName,
		Version:      info.Version,
		AuthRequired: info.AuthRequired,
		Registers:    info.Registers,
		Description:  info.Description,
	}, nil
}

// entryToAgent converts a zeroconf entry to an AgentService.
// Entries with undecodable TXT records are dropped.
func entryToAgent(entry *zeroconf.ServiceEntry) *AgentService {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	raw := &ServiceEntry{
		Instance: entry.Instance,
		Service:  entry.Service,
		Domain:   entry.Domain,
		Host:     entry.HostName,
		Port:     uint16(entry.Port),
		Text:     entry.Text,
		Addrs:    addrs,
	}

	svc, err := raw.ToAgentService()
	if err != nil {
		return nil
	}
	return svc
}

// mergeAddresses adds addresses to the existing list, avoiding duplicates.
func mergeAddresses(existing, more []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range more {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// pruneAddresses removes the addresses carried by a zeroconf entry.
func pruneAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	toRemove := make(map[string]bool)
	for _, ip := range entry.AddrIPv4 {
		toRemove[ip.String()] = true
	}
	for _, ip := range entry.AddrIPv6 {
		toRemove[ip.String()] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}
