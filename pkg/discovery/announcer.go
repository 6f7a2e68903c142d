package discovery

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// AnnouncerConfig configures announcement behavior.
type AnnouncerConfig struct {
	// Interface specifies which network interface to announce on.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAnnouncerConfig returns the default announcer configuration.
func DefaultAnnouncerConfig() AnnouncerConfig {
	return AnnouncerConfig{
		Interface: "",
		TTL:       120 * time.Second,
	}
}

// Announcer publishes register agents via mDNS. One announcer can carry
// several agents, keyed by instance name.
type Announcer struct {
	config AnnouncerConfig

	mu      sync.Mutex
	servers map[string]*zeroconf.Server // keyed by instance name
}

// NewAnnouncer creates a new mDNS announcer.
func NewAnnouncer(config AnnouncerConfig) *Announcer {
	return &Announcer{
		config:  config,
		servers: make(map[string]*zeroconf.Server),
	}
}

// Announce starts advertising an agent. Announcing an instance that is
// already active replaces the previous advertisement.
func (a *Announcer) Announce(info *AgentInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if info.SpaceName == "" {
		return fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeySpace)
	}

	instance := info.Instance
	if instance == "" {
		instance = InstanceNameForSpace(info.SpaceName)
	}
	if err := ValidateInstanceName(instance); err != nil {
		return err
	}

	// Stop existing for this instance if any
	if server, exists := a.servers[instance]; exists {
		server.Shutdown()
		delete(a.servers, instance)
	}

	txtStrings := TXTRecordsToStrings(EncodeAgentTXT(info))

	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	// Get interfaces (nil means all interfaces)
	ifaces := a.interfaces()

	server, err := zeroconf.Register(
		instance,
		ServiceTypeAgent,
		Domain,
		port,
		txtStrings,
		ifaces,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register agent service: %w", err)
	}

	a.servers[instance] = server
	return nil
}

// Update replaces the TXT records of an active advertisement.
func (a *Announcer) Update(instance string, info *AgentInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	server, exists := a.servers[instance]
	if !exists {
		return ErrNotFound
	}

	server.SetText(TXTRecordsToStrings(EncodeAgentTXT(info)))
	return nil
}

// Withdraw stops advertising a specific instance.
func (a *Announcer) Withdraw(instance string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	server, exists := a.servers[instance]
	if !exists {
		return ErrNotFound
	}

	server.Shutdown()
	delete(a.servers, instance)
	return nil
}

// StopAll stops all advertisements.
func (a *Announcer) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for instance, server := range a.servers {
		server.Shutdown()
		delete(a.servers, instance)
	}
}

// interfaces returns the network interfaces to announce on.
// Returns nil to use all interfaces.
func (a *Announcer) interfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}
