package discovery

import (
	"errors"
	"net"
	"strconv"
	"time"
)

// Service constants for mDNS.
const (
	// ServiceTypeAgent is the service type advertised by register agents.
	ServiceTypeAgent = "_regmap._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the default agent port.
	DefaultPort = 7442
)

// TXT record key constants.
const (
	TXTKeyTXTVersion  = "txtvers" // TXT schema version
	TXTKeySpace       = "space"   // Register space name
	TXTKeyVersion     = "ver"     // Toolkit version of the agent
	TXTKeyAuth        = "auth"    // "1" when PSK authentication is required
	TXTKeyRegisters   = "regs"    // Register count (optional)
	TXTKeyDescription = "desc"    // Free-form description (optional)
)

// TXTVersion is the TXT record schema version this package writes and accepts.
const TXTVersion = "1"

// Timing constants.
const (
	// BrowseTimeout is the default timeout for one-shot browse operations.
	BrowseTimeout = 10 * time.Second
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
)

// Discovery errors.
var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrMissingRequired     = errors.New("missing required field")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotFound            = errors.New("service not found")
)

// AgentInfo contains information for announcing a register agent.
type AgentInfo struct {
	// SpaceName is the name of the served register space. Required.
	SpaceName string

	// Version is the toolkit version the agent runs.
	// Empty uses the version of this toolkit.
	Version string

	// AuthRequired reports whether the agent requires pre-shared-key
	// authentication.
	AuthRequired bool

	// Registers is the number of registers in the space. Optional.
	Registers int

	// Description is a free-form note shown by browsers. Optional.
	Description string

	// Instance is the mDNS instance name.
	// Empty derives one from SpaceName.
	Instance string

	// Port is the TCP port the agent listens on.
	// Zero uses DefaultPort.
	Port uint16
}

// AgentService represents a register agent found via mDNS.
type AgentService struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the hostname (e.g., "bench-rig-07.local").
	Host string

	// Port is the agent's TCP port.
	Port uint16

	// Addresses contains resolved IP addresses.
	Addresses []string

	// SpaceName is the served register space name (from TXT "space").
	SpaceName string

	// Version is the agent's toolkit version (from TXT "ver").
	Version string

	// AuthRequired reports whether the agent requires PSK
	// authentication (from TXT "auth").
	AuthRequired bool

	// Registers is the register count (from TXT "regs"), zero if absent.
	Registers int

	// Description is the optional description (from TXT "desc").
	Description string
}

// Addr returns a dialable "host:port" address for the agent, preferring a
// resolved IP address over the mDNS hostname.
func (s *AgentService) Addr() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	return net.JoinHostPort(host, strconv.FormatUint(uint64(s.Port), 10))
}
