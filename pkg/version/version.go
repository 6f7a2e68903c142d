// Package version provides toolkit version parsing, comparison, and wire
// protocol identifiers.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the toolkit version implemented by this library.
const Current = "1.0"

// Version represents a parsed "major.minor" toolkit version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major
}

// ProtocolID returns the wire protocol identifier for a major version:
// "regmap/N". The remote handshake and mDNS TXT records carry this string.
func ProtocolID(major uint16) string {
	return fmt.Sprintf("regmap/%d", major)
}

// MajorFromProtocolID extracts the major version from a protocol identifier.
func MajorFromProtocolID(id string) (uint16, error) {
	if !strings.HasPrefix(id, "regmap/") {
		return 0, fmt.Errorf("not a regmap protocol identifier: %q", id)
	}

	suffix := id[len("regmap/"):]
	if suffix == "" {
		return 0, fmt.Errorf("empty major version in protocol identifier: %q", id)
	}

	major, err := strconv.ParseUint(suffix, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid major version in protocol identifier %q: %w", id, err)
	}

	return uint16(major), nil
}

// CurrentProtocolID returns the protocol identifier for this library's
// own major version.
func CurrentProtocolID() string {
	current, _ := Parse(Current)
	return ProtocolID(current.Major)
}

// SupportedProtocolIDs returns the protocol identifiers for all supported
// major versions. Currently only major version 1.
func SupportedProtocolIDs() []string {
	return []string{CurrentProtocolID()}
}
