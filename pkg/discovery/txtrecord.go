package discovery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/regmap-project/regmap-go/pkg/version"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeAgentTXT creates TXT records for agent discovery.
func EncodeAgentTXT(info *AgentInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	// Required fields
	txt[TXTKeyTXTVersion] = TXTVersion
	txt[TXTKeySpace] = info.SpaceName

	ver := info.Version
	if ver == "" {
		ver = version.Current
	}
	txt[TXTKeyVersion] = ver

	if info.AuthRequired {
		txt[TXTKeyAuth] = "1"
	} else {
		txt[TXTKeyAuth] = "0"
	}

	// Optional fields
	if info.Registers > 0 {
		txt[TXTKeyRegisters] = strconv.Itoa(info.Registers)
	}
	if info.Description != "" {
		txt[TXTKeyDescription] = info.Description
	}

	return txt
}

// DecodeAgentTXT parses TXT records from agent discovery.
func DecodeAgentTXT(txt TXTRecordMap) (*AgentInfo, error) {
	info := &AgentInfo{}

	// Parse TXT schema version (required)
	tv, ok := txt[TXTKeyTXTVersion]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyTXTVersion)
	}
	if tv != TXTVersion {
		return nil, fmt.Errorf("%w: unsupported txtvers %q", ErrInvalidTXTRecord, tv)
	}

	// Parse space name (required)
	info.SpaceName, ok = txt[TXTKeySpace]
	if !ok || info.SpaceName == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeySpace)
	}

	// Optional fields
	info.Version = txt[TXTKeyVersion]
	info.AuthRequired = txt[TXTKeyAuth] == "1"
	info.Description = txt[TXTKeyDescription]

	if rStr, ok := txt[TXTKeyRegisters]; ok {
		r, err := strconv.ParseUint(rStr, 10, 16)
		if err == nil {
			info.Registers = int(r)
		}
	}

	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value" strings.
// This format is commonly used by mDNS libraries.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}

// InstanceNameForSpace derives an mDNS instance name from a space name.
// Characters outside [A-Za-z0-9-] become '-', and the result is clipped
// to the DNS label limit. An empty or fully invalid name yields "regmap".
func InstanceNameForSpace(space string) string {
	var b strings.Builder
	for _, r := range space {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}

	name := strings.Trim(b.String(), "-")
	if name == "" {
		return "regmap"
	}
	if len(name) > MaxInstanceNameLen {
		name = name[:MaxInstanceNameLen]
	}
	return name
}
