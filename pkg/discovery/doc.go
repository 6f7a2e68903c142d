// Package discovery implements mDNS/DNS-SD discovery of register agents.
//
// Agents advertise the _regmap._tcp service in the local domain, one
// instance per served register space. TXT records carry the space name and
// enough metadata for a browser to decide how to connect:
//
//	txtvers  TXT schema version (currently 1)
//	space    register space name (required)
//	ver      toolkit version of the agent
//	auth     "1" when the agent requires pre-shared-key authentication
//	regs     number of registers in the space (optional)
//	desc     free-form description (optional)
//
// Browsers aggregate entries by instance name, merging the addresses seen
// on different interfaces into one AgentService per agent. An entry whose
// TXT records do not decode is ignored.
//
// Discovery is a convenience only. Remote clients dial plain host:port
// addresses without it, and agents work unannounced.
package discovery
