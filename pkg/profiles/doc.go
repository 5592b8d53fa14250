// Package profiles provides predefined port-range presets for common scan
// scenarios. A profile is a ready-made port list that the scan command
// uses in place of --ports; it does not go through the --ports parser, so
// its ports keep the order they are listed in. It is a CLI convenience,
// not a core semantic.
//
// Available Profiles:
//
//   - quick: top common ports across services (fast reconnaissance)
//   - web: HTTP/HTTPS and web application ports
//   - database: relational/NoSQL database and message-queue ports
//   - full: ports 1 through the per-invocation port budget
//     (core.MaxPortBudget) — scanning more than that many distinct ports
//     in one invocation is not supported, so "full" is not all 65,535
//     ports the way the name might suggest elsewhere.
//
// Example usage:
//
//	ports := profiles.GetProfile("web")
//	fmt.Printf("Scanning %d web ports\n", len(ports))
//
//	for _, name := range profiles.ListProfiles() {
//	    fmt.Println(name)
//	}
//
// Port Deduplication:
//
// All profiles automatically deduplicate ports, so overlapping port
// definitions are safe and won't cause repeated probes.
package profiles
