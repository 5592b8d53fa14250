// Package targets provides host normalization for the scan engine.
//
// This package converts user-provided host entries — literal IPv4
// addresses, hostnames, or a file of either, one per line — into a
// sorted, deduplicated slice of net.IP values ready for probe generation.
//
// Example usage:
//
//	hosts, err := targets.Resolve([]string{"192.168.1.1", "example.com"}, "", log)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Scanning %d hosts\n", len(hosts))
//
// Resolution order:
//
// Each entry is tried as a literal IPv4 address first; if that fails, it
// is resolved via DNS and the first IPv4 answer is kept. A per-entry
// failure (unresolvable hostname, IPv6-only answer) is logged as a
// warning and the entry is dropped — only an empty final result is
// fatal, returned as an error.
//
// Deduplication:
//
// The resolved set is sorted and deduplicated by address, regardless of
// how many times an entry was repeated or resolved to the same IP by a
// different name.
package targets
