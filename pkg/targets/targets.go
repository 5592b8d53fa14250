package targets

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Resolve normalizes a list of user-provided host entries (and, if
// filePath is non-empty, every non-blank line of that file, appended to
// the same list) into a sorted, deduplicated slice of IPv4 addresses.
//
// Each entry is normalized the same way: a literal IPv4 address is used
// as-is; anything else is resolved via DNS, keeping the first IPv4 answer.
// An entry that fails to resolve is logged as a warning and dropped —
// resolution failures are non-fatal per entry. The call only fails once
// every entry has been tried and none produced a usable address.
func Resolve(entries []string, filePath string, log *logrus.Entry) ([]net.IP, error) {
	all := append([]string{}, entries...)

	if filePath != "" {
		lines, err := readLines(filePath)
		if err != nil {
			return nil, fmt.Errorf("targets: cannot read %q: %w", filePath, err)
		}
		all = append(all, lines...)
	}

	var hosts []net.IP
	for _, raw := range all {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}

		ip, err := normalizeEntry(entry)
		if err != nil {
			if log != nil {
				log.WithField("target", entry).Warn(err.Error())
			}
			continue
		}
		hosts = append(hosts, ip)
	}

	hosts = dedupeSorted(hosts)
	if len(hosts) == 0 {
		return nil, fmt.Errorf("no valid target to scan")
	}
	return hosts, nil
}

func normalizeEntry(entry string) (net.IP, error) {
	if ip := net.ParseIP(entry); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
		return nil, fmt.Errorf("%q is an IPv6 address, not supported", entry)
	}

	addrs, err := net.LookupHost(entry)
	if err != nil {
		return nil, fmt.Errorf("%q: failed to resolve hostname: %w", entry, err)
	}

	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil {
			if v4 := ip.To4(); v4 != nil {
				return v4, nil
			}
		}
	}
	return nil, fmt.Errorf("%q: resolved but no IPv4 address found", entry)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func dedupeSorted(hosts []net.IP) []net.IP {
	sort.Slice(hosts, func(i, j int) bool {
		return strLess(hosts[i], hosts[j])
	})

	var out []net.IP
	for i, ip := range hosts {
		if i > 0 && ip.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, ip)
	}
	return out
}

func strLess(a, b net.IP) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
