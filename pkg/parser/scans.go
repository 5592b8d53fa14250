package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucchesi-sec/synprobe/internal/core"
)

// ParseScans parses a comma-separated scan-technique list (e.g.
// "syn,null,udp") into a sorted, deduplicated list of core.ScanTechnique
// values. Matching is case-insensitive; unknown tokens are rejected.
func ParseScans(spec string) ([]core.ScanTechnique, error) {
	var scans []core.ScanTechnique
	seen := make(map[core.ScanTechnique]bool)

	for _, token := range strings.Split(spec, ",") {
		token = strings.ToUpper(strings.TrimSpace(token))
		if token == "" {
			continue
		}

		technique, ok := core.ParseScanTechnique(token)
		if !ok {
			return nil, fmt.Errorf("%q is not a valid scan technique", token)
		}
		if seen[technique] {
			continue
		}
		seen[technique] = true
		scans = append(scans, technique)
	}

	if len(scans) == 0 {
		return nil, fmt.Errorf("no valid scan techniques specified")
	}

	sort.Slice(scans, func(i, j int) bool { return scans[i] < scans[j] })
	return scans, nil
}
