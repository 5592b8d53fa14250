package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lucchesi-sec/synprobe/internal/core"
)

// portRange is a single inclusive [start, end] span, pre-merge.
type portRange struct {
	start, end uint16
}

// ParsePorts parses a comma-separated port specification — single ports
// ("80") and inclusive ranges ("1-1024") — into a sorted, deduplicated
// port list. Overlapping or boundary-equal ranges are coalesced before
// expansion, and the combined width is capped at core.MaxPortBudget ports
// to bound how large a single invocation's probe set can get.
func ParsePorts(spec string) ([]uint16, error) {
	var ranges []portRange

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		r, err := parseRangeToken(token)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}

	if len(ranges) == 0 {
		return nil, fmt.Errorf("no valid ports specified")
	}

	merged, err := mergeRanges(ranges)
	if err != nil {
		return nil, err
	}

	return expandRanges(merged), nil
}

func parseRangeToken(token string) (portRange, error) {
	parts := strings.SplitN(token, "-", 2)

	if len(parts) == 1 {
		v, err := parsePortValue(parts[0])
		if err != nil {
			return portRange{}, err
		}
		return portRange{start: v, end: v}, nil
	}

	a, err := parsePortValue(parts[0])
	if err != nil {
		return portRange{}, err
	}
	b, err := parsePortValue(parts[1])
	if err != nil {
		return portRange{}, err
	}

	if a > b {
		a, b = b, a
	}
	return portRange{start: a, end: b}, nil
}

func parsePortValue(raw string) (uint16, error) {
	trimmed := strings.TrimSpace(raw)
	num, err := strconv.Atoi(trimmed)
	if err != nil || num < 1 || num > 65535 {
		return 0, fmt.Errorf("invalid port: %q", raw)
	}
	return uint16(num), nil
}

// mergeRanges sorts ranges by start and coalesces any that overlap or
// share a boundary, using the same sliding-window pass over consecutive
// pairs as the reference grammar this is ported from, then enforces the
// total-width budget over the merged result.
func mergeRanges(ranges []portRange) ([]portRange, error) {
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].start != ranges[j].start {
			return ranges[i].start < ranges[j].start
		}
		return ranges[i].end < ranges[j].end
	})

	var result []portRange

	if len(ranges) == 1 {
		result = ranges
	} else {
		var pending *portRange

		for i := 0; i < len(ranges)-1; i++ {
			a, b := ranges[i], ranges[i+1]

			if pending != nil {
				if pending.end >= b.start {
					if pending.end < b.end {
						pending.end = b.end
					}
					continue
				}
				result = append(result, *pending)
				pending = nil
				continue
			}

			if a.end >= b.start {
				end := a.end
				if b.end > end {
					end = b.end
				}
				pending = &portRange{start: a.start, end: end}
			} else {
				result = append(result, a)
			}
		}

		if pending != nil {
			result = append(result, *pending)
		} else {
			result = append(result, ranges[len(ranges)-1])
		}
	}

	total := 0
	for _, r := range result {
		total += int(r.end) - int(r.start) + 1
	}
	if total > core.MaxPortBudget {
		return nil, fmt.Errorf("cannot scan more than %d ports at once", core.MaxPortBudget)
	}

	return result, nil
}

func expandRanges(ranges []portRange) []uint16 {
	total := 0
	for _, r := range ranges {
		total += int(r.end) - int(r.start) + 1
	}

	out := make([]uint16, 0, total)
	for _, r := range ranges {
		for p := uint32(r.start); p <= uint32(r.end); p++ {
			out = append(out, uint16(p))
		}
	}
	return out
}
