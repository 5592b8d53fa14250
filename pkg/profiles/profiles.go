package profiles

import "github.com/lucchesi-sec/synprobe/internal/core"

// Predefined scan profiles for common use cases. GetProfile returns a
// profile's ports as a list that the scan command uses directly, in the
// order written here; it is not passed through parser.ParsePorts, so it is
// neither sorted nor checked against core.MaxPortBudget there. Every list
// below holds at most core.MaxPortBudget ports.
var profiles = map[string][]uint16{
	"quick": {
		21, 22, 23, 25, 53, 80, 110, 111, 135, 139, 143, 443, 445, 993, 995,
		1723, 3306, 3389, 5900, 8080, 8443, 8888,
		20, 26, 37, 79, 81, 88, 106, 113, 119, 161, 162, 179, 194, 199,
		264, 280, 301, 306, 311, 340, 366, 389, 406, 407, 416, 417, 425,
		427, 444, 458, 464, 465, 481, 497, 500, 512, 513, 514, 515,
		524, 541, 543, 544, 545, 548, 554, 555, 563, 587, 593, 616, 617,
		625, 631, 636, 646, 648, 666, 667, 668, 683, 687, 691, 700, 705,
		711, 714, 720, 722, 726, 749, 765, 777, 783, 787, 800, 801, 808,
		843, 873, 880, 898, 900, 901, 902, 903, 911, 912, 981, 987,
		990, 992, 999, 1000, 1001, 1002,
	},
	"web": {
		80, 443,
		8080, 8443,
		3000, 3001,
		4200, 4443,
		5000, 5001,
		7000, 7001,
		8000, 8001,
		8081, 8082, 8083,
		8888, 8889,
		9000, 9001,
		9090, 9091,
		10000, 10001,
		3003, 3004, 3005,
		4000, 4001, 4002,
		5555, 5556,
		3128, 8123,
		11211,
		1935, 8554,
	},
	"database": {
		3306,
		5432,
		1433, 1434,
		1521, 1830,
		27017, 27018, 27019,
		6379, 6380,
		9042, 9160,
		5984, 6984,
		8086, 8088,
		9200, 9300,
		8983,
		5672, 15672,
		9092,
		2181,
		11211, 11212,
		8091, 8092,
	},
	// "full" is handled specially below: it returns 1..MaxPortBudget,
	// since a scan of more than core.MaxPortBudget ports per invocation
	// is disallowed.
	"full": {},
}

// GetProfile returns the deduplicated ports for a given profile name.
func GetProfile(name string) []uint16 {
	if name == "full" {
		ports := make([]uint16, core.MaxPortBudget)
		for i := range ports {
			ports[i] = uint16(i + 1)
		}
		return ports
	}

	raw, ok := profiles[name]
	if !ok {
		return nil
	}

	seen := make(map[uint16]bool, len(raw))
	out := make([]uint16, 0, len(raw))
	for _, p := range raw {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// ListProfiles returns all available profile names.
func ListProfiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	return names
}
