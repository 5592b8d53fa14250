package core

// PortStatus is the conclusion reached about a single probed port. The
// ordering below is a lattice from least to most informative: classify
// never lowers a report's status, it only raises it toward a more
// conclusive answer as responses arrive.
type PortStatus uint8

const (
	StatusUnknown PortStatus = iota
	StatusFiltered
	StatusUnfiltered
	StatusOpenOrFiltered
	StatusClosed
	StatusOpen
)

func (s PortStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusOpenOrFiltered:
		return "open|filtered"
	case StatusClosed:
		return "closed"
	case StatusUnfiltered:
		return "unfiltered"
	case StatusFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// acceptedICMPCodes are the destination-unreachable codes treated as
// evidence of filtering, as opposed to codes that carry no scan-relevant
// information (e.g. fragmentation-needed).
var acceptedICMPCodes = map[uint8]bool{
	icmpCodeHostUnreachable:                  true,
	icmpCodeProtocolUnreachable:               true,
	icmpCodePortUnreachable:                   true,
	icmpCodeNetworkAdminProhibited:            true,
	icmpCodeHostAdminProhibited:               true,
	icmpCodeCommunicationAdminProhibited:      true,
}

// Classify derives a PortStatus from a decoded response and the technique
// that produced the probe it answers. It never returns a status that
// contradicts what was actually observed on the wire; StatusUnknown means
// the response carries no information for this technique and the caller
// should keep waiting for a more conclusive one.
func Classify(kind ResponseKind, technique ScanTechnique) PortStatus {
	switch technique {
	case ScanSYN:
		return classifySYN(kind)
	case ScanACK:
		return classifyACK(kind)
	case ScanUDP:
		return classifyUDP(kind)
	default: // NULL, FIN, XMAS share one classification table
		return classifyNullFinXmas(kind)
	}
}

func classifySYN(kind ResponseKind) PortStatus {
	switch r := kind.(type) {
	case ResponseTCP:
		if r.Flags&tcpFlagRST != 0 {
			return StatusClosed
		}
		if r.Flags&tcpFlagSYN != 0 {
			return StatusOpen
		}
		return StatusUnknown
	case ResponseICMP:
		if r.Type == icmpTypeDestUnreachable && acceptedICMPCodes[r.Code] {
			return StatusFiltered
		}
		return StatusUnknown
	case ResponseNone:
		return StatusFiltered
	default:
		return StatusUnknown
	}
}

func classifyACK(kind ResponseKind) PortStatus {
	switch r := kind.(type) {
	case ResponseTCP:
		if r.Flags&tcpFlagRST != 0 {
			return StatusUnfiltered
		}
		return StatusUnknown
	case ResponseICMP:
		if r.Type == icmpTypeDestUnreachable && acceptedICMPCodes[r.Code] {
			return StatusFiltered
		}
		return StatusUnknown
	case ResponseNone:
		return StatusFiltered
	default:
		return StatusUnknown
	}
}

func classifyUDP(kind ResponseKind) PortStatus {
	switch r := kind.(type) {
	case ResponseUDP:
		return StatusOpen
	case ResponseICMP:
		if r.Type == icmpTypeDestUnreachable && acceptedICMPCodes[r.Code] {
			if r.Code == icmpCodePortUnreachable {
				return StatusClosed
			}
			return StatusFiltered
		}
		return StatusUnknown
	case ResponseNone:
		return StatusOpenOrFiltered
	default:
		return StatusUnknown
	}
}

func classifyNullFinXmas(kind ResponseKind) PortStatus {
	switch r := kind.(type) {
	case ResponseTCP:
		if r.Flags&tcpFlagRST != 0 {
			return StatusClosed
		}
		return StatusUnknown
	case ResponseICMP:
		if r.Type == icmpTypeDestUnreachable && acceptedICMPCodes[r.Code] {
			return StatusFiltered
		}
		return StatusUnknown
	case ResponseNone:
		return StatusOpenOrFiltered
	default:
		return StatusUnknown
	}
}
