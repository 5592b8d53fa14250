package core

import "testing"

func TestClassifySYN(t *testing.T) {
	cases := []struct {
		name   string
		kind   ResponseKind
		want   PortStatus
	}{
		{"syn-ack means open", ResponseTCP{Flags: tcpFlagSYN | tcpFlagACK}, StatusOpen},
		{"rst means closed", ResponseTCP{Flags: tcpFlagRST}, StatusClosed},
		{"bare ack carries no info", ResponseTCP{Flags: tcpFlagACK}, StatusUnknown},
		{"accepted icmp unreachable means filtered", ResponseICMP{Type: icmpTypeDestUnreachable, Code: icmpCodeHostUnreachable}, StatusFiltered},
		{"unaccepted icmp code carries no info", ResponseICMP{Type: icmpTypeDestUnreachable, Code: 4}, StatusUnknown},
		{"timeout means filtered", ResponseNone{}, StatusFiltered},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.kind, ScanSYN); got != c.want {
				t.Errorf("Classify(%v, SYN) = %v; want %v", c.kind, got, c.want)
			}
		})
	}
}

func TestClassifyACK(t *testing.T) {
	cases := []struct {
		name string
		kind ResponseKind
		want PortStatus
	}{
		{"rst means unfiltered", ResponseTCP{Flags: tcpFlagRST}, StatusUnfiltered},
		{"no rst carries no info", ResponseTCP{Flags: tcpFlagACK}, StatusUnknown},
		{"timeout means filtered", ResponseNone{}, StatusFiltered},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.kind, ScanACK); got != c.want {
				t.Errorf("Classify(%v, ACK) = %v; want %v", c.kind, got, c.want)
			}
		})
	}
}

func TestClassifyUDP(t *testing.T) {
	cases := []struct {
		name string
		kind ResponseKind
		want PortStatus
	}{
		{"udp reply means open", ResponseUDP{}, StatusOpen},
		{"port unreachable means closed", ResponseICMP{Type: icmpTypeDestUnreachable, Code: icmpCodePortUnreachable}, StatusClosed},
		{"other accepted code means filtered", ResponseICMP{Type: icmpTypeDestUnreachable, Code: icmpCodeHostUnreachable}, StatusFiltered},
		{"timeout means open|filtered", ResponseNone{}, StatusOpenOrFiltered},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.kind, ScanUDP); got != c.want {
				t.Errorf("Classify(%v, UDP) = %v; want %v", c.kind, got, c.want)
			}
		})
	}
}

func TestClassifyNullFinXmas(t *testing.T) {
	for _, technique := range []ScanTechnique{ScanNULL, ScanFIN, ScanXMAS} {
		t.Run(technique.String(), func(t *testing.T) {
			if got := Classify(ResponseTCP{Flags: tcpFlagRST}, technique); got != StatusClosed {
				t.Errorf("rst: Classify() = %v; want StatusClosed", got)
			}
			if got := Classify(ResponseNone{}, technique); got != StatusOpenOrFiltered {
				t.Errorf("timeout: Classify() = %v; want StatusOpenOrFiltered", got)
			}
		})
	}
}

func TestPortStatusOrderingLattice(t *testing.T) {
	if !(StatusUnknown < StatusFiltered && StatusFiltered < StatusUnfiltered &&
		StatusUnfiltered < StatusOpenOrFiltered && StatusOpenOrFiltered < StatusClosed &&
		StatusClosed < StatusOpen) {
		t.Error("PortStatus lattice ordering is not monotonically increasing as expected")
	}
}

func TestPortStatusString(t *testing.T) {
	cases := map[PortStatus]string{
		StatusOpen:           "open",
		StatusOpenOrFiltered: "open|filtered",
		StatusClosed:         "closed",
		StatusUnfiltered:     "unfiltered",
		StatusFiltered:       "filtered",
		StatusUnknown:        "unknown",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q; want %q", status, got, want)
		}
	}
}
