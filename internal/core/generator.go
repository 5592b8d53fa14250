package core

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net"
)

// Generator lazily enumerates the cartesian product of hosts, ports and
// scan techniques without ever materializing it: each call to Next crafts
// exactly one probe. Ports are the outermost axis, scans the next, and
// hosts cycle fastest — for a fixed (scan, port) pair every host is swept
// before the scan advances, and every scan is swept before the port
// advances, so adjacent emissions that share a (scan, port) pair always
// hit different hosts.
type Generator struct {
	hosts []net.IP
	ports []uint16
	scans []ScanTechnique

	hostIdx, portIdx, scanIdx int
	started                   bool

	sourceAddr net.IP
	sourceBase uint16
	tcpSeq     uint32
}

// NewGenerator builds a Generator over the given normalized hosts, ports
// and scan techniques, sent from sourceAddr. It fails only if any input
// slice is empty — callers are expected to have already rejected that at
// the input-normalization stage, so this is a defensive invariant check,
// not a user-facing validation path.
func NewGenerator(hosts []net.IP, ports []uint16, scans []ScanTechnique, sourceAddr net.IP) (*Generator, error) {
	if len(hosts) == 0 || len(ports) == 0 || len(scans) == 0 {
		return nil, fmt.Errorf("core: generator requires at least one host, port and scan technique")
	}

	base, err := randomSourceBase()
	if err != nil {
		return nil, err
	}
	seq, err := randomUint32()
	if err != nil {
		return nil, err
	}

	return &Generator{
		hosts:      hosts,
		ports:      ports,
		scans:      scans,
		sourceAddr: sourceAddr,
		sourceBase: base,
		tcpSeq:     seq,
	}, nil
}

// Total reports how many probes this generator will emit in total, for
// progress reporting.
func (g *Generator) Total() int {
	return len(g.hosts) * len(g.ports) * len(g.scans)
}

// Next returns the next probe, or ok=false once every combination has been
// emitted.
func (g *Generator) Next() (probe Probe, ok bool) {
	if !g.started {
		g.started = true
	} else if !g.advance() {
		return Probe{}, false
	}

	scan := g.scans[g.scanIdx]
	port := g.ports[g.portIdx]
	host := g.hosts[g.hostIdx]

	sourcePort := g.sourceBase + uint16(scan)
	return buildProbe(g.sourceAddr, host, sourcePort, port, scan, g.tcpSeq), true
}

// advance moves the cursors to the next combination, reporting false once
// the port cursor itself would wrap (i.e. everything has been emitted).
func (g *Generator) advance() bool {
	g.hostIdx++
	if g.hostIdx < len(g.hosts) {
		return true
	}
	g.hostIdx = 0

	g.scanIdx++
	if g.scanIdx < len(g.scans) {
		return true
	}
	g.scanIdx = 0

	g.portIdx++
	return g.portIdx < len(g.ports)
}

func randomSourceBase() (uint16, error) {
	span := uint32(SourcePortMax - SourcePortMin + 1)
	n, err := randomUint32()
	if err != nil {
		return 0, err
	}
	return uint16(SourcePortMin + n%span), nil
}

func randomUint32() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("core: failed to read random bytes: %w", err)
	}
	return binary.BigEndian.Uint32(b[:]), nil
}
