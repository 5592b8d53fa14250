package core

import (
	"fmt"
	"net"
)

// DefaultSourceDiscoverer picks the local IPv4 address the kernel would use
// to reach a given probe destination, by the standard Go trick of dialing
// UDP (which sends no packets) and reading the resulting local address.
// No interface-discovery library in the broader ecosystem targets this
// narrow a need more directly than the standard library already does.
type DefaultSourceDiscoverer struct {
	// Probe is the address used to pick a route; it is never dialed for
	// real traffic, only to ask the kernel which local address it would
	// bind to for that destination.
	Probe string
}

// NewDefaultSourceDiscoverer returns a discoverer that asks the kernel's
// routing table via a public IPv4 address.
func NewDefaultSourceDiscoverer() *DefaultSourceDiscoverer {
	return &DefaultSourceDiscoverer{Probe: "8.8.8.8:80"}
}

func (d *DefaultSourceDiscoverer) DiscoverSourceIP() (net.IP, error) {
	conn, err := net.Dial("udp4", d.Probe)
	if err != nil {
		return nil, fmt.Errorf("core: discover source address: %w", err)
	}
	defer conn.Close()

	local, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil, fmt.Errorf("core: unexpected local address type %T", conn.LocalAddr())
	}
	return local.IP, nil
}

// InterfaceForAddr returns the name of the interface that owns addr, so
// the receive socket can be bound to the same interface outbound probes
// leave from.
func InterfaceForAddr(addr net.IP) (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("core: list interfaces: %w", err)
	}

	for _, ifi := range ifaces {
		addrs, err := ifi.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if ipNet.IP.Equal(addr) {
				return ifi.Name, nil
			}
		}
	}
	return "", fmt.Errorf("core: no interface owns address %s", addr)
}
