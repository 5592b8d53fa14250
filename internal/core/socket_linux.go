//go:build linux

package core

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// SendSocket is a RawSender backed by an IP_HDRINCL raw socket: the caller
// supplies the complete IPv4 header, so the same socket can carry this
// scanner's hand-crafted TCP and UDP probes alike.
type SendSocket struct {
	fd int
}

// NewSendSocket opens the send-side raw socket. Requires CAP_NET_RAW (in
// practice, running as root).
func NewSendSocket() (*SendSocket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_RAW)
	if err != nil {
		return nil, fmt.Errorf("core: open send socket: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_HDRINCL, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("core: set IP_HDRINCL: %w", err)
	}
	return &SendSocket{fd: fd}, nil
}

func (s *SendSocket) Send(dest net.IP, data []byte) error {
	dst4 := dest.To4()
	if dst4 == nil {
		return fmt.Errorf("core: destination %s is not an IPv4 address", dest)
	}
	addr := unix.SockaddrInet4{Addr: [4]byte{dst4[0], dst4[1], dst4[2], dst4[3]}}
	if err := unix.Sendto(s.fd, data, 0, &addr); err != nil {
		return fmt.Errorf("core: sendto %s: %w", dest, err)
	}
	return nil
}

func (s *SendSocket) Close() error {
	return unix.Close(s.fd)
}

// RecvSocket is a RawReceiver backed by a cooked (SOCK_DGRAM) AF_PACKET
// socket bound to one interface, listening for the IPv4 ethertype. This
// uniformly captures TCP, UDP and ICMP replies through the same socket,
// since the kernel delivers them all once bound at the link layer rather
// than to protocol-specific raw sockets, and cooked mode hands back the
// IPv4 datagram directly without a link-layer header to strip.
type RecvSocket struct {
	fd int
}

// NewRecvSocket opens and binds the receive-side socket on the named
// interface (normally whichever one owns the discovered source address).
func NewRecvSocket(ifaceName string) (*RecvSocket, error) {
	ifi, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return nil, fmt.Errorf("core: resolve interface %s: %w", ifaceName, err)
	}

	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_DGRAM, htons(unix.ETH_P_IP))
	if err != nil {
		return nil, fmt.Errorf("core: open receive socket: %w", err)
	}

	sa := &unix.SockaddrLinklayer{
		Protocol: htons(unix.ETH_P_IP),
		Ifindex:  ifi.Index,
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("core: bind receive socket to %s: %w", ifaceName, err)
	}

	return &RecvSocket{fd: fd}, nil
}

func (r *RecvSocket) Recv(buf []byte) (int, error) {
	n, _, err := unix.Recvfrom(r.fd, buf, 0)
	if err != nil {
		return 0, fmt.Errorf("core: recvfrom: %w", err)
	}
	return n, nil
}

func (r *RecvSocket) Close() error {
	return unix.Close(r.fd)
}

// FD exposes the underlying descriptor so a Waiter can poll it.
func (r *RecvSocket) FD() int {
	return r.fd
}

func htons(v int) uint16 {
	return uint16(v<<8&0xff00 | v>>8&0xff)
}
