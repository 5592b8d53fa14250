package core

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// TCP flag bits, as laid out in the 6-bit flags field this scanner reads
// and writes (URG/ACK/PSH/RST/SYN/FIN).
const (
	tcpFlagFIN uint8 = 0b000001
	tcpFlagSYN uint8 = 0b000010
	tcpFlagRST uint8 = 0b000100
	tcpFlagPSH uint8 = 0b001000
	tcpFlagACK uint8 = 0b010000
	tcpFlagURG uint8 = 0b100000
)

const (
	icmpTypeDestUnreachable uint8 = 3

	icmpCodeNetworkUnreachable           uint8 = 0
	icmpCodeHostUnreachable              uint8 = 1
	icmpCodeProtocolUnreachable          uint8 = 2
	icmpCodePortUnreachable              uint8 = 3
	icmpCodeNetworkAdminProhibited       uint8 = 9
	icmpCodeHostAdminProhibited          uint8 = 10
	icmpCodeCommunicationAdminProhibited uint8 = 13
)

const (
	ipProtoICMP = 1
	ipProtoTCP  = 6
	ipProtoUDP  = 17
)

// ResponseKind is the sealed set of shapes a decoded response can take.
type ResponseKind interface {
	isResponseKind()
}

// ResponseTCP is a TCP segment received in reply to a probe.
type ResponseTCP struct{ Flags uint8 }

// ResponseUDP is a UDP datagram received in reply to a UDP probe (only
// possible when the target port is open and echoes something back).
type ResponseUDP struct{}

// ResponseICMP is an ICMP message, almost always a destination-unreachable
// sent because the probe could not be delivered.
type ResponseICMP struct {
	Type uint8
	Code uint8
}

// ResponseNone marks a probe that timed out with no correlated reply.
type ResponseNone struct{}

func (ResponseTCP) isResponseKind()   {}
func (ResponseUDP) isResponseKind()   {}
func (ResponseICMP) isResponseKind()  {}
func (ResponseNone) isResponseKind()  {}

// Response is a fully decoded, correlatable reply. Origin is the source
// address of the received IPv4 packet; for an ICMP error that is whoever
// generated the error, which equals the probed host only when that host
// sent it. OriginPort is the port the probe was sent to. Together they form
// the report store's key. ProbeID is our own source port, which the store
// uses to find the exact outstanding probe this reply answers.
type Response struct {
	Origin     net.IP
	OriginPort uint16
	ProbeID    uint16
	Kind       ResponseKind
	Received   time.Time
}

// nextHeaderInfo is the result of peeling one IPv4 header's payload,
// shared between the top-level decode and the recursive ICMP-embedded one.
type nextHeaderInfo struct {
	kind        ResponseKind
	source      uint16
	destination uint16
}

// DecodeResponse parses a captured link-level frame into a Response. It
// returns an error for anything too short or carrying a protocol this
// scanner does not probe with; callers treat a decode error as "drop the
// frame silently" per the runtime-decode error class.
func DecodeResponse(frame []byte) (Response, error) {
	now := time.Now()

	ipStart, err := skipLinkLayer(frame)
	if err != nil {
		return Response{}, err
	}

	ipHeader, err := ipv4.ParseHeader(frame[ipStart:])
	if err != nil {
		return Response{}, fmt.Errorf("core: parse ipv4 header: %w", err)
	}

	payload := frame[ipStart+ipHeader.Len:]
	info, err := fetchNextHeaderInfo(ipHeader.Protocol, payload)
	if err != nil {
		return Response{}, err
	}

	return Response{
		Origin:     ipHeader.Src,
		OriginPort: info.source,
		ProbeID:    info.destination,
		Kind:       info.kind,
		Received:   now,
	}, nil
}

// skipLinkLayer strips a 14-byte Ethernet header when the capture includes
// one (link-level AF_PACKET sockets deliver it; a pure IP-level socket
// would not, hence the length-based sniff instead of an assumed offset).
func skipLinkLayer(frame []byte) (int, error) {
	if len(frame) < 20 {
		return 0, fmt.Errorf("core: frame too small (%d bytes)", len(frame))
	}
	// An IPv4 header's first nibble is the version; Ethernet frames never
	// start with 0x4 in that position, so this distinguishes the two
	// capture shapes without needing a side channel from the socket layer.
	if frame[0]>>4 == 4 {
		return 0, nil
	}
	if len(frame) < 14+20 {
		return 0, fmt.Errorf("core: ethernet frame too small (%d bytes)", len(frame))
	}
	return 14, nil
}

func fetchNextHeaderInfo(protocol int, payload []byte) (nextHeaderInfo, error) {
	switch protocol {
	case ipProtoTCP:
		if len(payload) < 20 {
			return nextHeaderInfo{}, fmt.Errorf("core: tcp segment too small")
		}
		return nextHeaderInfo{
			kind:        ResponseTCP{Flags: payload[13] & 0x3f},
			source:      binary.BigEndian.Uint16(payload[0:2]),
			destination: binary.BigEndian.Uint16(payload[2:4]),
		}, nil

	case ipProtoUDP:
		if len(payload) < 8 {
			return nextHeaderInfo{}, fmt.Errorf("core: udp datagram too small")
		}
		return nextHeaderInfo{
			kind:        ResponseUDP{},
			source:      binary.BigEndian.Uint16(payload[0:2]),
			destination: binary.BigEndian.Uint16(payload[2:4]),
		}, nil

	case ipProtoICMP:
		msg, err := icmp.ParseMessage(ipProtoICMP, payload)
		if err != nil {
			return nextHeaderInfo{}, fmt.Errorf("core: parse icmp message: %w", err)
		}
		body, ok := msg.Body.(*icmp.DstUnreach)
		if !ok {
			return nextHeaderInfo{}, fmt.Errorf("core: unsupported icmp message type %v", msg.Type)
		}
		icmpType, _ := msg.Type.(ipv4.ICMPType)

		embeddedHeader, err := ipv4.ParseHeader(body.Data)
		if err != nil {
			return nextHeaderInfo{}, fmt.Errorf("core: parse embedded ipv4 header: %w", err)
		}
		origin, err := fetchNextHeaderInfo(embeddedHeader.Protocol, body.Data[embeddedHeader.Len:])
		if err != nil {
			return nextHeaderInfo{}, err
		}

		// The embedded header is the probe we originally sent, so source
		// and destination are swapped relative to our point of view: the
		// embedded packet's source port is our own source port.
		return nextHeaderInfo{
			kind:        ResponseICMP{Type: uint8(icmpType), Code: uint8(msg.Code)},
			source:      origin.destination,
			destination: origin.source,
		}, nil

	default:
		return nextHeaderInfo{}, fmt.Errorf("core: unsupported protocol %d", protocol)
	}
}
