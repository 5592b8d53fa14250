package core

import (
	"encoding/binary"
	"net"
	"testing"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

func ipv4Frame(t *testing.T, src, dst net.IP, protocol int, payload []byte) []byte {
	t.Helper()
	h := &ipv4.Header{
		Version:  ipv4.Version,
		Len:      ipv4.HeaderLen,
		TotalLen: ipv4.HeaderLen + len(payload),
		TTL:      64,
		Protocol: protocol,
		Src:      src.To4(),
		Dst:      dst.To4(),
	}
	raw, err := h.Marshal()
	if err != nil {
		t.Fatalf("marshal ipv4 header: %v", err)
	}
	return append(raw, payload...)
}

func tcpSegment(srcPort, destPort uint16, flags uint8) []byte {
	b := make([]byte, 20)
	binary.BigEndian.PutUint16(b[0:2], srcPort)
	binary.BigEndian.PutUint16(b[2:4], destPort)
	b[13] = flags
	return b
}

func udpSegment(srcPort, destPort uint16) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint16(b[0:2], srcPort)
	binary.BigEndian.PutUint16(b[2:4], destPort)
	return b
}

func TestDecodeResponseTCP(t *testing.T) {
	router := net.ParseIP("10.0.0.1")
	us := net.ParseIP("10.0.0.2")

	frame := ipv4Frame(t, router, us, ipProtoTCP, tcpSegment(80, 41000, tcpFlagSYN|tcpFlagACK))

	resp, err := DecodeResponse(frame)
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if !resp.Origin.Equal(router.To4()) {
		t.Errorf("Origin = %v; want %v", resp.Origin, router)
	}
	if resp.OriginPort != 80 {
		t.Errorf("OriginPort = %d; want 80", resp.OriginPort)
	}
	if resp.ProbeID != 41000 {
		t.Errorf("ProbeID = %d; want 41000", resp.ProbeID)
	}
	tcp, ok := resp.Kind.(ResponseTCP)
	if !ok {
		t.Fatalf("Kind = %T; want ResponseTCP", resp.Kind)
	}
	if tcp.Flags != tcpFlagSYN|tcpFlagACK {
		t.Errorf("Flags = %#x; want %#x", tcp.Flags, tcpFlagSYN|tcpFlagACK)
	}
}

func TestDecodeResponseUDP(t *testing.T) {
	router := net.ParseIP("10.0.0.1")
	us := net.ParseIP("10.0.0.2")

	frame := ipv4Frame(t, router, us, ipProtoUDP, udpSegment(53, 41000))

	resp, err := DecodeResponse(frame)
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if _, ok := resp.Kind.(ResponseUDP); !ok {
		t.Fatalf("Kind = %T; want ResponseUDP", resp.Kind)
	}
	if resp.OriginPort != 53 || resp.ProbeID != 41000 {
		t.Errorf("OriginPort/ProbeID = %d/%d; want 53/41000", resp.OriginPort, resp.ProbeID)
	}
}

func TestDecodeResponseICMPDestUnreachable(t *testing.T) {
	router := net.ParseIP("10.0.0.1")
	us := net.ParseIP("10.0.0.2")
	target := net.ParseIP("93.184.216.34")

	// The embedded packet is the original probe we sent: us -> target.
	embedded := ipv4Frame(t, us, target, ipProtoUDP, udpSegment(41000, 53))

	msg := icmp.Message{
		Type: ipv4.ICMPTypeDestinationUnreachable,
		Code: 3,
		Body: &icmp.DstUnreach{Data: embedded},
	}
	icmpBytes, err := msg.Marshal(nil)
	if err != nil {
		t.Fatalf("marshal icmp message: %v", err)
	}

	frame := ipv4Frame(t, router, us, ipProtoICMP, icmpBytes)

	resp, err := DecodeResponse(frame)
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	icmpResp, ok := resp.Kind.(ResponseICMP)
	if !ok {
		t.Fatalf("Kind = %T; want ResponseICMP", resp.Kind)
	}
	if icmpResp.Type != icmpTypeDestUnreachable {
		t.Errorf("Type = %d; want %d", icmpResp.Type, icmpTypeDestUnreachable)
	}
	if icmpResp.Code != icmpCodePortUnreachable {
		t.Errorf("Code = %d; want %d", icmpResp.Code, icmpCodePortUnreachable)
	}

	// OriginPort/ProbeID identify the outstanding probe this ICMP error
	// answers, swapped back from the embedded packet's perspective.
	if resp.OriginPort != 53 {
		t.Errorf("OriginPort = %d; want 53 (embedded dest port)", resp.OriginPort)
	}
	if resp.ProbeID != 41000 {
		t.Errorf("ProbeID = %d; want 41000 (embedded source port)", resp.ProbeID)
	}
}

func TestDecodeResponseICMPUnsupportedBody(t *testing.T) {
	router := net.ParseIP("10.0.0.1")
	us := net.ParseIP("10.0.0.2")

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: 1, Seq: 1, Data: []byte("ping")},
	}
	icmpBytes, err := msg.Marshal(nil)
	if err != nil {
		t.Fatalf("marshal icmp message: %v", err)
	}

	frame := ipv4Frame(t, router, us, ipProtoICMP, icmpBytes)

	if _, err := DecodeResponse(frame); err == nil {
		t.Fatal("expected error for unsupported icmp message type")
	}
}

func TestDecodeResponseUnsupportedProtocol(t *testing.T) {
	router := net.ParseIP("10.0.0.1")
	us := net.ParseIP("10.0.0.2")

	frame := ipv4Frame(t, router, us, 47, []byte{0, 1, 2, 3})

	if _, err := DecodeResponse(frame); err == nil {
		t.Fatal("expected error for unsupported protocol")
	}
}

func TestDecodeResponseFrameTooSmall(t *testing.T) {
	if _, err := DecodeResponse([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for undersized frame")
	}
}

func TestSkipLinkLayerDetectsEthernet(t *testing.T) {
	router := net.ParseIP("10.0.0.1")
	us := net.ParseIP("10.0.0.2")
	ipOnly := ipv4Frame(t, router, us, ipProtoUDP, udpSegment(53, 41000))

	n, err := skipLinkLayer(ipOnly)
	if err != nil {
		t.Fatalf("skipLinkLayer (ip-only): %v", err)
	}
	if n != 0 {
		t.Errorf("offset = %d; want 0 for ip-only frame", n)
	}

	eth := append(make([]byte, 14), ipOnly...)
	n, err = skipLinkLayer(eth)
	if err != nil {
		t.Fatalf("skipLinkLayer (ethernet): %v", err)
	}
	if n != 14 {
		t.Errorf("offset = %d; want 14 for ethernet-wrapped frame", n)
	}
}
