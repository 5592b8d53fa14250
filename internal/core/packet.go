package core

import (
	"encoding/binary"
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
)

// probeLen is the fixed size of every crafted probe: a 20-byte IPv4 header
// plus a 20-byte slot for the transport header. UDP only fills the first 8
// bytes of that slot and zero-pads the rest, matching the buffer shape
// every technique shares.
const probeLen = 40

// Probe is one crafted datagram ready to be written to a raw socket.
type Probe struct {
	Data       [probeLen]byte
	Host       net.IP
	Port       uint16
	SourcePort uint16
	Technique  ScanTechnique
}

// buildProbe lays out the IPv4 header and the TCP or UDP payload for one
// (host, port, technique) combination, computing both checksums by hand in
// the same one's-complement fashion the rest of this stack uses.
func buildProbe(sourceAddr, destAddr net.IP, sourcePort, destPort uint16, technique ScanTechnique, tcpSeq uint32) Probe {
	var buf [probeLen]byte

	srcIP := sourceAddr.To4()
	dstIP := destAddr.To4()

	var totalLength int
	if technique.IsTCP() {
		totalLength = 40
		writeTCPSegment(buf[20:40], srcIP, dstIP, sourcePort, destPort, technique.TCPFlags(), tcpSeq)
	} else {
		totalLength = 28
		writeUDPSegment(buf[20:28], srcIP, dstIP, sourcePort, destPort)
	}

	writeIPv4Header(buf[0:20], srcIP, dstIP, totalLength, technique)

	return Probe{
		Data:       buf,
		Host:       destAddr,
		Port:       destPort,
		SourcePort: sourcePort,
		Technique:  technique,
	}
}

// writeIPv4Header marshals the outer IPv4 header with golang.org/x/net/ipv4,
// the same Header.Marshal idiom used to build raw probe headers elsewhere
// in the corpus. Marshal leaves the checksum field zero, so the header
// checksum is computed with checksum16 once the rest of the header is set.
func writeIPv4Header(b []byte, src, dst net.IP, totalLength int, technique ScanTechnique) {
	protocol := ipProtoUDP
	if technique.IsTCP() {
		protocol = ipProtoTCP
	}

	h := &ipv4.Header{
		Version:  ipv4.Version,
		Len:      ipv4.HeaderLen,
		TotalLen: totalLength,
		TTL:      64,
		Protocol: protocol,
		Src:      src,
		Dst:      dst,
	}

	raw, err := h.Marshal()
	if err != nil {
		panic(fmt.Sprintf("core: marshal ipv4 header: %v", err))
	}
	binary.BigEndian.PutUint16(raw[10:12], checksum16(raw))
	copy(b, raw)
}

func writeTCPSegment(b []byte, src, dst net.IP, sourcePort, destPort uint16, flags uint8, seq uint32) {
	binary.BigEndian.PutUint16(b[0:2], sourcePort)
	binary.BigEndian.PutUint16(b[2:4], destPort)
	binary.BigEndian.PutUint32(b[4:8], seq)
	binary.BigEndian.PutUint32(b[8:12], 0) // ack number
	b[12] = 5 << 4                         // data offset 5, reserved bits 0
	b[13] = flags & 0x3f
	binary.BigEndian.PutUint16(b[14:16], 1024) // window
	binary.BigEndian.PutUint16(b[16:18], 0)    // checksum, filled below
	binary.BigEndian.PutUint16(b[18:20], 0)    // urgent pointer

	binary.BigEndian.PutUint16(b[16:18], transportChecksum(src, dst, ipProtoTCP, b))
}

func writeUDPSegment(b []byte, src, dst net.IP, sourcePort, destPort uint16) {
	binary.BigEndian.PutUint16(b[0:2], sourcePort)
	binary.BigEndian.PutUint16(b[2:4], destPort)
	binary.BigEndian.PutUint16(b[4:6], 8) // length: header only, no payload
	binary.BigEndian.PutUint16(b[6:8], 0) // checksum, filled below

	sum := transportChecksum(src, dst, ipProtoUDP, b)
	if sum == 0 {
		sum = 0xffff // RFC 768: a computed zero is transmitted as all-ones
	}
	binary.BigEndian.PutUint16(b[6:8], sum)
}

// checksum16 computes the standard one's-complement 16-bit Internet
// checksum over b (used as-is for the IPv4 header, and as a building block
// for TCP/UDP's pseudo-header checksum below).
func checksum16(b []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(b); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(b[i : i+2]))
	}
	if len(b)%2 == 1 {
		sum += uint32(b[len(b)-1]) << 8
	}
	for sum>>16 != 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}
	return ^uint16(sum)
}

// transportChecksum computes the TCP/UDP checksum over the IPv4
// pseudo-header (source, destination, zero, protocol, length) followed by
// the segment itself, per RFC 793/768.
func transportChecksum(src, dst net.IP, protocol uint8, segment []byte) uint16 {
	pseudo := make([]byte, 12+len(segment))
	copy(pseudo[0:4], src)
	copy(pseudo[4:8], dst)
	pseudo[8] = 0
	pseudo[9] = protocol
	binary.BigEndian.PutUint16(pseudo[10:12], uint16(len(segment)))
	copy(pseudo[12:], segment)
	return checksum16(pseudo)
}
