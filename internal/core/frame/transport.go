package frame

import "encoding/binary"

const (
	// UDPHeaderLen is the fixed UDP header length.
	UDPHeaderLen = 8
	// TCPMinHeaderLen is the minimum TCP header length.
	TCPMinHeaderLen = 20
	// ICMPv4MinLen is the minimum ICMPv4 message length.
	ICMPv4MinLen = 8
)

// UDP is a view over a UDP header.
type UDP []byte

// SourcePort returns the source port.
func (u UDP) SourcePort() uint16 {
	return binary.BigEndian.Uint16(u[0:2])
}

// DestinationPort returns the destination port.
func (u UDP) DestinationPort() uint16 {
	return binary.BigEndian.Uint16(u[2:4])
}

// Length returns the UDP length field (header plus payload).
func (u UDP) Length() uint16 {
	return binary.BigEndian.Uint16(u[4:6])
}

// Checksum returns the stored UDP checksum. Zero means the sender did not
// compute one, which is legal for IPv4 but may be rejected by policy.
func (u UDP) Checksum() uint16 {
	return binary.BigEndian.Uint16(u[6:8])
}

// TCP is a view over a TCP header.
type TCP []byte

// SourcePort returns the source port.
func (t TCP) SourcePort() uint16 {
	return binary.BigEndian.Uint16(t[0:2])
}

// DestinationPort returns the destination port.
func (t TCP) DestinationPort() uint16 {
	return binary.BigEndian.Uint16(t[2:4])
}

// DataOffset returns the TCP header length in bytes.
func (t TCP) DataOffset() int {
	return int(t[12]>>4) * 4
}

// Checksum returns the stored TCP checksum.
func (t TCP) Checksum() uint16 {
	return binary.BigEndian.Uint16(t[16:18])
}

// ICMPv4 is a view over an ICMPv4 message.
type ICMPv4 []byte

// Type returns the ICMP type field.
func (i ICMPv4) Type() uint8 {
	return i[0]
}

// Checksum returns the stored ICMP checksum.
func (i ICMPv4) Checksum() uint16 {
	return binary.BigEndian.Uint16(i[2:4])
}

// ProtocolHeaderOffset returns the offset of the transport header from the
// start of the frame. Only the offset selection depends on the frame type:
// IPv6-framed packets place it after the fixed 40-byte header, everything
// else is treated as IPv4 with a 20-byte header once options are handled.
func ProtocolHeaderOffset(etherType uint16) int {
	if etherType == EtherTypeIPv6 {
		return EthernetHeaderLen + IPv6HeaderLen
	}
	return EthernetHeaderLen + IPv4MinHeaderLen
}
