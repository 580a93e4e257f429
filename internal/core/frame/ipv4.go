package frame

import "encoding/binary"

const (
	// IPv4MinHeaderLen is the length of an IPv4 header without options.
	IPv4MinHeaderLen = 20
	// IPv4MaxHeaderLen is the largest header length the IHL nibble encodes.
	IPv4MaxHeaderLen = 60
	// IPv6HeaderLen is the fixed IPv6 header length, used only to locate
	// the protocol header in IPv6-framed packets.
	IPv6HeaderLen = 40

	// Bounds for the combined version/IHL byte: version 4 with an IHL of
	// 5..15 words. A byte outside this range is rejected outright, which
	// covers both a bad length and a non-IPv4 version nibble.
	VersionIHLMin = 0x45
	VersionIHLMax = 0x4F

	// Fragment field masks (byte offset 6, big-endian 16 bits).
	fragmentOffsetMask = 0x1FFF
	moreFragmentsFlag  = 0x2000

	// Protocol numbers.
	ProtocolICMP = 1
	ProtocolTCP  = 6
	ProtocolUDP  = 17
)

// IPv4 is a view over an IPv4 header, starting at its first byte. The
// caller guarantees at least IPv4MinHeaderLen bytes.
type IPv4 []byte

// VersionIHL returns the combined version/header-length byte.
func (h IPv4) VersionIHL() uint8 {
	return h[0]
}

// SetVersionIHL overwrites the combined version/header-length byte.
func (h IPv4) SetVersionIHL(b uint8) {
	h[0] = b
}

// HeaderLength returns the header length in bytes decoded from the IHL
// nibble. Only meaningful once the version/IHL byte passed validation.
func (h IPv4) HeaderLength() int {
	return int(h[0]&0x0F) * 4
}

// TotalLength returns the IP total-length field in host order.
func (h IPv4) TotalLength() uint16 {
	return binary.BigEndian.Uint16(h[2:4])
}

// SetTotalLength rewrites the IP total-length field.
func (h IPv4) SetTotalLength(v uint16) {
	binary.BigEndian.PutUint16(h[2:4], v)
}

// FragmentOffset returns the fragment offset in 8-byte units.
func (h IPv4) FragmentOffset() uint16 {
	return binary.BigEndian.Uint16(h[6:8]) & fragmentOffsetMask
}

// MoreFragments reports whether the more-fragments flag is set.
func (h IPv4) MoreFragments() bool {
	return binary.BigEndian.Uint16(h[6:8])&moreFragmentsFlag != 0
}

// IsFragment reports whether the packet is any part of a split datagram.
// Leading fragments carry the more-fragments flag, the trailing fragment a
// non-zero offset, so either condition marks a fragment.
func (h IPv4) IsFragment() bool {
	field := binary.BigEndian.Uint16(h[6:8])
	return field&(fragmentOffsetMask|moreFragmentsFlag) != 0
}

// TTL returns the time-to-live field.
func (h IPv4) TTL() uint8 {
	return h[8]
}

// Protocol returns the upper-layer protocol number.
func (h IPv4) Protocol() uint8 {
	return h[9]
}

// Checksum returns the stored header checksum in host order.
func (h IPv4) Checksum() uint16 {
	return binary.BigEndian.Uint16(h[10:12])
}

// SourceAddress returns the source address in wire order.
func (h IPv4) SourceAddress() [4]byte {
	var a [4]byte
	copy(a[:], h[12:16])
	return a
}

// DestinationAddress returns the destination address in wire order.
func (h IPv4) DestinationAddress() [4]byte {
	var a [4]byte
	copy(a[:], h[16:20])
	return a
}

// IsSubnetBroadcast reports whether addr matches the x.x.x.255 pattern.
func IsSubnetBroadcast(addr [4]byte) bool {
	return addr[3] == 0xFF
}
