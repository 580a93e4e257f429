// Package checksum implements the internet checksum and the structural
// size-field validation used by the admission filter.
package checksum

import (
	"encoding/binary"

	"firestige.xyz/strix/internal/core/frame"
)

// CorrectCRC is the folded ones'-complement sum of a region whose stored
// checksum field was included in the sum, when that stored checksum is
// valid. Verification compares against this sentinel, not against zero.
const CorrectCRC = 0xFFFF

// Sum returns the folded ones'-complement sum of b seeded with initial,
// without the final inversion. Odd-length input is padded with a zero byte.
func Sum(b []byte, initial uint32) uint16 {
	sum := initial

	n := len(b)
	if n&1 != 0 {
		n--
		sum += uint32(b[n]) << 8
	}
	for i := 0; i < n; i += 2 {
		sum += uint32(b[i])<<8 | uint32(b[i+1])
	}

	// Fold carries back in until the sum fits 16 bits.
	for sum > 0xFFFF {
		sum = (sum >> 16) + (sum & 0xFFFF)
	}
	return uint16(sum)
}

// Checksum returns the internet checksum of b: the complement of the folded
// sum. Used to populate checksum fields when building packets.
func Checksum(b []byte, initial uint32) uint16 {
	return ^Sum(b, initial)
}

// pseudoHeaderSum accumulates the IPv4 pseudo header: source address,
// destination address, zero-padded protocol and upper-layer length.
func pseudoHeaderSum(ip frame.IPv4, protocol uint8, length uint16) uint32 {
	var sum uint32
	sum += uint32(binary.BigEndian.Uint16(ip[12:14])) + uint32(binary.BigEndian.Uint16(ip[14:16]))
	sum += uint32(binary.BigEndian.Uint16(ip[16:18])) + uint32(binary.BigEndian.Uint16(ip[18:20]))
	sum += uint32(protocol)
	sum += uint32(length)
	return sum
}

// ProtocolChecksum verifies the upper-layer checksum of a received
// IPv4-framed packet over the whole frame. It returns CorrectCRC when the
// stored transport checksum is valid, and any other value otherwise.
//
// UDP and TCP are summed with the pseudo header, ICMPv4 without one. A UDP
// packet whose stored checksum is zero verifies as correct here: the sender
// did not compute one, and rejecting such packets is a policy decision made
// by the filter, not an integrity failure. Protocols this stack does not
// process carry nothing to verify and also report CorrectCRC.
//
// Truncated input never panics; it verifies as incorrect.
func ProtocolChecksum(fr []byte, dataLength int) uint16 {
	if dataLength > len(fr) {
		dataLength = len(fr)
	}
	if dataLength < frame.EthernetHeaderLen+frame.IPv4MinHeaderLen {
		return 0
	}

	ip := frame.IPv4(fr[frame.EthernetHeaderLen:dataLength])
	headerLength := ip.HeaderLength()
	if headerLength < frame.IPv4MinHeaderLen || frame.EthernetHeaderLen+headerLength > dataLength {
		return 0
	}

	payload := fr[frame.EthernetHeaderLen+headerLength : dataLength]
	length := len(payload)

	switch ip.Protocol() {
	case frame.ProtocolUDP:
		if length < frame.UDPHeaderLen {
			return 0
		}
		if frame.UDP(payload).Checksum() == 0 {
			return CorrectCRC
		}
		return Sum(payload, pseudoHeaderSum(ip, frame.ProtocolUDP, uint16(length)))
	case frame.ProtocolTCP:
		if length < frame.TCPMinHeaderLen {
			return 0
		}
		return Sum(payload, pseudoHeaderSum(ip, frame.ProtocolTCP, uint16(length)))
	case frame.ProtocolICMP:
		if length < frame.ICMPv4MinLen {
			return 0
		}
		return Sum(payload, 0)
	default:
		return CorrectCRC
	}
}

// CheckSizeFields validates that the declared size fields of a frame are
// internally consistent with the actual buffer length. It replaces the
// checksum pass when hardware already validated checksums.
func CheckSizeFields(fr []byte, dataLength int) bool {
	if dataLength > len(fr) {
		dataLength = len(fr)
	}
	if dataLength < frame.EthernetHeaderLen+frame.IPv4MinHeaderLen {
		return false
	}

	ip := frame.IPv4(fr[frame.EthernetHeaderLen:dataLength])

	versionIHL := ip.VersionIHL()
	if versionIHL < frame.VersionIHLMin || versionIHL > frame.VersionIHLMax {
		return false
	}
	headerLength := ip.HeaderLength()
	if frame.EthernetHeaderLen+headerLength > dataLength {
		return false
	}

	totalLength := int(ip.TotalLength())
	if totalLength < headerLength || frame.EthernetHeaderLen+totalLength > dataLength {
		return false
	}

	payloadLength := totalLength - headerLength
	payload := fr[frame.EthernetHeaderLen+headerLength : frame.EthernetHeaderLen+totalLength]

	switch ip.Protocol() {
	case frame.ProtocolUDP:
		if payloadLength < frame.UDPHeaderLen {
			return false
		}
		// The UDP length field must agree with the IP payload length.
		if int(frame.UDP(payload).Length()) != payloadLength {
			return false
		}
	case frame.ProtocolTCP:
		if payloadLength < frame.TCPMinHeaderLen {
			return false
		}
		dataOffset := frame.TCP(payload).DataOffset()
		if dataOffset < frame.TCPMinHeaderLen || dataOffset > payloadLength {
			return false
		}
	case frame.ProtocolICMP:
		if payloadLength < frame.ICMPv4MinLen {
			return false
		}
	}

	return true
}
