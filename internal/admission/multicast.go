// Package admission implements the ingress admission pipeline: the ordered
// checks that decide whether a received frame is handed to upper-layer
// processing or silently discarded.
package admission

import "encoding/binary"

const (
	// Class-D multicast block, host byte order, half-open interval.
	firstMulticastIPv4 = 0xE0000000 // 224.0.0.0
	lastMulticastIPv4  = 0xF0000000 // 240.0.0.0
)

// IsMulticast reports whether addr (wire order) lies in the IPv4 multicast
// range [224.0.0.0, 240.0.0.0). Pure comparison, called on the hot path.
func IsMulticast(addr [4]byte) bool {
	ip := binary.BigEndian.Uint32(addr[:])
	return ip >= firstMulticastIPv4 && ip < lastMulticastIPv4
}
