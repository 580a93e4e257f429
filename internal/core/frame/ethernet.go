// Package frame provides typed read/write views over raw frame bytes.
// Views are plain byte slices: mutating a field through a view mutates the
// underlying buffer. Callers validate lengths before constructing a view;
// accessors themselves perform no allocation.
package frame

import "encoding/binary"

const (
	// EthernetHeaderLen is the length of an untagged Ethernet header.
	EthernetHeaderLen = 14

	// EtherType values.
	EtherTypeIPv4 = 0x0800
	EtherTypeIPv6 = 0x86DD
)

// BroadcastMAC is the all-ones Ethernet broadcast address.
var BroadcastMAC = [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// Ethernet is a view over an Ethernet header.
type Ethernet []byte

// DestinationMAC returns the destination hardware address.
func (e Ethernet) DestinationMAC() [6]byte {
	var mac [6]byte
	copy(mac[:], e[0:6])
	return mac
}

// SourceMAC returns the source hardware address.
func (e Ethernet) SourceMAC() [6]byte {
	var mac [6]byte
	copy(mac[:], e[6:12])
	return mac
}

// Type returns the EtherType field.
func (e Ethernet) Type() uint16 {
	return binary.BigEndian.Uint16(e[12:14])
}

// IsBroadcastMAC reports whether mac is the all-ones broadcast address.
func IsBroadcastMAC(mac [6]byte) bool {
	return mac == BroadcastMAC
}
