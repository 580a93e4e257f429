// Package core defines core data structures with zero external dependencies.
package core

// Verdict is the binary outcome of the admission pipeline. There are no
// partial or retry states: a buffer is either handed to upper-layer
// processing or returned to its pool.
type Verdict int

const (
	// VerdictProcess means the frame passed every applicable gate and may
	// continue to upper-layer dispatch.
	VerdictProcess Verdict = iota
	// VerdictDiscard means the frame must be released back to its pool.
	VerdictDiscard
)

func (v Verdict) String() string {
	switch v {
	case VerdictProcess:
		return "process"
	case VerdictDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// DropReason classifies why a frame was discarded. Reasons feed diagnostics
// and metrics only; control flow sees nothing but the Verdict.
type DropReason int

const (
	DropNone DropReason = iota
	DropFragmented
	DropBadHeaderLength
	DropNotForUs
	DropBroadcastSource
	DropBroadcastMismatch
	DropBroadcastSourceMAC
	DropMulticastSource
	DropBadIPChecksum
	DropBadProtocolChecksum
	DropBadSizeFields
	DropZeroChecksumUDP
	DropIPOptions
)

var dropReasonNames = map[DropReason]string{
	DropNone:                "none",
	DropFragmented:          "fragmented",
	DropBadHeaderLength:     "bad_header_length",
	DropNotForUs:            "not_for_us",
	DropBroadcastSource:     "broadcast_source",
	DropBroadcastMismatch:   "broadcast_mismatch",
	DropBroadcastSourceMAC:  "broadcast_source_mac",
	DropMulticastSource:     "multicast_source",
	DropBadIPChecksum:       "bad_ip_checksum",
	DropBadProtocolChecksum: "bad_protocol_checksum",
	DropBadSizeFields:       "bad_size_fields",
	DropZeroChecksumUDP:     "zero_checksum_udp",
	DropIPOptions:           "ip_options",
}

func (r DropReason) String() string {
	if s, ok := dropReasonNames[r]; ok {
		return s
	}
	return "unknown"
}
