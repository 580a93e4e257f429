package admission

import (
	"time"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/core/checksum"
	"firestige.xyz/strix/internal/core/frame"
	"firestige.xyz/strix/internal/log"
	"firestige.xyz/strix/internal/metrics"
)

// Config selects admission behavior at startup. Both values of every flag
// are legitimate deployment modes: skipped phases model checks a driver or
// NIC already performs, they are never deleted logic.
type Config struct {
	// DriverFiltersPackets skips the structural and addressing phase when
	// the link-layer driver already filters by address and fragmentation.
	DriverFiltersPackets bool `mapstructure:"driver_filters_packets"`
	// DriverValidatesChecksum selects the hardware-assisted integrity mode:
	// checksums are presumed verified and only size fields are checked.
	DriverValidatesChecksum bool `mapstructure:"driver_validates_checksum"`
	// AcceptZeroChecksumUDP allows UDP packets whose stored checksum is
	// zero. Only consulted in hardware-assisted mode.
	AcceptZeroChecksumUDP bool `mapstructure:"accept_zero_checksum_udp"`
	// AcceptIPOptions strips IP options in place instead of discarding
	// packets that carry them.
	AcceptIPOptions bool `mapstructure:"accept_ip_options"`
}

// EndpointResolver answers ownership queries against the node's configured
// local endpoints. Implementations must be safe for concurrent lookups.
type EndpointResolver interface {
	// OwnsAddress reports whether a configured endpoint has this IPv4 address.
	OwnsAddress(addr [4]byte) bool
	// OwnsMAC reports whether a configured endpoint has this hardware
	// address. Used to detect loopback of our own transmissions.
	OwnsMAC(mac [6]byte) bool
	// NetworkUp reports whether the node currently has an address at all.
	// During address acquisition everything is tentatively accepted.
	NetworkUp() bool
}

// Filter runs the ordered admission checks over one frame. It holds no
// per-frame state and takes no locks; concurrent invocations are safe as
// long as each buffer is exclusively owned by its caller.
type Filter struct {
	cfg       Config
	endpoints EndpointResolver
	limiter   *DiagLimiter
	logger    log.Logger
}

// NewFilter creates an admission filter. limiter may be nil (unlimited
// diagnostics) and logger may be nil (no diagnostics).
func NewFilter(cfg Config, endpoints EndpointResolver, limiter *DiagLimiter, logger log.Logger) *Filter {
	return &Filter{
		cfg:       cfg,
		endpoints: endpoints,
		limiter:   limiter,
		logger:    logger,
	}
}

// Allow decides whether the frame in buf may continue to upper-layer
// processing. headerLength is the IP header length in bytes as derived by
// the caller from the IHL nibble; the filter re-validates the nibble itself
// before trusting any value derived from it.
//
// Checks short-circuit: after the first failing gate nothing else runs and
// the buffer is not touched again. Allow never mutates the buffer.
func (f *Filter) Allow(buf *core.NetworkBuffer, headerLength int) core.Verdict {
	// A frame that cannot hold an Ethernet and a minimal IPv4 header has
	// no fields to check. Guard here so no gate can read out of bounds.
	if buf.DataLength < frame.EthernetHeaderLen+frame.IPv4MinHeaderLen || buf.DataLength > len(buf.Data) {
		return f.reject(core.DropBadHeaderLength, buf)
	}

	fr := buf.Frame()
	eth := frame.Ethernet(fr)
	ip := frame.IPv4(fr[frame.EthernetHeaderLen:])

	if !f.cfg.DriverFiltersPackets {
		if verdict := f.allowStructural(buf, eth, ip); verdict != core.VerdictProcess {
			return verdict
		}
	}

	if f.cfg.DriverValidatesChecksum {
		return f.allowSizeFields(buf, eth, ip, fr)
	}
	return f.allowChecksums(buf, eth, fr, headerLength)
}

// allowStructural is the structural and addressing phase, evaluated
// strictly in order with an immediate discard on the first failure. Later
// gates read fields that are only valid because earlier gates passed.
func (f *Filter) allowStructural(buf *core.NetworkBuffer, eth frame.Ethernet, ip frame.IPv4) core.Verdict {
	// This stack does not reassemble fragments. Leading fragments carry
	// the more-fragments flag, the trailing one a non-zero offset; drop
	// the packet in either case.
	if ip.IsFragment() {
		return f.reject(core.DropFragmented, buf)
	}

	// The version/IHL byte must encode version 4 with a header of 20..60
	// bytes. A single range comparison covers both.
	if versionIHL := ip.VersionIHL(); versionIHL < frame.VersionIHLMin || versionIHL > frame.VersionIHLMax {
		return f.reject(core.DropBadHeaderLength, buf)
	}

	destination := ip.DestinationAddress()
	source := ip.SourceAddress()

	// Accept only frames addressed to us, to the subnet broadcast, or to a
	// multicast group. While the node has no address yet (DHCP window)
	// everything is tentatively accepted.
	if buf.EndPoint == nil &&
		!f.endpoints.OwnsAddress(destination) &&
		!frame.IsSubnetBroadcast(destination) &&
		!IsMulticast(destination) &&
		f.endpoints.NetworkUp() {
		return f.reject(core.DropNotForUs, buf)
	}

	// A broadcast address must never appear as a source; replying to such
	// a packet risks network storms.
	if frame.IsSubnetBroadcast(source) {
		return f.reject(core.DropBroadcastSource, buf)
	}

	// Link-layer broadcast must correlate with network-layer broadcast.
	if frame.IsBroadcastMAC(eth.DestinationMAC()) && !frame.IsSubnetBroadcast(destination) {
		return f.reject(core.DropBroadcastMismatch, buf)
	}

	// The broadcast MAC can never legitimately be a sender.
	if frame.IsBroadcastMAC(eth.SourceMAC()) {
		return f.reject(core.DropBroadcastSourceMAC, buf)
	}

	// RFC 1112 section 7.2: a multicast address must never be a source.
	if IsMulticast(source) {
		return f.reject(core.DropMulticastSource, buf)
	}

	return core.VerdictProcess
}

// allowChecksums is the software integrity mode: verify the IP header
// checksum and the upper-layer protocol checksum.
func (f *Filter) allowChecksums(buf *core.NetworkBuffer, eth frame.Ethernet, fr []byte, headerLength int) core.Verdict {
	// Loopback of our own transmission carries checksums we computed
	// ourselves; skip re-verification.
	if f.endpoints.OwnsMAC(eth.SourceMAC()) {
		return core.VerdictProcess
	}

	if headerLength < frame.IPv4MinHeaderLen || frame.EthernetHeaderLen+headerLength > buf.DataLength {
		return f.reject(core.DropBadHeaderLength, buf)
	}

	// Summing the header with its stored checksum included yields the
	// fixed sentinel, not zero, when the checksum is correct.
	ipHeader := fr[frame.EthernetHeaderLen : frame.EthernetHeaderLen+headerLength]
	if checksum.Sum(ipHeader, 0) != checksum.CorrectCRC {
		return f.reject(core.DropBadIPChecksum, buf)
	}

	if checksum.ProtocolChecksum(fr, buf.DataLength) != checksum.CorrectCRC {
		return f.reject(core.DropBadProtocolChecksum, buf)
	}

	return core.VerdictProcess
}

// allowSizeFields is the hardware-assisted integrity mode: checksums are
// presumed verified, so only the declared size fields are checked, plus the
// zero-checksum UDP policy.
func (f *Filter) allowSizeFields(buf *core.NetworkBuffer, eth frame.Ethernet, ip frame.IPv4, fr []byte) core.Verdict {
	if !checksum.CheckSizeFields(fr, buf.DataLength) {
		return f.reject(core.DropBadSizeFields, buf)
	}

	if f.cfg.AcceptZeroChecksumUDP {
		return core.VerdictProcess
	}

	// Locate the protocol header: after the fixed 40-byte header for
	// IPv6-framed packets, after the minimal IPv4 header otherwise. Only
	// this offset selection is shared with IPv6.
	var protocol uint8
	offset := frame.ProtocolHeaderOffset(eth.Type())
	if eth.Type() == frame.EtherTypeIPv6 {
		if buf.DataLength < offset+frame.UDPHeaderLen {
			return core.VerdictProcess
		}
		protocol = fr[frame.EthernetHeaderLen+6] // IPv6 next-header field
	} else {
		if buf.DataLength < offset+frame.UDPHeaderLen {
			return core.VerdictProcess
		}
		protocol = ip.Protocol()
	}

	if protocol == frame.ProtocolUDP && frame.UDP(fr[offset:]).Checksum() == 0 {
		return f.reject(core.DropZeroChecksumUDP, buf)
	}

	return core.VerdictProcess
}

// reject records a discard and emits at most one rate-limited diagnostic.
func (f *Filter) reject(reason core.DropReason, buf *core.NetworkBuffer) core.Verdict {
	metrics.DiscardsTotal.WithLabelValues(reason.String()).Inc()

	if f.logger != nil {
		if f.limiter.Allow(reason, time.Now()) {
			f.logger.WithField("reason", reason.String()).
				WithField("length", buf.DataLength).
				Debug("frame discarded")
		} else {
			metrics.DiagnosticsSuppressedTotal.Inc()
		}
	}
	return core.VerdictDiscard
}
