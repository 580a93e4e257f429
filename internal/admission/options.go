package admission

import (
	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/core/frame"
	"firestige.xyz/strix/internal/metrics"
)

// StripOptions normalizes a frame whose IP header is longer than the
// 20-byte minimum, i.e. carries IP options. Upper-layer processing assumes
// an option-free header, so the options are either compacted away in place
// or the packet is discarded, depending on policy.
//
// The caller invokes this only when headerLength > 20 and after the frame
// passed Allow, which guarantees a structurally valid header.
func (f *Filter) StripOptions(buf *core.NetworkBuffer, headerLength int) core.Verdict {
	if !f.cfg.AcceptIPOptions {
		return f.reject(core.DropIPOptions, buf)
	}

	if headerLength <= frame.IPv4MinHeaderLen {
		return core.VerdictProcess
	}
	// Defensive bounds: the shift below must stay inside the live buffer.
	if headerLength > frame.IPv4MaxHeaderLen || frame.EthernetHeaderLen+headerLength > buf.DataLength {
		return f.reject(core.DropBadHeaderLength, buf)
	}

	fr := buf.Frame()
	optionBytes := headerLength - frame.IPv4MinHeaderLen

	// Shift the transport header and payload toward lower addresses so
	// they sit immediately after a 20-byte header. Source and destination
	// ranges overlap; copy iterates forward, which is safe for a left
	// shift.
	source := fr[frame.EthernetHeaderLen+headerLength : buf.DataLength]
	target := fr[frame.EthernetHeaderLen+frame.IPv4MinHeaderLen:]
	copy(target, source)

	buf.DataLength -= optionBytes

	// The header fields now describe the compacted packet: total length
	// shrinks by the option bytes and the IHL nibble encodes exactly five
	// words, with the version nibble untouched.
	ip := frame.IPv4(fr[frame.EthernetHeaderLen:])
	ip.SetTotalLength(ip.TotalLength() - uint16(optionBytes))
	ip.SetVersionIHL(ip.VersionIHL()&0xF0 | frame.IPv4MinHeaderLen>>2)

	metrics.OptionsStrippedTotal.Inc()
	return core.VerdictProcess
}
