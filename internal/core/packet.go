// Package core defines core data structures with zero external dependencies.
package core

import "time"

// EndPointHint is a non-owning reference to the receiving interface, set by
// the link layer when it already knows which local endpoint accepted the
// frame. The admission filter treats a non-nil hint as proof of ownership
// and never mutates or frees it.
type EndPointHint interface {
	EndPointName() string
}

// NetworkBuffer holds one received frame. It is exclusively owned by the
// goroutine running its pipeline invocation: allocated by the capture
// front-end, mutated in place only by option stripping, and released to a
// pool by the caller once the verdict is known.
type NetworkBuffer struct {
	Data       []byte       // backing storage, fixed capacity
	DataLength int          // number of valid bytes in Data
	EndPoint   EndPointHint // optional, non-owning
	Timestamp  time.Time    // capture timestamp
}

// Frame returns the valid portion of the buffer.
func (b *NetworkBuffer) Frame() []byte {
	return b.Data[:b.DataLength]
}

// Reset clears per-frame state so the buffer can be pooled.
func (b *NetworkBuffer) Reset() {
	b.DataLength = 0
	b.EndPoint = nil
	b.Timestamp = time.Time{}
}
