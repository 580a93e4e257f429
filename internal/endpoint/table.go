// Package endpoint maintains the node's configured local IPv4 endpoints
// and answers the ownership queries the admission filter depends on.
package endpoint

import (
	"fmt"
	"net"
	"net/netip"
	"sync"
)

// EndPoint is one configured local IPv4 address bound to an interface.
// Endpoints are never mutated after registration.
type EndPoint struct {
	Name string
	Addr netip.Addr
	MAC  [6]byte
}

// EndPointName implements core.EndPointHint.
func (e *EndPoint) EndPointName() string { return e.Name }

func (e *EndPoint) String() string {
	return fmt.Sprintf("%s(%s/%s)", e.Name, e.Addr, net.HardwareAddr(e.MAC[:]))
}

// Table is the read-mostly endpoint registry. Lookups run concurrently on
// the ingress hot path; mutation happens only during startup or
// reconfiguration.
type Table struct {
	mu     sync.RWMutex
	byAddr map[netip.Addr]*EndPoint
	byMAC  map[[6]byte]*EndPoint
	up     bool
}

// NewTable creates an empty endpoint table. The table reports the network
// as down until SetUp(true) is called.
func NewTable() *Table {
	return &Table{
		byAddr: make(map[netip.Addr]*EndPoint),
		byMAC:  make(map[[6]byte]*EndPoint),
	}
}

// Add registers an endpoint. The address must be IPv4 and unique.
func (t *Table) Add(ep *EndPoint) error {
	if !ep.Addr.Is4() {
		return fmt.Errorf("endpoint %s: address %s is not IPv4", ep.Name, ep.Addr)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.byAddr[ep.Addr]; exists {
		return fmt.Errorf("endpoint %s: address %s already registered", ep.Name, ep.Addr)
	}
	t.byAddr[ep.Addr] = ep
	t.byMAC[ep.MAC] = ep
	return nil
}

// SetUp marks the network up or down. A table with no endpoints never
// reports up.
func (t *Table) SetUp(up bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.up = up
}

// FindByAddress returns the endpoint owning addr, or nil.
func (t *Table) FindByAddress(addr netip.Addr) *EndPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byAddr[addr]
}

// FindByMAC returns the endpoint owning mac, or nil.
func (t *Table) FindByMAC(mac [6]byte) *EndPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byMAC[mac]
}

// Len returns the number of registered endpoints.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byAddr)
}

// OwnsAddress implements admission.EndpointResolver.
func (t *Table) OwnsAddress(addr [4]byte) bool {
	return t.FindByAddress(netip.AddrFrom4(addr)) != nil
}

// OwnsMAC implements admission.EndpointResolver.
func (t *Table) OwnsMAC(mac [6]byte) bool {
	return t.FindByMAC(mac) != nil
}

// NetworkUp implements admission.EndpointResolver.
func (t *Table) NetworkUp() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.up && len(t.byAddr) > 0
}
