package endpoint

import (
	"fmt"
	"net"
	"net/netip"
	"os"

	"gopkg.in/yaml.v3"

	"firestige.xyz/strix/internal/core"
)

// Definition is the YAML shape of one endpoint.
type Definition struct {
	Name string `yaml:"name" mapstructure:"name"`
	Addr string `yaml:"addr" mapstructure:"addr"`
	MAC  string `yaml:"mac" mapstructure:"mac"`
}

// LoadFile reads endpoint definitions from a YAML document of the form:
//
//	endpoints:
//	  - name: eth0
//	    addr: 192.168.1.10
//	    mac: "02:00:00:00:00:01"
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoint file %s: %w", path, err)
	}

	var doc struct {
		Endpoints []Definition `yaml:"endpoints"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse endpoint file %s: %w", path, err)
	}
	return FromDefinitions(doc.Endpoints)
}

// FromDefinitions builds a table from parsed definitions. The table is
// marked up when at least one endpoint was registered.
func FromDefinitions(defs []Definition) (*Table, error) {
	if len(defs) == 0 {
		return nil, core.ErrNoEndpoints
	}

	table := NewTable()
	for _, def := range defs {
		ep, err := parseDefinition(def)
		if err != nil {
			return nil, err
		}
		if err := table.Add(ep); err != nil {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateAddress, ep.Addr)
		}
	}
	table.SetUp(true)
	return table, nil
}

func parseDefinition(def Definition) (*EndPoint, error) {
	addr, err := netip.ParseAddr(def.Addr)
	if err != nil {
		return nil, fmt.Errorf("endpoint %s: invalid address %q: %w", def.Name, def.Addr, err)
	}
	hw, err := net.ParseMAC(def.MAC)
	if err != nil {
		return nil, fmt.Errorf("endpoint %s: invalid MAC %q: %w", def.Name, def.MAC, err)
	}
	if len(hw) != 6 {
		return nil, fmt.Errorf("endpoint %s: MAC %q is not 48-bit", def.Name, def.MAC)
	}

	ep := &EndPoint{Name: def.Name, Addr: addr}
	copy(ep.MAC[:], hw)
	return ep, nil
}
