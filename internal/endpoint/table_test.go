package endpoint

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEndPoint(name, addr string, mac byte) *EndPoint {
	return &EndPoint{
		Name: name,
		Addr: netip.MustParseAddr(addr),
		MAC:  [6]byte{0x02, 0, 0, 0, 0, mac},
	}
}

func TestTableLookups(t *testing.T) {
	table := NewTable()
	ep := testEndPoint("eth0", "192.168.1.10", 1)
	require.NoError(t, table.Add(ep))

	assert.Equal(t, ep, table.FindByAddress(netip.MustParseAddr("192.168.1.10")))
	assert.Nil(t, table.FindByAddress(netip.MustParseAddr("192.168.1.11")))

	assert.Equal(t, ep, table.FindByMAC(ep.MAC))
	assert.Nil(t, table.FindByMAC([6]byte{1, 2, 3, 4, 5, 6}))

	assert.True(t, table.OwnsAddress([4]byte{192, 168, 1, 10}))
	assert.False(t, table.OwnsAddress([4]byte{192, 168, 1, 11}))
	assert.True(t, table.OwnsMAC(ep.MAC))
}

func TestTableRejectsDuplicateAddress(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Add(testEndPoint("eth0", "192.168.1.10", 1)))
	assert.Error(t, table.Add(testEndPoint("eth1", "192.168.1.10", 2)))
}

func TestTableRejectsNonIPv4(t *testing.T) {
	table := NewTable()
	assert.Error(t, table.Add(testEndPoint("eth0", "2001:db8::1", 1)))
}

func TestNetworkUpRequiresEndpointsAndFlag(t *testing.T) {
	table := NewTable()
	assert.False(t, table.NetworkUp(), "empty table is never up")

	table.SetUp(true)
	assert.False(t, table.NetworkUp(), "up flag without endpoints is not up")

	require.NoError(t, table.Add(testEndPoint("eth0", "192.168.1.10", 1)))
	assert.True(t, table.NetworkUp())

	table.SetUp(false)
	assert.False(t, table.NetworkUp())
}

func TestFromDefinitions(t *testing.T) {
	table, err := FromDefinitions([]Definition{
		{Name: "eth0", Addr: "192.168.1.10", MAC: "02:00:00:00:00:01"},
		{Name: "eth1", Addr: "10.0.0.1", MAC: "02:00:00:00:00:02"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.True(t, table.NetworkUp(), "loaded table starts up")
}

func TestFromDefinitionsErrors(t *testing.T) {
	_, err := FromDefinitions(nil)
	assert.Error(t, err, "empty definitions")

	_, err = FromDefinitions([]Definition{{Name: "eth0", Addr: "bogus", MAC: "02:00:00:00:00:01"}})
	assert.Error(t, err, "bad address")

	_, err = FromDefinitions([]Definition{{Name: "eth0", Addr: "192.168.1.10", MAC: "bogus"}})
	assert.Error(t, err, "bad MAC")

	_, err = FromDefinitions([]Definition{
		{Name: "eth0", Addr: "192.168.1.10", MAC: "02:00:00:00:00:01"},
		{Name: "eth1", Addr: "192.168.1.10", MAC: "02:00:00:00:00:02"},
	})
	assert.Error(t, err, "duplicate address")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.yml")
	content := `endpoints:
  - name: eth0
    addr: 192.168.1.10
    mac: "02:00:00:00:00:01"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.True(t, table.OwnsAddress([4]byte{192, 168, 1, 10}))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
