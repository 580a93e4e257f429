package capture

import (
	"encoding/binary"
	"net/netip"
	"testing"
	"time"

	"firestige.xyz/strix/internal/admission"
	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/core/checksum"
	"firestige.xyz/strix/internal/core/frame"
	"firestige.xyz/strix/internal/endpoint"
	"firestige.xyz/strix/internal/pool"
)

// makeUDPFrame builds a 42-byte Ethernet+IPv4+UDP frame with valid
// checksums, addressed to dstIP.
func makeUDPFrame(dstIP [4]byte) []byte {
	fr := make([]byte, 42)

	copy(fr[0:6], []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01})
	copy(fr[6:12], []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	binary.BigEndian.PutUint16(fr[12:14], frame.EtherTypeIPv4)

	ip := fr[14:]
	ip[0] = 0x45
	binary.BigEndian.PutUint16(ip[2:4], 28)
	ip[8] = 64
	ip[9] = frame.ProtocolUDP
	copy(ip[12:16], []byte{192, 168, 1, 100})
	copy(ip[16:20], dstIP[:])
	binary.BigEndian.PutUint16(ip[10:12], checksum.Checksum(ip[:20], 0))

	udp := ip[20:]
	binary.BigEndian.PutUint16(udp[0:2], 5000)
	binary.BigEndian.PutUint16(udp[2:4], 5001)
	binary.BigEndian.PutUint16(udp[4:6], 8)

	var pseudo uint32
	pseudo += uint32(binary.BigEndian.Uint16(ip[12:14])) + uint32(binary.BigEndian.Uint16(ip[14:16]))
	pseudo += uint32(binary.BigEndian.Uint16(ip[16:18])) + uint32(binary.BigEndian.Uint16(ip[18:20]))
	pseudo += uint32(frame.ProtocolUDP) + 8
	cks := checksum.Checksum(udp, pseudo)
	if cks == 0 {
		cks = 0xFFFF
	}
	binary.BigEndian.PutUint16(udp[6:8], cks)
	return fr
}

func testPipeline(t *testing.T, cfg admission.Config, deliver Deliver) *Pipeline {
	t.Helper()
	table := endpoint.NewTable()
	if err := table.Add(&endpoint.EndPoint{
		Name: "eth0",
		Addr: netip.AddrFrom4([4]byte{192, 168, 1, 10}),
		MAC:  [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
	}); err != nil {
		t.Fatal(err)
	}
	table.SetUp(true)

	filter := admission.NewFilter(cfg, table, nil, nil)
	return NewPipeline(filter, pool.NewBufferPool(pool.DefaultBufferSize), deliver, nil)
}

func TestPipelineAdmitsValidFrame(t *testing.T) {
	delivered := 0
	p := testPipeline(t, admission.Config{}, func(buf *core.NetworkBuffer) {
		delivered++
		if buf.DataLength != 42 {
			t.Errorf("Delivered length %d, want 42", buf.DataLength)
		}
	})

	fr := makeUDPFrame([4]byte{192, 168, 1, 10})
	if verdict := p.HandleFrame(fr, time.Now()); verdict != core.VerdictProcess {
		t.Fatalf("Expected process, got %v", verdict)
	}
	if delivered != 1 {
		t.Errorf("Expected 1 delivery, got %d", delivered)
	}
}

func TestPipelineDiscardsForeignDestination(t *testing.T) {
	p := testPipeline(t, admission.Config{}, func(*core.NetworkBuffer) {
		t.Error("discarded frame must not be delivered")
	})

	fr := makeUDPFrame([4]byte{10, 0, 0, 1})
	if verdict := p.HandleFrame(fr, time.Now()); verdict != core.VerdictDiscard {
		t.Errorf("Expected discard, got %v", verdict)
	}
}

func TestPipelineDiscardsNonIPv4(t *testing.T) {
	p := testPipeline(t, admission.Config{}, nil)

	fr := makeUDPFrame([4]byte{192, 168, 1, 10})
	binary.BigEndian.PutUint16(fr[12:14], 0x0806) // ARP

	if verdict := p.HandleFrame(fr, time.Now()); verdict != core.VerdictDiscard {
		t.Errorf("Expected discard for non-IPv4 frame, got %v", verdict)
	}
}

func TestPipelineDiscardsOversizeFrame(t *testing.T) {
	p := testPipeline(t, admission.Config{}, nil)

	fr := make([]byte, pool.DefaultBufferSize+1)
	if verdict := p.HandleFrame(fr, time.Now()); verdict != core.VerdictDiscard {
		t.Errorf("Expected discard for oversize frame, got %v", verdict)
	}
}

func TestPipelineDiscardsRunt(t *testing.T) {
	p := testPipeline(t, admission.Config{}, nil)

	if verdict := p.HandleFrame([]byte{1, 2, 3}, time.Now()); verdict != core.VerdictDiscard {
		t.Errorf("Expected discard for runt frame, got %v", verdict)
	}
}

func TestPipelineStripsOptions(t *testing.T) {
	// 24-byte header with one NOP option run; pipeline must shrink it to
	// 20 bytes before delivery.
	fr := make([]byte, 46)
	copy(fr, makeUDPFrame([4]byte{192, 168, 1, 10})[:14])

	ip := fr[14:]
	ip[0] = 0x46
	binary.BigEndian.PutUint16(ip[2:4], 32)
	ip[8] = 64
	ip[9] = frame.ProtocolUDP
	copy(ip[12:16], []byte{192, 168, 1, 100})
	copy(ip[16:20], []byte{192, 168, 1, 10})
	copy(ip[20:24], []byte{0x01, 0x01, 0x01, 0x00})
	binary.BigEndian.PutUint16(ip[10:12], checksum.Checksum(ip[:24], 0))

	udp := ip[24:]
	binary.BigEndian.PutUint16(udp[0:2], 5000)
	binary.BigEndian.PutUint16(udp[2:4], 5001)
	binary.BigEndian.PutUint16(udp[4:6], 8)

	var pseudo uint32
	pseudo += uint32(binary.BigEndian.Uint16(ip[12:14])) + uint32(binary.BigEndian.Uint16(ip[14:16]))
	pseudo += uint32(binary.BigEndian.Uint16(ip[16:18])) + uint32(binary.BigEndian.Uint16(ip[18:20]))
	pseudo += uint32(frame.ProtocolUDP) + 8
	cks := checksum.Checksum(udp, pseudo)
	if cks == 0 {
		cks = 0xFFFF
	}
	binary.BigEndian.PutUint16(udp[6:8], cks)

	delivered := 0
	p := testPipeline(t, admission.Config{AcceptIPOptions: true}, func(buf *core.NetworkBuffer) {
		delivered++
		if buf.DataLength != 42 {
			t.Errorf("Expected 42 bytes after strip, got %d", buf.DataLength)
		}
		got := frame.IPv4(buf.Frame()[14:])
		if got.HeaderLength() != 20 {
			t.Errorf("Expected 20-byte header after strip, got %d", got.HeaderLength())
		}
	})

	if verdict := p.HandleFrame(fr, time.Now()); verdict != core.VerdictProcess {
		t.Fatalf("Expected process, got %v", verdict)
	}
	if delivered != 1 {
		t.Errorf("Expected 1 delivery, got %d", delivered)
	}
}

func TestPipelineRejectsOptionsByDefault(t *testing.T) {
	fr := make([]byte, 46)
	copy(fr, makeUDPFrame([4]byte{192, 168, 1, 10})[:14])
	ip := fr[14:]
	ip[0] = 0x46
	binary.BigEndian.PutUint16(ip[2:4], 32)
	ip[8] = 64
	ip[9] = frame.ProtocolUDP
	copy(ip[12:16], []byte{192, 168, 1, 100})
	copy(ip[16:20], []byte{192, 168, 1, 10})
	copy(ip[20:24], []byte{0x01, 0x01, 0x01, 0x00})
	binary.BigEndian.PutUint16(ip[10:12], checksum.Checksum(ip[:24], 0))
	binary.BigEndian.PutUint16(ip[28:30], 8) // UDP length

	p := testPipeline(t, admission.Config{DriverValidatesChecksum: true, AcceptZeroChecksumUDP: true}, nil)
	if verdict := p.HandleFrame(fr, time.Now()); verdict != core.VerdictDiscard {
		t.Errorf("Expected discard for IP options under default policy, got %v", verdict)
	}
}
