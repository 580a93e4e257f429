//go:build linux

package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/gopacket/afpacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"golang.org/x/net/bpf"

	"firestige.xyz/strix/internal/config"
)

const afpacketBufferMB = 8

// AfpacketSource reads frames from an AF_PACKET v3 ring buffer. The BPF
// filter is compiled with libpcap and attached to the socket so unwanted
// frames never cross into user space.
type AfpacketSource struct {
	handle *afpacket.TPacket
}

// NewAfpacketSource opens an AF_PACKET capture on cfg.Device.
func NewAfpacketSource(cfg config.CaptureConfig) (*AfpacketSource, error) {
	frameSize, blockSize, numBlocks, err := computeRingSizes(afpacketBufferMB, cfg.SnapLen, os.Getpagesize())
	if err != nil {
		return nil, err
	}

	handle, err := afpacket.NewTPacket(
		afpacket.OptInterface(cfg.Device),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(time.Duration(cfg.TimeoutMs)*time.Millisecond),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open AF_PACKET on %s: %w", cfg.Device, err)
	}

	if cfg.BPFFilter != "" {
		pcapBPF, err := pcap.CompileBPFFilter(layers.LinkTypeEthernet, frameSize, cfg.BPFFilter)
		if err != nil {
			handle.Close()
			return nil, fmt.Errorf("failed to compile BPF filter: %w", err)
		}
		rawBPF := make([]bpf.RawInstruction, len(pcapBPF))
		for i, inst := range pcapBPF {
			rawBPF[i] = bpf.RawInstruction{
				Op: inst.Code,
				Jt: inst.Jt,
				Jf: inst.Jf,
				K:  inst.K,
			}
		}
		if err := handle.SetBPF(rawBPF); err != nil {
			handle.Close()
			return nil, fmt.Errorf("failed to attach BPF filter: %w", err)
		}
	}

	return &AfpacketSource{handle: handle}, nil
}

// computeRingSizes derives TPacket ring geometry from the target buffer
// size. Block size must be a multiple of both the page size and the frame
// size.
func computeRingSizes(bufferMB, snapLen, pageSize int) (frameSize, blockSize, numBlocks int, err error) {
	if snapLen <= 0 {
		snapLen = 2048
	}
	if snapLen < pageSize {
		frameSize = pageSize / (pageSize / snapLen)
	} else {
		frameSize = (snapLen/pageSize + 1) * pageSize
	}

	blockSize = frameSize * afpacket.DefaultNumBlocks
	numBlocks = (bufferMB * 1024 * 1024) / blockSize
	if numBlocks == 0 {
		return 0, 0, 0, fmt.Errorf("buffer size %dMB too small for block size %d", bufferMB, blockSize)
	}
	return frameSize, blockSize, numBlocks, nil
}

// Run implements Source.
func (s *AfpacketSource) Run(ctx context.Context, handle func(data []byte, ts time.Time)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		data, ci, err := s.handle.ReadPacketData()
		switch {
		case err == nil:
			handle(data, ci.Timestamp)
		case errors.Is(err, afpacket.ErrTimeout):
			continue
		case errors.Is(err, afpacket.ErrPoll):
			continue
		default:
			return fmt.Errorf("AF_PACKET read failed: %w", err)
		}
	}
}

// Close implements Source.
func (s *AfpacketSource) Close() {
	s.handle.Close()
}
