// Package capture feeds link-layer frames through the admission pipeline.
package capture

import (
	"context"
	"time"

	"firestige.xyz/strix/internal/admission"
	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/core/frame"
	"firestige.xyz/strix/internal/log"
	"firestige.xyz/strix/internal/metrics"
	"firestige.xyz/strix/internal/pool"
)

// Source delivers raw frames. Run blocks until the context is canceled or
// the source is exhausted, invoking handle once per frame.
type Source interface {
	Run(ctx context.Context, handle func(data []byte, ts time.Time)) error
	Close()
}

// Deliver receives admitted frames. Upper-layer protocol processing is out
// of scope here; the default delivery is a counter.
type Deliver func(buf *core.NetworkBuffer)

// Pipeline processes one frame at a time to a terminal verdict: pooled
// buffer in, admission checks, option normalization, delivery or release.
type Pipeline struct {
	filter  *admission.Filter
	pool    *pool.BufferPool
	deliver Deliver
	logger  log.Logger
}

// NewPipeline creates a pipeline. deliver may be nil.
func NewPipeline(filter *admission.Filter, bufPool *pool.BufferPool, deliver Deliver, logger log.Logger) *Pipeline {
	return &Pipeline{
		filter:  filter,
		pool:    bufPool,
		deliver: deliver,
		logger:  logger,
	}
}

// HandleFrame runs one received frame to a verdict. The frame bytes are
// copied into a pooled buffer; the buffer is returned to the pool before
// HandleFrame returns, whatever the verdict.
func (p *Pipeline) HandleFrame(data []byte, ts time.Time) core.Verdict {
	if len(data) > p.pool.BufferSize() {
		metrics.CaptureOversizeTotal.Inc()
		return core.VerdictDiscard
	}

	buf := p.pool.Get()
	defer p.pool.Put(buf)

	buf.DataLength = copy(buf.Data, data)
	buf.Timestamp = ts

	verdict := p.process(buf)
	metrics.FramesTotal.WithLabelValues(verdict.String()).Inc()
	if verdict == core.VerdictProcess && p.deliver != nil {
		p.deliver(buf)
	}
	return verdict
}

// process is the admission sequence for one IPv4-framed packet. Frames the
// demultiplexer does not recognize as IPv4 are not this stage's concern
// and are released unprocessed.
func (p *Pipeline) process(buf *core.NetworkBuffer) core.Verdict {
	if buf.DataLength < frame.EthernetHeaderLen+frame.IPv4MinHeaderLen {
		return core.VerdictDiscard
	}

	fr := buf.Frame()
	if frame.Ethernet(fr).Type() != frame.EtherTypeIPv4 {
		return core.VerdictDiscard
	}

	headerLength := frame.IPv4(fr[frame.EthernetHeaderLen:]).HeaderLength()

	if verdict := p.filter.Allow(buf, headerLength); verdict != core.VerdictProcess {
		return verdict
	}
	if headerLength > frame.IPv4MinHeaderLen {
		return p.filter.StripOptions(buf, headerLength)
	}
	return core.VerdictProcess
}

// Run drains the source through the pipeline until it stops.
func (p *Pipeline) Run(ctx context.Context, source Source, name string) error {
	defer source.Close()
	err := source.Run(ctx, func(data []byte, ts time.Time) {
		metrics.CaptureFramesTotal.WithLabelValues(name).Inc()
		p.HandleFrame(data, ts)
	})
	if p.logger != nil {
		if err != nil && err != context.Canceled {
			p.logger.WithError(err).Error("capture source stopped")
		} else {
			p.logger.WithField("source", name).Info("capture source drained")
		}
	}
	return err
}
