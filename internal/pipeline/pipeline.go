// Package pipeline runs the poll loop: snapshot, build, publish.
package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ncmu-dev/ncmu/internal/proctree"
	"github.com/ncmu-dev/ncmu/internal/source"
)

// Frame is one published poll result. It is never mutated after publish.
type Frame struct {
	Seq    uint64
	At     time.Time
	Took   time.Duration
	Forest *proctree.Forest // nil when Err is set
	Memory source.SystemMemory
	Err    error
}

// Emitter receives every successfully built forest.
type Emitter interface {
	Emit(f *proctree.Forest, poll time.Duration)
}

// MemoryFunc reads the machine-wide memory figures for the header.
type MemoryFunc func(ctx context.Context) (source.SystemMemory, error)

// Poller polls a source on an interval and publishes frames. Only the
// newest unconsumed frame is kept.
type Poller struct {
	Source   source.Source
	Interval time.Duration
	Memory   MemoryFunc // optional
	Emitter  Emitter    // optional

	seq    uint64
	latest atomic.Pointer[Frame]
	frames chan *Frame
}

// New returns a poller for src.
func New(src source.Source, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		Source:   src,
		Interval: interval,
		frames:   make(chan *Frame, 1),
	}
}

// Frames delivers published frames. A frame not yet received when the next
// one is published is dropped.
func (p *Poller) Frames() <-chan *Frame { return p.frames }

// Latest returns the most recently published frame, or nil.
func (p *Poller) Latest() *Frame { return p.latest.Load() }

// Run polls immediately and then on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll takes one snapshot, builds its forest and publishes the frame. It
// must not be called concurrently with itself or Run.
func (p *Poller) Poll(ctx context.Context) *Frame {
	start := time.Now()
	p.seq++
	fr := &Frame{Seq: p.seq, At: start}

	records, err := source.Acquire(ctx, p.Source)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fr.Err = err
		fr.Took = time.Since(start)
		slog.Warn("poll failed", "seq", fr.Seq, "error", err)
		p.publish(fr)
		return fr
	}

	fr.Forest = proctree.Build(records)
	if p.Memory != nil {
		if m, err := p.Memory(ctx); err == nil {
			fr.Memory = m
		} else {
			slog.Debug("system memory unavailable", "error", err)
		}
	}
	fr.Took = time.Since(start)

	slog.Debug("poll",
		"seq", fr.Seq,
		"processes", fr.Forest.Len(),
		"roots", len(fr.Forest.Roots),
		"diagnostics", len(fr.Forest.Diagnostics),
		"took", fr.Took,
	)
	for _, d := range fr.Forest.Diagnostics {
		slog.Debug("diagnostic", "kind", d.Kind, "pid", d.PID, "msg", d.Message)
	}
	if p.Emitter != nil {
		p.Emitter.Emit(fr.Forest, fr.Took)
	}

	p.publish(fr)
	return fr
}

func (p *Poller) publish(fr *Frame) {
	p.latest.Store(fr)
	for {
		select {
		case p.frames <- fr:
			return
		default:
		}
		// replace the stale pending frame
		select {
		case <-p.frames:
		default:
		}
	}
}
