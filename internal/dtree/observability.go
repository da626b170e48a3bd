package dtree

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DepthObserver is told how long the backward pass spent on each depth.
//
// Solve calls it exactly once per depth, from MaxDepth down to 1. The
// duration for depth d covers folding every amount node at d into its chance
// node and picking an option at every decision at d, including the
// p_failure share each of those decisions passes to the chance node above.
// Amount totals along root paths are computed before the first call and are
// not included.
type DepthObserver interface {
	ObserveDepthLatency(depth int, duration time.Duration)
}

// DepthLatencyLogger writes one "solve_depth_latency" debug entry per depth.
// levels_left counts the shallower depths the pass still has to fold, so 0
// marks the root level.
type DepthLatencyLogger struct {
	logger *zap.Logger
}

func NewDepthLatencyLogger(logger *zap.Logger) *DepthLatencyLogger {
	return &DepthLatencyLogger{logger: logger}
}

func (l *DepthLatencyLogger) ObserveDepthLatency(depth int, duration time.Duration) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Debug("solve_depth_latency",
		zap.Int("depth", depth),
		zap.Int("levels_left", max(depth-1, 0)),
		zap.Float64("duration_ms", float64(duration.Microseconds())/1000.0),
	)
}

// AsyncDepthObserver forwards depth timings to next from its own goroutine so
// a slow sink does not stretch the solve it is timing. Depth order is kept.
// A full buffer drops the observation and counts it in Dropped.
type AsyncDepthObserver struct {
	next    DepthObserver
	events  chan depthLatencyEvent
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type depthLatencyEvent struct {
	depth    int
	duration time.Duration
}

func NewAsyncDepthObserver(next DepthObserver, buffer int) *AsyncDepthObserver {
	if buffer <= 0 {
		buffer = 1
	}

	o := &AsyncDepthObserver{
		next:   next,
		events: make(chan depthLatencyEvent, buffer),
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for ev := range o.events {
			if o.next == nil {
				continue
			}
			o.next.ObserveDepthLatency(ev.depth, ev.duration)
		}
	}()

	return o
}

func (o *AsyncDepthObserver) ObserveDepthLatency(depth int, duration time.Duration) {
	if o == nil {
		return
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		o.dropped.Add(1)
		return
	}
	select {
	case o.events <- depthLatencyEvent{depth: depth, duration: duration}:
	default:
		o.dropped.Add(1)
	}
}

func (o *AsyncDepthObserver) Dropped() uint64 {
	if o == nil {
		return 0
	}
	return o.dropped.Load()
}

// Close flushes pending observations and stops the worker. Later
// observations are counted as dropped.
func (o *AsyncDepthObserver) Close() {
	if o == nil {
		return
	}
	o.once.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.events)
		o.mu.Unlock()
		o.wg.Wait()
	})
}
