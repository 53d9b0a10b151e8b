// Package pool provides nimble's memory pool (§5): a pooled ByteBuffer, a
// generic typed Buffer[T], and generic SlicePool[T] recycling. Only
// ByteBuffers are pooled by a Pool; the stream chunk writer and the stripe
// writer take theirs from Default(). Buffer[T] and SlicePool[T] are not
// used by the reader or writer.
package pool

import (
	"sync"
	"sync/atomic"

	"github.com/nimblefmt/nimble/internal/options"
)

// config holds the construction-time knobs applied by Option values.
type config struct {
	trackUsage bool
}

// Option configures a Pool at construction time. Pools are immutable after
// construction (§5): there is no way to flip usage tracking on an existing
// Pool.
type Option = options.Option[*config]

// WithUsageTracking enables the single global knob described in §5,
// "enable memory usage tracking in default pool". When enabled, Account
// and Release adjust a running total that Pool.Allocated reports; when
// disabled (the default) Allocated always reports zero.
func WithUsageTracking(enabled bool) Option {
	return options.NoError(func(c *config) { c.trackUsage = enabled })
}

// Pool is nimble's memory pool. It holds a single pool of ByteBuffers and
// an optional usage counter adjusted through Account/Release.
type Pool struct {
	cfg config

	bufPool sync.Pool // *ByteBuffer

	allocated int64 // bytes, tracked only when cfg.trackUsage
}

// NewDefaultPool creates a Pool with the given options applied.
func NewDefaultPool(opts ...Option) (*Pool, error) {
	cfg := config{}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	p := &Pool{cfg: cfg}
	p.bufPool = sync.Pool{
		New: func() any { return NewByteBuffer(defaultBufferMinCapacity, nil) },
	}

	return p, nil
}

// GetByteBuffer retrieves a pooled ByteBuffer, resetting it for reuse.
func (p *Pool) GetByteBuffer() *ByteBuffer {
	bb, _ := p.bufPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutByteBuffer returns bb to the pool.
func (p *Pool) PutByteBuffer(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	p.Release(int64(bb.Cap()))
	p.bufPool.Put(bb)
}

// Account records n newly-allocated bytes when usage tracking is enabled.
// It is a no-op otherwise.
func (p *Pool) Account(n int64) {
	if p.cfg.trackUsage {
		atomic.AddInt64(&p.allocated, n)
	}
}

// Release records n bytes returned to the pool when usage tracking is
// enabled. It is a no-op otherwise.
func (p *Pool) Release(n int64) {
	if p.cfg.trackUsage {
		atomic.AddInt64(&p.allocated, -n)
	}
}

// Allocated reports the pool's outstanding byte count. It is always zero
// unless WithUsageTracking(true) was passed at construction.
func (p *Pool) Allocated() int64 {
	return atomic.LoadInt64(&p.allocated)
}

var defaultPool, _ = NewDefaultPool()

// Default returns the process-wide Pool used by stream and stripe writers
// that are not given an explicit Pool (§5). It has usage tracking disabled.
func Default() *Pool {
	return defaultPool
}
