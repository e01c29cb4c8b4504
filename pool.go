package bbcode

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ConverterPool hands out up to n Converters sharing one option set. Each
// converter owns its browser, so n converters can export PDFs in parallel.
// The first converter is built by NewConverterPool; the others are built
// on demand.
type ConverterPool struct {
	opts  []Option
	size  int
	idle  chan *Converter // released converters, cap size
	slots chan struct{}   // one token per converter not built yet
	done  chan struct{}   // closed by Close

	mu     sync.Mutex
	all    []*Converter
	closed bool
}

// NewConverterPool creates a pool of n converters (at least one) built
// with opts. It builds the first converter right away, so an invalid style
// or theme is reported here instead of on Acquire.
func NewConverterPool(n int, opts ...Option) (*ConverterPool, error) {
	n = max(n, MinPoolSize)

	first, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}

	p := &ConverterPool{
		opts:  opts,
		size:  n,
		idle:  make(chan *Converter, n),
		slots: make(chan struct{}, n-1),
		done:  make(chan struct{}),
		all:   []*Converter{first},
	}
	p.idle <- first
	for range n - 1 {
		p.slots <- struct{}{}
	}
	return p, nil
}

// Acquire is AcquireContext without a deadline.
func (p *ConverterPool) Acquire() (*Converter, error) {
	return p.AcquireContext(context.Background())
}

// AcquireContext returns an idle converter, builds a new one while the pool
// is below capacity, or waits for a Release. Idle converters are preferred
// so browsers are reused before new ones start.
func (p *ConverterPool) AcquireContext(ctx context.Context) (*Converter, error) {
	select {
	case <-p.done:
		return nil, ErrPoolClosed
	case c := <-p.idle:
		return p.checkOut(c)
	default:
	}

	select {
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case c := <-p.idle:
		return p.checkOut(c)
	case <-p.slots:
		return p.build()
	}
}

// checkOut guards against handing out a converter that Close raced with.
func (p *ConverterPool) checkOut(c *Converter) (*Converter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPoolClosed
	}
	return c, nil
}

// build creates a converter for a slot token. The token goes back on
// failure so a later Acquire can retry.
func (p *ConverterPool) build() (*Converter, error) {
	c, err := NewConverter(p.opts...)
	if err != nil {
		p.slots <- struct{}{}
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = c.Close()
		return nil, ErrPoolClosed
	}
	p.all = append(p.all, c)
	p.mu.Unlock()
	return c, nil
}

// Release returns c to the pool. After Close it does nothing: Close has
// already shut c down.
func (p *ConverterPool) Release(c *Converter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	// Never blocks: at most size converters exist.
	p.idle <- c
}

// Close shuts down every converter the pool built and fails pending and
// future Acquire calls with ErrPoolClosed.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	all := p.all
	p.all = nil
	p.mu.Unlock()

	var errs []error
	for _, c := range all {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize picks the pool size: workers when positive, else half of
// GOMAXPROCS clamped to [MinPoolSize, MaxPoolSize]. automaxprocs adjusts
// GOMAXPROCS to the container CPU quota before this runs in the CLI.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	return min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)
}
