package pool

import "sync"

// SlicePool recycles slices of a fixed element type T, using one generic
// pool instead of a sync.Pool per concrete element type. The reader and
// writer do not use it.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool creates an empty SlicePool[T].
func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{
		pool: sync.Pool{
			New: func() any { s := make([]T, 0); return &s },
		},
	}
}

// Get retrieves a []T of exactly length size from the pool, allocating a
// new one if the pooled slice's capacity is insufficient. The caller must
// invoke the returned cleanup function (typically via defer) to return the
// slice to the pool.
func (p *SlicePool[T]) Get(size int) ([]T, func()) {
	ptr, _ := p.pool.Get().(*[]T)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]T, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { p.pool.Put(ptr) }
}
