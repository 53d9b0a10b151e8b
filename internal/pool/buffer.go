package pool

// Buffer is a growable sequence of T with an explicit GrowthPolicy (§4.6).
// It is the typed analogue of ByteBuffer; it is not backed by a Pool, and
// the encodings, reader and writer do not use it.
type Buffer[T any] struct {
	data   []T
	policy GrowthPolicy
}

// NewBuffer creates a Buffer[T] with the given initial capacity and growth
// policy. A nil policy falls back to DefaultBufferGrowthPolicy.
func NewBuffer[T any](capacity int, policy GrowthPolicy) *Buffer[T] {
	if policy == nil {
		policy = DefaultBufferGrowthPolicy()
	}

	return &Buffer[T]{
		data:   make([]T, 0, capacity),
		policy: policy,
	}
}

// Len returns the number of elements currently held.
func (b *Buffer[T]) Len() int { return len(b.data) }

// Cap returns the buffer's current element capacity.
func (b *Buffer[T]) Cap() int { return cap(b.data) }

// Values returns the underlying slice. It is valid until the next Append,
// Grow, or Reset call.
func (b *Buffer[T]) Values() []T { return b.data }

// Reset empties the buffer but retains its capacity for reuse.
func (b *Buffer[T]) Reset() { b.data = b.data[:0] }

// Grow ensures the buffer can hold n more elements without reallocating.
func (b *Buffer[T]) Grow(n int) {
	if cap(b.data)-len(b.data) >= n {
		return
	}

	newCap := b.policy.Grow(len(b.data)+n, cap(b.data))
	newData := make([]T, len(b.data), newCap)
	copy(newData, b.data)
	b.data = newData
}

// Append appends values, growing the buffer as needed.
func (b *Buffer[T]) Append(values ...T) {
	b.Grow(len(values))
	b.data = append(b.data, values...)
}

// Resize sets the buffer's length to n, growing if necessary. Newly exposed
// elements are zero-valued.
func (b *Buffer[T]) Resize(n int) {
	if n <= len(b.data) {
		b.data = b.data[:n]
		return
	}

	b.Grow(n - len(b.data))
	b.data = b.data[:n]
}
