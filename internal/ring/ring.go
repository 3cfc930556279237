// Package ring provides a fixed-capacity circular buffer.
//
// The buffer keeps the most recent Cap() values in insertion order and
// overwrites the oldest value once full. It is not safe for concurrent
// use; callers that share a Ring must synchronize around it.
package ring

// Ring is a fixed-size circular buffer of values of type T.
type Ring[T any] struct {
	buf   []T
	size  int
	head  int // next write position
	count int // number of valid entries (0..size)
}

// New creates a ring with the given capacity. Capacities below 1 are
// clamped to 1.
func New[T any](size int) *Ring[T] {
	if size < 1 {
		size = 1
	}
	return &Ring[T]{
		buf:  make([]T, size),
		size: size,
	}
}

// Push appends v, overwriting the oldest value if the ring is full.
// When an overwrite happens the displaced value is returned with ok=true,
// so callers can release anything keyed on it.
func (r *Ring[T]) Push(v T) (evicted T, ok bool) {
	if r.count == r.size {
		evicted, ok = r.buf[r.head], true
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
	return evicted, ok
}

// Snapshot returns a copy of the contents in insertion order (oldest
// first). The returned slice is independent of the ring.
func (r *Ring[T]) Snapshot() []T {
	if r.count == 0 {
		return nil
	}
	result := make([]T, r.count)
	if r.count < r.size {
		copy(result, r.buf[:r.count])
	} else {
		n := copy(result, r.buf[r.head:])
		copy(result[n:], r.buf[:r.head])
	}
	return result
}

// Last returns the n most recently pushed values in insertion order.
// If n exceeds Len() all values are returned; n <= 0 returns nil.
func (r *Ring[T]) Last(n int) []T {
	if n <= 0 || r.count == 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}
	result := make([]T, n)
	start := (r.head - n + r.size) % r.size
	if start+n <= r.size {
		copy(result, r.buf[start:start+n])
	} else {
		first := r.size - start
		copy(result, r.buf[start:])
		copy(result[first:], r.buf[:n-first])
	}
	return result
}

// Len returns the number of values currently buffered.
func (r *Ring[T]) Len() int {
	return r.count
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return r.size
}
