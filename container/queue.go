package container

import "github.com/phanxgames/kiln/mem"

// Queue is a circular buffer over an Array[T]: head index plus size,
// growing to double the old capacity plus 8 while preserving item
// order (§3). It implements a FIFO: PushBack enqueues, PopFront
// dequeues. The backing Array is always kept fully populated up to its
// capacity (zero-filled where unused) so the ring can Set any slot by
// index without touching Array's own append bookkeeping.
type Queue[T any] struct {
	arr  *Array[T]
	head int
	size int
}

// NewQueue creates an empty queue backed by alloc.
func NewQueue[T any](alloc mem.Allocator) *Queue[T] {
	return &Queue[T]{arr: NewArray[T](alloc)}
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int { return q.size }

// PushBack enqueues v, growing the ring if it is full.
func (q *Queue[T]) PushBack(v T) {
	if q.size == q.arr.Cap() {
		q.growTo(q.arr.Cap()*2 + 8)
	}
	idx := (q.head + q.size) % q.arr.Cap()
	q.arr.Set(idx, v)
	q.size++
}

// PopFront dequeues and returns the oldest element. Panics if empty.
func (q *Queue[T]) PopFront() T {
	if q.size == 0 {
		panic("container: PopFront on empty Queue")
	}
	v := q.arr.At(q.head)
	q.head = (q.head + 1) % q.arr.Cap()
	q.size--
	return v
}

// Front returns the oldest element without removing it. Panics if empty.
func (q *Queue[T]) Front() T {
	if q.size == 0 {
		panic("container: Front on empty Queue")
	}
	return q.arr.At(q.head)
}

// At returns the i-th element from the front (0 = Front()).
func (q *Queue[T]) At(i int) T {
	if i < 0 || i >= q.size {
		panic("container: Queue index out of range")
	}
	return q.arr.At((q.head + i) % q.arr.Cap())
}

// growTo reallocates the ring to newCap, linearizing the existing
// elements starting at index 0 so head resets to 0. The new backing
// Array is fully zero-filled up to newCap so future Set calls by ring
// index are always in bounds.
func (q *Queue[T]) growTo(newCap int) {
	old := q.arr
	oldCap := maxOf(old.Cap(), 1)

	newArr := NewArray[T](old.alloc)
	newArr.Reserve(newCap)
	var zero T
	for newArr.Len() < newCap {
		newArr.PushBack(zero)
	}
	for i := 0; i < q.size; i++ {
		newArr.Set(i, old.At((q.head+i)%oldCap))
	}

	old.Release()
	q.arr = newArr
	q.head = 0
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
