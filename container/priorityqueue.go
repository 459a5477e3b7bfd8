package container

import "github.com/phanxgames/kiln/mem"

// PriorityQueue is a 1-indexed binary max-heap over an Array[T],
// ordered by a caller-supplied less function (§3). Index 0 of the
// backing array is left unused so a node's children sit at 2*i and
// 2*i+1 under the classic 1-indexed heap layout.
type PriorityQueue[T any] struct {
	arr  *Array[T]
	less func(a, b T) bool
}

// NewPriorityQueue creates an empty max-heap. less(a, b) reports
// whether a has lower priority than b; the heap pops the element for
// which no other element is "less" (i.e. the greatest under less).
func NewPriorityQueue[T any](alloc mem.Allocator, less func(a, b T) bool) *PriorityQueue[T] {
	pq := &PriorityQueue[T]{arr: NewArray[T](alloc), less: less}
	var zero T
	pq.arr.PushBack(zero) // index 0 sentinel, unused
	return pq
}

// Len returns the number of elements in the heap.
func (pq *PriorityQueue[T]) Len() int { return pq.arr.Len() - 1 }

// Push inserts v and restores the heap property.
func (pq *PriorityQueue[T]) Push(v T) {
	pq.arr.PushBack(v)
	pq.siftUp(pq.arr.Len() - 1)
}

// Peek returns the maximum element without removing it. Panics if empty.
func (pq *PriorityQueue[T]) Peek() T {
	if pq.Len() == 0 {
		panic("container: Peek on empty PriorityQueue")
	}
	return pq.arr.At(1)
}

// Pop removes and returns the maximum element. Panics if empty.
func (pq *PriorityQueue[T]) Pop() T {
	if pq.Len() == 0 {
		panic("container: Pop on empty PriorityQueue")
	}
	top := pq.arr.At(1)
	last := pq.arr.PopBack()
	if pq.arr.Len() > 1 {
		pq.arr.Set(1, last)
		pq.siftDown(1)
	}
	return top
}

func (pq *PriorityQueue[T]) siftUp(i int) {
	for i > 1 {
		parent := i / 2
		if !pq.less(pq.arr.At(parent), pq.arr.At(i)) {
			break
		}
		pq.swap(i, parent)
		i = parent
	}
}

func (pq *PriorityQueue[T]) siftDown(i int) {
	n := pq.arr.Len() - 1
	for {
		left, right := 2*i, 2*i+1
		largest := i
		if left <= n && pq.less(pq.arr.At(largest), pq.arr.At(left)) {
			largest = left
		}
		if right <= n && pq.less(pq.arr.At(largest), pq.arr.At(right)) {
			largest = right
		}
		if largest == i {
			break
		}
		pq.swap(i, largest)
		i = largest
	}
}

func (pq *PriorityQueue[T]) swap(i, j int) {
	a, b := pq.arr.At(i), pq.arr.At(j)
	pq.arr.Set(i, b)
	pq.arr.Set(j, a)
}
