// Package container implements the POD dynamic/fixed arrays, ring-buffer
// queue, open-addressed multi-map, and binary-heap priority queue that
// the rest of kiln builds on (§3 "Containers"). Every container is
// allocator-parametric: construction takes a mem.Allocator which backs
// its storage, so callers can budget memory per subsystem.
package container

import "github.com/phanxgames/kiln/mem"

// Array is a contiguous, geometrically-growing dynamic array. Its
// capacity never decreases except via ShrinkToFit. Array is move-only
// in spirit — copy it by value and the two copies will alias the same
// allocator-tracked block, so callers should pass *Array[T] once
// constructed, mirroring the teacher's convention of never copying
// tree/stream-owning structs.
type Array[T any] struct {
	alloc mem.Allocator
	block *mem.Block
	data  []T
}

// NewArray creates an empty array backed by alloc.
func NewArray[T any](alloc mem.Allocator) *Array[T] {
	return &Array[T]{alloc: alloc}
}

// Len returns the number of elements.
func (a *Array[T]) Len() int { return len(a.data) }

// Cap returns the current capacity.
func (a *Array[T]) Cap() int { return cap(a.data) }

// Slice exposes the live elements for read access. The returned slice
// is invalidated by any call that grows the array.
func (a *Array[T]) Slice() []T { return a.data }

// At returns the element at index i. Panics on out-of-bounds access —
// an Array never does a checked, error-returning access, matching the
// spec's "programmer error" tier for OOB container access.
func (a *Array[T]) At(i int) T { return a.data[i] }

// Set overwrites the element at index i.
func (a *Array[T]) Set(i int, v T) { a.data[i] = v }

// PushBack appends v, growing the backing block if necessary.
func (a *Array[T]) PushBack(v T) {
	if len(a.data) == cap(a.data) {
		a.grow(cap(a.data)*2 + 8)
	}
	a.data = append(a.data, v)
}

// PopBack removes and returns the last element. Panics if empty.
func (a *Array[T]) PopBack() T {
	n := len(a.data)
	if n == 0 {
		panic("container: PopBack on empty Array")
	}
	v := a.data[n-1]
	a.data = a.data[:n-1]
	return v
}

// Clear empties the array without shrinking capacity.
func (a *Array[T]) Clear() {
	var zero T
	for i := range a.data {
		a.data[i] = zero
	}
	a.data = a.data[:0]
}

// Reserve ensures capacity for at least n elements.
func (a *Array[T]) Reserve(n int) {
	if n > cap(a.data) {
		a.grow(n)
	}
}

// ShrinkToFit releases unused capacity, the one operation allowed to
// decrease Cap().
func (a *Array[T]) ShrinkToFit() {
	if len(a.data) == cap(a.data) {
		return
	}
	a.grow(len(a.data))
}

func (a *Array[T]) grow(newCap int) {
	if newCap < len(a.data) {
		newCap = len(a.data)
	}
	var zero T
	size := int(sizeOf(zero)) * newCap
	if size == 0 {
		size = newCap // degenerate zero-size T: still track a block per element count
	}
	newBlock := a.alloc.Allocate(size, 8)
	newData := make([]T, len(a.data), newCap)
	copy(newData, a.data)
	if a.block != nil {
		a.alloc.Deallocate(a.block)
	}
	a.block = newBlock
	a.data = newData
}

// Release returns the backing block to the allocator. After Release the
// Array must not be used again.
func (a *Array[T]) Release() {
	if a.block != nil {
		a.alloc.Deallocate(a.block)
		a.block = nil
	}
	a.data = nil
}

func sizeOf[T any](v T) uintptr {
	return approxSize(v)
}
