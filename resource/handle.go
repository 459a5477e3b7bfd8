package resource

// HandleBits splits a generational handle into an index (low bits) and
// a generation (high bits), per §3's handle-arena layout. indexBits
// determines the power-of-two capacity of the arena the handle
// belongs to.
type HandleBits struct {
	IndexBits uint
}

// Handle packs (generation | index) into a single uint32, matching the
// renderer's GPU-resource handle format (§3).
type Handle uint32

// NewHandle packs index and generation into a Handle under the given
// index bit width.
func NewHandle(indexBits uint, index, generation uint32) Handle {
	return Handle(generation<<indexBits | (index & ((1 << indexBits) - 1)))
}

// Index extracts the low-bits index.
func (h Handle) Index(indexBits uint) uint32 {
	return uint32(h) & ((1 << indexBits) - 1)
}

// Generation extracts the high-bits generation.
func (h Handle) Generation(indexBits uint) uint32 {
	return uint32(h) >> indexBits
}

// IsNull reports whether h is the NULL sentinel.
func (h Handle) IsNull() bool { return uint32(h) == NullID }

// Arena is a fixed-size, generation-checked slot array for one GPU
// resource kind (buffer, texture, render-target, ...). Freeing a slot
// bumps its generation, marks it unoccupied and links it into the free
// list. Generations start at 1, so no live handle equals the NULL
// sentinel.
type Arena[T any] struct {
	indexBits  uint
	slots      []T
	generation []uint32
	occupied   []bool
	freeList   []uint32 // ascending-index order
}

// NewArena creates an arena with capacity 1<<indexBits slots, all free.
func NewArena[T any](indexBits uint) *Arena[T] {
	capacity := 1 << indexBits
	a := &Arena[T]{
		indexBits:  indexBits,
		slots:      make([]T, capacity),
		generation: make([]uint32, capacity),
		occupied:   make([]bool, capacity),
		freeList:   make([]uint32, capacity),
	}
	for i := range a.freeList {
		a.freeList[i] = uint32(i)
		a.generation[i] = 1
	}
	return a
}

// Alloc claims a free slot, stores value, and returns its handle.
// Panics if the arena is exhausted.
func (a *Arena[T]) Alloc(value T) Handle {
	if len(a.freeList) == 0 {
		panic("kiln: resource: Arena exhausted")
	}
	idx := a.freeList[0]
	a.freeList = a.freeList[1:]
	a.slots[idx] = value
	a.occupied[idx] = true
	return NewHandle(a.indexBits, idx, a.generation[idx])
}

// Get returns the value behind h and whether h is currently valid
// (occupied and generation-matched).
func (a *Arena[T]) Get(h Handle) (T, bool) {
	idx := h.Index(a.indexBits)
	var zero T
	if int(idx) >= len(a.slots) || !a.occupied[idx] || a.generation[idx] != h.Generation(a.indexBits) {
		return zero, false
	}
	return a.slots[idx], true
}

// Free releases h's slot, bumping its generation so stale handles are
// rejected by future Get calls, and re-links it into the free list at
// the position preserving ascending index order (§3).
func (a *Arena[T]) Free(h Handle) {
	idx := h.Index(a.indexBits)
	if int(idx) >= len(a.slots) || !a.occupied[idx] || a.generation[idx] != h.Generation(a.indexBits) {
		panic("kiln: resource: Free called on an invalid or already-free handle")
	}
	var zero T
	a.slots[idx] = zero
	a.occupied[idx] = false
	a.generation[idx]++

	pos := len(a.freeList)
	for i, v := range a.freeList {
		if v > idx {
			pos = i
			break
		}
	}
	a.freeList = append(a.freeList, 0)
	copy(a.freeList[pos+1:], a.freeList[pos:])
	a.freeList[pos] = idx
}

// Len returns the number of currently occupied slots.
func (a *Arena[T]) Len() int {
	n := 0
	for _, occ := range a.occupied {
		if occ {
			n++
		}
	}
	return n
}
