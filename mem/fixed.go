package mem

import "fmt"

// Fixed is a single-threaded bump allocator over a caller-provided
// buffer of fixed capacity. It never grows; Allocate panics when the
// buffer is exhausted. Deallocate only updates bookkeeping — bump
// allocators cannot reclaim individual blocks, only the whole arena via
// Reset.
type Fixed struct {
	buf    []byte
	offset int
	count  int
}

// NewFixed creates a fixed-buffer allocator with the given capacity.
func NewFixed(capacity int) *Fixed {
	return &Fixed{buf: make([]byte, capacity)}
}

func (f *Fixed) Allocate(size, align int) *Block {
	start := alignUp(f.offset, maxInt(align, 1))
	end := start + size
	if end > len(f.buf) {
		panic(fmt.Sprintf("mem: Fixed allocator exhausted (want %d bytes at offset %d, capacity %d)", size, start, len(f.buf)))
	}
	f.offset = end
	f.count++
	return &Block{data: f.buf[start:end:end], align: align}
}

func (f *Fixed) Deallocate(b *Block) {
	if b == nil {
		return
	}
	if f.count == 0 {
		panic("mem: Fixed.Deallocate called with no live allocations")
	}
	f.count--
}

func (f *Fixed) NumAllocations() int { return f.count }
func (f *Fixed) TotalSize() int      { return f.offset }
func (f *Fixed) AllocationSize(b *Block) int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Reset rewinds the bump pointer to the start of the buffer. Panics if
// any allocation is still live, per the spec's destruction invariant —
// Reset is destruction-and-recreation in place.
func (f *Fixed) Reset() {
	AssertEmpty(f, "mem.Fixed")
	f.offset = 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
