package mem

// JumpBlock is a single-threaded linked-bump allocator: it owns a chain
// of fixed-size blocks and "jumps" to a new block when the current one
// cannot satisfy a request, falling back to a backing Allocator (often
// a Heap) to obtain each new block. This is the realization of the
// spec's "jump-block allocator" — a bump allocator that grows by
// linking rather than by copying, so previously handed-out Blocks
// remain valid.
type JumpBlock struct {
	backing   Allocator
	blockSize int
	blocks    []*Block // chain of backing blocks, oldest first
	offset    int       // bump offset within blocks[len(blocks)-1]
	count     int
}

// NewJumpBlock creates a jump-block allocator that requests blockSize
// bytes at a time from backing.
func NewJumpBlock(backing Allocator, blockSize int) *JumpBlock {
	return &JumpBlock{backing: backing, blockSize: blockSize}
}

func (j *JumpBlock) Allocate(size, align int) *Block {
	if size > j.blockSize {
		// Oversized request: give it a dedicated block of its own so a
		// single large allocation doesn't waste the rest of a block.
		// The current bump block stays last in the chain.
		b := j.backing.Allocate(size, align)
		if n := len(j.blocks); n > 0 {
			cur := j.blocks[n-1]
			j.blocks = append(j.blocks[:n-1], b, cur)
		} else {
			j.blocks = append(j.blocks, b)
			j.offset = len(b.data)
		}
		j.count++
		return &Block{data: b.data[:size:size], align: align}
	}

	if len(j.blocks) == 0 {
		j.pushBlock()
	}
	cur := j.blocks[len(j.blocks)-1]
	start := alignUp(j.offset, maxInt(align, 1))
	if start+size > len(cur.data) {
		j.pushBlock()
		cur = j.blocks[len(j.blocks)-1]
		start = alignUp(0, maxInt(align, 1))
	}
	j.offset = start + size
	j.count++
	return &Block{data: cur.data[start : start+size : start+size], align: align}
}

func (j *JumpBlock) pushBlock() {
	b := j.backing.Allocate(j.blockSize, 1)
	j.blocks = append(j.blocks, b)
	j.offset = 0
}

func (j *JumpBlock) Deallocate(b *Block) {
	if b == nil {
		return
	}
	if j.count == 0 {
		panic("mem: JumpBlock.Deallocate called with no live allocations")
	}
	j.count--
}

func (j *JumpBlock) NumAllocations() int { return j.count }

func (j *JumpBlock) TotalSize() int {
	total := 0
	for _, b := range j.blocks {
		total += len(b.data)
	}
	return total
}

func (j *JumpBlock) AllocationSize(b *Block) int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Release returns every backing block to the backing allocator. Panics
// if allocations from this JumpBlock are still outstanding.
func (j *JumpBlock) Release() {
	AssertEmpty(j, "mem.JumpBlock")
	for _, b := range j.blocks {
		j.backing.Deallocate(b)
	}
	j.blocks = nil
	j.offset = 0
}
