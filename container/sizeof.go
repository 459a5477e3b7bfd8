package container

import "unsafe"

// approxSize reports the in-memory size of one T, used only to size the
// accounting block requested from the allocator when a container grows.
// It is not load-bearing for correctness — Go's runtime owns the actual
// backing array memory — it exists so mem.Allocator implementations see
// realistic byte counts through NumAllocations/TotalSize.
func approxSize[T any](v T) uintptr {
	return unsafe.Sizeof(v)
}
