// Package hash provides the two FNV-1a widths used as identity hashes
// throughout kiln: 32-bit for resource types and package names, 64-bit
// for resource names and tag globs.
package hash

const (
	offset32 uint32 = 0x811c9dc5
	prime32  uint32 = 0x01000193

	offset64 uint64 = 0xcbf29ce484222325
	prime64  uint64 = 0x100000001b3
)

// Value32 is an FNV-1a 32-bit hash. The zero value is the identity hash
// (the hash of an empty input), distinct from the hash of any non-empty
// input.
type Value32 uint32

// Value64 is an FNV-1a 64-bit hash. The zero value is the identity hash.
type Value64 uint64

// Calc32 computes the FNV-1a 32-bit hash of s in one shot. Empty input
// maps to Identity32, not the FNV offset basis.
func Calc32(s string) Value32 {
	if len(s) == 0 {
		return Identity32
	}
	return Value32(offset32).Feed(s)
}

// Calc64 computes the FNV-1a 64-bit hash of s in one shot. Empty input
// maps to Identity64, not the FNV offset basis.
func Calc64(s string) Value64 {
	if len(s) == 0 {
		return Identity64
	}
	return Value64(offset64).Feed(s)
}

// CalcBytes32 computes the FNV-1a 32-bit hash of b in one shot. Empty
// input maps to Identity32, not the FNV offset basis.
func CalcBytes32(b []byte) Value32 {
	if len(b) == 0 {
		return Identity32
	}
	return Value32(offset32).FeedBytes(b)
}

// CalcBytes64 computes the FNV-1a 64-bit hash of b in one shot. Empty
// input maps to Identity64, not the FNV offset basis.
func CalcBytes64(b []byte) Value64 {
	if len(b) == 0 {
		return Identity64
	}
	return Value64(offset64).FeedBytes(b)
}

// Feed folds s into h and returns the updated hash. Streaming equals
// one-shot: Calc32(a+b) == Value32(offset32).Feed(a).Feed(b).
func (h Value32) Feed(s string) Value32 {
	v := uint32(h)
	for i := 0; i < len(s); i++ {
		v ^= uint32(s[i])
		v *= prime32
	}
	return Value32(v)
}

// FeedBytes is Feed for a byte slice.
func (h Value32) FeedBytes(b []byte) Value32 {
	v := uint32(h)
	for _, c := range b {
		v ^= uint32(c)
		v *= prime32
	}
	return Value32(v)
}

// Feed folds s into h and returns the updated hash.
func (h Value64) Feed(s string) Value64 {
	v := uint64(h)
	for i := 0; i < len(s); i++ {
		v ^= uint64(s[i])
		v *= prime64
	}
	return Value64(v)
}

// FeedBytes is Feed for a byte slice.
func (h Value64) FeedBytes(b []byte) Value64 {
	v := uint64(h)
	for _, c := range b {
		v ^= uint64(c)
		v *= prime64
	}
	return Value64(v)
}

// Identity32 is the hash of the empty string at width 32.
const Identity32 Value32 = 0

// Identity64 is the hash of the empty string at width 64.
const Identity64 Value64 = 0

// Combine64 folds the sorted hashes of a tag set into a single glob
// hash, matching the resource-path grammar's tag-glob construction
// (§4.5): tags are fed in ascending-hash order so that two paths
// differing only in tag order produce the same glob.
func Combine64(tags []Value32) Value64 {
	h := Value64(offset64)
	for _, t := range tags {
		var buf [4]byte
		buf[0] = byte(t)
		buf[1] = byte(t >> 8)
		buf[2] = byte(t >> 16)
		buf[3] = byte(t >> 24)
		h = h.FeedBytes(buf[:])
	}
	return h
}
