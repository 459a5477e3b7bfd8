package container

import "github.com/phanxgames/kiln/mem"

// HashKey constrains HashMap keys to the 32- or 64-bit hash values the
// rest of kiln identifies resources and KVS names with.
type HashKey interface {
	~uint32 | ~uint64
}

type mapEntry[K HashKey, V any] struct {
	key  K
	val  V
	next int32 // index of next entry in this bucket's chain, -1 = end
}

// HashMap is a chained open-addressing table: head[bucket] -> data[idx]
// -> data[next]. Load factor is capped at 0.70 (insert-triggered
// rebuild doubles the bucket count); removal preserves density by
// swapping the removed slot with the last slot in the backing array.
// Duplicate keys are permitted (multi-map semantics) and iteration
// visits entries in insertion order — a property Clear and Rebuild
// both preserve, since neither reorders the backing array, only the
// bucket chains threaded through it.
type HashMap[K HashKey, V any] struct {
	alloc   mem.Allocator
	buckets []int32
	data    []mapEntry[K, V]
}

const initialBucketCount = 8
const maxLoadFactor = 0.70

// NewHashMap creates an empty hash map backed by alloc.
func NewHashMap[K HashKey, V any](alloc mem.Allocator) *HashMap[K, V] {
	m := &HashMap[K, V]{alloc: alloc}
	m.buckets = newBucketArray(initialBucketCount)
	return m
}

func newBucketArray(n int) []int32 {
	b := make([]int32, n)
	for i := range b {
		b[i] = -1
	}
	return b
}

// Len returns the number of entries, counting duplicates separately.
func (m *HashMap[K, V]) Len() int { return len(m.data) }

func (m *HashMap[K, V]) bucketFor(k K) int {
	return int(uint64(k) % uint64(len(m.buckets)))
}

// Set inserts a new (k, v) pair. Existing entries for k, if any, are
// left in place — this is multi-map semantics, not an overwrite.
func (m *HashMap[K, V]) Set(k K, v V) {
	b := m.bucketFor(k)
	idx := int32(len(m.data))
	m.data = append(m.data, mapEntry[K, V]{key: k, val: v, next: m.buckets[b]})
	m.buckets[b] = idx

	if float64(len(m.data))/float64(len(m.buckets)) > maxLoadFactor {
		m.rebuild(len(m.buckets) * 2)
	}
}

// Get returns the first matching value for k found by bucket-chain
// scan, and whether any entry for k exists.
func (m *HashMap[K, V]) Get(k K) (V, bool) {
	var zero V
	b := m.bucketFor(k)
	for cur := m.buckets[b]; cur != -1; cur = m.data[cur].next {
		if m.data[cur].key == k {
			return m.data[cur].val, true
		}
	}
	return zero, false
}

// GetAll returns every value stored for k, in chain-scan order.
func (m *HashMap[K, V]) GetAll(k K) []V {
	var out []V
	b := m.bucketFor(k)
	for cur := m.buckets[b]; cur != -1; cur = m.data[cur].next {
		if m.data[cur].key == k {
			out = append(out, m.data[cur].val)
		}
	}
	return out
}

// Has reports whether any entry exists for k.
func (m *HashMap[K, V]) Has(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// Remove deletes the first entry matching k, preserving array density
// by moving the last entry into the freed slot. Reports whether an
// entry was removed.
func (m *HashMap[K, V]) Remove(k K) bool {
	b := m.bucketFor(k)
	prev := int32(-1)
	cur := m.buckets[b]
	for cur != -1 {
		if m.data[cur].key == k {
			if prev == -1 {
				m.buckets[b] = m.data[cur].next
			} else {
				m.data[prev].next = m.data[cur].next
			}
			m.removeSlot(cur)
			return true
		}
		prev = cur
		cur = m.data[cur].next
	}
	return false
}

// removeSlot physically removes data[idx] (already unlinked from its
// chain) by swapping the last slot into its place and fixing up
// whichever chain pointer referenced the last slot.
func (m *HashMap[K, V]) removeSlot(idx int32) {
	last := int32(len(m.data) - 1)
	if idx != last {
		movedKey := m.data[last].key
		m.data[idx] = m.data[last]

		b := m.bucketFor(movedKey)
		if m.buckets[b] == last {
			m.buckets[b] = idx
		} else {
			for cur := m.buckets[b]; cur != -1; cur = m.data[cur].next {
				if m.data[cur].next == last {
					m.data[cur].next = idx
					break
				}
			}
		}
	}
	m.data = m.data[:last]
}

// rebuild doubles (or otherwise resizes) the bucket array and rewires
// every chain, without moving entries in the backing array — iteration
// order is therefore unaffected by rebuilding.
func (m *HashMap[K, V]) rebuild(newBucketCount int) {
	m.buckets = newBucketArray(newBucketCount)
	for i := range m.data {
		b := m.bucketFor(m.data[i].key)
		m.data[i].next = m.buckets[b]
		m.buckets[b] = int32(i)
	}
}

// Clear empties the map. The bucket array's capacity is kept rather
// than shrunk (see SPEC_FULL.md Open Question resolutions): a cleared
// map destined for immediate reuse at a similar size avoids repaying
// the rebuild cost.
func (m *HashMap[K, V]) Clear() {
	m.data = m.data[:0]
	for i := range m.buckets {
		m.buckets[i] = -1
	}
}

// Each calls fn for every entry in insertion order, stopping early if
// fn returns false.
func (m *HashMap[K, V]) Each(fn func(k K, v V) bool) {
	for i := range m.data {
		if !fn(m.data[i].key, m.data[i].val) {
			return
		}
	}
}
