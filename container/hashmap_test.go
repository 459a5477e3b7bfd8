package container

import (
	"testing"

	"github.com/phanxgames/kiln/mem"
)

func TestHashMapSetGet(t *testing.T) {
	h := mem.NewHeap()
	m := NewHashMap[uint32, string](h)
	m.Set(1, "one")
	m.Set(2, "two")
	v, ok := m.Get(1)
	if !ok || v != "one" {
		t.Fatalf("Get(1) = %q,%v want one,true", v, ok)
	}
	if _, ok := m.Get(99); ok {
		t.Fatal("Get(99) should miss")
	}
}

func TestHashMapLoadFactorStaysUnderCap(t *testing.T) {
	h := mem.NewHeap()
	m := NewHashMap[uint32, int](h)
	for i := uint32(0); i < 1000; i++ {
		m.Set(i, int(i))
		if float64(m.Len())/float64(len(m.buckets)) > maxLoadFactor {
			t.Fatalf("load factor exceeded %v after inserting key %d", maxLoadFactor, i)
		}
	}
	for i := uint32(0); i < 1000; i++ {
		v, ok := m.Get(i)
		if !ok || v != int(i) {
			t.Fatalf("Get(%d) = %d,%v want %d,true", i, v, ok, i)
		}
	}
}

func TestHashMapMultiMapSemantics(t *testing.T) {
	h := mem.NewHeap()
	m := NewHashMap[uint32, string](h)
	m.Set(7, "a")
	m.Set(7, "b")
	m.Set(7, "c")
	all := m.GetAll(7)
	if len(all) != 3 {
		t.Fatalf("GetAll len = %d, want 3", len(all))
	}
}

func TestHashMapRemovePreservesOtherEntries(t *testing.T) {
	h := mem.NewHeap()
	m := NewHashMap[uint32, int](h)
	for i := uint32(0); i < 20; i++ {
		m.Set(i, int(i))
	}
	if !m.Remove(5) {
		t.Fatal("Remove(5) should report true")
	}
	if m.Has(5) {
		t.Fatal("key 5 should be gone")
	}
	if m.Len() != 19 {
		t.Fatalf("Len = %d, want 19", m.Len())
	}
	for i := uint32(0); i < 20; i++ {
		if i == 5 {
			continue
		}
		v, ok := m.Get(i)
		if !ok || v != int(i) {
			t.Fatalf("Get(%d) = %d,%v want %d,true after removal of 5", i, v, ok, i)
		}
	}
	if m.Remove(5) {
		t.Fatal("second Remove(5) should report false")
	}
}

func TestHashMapIterationOrderSurvivesRebuildAndRemove(t *testing.T) {
	h := mem.NewHeap()
	m := NewHashMap[uint32, int](h)
	var inserted []uint32
	for i := uint32(0); i < 50; i++ {
		m.Set(i, int(i))
		inserted = append(inserted, i)
	}
	var seen []uint32
	m.Each(func(k uint32, v int) bool {
		seen = append(seen, k)
		return true
	})
	if len(seen) != len(inserted) {
		t.Fatalf("Each visited %d entries, want %d", len(seen), len(inserted))
	}
	for i := range inserted {
		if seen[i] != inserted[i] {
			t.Fatalf("iteration order diverged at %d: got %d, want %d", i, seen[i], inserted[i])
		}
	}

	// Removing a middle key swaps the tail into its slot; only that
	// one entry's position should change.
	m.Remove(10)
	last := inserted[len(inserted)-1]
	inserted[10] = last
	inserted = inserted[:len(inserted)-1]

	seen = seen[:0]
	m.Each(func(k uint32, v int) bool {
		seen = append(seen, k)
		return true
	})
	if len(seen) != len(inserted) {
		t.Fatalf("Each after Remove visited %d entries, want %d", len(seen), len(inserted))
	}
	for i := range inserted {
		if seen[i] != inserted[i] {
			t.Fatalf("iteration order after Remove diverged at %d: got %d, want %d", i, seen[i], inserted[i])
		}
	}
}

func TestHashMapClearKeepsBucketCapacity(t *testing.T) {
	h := mem.NewHeap()
	m := NewHashMap[uint32, int](h)
	for i := uint32(0); i < 100; i++ {
		m.Set(i, int(i))
	}
	bucketsBefore := len(m.buckets)
	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", m.Len())
	}
	if len(m.buckets) != bucketsBefore {
		t.Fatalf("bucket count changed by Clear: %d vs %d", len(m.buckets), bucketsBefore)
	}
	m.Set(1, 1)
	v, ok := m.Get(1)
	if !ok || v != 1 {
		t.Fatalf("Get(1) after Clear+Set = %d,%v want 1,true", v, ok)
	}
}

func TestHashMapEachEarlyExit(t *testing.T) {
	h := mem.NewHeap()
	m := NewHashMap[uint32, int](h)
	for i := uint32(0); i < 10; i++ {
		m.Set(i, int(i))
	}
	count := 0
	m.Each(func(k uint32, v int) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Fatalf("Each ran %d times, want exactly 3 (early exit)", count)
	}
}
