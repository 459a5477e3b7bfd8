package container

import (
	"testing"

	"github.com/phanxgames/kiln/mem"
)

func TestQueueRoundTripAcrossGrowthBoundaries(t *testing.T) {
	h := mem.NewHeap()
	q := NewQueue[int](h)
	const n = 500
	for i := 0; i < n; i++ {
		q.PushBack(i)
	}
	for i := 0; i < n; i++ {
		v := q.PopFront()
		if v != i {
			t.Fatalf("PopFront at %d = %d, want %d", i, v, i)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("Len = %d, want 0", q.Len())
	}
}

func TestQueueInterleavedPushPop(t *testing.T) {
	h := mem.NewHeap()
	q := NewQueue[int](h)
	next := 0
	want := 0
	for round := 0; round < 50; round++ {
		for i := 0; i < 5; i++ {
			q.PushBack(next)
			next++
		}
		for i := 0; i < 3; i++ {
			v := q.PopFront()
			if v != want {
				t.Fatalf("round %d: PopFront = %d, want %d", round, v, want)
			}
			want++
		}
	}
	for q.Len() > 0 {
		v := q.PopFront()
		if v != want {
			t.Fatalf("drain: PopFront = %d, want %d", v, want)
		}
		want++
	}
}
