package container

import "testing"

func TestFixedArrayPushFillsCapacity(t *testing.T) {
	f := NewFixedArray[int](4)
	for i := 0; i < 4; i++ {
		f.PushBack(i * 10)
	}
	if f.Len() != 4 || f.Cap() != 4 {
		t.Fatalf("Len=%d Cap=%d, want 4/4", f.Len(), f.Cap())
	}
	for i := 0; i < 4; i++ {
		if got := f.At(i); got != i*10 {
			t.Fatalf("At(%d) = %d, want %d", i, got, i*10)
		}
	}
}

func TestFixedArrayOverflowPanics(t *testing.T) {
	f := NewFixedArray[int](2)
	f.PushBack(1)
	f.PushBack(2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on overflow")
		}
	}()
	f.PushBack(3)
}

func TestFixedArrayClearResetsLenNotCap(t *testing.T) {
	f := NewFixedArray[int](3)
	f.PushBack(1)
	f.PushBack(2)
	f.Clear()
	if f.Len() != 0 {
		t.Fatalf("Len = %d, want 0", f.Len())
	}
	if f.Cap() != 3 {
		t.Fatalf("Cap = %d, want 3", f.Cap())
	}
	f.PushBack(9)
	if f.At(0) != 9 {
		t.Fatalf("At(0) = %d, want 9", f.At(0))
	}
}

func TestFixedArrayPopBackOrder(t *testing.T) {
	f := NewFixedArray[int](3)
	f.PushBack(1)
	f.PushBack(2)
	f.PushBack(3)
	if v := f.PopBack(); v != 3 {
		t.Fatalf("PopBack = %d, want 3", v)
	}
	if v := f.PopBack(); v != 2 {
		t.Fatalf("PopBack = %d, want 2", v)
	}
	if f.Len() != 1 {
		t.Fatalf("Len = %d, want 1", f.Len())
	}
}
