package ring

import "testing"

func TestPushAndSnapshot(t *testing.T) {
	r := New[int](8)
	for i := 0; i < 5; i++ {
		if _, ok := r.Push(i); ok {
			t.Errorf("Push(%d) reported an eviction before the ring was full", i)
		}
	}

	snap := r.Snapshot()
	if len(snap) != 5 {
		t.Fatalf("expected 5 values, got %d", len(snap))
	}
	for i, v := range snap {
		if v != i {
			t.Errorf("snap[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestWrapAroundEvictsOldest(t *testing.T) {
	r := New[int](4)
	var evicted []int
	for i := 0; i < 8; i++ {
		if v, ok := r.Push(i); ok {
			evicted = append(evicted, v)
		}
	}

	// 0..3 fill the ring, 4..7 each displace the oldest value.
	if len(evicted) != 4 {
		t.Fatalf("expected 4 evictions, got %d", len(evicted))
	}
	for i, v := range evicted {
		if v != i {
			t.Errorf("evicted[%d] = %d, want %d", i, v, i)
		}
	}

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 values, got %d", len(snap))
	}
	for i, v := range snap {
		if want := i + 4; v != want {
			t.Errorf("snap[%d] = %d, want %d", i, v, want)
		}
	}
}

func TestLast(t *testing.T) {
	r := New[int](8)
	for i := 0; i < 8; i++ {
		r.Push(i)
	}

	last3 := r.Last(3)
	if len(last3) != 3 {
		t.Fatalf("expected 3 values, got %d", len(last3))
	}
	for i, v := range last3 {
		if want := i + 5; v != want {
			t.Errorf("last3[%d] = %d, want %d", i, v, want)
		}
	}
}

func TestLastMoreThanLen(t *testing.T) {
	r := New[int](8)
	r.Push(1)
	r.Push(2)

	last := r.Last(100)
	if len(last) != 2 {
		t.Fatalf("expected 2 values, got %d", len(last))
	}
	if last[0] != 1 || last[1] != 2 {
		t.Errorf("Last(100) = %v, want [1 2]", last)
	}
}

func TestLastWrapped(t *testing.T) {
	r := New[int](4)
	for i := 0; i < 6; i++ {
		r.Push(i)
	}

	// Ring holds 2,3,4,5; the last three straddle the wrap point.
	last := r.Last(3)
	if len(last) != 3 {
		t.Fatalf("expected 3 values, got %d", len(last))
	}
	for i, v := range last {
		if want := i + 3; v != want {
			t.Errorf("last[%d] = %d, want %d", i, v, want)
		}
	}
}

func TestLastNonPositive(t *testing.T) {
	r := New[int](4)
	r.Push(1)
	if got := r.Last(0); got != nil {
		t.Errorf("Last(0) = %v, want nil", got)
	}
	if got := r.Last(-1); got != nil {
		t.Errorf("Last(-1) = %v, want nil", got)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	r := New[string](4)
	if got := r.Snapshot(); got != nil {
		t.Errorf("Snapshot of empty ring = %v, want nil", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	r := New[int](4)
	r.Push(1)
	snap := r.Snapshot()
	snap[0] = 99

	again := r.Snapshot()
	if again[0] != 1 {
		t.Errorf("mutating a snapshot leaked into the ring: got %d, want 1", again[0])
	}
}

func TestLenAndCap(t *testing.T) {
	r := New[int](4)
	if r.Cap() != 4 {
		t.Errorf("Cap() = %d, want 4", r.Cap())
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	for i := 0; i < 10; i++ {
		r.Push(i)
	}
	if r.Len() != 4 {
		t.Errorf("Len() after overflow = %d, want 4", r.Len())
	}
}

func TestTinyCapacityClamped(t *testing.T) {
	r := New[int](0)
	if r.Cap() != 1 {
		t.Fatalf("Cap() = %d, want 1", r.Cap())
	}
	r.Push(1)
	if v, ok := r.Push(2); !ok || v != 1 {
		t.Errorf("Push(2) = (%d, %v), want (1, true)", v, ok)
	}
	snap := r.Snapshot()
	if len(snap) != 1 || snap[0] != 2 {
		t.Errorf("Snapshot = %v, want [2]", snap)
	}
}
