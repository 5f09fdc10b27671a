package placement

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPendingSetOrder(t *testing.T) {
	p := newPendingSet(5)
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, p.IDs()); diff != "" {
		t.Fatalf("initial order mismatch (-want +got):\n%s", diff)
	}

	if !p.Remove(1) {
		t.Fatal("Remove(1) = false, want true")
	}
	if diff := cmp.Diff([]int{0, 4, 2, 3}, p.IDs()); diff != "" {
		t.Errorf("after Remove(1) (-want +got):\n%s", diff)
	}

	if !p.Remove(0) {
		t.Fatal("Remove(0) = false, want true")
	}
	if diff := cmp.Diff([]int{3, 4, 2}, p.IDs()); diff != "" {
		t.Errorf("after Remove(0) (-want +got):\n%s", diff)
	}

	// removing the last element keeps the rest in place
	if !p.Remove(2) {
		t.Fatal("Remove(2) = false, want true")
	}
	if diff := cmp.Diff([]int{3, 4}, p.IDs()); diff != "" {
		t.Errorf("after Remove(2) (-want +got):\n%s", diff)
	}
}

func TestPendingSetRemoveTwice(t *testing.T) {
	p := newPendingSet(3)
	p.Remove(2)
	if p.Remove(2) {
		t.Error("second Remove(2) = true, want false")
	}
	if p.Contains(2) {
		t.Error("Contains(2) after removal = true")
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}

func TestPendingSetOutOfRange(t *testing.T) {
	p := newPendingSet(3)
	for _, id := range []int{-1, 3, 100} {
		if p.Contains(id) {
			t.Errorf("Contains(%d) = true", id)
		}
		if p.Remove(id) {
			t.Errorf("Remove(%d) = true", id)
		}
	}
}
