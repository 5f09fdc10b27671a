package placement

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tessera/pkg/errors"
)

const e = Empty

func seededGrid(t *testing.T, width, depth, seed int) *Grid {
	t.Helper()
	g, err := NewGrid(width, depth)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d): %v", width, depth, err)
	}
	if err := g.Seed(seed); err != nil {
		t.Fatalf("Seed(%d): %v", seed, err)
	}
	return g
}

func TestNewGridRejectsBadDimensions(t *testing.T) {
	for _, tc := range []struct{ width, depth int }{{0, 1}, {1, 0}, {-2, 3}} {
		_, err := NewGrid(tc.width, tc.depth)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("NewGrid(%d, %d) error = %v, want %s", tc.width, tc.depth, err, errors.ErrCodeInvalidConfig)
		}
	}
}

func TestGridSeed(t *testing.T) {
	g := seededGrid(t, 3, 2, 1)

	if diff := cmp.Diff(Snapshot{{1, e}}, g.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 3}, g.PendingCounts()); diff != "" {
		t.Errorf("pending counts (-want +got):\n%s", diff)
	}
	if g.Committed() != 1 {
		t.Errorf("Committed() = %d, want 1", g.Committed())
	}
	if err := g.Seed(0); !errors.Is(err, errors.ErrCodeInvariant) {
		t.Errorf("second Seed error = %v, want invariant violation", err)
	}
}

func TestGridSeedOutOfRange(t *testing.T) {
	g, err := NewGrid(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Seed(2); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Seed(2) error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestGridPointsAfterSeed(t *testing.T) {
	g := seededGrid(t, 3, 3, 0)

	want := map[int][]Point{
		0: {{Kind: Append, Row: 1}, {Kind: Prepend, Row: 0}},
		1: {{Kind: InPlace, Row: 0}},
		2: nil,
	}
	for column, pts := range want {
		if diff := cmp.Diff(pts, g.Points(column)); diff != "" {
			t.Errorf("Points(%d) mismatch (-want +got):\n%s", column, diff)
		}
	}
}

func TestGridCommitPrependShiftsRows(t *testing.T) {
	g := seededGrid(t, 3, 2, 0)
	if err := g.Commit(0, Point{Kind: Prepend, Row: 0}, 2); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	want := Snapshot{
		{2, e},
		{0, e},
	}
	if diff := cmp.Diff(want, g.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, g.PendingIDs(0)); diff != "" {
		t.Errorf("pending ids (-want +got):\n%s", diff)
	}

	// the new column 1 cells next to both rows are reachable
	wantPts := []Point{{Kind: InPlace, Row: 0}, {Kind: InPlace, Row: 1}}
	if diff := cmp.Diff(wantPts, g.Points(1)); diff != "" {
		t.Errorf("Points(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestGridCommitAppendAndInPlace(t *testing.T) {
	g := seededGrid(t, 3, 2, 0)
	steps := []struct {
		column int
		point  Point
		id     int
	}{
		{0, Point{Kind: Append, Row: 1}, 1},
		{1, Point{Kind: InPlace, Row: 1}, 2},
		{1, Point{Kind: InPlace, Row: 0}, 0},
		{1, Point{Kind: Prepend, Row: 0}, 1},
		{0, Point{Kind: InPlace, Row: 0}, 2},
	}
	for i, s := range steps {
		if err := g.Commit(s.column, s.point, s.id); err != nil {
			t.Fatalf("step %d: Commit: %v", i, err)
		}
	}
	want := Snapshot{
		{2, 1},
		{0, 0},
		{1, 2},
	}
	if diff := cmp.Diff(want, g.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if !g.Done() {
		t.Error("Done() = false after placing every element")
	}
}

func TestGridCommitRejectsIllegal(t *testing.T) {
	tests := []struct {
		name   string
		column int
		point  Point
		id     int
	}{
		{"occupied cell", 0, Point{Kind: InPlace, Row: 0}, 1},
		{"not adjacent", 2, Point{Kind: InPlace, Row: 0}, 0},
		{"not pending", 0, Point{Kind: Append, Row: 1}, 0},
		{"unknown column", 5, Point{Kind: InPlace, Row: 0}, 0},
		{"bad append row", 0, Point{Kind: Append, Row: 3}, 1},
		{"prepend on empty column", 1, Point{Kind: Prepend, Row: 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := seededGrid(t, 3, 3, 0)
			before := g.Snapshot()

			err := g.Commit(tt.column, tt.point, tt.id)
			if !errors.Is(err, errors.ErrCodeInvariant) {
				t.Fatalf("Commit error = %v, want invariant violation", err)
			}
			var v *InvariantViolation
			if !errors.As(err, &v) {
				t.Fatalf("error does not carry *InvariantViolation: %v", err)
			}
			if diff := cmp.Diff(before, v.Grid); diff != "" {
				t.Errorf("violation grid mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(before, g.Snapshot()); diff != "" {
				t.Errorf("grid changed by a rejected commit (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGridHeightCap(t *testing.T) {
	g := seededGrid(t, 2, 1, 0)
	if err := g.Commit(0, Point{Kind: Prepend, Row: 0}, 1); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if g.Height() != 2 {
		t.Fatalf("Height() = %d, want 2", g.Height())
	}
	if pts := g.Points(0); len(pts) != 0 {
		t.Errorf("Points(0) at the height cap = %v, want none", pts)
	}
}

func TestActiveColumns(t *testing.T) {
	g := seededGrid(t, 3, 4, 0)
	if diff := cmp.Diff([]int{2, 3, 0, 0}, g.ActiveColumns()); diff != "" {
		t.Errorf("after seed (-want +got):\n%s", diff)
	}

	if err := g.Commit(1, Point{Kind: InPlace, Row: 0}, 0); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{2, 2, 3, 0}, g.ActiveColumns()); diff != "" {
		t.Errorf("after touching column 1 (-want +got):\n%s", diff)
	}
}

func TestActiveColumnsSkipsExhausted(t *testing.T) {
	g := seededGrid(t, 1, 3, 0)
	if diff := cmp.Diff([]int{0, 1, 0}, g.ActiveColumns()); diff != "" {
		t.Errorf("weights mismatch (-want +got):\n%s", diff)
	}
}
