package layout

import (
	"testing"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/placement"
)

const e = placement.Empty

func testDataset(t *testing.T, width, depth int) *dataset.Dataset {
	t.Helper()
	d, err := dataset.Generate(dataset.GenerateOptions{Width: width, Depth: depth, Seed: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return d
}

func TestCellGeometry(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		w, h float64
		cx   float64
		cy   float64
	}{
		{"unit", Cell{Left: 0, Right: 1, Top: 0, Bottom: 1}, 1, 1, 0.5, 0.5},
		{"offset", Cell{Left: 10, Right: 26, Top: 30, Bottom: 46}, 16, 16, 18, 38},
		{"degenerate", Cell{Left: 5, Right: 5, Top: 5, Bottom: 5}, 0, 0, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.Width(); got != tt.w {
				t.Errorf("Width() = %v, want %v", got, tt.w)
			}
			if got := tt.cell.Height(); got != tt.h {
				t.Errorf("Height() = %v, want %v", got, tt.h)
			}
			if got := tt.cell.CenterX(); got != tt.cx {
				t.Errorf("CenterX() = %v, want %v", got, tt.cx)
			}
			if got := tt.cell.CenterY(); got != tt.cy {
				t.Errorf("CenterY() = %v, want %v", got, tt.cy)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	d := testDataset(t, 2, 2)
	grid := placement.Snapshot{
		{1, e},
		{0, 1},
		{e, 0},
	}
	l, err := Build(d, grid, Options{CellSize: 10, Gap: 2, Margin: 4})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l.Rows != 3 || l.Columns != 2 {
		t.Errorf("Rows, Columns = %d, %d; want 3, 2", l.Rows, l.Columns)
	}
	// 2*4 + 2*12 - 2
	if l.FrameWidth != 30 {
		t.Errorf("FrameWidth = %v, want 30", l.FrameWidth)
	}
	// 2*4 + 3*12 - 2
	if l.FrameHeight != 42 {
		t.Errorf("FrameHeight = %v, want 42", l.FrameHeight)
	}
	if len(l.Cells) != 4 {
		t.Fatalf("len(Cells) = %d, want 4", len(l.Cells))
	}

	last := l.Cells[3]
	if last.Row != 2 || last.Column != 1 || last.Element != 0 {
		t.Errorf("last cell = %+v", last)
	}
	if last.Left != 16 || last.Top != 28 || last.Width() != 10 {
		t.Errorf("last cell geometry = left %v top %v width %v", last.Left, last.Top, last.Width())
	}
	if want := d.Element(1, 0).Color; last.Hex() != want {
		t.Errorf("last cell colour = %s, want %s", last.Hex(), want)
	}
}

func TestBuildDefaults(t *testing.T) {
	d := testDataset(t, 1, 1)
	l, err := Build(d, placement.Snapshot{{0}}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l.Options.CellSize != DefaultCellSize {
		t.Errorf("CellSize = %v, want %v", l.Options.CellSize, DefaultCellSize)
	}
	if want := float64(2*DefaultMargin + DefaultCellSize); l.FrameWidth != want {
		t.Errorf("FrameWidth = %v, want %v", l.FrameWidth, want)
	}
}

func TestBuildRejectsMismatch(t *testing.T) {
	d := testDataset(t, 2, 2)
	tests := []struct {
		name string
		grid placement.Snapshot
	}{
		{"too few columns", placement.Snapshot{{0}}},
		{"row out of range", placement.Snapshot{{0, 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(d, tt.grid, Options{})
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Build error = %v, want INVALID_INPUT", err)
			}
		})
	}
}
