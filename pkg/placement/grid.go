package placement

import (
	"github.com/matzehuels/tessera/pkg/errors"
)

// Empty marks a grid cell that holds no element.
const Empty = -1

// PointKind distinguishes the three ways an element can enter a column.
type PointKind int

const (
	// InPlace fills an empty cell inside the current grid.
	InPlace PointKind = iota
	// Prepend adds a new top row; existing rows shift down by one.
	Prepend
	// Append adds a new bottom row.
	Append
)

func (k PointKind) String() string {
	switch k {
	case Prepend:
		return "prepend"
	case Append:
		return "append"
	default:
		return "in-place"
	}
}

// Point is a legal insertion point for one column. Row is the row the new
// element occupies after the insertion: the target row for InPlace, 0 for
// Prepend and the old height for Append.
type Point struct {
	Kind PointKind
	Row  int
}

// Grid is the evolving placement plus the pending elements of every column.
//
// Rows live in a buffer of 2*width-1 rows so prepending only moves the top
// marker. The zero value is not usable; use NewGrid.
type Grid struct {
	width, depth int
	cells        []int // (top+row)*depth + column
	top, height  int
	pending      []*pendingSet
}

// NewGrid returns a grid with a single empty row and every element pending.
// Use Seed to place the first element.
func NewGrid(width, depth int) (*Grid, error) {
	if err := errors.ValidateDimensions(width, depth); err != nil {
		return nil, err
	}
	rows := 2*width - 1
	g := &Grid{
		width:   width,
		depth:   depth,
		cells:   make([]int, rows*depth),
		top:     width - 1,
		height:  1,
		pending: make([]*pendingSet, depth),
	}
	for i := range g.cells {
		g.cells[i] = Empty
	}
	for c := range depth {
		g.pending[c] = newPendingSet(width)
	}
	return g, nil
}

// Seed places original row id of column 0 at row 0. It is only legal on a
// grid that has nothing committed.
func (g *Grid) Seed(id int) error {
	if g.Committed() != 0 {
		return g.violation("seed on a non-empty grid", 0)
	}
	if !g.pending[0].Remove(id) {
		return errors.New(errors.ErrCodeInvalidConfig, "seed row %d out of range [0,%d)", id, g.width)
	}
	g.set(0, 0, id)
	return nil
}

// Width returns the number of elements per column, which is also the height cap.
func (g *Grid) Width() int { return g.width }

// Depth returns the number of columns.
func (g *Grid) Depth() int { return g.depth }

// Height returns the current number of rows.
func (g *Grid) Height() int { return g.height }

// At returns the original row stored at (row, column), or Empty.
func (g *Grid) At(row, column int) int {
	if row < 0 || row >= g.height || column < 0 || column >= g.depth {
		return Empty
	}
	return g.cells[(g.top+row)*g.depth+column]
}

func (g *Grid) set(row, column, id int) {
	g.cells[(g.top+row)*g.depth+column] = id
}

func (g *Grid) occupied(row, column int) bool {
	return g.At(row, column) != Empty
}

// Pending returns the number of unplaced elements of a column.
func (g *Grid) Pending(column int) int { return g.pending[column].Len() }

// PendingIDs returns a copy of a column's pending ids in search order.
func (g *Grid) PendingIDs(column int) []int {
	return append([]int(nil), g.pending[column].IDs()...)
}

// PendingCounts returns the pending count of every column.
func (g *Grid) PendingCounts() []int {
	out := make([]int, g.depth)
	for c := range g.depth {
		out[c] = g.pending[c].Len()
	}
	return out
}

// Committed returns the number of placed elements.
func (g *Grid) Committed() int {
	n := 0
	for c := range g.depth {
		n += g.width - g.pending[c].Len()
	}
	return n
}

// Done reports whether every element has been placed.
func (g *Grid) Done() bool {
	for c := range g.depth {
		if g.pending[c].Len() > 0 {
			return false
		}
	}
	return true
}

// ActiveColumns returns a selection weight per column.
//
// Columns are scanned left to right and their pending counts accumulated;
// accumulation stops after the first column with nothing committed. This is
// a frontier approximation of reachability, not an exact one. Columns past
// the frontier and columns with nothing pending weigh zero.
func (g *Grid) ActiveColumns() []int {
	weights := make([]int, g.depth)
	for c := range g.depth {
		n := g.pending[c].Len()
		weights[c] = n
		if n == g.width {
			break
		}
	}
	return weights
}

// Points returns the legal insertion points for a column: in-place rows top
// to bottom, then Append, then Prepend. Append and Prepend are only offered
// while the grid is shorter than width and the column's last (first) row is
// occupied.
func (g *Grid) Points(column int) []Point {
	var pts []Point
	for r := range g.height {
		if g.occupied(r, column) {
			continue
		}
		if g.occupied(r-1, column) || g.occupied(r+1, column) ||
			g.occupied(r, column-1) || g.occupied(r, column+1) {
			pts = append(pts, Point{Kind: InPlace, Row: r})
		}
	}
	if g.height < g.width {
		if g.occupied(g.height-1, column) {
			pts = append(pts, Point{Kind: Append, Row: g.height})
		}
		if g.occupied(0, column) {
			pts = append(pts, Point{Kind: Prepend, Row: 0})
		}
	}
	return pts
}

// Commit places pending id of column at p and removes it from the pending
// set. Nothing changes if the point or id is not legal.
func (g *Grid) Commit(column int, p Point, id int) error {
	if column < 0 || column >= g.depth {
		return g.violation("commit to unknown column", column)
	}
	if !g.pending[column].Contains(id) {
		return g.violation("commit of an element that is not pending", column)
	}
	legal := false
	for _, q := range g.Points(column) {
		if q == p {
			legal = true
			break
		}
	}
	if !legal {
		return g.violation("commit to an illegal insertion point", column)
	}

	switch p.Kind {
	case Prepend:
		g.top--
		g.height++
	case Append:
		g.height++
	}
	g.set(p.Row, column, id)
	g.pending[column].Remove(id)
	return nil
}

// Snapshot returns a copy of the current grid.
func (g *Grid) Snapshot() Snapshot {
	s := make(Snapshot, g.height)
	for r := range g.height {
		row := make([]int, g.depth)
		copy(row, g.cells[(g.top+r)*g.depth:(g.top+r+1)*g.depth])
		s[r] = row
	}
	return s
}

func (g *Grid) violation(reason string, column int) error {
	return newViolation(reason, column, g)
}
