package placement

import (
	"strconv"
	"strings"
)

// View is read access to a grid: the live Grid, a Snapshot, or a trial
// overlay used while searching.
type View interface {
	Height() int
	Depth() int
	// At returns the original row at (row, column), or Empty when the cell
	// is empty or out of range.
	At(row, column int) int
}

// Snapshot is an immutable copy of a grid, rows top to bottom. Each cell is
// an original row id or Empty.
type Snapshot [][]int

// Height returns the number of rows.
func (s Snapshot) Height() int { return len(s) }

// Depth returns the number of columns.
func (s Snapshot) Depth() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// At returns the original row at (row, column), or Empty.
func (s Snapshot) At(row, column int) int {
	if row < 0 || row >= len(s) || column < 0 || column >= len(s[row]) {
		return Empty
	}
	return s[row][column]
}

// Filled returns the number of non-empty cells.
func (s Snapshot) Filled() int {
	n := 0
	for _, row := range s {
		for _, id := range row {
			if id != Empty {
				n++
			}
		}
	}
	return n
}

// Column returns the ids of one column top to bottom, skipping empty cells.
func (s Snapshot) Column(column int) []int {
	var ids []int
	for r := range s {
		if id := s.At(r, column); id != Empty {
			ids = append(ids, id)
		}
	}
	return ids
}

// String renders the snapshot as a text table, "." for empty cells.
func (s Snapshot) String() string {
	var b strings.Builder
	for r, row := range s {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, id := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			if id == Empty {
				b.WriteString(".")
			} else {
				b.WriteString(strconv.Itoa(id))
			}
		}
	}
	return b.String()
}

// trialView overlays one hypothetical insertion on a base view without
// copying it.
type trialView struct {
	base   View
	column int
	point  Point
	id     int
}

func (t trialView) Height() int {
	if t.point.Kind == InPlace {
		return t.base.Height()
	}
	return t.base.Height() + 1
}

func (t trialView) Depth() int { return t.base.Depth() }

func (t trialView) At(row, column int) int {
	if row == t.point.Row && column == t.column {
		return t.id
	}
	if row < 0 || row >= t.Height() {
		return Empty
	}
	if t.point.Kind == Prepend {
		return t.base.At(row-1, column)
	}
	return t.base.At(row, column)
}
