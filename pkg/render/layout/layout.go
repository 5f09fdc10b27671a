// Package layout turns a placement grid into positioned, coloured cells.
//
// Coordinates are in pixels with the origin at the top left: row 0 of the
// grid is drawn first, columns run left to right. Every sink in
// [github.com/matzehuels/tessera/pkg/render/sink] draws from a [Layout], so
// all formats agree on geometry.
package layout

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/placement"
)

// Defaults for Options.
const (
	DefaultCellSize = 16
	DefaultGap      = 1
	DefaultMargin   = 8
)

// Options controls cell geometry.
type Options struct {
	CellSize float64
	Gap      float64
	Margin   float64
}

func (o *Options) setDefaults() {
	if o.CellSize <= 0 {
		o.CellSize = DefaultCellSize
	}
	if o.Gap < 0 {
		o.Gap = 0
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
}

// Cell is one occupied grid cell.
type Cell struct {
	Row, Column int
	Element     int // original row
	Label       string
	Color       colorful.Color
	Left, Right float64
	Top, Bottom float64
}

// Width returns the horizontal span of the cell.
func (c Cell) Width() float64 { return c.Right - c.Left }

// Height returns the vertical span of the cell.
func (c Cell) Height() float64 { return c.Bottom - c.Top }

// CenterX returns the horizontal center point of the cell.
func (c Cell) CenterX() float64 { return (c.Left + c.Right) / 2 }

// CenterY returns the vertical center point of the cell.
func (c Cell) CenterY() float64 { return (c.Top + c.Bottom) / 2 }

// Hex returns the cell colour as "#rrggbb".
func (c Cell) Hex() string { return c.Color.Clamped().Hex() }

// Layout is a grid ready to draw.
type Layout struct {
	Rows, Columns int
	FrameWidth    float64
	FrameHeight   float64
	Options       Options
	Cells         []Cell // row-major, empty cells omitted
}

// Build positions every occupied cell of grid. The grid must come from a
// run over d: each column's ids are original rows of that column.
func Build(d *dataset.Dataset, grid placement.Snapshot, opts Options) (Layout, error) {
	opts.setDefaults()
	if grid.Depth() != d.Depth {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput,
			"grid has %d columns, dataset has %d", grid.Depth(), d.Depth)
	}

	step := opts.CellSize + opts.Gap
	l := Layout{
		Rows:        grid.Height(),
		Columns:     grid.Depth(),
		FrameWidth:  2*opts.Margin + float64(grid.Depth())*step - opts.Gap,
		FrameHeight: 2*opts.Margin + float64(grid.Height())*step - opts.Gap,
		Options:     opts,
		Cells:       make([]Cell, 0, grid.Filled()),
	}
	if grid.Height() == 0 {
		l.FrameHeight = 2 * opts.Margin
	}

	for r := range grid.Height() {
		for c := range grid.Depth() {
			id := grid.At(r, c)
			if id == placement.Empty {
				continue
			}
			if id < 0 || id >= d.Width {
				return Layout{}, errors.New(errors.ErrCodeInvalidInput,
					"cell (%d, %d) holds row %d, dataset width is %d", r, c, id, d.Width)
			}
			left := opts.Margin + float64(c)*step
			top := opts.Margin + float64(r)*step
			l.Cells = append(l.Cells, Cell{
				Row:     r,
				Column:  c,
				Element: id,
				Label:   d.Element(c, id).Label,
				Color:   toColorful(d.Color(c, id)),
				Left:    left,
				Right:   left + opts.CellSize,
				Top:     top,
				Bottom:  top + opts.CellSize,
			})
		}
	}
	return l, nil
}

func toColorful(c color.Color) colorful.Color {
	if cf, ok := c.(colorful.Color); ok {
		return cf
	}
	cf, _ := colorful.MakeColor(c)
	return cf
}
