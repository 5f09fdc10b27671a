package dataset

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/placement"
)

// Element is the payload of one input element. Column and Row are its fixed
// column and original row.
type Element struct {
	Column int    `json:"column"`
	Row    int    `json:"row"`
	Label  string `json:"label,omitempty"`
	Color  string `json:"color,omitempty"` // hex, "#rrggbb"
}

// Dataset is a complete input for one placement run.
type Dataset struct {
	Name      string
	Width     int
	Depth     int
	Generator string
	Seed      uint64
	Elements  []Element
	Relations *mat.Dense
}

// Len returns the number of elements, width*depth.
func (d *Dataset) Len() int { return d.Width * d.Depth }

// Index returns the position of element (column, row) in Elements and in
// the relation matrix.
func (d *Dataset) Index(column, row int) int {
	return placement.Element{Column: column, Row: row}.Index(d.Width)
}

// Element returns the payload of element (column, row).
func (d *Dataset) Element(column, row int) Element {
	return d.Elements[d.Index(column, row)]
}

// Color returns the display colour of element (column, row). Elements
// without a valid colour are drawn grey.
func (d *Dataset) Color(column, row int) color.Color {
	c, err := colorful.Hex(d.Element(column, row).Color)
	if err != nil {
		return color.Gray{Y: 0x99}
	}
	return c
}

// Validate checks that elements and relations agree with width and depth.
func (d *Dataset) Validate() error {
	if err := errors.ValidateDimensions(d.Width, d.Depth); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDataset, ErrShape, "%s", errors.UserMessage(err))
	}
	n := d.Len()
	if len(d.Elements) != n {
		return errors.Wrap(errors.ErrCodeInvalidDataset, ErrShape,
			"%d elements for width %d and depth %d, want %d", len(d.Elements), d.Width, d.Depth, n)
	}
	for i, e := range d.Elements {
		if e.Column < 0 || e.Column >= d.Depth || e.Row < 0 || e.Row >= d.Width || d.Index(e.Column, e.Row) != i {
			return errors.Wrap(errors.ErrCodeInvalidDataset, ErrShape,
				"element %d claims column %d row %d", i, e.Column, e.Row)
		}
	}
	if d.Relations == nil {
		return errors.Wrap(errors.ErrCodeInvalidDataset, ErrShape, "relations are missing")
	}
	if r, c := d.Relations.Dims(); r != n || c != n {
		return errors.Wrap(errors.ErrCodeInvalidDataset, ErrShape,
			"relation matrix is %dx%d, want %dx%d", r, c, n, n)
	}
	return nil
}

// PlacementRelations wraps the relation matrix for the placement engine.
func (d *Dataset) PlacementRelations() (*placement.Relations, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return placement.NewRelations(d.Relations)
}

// Summary describes the distribution of relation values.
type Summary struct {
	Min, Max     float64
	Mean, StdDev float64
}

// Summarize computes a Summary of the relation matrix.
func (d *Dataset) Summarize() Summary {
	if d.Relations == nil {
		return Summary{}
	}
	r, c := d.Relations.Dims()
	values := make([]float64, 0, r*c)
	for i := range r {
		values = append(values, d.Relations.RawRowView(i)...)
	}
	mean, std := stat.MeanStdDev(values, nil)
	return Summary{
		Min:    mat.Min(d.Relations),
		Max:    mat.Max(d.Relations),
		Mean:   mean,
		StdDev: std,
	}
}
