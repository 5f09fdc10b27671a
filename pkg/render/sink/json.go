package sink

import (
	"encoding/json"

	"github.com/matzehuels/tessera/pkg/placement"
	"github.com/matzehuels/tessera/pkg/render/layout"
)

// JSONOption configures RenderJSON.
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	seed  uint64
	score *float64
	trace []placement.Candidate
}

// WithJSONSeed records the engine seed for reproduction.
func WithJSONSeed(seed uint64) JSONOption { return func(r *jsonRenderer) { r.seed = seed } }

// WithJSONScore records the total score of the final grid.
func WithJSONScore(total float64) JSONOption {
	return func(r *jsonRenderer) { r.score = &total }
}

// WithJSONTrace includes every committed step.
func WithJSONTrace(trace []placement.Candidate) JSONOption {
	return func(r *jsonRenderer) { r.trace = trace }
}

type jsonOutput struct {
	Seed    uint64     `json:"seed,omitempty"`
	Score   *float64   `json:"score,omitempty"`
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	Width   float64    `json:"frame_width"`
	Height  float64    `json:"frame_height"`
	Grid    [][]int    `json:"grid"`
	Cells   []jsonCell `json:"cells"`
	Trace   []jsonStep `json:"trace,omitempty"`
}

type jsonCell struct {
	Row     int     `json:"row"`
	Column  int     `json:"column"`
	Element int     `json:"element"`
	Label   string  `json:"label,omitempty"`
	Color   string  `json:"color"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type jsonStep struct {
	Index   int     `json:"index"`
	Column  int     `json:"column"`
	Point   string  `json:"point"`
	Row     int     `json:"row"`
	Element int     `json:"element"`
	Score   float64 `json:"score"`
	Trials  int     `json:"trials"`
}

// RenderJSON exports the layout as pretty-printed JSON. The grid holds
// original rows with -1 for empty cells.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Seed:    r.seed,
		Score:   r.score,
		Rows:    l.Rows,
		Columns: l.Columns,
		Width:   l.FrameWidth,
		Height:  l.FrameHeight,
		Grid:    gridOf(l),
		Cells:   make([]jsonCell, len(l.Cells)),
	}
	for i, c := range l.Cells {
		out.Cells[i] = jsonCell{
			Row:     c.Row,
			Column:  c.Column,
			Element: c.Element,
			Label:   c.Label,
			Color:   c.Hex(),
			X:       c.Left,
			Y:       c.Top,
		}
	}
	for i, c := range r.trace {
		out.Trace = append(out.Trace, jsonStep{
			Index:   i + 1,
			Column:  c.Column,
			Point:   c.Point.Kind.String(),
			Row:     c.Point.Row,
			Element: c.Element,
			Score:   c.Score,
			Trials:  c.Trials,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

// gridOf rebuilds the snapshot a layout was built from.
func gridOf(l layout.Layout) placement.Snapshot {
	grid := make(placement.Snapshot, l.Rows)
	for r := range grid {
		grid[r] = make([]int, l.Columns)
		for c := range grid[r] {
			grid[r][c] = placement.Empty
		}
	}
	for _, c := range l.Cells {
		grid[c.Row][c.Column] = c.Element
	}
	return grid
}
