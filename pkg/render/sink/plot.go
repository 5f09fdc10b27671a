package sink

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/tessera/pkg/placement"
)

// PlotOption configures RenderPlot.
type PlotOption func(*plotRenderer)

type plotRenderer struct {
	title         string
	width, height vg.Length
}

// WithPlotTitle sets the plot title.
func WithPlotTitle(s string) PlotOption { return func(r *plotRenderer) { r.title = s } }

// WithPlotSize sets the image size in inches.
func WithPlotSize(w, h float64) PlotOption {
	return func(r *plotRenderer) { r.width, r.height = vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch }
}

// RenderPlot draws the winning score of each step, with its running mean, as
// a PNG line plot.
func RenderPlot(trace []placement.Candidate, opts ...PlotOption) ([]byte, error) {
	r := plotRenderer{title: "Score per step", width: 10 * vg.Inch, height: 4 * vg.Inch}
	for _, opt := range opts {
		opt(&r)
	}

	p := plot.New()
	p.Title.Text = r.title
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Score"

	if len(trace) > 0 {
		pts := make(plotter.XYs, len(trace))
		avg := make(plotter.XYs, len(trace))
		sum := 0.0
		for i, c := range trace {
			sum += c.Score
			pts[i] = plotter.XY{X: float64(i + 1), Y: c.Score}
			avg[i] = plotter.XY{X: float64(i + 1), Y: sum / float64(i+1)}
		}

		scoreLine, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("score line: %w", err)
		}
		scoreLine.Width = vg.Points(1)

		meanLine, err := plotter.NewLine(avg)
		if err != nil {
			return nil, fmt.Errorf("mean line: %w", err)
		}
		meanLine.Width = vg.Points(1)
		meanLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

		p.Add(scoreLine, meanLine, plotter.NewGrid())
		p.Legend.Add("score", scoreLine)
		p.Legend.Add("running mean", meanLine)
		p.Legend.Top = true
	}

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("plot writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode plot: %w", err)
	}
	return buf.Bytes(), nil
}
