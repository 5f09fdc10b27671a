package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/tessera/pkg/render/layout"
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels     bool
	background string
	title      string
}

// WithLabels draws each cell's label, or its original row when unlabelled.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithBackground fills the frame with a CSS colour.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithTitle sets the SVG <title>.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// RenderSVG draws every cell as a filled rect. Cells are emitted row-major.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.FrameWidth, l.FrameHeight, l.FrameWidth, l.FrameHeight)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(r.background))
	}

	buf.WriteString(`  <g class="cells">` + "\n")
	for _, c := range l.Cells {
		fmt.Fprintf(&buf, `    <rect id="cell-%d-%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>element %d</title></rect>`+"\n",
			c.Row, c.Column, c.Left, c.Top, c.Width(), c.Height(), c.Hex(), c.Element)
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		size := l.Options.CellSize * 0.5
		fmt.Fprintf(&buf, `  <g class="labels" font-family="monospace" font-size="%.1f" text-anchor="middle" dominant-baseline="central">`+"\n", size)
		for _, c := range l.Cells {
			fmt.Fprintf(&buf, `    <text x="%.1f" y="%.1f" fill="%s">%s</text>`+"\n",
				c.CenterX(), c.CenterY(), labelColor(c), html.EscapeString(cellLabel(c)))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func cellLabel(c layout.Cell) string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprint(c.Element)
}

// labelColor picks black or white for contrast with the cell.
func labelColor(c layout.Cell) string {
	l, _, _ := c.Color.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#ffffff"
}
