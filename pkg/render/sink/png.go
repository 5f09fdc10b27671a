package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tessera/pkg/render/layout"
)

// MaxPNGPixels bounds the raster size of RenderPNG.
const MaxPNGPixels = 64 << 20

// PNGOption configures RenderPNG.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
}

// WithScale multiplies the output resolution. The default is 1.
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithPNGBackground fills the frame with a hex colour before drawing cells.
func WithPNGBackground(hex string) PNGOption { return func(r *pngRenderer) { r.background = hex } }

// RenderPNG rasterises the layout.
func RenderPNG(l layout.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("png scale must be positive, got %v", r.scale)
	}

	w := int(math.Ceil(l.FrameWidth * r.scale))
	h := int(math.Ceil(l.FrameHeight * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty frame %dx%d", w, h)
	}
	if w*h > MaxPNGPixels {
		return nil, fmt.Errorf("frame %dx%d exceeds %d pixels", w, h, MaxPNGPixels)
	}

	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)
	if bg, err := colorful.Hex(r.background); err == nil {
		dc.SetRGB(bg.R, bg.G, bg.B)
		dc.Clear()
	}
	for _, c := range l.Cells {
		cc := c.Color.Clamped()
		dc.SetRGB(cc.R, cc.G, cc.B)
		dc.DrawRectangle(c.Left, c.Top, c.Width(), c.Height())
		dc.Fill()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
