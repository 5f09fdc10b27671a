package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/observability"
	"github.com/matzehuels/tessera/pkg/placement"
	"github.com/matzehuels/tessera/pkg/render/layout"
	"github.com/matzehuels/tessera/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, d *dataset.Dataset, p *Placement, opts Options) (map[string][]byte, error) {
	return renderFormats(ctx, d, p, opts, opts.Formats)
}

func renderFormats(ctx context.Context, d *dataset.Dataset, p *Placement, opts Options, formats []string) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	artifacts, err := renderAll(d, p, opts, formats)
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	return artifacts, err
}

func renderAll(d *dataset.Dataset, p *Placement, opts Options, formats []string) (map[string][]byte, error) {
	l, err := layout.Build(d, p.Grid, opts.LayoutOptions())
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	title := fmt.Sprintf("%s %dx%d seed %d", d.Generator, d.Width, d.Depth, p.Seed)
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			svgOpts := []sink.SVGOption{sink.WithTitle(title)}
			if opts.Background != "" {
				svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
			}
			if opts.Labels {
				svgOpts = append(svgOpts, sink.WithLabels())
			}
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, opts.pngOptions()...)
		case FormatJSON:
			data, err = sink.RenderJSON(l,
				sink.WithJSONSeed(p.Seed),
				sink.WithJSONScore(p.Score),
				sink.WithJSONTrace(p.Trace),
			)
		case FormatText:
			data = sink.RenderText(l)
		case FormatChart:
			data, err = sink.RenderChart(p.Trace, sink.WithChartTitle(title), sink.WithColumns(d.Depth))
		case FormatPlot:
			data, err = sink.RenderPlot(p.Trace, sink.WithPlotTitle(title))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFrame rasterises an intermediate grid as PNG. It is used for
// per-step frame output and does not touch the cache or hooks.
func RenderFrame(d *dataset.Dataset, grid placement.Snapshot, opts Options) ([]byte, error) {
	l, err := layout.Build(d, grid, opts.LayoutOptions())
	if err != nil {
		return nil, err
	}
	return sink.RenderPNG(l, opts.pngOptions()...)
}

func (o *Options) pngOptions() []sink.PNGOption {
	pngOpts := []sink.PNGOption{sink.WithScale(o.Scale)}
	if o.Background != "" {
		pngOpts = append(pngOpts, sink.WithPNGBackground(o.Background))
	}
	return pngOpts
}
