package sink

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matzehuels/tessera/pkg/placement"
)

// ChartOption configures RenderChart.
type ChartOption func(*chartRenderer)

type chartRenderer struct {
	title      string
	assetsHost string
	columns    int
}

// WithChartTitle sets the page and chart title.
func WithChartTitle(s string) ChartOption { return func(r *chartRenderer) { r.title = s } }

// WithAssetsHost serves the echarts scripts from host instead of the CDN.
func WithAssetsHost(host string) ChartOption { return func(r *chartRenderer) { r.assetsHost = host } }

// WithColumns sets the number of bars in the per-column chart. Without it
// the count is inferred from the trace.
func WithColumns(n int) ChartOption { return func(r *chartRenderer) { r.columns = n } }

// RenderChart builds an HTML page with two charts: the winning score of each
// step, and how many insertions each column received.
func RenderChart(trace []placement.Candidate, options ...ChartOption) ([]byte, error) {
	r := chartRenderer{title: "Placement trace"}
	for _, opt := range options {
		opt(&r)
	}
	initOpts := chartInit(r, "100%", "480px")

	steps := make([]int, len(trace))
	scores := make([]opts.LineData, len(trace))
	trials := make([]opts.LineData, len(trace))
	columns := r.columns
	for i, c := range trace {
		steps[i] = i + 1
		scores[i] = opts.LineData{Value: c.Score}
		trials[i] = opts.LineData{Value: c.Trials}
		columns = max(columns, c.Column+1)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: r.title, Subtitle: fmt.Sprintf("%d steps", len(trace))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(steps).
		AddSeries("score", scores).
		AddSeries("trials", trials)

	x := make([]string, columns)
	counts := make([]int, columns)
	for _, c := range trace {
		counts[c.Column]++
	}
	bars := make([]opts.BarData, columns)
	for i := range columns {
		x[i] = fmt.Sprint(i)
		bars[i] = opts.BarData{Value: counts[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: "Insertions per column"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("insertions", bars,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.PageTitle = r.title
	if r.assetsHost != "" {
		page.SetAssetsHost(r.assetsHost)
	}
	page.AddCharts(line, bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func chartInit(r chartRenderer, width, height string) opts.Initialization {
	o := opts.Initialization{PageTitle: r.title, Width: width, Height: height}
	if r.assetsHost != "" {
		o.AssetsHost = r.assetsHost
	}
	return o
}
