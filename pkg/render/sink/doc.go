// Package sink renders a computed [layout.Layout], and the trace of the run
// that produced it, into output formats.
//
// # Grid Formats
//
//   - SVG: [RenderSVG], one rect per cell, optional labels
//   - PNG: [RenderPNG], rasterised with gg at a configurable scale
//   - JSON: [RenderJSON], the grid, cell geometry and optionally the trace
//   - Text: [RenderText], element ids as a plain table
//
// # Trace Formats
//
// A trace is the sequence of committed [placement.Candidate] values, one per
// step, in commit order.
//
//   - HTML: [RenderChart], an interactive go-echarts page with the score per
//     step and the insertions per column
//   - Plot: [RenderPlot], a static gonum/plot PNG of the score per step
//
// # Adding New Formats
//
//  1. Create a renderer function: func RenderFoo(l layout.Layout, opts ...FooOption) ([]byte, error)
//  2. Define option types for configuration
//  3. Register the format name in pkg/pipeline
//
// [layout.Layout]: github.com/matzehuels/tessera/pkg/render/layout.Layout
// [placement.Candidate]: github.com/matzehuels/tessera/pkg/placement.Candidate
package sink
