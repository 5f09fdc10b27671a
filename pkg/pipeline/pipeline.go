// Package pipeline provides the generate → build → render pipeline for
// tessera.
//
// The CLI and the HTTP server both run placements through a [Runner], so
// defaults, caching and observability hooks behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: produce a dataset with a named generator, or take one given
//     in Options.Dataset
//  2. Build: run the placement engine to completion, recording the trace
//  3. Render: turn the final grid and trace into output formats
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage's output is cached under a key derived from its inputs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Generator: "palette",
//	    Width:     16,
//	    Depth:     24,
//	    Formats:   []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tessera/pkg/cache"
	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/placement"
	"github.com/matzehuels/tessera/pkg/render/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the number of elements per column.
	DefaultWidth = 16

	// DefaultDepth is the number of columns.
	DefaultDepth = 16

	// DefaultSeed seeds both the generator and the engine.
	DefaultSeed = placement.DefaultSeed

	// DefaultCellSize is the rendered cell edge in pixels.
	DefaultCellSize = layout.DefaultCellSize

	// DefaultGap is the spacing between rendered cells in pixels.
	DefaultGap = layout.DefaultGap

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 1.0

	// DefaultBackground fills SVG and PNG frames.
	DefaultBackground = "#ffffff"
)

// DefaultGenerator is the default dataset generator.
const DefaultGenerator = dataset.DefaultGenerator

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatJSON  = "json"
	FormatText  = "txt"
	FormatChart = "html"
	FormatPlot  = "plot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatJSON:  true,
	FormatText:  true,
	FormatChart: true,
	FormatPlot:  true,
}

// formatExt maps formats to file extensions where they differ from the name.
var formatExt = map[string]string{
	FormatPlot: "plot.png",
}

// FormatExt returns the file extension, without the dot, for a format.
func FormatExt(format string) string {
	if ext, ok := formatExt[format]; ok {
		return ext
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Generator string `json:"generator,omitempty"`
	Width     int    `json:"width,omitempty"`
	Depth     int    `json:"depth,omitempty"`
	DataSeed  uint64 `json:"data_seed,omitempty"` // defaults to Seed
	Refresh   bool   `json:"refresh,omitempty"`

	// Build options
	Seed        uint64 `json:"seed,omitempty"`
	SeedElement *int   `json:"seed_element,omitempty"` // nil draws it from Seed

	// Render options
	Formats    []string `json:"formats,omitempty"`
	CellSize   float64  `json:"cell_size,omitempty"`
	Gap        *float64 `json:"gap,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Labels     bool     `json:"labels,omitempty"`
	Background string   `json:"background,omitempty"` // hex, "#rrggbb"

	// Runtime options (not serialized)
	Logger   *log.Logger        `json:"-"`
	Dataset  *dataset.Dataset   `json:"-"` // use instead of generating
	Observer placement.Observer `json:"-"` // called after every step; disables result caching

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	// Dataset is the generated or supplied input.
	Dataset *dataset.Dataset

	// DatasetHash is the content hash of the dataset JSON.
	DatasetHash string

	// Placement is the final grid and its trace.
	Placement *Placement

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements     int
	Steps        int
	Height       int
	Score        float64
	GenerateTime time.Duration
	BuildTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DatasetHit bool // Whether the dataset came from cache
	BuildHit   bool // Whether the placement came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if err := errors.ValidateFormatName(format); err != nil {
		return err
	}
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGenerator checks that a generator name is known.
func ValidateGenerator(name string) error {
	if !dataset.ValidGenerator(name) {
		return errors.New(errors.ErrCodeInvalidGenerator,
			"invalid generator: %q (must be one of: %s)", name, strings.Join(dataset.Generators, ", "))
	}
	return nil
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates. An empty string yields nil.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetGenerateDefaults sets default values for dataset generation.
func (o *Options) SetGenerateDefaults() {
	if o.Dataset != nil {
		o.Width, o.Depth = o.Dataset.Width, o.Dataset.Depth
	}
	if o.Generator == "" {
		o.Generator = DefaultGenerator
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Depth == 0 {
		o.Depth = DefaultDepth
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.DataSeed == 0 {
		o.DataSeed = o.Seed
	}
	o.setLoggerDefault()
}

// ValidateForGenerate validates and sets defaults for dataset generation.
func (o *Options) ValidateForGenerate() error {
	o.SetGenerateDefaults()
	if o.Dataset != nil {
		return o.Dataset.Validate()
	}
	if err := errors.ValidateBoundedDimensions(o.Width, o.Depth); err != nil {
		return err
	}
	return ValidateGenerator(o.Generator)
}

// SetBuildDefaults sets default values for the placement run.
func (o *Options) SetBuildDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	o.setLoggerDefault()
}

// ValidateForBuild validates and sets defaults for the placement run.
func (o *Options) ValidateForBuild() error {
	o.SetBuildDefaults()
	if o.SeedElement != nil && o.Width > 0 && (*o.SeedElement < 0 || *o.SeedElement >= o.Width) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"seed element %d out of range for width %d", *o.SeedElement, o.Width)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.CellSize == 0 {
		o.CellSize = DefaultCellSize
	}
	if o.Gap == nil {
		gap := float64(DefaultGap)
		o.Gap = &gap
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	o.setLoggerDefault()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.CellSize < 1 || o.CellSize > 256 {
		return errors.New(errors.ErrCodeInvalidConfig, "cell size must be between 1 and 256, got %v", o.CellSize)
	}
	if *o.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gap must not be negative, got %v", *o.Gap)
	}
	if o.Scale <= 0 || o.Scale > 8 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be in (0, 8], got %v", o.Scale)
	}
	if _, err := colorful.Hex(o.Background); err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "background must be a hex colour like #ffffff, got %q", o.Background)
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// seedElement returns the configured seed element or -1.
func (o *Options) seedElement() int {
	if o.SeedElement == nil {
		return -1
	}
	return *o.SeedElement
}

// DatasetKeyOpts returns cache key options for dataset generation.
func (o *Options) DatasetKeyOpts() cache.DatasetKeyOpts {
	return cache.DatasetKeyOpts{
		Generator: o.Generator,
		Width:     o.Width,
		Depth:     o.Depth,
		Seed:      o.DataSeed,
	}
}

// ResultKeyOpts returns cache key options for the placement run.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Seed:        o.Seed,
		SeedElement: o.seedElement(),
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		CellSize:   o.CellSize,
		Gap:        *o.Gap,
		Scale:      o.Scale,
		Labels:     o.Labels,
		Background: o.Background,
	}
}

// LayoutOptions returns the cell geometry for rendering.
func (o *Options) LayoutOptions() layout.Options {
	opts := layout.Options{CellSize: o.CellSize, Margin: layout.DefaultMargin}
	if o.Gap != nil {
		opts.Gap = *o.Gap
	}
	return opts
}

// String summarises the options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("%s %dx%d seed=%d", o.Generator, o.Width, o.Depth, o.Seed)
}
