package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/pipeline"
	"github.com/matzehuels/tessera/pkg/placement"
)

const defaultOutput = "tessera"

// buildOpts holds the command-line flags for the build command that do not
// map directly onto pipeline options.
type buildOpts struct {
	input   string // dataset JSON to place instead of generating one
	output  string // base path; one file per format
	frames  string // directory for one PNG per step
	show    bool   // print the coloured grid to the terminal
	noCache bool
}

// buildCommand creates the build command: generate or load a dataset, place
// it, and write the requested formats.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		dims        dimensionFlags
		bopts       buildOpts
		formatsStr  string
		seedElement int
		cellSize    float64
		gap         float64
		scale       float64
		labels      bool
		background  string
		refresh     bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Place a dataset and render the result",
		Long: `Build places every element of a dataset into a grid, one insertion per step,
and writes the final grid in each requested format:

  svg   vector image, one rect per element
  png   raster image
  json  grid, per-cell geometry and the step trace
  txt   plain table of original rows
  html  interactive score and column charts
  plot  PNG line plot of the score per step

Results are cached; a repeated build with the same inputs is served from the
cache unless --refresh or --no-cache is given.`,
		Example: `  tessera build -W 12 -D 20 -f svg,png -o grid
  tessera build --input data.json --seed 7 --frames frames/
  tessera build -g bands --show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.dimensionOptions(cmd, &dims)
			if formatsStr != "" {
				opts.Formats = pipeline.ParseFormats(formatsStr)
			}
			if cmd.Flags().Changed("seed-element") {
				opts.SeedElement = &seedElement
			}
			if cmd.Flags().Changed("cell-size") {
				opts.CellSize = cellSize
			}
			if cmd.Flags().Changed("gap") {
				opts.Gap = &gap
			}
			if cmd.Flags().Changed("scale") {
				opts.Scale = scale
			}
			if labels {
				opts.Labels = true
			}
			if background != "" {
				opts.Background = background
			}
			opts.Refresh = refresh

			if bopts.input != "" {
				d, err := dataset.ImportJSON(bopts.input)
				if err != nil {
					return err
				}
				opts.Dataset = d
			}
			return c.runBuild(cmd.Context(), opts, bopts)
		},
	}

	dims.register(cmd)
	cmd.Flags().StringVarP(&bopts.input, "input", "i", "", "dataset JSON file (default: generate)")
	cmd.Flags().StringVarP(&bopts.output, "output", "o", defaultOutput, "output base path; the format is appended as extension")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, txt, html, plot (comma-separated)")
	cmd.Flags().IntVar(&seedElement, "seed-element", 0, "original row of column 0 placed first (default: drawn from --seed)")
	cmd.Flags().Float64Var(&cellSize, "cell-size", pipeline.DefaultCellSize, "cell edge in pixels")
	cmd.Flags().Float64Var(&gap, "gap", pipeline.DefaultGap, "space between cells in pixels")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw original row ids on SVG cells")
	cmd.Flags().StringVar(&background, "background", "", "frame colour as hex (default #ffffff)")
	cmd.Flags().StringVar(&bopts.frames, "frames", "", "write one PNG per step into this directory")
	cmd.Flags().BoolVar(&bopts.show, "show", false, "print the final grid to the terminal")
	cmd.Flags().BoolVar(&bopts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and rebuild")
	registerFlagCompletions(cmd)

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, bopts buildOpts) error {
	runner, err := c.newRunner(ctx, bopts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	var frames *frameWriter
	if bopts.frames != "" {
		// Frames need the dataset for colours before the build starts.
		if opts.Dataset == nil {
			d, _, _, err := runner.GenerateWithCacheInfo(ctx, opts)
			if err != nil {
				return err
			}
			opts.Dataset = d
		}
		frames, err = newFrameWriter(bopts.frames, opts)
		if err != nil {
			return err
		}
		opts.Observer = frames.observe
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d x %d elements...", opts.Width, opts.Depth))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	if frames != nil {
		if err := frames.err; err != nil {
			return fmt.Errorf("write frames: %w", err)
		}
	}

	printSuccess("Placed %s", opts.String())
	printStats(result.Stats.Elements, result.Stats.Steps, result.Stats.Score, result.CacheInfo.BuildHit)
	if bopts.show {
		fmt.Print(renderGrid(result.Dataset, result.Placement.Grid, nil))
	}

	for _, format := range opts.Formats {
		path := outputPath(bopts.output, format)
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	if frames != nil {
		printFile(fmt.Sprintf("%s (%d frames)", bopts.frames, frames.count))
	}
	return nil
}

// outputPath derives the file for one format from the base path. A known
// format extension on base is replaced.
func outputPath(base, format string) string {
	if base == "" {
		base = defaultOutput
	}
	for _, f := range pipeline.FormatNames() {
		if ext := "." + pipeline.FormatExt(f); strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	return base + "." + pipeline.FormatExt(format)
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// frameWriter renders each observed step as a PNG. The first error stops
// further writes and is reported after the build.
type frameWriter struct {
	dir   string
	opts  pipeline.Options
	count int
	err   error
}

func newFrameWriter(dir string, opts pipeline.Options) (*frameWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &frameWriter{dir: dir, opts: opts}, nil
}

func (f *frameWriter) observe(s placement.Step) {
	if f.err != nil {
		return
	}
	data, err := pipeline.RenderFrame(f.opts.Dataset, s.Grid, f.opts)
	if err == nil {
		err = os.WriteFile(f.framePath(s.Index), data, 0o644)
	}
	if err != nil {
		f.err = err
		return
	}
	f.count++
}

func (f *frameWriter) framePath(index int) string {
	return filepath.Join(f.dir, fmt.Sprintf("step-%05d.png", index))
}
