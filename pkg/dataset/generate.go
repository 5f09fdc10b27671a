package dataset

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/tessera/pkg/errors"
)

// Generator names accepted by Generate.
const (
	GeneratorPalette = "palette"
	GeneratorBands   = "bands"
	GeneratorRandom  = "random"
)

// DefaultGenerator is used when GenerateOptions.Generator is empty.
const DefaultGenerator = GeneratorPalette

// Generators lists the accepted generator names.
var Generators = []string{GeneratorPalette, GeneratorBands, GeneratorRandom}

// MaxElements bounds width*depth for generated datasets. The relation
// matrix holds MaxElements² float64 values.
const MaxElements = 4096

// bandFalloff is the row distance at which band affinity reaches zero,
// as a fraction of the width.
const bandFalloff = 0.5

// GenerateOptions configures Generate.
type GenerateOptions struct {
	Generator string
	Width     int
	Depth     int
	Seed      uint64
}

// ValidGenerator reports whether name is an accepted generator.
func ValidGenerator(name string) bool {
	return slices.Contains(Generators, name)
}

// Generate builds a synthetic dataset. Equal options yield equal datasets.
func Generate(opts GenerateOptions) (*Dataset, error) {
	if opts.Generator == "" {
		opts.Generator = DefaultGenerator
	}
	if !ValidGenerator(opts.Generator) {
		return nil, errors.New(errors.ErrCodeInvalidGenerator,
			"unknown generator %q (want one of %v)", opts.Generator, Generators)
	}
	if err := errors.ValidateDimensions(opts.Width, opts.Depth); err != nil {
		return nil, err
	}
	if n := opts.Width * opts.Depth; n > MaxElements {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"%dx%d is %d elements, the maximum is %d", opts.Width, opts.Depth, n, MaxElements)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	d := &Dataset{
		Width:     opts.Width,
		Depth:     opts.Depth,
		Generator: opts.Generator,
		Seed:      opts.Seed,
	}

	var colors []colorful.Color
	switch opts.Generator {
	case GeneratorPalette:
		colors = randomColors(rng, d.Len())
		d.Relations = labAffinity(colors)
	case GeneratorBands:
		colors = bandColors(rng, d.Width, d.Depth)
		d.Relations = bandAffinity(d.Width, d.Depth)
	case GeneratorRandom:
		colors = randomColors(rng, d.Len())
		d.Relations = uniformAffinity(rng, d.Len())
	}

	d.Elements = make([]Element, d.Len())
	for c := range d.Depth {
		for r := range d.Width {
			i := d.Index(c, r)
			d.Elements[i] = Element{Column: c, Row: r, Color: colors[i].Clamped().Hex()}
		}
	}
	return d, nil
}

func randomColors(rng *rand.Rand, n int) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		out[i] = colorful.Hcl(rng.Float64()*360, 0.3+rng.Float64()*0.5, 0.35+rng.Float64()*0.5)
	}
	return out
}

// labAffinity maps CIELAB distance to affinity: identical colours score 1,
// the diagonal is 0.
func labAffinity(colors []colorful.Color) *mat.Dense {
	n := len(colors)
	m := mat.NewDense(n, n, nil)
	for i := range n {
		for j := i + 1; j < n; j++ {
			a := 1 - colors[i].DistanceLab(colors[j])
			m.Set(i, j, a)
			m.Set(j, i, a)
		}
	}
	return m
}

// bandColors blends a per-column start colour into a shared end colour down
// each column.
func bandColors(rng *rand.Rand, width, depth int) []colorful.Color {
	end := colorful.Hcl(rng.Float64()*360, 0.4, 0.85)
	out := make([]colorful.Color, width*depth)
	for c := range depth {
		start := colorful.Hcl(rng.Float64()*360, 0.6, 0.35)
		for r := range width {
			t := 0.0
			if width > 1 {
				t = float64(r) / float64(width-1)
			}
			out[width*c+r] = start.BlendLab(end, t)
		}
	}
	return out
}

// bandAffinity is 1 for equal original rows and falls linearly to -1 as the
// row difference grows, regardless of column.
func bandAffinity(width, depth int) *mat.Dense {
	n := width * depth
	span := math.Max(1, bandFalloff*float64(width))
	m := mat.NewDense(n, n, nil)
	for i := range n {
		for j := range n {
			if i == j {
				continue
			}
			dr := math.Abs(float64(i%width - j%width))
			m.Set(i, j, math.Max(-1, 1-2*dr/span))
		}
	}
	return m
}

func uniformAffinity(rng *rand.Rand, n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := range n {
		for j := range n {
			if i != j {
				m.Set(i, j, 2*rng.Float64()-1)
			}
		}
	}
	return m
}
