package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/observability"
)

// Generate produces the dataset described by opts, or returns opts.Dataset
// when one is supplied.
func Generate(ctx context.Context, opts Options) (*dataset.Dataset, error) {
	if opts.Dataset != nil {
		return opts.Dataset, nil
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Generator, opts.Width, opts.Depth)
	start := time.Now()

	d, err := dataset.Generate(dataset.GenerateOptions{
		Generator: opts.Generator,
		Width:     opts.Width,
		Depth:     opts.Depth,
		Seed:      opts.DataSeed,
	})
	elements := 0
	if d != nil {
		elements = d.Len()
	}
	hooks.OnGenerateComplete(ctx, opts.Generator, elements, time.Since(start), err)
	return d, err
}
