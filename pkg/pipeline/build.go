package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/observability"
	"github.com/matzehuels/tessera/pkg/placement"
)

// Placement is the outcome of a build: the final grid, the winning
// candidate of every step in commit order, and the grid's total score.
type Placement struct {
	Width       int                   `json:"width"`
	Depth       int                   `json:"depth"`
	Seed        uint64                `json:"seed"`
	SeedElement int                   `json:"seed_element"`
	Grid        placement.Snapshot    `json:"grid"`
	Trace       []placement.Candidate `json:"trace"`
	Score       float64               `json:"score"`
}

// Steps returns the number of committed insertions.
func (p *Placement) Steps() int { return len(p.Trace) }

// Build runs the placement engine over d to completion.
func Build(ctx context.Context, d *dataset.Dataset, opts Options) (*Placement, error) {
	rel, err := d.PlacementRelations()
	if err != nil {
		return nil, err
	}

	p := &Placement{
		Width:       d.Width,
		Depth:       d.Depth,
		Seed:        opts.Seed,
		SeedElement: opts.seedElement(),
		Trace:       make([]placement.Candidate, 0, d.Len()-1),
	}
	engineOpts := []placement.Option{
		placement.WithSeed(opts.Seed),
		placement.WithObserver(func(s placement.Step) { p.Trace = append(p.Trace, s.Candidate) }),
		placement.WithObserver(opts.Observer),
	}
	if opts.SeedElement != nil {
		engineOpts = append(engineOpts, placement.WithSeedElement(*opts.SeedElement))
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, d.Width, d.Depth)
	start := time.Now()

	eng, err := placement.New(d.Width, d.Depth, rel, engineOpts...)
	if err == nil {
		p.Grid, err = eng.Run(ctx)
	}
	hooks.OnBuildComplete(ctx, len(p.Trace), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	p.Score = placement.TotalScore(rel, p.Grid)
	opts.Logger.Debug("placement complete", "steps", len(p.Trace), "height", p.Grid.Height(), "score", p.Score)
	return p, nil
}
