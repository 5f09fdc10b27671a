package placement

import (
	"context"
	"math/rand/v2"

	"github.com/matzehuels/tessera/pkg/errors"
)

// DefaultSeed seeds the generator when neither WithRand nor WithSeed is given.
const DefaultSeed = uint64(42)

// Candidate is the outcome of a search over one column.
type Candidate struct {
	Column  int
	Point   Point
	Element int     // original row of the chosen element
	Score   float64 // best score found
	Trials  int     // (point, element) pairs evaluated
}

// Step describes one committed insertion.
type Step struct {
	Index     int // 1 for the first insertion after the seed, strictly increasing
	Candidate
	Grid Snapshot // grid after the commit
}

// Observer is called after every commit. It must not retain Step.Grid
// expecting it to change; each Step carries its own copy.
type Observer func(Step)

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for seeding and column selection.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed derives the random source from a seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = newRand(seed) }
}

// WithSeedElement fixes which original row of column 0 is placed first.
// Without it the seed element is drawn from the random source.
func WithSeedElement(row int) Option {
	return func(e *Engine) { e.seedRow = row }
}

// WithObserver registers a callback invoked after each commit. It may be
// given several times; observers run in registration order.
func WithObserver(fn Observer) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

// Engine runs the greedy placement loop. It is not safe for concurrent use.
type Engine struct {
	grid      *Grid
	rel       *Relations
	rng       *rand.Rand
	seedRow   int
	steps     int
	observers []Observer
}

// New validates the inputs, seeds the grid and returns an engine ready to
// step. A relation matrix that is not (width*depth)² is a configuration error.
func New(width, depth int, rel *Relations, opts ...Option) (*Engine, error) {
	if err := errors.ValidateDimensions(width, depth); err != nil {
		return nil, err
	}
	if rel == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "relations are required")
	}
	if n := width * depth; rel.Size() != n {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"relation matrix is %dx%d, want %dx%d for width %d and depth %d", rel.Size(), rel.Size(), n, n, width, depth)
	}

	e := &Engine{rel: rel, seedRow: -1}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = newRand(DefaultSeed)
	}

	grid, err := NewGrid(width, depth)
	if err != nil {
		return nil, err
	}
	e.grid = grid

	seed := e.seedRow
	if seed < 0 {
		seed = e.rng.IntN(width)
	}
	if err := grid.Seed(seed); err != nil {
		return nil, err
	}
	return e, nil
}

// Width returns the number of elements per column.
func (e *Engine) Width() int { return e.grid.Width() }

// Depth returns the number of columns.
func (e *Engine) Depth() int { return e.grid.Depth() }

// Steps returns the number of insertions committed so far.
func (e *Engine) Steps() int { return e.steps }

// Done reports whether every element has been placed.
func (e *Engine) Done() bool { return e.grid.Done() }

// Pending returns the number of unplaced elements of a column.
func (e *Engine) Pending(column int) int { return e.grid.Pending(column) }

// Snapshot returns a copy of the current grid.
func (e *Engine) Snapshot() Snapshot { return e.grid.Snapshot() }

// View exposes the live grid read-only. It changes with every step.
func (e *Engine) View() View { return e.grid }

// SelectColumn draws a column weighted by Grid.ActiveColumns.
func (e *Engine) SelectColumn() (int, error) {
	c := drawColumn(e.rng, e.grid.ActiveColumns())
	if c < 0 {
		return -1, e.grid.violation("column selection with nothing pending", -1)
	}
	return c, nil
}

// SearchBest scores every (insertion point, pending element) pair of a column
// and returns the best one. Points are the outer loop in Grid.Points order,
// elements the inner loop in pending order; the first maximum wins.
func (e *Engine) SearchBest(column int) (Candidate, error) {
	if column < 0 || column >= e.grid.Depth() {
		return Candidate{}, e.grid.violation("search on unknown column", column)
	}
	ids := e.grid.pending[column].IDs()
	if len(ids) == 0 {
		return Candidate{}, e.grid.violation("selected column has no pending elements", column)
	}
	points := e.grid.Points(column)
	if len(points) == 0 {
		return Candidate{}, e.grid.violation("selected column has no insertion points", column)
	}

	best := Candidate{Column: column}
	for i, p := range points {
		for j, id := range ids {
			trial := trialView{base: e.grid, column: column, point: p, id: id}
			s := Score(e.rel, trial, p.Row, column)
			if (i == 0 && j == 0) || s > best.Score {
				best.Point, best.Element, best.Score = p, id, s
			}
		}
	}
	best.Trials = len(points) * len(ids)
	return best, nil
}

// Step runs one select, search and commit cycle.
func (e *Engine) Step() (Step, error) {
	column, err := e.SelectColumn()
	if err != nil {
		return Step{}, err
	}
	best, err := e.SearchBest(column)
	if err != nil {
		return Step{}, err
	}
	if err := e.grid.Commit(column, best.Point, best.Element); err != nil {
		return Step{}, err
	}
	e.steps++
	st := Step{Index: e.steps, Candidate: best, Grid: e.grid.Snapshot()}
	for _, fn := range e.observers {
		fn(st)
	}
	return st, nil
}

// Run steps until nothing is pending and returns the final grid. The context
// is checked between steps.
func (e *Engine) Run(ctx context.Context) (Snapshot, error) {
	for !e.grid.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := e.Step(); err != nil {
			return nil, err
		}
	}
	return e.grid.Snapshot(), nil
}
