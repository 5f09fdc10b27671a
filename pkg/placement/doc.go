// Package placement arranges elements that are pre-partitioned into columns
// into row positions within their own column, greedily maximizing a
// locality-weighted affinity score between nearby elements.
//
// # The Placement Problem
//
// A dataset has depth columns of width elements each. Every element keeps its
// column for its whole life; only the row it lands on is decided here. A
// relation matrix holds a real-valued affinity for every ordered pair of
// elements. Good arrangements put high-affinity elements close together.
//
// Finding the best arrangement is combinatorial, so [Engine] grows the grid
// one element at a time and never revisits a committed element:
//
//  1. Seed one element of column 0 at row 0.
//  2. Draw a column at random, weighted by its pending count (see below).
//  3. For every legal insertion [Point] in that column and every pending
//     element of that column, score the trial placement with [Score].
//  4. Commit the best (point, element) pair and repeat until nothing is
//     pending.
//
// The grid starts with a single row and grows upward (prepend) or downward
// (append) until it reaches width rows. New elements must always touch an
// already placed element horizontally or vertically.
//
// # Column Selection
//
// [Grid.ActiveColumns] scans columns left to right, accumulating pending
// counts, and stops after the first column that has nothing committed yet.
// Columns to the right of that frontier have zero weight, which keeps the
// grid growing as a connected blob from the left edge.
//
// # Scoring
//
// [Score] sums relation/weight over a window of up to four columns either side
// of the inserted cell and every row from the top of the grid down to four
// rows below it. Empty cells contribute the relation matrix mean. The weight
// of a cell at Manhattan distance d is (d+1)^1.5.
//
// Trial placements are evaluated through an overlay [View], so no grid is
// copied per candidate.
//
// # Determinism
//
// All randomness comes from the generator passed with [WithRand] or derived
// from [WithSeed]. Candidate enumeration order is fixed (points in the order
// returned by [Grid.Points], then pending elements in pending-set order) and
// the first maximum wins, so a seed reproduces the same trace exactly.
//
// # Usage
//
//	rel, err := placement.NewRelations(m) // m is a (width*depth)² gonum matrix
//	if err != nil {
//	    return err
//	}
//	eng, err := placement.New(width, depth, rel,
//	    placement.WithSeed(42),
//	    placement.WithObserver(func(s placement.Step) {
//	        fmt.Println(s.Index, s.Element, s.Score)
//	    }),
//	)
//	if err != nil {
//	    return err
//	}
//	final, err := eng.Run(ctx)
package placement
