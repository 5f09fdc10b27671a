package placement

import "math"

// InfluenceRadius is the column reach, and the downward row reach, of the
// scoring window.
const InfluenceRadius = 4

// distanceExponent shapes the falloff (d+1)^1.5.
const distanceExponent = 1.5

// Score returns the localized affinity of the element at (row, column) in v
// towards its neighbourhood.
//
// The window covers columns column±InfluenceRadius and rows from 0 down to
// row+InfluenceRadius, clipped to the grid. The upper row bound is always 0,
// not row-InfluenceRadius. Occupied cells contribute their relation to the
// inserted element, empty cells contribute rel.Mean(); each contribution is
// divided by (manhattan distance + 1)^1.5. The inserted cell itself is part
// of the window.
//
// rel must be sized for v's depth: Size() == width*Depth().
//
// Score is pure: it reads v and rel and mutates nothing.
func Score(rel *Relations, v View, row, column int) float64 {
	inserted := v.At(row, column)
	if inserted == Empty || v.Depth() == 0 {
		return 0
	}
	width := rel.Size() / v.Depth()
	src := Element{Column: column, Row: inserted}.Index(width)

	cLo := max(0, column-InfluenceRadius)
	cHi := min(v.Depth()-1, column+InfluenceRadius)
	rHi := min(v.Height()-1, row+InfluenceRadius)

	sum := 0.0
	for c := cLo; c <= cHi; c++ {
		dc := abs(c - column)
		for r := 0; r <= rHi; r++ {
			value := rel.Mean()
			if id := v.At(r, c); id != Empty {
				value = rel.At(src, Element{Column: c, Row: id}.Index(width))
			}
			weight := math.Pow(float64(dc+abs(r-row)+1), distanceExponent)
			sum += value / weight
		}
	}
	return sum
}

// TotalScore sums Score over every occupied cell of v. It is used to compare
// finished placements; the engine never calls it.
func TotalScore(rel *Relations, v View) float64 {
	total := 0.0
	for r := range v.Height() {
		for c := range v.Depth() {
			if v.At(r, c) != Empty {
				total += Score(rel, v, r, c)
			}
		}
	}
	return total
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
