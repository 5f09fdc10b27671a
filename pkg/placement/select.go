package placement

import "math/rand/v2"

// drawColumn picks a column with probability weight/sum(weights), scanning
// cumulative slices left to right. It returns -1 if every weight is zero.
func drawColumn(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return -1
	}
	pick := rng.IntN(total)
	for c, w := range weights {
		if w <= 0 {
			continue
		}
		if pick < w {
			return c
		}
		pick -= w
	}
	return -1
}

// newRand mirrors the seeding used elsewhere for reproducible layouts.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
