// Package pigeon implements seed-and-verify approximate matching under the
// Hamming distance. A query of length m searched with at most k mismatches is
// cut into k+1 disjoint seeds; any true occurrence matches one seed exactly,
// so exact seed hits are a complete candidate set for verification.
package pigeon

// Seed is the half-open query range [Start, End).
type Seed struct {
	Start, End int
}

// Len returns the seed length.
func (s Seed) Len() int { return s.End - s.Start }

// Partition cuts [0, m) into min(k+1, m) contiguous seeds of near-equal
// length. m == 0 yields no seeds; negative k is treated as 0.
func Partition(m, k int) []Seed {
	if m <= 0 {
		return nil
	}
	if k < 0 {
		k = 0
	}
	p := k + 1
	if p > m {
		p = m
	}
	seeds := make([]Seed, 0, p)
	prev := 0
	for i := 1; i <= p; i++ {
		cut := i * m / p
		if cut > prev {
			seeds = append(seeds, Seed{Start: prev, End: cut})
		}
		prev = cut
	}
	return seeds
}
