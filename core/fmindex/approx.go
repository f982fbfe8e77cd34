package fmindex

// CountApprox returns the number of text positions where p occurs with at most
// k substituted bases. Positions spanning a separator never match.
func (x *Index) CountApprox(p []byte, k int) int {
	if len(p) == 0 {
		return 0
	}
	if k <= 0 {
		return x.Count(p)
	}
	want := make([]int8, len(p))
	for i, b := range p {
		want[i] = codes[b]
	}
	return x.approx(want, len(p)-1, 0, x.n, k)
}

func (x *Index) approx(want []int8, i, sp, ep, budget int) int {
	if i < 0 {
		return ep - sp
	}
	total := 0
	for _, s := range bases {
		cost := 0
		if s != want[i] {
			cost = 1
		}
		if cost > budget {
			continue
		}
		nsp, nep := x.step(s, sp, ep)
		if nsp >= nep {
			continue
		}
		total += x.approx(want, i-1, nsp, nep, budget-cost)
	}
	return total
}
