package pigeon

// Verify reports whether query placed at ref[start:] has at most k mismatches.
// Placements that leave ref are rejected.
func Verify(query, ref []byte, start, k int) bool {
	if start < 0 || start+len(query) > len(ref) {
		return false
	}
	mm := 0
	win := ref[start : start+len(query)]
	for i, b := range query {
		if win[i] != b {
			mm++
			if mm > k {
				return false
			}
		}
	}
	return true
}

// Distance is the Hamming distance of a and b; extra length counts as mismatches.
func Distance(a, b []byte) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	d := len(b) - len(a)
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}
