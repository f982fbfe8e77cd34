// Package batch shapes a query set to the requested workload size.
package batch

import "errors"

// ErrNoQueries is returned when a positive workload is requested from an
// empty query set.
var ErrNoQueries = errors.New("query file contains no sequences")

// DuplicateToCount repeats qs by doubling until it holds at least n queries,
// then truncates to n, so out[i] is qs[i%len(qs)]. Sequence bytes are shared.
// n == 0 yields an empty batch.
func DuplicateToCount(qs [][]byte, n int) ([][]byte, error) {
	if n <= 0 {
		return [][]byte{}, nil
	}
	if len(qs) == 0 {
		return nil, ErrNoQueries
	}
	out := make([][]byte, len(qs), max(n, len(qs)))
	copy(out, qs)
	for len(out) < n {
		out = append(out, out...)
	}
	return out[:n], nil
}
