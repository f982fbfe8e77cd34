// core/suffixarray/build.go
package suffixarray

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyText is returned when asked to index an empty text.
	ErrEmptyText = errors.New("suffixarray: empty text")
	// ErrTooLong is returned when the text does not fit 32-bit offsets.
	ErrTooLong = errors.New("suffixarray: text too long for uint32 offsets (n >= 2^32)")
)

// fitsOffsets reports whether every position of an n-byte text fits a uint32.
func fitsOffsets(n uint64) bool { return n <= math.MaxUint32 }

// Build constructs the suffix array of text by prefix doubling with counting
// sorts, O(n log n). The text need not end in a sentinel; a suffix that is a
// proper prefix of another sorts first.
func Build(text []byte) ([]uint32, error) {
	n := len(text)
	if n == 0 {
		return nil, ErrEmptyText
	}
	if !fitsOffsets(uint64(n)) {
		return nil, fmt.Errorf("%w: n=%d", ErrTooLong, n)
	}

	sa := make([]uint32, n)
	rank := make([]uint32, n)
	next := make([]uint32, n)
	tmp := make([]uint32, n)

	// Bucket by first byte.
	var cnt0 [257]int
	for _, c := range text {
		cnt0[int(c)+1]++
	}
	for i := 1; i < len(cnt0); i++ {
		cnt0[i] += cnt0[i-1]
	}
	for i, c := range text {
		sa[cnt0[c]] = uint32(i)
		cnt0[c]++
	}
	rank[sa[0]] = 0
	for i := 1; i < n; i++ {
		r := rank[sa[i-1]]
		if text[sa[i]] != text[sa[i-1]] {
			r++
		}
		rank[sa[i]] = r
	}

	cnt := make([]int, n+1)
	for k := 1; rank[sa[n-1]] != uint32(n-1); k <<= 1 {
		// Order by second key: suffixes shorter than k+1 have no second half and
		// come first, shortest first; the rest follow the current order shifted by k.
		p := 0
		for i := n - 1; i >= n-k && i >= 0; i-- {
			tmp[p] = uint32(i)
			p++
		}
		for _, s := range sa {
			if int(s) >= k {
				tmp[p] = s - uint32(k)
				p++
			}
		}

		// Stable counting sort by first key.
		maxRank := int(rank[sa[n-1]])
		for i := 0; i <= maxRank+1; i++ {
			cnt[i] = 0
		}
		for i := 0; i < n; i++ {
			cnt[rank[i]+1]++
		}
		for i := 1; i <= maxRank+1; i++ {
			cnt[i] += cnt[i-1]
		}
		for _, s := range tmp {
			r := rank[s]
			sa[cnt[r]] = s
			cnt[r]++
		}

		second := func(i uint32) int64 {
			if int(i)+k < n {
				return int64(rank[int(i)+k])
			}
			return -1
		}
		next[sa[0]] = 0
		for i := 1; i < n; i++ {
			prev, cur := sa[i-1], sa[i]
			r := next[prev]
			if rank[prev] != rank[cur] || second(prev) != second(cur) {
				r++
			}
			next[cur] = r
		}
		rank, next = next, rank
	}
	return sa, nil
}
