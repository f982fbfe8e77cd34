// Package suffixarray answers exact-match queries over a concatenated reference
// text with two binary searches over its suffix array.
package suffixarray

import (
	"bytes"
	"fmt"
	"sort"

	"seedsearch/core/reference"
)

// Interval is an inclusive range [Lo, Hi] of suffix-array slots.
// The empty interval is Interval{Lo: 0, Hi: -1}.
type Interval struct {
	Lo, Hi int
}

// EmptyInterval is the explicit no-match marker.
var EmptyInterval = Interval{Lo: 0, Hi: -1}

// Empty reports whether iv contains no slots.
func (iv Interval) Empty() bool { return iv.Hi < iv.Lo }

// Len returns the number of slots in iv.
func (iv Interval) Len() int {
	if iv.Empty() {
		return 0
	}
	return iv.Hi - iv.Lo + 1
}

// Index is an immutable suffix array over text. Safe for concurrent readers.
type Index struct {
	text []byte
	sa   []uint32
}

// New wraps text and its suffix array. It rejects arrays that cannot belong
// to text.
func New(text []byte, sa []uint32) (*Index, error) {
	if len(sa) == 0 {
		return nil, fmt.Errorf("%w: empty suffix array", ErrCorrupt)
	}
	if len(sa) != len(text) {
		return nil, fmt.Errorf("%w: suffix array has %d entries, text has %d bytes", ErrCorrupt, len(sa), len(text))
	}
	return &Index{text: text, sa: sa}, nil
}

// FromText builds the suffix array of text and wraps it.
func FromText(text []byte) (*Index, error) {
	sa, err := Build(text)
	if err != nil {
		return nil, err
	}
	return &Index{text: text, sa: sa}, nil
}

// Len returns the number of suffixes.
func (x *Index) Len() int { return len(x.sa) }

// compare is a three-way comparison of the suffix at pos against p, truncated
// to len(p). A suffix that ends before p is exhausted compares as less.
func (x *Index) compare(pos uint32, p []byte) int {
	suf := x.text[pos:]
	if len(suf) >= len(p) {
		return bytes.Compare(suf[:len(p)], p)
	}
	if c := bytes.Compare(suf, p[:len(suf)]); c != 0 {
		return c
	}
	return -1
}

// Interval returns the slots whose suffixes start with p.
func (x *Index) Interval(p []byte) Interval {
	n := len(x.sa)
	lo := sort.Search(n, func(i int) bool { return x.compare(x.sa[i], p) >= 0 })
	firstGT := lo + sort.Search(n-lo, func(i int) bool { return x.compare(x.sa[lo+i], p) > 0 })
	if lo >= firstGT {
		return EmptyInterval
	}
	return Interval{Lo: lo, Hi: firstGT - 1}
}

// Count returns the number of occurrences of p in the text.
func (x *Index) Count(p []byte) int { return x.Interval(p).Len() }

// Positions appends the flat text offsets of every occurrence of p to dst,
// in suffix order.
func (x *Index) Positions(p []byte, dst []uint32) []uint32 {
	iv := x.Interval(p)
	if iv.Empty() {
		return dst
	}
	return append(dst, x.sa[iv.Lo:iv.Hi+1]...)
}

// Locator adapts an Index over a concatenated reference text to hits in
// sequence coordinates. Flat offsets that fall on separators or the sentinel
// are dropped.
type Locator struct {
	Index *Index
	Text  *reference.Text
}

// Locate appends the hits of p to dst.
func (l Locator) Locate(p []byte, dst []reference.Hit) []reference.Hit {
	iv := l.Index.Interval(p)
	if iv.Empty() {
		return dst
	}
	for _, pos := range l.Index.sa[iv.Lo : iv.Hi+1] {
		id, off, ok := l.Text.Resolve(pos)
		if !ok {
			continue
		}
		dst = append(dst, reference.Hit{SeqID: id, Offset: off})
	}
	return dst
}

// Count returns the number of occurrences of p.
func (l Locator) Count(p []byte) int { return l.Index.Count(p) }
