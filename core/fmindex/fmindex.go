// Package fmindex implements a sampled FM-index over a concatenated reference
// text: backward search for exact counts, LF walks for locating, and a
// backtracking search that tolerates substitutions.
package fmindex

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"seedsearch/core/alphabet"
	"seedsearch/core/reference"
	"seedsearch/core/suffixarray"
)

// ErrCorrupt reports an index blob that cannot be decoded or does not belong
// to the reference it is used with.
var ErrCorrupt = errors.New("fmindex: corrupt or mismatched index")

// DefaultSampleRate keeps one suffix-array sample every 16 text positions.
const DefaultSampleRate = 16

// occurrence checkpoints are stored every checkpoint BWT rows.
const checkpoint = 64

// symbol codes in lexicographic byte order: $ < % < A < C < G < N < T
const sigma = 7

var (
	codes   [256]int8
	symbols [sigma]byte
	// bases are the codes a query position may be substituted with.
	bases [len(alphabet.Bases)]int8
)

func init() {
	symbols[0], symbols[1] = alphabet.Sentinel, alphabet.Separator
	copy(symbols[2:], alphabet.Bases[:])
	for i := range codes {
		codes[i] = -1
	}
	for c, b := range symbols {
		codes[b] = int8(c)
	}
	for i, b := range alphabet.Bases {
		bases[i] = codes[b]
	}
}

// Options control index construction.
type Options struct {
	// SampleRate is the suffix-array sampling distance in text positions.
	// Zero means DefaultSampleRate.
	SampleRate int
}

// Index is an immutable FM-index. Safe for concurrent readers.
type Index struct {
	n          int
	bwt        []byte // symbol codes
	c          [sigma + 1]uint32
	occ        []uint32 // occ[(row/checkpoint)*sigma+s] = count of s in bwt[:row/checkpoint*checkpoint]
	sampled    *bitset.BitSet
	samples    []uint32 // text positions of sampled rows, in row order
	sampleRate int

	starts []uint32
	lens   []uint32
	layout reference.Text
}

// Build indexes text. The text must consist of reference symbols only and end
// with the sentinel, as produced by reference.Concat.
func Build(text *reference.Text, opts Options) (*Index, error) {
	if text == nil || len(text.Data) == 0 {
		return nil, suffixarray.ErrEmptyText
	}
	rate := opts.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	for i, b := range text.Data {
		if codes[b] < 0 {
			return nil, fmt.Errorf("fmindex: byte %q at offset %d is outside the alphabet", b, i)
		}
	}
	sa, err := suffixarray.Build(text.Data)
	if err != nil {
		return nil, err
	}

	n := len(sa)
	x := &Index{
		n:          n,
		bwt:        make([]byte, n),
		occ:        make([]uint32, (n/checkpoint+1)*sigma),
		sampled:    bitset.New(uint(n)),
		sampleRate: rate,
		starts:     append([]uint32(nil), text.Starts...),
		lens:       append([]uint32(nil), text.Lens...),
	}
	var freq [sigma]uint32
	for row, pos := range sa {
		prev := n - 1
		if pos > 0 {
			prev = int(pos) - 1
		}
		x.bwt[row] = byte(codes[text.Data[prev]])
		freq[codes[text.Data[pos]]]++
		if int(pos)%rate == 0 {
			x.sampled.Set(uint(row))
			x.samples = append(x.samples, pos)
		}
	}
	for s := 0; s < sigma; s++ {
		x.c[s+1] = x.c[s] + freq[s]
	}
	x.fillOcc()
	x.layout = reference.Text{Starts: x.starts, Lens: x.lens}
	return x, nil
}

func (x *Index) fillOcc() {
	var run [sigma]uint32
	for row, s := range x.bwt {
		if row%checkpoint == 0 {
			copy(x.occ[(row/checkpoint)*sigma:], run[:])
		}
		run[s]++
	}
	if x.n%checkpoint == 0 {
		copy(x.occ[(x.n/checkpoint)*sigma:], run[:])
	}
}

// rank returns the number of occurrences of symbol s in bwt[:i].
func (x *Index) rank(s int8, i int) uint32 {
	b := i / checkpoint
	r := x.occ[b*sigma+int(s)]
	for _, v := range x.bwt[b*checkpoint : i] {
		if int8(v) == s {
			r++
		}
	}
	return r
}

func (x *Index) step(s int8, sp, ep int) (int, int) {
	base := x.c[s]
	return int(base + x.rank(s, sp)), int(base + x.rank(s, ep))
}

// Len returns the indexed text length including separators and the sentinel.
func (x *Index) Len() int { return x.n }

// SampleRate returns the suffix-array sampling distance.
func (x *Index) SampleRate() int { return x.sampleRate }

// Interval runs a backward search and returns the half-open row range
// [sp, ep) of suffixes prefixed by p. sp == ep means no match.
func (x *Index) Interval(p []byte) (sp, ep int) {
	sp, ep = 0, x.n
	for i := len(p) - 1; i >= 0 && sp < ep; i-- {
		s := codes[p[i]]
		if s < 0 {
			return 0, 0
		}
		sp, ep = x.step(s, sp, ep)
	}
	if sp >= ep {
		return 0, 0
	}
	return sp, ep
}

// Count returns the number of exact occurrences of p.
func (x *Index) Count(p []byte) int {
	sp, ep := x.Interval(p)
	return ep - sp
}

// position recovers the text offset of a row by walking LF to the nearest sample.
func (x *Index) position(row int) uint32 {
	var steps uint32
	for !x.sampled.Test(uint(row)) {
		s := int8(x.bwt[row])
		row = int(x.c[s] + x.rank(s, row))
		steps++
	}
	return x.samples[x.sampled.Rank(uint(row))-1] + steps
}

// Locate appends the hits of p in sequence coordinates to dst.
func (x *Index) Locate(p []byte, dst []reference.Hit) []reference.Hit {
	sp, ep := x.Interval(p)
	for row := sp; row < ep; row++ {
		id, off, ok := x.layout.Resolve(x.position(row))
		if !ok {
			continue
		}
		dst = append(dst, reference.Hit{SeqID: id, Offset: off})
	}
	return dst
}

// Matches reports whether the index was built from a reference with the same
// sequence layout as ref.
func (x *Index) Matches(ref *reference.Reference) error {
	if ref.Len() != len(x.lens) {
		return fmt.Errorf("%w: index holds %d sequences, reference has %d", ErrCorrupt, len(x.lens), ref.Len())
	}
	for i, s := range ref.Seqs {
		if uint32(len(s)) != x.lens[i] {
			return fmt.Errorf("%w: sequence %d has length %d in index, %d in reference", ErrCorrupt, i, x.lens[i], len(s))
		}
	}
	return nil
}
