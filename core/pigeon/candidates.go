// core/pigeon/candidates.go
package pigeon

import (
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"seedsearch/core/reference"
)

// Index is the exact-match capability candidates are generated from.
type Index interface {
	Locate(pattern []byte, dst []reference.Hit) []reference.Hit
}

// CandidateSet holds distinct (sequence, start) pairs, one bitmap of starts per
// sequence. The zero value is ready to use; Reset makes it reusable.
type CandidateSet struct {
	bySeq map[int]*roaring.Bitmap
	ids   []int
	spare []*roaring.Bitmap
	buf   []reference.Hit
}

// Add inserts a candidate. Starts outside [0, 2^32) can never verify and are dropped.
func (c *CandidateSet) Add(seqID, start int) {
	if start < 0 || int64(start) > math.MaxUint32 || seqID < 0 {
		return
	}
	if c.bySeq == nil {
		c.bySeq = make(map[int]*roaring.Bitmap)
	}
	bm, ok := c.bySeq[seqID]
	if !ok {
		if n := len(c.spare); n > 0 {
			bm = c.spare[n-1]
			c.spare = c.spare[:n-1]
		} else {
			bm = roaring.New()
		}
		c.bySeq[seqID] = bm
		c.ids = append(c.ids, seqID)
	}
	bm.Add(uint32(start))
}

// Len returns the number of distinct candidates.
func (c *CandidateSet) Len() int {
	var n uint64
	for _, bm := range c.bySeq {
		n += bm.GetCardinality()
	}
	return int(n)
}

// Each calls fn for every candidate in (seqID, start) order until fn returns false.
func (c *CandidateSet) Each(fn func(seqID, start int) bool) {
	sort.Ints(c.ids)
	for _, id := range c.ids {
		it := c.bySeq[id].Iterator()
		for it.HasNext() {
			if !fn(id, int(it.Next())) {
				return
			}
		}
	}
}

// Reset empties the set, keeping its bitmaps for reuse.
func (c *CandidateSet) Reset() {
	for id, bm := range c.bySeq {
		bm.Clear()
		c.spare = append(c.spare, bm)
		delete(c.bySeq, id)
	}
	c.ids = c.ids[:0]
}

// Generate locates every seed of query in idx and inserts the implied
// alignment start of each hit into set.
func Generate(query []byte, seeds []Seed, idx Index, set *CandidateSet) {
	for _, s := range seeds {
		set.buf = idx.Locate(query[s.Start:s.End], set.buf[:0])
		for _, h := range set.buf {
			set.Add(h.SeqID, h.Offset-s.Start)
		}
	}
}
