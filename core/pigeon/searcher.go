package pigeon

import (
	"seedsearch/core/reference"
)

// Searcher counts approximate occurrences of queries in Ref with at most K
// mismatches, using Index for exact seed lookups.
type Searcher struct {
	Ref   *reference.Reference
	Index Index
	K     int
}

// Scratch is per-worker state reused across queries. Not safe for concurrent use.
type Scratch struct {
	set CandidateSet
	// Dropped counts candidates naming a sequence the reference does not hold.
	Dropped int
}

// NewScratch returns empty scratch space.
func NewScratch() *Scratch { return &Scratch{} }

// Count returns the number of verified occurrences of query. A nil scratch
// allocates a fresh one.
func (s Searcher) Count(query []byte, sc *Scratch) int {
	n := 0
	s.each(query, sc, func(reference.Hit) { n++ })
	return n
}

// Hits returns the verified occurrences of query in (SeqID, Offset) order.
func (s Searcher) Hits(query []byte) []reference.Hit {
	var out []reference.Hit
	s.each(query, nil, func(h reference.Hit) { out = append(out, h) })
	return out
}

func (s Searcher) each(query []byte, sc *Scratch, fn func(reference.Hit)) {
	if len(query) == 0 {
		return
	}
	if sc == nil {
		sc = NewScratch()
	}
	set := &sc.set
	set.Reset()
	Generate(query, Partition(len(query), s.K), s.Index, set)
	set.Each(func(id, start int) bool {
		if id >= len(s.Ref.Seqs) {
			sc.Dropped++
			return true
		}
		if Verify(query, s.Ref.Seqs[id], start, s.K) {
			fn(reference.Hit{SeqID: id, Offset: start})
		}
		return true
	})
}
