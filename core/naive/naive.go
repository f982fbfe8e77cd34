// Package naive finds exact occurrences by scanning every reference sequence.
package naive

import (
	"bytes"

	"seedsearch/core/reference"
)

// Scanner searches a reference without an index.
type Scanner struct {
	Ref *reference.Reference
}

// Locate appends every overlapping occurrence of p to dst, ordered by
// sequence then offset. The empty pattern has no occurrences.
func (s Scanner) Locate(p []byte, dst []reference.Hit) []reference.Hit {
	if len(p) == 0 {
		return dst
	}
	for id, seq := range s.Ref.Seqs {
		for off := 0; off+len(p) <= len(seq); {
			i := bytes.Index(seq[off:], p)
			if i < 0 {
				break
			}
			dst = append(dst, reference.Hit{SeqID: id, Offset: off + i})
			off += i + 1
		}
	}
	return dst
}

// Count returns the number of overlapping occurrences of p.
func (s Scanner) Count(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	n := 0
	for _, seq := range s.Ref.Seqs {
		for off := 0; off+len(p) <= len(seq); {
			i := bytes.Index(seq[off:], p)
			if i < 0 {
				break
			}
			n++
			off += i + 1
		}
	}
	return n
}
