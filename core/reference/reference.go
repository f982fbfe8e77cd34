// Package reference holds the reference sequences and their concatenated text
// form used by the suffix-array and FM-index backends.
package reference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"seedsearch/core/alphabet"
	"seedsearch/core/fasta"
)

var (
	// ErrEmpty is returned when a reference has no sequences (or only empty ones).
	ErrEmpty = errors.New("reference contains no sequences")
	// ErrTooLong is returned when the concatenated text does not fit 32-bit offsets.
	ErrTooLong = errors.New("reference too long for 32-bit offsets (n >= 2^32)")
)

// checkTotal rejects concatenated lengths whose positions overflow uint32.
func checkTotal(total uint64) error {
	if total > math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrTooLong, total)
	}
	return nil
}

// Reference is an ordered collection of named dna5 sequences.
type Reference struct {
	Names []string
	Seqs  [][]byte
}

// FromRecords builds a Reference, failing with ErrEmpty when recs is empty.
func FromRecords(recs []fasta.Record) (*Reference, error) {
	if len(recs) == 0 {
		return nil, ErrEmpty
	}
	r := &Reference{
		Names: make([]string, len(recs)),
		Seqs:  make([][]byte, len(recs)),
	}
	for i, rec := range recs {
		r.Names[i] = rec.ID
		r.Seqs[i] = rec.Seq
	}
	return r, nil
}

// Load reads path through the sequence collaborator.
func Load(ctx context.Context, path string) (*Reference, error) {
	recs, err := fasta.ReadAll(ctx, path)
	if err != nil {
		return nil, err
	}
	r, err := FromRecords(recs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Len returns the number of sequences.
func (r *Reference) Len() int { return len(r.Seqs) }

// TotalLen returns the summed sequence lengths.
func (r *Reference) TotalLen() int {
	n := 0
	for _, s := range r.Seqs {
		n += len(s)
	}
	return n
}

// Text is the concatenated reference: seq0 GUARD seq1 GUARD ... seqN SENTINEL.
type Text struct {
	Data   []byte
	Starts []uint32 // start offset of every sequence in Data
	Lens   []uint32 // length of every sequence
	Guard  int
}

// Concat joins the reference sequences with guard separator bytes between them
// and appends the sentinel. guard < 1 is treated as 1.
func (r *Reference) Concat(guard int) (*Text, error) {
	if guard < 1 {
		guard = 1
	}
	if r.TotalLen() == 0 {
		return nil, ErrEmpty
	}
	total := r.TotalLen() + guard*(len(r.Seqs)-1) + 1
	if err := checkTotal(uint64(total)); err != nil {
		return nil, err
	}

	t := &Text{
		Data:   make([]byte, 0, total),
		Starts: make([]uint32, len(r.Seqs)),
		Lens:   make([]uint32, len(r.Seqs)),
		Guard:  guard,
	}
	sep := bytes.Repeat([]byte{alphabet.Separator}, guard)
	for i, s := range r.Seqs {
		if i > 0 {
			t.Data = append(t.Data, sep...)
		}
		t.Starts[i] = uint32(len(t.Data))
		t.Lens[i] = uint32(len(s))
		t.Data = append(t.Data, s...)
	}
	t.Data = append(t.Data, alphabet.Sentinel)
	return t, nil
}

// Len returns the full text length including separators and the sentinel.
func (t *Text) Len() int { return len(t.Data) }

// Resolve maps a flat text offset to (sequence id, offset in sequence).
// Offsets that land on a separator or the sentinel do not resolve.
func (t *Text) Resolve(flat uint32) (seqID int, offset int, ok bool) {
	i := sort.Search(len(t.Starts), func(i int) bool { return t.Starts[i] > flat }) - 1
	if i < 0 {
		return 0, 0, false
	}
	off := flat - t.Starts[i]
	if off >= t.Lens[i] {
		return 0, 0, false
	}
	return i, int(off), true
}

// Hit is a position in reference coordinates: sequence id and offset within it.
// Every index backend reports matches in this form.
type Hit struct {
	SeqID  int
	Offset int
}
