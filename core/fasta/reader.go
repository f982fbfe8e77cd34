// core/fasta/reader.go
package fasta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"

	"seedsearch/core/alphabet"
)

// Record represents one parsed FASTA/FASTQ sequence, normalized to dna5.
type Record struct {
	ID  string
	Seq []byte
}

// OpenError reports a sequence file that could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return fmt.Sprintf("open %s: %v", e.Path, e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

var disableValidation sync.Once

// Each streams the records of path (FASTA or FASTQ, optionally compressed; "-"
// reads stdin) to emit. Records are copied out of the parser buffers and
// normalized, so emit may retain them. Returning a non-nil error from emit stops
// the scan and that error is returned. Cancellation via ctx is checked between
// records.
//
// The stream is restartable: calling Each again reopens the file.
func Each(ctx context.Context, path string, emit func(Record) error) error {
	disableValidation.Do(func() { seq.ValidateSeq = false })

	r, err := fastx.NewReader(nil, path, "")
	if errors.Is(err, xopen.ErrNoContent) {
		return nil
	}
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	defer r.Close()

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read record %d in %s: %w", i, path, err)
		}
		out := Record{
			ID:  string(rec.ID),
			Seq: alphabet.Normalize(append([]byte(nil), rec.Seq.Seq...)),
		}
		if err := emit(out); err != nil {
			return err
		}
	}
}

// ReadAll collects every record of path.
func ReadAll(ctx context.Context, path string) ([]Record, error) {
	var recs []Record
	err := Each(ctx, path, func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// Sequences returns only the sequence bytes of path, in file order.
func Sequences(ctx context.Context, path string) ([][]byte, error) {
	var seqs [][]byte
	err := Each(ctx, path, func(r Record) error {
		seqs = append(seqs, r.Seq)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seqs, nil
}
