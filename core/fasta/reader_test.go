package fasta

import (
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plain = `>seq1 first record
ACGT
acgt
>seq2
NNryk
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))
	return fn
}

// writeGz creates a gzipped FASTA file with provided data, returns the file path.
func writeGz(t *testing.T, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "test.fa.gz")
	fh, err := os.Create(fn)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())
	return fn
}

func TestReadAllPlain(t *testing.T) {
	fn := writeFile(t, "x.fa", plain)

	recs, err := ReadAll(context.Background(), fn)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "seq1", recs[0].ID)
	assert.Equal(t, "ACGTACGT", string(recs[0].Seq))
	assert.Equal(t, "seq2", recs[1].ID)
	assert.Equal(t, "NNNNN", string(recs[1].Seq))
}

func TestReadAllGzip(t *testing.T) {
	fn := writeGz(t, plain)

	seqs, err := Sequences(context.Background(), fn)
	require.NoError(t, err)
	require.Len(t, seqs, 2)
	assert.Equal(t, "ACGTACGT", string(seqs[0]))
}

func TestReadAllFastq(t *testing.T) {
	fn := writeFile(t, "x.fq", "@r1\nACGA\n+\nIIII\n@r2\nTTTT\n+\nIIII\n")

	recs, err := ReadAll(context.Background(), fn)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "r1", recs[0].ID)
	assert.Equal(t, "ACGA", string(recs[0].Seq))
	assert.Equal(t, "TTTT", string(recs[1].Seq))
}

func TestEachRestartable(t *testing.T) {
	fn := writeFile(t, "x.fa", plain)

	for i := 0; i < 2; i++ {
		n := 0
		require.NoError(t, Each(context.Background(), fn, func(Record) error {
			n++
			return nil
		}))
		assert.Equal(t, 2, n, "pass %d", i)
	}
}

func TestEachStopsOnEmitError(t *testing.T) {
	fn := writeFile(t, "x.fa", plain)
	stop := errors.New("stop")

	n := 0
	err := Each(context.Background(), fn, func(Record) error {
		n++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)
}

func TestEachCanceled(t *testing.T) {
	fn := writeFile(t, "x.fa", plain)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := 0
	err := Each(ctx, fn, func(Record) error {
		n++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestMissingFile(t *testing.T) {
	_, err := ReadAll(context.Background(), filepath.Join(t.TempDir(), "nope.fa"))
	var oe *OpenError
	require.True(t, errors.As(err, &oe))
	assert.Contains(t, oe.Path, "nope.fa")
}

func TestEmptyFileHasNoRecords(t *testing.T) {
	fn := writeFile(t, "empty.fa", "")
	recs, err := ReadAll(context.Background(), fn)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
