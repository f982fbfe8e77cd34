package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateToCount(t *testing.T) {
	qs := [][]byte{[]byte("A"), []byte("C"), []byte("G")}
	for _, n := range []int{1, 2, 3, 4, 7, 100} {
		out, err := DuplicateToCount(qs, n)
		require.NoError(t, err)
		require.Len(t, out, n)
		for i := range out {
			assert.Equal(t, qs[i%len(qs)], out[i], "n=%d i=%d", n, i)
		}
	}
}

func TestDuplicateToCountSharesBytes(t *testing.T) {
	q := []byte("ACGT")
	out, err := DuplicateToCount([][]byte{q}, 4)
	require.NoError(t, err)
	out[3][0] = 'T'
	assert.Equal(t, byte('T'), q[0])
}

func TestDuplicateToCountEdges(t *testing.T) {
	out, err := DuplicateToCount(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = DuplicateToCount([][]byte{[]byte("A")}, 0)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = DuplicateToCount(nil, 5)
	require.ErrorIs(t, err, ErrNoQueries)
}
