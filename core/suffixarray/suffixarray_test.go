package suffixarray

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seedsearch/core/reference"
)

func bruteSA(text []byte) []uint32 {
	sa := make([]uint32, len(text))
	for i := range sa {
		sa[i] = uint32(i)
	}
	sort.Slice(sa, func(a, b int) bool { return bytes.Compare(text[sa[a]:], text[sa[b]:]) < 0 })
	return sa
}

func bruteCount(text, p []byte) int {
	c := 0
	for i := 0; i+len(p) <= len(text); i++ {
		if bytes.Equal(text[i:i+len(p)], p) {
			c++
		}
	}
	return c
}

func randomText(rng *rand.Rand, n int, alphabet string) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return b
}

func TestBuildMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cases := [][]byte{
		[]byte("A"),
		[]byte("banana"),
		[]byte("AAAAAAAA"),
		[]byte("ACGTACGT$"),
		[]byte("ACGT%GG%T$"),
	}
	for i := 0; i < 40; i++ {
		cases = append(cases, randomText(rng, 1+rng.Intn(300), "ACGTN"))
	}
	cases = append(cases, randomText(rng, 2000, "AC"))
	for _, text := range cases {
		got, err := Build(text)
		require.NoError(t, err)
		require.Equal(t, bruteSA(text), got, "text %q", text)
	}
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil)
	require.ErrorIs(t, err, ErrEmptyText)
}

func TestOffsetLimitAgreesWithFileFormat(t *testing.T) {
	assert.True(t, fitsOffsets(math.MaxUint32))
	assert.False(t, fitsOffsets(math.MaxUint32+1))
	require.NoError(t, checkCount(math.MaxUint32))
	require.ErrorIs(t, checkCount(math.MaxUint32+1), ErrCorrupt)
}

func TestIntervalExample(t *testing.T) {
	x, err := FromText([]byte("ACGTACGT$"))
	require.NoError(t, err)

	iv := x.Interval([]byte("ACGT"))
	require.False(t, iv.Empty())
	assert.Equal(t, 2, iv.Len())
	pos := x.Positions([]byte("ACGT"), nil)
	sort.Slice(pos, func(i, j int) bool { return pos[i] < pos[j] })
	assert.Equal(t, []uint32{0, 4}, pos)

	assert.True(t, x.Interval([]byte("TTT")).Empty())
	assert.Equal(t, 0, x.Count([]byte("GTACGTA")))
	// A suffix shorter than the pattern never matches it.
	assert.Equal(t, 0, x.Count([]byte("GT$A")))
	assert.Equal(t, 1, x.Count([]byte("GT$")))
}

func TestEmptyPatternSpansWholeArray(t *testing.T) {
	x, err := FromText([]byte("ACGT$"))
	require.NoError(t, err)
	assert.Equal(t, Interval{Lo: 0, Hi: 4}, x.Interval(nil))
}

func TestCountAgainstScan(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	text := append(randomText(rng, 5000, "ACGT"), '$')
	x, err := FromText(text)
	require.NoError(t, err)
	for i := 0; i < 300; i++ {
		m := 1 + rng.Intn(8)
		var p []byte
		if rng.Intn(2) == 0 {
			s := rng.Intn(len(text) - m)
			p = text[s : s+m]
		} else {
			p = randomText(rng, m, "ACGT")
		}
		require.Equal(t, bruteCount(text, p), x.Count(p), "pattern %q", p)
	}
}

func TestNewRejectsLengthMismatch(t *testing.T) {
	_, err := New([]byte("ACGT"), []uint32{0, 1})
	require.ErrorIs(t, err, ErrCorrupt)
	_, err = New(nil, nil)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestLocatorResolvesAcrossSequences(t *testing.T) {
	ref := &reference.Reference{
		Names: []string{"a", "b"},
		Seqs:  [][]byte{[]byte("ACGTAC"), []byte("GTACGT")},
	}
	txt, err := ref.Concat(1)
	require.NoError(t, err)
	x, err := FromText(txt.Data)
	require.NoError(t, err)

	loc := Locator{Index: x, Text: txt}
	hits := loc.Locate([]byte("ACGT"), nil)
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].SeqID != hits[j].SeqID {
			return hits[i].SeqID < hits[j].SeqID
		}
		return hits[i].Offset < hits[j].Offset
	})
	assert.Equal(t, []reference.Hit{{SeqID: 0, Offset: 0}, {SeqID: 1, Offset: 2}}, hits)
	// Only found if the two sequences were joined without a guard.
	assert.Empty(t, loc.Locate([]byte("ACGTACG"), nil))
}

func TestFileRoundTrip(t *testing.T) {
	text := []byte("ACGTACGTTGCA$")
	sa, err := Build(text)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sa))
	require.Equal(t, 8+4*len(sa), buf.Len())
	assert.Equal(t, uint64(len(sa)), binary.LittleEndian.Uint64(buf.Bytes()[:8]))

	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, sa, got)

	path := filepath.Join(t.TempDir(), "ref.sa")
	require.NoError(t, WriteFile(path, sa))
	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sa, f.SA)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestReadRejectsCorruptFiles(t *testing.T) {
	zero := make([]byte, 8)

	short := make([]byte, 8+4)
	binary.LittleEndian.PutUint64(short, 3)

	outOfRange := make([]byte, 8+8)
	binary.LittleEndian.PutUint64(outOfRange, 2)
	binary.LittleEndian.PutUint32(outOfRange[8:], 0)
	binary.LittleEndian.PutUint32(outOfRange[12:], 2)

	cases := map[string][]byte{
		"zero entries":  zero,
		"short payload": short,
		"out of range":  outOfRange,
		"no header":     {1, 2, 3},
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(data))
			require.ErrorIs(t, err, ErrCorrupt)

			path := filepath.Join(t.TempDir(), "bad.sa")
			require.NoError(t, os.WriteFile(path, data, 0o644))
			_, err = Load(path)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}
