package fmindex

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec selects the compression applied to a saved index.
type Codec uint8

const (
	CodecNone Codec = 0
	CodecLZ4  Codec = 1
	CodecZstd Codec = 2
)

const (
	magic   = "SQFM"
	version = 1
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecLZ4:
		return "lz4"
	case CodecZstd:
		return "zstd"
	}
	return fmt.Sprintf("codec(%d)", uint8(c))
}

// ParseCodec maps a codec name to its Codec.
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	case "none":
		return CodecNone, nil
	}
	return 0, fmt.Errorf("unknown codec %q (want zstd, lz4 or none)", name)
}

// blob is the gob payload.
type blob struct {
	N          int
	BWT        []byte
	C          []uint32
	Occ        []uint32
	SampledLen uint
	Sampled    []uint64
	Samples    []uint32
	SampleRate int
	Starts     []uint32
	Lens       []uint32
}

// Save writes the index to w: magic, version, codec, then the compressed gob payload.
func (x *Index) Save(w io.Writer, codec Codec) error {
	hdr := []byte{magic[0], magic[1], magic[2], magic[3], version, byte(codec)}
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	var (
		body  io.Writer
		flush func() error
	)
	switch codec {
	case CodecNone:
		bw := bufio.NewWriter(w)
		body, flush = bw, bw.Flush
	case CodecLZ4:
		lw := lz4.NewWriter(w)
		body, flush = lw, lw.Close
	case CodecZstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		body, flush = zw, zw.Close
	default:
		return fmt.Errorf("fmindex: cannot save with %s", codec)
	}

	b := blob{
		N:          x.n,
		BWT:        x.bwt,
		C:          x.c[:],
		Occ:        x.occ,
		SampledLen: x.sampled.Len(),
		Sampled:    x.sampled.Bytes(),
		Samples:    x.samples,
		SampleRate: x.sampleRate,
		Starts:     x.starts,
		Lens:       x.lens,
	}
	if err := gob.NewEncoder(body).Encode(&b); err != nil {
		_ = flush()
		return fmt.Errorf("fmindex: encode: %w", err)
	}
	return flush()
}

// SaveFile writes the index to path.
func (x *Index) SaveFile(path string, codec Codec) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := x.Save(f, codec); err != nil {
		_ = f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}

// Load reads an index written by Save.
func Load(r io.Reader) (*Index, error) {
	var hdr [6]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if string(hdr[:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, hdr[:4])
	}
	if hdr[4] != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, hdr[4])
	}

	var body io.Reader
	switch Codec(hdr[5]) {
	case CodecNone:
		body = bufio.NewReader(r)
	case CodecLZ4:
		body = lz4.NewReader(r)
	case CodecZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		body = zr
	default:
		return nil, fmt.Errorf("%w: unknown codec %d", ErrCorrupt, hdr[5])
	}

	var b blob
	if err := gob.NewDecoder(body).Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCorrupt, err)
	}
	return fromBlob(&b)
}

// LoadFile reads the index stored at path.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	x, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return x, nil
}

func fromBlob(b *blob) (*Index, error) {
	switch {
	case b.N <= 0 || uint64(b.N) > math.MaxUint32 || len(b.BWT) != b.N:
		return nil, fmt.Errorf("%w: bwt length %d, n=%d", ErrCorrupt, len(b.BWT), b.N)
	case len(b.C) != sigma+1 || b.C[0] != 0 || int(b.C[sigma]) != b.N:
		return nil, fmt.Errorf("%w: count table", ErrCorrupt)
	case len(b.Occ) != (b.N/checkpoint+1)*sigma:
		return nil, fmt.Errorf("%w: occurrence table has %d entries", ErrCorrupt, len(b.Occ))
	case b.SampledLen != uint(b.N) || b.SampleRate <= 0:
		return nil, fmt.Errorf("%w: sample marks", ErrCorrupt)
	case len(b.Starts) != len(b.Lens) || len(b.Starts) == 0:
		return nil, fmt.Errorf("%w: sequence layout", ErrCorrupt)
	}
	if err := checkTables(b); err != nil {
		return nil, err
	}
	for i, pos := range b.Samples {
		if int(pos) >= b.N || int(pos)%b.SampleRate != 0 {
			return nil, fmt.Errorf("%w: sample %d = %d", ErrCorrupt, i, pos)
		}
	}
	// Sequences lie in order, disjoint, before the trailing sentinel.
	var end uint64
	for i := range b.Starts {
		start := uint64(b.Starts[i])
		if start < end || start+uint64(b.Lens[i]) >= uint64(b.N) {
			return nil, fmt.Errorf("%w: sequence %d at %d+%d", ErrCorrupt, i, b.Starts[i], b.Lens[i])
		}
		end = start + uint64(b.Lens[i])
	}

	sampled := bitset.FromWithLength(b.SampledLen, b.Sampled)
	if sampled.Count() != uint(len(b.Samples)) {
		return nil, fmt.Errorf("%w: %d sample marks, %d samples", ErrCorrupt, sampled.Count(), len(b.Samples))
	}
	x := &Index{
		n:          b.N,
		bwt:        b.BWT,
		occ:        b.Occ,
		sampled:    sampled,
		samples:    b.Samples,
		sampleRate: b.SampleRate,
		starts:     b.Starts,
		lens:       b.Lens,
	}
	copy(x.c[:], b.C)
	x.layout.Starts, x.layout.Lens = x.starts, x.lens
	return x, nil
}

// checkTables recomputes the symbol counts and occurrence checkpoints from
// the BWT and compares them with the stored tables.
func checkTables(b *blob) error {
	var run [sigma]uint32
	for row, s := range b.BWT {
		if int(s) >= sigma {
			return fmt.Errorf("%w: bwt symbol %d", ErrCorrupt, s)
		}
		if row%checkpoint == 0 && !slices.Equal(b.Occ[(row/checkpoint)*sigma:][:sigma], run[:]) {
			return fmt.Errorf("%w: occurrence checkpoint at row %d", ErrCorrupt, row)
		}
		run[s]++
	}
	if b.N%checkpoint == 0 && !slices.Equal(b.Occ[(b.N/checkpoint)*sigma:][:sigma], run[:]) {
		return fmt.Errorf("%w: final occurrence checkpoint", ErrCorrupt)
	}
	if run[0] != 1 {
		return fmt.Errorf("%w: %d sentinels", ErrCorrupt, run[0])
	}
	for s := 0; s < sigma; s++ {
		if b.C[s+1] < b.C[s] || b.C[s+1]-b.C[s] != run[s] {
			return fmt.Errorf("%w: count table entry %d", ErrCorrupt, s)
		}
	}
	return nil
}
