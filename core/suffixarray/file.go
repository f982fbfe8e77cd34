// core/suffixarray/file.go
package suffixarray

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrCorrupt reports a persisted suffix array that cannot be trusted.
var ErrCorrupt = errors.New("suffixarray: corrupt suffix array file")

const headerSize = 8

// Write serializes sa as a little-endian u64 count followed by u32 offsets.
func Write(w io.Writer, sa []uint32) error {
	bw := bufio.NewWriterSize(w, 1<<16)
	var hdr [headerSize]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(len(sa)))
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}
	var buf [4]byte
	for _, v := range sa {
		binary.LittleEndian.PutUint32(buf[:], v)
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes sa to path, replacing any existing file.
func WriteFile(path string, sa []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, sa); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Read decodes a suffix array written by Write.
func Read(r io.Reader) ([]uint32, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	var hdr [headerSize]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	n := binary.LittleEndian.Uint64(hdr[:])
	if err := checkCount(n); err != nil {
		return nil, err
	}
	sa := make([]uint32, n)
	var buf [4]byte
	for i := range sa {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: short payload at entry %d of %d", ErrCorrupt, i, n)
		}
		sa[i] = binary.LittleEndian.Uint32(buf[:])
	}
	if _, err := br.ReadByte(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing bytes after %d entries", ErrCorrupt, n)
	}
	if err := checkOffsets(sa); err != nil {
		return nil, err
	}
	return sa, nil
}

// File is a loaded suffix array. When backed by a memory mapping, SA is only
// valid until Close.
type File struct {
	SA    []uint32
	close func() error
}

// Close releases the mapping, if any. It is safe to call more than once.
func (f *File) Close() error {
	if f == nil || f.close == nil {
		return nil
	}
	c := f.close
	f.close = nil
	f.SA = nil
	return c()
}

// decode validates a complete file image and returns its offsets as a copy.
func decode(data []byte) ([]uint32, error) {
	n, err := checkImage(data)
	if err != nil {
		return nil, err
	}
	sa := make([]uint32, n)
	for i := range sa {
		sa[i] = binary.LittleEndian.Uint32(data[headerSize+4*i:])
	}
	if err := checkOffsets(sa); err != nil {
		return nil, err
	}
	return sa, nil
}

func checkImage(data []byte) (uint64, error) {
	if len(data) < headerSize {
		return 0, fmt.Errorf("%w: %d bytes, need at least %d", ErrCorrupt, len(data), headerSize)
	}
	n := binary.LittleEndian.Uint64(data[:headerSize])
	if err := checkCount(n); err != nil {
		return 0, err
	}
	if want := uint64(headerSize) + 4*n; uint64(len(data)) != want {
		return 0, fmt.Errorf("%w: %d bytes, header announces %d entries (%d bytes)", ErrCorrupt, len(data), n, want)
	}
	return n, nil
}

func checkCount(n uint64) error {
	if n == 0 {
		return fmt.Errorf("%w: zero entries", ErrCorrupt)
	}
	if !fitsOffsets(n) {
		return fmt.Errorf("%w: %d entries exceed uint32 offsets", ErrCorrupt, n)
	}
	return nil
}

func checkOffsets(sa []uint32) error {
	n := uint64(len(sa))
	for i, v := range sa {
		if uint64(v) >= n {
			return fmt.Errorf("%w: entry %d = %d out of range [0,%d)", ErrCorrupt, i, v, n)
		}
	}
	return nil
}
