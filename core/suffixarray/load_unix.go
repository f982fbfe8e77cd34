//go:build unix

package suffixarray

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Load maps the suffix array file at path. On little-endian hosts the
// offsets are read in place from the mapping; otherwise they are decoded
// into a private copy and the mapping is released immediately.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size < headerSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrCorrupt, path, size)
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("%w: %s too large to map", ErrCorrupt, path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	unmap := func() error { return unix.Munmap(data) }

	if !littleEndian() {
		sa, err := decode(data)
		_ = unmap()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &File{SA: sa}, nil
	}

	n, err := checkImage(data)
	if err != nil {
		_ = unmap()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// The 8-byte header keeps the payload 4-byte aligned on a page-aligned mapping.
	sa := unsafe.Slice((*uint32)(unsafe.Pointer(&data[headerSize])), int(n))
	if err := checkOffsets(sa); err != nil {
		_ = unmap()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	_ = unix.Madvise(data, unix.MADV_RANDOM)
	return &File{SA: sa, close: unmap}, nil
}

func littleEndian() bool {
	var x uint16 = 1
	return *(*byte)(unsafe.Pointer(&x)) == 1
}
