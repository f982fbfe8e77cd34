//go:build !unix

package suffixarray

import (
	"fmt"
	"os"
)

// Load reads the suffix array file at path into memory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sa, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &File{SA: sa}, nil
}
