// core/alphabet/alphabet.go
package alphabet

// Byte values shared by every index backend. Sentinel sorts below all bases and
// the separator, so suffix comparisons terminate cleanly at the end of the text.
const (
	Sentinel  byte = '$'
	Separator byte = '%'
)

// Bases lists the dna5 symbols in byte order.
var Bases = [...]byte{'A', 'C', 'G', 'N', 'T'}

/* --------------------------- dna5 lookup table --------------------------- */

var dna5 [256]byte

func init() {
	for i := range dna5 {
		dna5[i] = 'N'
	}
	for _, b := range []byte("ACGTN") {
		dna5[b] = b
		dna5[b+('a'-'A')] = b
	}
}

// IsBase reports whether b is one of A, C, G, T, N (upper case).
func IsBase(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T', 'N':
		return true
	}
	return false
}

// Normalize upper-cases seq in place and maps every byte outside ACGTN to N.
func Normalize(seq []byte) []byte {
	for i, c := range seq {
		seq[i] = dna5[c]
	}
	return seq
}

// NormalizeString is the string form of Normalize.
func NormalizeString(s string) string {
	b := []byte(s)
	return string(Normalize(b))
}
