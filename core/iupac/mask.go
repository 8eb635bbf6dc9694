// core/iupac/mask.go
package iupac

import "math/bits"

// Mask is a set of nucleotides packed into 4 bits: bit0=A bit1=C bit2=G bit3=T.
// An IUPAC ambiguity code is the union of the bases it stands for.
type Mask uint8

const (
	A Mask = 1 << iota
	C
	G
	T

	R = A | G
	Y = C | T
	S = C | G
	W = A | T
	K = G | T
	M = A | C
	B = C | G | T
	D = A | G | T
	H = A | C | T
	V = A | C | G
	N = A | C | G | T // any base
)

/* -------------------------- IUPAC lookup tables -------------------------- */

var (
	byteMask [256]Mask
	maskByte [16]byte
)

func init() {
	set := func(c byte, m Mask) {
		byteMask[c] = m
		byteMask[c|0x20] = m // lowercase mirrors uppercase
		maskByte[m] = c
	}
	set('A', A)
	set('C', C)
	set('G', G)
	set('T', T)
	set('R', R)
	set('Y', Y)
	set('S', S)
	set('W', W)
	set('K', K)
	set('M', M)
	set('B', B)
	set('D', D)
	set('H', H)
	set('V', V)
	set('N', N)
	// U reads as T; T keeps the canonical letter.
	byteMask['U'], byteMask['u'] = T, T
	maskByte[0] = '-'
}

// FromByte returns the mask of an IUPAC letter, or 0 for anything else.
func FromByte(c byte) Mask { return byteMask[c] }

// Byte returns the IUPAC letter for m ('-' for the empty mask).
func (m Mask) Byte() byte { return maskByte[m&N] }

// Union merges two masks (consensus of two positions).
func Union(a, b Mask) Mask { return a | b }

// Intersects reports whether a and b share at least one base.
func Intersects(a, b Mask) bool { return a&b != 0 }

// Contains reports whether every base of sub is also in m.
func (m Mask) Contains(sub Mask) bool { return sub&^m == 0 }

// Popcount is the number of bases in m; 1 means unambiguous.
func (m Mask) Popcount() int { return bits.OnesCount8(uint8(m)) }

// Degree is the ambiguity contributed by one position: popcount-1 when
// ambiguous, 0 otherwise.
func (m Mask) Degree() int {
	if n := m.Popcount(); n > 1 {
		return n - 1
	}
	return 0
}

// IsBase reports whether m is exactly one of A, C, G or T.
func (m Mask) IsBase() bool { return m != 0 && m&(m-1) == 0 && m <= T }

// Complement swaps A<->T and C<->G bitwise; ambiguity codes map to their
// IUPAC complements (R<->Y, K<->M, B<->V, D<->H; S, W and N are self-complementary).
func (m Mask) Complement() Mask {
	return (m&A)<<3 | (m&T)>>3 | (m&C)<<1 | (m&G)>>1
}

// BaseMatch reports whether query letter q can pair with target letter t.
// A target letter outside A/C/G/T (N, gaps, junk) is a hard mismatch.
func BaseMatch(q, t byte) bool {
	tm := byteMask[t]
	if !tm.IsBase() {
		return false
	}
	return byteMask[q]&tm != 0
}
