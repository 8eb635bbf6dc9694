// core/iupac/consensus.go
package iupac

// Consensus is a sequence of base masks. A plain sequence encodes to a
// consensus with one bit set per position.
type Consensus []Mask

// Encode converts IUPAC letters into masks. Unknown letters encode to 0.
func Encode(seq []byte) Consensus {
	out := make(Consensus, len(seq))
	for i, c := range seq {
		out[i] = byteMask[c]
	}
	return out
}

// Parse encodes s, for tests and wire decoding.
func Parse(s string) Consensus { return Encode([]byte(s)) }

// String renders the consensus as IUPAC letters.
func (c Consensus) String() string {
	b := make([]byte, len(c))
	for i, m := range c {
		b[i] = m.Byte()
	}
	return string(b)
}

// Ambiguities is the total ambiguity count: the sum of popcount-1 over all
// positions with more than one base.
func (c Consensus) Ambiguities() int {
	n := 0
	for _, m := range c {
		n += m.Degree()
	}
	return n
}

// Covers reports whether every position of seq is a subset of c at the same
// position. Lengths must match.
func (c Consensus) Covers(seq Consensus) bool {
	if len(c) != len(seq) {
		return false
	}
	for i, m := range seq {
		if m&^c[i] != 0 {
			return false
		}
	}
	return true
}

// Has reports whether any position equals m.
func (c Consensus) Has(m Mask) bool {
	for _, x := range c {
		if x == m {
			return true
		}
	}
	return false
}

// MergeCost returns the ambiguity added by merging other into c, and false if
// any merged position would equal forbidden. Pass N as forbidden to exclude the
// any-base code; pass 0 to allow everything (a union of bases is never 0).
func (c Consensus) MergeCost(other Consensus, forbidden Mask) (int, bool) {
	added := 0
	for i, m := range c {
		u := m | other[i]
		if u == m {
			continue
		}
		if u == forbidden {
			return 0, false
		}
		added += u.Degree() - m.Degree()
	}
	return added, true
}

// Merge returns the position-wise union of c and other, or false if a
// position would equal forbidden. c is not modified.
func (c Consensus) Merge(other Consensus, forbidden Mask) (Consensus, bool) {
	out := make(Consensus, len(c))
	for i, m := range c {
		u := m | other[i]
		if u == forbidden {
			return nil, false
		}
		out[i] = u
	}
	return out, true
}

// MergeInto is Merge writing into dst, which must have len(c).
func (c Consensus) MergeInto(dst, other Consensus) {
	for i, m := range c {
		dst[i] = m | other[i]
	}
}

// Clone returns a copy of c.
func (c Consensus) Clone() Consensus { return append(Consensus(nil), c...) }

// ReverseComplement returns the reverse complement of c.
func (c Consensus) ReverseComplement() Consensus {
	n := len(c)
	out := make(Consensus, n)
	for i, m := range c {
		out[n-1-i] = m.Complement()
	}
	return out
}
