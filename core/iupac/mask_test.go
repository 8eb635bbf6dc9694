package iupac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskTable_Snapshot(t *testing.T) {
	// Spot check canonical bases
	if FromByte('A') != 1 || FromByte('C') != 2 || FromByte('G') != 4 || FromByte('T') != 8 {
		t.Fatalf("canonical masks corrupted: A=%d C=%d G=%d T=%d", FromByte('A'), FromByte('C'), FromByte('G'), FromByte('T'))
	}
	// U must behave like T
	if FromByte('U') != FromByte('T') || FromByte('u') != FromByte('t') {
		t.Fatalf("U/u must equal T/t")
	}
	if FromByte('R') != (1|4) || FromByte('Y') != (2|8) || FromByte('N') != (1|2|4|8) {
		t.Fatalf("ambiguity masks corrupted: R=%d Y=%d N=%d", FromByte('R'), FromByte('Y'), FromByte('N'))
	}
	if FromByte('r') != FromByte('R') || FromByte('n') != FromByte('N') {
		t.Fatalf("lowercase masks must mirror uppercase")
	}
	if FromByte('X') != 0 || FromByte('-') != 0 {
		t.Fatalf("non-IUPAC letters must encode to 0")
	}
}

func TestMaskLetterRoundTrip(t *testing.T) {
	for _, c := range []byte("ACGTRYSWKMBDHVN") {
		assert.Equal(t, c, FromByte(c).Byte(), "letter %c", c)
	}
}

func TestMaskAlgebra(t *testing.T) {
	assert.Equal(t, W, Union(A, T))
	assert.True(t, Intersects(R, A))
	assert.False(t, Intersects(R, Y))
	assert.True(t, N.Contains(W))
	assert.False(t, W.Contains(C))
	assert.True(t, A.Contains(A))

	tests := []struct {
		m          Mask
		pop, deg   int
		isBase     bool
		complement Mask
	}{
		{A, 1, 0, true, T},
		{G, 1, 0, true, C},
		{R, 2, 1, false, Y},
		{S, 2, 1, false, S},
		{B, 3, 2, false, V},
		{D, 3, 2, false, H},
		{N, 4, 3, false, N},
		{0, 0, 0, false, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.pop, tt.m.Popcount(), "popcount %c", tt.m.Byte())
		assert.Equal(t, tt.deg, tt.m.Degree(), "degree %c", tt.m.Byte())
		assert.Equal(t, tt.isBase, tt.m.IsBase(), "isBase %c", tt.m.Byte())
		assert.Equal(t, tt.complement, tt.m.Complement(), "complement %c", tt.m.Byte())
	}
}

func TestBaseMatch(t *testing.T) {
	assert.True(t, BaseMatch('A', 'A'))
	assert.True(t, BaseMatch('R', 'G'))
	assert.False(t, BaseMatch('A', 'C'))
	// target N is a hard mismatch, even against a query N
	assert.False(t, BaseMatch('A', 'N'))
	assert.False(t, BaseMatch('N', 'N'))
}

func TestConsensusAmbiguities(t *testing.T) {
	assert.Equal(t, 0, Parse("ACGT").Ambiguities())
	assert.Equal(t, 1, Parse("ACGW").Ambiguities())
	assert.Equal(t, 1+2+3, Parse("RBNA").Ambiguities())
}

func TestConsensusCoversAndMerge(t *testing.T) {
	c := Parse("ACGT")
	m, ok := c.Merge(Parse("ACGA"), 0)
	if !ok {
		t.Fatal("merge without forbidden mask must succeed")
	}
	assert.Equal(t, "ACGW", m.String())
	assert.True(t, m.Covers(Parse("ACGT")))
	assert.True(t, m.Covers(Parse("ACGA")))
	assert.False(t, m.Covers(Parse("ACGC")))
	assert.False(t, m.Covers(Parse("ACG")))
	// c untouched
	assert.Equal(t, "ACGT", c.String())

	cost, ok := m.MergeCost(Parse("ACGC"), 0)
	assert.True(t, ok)
	assert.Equal(t, 1, cost) // W -> H
}

func TestMergeForbiddenAnyBase(t *testing.T) {
	c := Parse("AB") // B = C|G|T
	_, ok := c.Merge(Parse("AA"), N)
	assert.False(t, ok, "B|A = N must be rejected when N is forbidden")
	_, ok = c.MergeCost(Parse("AA"), N)
	assert.False(t, ok)

	m, ok := c.Merge(Parse("AA"), 0)
	assert.True(t, ok)
	assert.True(t, m.Has(N))
}

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "WCGT", Parse("ACGW").ReverseComplement().String())
	assert.Equal(t, "NYRA", Parse("TYRN").ReverseComplement().String())
}
