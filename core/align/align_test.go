package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignAcceptance(t *testing.T) {
	p := DefaultParams()
	p.MaxMismatches = 1

	tests := []struct {
		name      string
		query     string
		target    string
		params    Params
		wantMatch bool
		wantSub   string
		wantStart int
		wantMM    int
	}{
		{"exact", "ACGT", "ACGTCC", p, true, "ACGT", 0, 0},
		{"terminal mismatch projected", "ACGT", "ACGACC", p, true, "ACGA", 0, 1},
		{"leading mismatch projected", "ACGT", "TTCCGTA", p, true, "CCGT", 2, 1},
		{"internal mismatch", "ACGTACGT", "GGACGAACGTGG", p, true, "ACGAACGT", 2, 1},
		{"too many mismatches", "ACGTACGT", "GGACCAACCTGG", p, false, "", 0, 0},
		{"first occurrence wins", "ACGT", "ACGTTTACGT", p, true, "ACGT", 0, 0},
		{"query overhangs target start", "GGGGACGT", "ACGTAAAA", p, false, "", 0, 0},
		{"query overhangs target end", "ACGTGGGG", "TTTTACGT", p, false, "", 0, 0},
		{"query longer than target", "ACGTACGT", "ACGT", p, false, "", 0, 0},
		{"target N is a mismatch", "ACGT", "ACNT", Params{Match: 2, Mismatch: -1, GapOpen: -5, GapExtend: -2, MaxMismatches: 0}, false, "", 0, 0},
		{"nothing in common", "AAAA", "CCCCCC", p, false, "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Align([]byte(tt.query), []byte(tt.target), tt.params)
			require.Equal(t, tt.wantMatch, got.Matched, "%+v", got)
			if !tt.wantMatch {
				assert.Equal(t, NoMatch.Matched, got.Matched)
				return
			}
			assert.Equal(t, tt.wantSub, string(got.Subseq))
			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantMM, got.Mismatches)
			assert.Len(t, got.Subseq, len(tt.query))
		})
	}
}

func TestAlignRejectsIndels(t *testing.T) {
	query := []byte("AAAAACCCCC")
	target := []byte("AAAAAGCCCCC") // one extra G

	// Expensive gaps: the ungapped diagonal wins with one substitution.
	p := DefaultParams()
	p.MaxMismatches = 1
	got := Align(query, target, p)
	require.True(t, got.Matched)
	assert.Equal(t, 1, got.Mismatches)

	// Free gap opening: the best local alignment contains a deletion.
	cheap := Params{Match: 2, Mismatch: -1, GapOpen: 0, GapExtend: -1, MaxMismatches: 10}
	got = Align(query, target, cheap)
	assert.False(t, got.Matched, "gapped alignment must be rejected: %+v", got)
}

func TestAlignMonotonicInMaxMismatches(t *testing.T) {
	targets := []string{"ACGTACGTAA", "ACCTACGTAA", "ACCTAGGTAA", "TCCTAGGAAA", "GGGGGGGGGG"}
	query := []byte("ACGTACGT")
	for _, tgt := range targets {
		accepted := false
		for mm := 0; mm <= 6; mm++ {
			p := DefaultParams()
			p.MaxMismatches = mm
			got := Align(query, []byte(tgt), p)
			if accepted && !got.Matched {
				t.Fatalf("target %s: accepted at lower threshold but rejected at %d", tgt, mm)
			}
			accepted = accepted || got.Matched
		}
	}
}

func TestAlignerReuseMatchesStateless(t *testing.T) {
	p := DefaultParams()
	a := NewAlignerSized(p, 4, 8)
	cases := []struct{ q, t string }{
		{"ACGT", "ACGTCC"},
		{"ACGTACGTAC", "TTTTACGTACGTACTTTT"}, // grows scratch
		{"ACG", "AAACGA"},
		{"ACGT", "ACGACC"},
	}
	for _, c := range cases {
		want := Align([]byte(c.q), []byte(c.t), p)
		got := a.Align([]byte(c.q), []byte(c.t))
		assert.Equal(t, want, got, "query %s target %s", c.q, c.t)
	}
	assert.Equal(t, p, a.Params())
}

func BenchmarkAligner(b *testing.B) {
	target := []byte("TATGGTACGTCATGTTCTAGAAATGGGCTGTTATGGTACGTCATGTTCTAGAAATGGGCTGT")
	query := []byte("CATGTTCTAGAAATGG")
	a := NewAligner(DefaultParams())
	for i := 0; i < b.N; i++ {
		a.Align(query, target)
	}
}
