// core/align/align.go
package align

import "oligoscreen/core/iupac"

// Params holds the scoring scheme and acceptance threshold.
// A gap of length k costs GapOpen + k*GapExtend; penalties are <= 0.
type Params struct {
	Match         int
	Mismatch      int
	GapOpen       int
	GapExtend     int
	MaxMismatches int
}

// DefaultParams returns the scoring used when nothing is configured.
func DefaultParams() Params {
	return Params{Match: 2, Mismatch: -1, GapOpen: -5, GapExtend: -2, MaxMismatches: 3}
}

// Result is the outcome of aligning one query against one target.
// The zero value is a no-match.
type Result struct {
	Matched    bool
	Start      int    // 0-based start of Subseq in the target
	Subseq     []byte // target slice, len == len(query); aliases the target
	Mismatches int
}

// NoMatch is returned whenever an acceptance criterion fails.
var NoMatch = Result{}

// Align is the stateless form: it allocates scratch space per call.
// Workers screening many windows should hold an Aligner instead.
func Align(query, target []byte, p Params) Result {
	return NewAligner(p).Align(query, target)
}

// Traceback sources, one byte per DP cell.
const (
	srcStop uint8 = iota
	srcDiag
	srcLeft // query base against a gap in the target (insertion)
	srcUp   // target base against a gap in the query (deletion)
)

const negInf = -1 << 30

// Aligner owns the traceback matrix and score rows for one worker.
// It is not safe for concurrent use; create one per goroutine.
type Aligner struct {
	p Params

	trace []uint8 // (len(target)+1) * (len(query)+1)
	prevH []int32
	curH  []int32
	up    []int32 // best score ending in an up-gap, per query column
}

// NewAligner returns an aligner with no scratch allocated yet.
func NewAligner(p Params) *Aligner { return &Aligner{p: p} }

// NewAlignerSized pre-sizes scratch for queries up to maxQuery against
// targets up to maxTarget.
func NewAlignerSized(p Params, maxQuery, maxTarget int) *Aligner {
	a := &Aligner{p: p}
	a.grow(maxQuery, maxTarget)
	return a
}

// Params returns the aligner's scoring scheme.
func (a *Aligner) Params() Params { return a.p }

func (a *Aligner) grow(m, n int) {
	cells := (m + 1) * (n + 1)
	if cap(a.trace) < cells {
		a.trace = make([]uint8, cells)
	}
	a.trace = a.trace[:cells]
	if cap(a.prevH) < m+1 {
		a.prevH = make([]int32, m+1)
		a.curH = make([]int32, m+1)
		a.up = make([]int32, m+1)
	}
	a.prevH, a.curH, a.up = a.prevH[:m+1], a.curH[:m+1], a.up[:m+1]
}

// Align runs Smith–Waterman with affine gaps of query against target and
// applies the acceptance rules: the alignment must cover the whole query,
// contain no gaps, and have at most MaxMismatches substitutions. Query ends
// clipped by the local alignment are projected ungapped onto the target.
func (a *Aligner) Align(query, target []byte) Result {
	m, n := len(query), len(target)
	if m == 0 || n < m {
		return NoMatch
	}
	a.grow(m, n)

	var (
		match    = int32(a.p.Match)
		mismatch = int32(a.p.Mismatch)
		open     = int32(a.p.GapOpen + a.p.GapExtend)
		extend   = int32(a.p.GapExtend)
		w        = m + 1
	)
	prev, cur, up := a.prevH, a.curH, a.up
	for i := range prev {
		prev[i] = 0
		up[i] = negInf
		a.trace[i] = srcStop
	}

	var best int32
	bestJ, bestI := 0, 0
	for j := 1; j <= n; j++ {
		tb := target[j-1]
		row := a.trace[j*w : (j+1)*w]
		row[0] = srcStop
		cur[0] = 0
		left := int32(negInf)
		for i := 1; i <= m; i++ {
			// left gap consumes query[i-1] only, up gap target[j-1] only
			left = max(cur[i-1]+open, left+extend)
			up[i] = max(prev[i]+open, up[i]+extend)

			d := prev[i-1]
			if iupac.BaseMatch(query[i-1], tb) {
				d += match
			} else {
				d += mismatch
			}

			h, src := int32(0), srcStop
			if d > h {
				h, src = d, srcDiag
			}
			if left > h {
				h, src = left, srcLeft
			}
			if up[i] > h {
				h, src = up[i], srcUp
			}
			cur[i] = h
			row[i] = src
			if h > best {
				best, bestJ, bestI = h, j, i
			}
		}
		prev, cur = cur, prev
	}
	if best <= 0 {
		return NoMatch
	}
	return a.accept(query, target, bestJ, bestI)
}

// accept walks the traceback from (j, i) and applies the acceptance rules.
func (a *Aligner) accept(query, target []byte, j, i int) Result {
	m, n, w := len(query), len(target), len(query)+1
	endQ, endT := i, j

walk:
	for i > 0 && j > 0 {
		switch a.trace[j*w+i] {
		case srcStop:
			break walk
		case srcDiag:
			i--
			j--
		default:
			return NoMatch // indel
		}
	}

	// Project clipped query ends onto the target.
	from := j - i
	to := endT + (m - endQ)
	if from < 0 || to > n {
		return NoMatch
	}
	sub := target[from:to]
	mm := 0
	for k := 0; k < m; k++ {
		if !iupac.BaseMatch(query[k], sub[k]) {
			mm++
			if mm > a.p.MaxMismatches {
				return NoMatch
			}
		}
	}
	return Result{Matched: true, Start: from, Subseq: sub, Mismatches: mm}
}
