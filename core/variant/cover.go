// core/variant/cover.go
package variant

import (
	"sort"

	"oligoscreen/core/iupac"
)

// group is one distinct matched sequence and its multiplicity.
type group struct {
	seq    iupac.Consensus
	weight int
}

// collapse groups identical sequences, keeping first-seen order.
func collapse(seqs [][]byte) []group {
	idx := make(map[string]int, len(seqs))
	var out []group
	for _, s := range seqs {
		if i, ok := idx[string(s)]; ok {
			out[i].weight++
			continue
		}
		idx[string(s)] = len(out)
		out = append(out, group{seq: iupac.Encode(s), weight: 1})
	}
	return out
}

// pool is the uncovered set during greedy covering. Groups are held in
// descending weight order (first-seen on ties); that order is the seed order
// and the final tie-break everywhere.
type pool struct {
	groups    []group
	alive     []bool
	remaining int // uncovered weight
	forbidden iupac.Mask
}

func newPool(groups []group, excludeN bool) *pool {
	gs := append([]group(nil), groups...)
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].weight > gs[j].weight })
	p := &pool{groups: gs, alive: make([]bool, len(gs))}
	for i, g := range gs {
		p.alive[i] = true
		p.remaining += g.weight
	}
	if excludeN {
		p.forbidden = iupac.N
	}
	return p
}

// grow builds a consensus from seed by repeatedly merging the uncovered
// sequence that adds the fewest ambiguities per covered sequence, as long
// as the total stays within budget. limited reports whether some merge was
// turned down only because of the budget. merged reports whether anything
// was merged at all.
func (p *pool) grow(seed, budget int) (cons iupac.Consensus, amb int, limited, merged bool) {
	cons = p.groups[seed].seq.Clone()
	for {
		best, bestCost, bestW := -1, 0, 0
		for k, g := range p.groups {
			if !p.alive[k] || cons.Covers(g.seq) {
				continue
			}
			cost, ok := cons.MergeCost(g.seq, p.forbidden)
			if !ok {
				continue
			}
			if amb+cost > budget {
				limited = true
				continue
			}
			// cost/weight ratio, then heavier, then earlier
			if best < 0 || cost*bestW < bestCost*g.weight ||
				(cost*bestW == bestCost*g.weight && g.weight > bestW) {
				best, bestCost, bestW = k, cost, g.weight
			}
		}
		if best < 0 {
			return cons, amb, limited, merged
		}
		cons.MergeInto(cons, p.groups[best].seq)
		amb += bestCost
		merged = true
	}
}

// covered is the uncovered weight that cons would absorb.
func (p *pool) covered(cons iupac.Consensus) int {
	n := 0
	for k, g := range p.groups {
		if p.alive[k] && cons.Covers(g.seq) {
			n += g.weight
		}
	}
	return n
}

type candidate struct {
	cons    iupac.Consensus
	cover   int
	amb     int
	limited bool // some seed hit the budget
	merged  bool // some seed merged at least one sequence
}

// best grows a consensus from every live seed and keeps the one covering the
// most weight (fewer ambiguities, then earlier seed, on ties). Seeds already
// absorbed by an earlier seed's consensus in the same round are skipped.
func (p *pool) best(budget int) candidate {
	var c candidate
	var grown []iupac.Consensus
seeds:
	for s := range p.groups {
		if !p.alive[s] {
			continue
		}
		for _, g := range grown {
			if g.Covers(p.groups[s].seq) {
				continue seeds
			}
		}
		cons, amb, lim, merged := p.grow(s, budget)
		grown = append(grown, cons)
		c.limited = c.limited || lim
		c.merged = c.merged || merged
		cov := p.covered(cons)
		if c.cons == nil || cov > c.cover || (cov == c.cover && amb < c.amb) {
			c.cons, c.cover, c.amb = cons, cov, amb
		}
	}
	return c
}

// take removes everything cons covers and returns the removed weight.
func (p *pool) take(cons iupac.Consensus) int {
	n := 0
	for k, g := range p.groups {
		if p.alive[k] && cons.Covers(g.seq) {
			p.alive[k] = false
			n += g.weight
		}
	}
	p.remaining -= n
	return n
}

// takeTop removes the heaviest live sequence as an exact variant.
func (p *pool) takeTop() pick {
	for k, g := range p.groups {
		if p.alive[k] {
			p.alive[k] = false
			p.remaining -= g.weight
			return pick{cons: g.seq, count: g.weight}
		}
	}
	return pick{}
}

// fixed runs bounded greedy set cover.
func (p *pool) fixed(budget int) []pick {
	var out []pick
	for p.remaining > 0 {
		c := p.best(budget)
		if !c.merged {
			// nothing fits the budget any more: exact remainder
			for p.remaining > 0 {
				out = append(out, p.takeTop())
			}
			break
		}
		out = append(out, pick{cons: c.cons, count: p.take(c.cons)})
	}
	return out
}

// incremental extracts one variant per round at the lowest ambiguity level
// whose best consensus covers pct percent of the remaining weight.
func (p *pool) incremental(pct, maxAmb int) []pick {
	var out []pick
	limit := 0
	if len(p.groups) > 0 {
		per := 3
		if p.forbidden == iupac.N {
			per = 2
		}
		limit = len(p.groups[0].seq) * per
	}
	if maxAmb < 0 || maxAmb > limit {
		maxAmb = limit
	}
	for p.remaining > 0 {
		accepted := false
		for level := 0; level <= maxAmb; level++ {
			c := p.best(level)
			if c.cover*100 >= pct*p.remaining {
				out = append(out, pick{cons: c.cons, count: p.take(c.cons)})
				accepted = true
				break
			}
			if !c.limited {
				break // a larger budget would build the same consensus
			}
		}
		if !accepted {
			out = append(out, p.takeTop())
		}
	}
	return out
}
