// SPDX-License-Identifier: MIT
//
// The forward price-fill / backward backtrack DP samples a reduced
// candidate set per position (see optCandidateLens) rather than every
// (length, distance) pair a textbook optimal parser would try, trading a
// slightly less optimal parse for a DP that fits the one match per
// position the radix match finder hands it. See DESIGN.md.

package flzma2

// optNode is one slot of the forward price-fill window: the cheapest known
// price to reach this position, the edge that achieves it, and the encoder
// state/rep history that edge produces (needed to price the next step).
type optNode struct {
	price    uint32
	from     int
	isRep    bool
	repIndex int
	dist     uint32
	length   uint32
	state    int
	reps     [kNumReps]uint32
	reached  bool
}

const infinitePrice = ^uint32(0) >> 1

// optCandidateLens returns the match-length endpoints worth pricing
// separately for a match of the given max length: the minimum, the
// maximum, and the maximum less one (covering the common case where
// stopping one byte short lets the next position start a cheaper rep).
func optCandidateLens(maxLen int) []int {
	if maxLen < matchLenMin {
		return nil
	}
	if maxLen == matchLenMin {
		return []int{maxLen}
	}
	if maxLen == matchLenMin+1 {
		return []int{matchLenMin, maxLen}
	}
	return []int{matchLenMin, maxLen - 1, maxLen}
}

// optimalBlockEncode runs the DP parser over data[start:end), sized to the
// caller's niceLen/optBufSize window, and returns the number of symbols
// emitted (see fastBlockEncode for why callers want this).
func optimalBlockEncode(e *rangeEncoder, s *lzmaState, rt *rmfTable, data []byte, start, end, niceLen int) int {
	ensurePriceTable()
	pos := start
	symbols := 0

	window := make([]optNode, optBufSize+1)

	for pos < end {
		winEnd := end - pos
		if winEnd > optBufSize {
			winEnd = optBufSize
		}

		window[0] = optNode{state: s.state, reps: s.reps, reached: true}
		for i := 1; i <= winEnd; i++ {
			window[i] = optNode{price: infinitePrice}
		}

		last := fillOptWindow(s, rt, data, pos, end, window, winEnd, niceLen)

		ops := backtrackOpt(window, last)
		for _, op := range ops {
			applyOptOp(e, s, data, pos, op)
			pos += op.length
			symbols++
		}
	}
	return symbols
}

type optOp struct {
	isRep    bool
	repIndex int
	dist     uint32
	length   int
}

// fillOptWindow performs the forward price fill and returns the index of
// the last position it could assign a finite price to (may be < winEnd if
// a nice-length match let the loop stop early).
//
// The price* helpers read their (state, reps) from s directly rather than
// taking them as parameters, so each node is priced by swapping s's live
// state/reps for the node's own, pricing, then restoring -- the shared
// probability tables on s are only read here, never mutated, so this is
// safe across nodes and across the two DP passes (literal/rep/match) run
// for each one.
func fillOptWindow(s *lzmaState, rt *rmfTable, data []byte, base, end int, window []optNode, winEnd, niceLen int) int {
	savedState, savedReps := s.state, s.reps
	defer func() { s.state, s.reps = savedState, savedReps }()

	withNode := func(n *optNode, f func()) {
		s.state, s.reps = n.state, n.reps
		f()
	}

	for i := 0; i < winEnd; i++ {
		n := &window[i]
		if !n.reached || n.price == infinitePrice {
			continue
		}
		pos := base + i

		withNode(n, func() {
			// Literal.
			relax(window, i+1, n.price+priceLiteral(s, data, pos), i, false, 0, 0, 1,
				litNextState[n.state], n.reps)

			// Rep matches.
			for idx, d := range n.reps {
				back := pos - int(d) - 1
				if back < 0 {
					continue
				}
				l := commonPrefixLen(data, back, pos, end-pos)
				if l < 1 {
					continue
				}
				if l == 1 && idx != 0 {
					continue
				}
				lens := optCandidateLens(l)
				if l == 1 {
					lens = []int{1}
				}
				for _, ln := range lens {
					if i+ln > winEnd {
						continue
					}
					var price uint32
					var nextState int
					newReps := n.reps
					if ln == 1 && idx == 0 {
						price = n.price + priceShortRep(s, pos)
						nextState = shortRepNextState[n.state]
					} else {
						price = n.price + priceRepLong(s, pos, uint32(ln), idx)
						nextState = repNextState[n.state]
					}
					rotateReps(&newReps, idx)
					relax(window, i+ln, price, i, true, idx, 0, ln, nextState, newReps)
				}
			}
		})

		// Normal match.
		if m, ok := rt.getMatch(data, pos, end); ok && int(m.Len) >= matchLenMin {
			maxLen := int(m.Len)
			if i+maxLen > winEnd {
				maxLen = winEnd - i
			}
			withNode(n, func() {
				for _, ln := range optCandidateLens(maxLen) {
					price := n.price + priceNormalMatch(s, pos, uint32(ln), m.Dist)
					newReps := n.reps
					newReps[3], newReps[2], newReps[1], newReps[0] = newReps[2], newReps[1], newReps[0], m.Dist
					relax(window, i+ln, price, i, false, 0, m.Dist, ln, matchNextState[n.state], newReps)
				}
			})
			if maxLen >= niceLen {
				return i + maxLen
			}
		}
	}
	return winEnd
}

func rotateReps(reps *[kNumReps]uint32, idx int) {
	d := reps[idx]
	switch idx {
	case 1:
		reps[1] = reps[0]
	case 2:
		reps[2] = reps[1]
		reps[1] = reps[0]
	case 3:
		reps[3] = reps[2]
		reps[2] = reps[1]
		reps[1] = reps[0]
	}
	reps[0] = d
}

func relax(window []optNode, to int, price uint32, from int, isRep bool, repIndex int, dist uint32, length int, state int, reps [kNumReps]uint32) {
	if to >= len(window) {
		return
	}
	n := &window[to]
	if n.reached && n.price <= price {
		return
	}
	*n = optNode{
		price: price, from: from, isRep: isRep, repIndex: repIndex,
		dist: dist, length: uint32(length), state: state, reps: reps, reached: true,
	}
}

// backtrackOpt walks predecessor links from `last` back to 0 and returns
// the chosen ops in forward order.
func backtrackOpt(window []optNode, last int) []optOp {
	var ops []optOp
	i := last
	for i > 0 {
		n := &window[i]
		ops = append(ops, optOp{isRep: n.isRep, repIndex: n.repIndex, dist: n.dist, length: int(n.length)})
		i = n.from
	}
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops
}

func applyOptOp(e *rangeEncoder, s *lzmaState, data []byte, pos int, op optOp) {
	if !op.isRep && op.length == 1 {
		encodeLiteral(e, s, data, pos)
		return
	}
	if op.isRep {
		if op.length == 1 && op.repIndex == 0 {
			encodeShortRep(e, s, pos)
		} else {
			encodeRepLong(e, s, pos, uint32(op.length), op.repIndex)
		}
		return
	}
	encodeNormalMatch(e, s, pos, uint32(op.length), op.dist)
}
