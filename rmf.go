// SPDX-License-Identifier: MIT

package flzma2

import "sync/atomic"

// rmfTable is the coordinator-owned radix match finder state for one
// dictionary buffer: the cell storage (table), the 65536-entry list-head
// index, and the atomic work-stealing stack Phase B workers claim from.
type rmfTable struct {
	table            matchTable
	listHeads        [radix16TableSize]listHead
	stack            [radix16TableSize]uint32
	stIndex          atomic.Int64
	endIndex         int
	divideAndConquer bool
	depth            int
	dictSize         int
	progress         atomic.Int64
}

func newRMFTable(dictSize int, depth int, divideAndConquer bool) *rmfTable {
	return &rmfTable{
		table:            newMatchTable(dictSize),
		depth:            depth,
		dictSize:         dictSize,
		divideAndConquer: divideAndConquer,
	}
}

const rmfCancelSentinel = int64(1) << 40

// cancelBuild makes every worker's next claim return -1 promptly by pushing
// the atomic stack cursor far past endIndex.
func (rt *rmfTable) cancelBuild() {
	rt.stIndex.Store(int64(rt.endIndex) + rmfCancelSentinel)
}

// resetIncompleteBuild clears the cancellation sentinel and list-head state
// so the table can be reinitialized for the next block.
func (rt *rmfTable) resetIncompleteBuild() {
	rt.stIndex.Store(0)
	for i := range rt.listHeads {
		rt.listHeads[i] = listHead{head: radixNullLink, count: 0}
	}
}

// nextListAtomic claims the next stack slot for a concurrent worker, or
// returns -1 once the stack is exhausted or cancellation was requested.
func (rt *rmfTable) nextListAtomic() int {
	if rt.stIndex.Load() >= int64(rt.endIndex) {
		return -1
	}
	pos := rt.stIndex.Add(1) - 1
	if pos >= int64(rt.endIndex) {
		return -1
	}
	return int(pos)
}

// limitLengths clamps stored match lengths near pos so none extend beyond
// it, per fast-lzma2/radix_bitpack.c's rmf_bitpack_limit_lengths.
func (rt *rmfTable) limitLengths(pos int) {
	if pos == 0 {
		return
	}
	t := rt.table
	t.setNull(pos - 1)
	maxLen := t.maxLength()
	for length := 2; length < maxLen && length <= pos; length++ {
		_, stored, ok := t.get(pos - length)
		if ok && length < stored {
			t.setLength(pos-length, length)
		}
	}
}

// outputBuffer returns a byte view over this table's storage starting at
// cell pos, reusing BUILD-phase memory as ENC-phase output. Callers (the
// pipeline coordinator) must guarantee writes through this slice never
// overtake unread cells.
func (rt *rmfTable) outputBuffer(pos int) []byte {
	return rt.table.outputBuffer(pos)
}

// match is a single match-finder result: Len (in bytes) and Dist (offset-1,
// so Dist==0 means the immediately preceding byte).
type match struct {
	Len  uint32
	Dist uint32
}

// getMatch returns the best match recorded at pos, extended using the data
// buffer out to at most limit bytes past pos.
func (rt *rmfTable) getMatch(data []byte, pos, limit int) (match, bool) {
	link, length, ok := rt.table.get(pos)
	if !ok || length < 2 {
		return match{}, false
	}
	if length > limit-pos {
		length = limit - pos
		if length < matchLenMin {
			return match{}, false
		}
	}
	length = extendMatch(data, rt.table, pos, limit, link, length)
	return match{Len: uint32(length), Dist: uint32(pos - link - 1)}, true
}

// getNextMatch is getMatch under the upstream name for the per-position
// forward walk; nothing in the package calls it (fast_parser.go and
// opt_parser.go call getMatch directly). The upstream one-byte-shorter same-distance short-circuit
// (radix_get.h's rmf_get_next_match) is subsumed here by extendMatch's own
// same-distance chain walk, since Go's bounds-checked slice reads make the
// extra special case not worth the duplicated branch.
func (rt *rmfTable) getNextMatch(data []byte, pos, limit int) (match, bool) {
	return rt.getMatch(data, pos, limit)
}

// extendMatch walks forward from the stored (link,length) while consecutive
// positions stay on the same distance chain (a cheap table read), then
// finishes with a byte compare up to matchLenMax, mirroring
// fast-lzma2/radix_get.h's rmf_*_extend_match.
func extendMatch(data []byte, t matchTable, pos, limit int, link, length int) int {
	maxEnd := pos + matchLenMax
	if limit < maxEnd {
		maxEnd = limit
	}
	dist := pos - link
	end := pos + length
	for end < maxEnd {
		_, _, ok := t.get(end)
		if !ok {
			break
		}
		l2, _, _ := t.get(end)
		if end-l2 != dist {
			break
		}
		end++
	}
	for end < maxEnd {
		n := matchWordCompare(data[end-dist:], data[end:])
		if n == 0 {
			break
		}
		if end+n > maxEnd {
			n = maxEnd - end
		}
		end += n
		if n < 8 {
			break
		}
	}
	return end - pos
}
