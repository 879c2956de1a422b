// SPDX-License-Identifier: MIT
//
// A from-scratch radix match finder typically specializes its list-building
// pass into several hand-unrolled variants (a fixed-depth 8/16-bit radix
// pass, then a separate buffered byte-cache pass for deeper depths) to
// minimize cache misses. This file collapses that into one generic
// recursive byte-partition function (buildList) that keeps the same
// contract -- brute force below maxBruteForceList, repeat suppression above
// maxRepeat, max-depth saturation, nearest-preceding-occurrence linking --
// without the cache-oriented unrolling; see DESIGN.md for the tradeoff.

package flzma2

// rmfBuilder holds the per-worker scratch state for one BUILD phase pass:
// a bound on how many list members to spend brute-force/bucket memory on,
// and the depth ceiling (mirrors upstream's rmf_builder, stripped of the
// tails_8/tails_16/match_buffer fields that existed only to support the
// unrolled passes this port replaces).
type rmfBuilder struct {
	matchBufferLimit int
	maxDepth         int
}

func newRMFBuilder(matchBufferLimit int) *rmfBuilder {
	return &rmfBuilder{matchBufferLimit: matchBufferLimit}
}

// buildTable runs Phase B: claim 16-bit radix lists atomically and recurse
// each into the table until maxDepth is reached or a list is exhausted.
func buildTable(rt *rmfTable, b *rmfBuilder, block dataBlock) {
	if block.end == 0 {
		return
	}
	maxDepth := rt.depth
	if maxDepth > rt.table.maxLength() {
		maxDepth = rt.table.maxLength()
	}
	maxDepth &^= 1
	b.maxDepth = maxDepth

	for {
		pos := rt.nextListAtomic()
		if pos < 0 {
			break
		}
		radix := int(rt.stack[pos])
		lh := rt.listHeads[radix]
		rt.listHeads[radix].head = radixNullLink
		if lh.count < 2 || int(lh.head) < block.start {
			continue
		}
		positions := collectList(rt.table, int(lh.head), int(lh.count))
		buildList(b, rt.table, block.data, block.start, positions, 2, maxDepth)
	}
	rt.progress.Add(int64(block.end - block.start))
}

// collectList walks the Phase A linked list starting at head, returning its
// members from newest to oldest.
func collectList(t matchTable, head, count int) []int {
	positions := make([]int, 0, count)
	p := head
	for {
		positions = append(positions, p)
		link, _, ok := t.get(p)
		if !ok {
			break
		}
		p = link
	}
	return positions
}

// buildList extends the common prefix of positions (currently known equal
// for `depth` bytes) until maxDepth, writing (link,length) pairs for every
// member whose preceding occurrence was resolved.
func buildList(b *rmfBuilder, t matchTable, data []byte, blockStart int, positions []int, depth, maxDepth int) {
	n := len(positions)
	if n < 2 {
		return
	}
	if n <= maxBruteForceList {
		bruteForceGroup(t, data, blockStart, positions, depth, maxDepth)
		return
	}
	if suppressRepeat(b, t, data, blockStart, positions, depth, maxDepth) {
		return
	}
	if depth >= maxDepth || blockStart+depth >= len(data) {
		for i := 0; i < n-1; i++ {
			if positions[i] < blockStart {
				break
			}
			t.setLinkLength(positions[i], positions[i+1], maxDepth)
		}
		return
	}

	var buckets [256][]int
	for _, p := range positions {
		if p+depth >= len(data) {
			continue
		}
		c := data[p+depth]
		buckets[c] = append(buckets[c], p)
	}
	for _, bucket := range buckets {
		if len(bucket) >= 2 {
			buildList(b, t, data, blockStart, bucket, depth+1, maxDepth)
		}
	}
}

// bruteForceGroup is the base case: compare every pair of positions in a
// small group, linking each to the peer giving the longest common prefix
// (ties broken toward the nearer/first-found peer), mirroring
// fast-lzma2/radix_engine.h's rmf_bruteForce.
func bruteForceGroup(t matchTable, data []byte, blockStart int, positions []int, depth, maxDepth int) {
	limit := maxDepth - depth
	n := len(positions)
	for i := 0; i < n-1; i++ {
		if positions[i] < blockStart {
			break
		}
		longest := 0
		longestIdx := i + 1
		for j := i + 1; j < n; j++ {
			l := commonPrefixLen(data, positions[i]+depth, positions[j]+depth, limit)
			if l > longest {
				longest = l
				longestIdx = j
				if l >= limit {
					break
				}
			}
		}
		t.setLinkLength(positions[i], positions[longestIdx], depth+longest)
	}
}

func commonPrefixLen(data []byte, a, b, limit int) int {
	n := 0
	for n < limit {
		rem := limit - n
		chunk := 8
		if chunk > rem {
			chunk = rem
		}
		if a+n+chunk > len(data) || b+n+chunk > len(data) {
			chunk = 1
		}
		if chunk >= 8 {
			w := matchWordCompare(data[a+n:], data[b+n:])
			n += w
			if w < 8 {
				break
			}
			continue
		}
		if a+n >= len(data) || b+n >= len(data) {
			break
		}
		if data[a+n] != data[b+n] {
			break
		}
		n++
	}
	if n > limit {
		n = limit
	}
	return n
}

// suppressRepeat detects a long run of positions spaced by a constant
// stride of 1 or 2 bytes (the classic "run of zeros" pathological case) and
// fills the table directly with distance-1/2 matches of growing length,
// bypassing per-position radix work, mirroring
// fast-lzma2/radix_engine.h's handle_byte_repeat/handle_2byte_repeat.
func suppressRepeat(b *rmfBuilder, t matchTable, data []byte, blockStart int, positions []int, depth, maxDepth int) bool {
	n := len(positions)
	if n < maxRepeat+1 {
		return false
	}
	stride := positions[0] - positions[1]
	if stride != 1 && stride != 2 {
		return false
	}
	run := 1
	for run < n-1 && positions[run]-positions[run+1] == stride {
		run++
	}
	if run < maxRepeat {
		return false
	}

	maxLen := t.maxLength()
	length := depth
	i := 0
	for ; i < run; i++ {
		if positions[i] < blockStart {
			break
		}
		l := length
		if l > maxLen {
			l = maxLen
		}
		t.setLinkLength(positions[i], positions[i]-stride, l)
		length++
	}
	if i < run && i < n-1 {
		buildList(b, t, data, blockStart, positions[i:], depth, maxDepth)
	}
	return true
}
