// SPDX-License-Identifier: MIT

package flzma2

import "sync"

var rmfBuilderPool = sync.Pool{
	New: func() any { return &rmfBuilder{} },
}

// acquireRMFBuilder gets a worker's Phase B/C/D scratch state from the pool,
// reset for a build with the given match-buffer limit.
func acquireRMFBuilder(matchBufferLimit int) *rmfBuilder {
	b := rmfBuilderPool.Get().(*rmfBuilder)
	b.matchBufferLimit = matchBufferLimit
	b.maxDepth = 0
	return b
}

func releaseRMFBuilder(b *rmfBuilder) {
	if b == nil {
		return
	}
	rmfBuilderPool.Put(b)
}

var lzmaStatePool = sync.Pool{
	New: func() any { return &lzmaState{} },
}

// acquireLZMAState gets a zeroed encoder probability model sized for the
// given lc/lp/pb from the pool, allocating a fresh one if none fits (the
// literal-probability slice length depends on lc+lp, so a pooled state from
// a differently-configured encoder can't be reused as-is).
func acquireLZMAState(lc, lp, pb int) *lzmaState {
	s := lzmaStatePool.Get().(*lzmaState)
	want := 0x300 << uint(lc+lp)
	if cap(s.literalProbs) < want {
		return newLZMAState(lc, lp, pb)
	}
	s.lc, s.lp, s.pb = lc, lp, pb
	s.literalProbs = s.literalProbs[:want]
	s.reset()
	return s
}

func releaseLZMAState(s *lzmaState) {
	if s == nil {
		return
	}
	lzmaStatePool.Put(s)
}

var matchTablePool sync.Map // dictSize -> *sync.Pool

// acquireMatchTable reuses a table allocation for the given dictSize across
// successive blocks within one encoder; distinct dictSizes (e.g. a final
// short block) get their own pool bucket.
func acquireMatchTable(dictSize int) matchTable {
	v, _ := matchTablePool.LoadOrStore(dictSize, &sync.Pool{
		New: func() any { return newMatchTable(dictSize) },
	})
	return v.(*sync.Pool).Get().(matchTable)
}

func releaseMatchTable(dictSize int, t matchTable) {
	if t == nil {
		return
	}
	v, ok := matchTablePool.Load(dictSize)
	if !ok {
		return
	}
	v.(*sync.Pool).Put(t)
}
