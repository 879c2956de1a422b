// SPDX-License-Identifier: MIT

package flzma2

import "math/bits"

// chunkHeader describes one LZMA2 chunk about to be written.
type chunkHeader struct {
	compressed   bool
	resetMode    int // chunkResetNone..chunkResetStatePropDict; a stored chunk uses only the dict-reset bit
	uncompSize   int // bytes of source this chunk covers, 1..chunkMaxUncompressedSize
	compSize     int // bytes of range-coder output, compressed only
	propByte     byte
}

// writeChunkHeader appends the header bytes for h to out and returns the new
// slice. Size fields are stored as (value-1), matching the standard LZMA2
// encoding so the maximum representable size doesn't waste a code point.
func writeChunkHeader(out []byte, h chunkHeader) []byte {
	if !h.compressed {
		ctrl := byte(chunkUncompNoReset)
		if h.resetMode == chunkResetStatePropDict {
			ctrl = chunkUncompDictReset
		}
		n := h.uncompSize - 1
		return append(out, ctrl, byte(n>>8), byte(n))
	}

	n := h.uncompSize - 1
	ctrl := byte(chunkCompressedFlag) | byte(h.resetMode<<5) | byte((n>>16)&0x1f)
	out = append(out, ctrl, byte(n>>8), byte(n))
	c := h.compSize - 1
	out = append(out, byte(c>>8), byte(c))
	if h.resetMode >= chunkResetStateProp {
		out = append(out, h.propByte)
	}
	return out
}

// chunkHeaderSize returns how many bytes writeChunkHeader will emit for a
// chunk with this shape, without actually writing it. Nothing in the package
// calls it; encodeLZMA2Chunks compares the payload sizes only.
func chunkHeaderSize(compressed bool, resetMode int) int {
	if !compressed {
		return 3
	}
	if resetMode >= chunkResetStateProp {
		return 6
	}
	return 5
}

// propByte packs lc/lp/pb into the single byte the LZMA2 chunk header
// carries on a props-reset chunk, per the standard LZMA encoding
// (pb*5+lp)*9+lc.
func propByte(lc, lp, pb int) byte {
	return byte((pb*5+lp)*9 + lc)
}

// isqrt returns floor(sqrt(x)) via Newton's method on integers, avoiding the
// floating point the chi-square heuristic would otherwise need.
func isqrt(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	r := uint64(1) << ((uint(bits.Len64(x)) + 1) / 2)
	for {
		nr := (r + x/r) >> 1
		if nr >= r {
			return r
		}
		r = nr
	}
}

// chiSquareThreshold is the isqrt'd chi-square statistic below which a
// chunk's byte distribution is judged indistinguishable from uniform random
// noise -- below this, spending a compressed chunk on it is very unlikely
// to pay off.
const chiSquareThreshold = 16

// matchDensityThreshold is the minimum (matched-bytes*1024/len) fraction
// that overrides a low chi-square score: even near-uniform data compresses
// fine if the match finder is actually finding repeats in it.
const matchDensityThreshold = 32

// likelyIncompressible reports whether data is statistically close enough
// to uniform random, and matched too little of it, that it should be
// stored as an uncompressed LZMA2 chunk instead of spending a compressed
// one on it.
func likelyIncompressible(data []byte, matchedBytes int) bool {
	if len(data) < 256 {
		return false
	}
	if matchedBytes*1024/len(data) >= matchDensityThreshold {
		return false
	}
	return isqrt(chiSquareStat(data)) < chiSquareThreshold
}

// chiSquareStat computes a chi-square-like statistic over the 256-bin byte
// histogram of data, scaled by 256 to stay in integer arithmetic:
// sum((count*256 - n)^2) / n.
func chiSquareStat(data []byte) uint64 {
	var hist [256]uint32
	for _, b := range data {
		hist[b]++
	}
	n := int64(len(data))
	var sumSq uint64
	for _, c := range hist {
		d := int64(c)*256 - n
		sumSq += uint64(d * d)
	}
	return sumSq / uint64(n)
}

// encodeLZMA2Chunks splits data[start:end) into LZMA2 chunks covering at
// most chunkCompressedMax (64 KiB) source bytes each, runs the configured parser strategy on each,
// and appends the resulting chunk(s) to out. stateFresh marks the very
// first chunk of a new dictionary buffer, which must carry a full
// (state+props+dict) reset.
//
// Every chunk resets s to a fresh probability model before parsing it, so a
// chunk that ends up stored uncompressed never leaves stray adaptation
// behind for its successor: the next chunk resets again regardless. This
// gives up the cross-chunk model continuity a stream-oriented encoder would
// keep, in exchange for a parser/framer boundary simple enough to reason
// about per chunk; see DESIGN.md.
func encodeLZMA2Chunks(out []byte, scratch []byte, s *lzmaState, rt *rmfTable, data []byte, start, end int, mode Mode, niceLen int, stateFresh bool) []byte {
	pos := start
	first := stateFresh
	for pos < end {
		// A stored chunk's size field holds 16 bits, and a chunk is stored
		// whenever its compressed form is not smaller than its source, so
		// capping the source at 64 KiB keeps both size fields in range.
		chunkEnd := pos + chunkCompressedMax
		if chunkEnd > end {
			chunkEnd = end
		}
		src := data[pos:chunkEnd]

		resetMode := chunkResetStateProp
		if first {
			resetMode = chunkResetStatePropDict
		}
		s.reset()

		var e rangeEncoder
		e.reset(scratch, 0)

		var symbols int
		if mode == ModeFast {
			symbols = fastBlockEncode(&e, s, rt, data, pos, chunkEnd, niceLen)
		} else {
			symbols = optimalBlockEncode(&e, s, rt, data, pos, chunkEnd, niceLen)
		}
		e.flush()
		compSize := e.size()

		useUncompressed := compSize >= len(src) || likelyIncompressible(src, symbols)

		if useUncompressed {
			hdr := chunkHeader{compressed: false, resetMode: resetMode, uncompSize: len(src)}
			out = writeChunkHeader(out, hdr)
			out = append(out, src...)
		} else {
			hdr := chunkHeader{
				compressed: true,
				resetMode:  resetMode,
				uncompSize: len(src),
				compSize:   compSize,
				propByte:   propByte(s.lc, s.lp, s.pb),
			}
			out = writeChunkHeader(out, hdr)
			out = append(out, scratch[:compSize]...)
		}

		pos = chunkEnd
		first = false
	}
	return out
}
