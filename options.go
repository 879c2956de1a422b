// SPDX-License-Identifier: MIT

package flzma2

import "fmt"

// Options configures the encoder. Validate via (*Options).validate before use;
// NewEncoder and Compress do this for the caller.
type Options struct {
	// DictSize is the match-finder window in bytes, [dictSizeMin, dictSizeMax].
	DictSize int

	// OverlapFraction is how many 16ths of DictSize carry over between
	// blocks, [0,14]. It is validated but does not change the encoding: no
	// data is carried over between blocks.
	OverlapFraction int

	// Depth is the max RMF match length, [depthMin,depthMax], forced even.
	// 0 selects the auto formula 42 + (DictSize>>25)*4.
	Depth int

	// DivideAndConquer names the upstream choice between buffered list
	// recursion and the 16-bit radix expansion. The RMF build ignores it and
	// always runs the same recursion.
	DivideAndConquer bool

	// NearDictSizeLog is the ultra-mode hash-chain table size log2, [4,14].
	// It is validated only; no hash chain is built.
	NearDictSizeLog int

	// NearDepth is the ultra-mode hash chain search depth, [1,64]. It is
	// validated only; no hash chain is searched.
	NearDepth int

	// Mode selects the LZMA2 encoder strategy.
	Mode Mode

	// NiceLen is the fast-parser short-circuit threshold,
	// [matchLenMin, matchLenMax].
	NiceLen int

	// LC, LP, PB are the LZMA literal-context, literal-position and
	// position bit counts. Constraint: LC+LP <= lzmaLclpMax.
	LC, LP, PB int

	// Threads is the worker pool size, [1, lzmaThreadsMax].
	Threads int
}

const lzmaThreadsMax = 64

// DefaultOptions returns preset level 6 (the upstream default level).
func DefaultOptions() *Options {
	return PresetLevel(6)
}

// validate checks constraints and fills in zero-valued fields that have a
// derived default (Depth's auto formula, Threads defaulting to 1).
func (o *Options) validate() (*Options, error) {
	v := *o
	if v.DictSize == 0 {
		v.DictSize = 1 << 24
	}
	if v.DictSize < dictSizeMin || v.DictSize > dictSizeMax {
		return nil, newError(KindOptions, errOptf("DictSize %d out of range [%d,%d]", v.DictSize, dictSizeMin, dictSizeMax))
	}
	if v.OverlapFraction < 0 || v.OverlapFraction > overlapMax {
		return nil, newError(KindOptions, errOptf("OverlapFraction %d out of range [0,%d]", v.OverlapFraction, overlapMax))
	}
	if v.Depth == 0 {
		v.Depth = 42 + (v.DictSize>>25)*4
	}
	if v.Depth < depthMin || v.Depth > depthMax {
		return nil, newError(KindOptions, errOptf("Depth %d out of range [%d,%d]", v.Depth, depthMin, depthMax))
	}
	v.Depth &^= 1 // force even

	if v.NearDictSizeLog == 0 {
		v.NearDictSizeLog = 10
	}
	if v.NearDictSizeLog < 4 || v.NearDictSizeLog > 14 {
		return nil, newError(KindOptions, errOptf("NearDictSizeLog %d out of range [4,14]", v.NearDictSizeLog))
	}
	if v.NearDepth == 0 {
		v.NearDepth = 8
	}
	if v.NearDepth < 1 || v.NearDepth > 64 {
		return nil, newError(KindOptions, errOptf("NearDepth %d out of range [1,64]", v.NearDepth))
	}

	if v.NiceLen == 0 {
		v.NiceLen = 64
	}
	if v.NiceLen < matchLenMin || v.NiceLen > matchLenMax {
		return nil, newError(KindOptions, errOptf("NiceLen %d out of range [%d,%d]", v.NiceLen, matchLenMin, matchLenMax))
	}

	if v.LC+v.LP > lzmaLclpMax {
		return nil, newError(KindOptions, errOptf("LC+LP %d exceeds lzmaLclpMax %d", v.LC+v.LP, lzmaLclpMax))
	}
	if v.PB < 0 || v.PB > 4 {
		return nil, newError(KindOptions, errOptf("PB %d out of range [0,4]", v.PB))
	}

	if v.Threads == 0 {
		v.Threads = 1
	}
	if v.Threads < 1 || v.Threads > lzmaThreadsMax {
		return nil, newError(KindOptions, errOptf("Threads %d out of range [1,%d]", v.Threads, lzmaThreadsMax))
	}
	return &v, nil
}

func errOptf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
