// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package flzma2

// presetParams holds the derivation inputs for one non-extreme preset level.
// All fields are unexported; the type is used only inside the package.
type presetParams struct {
	dictPow2        uint // DictSize = 1 << dictPow2
	depth           int
	mode            Mode
	overlapFraction int
	niceLen         int
	nearDictSizeLog int
	nearDepth       int
}

// presetLevels defines the derivation table for levels 1-9. Mode bands:
// 1-2 fast, 3-5 normal, 6-9 ultra, matching the upstream preset table.
var presetLevels = [9]presetParams{
	{dictPow2: 20, depth: 6, mode: ModeFast, overlapFraction: 1, niceLen: 32, nearDictSizeLog: 7, nearDepth: 1},
	{dictPow2: 21, depth: 14, mode: ModeFast, overlapFraction: 2, niceLen: 32, nearDictSizeLog: 7, nearDepth: 1},
	{dictPow2: 21, depth: 14, mode: ModeNormal, overlapFraction: 2, niceLen: 40, nearDictSizeLog: 7, nearDepth: 1},
	{dictPow2: 23, depth: 26, mode: ModeNormal, overlapFraction: 2, niceLen: 40, nearDictSizeLog: 7, nearDepth: 1},
	{dictPow2: 24, depth: 42, mode: ModeNormal, overlapFraction: 2, niceLen: 48, nearDictSizeLog: 8, nearDepth: 1},
	{dictPow2: 24, depth: 42, mode: ModeUltra, overlapFraction: 2, niceLen: 48, nearDictSizeLog: 9, nearDepth: 2},
	{dictPow2: 25, depth: 50, mode: ModeUltra, overlapFraction: 2, niceLen: 64, nearDictSizeLog: 10, nearDepth: 4},
	{dictPow2: 26, depth: 62, mode: ModeUltra, overlapFraction: 2, niceLen: 96, nearDictSizeLog: 11, nearDepth: 8},
	{dictPow2: 27, depth: 90, mode: ModeUltra, overlapFraction: 2, niceLen: 128, nearDictSizeLog: 12, nearDepth: 16},
}

// PresetLevel returns Options derived from level L in [1,9]; levels outside
// that range are clamped.
func PresetLevel(level int) *Options {
	level = max(level, 1)
	level = min(level, 9)
	p := presetLevels[level-1]
	return &Options{
		DictSize:         1 << p.dictPow2,
		Depth:            p.depth,
		Mode:             p.mode,
		OverlapFraction:  p.overlapFraction,
		NearDictSizeLog:  p.nearDictSizeLog,
		NearDepth:        p.nearDepth,
		DivideAndConquer: true,
		NiceLen:          p.niceLen,
		LC:               3,
		PB:               2,
		Threads:          1,
	}
}

// PresetLevelExtreme returns PresetLevel(level) with the "extreme" tuning
// applied on top: full ultra mode, maximal nice length and depth, and
// DivideAndConquer cleared (which does not change the RMF build).
func PresetLevelExtreme(level int) *Options {
	o := PresetLevel(level)
	o.Mode = ModeUltra
	o.NiceLen = matchLenMax
	o.Depth = depthMax
	o.NearDictSizeLog = 14
	o.NearDepth = 16
	o.OverlapFraction = 4
	o.DivideAndConquer = false
	return o
}
