// SPDX-License-Identifier: MIT

/*
Package flzma2 implements the compression core of a fast, multi-threaded
LZMA2 encoder: a radix match finder (RMF) and the LZMA2 chunk encoder that
reads it. It does not implement the outer .xz container, the LZMA2 decoder,
or CPU-core probing; callers own the filter chain and choose thread counts.

# Encode

Options may be nil (defaults to preset level 6, ultra mode, one thread):

	out, err := flzma2.Compress(data, nil)
	out, err := flzma2.Compress(data, flzma2.PresetLevel(9))

For streaming input across multiple blocks, or to reuse the match table and
dictionary buffer across calls, use Encoder directly:

	enc, err := flzma2.NewEncoder(flzma2.PresetLevel(6))
	if err != nil { ... }
	defer enc.Close()
	out, status, err := enc.Encode(src, flzma2.ActionFinish)

# Presets

PresetLevel(1..9) derives DictSize, Depth, Mode and the ultra-mode hash
parameters the way the upstream preset tables do; PresetLevelExtreme adds
the "extreme" tuning on top of a base level.
*/
package flzma2
