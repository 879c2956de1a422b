// SPDX-License-Identifier: MIT

package flzma2

// bestRepMatch returns the length of the longest match against any of the
// four rep distances at pos (favoring the lowest index on a length tie,
// since rep0 is cheapest to encode), and which rep index it came from.
func bestRepMatch(data []byte, pos, limit int, reps [kNumReps]uint32) (length, index int) {
	for i, d := range reps {
		back := pos - int(d) - 1
		if back < 0 {
			continue
		}
		l := commonPrefixLen(data, back, pos, limit-pos)
		if l > length {
			length = l
			index = i
		}
	}
	return
}

// fastBlockEncode runs LZMA2's fast (greedy-with-one-step-lazy) strategy
// over data[start:end), driven by matches resolved through rt. It always
// consumes the whole range and returns the number of literal/match symbols
// emitted, used for the heuristic in chunk_framer.go.
func fastBlockEncode(e *rangeEncoder, s *lzmaState, rt *rmfTable, data []byte, start, end, niceLen int) int {
	pos := start
	symbols := 0

	for pos < end {
		repLen, repIdx := bestRepMatch(data, pos, end, s.reps)

		m, hasMatch := rt.getMatch(data, pos, end)
		matchLen := 0
		if hasMatch {
			matchLen = int(m.Len)
		}

		// A rep match within 2 bytes of the best normal match is cheaper to
		// encode (no distance slot) and is always preferred.
		useRep := repLen >= 2 && (repLen+2 >= matchLen || matchLen < matchLenMin)
		chosenLen := matchLen
		if useRep {
			chosenLen = repLen
		}

		if chosenLen < matchLenMin {
			encodeLiteral(e, s, data, pos)
			pos++
			symbols++
			continue
		}

		if chosenLen < niceLen && pos+1 < end {
			// One-step lazy lookahead: if the match at pos+1 is meaningfully
			// longer, prefer a literal now.
			m2, ok2 := rt.getMatch(data, pos+1, end)
			if ok2 && int(m2.Len) > chosenLen {
				encodeLiteral(e, s, data, pos)
				pos++
				symbols++
				continue
			}
		}

		if useRep {
			if chosenLen == 1 && repIdx == 0 {
				encodeShortRep(e, s, pos)
			} else {
				encodeRepLong(e, s, pos, uint32(chosenLen), repIdx)
			}
		} else {
			encodeNormalMatch(e, s, pos, uint32(chosenLen), m.Dist)
		}
		pos += chosenLen
		symbols++
	}
	return symbols
}
