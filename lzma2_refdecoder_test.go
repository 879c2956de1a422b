// SPDX-License-Identifier: MIT
//
// This decoder exists only to let the test suite verify round trips; it is
// the exact inverse of rangecoder.go/lzma2_encoder.go's encode side
// (including encodeLiteralMatched's offs-zeroing quirk, which it must
// replicate bit-for-bit since the two only need to agree with each other,
// not with any external format). It is never exported and is not part of
// the public API.

package flzma2

import "fmt"

type rangeDecoder struct {
	in   []byte
	pos  int
	code uint32
	rng  uint32
}

func (d *rangeDecoder) init(in []byte, pos int) {
	d.in = in
	d.pos = pos + 1 // first emitted byte is always the encoder's suppressed leading zero
	d.rng = 0xffffffff
	d.code = 0
	for i := 0; i < 4; i++ {
		d.code = d.code<<8 | uint32(d.in[d.pos])
		d.pos++
	}
}

func (d *rangeDecoder) normalize() {
	if d.rng < topValue {
		d.rng <<= 8
		d.code = d.code<<8 | uint32(d.in[d.pos])
		d.pos++
	}
}

func (d *rangeDecoder) decodeBit(p *prob) uint32 {
	bound := p.bound(d.rng)
	var bit uint32
	if d.code < bound {
		d.rng = bound
		p.inc()
		bit = 0
	} else {
		d.code -= bound
		d.rng -= bound
		p.dec()
		bit = 1
	}
	d.normalize()
	return bit
}

func (d *rangeDecoder) decodeDirectBits(n int) uint32 {
	var res uint32
	for ; n > 0; n-- {
		d.rng >>= 1
		d.code -= d.rng
		t := uint32(0) - (d.code >> 31)
		d.code += d.rng & t
		res = (res << 1) + (t + 1)
		d.normalize()
	}
	return res
}

func (d *rangeDecoder) decodeBitTree(probs []prob, bitCount int) uint32 {
	m := uint32(1)
	for i := 0; i < bitCount; i++ {
		m = (m << 1) | d.decodeBit(&probs[m])
	}
	return m - (1 << uint(bitCount))
}

func (d *rangeDecoder) decodeBitTreeReverse(probs []prob, bitCount int) uint32 {
	m := uint32(1)
	var sym uint32
	for i := 0; i < bitCount; i++ {
		bit := d.decodeBit(&probs[m])
		m = (m << 1) | bit
		sym |= bit << uint(i)
	}
	return sym
}

func decodeLenCoder(d *rangeDecoder, lc *lengthCoder, posState int) uint32 {
	if d.decodeBit(&lc.choice) == 0 {
		return d.decodeBitTree(lc.low[posState][:], 3)
	}
	if d.decodeBit(&lc.choice2) == 0 {
		return 8 + d.decodeBitTree(lc.mid[posState][:], 3)
	}
	return 16 + d.decodeBitTree(lc.high[:], 8)
}

func decodeLiteralPlain(d *rangeDecoder, probs []prob) byte {
	return byte(d.decodeBitTree(probs, 8))
}

// decodeLiteralMatched is the exact inverse of lzma2_encoder.go's
// encodeLiteralMatched: it must keep folding in matchBit even after offs
// zeroes out (probs[(matchBit<<8)+m]), not switch to a plain bit-tree read,
// because that's what the encoder actually did.
func decodeLiteralMatched(d *rangeDecoder, probs []prob, matchByte byte) byte {
	m := uint32(1)
	offs := uint32(0x100)
	for i := 7; i >= 0; i-- {
		matchBit := uint32(matchByte>>uint(i)) & 1
		bit := d.decodeBit(&probs[offs+(matchBit<<8)+m])
		m = (m << 1) | bit
		if matchBit != bit {
			offs = 0
		}
	}
	return byte(m & 0xff)
}

func decodeDistance(d *rangeDecoder, s *lzmaState, lenMinusMin uint32) uint32 {
	lps := getLenToPosState(lenMinusMin)
	slot := d.decodeBitTree(s.posSlotCoder[lps][:], numPosSlotBits)
	if slot < distModelStart {
		return slot
	}
	footerBits := int(slot>>1) - 1
	base := (2 | (slot & 1)) << uint(footerBits)
	if slot < distModelEnd {
		return base + d.decodeBitTreeReverse(s.specPos[base-slot-1:], footerBits)
	}
	direct := d.decodeDirectBits(footerBits - numAlignBits)
	dist := base + (direct << numAlignBits)
	dist += d.decodeBitTreeReverse(s.alignCoder[:], numAlignBits)
	return dist
}

func unpackProp(b byte) (lc, lp, pb int) {
	v := int(b)
	lc = v % 9
	v /= 9
	lp = v % 5
	pb = v / 5
	return
}

// decodeLZMASymbols decodes exactly count literal/match/rep symbols
// starting at absolute position base into out (already sized to
// base+count), mirroring fastBlockEncode/optimalBlockEncode/the encode*
// family in lzma2_encoder.go in reverse.
func decodeLZMASymbols(d *rangeDecoder, s *lzmaState, out []byte, base, count int) {
	pos := 0
	for pos < count {
		absPos := base + pos
		ps := posState(uint32(absPos), s.pb)

		if d.decodeBit(&s.isMatch[s.state][ps]) == 0 {
			var prevByte byte
			if absPos > 0 {
				prevByte = out[absPos-1]
			}
			probs := s.literalState(uint32(absPos), prevByte)
			var symbol byte
			if isLitState(s.state) {
				symbol = decodeLiteralPlain(d, probs)
			} else {
				matchPos := absPos - int(s.reps[0]) - 1
				var matchByte byte
				if matchPos >= 0 {
					matchByte = out[matchPos]
				}
				symbol = decodeLiteralMatched(d, probs, matchByte)
			}
			out[absPos] = symbol
			s.state = litNextState[s.state]
			pos++
			continue
		}

		var length int
		if d.decodeBit(&s.isRep[s.state]) == 0 {
			lenMinusMin := decodeLenCoder(d, &s.lenCoder, ps)
			dist := decodeDistance(d, s, lenMinusMin)
			s.reps[3], s.reps[2], s.reps[1], s.reps[0] = s.reps[2], s.reps[1], s.reps[0], dist
			s.state = matchNextState[s.state]
			length = int(lenMinusMin) + matchLenMin
		} else if d.decodeBit(&s.isRepG0[s.state]) == 0 {
			if d.decodeBit(&s.isRep0Long[s.state][ps]) == 0 {
				s.state = shortRepNextState[s.state]
				length = 1
			} else {
				lenMinusMin := decodeLenCoder(d, &s.repLenCoder, ps)
				s.state = repNextState[s.state]
				length = int(lenMinusMin) + matchLenMin
			}
		} else {
			var dist uint32
			if d.decodeBit(&s.isRepG1[s.state]) == 0 {
				dist = s.reps[1]
				s.reps[1] = s.reps[0]
			} else if d.decodeBit(&s.isRepG2[s.state]) == 0 {
				dist = s.reps[2]
				s.reps[2] = s.reps[1]
				s.reps[1] = s.reps[0]
			} else {
				dist = s.reps[3]
				s.reps[3] = s.reps[2]
				s.reps[2] = s.reps[1]
				s.reps[1] = s.reps[0]
			}
			s.reps[0] = dist
			lenMinusMin := decodeLenCoder(d, &s.repLenCoder, ps)
			s.state = repNextState[s.state]
			length = int(lenMinusMin) + matchLenMin
		}

		distBack := int(s.reps[0]) + 1
		for k := 0; k < length; k++ {
			out[absPos+k] = out[absPos+k-distBack]
		}
		pos += length
	}
}

// refDecodeLZMA2 decodes a full LZMA2 chunk stream (as produced by
// encodeLZMA2Chunks plus the encoder's trailing 0x00) back to the original
// bytes, for round-trip verification only.
func refDecodeLZMA2(input []byte) ([]byte, error) {
	var out []byte
	var s *lzmaState
	pos := 0

	for pos < len(input) {
		ctrl := input[pos]
		if ctrl == 0x00 {
			break
		}
		if ctrl < chunkCompressedFlag {
			if ctrl != chunkUncompDictReset && ctrl != chunkUncompNoReset {
				return nil, fmt.Errorf("lzma2 ref decoder: bad uncompressed control byte %#x", ctrl)
			}
			if pos+3 > len(input) {
				return nil, fmt.Errorf("lzma2 ref decoder: truncated uncompressed header")
			}
			size := int(input[pos+1])<<8 | int(input[pos+2]) + 1
			pos += 3
			if pos+size > len(input) {
				return nil, fmt.Errorf("lzma2 ref decoder: truncated uncompressed chunk")
			}
			out = append(out, input[pos:pos+size]...)
			pos += size
			continue
		}

		if pos+5 > len(input) {
			return nil, fmt.Errorf("lzma2 ref decoder: truncated compressed header")
		}
		resetMode := int((ctrl >> 5) & 0x3)
		sizeHi := int(ctrl & 0x1f)
		uncompSize := (sizeHi<<16 | int(input[pos+1])<<8 | int(input[pos+2])) + 1
		compSize := (int(input[pos+3])<<8 | int(input[pos+4])) + 1
		pos += 5

		if resetMode >= chunkResetStateProp {
			if pos >= len(input) {
				return nil, fmt.Errorf("lzma2 ref decoder: missing prop byte")
			}
			lc, lp, pb := unpackProp(input[pos])
			pos++
			s = newLZMAState(lc, lp, pb)
		} else if s == nil {
			return nil, fmt.Errorf("lzma2 ref decoder: chunk without prior state reset")
		} else if resetMode == chunkResetState {
			s.reset()
		}

		if pos+compSize > len(input) {
			return nil, fmt.Errorf("lzma2 ref decoder: truncated compressed chunk")
		}
		var d rangeDecoder
		d.init(input, pos)

		base := len(out)
		out = append(out, make([]byte, uncompSize)...)
		decodeLZMASymbols(&d, s, out, base, uncompSize)

		pos += compSize
	}
	return out, nil
}
