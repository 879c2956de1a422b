// SPDX-License-Identifier: MIT

package flzma2

// encodeLiteral emits data[pos] as a literal and advances s.state. prevByte
// is data[pos-1] (0 if pos==0); repDistance0 is s.reps[0] used to fetch the
// "matched byte" when the previous op was a match.
func encodeLiteral(e *rangeEncoder, s *lzmaState, data []byte, pos int) {
	ps := posState(uint32(pos), s.pb)
	e.encodeBit(&s.isMatch[s.state][ps], 0)

	var prevByte byte
	if pos > 0 {
		prevByte = data[pos-1]
	}
	probs := s.literalState(uint32(pos), prevByte)
	symbol := data[pos]

	if isLitState(s.state) {
		encodeLiteralPlain(e, probs, symbol)
	} else {
		matchPos := pos - int(s.reps[0]) - 1
		var matchByte byte
		if matchPos >= 0 {
			matchByte = data[matchPos]
		}
		encodeLiteralMatched(e, probs, symbol, matchByte)
	}
	s.state = litNextState[s.state]
}

func encodeLiteralPlain(e *rangeEncoder, probs []prob, symbol byte) {
	m := uint32(1)
	for i := 7; i >= 0; i-- {
		bit := uint32(symbol>>uint(i)) & 1
		e.encodeBit(&probs[m], bit)
		m = (m << 1) | bit
	}
}

func encodeLiteralMatched(e *rangeEncoder, probs []prob, symbol, matchByte byte) {
	m := uint32(1)
	offs := uint32(0x100)
	for i := 7; i >= 0; i-- {
		matchBit := uint32(matchByte>>uint(i)) & 1
		bit := uint32(symbol>>uint(i)) & 1
		e.encodeBit(&probs[offs+(matchBit<<8)+m], bit)
		m = (m << 1) | bit
		if matchBit != bit {
			offs = 0
		}
	}
}

// encodeDistance emits the distance-slot, and (if applicable) the direct and
// align bits, for a zero-based distance paired with length (lenMinusMin =
// matchLen-matchLenMin).
func encodeDistance(e *rangeEncoder, s *lzmaState, dist uint32, lenMinusMin uint32) {
	slot := getPosSlot(dist)
	lps := getLenToPosState(lenMinusMin)
	e.encodeBitTree(s.posSlotCoder[lps][:], numPosSlotBits, slot)

	if slot < distModelStart {
		return
	}
	footerBits := int(slot>>1) - 1
	base := (2 | (slot & 1)) << uint(footerBits)
	reduced := dist - base
	if slot < distModelEnd {
		e.encodeBitTreeReverse(s.specPos[base-slot-1:], footerBits, reduced)
	} else {
		e.encodeDirectBits(reduced>>numAlignBits, footerBits-numAlignBits)
		e.encodeBitTreeReverse(s.alignCoder[:], numAlignBits, reduced&(alignTableSize-1))
	}
}

func priceDistance(s *lzmaState, dist uint32, lenMinusMin uint32) uint32 {
	slot := getPosSlot(dist)
	lps := getLenToPosState(lenMinusMin)
	price := priceBitTree(s.posSlotCoder[lps][:], numPosSlotBits, slot)
	if slot < distModelStart {
		return price
	}
	footerBits := int(slot>>1) - 1
	base := (2 | (slot & 1)) << uint(footerBits)
	reduced := dist - base
	if slot < distModelEnd {
		return price + priceBitTreeReverse(s.specPos[base-slot-1:], footerBits, reduced)
	}
	price += directBitsPrice(footerBits - numAlignBits)
	price += priceBitTreeReverse(s.alignCoder[:], numAlignBits, reduced&(alignTableSize-1))
	return price
}

// encodeNormalMatch emits a non-rep match of the given length (absolute, not
// offset) at zero-based distance dist, and rotates the rep history.
func encodeNormalMatch(e *rangeEncoder, s *lzmaState, pos int, length uint32, dist uint32) {
	ps := posState(uint32(pos), s.pb)
	e.encodeBit(&s.isMatch[s.state][ps], 1)
	e.encodeBit(&s.isRep[s.state], 0)

	s.reps[3], s.reps[2], s.reps[1], s.reps[0] = s.reps[2], s.reps[1], s.reps[0], dist
	s.state = matchNextState[s.state]

	lenMinusMin := length - matchLenMin
	s.lenCoder.encode(e, ps, lenMinusMin)
	encodeDistance(e, s, dist, lenMinusMin)
}

// encodeRepLong emits a rep match (repIndex in [0,3]) of the given length,
// rotating the rep history so repIndex becomes reps[0].
func encodeRepLong(e *rangeEncoder, s *lzmaState, pos int, length uint32, repIndex int) {
	ps := posState(uint32(pos), s.pb)
	e.encodeBit(&s.isMatch[s.state][ps], 1)
	e.encodeBit(&s.isRep[s.state], 1)

	if repIndex == 0 {
		e.encodeBit(&s.isRepG0[s.state], 0)
		e.encodeBit(&s.isRep0Long[s.state][ps], 1)
	} else {
		e.encodeBit(&s.isRepG0[s.state], 1)
		dist := s.reps[repIndex]
		if repIndex == 1 {
			e.encodeBit(&s.isRepG1[s.state], 0)
		} else {
			e.encodeBit(&s.isRepG1[s.state], 1)
			if repIndex == 2 {
				e.encodeBit(&s.isRepG2[s.state], 0)
			} else {
				e.encodeBit(&s.isRepG2[s.state], 1)
				s.reps[3] = s.reps[2]
			}
			s.reps[2] = s.reps[1]
		}
		s.reps[1] = s.reps[0]
		s.reps[0] = dist
	}
	s.state = repNextState[s.state]
	s.repLenCoder.encode(e, ps, length-matchLenMin)
}

// encodeShortRep emits a one-byte rep0 match (length 1). Valid only when
// byte at pos equals data[pos-reps[0]-1].
func encodeShortRep(e *rangeEncoder, s *lzmaState, pos int) {
	ps := posState(uint32(pos), s.pb)
	e.encodeBit(&s.isMatch[s.state][ps], 1)
	e.encodeBit(&s.isRep[s.state], 1)
	e.encodeBit(&s.isRepG0[s.state], 0)
	e.encodeBit(&s.isRep0Long[s.state][ps], 0)
	s.state = shortRepNextState[s.state]
}

// The price* functions mirror the encode* functions above but sum scaled bit
// prices instead of emitting bits or mutating state; the optimal parser uses
// them to choose between candidate paths before committing to one.

func priceLiteral(s *lzmaState, data []byte, pos int) uint32 {
	ps := posState(uint32(pos), s.pb)
	price := getPrice0(s.isMatch[s.state][ps])

	var prevByte byte
	if pos > 0 {
		prevByte = data[pos-1]
	}
	probs := s.literalState(uint32(pos), prevByte)
	symbol := data[pos]

	if isLitState(s.state) {
		m := uint32(1)
		for i := 7; i >= 0; i-- {
			bit := uint32(symbol>>uint(i)) & 1
			price += getPrice(probs[m], bit)
			m = (m << 1) | bit
		}
		return price
	}
	matchPos := pos - int(s.reps[0]) - 1
	var matchByte byte
	if matchPos >= 0 {
		matchByte = data[matchPos]
	}
	m := uint32(1)
	offs := uint32(0x100)
	for i := 7; i >= 0; i-- {
		matchBit := uint32(matchByte>>uint(i)) & 1
		bit := uint32(symbol>>uint(i)) & 1
		price += getPrice(probs[offs+(matchBit<<8)+m], bit)
		m = (m << 1) | bit
		if matchBit != bit {
			offs = 0
		}
	}
	return price
}

func priceNormalMatch(s *lzmaState, pos int, length uint32, dist uint32) uint32 {
	ps := posState(uint32(pos), s.pb)
	price := getPrice1(s.isMatch[s.state][ps]) + getPrice0(s.isRep[s.state])
	lenMinusMin := length - matchLenMin
	price += s.lenCoder.price(ps, lenMinusMin)
	price += priceDistance(s, dist, lenMinusMin)
	return price
}

func priceRepLong(s *lzmaState, pos int, length uint32, repIndex int) uint32 {
	ps := posState(uint32(pos), s.pb)
	price := getPrice1(s.isMatch[s.state][ps]) + getPrice1(s.isRep[s.state])
	if repIndex == 0 {
		price += getPrice0(s.isRepG0[s.state]) + getPrice1(s.isRep0Long[s.state][ps])
	} else {
		price += getPrice1(s.isRepG0[s.state])
		if repIndex == 1 {
			price += getPrice0(s.isRepG1[s.state])
		} else {
			price += getPrice1(s.isRepG1[s.state])
			if repIndex == 2 {
				price += getPrice0(s.isRepG2[s.state])
			} else {
				price += getPrice1(s.isRepG2[s.state])
			}
		}
	}
	price += s.repLenCoder.price(ps, length-matchLenMin)
	return price
}

func priceShortRep(s *lzmaState, pos int) uint32 {
	ps := posState(uint32(pos), s.pb)
	return getPrice1(s.isMatch[s.state][ps]) + getPrice1(s.isRep[s.state]) +
		getPrice0(s.isRepG0[s.state]) + getPrice0(s.isRep0Long[s.state][ps])
}
