// SPDX-License-Identifier: MIT

package flzma2

import (
	"testing"

	"pgregory.net/rapid"
)

func TestRangeCoderBitRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rt.IntRange(1, 500).Draw(rt, "n")
		bits := make([]uint32, n)
		for i := range bits {
			bits[i] = uint32(rt.IntRange(0, 1).Draw(rt, "bit"))
		}

		buf := make([]byte, 4096)
		var e rangeEncoder
		e.reset(buf, 0)
		p := probInitial
		for _, b := range bits {
			e.encodeBit(&p, b)
		}
		e.flush()

		var d rangeDecoder
		d.init(buf, 0)
		p2 := probInitial
		for i, want := range bits {
			got := d.decodeBit(&p2)
			if got != want {
				rt.Fatalf("bit %d: want %d got %d", i, want, got)
			}
		}
	})
}

func TestRangeCoderBitTreeRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bitCount := rt.IntRange(1, 8).Draw(rt, "bitCount")
		n := rt.IntRange(1, 50).Draw(rt, "n")
		max := uint32(1) << uint(bitCount)
		symbols := make([]uint32, n)
		for i := range symbols {
			symbols[i] = uint32(rt.IntRange(0, int(max)-1).Draw(rt, "sym"))
		}

		buf := make([]byte, 4096)
		var e rangeEncoder
		e.reset(buf, 0)
		probs := make([]prob, max)
		for i := range probs {
			probs[i] = probInitial
		}
		for _, s := range symbols {
			e.encodeBitTree(probs, bitCount, s)
		}
		e.flush()

		var d rangeDecoder
		d.init(buf, 0)
		probs2 := make([]prob, max)
		for i := range probs2 {
			probs2[i] = probInitial
		}
		for i, want := range symbols {
			got := d.decodeBitTree(probs2, bitCount)
			if got != want {
				rt.Fatalf("symbol %d: want %d got %d", i, want, got)
			}
		}
	})
}

func TestRangeCoderDirectBitsRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bitCount := rt.IntRange(1, 24).Draw(rt, "bitCount")
		n := rt.IntRange(1, 50).Draw(rt, "n")
		max := uint32(1) << uint(bitCount)
		values := make([]uint32, n)
		for i := range values {
			values[i] = uint32(rt.IntRange(0, int(max)-1).Draw(rt, "v"))
		}

		buf := make([]byte, 4096)
		var e rangeEncoder
		e.reset(buf, 0)
		for _, v := range values {
			e.encodeDirectBits(v, bitCount)
		}
		e.flush()

		var d rangeDecoder
		d.init(buf, 0)
		for i, want := range values {
			got := d.decodeDirectBits(bitCount)
			if got != want {
				rt.Fatalf("value %d: want %d got %d", i, want, got)
			}
		}
	})
}

func TestProbIncDecDirection(t *testing.T) {
	p := probInitial
	for i := 0; i < 200; i++ {
		p.inc()
	}
	if p <= probInitial {
		t.Fatalf("inc should move probability up, got %d from initial %d", p, probInitial)
	}

	p = probInitial
	for i := 0; i < 200; i++ {
		p.dec()
	}
	if p >= probInitial {
		t.Fatalf("dec should move probability down, got %d from initial %d", p, probInitial)
	}
}
