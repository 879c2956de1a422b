// SPDX-License-Identifier: MIT

package flzma2

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/flate"
)

func corpusText(n int) []byte {
	const phrase = "the quick brown fox jumps over the lazy dog. "
	out := make([]byte, 0, n)
	for len(out) < n {
		out = append(out, phrase...)
	}
	return out[:n]
}

func corpusSawtooth(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

func corpusRandom(n int) []byte {
	out := make([]byte, n)
	rand.New(rand.NewSource(42)).Read(out)
	return out
}

func BenchmarkRMFBuild(b *testing.B) {
	data := corpusText(1 << 20)
	block := dataBlock{data: data, start: 0, end: len(data)}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rt := newRMFTable(1<<22, 32, true)
		initTable(rt, data, block.end)
		_ = runBuildPhase(rt, 4, block)
	}
}

func benchmarkCompress(b *testing.B, data []byte, level int) {
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Compress(data, PresetLevel(level)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompressFastText(b *testing.B)    { benchmarkCompress(b, corpusText(1<<20), 1) }
func BenchmarkCompressUltraText(b *testing.B)   { benchmarkCompress(b, corpusText(1<<20), 9) }
func BenchmarkCompressFastSawtooth(b *testing.B) { benchmarkCompress(b, corpusSawtooth(1<<20), 1) }
func BenchmarkCompressUltraSawtooth(b *testing.B) {
	benchmarkCompress(b, corpusSawtooth(1<<20), 9)
}
func BenchmarkCompressFastRandom(b *testing.B)  { benchmarkCompress(b, corpusRandom(1<<20), 1) }
func BenchmarkCompressUltraRandom(b *testing.B) { benchmarkCompress(b, corpusRandom(1<<20), 9) }

func benchmarkFlateBaseline(b *testing.B, data []byte) {
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		w, _ := flate.NewWriter(&buf, flate.DefaultCompression)
		if _, err := w.Write(data); err != nil {
			b.Fatal(err)
		}
		if err := w.Close(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFlateBaselineText(b *testing.B)     { benchmarkFlateBaseline(b, corpusText(1<<20)) }
func BenchmarkFlateBaselineSawtooth(b *testing.B) { benchmarkFlateBaseline(b, corpusSawtooth(1<<20)) }
func BenchmarkFlateBaselineRandom(b *testing.B)   { benchmarkFlateBaseline(b, corpusRandom(1<<20)) }
