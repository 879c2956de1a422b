// SPDX-License-Identifier: MIT

package flzma2

import (
	"math/bits"
	"unsafe"
)

// matchWordCompare returns the number of leading equal bytes of a and b, up
// to 8, using a single 64-bit word compare when both slices have at least 8
// bytes remaining. If either slice is shorter than 8 bytes it compares byte
// by byte up to the shorter length instead.
func matchWordCompare(a, b []byte) int {
	if len(a) < 8 || len(b) < 8 {
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		for i := 0; i < n; i++ {
			if a[i] != b[i] {
				return i
			}
		}
		return n
	}
	aw := *(*uint64)(unsafe.Pointer(&a[0]))
	bw := *(*uint64)(unsafe.Pointer(&b[0]))
	if aw == bw {
		return 8
	}
	return bits.TrailingZeros64(aw^bw) >> 3
}
