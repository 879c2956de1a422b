// SPDX-License-Identifier: MIT

package flzma2

type listHead struct {
	head  uint32
	count uint32
}

// initTable performs Phase A: walk data[0:end), chaining every position into
// the list for its leading 16-bit radix, and push each newly-seen radix onto
// rt.stack for Phase B to claim. Single-threaded; done once per block before
// the coordinator fans out workers.
func initTable(rt *rmfTable, data []byte, end int) {
	tbl := rt.table
	rt.stIndex.Store(0)
	if end <= 2 {
		for i := 0; i < end; i++ {
			tbl.setNull(i)
		}
		rt.endIndex = 0
		return
	}

	tbl.setNull(0)
	for i := range rt.listHeads {
		rt.listHeads[i] = listHead{head: radixNullLink, count: 0}
	}

	stIndex := 0
	radix16 := (int(data[0]) << 8) | int(data[1])
	rt.stack[stIndex] = uint32(radix16)
	stIndex++
	rt.listHeads[radix16] = listHead{head: 0, count: 1}

	radix16 = (radix16&0xff)<<8 | int(data[2])

	blockSize := end - 2
	for i := 1; i < blockSize; i++ {
		nextRadix := (radix16&0xff)<<8 | int(data[i+2])

		lh := &rt.listHeads[radix16]
		if lh.head != radixNullLink {
			tbl.setLinkLength(i, int(lh.head), 0)
			lh.head = uint32(i)
			lh.count++
		} else {
			tbl.setNull(i)
			rt.listHeads[radix16] = listHead{head: uint32(i), count: 1}
			rt.stack[stIndex] = uint32(radix16)
			stIndex++
		}
		radix16 = nextRadix
	}

	if rt.listHeads[radix16].head != radixNullLink {
		tbl.setLinkLength(blockSize, int(rt.listHeads[radix16].head), 2)
	} else {
		tbl.setNull(blockSize)
	}
	tbl.setNull(end - 1)

	rt.endIndex = stIndex
}
