// SPDX-License-Identifier: MIT

package flzma2

import "unsafe"

// uint32SliceAsBytes reinterprets a []uint32 backing array as a []byte view,
// supporting the output-buffer reuse the bitpack table's storage must
// allow.
func uint32SliceAsBytes(cells []uint32) []byte {
	if len(cells) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&cells[0])), len(cells)*4)
}

func rmfUnitSliceAsBytes(units []rmfUnit) []byte {
	if len(units) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&units[0])), len(units)*20)
}

// matchTable stores, for every position in a dictionary buffer, either NULL
// or a (link, length) pair pointing to the nearest preceding occurrence of a
// matching string. outputBuffer exposes the same storage as bytes, but the
// encoder does not write into it: compressed output goes to the Encoder's
// scratch buffer.
type matchTable interface {
	// get returns (link, length, true) or (0, 0, false) if pos is NULL.
	get(pos int) (link int, length int, ok bool)
	length(pos int) int
	setNull(pos int)
	setLinkLength(pos, link, length int)
	setLength(pos, length int)
	maxLength() int
	// outputBuffer returns a byte view of this table's storage starting at
	// byte offset pos*cellSize, reusing the cells as encoder output.
	outputBuffer(pos int) []byte
	cellSize() int
	size() int
}

// --- bitpack variant: one uint32 per position, 26-bit link + 6-bit length.
// Used when dictSize <= 1<<26.

type bitpackTable struct {
	cells []uint32
}

func newBitpackTable(n int) *bitpackTable {
	return &bitpackTable{cells: make([]uint32, n)}
}

func (t *bitpackTable) size() int { return len(t.cells) }

func (t *bitpackTable) get(pos int) (int, int, bool) {
	w := t.cells[pos]
	if w == radixNullLink {
		return 0, 0, false
	}
	return int(w & radixLinkMask), int(w >> radixLinkBits), true
}

func (t *bitpackTable) length(pos int) int { return int(t.cells[pos] >> radixLinkBits) }

func (t *bitpackTable) setNull(pos int) { t.cells[pos] = radixNullLink }

func (t *bitpackTable) setLinkLength(pos, link, length int) {
	t.cells[pos] = uint32(link) | uint32(length)<<radixLinkBits
}

func (t *bitpackTable) setLength(pos, length int) {
	link := t.cells[pos] & radixLinkMask
	t.cells[pos] = link | uint32(length)<<radixLinkBits
}

func (t *bitpackTable) maxLength() int { return bitpackMaxLength }

func (t *bitpackTable) cellSize() int { return 4 }

func (t *bitpackTable) outputBuffer(pos int) []byte {
	return uint32SliceAsBytes(t.cells)[pos*4:]
}

// --- structured variant: 4-position units of 4xuint32 links + 4xuint8
// lengths. Used when dictSize > 1<<26, where a 26-bit link can't address
// the whole window.

type rmfUnit struct {
	links   [4]uint32
	lengths [4]uint8
}

type structuredTable struct {
	units []rmfUnit
	n     int
}

func newStructuredTable(n int) *structuredTable {
	return &structuredTable{units: make([]rmfUnit, (n+3)/4), n: n}
}

func (t *structuredTable) size() int { return t.n }

func (t *structuredTable) get(pos int) (int, int, bool) {
	u := &t.units[pos>>2]
	slot := pos & 3
	if u.links[slot] == radixNullLink {
		return 0, 0, false
	}
	return int(u.links[slot]), int(u.lengths[slot]), true
}

func (t *structuredTable) length(pos int) int {
	return int(t.units[pos>>2].lengths[pos&3])
}

func (t *structuredTable) setNull(pos int) {
	t.units[pos>>2].links[pos&3] = radixNullLink
	t.units[pos>>2].lengths[pos&3] = 0
}

func (t *structuredTable) setLinkLength(pos, link, length int) {
	u := &t.units[pos>>2]
	slot := pos & 3
	u.links[slot] = uint32(link)
	if length > structuredMaxLength {
		length = structuredMaxLength
	}
	u.lengths[slot] = uint8(length)
}

func (t *structuredTable) setLength(pos, length int) {
	if length > structuredMaxLength {
		length = structuredMaxLength
	}
	t.units[pos>>2].lengths[pos&3] = uint8(length)
}

func (t *structuredTable) maxLength() int { return structuredMaxLength }

func (t *structuredTable) cellSize() int { return 20 }

func (t *structuredTable) outputBuffer(pos int) []byte {
	return rmfUnitSliceAsBytes(t.units)[pos*20:]
}

// newMatchTable selects the table variant for dictSize the way rmf_create_match_table
// does: structured storage once the window no longer fits a 26-bit link.
func newMatchTable(dictSize int) matchTable {
	n := dictSize + maxReadBeyondDepth
	if dictSize > 1<<26 {
		return newStructuredTable(n)
	}
	return newBitpackTable(n)
}
