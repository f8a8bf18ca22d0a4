package gcn

import (
	"encoding/binary"
	"fmt"

	"github.com/gcnasm/gcnasm/pkg/expr"
)

// ErrRelocOutOfRange is returned when a resolved value does not fit the
// relocation site's bit width (§4.7, §7).
type ErrRelocOutOfRange struct {
	Kind  expr.RelocKind
	Value int64
	Width int
}

func (e *ErrRelocOutOfRange) Error() string {
	return fmt.Sprintf("relocated value %d does not fit a %d-bit field (kind %d)", e.Value, e.Width, e.Kind)
}

// InRange reports whether value fits a signed/unsigned field of width bits.
func InRange(value int64, width int, signed bool) bool {
	if signed {
		lo := int64(-1) << uint(width-1)
		hi := (int64(1) << uint(width-1)) - 1
		return value >= lo && value <= hi
	}
	if value < 0 {
		return false
	}
	return uint64(value) < (uint64(1) << uint(width))
}

// Patch performs the little-endian read-modify-write of §4.7: it reads the
// 32-bit word already emitted at buf[wordOffset:wordOffset+4], clears the
// bits the relocation kind owns, ORs in value, and writes the word back.
// wordOffset is the absolute byte offset of the word containing the field,
// already resolved by the caller (instruction base + PendingReloc's
// instruction-relative ByteOffset).
func Patch(buf []byte, wordOffset int64, kind expr.RelocKind, value int64) error {
	width, signed, shift := relocLayout(kind)
	if !InRange(value, width, signed) {
		return &ErrRelocOutOfRange{Kind: kind, Value: value, Width: width}
	}

	if kind == expr.RelocDSOffset0U8 {
		return patchByte(buf, wordOffset, 0, value)
	}
	if kind == expr.RelocDSOffset1U8 {
		return patchByte(buf, wordOffset, 1, value)
	}

	if int(wordOffset)+4 > len(buf) {
		return fmt.Errorf("relocation word offset %d out of bounds (len %d)", wordOffset, len(buf))
	}
	word := binary.LittleEndian.Uint32(buf[wordOffset:])
	mask := uint32((uint64(1) << uint(width)) - 1)
	word &^= mask << uint(shift)
	word |= (uint32(value) & mask) << uint(shift)
	binary.LittleEndian.PutUint32(buf[wordOffset:], word)
	return nil
}

func patchByte(buf []byte, wordOffset int64, byteIdx int, value int64) error {
	idx := int(wordOffset) + byteIdx
	if idx >= len(buf) {
		return fmt.Errorf("relocation byte offset %d out of bounds (len %d)", idx, len(buf))
	}
	buf[idx] = byte(value)
	return nil
}

// relocLayout returns the (bit width, signedness, shift-within-word) for
// each relocation kind (§4.2, §4.7). Two kinds (DS offset0/offset1) are
// single bytes at a fixed position within the DS word and are patched
// directly by Patch rather than through this generic word-mask path.
func relocLayout(kind expr.RelocKind) (width int, signed bool, shift int) {
	switch kind {
	case expr.RelocLiteral32:
		return 32, false, 0
	case expr.RelocJumpRelS16:
		return 16, true, 0
	case expr.RelocSOPKImmU16:
		return 16, false, 0
	case expr.RelocSMRDOffsetU8:
		return 8, false, 0
	case expr.RelocDSOffsetU16:
		return 16, false, 0
	case expr.RelocMUBUFOffsetU12:
		return 12, false, 0
	case expr.RelocSOPCImmU8:
		return 8, false, 0
	case expr.RelocSMEMOffsetU20:
		return 20, false, 0
	case expr.RelocSMEMOffsetS21:
		return 21, true, 0
	case expr.RelocFlatOffsetU12:
		return 12, false, 0
	case expr.RelocFlatOffsetS13:
		return 13, true, 0
	case expr.RelocSMEMImmU7Split:
		return 7, false, 0
	default:
		return 32, false, 0
	}
}
