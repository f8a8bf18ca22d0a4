package gcn

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/gcnasm/gcnasm/pkg/expr"
)

// SizeHint captures the `_e32`/`_e64`/`_sdwa`/`_dpp` mnemonic suffixes
// stripped before table lookup and propagated to the encoder as
// forced-size/forced-encoding hints (§6).
type SizeHint struct {
	Force32 bool
	Force64 bool
	SDWA    bool
	DPP     bool
}

// StripSuffix removes a recognised suffix from mnemonic and returns the
// bare mnemonic plus the resulting hint (§6). `_sdwa`/`_dpp` are only
// meaningful on `v_`-prefixed mnemonics; StripSuffix still strips them
// unconditionally and lets the encoder reject the combination for
// non-vector families.
func StripSuffix(mnemonic string) (string, SizeHint) {
	var h SizeHint
	switch {
	case strings.HasSuffix(mnemonic, "_e32"):
		h.Force32 = true
		mnemonic = strings.TrimSuffix(mnemonic, "_e32")
	case strings.HasSuffix(mnemonic, "_e64"):
		h.Force64 = true
		mnemonic = strings.TrimSuffix(mnemonic, "_e64")
	case strings.HasSuffix(mnemonic, "_sdwa"):
		h.SDWA = true
		mnemonic = strings.TrimSuffix(mnemonic, "_sdwa")
	case strings.HasSuffix(mnemonic, "_dpp"):
		h.DPP = true
		mnemonic = strings.TrimSuffix(mnemonic, "_dpp")
	}
	return mnemonic, h
}

// PendingReloc is an unresolved literal/immediate operand's relocation
// attachment, to be registered with the symbol table by the driver layer
// once the expression text has been parsed into an *expr.Expression (gcn
// itself never parses arithmetic — that's pkg/expr's job — it only records
// where in the emitted bytes the value must eventually land).
type PendingReloc struct {
	ByteOffset int64
	Kind       expr.RelocKind
	Signed     bool
	BitWidth   int
	Text       string // original expression text, for pkg/expr parsing at the driver layer
}

// Result is what every per-family Encode routine produces (§4.5).
type Result struct {
	Words   []uint32
	Usage   UsageList
	Flow    *FlowEdge
	Pending []PendingReloc
}

// Bytes renders Words as little-endian bytes (§6: "always little-endian
// 32-bit words").
func (r Result) Bytes() []byte {
	out := make([]byte, 4*len(r.Words))
	for i, w := range r.Words {
		binary.LittleEndian.PutUint32(out[4*i:], w)
	}
	return out
}

// ErrEncodingConflict covers the family-specific conflicting-constraint
// failures of §4.5 step 3 (literal+SDWA/DPP, literal in VOP3, ABS in
// VOP3B, CLAMP/OMOD in SDWAB, forced size contradicting requirements).
type ErrEncodingConflict struct{ Reason string }

func (e *ErrEncodingConflict) Error() string { return e.Reason }

// ErrUnknownMnemonic is returned when no descriptor row matches.
type ErrUnknownMnemonic struct{ Mnemonic string }

func (e *ErrUnknownMnemonic) Error() string { return fmt.Sprintf("unknown mnemonic %q", e.Mnemonic) }

// ErrOperandCount is returned when the operand list doesn't match the
// family's fixed arity.
type ErrOperandCount struct {
	Mnemonic string
	Got      int
	Want     int
}

func (e *ErrOperandCount) Error() string {
	return fmt.Sprintf("%s: got %d operands, want %d", e.Mnemonic, e.Got, e.Want)
}

func splitOperands(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	depth := 0
	start := 0
	for i, c := range s {
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}

// splitModifiers separates trailing bare-word/keyword:value modifiers
// (offset:N, mul:2, clamp, vop3, ...) from the fixed operand list; it is a
// simple whitespace/comma split over whatever text follows the last
// recognised positional operand, left to each family's encoder to
// interpret since the recognised modifier set is family/architecture
// dependent (§4.5 step 2).
func splitModifiers(s string) []string {
	fields := strings.Fields(s)
	return fields
}

func modifierValue(mods []string, key string) (string, bool) {
	prefix := key + ":"
	for _, m := range mods {
		if strings.HasPrefix(m, prefix) {
			return strings.TrimPrefix(m, prefix), true
		}
	}
	return "", false
}

func hasModifier(mods []string, key string) bool {
	for _, m := range mods {
		if m == key {
			return true
		}
	}
	return false
}

func parseUintModifier(mods []string, key string) (uint64, bool, error) {
	s, ok := modifierValue(mods, key)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, true, fmt.Errorf("bad %s modifier: %v", key, err)
	}
	return v, true, nil
}

// literalWordOrPending returns the 32-bit literal word for op (either its
// already-known bits, or 0 with a pending relocation attached at
// byteOffset) per §8 scenario 4.
func literalWordOrPending(op Operand, byteOffset int64) (uint32, *PendingReloc) {
	if op.LiteralExpr {
		return 0, &PendingReloc{ByteOffset: byteOffset, Kind: expr.RelocLiteral32, BitWidth: 32, Text: op.LiteralText}
	}
	return op.LiteralBits, nil
}

// hwregNamesPreVega / hwregNamesVega are the two `hwreg(name,...)` name
// tables of §4.5, differing between pre-Vega and Vega.
var hwregNamesPreVega = map[string]int{
	"HW_REG_MODE": 1, "HW_REG_STATUS": 2, "HW_REG_TRAPSTS": 3,
	"HW_REG_HW_ID": 4, "HW_REG_GPR_ALLOC": 5, "HW_REG_LDS_ALLOC": 6,
	"HW_REG_IB_STS": 7,
}

var hwregNamesVega = map[string]int{
	"HW_REG_MODE": 1, "HW_REG_STATUS": 2, "HW_REG_TRAPSTS": 3,
	"HW_REG_HW_ID": 4, "HW_REG_GPR_ALLOC": 5, "HW_REG_LDS_ALLOC": 6,
	"HW_REG_IB_STS": 7, "HW_REG_HW_ID1": 23, "HW_REG_HW_ID2": 24,
}

// EncodeHwreg packs `hwreg(name,off,size)` to name | off<<6 | (size-1)<<11
// (§4.5).
func EncodeHwreg(name string, off, size int, arch Arch) (uint32, error) {
	table := hwregNamesPreVega
	if arch.IsVega() {
		table = hwregNamesVega
	}
	code, ok := table[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("unknown hwreg name %q", name)
	}
	return uint32(code) | uint32(off)<<6 | uint32(size-1)<<11, nil
}

// sendMsgTablePreVega / sendMsgTableVega are the message-symbol tables for
// `s_sendmsg`, differing by architecture (§4.5).
var sendMsgTablePreVega = map[string]int{
	"MSG_INTERRUPT": 1, "MSG_GS": 2, "MSG_GS_DONE": 3,
}

var sendMsgTableVega = map[string]int{
	"MSG_INTERRUPT": 1, "MSG_GS": 2, "MSG_GS_DONE": 3, "MSG_SAVEWAVE": 4,
	"MSG_STALL_WAVE_GEN": 5,
}

var gsOpTable = map[string]int{"nop": 0, "cut": 1, "emit": 2, "emit_cut": 3}

// EncodeSendMsg packs the message symbol, optional GS-op, and optional
// stream id into s_sendmsg's imm16 payload (§4.5).
func EncodeSendMsg(msg string, gsOp string, streamID int, arch Arch) (uint16, error) {
	table := sendMsgTablePreVega
	if arch.IsVega() {
		table = sendMsgTableVega
	}
	code, ok := table[strings.ToUpper(msg)]
	if !ok {
		return 0, fmt.Errorf("unknown sendmsg symbol %q", msg)
	}
	imm := uint16(code & 0xf)
	if gsOp != "" {
		op, ok := gsOpTable[gsOp]
		if !ok {
			return 0, fmt.Errorf("unknown gs-op %q", gsOp)
		}
		imm |= uint16(op) << 4
		imm |= uint16(streamID&0x3) << 8
	}
	return imm, nil
}

// WaitCnt is the parsed `vmcnt`/`lgkmcnt`/`expcnt` argument set of
// `s_waitcnt` (§4.5). A field left at -1 means "not specified" (encoded as
// all-ones, meaning "don't wait").
type WaitCnt struct {
	VMCnt   int
	LGKMCnt int
	ExpCnt  int
}

// ParseWaitCnt parses `vmcnt(N) & lgkmcnt(N) & expcnt(N)` in any order
// (§4.5: "order-independent, separated by &").
func ParseWaitCnt(text string) (WaitCnt, error) {
	w := WaitCnt{VMCnt: -1, LGKMCnt: -1, ExpCnt: -1}
	for _, part := range strings.Split(text, "&") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		open := strings.IndexByte(part, '(')
		close := strings.IndexByte(part, ')')
		if open < 0 || close < open {
			return w, fmt.Errorf("bad waitcnt field %q", part)
		}
		field := part[:open]
		val, err := strconv.Atoi(part[open+1 : close])
		if err != nil {
			return w, fmt.Errorf("bad waitcnt value %q: %v", part, err)
		}
		switch field {
		case "vmcnt":
			w.VMCnt = val
		case "lgkmcnt":
			w.LGKMCnt = val
		case "expcnt":
			w.ExpCnt = val
		default:
			return w, fmt.Errorf("unknown waitcnt field %q", field)
		}
	}
	return w, nil
}

// Encode packs a WaitCnt into s_waitcnt's imm16 payload, using the
// pre-Vega 4+4+3 layout or Vega's split 6-bit vmcnt (low 4 at [3:0], high 2
// at [15:14]) per §4.5.
func (w WaitCnt) Encode(arch Arch) uint16 {
	vm := w.VMCnt
	lgkm := w.LGKMCnt
	exp := w.ExpCnt
	if arch.IsVega() {
		if vm < 0 {
			vm = 0x3f
		}
		if lgkm < 0 {
			lgkm = 0xf
		}
		if exp < 0 {
			exp = 0x7
		}
		var imm uint16
		imm |= uint16(vm&0xf) << 0
		imm |= uint16(exp&0x7) << 4
		imm |= uint16(lgkm&0xf) << 8
		imm |= uint16((vm>>4)&0x3) << 14
		return imm
	}
	if vm < 0 {
		vm = 0xf
	}
	if lgkm < 0 {
		lgkm = 0xf
	}
	if exp < 0 {
		exp = 0x7
	}
	var imm uint16
	imm |= uint16(vm&0xf) << 0
	imm |= uint16(exp&0x7) << 4
	imm |= uint16(lgkm&0xf) << 8
	return imm
}

// DecodeWaitCnt reverses Encode, per §4.5/§4.6 (unknown-bit residues are
// not possible here since every bit is meaningful, unlike sendmsg).
func DecodeWaitCnt(imm uint16, arch Arch) WaitCnt {
	if arch.IsVega() {
		vm := int(imm&0xf) | int((imm>>14)&0x3)<<4
		exp := int((imm >> 4) & 0x7)
		lgkm := int((imm >> 8) & 0xf)
		return WaitCnt{VMCnt: vm, ExpCnt: exp, LGKMCnt: lgkm}
	}
	vm := int(imm & 0xf)
	exp := int((imm >> 4) & 0x7)
	lgkm := int((imm >> 8) & 0xf)
	return WaitCnt{VMCnt: vm, ExpCnt: exp, LGKMCnt: lgkm}
}
