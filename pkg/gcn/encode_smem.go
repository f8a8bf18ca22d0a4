package gcn

import (
	"strings"

	"github.com/gcnasm/gcnasm/pkg/expr"
)

// SMRD/SMEM identifier prefixes (§6). SMRD (pre-GCN1.2) is single-word;
// SMEM (GCN1.2+) is two words, with Vega widening the immediate-offset
// field to a signed 21 bits (§4.5, §8 scenario 6).
const (
	smrdPrefix uint32 = 0x18 // bits[31:27]
	smemPrefix uint32 = 0x30 // bits[31:26]
)

// EncodeSMRD encodes the pre-GCN1.2 single-word scalar-memory-read format:
// `sdst, sbase, offset`, where offset is either an SGPR (IMM=0) or an 8-bit
// unsigned immediate/expression (IMM=1). Word layout is
// `dst<<15 | (sbase>>1)<<9 | imm<<8 | offset[7:0]`.
func EncodeSMRD(desc InstrDesc, operandText string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) != 3 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 3}
	}
	sdst, err := parseSOPOperand(ops[0], ctx)
	if err != nil {
		return Result{}, err
	}
	sbase, err := parseSOPOperand(ops[1], ctx)
	if err != nil {
		return Result{}, err
	}
	offsetText := strings.TrimSpace(ops[2])

	res := Result{}
	var imm, offsetField uint32
	var pending *PendingReloc
	if soff, ok, _ := parseRegisterRange(offsetText, strings.ToLower(offsetText), false); ok {
		imm = 0
		offsetField = uint32(soff.Start)
		res.Usage.Add(FieldSOFFSET, soff, Read)
	} else {
		imm = 1
		op, err := parseSOPOperand(offsetText, ctx)
		if err != nil {
			return Result{}, err
		}
		if op.LiteralExpr {
			pending = &PendingReloc{ByteOffset: 0, Kind: expr.RelocSMRDOffsetU8, BitWidth: 8, Text: op.LiteralText}
		} else {
			offsetField = op.LiteralBits & 0xff
		}
	}

	word := (smrdPrefix << 27) | (uint32(desc.Code1) << 22) | (uint32(sdst.EncodedField()) << 15) |
		(uint32(sbase.EncodedField()>>1) << 9) | (imm << 8) | offsetField
	res.Words = []uint32{word}
	res.Usage.Add(FieldSDST, sdst.Range, Write)
	res.Usage.Add(FieldSBASE, sbase.Range, Read)
	if pending != nil {
		pending.ByteOffset = 0
		res.Pending = append(res.Pending, *pending)
	}
	return res, nil
}

// EncodeSMEM encodes the GCN1.2+ two-word scalar-memory format. word0 packs
// SDATA at bits[13:6], SBASE>>1 at bits[5:0], and IMM at bit 17 (§4.5). On
// Vega the immediate offset is a signed 21-bit value (§4.5, §8 scenario 6:
// an explicit `offset:` modifier together with a positional immediate
// offset is rejected as conflicting, since both would target the same
// field).
func EncodeSMEM(desc InstrDesc, operandText string, mods []string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) != 3 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 3}
	}
	sdata, err := parseSOPOperand(ops[0], ctx)
	if err != nil {
		return Result{}, err
	}
	sbase, err := parseSOPOperand(ops[1], ctx)
	if err != nil {
		return Result{}, err
	}
	offsetText := strings.TrimSpace(ops[2])

	res := Result{}
	var imm uint32
	var word1 uint32
	var pending *PendingReloc
	regOffset, isReg, _ := parseRegisterRange(offsetText, strings.ToLower(offsetText), false)
	if _, hasOffsetModifier := modifierValue(mods, "offset"); hasOffsetModifier && !isReg {
		return Result{}, &ErrEncodingConflict{Reason: desc.Mnemonic + ": explicit offset: modifier conflicts with an immediate offset operand"}
	}
	if isReg {
		imm = 0
		word1 = uint32(regOffset.Start)
		res.Usage.Add(FieldSOFFSET, regOffset, Read)
	} else {
		imm = 1
		op, err := parseSOPOperand(offsetText, ctx)
		if err != nil {
			return Result{}, err
		}
		if op.LiteralExpr {
			kind := expr.RelocSMEMOffsetU20
			width := 20
			if ctx.Arch.IsVega() {
				kind = expr.RelocSMEMOffsetS21
				width = 21
			}
			pending = &PendingReloc{ByteOffset: 4, Kind: kind, Signed: ctx.Arch.IsVega(), BitWidth: width, Text: op.LiteralText}
		} else {
			mask := uint32(0xfffff)
			if ctx.Arch.IsVega() {
				mask = 0x1fffff
			}
			word1 = op.LiteralBits & mask
		}
	}

	word0 := (smemPrefix << 26) | (uint32(desc.Code1) << 18) | (imm << 17) |
		(uint32(sdata.EncodedField()) << 6) | (uint32(sbase.EncodedField()) >> 1)
	res.Words = []uint32{word0, word1}
	res.Usage.Add(FieldSDATA, sdata.Range, Read|Write)
	res.Usage.Add(FieldSBASE, sbase.Range, Read)
	if pending != nil {
		res.Pending = append(res.Pending, *pending)
	}
	return res, nil
}
