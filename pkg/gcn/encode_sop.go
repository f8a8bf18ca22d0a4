package gcn

import (
	"strconv"
	"strings"

	"github.com/gcnasm/gcnasm/pkg/expr"
)

// SOP identifier bits, bits[31:23] (9 bits) for SOP1/SOPC/SOPP, and the
// 4-bit SOPK prefix at bits[31:28] / 2-bit SOP2 prefix at bits[31:30]
// (standard GCN encoding, §6).
const (
	sop1Prefix uint32 = 0x17D
	sopcPrefix uint32 = 0x17E
	soppPrefix uint32 = 0x17F
	sopkPrefix uint32 = 0xB
)

func parseSOPOperand(text string, ctx ParseCtx) (Operand, error) {
	return ParseOperand(text, ctx, false)
}

// EncodeSOP1 encodes an SDST, SSRC0 scalar-ALU instruction (§4.5).
func EncodeSOP1(desc InstrDesc, operandText string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) != 2 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 2}
	}
	sdst, err := parseSOPOperand(ops[0], ctx)
	if err != nil {
		return Result{}, err
	}
	ssrc0, err := parseSOPOperand(ops[1], ctx)
	if err != nil {
		return Result{}, err
	}
	word := (sop1Prefix << 23) | (uint32(sdst.EncodedField()) << 16) | (uint32(desc.Code1) << 8) | uint32(ssrc0.EncodedField())
	res := Result{Words: []uint32{word}}
	res.Usage.Add(FieldSDST, sdst.Range, Write)
	res.Usage.Add(FieldSSRC0, ssrc0.Range, Read)
	if lit, pend := literalWordOrPending(ssrc0, 4); ssrc0.Kind == OperandLiteral {
		res.Words = append(res.Words, lit)
		if pend != nil {
			res.Pending = append(res.Pending, *pend)
		}
	}
	return res, nil
}

// EncodeSOP2 encodes an SDST, SSRC0, SSRC1 scalar-ALU instruction, applying
// the §3 RegRange literal-slot convention (255 marks whichever SSRC field
// carries a not-yet-resolved literal) rather than the specific hex value in
// the illustrative example, which places the literal marker in the SSRC0
// byte and is internally inconsistent with the RegRange table's own rule;
// see DESIGN.md.
func EncodeSOP2(desc InstrDesc, operandText string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) != 3 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 3}
	}
	sdst, err := parseSOPOperand(ops[0], ctx)
	if err != nil {
		return Result{}, err
	}
	ssrc0, err := parseSOPOperand(ops[1], ctx)
	if err != nil {
		return Result{}, err
	}
	ssrc1, err := parseSOPOperand(ops[2], ctx)
	if err != nil {
		return Result{}, err
	}
	if ssrc0.Kind == OperandLiteral && ssrc1.Kind == OperandLiteral {
		return Result{}, &ErrEncodingConflict{Reason: "at most one literal operand per instruction"}
	}
	word := (uint32(2) << 30) | (uint32(desc.Code1) << 23) | (uint32(sdst.EncodedField()) << 16) |
		(uint32(ssrc1.EncodedField()) << 8) | uint32(ssrc0.EncodedField())
	res := Result{Words: []uint32{word}}
	res.Usage.Add(FieldSDST, sdst.Range, Write)
	res.Usage.Add(FieldSSRC0, ssrc0.Range, Read)
	res.Usage.Add(FieldSSRC1, ssrc1.Range, Read)
	if ssrc0.Kind == OperandLiteral {
		lit, pend := literalWordOrPending(ssrc0, 4)
		res.Words = append(res.Words, lit)
		if pend != nil {
			res.Pending = append(res.Pending, *pend)
		}
	} else if ssrc1.Kind == OperandLiteral {
		lit, pend := literalWordOrPending(ssrc1, 4)
		res.Words = append(res.Words, lit)
		if pend != nil {
			res.Pending = append(res.Pending, *pend)
		}
	}
	return res, nil
}

// EncodeSOPC encodes an SSRC0, SSRC1 scalar-compare instruction (result
// implicitly written to SCC).
func EncodeSOPC(desc InstrDesc, operandText string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) != 2 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 2}
	}
	ssrc0, err := parseSOPOperand(ops[0], ctx)
	if err != nil {
		return Result{}, err
	}
	ssrc1, err := parseSOPOperand(ops[1], ctx)
	if err != nil {
		return Result{}, err
	}
	word := (sopcPrefix << 23) | (uint32(desc.Code1) << 16) | (uint32(ssrc1.EncodedField()) << 8) | uint32(ssrc0.EncodedField())
	res := Result{Words: []uint32{word}}
	res.Usage.Add(FieldSSRC0, ssrc0.Range, Read)
	res.Usage.Add(FieldSSRC1, ssrc1.Range, Read)
	if ssrc0.Kind == OperandLiteral {
		lit, pend := literalWordOrPending(ssrc0, 4)
		res.Words = append(res.Words, lit)
		if pend != nil {
			res.Pending = append(res.Pending, *pend)
		}
	} else if ssrc1.Kind == OperandLiteral {
		lit, pend := literalWordOrPending(ssrc1, 4)
		res.Words = append(res.Words, lit)
		if pend != nil {
			res.Pending = append(res.Pending, *pend)
		}
	}
	return res, nil
}

// EncodeSOPK encodes the SDST+SIMM16 forms and the label-only jump forms
// (§4.5, §9's Vega-CALL override via ResolveSOPKFlow).
func EncodeSOPK(desc InstrDesc, operandText string, ctx ParseCtx, srcOffset int64) (Result, error) {
	ops := splitOperands(operandText)

	if desc.Mode&ModeBranch != 0 {
		if len(ops) != 1 {
			return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 1}
		}
		word := (sopkPrefix << 28) | (uint32(desc.Code1) << 23)
		res := Result{Words: []uint32{word}}
		res.Pending = append(res.Pending, PendingReloc{ByteOffset: 0, Kind: expr.RelocJumpRelS16, Signed: true, BitWidth: 16, Text: strings.TrimSpace(ops[0])})
		kind, isFlow := ResolveSOPKFlow(desc.Code1, ctx.Arch)
		if isFlow {
			res.Flow = &FlowEdge{Source: srcOffset, Kind: kind}
		}
		return res, nil
	}

	if len(ops) != 2 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 2}
	}
	sdst, err := parseSOPOperand(ops[0], ctx)
	if err != nil {
		return Result{}, err
	}
	imm, err := strconv.ParseInt(strings.TrimSpace(ops[1]), 0, 32)
	if err != nil {
		return Result{}, &ErrBadOperand{Text: ops[1]}
	}
	word := (sopkPrefix << 28) | (uint32(desc.Code1) << 23) | (uint32(sdst.EncodedField()) << 16) | (uint32(uint16(imm)))
	res := Result{Words: []uint32{word}}
	res.Usage.Add(FieldSDST, sdst.Range, Read|Write)
	return res, nil
}

// EncodeSOPP encodes the no-operand, label-operand, and special-payload
// (s_waitcnt/s_sendmsg) SOPP forms (§4.5).
func EncodeSOPP(desc InstrDesc, operandText string, ctx ParseCtx, srcOffset int64) (Result, error) {
	operandText = strings.TrimSpace(operandText)

	switch desc.Mnemonic {
	case "s_waitcnt":
		w, err := ParseWaitCnt(operandText)
		if err != nil {
			return Result{}, err
		}
		imm := w.Encode(ctx.Arch)
		word := (soppPrefix << 23) | (uint32(desc.Code1) << 16) | uint32(imm)
		return Result{Words: []uint32{word}}, nil
	case "s_sendmsg":
		inner := strings.TrimSuffix(strings.TrimPrefix(operandText, "sendmsg("), ")")
		parts := splitOperands(inner)
		msg, gsOp, stream := "", "", 0
		if len(parts) > 0 {
			msg = strings.TrimSpace(parts[0])
		}
		if len(parts) > 1 {
			gsOp = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			if v, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
				stream = v
			}
		}
		imm, err := EncodeSendMsg(msg, gsOp, stream, ctx.Arch)
		if err != nil {
			return Result{}, err
		}
		word := (soppPrefix << 23) | (uint32(desc.Code1) << 16) | uint32(imm)
		return Result{Words: []uint32{word}}, nil
	}

	if desc.Mode&ModeBranch != 0 {
		word := (soppPrefix << 23) | (uint32(desc.Code1) << 16)
		res := Result{Words: []uint32{word}}
		res.Pending = append(res.Pending, PendingReloc{ByteOffset: 0, Kind: expr.RelocJumpRelS16, Signed: true, BitWidth: 16, Text: operandText})
		kind := FlowCJump
		if desc.Mode&ModeUnconditionalBranch != 0 {
			kind = FlowJump
		}
		res.Flow = &FlowEdge{Source: srcOffset, Kind: kind}
		return res, nil
	}

	var simm uint32
	if operandText != "" {
		v, err := strconv.ParseInt(operandText, 0, 32)
		if err != nil {
			return Result{}, &ErrBadOperand{Text: operandText}
		}
		simm = uint32(uint16(v))
	}
	word := (soppPrefix << 23) | (uint32(desc.Code1) << 16) | simm
	res := Result{Words: []uint32{word}}
	if desc.Mode&ModeEndProgram != 0 {
		res.Flow = &FlowEdge{Source: srcOffset, Target: srcOffset, Kind: FlowEnd}
	}
	return res, nil
}
