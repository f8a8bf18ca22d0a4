package gcn

import (
	"strconv"
	"strings"
)

const vintrpPrefix uint32 = 0x32 // bits[31:26]

// EncodeVINTRP encodes the parameter-interpolation format:
// `vdst, vsrc, attrN.chan` (§4.5). Promotion to the paired VOP3 form
// follows the same rule as the other short-form families.
func EncodeVINTRP(desc InstrDesc, operandText string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) != 3 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 3}
	}
	vdst, err := ParseOperand(ops[0], ctx, true)
	if err != nil {
		return Result{}, err
	}
	vsrc, err := ParseOperand(ops[1], ctx, true)
	if err != nil {
		return Result{}, err
	}
	attrNum, chan_, err := parseAttr(ops[2])
	if err != nil {
		return Result{}, err
	}

	word := (vintrpPrefix << 26) | (uint32(desc.Code1) << 21) | (uint32(chan_) << 8) | (uint32(attrNum) << 10) |
		(uint32(vsrc.EncodedField()) << 16) | uint32(vdst.EncodedField())
	res := Result{Words: []uint32{word}}
	res.Usage.Add(FieldVINTRPVDST, vdst.Range, Write)
	res.Usage.Add(FieldVINTRPVSRC, vsrc.Range, Read)
	return res, nil
}

func parseAttr(text string) (num int, chanIdx int, err error) {
	text = strings.TrimSpace(text)
	dot := strings.IndexByte(text, '.')
	if dot < 0 || !strings.HasPrefix(text, "attr") {
		return 0, 0, &ErrBadOperand{Text: text}
	}
	n, perr := strconv.Atoi(text[4:dot])
	if perr != nil {
		return 0, 0, &ErrBadOperand{Text: text}
	}
	switch text[dot+1:] {
	case "x":
		chanIdx = 0
	case "y":
		chanIdx = 1
	case "z":
		chanIdx = 2
	case "w":
		chanIdx = 3
	default:
		return 0, 0, &ErrBadOperand{Text: text}
	}
	return n, chanIdx, nil
}
