package gcn

import "strings"

const mimgPrefix uint32 = 0x3C // bits[31:26]

// EncodeMIMG encodes the image-memory format: `vdata, vaddr, srsrc[, ssamp]
// [dmask:N] [unorm]` (§4.5, §7). A store without an explicit `unorm`
// modifier is rejected when the descriptor's ModeStoreRequiresUNORM flag is
// set.
func EncodeMIMG(desc InstrDesc, operandText string, mods []string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) < 3 || len(ops) > 4 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 3}
	}
	vdata, err := ParseOperand(ops[0], ctx, true)
	if err != nil {
		return Result{}, err
	}
	vaddr, err := ParseOperand(ops[1], ctx, true)
	if err != nil {
		return Result{}, err
	}
	srsrc, err := ParseOperand(ops[2], ctx, true)
	if err != nil {
		return Result{}, err
	}
	var ssamp Operand
	haveSamp := len(ops) == 4
	if haveSamp {
		ssamp, err = ParseOperand(ops[3], ctx, true)
		if err != nil {
			return Result{}, err
		}
	}

	unorm := hasModifier(mods, "unorm")
	if desc.Mode&ModeStoreRequiresUNORM != 0 && !unorm {
		return Result{}, &ErrEncodingConflict{Reason: desc.Mnemonic + ": image store requires the unorm modifier"}
	}
	dmask, hasDmask, err := parseUintModifier(mods, "dmask")
	if err != nil {
		return Result{}, err
	}
	if !hasDmask {
		dmask = 0xf
	}
	var unormBit uint32
	if unorm {
		unormBit = 1
	}

	word0 := (mimgPrefix << 26) | (uint32(dmask) << 8) | (unormBit << 12) | uint32(desc.Code1)
	word1 := (uint32(vaddr.Range.Start) << 0) | (uint32(vdata.Range.Start) << 8) |
		(uint32(srsrc.Range.Start>>2) << 16) | (uint32(ssamp.Range.Start>>2) << 21)
	res := Result{Words: []uint32{word0, word1}}
	res.Usage.Add(FieldMIMGVADDR, vaddr.Range, Read)
	res.Usage.Add(FieldMIMGSRSRC, srsrc.Range, Read)
	if haveSamp {
		res.Usage.Add(FieldMIMGSSAMP, ssamp.Range, Read)
	}
	flags := Write
	if strings.Contains(desc.Mnemonic, "store") {
		flags = Read
	}
	res.Usage.Add(FieldMIMGVDATA, vdata.Range, flags)
	return res, nil
}
