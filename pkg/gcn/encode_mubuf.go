package gcn

import "strings"

const (
	mubufPrefix uint32 = 0x38 // bits[31:26]
	mtbufPrefix uint32 = 0x3A // bits[31:26]
)

// EncodeMUBUF encodes the untyped-buffer memory format:
// `vdata, vaddr, srsrc, soffset [offset:N] [lds] [tfe]` (§4.5 step 5). A
// `lds` modifier suppresses the VDATA usage record (data lands in LDS, not
// a VGPR); a `tfe` modifier appends a trailing carry-lane usage record.
func EncodeMUBUF(desc InstrDesc, operandText string, mods []string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) != 4 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 4}
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
	soffset, err := ParseOperand(ops[3], ctx, true)
	if err != nil {
		return Result{}, err
	}

	lds := hasModifier(mods, "lds")
	tfe := hasModifier(mods, "tfe")
	off, hasOff, err := parseUintModifier(mods, "offset")
	if err != nil {
		return Result{}, err
	}

	res := Result{}
	var offsetField uint32
	if hasOff {
		offsetField = uint32(off) & 0xfff
	}
	var ldsBit, tfeBit, glcBit uint32
	if lds {
		ldsBit = 1
	}
	if tfe {
		tfeBit = 1
	}
	if hasModifier(mods, "glc") {
		glcBit = 1
	}

	word0 := (mubufPrefix << 26) | (offsetField) | (glcBit << 14) | (ldsBit << 16) | (tfeBit << 17)
	word1 := (uint32(desc.Code1) << 18) | (uint32(vaddr.EncodedField()) << 0)
	word2 := (uint32(srsrc.EncodedField()>>2) << 0) | (uint32(vdata.EncodedField()) << 8) | (uint32(soffset.EncodedField()) << 24)
	res.Words = []uint32{word0, word1, word2}

	res.Usage.Add(FieldMUBUFVADDR, vaddr.Range, Read)
	res.Usage.Add(FieldMUBUFSRSRC, srsrc.Range, Read)
	res.Usage.Add(FieldMUBUFSOFFSET, soffset.Range, Read)
	isStore := strings.Contains(desc.Mnemonic, "store")
	if !lds {
		flags := Read
		if !isStore {
			flags = Write
		}
		if desc.Mode&ModeIsCmpSwap != 0 {
			flags = Read | Write
		}
		res.Usage.Add(FieldMUBUFVDATA, vdata.Range, flags)
		if desc.Mode&ModeIsCmpSwap != 0 && vdata.Range.Count() > 1 {
			res.Usage.SplitHalfwriteAtomic(FieldMUBUFVDATA)
		}
	}
	if tfe {
		res.Usage.AddTFECarry(FieldMUBUFTFE, vdata.Range.End+1)
	}
	return res, nil
}

// EncodeMTBUF encodes the typed-buffer format, identical operand shape to
// MUBUF plus a data-format/number-format pair carried in the mnemonic
// suffix (`_format_x`, etc.) rather than as a separate operand.
func EncodeMTBUF(desc InstrDesc, operandText string, mods []string, ctx ParseCtx) (Result, error) {
	res, err := EncodeMUBUF(InstrDesc{Mnemonic: desc.Mnemonic, Mode: desc.Mode, Code1: desc.Code1, ArchMask: desc.ArchMask}, operandText, mods, ctx)
	if err != nil {
		return Result{}, err
	}
	res.Words[0] = (res.Words[0] &^ (uint32(0x3f) << 26)) | (mtbufPrefix << 26)
	return res, nil
}
