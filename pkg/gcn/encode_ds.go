package gcn

import "strings"

const dsPrefix uint32 = 0x36 // bits[31:26]

// EncodeDS encodes the LDS/GDS data-share format (§4.5, §8 scenario 1). The
// fixed operand shape is dispatched from the mnemonic's read/read2/write/
// write2/cmpst-style naming, since DS instructions do not share one uniform
// arity the way SOP/VOP do. word0's opcode and GDS bit sit at [25:18]/bit17
// pre-GCN1.2 and [24:17]/bit16 on GCN1.2+.
func EncodeDS(desc InstrDesc, operandText string, mods []string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	off0, hasOff0, err := parseUintModifier(mods, "offset0")
	if err != nil {
		return Result{}, err
	}
	off1, hasOff1, err := parseUintModifier(mods, "offset1")
	if err != nil {
		return Result{}, err
	}
	off, hasOff, err := parseUintModifier(mods, "offset")
	if err != nil {
		return Result{}, err
	}
	gds := hasModifier(mods, "gds")

	name := desc.Mnemonic
	res := Result{}
	var addr, vdst, data0, data1 Operand
	var haveVdst, haveData0, haveData1 bool

	switch {
	case strings.Contains(name, "read2"):
		if len(ops) != 2 {
			return Result{}, &ErrOperandCount{Mnemonic: name, Got: len(ops), Want: 2}
		}
		vdst, err = ParseOperand(ops[0], ctx, true)
		if err != nil {
			return Result{}, err
		}
		addr, err = ParseOperand(ops[1], ctx, true)
		if err != nil {
			return Result{}, err
		}
		haveVdst = true
	case strings.Contains(name, "read"):
		if len(ops) != 2 {
			return Result{}, &ErrOperandCount{Mnemonic: name, Got: len(ops), Want: 2}
		}
		vdst, err = ParseOperand(ops[0], ctx, true)
		if err != nil {
			return Result{}, err
		}
		addr, err = ParseOperand(ops[1], ctx, true)
		if err != nil {
			return Result{}, err
		}
		haveVdst = true
	case strings.Contains(name, "write2"):
		if len(ops) != 3 {
			return Result{}, &ErrOperandCount{Mnemonic: name, Got: len(ops), Want: 3}
		}
		addr, err = ParseOperand(ops[0], ctx, true)
		if err != nil {
			return Result{}, err
		}
		data0, err = ParseOperand(ops[1], ctx, true)
		if err != nil {
			return Result{}, err
		}
		data1, err = ParseOperand(ops[2], ctx, true)
		if err != nil {
			return Result{}, err
		}
		haveData0 = true
		haveData1 = true
	case desc.Mode&(ModeIsCmpSwap|ModeIsFCmpSwap) != 0:
		if len(ops) != 3 {
			return Result{}, &ErrOperandCount{Mnemonic: name, Got: len(ops), Want: 3}
		}
		addr, err = ParseOperand(ops[0], ctx, true)
		if err != nil {
			return Result{}, err
		}
		data0, err = ParseOperand(ops[1], ctx, true)
		if err != nil {
			return Result{}, err
		}
		data1, err = ParseOperand(ops[2], ctx, true)
		if err != nil {
			return Result{}, err
		}
		haveData0 = true
		haveData1 = true
	default: // plain write/atomic with one data operand
		if len(ops) != 2 {
			return Result{}, &ErrOperandCount{Mnemonic: name, Got: len(ops), Want: 2}
		}
		addr, err = ParseOperand(ops[0], ctx, true)
		if err != nil {
			return Result{}, err
		}
		data0, err = ParseOperand(ops[1], ctx, true)
		if err != nil {
			return Result{}, err
		}
		haveData0 = true
	}

	o0, o1 := uint32(0), uint32(0)
	if strings.Contains(name, "2") {
		if hasOff0 {
			o0 = uint32(off0)
		}
		if hasOff1 {
			o1 = uint32(off1)
		}
	} else if hasOff {
		o0 = uint32(off)
	}

	var gdsBit uint32
	if gds {
		gdsBit = 1
	}
	opShift, gdsShift := uint32(18), uint32(17)
	if ctx.Arch.IsGCN1_2Plus() {
		opShift, gdsShift = 17, 16
	}
	word0 := (dsPrefix << 26) | (uint32(desc.Code1) << opShift) | (gdsBit << gdsShift) | (o1 << 8) | o0
	word1 := (uint32(vdst.Range.Start) << 24) | (uint32(data1.Range.Start) << 16) |
		(uint32(data0.Range.Start) << 8) | uint32(addr.Range.Start)
	res.Words = []uint32{word0, word1}

	res.Usage.Add(FieldDSADDR, addr.Range, Read)
	if haveVdst {
		res.Usage.Add(FieldDSVDST, vdst.Range, Write)
	}
	if haveData0 {
		res.Usage.Add(FieldDSDATA0, data0.Range, Read)
	}
	if haveData1 {
		res.Usage.Add(FieldDSDATA1, data1.Range, Read)
	}
	if desc.Mode&(ModeIsCmpSwap|ModeIsFCmpSwap) != 0 && data0.Range.Count() > 1 {
		res.Usage.SplitHalfwriteAtomic(FieldDSDATA0)
	}
	return res, nil
}
