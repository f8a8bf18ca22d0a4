package gcn

import (
	"strings"

	"github.com/gcnasm/gcnasm/pkg/expr"
)

const flatPrefix uint32 = 0x37 // bits[31:26]

// EncodeFLAT encodes the flat-address-space memory format. Loads take
// `vdst, addr`, stores take `addr, vdata`, cmpswap-style atomics take
// `vdst, addr, vdata` (§4.5 step 5). The `inst_offset` field is 12-bit
// unsigned pre-Vega and 13-bit signed on Vega (§4.7).
func EncodeFLAT(desc InstrDesc, operandText string, mods []string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	isStore := strings.Contains(desc.Mnemonic, "store")
	isAtomic := desc.Mode&(ModeIsCmpSwap|ModeIsFCmpSwap) != 0

	res := Result{}
	var addr, vdst, vdata Operand
	var haveVdst, haveVdata bool
	var err error

	switch {
	case isAtomic:
		if len(ops) != 3 {
			return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 3}
		}
		vdst, err = ParseOperand(ops[0], ctx, true)
		if err != nil {
			return Result{}, err
		}
		addr, err = ParseOperand(ops[1], ctx, true)
		if err != nil {
			return Result{}, err
		}
		vdata, err = ParseOperand(ops[2], ctx, true)
		if err != nil {
			return Result{}, err
		}
		haveVdst, haveVdata = true, true
	case isStore:
		if len(ops) != 2 {
			return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 2}
		}
		addr, err = ParseOperand(ops[0], ctx, true)
		if err != nil {
			return Result{}, err
		}
		vdata, err = ParseOperand(ops[1], ctx, true)
		if err != nil {
			return Result{}, err
		}
		haveVdata = true
	default:
		if len(ops) != 2 {
			return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 2}
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
	}

	var offsetField uint32
	var pending *PendingReloc
	if off, hasOff, oerr := parseUintModifier(mods, "offset"); oerr != nil {
		return Result{}, oerr
	} else if hasOff {
		if ctx.Arch.IsVega() {
			offsetField = uint32(off) & 0x1fff
		} else {
			offsetField = uint32(off) & 0xfff
		}
	} else if exprText, ok := modifierValue(mods, "offsetexpr"); ok && exprText != "" {
		kind := expr.RelocFlatOffsetU12
		width := 12
		if ctx.Arch.IsVega() {
			kind = expr.RelocFlatOffsetS13
			width = 13
		}
		pending = &PendingReloc{ByteOffset: 0, Kind: kind, Signed: ctx.Arch.IsVega(), BitWidth: width, Text: exprText}
	}

	word0 := (flatPrefix << 26) | (uint32(desc.Code1) << 18) | offsetField
	word1 := (uint32(vdst.Range.Start) << 24) | (uint32(vdata.Range.Start) << 16) | uint32(addr.Range.Start)
	res.Words = []uint32{word0, word1}
	if pending != nil {
		res.Pending = append(res.Pending, *pending)
	}

	res.Usage.Add(FieldFLATADDR, addr.Range, Read)
	if haveVdst {
		res.Usage.Add(FieldFLATVDST, vdst.Range, Write)
	}
	if haveVdata {
		flags := Read
		if isAtomic {
			flags = Read | Write
		}
		res.Usage.Add(FieldFLATDATA, vdata.Range, flags)
		if isAtomic && vdata.Range.Count() > 1 {
			res.Usage.SplitHalfwriteAtomic(FieldFLATDATA)
		}
	}
	return res, nil
}
