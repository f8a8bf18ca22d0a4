package gcn

// VOP identifier prefixes (§6). VOP2's top bit is 0 so it carries no fixed
// prefix constant beyond that; VOP1/VOPC/VOP3A/VOP3B share the 0x3x family
// of 6/7-bit prefixes.
const (
	vop1Prefix uint32 = 0x3F // bits[31:25]
	vopcPrefix uint32 = 0x3E // bits[31:25]
	vop3Prefix uint32 = 0x34 // bits[31:26]
)

const (
	sdwaSrc0Sentinel = 0xF9
	dppSrc0Sentinel  = 0xFA
)

func needsLongForm(desc InstrDesc, hint SizeHint, mods []Operand) bool {
	if desc.Mode&ModeVOP3Only != 0 {
		return true
	}
	if hint.Force64 {
		return true
	}
	for _, m := range mods {
		if m.Abs || m.Neg || m.Sext {
			return true
		}
	}
	return false
}

// vop3Modifiers parses the trailing `clamp`/`mul:2`/`mul:4`/`div:2` text
// short-form VOP1/2/C instructions accept only by promoting to VOP3A/B
// (§8 scenario 5): the short encoding has no bits for CLAMP or OMOD, so
// their presence alone forces the long form exactly like an ABS/NEG/SEXT
// operand modifier does.
func vop3Modifiers(mods []string) (clamp, omod uint32, present bool) {
	for _, m := range mods {
		switch m {
		case "clamp":
			clamp = 1
			present = true
		case "mul:2":
			omod = 1
			present = true
		case "mul:4":
			omod = 2
			present = true
		case "div:2":
			omod = 3
			present = true
		}
	}
	return clamp, omod, present
}

// EncodeVOP1 encodes `vdst, src0`, promoting to the paired VOP3A form when
// modifiers, SDWA/DPP hints exceeding short-form capability, or an explicit
// `_e64` suffix require it (§4.5 step 3/4).
func EncodeVOP1(desc InstrDesc, operandText string, hint SizeHint, mods []string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) != 2 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 2}
	}
	vdst, err := ParseOperand(ops[0], ctx, true)
	if err != nil {
		return Result{}, err
	}
	src0, err := ParseOperand(ops[1], ctx, true)
	if err != nil {
		return Result{}, err
	}

	clamp, omod, hasModifier := vop3Modifiers(mods)
	if needsLongForm(desc, hint, []Operand{src0}) || hasModifier {
		if desc.Mode&ModeVOP3Only == 0 && desc.Code2 == SentinelNoSecondary {
			return Result{}, &ErrEncodingConflict{Reason: desc.Mnemonic + ": no VOP3 long form available"}
		}
		code := desc.Code2
		if desc.Mode&ModeVOP3Only != 0 {
			code = desc.Code1
		}
		return encodeVOP3A(desc.Mnemonic, code, vdst, []Operand{src0}, FieldVOP3VDST, []FieldTag{FieldVOP3SRC0}, clamp, omod, ctx.Arch)
	}

	if hint.SDWA && desc.Mode&ModeSDWACapable == 0 {
		return Result{}, &ErrEncodingConflict{Reason: desc.Mnemonic + ": not SDWA-capable"}
	}
	if hint.DPP && desc.Mode&ModeDPPCapable == 0 {
		return Result{}, &ErrEncodingConflict{Reason: desc.Mnemonic + ": not DPP-capable"}
	}

	srcField := uint32(src0.EncodedField())
	var extra []uint32
	switch {
	case hint.SDWA:
		extra = append(extra, srcField)
		srcField = sdwaSrc0Sentinel
	case hint.DPP:
		extra = append(extra, srcField)
		srcField = dppSrc0Sentinel
	}

	word := (vop1Prefix << 25) | (uint32(vdst.Range.Start) << 17) | (uint32(desc.Code1) << 9) | srcField
	res := Result{Words: []uint32{word}}
	res.Usage.Add(FieldVOPVDST, vdst.Range, Write)
	res.Usage.Add(FieldVOPSRC0, src0.Range, Read)
	if src0.Kind == OperandLiteral && len(extra) == 0 {
		lit, pend := literalWordOrPending(src0, 4)
		res.Words = append(res.Words, lit)
		if pend != nil {
			res.Pending = append(res.Pending, *pend)
		}
	}
	res.Words = append(res.Words, extra...)
	return res, nil
}

// EncodeVOP2 encodes `vdst, src0, vsrc1`, promoting to the paired VOP3A/B
// form under the same rules as EncodeVOP1.
func EncodeVOP2(desc InstrDesc, operandText string, hint SizeHint, mods []string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) != 3 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 3}
	}
	vdst, err := ParseOperand(ops[0], ctx, true)
	if err != nil {
		return Result{}, err
	}
	src0, err := ParseOperand(ops[1], ctx, true)
	if err != nil {
		return Result{}, err
	}
	vsrc1, err := ParseOperand(ops[2], ctx, true)
	if err != nil {
		return Result{}, err
	}

	clamp, omod, hasModifier := vop3Modifiers(mods)
	if needsLongForm(desc, hint, []Operand{src0, vsrc1}) || hasModifier {
		if desc.Code2 == SentinelNoSecondary {
			return Result{}, &ErrEncodingConflict{Reason: desc.Mnemonic + ": no VOP3 long form available"}
		}
		if desc.Mode&ModeVOP3PairIsB != 0 {
			vcc := RegRange{Class: ClassScalar, Start: EncVCCLo, End: EncVCCLo}
			return encodeVOP3B(desc.Mnemonic, desc.Code2, vdst, vcc, []Operand{src0, vsrc1}, ctx.Arch)
		}
		return encodeVOP3A(desc.Mnemonic, desc.Code2, vdst, []Operand{src0, vsrc1}, FieldVOP3VDST,
			[]FieldTag{FieldVOP3SRC0, FieldVOP3SRC1}, clamp, omod, ctx.Arch)
	}

	if hint.SDWA && desc.Mode&ModeSDWACapable == 0 {
		return Result{}, &ErrEncodingConflict{Reason: desc.Mnemonic + ": not SDWA-capable"}
	}
	if hint.DPP && desc.Mode&ModeDPPCapable == 0 {
		return Result{}, &ErrEncodingConflict{Reason: desc.Mnemonic + ": not DPP-capable"}
	}
	if src0.Kind == OperandLiteral && (hint.SDWA || hint.DPP) {
		return Result{}, &ErrEncodingConflict{Reason: "literal operand incompatible with SDWA/DPP"}
	}

	srcField := uint32(src0.EncodedField())
	var extra []uint32
	switch {
	case hint.SDWA:
		extra = append(extra, srcField)
		srcField = sdwaSrc0Sentinel
	case hint.DPP:
		extra = append(extra, srcField)
		srcField = dppSrc0Sentinel
	}

	word := (uint32(desc.Code1) << 25) | (uint32(vdst.Range.Start) << 17) | (uint32(vsrc1.Range.Start) << 9) | srcField
	res := Result{Words: []uint32{word}}
	res.Usage.Add(FieldVOPVDST, vdst.Range, Write)
	res.Usage.Add(FieldVOPSRC0, src0.Range, Read)
	res.Usage.Add(FieldVOPVSRC1, vsrc1.Range, Read)
	if src0.Kind == OperandLiteral && len(extra) == 0 {
		lit, pend := literalWordOrPending(src0, 4)
		res.Words = append(res.Words, lit)
		if pend != nil {
			res.Pending = append(res.Pending, *pend)
		}
	}
	res.Words = append(res.Words, extra...)
	return res, nil
}

// EncodeVOPC encodes `src0, vsrc1` scalar-compare-into-VCC instructions,
// promoting to VOP3A (which redirects the compare result to an explicit
// SDST) exactly like EncodeVOP1/2.
func EncodeVOPC(desc InstrDesc, operandText string, hint SizeHint, mods []string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) != 2 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 2}
	}
	src0, err := ParseOperand(ops[0], ctx, true)
	if err != nil {
		return Result{}, err
	}
	vsrc1, err := ParseOperand(ops[1], ctx, true)
	if err != nil {
		return Result{}, err
	}

	clamp, omod, hasModifier := vop3Modifiers(mods)
	if needsLongForm(desc, hint, []Operand{src0, vsrc1}) || hasModifier {
		if desc.Code2 == SentinelNoSecondary {
			return Result{}, &ErrEncodingConflict{Reason: desc.Mnemonic + ": no VOP3 long form available"}
		}
		vcc := Operand{Kind: OperandRegister, Range: RegRange{Class: ClassScalar, Start: EncVCCLo, End: EncVCCLo}}
		return encodeVOP3A(desc.Mnemonic, desc.Code2, vcc, []Operand{src0, vsrc1}, FieldVOP3SDST,
			[]FieldTag{FieldVOP3SRC0, FieldVOP3SRC1}, clamp, omod, ctx.Arch)
	}

	if hint.SDWA && desc.Mode&ModeSDWACapable == 0 {
		return Result{}, &ErrEncodingConflict{Reason: desc.Mnemonic + ": not SDWA-capable"}
	}

	word := (vopcPrefix << 25) | (uint32(desc.Code1) << 17) | (uint32(vsrc1.Range.Start) << 9) | uint32(src0.EncodedField())
	res := Result{Words: []uint32{word}}
	res.Usage.Add(FieldVOPSSRC0, src0.Range, Read)
	res.Usage.Add(FieldVOPVSRC1, vsrc1.Range, Read)
	if src0.Kind == OperandLiteral {
		lit, pend := literalWordOrPending(src0, 4)
		res.Words = append(res.Words, lit)
		if pend != nil {
			res.Pending = append(res.Pending, *pend)
		}
	}
	return res, nil
}

// EncodeVOP3Direct handles mnemonics with no short form at all (ModeVOP3Only
// rows, e.g. v_mad_f32/v_fma_f32): a fixed vdst, src0, src1, src2 arity.
func EncodeVOP3Direct(desc InstrDesc, operandText string, mods []string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	if len(ops) != 4 {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: 4}
	}
	vdst, err := ParseOperand(ops[0], ctx, true)
	if err != nil {
		return Result{}, err
	}
	src := make([]Operand, 3)
	for i := 0; i < 3; i++ {
		src[i], err = ParseOperand(ops[i+1], ctx, true)
		if err != nil {
			return Result{}, err
		}
	}
	clamp, omod, _ := vop3Modifiers(mods)
	return encodeVOP3A(desc.Mnemonic, desc.Code1, vdst, src, FieldVOP3VDST,
		[]FieldTag{FieldVOP3SRC0, FieldVOP3SRC1, FieldVOP3SRC2}, clamp, omod, ctx.Arch)
}

// encodeVOP3A packs the shared two-word VOP3A layout: word0 carries the
// opcode/CLAMP/VDST, word1 packs up to 3 source fields plus OMOD/NEG
// (§4.5, §6). The opcode shift and CLAMP bit position move with arch: bits
// [25:17] with CLAMP at bit 11 pre-GCN1.2, bits [25:16] with CLAMP at bit
// 15 on GCN1.2+. ABS occupies bits [10:8], one bit per source. A
// literal-valued source operand is rejected here since VOP3 forms cannot
// themselves supply a trailing literal word when more than one source is
// present — real hardware allows exactly one literal slot, shared with the
// same 255 marker used elsewhere.
func encodeVOP3A(mnemonic string, code int, vdst Operand, srcs []Operand, vdstField FieldTag, srcFields []FieldTag, clamp, omod uint32, arch Arch) (Result, error) {
	opShift := uint32(17)
	clampBit := uint32(0x800)
	if arch.IsGCN1_2Plus() {
		opShift = 16
		clampBit = 0x8000
	}
	var clampField uint32
	if clamp != 0 {
		clampField = clampBit
	}
	var neg uint32
	word0 := (vop3Prefix << 26) | (uint32(code) << opShift) | clampField | (uint32(vdst.EncodedField()) << 0)
	var word1 uint32
	res := Result{}
	var litWord uint32
	var pend *PendingReloc
	litCount := 0
	for i, s := range srcs {
		field := uint32(s.EncodedField())
		if s.Kind == OperandLiteral {
			litCount++
			litWord, pend = literalWordOrPending(s, 8)
		}
		word1 |= field << (9 * uint(i))
		if s.Abs {
			word0 |= 1 << (8 + uint(i))
		}
		if s.Neg {
			neg |= 1 << uint(i)
		}
		res.Usage.Add(srcFields[i], s.Range, Read)
	}
	if litCount > 1 {
		return Result{}, &ErrEncodingConflict{Reason: mnemonic + ": at most one literal operand in VOP3"}
	}
	word1 |= omod << 27
	word1 |= neg << 29
	res.Words = []uint32{word0, word1}
	res.Usage.Add(vdstField, vdst.Range, Write)
	if litCount == 1 {
		res.Words = append(res.Words, litWord)
		if pend != nil {
			res.Pending = append(res.Pending, *pend)
		}
	}
	return res, nil
}

// encodeVOP3B is encodeVOP3A's sibling for the carry-out (VOP3B) forms,
// where word0's SDST field replaces CLAMP's neighbouring bits with the
// explicit scalar carry destination (§4.5 step 4: VOP2's implicit VCC
// carry becomes an explicit SDST when promoted). The opcode shift follows
// the same pre-GCN1.2/GCN1.2+ split as encodeVOP3A. NEG packs into word1
// exactly like VOP3A; ABS has no encoding in VOP3B and is rejected.
func encodeVOP3B(mnemonic string, code int, vdst Operand, sdst RegRange, srcs []Operand, arch Arch) (Result, error) {
	opShift := uint32(17)
	if arch.IsGCN1_2Plus() {
		opShift = 16
	}
	word0 := (vop3Prefix << 26) | (uint32(code) << opShift) | (uint32(sdst.Start) << 8) | uint32(vdst.Range.Start)
	var word1, neg uint32
	res := Result{}
	var litWord uint32
	var pend *PendingReloc
	litCount := 0
	fields := []FieldTag{FieldVOP3SRC0, FieldVOP3SRC1}
	for i, s := range srcs {
		if s.Abs {
			return Result{}, &ErrEncodingConflict{Reason: mnemonic + ": abs modifier is illegal for VOP3B encoding"}
		}
		field := uint32(s.EncodedField())
		if s.Kind == OperandLiteral {
			litCount++
			litWord, pend = literalWordOrPending(s, 8)
		}
		word1 |= field << (9 * uint(i))
		if s.Neg {
			neg |= 1 << uint(i)
		}
		res.Usage.Add(fields[i], s.Range, Read)
	}
	if litCount > 1 {
		return Result{}, &ErrEncodingConflict{Reason: mnemonic + ": at most one literal operand in VOP3"}
	}
	word1 |= neg << 29
	res.Words = []uint32{word0, word1}
	res.Usage.Add(FieldVOP3VDST, vdst.Range, Write)
	res.Usage.Add(FieldVOP3SDST, sdst, Write)
	if litCount == 1 {
		res.Words = append(res.Words, litWord)
		if pend != nil {
			res.Pending = append(res.Pending, *pend)
		}
	}
	return res, nil
}
