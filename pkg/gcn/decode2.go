package gcn

import (
	"fmt"
	"strings"
)

// DecodeSMRD reverses EncodeSMRD's `dst<<15 | (sbase>>1)<<9 | imm<<8 |
// offset[7:0]` layout.
func DecodeSMRD(words []uint32, arch Arch) (Decoded, error) {
	w := words[0]
	op := int((w >> 22) & 0x1f)
	sdstField := int((w >> 15) & 0x7f)
	sbaseField := int((w >> 9) & 0x3f)
	imm := (w >> 8) & 1
	offsetField := int(w & 0xff)
	desc, ok := findDesc(EncSMRD, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w}
	}
	sbase := DecodeSpecial(sbaseField<<1, ClassScalar, 2, arch)
	sdst := DecodeSpecial(sdstField, ClassScalar, 1, arch)
	var offText string
	if imm == 1 {
		offText = fmt.Sprintf("0x%x", offsetField)
	} else {
		offText = renderRegisterRange(RegRange{Class: ClassScalar, Start: offsetField, End: offsetField})
	}
	d := Decoded{Mnemonic: desc.Mnemonic, Words: []uint32{w},
		Operands: fmt.Sprintf("%s, %s, %s", RenderOperand(sdst, arch), renderRegisterRange(sbase.Range), offText)}
	d.Usage.Add(FieldSDST, sdst.Range, Write)
	d.Usage.Add(FieldSBASE, sbase.Range, Read)
	return d, nil
}

// DecodeSMEM reverses EncodeSMEM's `sdata<<6 | (sbase>>1) | imm<<17` word0
// layout.
func DecodeSMEM(words []uint32, arch Arch) (Decoded, error) {
	w0 := words[0]
	w1 := words[1]
	op := int((w0 >> 18) & 0xff)
	imm := (w0 >> 17) & 1
	sdataField := int((w0 >> 6) & 0xff)
	sbaseField := int(w0 & 0x3f)
	desc, ok := findDesc(EncSMEM, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w0}
	}
	sbase := DecodeSpecial(sbaseField<<1, ClassScalar, 2, arch)
	sdata := DecodeSpecial(sdataField, ClassScalar, 1, arch)
	var offText string
	if imm == 1 {
		mask := uint32(0xfffff)
		if arch.IsVega() {
			mask = 0x1fffff
		}
		offText = fmt.Sprintf("0x%x", w1&mask)
	} else {
		offText = renderRegisterRange(RegRange{Class: ClassScalar, Start: int(w1), End: int(w1)})
	}
	d := Decoded{Mnemonic: desc.Mnemonic, Words: []uint32{w0, w1},
		Operands: fmt.Sprintf("%s, %s, %s", RenderOperand(sdata, arch), renderRegisterRange(sbase.Range), offText)}
	d.Usage.Add(FieldSDATA, sdata.Range, Read|Write)
	d.Usage.Add(FieldSBASE, sbase.Range, Read)
	return d, nil
}

// DecodeVOP1 reverses EncodeVOP1's short form.
func DecodeVOP1(words []uint32, arch Arch) (Decoded, error) {
	w := words[0]
	vdstField := int((w >> 17) & 0xff)
	op := int((w >> 9) & 0xff)
	src0Field := int(w & 0x1ff)
	desc, ok := findDesc(EncVOP1, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w}
	}
	vdst := DecodeSpecial(vdstField+EncVGPRBase, ClassVector, 1, arch)
	src0 := DecodeSpecial(src0Field, ClassVector, 1, arch)
	consumed := []uint32{w}
	var warning string
	if src0Field == EncLiteral {
		if len(words) > 1 {
			src0.LiteralBits = words[1]
			consumed = append(consumed, words[1])
		} else {
			warning = WarnUnfinishedInstruction
		}
	}
	d := Decoded{Mnemonic: desc.Mnemonic, Words: consumed, Warning: warning,
		Operands: RenderOperand(vdst, arch) + ", " + RenderOperand(src0, arch)}
	d.Usage.Add(FieldVOPVDST, vdst.Range, Write)
	d.Usage.Add(FieldVOPSRC0, src0.Range, Read)
	return d, nil
}

// DecodeVOP2 reverses EncodeVOP2's short form.
func DecodeVOP2(words []uint32, arch Arch) (Decoded, error) {
	w := words[0]
	op := int((w >> 25) & 0x3f)
	vdstField := int((w >> 17) & 0xff)
	vsrc1Field := int((w >> 9) & 0xff)
	src0Field := int(w & 0x1ff)
	desc, ok := findDesc(EncVOP2, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w}
	}
	vdst := DecodeSpecial(vdstField+EncVGPRBase, ClassVector, 1, arch)
	vsrc1 := DecodeSpecial(vsrc1Field+EncVGPRBase, ClassVector, 1, arch)
	src0 := DecodeSpecial(src0Field, ClassVector, 1, arch)
	consumed := []uint32{w}
	var warning string
	if src0Field == EncLiteral {
		if len(words) > 1 {
			src0.LiteralBits = words[1]
			consumed = append(consumed, words[1])
		} else {
			warning = WarnUnfinishedInstruction
		}
	}
	d := Decoded{Mnemonic: desc.Mnemonic, Words: consumed, Warning: warning,
		Operands: RenderOperand(vdst, arch) + ", " + RenderOperand(src0, arch) + ", " + RenderOperand(vsrc1, arch)}
	d.Usage.Add(FieldVOPVDST, vdst.Range, Write)
	d.Usage.Add(FieldVOPSRC0, src0.Range, Read)
	d.Usage.Add(FieldVOPVSRC1, vsrc1.Range, Read)
	return d, nil
}

// DecodeVOPC reverses EncodeVOPC's short form.
func DecodeVOPC(words []uint32, arch Arch) (Decoded, error) {
	w := words[0]
	op := int((w >> 17) & 0xff)
	vsrc1Field := int((w >> 9) & 0xff)
	src0Field := int(w & 0x1ff)
	desc, ok := findDesc(EncVOPC, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w}
	}
	vsrc1 := DecodeSpecial(vsrc1Field+EncVGPRBase, ClassVector, 1, arch)
	src0 := DecodeSpecial(src0Field, ClassVector, 1, arch)
	consumed := []uint32{w}
	var warning string
	if src0Field == EncLiteral {
		if len(words) > 1 {
			src0.LiteralBits = words[1]
			consumed = append(consumed, words[1])
		} else {
			warning = WarnUnfinishedInstruction
		}
	}
	d := Decoded{Mnemonic: desc.Mnemonic, Words: consumed, Warning: warning,
		Operands: RenderOperand(src0, arch) + ", " + RenderOperand(vsrc1, arch)}
	d.Usage.Add(FieldVOPSSRC0, src0.Range, Read)
	d.Usage.Add(FieldVOPVSRC1, vsrc1.Range, Read)
	return d, nil
}

// findVOP3Desc finds the merged descriptor row that encodes VOP3 opcode op:
// either a ModeVOP3Only row keyed on Code1 (Encoding is EncVOP3A/EncVOP3B
// directly), or a promoted VOP1/VOP2/VOPC/VINTRP row keyed on Code2
// (ModeHasVOP3Pair set). buildMergedTable folds the latter into the
// original short-form row rather than keeping a separate EncVOP3A entry,
// so findDesc's plain Encoding-equality scan can't find them.
func findVOP3Desc(op int, arch Arch) (InstrDesc, bool, bool) {
	for _, d := range Table() {
		if !d.ArchMask.Supports(arch) {
			continue
		}
		if (d.Encoding == EncVOP3A || d.Encoding == EncVOP3B) && d.Code1 == op {
			return d, d.Encoding == EncVOP3B, true
		}
		if d.Mode&ModeHasVOP3Pair != 0 && d.Code2 == op {
			return d, d.Mode&ModeVOP3PairIsB != 0, true
		}
	}
	return InstrDesc{}, false, false
}

// DecodeVOP3 reverses encodeVOP3A/encodeVOP3B, distinguishing the two by
// whether the merged descriptor's VOP3 pair was recorded as a B (carry-out)
// form. The opcode field sits at bits [25:17] pre-GCN1.2 and bits [25:16]
// on GCN1.2+, mirroring encodeVOP3A/B's arch-dependent shift.
func DecodeVOP3(words []uint32, arch Arch) (Decoded, error) {
	w0, w1 := words[0], words[1]
	opShift, opMask := uint(17), uint32(0x1ff)
	if arch.IsGCN1_2Plus() {
		opShift, opMask = 16, 0x3ff
	}
	op := int((w0 >> opShift) & opMask)
	desc, isB, ok := findVOP3Desc(op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w0}
	}
	if desc.Encoding != EncVOP3A && desc.Encoding != EncVOP3B {
		desc.Mnemonic += "_e64"
	}
	src0 := DecodeSpecial(int(w1&0x1ff), ClassVector, 1, arch)
	src1 := DecodeSpecial(int((w1>>9)&0x1ff), ClassVector, 1, arch)
	src2 := DecodeSpecial(int((w1>>18)&0x1ff), ClassVector, 1, arch)

	d := Decoded{Mnemonic: desc.Mnemonic, Words: []uint32{w0, w1}}
	if isB {
		vdst := DecodeSpecial(int(w0&0xff)+EncVGPRBase, ClassVector, 1, arch)
		sdstField := int((w0 >> 8) & 0x7f)
		sdst := DecodeSpecial(sdstField, ClassScalar, 1, arch)
		d.Operands = fmt.Sprintf("%s, %s, %s, %s", RenderOperand(vdst, arch), RenderOperand(sdst, arch),
			RenderOperand(src0, arch), RenderOperand(src1, arch))
		d.Usage.Add(FieldVOP3VDST, vdst.Range, Write)
		d.Usage.Add(FieldVOP3SDST, sdst.Range, Write)
		d.Usage.Add(FieldVOP3SRC0, src0.Range, Read)
		d.Usage.Add(FieldVOP3SRC1, src1.Range, Read)
		return d, nil
	}
	vdst := DecodeSpecial(int(w0&0x1ff), ClassVector, 1, arch)
	if desc.Mode&ModeVOP3Only != 0 {
		d.Operands = fmt.Sprintf("%s, %s, %s, %s", RenderOperand(vdst, arch), RenderOperand(src0, arch),
			RenderOperand(src1, arch), RenderOperand(src2, arch))
		d.Usage.Add(FieldVOP3VDST, vdst.Range, Write)
		d.Usage.Add(FieldVOP3SRC0, src0.Range, Read)
		d.Usage.Add(FieldVOP3SRC1, src1.Range, Read)
		d.Usage.Add(FieldVOP3SRC2, src2.Range, Read)
		return d, nil
	}
	d.Operands = fmt.Sprintf("%s, %s, %s", RenderOperand(vdst, arch), RenderOperand(src0, arch), RenderOperand(src1, arch))
	d.Usage.Add(FieldVOP3VDST, vdst.Range, Write)
	d.Usage.Add(FieldVOP3SRC0, src0.Range, Read)
	d.Usage.Add(FieldVOP3SRC1, src1.Range, Read)
	return d, nil
}

// DecodeVINTRP reverses EncodeVINTRP.
func DecodeVINTRP(words []uint32, arch Arch) (Decoded, error) {
	w := words[0]
	op := int((w >> 21) & 0x3)
	attrNum := int((w >> 10) & 0x3f)
	chanIdx := int((w >> 8) & 0x3)
	vsrcField := int((w >> 16) & 0xff)
	vdstField := int(w & 0xff)
	desc, ok := findDesc(EncVINTRP, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w}
	}
	vdst := DecodeSpecial(vdstField+EncVGPRBase, ClassVector, 1, arch)
	vsrc := DecodeSpecial(vsrcField+EncVGPRBase, ClassVector, 1, arch)
	chans := []string{"x", "y", "z", "w"}
	d := Decoded{Mnemonic: desc.Mnemonic, Words: []uint32{w},
		Operands: fmt.Sprintf("%s, %s, attr%d.%s", RenderOperand(vdst, arch), RenderOperand(vsrc, arch), attrNum, chans[chanIdx])}
	d.Usage.Add(FieldVINTRPVDST, vdst.Range, Write)
	d.Usage.Add(FieldVINTRPVSRC, vsrc.Range, Read)
	return d, nil
}

// DecodeDS reverses EncodeDS. The opcode field sits at bits [25:18]
// pre-GCN1.2 and bits [24:17] on GCN1.2+.
func DecodeDS(words []uint32, arch Arch) (Decoded, error) {
	w0, w1 := words[0], words[1]
	opShift := uint(18)
	if arch.IsGCN1_2Plus() {
		opShift = 17
	}
	op := int((w0 >> opShift) & 0xff)
	off0 := int(w0 & 0xff)
	off1 := int((w0 >> 8) & 0xff)
	vdstField := int((w1 >> 24) & 0xff)
	data1Field := int((w1 >> 16) & 0xff)
	data0Field := int((w1 >> 8) & 0xff)
	addrField := int(w1 & 0xff)
	desc, ok := findDesc(EncDS, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w0}
	}
	addr := DecodeSpecial(addrField+EncVGPRBase, ClassVector, 1, arch)
	d := Decoded{Mnemonic: desc.Mnemonic, Words: []uint32{w0, w1}}
	d.Usage.Add(FieldDSADDR, addr.Range, Read)
	switch {
	case desc.Mnemonic == "ds_read2_b32":
		vdst := DecodeSpecial(vdstField+EncVGPRBase, ClassVector, 2, arch)
		d.Operands = fmt.Sprintf("%s, %s offset0:%d offset1:%d", RenderOperand(vdst, arch), RenderOperand(addr, arch), off0, off1)
		d.Usage.Add(FieldDSVDST, vdst.Range, Write)
	case desc.Mnemonic == "ds_read_b32":
		vdst := DecodeSpecial(vdstField+EncVGPRBase, ClassVector, 1, arch)
		d.Operands = fmt.Sprintf("%s, %s", RenderOperand(vdst, arch), RenderOperand(addr, arch))
		if off0 != 0 {
			d.Operands += fmt.Sprintf(" offset:%d", off0)
		}
		d.Usage.Add(FieldDSVDST, vdst.Range, Write)
	case desc.Mode&(ModeIsCmpSwap|ModeIsFCmpSwap) != 0:
		data0 := DecodeSpecial(data0Field+EncVGPRBase, ClassVector, 1, arch)
		data1 := DecodeSpecial(data1Field+EncVGPRBase, ClassVector, 1, arch)
		d.Operands = fmt.Sprintf("%s, %s, %s", RenderOperand(addr, arch), RenderOperand(data0, arch), RenderOperand(data1, arch))
		d.Usage.Add(FieldDSDATA0, data0.Range, Read|Write)
		d.Usage.Add(FieldDSDATA1, data1.Range, Read)
	default:
		data0 := DecodeSpecial(data0Field+EncVGPRBase, ClassVector, 1, arch)
		d.Operands = fmt.Sprintf("%s, %s", RenderOperand(addr, arch), RenderOperand(data0, arch))
		if off0 != 0 {
			d.Operands += fmt.Sprintf(" offset:%d", off0)
		}
		d.Usage.Add(FieldDSDATA0, data0.Range, Read)
	}
	return d, nil
}

// DecodeMUBUF reverses EncodeMUBUF.
func DecodeMUBUF(words []uint32, arch Arch) (Decoded, error) {
	w0, w1, w2 := words[0], words[1], words[2]
	offsetField := w0 & 0xfff
	lds := (w0>>16)&1 == 1
	op := int((w1 >> 18) & 0xff)
	vaddrField := int(w1 & 0x1ff)
	srsrcField := int(w2 & 0x1f)
	vdataField := int((w2 >> 8) & 0x1ff)
	soffsetField := int((w2 >> 24) & 0xff)
	desc, ok := findDesc(EncMUBUF, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w0}
	}
	vaddr := DecodeSpecial(vaddrField, ClassVector, 1, arch)
	srsrc := DecodeSpecial(srsrcField<<2, ClassScalar, 4, arch)
	soffset := DecodeSpecial(soffsetField, ClassScalar, 1, arch)
	d := Decoded{Mnemonic: desc.Mnemonic, Words: []uint32{w0, w1, w2}}
	d.Usage.Add(FieldMUBUFVADDR, vaddr.Range, Read)
	d.Usage.Add(FieldMUBUFSRSRC, srsrc.Range, Read)
	d.Usage.Add(FieldMUBUFSOFFSET, soffset.Range, Read)
	tail := ""
	if offsetField != 0 {
		tail += fmt.Sprintf(" offset:%d", offsetField)
	}
	if lds {
		tail += " lds"
		d.Operands = fmt.Sprintf("%s, %s, %s%s", RenderOperand(vaddr, arch), renderRegisterRange(srsrc.Range),
			RenderOperand(soffset, arch), tail)
		return d, nil
	}
	vdata := DecodeSpecial(vdataField, ClassVector, 1, arch)
	d.Operands = fmt.Sprintf("%s, %s, %s, %s%s", RenderOperand(vdata, arch), RenderOperand(vaddr, arch),
		renderRegisterRange(srsrc.Range), RenderOperand(soffset, arch), tail)
	flags := Write
	if strings.Contains(desc.Mnemonic, "store") {
		flags = Read
	}
	if desc.Mode&ModeIsCmpSwap != 0 {
		flags = Read | Write
	}
	d.Usage.Add(FieldMUBUFVDATA, vdata.Range, flags)
	return d, nil
}

// DecodeMTBUF reverses EncodeMTBUF, which shares MUBUF's word layout under a
// different 6-bit family prefix.
func DecodeMTBUF(words []uint32, arch Arch) (Decoded, error) {
	w0, w1, w2 := words[0], words[1], words[2]
	offsetField := w0 & 0xfff
	op := int((w1 >> 18) & 0xff)
	vaddrField := int(w1 & 0x1ff)
	srsrcField := int(w2 & 0x1f)
	vdataField := int((w2 >> 8) & 0x1ff)
	soffsetField := int((w2 >> 24) & 0xff)
	desc, ok := findDesc(EncMTBUF, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w0}
	}
	vaddr := DecodeSpecial(vaddrField, ClassVector, 1, arch)
	srsrc := DecodeSpecial(srsrcField<<2, ClassScalar, 4, arch)
	soffset := DecodeSpecial(soffsetField, ClassScalar, 1, arch)
	vdata := DecodeSpecial(vdataField, ClassVector, 1, arch)
	d := Decoded{Mnemonic: desc.Mnemonic, Words: []uint32{w0, w1, w2}}
	tail := ""
	if offsetField != 0 {
		tail = fmt.Sprintf(" offset:%d", offsetField)
	}
	d.Operands = fmt.Sprintf("%s, %s, %s, %s%s", RenderOperand(vdata, arch), RenderOperand(vaddr, arch),
		renderRegisterRange(srsrc.Range), RenderOperand(soffset, arch), tail)
	d.Usage.Add(FieldMUBUFVADDR, vaddr.Range, Read)
	d.Usage.Add(FieldMUBUFSRSRC, srsrc.Range, Read)
	d.Usage.Add(FieldMUBUFSOFFSET, soffset.Range, Read)
	flags := Write
	if strings.Contains(desc.Mnemonic, "store") {
		flags = Read
	}
	d.Usage.Add(FieldMUBUFVDATA, vdata.Range, flags)
	return d, nil
}

// DecodeMIMG reverses EncodeMIMG.
func DecodeMIMG(words []uint32, arch Arch) (Decoded, error) {
	w0, w1 := words[0], words[1]
	op := int(w0 & 0xff)
	dmask := (w0 >> 8) & 0xf
	unorm := (w0>>12)&1 == 1
	vaddrField := int(w1 & 0xff)
	vdataField := int((w1 >> 8) & 0xff)
	srsrcField := int((w1 >> 16) & 0x1f)
	ssampField := int((w1 >> 21) & 0x1f)
	desc, ok := findDesc(EncMIMG, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w0}
	}
	vaddr := DecodeSpecial(vaddrField+EncVGPRBase, ClassVector, 1, arch)
	vdata := DecodeSpecial(vdataField+EncVGPRBase, ClassVector, 1, arch)
	srsrc := DecodeSpecial(srsrcField<<2, ClassScalar, 8, arch)
	d := Decoded{Mnemonic: desc.Mnemonic, Words: []uint32{w0, w1}}
	operands := fmt.Sprintf("%s, %s, %s", RenderOperand(vdata, arch), RenderOperand(vaddr, arch), renderRegisterRange(srsrc.Range))
	if ssampField != 0 {
		ssamp := DecodeSpecial(ssampField<<2, ClassScalar, 4, arch)
		operands += ", " + renderRegisterRange(ssamp.Range)
		d.Usage.Add(FieldMIMGSSAMP, ssamp.Range, Read)
	}
	if unorm {
		operands += " unorm"
	}
	if dmask != 0xf {
		operands += fmt.Sprintf(" dmask:0x%x", dmask)
	}
	d.Operands = operands
	d.Usage.Add(FieldMIMGVADDR, vaddr.Range, Read)
	d.Usage.Add(FieldMIMGSRSRC, srsrc.Range, Read)
	flags := Write
	if strings.Contains(desc.Mnemonic, "store") {
		flags = Read
	}
	d.Usage.Add(FieldMIMGVDATA, vdata.Range, flags)
	return d, nil
}

// DecodeEXP reverses EncodeEXP.
func DecodeEXP(words []uint32, arch Arch) (Decoded, error) {
	w0, w1 := words[0], words[1]
	target := int((w0 >> 4) & 0x3f)
	done := (w0>>11)&1 == 1
	compr := (w0>>10)&1 == 1
	targetName := exportTargetName(target)
	fields := []FieldTag{FieldEXPVSRC0, FieldEXPVSRC1, FieldEXPVSRC2, FieldEXPVSRC3}
	n := 4
	if compr {
		n = 2
	}
	d := Decoded{Mnemonic: "exp", Words: []uint32{w0, w1}, Operands: targetName}
	for i := 0; i < n; i++ {
		field := int((w1 >> (8 * uint(i))) & 0xff)
		src := DecodeSpecial(field+EncVGPRBase, ClassVector, 1, arch)
		d.Operands += ", " + RenderOperand(src, arch)
		d.Usage.Add(fields[i], src.Range, Read)
	}
	if done {
		d.Operands += " done"
	}
	if compr {
		d.Operands += " compr"
	}
	return d, nil
}

func exportTargetName(v int) string {
	for name, code := range exportTargets {
		if code == v {
			return name
		}
	}
	return fmt.Sprintf("target_0x%x", v)
}

// DecodeFLAT reverses EncodeFLAT.
func DecodeFLAT(words []uint32, arch Arch) (Decoded, error) {
	w0, w1 := words[0], words[1]
	op := int((w0 >> 18) & 0xff)
	offsetField := w0 & 0x1fff
	vdstField := int((w1 >> 24) & 0xff)
	dataField := int((w1 >> 16) & 0xff)
	addrField := int(w1 & 0xff)
	desc, ok := findDesc(EncFLAT, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w0}
	}
	addr := DecodeSpecial(addrField+EncVGPRBase, ClassVector, 2, arch)
	d := Decoded{Mnemonic: desc.Mnemonic, Words: []uint32{w0, w1}}
	d.Usage.Add(FieldFLATADDR, addr.Range, Read)
	tail := ""
	if offsetField != 0 {
		tail = fmt.Sprintf(" offset:%d", offsetField)
	}
	isAtomic := desc.Mode&(ModeIsCmpSwap|ModeIsFCmpSwap) != 0
	isStore := len(desc.Mnemonic) > 10 && desc.Mnemonic[5:10] == "store"
	switch {
	case isAtomic:
		vdst := DecodeSpecial(vdstField+EncVGPRBase, ClassVector, 1, arch)
		data := DecodeSpecial(dataField+EncVGPRBase, ClassVector, 1, arch)
		d.Operands = fmt.Sprintf("%s, %s, %s%s", RenderOperand(vdst, arch), RenderOperand(addr, arch), RenderOperand(data, arch), tail)
		d.Usage.Add(FieldFLATVDST, vdst.Range, Write)
		d.Usage.Add(FieldFLATDATA, data.Range, Read|Write)
	case isStore:
		data := DecodeSpecial(dataField+EncVGPRBase, ClassVector, 1, arch)
		d.Operands = fmt.Sprintf("%s, %s%s", RenderOperand(addr, arch), RenderOperand(data, arch), tail)
		d.Usage.Add(FieldFLATDATA, data.Range, Read)
	default:
		vdst := DecodeSpecial(vdstField+EncVGPRBase, ClassVector, 1, arch)
		d.Operands = fmt.Sprintf("%s, %s%s", RenderOperand(vdst, arch), RenderOperand(addr, arch), tail)
		d.Usage.Add(FieldFLATVDST, vdst.Range, Write)
	}
	return d, nil
}
