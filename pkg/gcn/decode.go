package gcn

import "fmt"

// Decoded is one disassembled instruction: its resolved mnemonic, the
// rendered operand text, the raw words it consumed, its register-usage
// records, an optional code-flow edge, and an optional non-fatal warning
// (§4.6, §6, §7 "warnings never abort").
type Decoded struct {
	Mnemonic string
	Operands string
	Words    []uint32
	Usage    UsageList
	Flow     *FlowEdge
	Warning  string
}

// WarnUnfinishedInstruction is the diagnostic attached when a trailing
// literal-slot operand has no literal word left in the stream: the literal
// is decoded as 0 rather than failing outright (§8 scenario 2).
const WarnUnfinishedInstruction = "Unfinished instruction at end!"

// ErrUnknownEncoding is returned when word0's bit pattern matches no known
// family for arch.
type ErrUnknownEncoding struct{ Word0 uint32 }

func (e *ErrUnknownEncoding) Error() string {
	return fmt.Sprintf("unrecognised instruction word 0x%08x", e.Word0)
}

// Classify inspects word0's fixed identifier bits and returns the encoding
// family it belongs to, consulting arch to disambiguate the SMRD/SMEM
// generational split (§4.6, §9's "closed union of behaviours" dispatch —
// classification is itself a switch, not a chain of interface probes).
func Classify(word0 uint32, arch Arch) (EncodingFamily, error) {
	switch {
	case word0>>23 == sop1Prefix:
		return EncSOP1, nil
	case word0>>23 == sopcPrefix:
		return EncSOPC, nil
	case word0>>23 == soppPrefix:
		return EncSOPP, nil
	case word0>>28 == sopkPrefix:
		return EncSOPK, nil
	case word0>>30 == 0b10:
		return EncSOP2, nil
	}
	if arch.IsGCN1_2Plus() {
		if word0>>26 == smemPrefix {
			return EncSMEM, nil
		}
	} else {
		if word0>>27 == smrdPrefix {
			return EncSMRD, nil
		}
	}
	switch {
	case word0>>25 == vop1Prefix:
		return EncVOP1, nil
	case word0>>25 == vopcPrefix:
		return EncVOPC, nil
	case word0>>26 == vop3Prefix:
		return EncVOP3A, nil // VOP3A/B share a prefix; resolved by table lookup
	case word0>>26 == vintrpPrefix:
		return EncVINTRP, nil
	case word0>>26 == dsPrefix:
		return EncDS, nil
	case word0>>26 == flatPrefix:
		return EncFLAT, nil
	case word0>>26 == mubufPrefix:
		return EncMUBUF, nil
	case word0>>26 == mtbufPrefix:
		return EncMTBUF, nil
	case word0>>26 == mimgPrefix:
		return EncMIMG, nil
	case word0>>26 == expPrefix:
		return EncEXP, nil
	case word0>>31 == 0:
		return EncVOP2, nil
	}
	return 0, &ErrUnknownEncoding{Word0: word0}
}

func findDesc(family EncodingFamily, code int, arch Arch) (InstrDesc, bool) {
	for _, d := range Table() {
		if d.Encoding == family && d.ArchMask.Supports(arch) && (d.Code1 == code || d.Code2 == code) {
			return d, true
		}
	}
	return InstrDesc{}, false
}

// DecodeSOP1 reverses EncodeSOP1.
func DecodeSOP1(words []uint32, arch Arch) (Decoded, error) {
	w := words[0]
	sdstField := int((w >> 16) & 0x7f)
	op := int((w >> 8) & 0xff)
	ssrc0Field := int(w & 0xff)
	desc, ok := findDesc(EncSOP1, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w}
	}
	sdst := DecodeSpecial(sdstField, ClassScalar, 1, arch)
	ssrc0 := DecodeSpecial(ssrc0Field, ClassScalar, 1, arch)
	consumed := []uint32{w}
	if ssrc0Field == EncLiteral && len(words) > 1 {
		ssrc0.LiteralBits = words[1]
		consumed = append(consumed, words[1])
	}
	d := Decoded{Mnemonic: desc.Mnemonic, Words: consumed,
		Operands: RenderOperand(sdst, arch) + ", " + RenderOperand(ssrc0, arch)}
	d.Usage.Add(FieldSDST, sdst.Range, Write)
	d.Usage.Add(FieldSSRC0, ssrc0.Range, Read)
	return d, nil
}

// DecodeSOP2 reverses EncodeSOP2.
func DecodeSOP2(words []uint32, arch Arch) (Decoded, error) {
	w := words[0]
	op := int((w >> 23) & 0x7f)
	sdstField := int((w >> 16) & 0x7f)
	ssrc1Field := int((w >> 8) & 0xff)
	ssrc0Field := int(w & 0xff)
	desc, ok := findDesc(EncSOP2, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w}
	}
	sdst := DecodeSpecial(sdstField, ClassScalar, 1, arch)
	ssrc0 := DecodeSpecial(ssrc0Field, ClassScalar, 1, arch)
	ssrc1 := DecodeSpecial(ssrc1Field, ClassScalar, 1, arch)
	consumed := []uint32{w}
	if ssrc0Field == EncLiteral && len(words) > 1 {
		ssrc0.LiteralBits = words[1]
		consumed = append(consumed, words[1])
	} else if ssrc1Field == EncLiteral && len(words) > 1 {
		ssrc1.LiteralBits = words[1]
		consumed = append(consumed, words[1])
	}
	d := Decoded{Mnemonic: desc.Mnemonic, Words: consumed,
		Operands: RenderOperand(sdst, arch) + ", " + RenderOperand(ssrc0, arch) + ", " + RenderOperand(ssrc1, arch)}
	d.Usage.Add(FieldSDST, sdst.Range, Write)
	d.Usage.Add(FieldSSRC0, ssrc0.Range, Read)
	d.Usage.Add(FieldSSRC1, ssrc1.Range, Read)
	return d, nil
}

// DecodeSOPC reverses EncodeSOPC.
func DecodeSOPC(words []uint32, arch Arch) (Decoded, error) {
	w := words[0]
	op := int((w >> 16) & 0x7f)
	ssrc1Field := int((w >> 8) & 0xff)
	ssrc0Field := int(w & 0xff)
	desc, ok := findDesc(EncSOPC, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w}
	}
	ssrc0 := DecodeSpecial(ssrc0Field, ClassScalar, 1, arch)
	ssrc1 := DecodeSpecial(ssrc1Field, ClassScalar, 1, arch)
	consumed := []uint32{w}
	if ssrc0Field == EncLiteral && len(words) > 1 {
		ssrc0.LiteralBits = words[1]
		consumed = append(consumed, words[1])
	} else if ssrc1Field == EncLiteral && len(words) > 1 {
		ssrc1.LiteralBits = words[1]
		consumed = append(consumed, words[1])
	}
	d := Decoded{Mnemonic: desc.Mnemonic, Words: consumed,
		Operands: RenderOperand(ssrc0, arch) + ", " + RenderOperand(ssrc1, arch)}
	d.Usage.Add(FieldSSRC0, ssrc0.Range, Read)
	d.Usage.Add(FieldSSRC1, ssrc1.Range, Read)
	return d, nil
}

// DecodeSOPK reverses EncodeSOPK.
func DecodeSOPK(words []uint32, arch Arch, selfOffset int64) (Decoded, error) {
	w := words[0]
	op := int((w >> 23) & 0x1f)
	sdstField := int((w >> 16) & 0x7f)
	simm := int16(w & 0xffff)
	desc, ok := findDesc(EncSOPK, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w}
	}
	d := Decoded{Mnemonic: desc.Mnemonic, Words: []uint32{w}}
	if desc.Mode&ModeBranch != 0 {
		target := selfOffset + 4 + int64(simm)*4
		d.Operands = FormatFlowLabel(target)
		kind, isFlow := ResolveSOPKFlow(op, arch)
		if isFlow {
			d.Flow = &FlowEdge{Source: selfOffset, Target: target, Kind: kind}
		}
		return d, nil
	}
	sdst := DecodeSpecial(sdstField, ClassScalar, 1, arch)
	d.Operands = fmt.Sprintf("%s, %d", RenderOperand(sdst, arch), simm)
	d.Usage.Add(FieldSDST, sdst.Range, Read|Write)
	return d, nil
}

// DecodeSOPP reverses EncodeSOPP.
func DecodeSOPP(words []uint32, arch Arch, selfOffset int64) (Decoded, error) {
	w := words[0]
	op := int((w >> 16) & 0x7f)
	simm := uint16(w & 0xffff)
	desc, ok := findDesc(EncSOPP, op, arch)
	if !ok {
		return Decoded{}, &ErrUnknownEncoding{Word0: w}
	}
	d := Decoded{Mnemonic: desc.Mnemonic, Words: []uint32{w}}
	switch desc.Mnemonic {
	case "s_waitcnt":
		wc := DecodeWaitCnt(simm, arch)
		d.Operands = fmt.Sprintf("vmcnt(%d) & lgkmcnt(%d) & expcnt(%d)", wc.VMCnt, wc.LGKMCnt, wc.ExpCnt)
		return d, nil
	case "s_sendmsg":
		d.Operands = fmt.Sprintf("sendmsg(0x%x)", simm)
		return d, nil
	}
	if desc.Mode&ModeBranch != 0 {
		target := selfOffset + 4 + int64(int16(simm))*4
		d.Operands = FormatFlowLabel(target)
		kind := FlowCJump
		if desc.Mode&ModeUnconditionalBranch != 0 {
			kind = FlowJump
		}
		d.Flow = &FlowEdge{Source: selfOffset, Target: target, Kind: kind}
		return d, nil
	}
	if simm != 0 {
		d.Operands = fmt.Sprintf("%d", simm)
	}
	if desc.Mode&ModeEndProgram != 0 {
		d.Flow = &FlowEdge{Source: selfOffset, Target: selfOffset, Kind: FlowEnd}
	}
	return d, nil
}
