package gcn

import "fmt"

// RenderOperand renders a decoded Operand as GNU-as compatible text, the
// same spellings ParseOperand accepts, so re-assembling disassembler
// output reproduces the original bytes (§4.6's round-trip property).
func RenderOperand(op Operand, arch Arch) string {
	switch op.Kind {
	case OperandInlineConstant:
		if v, ok := InlineIntValue(op.InlineCode); ok {
			return fmt.Sprintf("%d", v)
		}
		if s, ok := InlineFPText(op.InlineCode, arch); ok {
			return s
		}
		return renderSpecialText(op.InlineCode, arch)
	case OperandLiteral:
		return fmt.Sprintf("0x%x", op.LiteralBits)
	default:
		return renderRegisterRange(op.Range)
	}
}

func renderRegisterRange(r RegRange) string {
	prefix := "s"
	if r.Class == ClassVector {
		prefix = "v"
	}
	switch {
	case r.Start >= EncVCCLo && r.Start <= EncVCCHi:
		if r.Start == EncVCCLo && r.End == EncVCCHi {
			return "vcc"
		}
		if r.Start == EncVCCLo {
			return "vcc_lo"
		}
		return "vcc_hi"
	case r.Start == EncM0:
		return "m0"
	case r.Start == EncEXECLo && r.End == EncEXECHi:
		return "exec"
	case r.Start == EncSCC:
		return "scc"
	case r.Start == EncLDS:
		return "lds"
	case r.Start == EncVCCZ:
		return "vccz"
	case r.Start == EncEXECZ:
		return "execz"
	case r.Start >= EncTTMPLo && r.End <= EncTTMPHi:
		if r.Start == r.End {
			return fmt.Sprintf("ttmp%d", r.Start-EncTTMPLo)
		}
		return fmt.Sprintf("ttmp[%d:%d]", r.Start-EncTTMPLo, r.End-EncTTMPLo)
	}
	if r.Start == r.End {
		return fmt.Sprintf("%s%d", prefix, r.Start)
	}
	return fmt.Sprintf("%s[%d:%d]", prefix, r.Start, r.End)
}

// renderSpecialText covers inline-constant field values RenderOperand's
// int/fp paths don't already handle (currently none in the merged table;
// kept as the fallback the round-trip property requires so an unrecognised
// but in-range field never silently renders empty text).
func renderSpecialText(field int, arch Arch) string {
	return fmt.Sprintf("inline_0x%x", field)
}

// FormatFlowLabel renders a jump target as the disassembler's synthetic
// label text: `.L<n>` where n is the target's word index (byteOffset/4),
// the spelling DecodeSOPK/DecodeSOPP embed in jump operand text and
// pkg/asm's formatPass emits as a label line (§4.6, §8 scenario 1).
func FormatFlowLabel(byteOffset int64) string {
	return fmt.Sprintf(".L%d", byteOffset/4)
}
