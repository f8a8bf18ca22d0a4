package gcn

import "fmt"

// Encode dispatches to the family-specific encoder named by desc.Encoding,
// the single switch point §9 asks for instead of a per-family vtable.
// srcOffset is the instruction's absolute byte offset in its section,
// needed only by families that record a code-flow edge or whose
// PendingReloc.ByteOffset the driver must turn into an absolute offset.
func Encode(desc InstrDesc, operandText string, ctx ParseCtx, srcOffset int64) (Result, error) {
	mnemonic, hint := StripSuffix(desc.Mnemonic)
	if mnemonic != desc.Mnemonic {
		desc.Mnemonic = mnemonic
	}
	mods := splitModifiers(trailingModifierText(operandText))
	operandText = leadingOperandText(operandText)

	switch desc.Encoding {
	case EncSOP1:
		return EncodeSOP1(desc, operandText, ctx)
	case EncSOP2:
		return EncodeSOP2(desc, operandText, ctx)
	case EncSOPC:
		return EncodeSOPC(desc, operandText, ctx)
	case EncSOPK:
		return EncodeSOPK(desc, operandText, ctx, srcOffset)
	case EncSOPP:
		return EncodeSOPP(desc, operandText, ctx, srcOffset)
	case EncSMRD:
		return EncodeSMRD(desc, operandText, ctx)
	case EncSMEM:
		return EncodeSMEM(desc, operandText, mods, ctx)
	case EncVOP1:
		return EncodeVOP1(desc, operandText, hint, mods, ctx)
	case EncVOP2:
		return EncodeVOP2(desc, operandText, hint, mods, ctx)
	case EncVOPC:
		return EncodeVOPC(desc, operandText, hint, mods, ctx)
	case EncVOP3A, EncVOP3B:
		return EncodeVOP3Direct(desc, operandText, mods, ctx)
	case EncVINTRP:
		return EncodeVINTRP(desc, operandText, ctx)
	case EncDS:
		return EncodeDS(desc, operandText, mods, ctx)
	case EncMUBUF:
		return EncodeMUBUF(desc, operandText, mods, ctx)
	case EncMTBUF:
		return EncodeMTBUF(desc, operandText, mods, ctx)
	case EncMIMG:
		return EncodeMIMG(desc, operandText, mods, ctx)
	case EncEXP:
		return EncodeEXP(desc, operandText, mods, ctx)
	case EncFLAT:
		return EncodeFLAT(desc, operandText, mods, ctx)
	default:
		return Result{}, fmt.Errorf("gcn: unhandled encoding family %d", desc.Encoding)
	}
}

// leadingOperandText / trailingModifierText split "op, op, op mod1 mod2"
// into its comma-joined operand prefix and its space-separated modifier
// suffix: modifiers are recognised as trailing bare words or key:value
// pairs that appear after the last comma-delimited operand and contain no
// comma (§4.5 step 2).
func leadingOperandText(s string) string {
	depth := 0
	lastComma := -1
	for i, c := range s {
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				lastComma = i
			}
		}
	}
	if lastComma < 0 {
		return firstModifierBoundary(s)
	}
	rest := s[lastComma+1:]
	boundary := findModifierBoundary(rest)
	if boundary < 0 {
		return s
	}
	return s[:lastComma+1+boundary]
}

func trailingModifierText(s string) string {
	depth := 0
	lastComma := -1
	for i, c := range s {
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				lastComma = i
			}
		}
	}
	if lastComma < 0 {
		boundary := findModifierBoundary(s)
		if boundary < 0 {
			return ""
		}
		return s[boundary:]
	}
	rest := s[lastComma+1:]
	boundary := findModifierBoundary(rest)
	if boundary < 0 {
		return ""
	}
	return rest[boundary:]
}

func firstModifierBoundary(s string) string {
	boundary := findModifierBoundary(s)
	if boundary < 0 {
		return s
	}
	return s[:boundary]
}

// findModifierBoundary finds the start of a trailing run of whitespace-
// separated modifier tokens in the last operand's text, i.e. the first
// space after the operand token; spaces before that token (the separator
// after a comma) are skipped. Returns -1 when no such space exists. This
// relies on GCN operand grammar never embedding a bare space.
func findModifierBoundary(s string) int {
	seen := false
	for i, c := range s {
		if c == ' ' {
			if seen {
				return i
			}
			continue
		}
		seen = true
	}
	return -1
}
