package gcn

import "fmt"

// ErrTruncatedInstruction is returned when fewer words remain in the
// section than the classified family's fixed word count requires.
type ErrTruncatedInstruction struct {
	Family EncodingFamily
	Have   int
	Want   int
}

func (e *ErrTruncatedInstruction) Error() string {
	return fmt.Sprintf("gcn: truncated instruction (family %d needs %d words, have %d)", e.Family, e.Want, e.Have)
}

// familyMinWords is the fixed word count every family needs before an
// optional trailing literal, used to bounds-check the input slice ahead of
// indexing words[1]/words[2] directly in the per-family decoders.
func familyMinWords(f EncodingFamily) int {
	switch f {
	case EncSMEM, EncVOP3A, EncVOP3B, EncDS, EncMIMG, EncEXP, EncFLAT:
		return 2
	case EncMUBUF, EncMTBUF:
		return 3
	default:
		return 1
	}
}

// Decode inspects words[0] to classify the instruction, then dispatches to
// the family-specific decoder, mirroring Encode's single switch point
// (§9's "closed union of behaviours" applies symmetrically to
// disassembly). selfOffset is the instruction's absolute byte offset,
// needed by families that resolve a jump-relative branch target.
func Decode(words []uint32, arch Arch, selfOffset int64) (Decoded, error) {
	if len(words) == 0 {
		return Decoded{}, fmt.Errorf("gcn: empty instruction stream")
	}
	family, err := Classify(words[0], arch)
	if err != nil {
		return Decoded{}, err
	}
	if need := familyMinWords(family); len(words) < need {
		return Decoded{}, &ErrTruncatedInstruction{Family: family, Have: len(words), Want: need}
	}

	switch family {
	case EncSOP1:
		return DecodeSOP1(words, arch)
	case EncSOP2:
		return DecodeSOP2(words, arch)
	case EncSOPC:
		return DecodeSOPC(words, arch)
	case EncSOPK:
		return DecodeSOPK(words, arch, selfOffset)
	case EncSOPP:
		return DecodeSOPP(words, arch, selfOffset)
	case EncSMRD:
		return DecodeSMRD(words, arch)
	case EncSMEM:
		return DecodeSMEM(words, arch)
	case EncVOP1:
		return DecodeVOP1(words, arch)
	case EncVOP2:
		return DecodeVOP2(words, arch)
	case EncVOPC:
		return DecodeVOPC(words, arch)
	case EncVOP3A, EncVOP3B:
		return DecodeVOP3(words, arch)
	case EncVINTRP:
		return DecodeVINTRP(words, arch)
	case EncDS:
		return DecodeDS(words, arch)
	case EncMUBUF:
		return DecodeMUBUF(words, arch)
	case EncMTBUF:
		return DecodeMTBUF(words, arch)
	case EncMIMG:
		return DecodeMIMG(words, arch)
	case EncEXP:
		return DecodeEXP(words, arch)
	case EncFLAT:
		return DecodeFLAT(words, arch)
	default:
		return Decoded{}, fmt.Errorf("gcn: unhandled encoding family %d", family)
	}
}
