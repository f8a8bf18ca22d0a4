package gcn

import "fmt"

// RegClass distinguishes the operand-encoding space a RegRange lives in
// (§3): scalar, vector, or the shared special/inline-constant/literal
// space that both SRC operand fields can reach.
type RegClass int

const (
	ClassScalar RegClass = iota
	ClassVector
)

// Special encoded values from §3's RegRange table (0..103 SGPR / 106 VCC /
// ... / 256..511 VGPR). Only the fixed, non-range special codes are named
// here; SGPR/VGPR ranges are computed from Start/End directly.
const (
	EncVCCLo       = 106
	EncVCCHi       = 107
	EncTBA         = 108
	EncTMA         = 110
	EncTTMPLo      = 112
	EncTTMPHi      = 123
	EncM0          = 124
	EncEXECLo      = 126
	EncEXECHi      = 127
	EncIntInlineLo = 128 // 0..64
	EncIntInlineHi = 192
	EncIntNegLo    = 193 // -1..-16
	EncIntNegHi    = 208
	EncFPInlineLo  = 240 // eight canonical FP constants
	EncFPInlineHi  = 247
	EncFP16TwoPi   = 248 // GCN 1.2+ only
	EncVCCZ        = 251
	EncEXECZ       = 252
	EncSCC         = 253
	EncLDS         = 254
	EncLiteral     = 255
	EncVGPRBase    = 256
)

// fpInlineValues are the eight canonical FP inline constants, in encoding
// order 240..247 (§3, §4.6).
var fpInlineValues = [8]float64{0.5, -0.5, 1.0, -1.0, 2.0, -2.0, 4.0, -4.0}
var fpInlineText = [8]string{"0.5", "-0.5", "1.0", "-1.0", "2.0", "-2.0", "4.0", "-4.0"}

// fp16TwoPiBits is the FP16 1/(2*pi) inline constant's 32-bit pattern
// (0x3e22f983), valid on GCN 1.2+ only.
const fp16TwoPiBits uint32 = 0x3e22f983

// RegVar is an optional back-reference to a symbolic register alias (a
// user `.set`/register-variable definition); kept opaque here since naming
// such variables is a driver-layer concern, not a gcn-package one.
type RegVar struct {
	Name string
}

// RegRange is (start, end, optional register-variable reference) per §3.
// A single register is represented with Start == End.
type RegRange struct {
	Class    RegClass
	Start    int
	End      int
	Var      *RegVar
	Unaligned bool // parse-time flag: caller allowed non-natural alignment
}

// Count returns how many registers the range spans.
func (r RegRange) Count() int { return r.End - r.Start + 1 }

// NaturalAlignment returns the required alignment for an SGPR range of the
// given register count per §3 (1/2/4/8/16 natural alignment); VGPR ranges
// carry no alignment rule and always return 1.
func NaturalAlignment(class RegClass, count int) int {
	if class == ClassVector {
		return 1
	}
	switch {
	case count <= 1:
		return 1
	case count <= 2:
		return 2
	case count <= 4:
		return 4
	case count <= 8:
		return 8
	default:
		return 16
	}
}

// ErrMisaligned is returned by CheckAlignment.
type ErrMisaligned struct {
	Class RegClass
	Start int
	Need  int
}

func (e *ErrMisaligned) Error() string {
	return fmt.Sprintf("register range starting at %d must be %d-aligned", e.Start, e.Need)
}

// CheckAlignment enforces §3's SGPR alignment invariant unless r.Unaligned
// is set.
func (r RegRange) CheckAlignment() error {
	if r.Class != ClassScalar || r.Unaligned {
		return nil
	}
	need := NaturalAlignment(r.Class, r.Count())
	if r.Start%need != 0 {
		return &ErrMisaligned{Class: r.Class, Start: r.Start, Need: need}
	}
	return nil
}

// Operand is the fully-parsed form of one instruction operand: either a
// register range, a special/inline-constant code, or a literal expression
// pending resolution (§4.4). Exactly one of Range/InlineCode/Literal is
// meaningful, discriminated by Kind.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandInlineConstant
	OperandLiteral
)

// Operand carries the outer VOP3 modifier wrappers alongside the operand
// value itself, since abs/neg/sext/opsel are attached at parse time and
// consumed by the encoder when deciding 32- vs 64-bit form (§4.4, §4.5).
type Operand struct {
	Kind        OperandKind
	Range       RegRange
	InlineCode  int   // encoded value in the 0..255 operand space
	LiteralBits uint32
	LiteralExpr bool   // true if LiteralBits is not yet final (pending expr)
	LiteralText string // original text of a pending literal expression, for pkg/expr parsing at the driver layer

	Abs  bool
	Neg  bool
	Sext bool
	Opsel bool
}

// EncodedField returns the 8/9-bit operand-space encoding for op, per §3's
// RegRange table. VGPR ranges add EncVGPRBase; SGPR/special ranges encode
// directly.
func (op Operand) EncodedField() int {
	switch op.Kind {
	case OperandInlineConstant:
		return op.InlineCode
	case OperandLiteral:
		return EncLiteral
	default:
		if op.Range.Class == ClassVector {
			return EncVGPRBase + op.Range.Start
		}
		return op.Range.Start
	}
}

// DecodeSpecial reconstructs an Operand from a raw 8/9-bit field value read
// back out of an encoded instruction word (§4.6's decoder). vgprWidth is
// the register count implied by the instruction's data size (e.g. 2 for a
// dwordx2 VGPR destination); for scalar-only fields pass 1.
func DecodeSpecial(field int, class RegClass, width int, arch Arch) Operand {
	if class == ClassVector {
		if field >= EncVGPRBase {
			n := field - EncVGPRBase
			return Operand{Kind: OperandRegister, Range: RegRange{Class: ClassVector, Start: n, End: n + width - 1}}
		}
	}
	switch {
	case field == EncLiteral:
		return Operand{Kind: OperandLiteral}
	case field >= EncIntInlineLo && field <= EncIntInlineHi:
		return Operand{Kind: OperandInlineConstant, InlineCode: field}
	case field >= EncIntNegLo && field <= EncIntNegHi:
		return Operand{Kind: OperandInlineConstant, InlineCode: field}
	case field >= EncFPInlineLo && field <= EncFPInlineHi:
		return Operand{Kind: OperandInlineConstant, InlineCode: field}
	case field == EncFP16TwoPi && arch.IsGCN1_2Plus():
		return Operand{Kind: OperandInlineConstant, InlineCode: field}
	case field <= 103, field == EncVCCLo, field == EncVCCHi, field == EncTBA, field == EncTMA,
		(field >= EncTTMPLo && field <= EncTTMPHi), field == EncM0, field == EncEXECLo, field == EncEXECHi,
		field == EncVCCZ, field == EncEXECZ, field == EncSCC, field == EncLDS:
		end := field
		if field <= 103 {
			end = field + width - 1
		}
		return Operand{Kind: OperandRegister, Range: RegRange{Class: ClassScalar, Start: field, End: end}}
	}
	return Operand{Kind: OperandRegister, Range: RegRange{Class: class, Start: field, End: field}}
}

// InlineIntValue decodes an integer-inline-constant field to its signed
// value, per §3 (0..64 at 128..192, -1..-16 at 193..208).
func InlineIntValue(field int) (int64, bool) {
	switch {
	case field >= EncIntInlineLo && field <= EncIntInlineHi:
		return int64(field - EncIntInlineLo), true
	case field >= EncIntNegLo && field <= EncIntNegHi:
		return -int64(field-EncIntNegLo) - 1, true
	}
	return 0, false
}

// InlineFPText renders an FP-inline-constant field as GNU-as text, or the
// FP16 1/(2*pi) symbolic constant on GCN 1.2+.
func InlineFPText(field int, arch Arch) (string, bool) {
	if field >= EncFPInlineLo && field <= EncFPInlineHi {
		return fpInlineText[field-EncFPInlineLo], true
	}
	if field == EncFP16TwoPi && arch.IsGCN1_2Plus() {
		return fmt.Sprintf("0x%x", fp16TwoPiBits), true
	}
	return "", false
}
