package gcn

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCtx carries the small amount of state the operand parser needs from
// its caller: the target architecture (for FP16-2pi/SMEM-width gating). It
// has no GNU-as compatibility setting; operand parsing is the same in
// every mode.
type ParseCtx struct {
	Arch Arch
}

// ErrBadOperand is returned for operand syntax the grammar of §4.4 does
// not recognise.
type ErrBadOperand struct{ Text string }

func (e *ErrBadOperand) Error() string { return fmt.Sprintf("bad operand %q", e.Text) }

// ErrMisalignedOperand wraps ErrMisaligned with the offending operand text.
type ErrMisalignedOperand struct {
	Text string
	Err  error
}

func (e *ErrMisalignedOperand) Error() string { return fmt.Sprintf("%s: %v", e.Text, e.Err) }
func (e *ErrMisalignedOperand) Unwrap() error { return e.Err }

var namedScalars = map[string]int{
	"vcc":   EncVCCLo,
	"exec":  EncEXECLo,
	"m0":    EncM0,
	"scc":   EncSCC,
	"lds":   EncLDS,
	"vccz":  EncVCCZ,
	"execz": EncEXECZ,
	"tba":   EncTBA,
	"tma":   EncTMA,
}

// ParseOperand parses one token of the grammar in §4.4, outermost to
// innermost: optional VOP3 modifier wrappers `abs(x)`/`-x`/`sext(x)`/`|x|`,
// then a register range, named scalar, inline constant, or literal
// expression text. unaligned allows non-natural SGPR alignment for this
// operand (a caller-supplied flag per §4.4).
func ParseOperand(text string, ctx ParseCtx, unaligned bool) (Operand, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Operand{}, &ErrBadOperand{Text: text}
	}

	var op Operand
	for {
		stripped := false
		switch {
		case strings.HasPrefix(text, "abs(") && strings.HasSuffix(text, ")"):
			op.Abs = true
			text = text[4 : len(text)-1]
			stripped = true
		case strings.HasPrefix(text, "sext(") && strings.HasSuffix(text, ")"):
			op.Sext = true
			text = text[5 : len(text)-1]
			stripped = true
		case strings.HasPrefix(text, "-") && !isNumericStart(text):
			op.Neg = true
			text = text[1:]
			stripped = true
		case strings.HasPrefix(text, "|") && strings.HasSuffix(text, "|") && len(text) > 1:
			op.Abs = true
			text = text[1 : len(text)-1]
			stripped = true
		}
		if !stripped {
			break
		}
		text = strings.TrimSpace(text)
	}

	inner, err := parseInnerOperand(text, ctx, unaligned)
	if err != nil {
		return Operand{}, err
	}
	op.Kind = inner.Kind
	op.Range = inner.Range
	op.InlineCode = inner.InlineCode
	op.LiteralBits = inner.LiteralBits
	op.LiteralExpr = inner.LiteralExpr
	op.LiteralText = inner.LiteralText
	return op, nil
}

// isNumericStart reports whether text (after a leading '-') looks like a
// negative numeric literal rather than a negation-modifier wrapper, so
// `-1` parses as the immediate -1 while `-v5` parses as the neg(v5)
// modifier.
func isNumericStart(text string) bool {
	if !strings.HasPrefix(text, "-") || len(text) < 2 {
		return false
	}
	c := text[1]
	return c >= '0' && c <= '9'
}

func parseInnerOperand(text string, ctx ParseCtx, unaligned bool) (Operand, error) {
	lower := strings.ToLower(text)

	if code, ok := namedScalars[lower]; ok {
		return Operand{Kind: OperandRegister, Range: RegRange{Class: ClassScalar, Start: code, End: code}}, nil
	}
	if lower == "vcc_lo" {
		return Operand{Kind: OperandRegister, Range: RegRange{Class: ClassScalar, Start: EncVCCLo, End: EncVCCLo}}, nil
	}
	if lower == "vcc_hi" {
		return Operand{Kind: OperandRegister, Range: RegRange{Class: ClassScalar, Start: EncVCCHi, End: EncVCCHi}}, nil
	}
	if strings.HasPrefix(lower, "ttmp") {
		if n, ok := parseIndexedReg(lower, "ttmp"); ok {
			reg := EncTTMPLo + n
			return Operand{Kind: OperandRegister, Range: RegRange{Class: ClassScalar, Start: reg, End: reg}}, nil
		}
	}

	if rr, ok, err := parseRegisterRange(text, lower, unaligned); ok || err != nil {
		return Operand{Kind: OperandRegister, Range: rr}, err
	}

	// FP inline constants recognised by exact text spelling (§4.6 formats
	// them the same way it accepts them, so the round-trip property
	// holds).
	for i, s := range fpInlineText {
		if lower == s {
			return Operand{Kind: OperandInlineConstant, InlineCode: EncFPInlineLo + i}, nil
		}
	}
	if ctx.Arch.IsGCN1_2Plus() {
		if v, err := strconv.ParseUint(strings.TrimPrefix(lower, "0x"), 16, 32); err == nil && strings.HasPrefix(lower, "0x") && uint32(v) == fp16TwoPiBits {
			return Operand{Kind: OperandInlineConstant, InlineCode: EncFP16TwoPi}, nil
		}
	}

	// integer inline constant or general literal expression: try a plain
	// integer literal first (decimal/hex/octal/binary/char per §4.2).
	if v, ok := parseIntLiteral(text); ok {
		if v >= 0 && v <= 64 {
			return Operand{Kind: OperandInlineConstant, InlineCode: EncIntInlineLo + int(v)}, nil
		}
		if v >= -16 && v <= -1 {
			return Operand{Kind: OperandInlineConstant, InlineCode: EncIntNegLo + int(-v-1)}, nil
		}
		return Operand{Kind: OperandLiteral, LiteralBits: uint32(v)}, nil
	}

	// anything else is a literal expression whose value is not known yet;
	// the caller (encoder) attaches a relocation once it has committed the
	// literal slot's byte offset, and the driver parses LiteralText with
	// pkg/expr once every symbol referenced by it may have been defined.
	return Operand{Kind: OperandLiteral, LiteralExpr: true, LiteralText: text}, nil
}

func parseIndexedReg(lower, prefix string) (int, bool) {
	rest := strings.TrimPrefix(lower, prefix)
	rest = strings.TrimPrefix(rest, "[")
	rest = strings.TrimSuffix(rest, "]")
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		rest = rest[:idx]
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseRegisterRange recognises `s0`, `v0`, `s[a:b]`, `v[a:b]`.
func parseRegisterRange(text, lower string, unaligned bool) (RegRange, bool, error) {
	var class RegClass
	switch {
	case strings.HasPrefix(lower, "s"):
		class = ClassScalar
	case strings.HasPrefix(lower, "v"):
		class = ClassVector
	default:
		return RegRange{}, false, nil
	}
	rest := lower[1:]
	var start, end int
	if strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]") {
		body := rest[1 : len(rest)-1]
		parts := strings.SplitN(body, ":", 2)
		a, err1 := strconv.Atoi(parts[0])
		if err1 != nil {
			return RegRange{}, false, nil
		}
		start = a
		if len(parts) == 2 {
			b, err2 := strconv.Atoi(parts[1])
			if err2 != nil {
				return RegRange{}, false, nil
			}
			end = b
		} else {
			end = a
		}
	} else {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return RegRange{}, false, nil
		}
		start, end = n, n
	}
	rr := RegRange{Class: class, Start: start, End: end, Unaligned: unaligned}
	if err := rr.CheckAlignment(); err != nil {
		return rr, true, &ErrMisalignedOperand{Text: text, Err: err}
	}
	return rr, true, nil
}

// parseIntLiteral recognises decimal, C-style hex (0x), octal (0 prefix),
// binary (0b), and character constants ('a') per §4.2.
func parseIntLiteral(text string) (int64, bool) {
	if len(text) >= 3 && text[0] == '\'' && text[len(text)-1] == '\'' {
		body := text[1 : len(text)-1]
		if len(body) == 1 {
			return int64(body[0]), true
		}
		if len(body) == 2 && body[0] == '\\' {
			return int64(escapeCharValue(body[1])), true
		}
		return 0, false
	}
	lower := strings.ToLower(text)
	neg := false
	if strings.HasPrefix(lower, "-") {
		neg = true
		lower = lower[1:]
	}
	var v int64
	var err error
	switch {
	case strings.HasPrefix(lower, "0x"):
		var u uint64
		u, err = strconv.ParseUint(lower[2:], 16, 64)
		v = int64(u)
	case strings.HasPrefix(lower, "0b"):
		var u uint64
		u, err = strconv.ParseUint(lower[2:], 2, 64)
		v = int64(u)
	case strings.HasPrefix(lower, "0") && len(lower) > 1 && isAllDigits(lower[1:]):
		var u uint64
		u, err = strconv.ParseUint(lower[1:], 8, 64)
		v = int64(u)
	default:
		v, err = strconv.ParseInt(lower, 10, 64)
	}
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '7' {
			return false
		}
	}
	return len(s) > 0
}

func escapeCharValue(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case '0':
		return 0
	default:
		return c
	}
}
