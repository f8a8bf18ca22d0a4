package expr

import (
	"testing"

	"github.com/gcnasm/gcnasm/pkg/source"
)

type mapResolver map[string]Value

func (m mapResolver) Resolve(name string) (Value, bool) {
	v, ok := m[name]
	return v, ok
}

func eval(t *testing.T, text string, resolve SymbolResolver) Value {
	t.Helper()
	e, err := Parse(text, source.Position{Line: 1, Column: 1}, Target{Kind: TargetSymbol, SymbolName: "x"})
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	v, err := e.Evaluate(resolve, nil)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", text, err)
	}
	return v
}

func TestParseArithmeticPrecedence(t *testing.T) {
	v := eval(t, "1 + 2 * 3", nil)
	if v.Bits != 7 {
		t.Fatalf("got %d, want 7", v.Bits)
	}
}

func TestParseParens(t *testing.T) {
	v := eval(t, "(1 + 2) * 3", nil)
	if v.Bits != 9 {
		t.Fatalf("got %d, want 9", v.Bits)
	}
}

func TestParseUnaryAndShift(t *testing.T) {
	v := eval(t, "-1 << 4", nil)
	if v.Bits != -16 {
		t.Fatalf("got %d, want -16", v.Bits)
	}
}

func TestParseBitwiseAndLogical(t *testing.T) {
	v := eval(t, "0xf0 & 0x3c", nil)
	if v.Bits != 0x30 {
		t.Fatalf("got %#x, want 0x30", v.Bits)
	}
	v = eval(t, "1 && 0 || 1", nil)
	if v.Bits != 1 {
		t.Fatalf("got %d, want 1", v.Bits)
	}
}

func TestParseComparisonAndTernary(t *testing.T) {
	v := eval(t, "3 > 2 ? 10 : 20", nil)
	if v.Bits != 10 {
		t.Fatalf("got %d, want 10", v.Bits)
	}
	v = eval(t, "3 < 2 ? 10 : 20", nil)
	if v.Bits != 20 {
		t.Fatalf("got %d, want 20", v.Bits)
	}
}

func TestParseSymbolReference(t *testing.T) {
	r := mapResolver{"label": Value{Bits: 100, Absolute: true}}
	v := eval(t, "label + 4", r)
	if v.Bits != 104 {
		t.Fatalf("got %d, want 104", v.Bits)
	}
}

func TestParseUnresolvedSymbol(t *testing.T) {
	e, err := Parse("missing + 1", source.Position{}, Target{Kind: TargetSymbol, SymbolName: "x"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = e.Evaluate(mapResolver{}, nil)
	if err == nil {
		t.Fatal("expected unresolved symbol error")
	}
}

func TestParseCharLiteral(t *testing.T) {
	v := eval(t, "'a'", nil)
	if v.Bits != 'a' {
		t.Fatalf("got %d, want %d", v.Bits, int('a'))
	}
}

func TestParseHexBinOctal(t *testing.T) {
	if v := eval(t, "0x1F", nil); v.Bits != 31 {
		t.Fatalf("hex: got %d, want 31", v.Bits)
	}
	if v := eval(t, "0b101", nil); v.Bits != 5 {
		t.Fatalf("bin: got %d, want 5", v.Bits)
	}
	if v := eval(t, "017", nil); v.Bits != 15 {
		t.Fatalf("octal: got %d, want 15", v.Bits)
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := Parse("1 + ", source.Position{}, Target{}); err == nil {
		t.Fatal("expected syntax error")
	}
	if _, err := Parse("(1 + 2", source.Position{}, Target{}); err == nil {
		t.Fatal("expected syntax error for unclosed paren")
	}
}

func TestParseRelocationTarget(t *testing.T) {
	e, err := Parse("label - here + 4", source.Position{}, Target{
		Kind:       TargetRelocation,
		SectionID:  1,
		ByteOffset: 8,
		Reloc:      RelocJumpRelS16,
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if e.Target.Reloc != RelocJumpRelS16 || e.Target.ByteOffset != 8 {
		t.Fatalf("target not preserved: %+v", e.Target)
	}
}
