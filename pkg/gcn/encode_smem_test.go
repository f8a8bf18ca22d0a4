package gcn

import "testing"

func lookupForArch(t *testing.T, mnemonic string, arch Arch) InstrDesc {
	t.Helper()
	for _, d := range Lookup(mnemonic) {
		if d.ArchMask.Supports(arch) {
			return d
		}
	}
	t.Fatalf("no %q descriptor supports %v", mnemonic, arch)
	return InstrDesc{}
}

// TestSMEMVegaOffsetSplit exercises §8 scenario 6's second clause: without
// an explicit `offset:` modifier, a positional immediate offset is placed
// directly in word1, using the wider 21-bit signed field on Vega and the
// 20-bit unsigned field on earlier GCN1.2+ parts.
func TestSMEMVegaOffsetSplit(t *testing.T) {
	desc := lookupForArch(t, "s_load_dwordx2", Arch1_4)
	res, err := Encode(desc, "s[4:5], s[10:11], 0x12345", ParseCtx{Arch: Arch1_4}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(res.Words))
	}
	if res.Words[1]&0x1fffff != 0x12345 {
		t.Fatalf("expected offset 0x12345 in the low 21 bits of word1, got 0x%x", res.Words[1])
	}
}

func TestSMEMPreVegaOffsetIs20Bits(t *testing.T) {
	desc := lookupForArch(t, "s_load_dwordx2", Arch1_2)
	res, err := Encode(desc, "s[4:5], s[10:11], 0x12345", ParseCtx{Arch: Arch1_2}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Words[1]&0xfffff != 0x12345 {
		t.Fatalf("expected offset 0x12345 in the low 20 bits of word1, got 0x%x", res.Words[1])
	}
}

// TestSMEMExplicitOffsetConflictsWithImmediate exercises §8 scenario 6's
// first clause: an explicit `offset:` modifier alongside a positional
// immediate offset operand is rejected as conflicting.
func TestSMEMExplicitOffsetConflictsWithImmediate(t *testing.T) {
	desc := lookupForArch(t, "s_load_dwordx2", Arch1_4)
	if _, err := Encode(desc, "s[4:5], s[10:11], 0x12345 offset:0", ParseCtx{Arch: Arch1_4}, 0); err == nil {
		t.Fatal("expected an error for offset: modifier conflicting with an immediate offset operand")
	}
}

// TestSMEMRegisterOffsetAllowsModifier confirms the conflict check is
// specific to an immediate positional offset: a register offset with an
// offset: modifier is a distinct, unambiguous encoding and must not error.
func TestSMEMRegisterOffsetAllowsModifier(t *testing.T) {
	desc := lookupForArch(t, "s_load_dwordx2", Arch1_4)
	if _, err := Encode(desc, "s[4:5], s[10:11], s2 offset:0", ParseCtx{Arch: Arch1_4}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
