package gcn

import "testing"

// TestVOP2StaysShortWithPlainVGPROperands exercises §8 scenario 5's second
// clause: `v_add_f32 v5, v6, v11` with no SGPR/modifier/omod operand stays
// in the one-word short form.
func TestVOP2StaysShortWithPlainVGPROperands(t *testing.T) {
	desc := Lookup("v_add_f32")[0]
	res, err := Encode(desc, "v5, v6, v11", ParseCtx{Arch: Arch1_0}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Words) != 1 {
		t.Fatalf("expected the short VOP2 form (1 word), got %d words", len(res.Words))
	}
}

// TestVOP2PromotesOnOmodModifier exercises §8 scenario 5's first clause: a
// trailing `mul:2` (OMOD) modifier has no encoding in the short VOP2 word,
// so it forces promotion to the paired VOP3A form.
func TestVOP2PromotesOnOmodModifier(t *testing.T) {
	desc := Lookup("v_add_f32")[0]
	res, err := Encode(desc, "v5, v6, v11 mul:2", ParseCtx{Arch: Arch1_0}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Words) != 2 {
		t.Fatalf("expected the promoted VOP3A form (2 words), got %d words", len(res.Words))
	}
	if res.Words[0]>>26 != vop3Prefix {
		t.Fatalf("expected a VOP3 prefix word, got 0x%08x", res.Words[0])
	}
	if (res.Words[1]>>27)&0x3 != 1 {
		t.Fatalf("expected OMOD=1 (mul:2), got %d", (res.Words[1]>>27)&0x3)
	}
}

// TestVOP2ForcedLongBySuffix exercises §8 scenario 5's third clause: the
// explicit `_e64` suffix forces the long form even with plain VGPR operands
// that would otherwise fit in the short encoding.
func TestVOP2ForcedLongBySuffix(t *testing.T) {
	desc := Lookup("v_add_f32")[0]
	// StripSuffix operates on desc.Mnemonic, so exercise it the way
	// pkg/driver's encodeInstruction does: restore the suffixed spelling
	// before calling Encode.
	desc.Mnemonic = "v_add_f32_e64"
	res, err := Encode(desc, "v5, v6, v11", ParseCtx{Arch: Arch1_0}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Words) != 2 {
		t.Fatalf("expected the forced VOP3A form (2 words), got %d words", len(res.Words))
	}
}
