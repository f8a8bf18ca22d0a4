package gcn

import "testing"

// TestDSRead2EncodesOffsetsAndAddresses exercises §8 scenario 1's DS half:
// ds_read2_b32 v[55:56], v6 offset0:37 offset1:38 packs both offsets,
// unscaled, into word0 and the vdst/addr register numbers into word1.
func TestDSRead2EncodesOffsetsAndAddresses(t *testing.T) {
	desc := Lookup("ds_read2_b32")[0]
	res, err := Encode(desc, "v[55:56], v6 offset0:37 offset1:38", ParseCtx{Arch: Arch1_0}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(res.Words))
	}
	if res.Words[0]>>26 != dsPrefix {
		t.Fatalf("expected the DS prefix, got 0x%08x", res.Words[0])
	}
	if res.Words[0]&0xff != 37 {
		t.Fatalf("expected offset0=37, got %d", res.Words[0]&0xff)
	}
	if (res.Words[0]>>8)&0xff != 38 {
		t.Fatalf("expected offset1=38, got %d", (res.Words[0]>>8)&0xff)
	}
	if res.Words[1]&0xff != 6 {
		t.Fatalf("expected addr=v6, got %d", res.Words[1]&0xff)
	}
	if (res.Words[1]>>24)&0xff != 55 {
		t.Fatalf("expected vdst base=v55, got %d", (res.Words[1]>>24)&0xff)
	}
}

// TestDSReadRequiresTwoOperands confirms ds_read2_b32 rejects a lone vdst
// operand: the vdst, addr pair is required.
func TestDSReadRequiresTwoOperands(t *testing.T) {
	desc := Lookup("ds_read2_b32")[0]
	if _, err := Encode(desc, "v[55:56]", ParseCtx{Arch: Arch1_0}, 0); err == nil {
		t.Fatal("expected an operand-count error for a single operand")
	}
}
