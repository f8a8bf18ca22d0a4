package gcn

import "testing"

// TestDecodeVOPCWarnsOnUnfinishedLiteral exercises §8 scenario 2: a VOPC
// word whose src0 field selects the literal slot but has no trailing
// literal word in the stream decodes with the literal treated as 0 and a
// warning attached, rather than failing outright.
func TestDecodeVOPCWarnsOnUnfinishedLiteral(t *testing.T) {
	d, err := Decode([]uint32{0x7C6B92FF}, Arch1_0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Warning != WarnUnfinishedInstruction {
		t.Fatalf("expected warning %q, got %q", WarnUnfinishedInstruction, d.Warning)
	}
	if len(d.Words) != 1 {
		t.Fatalf("expected the literal word to stay unconsumed, got %d words", len(d.Words))
	}
}
