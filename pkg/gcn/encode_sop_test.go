package gcn

import "testing"

// TestSOP2LiteralPromotion exercises §8 scenario 4: a plain 32-bit literal
// operand appends a second word carrying its value and marks the operand
// field as the literal slot (255); an unresolved symbol in the same
// position instead appends a zero placeholder word and a pending
// relocation.
func TestSOP2LiteralPromotion(t *testing.T) {
	desc := Lookup("s_add_u32")[0]

	res, err := Encode(desc, "s0, 0x12345678, s1", ParseCtx{Arch: Arch1_0}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(res.Words))
	}
	if res.Words[1] != 0x12345678 {
		t.Fatalf("expected literal word 0x12345678, got 0x%x", res.Words[1])
	}
	if res.Words[0]&0xff != EncLiteral {
		t.Fatalf("expected ssrc0 field to be the literal slot, got 0x%x", res.Words[0]&0xff)
	}
	if len(res.Pending) != 0 {
		t.Fatalf("expected no pending relocations for a resolved literal, got %d", len(res.Pending))
	}
}

func TestSOP2LiteralPromotionDeferredSymbol(t *testing.T) {
	desc := Lookup("s_add_u32")[0]

	res, err := Encode(desc, "s0, unresolved_symbol, s1", ParseCtx{Arch: Arch1_0}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(res.Words))
	}
	if res.Words[1] != 0 {
		t.Fatalf("expected placeholder literal word 0, got 0x%x", res.Words[1])
	}
	if len(res.Pending) != 1 {
		t.Fatalf("expected one pending relocation, got %d", len(res.Pending))
	}
	if res.Pending[0].Text != "unresolved_symbol" {
		t.Fatalf("expected pending text %q, got %q", "unresolved_symbol", res.Pending[0].Text)
	}
	if res.Pending[0].ByteOffset != 4 {
		t.Fatalf("expected pending byte offset 4, got %d", res.Pending[0].ByteOffset)
	}
}

// TestSOP2RejectsTwoLiterals covers the "literal slot uniqueness" property:
// at most one operand may occupy the literal slot.
func TestSOP2RejectsTwoLiterals(t *testing.T) {
	desc := Lookup("s_add_u32")[0]
	if _, err := Encode(desc, "s0, 0x12345678, 0x87654321", ParseCtx{Arch: Arch1_0}, 0); err == nil {
		t.Fatal("expected an error for two literal operands")
	}
}

// TestSOPKJumpEmitsPendingRelocAndCJumpEdge exercises §8 scenario 3: a
// label-only SOPK jump form (s_cbranch_i_fork) leaves a pending
// jump-relative relocation at word offset 0 and records a CJUMP flow edge
// at its own source offset, since the imm16 field can only be filled once
// the label's byte offset is known.
func TestSOPKJumpEmitsPendingRelocAndCJumpEdge(t *testing.T) {
	desc := Lookup("s_cbranch_i_fork")[0]
	res, err := Encode(desc, "target_label", ParseCtx{Arch: Arch1_0}, 0x10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(res.Words))
	}
	if len(res.Pending) != 1 || res.Pending[0].Text != "target_label" {
		t.Fatalf("expected a pending relocation for target_label, got %+v", res.Pending)
	}
	if res.Pending[0].ByteOffset != 0 || res.Pending[0].BitWidth != 16 || !res.Pending[0].Signed {
		t.Fatalf("expected a signed 16-bit relocation at byte offset 0, got %+v", res.Pending[0])
	}
	if res.Flow == nil || res.Flow.Kind != FlowCJump || res.Flow.Source != 0x10 {
		t.Fatalf("expected a CJUMP flow edge sourced at 0x10, got %+v", res.Flow)
	}
}

// TestSOPKVegaOpcode21IsCallNotJump exercises ResolveSOPKFlow's Vega-only
// override: SOPK opcode 21 is CALL on Vega, not a conditional jump, even
// though its bit pattern is identical to a pre-Vega part's branch opcode.
func TestSOPKVegaOpcode21IsCallNotJump(t *testing.T) {
	kind, isFlow := ResolveSOPKFlow(21, Arch1_4)
	if !isFlow || kind != FlowCall {
		t.Fatalf("expected FlowCall on Vega opcode 21, got kind=%v isFlow=%v", kind, isFlow)
	}
	kind, isFlow = ResolveSOPKFlow(21, Arch1_0)
	if !isFlow || kind != FlowCJump {
		t.Fatalf("expected FlowCJump on pre-Vega opcode 21, got kind=%v isFlow=%v", kind, isFlow)
	}
}

// TestSOPPBranchEmitsCJumpEdge exercises the SOPP sibling of scenario 3:
// s_cbranch_scc1 is a conditional branch (CJUMP), s_branch is
// unconditional (JUMP).
func TestSOPPBranchEmitsCJumpEdge(t *testing.T) {
	desc := Lookup("s_cbranch_scc1")[0]
	res, err := Encode(desc, "target_label", ParseCtx{Arch: Arch1_0}, 0x20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Flow == nil || res.Flow.Kind != FlowCJump || res.Flow.Source != 0x20 {
		t.Fatalf("expected a CJUMP flow edge sourced at 0x20, got %+v", res.Flow)
	}
	if len(res.Pending) != 1 || res.Pending[0].Text != "target_label" {
		t.Fatalf("expected a pending relocation for target_label, got %+v", res.Pending)
	}
}

func TestSOPPUnconditionalBranchEmitsJumpEdge(t *testing.T) {
	desc := Lookup("s_branch")[0]
	res, err := Encode(desc, "target_label", ParseCtx{Arch: Arch1_0}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Flow == nil || res.Flow.Kind != FlowJump {
		t.Fatalf("expected a JUMP flow edge, got %+v", res.Flow)
	}
}

// TestSOPPEndProgramEmitsFlowEnd covers s_endpgm's flow-terminator edge,
// which the two-pass disassembler label pass (pkg/asm) explicitly skips
// since a FlowEnd has no branch target to label.
func TestSOPPEndProgramEmitsFlowEnd(t *testing.T) {
	desc := Lookup("s_endpgm")[0]
	res, err := Encode(desc, "", ParseCtx{Arch: Arch1_0}, 0x40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Flow == nil || res.Flow.Kind != FlowEnd || res.Flow.Source != 0x40 || res.Flow.Target != 0x40 {
		t.Fatalf("expected a FlowEnd edge at 0x40, got %+v", res.Flow)
	}
}
