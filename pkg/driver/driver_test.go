package driver

import (
	"strings"
	"testing"

	"github.com/gcnasm/gcnasm/pkg/gcn"
	"github.com/gcnasm/gcnasm/pkg/symtab"
)

func newTestDriver(arch gcn.Arch) (*Driver, *symtab.SectionTable) {
	sections := symtab.NewSectionTable()
	sec := sections.Create("text", 0, symtab.SectionKernelCode, symtab.ContainerGallium)
	sections.SetCurrent(sec)
	d := New(arch, sections, symtab.New(), nil)
	return d, sections
}

func assertNoErrors(t *testing.T, d *Driver) {
	t.Helper()
	for _, diag := range d.Diagnostics {
		if diag.Severity == SeverityError {
			t.Fatalf("unexpected diagnostic: %s", diag)
		}
	}
}

func TestSimpleInstructionAssembles(t *testing.T) {
	d, sections := newTestDriver(gcn.Arch1_2)
	d.Run("t.s", strings.NewReader("s_nop 0\n"))
	assertNoErrors(t, d)
	sec, _ := sections.Lookup("text", 0)
	if len(sec.Data) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(sec.Data))
	}
}

func TestLabelAndForwardJumpResolves(t *testing.T) {
	d, sections := newTestDriver(gcn.Arch1_2)
	src := "s_cbranch_scc1 target\ns_nop 0\ntarget:\ns_nop 0\n"
	d.Run("t.s", strings.NewReader(src))
	assertNoErrors(t, d)
	sec, _ := sections.Lookup("text", 0)
	if len(sec.Data) != 12 {
		t.Fatalf("expected 12 bytes, got %d", len(sec.Data))
	}
	// branch word's low 16 bits carry the signed dword-granular offset from
	// pc+4 to the label at byte 8: (8-0-4)/4 = 1.
	word := uint16(sec.Data[0]) | uint16(sec.Data[1])<<8
	if int16(word) != 1 {
		t.Fatalf("expected jump offset 1, got %d", int16(word))
	}
	if len(d.Flow) != 1 {
		t.Fatalf("expected one flow edge, got %d", len(d.Flow))
	}
	if d.Flow[0].Edge.Target != 8 {
		t.Fatalf("expected flow target 8, got %d", d.Flow[0].Edge.Target)
	}
}

// TestOffsetDirectiveBiasesLabelPosition exercises §8 scenario 1's
// `.offset .-N` / `.offset .+N` idiom: a label declared between two halves
// of an already-emitted instruction records the byte offset of that inner
// boundary, not the instruction's end. Biases accumulate, so the following
// `.offset .+4` cancels the earlier -4.
func TestOffsetDirectiveBiasesLabelPosition(t *testing.T) {
	d, sections := newTestDriver(gcn.Arch1_0)
	src := "ds_read2_b32 v[55:56], v6 offset0:37 offset1:38\n" +
		".offset .-4\n" +
		"target:\n" +
		".offset .+4\n" +
		"s_branch target\n"
	d.Run("t.s", strings.NewReader(src))
	assertNoErrors(t, d)
	sec, _ := sections.Lookup("text", 0)
	if len(sec.Data) != 12 {
		t.Fatalf("expected 12 bytes (8 DS + 4 branch), got %d", len(sec.Data))
	}
	if len(d.Flow) != 1 {
		t.Fatalf("expected one flow edge, got %d", len(d.Flow))
	}
	// the label sits 4 bytes into the DS instruction's two-word encoding,
	// not at its end (byte 8).
	if d.Flow[0].Edge.Target != 4 {
		t.Fatalf("expected flow target 4, got %d", d.Flow[0].Edge.Target)
	}
	// branch at byte 8 to target 4: (4-8-4)/4 = -2.
	word := uint16(sec.Data[8]) | uint16(sec.Data[9])<<8
	if int16(word) != -2 {
		t.Fatalf("expected jump offset -2, got %d", int16(word))
	}
}

func TestBackwardJumpResolvesImmediately(t *testing.T) {
	d, sections := newTestDriver(gcn.Arch1_2)
	src := "loop:\ns_nop 0\ns_branch loop\n"
	d.Run("t.s", strings.NewReader(src))
	assertNoErrors(t, d)
	sec, _ := sections.Lookup("text", 0)
	if len(sec.Data) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(sec.Data))
	}
	word := uint16(sec.Data[4]) | uint16(sec.Data[5])<<8
	// pc=4, target=0: (0-4-4)/4 = -2.
	if int16(word) != -2 {
		t.Fatalf("expected jump offset -2, got %d", int16(word))
	}
}

func TestUnresolvedSymbolReportsError(t *testing.T) {
	d, _ := newTestDriver(gcn.Arch1_2)
	d.Run("t.s", strings.NewReader("s_branch nowhere\n"))
	if !d.HasErrors() {
		t.Fatal("expected an error for an unresolved branch target")
	}
}

func TestAssignmentAndExpressionOperand(t *testing.T) {
	d, sections := newTestDriver(gcn.Arch1_2)
	src := "N = 4\ns_load_dword s0, s[2:3], N\n"
	d.Run("t.s", strings.NewReader(src))
	assertNoErrors(t, d)
	sec, _ := sections.Lookup("text", 0)
	if len(sec.Data) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(sec.Data))
	}
}

func TestMacroExpansion(t *testing.T) {
	d, sections := newTestDriver(gcn.Arch1_2)
	src := ".macro nop_twice\ns_nop 0\ns_nop 0\n.endm\nnop_twice\n"
	d.Run("t.s", strings.NewReader(src))
	assertNoErrors(t, d)
	sec, _ := sections.Lookup("text", 0)
	if len(sec.Data) != 8 {
		t.Fatalf("expected 8 bytes from two expanded nops, got %d", len(sec.Data))
	}
}

func TestMacroParameterSubstitution(t *testing.T) {
	d, sections := newTestDriver(gcn.Arch1_2)
	src := ".macro store_offset off\ns_load_dword s0, s[2:3], \\off\n.endm\nstore_offset 8\n"
	d.Run("t.s", strings.NewReader(src))
	assertNoErrors(t, d)
	sec, _ := sections.Lookup("text", 0)
	if len(sec.Data) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(sec.Data))
	}
}

func TestRepeatBlockReplaysNTimes(t *testing.T) {
	d, sections := newTestDriver(gcn.Arch1_2)
	src := ".rept 3\ns_nop 0\n.endr\n"
	d.Run("t.s", strings.NewReader(src))
	assertNoErrors(t, d)
	sec, _ := sections.Lookup("text", 0)
	if len(sec.Data) != 12 {
		t.Fatalf("expected 12 bytes from three repeats, got %d", len(sec.Data))
	}
}

func TestConditionalSkipsInactiveBranch(t *testing.T) {
	d, sections := newTestDriver(gcn.Arch1_2)
	src := ".if 0\ns_nop 0\ns_nop 0\n.else\ns_nop 0\n.endif\n"
	d.Run("t.s", strings.NewReader(src))
	assertNoErrors(t, d)
	sec, _ := sections.Lookup("text", 0)
	if len(sec.Data) != 4 {
		t.Fatalf("expected 4 bytes from the taken .else branch, got %d", len(sec.Data))
	}
}

func TestConditionalTakenBranchSkipsElse(t *testing.T) {
	d, sections := newTestDriver(gcn.Arch1_2)
	src := ".if 1\ns_nop 0\n.else\ns_nop 0\ns_nop 0\n.endif\n"
	d.Run("t.s", strings.NewReader(src))
	assertNoErrors(t, d)
	sec, _ := sections.Lookup("text", 0)
	if len(sec.Data) != 4 {
		t.Fatalf("expected 4 bytes from the taken .if branch, got %d", len(sec.Data))
	}
}

func TestUnknownMnemonicReportsError(t *testing.T) {
	d, _ := newTestDriver(gcn.Arch1_2)
	d.Run("t.s", strings.NewReader("not_a_real_instruction 0\n"))
	if !d.HasErrors() {
		t.Fatal("expected an error for an unknown mnemonic")
	}
}

func TestOnceLabelRedefinitionReportsError(t *testing.T) {
	d, _ := newTestDriver(gcn.Arch1_2)
	src := "L1:\ns_nop 0\nL1:\ns_nop 0\n"
	d.Run("t.s", strings.NewReader(src))
	if !d.HasErrors() {
		t.Fatal("expected an error for a redefined label")
	}
}

func TestUnterminatedIfReportsError(t *testing.T) {
	d, _ := newTestDriver(gcn.Arch1_2)
	d.Run("t.s", strings.NewReader(".if 1\ns_nop 0\n"))
	if !d.HasErrors() {
		t.Fatal("expected an error for an unterminated .if block")
	}
}

func TestUnterminatedMacroReportsError(t *testing.T) {
	d, _ := newTestDriver(gcn.Arch1_2)
	d.Run("t.s", strings.NewReader(".macro m\ns_nop 0\n"))
	if !d.HasErrors() {
		t.Fatal("expected an error for an unterminated .macro block")
	}
}

func TestSizeSuffixSelectsForcedEncoding(t *testing.T) {
	d, sections := newTestDriver(gcn.Arch1_2)
	d.Run("t.s", strings.NewReader("v_add_i32_e32 v0, v1, v2\n"))
	assertNoErrors(t, d)
	sec, _ := sections.Lookup("text", 0)
	if len(sec.Data) != 4 {
		t.Fatalf("expected a single 4-byte VOP2 word for the _e32 form, got %d", len(sec.Data))
	}
}
