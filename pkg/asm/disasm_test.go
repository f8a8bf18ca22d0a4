package asm

import (
	"strings"
	"testing"

	"github.com/gcnasm/gcnasm/pkg/gcn"
)

func TestDisassembleRoundTripsAssembledBytes(t *testing.T) {
	res := Assemble(strings.NewReader("s_nop 0\n"), gcn.Arch1_2)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	data := res.Sections.All()[0].Data

	lines, err := Disassemble(data, gcn.Arch1_2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0].Text, "s_nop") {
		t.Fatalf("expected s_nop mnemonic, got %q", lines[0].Text)
	}
}

func TestDisassembleEmitsLabelAtBranchTarget(t *testing.T) {
	src := "s_cbranch_scc1 target\ns_nop 0\ntarget:\ns_nop 0\n"
	res := Assemble(strings.NewReader(src), gcn.Arch1_2)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	data := res.Sections.All()[0].Data

	lines, err := Disassemble(data, gcn.Arch1_2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found bool
	for _, l := range lines {
		if l.Offset == 8 && len(l.Directives) > 0 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a synthetic label at the branch target offset")
	}
}

// TestDisassembleDSBranchLabelScenario reproduces the worked example: a
// two-word ds_read2_b32 immediately followed by a branch whose target
// (byte 4) falls strictly inside the ds_read2_b32 instruction rather than
// on an instruction boundary, forcing the `.offset`-bracketed label form.
func TestDisassembleDSBranchLabelScenario(t *testing.T) {
	data := []byte{0x25, 0x26, 0xDC, 0xD8, 0x06, 0x00, 0x00, 0x37, 0xFE, 0xFF, 0x82, 0xBF}
	lines, err := Disassemble(data, gcn.Arch1_0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 decoded lines, got %d", len(lines))
	}
	if lines[0].Text != "ds_read2_b32 v[55:56], v6 offset0:37 offset1:38" {
		t.Fatalf("unexpected ds_read2_b32 text: %q", lines[0].Text)
	}
	wantDirs := []string{".offset .-4", ".L1:", ".offset .+4"}
	if len(lines[1].Directives) != len(wantDirs) {
		t.Fatalf("expected directives %v, got %v", wantDirs, lines[1].Directives)
	}
	for i, d := range wantDirs {
		if lines[1].Directives[i] != d {
			t.Fatalf("directive %d: expected %q, got %q", i, d, lines[1].Directives[i])
		}
	}
	if lines[1].Text != "s_branch .L1" {
		t.Fatalf("unexpected s_branch text: %q", lines[1].Text)
	}
}

func TestDisassembleRejectsMisalignedInput(t *testing.T) {
	if _, err := Disassemble([]byte{0x00, 0x00, 0x00}, gcn.Arch1_2); err == nil {
		t.Fatal("expected an error for non-dword-aligned input")
	}
}
