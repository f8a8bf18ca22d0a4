package asm

import (
	"strings"
	"testing"

	"github.com/gcnasm/gcnasm/pkg/gcn"
)

func TestAssembleSimpleProgram(t *testing.T) {
	res := Assemble(strings.NewReader("s_nop 0\ns_nop 0\n"), gcn.Arch1_2)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	secs := res.Sections.All()
	if len(secs) != 1 {
		t.Fatalf("expected one section, got %d", len(secs))
	}
	if len(secs[0].Data) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(secs[0].Data))
	}
}

func TestAssembleReportsErrorForUnknownMnemonic(t *testing.T) {
	res := Assemble(strings.NewReader("bogus_op 0\n"), gcn.Arch1_2)
	if res.Err == nil {
		t.Fatal("expected an assembly error")
	}
	if len(res.Diagnostics) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
}

func TestStartAssemblerStreamsFinalResult(t *testing.T) {
	var gotResult bool
	for ev := range StartAssembler(strings.NewReader("s_nop 0\n"), gcn.Arch1_2) {
		if ev.Result != nil {
			gotResult = true
			if ev.Result.Err != nil {
				t.Fatalf("unexpected error: %v", ev.Result.Err)
			}
		}
	}
	if !gotResult {
		t.Fatal("expected a final result event")
	}
}
