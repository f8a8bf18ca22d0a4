package source

import "testing"

func TestPositionString(t *testing.T) {
	f := (*File)(nil).Push("kernel.s")
	pos := Position{File: f, Line: 12, Column: 4}
	if got, want := pos.String(), "kernel.s:12:4"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestFileChainSharing(t *testing.T) {
	top := (*File)(nil).Push("top.s")
	inc := top.Push("included.s")
	if inc.Parent != top {
		t.Fatal("included file must keep its parent")
	}
	// two positions in the same included file share the same node.
	p1 := Position{File: inc, Line: 1}
	p2 := Position{File: inc, Line: 2}
	if p1.File != p2.File {
		t.Fatal("expected shared file chain node")
	}
}

func TestMacroTraceOrder(t *testing.T) {
	outer := Position{Line: 1, Column: 1}
	m1 := (*Macro)(nil).Push("outer_macro", outer)
	inner := Position{Line: 2, Column: 1}
	m2 := m1.Push("inner_macro", inner)

	pos := Position{Line: 3, Column: 1, Macro: m2}
	trace := pos.MacroTrace()
	if len(trace) != 2 {
		t.Fatalf("expected 2 trace entries, got %d", len(trace))
	}
	if trace[0] != ":1:1: in macro 'outer_macro'" {
		t.Fatalf("unexpected first trace line: %q", trace[0])
	}
	if trace[1] != ":2:1: in macro 'inner_macro'" {
		t.Fatalf("unexpected second trace line: %q", trace[1])
	}
}
