package filter

import (
	"strings"
	"testing"
)

func cookAll(t *testing.T, src string) []string {
	t.Helper()
	f := NewStreamFilter("t.s", strings.NewReader(src))
	var lines []string
	for {
		line, ok, err := f.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		lines = append(lines, line.Text)
	}
	return lines
}

func TestStreamFilterWhitespaceCollapse(t *testing.T) {
	got := cookAll(t, "v_add_f32   v5,   v6,   v7\n")
	want := []string{"v_add_f32 v5, v6, v7"}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStreamFilterLineComment(t *testing.T) {
	got := cookAll(t, "s_nop 0 # a comment\ns_endpgm ; another\n")
	if len(got) != 2 {
		t.Fatalf("got %d lines: %q", len(got), got)
	}
	if got[0] != "s_nop 0" {
		t.Fatalf("got %q", got[0])
	}
	if got[1] != "s_endpgm" {
		t.Fatalf("got %q", got[1])
	}
}

func TestStreamFilterBlockComment(t *testing.T) {
	got := cookAll(t, "s_nop /* skip this */ 0\n")
	if len(got) != 1 || got[0] != "s_nop 0" {
		t.Fatalf("got %q", got)
	}
}

func TestStreamFilterQuotedStringVerbatim(t *testing.T) {
	got := cookAll(t, ".include \"foo   bar.s\"\n")
	if len(got) != 1 || got[0] != ".include \"foo   bar.s\"" {
		t.Fatalf("got %q", got)
	}
}

func TestStreamFilterLineContinuation(t *testing.T) {
	got := cookAll(t, "s_add_u32 s0, \\\ns1, s2\n")
	if len(got) != 1 {
		t.Fatalf("expected 1 fused line, got %d: %q", len(got), got)
	}
	if got[0] != "s_add_u32 s0, s1, s2" {
		t.Fatalf("got %q", got[0])
	}
}

func TestColumnMapTracksOriginalColumns(t *testing.T) {
	f := NewStreamFilter("t.s", strings.NewReader("  v_nop\n"))
	line, ok, err := f.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if line.Text != " v_nop" {
		t.Fatalf("got %q", line.Text)
	}
	// the 'v' of v_nop is at cooked offset 1, original column 3.
	if got := line.Columns.OriginalColumn(1); got != 3 {
		t.Fatalf("OriginalColumn(1) = %d, want 3", got)
	}
}
