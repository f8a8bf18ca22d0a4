package symtab

import (
	"testing"

	"github.com/gcnasm/gcnasm/pkg/expr"
	"github.com/gcnasm/gcnasm/pkg/source"
)

func noopApply(*Symbol, *expr.Expression, expr.Value) error { return nil }

func TestGetOrCreateUndefined(t *testing.T) {
	tab := New()
	s := tab.GetOrCreate("foo")
	if s.Defined {
		t.Fatal("expected symbol to start undefined")
	}
	s2 := tab.GetOrCreate("foo")
	if s != s2 {
		t.Fatal("expected the same symbol instance on second lookup")
	}
}

func TestDefineThenResolve(t *testing.T) {
	tab := New()
	s := tab.GetOrCreate("foo")
	if err := tab.Define(s, expr.Value{Bits: 42, Absolute: true}, source.Position{}, noopApply); err != nil {
		t.Fatalf("Define: %v", err)
	}
	r := Resolver{Table: tab}
	v, ok := r.Resolve("foo")
	if !ok || v.Bits != 42 {
		t.Fatalf("Resolve = %v, %v", v, ok)
	}
}

func TestOnceLabelRedefinitionFails(t *testing.T) {
	tab := New()
	s := tab.GetOrCreate("L1")
	if err := tab.DefineOnceLabel(s, expr.Value{Bits: 0, Absolute: true}, source.Position{}, noopApply); err != nil {
		t.Fatalf("first define: %v", err)
	}
	err := tab.DefineOnceLabel(s, expr.Value{Bits: 4, Absolute: true}, source.Position{}, noopApply)
	if err == nil {
		t.Fatal("expected redefinition error")
	}
	if _, ok := err.(*ErrRedefined); !ok {
		t.Fatalf("expected *ErrRedefined, got %T", err)
	}
}

func TestPendingDependentReEvaluatedOnDefine(t *testing.T) {
	tab := New()
	bar := tab.GetOrCreate("bar")

	b := expr.NewBuilder(source.Position{})
	b.PushLeaf(expr.Leaf{Symbol: &expr.SymbolRef{Name: "bar"}})
	b.PushLeaf(expr.Leaf{Constant: 1})
	b.PushOp(expr.OpAdd, source.Position{})
	e := b.Build(expr.Target{Kind: expr.TargetSymbol, SymbolName: "foo"})

	tab.RegisterPending(bar, e)

	var resolvedTo expr.Value
	apply := func(sym *Symbol, ex *expr.Expression, v expr.Value) error {
		resolvedTo = v
		return nil
	}
	if err := tab.Define(bar, expr.Value{Bits: 41, Absolute: true}, source.Position{}, apply); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if resolvedTo.Bits != 42 {
		t.Fatalf("expected dependent to resolve to 42, got %d", resolvedTo.Bits)
	}
}

func TestSectionAppendAndPatch(t *testing.T) {
	st := NewSectionTable()
	sec := st.Create(".text", 0, SectionKernelCode, ContainerGallium)
	st.SetCurrent(sec)
	off := sec.Append([]byte{0x01, 0x02, 0x03, 0x04})
	if off != 0 {
		t.Fatalf("expected offset 0, got %d", off)
	}
	if err := sec.PatchAt(1, []byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("PatchAt: %v", err)
	}
	want := []byte{0x01, 0xAA, 0xBB, 0x04}
	for i, b := range want {
		if sec.Data[i] != b {
			t.Fatalf("byte %d = %#x, want %#x", i, sec.Data[i], b)
		}
	}
	if err := sec.PatchAt(3, []byte{0, 0, 0}); err == nil {
		t.Fatal("expected out-of-bounds patch to fail")
	}
}

func TestSectionTableAll(t *testing.T) {
	st := NewSectionTable()
	st.Create(".text", 0, SectionKernelCode, ContainerGallium)
	st.Create(".data", 0, SectionKernelCode, ContainerGallium)
	all := st.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(all))
	}
	if all[0].Name != ".text" || all[1].Name != ".data" {
		t.Fatalf("unexpected order: %v", all)
	}
}
