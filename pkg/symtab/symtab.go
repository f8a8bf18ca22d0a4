// Package symtab implements the Symbol and Section tables of spec §3/§4.3.
package symtab

import (
	"fmt"

	"github.com/gcnasm/gcnasm/pkg/expr"
	"github.com/gcnasm/gcnasm/pkg/source"
)

// SectionType tags a Section's semantic role (§3).
type SectionType int

const (
	SectionGlobalData SectionType = iota
	SectionKernelCode
	SectionKernelData
	SectionHeader
	SectionMetadata
	SectionComment
	SectionDisassembly
)

// ContainerFamily distinguishes the two object-file families a section can
// belong to; the readers/writers for either family are out of scope per §1,
// but the tag rides along on every Section so an external collaborator can
// dispatch on it.
type ContainerFamily int

const (
	ContainerCatalyst ContainerFamily = iota
	ContainerGallium
)

// Section is a named byte buffer with a kernel id (0 for global) and a
// semantic type tag (§3).
type Section struct {
	ID        int
	Name      string
	KernelID  int
	Type      SectionType
	Container ContainerFamily
	Data      []byte
}

// Offset is the section's current logical output offset (append point).
func (s *Section) Offset() int64 { return int64(len(s.Data)) }

// Append writes b to the end of the section and advances its offset,
// per §3's invariant that writes append to the current section's buffer.
func (s *Section) Append(b []byte) (offset int64) {
	offset = s.Offset()
	s.Data = append(s.Data, b...)
	return offset
}

// PatchAt overwrites the bytes at [offset, offset+len(b)) in place; used by
// the relocation patcher (§4.7) to write a resolved value back into an
// already-emitted instruction.
func (s *Section) PatchAt(offset int64, b []byte) error {
	end := offset + int64(len(b))
	if offset < 0 || end > int64(len(s.Data)) {
		return fmt.Errorf("patch at %d..%d out of bounds (section size %d)", offset, end, len(s.Data))
	}
	copy(s.Data[offset:end], b)
	return nil
}

// SectionTable owns every Section created during one assembler run.
type SectionTable struct {
	sections []*Section
	byName   map[string]*Section
	current  *Section
}

// NewSectionTable returns an empty table.
func NewSectionTable() *SectionTable {
	return &SectionTable{byName: make(map[string]*Section)}
}

// Create adds a new section and returns it; it does not become current
// until SetCurrent is called, matching §3's invariant that "the assembler
// always has a current section during instruction emission" as an
// explicit, driver-controlled property rather than an implicit one.
func (t *SectionTable) Create(name string, kernelID int, typ SectionType, family ContainerFamily) *Section {
	sec := &Section{ID: len(t.sections), Name: name, KernelID: kernelID, Type: typ, Container: family}
	t.sections = append(t.sections, sec)
	t.byName[sectionKey(name, kernelID)] = sec
	return sec
}

func sectionKey(name string, kernelID int) string { return fmt.Sprintf("%d:%s", kernelID, name) }

// Lookup finds a previously created section by name and kernel id.
func (t *SectionTable) Lookup(name string, kernelID int) (*Section, bool) {
	sec, ok := t.byName[sectionKey(name, kernelID)]
	return sec, ok
}

// ByID returns the section with the given id.
func (t *SectionTable) ByID(id int) (*Section, bool) {
	if id < 0 || id >= len(t.sections) {
		return nil, false
	}
	return t.sections[id], true
}

// All returns every section in creation order, for callers that flatten the
// whole table (e.g. the CLI's raw-bytes output mode).
func (t *SectionTable) All() []*Section { return t.sections }

// Current returns the section instructions are currently emitted into.
func (t *SectionTable) Current() *Section { return t.current }

// SetCurrent makes sec the current section.
func (t *SectionTable) SetCurrent(sec *Section) { t.current = sec }

// Symbol is (name, section id, value, defined flag, once-defined flag,
// defining expression, occurrence lists) per §3.
type Symbol struct {
	Name    string
	Defined bool
	Once    bool // "once-defined" labels fail on redefinition
	Value   expr.Value

	Expr *expr.Expression // non-nil while the symbol's value is still pending

	// DefOccurrences records every source position where the symbol was
	// referenced or (re)defined, for "each referenced undefined symbol is
	// reported once per occurrence" (§7).
	DefOccurrences []source.Position

	// pendingExprs are expressions elsewhere in the program (attached to
	// other symbols or relocation sites) that reference this symbol and
	// are still unresolved. §3's invariant: this list always equals the
	// currently pending references, scrubbed on destroy/retarget.
	pendingExprs []*expr.Expression
}

// Table is the name→Symbol map of one assembler instance (§4.3).
type Table struct {
	symbols map[string]*Symbol
}

// New returns an empty symbol table.
func New() *Table { return &Table{symbols: make(map[string]*Symbol)} }

// GetOrCreate returns the named symbol, creating it undefined on first
// reference (§3's lifecycle: "created undefined on first reference").
func (t *Table) GetOrCreate(name string) *Symbol {
	if s, ok := t.symbols[name]; ok {
		return s
	}
	s := &Symbol{Name: name}
	t.symbols[name] = s
	return s
}

// Lookup returns the named symbol without creating it.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	s, ok := t.symbols[name]
	return s, ok
}

// RegisterPending records that expression e references sym and is not yet
// resolved, so that defining sym later can find e to re-evaluate.
func (t *Table) RegisterPending(sym *Symbol, e *expr.Expression) {
	sym.pendingExprs = append(sym.pendingExprs, e)
}

// Unregister removes e from sym's pending list (called when e is destroyed
// or retargeted, per §3/§9's ownership design).
func (t *Table) Unregister(sym *Symbol, e *expr.Expression) {
	out := sym.pendingExprs[:0]
	for _, p := range sym.pendingExprs {
		if p != e {
			out = append(out, p)
		}
	}
	sym.pendingExprs = out
}

// ErrRedefined is returned when a once-defined symbol is assigned twice.
type ErrRedefined struct{ Name string }

func (e *ErrRedefined) Error() string { return fmt.Sprintf("symbol '%s' already defined", e.Name) }

// Resolver adapts a Table to expr.SymbolResolver.
type Resolver struct{ Table *Table }

// Resolve implements expr.SymbolResolver.
func (r Resolver) Resolve(name string) (expr.Value, bool) {
	s, ok := r.Table.symbols[name]
	if !ok || !s.Defined {
		return expr.Value{}, false
	}
	return s.Value, true
}

// Define assigns val directly to sym (a label or an immediately-resolvable
// assignment), enforcing the once-defined rule, then re-evaluates every
// pending dependent in registration order, writing any newly resolved one
// to its target via apply (§4.3).
func (t *Table) Define(sym *Symbol, val expr.Value, pos source.Position, apply func(*Symbol, *expr.Expression, expr.Value) error) error {
	if sym.Defined && sym.Once {
		return &ErrRedefined{Name: sym.Name}
	}
	sym.Value = val
	sym.Defined = true
	sym.Expr = nil
	sym.DefOccurrences = append(sym.DefOccurrences, pos)

	pending := sym.pendingExprs
	sym.pendingExprs = nil
	resolver := Resolver{Table: t}
	for _, e := range pending {
		v, err := e.Evaluate(resolver, nil)
		if err != nil {
			// still unresolved (depends on another undefined symbol);
			// re-register once the caller re-attaches it, but since we
			// already popped it from this symbol's list we must restore
			// membership so a future Define on this symbol tries again.
			t.RegisterPending(sym, e)
			continue
		}
		if err := apply(sym, e, v); err != nil {
			return err
		}
	}
	return nil
}

// DefineOnceLabel is a convenience wrapper for label definitions (§3: "a
// symbol's occurrences... a once-defined label fails on redefinition").
func (t *Table) DefineOnceLabel(sym *Symbol, val expr.Value, pos source.Position, apply func(*Symbol, *expr.Expression, expr.Value) error) error {
	sym.Once = true
	return t.Define(sym, val, pos, apply)
}
