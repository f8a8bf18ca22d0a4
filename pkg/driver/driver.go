// Package driver implements the textual assembly front end of spec §4.1/§6:
// the filter-stack-driven line dispatcher that recognises labels, symbol
// assignments, directives, and instructions, and wires them onto pkg/expr,
// pkg/symtab and pkg/gcn.
//
// It is grounded on risc32/pkg/asm/asm.go's AssemblerAsync control loop
// (range over a line source, dispatch per line, accumulate results) but
// generalised from a fixed two-pass label table to symtab.Table's
// dependent-re-evaluation mechanism, since a GCN pending relocation may
// depend on a symbol defined arbitrarily later (or never).
package driver

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gcnasm/gcnasm/pkg/expr"
	"github.com/gcnasm/gcnasm/pkg/filter"
	"github.com/gcnasm/gcnasm/pkg/gcn"
	"github.com/gcnasm/gcnasm/pkg/source"
	"github.com/gcnasm/gcnasm/pkg/symtab"
)

// Severity classifies a Diagnostic (§7).
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is one driver-emitted message, rendered by the caller as
// "file:line:col: level: message" per §6.
type Diagnostic struct {
	Pos      source.Position
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// InstructionUsage is one entry of the register-usage stream presented to
// an external register-pressure collaborator, per §6.
type InstructionUsage struct {
	SectionID int
	Offset    int64
	Usage     gcn.UsageList
}

// FlowRecord is one entry of the code-flow stream, tagged with the section
// it belongs to since a run may emit more than one kernel-code section.
type FlowRecord struct {
	SectionID int
	Edge      gcn.FlowEdge
}

// Opener resolves a `.include "path"` directive to a readable stream; the
// default implementation reads plain files, but a caller embedding the
// driver in a different host (an in-memory test, a virtual filesystem) can
// substitute its own.
type Opener interface {
	Open(path string) (io.Reader, error)
}

type osOpener struct{}

func (osOpener) Open(path string) (io.Reader, error) { return os.Open(path) }

// condFrame is one entry of the `.if`/`.elseif`/`.else`/`.endif` stack.
type condFrame struct {
	skipEntirely bool // true when the enclosing context was already inactive
	taken        bool
	anyTaken     bool
}

type captureKind int

const (
	captureNone captureKind = iota
	captureMacro
	captureRepeat
)

// deferredExpr is an expression the driver could not evaluate immediately;
// it is re-attempted once at end of run to produce a final diagnostic for
// anything that never resolved (§7).
type deferredExpr struct {
	e   *expr.Expression
	pos source.Position
}

// Driver is one assembly run's textual front end: filter stack, symbol and
// section tables, macro/conditional/repeat state, and the accumulated
// code-flow and register-usage streams (§3, §4.1, §6).
type Driver struct {
	Arch     gcn.Arch
	Sections *symtab.SectionTable
	Symbols  *symtab.Table
	Opener   Opener

	Filters filter.Stack

	Flow        []FlowRecord
	Usage       []InstructionUsage
	Diagnostics []Diagnostic

	macros map[string]*macroDef
	cond   []condFrame

	offsetBias int64

	capturing     captureKind
	captureDepth  int
	captureName   string
	captureParams []macroParam
	captureCount  int
	captureDecl   source.Position
	captureLines  []string
	captureCols   []filter.ColumnMap

	deferred []deferredExpr
}

// New returns a Driver over the given section/symbol tables. sections and
// symbols are typically shared across an entire assembler run (possibly
// spanning several kernels, hence several `.include`d files); a nil opener
// defaults to reading from the local filesystem.
func New(arch gcn.Arch, sections *symtab.SectionTable, symbols *symtab.Table, opener Opener) *Driver {
	if opener == nil {
		opener = osOpener{}
	}
	return &Driver{
		Arch:     arch,
		Sections: sections,
		Symbols:  symbols,
		Opener:   opener,
		macros:   make(map[string]*macroDef),
	}
}

// HasErrors reports whether any diagnostic emitted so far is an error, the
// process exit code driver of §7.
func (d *Driver) HasErrors() bool {
	for _, diag := range d.Diagnostics {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (d *Driver) diag(pos source.Position, sev Severity, msg string) {
	d.Diagnostics = append(d.Diagnostics, Diagnostic{Pos: pos, Severity: sev, Message: msg})
}

func (d *Driver) errorf(pos source.Position, format string, args ...interface{}) {
	d.diag(pos, SeverityError, fmt.Sprintf(format, args...))
}

func (d *Driver) warnFunc(pos source.Position) expr.Warner {
	return func(p source.Position, msg string) {
		if p == (source.Position{}) {
			p = pos
		}
		d.diag(p, SeverityWarning, msg)
	}
}

// Run reads name/r through the filter stack until exhausted, dispatching
// every cooked line, and finally checks for unterminated blocks and
// residual unresolved expressions (§4.1, §7).
func (d *Driver) Run(name string, r io.Reader) {
	d.Filters.Push(filter.NewStreamFilter(name, r))
	for {
		line, ok, err := d.Filters.Next()
		if err != nil {
			d.errorf(source.Position{}, "%v", err)
			return
		}
		if !ok {
			break
		}
		if rf, isRept := d.Filters.Top().(*filter.RepeatFilter); isRept {
			line.Text = strings.ReplaceAll(line.Text, `\@`, rf.CounterLiteral())
		}
		if d.capturing != captureNone {
			d.handleCaptureLine(line)
			continue
		}
		d.processLine(line)
	}
	if len(d.cond) > 0 {
		d.errorf(source.Position{}, "unterminated .if block")
	}
	if d.capturing != captureNone {
		d.errorf(source.Position{}, "unterminated .macro/.rept block")
	}
	d.finalizeFlow()
	d.reportUnresolved()
}

func (d *Driver) reportUnresolved() {
	for _, def := range d.deferred {
		if _, err := def.e.Evaluate(symtab.Resolver{Table: d.Symbols}, d.warnFunc(def.pos)); err != nil {
			d.errorf(def.pos, "%v", err)
		}
	}
}

// finalizeFlow fills in the Target of every jump-shaped FlowRecord whose
// relocation resolved after the record was created, by redecoding the
// now-fully-patched instruction word — reusing gcn.Decode instead of
// re-deriving the PC-relative formula a second time.
func (d *Driver) finalizeFlow() {
	for i := range d.Flow {
		rec := &d.Flow[i]
		if rec.Edge.Kind == gcn.FlowEnd {
			continue
		}
		sec, ok := d.Sections.ByID(rec.SectionID)
		if !ok || rec.Edge.Source < 0 || int(rec.Edge.Source)+4 > len(sec.Data) {
			continue
		}
		word := binary.LittleEndian.Uint32(sec.Data[rec.Edge.Source:])
		decoded, err := gcn.Decode([]uint32{word}, d.Arch, rec.Edge.Source)
		if err == nil && decoded.Flow != nil {
			rec.Edge.Target = decoded.Flow.Target
		}
	}
}

func (d *Driver) active() bool {
	for _, f := range d.cond {
		if f.skipEntirely || !f.taken {
			return false
		}
	}
	return true
}

// processLine strips any leading `label:` prefixes, then dispatches the
// remainder as a directive, an assignment, or an instruction (§4.1's
// grammar, §6's textual surface).
func (d *Driver) processLine(line filter.Line) {
	text := strings.TrimSpace(line.Text)
	pos := line.Pos
	for {
		name, rest, ok := splitLabel(text)
		if !ok {
			break
		}
		if d.active() {
			d.defineLabel(name, pos)
		}
		text = strings.TrimSpace(rest)
	}
	if text == "" {
		return
	}
	if strings.HasPrefix(text, ".") {
		d.dispatchDirective(text, pos)
		return
	}
	if !d.active() {
		return
	}
	if name, exprText, ok := splitAssignment(text); ok {
		d.processAssignment(name, exprText, pos)
		return
	}
	d.processInstruction(text, pos)
}

// splitLabel recognises a leading `ident:` prefix, where ident may itself
// start with `.` (GNU-as local labels such as `.L1:`).
func splitLabel(text string) (name, rest string, ok bool) {
	i := 0
	for i < len(text) && isIdentByte(text[i]) {
		i++
	}
	if i == 0 || i >= len(text) || text[i] != ':' {
		return "", "", false
	}
	return text[:i], text[i+1:], true
}

// splitAssignment recognises `name = expr` / `name=expr`, guarding against
// `==`/`!=` and against directive text (never reached here since directives
// are checked first).
func splitAssignment(text string) (name, exprText string, ok bool) {
	idx := strings.IndexByte(text, '=')
	if idx <= 0 {
		return "", "", false
	}
	if idx+1 < len(text) && text[idx+1] == '=' {
		return "", "", false
	}
	if text[idx-1] == '!' || text[idx-1] == '<' || text[idx-1] == '>' {
		return "", "", false
	}
	name = strings.TrimSpace(text[:idx])
	if !isValidIdent(name) {
		return "", "", false
	}
	return name, strings.TrimSpace(text[idx+1:]), true
}

func isValidIdent(s string) bool {
	if s == "" || isDigit(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c == '$' || isDigit(c) ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// defineLabel assigns the label sym the current section's append point
// (biased by any open `.offset` adjustment, §9's original-source-derived
// mid-instruction labelling support), enforcing once-defined semantics.
func (d *Driver) defineLabel(name string, pos source.Position) {
	sec := d.Sections.Current()
	if sec == nil {
		d.errorf(pos, "label %q defined outside any section", name)
		return
	}
	sym := d.Symbols.GetOrCreate(name)
	val := expr.Value{Bits: sec.Offset() + d.offsetBias, SectionID: sec.ID, Absolute: false}
	if err := d.Symbols.DefineOnceLabel(sym, val, pos, d.symApply); err != nil {
		d.errorf(pos, "%v", err)
	}
}

// processAssignment implements `name = expr` / `.set`/`.equ` (§4.1, §6).
func (d *Driver) processAssignment(name, exprText string, pos source.Position) {
	target := expr.Target{Kind: expr.TargetSymbol, SymbolName: name}
	e, err := expr.Parse(exprText, pos, target)
	if err != nil {
		d.errorf(pos, "%v", err)
		return
	}
	sym := d.Symbols.GetOrCreate(name)
	v, err := e.Evaluate(symtab.Resolver{Table: d.Symbols}, d.warnFunc(pos))
	if err == nil {
		if defErr := d.Symbols.Define(sym, v, pos, d.symApply); defErr != nil {
			d.errorf(pos, "%v", defErr)
		}
		return
	}
	sym.Expr = e
	d.attachExpr(e, pos)
}

// attachExpr records e as pending against every symbol it references, and
// remembers it for the final unresolved-symbol sweep at end of run.
func (d *Driver) attachExpr(e *expr.Expression, pos source.Position) {
	d.deferred = append(d.deferred, deferredExpr{e: e, pos: pos})
	for _, leaf := range e.Args {
		if leaf.IsSymbol() {
			sym := d.Symbols.GetOrCreate(leaf.Symbol.Name)
			d.Symbols.RegisterPending(sym, e)
		}
	}
}

// symApply is the callback threaded through every symtab.Table.Define call:
// once an expression that targets a symbol assignment or a relocation site
// fully resolves, it applies the result to the right place (§4.3, §4.7).
func (d *Driver) symApply(_ *symtab.Symbol, e *expr.Expression, v expr.Value) error {
	switch e.Target.Kind {
	case expr.TargetSymbol:
		target := d.Symbols.GetOrCreate(e.Target.SymbolName)
		return d.Symbols.Define(target, v, e.Pos, d.symApply)
	case expr.TargetRelocation:
		return d.applyReloc(e.Target, v)
	default:
		return nil
	}
}

// evalImmediate evaluates text as a plain integer expression that must
// resolve right now (`.if`/`.rept` predicates, §4.1: "no deferral").
func (d *Driver) evalImmediate(text string, pos source.Position) (int64, error) {
	e, err := expr.Parse(text, pos, expr.Target{})
	if err != nil {
		return 0, err
	}
	v, err := e.Evaluate(symtab.Resolver{Table: d.Symbols}, d.warnFunc(pos))
	if err != nil {
		return 0, err
	}
	return v.Bits, nil
}

// handleOffset implements the `.offset .-N` / `.offset .+N` disassembler
// round-trip idiom of §8 scenario 1: it lets a label declared between two
// halves of an already-emitted multi-word instruction record the byte
// offset of that inner boundary rather than the instruction's end.
func (d *Driver) handleOffset(argText string, pos source.Position) {
	argText = strings.TrimSpace(argText)
	if !strings.HasPrefix(argText, ".") {
		d.errorf(pos, "unsupported .offset expression %q", argText)
		return
	}
	rest := strings.TrimSpace(argText[1:])
	if rest == "" {
		d.offsetBias = 0
		return
	}
	sign := int64(1)
	switch rest[0] {
	case '+':
		rest = rest[1:]
	case '-':
		sign = -1
		rest = rest[1:]
	default:
		d.errorf(pos, "unsupported .offset expression %q", argText)
		return
	}
	n, err := strconv.ParseInt(strings.TrimSpace(rest), 0, 64)
	if err != nil {
		d.errorf(pos, "bad .offset expression %q: %v", argText, err)
		return
	}
	d.offsetBias += sign * n
}
