// Package source tracks where a character came from as text flows through
// the filter stack: which file it was read from (and, transitively, which
// files included that file), which macro expansions it passed through, and
// its line and column in the innermost of those.
package source

import "fmt"

// File is one node of the file-inclusion chain. Parent is nil for the
// top-level input file. Nodes are immutable once constructed and may be
// shared by many positions, so a File is safe to keep around after the
// filter that created it has been popped off the stack.
type File struct {
	Name   string
	Parent *File
}

// Push returns a new File node for name, included from f (f may be nil for
// the outermost file).
func (f *File) Push(name string) *File {
	return &File{Name: name, Parent: f}
}

// Macro is one node of the macro-substitution chain, tracking the macro
// name and the position of the invocation that pushed this expansion.
type Macro struct {
	Name   string
	CallAt Position
	Parent *Macro
}

// Push returns a new Macro node recording that name was invoked at callAt,
// nested inside m (m may be nil for a top-level macro invocation).
func (m *Macro) Push(name string, callAt Position) *Macro {
	return &Macro{Name: name, CallAt: callAt, Parent: m}
}

// Position identifies a single character by file chain, macro chain, line
// and column. Positions are immutable value types: copying one is copying a
// pair of pointers plus two ints, so passing them by value (as every
// instruction, symbol, and expression in this repository does) is cheap and
// never aliases mutable state.
type Position struct {
	File   *File
	Macro  *Macro
	Line   int
	Column int
}

// TopFile is the deepest (innermost) file in the chain, i.e. the file the
// character was physically read from before any macro substitution.
func (p Position) TopFile() *File { return p.File }

// TopMacro is the deepest (innermost) macro expansion the character passed
// through, or nil if the character was never inside a macro body.
func (p Position) TopMacro() *Macro { return p.Macro }

// WithLineColumn returns a copy of p with Line and Column replaced.
func (p Position) WithLineColumn(line, column int) Position {
	p.Line, p.Column = line, column
	return p
}

// String renders p as "file:line:col", matching the diagnostics format of
// §6 ("file:line:col: level: message" — the level/message part is added by
// the diagnostics collaborator, out of scope per §1).
func (p Position) String() string {
	name := "<unknown>"
	if p.File != nil {
		name = p.File.Name
	}
	return fmt.Sprintf("%s:%d:%d", name, p.Line, p.Column)
}

// MacroTrace renders the macro-substitution chain caller-then-callee, one
// entry per line, for diagnostics that need to show how a position reached
// deep inside a macro expansion (§6: "macro-substitution chains shown as
// caller-then-callee lines").
func (p Position) MacroTrace() []string {
	var chain []*Macro
	for m := p.Macro; m != nil; m = m.Parent {
		chain = append(chain, m)
	}
	trace := make([]string, len(chain))
	for i, m := range chain {
		// chain is innermost-first; reverse into caller-then-callee order.
		trace[len(chain)-1-i] = fmt.Sprintf("%s: in macro '%s'", m.CallAt, m.Name)
	}
	return trace
}
