package driver

import (
	"strings"

	"github.com/gcnasm/gcnasm/pkg/filter"
	"github.com/gcnasm/gcnasm/pkg/source"
	"github.com/gcnasm/gcnasm/pkg/symtab"
)

// splitDirective separates a directive's name from its argument text.
func splitDirective(text string) (name, rest string) {
	sp := strings.IndexByte(text, ' ')
	if sp < 0 {
		return text, ""
	}
	return text[:sp], strings.TrimSpace(text[sp+1:])
}

// dispatchDirective handles one `.`-prefixed line (§6). Conditional
// directives are always processed, even inside an inactive `.if` branch,
// so nesting stays balanced; every other directive is skipped while
// inactive.
func (d *Driver) dispatchDirective(text string, pos source.Position) {
	name, rest := splitDirective(text)
	switch name {
	case ".if":
		d.handleIf(rest, pos)
		return
	case ".elseif", ".elif":
		d.handleElseIf(rest, pos)
		return
	case ".else":
		d.handleElse(pos)
		return
	case ".endif":
		d.handleEndif(pos)
		return
	}

	if !d.active() {
		return
	}

	switch name {
	case ".macro":
		d.beginMacro(rest, pos)
	case ".endm":
		d.errorf(pos, ".endm without matching .macro")
	case ".rept":
		d.beginRepeat(rest, pos)
	case ".endr":
		d.errorf(pos, ".endr without matching .rept")
	case ".include":
		d.handleInclude(rest, pos)
	case ".set", ".equ":
		d.handleSet(rest, pos)
	case ".global", ".globl", ".extern", ".weak", ".type":
		d.handleSymbolAttribute(rest)
	case ".section", ".kernel":
		d.handleSection(rest, pos)
	case ".offset":
		d.handleOffset(rest, pos)
	default:
		d.errorf(pos, "unknown directive %q", name)
	}
}

func (d *Driver) handleIf(pred string, pos source.Position) {
	outerActive := d.active()
	f := condFrame{skipEntirely: !outerActive}
	if !f.skipEntirely {
		v, err := d.evalImmediate(pred, pos)
		if err != nil {
			d.errorf(pos, "%v", err)
		} else {
			f.taken = v != 0
			f.anyTaken = f.taken
		}
	}
	d.cond = append(d.cond, f)
}

func (d *Driver) handleElseIf(pred string, pos source.Position) {
	if len(d.cond) == 0 {
		d.errorf(pos, ".elseif without matching .if")
		return
	}
	f := &d.cond[len(d.cond)-1]
	if f.skipEntirely || f.anyTaken {
		f.taken = false
		return
	}
	v, err := d.evalImmediate(pred, pos)
	if err != nil {
		d.errorf(pos, "%v", err)
		f.taken = false
		return
	}
	f.taken = v != 0
	if f.taken {
		f.anyTaken = true
	}
}

func (d *Driver) handleElse(pos source.Position) {
	if len(d.cond) == 0 {
		d.errorf(pos, ".else without matching .if")
		return
	}
	f := &d.cond[len(d.cond)-1]
	if f.skipEntirely {
		return
	}
	f.taken = !f.anyTaken
	f.anyTaken = true
}

func (d *Driver) handleEndif(pos source.Position) {
	if len(d.cond) == 0 {
		d.errorf(pos, ".endif without matching .if")
		return
	}
	d.cond = d.cond[:len(d.cond)-1]
}

func (d *Driver) handleInclude(argText string, pos source.Position) {
	path := strings.Trim(strings.TrimSpace(argText), `"`)
	if path == "" {
		d.errorf(pos, "empty .include path")
		return
	}
	r, err := d.Opener.Open(path)
	if err != nil {
		d.errorf(pos, "cannot open %q: %v", path, err)
		return
	}
	d.Filters.Push(filter.NewStreamFilter(path, r))
}

func (d *Driver) handleSet(argText string, pos source.Position) {
	parts := strings.SplitN(argText, ",", 2)
	if len(parts) != 2 {
		d.errorf(pos, ".set/.equ requires 'name, expr', got %q", argText)
		return
	}
	d.processAssignment(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), pos)
}

// handleSymbolAttribute implements `.global`/`.extern`/etc: visibility ties
// to a container's symbol table, out of scope per §1's non-goals, so this
// only guarantees the named symbols exist.
func (d *Driver) handleSymbolAttribute(argText string) {
	for _, part := range strings.Split(argText, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		d.Symbols.GetOrCreate(fields[0])
	}
}

func (d *Driver) handleSection(argText string, pos source.Position) {
	name := strings.TrimSpace(strings.Trim(argText, `"`))
	if name == "" {
		d.errorf(pos, "empty .section name")
		return
	}
	sec, ok := d.Sections.Lookup(name, 0)
	if !ok {
		sec = d.Sections.Create(name, 0, symtab.SectionKernelCode, symtab.ContainerGallium)
	}
	d.Sections.SetCurrent(sec)
}
