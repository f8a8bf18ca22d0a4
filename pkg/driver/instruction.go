package driver

import (
	"fmt"
	"strings"

	"github.com/gcnasm/gcnasm/pkg/expr"
	"github.com/gcnasm/gcnasm/pkg/gcn"
	"github.com/gcnasm/gcnasm/pkg/source"
	"github.com/gcnasm/gcnasm/pkg/symtab"
)

// processInstruction recognises a macro call before falling back to a real
// GCN mnemonic (§4.1: macro names shadow instruction mnemonics).
func (d *Driver) processInstruction(text string, pos source.Position) {
	head, operandText := splitHead(text)
	if m, ok := d.macros[head]; ok {
		d.applyMacro(m, operandText, pos)
		return
	}
	d.encodeInstruction(head, operandText, pos)
}

func splitHead(text string) (head, rest string) {
	sp := strings.IndexByte(text, ' ')
	if sp < 0 {
		return text, ""
	}
	return text[:sp], strings.TrimSpace(text[sp+1:])
}

// encodeInstruction looks up mnemonic's descriptor (stripping any
// `_e32`/`_e64`/`_sdwa`/`_dpp` suffix for the table lookup, then restoring
// the suffixed spelling so gcn.Encode's own StripSuffix recovers the size
// hint), encodes it, appends the bytes to the current section, and attaches
// any pending relocations (§4.4–§4.7).
func (d *Driver) encodeInstruction(mnemonic, operandText string, pos source.Position) {
	lower := strings.ToLower(mnemonic)
	bare, _ := gcn.StripSuffix(lower)
	descs := gcn.Lookup(bare)
	var desc gcn.InstrDesc
	found := false
	for _, cand := range descs {
		if cand.ArchMask.Supports(d.Arch) {
			desc = cand
			found = true
			break
		}
	}
	if !found {
		d.errorf(pos, "unknown mnemonic %q", mnemonic)
		return
	}
	sec := d.Sections.Current()
	if sec == nil {
		d.errorf(pos, "instruction %q outside any section", mnemonic)
		return
	}
	desc.Mnemonic = lower

	srcOffset := sec.Offset()
	res, err := gcn.Encode(desc, operandText, gcn.ParseCtx{Arch: d.Arch}, srcOffset)
	if err != nil {
		d.errorf(pos, "%v", err)
		return
	}
	byteOff := sec.Append(res.Bytes())
	d.Usage = append(d.Usage, InstructionUsage{SectionID: sec.ID, Offset: byteOff, Usage: res.Usage})

	if res.Flow != nil {
		d.Flow = append(d.Flow, FlowRecord{SectionID: sec.ID, Edge: *res.Flow})
	}
	for _, pend := range res.Pending {
		d.attachPending(sec, byteOff, pend, pos)
	}
}

// attachPending parses a pending relocation's expression text and either
// resolves and patches it immediately, or registers it against every
// symbol it references for later resolution via symtab.Table.Define's
// dependent re-evaluation (§4.7).
func (d *Driver) attachPending(sec *symtab.Section, instrBase int64, pend gcn.PendingReloc, pos source.Position) {
	target := expr.Target{
		Kind:       expr.TargetRelocation,
		SectionID:  sec.ID,
		ByteOffset: instrBase + pend.ByteOffset,
		Reloc:      pend.Kind,
	}
	e, err := expr.Parse(pend.Text, pos, target)
	if err != nil {
		d.errorf(pos, "%v", err)
		return
	}
	v, err := e.Evaluate(symtab.Resolver{Table: d.Symbols}, d.warnFunc(pos))
	if err == nil {
		if aerr := d.applyReloc(target, v); aerr != nil {
			d.errorf(pos, "%v", aerr)
		}
		return
	}
	d.attachExpr(e, pos)
}

// applyReloc patches v's value into target's bit field. Jump relocations
// carry an absolute target address in v.Bits; the hardware field is the
// signed dword-granular displacement from the instruction following the
// branch (§4.2, §8 scenario 3: target at pc+8 encodes as +1).
func (d *Driver) applyReloc(target expr.Target, v expr.Value) error {
	sec, ok := d.Sections.ByID(target.SectionID)
	if !ok {
		return fmt.Errorf("relocation section %d not found", target.SectionID)
	}
	value := v.Bits
	if target.Reloc == expr.RelocJumpRelS16 {
		delta := v.Bits - target.ByteOffset - 4
		if delta%4 != 0 {
			return fmt.Errorf("misaligned jump target: delta %d is not a multiple of 4", delta)
		}
		value = delta / 4
	}
	return gcn.Patch(sec.Data, target.ByteOffset, target.Reloc, value)
}
