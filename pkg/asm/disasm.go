package asm

import (
	"fmt"
	"sort"

	"github.com/gcnasm/gcnasm/pkg/gcn"
)

// DisassembledLine is one decoded instruction, with synthetic label
// directives attached when the branch pre-pass found an edge landing here
// (or, for an edge landing mid-instruction, wrapping the previous line) and
// a non-fatal warning surfaced from the decoder (§7, §8 scenario 2).
type DisassembledLine struct {
	Offset     int64
	Directives []string
	Warning    string
	Text       string
	Words      []uint32
	Err        error
}

// DisassemblerEvent is one item on the channel StartDisassembler returns.
type DisassemblerEvent struct {
	Line *DisassembledLine
}

// StartDisassembler starts the disassembler in a background goroutine and
// streams one DisassemblerEvent per decoded line, mirroring StartAssembler's
// channel shape.
func StartDisassembler(data []byte, arch gcn.Arch) <-chan DisassemblerEvent {
	out := make(chan DisassemblerEvent)
	go DisassemblerAsync(data, arch, out)
	return out
}

// DisassemblerAsync runs Disassemble and streams its lines to out.
func DisassemblerAsync(data []byte, arch gcn.Arch, out chan<- DisassemblerEvent) {
	defer close(out)
	lines, _ := Disassemble(data, arch)
	for i := range lines {
		out <- DisassemblerEvent{Line: &lines[i]}
	}
}

// Disassemble decodes data (a raw section's little-endian dword stream)
// into a sequence of lines. It runs the two-pass structure GCNDisasm.cpp
// uses: labelPass classifies and decodes every instruction once to collect
// branch targets into a label set, then formatPass decodes again and emits
// a synthetic label line wherever the first pass found an incoming edge, so
// a forward branch's target label exists even though it lands after the
// branch instruction itself.
func Disassemble(data []byte, arch gcn.Arch) ([]DisassembledLine, error) {
	words, err := wordsOf(data)
	if err != nil {
		return nil, err
	}
	labels, err := labelPass(words, arch)
	if err != nil {
		return nil, err
	}
	return formatPass(words, arch, labels), nil
}

// labelPass collects every branch target the main decode pass will see,
// sorted and de-duplicated, mirroring GCNDisassembler's own pre-pass.
func labelPass(words []uint32, arch gcn.Arch) ([]int64, error) {
	seen := make(map[int64]bool)
	var labels []int64
	total := int64(len(words)) * 4
	for offset := int64(0); offset < total; {
		idx := offset / 4
		d, err := gcn.Decode(words[idx:], arch, offset)
		if err != nil {
			return nil, err
		}
		if d.Flow != nil && d.Flow.Kind != gcn.FlowEnd && !seen[d.Flow.Target] {
			seen[d.Flow.Target] = true
			labels = append(labels, d.Flow.Target)
		}
		offset += int64(len(d.Words)) * 4
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels, nil
}

// formatPass decodes each instruction in turn, attaching a `.L<n>:` label
// directive when a target lands exactly on this instruction's offset. A
// target that lands strictly inside the *previous* instruction (possible
// when a branch's target isn't word-aligned to an instruction boundary,
// §8 scenario 1) has no natural line of its own, so it is rendered as an
// `.offset .-N` / `.L<n>:` / `.offset .+N` bracket attached ahead of the
// current line instead.
func formatPass(words []uint32, arch gcn.Arch, labels []int64) []DisassembledLine {
	var out []DisassembledLine
	total := int64(len(words)) * 4
	prevOffset := int64(-1)
	for offset := int64(0); offset < total; {
		idx := offset / 4
		d, err := gcn.Decode(words[idx:], arch, offset)
		if err != nil {
			out = append(out, DisassembledLine{Offset: offset, Err: err})
			return out
		}
		var dirs []string
		if prevOffset >= 0 {
			for _, target := range labels {
				if target > prevOffset && target < offset {
					back := offset - target
					dirs = append(dirs, fmt.Sprintf(".offset .-%d", back), gcn.FormatFlowLabel(target)+":",
						fmt.Sprintf(".offset .+%d", back))
				}
			}
		}
		for _, target := range labels {
			if target == offset {
				dirs = append(dirs, gcn.FormatFlowLabel(offset)+":")
			}
		}
		line := DisassembledLine{Offset: offset, Words: d.Words, Text: d.Mnemonic + " " + d.Operands,
			Directives: dirs, Warning: d.Warning}
		out = append(out, line)
		prevOffset = offset
		offset += int64(len(d.Words)) * 4
	}
	return out
}
