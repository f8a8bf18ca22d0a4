// Package asm contains the top-level assembler and disassembler entry
// points. It drives pkg/driver's line dispatch (assembly) or pkg/gcn's
// decoder (disassembly) and packages the result the way the teacher's
// pkg/asm packaged an InstructionOrError stream.
package asm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gcnasm/gcnasm/pkg/driver"
	"github.com/gcnasm/gcnasm/pkg/gcn"
	"github.com/gcnasm/gcnasm/pkg/symtab"
)

// ErrAssemblyFailed is returned (wrapped by an AssembledOutput.Err) when the
// driver recorded at least one error-severity diagnostic.
var ErrAssemblyFailed = errors.New("asm: assembly failed")

// AssembledOutput is one assembler run's result: the populated section
// table plus every diagnostic, code-flow edge, and register-usage record
// the driver collected along the way.
type AssembledOutput struct {
	Sections    *symtab.SectionTable
	Diagnostics []driver.Diagnostic
	Flow        []driver.FlowRecord
	Usage       []driver.InstructionUsage
	Err         error
}

// AssemblerEvent is one item on the channel StartAssembler returns: either
// a diagnostic emitted while the run was in progress, or (exactly once, as
// the final event) the completed AssembledOutput. This generalizes the
// teacher's "sequence of InstructionOrError" to "sequence of diagnostics,
// then one final result" since the driver assembles a whole file before any
// single instruction's bytes are final (a forward branch may still be
// unresolved when its own line is processed).
type AssemblerEvent struct {
	Diagnostic *driver.Diagnostic
	Result     *AssembledOutput
}

// StartAssembler starts the assembler in a background goroutine and returns
// a sequence of AssemblerEvent, closed when the run completes.
func StartAssembler(r io.Reader, arch gcn.Arch) <-chan AssemblerEvent {
	out := make(chan AssemblerEvent)
	go AssemblerAsync(r, arch, out)
	return out
}

// AssemblerAsync runs the assembler, reading source text from r and driving
// pkg/driver over a single default section named "text". It writes each
// diagnostic to out as the run finishes, then the final AssembledOutput.
func AssemblerAsync(r io.Reader, arch gcn.Arch, out chan<- AssemblerEvent) {
	defer close(out)
	sections := symtab.NewSectionTable()
	sec := sections.Create("text", 0, symtab.SectionKernelCode, symtab.ContainerGallium)
	sections.SetCurrent(sec)

	d := driver.New(arch, sections, symtab.New(), nil)
	d.Run("<input>", r)

	for i := range d.Diagnostics {
		out <- AssemblerEvent{Diagnostic: &d.Diagnostics[i]}
	}

	res := AssembledOutput{
		Sections:    sections,
		Diagnostics: d.Diagnostics,
		Flow:        d.Flow,
		Usage:       d.Usage,
	}
	if d.HasErrors() {
		res.Err = ErrAssemblyFailed
	}
	out <- AssemblerEvent{Result: &res}
}

// Assemble is the synchronous convenience wrapper around StartAssembler,
// draining its channel and returning the final result directly.
func Assemble(r io.Reader, arch gcn.Arch) AssembledOutput {
	var res AssembledOutput
	for ev := range StartAssembler(r, arch) {
		if ev.Result != nil {
			res = *ev.Result
		}
	}
	return res
}

// ErrTruncatedStream is returned when a disassembly input's length is not a
// multiple of 4 bytes (every GCN instruction word is a dword).
var ErrTruncatedStream = errors.New("asm: truncated instruction stream")

func wordsOf(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not dword-aligned", ErrTruncatedStream, len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}
