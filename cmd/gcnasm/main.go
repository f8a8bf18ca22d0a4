// Command gcnasm is a thin CLI front end over pkg/asm: assemble a source
// file to raw instruction bytes, or disassemble raw bytes back to text.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gcnasm/gcnasm/pkg/asm"
	"github.com/gcnasm/gcnasm/pkg/gcn"
)

func main() {
	log.SetFlags(0)
	filename := flag.String("f", "", "file to process")
	outname := flag.String("o", "", "output file (defaults to stdout)")
	archName := flag.String("arch", "gcn1.2", "target architecture: gcn1.0|gcn1.1|gcn1.2|gcn1.4")
	disasm := flag.Bool("d", false, "disassemble instead of assemble")
	flag.Parse()

	if *filename == "" {
		log.Fatal("usage: gcnasm -f <file> [-o <file>] [-arch gcn1.0|gcn1.1|gcn1.2|gcn1.4] [-d]")
	}
	arch, ok := gcn.ParseArch(*archName)
	if !ok {
		log.Fatalf("unknown -arch %q", *archName)
	}

	fp, err := os.Open(*filename)
	if err != nil {
		log.Fatal(err)
	}
	defer fp.Close()

	w := os.Stdout
	if *outname != "" {
		f, err := os.Create(*outname)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}

	if *disasm {
		runDisassemble(fp, w, arch)
		return
	}
	runAssemble(fp, w, arch)
}

func runAssemble(r io.Reader, w io.Writer, arch gcn.Arch) {
	res := asm.Assemble(r, arch)
	for _, diag := range res.Diagnostics {
		fmt.Fprintln(os.Stderr, diag.String())
	}
	if res.Err != nil {
		log.Fatal(res.Err)
	}
	for _, sec := range res.Sections.All() {
		if _, err := w.Write(sec.Data); err != nil {
			log.Fatal(err)
		}
	}
}

func runDisassemble(r io.Reader, w io.Writer, arch gcn.Arch) {
	data, err := io.ReadAll(r)
	if err != nil {
		log.Fatal(err)
	}
	lines, err := asm.Disassemble(data, arch)
	for _, line := range lines {
		for _, dir := range line.Directives {
			fmt.Fprintln(w, dir)
		}
		if line.Warning != "" {
			fmt.Fprintf(w, "\t/* WARNING: %s */\n", line.Warning)
		}
		if line.Err != nil {
			fmt.Fprintf(w, "\t; error at 0x%x: %v\n", line.Offset, line.Err)
			continue
		}
		fmt.Fprintf(w, "\t%s\n", line.Text)
	}
	if err != nil {
		log.Fatal(err)
	}
}
