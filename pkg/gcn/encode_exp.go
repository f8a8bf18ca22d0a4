package gcn

import "strings"

const expPrefix uint32 = 0x3E // bits[31:26]

// EncodeEXP encodes the parameter/render-target export format:
// `exp target, vsrc0, vsrc1, vsrc2, vsrc3 [done] [compr] [vm]` (§4.5). A
// `compr` modifier halves the operand count to two (each source packs two
// half-lanes), matching real hardware's compressed export mode.
func EncodeEXP(desc InstrDesc, operandText string, mods []string, ctx ParseCtx) (Result, error) {
	ops := splitOperands(operandText)
	compr := hasModifier(mods, "compr")
	want := 5
	if compr {
		want = 3
	}
	if len(ops) != want {
		return Result{}, &ErrOperandCount{Mnemonic: desc.Mnemonic, Got: len(ops), Want: want}
	}

	target, err := parseExportTarget(ops[0])
	if err != nil {
		return Result{}, err
	}
	srcs := make([]Operand, len(ops)-1)
	for i := 1; i < len(ops); i++ {
		srcs[i-1], err = ParseOperand(ops[i], ctx, true)
		if err != nil {
			return Result{}, err
		}
	}

	var done, comprBit, vm uint32
	if hasModifier(mods, "done") {
		done = 1
	}
	if compr {
		comprBit = 1
	}
	if hasModifier(mods, "vm") {
		vm = 1
	}

	word0 := (expPrefix << 26) | (uint32(target) << 4) | (done << 11) | (comprBit << 10) | (vm << 12)
	var word1 uint32
	fields := []FieldTag{FieldEXPVSRC0, FieldEXPVSRC1, FieldEXPVSRC2, FieldEXPVSRC3}
	for i, s := range srcs {
		word1 |= uint32(s.Range.Start) << (8 * uint(i))
	}
	res := Result{Words: []uint32{word0, word1}}
	for i, s := range srcs {
		res.Usage.Add(fields[i], s.Range, Read)
	}
	return res, nil
}

var exportTargets = map[string]int{
	"mrt0": 0, "mrt1": 1, "mrt2": 2, "mrt3": 3, "mrt4": 4, "mrt5": 5, "mrt6": 6, "mrt7": 7,
	"mrtz": 8, "null": 9, "pos0": 12, "pos1": 13, "pos2": 14, "pos3": 15,
	"param0": 32, "param1": 33, "param2": 34,
}

func parseExportTarget(text string) (int, error) {
	if v, ok := exportTargets[strings.ToLower(strings.TrimSpace(text))]; ok {
		return v, nil
	}
	return 0, &ErrBadOperand{Text: text}
}
