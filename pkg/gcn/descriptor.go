package gcn

import (
	"sort"
	"sync"
)

// EncodingFamily is the sum-typed enumeration of instruction formats named
// in §1/§6. Encoder dispatch is a switch over this, not a vtable, per §9's
// design note ("closed union of behaviours").
type EncodingFamily int

const (
	EncSOP1 EncodingFamily = iota
	EncSOP2
	EncSOPC
	EncSOPK
	EncSOPP
	EncSMRD // pre-GCN1.2
	EncSMEM // GCN1.2+
	EncVOP1
	EncVOP2
	EncVOPC
	EncVOP3A
	EncVOP3B
	EncVOP3P
	EncVINTRP
	EncDS
	EncMUBUF
	EncMTBUF
	EncMIMG
	EncEXP
	EncFLAT
)

// ModeFlags records per-mnemonic behavioural bits from the original table
// (§3's "mode flags"): whether the instruction is a branch/jump variant,
// whether it can promote from VOP1/2/C/VINTRP to VOP3, and the Vega-only
// opcode-reinterpretation cases §9 asks to model as table properties
// rather than inline comparisons.
type ModeFlags uint32

const (
	ModeBranch ModeFlags = 1 << iota
	ModeUnconditionalBranch
	ModeEndProgram
	ModeHasVOP3Pair // this VOP1/2/C/VINTRP row has (or is) a paired VOP3 opcode
	ModeVOP3Only    // no short form exists; always encodes VOP3A/B
	ModeSDWACapable
	ModeDPPCapable
	ModeIsCmpSwap   // DS/MUBUF/MIMG/FLAT halfwrite atomic (§4.5 step 5)
	ModeIsFCmpSwap
	ModeStoreRequiresUNORM // MIMG store without UNORM is an error (§7)
	ModeVOP3PairIsB        // this row's VOP3 pair (Code2) is a VOP3B (carry-out SDST) form, not VOP3A
)

// ArchOverride models the archive-specific special case §9 calls out:
// on Vega, SOPK opcode 21 is CALL rather than a conditional jump. Modeled
// as a descriptor-level ArchOverride table, not an inline `code1==21`
// comparison, per §9's explicit instruction.
type ArchOverride struct {
	Arch        Arch
	Opcode      int
	OverrideAs  ModeFlags
}

var sopkArchOverrides = []ArchOverride{
	{Arch: Arch1_4, Opcode: 21, OverrideAs: 0}, // CALL: neither Branch nor CJump; see ResolveSOPKFlow
}

// ResolveSOPKFlow returns the effective code-flow kind for a SOPK
// instruction given its opcode and the target architecture, applying the
// Vega-only override table above instead of an inline comparison.
func ResolveSOPKFlow(opcode int, arch Arch) (kind FlowKind, isFlow bool) {
	for _, o := range sopkArchOverrides {
		if o.Arch == arch && o.Opcode == opcode {
			return FlowCall, true
		}
	}
	// every other jump-shaped SOPK opcode (conditional branches) is a
	// CJUMP. isFlow is always true: callers only ask about ModeBranch rows,
	// so the opcode is not checked against the table here.
	return FlowCJump, true
}

// InstrDesc is the merged instruction descriptor of §3: mnemonic, encoding
// family, mode flags, primary/secondary opcode, and supported-architecture
// mask. Code2 is SentinelNoSecondary when the mnemonic has no paired
// VOP1/2/C/VINTRP+VOP3 opcode.
type InstrDesc struct {
	Mnemonic string
	Encoding EncodingFamily
	Mode     ModeFlags
	Code1    int
	Code2    int
	ArchMask ArchMask
}

// SentinelNoSecondary marks InstrDesc.Code2 as absent (mirrors the
// original UINT16_MAX sentinel, per SPEC_FULL.md's SUPPLEMENTED FEATURES).
const SentinelNoSecondary = -1

// rawTable is the pre-merge instruction list, populated in table_data.go.
// It intentionally allows multiple rows to share a mnemonic (one row per
// encoding/arch variant), mirroring the original gcnInstrsTable.
var rawTable []InstrDesc

var (
	mergedOnce  sync.Once
	mergedTable []InstrDesc
	mergedIndex map[string][]int // mnemonic -> indices into mergedTable
)

// Table returns the immutable, merged, sorted instruction descriptor view,
// building it exactly once under a one-shot guard (§5, §9).
func Table() []InstrDesc {
	mergedOnce.Do(buildMergedTable)
	return mergedTable
}

// Lookup finds every merged descriptor row for mnemonic (there can be more
// than one if different architectures define incompatible encodings for
// the same name).
func Lookup(mnemonic string) []InstrDesc {
	mergedOnce.Do(buildMergedTable)
	idxs := mergedIndex[mnemonic]
	out := make([]InstrDesc, len(idxs))
	for i, idx := range idxs {
		out[i] = mergedTable[idx]
	}
	return out
}

// vop3Pairable reports whether family can be folded into a VOP3A/B row.
func vop3Pairable(f EncodingFamily) bool {
	switch f {
	case EncVOP1, EncVOP2, EncVOPC, EncVINTRP:
		return true
	default:
		return false
	}
}

// buildMergedTable is the pure sort+merge transformation of §9's design
// note, grounded on original_source/amdasm/GCNAssembler.cpp's
// initializeGCNAssembler: sort by (mnemonic, encoding, archMask), then fold
// a VOP3A/VOP3B row into the immediately preceding VOP1/VOP2/VOPC/VINTRP
// row for the same mnemonic when their architecture masks overlap,
// filling Code2 instead of inserting a second row.
func buildMergedTable() {
	rows := make([]InstrDesc, len(rawTable))
	copy(rows, rawTable)
	// rawTable entries always set Code2 explicitly (to SentinelNoSecondary
	// when there is no secondary opcode); see table_data.go's newDesc.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Mnemonic != rows[j].Mnemonic {
			return rows[i].Mnemonic < rows[j].Mnemonic
		}
		if rows[i].Encoding != rows[j].Encoding {
			return rows[i].Encoding < rows[j].Encoding
		}
		return rows[i].ArchMask < rows[j].ArchMask
	})

	var merged []InstrDesc
	for _, row := range rows {
		if row.Encoding == EncVOP3A || row.Encoding == EncVOP3B {
			// look back for a same-mnemonic pairable row with an
			// overlapping architecture mask and an empty secondary slot.
			joined := false
			for k := len(merged) - 1; k >= 0 && merged[k].Mnemonic == row.Mnemonic; k-- {
				if vop3Pairable(merged[k].Encoding) && merged[k].ArchMask&row.ArchMask != 0 && merged[k].Code2 == SentinelNoSecondary {
					merged[k].Code2 = row.Code1
					merged[k].Mode |= ModeHasVOP3Pair
					if row.Encoding == EncVOP3B {
						merged[k].Mode |= ModeVOP3PairIsB
					}
					joined = true
					break
				}
			}
			if joined {
				continue
			}
		}
		merged = append(merged, row)
	}

	index := make(map[string][]int, len(merged))
	for i, d := range merged {
		index[d.Mnemonic] = append(index[d.Mnemonic], i)
	}
	mergedTable = merged
	mergedIndex = index
}
