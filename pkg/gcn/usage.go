package gcn

// FieldTag names the encoding-field slot a RegisterUsage record describes
// (§3, §6). VOP promotion to VOP3 renames some tags (e.g. VOP_VDST →
// VOP3_VDST); the encoder rewrites RegisterUsage.Field in place when that
// happens (§4.5 step 4).
type FieldTag int

const (
	FieldSDST FieldTag = iota
	FieldSSRC0
	FieldSSRC1
	FieldSBASE
	FieldSDATA
	FieldSOFFSET

	FieldVOPVDST
	FieldVOPSRC0
	FieldVOPVSRC1
	FieldVOPSSRC0
	FieldVOPSSRC1

	FieldVOP3VDST
	FieldVOP3SRC0
	FieldVOP3SRC1
	FieldVOP3SRC2
	FieldVOP3SDST // VOP3B's carry-out SDST

	FieldVINTRPVDST
	FieldVINTRPVSRC

	FieldDSADDR
	FieldDSDATA0
	FieldDSDATA1
	FieldDSVDST

	FieldMUBUFVADDR
	FieldMUBUFVDATA
	FieldMUBUFSRSRC
	FieldMUBUFSOFFSET
	FieldMUBUFTFE

	FieldMIMGVADDR
	FieldMIMGVDATA
	FieldMIMGSRSRC
	FieldMIMGSSAMP

	FieldEXPVSRC0
	FieldEXPVSRC1
	FieldEXPVSRC2
	FieldEXPVSRC3

	FieldFLATADDR
	FieldFLATDATA
	FieldFLATVDST
)

// RWFlags marks whether a register-usage record reads, writes, or both.
type RWFlags uint8

const (
	Read RWFlags = 1 << iota
	Write
)

func (f RWFlags) ReadWrite() (bool, bool) { return f&Read != 0, f&Write != 0 }

// RegisterUsage is one (field, register range, read/write, alignment)
// tuple, per §3/§6. An instruction produces at most 6 records.
type RegisterUsage struct {
	Field     FieldTag
	Range     RegRange
	Flags     RWFlags
	Alignment int
}

// UsageList caps at 6 entries per §3; encoders append via AddUsage which
// panics past the cap as a programming-error guard (never triggered by
// correct encoders, since every family's operand count is fixed and known
// at compile time).
type UsageList struct {
	Records []RegisterUsage
}

func (u *UsageList) Add(field FieldTag, r RegRange, flags RWFlags) {
	align := NaturalAlignment(r.Class, r.Count())
	u.Records = append(u.Records, RegisterUsage{Field: field, Range: r, Flags: flags, Alignment: align})
	if len(u.Records) > 6 {
		panic("gcn: instruction produced more than 6 register-usage records")
	}
}

// Rewrite changes the Field tag of every record currently tagged `from` to
// `to`, used when VOP2/VOP1/VOPC promotes to VOP3 (§4.5 step 4).
func (u *UsageList) Rewrite(from, to FieldTag) {
	for i := range u.Records {
		if u.Records[i].Field == from {
			u.Records[i].Field = to
		}
	}
}

// SplitHalfwriteAtomic implements §4.5 step 5 for DS/MUBUF/MIMG/FLAT
// cmpswap-style atomics: it replaces the VDATA usage record (found by
// field) with a first-half read+write record and appends a second-half
// read-only record.
func (u *UsageList) SplitHalfwriteAtomic(field FieldTag) {
	for i := range u.Records {
		if u.Records[i].Field != field {
			continue
		}
		full := u.Records[i].Range
		half := full.Count() / 2
		u.Records[i].Range = RegRange{Class: full.Class, Start: full.Start, End: full.Start + half - 1}
		u.Records[i].Flags = Read | Write
		second := RegisterUsage{
			Field:     field,
			Range:     RegRange{Class: full.Class, Start: full.Start + half, End: full.End},
			Flags:     Read,
			Alignment: 1,
		}
		u.Records = append(u.Records, second)
		return
	}
}

// AddTFECarry implements the TFE trailing carry-lane record of §4.5 step 5:
// a single trailing register, read+write.
func (u *UsageList) AddTFECarry(field FieldTag, reg int) {
	u.Add(field, RegRange{Class: ClassVector, Start: reg, End: reg}, Read|Write)
}

// SuppressField removes any usage record tagged field (MUBUF's LDS flag
// suppresses the VDATA usage record, §4.5 step 5).
func (u *UsageList) SuppressField(field FieldTag) {
	out := u.Records[:0]
	for _, r := range u.Records {
		if r.Field != field {
			out = append(out, r)
		}
	}
	u.Records = out
}
