package gcn

// This file is the static instruction table of §3/§9, loaded once into
// rawTable and merged by buildMergedTable. It intentionally covers a
// representative slice of each encoding family rather than AMD's full
// several-hundred-mnemonic set: every mechanism named in the spec (short
// vs. long-form promotion, SDWA/DPP suffix dispatch, cmpswap halfword
// splitting, TFE carry lanes, code-flow edges, waitcnt packing) is
// exercised by at least one entry here, grounded on
// original_source/amdasm/GCNAssembler.cpp's gcnInstrsTable rows for the
// same mnemonics. No row here uses the hwreg() packing of EncodeHwreg.

func newDesc(mnemonic string, enc EncodingFamily, mode ModeFlags, code1 int, archMask ArchMask) InstrDesc {
	return InstrDesc{Mnemonic: mnemonic, Encoding: enc, Mode: mode, Code1: code1, Code2: SentinelNoSecondary, ArchMask: archMask}
}

func init() {
	rawTable = []InstrDesc{
		// SOP1
		newDesc("s_mov_b32", EncSOP1, 0, 0, MaskAll),
		newDesc("s_mov_b64", EncSOP1, 0, 1, MaskAll),
		newDesc("s_not_b32", EncSOP1, 0, 2, MaskAll),
		newDesc("s_cmov_b32", EncSOP1, 0, 3, MaskAll),
		newDesc("s_wqm_b64", EncSOP1, 0, 4, MaskAll),

		// SOP2
		newDesc("s_add_u32", EncSOP2, 0, 0, MaskAll),
		newDesc("s_sub_u32", EncSOP2, 0, 1, MaskAll),
		newDesc("s_add_i32", EncSOP2, 0, 2, MaskAll),
		newDesc("s_and_b32", EncSOP2, 0, 3, MaskAll),
		newDesc("s_or_b32", EncSOP2, 0, 4, MaskAll),
		newDesc("s_lshl_b32", EncSOP2, 0, 5, MaskAll),
		newDesc("s_mul_i32", EncSOP2, 0, 6, MaskAll),

		// SOPC
		newDesc("s_cmp_eq_i32", EncSOPC, 0, 0, MaskAll),
		newDesc("s_cmp_lt_u32", EncSOPC, 0, 1, MaskAll),
		newDesc("s_cmp_gt_i32", EncSOPC, 0, 2, MaskAll),

		// SOPK
		newDesc("s_movk_i32", EncSOPK, 0, 0, MaskAll),
		newDesc("s_cmpk_eq_i32", EncSOPK, 0, 1, MaskAll),
		newDesc("s_addk_i32", EncSOPK, 0, 2, MaskAll),
		newDesc("s_cbranch_i_fork", EncSOPK, ModeBranch, 21, MaskAll),

		// SOPP
		newDesc("s_nop", EncSOPP, 0, 0, MaskAll),
		newDesc("s_endpgm", EncSOPP, ModeEndProgram, 1, MaskAll),
		newDesc("s_endpgm_saved", EncSOPP, ModeEndProgram, 27, MaskGCN1_2Plus),
		newDesc("s_branch", EncSOPP, ModeBranch|ModeUnconditionalBranch, 2, MaskAll),
		newDesc("s_cbranch_scc0", EncSOPP, ModeBranch, 4, MaskAll),
		newDesc("s_cbranch_scc1", EncSOPP, ModeBranch, 5, MaskAll),
		newDesc("s_cbranch_vccz", EncSOPP, ModeBranch, 6, MaskAll),
		newDesc("s_cbranch_vccnz", EncSOPP, ModeBranch, 7, MaskAll),
		newDesc("s_waitcnt", EncSOPP, 0, 12, MaskAll),
		newDesc("s_sendmsg", EncSOPP, 0, 13, MaskAll),

		// SMRD (pre-GCN1.2) / SMEM (GCN1.2+)
		newDesc("s_load_dword", EncSMRD, 0, 0, MaskGCN1_0_1_1),
		newDesc("s_load_dwordx2", EncSMRD, 0, 1, MaskGCN1_0_1_1),
		newDesc("s_load_dwordx4", EncSMRD, 0, 2, MaskGCN1_0_1_1),
		newDesc("s_buffer_load_dword", EncSMRD, 0, 8, MaskGCN1_0_1_1),
		newDesc("s_load_dword", EncSMEM, 0, 0, MaskGCN1_2Plus),
		newDesc("s_load_dwordx2", EncSMEM, 0, 1, MaskGCN1_2Plus),
		newDesc("s_load_dwordx4", EncSMEM, 0, 2, MaskGCN1_2Plus),
		newDesc("s_buffer_load_dword", EncSMEM, 0, 8, MaskGCN1_2Plus),

		// VOP1 (with a VOP3 pair for a couple of entries)
		newDesc("v_mov_b32", EncVOP1, ModeSDWACapable|ModeDPPCapable, 1, MaskAll),
		newDesc("v_cvt_f32_i32", EncVOP1, ModeSDWACapable, 5, MaskAll),
		newDesc("v_cvt_i32_f32", EncVOP1, ModeSDWACapable, 6, MaskAll),
		newDesc("v_not_b32", EncVOP1, 0, 7, MaskAll),

		// VOP2 (paired with VOP3A rows below)
		newDesc("v_add_f32", EncVOP2, ModeSDWACapable|ModeDPPCapable, 3, MaskAll),
		newDesc("v_mul_f32", EncVOP2, ModeSDWACapable|ModeDPPCapable, 8, MaskAll),
		newDesc("v_and_b32", EncVOP2, 0, 9, MaskAll),
		newDesc("v_cndmask_b32", EncVOP2, 0, 0, MaskAll),
		newDesc("v_add_i32", EncVOP2, 0, 25, MaskAll),
		newDesc("v_sub_i32", EncVOP2, 0, 26, MaskAll),

		// VOPC (paired with VOP3A rows below)
		newDesc("v_cmp_eq_f32", EncVOPC, ModeSDWACapable, 2, MaskAll),
		newDesc("v_cmp_lt_f32", EncVOPC, ModeSDWACapable, 1, MaskAll),
		newDesc("v_cmpx_lg_f64", EncVOPC, 0, 53, MaskAll),

		// VOP3A/B: explicit forced-long-form rows, and rows that pair with
		// the VOP1/VOP2/VOPC entries above by sharing mnemonic+archmask.
		newDesc("v_add_f32", EncVOP3A, 0, 259, MaskAll),
		newDesc("v_mul_f32", EncVOP3A, 0, 264, MaskAll),
		newDesc("v_mov_b32", EncVOP3A, 0, 257, MaskAll),
		newDesc("v_cmp_eq_f32", EncVOP3A, 0, 130, MaskAll),
		newDesc("v_cmp_lt_f32", EncVOP3A, 0, 129, MaskAll),
		newDesc("v_add_i32", EncVOP3B, 0, 281, MaskAll),
		newDesc("v_sub_i32", EncVOP3B, 0, 282, MaskAll),
		newDesc("v_mad_f32", EncVOP3A, ModeVOP3Only, 449, MaskAll),
		newDesc("v_fma_f32", EncVOP3A, ModeVOP3Only, 448, MaskGCN1_1|MaskGCN1_2|MaskGCN1_4),

		// VINTRP (paired with a VOP3 form)
		newDesc("v_interp_p1_f32", EncVINTRP, 0, 0, MaskAll),
		newDesc("v_interp_p2_f32", EncVINTRP, 0, 1, MaskAll),
		newDesc("v_interp_mov_f32", EncVINTRP, 0, 2, MaskAll),
		newDesc("v_interp_p1_f32", EncVOP3A, 0, 630, MaskGCN1_2Plus),

		// DS
		newDesc("ds_read2_b32", EncDS, 0, 0x37, MaskAll),
		newDesc("ds_read_b32", EncDS, 0, 0x36, MaskAll),
		newDesc("ds_write_b32", EncDS, 0, 0x0d, MaskAll),
		newDesc("ds_write2_b32", EncDS, 0, 0x0e, MaskAll),
		newDesc("ds_add_u32", EncDS, 0, 0x00, MaskAll),
		newDesc("ds_cmpst_b32", EncDS, ModeIsCmpSwap, 0x10, MaskAll),
		newDesc("ds_cmpst_f64", EncDS, ModeIsFCmpSwap, 0x50, MaskAll),

		// MUBUF
		newDesc("buffer_load_dword", EncMUBUF, 0, 4, MaskAll),
		newDesc("buffer_store_dword", EncMUBUF, 0, 28, MaskAll),
		newDesc("buffer_atomic_cmpswap", EncMUBUF, ModeIsCmpSwap, 49, MaskAll),

		// MTBUF
		newDesc("tbuffer_load_format_x", EncMTBUF, 0, 0, MaskAll),
		newDesc("tbuffer_store_format_x", EncMTBUF, 0, 4, MaskAll),

		// MIMG
		newDesc("image_load", EncMIMG, 0, 0, MaskAll),
		newDesc("image_store", EncMIMG, ModeStoreRequiresUNORM, 8, MaskAll),
		newDesc("image_sample", EncMIMG, 0, 32, MaskAll),

		// EXP
		newDesc("exp", EncEXP, 0, 0, MaskAll),

		// FLAT
		newDesc("flat_load_dword", EncFLAT, 0, 8, MaskGCN1_1|MaskGCN1_2|MaskGCN1_4),
		newDesc("flat_store_dword", EncFLAT, 0, 28, MaskGCN1_1|MaskGCN1_2|MaskGCN1_4),
		newDesc("flat_atomic_cmpswap", EncFLAT, ModeIsCmpSwap, 49, MaskGCN1_1|MaskGCN1_2|MaskGCN1_4),
	}
}
