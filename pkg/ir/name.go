package ir

// names holds the display mnemonic for each opcode, in the style of the
// teacher's inst.Catalog[op].Mnemonic lookup.
var names = [OpcodeCount]string{
	Nop: "nop", Br: "br", Call: "call",

	MovI32: "mov_i32", MovI64: "mov_i64",
	MoviI32: "movi_i32", MoviI64: "movi_i64",

	AddI32: "add_i32", AddI64: "add_i64",
	SubI32: "sub_i32", SubI64: "sub_i64",
	MulI32: "mul_i32", MulI64: "mul_i64",

	AndI32: "and_i32", AndI64: "and_i64",
	OrI32: "or_i32", OrI64: "or_i64",
	XorI32: "xor_i32", XorI64: "xor_i64",
	AndcI32: "andc_i32", AndcI64: "andc_i64",
	OrcI32: "orc_i32", OrcI64: "orc_i64",
	EqvI32: "eqv_i32", EqvI64: "eqv_i64",
	NandI32: "nand_i32", NandI64: "nand_i64",
	NorI32: "nor_i32", NorI64: "nor_i64",

	ShlI32: "shl_i32", ShlI64: "shl_i64",
	ShrI32: "shr_i32", ShrI64: "shr_i64",
	SarI32: "sar_i32", SarI64: "sar_i64",
	RotlI32: "rotl_i32", RotlI64: "rotl_i64",
	RotrI32: "rotr_i32", RotrI64: "rotr_i64",

	NotI32: "not_i32", NotI64: "not_i64",
	NegI32: "neg_i32", NegI64: "neg_i64",
	Ext8sI32: "ext8s_i32", Ext8sI64: "ext8s_i64",
	Ext8uI32: "ext8u_i32", Ext8uI64: "ext8u_i64",
	Ext16sI32: "ext16s_i32", Ext16sI64: "ext16s_i64",
	Ext16uI32: "ext16u_i32", Ext16uI64: "ext16u_i64",
	Ext32sI64: "ext32s_i64", Ext32uI64: "ext32u_i64",

	DepositI32: "deposit_i32", DepositI64: "deposit_i64",

	SetcondI32: "setcond_i32", SetcondI64: "setcond_i64",
	BrcondI32: "brcond_i32", BrcondI64: "brcond_i64",
	MovcondI32: "movcond_i32", MovcondI64: "movcond_i64",

	Add2I32: "add2_i32", Sub2I32: "sub2_i32", Mulu2I32: "mulu2_i32",
	Brcond2I32: "brcond2_i32", Setcond2I32: "setcond2_i32",
}

// String returns op's display mnemonic.
func (op Opcode) String() string {
	if int(op) < len(names) && names[op] != "" {
		return names[op]
	}
	return "unknown"
}
